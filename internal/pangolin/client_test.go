package pangolin

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, "secret-token", "1", 2*time.Second), srv
}

func TestCreateRuleNestedIDShape(t *testing.T) {
	var gotMethod, gotPath, gotAuth, gotBody string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"data": {"ruleId": 42}}`))
	})

	id, err := client.CreateRule(context.Background(), "203.0.113.5")
	if err != nil {
		t.Fatalf("CreateRule: %v", err)
	}
	if id != "42" {
		t.Errorf("id = %q, want %q", id, "42")
	}
	if gotMethod != http.MethodPut {
		t.Errorf("method = %s, want PUT", gotMethod)
	}
	if gotPath != "/resource/1/rule" {
		t.Errorf("path = %s, want /resource/1/rule", gotPath)
	}
	if gotAuth != "Bearer secret-token" {
		t.Errorf("auth = %q, want bearer token", gotAuth)
	}
	for _, want := range []string{`"ACCEPT"`, `"IP"`, `"203.0.113.5"`} {
		if !strings.Contains(gotBody, want) {
			t.Errorf("body %q missing %s", gotBody, want)
		}
	}
}

func TestCreateRuleTopLevelIDShape(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id": "abc-123"}`))
	})

	id, err := client.CreateRule(context.Background(), "203.0.113.5")
	if err != nil {
		t.Fatalf("CreateRule: %v", err)
	}
	if id != "abc-123" {
		t.Errorf("id = %q, want %q", id, "abc-123")
	}
}

func TestCreateRuleSuccessWithoutIDFails(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": "ok"}`))
	})

	if _, err := client.CreateRule(context.Background(), "203.0.113.5"); err == nil {
		t.Fatalf("2xx without an identifier must fail")
	}
}

func TestCreateRuleNon2xxFails(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	})

	if _, err := client.CreateRule(context.Background(), "203.0.113.5"); err == nil {
		t.Fatalf("403 must fail")
	}
}

func TestDeleteRuleNoContent(t *testing.T) {
	var gotMethod, gotPath string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	})

	if err := client.DeleteRule(context.Background(), "42"); err != nil {
		t.Fatalf("DeleteRule: %v", err)
	}
	if gotMethod != http.MethodDelete {
		t.Errorf("method = %s, want DELETE", gotMethod)
	}
	if gotPath != "/resource/1/rule/42" {
		t.Errorf("path = %s, want /resource/1/rule/42", gotPath)
	}
}

func TestDeleteRuleNon2xxFails(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone wrong", http.StatusInternalServerError)
	})

	if err := client.DeleteRule(context.Background(), "42"); err == nil {
		t.Fatalf("500 must fail")
	}
}

func TestTransportErrorFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on
	client := NewClient(srv.URL, "secret-token", "1", time.Second)

	if _, err := client.CreateRule(context.Background(), "203.0.113.5"); err == nil {
		t.Fatalf("transport error must fail")
	}
	if err := client.DeleteRule(context.Background(), "42"); err == nil {
		t.Fatalf("transport error must fail")
	}
}
