// Package pangolin is a thin client for the rule endpoints of the Pangolin
// API. Calls either fully succeed or fully fail; timeouts and non-2xx
// responses are plain errors for the caller to retry on a later sweep.
package pangolin

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"ipwarden/pkg/jsonhelper"

	jsoniter "github.com/json-iterator/go"
)

type Client struct {
	baseURL    string
	token      string
	resourceID string
	http       *http.Client
}

func NewClient(baseURL, token, resourceID string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		token:      token,
		resourceID: resourceID,
		http:       &http.Client{Timeout: timeout},
	}
}

type createRuleRequest struct {
	Action   string `json:"action"`
	Match    string `json:"match"`
	Value    string `json:"value"`
	Priority int    `json:"priority"`
	Enabled  bool   `json:"enabled"`
}

// CreateRule upserts an ACCEPT rule for ip on the configured resource and
// returns the rule identifier. A 2xx response without a recognizable
// identifier counts as a failure.
func (c *Client) CreateRule(ctx context.Context, ip string) (string, error) {
	url := fmt.Sprintf("%s/resource/%s/rule", c.baseURL, c.resourceID)
	body := jsonhelper.Encode(createRuleRequest{
		Action:   "ACCEPT",
		Match:    "IP",
		Value:    ip,
		Priority: 0,
		Enabled:  true,
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build create request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("create rule for %s: %w", ip, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read create response: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("create rule for %s: status %d: %s", ip, resp.StatusCode, strings.TrimSpace(string(data)))
	}

	if id := ruleIDFromResponse(data); id != "" {
		return id, nil
	}
	return "", fmt.Errorf("rule created for %s but no id found in response", ip)
}

// DeleteRule removes a rule by identifier. 200 and 204 both count as done.
func (c *Client) DeleteRule(ctx context.Context, ruleID string) error {
	url := fmt.Sprintf("%s/resource/%s/rule/%s", c.baseURL, c.resourceID, ruleID)

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return fmt.Errorf("build delete request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("delete rule %s: %w", ruleID, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("delete rule %s: status %d", ruleID, resp.StatusCode)
	}
	return nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")
}

// ruleIDFromResponse checks the two known success shapes in order: the
// nested data.ruleId field, then a top-level id. Numeric identifiers are
// normalised to their decimal string form.
func ruleIDFromResponse(data []byte) string {
	if id := anyToID(jsonhelper.Get(data, "data", "ruleId")); id != "" {
		return id
	}
	return anyToID(jsonhelper.Get(data, "id"))
}

func anyToID(v jsoniter.Any) string {
	switch v.ValueType() {
	case jsoniter.StringValue, jsoniter.NumberValue:
		return v.ToString()
	}
	return ""
}
