package extractor

import (
	"fmt"
	"os"
	"strings"

	"ipwarden/pkg/jsonhelper"

	"github.com/pelletier/go-toml/v2"
)

const (
	// DefaultMarker tags the session-exchange line the auth layer writes on
	// every successful login.
	DefaultMarker = "Exchange session: Badger sent "
	// DefaultField is the payload field carrying the remote endpoint as ip:port.
	DefaultField = "requestIp"
)

// Extractor classifies raw log lines and pulls the source IP out of login
// events.
type Extractor struct {
	marker string
	field  string
}

func New() *Extractor {
	return &Extractor{marker: DefaultMarker, field: DefaultField}
}

type profile struct {
	Marker string `toml:"marker"`
	Field  string `toml:"field"`
}

// NewFromProfile builds an extractor from a TOML profile; keys absent from
// the file keep their defaults. The profile was configured explicitly, so a
// missing or broken file is an error rather than a silent fallback.
func NewFromProfile(path string) (*Extractor, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	p := profile{Marker: DefaultMarker, Field: DefaultField}
	if err := toml.NewDecoder(f).Decode(&p); err != nil {
		return nil, fmt.Errorf("decode extractor profile: %w", err)
	}
	return &Extractor{marker: p.Marker, field: p.Field}, nil
}

// Extract returns the source IP of a login line. Lines without the marker,
// with an unparseable payload, or with an implausible address yield
// ok == false; those are the normal case for most log traffic, not errors.
func (e *Extractor) Extract(line string) (ip string, ok bool) {
	if !strings.Contains(line, e.marker) {
		return "", false
	}

	start := strings.Index(line, "{")
	end := strings.LastIndex(line, "}")
	if start == -1 || end < start {
		return "", false
	}

	value := jsonhelper.Get([]byte(line[start:end+1]), e.field)
	if value.LastError() != nil {
		return "", false
	}

	ip, _, _ = strings.Cut(value.ToString(), ":")
	if ip == "" || !strings.Contains(ip, ".") {
		return "", false
	}
	return ip, true
}
