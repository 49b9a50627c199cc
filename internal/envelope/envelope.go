// Package envelope derives the per-signal routing metadata Parseable expects on
// every OTLP export request: the destination URL and the fixed header set.
package envelope

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
)

// Signal is an OpenTelemetry signal family. It doubles as the OTLP/HTTP path
// segment, so unknown values are legal and simply produce unknown paths.
type Signal string

const (
	Traces  Signal = "traces"
	Logs    Signal = "logs"
	Metrics Signal = "metrics"
)

// Header names understood by Parseable.
const (
	HeaderAuthorization = "Authorization"
	HeaderStream        = "X-P-Stream"
	HeaderLogSource     = "X-P-Log-Source"
)

// logSources maps known signals to the X-P-Log-Source value Parseable uses to
// pick its OTel ingestion schema.
var logSources = map[Signal]string{
	Traces:  "otel-traces",
	Logs:    "otel-logs",
	Metrics: "otel-metrics",
}

// Profile is the backend target and credentials.
type Profile struct {
	BaseURL  string
	Username string
	Password string
}

// Envelope is the destination and headers for one (stream, signal) pair.
type Envelope struct {
	URL     string
	Headers map[string]string
}

// Build returns the envelope for exporting signal into stream.
// The only failure is an unparseable base URL. The error never quotes the
// URL, which may carry credentials.
func Build(p Profile, stream string, signal Signal) (Envelope, error) {
	base, err := url.Parse(p.BaseURL)
	if err != nil {
		var uerr *url.Error
		if errors.As(err, &uerr) {
			err = uerr.Err
		}
		return Envelope{}, fmt.Errorf("build %s endpoint: invalid base url: %w", signal, err)
	}

	return Envelope{
		URL: base.JoinPath("v1", string(signal)).String(),
		Headers: map[string]string{
			HeaderAuthorization: BasicAuth(p.Username, p.Password),
			HeaderStream:        stream,
			HeaderLogSource:     LogSource(signal),
		},
	}, nil
}

// BasicAuth returns the value of a Basic Authorization header.
func BasicAuth(username, password string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(username+":"+password))
}

// LogSource returns the X-P-Log-Source value for signal.
func LogSource(signal Signal) string {
	if v, ok := logSources[signal]; ok {
		return v
	}
	return "otel-" + string(signal)
}

// Redact returns raw with any password replaced by "xxxxx", for logging.
// An unparseable raw yields a placeholder rather than the original text.
func Redact(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "<invalid url>"
	}
	return u.Redacted()
}
