package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessEndpoint(t *testing.T) {
	tests := []struct {
		in           string
		insecure     bool
		wantHost     string
		wantInsecure bool
	}{
		{"", false, "", false},
		{"otel-collector.temporal.svc:4317", false, "otel-collector.temporal.svc:4317", false},
		{"localhost:4317", true, "localhost:4317", true},
		// a scheme wins over the insecure flag
		{"https://collector.parseable.example", true, "collector.parseable.example:443", false},
		{"https://collector.parseable.example:8443", true, "collector.parseable.example:8443", false},
		{"http://localhost", false, "localhost:80", true},
		{"http://localhost:4317", false, "localhost:4317", true},
		{"http://[::1]:4317", false, "[::1]:4317", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			host, insecure, err := processEndpoint(tt.in, tt.insecure)
			require.NoError(t, err)
			assert.Equal(t, tt.wantHost, host)
			assert.Equal(t, tt.wantInsecure, insecure)
		})
	}
}

func TestProcessEndpoint_UnsupportedScheme(t *testing.T) {
	_, _, err := processEndpoint("ftp://collector.parseable.example:21", false)
	assert.Error(t, err)
}
