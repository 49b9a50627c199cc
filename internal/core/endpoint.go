package core

import (
	"fmt"
	"net"
	"net/url"
	"strings"
)

// processEndpoint turns a collector endpoint into the host:port form the gRPC
// exporters expect. A scheme, when present, decides transport security:
// https forces TLS and http forces plaintext, overriding insecure.
func processEndpoint(endpoint string, insecure bool) (string, bool, error) {
	if endpoint == "" || !strings.Contains(endpoint, "://") {
		return endpoint, insecure, nil
	}

	u, err := url.Parse(endpoint)
	if err != nil {
		return "", false, fmt.Errorf("parse endpoint %q: %w", endpoint, err)
	}

	port := u.Port()
	switch u.Scheme {
	case "https":
		insecure = false
		if port == "" {
			port = "443"
		}
	case "http":
		insecure = true
		if port == "" {
			port = "80"
		}
	default:
		return "", false, fmt.Errorf("unsupported endpoint scheme %q", u.Scheme)
	}

	return net.JoinHostPort(u.Hostname(), port), insecure, nil
}
