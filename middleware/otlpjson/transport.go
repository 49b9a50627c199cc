// Package otlpjson rewrites OTLP/HTTP protobuf export requests as OTLP/JSON on
// their way to the network.
//
// OTLP exporters only speak protobuf over HTTP. Installing the Transport in the
// exporter's http.Client changes the bytes on the wire while leaving the
// exporter's batching, retry and backoff untouched:
//
//	client := otlpjson.Client(transcode.TraceRequest, "http://localhost:8000/v1/traces")
//	exp, err := otlptracehttp.New(ctx,
//	    otlptracehttp.WithEndpointURL("http://localhost:8000/v1/traces"),
//	    otlptracehttp.WithHTTPClient(client),
//	)
package otlpjson

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/JupiterMetaLabs/temporal-parseable/internal/transcode"
	"github.com/klauspost/compress/gzip"
)

// Media types of OTLP/HTTP bodies.
const (
	ContentTypeProtobuf = "application/x-protobuf"
	ContentTypeJSON     = "application/json"
)

// Transport is an http.RoundTripper bound to one export request shape and one
// URL prefix. Requests outside that binding are forwarded untouched.
// A Transport is immutable and safe for concurrent use.
type Transport struct {
	shape  transcode.Shape
	prefix string
	base   http.RoundTripper
}

// NewTransport returns a Transport that transcodes shape requests sent to URLs
// starting with prefix. A nil base uses http.DefaultTransport.
//
// Only the scheme, host and path of prefix take part in matching. The OTLP
// exporters rebuild request URLs from those three, so userinfo or a query
// on prefix would otherwise never match.
func NewTransport(shape transcode.Shape, prefix string, base http.RoundTripper) *Transport {
	if base == nil {
		base = http.DefaultTransport
	}
	if u, err := url.Parse(prefix); err == nil && u.Host != "" {
		prefix = matchKey(u)
	}
	return &Transport{shape: shape, prefix: prefix, base: base}
}

func matchKey(u *url.URL) string {
	return strings.ToLower(u.Scheme) + "://" + strings.ToLower(u.Host) + u.Path
}

// Matches reports whether req is a protobuf export request for this binding.
// A body of unknown length (ContentLength 0) still matches; Intercept decides
// emptiness once it has read it.
func (t *Transport) Matches(req *http.Request) bool {
	if req.Body == nil || req.Body == http.NoBody {
		return false
	}
	if req.URL == nil || !strings.HasPrefix(matchKey(req.URL), t.prefix) {
		return false
	}
	mt, _, err := mime.ParseMediaType(req.Header.Get("Content-Type"))
	return err == nil && mt == ContentTypeProtobuf
}

// Intercept returns req itself when it does not match, otherwise a clone whose
// body is the OTLP/JSON form of the original. The original body is consumed
// and closed. A gzip-encoded request yields a gzip-encoded JSON body. A
// matching request whose body turns out empty is forwarded unchanged, with
// an empty body.
func (t *Transport) Intercept(req *http.Request) (*http.Request, error) {
	if !t.Matches(req) {
		return req, nil
	}

	body, err := io.ReadAll(req.Body)
	req.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("otlpjson: read %s body: %w", t.shape, err)
	}
	if len(body) == 0 {
		r := req.Clone(req.Context())
		r.Body = http.NoBody
		r.GetBody = func() (io.ReadCloser, error) { return http.NoBody, nil }
		return r, nil
	}

	compressed := strings.EqualFold(req.Header.Get("Content-Encoding"), "gzip")
	if compressed {
		if body, err = gunzip(body); err != nil {
			return nil, fmt.Errorf("otlpjson: %w", err)
		}
	}

	out, err := transcode.Transcode(t.shape, body)
	if err != nil {
		return nil, fmt.Errorf("otlpjson: %w", err)
	}

	if compressed {
		if out, err = gzipBytes(out); err != nil {
			return nil, fmt.Errorf("otlpjson: %w", err)
		}
	}

	r := req.Clone(req.Context())
	r.Body = io.NopCloser(bytes.NewReader(out))
	r.GetBody = func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(out)), nil
	}
	r.ContentLength = int64(len(out))
	r.Header.Set("Content-Type", ContentTypeJSON)
	r.Header.Set("Content-Length", strconv.Itoa(len(out)))
	return r, nil
}

// RoundTrip intercepts req and sends the result through the base transport
// exactly once. Responses and transport errors are returned as they are.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	out, err := t.Intercept(req)
	if err != nil {
		return nil, err
	}
	return t.base.RoundTrip(out)
}

func gunzip(b []byte) ([]byte, error) {
	zr, err := gzip.NewReader(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("open gzip body: %w", err)
	}
	defer zr.Close()

	out, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("read gzip body: %w", err)
	}
	return out, nil
}

func gzipBytes(b []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(b); err != nil {
		return nil, fmt.Errorf("compress json body: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("compress json body: %w", err)
	}
	return buf.Bytes(), nil
}
