package transcode

import (
	"encoding/base64"
	"encoding/hex"
)

// identifierKeys are the document keys whose values are OTLP bytes identifiers.
var identifierKeys = map[string]struct{}{
	"traceId":      {},
	"spanId":       {},
	"parentSpanId": {},
}

// IsIdentifierKey reports whether key names a trace or span identifier field.
func IsIdentifierKey(key string) bool {
	_, ok := identifierKeys[key]
	return ok
}

// HexIdentifier converts a base64 identifier to lowercase hex.
// It returns s unchanged and false when s is not padded standard base64,
// which is the only form protojson emits for bytes.
func HexIdentifier(s string) (string, bool) {
	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return s, false
	}
	return hex.EncodeToString(raw), true
}

// FixIdentifiers walks doc and rewrites every identifier value from base64 to
// hex in place. Maps and slices are mutated; the (possibly identical) root is
// returned. Values that fail to decode are left as they are.
func FixIdentifiers(doc any) any {
	switch v := doc.(type) {
	case map[string]any:
		for k, child := range v {
			if s, ok := child.(string); ok && IsIdentifierKey(k) {
				v[k], _ = HexIdentifier(s)
				continue
			}
			v[k] = FixIdentifiers(child)
		}
		return v
	case []any:
		for i, child := range v {
			v[i] = FixIdentifiers(child)
		}
		return v
	default:
		return doc
	}
}
