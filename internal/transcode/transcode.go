package transcode

import (
	"bytes"
	"encoding/json"
	"fmt"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
)

// docOptions is the generic conversion: lowerCamelCase names, enums as numbers,
// bytes as base64 and 64-bit integers as strings.
var docOptions = protojson.MarshalOptions{
	UseEnumNumbers: true,
}

// Decode parses body as a protobuf message of the given shape.
func Decode(shape Shape, body []byte) (proto.Message, error) {
	msg := shape.New()
	if msg == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownShape, shape)
	}
	if err := proto.Unmarshal(body, msg); err != nil {
		return nil, fmt.Errorf("decode %s: %w", shape, err)
	}
	return msg, nil
}

// ToDocument converts msg to a generic tree of map[string]any, []any and
// scalars. Numbers are kept as json.Number so integer precision survives.
func ToDocument(msg proto.Message) (any, error) {
	raw, err := docOptions.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("convert %s: %w", msg.ProtoReflect().Descriptor().Name(), err)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("read generic document: %w", err)
	}
	return doc, nil
}

// Encode serializes doc as compact UTF-8 JSON without HTML escaping.
func Encode(doc any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encode json: %w", err)
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// Transcode converts a protobuf export request body into its OTLP/JSON form.
func Transcode(shape Shape, body []byte) ([]byte, error) {
	msg, err := Decode(shape, body)
	if err != nil {
		return nil, err
	}
	doc, err := ToDocument(msg)
	if err != nil {
		return nil, err
	}
	return Encode(FixIdentifiers(doc))
}
