package document

import (
	"errors"
	"fmt"

	"github.com/cyberphone/json-canonicalization/go/src/webpki.org/jsoncanonicalizer"
	j "github.com/goccy/go-json"
)

var (
	// ErrMalformed wraps decoding failures of persisted documents.
	ErrMalformed = errors.New("document: malformed JSON")
	// ErrNotObject is returned when a persisted document is not an object.
	ErrNotObject = errors.New("document: top-level value is not an object")
)

// Envelope is the persisted form of an edited document.
type Envelope struct {
	Schema string `json:"schema"`
	Data   any    `json:"data"`
}

// Marshal encodes the envelope in RFC 8785 canonical form, so that equal
// documents always produce identical bytes.
func (e Envelope) Marshal() ([]byte, error) {
	return Canonical(e)
}

// DecodeEnvelope parses persisted bytes. An object with exactly the keys
// "schema" (a string) and "data" is an envelope; any other object is bare
// data and comes back with an empty Schema.
func DecodeEnvelope(b []byte) (Envelope, error) {
	v, err := Decode(b)
	if err != nil {
		return Envelope{}, err
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return Envelope{}, ErrNotObject
	}
	sid, hasID := obj["schema"].(string)
	inner, hasData := obj["data"]
	if hasID && hasData && len(obj) == 2 {
		return Envelope{Schema: sid, Data: inner}, nil
	}
	return Envelope{Data: obj}, nil
}

// Decode parses a bare JSON data document.
func Decode(b []byte) (any, error) {
	var v any
	if err := j.Unmarshal(b, &v); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return v, nil
}

// Canonical encodes v as RFC 8785 canonical JSON.
func Canonical(v any) ([]byte, error) {
	b, err := j.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("document: encode: %w", err)
	}
	out, err := jsoncanonicalizer.Transform(b)
	if err != nil {
		return nil, fmt.Errorf("document: canonicalize: %w", err)
	}
	return out, nil
}
