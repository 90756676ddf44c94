package alopeyk

import (
	"bytes"
	"encoding/json"
	"io"
)

// Result is the decoded body of a successful call. Its shape is endpoint
// specific; Value holds it with numbers kept as json.Number.
type Result struct {
	Raw   json.RawMessage
	Value any
}

// Decode unmarshals the raw body into v.
func (r *Result) Decode(v any) error {
	return json.Unmarshal(r.Raw, v)
}

// Object returns the top-level JSON object, or nil when the body is not one.
func (r *Result) Object() map[string]any {
	m, _ := r.Value.(map[string]any)
	return m
}

// normalize turns a transport outcome into a Result or an *Error.
func normalize(payload []byte, err error) (*Result, error) {
	if err != nil {
		return nil, transportError(err)
	}

	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.UseNumber()

	var value any
	if err := dec.Decode(&value); err != nil {
		return nil, NewError(KindDecode, "response body is not valid JSON").WithCause(err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, NewError(KindDecode, "response body has trailing data after the JSON value")
	}

	return &Result{Raw: json.RawMessage(payload), Value: value}, nil
}
