// Package jsonp unwraps callback-style responses such as `matches_20260101({...})`.
package jsonp

import (
	"regexp"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
)

var (
	ErrNoPayload        = crerr.New("jsonp envelope not found")
	ErrMalformedPayload = crerr.New("jsonp payload is not valid json")
)

// Envelope matches one callback name. The payload may span lines and ends at
// the last closing parenthesis in the body.
type Envelope struct {
	pattern *regexp.Regexp
}

// Any accepts any identifier as the callback name.
var Any = NewEnvelope(`[A-Za-z_$][\w$]*`)

// NewEnvelope compiles an envelope for the callback name expression, e.g. `matches_\d+`.
func NewEnvelope(callback string) Envelope {
	return Envelope{pattern: regexp.MustCompile(`(?s)` + callback + `\((.*)\)`)}
}

// Extract returns the raw text between the callback parentheses.
func (e Envelope) Extract(body []byte) ([]byte, error) {
	m := e.pattern.FindSubmatch(body)
	if m == nil {
		return nil, ErrNoPayload
	}
	return m[1], nil
}

// Decode extracts the payload and unmarshals it into target.
func (e Envelope) Decode(body []byte, target any) error {
	raw, err := e.Extract(body)
	if err != nil {
		return err
	}
	if err := sonic.Unmarshal(raw, target); err != nil {
		return crerr.Mark(crerr.Wrap(err, "unmarshal jsonp payload"), ErrMalformedPayload)
	}
	return nil
}

// Decode unwraps body using any callback name.
func Decode(body []byte, target any) error {
	return Any.Decode(body, target)
}
