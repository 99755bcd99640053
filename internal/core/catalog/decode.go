// Package catalog holds the pure logic around restaurant lists: decoding the
// list payloads the API may return, filtering for display and reconciling the
// list after a create.
package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/xcalota/panel/internal/core/domain"
)

// =============================================================================
// Errors
// =============================================================================

var (
	// ErrEmptyPayload is returned when the list body is empty.
	ErrEmptyPayload = errors.New("empty list payload")

	// ErrUnexpectedPayload is returned when the body is neither a JSON array
	// nor a JSON object.
	ErrUnexpectedPayload = errors.New("list payload must be a JSON array or object")
)

// =============================================================================
// Wire Types
// =============================================================================

// Entry is the wire shape of a restaurant. Backends disagree on field names,
// so both "id"/"_id" and "name"/"nome" are accepted.
type Entry struct {
	ID    json.RawMessage `json:"id,omitempty"`
	AltID json.RawMessage `json:"_id,omitempty"`
	Name  *string         `json:"name,omitempty"`
	Nome  *string         `json:"nome,omitempty"`
	Slug  *string         `json:"slug,omitempty"`
}

// Restaurant converts the entry into a domain record.
// "nome" wins over "name" when both are set; "id" wins over "_id".
func (e Entry) Restaurant() domain.Restaurant {
	r := domain.Restaurant{
		ID:   rawID(e.ID),
		Name: firstNonEmpty(e.Nome, e.Name),
		Slug: deref(e.Slug),
	}
	if r.ID == "" {
		r.ID = rawID(e.AltID)
	}
	return r
}

// envelope covers the wrapped list shapes.
type envelope struct {
	Items json.RawMessage `json:"items"`
	Data  json.RawMessage `json:"data"`
}

// =============================================================================
// Decoding
// =============================================================================

// DecodeList parses a list response body. It accepts a bare array of
// records, or an object carrying the array under "items" or, failing that,
// "data". An object with neither yields an empty list.
func DecodeList(body []byte) ([]domain.Restaurant, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, ErrEmptyPayload
	}

	switch body[0] {
	case '[':
		return decodeEntries(body)
	case '{':
		var env envelope
		if err := json.Unmarshal(body, &env); err != nil {
			return nil, fmt.Errorf("decode list envelope: %w", err)
		}
		if isArray(env.Items) {
			return decodeEntries(env.Items)
		}
		if isArray(env.Data) {
			return decodeEntries(env.Data)
		}
		return []domain.Restaurant{}, nil
	default:
		return nil, ErrUnexpectedPayload
	}
}

// DecodeRecord parses a single record, as returned by a create call.
// Some backends wrap the record under "data"; that shape is unwrapped.
func DecodeRecord(body []byte) (domain.Restaurant, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return domain.Restaurant{}, ErrEmptyPayload
	}
	if body[0] != '{' {
		return domain.Restaurant{}, ErrUnexpectedPayload
	}

	var env struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return domain.Restaurant{}, fmt.Errorf("decode record: %w", err)
	}
	if d := bytes.TrimSpace(env.Data); len(d) > 0 && d[0] == '{' {
		body = d
	}

	var e Entry
	if err := json.Unmarshal(body, &e); err != nil {
		return domain.Restaurant{}, fmt.Errorf("decode record: %w", err)
	}
	return e.Restaurant(), nil
}

func decodeEntries(raw []byte) ([]domain.Restaurant, error) {
	var entries []Entry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("decode list entries: %w", err)
	}

	out := make([]domain.Restaurant, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Restaurant())
	}
	return out, nil
}

func isArray(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '['
}

// rawID renders a JSON string or number id as text. Anything else
// (null, objects, booleans) has no usable id.
func rawID(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return ""
	}
	switch {
	case raw[0] == '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return ""
		}
		return s
	case raw[0] == '-' || (raw[0] >= '0' && raw[0] <= '9'):
		var n json.Number
		if err := json.Unmarshal(raw, &n); err != nil {
			return ""
		}
		return n.String()
	default:
		return ""
	}
}

func firstNonEmpty(values ...*string) string {
	for _, v := range values {
		if s := deref(v); strings.TrimSpace(s) != "" {
			return s
		}
	}
	return ""
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
