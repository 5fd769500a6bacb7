package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Ref is a foreign-key field that arrives either as a bare id or as the
// embedded record itself. Embedded is nil when only the id is known.
type Ref[T any] struct {
	ID       string
	Embedded *T
}

// RefTo builds a Ref that only carries an id.
func RefTo[T any](id string) Ref[T] {
	return Ref[T]{ID: id}
}

// Embed builds a Ref around an embedded record.
func Embed[T any](id string, v T) Ref[T] {
	return Ref[T]{ID: id, Embedded: &v}
}

// Value returns the embedded record, if any.
func (r Ref[T]) Value() (T, bool) {
	if r.Embedded == nil {
		var zero T
		return zero, false
	}
	return *r.Embedded, true
}

// IsZero reports whether the reference carries neither an id nor a record.
func (r Ref[T]) IsZero() bool {
	return r.ID == "" && r.Embedded == nil
}

// UnmarshalJSON normalizes the accepted wire shapes: null, a string id,
// a numeric id, or an object with "id" or "_id".
func (r *Ref[T]) UnmarshalJSON(b []byte) error {
	*r = Ref[T]{}
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}

	switch b[0] {
	case '"':
		return json.Unmarshal(b, &r.ID)
	case '{':
		var ids struct {
			ID      json.RawMessage `json:"id"`
			MongoID json.RawMessage `json:"_id"`
		}
		if err := json.Unmarshal(b, &ids); err != nil {
			return fmt.Errorf("domain.Ref: %w", err)
		}
		raw := ids.ID
		if len(raw) == 0 {
			raw = ids.MongoID
		}
		id, err := scalarID(raw)
		if err != nil {
			return fmt.Errorf("domain.Ref: %w", err)
		}
		var v T
		if err := json.Unmarshal(b, &v); err != nil {
			return fmt.Errorf("domain.Ref: %w", err)
		}
		r.ID = id
		r.Embedded = &v
		return nil
	default:
		id, err := scalarID(b)
		if err != nil {
			return fmt.Errorf("domain.Ref: %w", err)
		}
		r.ID = id
		return nil
	}
}

// MarshalJSON writes the embedded record when present, the bare id otherwise.
func (r Ref[T]) MarshalJSON() ([]byte, error) {
	if r.Embedded != nil {
		return json.Marshal(r.Embedded)
	}
	if r.ID == "" {
		return []byte("null"), nil
	}
	return json.Marshal(r.ID)
}

// scalarID reads a JSON string or number as an id string.
func scalarID(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", err
		}
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", fmt.Errorf("unsupported id %s", raw)
	}
	if i, err := n.Int64(); err == nil {
		return strconv.FormatInt(i, 10), nil
	}
	return n.String(), nil
}
