// Package ref models a reference to another entity that the API sends either
// as a bare identifier or as the expanded record.
package ref

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/danielgtaylor/huma/v2"
	"github.com/fxamacker/cbor/v2"
)

// Identifiable is implemented by records that can be referenced.
type Identifiable interface {
	Identity() string
}

// Ref is either a bare identifier or an expanded record of type T.
// The zero value references nothing.
type Ref[T Identifiable] struct {
	id       string
	expanded *T
}

// ID builds a reference holding only an identifier.
func ID[T Identifiable](id string) Ref[T] {
	return Ref[T]{id: id}
}

// Expanded builds a reference carrying the full record.
func Expanded[T Identifiable](v T) Ref[T] {
	return Ref[T]{id: v.Identity(), expanded: &v}
}

// ID returns the referenced identifier regardless of shape.
func (r Ref[T]) ID() string {
	if r.expanded != nil {
		return (*r.expanded).Identity()
	}
	return r.id
}

// Value returns the expanded record, if the reference carries one.
func (r Ref[T]) Value() (T, bool) {
	if r.expanded == nil {
		var zero T
		return zero, false
	}
	return *r.expanded, true
}

// IsExpanded reports whether the reference carries the full record.
func (r Ref[T]) IsExpanded() bool {
	return r.expanded != nil
}

// IsZero reports whether r references nothing.
func (r Ref[T]) IsZero() bool {
	return r.expanded == nil && r.id == ""
}

// IDs normalizes a list of references into their identifiers, in order.
func IDs[T Identifiable](refs []Ref[T]) []string {
	out := make([]string, 0, len(refs))
	for _, r := range refs {
		out = append(out, r.ID())
	}
	return out
}

// MarshalJSON writes the expanded record when present, else the identifier.
func (r Ref[T]) MarshalJSON() ([]byte, error) {
	if r.expanded != nil {
		return json.Marshal(*r.expanded)
	}
	return json.Marshal(r.id)
}

// UnmarshalJSON accepts a string identifier or an object.
func (r *Ref[T]) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*r = Ref[T]{}
		return nil
	case data[0] == '"':
		var id string
		if err := json.Unmarshal(data, &id); err != nil {
			return err
		}
		*r = Ref[T]{id: id}
		return nil
	case data[0] == '{':
		var v T
		if err := json.Unmarshal(data, &v); err != nil {
			return fmt.Errorf("decoding expanded reference: %w", err)
		}
		*r = Expanded(v)
		return nil
	default:
		return fmt.Errorf("reference must be a string or an object, got %q", data)
	}
}

// MarshalCBOR mirrors MarshalJSON for the CBOR wire format.
func (r Ref[T]) MarshalCBOR() ([]byte, error) {
	if r.expanded != nil {
		return cbor.Marshal(*r.expanded)
	}
	return cbor.Marshal(r.id)
}

// UnmarshalCBOR accepts a text string identifier or a map.
func (r *Ref[T]) UnmarshalCBOR(data []byte) error {
	var probe any
	if err := cbor.Unmarshal(data, &probe); err != nil {
		return err
	}
	switch id := probe.(type) {
	case nil:
		*r = Ref[T]{}
		return nil
	case string:
		*r = Ref[T]{id: id}
		return nil
	case map[any]any, map[string]any:
		var v T
		if err := cbor.Unmarshal(data, &v); err != nil {
			return fmt.Errorf("decoding expanded reference: %w", err)
		}
		*r = Expanded(v)
		return nil
	default:
		return fmt.Errorf("reference must be a string or a map, got %T", probe)
	}
}

// Schema documents both wire shapes in generated OpenAPI.
func (r Ref[T]) Schema(reg huma.Registry) *huma.Schema {
	return &huma.Schema{
		OneOf: []*huma.Schema{
			{Type: huma.TypeString, Description: "Identifier"},
			reg.Schema(reflect.TypeFor[T](), true, ""),
		},
	}
}
