package httputil

import (
	"bytes"
	"encoding/json"
)

// OptionalString tracks presence and value for JSON PATCH semantics (RFC 7396).
// Go's *string cannot tell "absent" from "null", which matters for moves:
//   - Present=false: field absent (don't change)
//   - Present=true, Value=nil: JSON null (move to root)
//   - Present=true, Value=&"id": move into that folder
//
// Tag fields `json:",omitzero"` so an absent value is also left out when encoding.
type OptionalString struct {
	Present bool
	Value   *string
}

// Null returns a present-but-null value
func Null() OptionalString {
	return OptionalString{Present: true}
}

// Some returns a present value; a nil pointer means null
func Some(v *string) OptionalString {
	return OptionalString{Present: true, Value: v}
}

// IsZero reports whether the field is absent
func (o OptionalString) IsZero() bool {
	return !o.Present
}

// UnmarshalJSON implements json.Unmarshaler.
// When this method is called, the field was present in the JSON.
func (o *OptionalString) UnmarshalJSON(data []byte) error {
	o.Present = true

	if string(bytes.TrimSpace(data)) == "null" {
		o.Value = nil
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	o.Value = &s
	return nil
}

// MarshalJSON writes null or the string
func (o OptionalString) MarshalJSON() ([]byte, error) {
	if o.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*o.Value)
}
