package domain

import "encoding/json"

// Optional holds a value together with a presence flag. It is used by the
// request types so that an absent JSON key can be told apart from a key that
// is present with an empty value.
//
// A present JSON null sets both Set and Null and leaves Value at its zero
// value.
type Optional[T any] struct {
	Value T
	Set   bool
	Null  bool
}

// Some returns an Optional that is present with the given value.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Value: v, Set: true}
}

// UnmarshalJSON marks the value as present and decodes it.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		var zero T
		o.Value = zero
		o.Null = true
		return nil
	}
	o.Null = false
	return json.Unmarshal(data, &o.Value)
}

// OrElse returns the value if present, otherwise def.
func (o Optional[T]) OrElse(def T) T {
	if o.Set {
		return o.Value
	}
	return def
}

// NonNullOrElse is OrElse that also falls back to def for a present null.
func (o Optional[T]) NonNullOrElse(def T) T {
	if o.Set && !o.Null {
		return o.Value
	}
	return def
}
