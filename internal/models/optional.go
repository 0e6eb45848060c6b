package models

import "encoding/json"

type presence uint8

const (
	absent presence = iota
	null
	set
)

// Optional is a tri-state field of a partial payload: absent (not supplied),
// explicitly null, or holding a value.
type Optional[T any] struct {
	state presence
	value T
}

// Absent returns an Optional that was not supplied.
func Absent[T any]() Optional[T] { return Optional[T]{} }

// Null returns an Optional that was supplied as an explicit null.
func Null[T any]() Optional[T] { return Optional[T]{state: null} }

// Some returns an Optional holding v.
func Some[T any](v T) Optional[T] { return Optional[T]{state: set, value: v} }

// Supplied reports whether the field was present in the payload, null or not.
func (o Optional[T]) Supplied() bool { return o.state != absent }

func (o Optional[T]) IsNull() bool { return o.state == null }

func (o Optional[T]) HasValue() bool { return o.state == set }

// Get returns the value and whether one is held.
func (o Optional[T]) Get() (T, bool) { return o.value, o.state == set }

// Ptr returns a pointer to the value, or nil when absent or null.
func (o Optional[T]) Ptr() *T {
	if o.state != set {
		return nil
	}
	v := o.value
	return &v
}

// OrElse returns the value, or def when absent or null.
func (o Optional[T]) OrElse(def T) T {
	if o.state != set {
		return def
	}
	return o.value
}

// Apply overwrites *dst when the field was supplied: nil on null, the value
// otherwise. Absent fields leave *dst untouched.
func (o Optional[T]) Apply(dst **T) {
	switch o.state {
	case null:
		*dst = nil
	case set:
		*dst = o.Ptr()
	}
}

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if o.state != set {
		return []byte("null"), nil
	}
	return json.Marshal(o.value)
}
