package roster

import "fmt"

// Optional is a value that may be absent. The zero value is absent.
type Optional[T any] struct {
	val     T
	present bool
}

func Some[T any](val T) Optional[T] {
	return Optional[T]{
		val:     val,
		present: true,
	}
}

func None[T any]() Optional[T] {
	return Optional[T]{}
}

// OptionalFromPtr maps nil to an absent value.
func OptionalFromPtr[T any](p *T) Optional[T] {
	if p == nil {
		return None[T]()
	}
	return Some(*p)
}

func (o Optional[T]) IsEmpty() bool {
	return !o.present
}

func (o Optional[T]) Get() T {
	return o.val
}

// GetOr returns fallback when o is absent.
func (o Optional[T]) GetOr(fallback T) T {
	if !o.present {
		return fallback
	}
	return o.val
}

func (o Optional[T]) Ptr() *T {
	if !o.present {
		return nil
	}
	v := o.val
	return &v
}

// String renders absent values as "null".
func (o Optional[T]) String() string {
	if !o.present {
		return "null"
	}
	return fmt.Sprint(o.val)
}
