package services

// Patch is an optional change to a nullable field. A set patch with a nil
// Value clears the field; an unset patch leaves it alone.
type Patch[T any] struct {
	Set   bool
	Value *T
}

// SetTo returns a patch assigning v.
func SetTo[T any](v T) Patch[T] {
	return Patch[T]{Set: true, Value: &v}
}

// Clear returns a patch removing the current value.
func Clear[T any]() Patch[T] {
	return Patch[T]{Set: true}
}

func (p Patch[T]) applyTo(dst **T) {
	if p.Set {
		*dst = p.Value
	}
}
