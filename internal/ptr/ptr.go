// Package ptr has helpers for optional values modelled as pointers.
package ptr

// Ref returns a pointer to the value passed as argument.
func Ref[T any](v T) *T {
	return &v
}

// ValueOr dereferences p or returns fallback when p is nil.
func ValueOr[T any](p *T, fallback T) T {
	if p == nil {
		return fallback
	}
	return *p
}
