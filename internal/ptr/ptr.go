// Package ptr builds pointers to literals, used for the optional fields of the plan configuration.
package ptr

// Ref returns a pointer to a copy of v.
func Ref[T any](v T) *T {
	return &v
}
