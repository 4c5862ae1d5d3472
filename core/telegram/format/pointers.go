// Package format holds small rendering helpers shared by bot handlers.
package format

// Deref safely dereferences p and returns def if it is nil.
func Deref[T any](p *T, def T) T {
	if p != nil {
		return *p
	}
	return def
}
