package editor

// The gate wraps mutating callbacks so they silently do nothing when the
// current viewer is not allowed to edit the page (not the owner, or a
// read-only mobile context). Call sites wrap once instead of re-checking
// permission everywhere.

// Gated returns fn when editable, otherwise a no-op.
func Gated(editable bool, fn func()) func() {
	if editable {
		return fn
	}
	return func() {}
}

// Gated1 is Gated for callbacks taking one argument.
func Gated1[T any](editable bool, fn func(T)) func(T) {
	if editable {
		return fn
	}
	return func(T) {}
}

// Gated2 is Gated for callbacks taking two arguments.
func Gated2[T, U any](editable bool, fn func(T, U)) func(T, U) {
	if editable {
		return fn
	}
	return func(T, U) {}
}

// GatedResult wraps a callback returning a value; when not editable the
// wrapper returns the zero value without invoking fn.
func GatedResult[T, R any](editable bool, fn func(T) R) func(T) R {
	if editable {
		return fn
	}
	return func(T) R {
		var zero R
		return zero
	}
}
