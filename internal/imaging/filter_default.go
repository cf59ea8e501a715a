//go:build !gocv

package imaging

// DefaultFilter returns the Filter used when callers do not supply one.
// Without the gocv build tag this is the pure Go NativeFilter.
func DefaultFilter() Filter {
	return NativeFilter{}
}
