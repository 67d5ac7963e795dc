package engine

// Probe calls an accessor and returns its value, or def if the accessor
// returned an error or panicked. This is the uniform guard applied to
// every single property read from the document engine: one misbehaving
// accessor must never take down the extraction of its siblings.
func Probe[T any](fn func() (T, error), def T) (out T) {
	defer func() {
		if r := recover(); r != nil {
			out = def
		}
	}()
	v, err := fn()
	if err != nil {
		return def
	}
	return v
}

// ProbeHandle returns a sub-handle from an accessor, or nil on any
// failure. Callers must nil-check the result before probing it further.
func ProbeHandle[T any](fn func() (T, error)) (out T) {
	var zero T
	defer func() {
		if r := recover(); r != nil {
			out = zero
		}
	}()
	v, err := fn()
	if err != nil {
		return zero
	}
	return v
}

// ProbeOK is Probe with an explicit success flag, for callers that need
// to distinguish "absent" from a legitimate zero value.
func ProbeOK[T any](fn func() (T, error)) (out T, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			ok = false
		}
	}()
	v, err := fn()
	if err != nil {
		return out, false
	}
	return v, true
}
