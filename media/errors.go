package media

import "fmt"

// LoadError reports a referenced media resource that could not be read or
// decoded. The offending location is carried verbatim for the caller.
type LoadError struct {
	Location string
	Err      error
}

func (e *LoadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("failed to load media from %s: %v", e.Location, e.Err)
	}
	return fmt.Sprintf("failed to load media from %s", e.Location)
}

func (e *LoadError) Unwrap() error { return e.Err }

// ShapeError reports a structurally invalid image tensor. It is always a
// caller bug; malformed shapes are never coerced.
type ShapeError struct {
	Shape  []int
	Reason string
}

func (e *ShapeError) Error() string {
	if len(e.Shape) > 0 {
		return fmt.Sprintf("invalid image tensor shape %v: %s", e.Shape, e.Reason)
	}
	return fmt.Sprintf("invalid image tensor: %s", e.Reason)
}
