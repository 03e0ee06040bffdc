package pose

import (
	"errors"
	"fmt"
)

var (
	ErrPermissionDenied   = errors.New("camera permission denied")
	ErrDeviceNotFound     = errors.New("camera device not found")
	ErrLibraryUnavailable = errors.New("pose library not available")

	ErrNotInitialized = errors.New("adapter not initialized")
	ErrNoPredictions  = errors.New("classifier returned no predictions")
	ErrClosed         = errors.New("adapter torn down")

	// ErrSourceClosed marks a prediction source that will never produce
	// another frame (bridge hung up, script ran out).
	ErrSourceClosed = errors.New("prediction source closed")
)

// DOMException names reported by the browser media APIs.
const (
	NameNotAllowed = "NotAllowedError"
	NameNotFound   = "NotFoundError"
)

// LibraryError is a named failure reported by a Library, e.g. a browser
// DOMException forwarded by the classifier bridge.
type LibraryError struct {
	Name    string
	Message string
}

func (e *LibraryError) Error() string {
	if e.Message == "" {
		return e.Name
	}
	return fmt.Sprintf("%s: %s", e.Name, e.Message)
}

type InitErrorKind int

const (
	Unknown InitErrorKind = iota
	PermissionDenied
	DeviceNotFound
)

func (k InitErrorKind) String() string {
	switch k {
	case PermissionDenied:
		return "permission denied"
	case DeviceNotFound:
		return "device not found"
	default:
		return "unknown"
	}
}

// InitError is returned by Adapter.Initialize.
type InitError struct {
	Kind InitErrorKind
	Err  error
}

func (e *InitError) Error() string {
	if e.Err == nil {
		return "initialize pose adapter: " + e.Kind.String()
	}
	return fmt.Sprintf("initialize pose adapter (%s): %v", e.Kind, e.Err)
}

func (e *InitError) Unwrap() error {
	return e.Err
}

func (e *InitError) Is(target error) bool {
	switch target {
	case ErrPermissionDenied:
		return e.Kind == PermissionDenied
	case ErrDeviceNotFound:
		return e.Kind == DeviceNotFound
	}
	return false
}

// Classify wraps err into an *InitError with the matching kind.
func Classify(err error) *InitError {
	var ie *InitError
	if errors.As(err, &ie) {
		return ie
	}

	kind := Unknown
	var le *LibraryError
	switch {
	case errors.Is(err, ErrPermissionDenied):
		kind = PermissionDenied
	case errors.Is(err, ErrDeviceNotFound):
		kind = DeviceNotFound
	case errors.As(err, &le):
		switch le.Name {
		case NameNotAllowed:
			kind = PermissionDenied
		case NameNotFound:
			kind = DeviceNotFound
		}
	}
	return &InitError{Kind: kind, Err: err}
}
