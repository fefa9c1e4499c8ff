package playstore

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound matches failures caused by Google Play answering 404.
var ErrNotFound = errors.New("not found")

// ErrInvalidOption matches failures caused by missing or malformed options.
var ErrInvalidOption = errors.New("invalid option")

// OptionError reports an option the caller must fix. Its message is relayed
// to API callers verbatim.
type OptionError struct {
	Msg string
}

func (e *OptionError) Error() string { return e.Msg }

// Is lets errors.Is(err, ErrInvalidOption) match.
func (e *OptionError) Is(target error) bool { return target == ErrInvalidOption }

func invalidOption(format string, args ...any) error {
	return &OptionError{Msg: fmt.Sprintf(format, args...)}
}

// UpstreamError describes a failed exchange with Google Play.
type UpstreamError struct {
	Method string
	Path   string
	Status int
	Err    error
}

func (e *UpstreamError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("upstream %s %s: %d %s", e.Method, e.Path, e.Status, http.StatusText(e.Status))
	}
	return fmt.Sprintf("upstream %s %s: %v", e.Method, e.Path, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrNotFound) match 404 responses.
func (e *UpstreamError) Is(target error) bool {
	return target == ErrNotFound && e.Status == http.StatusNotFound
}
