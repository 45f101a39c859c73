package window

import (
	"errors"
	"fmt"
)

// ErrNoActiveWindow is returned by a strategy when no frontmost window could be determined
var ErrNoActiveWindow = errors.New("no active window found")

// ExternalToolError reports that an OS tool failed to launch, exited with an
// error, or printed output that could not be parsed.
type ExternalToolError struct {
	Tool    string
	Message string
	Err     error
}

func (e *ExternalToolError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Tool, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Tool, e.Message)
}

func (e *ExternalToolError) Unwrap() error {
	return e.Err
}

// IsExternalToolError reports whether err carries an *ExternalToolError
func IsExternalToolError(err error) bool {
	var toolErr *ExternalToolError
	return errors.As(err, &toolErr)
}
