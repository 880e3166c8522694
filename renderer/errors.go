package renderer

import "fmt"

// ContextInitError reports a window or graphics context that could not be
// created, typically because no compatible driver is available.
type ContextInitError struct {
	Stage string
	Err   error
}

func (e *ContextInitError) Error() string {
	return fmt.Sprintf("failed to initialize %s: %v", e.Stage, e.Err)
}

func (e *ContextInitError) Unwrap() error {
	return e.Err
}
