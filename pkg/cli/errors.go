package cli

import "fmt"

// UsageError reports a missing flag, a flag value that failed type
// coercion or an invalid config. No inference runs after one.
type UsageError struct {
	Err error
}

func (e *UsageError) Error() string {
	return fmt.Sprintf("usage error: %v", e.Err)
}

func (e *UsageError) Unwrap() error {
	return e.Err
}
