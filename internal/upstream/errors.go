package upstream

import "fmt"

// Error is a non-2xx response from the upstream API, carrying enough
// detail for the caller to retry or diagnose.
type Error struct {
	Status  int
	Code    string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("upstream %d %s: %s", e.Status, e.Code, e.Message)
}

// Retryable reports whether the failure is worth another attempt.
func (e *Error) Retryable() bool {
	return e.Status == 429 || e.Status >= 500
}
