package api

import "fmt"

// BackendError is the single error type surfaced for every failed host call,
// whether the request never completed, the host answered with an error
// status, or the body could not be decoded.
type BackendError struct {
	Op      string // boundary operation, e.g. "get_patients"
	Status  int    // HTTP status, 0 when no response was received
	Message string // host supplied message, if any
	Err     error
}

func (e *BackendError) Error() string {
	switch {
	case e.Message != "" && e.Status != 0:
		return fmt.Sprintf("%s: host returned %d: %s", e.Op, e.Status, e.Message)
	case e.Status != 0:
		return fmt.Sprintf("%s: host returned %d", e.Op, e.Status)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	default:
		return e.Op + ": backend error"
	}
}

func (e *BackendError) Unwrap() error {
	return e.Err
}
