package dispatch

import "fmt"

// ValidationError rejects an action before any host call.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// BusinessFailure is a structured refusal from the host, such as a report
// generation answering success false.
type BusinessFailure struct {
	Op      string
	Message string
}

func (e *BusinessFailure) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s refused", e.Op)
	}
	return fmt.Sprintf("%s refused: %s", e.Op, e.Message)
}
