package llm

import "fmt"

// GatewayError represents a failed call to the analysis gateway:
// timeout, transport failure, or an unusable response. Callers catch
// it per chunk or per check; it is never fatal to the overall run.
type GatewayError struct {
	Message string
	Cause   error
}

func (e *GatewayError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("gateway error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("gateway error: %s", e.Message)
}

func (e *GatewayError) Unwrap() error {
	return e.Cause
}

// ParseError represents a reply that is not the expected structured
// shape. It is always recoverable via the heuristic fallback parse and
// never surfaced to the review caller.
type ParseError struct {
	Message string
	Cause   error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("parse error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("parse error: %s", e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}
