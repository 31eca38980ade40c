package pipeline

import "fmt"

// NetworkError reports a fetch that could not complete or returned a non-2xx status
type NetworkError struct {
	URL        string
	StatusCode int // zero when no response was received
	Err        error
}

func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: status %d: %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// UnexpectedError reports any other failure, including recovered panics
type UnexpectedError struct {
	Stage string
	Err   error
	Stack []byte // set when the failure was a panic
}

func (e *UnexpectedError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *UnexpectedError) Unwrap() error { return e.Err }
