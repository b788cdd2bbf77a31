package client

import "fmt"

// TransportError reports a network failure, a timeout or a non-2xx status.
// StatusCode is zero when no response was received.
type TransportError struct {
	Op         string
	URL        string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s %s: unexpected status %d", e.Op, e.URL, e.StatusCode)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// DecodeError reports a response body that does not have the expected shape.
type DecodeError struct {
	Op  string
	URL string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s %s: decode body: %v", e.Op, e.URL, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
