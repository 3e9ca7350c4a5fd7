package hub

import "fmt"

// TransportError reports that an HTTP request could not be carried out at
// all: DNS failure, refused connection, canceled context and the like.
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("contacting registry at %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// UnexpectedStatusError reports a response with a non-2xx status code. The
// body is retained so callers can log whatever explanation the registry sent.
type UnexpectedStatusError struct {
	StatusCode int
	Status     string
	URL        string
	Body       []byte
}

func (e *UnexpectedStatusError) Error() string {
	return fmt.Sprintf("registry returned %s for %s", e.Status, e.URL)
}

// InvalidResponseError reports a 2xx response whose body could not be
// decoded as the expected JSON shape.
type InvalidResponseError struct {
	URL string
	Err error
}

func (e *InvalidResponseError) Error() string {
	return fmt.Sprintf("parsing registry response from %s: %v", e.URL, e.Err)
}

func (e *InvalidResponseError) Unwrap() error {
	return e.Err
}
