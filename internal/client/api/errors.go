package api

import "fmt"

// ProtocolError reports a response the client could not interpret: an
// unexpected status code or an unrecognized error body. The raw status and
// body are carried for diagnostics.
type ProtocolError struct {
	StatusCode int
	Body       string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("unexpected identity service response: status %d: %s", e.StatusCode, e.Body)
}
