package client

import (
	"fmt"
	"net/http"
)

// ResponseError reports a response the client could not accept: a
// status code outside the OK and none sets, an undecodable body, or
// a missing response key. It keeps the status code and raw body for
// the caller.
type ResponseError struct {
	StatusCode  int
	Body        []byte
	Description string
}

func newResponseError(res *http.Response, body []byte, description string) *ResponseError {
	return &ResponseError{
		StatusCode:  res.StatusCode,
		Body:        body,
		Description: description,
	}
}

func (t *ResponseError) Error() string {
	return fmt.Sprintf("error status code: %d, description: %s",
		t.StatusCode, t.Description)
}
