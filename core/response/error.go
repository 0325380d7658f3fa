package response

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/dmitrymomot/webcore/core/handler"
)

// statusCoder is implemented by errors that map to a specific HTTP status.
type statusCoder interface {
	StatusCode() int
}

// Responder is implemented by errors that render their own response.
type Responder interface {
	Response() *handler.Response
}

// errorBody is the JSON shape of a rendered error.
type errorBody struct {
	Error   string         `json:"error"`
	Code    string         `json:"code,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

// StatusOf returns the HTTP status an error maps to.
// Errors without a status, or with one outside 100-599, map to 500.
// A nil error maps to 200.
func StatusOf(err error) int {
	if err == nil {
		return http.StatusOK
	}
	var sc statusCoder
	if errors.As(err, &sc) {
		if s := sc.StatusCode(); s >= 100 && s <= 599 {
			return s
		}
	}
	return http.StatusInternalServerError
}

// FromError converts err into a response.
//
// Errors implementing Responder render themselves. HTTPError values
// render as {"error": message, "code": code, "details": details}; any
// other error renders as {"error": err.Error()} with the status from
// StatusOf.
func FromError(err error) *handler.Response {
	if err == nil {
		err = ErrInternalServerError
	}

	var r Responder
	if errors.As(err, &r) {
		if resp := r.Response(); resp != nil {
			return resp
		}
	}

	body := errorBody{Error: err.Error()}
	status := StatusOf(err)

	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		body.Code = httpErr.Code
		body.Details = httpErr.Details
		if body.Error == "" {
			body.Error = http.StatusText(status)
		}
	}

	return errorResponse(status, body)
}

func errorResponse(status int, body errorBody) *handler.Response {
	data, err := json.Marshal(body)
	if err != nil {
		// details carried a value the encoder rejects
		data, _ = json.Marshal(errorBody{Error: body.Error, Code: body.Code})
	}
	resp := handler.NewResponse(status).SetBytes(data)
	resp.Header.Set("Content-Type", ContentTypeJSON)
	return resp
}

// PanicError is produced when a handler panics. It renders as a generic
// 500 while keeping the recovered value and stack for logging.
type PanicError struct {
	value any
	stack []byte
}

// NewPanicError wraps a recovered panic value and its stack.
func NewPanicError(value any, stack []byte) *PanicError {
	return &PanicError{value: value, stack: stack}
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.value)
}

// Value returns the original panic value.
func (e *PanicError) Value() any { return e.value }

// Stack returns the stack trace captured at the panic point.
func (e *PanicError) Stack() []byte { return e.stack }

func (e *PanicError) StatusCode() int { return http.StatusInternalServerError }

// Response hides the panic value from clients.
func (e *PanicError) Response() *handler.Response {
	return errorResponse(http.StatusInternalServerError, errorBody{
		Error: http.StatusText(http.StatusInternalServerError),
		Code:  ErrInternalServerError.Code,
	})
}

// Unwrap allows errors.Is/As to reach a panic value that is itself an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.value.(error); ok {
		return err
	}
	return nil
}
