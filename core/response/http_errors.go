package response

import "net/http"

// HTTPError represents a structured error response that implements the error interface.
type HTTPError struct {
	Status  int            `json:"-"`
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// NewHTTPError creates an error with a custom message and a 500 status.
func NewHTTPError(message string) HTTPError {
	return ErrInternalServerError.WithMessage(message)
}

func newHTTPError(status int, code string) HTTPError {
	return HTTPError{
		Status:  status,
		Code:    code,
		Message: http.StatusText(status),
	}
}

// Error implements the error interface.
func (e HTTPError) Error() string {
	return e.Message
}

// StatusCode returns the HTTP status code for the error.
func (e HTTPError) StatusCode() int {
	return e.Status
}

// Is matches any HTTPError with the same status and code, so
// errors.Is(err, ErrNotFound) holds for copies with a custom message.
func (e HTTPError) Is(target error) bool {
	t, ok := target.(HTTPError)
	return ok && t.Status == e.Status && t.Code == e.Code
}

// WithMessage returns a copy of the error with a custom message.
func (e HTTPError) WithMessage(message string) HTTPError {
	e.Message = message
	return e
}

// WithDetails returns a copy of the error with additional details.
func (e HTTPError) WithDetails(details map[string]any) HTTPError {
	e.Details = details
	return e
}

// WithError returns a copy of the error carrying err as its cause.
// The details map is copied so predefined errors are never mutated.
func (e HTTPError) WithError(err error) HTTPError {
	details := make(map[string]any, len(e.Details)+1)
	for k, v := range e.Details {
		details[k] = v
	}
	details["cause"] = err.Error()
	e.Details = details
	return e
}

// Predefined HTTP errors using http.StatusText for default messages.
var (
	ErrBadRequest                  = newHTTPError(http.StatusBadRequest, "bad_request")
	ErrUnauthorized                = newHTTPError(http.StatusUnauthorized, "unauthorized")
	ErrForbidden                   = newHTTPError(http.StatusForbidden, "forbidden")
	ErrNotFound                    = newHTTPError(http.StatusNotFound, "not_found")
	ErrMethodNotAllowed            = newHTTPError(http.StatusMethodNotAllowed, "method_not_allowed")
	ErrNotAcceptable               = newHTTPError(http.StatusNotAcceptable, "not_acceptable")
	ErrRequestTimeout              = newHTTPError(http.StatusRequestTimeout, "request_timeout")
	ErrConflict                    = newHTTPError(http.StatusConflict, "conflict")
	ErrGone                        = newHTTPError(http.StatusGone, "gone")
	ErrRequestEntityTooLarge       = newHTTPError(http.StatusRequestEntityTooLarge, "request_entity_too_large")
	ErrRequestURITooLong           = newHTTPError(http.StatusRequestURITooLong, "request_uri_too_long")
	ErrUnsupportedMediaType        = newHTTPError(http.StatusUnsupportedMediaType, "unsupported_media_type")
	ErrUnprocessableEntity         = newHTTPError(http.StatusUnprocessableEntity, "unprocessable_entity")
	ErrTooManyRequests             = newHTTPError(http.StatusTooManyRequests, "too_many_requests")
	ErrRequestHeaderFieldsTooLarge = newHTTPError(http.StatusRequestHeaderFieldsTooLarge, "request_header_fields_too_large")

	ErrInternalServerError = newHTTPError(http.StatusInternalServerError, "internal_server_error")
	ErrNotImplemented      = newHTTPError(http.StatusNotImplemented, "not_implemented")
	ErrBadGateway          = newHTTPError(http.StatusBadGateway, "bad_gateway")
	ErrServiceUnavailable  = newHTTPError(http.StatusServiceUnavailable, "service_unavailable")
	ErrGatewayTimeout      = newHTTPError(http.StatusGatewayTimeout, "gateway_timeout")
)

var httpErrorsByStatus = map[int]HTTPError{}

func init() {
	for _, e := range []HTTPError{
		ErrBadRequest, ErrUnauthorized, ErrForbidden, ErrNotFound, ErrMethodNotAllowed,
		ErrNotAcceptable, ErrRequestTimeout, ErrConflict, ErrGone, ErrRequestEntityTooLarge,
		ErrRequestURITooLong, ErrUnsupportedMediaType, ErrUnprocessableEntity,
		ErrTooManyRequests, ErrRequestHeaderFieldsTooLarge, ErrInternalServerError,
		ErrNotImplemented, ErrBadGateway, ErrServiceUnavailable, ErrGatewayTimeout,
	} {
		httpErrorsByStatus[e.Status] = e
	}
}

// ErrorForStatus returns the predefined error for status, or a generic
// error carrying status and its standard text.
func ErrorForStatus(status int) HTTPError {
	if e, ok := httpErrorsByStatus[status]; ok {
		return e
	}
	return HTTPError{Status: status, Message: http.StatusText(status)}
}

// Quick constructors for the most common client and server errors.

func BadRequest(message string) HTTPError {
	return ErrBadRequest.WithMessage(message)
}

func Unauthorized(message string) HTTPError {
	return ErrUnauthorized.WithMessage(message)
}

func Forbidden(message string) HTTPError {
	return ErrForbidden.WithMessage(message)
}

func NotFound(message string) HTTPError {
	return ErrNotFound.WithMessage(message)
}

func UnprocessableEntity(message string) HTTPError {
	return ErrUnprocessableEntity.WithMessage(message)
}

func Internal(message string) HTTPError {
	return ErrInternalServerError.WithMessage(message)
}

func ServiceUnavailable(message string) HTTPError {
	return ErrServiceUnavailable.WithMessage(message)
}
