package status

// HTTPError is an error that knows which response code it must be answered with.
type HTTPError struct {
	Message string
	Code    Code
}

func NewError(code Code, message string) error {
	return HTTPError{
		Code:    code,
		Message: message,
	}
}

func (h HTTPError) Error() string {
	return h.Message
}

var (
	ErrCloseConnection = NewError(CloseConnection, "actively closing the connection")

	// the request line doesn't match `METHOD SP /TARGET SP HTTP/1.1 CRLF`
	ErrBadRequestLine = NewError(BadRequest, "malformed request line")
	// some header line doesn't match `NAME: VALUE CRLF`
	ErrBadHeaderLine = NewError(BadRequest, "malformed header line")
	// the request head is complete, but Host was never seen
	ErrMissingHost = NewError(BadRequest, "missing Host header")
	// the request head didn't fit into the limit
	ErrRequestTooLarge = NewError(BadRequest, "request head is too large")
	// only GET is served. Any other method is a client error which terminates the connection
	ErrMethodNotAllowed = NewError(BadRequest, "request method is not supported")
	// the connection was idle for too long while holding an incomplete request
	ErrIdleTimeout = NewError(BadRequest, "incomplete request timed out")

	ErrNotFound            = NewError(NotFound, "not found")
	ErrInternalServerError = NewError(InternalServerError, "internal server error")
)
