package status

type (
	Code   uint16
	Status = string
)

// Only the codes the server may ever emit are listed. See
// https://www.iana.org/assignments/http-status-codes/http-status-codes.xhtml for the rest.
const (
	OK                  Code = 200 // RFC 9110, 15.3.1
	BadRequest          Code = 400 // RFC 9110, 15.5.1
	NotFound            Code = 404 // RFC 9110, 15.5.5
	MethodNotAllowed    Code = 405 // RFC 9110, 15.5.6
	RequestTimeout      Code = 408 // RFC 9110, 15.5.9
	InternalServerError Code = 500 // RFC 9110, 15.6.1
	NotImplemented      Code = 501 // RFC 9110, 15.6.2
)

// CloseConnection is a pseudo-code. Responses carrying it are never written, it only
// signals that the connection is going away.
const CloseConnection Code = 1

// KnownCodes lists every code Text and StringCode recognize.
var KnownCodes = []Code{
	OK, BadRequest, NotFound, MethodNotAllowed, RequestTimeout, InternalServerError, NotImplemented,
}

// Text returns the reason phrase for the code. It returns the empty string if the code
// is unknown.
func Text(code Code) Status {
	switch code {
	case OK:
		return "OK"
	case BadRequest:
		return "Bad Request"
	case NotFound:
		return "Not Found"
	case MethodNotAllowed:
		return "Method Not Allowed"
	case RequestTimeout:
		return "Request Timeout"
	case InternalServerError:
		return "Internal Server Error"
	case NotImplemented:
		return "Not Implemented"
	default:
		return ""
	}
}

// StringCode returns the code as a 3-digit string without allocating. Unknown codes
// result in an empty string.
func StringCode(code Code) string {
	switch code {
	case OK:
		return "200"
	case BadRequest:
		return "400"
	case NotFound:
		return "404"
	case MethodNotAllowed:
		return "405"
	case RequestTimeout:
		return "408"
	case InternalServerError:
		return "500"
	case NotImplemented:
		return "501"
	default:
		return ""
	}
}
