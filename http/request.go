package http

import (
	"net"

	"github.com/indigo-web/triton/kv"
)

const MethodGET = "GET"

type (
	Headers = *kv.Storage
	Header  = kv.Pair
)

// Request represents HTTP request
type Request struct {
	// Method is a token as it appeared in the request line. It is validated to consist of
	// token characters only, but its value isn't restricted to known methods.
	Method string
	// Path is the raw request target, guaranteed to start with a slash and to hold visible
	// ASCII characters only. It is not decoded.
	Path string
	// Protocol is always HTTP/1.1, as the parser rejects everything else.
	Protocol string
	// Headers holds non-normalized header pairs, though lookup is case-insensitive. Duplicate
	// header keys override the previous value.
	Headers Headers
	// Host mirrors the value of the Host header.
	Host string
	// Close is set when the client asked to close the connection after the response.
	Close bool
	// Remote holds the remote address.
	Remote   net.Addr
	response *Response
}

func NewRequest(response *Response, headers *kv.Storage, remote net.Addr) *Request {
	return &Request{
		Headers:  headers,
		Remote:   remote,
		response: response,
	}
}

// Respond returns Response object.
//
// WARNING: this method clears the response builder under the hood. As it is passed
// by reference, it'll be cleared EVERYWHERE along a handler
func (r *Request) Respond() *Response {
	return r.response.Clear()
}

// Reset the request
func (r *Request) Reset() {
	r.Method = ""
	r.Path = ""
	r.Protocol = ""
	r.Headers.Clear()
	r.Host = ""
	r.Close = false
}
