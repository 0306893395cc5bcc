package router

import (
	"github.com/indigo-web/triton/http"
)

// Router receives every complete request and every error terminating a connection. Methods
// are called from the connection's goroutine and must not retain the request.
type Router interface {
	// OnRequest returns the response for the request. Nil is treated as an empty 200 OK.
	OnRequest(request *http.Request) *http.Response
	// OnError returns the response for a failed request. When err is status.ErrCloseConnection,
	// the connection is already going away and the response is discarded.
	OnError(request *http.Request, err error) *http.Response
}
