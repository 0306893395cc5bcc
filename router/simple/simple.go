package simple

import (
	"github.com/indigo-web/triton/http"
	"github.com/indigo-web/triton/router"
)

type (
	Handler      func(*http.Request) *http.Response
	ErrorHandler func(*http.Request, error) *http.Response
)

// New returns a router made of two plain functions. A nil error handler defaults to http.Error.
func New(handler Handler, errHandler ErrorHandler) router.Router {
	if errHandler == nil {
		errHandler = http.Error
	}

	return simple{
		handler:    handler,
		errHandler: errHandler,
	}
}

type simple struct {
	handler    Handler
	errHandler ErrorHandler
}

func (s simple) OnRequest(request *http.Request) *http.Response {
	return s.handler(request)
}

func (s simple) OnError(request *http.Request, err error) *http.Response {
	return s.errHandler(request, err)
}
