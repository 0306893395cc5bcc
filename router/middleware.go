package router

import (
	"log"

	"github.com/indigo-web/triton/http"
	"github.com/indigo-web/triton/http/status"
)

type Logger interface {
	Printf(fmt string, v ...any)
}

// LogRequests wraps the router, logging every served request and every protocol error
// into each of the loggers. If no loggers are passed, log.Default() is used.
func LogRequests(next Router, loggers ...Logger) Router {
	if len(loggers) == 0 {
		loggers = append(loggers, log.Default())
	}

	return logging{next: next, loggers: loggers}
}

type logging struct {
	next    Router
	loggers []Logger
}

func (l logging) OnRequest(request *http.Request) *http.Response {
	response := notNil(request, l.next.OnRequest(request))
	code := response.Expose().Code

	for _, logger := range l.loggers {
		logger.Printf("%s %s %s %d", remote(request), request.Method, request.Path, code)
	}

	return response
}

func (l logging) OnError(request *http.Request, err error) *http.Response {
	response := l.next.OnError(request, err)
	if err == status.ErrCloseConnection {
		return response
	}

	code := status.InternalServerError
	if response != nil {
		code = response.Expose().Code
	}

	for _, logger := range l.loggers {
		logger.Printf("%s error: %s (%d)", remote(request), err, code)
	}

	return response
}

// Recover wraps the router, so a panic in OnRequest results in 500 Internal Server Error
// instead of crashing the whole server. Partially built responses are discarded.
func Recover(next Router) Router {
	return recovering{next}
}

type recovering struct {
	next Router
}

func (r recovering) OnRequest(request *http.Request) (response *http.Response) {
	defer func() {
		if p := recover(); p != nil {
			response = http.Error(request, status.ErrInternalServerError)
		}
	}()

	return r.next.OnRequest(request)
}

func (r recovering) OnError(request *http.Request, err error) *http.Response {
	return r.next.OnError(request, err)
}

func notNil(request *http.Request, response *http.Response) *http.Response {
	if response != nil {
		return response
	}

	return http.Respond(request)
}

func remote(request *http.Request) string {
	if request.Remote == nil {
		return "-"
	}

	return request.Remote.String()
}
