package http1

import (
	"os"

	"github.com/indigo-web/triton/config"
	"github.com/indigo-web/triton/http"
	"github.com/indigo-web/triton/http/status"
	"github.com/indigo-web/triton/internal/buffer"
	"github.com/indigo-web/triton/internal/construct"
	"github.com/indigo-web/triton/router"
	"github.com/indigo-web/triton/transport"
	"github.com/pkg/errors"
)

// Suit serves a single connection: it reads, parses and dispatches requests in their
// order of arrival, writing exactly one response per request.
type Suit struct {
	*Parser
	serializer *serializer
	router     router.Router
	request    *http.Request
	client     transport.Client
}

func New(
	cfg *config.Config,
	r router.Router,
	client transport.Client,
	request *http.Request,
	buff *buffer.Buffer,
	respBuff []byte,
) *Suit {
	return &Suit{
		Parser:     NewParser(cfg, request, buff),
		serializer: newSerializer(cfg, client, respBuff),
		router:     r,
		request:    request,
		client:     client,
	}
}

// Initialize is the same constructor as just New, but consumes fewer arguments.
func Initialize(cfg *config.Config, r router.Router, client transport.Client) *Suit {
	request := construct.Request(cfg, client.Remote())

	return New(cfg, r, client, request, construct.Buffer(cfg), construct.ResponseBuffer(cfg.NET))
}

// Serve processes requests until the connection must be closed. Closing the connection
// itself is up to the caller.
func (s *Suit) Serve() {
	for s.ServeOnce() {
	}
}

// ServeOnce performs a single read and processes everything it brought. It returns false
// when the connection must be closed.
func (s *Suit) ServeOnce() bool {
	data, err := s.client.Read()
	if err != nil {
		return s.onReadError(err)
	}

	done, extra, err := s.Parse(data)
	switch {
	case err != nil:
		// the rest of the stream can't be trusted anymore, even if there are more
		// pipelined requests
		s.fail(err)
		return false
	case !done:
		return true
	}

	s.client.Pushback(extra)

	return s.dispatch()
}

func (s *Suit) dispatch() bool {
	request := s.request

	if request.Method != http.MethodGET {
		s.fail(status.ErrMethodNotAllowed)
		return false
	}

	response := notNil(request, s.router.OnRequest(request))
	closeConn := request.Close || response.Expose().Close

	if err := s.serializer.Write(response, closeConn); err != nil {
		// if error happened during writing the response, it makes no sense to try
		// to write anything again
		s.router.OnError(request, status.ErrCloseConnection)
		return false
	}

	if closeConn {
		return false
	}

	request.Reset()
	return true
}

func (s *Suit) onReadError(err error) bool {
	if errors.Is(err, os.ErrDeadlineExceeded) && s.Pending() {
		s.fail(status.ErrIdleTimeout)
		return false
	}

	// the client either went away or was silent for too long, there's nobody to answer to
	s.router.OnError(s.request, status.ErrCloseConnection)
	return false
}

// fail writes the error response, which is always the last one on the connection.
func (s *Suit) fail(err error) {
	response := notNil(s.request, s.router.OnError(s.request, err))
	// as fatal error already happened and connection will anyway be closed, we don't
	// care about any socket errors anymore
	_ = s.serializer.Write(response, true)
}

func notNil(request *http.Request, response *http.Response) *http.Response {
	if response != nil {
		return response
	}

	return http.Respond(request)
}
