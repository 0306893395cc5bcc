package static

import (
	"github.com/indigo-web/triton/http"
	"github.com/indigo-web/triton/http/mime"
	"github.com/indigo-web/triton/router"
)

var _ router.Router = new(Handler)

// Handler serves files from the document root. It holds no mutable state, so a single
// instance is shared by all the connections.
type Handler struct {
	resolver *Resolver
	mime     mime.Table
}

// New returns a handler serving the root. A nil table defaults to mime.Default, an empty
// index defaults to index.html.
func New(root, index string, table mime.Table) (*Handler, error) {
	resolver, err := NewResolver(root, index)
	if err != nil {
		return nil, err
	}

	if table == nil {
		table = mime.Default
	}

	return &Handler{
		resolver: resolver,
		mime:     table,
	}, nil
}

func (h *Handler) OnRequest(request *http.Request) *http.Response {
	path, ext, err := h.resolver.Resolve(request.Path)
	if err != nil {
		return http.Error(request, err)
	}

	response, err := request.Respond().TryFileAs(path, h.mime.Lookup(ext))
	if err != nil {
		return http.Error(request, err)
	}

	return response
}

func (h *Handler) OnError(request *http.Request, err error) *http.Response {
	return http.Error(request, err)
}
