package response

import (
	"io"

	"github.com/indigo-web/triton/http/mime"
	"github.com/indigo-web/triton/http/status"
	"github.com/indigo-web/triton/kv"
)

const DefaultContentType = mime.HTML

type Fields struct {
	Code        status.Code
	Status      status.Status
	ContentType string
	Headers     []kv.Pair
	Body        []byte
	// Stream takes precedence over the Body if set. It's closed after being written, if
	// it implements io.Closer.
	Stream     io.Reader
	StreamSize int64
	// Close forces the connection to be closed after the response is written.
	Close bool
}

func (f *Fields) Clear() {
	f.Code = status.OK
	f.Status = ""
	f.ContentType = DefaultContentType
	f.Headers = f.Headers[:0]
	f.Body = nil
	f.Stream = nil
	f.StreamSize = 0
	f.Close = false
}
