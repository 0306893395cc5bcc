package http

import (
	"io"
	"os"
	"path/filepath"

	"github.com/indigo-web/triton/http/mime"
	"github.com/indigo-web/triton/http/status"
	"github.com/indigo-web/triton/internal/response"
	"github.com/indigo-web/triton/kv"
	"github.com/indigo-web/utils/strcomp"
	"github.com/indigo-web/utils/uf"
)

const preallocRespHeaders = 4

type Response struct {
	fields *response.Fields
}

// NewResponse returns a new instance of the Response object with status code set to 200 OK,
// pre-allocated space for response headers and text/html content-type.
func NewResponse() *Response {
	return &Response{
		&response.Fields{
			Code:        status.OK,
			Headers:     make([]kv.Pair, 0, preallocRespHeaders),
			ContentType: response.DefaultContentType,
		},
	}
}

// Code sets a Response code and a corresponding status.
func (r *Response) Code(code status.Code) *Response {
	r.fields.Code = code
	return r
}

// Status sets a custom status text. The default one is derived from the code.
func (r *Response) Status(status status.Status) *Response {
	r.fields.Status = status
	return r
}

// ContentType sets a custom Content-Type header value.
func (r *Response) ContentType(value mime.MIME) *Response {
	r.fields.ContentType = value
	return r
}

// Header appends header values to a key. Content-Type is redirected into ContentType.
func (r *Response) Header(key string, values ...string) *Response {
	if strcomp.EqualFold(key, "content-type") {
		return r.ContentType(values[0])
	}

	for _, value := range values {
		r.fields.Headers = append(r.fields.Headers, kv.Pair{
			Key:   key,
			Value: value,
		})
	}

	return r
}

// String sets the response's body to the passed string
func (r *Response) String(body string) *Response {
	return r.Bytes(uf.S2B(body))
}

// Bytes sets the response's body to passed slice WITHOUT COPYING. Changing
// the passed slice later will affect the response by itself
func (r *Response) Bytes(body []byte) *Response {
	r.fields.Body = body
	return r
}

// TryFile opens a regular file for reading and attaches it to the response. Content-Type
// is picked by the file extension using the default MIME table.
func (r *Response) TryFile(path string) (*Response, error) {
	return r.tryFile(path, mime.Default.Lookup(filepath.Ext(path)))
}

// TryFileAs is like TryFile, but uses the passed content type.
func (r *Response) TryFileAs(path string, contentType mime.MIME) (*Response, error) {
	return r.tryFile(path, contentType)
}

func (r *Response) tryFile(path string, contentType mime.MIME) (*Response, error) {
	fd, err := os.Open(path)
	if err != nil {
		// if we can't open it, it doesn't exist
		return r, status.ErrNotFound
	}

	stat, err := fd.Stat()
	if err != nil {
		_ = fd.Close()
		// ...and if we can't get stats on it, it exists, however something in system went wrong
		return r, status.ErrInternalServerError
	}

	if !stat.Mode().IsRegular() {
		_ = fd.Close()
		return r, status.ErrNotFound
	}

	r.fields.ContentType = contentType
	return r.Attachment(fd, stat.Size()), nil
}

// File does the same as TryFile does, except returned error is being implicitly wrapped
// by Error
func (r *Response) File(path string) *Response {
	resp, err := r.TryFile(path)
	if err != nil {
		return r.Error(err)
	}

	return resp
}

// Attachment sets a Response's attachment. In this case Response body will be ignored.
// Exactly size bytes are going to be read from the reader. If the reader implements
// io.Closer, it will be closed after the response is written.
func (r *Response) Attachment(reader io.Reader, size int64) *Response {
	r.fields.Stream = reader
	r.fields.StreamSize = size
	return r
}

// CloseConnection marks the response as the last one on the connection.
func (r *Response) CloseConnection() *Response {
	r.fields.Close = true
	return r
}

// Error returns a response builder with an error set. If passed err is nil, nothing will happen.
// If an instance of status.HTTPError is passed, its code will be used, otherwise
// 500 Internal Server Error. The body is always the plain-text reason phrase, so nothing
// received from the client is ever echoed back.
func (r *Response) Error(err error) *Response {
	if err == nil {
		return r
	}

	code := status.InternalServerError
	if http, ok := err.(status.HTTPError); ok {
		code = http.Code
	}

	if r.fields.Stream != nil {
		if closer, ok := r.fields.Stream.(io.Closer); ok {
			_ = closer.Close()
		}

		r.fields.Stream = nil
		r.fields.StreamSize = 0
	}

	return r.
		Code(code).
		ContentType(mime.Plain).
		String(status.Text(code))
}

// Expose returns a struct with values, filled by builder. Used mostly in internal purposes
func (r *Response) Expose() *response.Fields {
	return r.fields
}

// Clear discards everything was done with Response object before
func (r *Response) Clear() *Response {
	r.fields.Clear()
	return r
}

// Respond is a predicate to request.Respond(). May be used as a dummy handler
func Respond(request *Request) *Response {
	return request.Respond()
}

// Code is a predicate to request.Respond().Code(...)
func Code(request *Request, code status.Code) *Response {
	return request.Respond().Code(code)
}

// String is a predicate to request.Respond().String(...)
func String(request *Request, str string) *Response {
	return request.Respond().String(str)
}

// File is a predicate to request.Respond().File(...)
func File(request *Request, path string) *Response {
	return request.Respond().File(path)
}

// Error is a predicate to request.Respond().Error(...)
func Error(request *Request, err error) *Response {
	return request.Respond().Error(err)
}
