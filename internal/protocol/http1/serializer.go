package http1

import (
	"io"
	"slices"
	"strconv"

	"github.com/indigo-web/triton/config"
	"github.com/indigo-web/triton/http"
	"github.com/indigo-web/triton/http/status"
	"github.com/indigo-web/triton/internal/response"
	"github.com/indigo-web/triton/kv"
	"github.com/indigo-web/triton/transport"
	"github.com/indigo-web/utils/strcomp"
)

// bodies longer than this are written directly from the response instead of being copied
// into the buffer
const maxInlineBody = 16 * 1024

type serializer struct {
	client         transport.Client
	buff           []byte
	defaultHeaders defaultHeaders
}

func newSerializer(cfg *config.Config, client transport.Client, buff []byte) *serializer {
	return &serializer{
		client:         client,
		buff:           buff,
		defaultHeaders: preprocessDefaultHeaders(cfg.Headers.Default),
	}
}

// Write renders and transmits the response. If closeConn is set, the response carries
// the Connection: close header.
func (s *serializer) Write(response *http.Response, closeConn bool) error {
	fields := response.Expose()
	s.appendProtocol()
	s.appendStatus(fields)
	s.appendHeaders(fields)

	if closeConn {
		s.appendKnownHeader("Connection: ", "close")
	}

	err := s.writeBody(fields)
	s.cleanup()

	return err
}

func (s *serializer) writeBody(fields *response.Fields) error {
	if fields.Stream != nil {
		return s.writeStream(fields.Stream, fields.StreamSize)
	}

	body := fields.Body
	s.appendContentLength(int64(len(body)))
	s.crlf()

	if len(body) > maxInlineBody {
		if err := s.flush(); err != nil {
			return err
		}

		_, err := s.client.Write(body)
		return err
	}

	s.buff = append(s.buff, body...)
	return s.flush()
}

// writeStream flushes the head and copies exactly size bytes from the stream into the
// client. Files on TCP connections are thereby transmitted via sendfile(2).
func (s *serializer) writeStream(stream io.Reader, size int64) (err error) {
	defer func() {
		if c, ok := stream.(io.Closer); ok {
			if cerr := c.Close(); cerr != nil && err == nil {
				err = cerr
			}
		}
	}()

	s.appendContentLength(size)
	s.crlf()

	if err = s.flush(); err != nil {
		return err
	}

	_, err = io.CopyN(s.client, stream, size)
	return err
}

func (s *serializer) flush() (err error) {
	if len(s.buff) > 0 {
		_, err = s.client.Write(s.buff)
		s.buff = s.buff[:0]
	}

	return err
}

func (s *serializer) appendProtocol() {
	s.buff = append(s.buff, protoHTTP11...)
	s.sp()
}

func (s *serializer) appendStatus(fields *response.Fields) {
	if code := status.StringCode(fields.Code); len(code) > 0 {
		s.buff = append(s.buff, code...)
	} else {
		// some non-standard code
		s.buff = strconv.AppendUint(s.buff, uint64(fields.Code), 10)
	}

	s.sp()

	statusText := fields.Status
	if len(statusText) == 0 {
		statusText = status.Text(fields.Code)
	}

	s.buff = append(s.buff, statusText...)
	s.crlf()
}

func (s *serializer) appendHeaders(fields *response.Fields) {
	for _, header := range fields.Headers {
		s.defaultHeaders.Exclude(header.Key)
		s.appendHeader(header)
		s.crlf()
	}

	if len(fields.ContentType) > 0 {
		s.defaultHeaders.Exclude("Content-Type")
		s.appendKnownHeader("Content-Type: ", fields.ContentType)
	}

	for _, header := range s.defaultHeaders {
		if header.Excluded {
			continue
		}

		s.buff = append(s.buff, header.Full...)
	}
}

// appendHeader writes a complete header field line excluding the trailing CRLF.
func (s *serializer) appendHeader(header kv.Pair) {
	s.buff = append(s.buff, header.Key...)
	s.colonsp()
	s.buff = append(s.buff, header.Value...)
}

// appendKnownHeader differs from appendHeader only by the fact that the key is known to already
// have a colon and a space included.
func (s *serializer) appendKnownHeader(key, value string) {
	s.buff = append(s.buff, key...)
	s.buff = append(s.buff, value...)
	s.crlf()
}

func (s *serializer) appendContentLength(value int64) {
	s.buff = append(s.buff, "Content-Length: "...)
	s.buff = strconv.AppendInt(s.buff, value, 10)
	s.crlf()
}

func (s *serializer) sp() {
	s.buff = append(s.buff, ' ')
}

func (s *serializer) colonsp() {
	s.buff = append(s.buff, ':', ' ')
}

const crlf = "\r\n"

func (s *serializer) crlf() {
	s.buff = append(s.buff, crlf...)
}

func (s *serializer) cleanup() {
	s.defaultHeaders.Reset()
}

// preprocessDefaultHeaders renders the header lines once. They're sorted by key, so the
// responses are byte-identical independently of the map iteration order.
func preprocessDefaultHeaders(headers map[string]string) defaultHeaders {
	processed := make(defaultHeaders, 0, len(headers))

	for key, value := range headers {
		serialized := key + ": " + value + crlf
		processed = append(processed, defaultHeader{
			Key:  serialized[:len(key)],
			Full: serialized,
		})
	}

	slices.SortFunc(processed, func(a, b defaultHeader) int {
		switch {
		case a.Key < b.Key:
			return -1
		case a.Key > b.Key:
			return 1
		default:
			return 0
		}
	})

	return processed
}

type defaultHeader struct {
	Excluded bool
	Key      string
	Full     string
}

type defaultHeaders []defaultHeader

func (d defaultHeaders) Exclude(key string) {
	for i, header := range d {
		if strcomp.EqualFold(header.Key, key) {
			d[i].Excluded = true
			return
		}
	}
}

func (d defaultHeaders) Reset() {
	for i := range d {
		d[i].Excluded = false
	}
}
