package http1

import (
	"strings"

	"github.com/indigo-web/triton/config"
	"github.com/indigo-web/triton/http"
	"github.com/indigo-web/triton/http/status"
	"github.com/indigo-web/triton/internal/buffer"
	"github.com/indigo-web/utils/strcomp"
	"github.com/indigo-web/utils/uf"
)

const protoHTTP11 = "HTTP/1.1"

type parserState uint8

const (
	eMethod parserState = iota + 1
	ePath
	eProtocol
	eProtocolLF
	eHeaderKey
	eHeaderValue
	eHeaderValueLF
	eHeadersEndLF
)

// Parser is a stream-based parser of HTTP/1.1 request heads. It can be fed with arbitrary
// fragments of the stream and keeps its state between the calls. Every error it returns
// is terminal for the connection.
type Parser struct {
	state    parserState
	hasHost  bool
	received int
	maxSize  int
	key      string
	request  *http.Request
	buff     *buffer.Buffer
}

func NewParser(cfg *config.Config, request *http.Request, buff *buffer.Buffer) *Parser {
	return &Parser{
		state:   eMethod,
		maxSize: cfg.Request.MaxSize,
		request: request,
		buff:    buff,
	}
}

// Parse consumes the data. When done is true and err is nil, the request head is complete
// and extra holds everything following it, which is the beginning of the next pipelined
// request. A non-nil error is always accompanied by done=true.
//
// Strings stored into the request point into the parser's buffer, so they remain valid
// only until the next call.
func (p *Parser) Parse(data []byte) (done bool, extra []byte, err error) {
	window := data
	if free := p.maxSize - p.received; len(window) > free {
		window = window[:free]
	}

	done, rest, err := p.parse(window)
	switch {
	case err != nil:
		p.reset()
		return true, nil, err
	case done:
		p.reset()
		return true, data[len(window)-len(rest):], nil
	}

	if p.received += len(window); p.received >= p.maxSize {
		p.reset()
		return true, nil, status.ErrRequestTooLarge
	}

	return false, nil, nil
}

// Pending reports whether a part of a request was consumed, but the request isn't complete yet.
func (p *Parser) Pending() bool {
	return p.received > 0
}

func (p *Parser) parse(data []byte) (done bool, rest []byte, err error) {
	_ = *p.request
	request := p.request
	buff := p.buff

	switch p.state {
	case eMethod:
		goto method
	case ePath:
		goto path
	case eProtocol:
		goto protocol
	case eProtocolLF:
		goto protocolLF
	case eHeaderKey:
		goto headerKey
	case eHeaderValue:
		goto headerValue
	case eHeaderValueLF:
		goto headerValueLF
	case eHeadersEndLF:
		goto headersEndLF
	default:
		panic("unreachable code")
	}

method:
	for i := 0; i < len(data); i++ {
		if data[i] == ' ' {
			if !buff.Append(data[:i]) {
				return true, nil, status.ErrRequestTooLarge
			}

			request.Method = uf.B2S(buff.Finish())
			if len(request.Method) == 0 {
				return true, nil, status.ErrBadRequestLine
			}

			data = data[i+1:]
			goto path
		}

		if !isTokenChar(data[i]) {
			return true, nil, status.ErrBadRequestLine
		}
	}

	if !buff.Append(data) {
		return true, nil, status.ErrRequestTooLarge
	}

	p.state = eMethod
	return false, nil, nil

path:
	for i := 0; i < len(data); i++ {
		char := data[i]
		if char == ' ' {
			if !buff.Append(data[:i]) {
				return true, nil, status.ErrRequestTooLarge
			}

			request.Path = uf.B2S(buff.Finish())
			if len(request.Path) == 0 {
				return true, nil, status.ErrBadRequestLine
			}

			data = data[i+1:]
			goto protocol
		}

		if i == 0 && buff.SegmentLength() == 0 && char != '/' {
			// origin-form is the only request target form served
			return true, nil, status.ErrBadRequestLine
		}

		if !isVisibleChar(char) {
			return true, nil, status.ErrBadRequestLine
		}
	}

	if !buff.Append(data) {
		return true, nil, status.ErrRequestTooLarge
	}

	p.state = ePath
	return false, nil, nil

protocol:
	for i := 0; i < len(data); i++ {
		if data[i] == '\r' {
			if !buff.Append(data[:i]) {
				return true, nil, status.ErrRequestTooLarge
			}

			if uf.B2S(buff.Finish()) != protoHTTP11 {
				return true, nil, status.ErrBadRequestLine
			}

			request.Protocol = protoHTTP11
			data = data[i+1:]
			goto protocolLF
		}
	}

	if buff.SegmentLength()+len(data) > len(protoHTTP11) {
		return true, nil, status.ErrBadRequestLine
	}

	if !buff.Append(data) {
		return true, nil, status.ErrRequestTooLarge
	}

	p.state = eProtocol
	return false, nil, nil

protocolLF:
	if len(data) == 0 {
		p.state = eProtocolLF
		return false, nil, nil
	}

	if data[0] != '\n' {
		return true, nil, status.ErrBadRequestLine
	}

	data = data[1:]
	// fallthrough to headerKey

headerKey:
	for i := 0; i < len(data); i++ {
		char := data[i]
		if char == ':' {
			if !buff.Append(data[:i]) {
				return true, nil, status.ErrRequestTooLarge
			}

			p.key = uf.B2S(buff.Finish())
			if len(p.key) == 0 {
				return true, nil, status.ErrBadHeaderLine
			}

			data = data[i+1:]
			goto headerValue
		}

		if !isTokenChar(char) {
			if char == '\r' && i == 0 && buff.SegmentLength() == 0 {
				data = data[1:]
				goto headersEndLF
			}

			return true, nil, status.ErrBadHeaderLine
		}
	}

	if !buff.Append(data) {
		return true, nil, status.ErrRequestTooLarge
	}

	p.state = eHeaderKey
	return false, nil, nil

headerValue:
	for i := 0; i < len(data); i++ {
		char := data[i]
		if char == '\r' {
			if !buff.Append(data[:i]) {
				return true, nil, status.ErrRequestTooLarge
			}

			p.addHeader(p.key, uf.B2S(trimOWS(buff.Finish())))
			data = data[i+1:]
			goto headerValueLF
		}

		if isCTL(char) && char != '\t' {
			return true, nil, status.ErrBadHeaderLine
		}
	}

	if !buff.Append(data) {
		return true, nil, status.ErrRequestTooLarge
	}

	p.state = eHeaderValue
	return false, nil, nil

headerValueLF:
	if len(data) == 0 {
		p.state = eHeaderValueLF
		return false, nil, nil
	}

	if data[0] != '\n' {
		return true, nil, status.ErrBadHeaderLine
	}

	data = data[1:]
	goto headerKey

headersEndLF:
	if len(data) == 0 {
		p.state = eHeadersEndLF
		return false, nil, nil
	}

	if data[0] != '\n' {
		return true, nil, status.ErrBadHeaderLine
	}

	if !p.hasHost {
		return true, data[1:], status.ErrMissingHost
	}

	return true, data[1:], nil
}

func (p *Parser) addHeader(key, value string) {
	request := p.request
	request.Headers.Set(key, value)

	switch {
	case strcomp.EqualFold(key, "host"):
		request.Host = value
		p.hasHost = true
	case strcomp.EqualFold(key, "connection"):
		request.Close = hasToken(value, "close")
	}
}

func (p *Parser) reset() {
	p.state = eMethod
	p.hasHost = false
	p.received = 0
	p.key = ""
	p.buff.Clear()
}

// hasToken reports whether the comma-separated list contains the token, ignoring case.
func hasToken(list, token string) bool {
	for list != "" {
		var elem string
		elem, list, _ = strings.Cut(list, ",")
		if strcomp.EqualFold(strings.Trim(elem, " \t"), token) {
			return true
		}
	}

	return false
}

func trimOWS(b []byte) []byte {
	for len(b) > 0 && (b[0] == ' ' || b[0] == '\t') {
		b = b[1:]
	}

	for len(b) > 0 && (b[len(b)-1] == ' ' || b[len(b)-1] == '\t') {
		b = b[:len(b)-1]
	}

	return b
}

func isVisibleChar(c byte) bool {
	return c > 0x20 && c < 0x7f
}

func isCTL(c byte) bool {
	return c < 0x20 || c == 0x7f
}

// isTokenChar reports whether the char is a tchar as defined by RFC 9110, 5.6.2
func isTokenChar(c byte) bool {
	return tokenChars[c]
}

var tokenChars = func() (table [256]bool) {
	for c := '0'; c <= '9'; c++ {
		table[c] = true
	}

	for c := 'a'; c <= 'z'; c++ {
		table[c] = true
		table[c-'a'+'A'] = true
	}

	for _, c := range "!#$%&'*+-.^_`|~" {
		table[c] = true
	}

	return table
}()
