package config

import (
	"time"
)

type (
	NET struct {
		// ReadBufferSize is a size of buffer in bytes which will be used to read from
		// socket
		ReadBufferSize int
		// ReadTimeout controls the maximal lifetime of IDLE connections. The deadline is re-armed
		// on every socket read, so it's effectively a timeout of the silence on the line.
		ReadTimeout time.Duration
		// AcceptLoopInterruptPeriod controls how often will the Accept() call be interrupted
		// in order to check whether it's time to stop.
		AcceptLoopInterruptPeriod time.Duration
		// WriteTimeout bounds every single write into the socket. Streamed files are written
		// in chunks, each of them getting its own deadline.
		WriteTimeout time.Duration
		// WriteBufferSize is the initial capacity of the buffer a response head is rendered into.
		// Small in-memory bodies are appended to it too.
		WriteBufferSize int
		// MaxConnections limits the number of simultaneously served connections per transport.
		// Zero means no limit.
		MaxConnections int `test:"nullable"`
		// ReusePort sets SO_REUSEPORT on listening sockets where supported.
		ReusePort bool `test:"nullable"`
	}

	Request struct {
		// MaxSize limits the request head (request line, headers and the terminating
		// empty line) in bytes. Requests exceeding it are rejected with 400 Bad Request.
		MaxSize int
		// BufferPrealloc is the initial capacity of the buffer holding the request line and
		// headers. It grows up to MaxSize if needed.
		BufferPrealloc int
		// HeadersPrealloc is the initial capacity of the request headers storage.
		HeadersPrealloc int
	}

	Headers struct {
		// Default headers are headers to be included into every response implicitly, unless
		// explicitly overridden.
		Default map[string]string `test:"nullable"`
	}

	Static struct {
		// Index is the file served instead of a directory.
		Index string
		// MIME extends or overrides the default extension to MIME type table.
		MIME map[string]string `test:"nullable"`
	}
)

// Config holds settings used across various parts of the server, mainly restrictions, limitations
// and pre-allocations.
//
// You must ALWAYS modify defaults (returned via Default()) and NEVER try to initialize the
// config manually, because most likely this will result in ambiguous errors.
type Config struct {
	NET     NET
	Request Request
	Headers Headers
	Static  Static
}

// Default returns default config.
func Default() *Config {
	return &Config{
		NET: NET{
			ReadBufferSize:            4 * 1024,
			ReadTimeout:               5 * time.Second,
			AcceptLoopInterruptPeriod: 5 * time.Second,
			WriteTimeout:              30 * time.Second,
			WriteBufferSize:           1024,
		},
		Request: Request{
			MaxSize:         8 * 1024,
			BufferPrealloc:  1024,
			HeadersPrealloc: 10,
		},
		Headers: Headers{
			Default: map[string]string{
				"Server": "triton",
			},
		},
		Static: Static{
			Index: "index.html",
			MIME:  make(map[string]string),
		},
	}
}
