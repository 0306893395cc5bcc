package construct

import (
	"net"

	"github.com/benbjohnson/clock"
	"github.com/indigo-web/triton/config"
	"github.com/indigo-web/triton/http"
	"github.com/indigo-web/triton/internal/buffer"
	"github.com/indigo-web/triton/kv"
	"github.com/indigo-web/triton/transport"
)

func Request(cfg *config.Config, remote net.Addr) *http.Request {
	headers := kv.NewPrealloc(cfg.Request.HeadersPrealloc)

	return http.NewRequest(http.NewResponse(), headers, remote)
}

func Client(cfg config.NET, clk clock.Clock, conn net.Conn) transport.Client {
	readBuff := make([]byte, cfg.ReadBufferSize)

	return transport.NewClient(conn, clk, cfg.ReadTimeout, cfg.WriteTimeout, readBuff)
}

// Buffer returns the buffer the request head is accumulated in. It never grows beyond the
// request size limit.
func Buffer(cfg *config.Config) *buffer.Buffer {
	return buffer.New(min(cfg.Request.BufferPrealloc, cfg.Request.MaxSize), cfg.Request.MaxSize)
}

func ResponseBuffer(cfg config.NET) []byte {
	return make([]byte, 0, cfg.WriteBufferSize)
}
