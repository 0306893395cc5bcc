package transport

import (
	"io"
	"net"
	"time"

	"github.com/benbjohnson/clock"
)

type Client interface {
	Read() ([]byte, error)
	Pushback([]byte)
	Write([]byte) (int, error)
	Conn() net.Conn
	Remote() net.Addr
	Close() error
}

// streamChunk is the amount of a streamed body written under a single write deadline.
const streamChunk = 1 << 20

type client struct {
	conn         net.Conn
	clock        clock.Clock
	buff         []byte
	pending      []byte
	readTimeout  time.Duration
	writeTimeout time.Duration
}

// NewClient wraps the connection. The clock is used to compute read and write deadlines.
func NewClient(
	conn net.Conn, clk clock.Clock, readTimeout, writeTimeout time.Duration, buff []byte,
) Client {
	return &client{
		buff:         buff,
		conn:         conn,
		clock:        clk,
		readTimeout:  readTimeout,
		writeTimeout: writeTimeout,
	}
}

// Read returns the data preserved via Pushback, if any. Otherwise, it arms the read
// deadline and reads from the connection into the internal buffer, so the returned slice
// is valid only until the next call.
func (c *client) Read() ([]byte, error) {
	if len(c.pending) > 0 {
		pending := c.pending
		c.pending = nil

		return pending, nil
	}

	if err := c.conn.SetReadDeadline(c.clock.Now().Add(c.readTimeout)); err != nil {
		return nil, err
	}

	n, err := c.conn.Read(c.buff)
	return c.buff[:n], err
}

// Pushback preserves a chunk of data from previous read for the next read.
func (c *client) Pushback(b []byte) {
	c.pending = b
}

// Conn unwraps the underlying net.Conn.
func (c *client) Conn() net.Conn {
	return c.conn
}

// Write arms the write deadline and writes data into the underlying connection.
func (c *client) Write(b []byte) (int, error) {
	if err := c.armWrite(); err != nil {
		return 0, err
	}

	return c.conn.Write(b)
}

// ReadFrom copies the reader into the connection chunk by chunk, re-arming the write
// deadline before each of them. A top-level *io.LimitedReader is unwrapped, so a file
// still reaches the connection directly and is sent via sendfile(2) on TCP.
func (c *client) ReadFrom(r io.Reader) (n int64, err error) {
	remaining := int64(-1)
	if lr, ok := r.(*io.LimitedReader); ok {
		r, remaining = lr.R, max(lr.N, 0)
		defer func() {
			lr.N -= n
		}()
	}

	for remaining != 0 {
		chunk := int64(streamChunk)
		if remaining > 0 {
			chunk = min(chunk, remaining)
		}

		if err = c.armWrite(); err != nil {
			return n, err
		}

		written, cerr := io.CopyN(c.conn, r, chunk)
		n += written
		if remaining > 0 {
			remaining -= written
		}

		switch {
		case cerr == io.EOF:
			return n, nil
		case cerr != nil:
			return n, cerr
		}
	}

	return n, nil
}

func (c *client) armWrite() error {
	return c.conn.SetWriteDeadline(c.clock.Now().Add(c.writeTimeout))
}

// Remote returns the remote address of the connection.
func (c *client) Remote() net.Addr {
	return c.conn.RemoteAddr()
}

// Close closes the connection.
func (c *client) Close() error {
	return c.conn.Close()
}
