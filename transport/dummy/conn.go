package dummy

import (
	"io"
	"net"
	"time"
)

// Conn is a net.Conn which never has anything to read. Written data is either forwarded
// to W, if set, or accumulated in Data.
type Conn struct {
	Data []byte
	W    io.Writer
}

func (c *Conn) Read([]byte) (n int, err error) {
	return 0, io.EOF
}

func (c *Conn) Write(b []byte) (n int, err error) {
	if c.W != nil {
		return c.W.Write(b)
	}

	c.Data = append(c.Data, b...)
	return len(b), nil
}

func (c *Conn) Close() error {
	return nil
}

func (c *Conn) LocalAddr() net.Addr {
	return nil
}

func (c *Conn) RemoteAddr() net.Addr {
	return nil
}

func (c *Conn) SetDeadline(time.Time) error {
	return nil
}

func (c *Conn) SetReadDeadline(time.Time) error {
	return nil
}

func (c *Conn) SetWriteDeadline(time.Time) error {
	return nil
}
