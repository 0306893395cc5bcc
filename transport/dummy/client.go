package dummy

import (
	"io"
	"net"

	"github.com/indigo-web/triton/transport"
)

var _ transport.Client = new(Client)

// Client returns the data it was initialised with piece by piece, one per read, looping
// over them unless set to shoot once. It also tracks all the written data, including the
// data written via Conn, making it thereby a universal mock suitable for most of the tests.
type Client struct {
	closed     bool
	once       bool
	journaling bool
	pointer    int
	tmp        []byte
	written    []byte
	data       [][]byte
	err        error
	remote     net.Addr
}

func NewMockClient(data ...[]byte) *Client {
	return &Client{
		data:       data,
		journaling: true,
		err:        io.EOF,
	}
}

func (c *Client) Read() (data []byte, err error) {
	if c.closed {
		return nil, c.err
	}

	if len(c.tmp) > 0 {
		data, c.tmp = c.tmp, nil

		return data, nil
	}

	if c.pointer >= len(c.data) {
		if c.once {
			c.closed = true
			return nil, c.err
		}

		c.pointer = 0
	}

	piece := c.data[c.pointer]
	c.pointer++

	return piece, nil
}

func (c *Client) Pushback(takeback []byte) {
	c.tmp = takeback
}

func (c *Client) Write(p []byte) (int, error) {
	if c.journaling {
		c.written = append(c.written, p...)
	}

	return len(p), nil
}

// Conn returns a connection, writes into which are journaled by the client.
func (c *Client) Conn() net.Conn {
	return &Conn{W: c}
}

func (c *Client) Remote() net.Addr {
	return c.remote
}

func (c *Client) Close() error {
	c.closed = true
	return nil
}

// Once makes the client return io.EOF (or the error set via Fail) as soon as all the data
// pieces were read.
func (c *Client) Once() *Client {
	c.once = true
	return c
}

// Fail sets the error returned when the data is exhausted. Implies Once.
func (c *Client) Fail(err error) *Client {
	c.err = err
	return c.Once()
}

func (c *Client) WithRemote(addr net.Addr) *Client {
	c.remote = addr
	return c
}

func (c *Client) Journaling(flag bool) *Client {
	c.journaling = flag
	return c
}

func (c *Client) Written() string {
	if !c.journaling {
		panic("mock client: cannot access written data: journaling is disabled!")
	}

	return string(c.written)
}

func (c *Client) Closed() bool {
	return c.closed
}
