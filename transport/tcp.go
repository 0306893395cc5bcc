package transport

import (
	"context"
	"net"
	"os"
	"sync"
	"sync/atomic"

	"github.com/benbjohnson/clock"
	"github.com/indigo-web/triton/config"
	"github.com/pkg/errors"
	"golang.org/x/net/netutil"
)

type TCP struct {
	l         *net.TCPListener
	clock     clock.Clock
	wg        *sync.WaitGroup
	stop      *atomic.Bool
	reusePort bool
}

func NewTCP() *TCP {
	return &TCP{
		clock: clock.New(),
		wg:    new(sync.WaitGroup),
		stop:  new(atomic.Bool),
	}
}

// ReusePort makes the listening socket bound with SO_REUSEPORT. Must be set before Bind.
func (t *TCP) ReusePort(flag bool) *TCP {
	t.reusePort = flag
	return t
}

func (t *TCP) Bind(addr string) error {
	var lc net.ListenConfig
	if t.reusePort {
		lc.Control = reusePortControl
	}

	l, err := lc.Listen(context.Background(), "tcp", addr)
	if err != nil {
		return errors.Wrapf(err, "bind %s", addr)
	}

	t.l = l.(*net.TCPListener)
	return nil
}

// Listen accepts connections until stopped, calling cb for every connection in its own
// goroutine. The connection is closed as soon as cb returns.
func (t *TCP) Listen(cfg config.NET, cb func(conn net.Conn)) error {
	var l net.Listener = t.l
	if cfg.MaxConnections > 0 {
		l = netutil.LimitListener(l, cfg.MaxConnections)
	}

	for !t.stop.Load() {
		err := t.l.SetDeadline(t.clock.Now().Add(cfg.AcceptLoopInterruptPeriod))
		if err != nil {
			if t.stop.Load() {
				return nil
			}

			return err
		}

		conn, err := l.Accept()
		if err != nil {
			switch {
			case errors.Is(err, os.ErrDeadlineExceeded):
				continue
			case t.stop.Load():
				// the listener was closed in order to interrupt the Accept call
				return nil
			}

			return err
		}

		t.wg.Add(1)
		go func(conn net.Conn) {
			defer t.wg.Done()
			cb(conn)
			_ = conn.Close()
		}(conn)
	}

	return nil
}

func (t *TCP) Addr() net.Addr {
	if t.l == nil {
		return nil
	}

	return t.l.Addr()
}

func (t *TCP) Stop() {
	t.stop.Store(true)
}

func (t *TCP) Close() {
	if t.l != nil {
		_ = t.l.Close()
	}
}

func (t *TCP) Wait() {
	t.wg.Wait()
}
