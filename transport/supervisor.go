package transport

import (
	"net"
	"sync"

	"github.com/indigo-web/triton/config"
)

type Transport interface {
	Bind(addr string) error
	Listen(cfg config.NET, cb func(conn net.Conn)) error
	Addr() net.Addr
	Stop()
	Close()
	Wait()
}

// Supervisor runs a set of bound transports at once. As soon as any of them fails or
// Stop is called, all the rest are stopped, too. A supervisor can be run only once.
type Supervisor struct {
	ts       []boundTransport
	stopch   chan struct{}
	stopOnce *sync.Once
	done     chan struct{}
	running  bool
	mu       *sync.Mutex
}

func NewSupervisor() Supervisor {
	return Supervisor{
		stopch:   make(chan struct{}),
		stopOnce: new(sync.Once),
		done:     make(chan struct{}),
		mu:       new(sync.Mutex),
	}
}

func (s *Supervisor) Add(addr string, transport Transport, cb func(net.Conn)) error {
	err := transport.Bind(addr)
	if err != nil {
		s.close()
		return err
	}

	s.ts = append(s.ts, boundTransport{
		cb: cb,
		t:  transport,
	})

	return nil
}

// Addrs returns addresses of all the bound transports.
func (s *Supervisor) Addrs() []net.Addr {
	addrs := make([]net.Addr, 0, len(s.ts))
	for _, t := range s.ts {
		addrs = append(addrs, t.t.Addr())
	}

	return addrs
}

// Run blocks until every transport is stopped. The first error returned by a transport
// is returned.
func (s *Supervisor) Run(cfg config.NET) error {
	s.mu.Lock()
	s.running = true
	s.mu.Unlock()
	defer close(s.done)

	if len(s.ts) == 0 {
		return nil
	}

	errch := make(chan error)

	for _, t := range s.ts {
		go func(t boundTransport) {
			errch <- t.t.Listen(cfg, t.cb)
		}(t)
	}

	var (
		err     error
		running = len(s.ts)
	)

	select {
	case err = <-errch:
		running--
	case <-s.stopch:
	}

	s.stop(errch, running)

	return err
}

// Stop stops all the transports and waits until every connection is done. If Run wasn't
// entered yet, it returns immediately and the following Run exits right away.
func (s *Supervisor) Stop() {
	s.mu.Lock()
	s.stopOnce.Do(func() {
		close(s.stopch)
	})
	running := s.running
	s.mu.Unlock()

	if running {
		<-s.done
	}
}

func (s *Supervisor) stop(errch <-chan error, running int) {
	for _, t := range s.ts {
		t.t.Stop()
	}

	// closing the listeners interrupts pending accepts immediately
	s.close()
	drain(errch, running)

	for _, t := range s.ts {
		t.t.Wait()
	}
}

func (s *Supervisor) close() {
	for _, t := range s.ts {
		t.t.Close()
	}
}

type boundTransport struct {
	cb func(conn net.Conn)
	t  Transport
}

func drain(ch <-chan error, n int) {
	for range n {
		<-ch
	}
}
