package triton

import (
	"net"

	"github.com/benbjohnson/clock"
	"github.com/indigo-web/triton/config"
	"github.com/indigo-web/triton/internal/construct"
	"github.com/indigo-web/triton/internal/protocol/http1"
	"github.com/indigo-web/triton/router"
	"github.com/indigo-web/triton/transport"
	"github.com/pkg/errors"
)

// App is the server itself. Each accepted connection is served in its own goroutine
// by its own set of objects. The only things shared among the connections are the config
// and the router, which are never modified while serving.
type App struct {
	cfg        *config.Config
	clock      clock.Clock
	hooks      hooks
	addrs      []string
	supervisor transport.Supervisor
}

// New returns a new App instance listening on the addr.
func New(addr string) *App {
	return &App{
		cfg:        config.Default(),
		clock:      clock.New(),
		addrs:      []string{addr},
		supervisor: transport.NewSupervisor(),
	}
}

// Tune replaces default config.
func (a *App) Tune(cfg *config.Config) *App {
	a.cfg = cfg
	return a
}

// Bind adds one more address to listen on.
func (a *App) Bind(addr string) *App {
	a.addrs = append(a.addrs, addr)
	return a
}

// NotifyOnStart calls the callback at the moment, when all the addresses are bound and the
// server is about to start accepting connections.
func (a *App) NotifyOnStart(cb func()) *App {
	a.hooks.OnStart = cb
	return a
}

// NotifyOnStop calls the callback at the moment, when all the transports are down. It's guaranteed,
// that at the moment as the callback is called, the server isn't able to accept any new connections
// and all the clients are already disconnected
func (a *App) NotifyOnStop(cb func()) *App {
	a.hooks.OnStop = cb
	return a
}

// Addrs returns the actual addresses the server listens on. Useful when binding to port 0.
// The result is meaningful only after the OnStart hook was called.
func (a *App) Addrs() []net.Addr {
	return a.supervisor.Addrs()
}

// Serve binds all the addresses and blocks until the server is stopped or any of the
// listeners fails.
func (a *App) Serve(r router.Router) error {
	if r == nil {
		return errors.New("triton: nil router")
	}

	if err := a.cfg.Validate(); err != nil {
		return errors.Wrap(err, "triton: bad config")
	}

	for _, addr := range a.addrs {
		tcp := transport.NewTCP().ReusePort(a.cfg.NET.ReusePort)
		if err := a.supervisor.Add(addr, tcp, a.newTCPCallback(r)); err != nil {
			return err
		}
	}

	callIfNotNil(a.hooks.OnStart)
	err := a.supervisor.Run(a.cfg.NET)
	callIfNotNil(a.hooks.OnStop)

	return err
}

// Stop stops accepting new connections and blocks until all the current connections are
// done.
func (a *App) Stop() {
	a.supervisor.Stop()
}

func (a *App) newTCPCallback(r router.Router) func(net.Conn) {
	return func(conn net.Conn) {
		client := construct.Client(a.cfg.NET, a.clock, conn)
		http1.Initialize(a.cfg, r, client).Serve()
	}
}

type hooks struct {
	OnStart, OnStop func()
}

func callIfNotNil(f func()) {
	if f != nil {
		f()
	}
}
