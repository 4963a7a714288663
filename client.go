//go:build !windows

package rhinoline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// clientState is the lifecycle: NotStarted → Running → Stopped. There is no
// re-arm; a stopped client stays stopped.
type clientState int

const (
	stateNotStarted clientState = iota
	stateRunning
	stateStopped
)

// Client drives a rhino_mcp server subprocess. Construct with New, spawn the
// server with Start, and release it with Stop. All methods are safe for
// concurrent use.
type Client struct {
	opts Options
	log  *slog.Logger

	mu    sync.Mutex // guards state and the wiring below
	state clientState
	sup   *supervisor
	conn  *conn
	drain *drain
}

// New creates a client. The server is not spawned until Start.
func New(opts ...Option) *Client {
	o := resolveOptions(opts...)
	return &Client{opts: o, log: o.Logger}
}

// Start spawns the server subprocess and begins draining its stderr.
// Calling Start on a running client logs and returns nil without
// re-spawning; calling it after Stop returns ErrStopped. On spawn failure
// nothing is left running and the client stays usable for another attempt.
// The context parameter is reserved for future use (e.g., a readiness
// probe); subprocess lifetime is controlled via Stop.
func (c *Client) Start(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.state {
	case stateRunning:
		c.log.Info("server already running", "pid", c.sup.cmd.Process.Pid)
		return nil
	case stateStopped:
		return ErrStopped
	}

	sup, err := startSupervisor(c.opts.Executable, c.opts.Args, c.opts.WorkDir)
	if err != nil {
		return err
	}

	c.sup = sup
	c.drain = newDrain("stderr", sup.stderr, c.log, c.opts.MaxLineSize)
	c.conn = newConn(sup.stdin, sup.stdout, connConfig{
		maxLine:   c.opts.MaxLineSize,
		log:       c.log,
		exited:    sup.exited,
		exitCode:  func() int { return sup.exitCode },
		forceStop: func() { c.shutdown(context.Background()) },
	})
	c.state = stateRunning

	c.log.Info("server started",
		"executable", c.opts.Executable,
		"pid", sup.cmd.Process.Pid,
		"dir", c.opts.WorkDir)
	return nil
}

// Stop terminates the server: graceful termination request, bounded wait,
// then forced kill. Idempotent — stopping a stopped (or never-started)
// client is a no-op. Every path closes all stream handles and joins the
// diagnostic drain with a bounded wait.
func (c *Client) Stop(ctx context.Context) error {
	c.shutdown(ctx)
	return nil
}

// shutdown moves the client to Stopped and reaps the subprocess if one is
// running. Shared by Stop and by the channel's failure path.
func (c *Client) shutdown(ctx context.Context) {
	c.mu.Lock()
	if c.state != stateRunning {
		c.state = stateStopped
		c.mu.Unlock()
		c.log.Debug("stop: server not running")
		return
	}
	c.state = stateStopped
	sup, dr := c.sup, c.drain
	c.mu.Unlock()

	sup.stop(ctx, c.opts.GracePeriod)
	if !dr.join(c.opts.DrainJoinTimeout) {
		c.log.Warn("diagnostic drain did not finish in time", "stream", dr.name)
	}
	c.log.Info("server stopped", "exit_code", sup.exitCode)
}

// Invoke sends one request and blocks until its response line arrives.
// Concurrent callers are serialized; request ids are assigned 1, 2, 3, ...
// in wire order. A server-sent error member is returned as Response.Err,
// not as a Go error — callers must check it.
func (c *Client) Invoke(ctx context.Context, method string, params map[string]any) (*Response, error) {
	c.mu.Lock()
	state, conn := c.state, c.conn
	c.mu.Unlock()

	if state != stateRunning {
		return nil, fmt.Errorf("%w: %s", ErrNotRunning, method)
	}
	return conn.call(ctx, method, params)
}

// Run scopes a server subprocess to fn: Start, call fn, then Stop on every
// exit path.
func Run(ctx context.Context, fn func(*Client) error, opts ...Option) error {
	c := New(opts...)
	if err := c.Start(ctx); err != nil {
		return err
	}
	defer func() { _ = c.Stop(context.Background()) }()
	return fn(c)
}
