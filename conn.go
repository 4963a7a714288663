package rhinoline

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// exitProbe is how long an empty read waits for the reaper to confirm a
// server exit before the read is classified as an anomalous EOF. The pipe
// closes a moment before the exit is reaped, so an instant check would
// misreport a dead server as a protocol violation.
const exitProbe = 250 * time.Millisecond

// conn is the synchronized request/response channel. One mutex spans the
// whole round trip — id assignment, request write, response read — so at
// most one request is ever on the wire and ids match wire order exactly.
type conn struct {
	mu      sync.Mutex
	w       io.Writer
	scanner *bufio.Scanner
	nextID  int64

	// poisoned is set when a read was abandoned mid-line. The scan goroutine
	// still owns the scanner at that point, so no further call may touch it.
	poisoned atomic.Bool

	log *slog.Logger

	exited   <-chan struct{} // closed when the supervisor reaps the server
	exitCode func() int      // valid once exited is closed

	// forceStop shuts the supervisor down after a stream-level failure, so
	// the dead server and its drain are reaped promptly. Must be safe to
	// call while the channel mutex is held.
	forceStop func()
}

// connConfig wires a conn to its supervisor.
type connConfig struct {
	maxLine   int
	log       *slog.Logger
	exited    <-chan struct{}
	exitCode  func() int
	forceStop func()
}

func newConn(w io.Writer, r io.Reader, cfg connConfig) *conn {
	return &conn{
		w:         w,
		scanner:   newLineScanner(r, cfg.maxLine),
		log:       cfg.log,
		exited:    cfg.exited,
		exitCode:  cfg.exitCode,
		forceStop: cfg.forceStop,
	}
}

func (c *conn) running() bool {
	if c.poisoned.Load() {
		return false
	}
	select {
	case <-c.exited:
		return false
	default:
		return true
	}
}

// call performs one request/response round trip. Callable from any number
// of goroutines; each call is fully serialized against every other call.
func (c *conn) call(ctx context.Context, method string, params map[string]any) (*Response, error) {
	// Fast path — don't queue on the mutex for a dead server.
	if !c.running() {
		return nil, fmt.Errorf("%w: %s", ErrNotRunning, method)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// The server may have died while we waited for the lock.
	if !c.running() {
		return nil, fmt.Errorf("%w: %s", ErrNotRunning, method)
	}

	c.nextID++
	id := c.nextID

	if params == nil {
		params = map[string]any{}
	}
	line, err := json.Marshal(request{
		JSONRPC: jsonrpcVersion,
		Method:  method,
		Params:  params,
		ID:      id,
	})
	if err != nil {
		return nil, fmt.Errorf("rhinoline: encode %s: %w", method, err)
	}

	c.log.Debug("sending request", "method", method, "id", id)

	// Pipe writes are unbuffered, so the newline completes the frame and
	// the server observes the full line immediately.
	if _, err := c.w.Write(append(line, '\n')); err != nil {
		c.forceStop()
		return nil, fmt.Errorf("%w: write %s: %v", ErrCommunication, method, err)
	}

	raw, err := c.readLine(ctx, method)
	if err != nil {
		return nil, err
	}

	resp, err := decodeResponse(raw)
	if err != nil {
		return nil, &MalformedError{Line: string(raw), Err: err}
	}

	if resp.ID != id {
		c.log.Warn("response id mismatch",
			"method", method, "want", id, "got", resp.ID)
	}
	if resp.Err != nil {
		c.log.Error("server returned error",
			"method", method, "id", id, "error", resp.Err.Error())
	}
	return resp, nil
}

type scanOutcome struct {
	line []byte
	err  error // scanner error; nil on clean EOF
	eof  bool
}

// readLine blocks until a full response line arrives, the stream ends, or
// ctx expires. On ctx expiry the channel is poisoned — the pending read
// cannot be unblocked — so the supervisor is force-stopped in the background
// rather than leaving a half-read stream behind.
func (c *conn) readLine(ctx context.Context, method string) ([]byte, error) {
	ch := make(chan scanOutcome, 1)
	go func() {
		if c.scanner.Scan() {
			ch <- scanOutcome{line: bytes.TrimSpace(append([]byte(nil), c.scanner.Bytes()...))}
			return
		}
		ch <- scanOutcome{err: c.scanner.Err(), eof: true}
	}()

	select {
	case out := <-ch:
		if !out.eof {
			return out.line, nil
		}
		return nil, c.classifyEOF(out.err, method)
	case <-ctx.Done():
		c.poisoned.Store(true)
		go c.forceStop()
		return nil, fmt.Errorf("rhinoline: %s: %w", method, ctx.Err())
	}
}

// classifyEOF distinguishes the empty-read outcomes: a read error, a server
// that exited before responding, and a stream that ended under a live server.
func (c *conn) classifyEOF(scanErr error, method string) error {
	if scanErr != nil {
		c.forceStop()
		return fmt.Errorf("%w: read %s: %v", ErrCommunication, method, scanErr)
	}
	select {
	case <-c.exited:
		return fmt.Errorf("rhinoline: %s: %w", method, &ExitError{Code: c.exitCode()})
	case <-time.After(exitProbe):
		c.log.Error("response stream ended with server still running", "method", method)
		return fmt.Errorf("%w (method %s)", ErrUnexpectedEOF, method)
	}
}
