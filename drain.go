package rhinoline

import (
	"io"
	"log/slog"
	"strings"
	"time"
)

// drain continuously consumes one diagnostic stream of the subprocess so the
// subprocess never blocks on a full pipe buffer, surfacing each line as a
// structured log event tagged with the stream's name.
//
// A drain never propagates failures: end-of-stream and read errors are
// terminal for the drain only, not for the client.
type drain struct {
	name string
	r    io.ReadCloser
	log  *slog.Logger
	done chan struct{}
}

// newDrain starts draining r in a background goroutine.
func newDrain(name string, r io.ReadCloser, log *slog.Logger, maxLine int) *drain {
	d := &drain{
		name: name,
		r:    r,
		log:  log,
		done: make(chan struct{}),
	}
	go d.run(maxLine)
	return d
}

func (d *drain) run(maxLine int) {
	defer close(d.done)
	defer d.r.Close()

	scanner := newLineScanner(d.r, maxLine)
	for scanner.Scan() {
		d.log.Info("server output",
			"stream", d.name,
			"line", strings.TrimSpace(scanner.Text()))
	}
	if err := scanner.Err(); err != nil {
		d.log.Warn("diagnostic stream closed", "stream", d.name, "error", err)
	}
}

// join waits for the drain to finish, up to timeout. The stream could be
// mid-line at shutdown, so completion is awaited, not guaranteed. Reports
// whether the drain finished in time.
func (d *drain) join(timeout time.Duration) bool {
	select {
	case <-d.done:
		return true
	case <-time.After(timeout):
		return false
	}
}
