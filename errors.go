package rhinoline

import (
	"errors"
	"fmt"
	"strconv"
)

// Sentinel errors for client operations.
var (
	// ErrNotRunning indicates an operation was attempted with no live
	// server (never started, already stopped, or exited on its own).
	ErrNotRunning = errors.New("rhinoline: server not running")

	// ErrStopped indicates Start was called on a client that has already
	// been stopped. Clients are single-use: NotStarted → Running → Stopped.
	ErrStopped = errors.New("rhinoline: client stopped")

	// ErrUnexpectedEOF indicates the response stream ended with no data
	// while the server still appeared to be alive. This violates the
	// one-line-per-request contract and is always anomalous.
	ErrUnexpectedEOF = errors.New("rhinoline: empty response from running server")

	// ErrCommunication indicates a stream-level failure (broken pipe,
	// read error) while talking to the server. The client force-stops the
	// supervisor as a side effect; the channel is not safe to reuse.
	ErrCommunication = errors.New("rhinoline: server communication failed")
)

// SpawnError indicates the server subprocess could not be created —
// the executable was not found or the OS refused to start it.
type SpawnError struct {
	Binary string
	Err    error
}

func (e *SpawnError) Error() string {
	return "rhinoline: spawn " + e.Binary + ": " + e.Err.Error()
}

func (e *SpawnError) Unwrap() error { return e.Err }

// ExitError indicates the server exited before (or while) a response was
// awaited. Code carries the subprocess exit status verbatim; negative means
// signal-killed.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return "rhinoline: server exited with status " + strconv.Itoa(e.Code)
}

// ExitCode extracts the exit code from an error chain containing *ExitError.
// Returns (0, false) if the chain does not contain one.
func ExitCode(err error) (int, bool) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code, true
	}
	return 0, false
}

// MalformedError indicates a response line that failed to parse as JSON.
// Line preserves the raw text for diagnosis.
type MalformedError struct {
	Line string
	Err  error
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("rhinoline: malformed response %q: %v", e.Line, e.Err)
}

func (e *MalformedError) Unwrap() error { return e.Err }
