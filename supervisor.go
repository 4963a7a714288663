//go:build !windows

package rhinoline

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"sync"
	"syscall"
	"time"
)

// supervisor owns the server subprocess and its three standard streams.
// The RPC channel borrows stdin/stdout; the diagnostic drain owns stderr
// for its whole lifetime.
type supervisor struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout io.ReadCloser
	stderr io.ReadCloser

	exited   chan struct{} // closed by reap once the process is gone
	exitCode int           // valid only after exited is closed

	stopOnce sync.Once
}

// startSupervisor resolves the executable and spawns the subprocess with all
// three streams redirected. On any failure nothing is left running and the
// returned error wraps *SpawnError.
func startSupervisor(executable string, args []string, dir string) (*supervisor, error) {
	resolved, err := exec.LookPath(executable)
	if err != nil {
		return nil, &SpawnError{Binary: executable, Err: err}
	}

	cmd := exec.Command(resolved, args...)
	if dir != "" {
		cmd.Dir = dir
	}

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, &SpawnError{Binary: executable, Err: err}
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, &SpawnError{Binary: executable, Err: err}
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, &SpawnError{Binary: executable, Err: err}
	}

	// A failed Start closes every pipe it opened, so there is nothing to
	// unwind here beyond reporting.
	if err := cmd.Start(); err != nil {
		return nil, &SpawnError{Binary: executable, Err: err}
	}

	s := &supervisor{
		cmd:    cmd,
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
		exited: make(chan struct{}),
	}
	go s.reap()
	return s, nil
}

// reap waits for the subprocess and records its exit code.
//
// This deliberately uses os.Process.Wait rather than exec.Cmd.Wait: Cmd.Wait
// closes the parent's pipe ends as soon as the child exits, which would race
// an in-flight response read against buffered stdout data. The supervisor
// closes the streams itself during stop.
func (s *supervisor) reap() {
	state, err := s.cmd.Process.Wait()
	if err != nil || state == nil {
		s.exitCode = -1
	} else {
		s.exitCode = state.ExitCode()
	}
	close(s.exited)
}

// alive is a non-blocking liveness check. Once the process has exited it
// returns the exit code and false.
func (s *supervisor) alive() (int, bool) {
	select {
	case <-s.exited:
		return s.exitCode, false
	default:
		return 0, true
	}
}

// stop terminates the subprocess: SIGTERM, wait up to grace, then SIGKILL
// and wait unconditionally. All stream handles are closed on every path.
// Idempotent; later calls return after the first completes.
func (s *supervisor) stop(ctx context.Context, grace time.Duration) {
	s.stopOnce.Do(func() {
		if _, running := s.alive(); running {
			_ = signalProcess(s.cmd.Process, syscall.SIGTERM)
			select {
			case <-s.exited:
			case <-time.After(grace):
				_ = signalProcess(s.cmd.Process, os.Kill)
				<-s.exited
			case <-ctx.Done():
				_ = signalProcess(s.cmd.Process, os.Kill)
				<-s.exited
			}
		}
		s.closeStreams()
	})
	<-s.exited
}

// closeStreams releases all pipe handles. The drain may have closed stderr
// already; double closes are harmless here.
func (s *supervisor) closeStreams() {
	_ = s.stdin.Close()
	_ = s.stdout.Close()
	_ = s.stderr.Close()
}

// signalProcess sends sig to a process, returning nil if the process
// has already exited (os.ErrProcessDone).
func signalProcess(proc *os.Process, sig os.Signal) error {
	err := proc.Signal(sig)
	if errors.Is(err, os.ErrProcessDone) {
		return nil
	}
	return err
}
