// Package launch spawns the pipeline's generator process and supervises it:
// output is streamed line by line to an observer as it arrives, and a
// terminal status is reported exactly once per invocation.
package launch

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"

	"pipetune/pkg/logging"

	"golang.org/x/sync/errgroup"
)

// ErrLaunchInFlight is returned when a launch is requested while a previous
// one has not yet reported its terminal status. At most one generator runs
// per supervisor.
var ErrLaunchInFlight = errors.New("launch already in flight")

// LaunchError reports a process that could not be spawned at all (missing
// executable, bad working directory). Fatal for the launch attempt only.
type LaunchError struct {
	Command string
	Err     error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("failed to launch %s: %v", e.Command, e.Err)
}

func (e *LaunchError) Unwrap() error { return e.Err }

// Spec describes the process to spawn. The command is executed directly with
// an explicit argument list, never through a shell.
type Spec struct {
	Command  string
	Args     []string
	Dir      string
	ExtraEnv map[string]string // layered over the inherited environment
}

// Stream identifies which pipe a line arrived on.
type Stream int

const (
	StreamStdout Stream = iota
	StreamStderr
)

// String makes Stream satisfy fmt.Stringer.
func (s Stream) String() string {
	if s == StreamStderr {
		return "stderr"
	}
	return "stdout"
}

// OutputLine is one line of child output, delivered to the observer as it
// arrives rather than buffered until exit.
type OutputLine struct {
	Stream Stream
	Text   string
}

// LineFunc receives streamed output lines. It is called from the supervisor's
// reader goroutines; implementations must be safe for that.
type LineFunc func(line OutputLine)

// Status is the terminal report of one launch.
type Status struct {
	ExitCode int
	Err      error // non-nil when the process could not run to a normal exit
}

// Ok reports a clean zero-exit run.
func (s Status) Ok() bool { return s.Err == nil && s.ExitCode == 0 }

// Handle tracks one in-flight launch.
type Handle struct {
	done   chan struct{}
	status Status
}

// Wait blocks until the process reaches its terminal status and returns it.
func (h *Handle) Wait() Status {
	<-h.done
	return h.status
}

// Supervisor enforces at-most-one in-flight launch and owns the streaming
// plumbing between the child process and the observer.
type Supervisor struct {
	mu       sync.Mutex
	inFlight bool
}

// NewSupervisor creates an idle supervisor.
func NewSupervisor() *Supervisor {
	return &Supervisor{}
}

// Launch spawns the process described by spec and streams its output to
// onLine. It returns ErrLaunchInFlight when a previous launch has not
// terminated, or a LaunchError when the process cannot be spawned; otherwise
// the returned handle delivers the terminal status via Wait.
func (s *Supervisor) Launch(ctx context.Context, spec Spec, onLine LineFunc) (*Handle, error) {
	s.mu.Lock()
	if s.inFlight {
		s.mu.Unlock()
		return nil, ErrLaunchInFlight
	}
	s.inFlight = true
	s.mu.Unlock()

	cmd := exec.CommandContext(ctx, spec.Command, spec.Args...)
	cmd.Dir = spec.Dir
	cmd.Stdin = nil

	env := os.Environ()
	env = append(env, "PYTHONIOENCODING=utf-8")
	for k, v := range spec.ExtraEnv {
		env = append(env, k+"="+v)
	}
	cmd.Env = env

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		s.clearInFlight()
		return nil, &LaunchError{Command: spec.Command, Err: err}
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		s.clearInFlight()
		return nil, &LaunchError{Command: spec.Command, Err: err}
	}

	logging.Info("Launcher", "Starting %s %v in %s", spec.Command, spec.Args, spec.Dir)
	if err := cmd.Start(); err != nil {
		s.clearInFlight()
		return nil, &LaunchError{Command: spec.Command, Err: err}
	}

	h := &Handle{done: make(chan struct{})}

	var g errgroup.Group
	g.Go(func() error { return streamLines(stdout, StreamStdout, onLine) })
	g.Go(func() error { return streamLines(stderr, StreamStderr, onLine) })

	go func() {
		streamErr := g.Wait()
		waitErr := cmd.Wait()

		status := Status{}
		switch {
		case waitErr == nil:
			// clean zero exit
		case isExitError(waitErr):
			status.ExitCode = cmd.ProcessState.ExitCode()
		default:
			status.Err = waitErr
		}
		if status.Err == nil && streamErr != nil {
			status.Err = streamErr
		}

		if status.Ok() {
			logging.Info("Launcher", "%s finished successfully", spec.Command)
		} else {
			logging.Warn("Launcher", "%s exited with code %d (err: %v)", spec.Command, status.ExitCode, status.Err)
		}

		h.status = status
		s.clearInFlight()
		close(h.done)
	}()

	return h, nil
}

func (s *Supervisor) clearInFlight() {
	s.mu.Lock()
	s.inFlight = false
	s.mu.Unlock()
}

// InFlight reports whether a launch is currently running.
func (s *Supervisor) InFlight() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inFlight
}

// streamLines delivers reader output line by line until EOF, so memory stays
// bounded regardless of how long the child runs.
func streamLines(r io.Reader, stream Stream, onLine LineFunc) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if onLine != nil {
			onLine(OutputLine{Stream: stream, Text: scanner.Text()})
		}
	}
	return scanner.Err()
}

func isExitError(err error) bool {
	var exitErr *exec.ExitError
	return errors.As(err, &exitErr)
}
