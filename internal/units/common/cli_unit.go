// Package common provides shared plumbing for CLI-backed lookup units.
package common

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"sync"
	"time"

	"kirwada/internal/platform/logx"
)

// CLIRunner executes an external binary and captures its output. It keeps
// a reference to the running process so Close can terminate it if the
// dispatcher abandons the unit.
type CLIRunner struct {
	logger   logx.Logger
	execPath string

	mu  sync.Mutex
	cmd *exec.Cmd
}

// NewCLIRunner builds a runner for the given binary name or path.
func NewCLIRunner(logger logx.Logger, execPath string) *CLIRunner {
	return &CLIRunner{
		logger:   logger.With("runner", execPath),
		execPath: execPath,
	}
}

// Resolve checks that the binary exists in PATH and caches the absolute
// path. Units call this lazily on first Run so a missing binary surfaces
// as a unit failure, not a startup failure.
func (r *CLIRunner) Resolve() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	path, err := exec.LookPath(r.execPath)
	if err != nil {
		return fmt.Errorf("%s not found in PATH: %w", r.execPath, err)
	}
	r.execPath = path
	return nil
}

// Run executes the binary with args and returns stdout. Stderr is
// captured separately and returned for diagnostics; a non-zero exit with
// partial stdout is reported alongside the output so callers can decide
// whether the partial result is usable.
func (r *CLIRunner) Run(ctx context.Context, args ...string) (stdout, stderr string, err error) {
	cmd := exec.CommandContext(ctx, r.execPath, args...)

	var outBuf, errBuf bytes.Buffer
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf

	r.mu.Lock()
	r.cmd = cmd
	r.mu.Unlock()

	r.logger.Debug("exec", "args", fmt.Sprint(args))

	start := time.Now()
	runErr := cmd.Run()
	elapsed := time.Since(start)

	r.mu.Lock()
	r.cmd = nil
	r.mu.Unlock()

	stdout = outBuf.String()
	stderr = errBuf.String()

	if runErr != nil {
		r.logger.Debug("exec failed",
			"error", runErr.Error(), "duration_ms", elapsed.Milliseconds())
		return stdout, stderr, fmt.Errorf("run %s: %w", r.execPath, runErr)
	}

	r.logger.Debug("exec completed", "duration_ms", elapsed.Milliseconds())
	return stdout, stderr, nil
}

// Close terminates the subprocess if one is still running. Idempotent.
func (r *CLIRunner) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cmd == nil || r.cmd.Process == nil {
		return nil
	}

	proc := r.cmd.Process
	state := r.cmd.ProcessState
	if state == nil || !state.Exited() {
		if err := proc.Signal(os.Interrupt); err != nil && err != os.ErrProcessDone {
			if killErr := proc.Kill(); killErr != nil && killErr != os.ErrProcessDone {
				r.logger.Warn("failed to kill subprocess", "error", killErr.Error())
			}
		}
	}
	r.cmd = nil
	return nil
}
