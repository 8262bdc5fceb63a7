package shell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
)

// Interpreter used for script execution.
const interpreter = "bash"

// Binary used to simulate root ownership during packaging.
const fakerootBinary = "fakeroot"

// Describes one script execution.
//
// The environment is explicit and complete: the child process receives
// exactly Env, never the ambient process environment.
type Command struct {
	Script   string   // Shell text passed to the interpreter.
	Dir      string   // Working directory.
	Env      []string // Complete environment as "key=value" entries.
	Fakeroot bool     // Wrap the invocation in fakeroot.
	Stream   bool     // Stream output to the parent's stderr instead of discarding it.
	Capture  bool     // Capture stdout and return it on the result.
}

// Output of a completed script execution.
type Result struct {
	ExitCode int    // Exit code of the process.
	Stdout   string // Captured standard output, when requested.
}

// Runs a script to completion and reports its exit status.
//
// A non-zero exit code is returned on the result, not as an error; the
// caller decides how to treat it. An error means the process could not
// be started or was interrupted. When fakeroot is requested but not
// installed, the script runs without it and a warning is logged.
func Run(ctx context.Context, cmd Command) (*Result, error) {
	argv := []string{interpreter, "-c", cmd.Script}

	if cmd.Fakeroot {
		if _, err := exec.LookPath(fakerootBinary); err != nil {
			slog.Warn("fakeroot not found, packaged file ownership may be wrong")
		} else {
			argv = append([]string{fakerootBinary, "--"}, argv...)
		}
	}

	proc := exec.CommandContext(ctx, argv[0], argv[1:]...)
	proc.Dir = cmd.Dir
	proc.Env = cmd.Env

	var stdout bytes.Buffer
	proc.Stdout, proc.Stderr = outputs(cmd, &stdout)

	if err := proc.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &Result{ExitCode: exitErr.ExitCode(), Stdout: stdout.String()}, nil
		}
		return nil, fmt.Errorf("%w: %w", ErrExec, err)
	}

	return &Result{ExitCode: 0, Stdout: stdout.String()}, nil
}

// Selects the stdout and stderr sinks for an execution.
//
// Captured stdout always goes to the buffer. Streamed output goes to
// the parent's stderr so it interleaves with log lines; suppressed
// output is discarded entirely.
func outputs(cmd Command, stdout *bytes.Buffer) (io.Writer, io.Writer) {
	var out io.Writer = io.Discard
	var errOut io.Writer = io.Discard

	if cmd.Stream {
		out = os.Stderr
		errOut = os.Stderr
	}
	if cmd.Capture {
		out = stdout
	}

	return out, errOut
}
