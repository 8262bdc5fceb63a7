package recipe

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// Answers capability queries against a recipe script.
//
// The orchestration above this interface is interpreter-agnostic: it
// only asks whether a name is defined as a variable or a function, and
// for the value either yields.
type Evaluator interface {
	HasVariable(ctx context.Context, name string) (bool, error)
	HasFunction(ctx context.Context, name string) (bool, error)
	ReadVariable(ctx context.Context, name string) (string, error)
	InvokeFunction(ctx context.Context, name string) (string, error)
}

// Evaluates recipe scripts with an embedded POSIX shell interpreter.
//
// Every query sources the script in a fresh interpreter context with a
// read-only filesystem, then inspects the resulting shell state. The
// script therefore runs repeatedly; recipes are expected to be cheap
// declaration blocks, not builds.
type ShellEvaluator struct {
	path string
	dir  string
	prog *syntax.File
	env  []string
}

// Parses a recipe script and prepares it for evaluation.
//
// The environment is the complete variable set visible to the script;
// nothing from the ambient process environment is inherited beyond it.
func NewEvaluator(path string, env []string) (*ShellEvaluator, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEval, err)
	}

	prog, err := syntax.NewParser().Parse(bytes.NewReader(src), path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEval, err)
	}

	return &ShellEvaluator{
		path: path,
		dir:  filepath.Dir(path),
		prog: prog,
		env:  env,
	}, nil
}

// Returns a copy of the evaluator with a different environment.
//
// The parsed script is shared; only the variable set changes. Used for
// the second evaluation phase once the package identity is known.
func (e *ShellEvaluator) WithEnv(env []string) *ShellEvaluator {
	clone := *e
	clone.env = env
	return &clone
}

// Whether the script defines a variable with the given name.
func (e *ShellEvaluator) HasVariable(ctx context.Context, name string) (bool, error) {
	runner, err := e.source(ctx, io.Discard)
	if err != nil {
		return false, err
	}
	return runner.Vars[name].IsSet(), nil
}

// Whether the script defines a function with the given name.
func (e *ShellEvaluator) HasFunction(ctx context.Context, name string) (bool, error) {
	runner, err := e.source(ctx, io.Discard)
	if err != nil {
		return false, err
	}
	return runner.Funcs[name] != nil, nil
}

// Reads a variable's value.
//
// Array variables are returned with their elements newline-joined, so
// scalar and array declarations surface through the same contract.
func (e *ShellEvaluator) ReadVariable(ctx context.Context, name string) (string, error) {
	runner, err := e.source(ctx, io.Discard)
	if err != nil {
		return "", err
	}

	v := runner.Vars[name]
	if !v.IsSet() {
		return "", fmt.Errorf("%w: variable %q is not defined", ErrEval, name)
	}
	if v.Kind == expand.Indexed {
		return strings.Join(v.List, "\n"), nil
	}
	return v.String(), nil
}

// Invokes a function and captures its emitted text.
func (e *ShellEvaluator) InvokeFunction(ctx context.Context, name string) (string, error) {
	var out bytes.Buffer

	runner, err := e.source(ctx, &out)
	if err != nil {
		return "", err
	}

	call, err := syntax.NewParser().Parse(strings.NewReader(name), name)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrEval, err)
	}

	if err := runner.Run(ctx, call); err != nil {
		return "", fmt.Errorf("%w: function %q: %w", ErrEval, name, err)
	}

	return strings.TrimRight(out.String(), "\n"), nil
}

// Sources the script in a fresh interpreter.
//
// The working directory is the recipe's own directory and the
// filesystem is read-only for the duration of the run.
func (e *ShellEvaluator) source(ctx context.Context, stdout io.Writer) (*interp.Runner, error) {
	runner, err := interp.New(
		interp.Dir(e.dir),
		interp.Env(expand.ListEnviron(e.env...)),
		interp.StdIO(nil, stdout, io.Discard),
		interp.OpenHandler(readOnlyOpen),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEval, err)
	}

	if err := runner.Run(ctx, e.prog); err != nil {
		return nil, fmt.Errorf("%w: sourcing %s: %w", ErrEval, e.path, err)
	}

	return runner, nil
}

// Rejects any open that could modify the filesystem.
//
// Writes to the null device are still permitted so scripts may redirect
// unwanted output.
func readOnlyOpen(ctx context.Context, path string, flag int, perm os.FileMode) (io.ReadWriteCloser, error) {
	writing := flag&(os.O_WRONLY|os.O_RDWR|os.O_CREATE|os.O_TRUNC|os.O_APPEND) != 0
	if writing && path != os.DevNull {
		return nil, fmt.Errorf("recipe evaluation is read-only: %s", path)
	}
	return interp.DefaultOpenHandler()(ctx, path, flag, perm)
}
