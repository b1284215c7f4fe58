package command

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"

	"github.com/alessio/shellescape"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/plonk/pkg/domain/interfaces"
	"github.com/m-mizutani/plonk/pkg/domain/types"
)

// exitCodeNotFound follows the shell convention for a missing executable
const exitCodeNotFound = 127

type runner struct{}

// NewRunner creates a CommandRunner executing tools on the local host
func NewRunner() interfaces.CommandRunner {
	return &runner{}
}

// Run executes req and captures its output. A non-zero exit returns both the
// result and a *types.CommandError.
func (r *runner) Run(ctx context.Context, req interfaces.CommandRequest) (*interfaces.CommandResult, error) {
	logger := ctxlog.From(ctx)

	if req.Name == "" {
		return nil, goerr.New("command name is empty", goerr.T(types.ErrTagArgument))
	}

	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	argv := append([]string{req.Name}, req.Args...)
	logger.Debug("Running command",
		"command", shellescape.QuoteCommand(argv),
		"dir", req.Dir,
		"timeout", req.Timeout,
	)

	cmd := exec.CommandContext(ctx, req.Name, req.Args...)
	cmd.Dir = req.Dir
	if len(req.Env) > 0 {
		cmd.Env = append(os.Environ(), req.Env...)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := &interfaces.CommandResult{
		Stdout: stdout.Bytes(),
		Stderr: stderr.Bytes(),
	}
	if err == nil {
		return result, nil
	}

	result.ExitCode = 1
	var exitErr *exec.ExitError
	var execErr *exec.Error
	switch {
	case errors.As(err, &exitErr):
		// -1 when the process was killed by a signal, e.g. on timeout
		if code := exitErr.ExitCode(); code > 0 {
			result.ExitCode = code
		}
	case errors.As(err, &execErr), errors.Is(err, os.ErrNotExist):
		result.ExitCode = exitCodeNotFound
	}

	cmdErr := &types.CommandError{
		Command:  argv,
		ExitCode: result.ExitCode,
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
	}
	opts := []goerr.Option{
		goerr.V("command", shellescape.QuoteCommand(argv)),
		goerr.V("dir", req.Dir),
		goerr.V("exit_code", result.ExitCode),
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return result, goerr.Wrap(errors.Join(cmdErr, ctxErr), "command interrupted", opts...)
	}
	return result, goerr.Wrap(cmdErr, "command failed", opts...)
}
