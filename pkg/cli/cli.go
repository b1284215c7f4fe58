package cli

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/plonk/pkg/cli/config"
	"github.com/m-mizutani/plonk/pkg/domain/interfaces"
	"github.com/m-mizutani/plonk/pkg/domain/types"
	"github.com/m-mizutani/plonk/pkg/infra/command"
	githubinfra "github.com/m-mizutani/plonk/pkg/infra/github"
	"github.com/urfave/cli/v3"
)

// runtimeEnv holds the collaborators of the commands; tests replace them
type runtimeEnv struct {
	stdout    io.Writer
	stderr    io.Writer
	goos      string
	runner    interfaces.CommandRunner
	newClient func(opts ...githubinfra.Option) interfaces.AssetClient
}

func defaultEnv() *runtimeEnv {
	return &runtimeEnv{
		stdout:    os.Stdout,
		stderr:    os.Stderr,
		goos:      runtime.GOOS,
		runner:    command.NewRunner(),
		newClient: githubinfra.NewClient,
	}
}

// Run runs the CLI application
func Run(ctx context.Context, args []string) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	return run(ctx, args, defaultEnv())
}

func run(ctx context.Context, args []string, env *runtimeEnv) error {
	loggerCfg := config.Logger{Output: env.stderr}
	var logger *slog.Logger

	app := &cli.Command{
		Name:      "plonk",
		Usage:     "Fetch the Frida Gum devkit and build dynamic libraries against it",
		Version:   types.Version,
		Flags:     loggerCfg.Flags(),
		Writer:    env.stdout,
		ErrWriter: env.stderr,
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			var err error
			logger, err = loggerCfg.Configure()
			if err != nil {
				return nil, err
			}

			slog.SetDefault(logger)
			ctx = ctxlog.With(ctx, logger)
			return ctx, nil
		},
		Commands: []*cli.Command{
			cmdFetch(env),
			cmdBuild(env),
			cmdInject(env),
		},
	}

	if err := app.Run(ctx, args); err != nil {
		if logger == nil {
			logger = slog.Default()
		}
		logger.Error("CLI execution failed",
			slog.String("stage", types.Stage(err)),
			slog.Any("error", err),
		)
		return err
	}

	return nil
}
