package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/plonk/pkg/cli/config"
	"github.com/m-mizutani/plonk/pkg/domain/model"
	"github.com/m-mizutani/plonk/pkg/domain/types"
	"github.com/m-mizutani/plonk/pkg/usecase"
	"github.com/urfave/cli/v3"
)

func cmdBuild(env *runtimeEnv) *cli.Command {
	var toolchainCfg config.Toolchain

	return &cli.Command{
		Name:    "build",
		Aliases: []string{"b"},
		Usage:   "Build a module directory as a dynamic library and print the library path",
		Flags:   toolchainCfg.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			req, err := toolchainCfg.Request(env.goos)
			if err != nil {
				return err
			}

			uc := usecase.NewBuild(env.runner, usecase.WithBuildTimeout(toolchainCfg.Timeout))
			if req.Watch {
				return uc.Watch(ctx, req, func(result *model.BuildResult, err error) {
					if err != nil {
						ctxlog.From(ctx).Error("Build failed", "stage", types.Stage(err), "error", err)
						color.New(color.FgRed).Fprintf(env.stderr, "build failed: %v\n", err)
						return
					}
					printArtifact(env, result)
				})
			}

			result, err := uc.Build(ctx, req)
			if err != nil {
				return err
			}
			printArtifact(env, result)
			return nil
		},
	}
}

func printArtifact(env *runtimeEnv, result *model.BuildResult) {
	if !result.Exists {
		color.New(color.FgYellow).Fprintf(env.stderr, "warning: %s not found in %s\n", result.Artifact, result.Dir)
	}
	fmt.Fprintln(env.stdout, result.Artifact)
}

func cmdInject(env *runtimeEnv) *cli.Command {
	var injectorCfg config.Injector

	return &cli.Command{
		Name:  "inject",
		Usage: "Compile the injector library against the extracted devkit",
		Flags: injectorCfg.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			uc := usecase.NewBuild(env.runner, usecase.WithBuildTimeout(injectorCfg.Timeout))
			result, err := uc.Inject(ctx, injectorCfg.Request(env.goos))
			if err != nil {
				return err
			}

			fmt.Fprintln(env.stdout, result.Output)
			return nil
		},
	}
}
