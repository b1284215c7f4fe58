package cli

import (
	"context"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/plonk/pkg/cli/config"
	"github.com/m-mizutani/plonk/pkg/domain/interfaces"
	"github.com/m-mizutani/plonk/pkg/usecase"
	"github.com/urfave/cli/v3"
)

func cmdFetch(env *runtimeEnv) *cli.Command {
	var (
		devkitCfg   config.Devkit
		downloadCfg config.Download
		fileCfg     config.FilePath
	)

	flags := append(devkitCfg.Flags(), downloadCfg.Flags()...)
	flags = append(flags, fileCfg.Flags()...)

	return &cli.Command{
		Name:    "fetch",
		Aliases: []string{"f"},
		Usage:   "Download and extract the Frida Gum devkit into the dependencies directory",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			file, err := fileCfg.Load()
			if err != nil {
				return err
			}
			devkitCfg.Apply(file, c.IsSet)

			logger.Debug("Fetch configuration",
				"devkit", devkitCfg,
				"download", downloadCfg,
			)

			client := env.newClient(downloadCfg.ClientOptions(logger)...)
			uc := usecase.NewFetch(client, env.runner,
				usecase.WithExtractTimeout(downloadCfg.ExtractTimeout),
			)

			result, err := uc.Fetch(ctx, devkitCfg.Model(), interfaces.FetchOptions{
				DepsDir: devkitCfg.DepsDir,
				BaseURL: devkitCfg.BaseURL,
				Force:   devkitCfg.Force,
			})
			if err != nil {
				return err
			}

			color.New(color.FgGreen).Fprintf(env.stderr, "devkit %s ready in %s (%s, %d files)\n",
				devkitCfg.Model().PackageID(),
				result.DepsDir,
				humanize.Bytes(uint64(result.Size)),
				len(result.Contents.Files),
			)
			return nil
		},
	}
}
