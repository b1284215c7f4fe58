package config

import (
	"time"

	"github.com/google/shlex"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/plonk/pkg/domain/model"
	"github.com/m-mizutani/plonk/pkg/domain/types"
	"github.com/urfave/cli/v3"
)

// Toolchain holds compiler invocation configuration
type Toolchain struct {
	Dir       string
	Name      string
	Package   string
	Channel   string
	CargoArgs string
	Timeout   time.Duration
	Release   bool
	Verbose   bool
	Verify    bool
	Watch     bool
}

// Flags returns CLI flags for the build command
func (c *Toolchain) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "dir",
			Aliases:     []string{"d"},
			Usage:       "Module directory to build",
			Destination: &c.Dir,
		},
		&cli.StringFlag{
			Name:        "name",
			Usage:       "Library name (default: --package or base name of --dir, '-' becomes '_')",
			Destination: &c.Name,
		},
		&cli.StringFlag{
			Name:        "package",
			Aliases:     []string{"p"},
			Usage:       "Cargo package to build in a workspace",
			Destination: &c.Package,
		},
		&cli.StringFlag{
			Name:        "channel",
			Usage:       "Toolchain channel",
			Value:       model.DefaultToolchainChannel,
			Destination: &c.Channel,
			Sources:     cli.EnvVars("PLONK_TOOLCHAIN_CHANNEL"),
		},
		&cli.StringFlag{
			Name:        "cargo-args",
			Usage:       "Extra arguments for cargo, split like a shell would",
			Destination: &c.CargoArgs,
			Sources:     cli.EnvVars("PLONK_CARGO_ARGS"),
		},
		&cli.DurationFlag{
			Name:        "timeout",
			Usage:       "Timeout of the compiler invocation",
			Value:       30 * time.Minute,
			Destination: &c.Timeout,
			Sources:     cli.EnvVars("PLONK_BUILD_TIMEOUT"),
		},
		&cli.BoolFlag{
			Name:        "release",
			Aliases:     []string{"r"},
			Usage:       "Build in release mode",
			Destination: &c.Release,
		},
		&cli.BoolFlag{
			Name:        "verbose",
			Usage:       "Pass -vv to cargo",
			Destination: &c.Verbose,
		},
		&cli.BoolFlag{
			Name:        "watch",
			Aliases:     []string{"w"},
			Usage:       "Rebuild when files in --dir change",
			Destination: &c.Watch,
		},
		&cli.BoolFlag{
			Name:        "verify",
			Usage:       "Fail if the library is missing after the build",
			Destination: &c.Verify,
			Sources:     cli.EnvVars("PLONK_VERIFY"),
		},
	}
}

// Request returns the build request for the configured module
func (c *Toolchain) Request(goos string) (*model.BuildRequest, error) {
	extra, err := shlex.Split(c.CargoArgs)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to parse cargo arguments",
			goerr.T(types.ErrTagArgument),
			goerr.V("cargo_args", c.CargoArgs),
		)
	}

	return &model.BuildRequest{
		Dir:       c.Dir,
		Name:      c.Name,
		Package:   c.Package,
		Channel:   c.Channel,
		Release:   c.Release,
		Verbose:   c.Verbose,
		ExtraArgs: extra,
		GOOS:      goos,
		Verify:    c.Verify,
		Watch:     c.Watch,
	}, nil
}

// Injector holds injector compilation configuration
type Injector struct {
	Source   string
	Output   string
	DepsDir  string
	Compiler string
	Timeout  time.Duration
}

// Flags returns CLI flags for the inject command
func (c *Injector) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "source",
			Aliases:     []string{"s"},
			Usage:       "Injector C source",
			Value:       model.DefaultInjectSource,
			Destination: &c.Source,
		},
		&cli.StringFlag{
			Name:        "output",
			Aliases:     []string{"o"},
			Usage:       "Output library (default: inject.<platform extension>)",
			Destination: &c.Output,
		},
		&cli.StringFlag{
			Name:        "deps-dir",
			Usage:       "Dependencies directory holding the extracted devkit",
			Value:       DefaultDepsDir,
			Destination: &c.DepsDir,
			Sources:     cli.EnvVars("PLONK_DEPS_DIR"),
		},
		&cli.StringFlag{
			Name:        "cc",
			Usage:       "C compiler",
			Value:       model.DefaultInjectCompiler,
			Destination: &c.Compiler,
			Sources:     cli.EnvVars("CC"),
		},
		&cli.DurationFlag{
			Name:        "timeout",
			Usage:       "Timeout of the compiler invocation",
			Value:       5 * time.Minute,
			Destination: &c.Timeout,
		},
	}
}

// Request returns the injector request
func (c *Injector) Request(goos string) *model.InjectRequest {
	return &model.InjectRequest{
		Source:   c.Source,
		Output:   c.Output,
		DepsDir:  c.DepsDir,
		Compiler: c.Compiler,
		GOOS:     goos,
	}
}
