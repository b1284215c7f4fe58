package usecase

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/plonk/pkg/domain/interfaces"
	"github.com/m-mizutani/plonk/pkg/domain/model"
	"github.com/m-mizutani/plonk/pkg/domain/types"
)

const (
	defaultBuildTimeout = 30 * time.Minute
	toolchain           = "cargo"
)

// preferDynamic links the standard library dynamically so the built library
// can be loaded next to a binary built the same way
const preferDynamic = "RUSTFLAGS=-C prefer-dynamic"

type buildUseCase struct {
	runner  interfaces.CommandRunner
	timeout time.Duration
}

// BuildOption is a functional option for the build use case
type BuildOption func(*buildUseCase)

// WithBuildTimeout bounds each compiler invocation
func WithBuildTimeout(d time.Duration) BuildOption {
	return func(uc *buildUseCase) {
		uc.timeout = d
	}
}

// NewBuild creates a new instance of BuildUseCase
func NewBuild(runner interfaces.CommandRunner, opts ...BuildOption) interfaces.BuildUseCase {
	uc := &buildUseCase{
		runner:  runner,
		timeout: defaultBuildTimeout,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Build runs cargo in the module directory and returns the expected library path
func (uc *buildUseCase) Build(ctx context.Context, req *model.BuildRequest) (*model.BuildResult, error) {
	logger := ctxlog.From(ctx)

	if req == nil || req.Dir == "" {
		return nil, goerr.New("module directory is required (-d)", goerr.T(types.ErrTagArgument))
	}

	ext, err := model.LibraryExtension(hostOS(req.GOOS))
	if err != nil {
		return nil, err
	}

	args := cargoArgs(req)

	logger.Info("Building dynamic library",
		"dir", req.Dir,
		"name", req.LibraryName(),
		"release", req.IsRelease(),
	)

	result, err := uc.runner.Run(ctx, interfaces.CommandRequest{
		Name:    toolchain,
		Args:    args,
		Dir:     req.Dir,
		Env:     []string{preferDynamic},
		Timeout: uc.timeout,
	})
	if err != nil {
		var exitCode int
		if result != nil {
			exitCode = result.ExitCode
		}
		return nil, goerr.Wrap(err, "failed to build dynamic library",
			goerr.T(types.ErrTagBuild),
			goerr.V("dir", req.Dir),
			goerr.V("exit_code", exitCode),
		)
	}

	artifact := model.ProfileLibraryPath(req.LibraryName(), ext, req.IsRelease())
	built := &model.BuildResult{
		Dir:      req.Dir,
		Artifact: artifact,
	}

	_, err = os.Stat(filepath.Join(req.Dir, filepath.FromSlash(artifact)))
	switch {
	case err == nil:
		built.Exists = true
	case errors.Is(err, os.ErrNotExist) && req.Verify:
		return nil, goerr.Wrap(err, "built library not found",
			goerr.T(types.ErrTagFilesystem),
			goerr.V("artifact", artifact),
			goerr.V("dir", req.Dir),
		)
	case errors.Is(err, os.ErrNotExist):
		logger.Warn("Built library not found at expected path", "artifact", artifact, "dir", req.Dir)
	default:
		return nil, goerr.Wrap(err, "failed to stat built library",
			goerr.T(types.ErrTagFilesystem),
			goerr.V("artifact", artifact),
		)
	}

	logger.Info("Built dynamic library", "artifact", artifact, "exists", built.Exists)
	return built, nil
}

// cargoArgs returns the arguments of cargo +<channel> rustc --crate-type=dylib
func cargoArgs(req *model.BuildRequest) []string {
	channel := req.Channel
	if channel == "" {
		channel = model.DefaultToolchainChannel
	}

	args := []string{"+" + channel, "rustc", "--crate-type=dylib"}
	if req.Package != "" {
		args = append(args, "-p", req.Package)
	}
	if req.Release && !slices.Contains(req.ExtraArgs, "--release") {
		args = append(args, "--release")
	}
	if req.Verbose {
		args = append(args, "-vv")
	}
	return append(args, req.ExtraArgs...)
}

func hostOS(goos string) string {
	if goos == "" {
		return runtime.GOOS
	}
	return goos
}
