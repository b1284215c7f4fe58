package usecase

import (
	"context"
	"fmt"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/plonk/pkg/domain/interfaces"
	"github.com/m-mizutani/plonk/pkg/domain/model"
	"github.com/m-mizutani/plonk/pkg/domain/types"
)

// Inject compiles the injector source into a shared library linked against frida-gum
func (uc *buildUseCase) Inject(ctx context.Context, req *model.InjectRequest) (*model.InjectResult, error) {
	logger := ctxlog.From(ctx)

	if req == nil || req.Source == "" {
		return nil, goerr.New("injector source is required", goerr.T(types.ErrTagArgument))
	}
	if req.DepsDir == "" {
		return nil, goerr.New("dependencies directory is required", goerr.T(types.ErrTagArgument))
	}

	output := req.Output
	if output == "" {
		ext, err := model.LibraryExtension(hostOS(req.GOOS))
		if err != nil {
			return nil, err
		}
		output = "inject." + ext
	}

	compiler := req.Compiler
	if compiler == "" {
		compiler = model.DefaultInjectCompiler
	}

	logger.Info("Compiling injector",
		"source", req.Source,
		"output", output,
		"deps_dir", req.DepsDir,
	)

	_, err := uc.runner.Run(ctx, interfaces.CommandRequest{
		Name: compiler,
		Args: []string{
			req.Source,
			"-o", output,
			"-shared",
			fmt.Sprintf("-L%s", req.DepsDir),
			fmt.Sprintf("-I%s", req.DepsDir),
			"-lfrida-gum",
		},
		Timeout: uc.timeout,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to compile injector",
			goerr.T(types.ErrTagBuild),
			goerr.V("source", req.Source),
		)
	}

	logger.Info("Compiled injector", "output", output)
	return &model.InjectResult{Output: output}, nil
}
