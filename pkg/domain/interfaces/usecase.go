package interfaces

import (
	"context"

	"github.com/m-mizutani/plonk/pkg/domain/model"
)

// FetchOptions controls where and how a devkit is fetched
type FetchOptions struct {
	DepsDir string
	BaseURL string
	Force   bool
}

// FetchUseCase downloads and extracts devkits
type FetchUseCase interface {
	// Fetch downloads the devkit archive into the dependencies directory and extracts it
	Fetch(ctx context.Context, devkit model.Devkit, opts FetchOptions) (*model.FetchResult, error)
}

// BuildUseCase builds dynamic libraries with the external toolchain
type BuildUseCase interface {
	// Build runs the toolchain in the module directory and returns the expected artifact
	Build(ctx context.Context, req *model.BuildRequest) (*model.BuildResult, error)

	// Watch builds, then rebuilds after every change in the module directory until ctx is done
	Watch(ctx context.Context, req *model.BuildRequest, onBuild func(*model.BuildResult, error)) error

	// Inject compiles the injector source against the extracted devkit
	Inject(ctx context.Context, req *model.InjectRequest) (*model.InjectResult, error)
}
