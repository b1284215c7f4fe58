package usecase

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/plonk/pkg/domain/interfaces"
	"github.com/m-mizutani/plonk/pkg/domain/model"
	"github.com/m-mizutani/plonk/pkg/domain/types"
)

const (
	defaultExtractTimeout = 5 * time.Minute
	extractTool           = "tar"
	partialSuffix         = ".part"
	archiveExt            = ".tar.xz"
)

type fetchUseCase struct {
	assets         interfaces.AssetClient
	runner         interfaces.CommandRunner
	extractTimeout time.Duration
}

// FetchOption is a functional option for the fetch use case
type FetchOption func(*fetchUseCase)

// WithExtractTimeout bounds the archive extraction
func WithExtractTimeout(d time.Duration) FetchOption {
	return func(uc *fetchUseCase) {
		uc.extractTimeout = d
	}
}

// NewFetch creates a new instance of FetchUseCase
func NewFetch(assets interfaces.AssetClient, runner interfaces.CommandRunner, opts ...FetchOption) interfaces.FetchUseCase {
	uc := &fetchUseCase{
		assets:         assets,
		runner:         runner,
		extractTimeout: defaultExtractTimeout,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Fetch downloads the devkit archive into the dependencies directory and extracts it there
func (uc *fetchUseCase) Fetch(ctx context.Context, devkit model.Devkit, opts interfaces.FetchOptions) (*model.FetchResult, error) {
	logger := ctxlog.From(ctx)

	if err := devkit.Validate(); err != nil {
		return nil, err
	}

	depsDir := opts.DepsDir
	if depsDir == "" {
		return nil, goerr.New("dependencies directory is empty", goerr.T(types.ErrTagArgument))
	}
	if err := os.MkdirAll(depsDir, 0755); err != nil {
		return nil, goerr.Wrap(err, "failed to create dependencies directory",
			goerr.T(types.ErrTagFilesystem),
			goerr.V("deps_dir", depsDir),
		)
	}

	archive := filepath.Join(depsDir, devkit.ArchiveName())
	url := devkit.URL(opts.BaseURL)

	logger.Info("Fetching devkit",
		"package", devkit.PackageID(),
		"url", url,
		"deps_dir", depsDir,
	)

	result := &model.FetchResult{
		Archive: archive,
		DepsDir: depsDir,
	}

	info, err := os.Stat(archive)
	switch {
	case err == nil && !opts.Force:
		logger.Info("Devkit archive already present, skipping download", "archive", archive)
		result.Size = info.Size()

	case err == nil || errors.Is(err, os.ErrNotExist):
		size, err := uc.download(ctx, url, archive)
		if err != nil {
			return nil, err
		}
		result.Size = size
		result.Downloaded = true
		logger.Info("Downloaded devkit archive",
			"archive", archive,
			"size", humanize.Bytes(uint64(size)),
		)

	default:
		return nil, goerr.Wrap(err, "failed to stat devkit archive",
			goerr.T(types.ErrTagFilesystem),
			goerr.V("archive", archive),
		)
	}

	if err := uc.extract(ctx, depsDir, devkit.ArchiveName()); err != nil {
		return nil, err
	}

	contents, err := InspectDevkit(ctx, depsDir)
	if err != nil {
		return nil, err
	}
	result.Contents = contents

	logger.Info("Extracted devkit",
		"deps_dir", depsDir,
		"file_count", len(contents.Files),
		"headers", contents.Headers,
		"libraries", contents.Libraries,
		"total_size", humanize.Bytes(uint64(contents.Size)),
	)

	return result, nil
}

// download writes the asset to a partial file next to dst and renames it into
// place once the body is fully written. The partial file is removed on failure.
func (uc *fetchUseCase) download(ctx context.Context, url, dst string) (int64, error) {
	partial := filepath.Join(filepath.Dir(dst),
		fmt.Sprintf(".%s.%s%s", filepath.Base(dst), uuid.NewString(), partialSuffix))

	f, err := os.OpenFile(partial, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return 0, goerr.Wrap(err, "failed to create destination file",
			goerr.T(types.ErrTagFilesystem),
			goerr.V("path", partial),
		)
	}

	committed := false
	defer func() {
		if !committed {
			_ = f.Close()
			_ = os.Remove(partial)
		}
	}()

	size, err := uc.assets.DownloadAsset(ctx, url, f)
	if err != nil {
		opts := append(types.TagOptions(err), goerr.V("url", url))
		return 0, goerr.Wrap(err, "failed to download devkit archive", opts...)
	}

	if err := f.Sync(); err != nil {
		return 0, goerr.Wrap(err, "failed to flush destination file",
			goerr.T(types.ErrTagFilesystem),
			goerr.V("path", partial),
		)
	}
	if err := f.Close(); err != nil {
		return 0, goerr.Wrap(err, "failed to close destination file",
			goerr.T(types.ErrTagFilesystem),
			goerr.V("path", partial),
		)
	}
	if err := os.Rename(partial, dst); err != nil {
		_ = os.Remove(partial)
		committed = true
		return 0, goerr.Wrap(err, "failed to move devkit archive into place",
			goerr.T(types.ErrTagFilesystem),
			goerr.V("path", dst),
		)
	}
	committed = true

	return size, nil
}

// extract runs the external archive tool inside depsDir
func (uc *fetchUseCase) extract(ctx context.Context, depsDir, archiveName string) error {
	_, err := uc.runner.Run(ctx, interfaces.CommandRequest{
		Name:    extractTool,
		Args:    []string{"-xf", archiveName},
		Dir:     depsDir,
		Timeout: uc.extractTimeout,
	})
	if err != nil {
		return goerr.Wrap(err, "failed to extract devkit archive",
			goerr.T(types.ErrTagExtraction),
			goerr.V("archive", archiveName),
			goerr.V("deps_dir", depsDir),
		)
	}
	return nil
}
