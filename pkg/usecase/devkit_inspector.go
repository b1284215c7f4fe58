package usecase

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/karrick/godirwalk"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/plonk/pkg/domain/model"
	"github.com/m-mizutani/plonk/pkg/domain/types"
)

const (
	devkitHeader  = "frida-gum.h"
	devkitLibrary = "libfrida-gum.a"
)

var libraryExts = map[string]bool{
	".a":     true,
	".lib":   true,
	".so":    true,
	".dylib": true,
	".dll":   true,
}

// InspectDevkit lists the headers and libraries under depsDir. Downloaded
// archives and partial downloads are not part of the devkit and are skipped.
func InspectDevkit(ctx context.Context, depsDir string) (*model.DevkitContents, error) {
	logger := ctxlog.From(ctx)
	contents := &model.DevkitContents{}

	err := godirwalk.Walk(depsDir, &godirwalk.Options{
		Callback: func(osPathname string, de *godirwalk.Dirent) error {
			if !de.IsRegular() {
				return nil
			}
			name := de.Name()
			if strings.HasSuffix(name, archiveExt) || strings.HasSuffix(name, partialSuffix) {
				return nil
			}

			rel, err := filepath.Rel(depsDir, osPathname)
			if err != nil {
				return err
			}
			info, err := os.Stat(osPathname)
			if err != nil {
				return err
			}

			contents.Files = append(contents.Files, rel)
			contents.Size += info.Size()

			ext := filepath.Ext(name)
			switch {
			case ext == ".h":
				contents.Headers = append(contents.Headers, rel)
			case libraryExts[ext]:
				contents.Libraries = append(contents.Libraries, rel)
			}
			return nil
		},
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to inspect dependencies directory",
			goerr.T(types.ErrTagFilesystem),
			goerr.V("deps_dir", depsDir),
		)
	}

	if !contents.HasHeader(devkitHeader) {
		logger.Warn("Devkit header not found after extraction", "header", devkitHeader, "deps_dir", depsDir)
	}
	if !contents.HasLibrary(devkitLibrary) {
		logger.Warn("Devkit library not found after extraction", "library", devkitLibrary, "deps_dir", depsDir)
	}

	return contents, nil
}
