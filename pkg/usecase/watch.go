package usecase

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/karrick/godirwalk"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/plonk/pkg/domain/model"
	"github.com/m-mizutani/plonk/pkg/domain/types"
)

const watchDebounce = 100 * time.Millisecond

// Directories whose changes never trigger a rebuild. target is written by the build itself.
var ignoredWatchDirs = map[string]bool{
	"target": true,
	".git":   true,
}

// Watch builds req once and again after every burst of changes under req.Dir,
// until ctx is cancelled. Each outcome is passed to onBuild; build failures do
// not stop watching.
func (uc *buildUseCase) Watch(ctx context.Context, req *model.BuildRequest, onBuild func(*model.BuildResult, error)) error {
	logger := ctxlog.From(ctx)

	if req == nil || req.Dir == "" {
		return goerr.New("module directory is required (-d)", goerr.T(types.ErrTagArgument))
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return goerr.Wrap(err, "failed to create file watcher", goerr.T(types.ErrTagFilesystem))
	}
	defer watcher.Close()

	if err := addWatchDirs(watcher, req.Dir); err != nil {
		return err
	}

	onBuild(uc.Build(ctx, req))
	logger.Info("Watching for changes", "dir", req.Dir)

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if isIgnoredPath(req.Dir, ev.Name) {
				continue
			}
			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if err := addWatchDirs(watcher, ev.Name); err != nil {
						logger.Warn("Failed to watch new directory", "dir", ev.Name, "error", err)
					}
				}
			}
			logger.Debug("Change detected", "path", ev.Name, "op", ev.Op.String())
			pending = time.After(watchDebounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("File watcher error", "error", err)

		case <-pending:
			pending = nil
			onBuild(uc.Build(ctx, req))
		}
	}
}

// addWatchDirs adds root and every directory below it, skipping ignored ones
func addWatchDirs(watcher *fsnotify.Watcher, root string) error {
	err := godirwalk.Walk(root, &godirwalk.Options{
		Callback: func(osPathname string, de *godirwalk.Dirent) error {
			if !de.IsDir() {
				return nil
			}
			if osPathname != root && ignoredWatchDirs[de.Name()] {
				return godirwalk.SkipThis
			}
			return watcher.Add(osPathname)
		},
	})
	if err != nil {
		return goerr.Wrap(err, "failed to watch module directory",
			goerr.T(types.ErrTagFilesystem),
			goerr.V("dir", root),
		)
	}
	return nil
}

// isIgnoredPath reports whether path lies in an ignored directory of root
func isIgnoredPath(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	first, _, _ := strings.Cut(filepath.ToSlash(rel), "/")
	return ignoredWatchDirs[first]
}
