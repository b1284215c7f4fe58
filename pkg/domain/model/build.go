package model

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/plonk/pkg/domain/types"
)

const (
	DefaultToolchainChannel = "nightly"
	DefaultInjectCompiler   = "clang"
	DefaultInjectSource     = "plonk_inject.c"

	targetDir = "target"
)

var libraryExtensions = map[string]string{
	"linux":   "so",
	"windows": "dll",
	"darwin":  "dylib",
}

// LibraryExtension returns the dynamic library file extension (without dot) for goos
func LibraryExtension(goos string) (string, error) {
	ext, ok := libraryExtensions[goos]
	if !ok {
		return "", goerr.New("unsupported platform for dynamic libraries",
			goerr.T(types.ErrTagArgument),
			goerr.V("goos", goos),
		)
	}
	return ext, nil
}

// LibraryPath returns target/debug/lib<dep>.<ext>. A leading dot in ext is ignored.
func LibraryPath(dep, ext string) string {
	return ProfileLibraryPath(dep, ext, false)
}

// ProfileLibraryPath returns the library path under target/release when release
// is set and under target/debug otherwise
func ProfileLibraryPath(dep, ext string, release bool) string {
	profile := "debug"
	if release {
		profile = "release"
	}
	return fmt.Sprintf("%s/%s/lib%s.%s", targetDir, profile, dep, strings.TrimPrefix(ext, "."))
}

// BuildRequest asks for a module directory to be built as a dynamic library
type BuildRequest struct {
	Dir       string   // Module directory; the toolchain runs here
	Name      string   // Library name; defaults to Package, then the base name of Dir
	Package   string   // Workspace package passed as -p
	Channel   string   // Toolchain channel, e.g. "nightly"
	Release   bool     // Build with the release profile
	Verbose   bool     // Pass -vv to cargo
	ExtraArgs []string // Appended to the toolchain command line
	GOOS      string   // Host platform selecting the library extension
	Verify    bool     // Fail when the artifact is missing after a successful build
	Watch     bool     // Rebuild whenever a source file changes
}

// LibraryName returns the file name stem cargo uses for the library. Hyphens
// become underscores, as cargo does for crate names.
func (r *BuildRequest) LibraryName() string {
	name := r.Name
	if name == "" {
		name = r.Package
	}
	if name == "" {
		dir := filepath.Clean(r.Dir)
		if abs, err := filepath.Abs(dir); err == nil {
			dir = abs
		}
		name = filepath.Base(dir)
	}
	return strings.ReplaceAll(name, "-", "_")
}

// IsRelease reports whether the release profile was requested, either directly
// or through ExtraArgs
func (r *BuildRequest) IsRelease() bool {
	if r.Release {
		return true
	}
	for _, arg := range r.ExtraArgs {
		if arg == "--release" || arg == "-r" {
			return true
		}
	}
	return false
}

// BuildResult represents a completed dynamic library build
type BuildResult struct {
	Dir      string // Module directory
	Artifact string // target/<profile>/lib<dep>.<ext>, relative to Dir
	Exists   bool   // Whether Artifact was found under Dir
}

// InjectRequest asks for the injector to be compiled against the devkit
type InjectRequest struct {
	Source   string
	Output   string // Defaults to inject.<ext>
	DepsDir  string
	Compiler string
	GOOS     string
}

// InjectResult represents a compiled injector library
type InjectResult struct {
	Output string
}
