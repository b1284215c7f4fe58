package model

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/plonk/pkg/domain/types"
)

const (
	// DefaultReleaseBaseURL is the host serving versioned devkit release assets
	DefaultReleaseBaseURL = "https://github.com/frida/frida/releases/download"

	DefaultDevkitArch    = "arm64"
	DefaultDevkitOS      = "macos"
	DefaultDevkitVersion = "16.0.19"

	archiveExt = ".tar.xz"
)

// Devkit identifies a prebuilt Frida Gum devkit for one platform
type Devkit struct {
	Arch    string `toml:"arch"`
	OS      string `toml:"os"`
	Version string `toml:"version"`
}

// DefaultDevkit returns the devkit plonk fetches when nothing is overridden
func DefaultDevkit() Devkit {
	return Devkit{
		Arch:    DefaultDevkitArch,
		OS:      DefaultDevkitOS,
		Version: DefaultDevkitVersion,
	}
}

// PackageID returns frida-gum-devkit-<version>-<os>-<arch>
func (d Devkit) PackageID() string {
	return fmt.Sprintf("frida-gum-devkit-%s-%s-%s", d.Version, d.OS, d.Arch)
}

// ArchiveName returns the file name of the devkit archive
func (d Devkit) ArchiveName() string {
	return d.PackageID() + archiveExt
}

// URL returns the download URL of the devkit archive under baseURL. An empty
// baseURL selects DefaultReleaseBaseURL.
func (d Devkit) URL(baseURL string) string {
	if baseURL == "" {
		baseURL = DefaultReleaseBaseURL
	}
	return fmt.Sprintf("%s/%s/%s", strings.TrimRight(baseURL, "/"), d.Version, d.ArchiveName())
}

// Validate checks that every field is set and the version is a semantic version
func (d Devkit) Validate() error {
	if d.Arch == "" {
		return goerr.New("devkit architecture is empty", goerr.T(types.ErrTagArgument))
	}
	if d.OS == "" {
		return goerr.New("devkit OS is empty", goerr.T(types.ErrTagArgument))
	}
	if d.Version == "" {
		return goerr.New("devkit version is empty", goerr.T(types.ErrTagArgument))
	}
	if _, err := semver.NewVersion(d.Version); err != nil {
		return goerr.Wrap(err, "invalid devkit version",
			goerr.T(types.ErrTagArgument),
			goerr.V("version", d.Version),
		)
	}
	return nil
}
