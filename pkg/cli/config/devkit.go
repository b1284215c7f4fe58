package config

import (
	"github.com/m-mizutani/plonk/pkg/domain/model"
	"github.com/urfave/cli/v3"
)

const DefaultDepsDir = "deps"

// Devkit holds the devkit to fetch and where to put it
type Devkit struct {
	Arch    string
	OS      string
	Version string
	DepsDir string
	BaseURL string
	Force   bool
}

// Flags returns CLI flags for devkit configuration
func (c *Devkit) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "arch",
			Usage:       "Target CPU architecture of the devkit",
			Value:       model.DefaultDevkitArch,
			Destination: &c.Arch,
			Sources:     cli.EnvVars("PLONK_DEVKIT_ARCH"),
		},
		&cli.StringFlag{
			Name:        "os",
			Usage:       "Target operating system of the devkit",
			Value:       model.DefaultDevkitOS,
			Destination: &c.OS,
			Sources:     cli.EnvVars("PLONK_DEVKIT_OS"),
		},
		&cli.StringFlag{
			Name:        "devkit-version",
			Usage:       "Frida release of the devkit",
			Value:       model.DefaultDevkitVersion,
			Destination: &c.Version,
			Sources:     cli.EnvVars("PLONK_DEVKIT_VERSION"),
		},
		&cli.StringFlag{
			Name:        "deps-dir",
			Usage:       "Dependencies directory the devkit is extracted into",
			Value:       DefaultDepsDir,
			Destination: &c.DepsDir,
			Sources:     cli.EnvVars("PLONK_DEPS_DIR"),
		},
		&cli.StringFlag{
			Name:        "base-url",
			Usage:       "Release asset host",
			Value:       model.DefaultReleaseBaseURL,
			Destination: &c.BaseURL,
			Sources:     cli.EnvVars("PLONK_BASE_URL"),
		},
		&cli.BoolFlag{
			Name:        "force",
			Usage:       "Download again even if the archive exists",
			Destination: &c.Force,
			Sources:     cli.EnvVars("PLONK_FORCE"),
		},
	}
}

// Apply overlays values from a config file onto every setting whose flag was not
// given explicitly. isSet reports whether a flag was set on the command line or
// through its environment variable.
func (c *Devkit) Apply(file *File, isSet func(name string) bool) {
	if file == nil {
		return
	}
	overlay := func(name string, dst *string, v string) {
		if v != "" && !isSet(name) {
			*dst = v
		}
	}
	overlay("arch", &c.Arch, file.Devkit.Arch)
	overlay("os", &c.OS, file.Devkit.OS)
	overlay("devkit-version", &c.Version, file.Devkit.Version)
	overlay("deps-dir", &c.DepsDir, file.DepsDir)
	overlay("base-url", &c.BaseURL, file.BaseURL)
}

// Model returns the configured devkit
func (c *Devkit) Model() model.Devkit {
	return model.Devkit{
		Arch:    c.Arch,
		OS:      c.OS,
		Version: c.Version,
	}
}
