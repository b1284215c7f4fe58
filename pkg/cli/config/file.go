package config

import (
	"bytes"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/plonk/pkg/domain/model"
	"github.com/m-mizutani/plonk/pkg/domain/types"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"
)

// File is the optional TOML configuration file
//
//	deps_dir = "deps"
//	base_url = "https://github.com/frida/frida/releases/download"
//
//	[devkit]
//	arch = "arm64"
//	os = "macos"
//	version = "16.0.19"
type File struct {
	Devkit  model.Devkit `toml:"devkit"`
	DepsDir string       `toml:"deps_dir"`
	BaseURL string       `toml:"base_url"`
}

// FilePath holds the location of the configuration file
type FilePath struct {
	Path string
}

// Flags returns CLI flags for the configuration file
func (c *FilePath) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "Path to a TOML configuration file",
			Destination: &c.Path,
			Sources:     cli.EnvVars("PLONK_CONFIG"),
		},
	}
}

// Load reads the configuration file. It returns nil when no path is configured.
func (c *FilePath) Load() (*File, error) {
	if c.Path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(c.Path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read config file",
			goerr.T(types.ErrTagArgument),
			goerr.V("path", c.Path),
		)
	}

	return ParseFile(data)
}

// ParseFile decodes a TOML configuration. Unknown keys are rejected.
func ParseFile(data []byte) (*File, error) {
	var file File
	dec := toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields()
	if err := dec.Decode(&file); err != nil {
		return nil, goerr.Wrap(err, "failed to parse config file", goerr.T(types.ErrTagArgument))
	}
	return &file, nil
}
