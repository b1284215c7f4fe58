package config

import (
	"log/slog"
	"time"

	githubinfra "github.com/m-mizutani/plonk/pkg/infra/github"
	"github.com/urfave/cli/v3"
)

// Download holds release asset download configuration
type Download struct {
	RetryMax       int
	Timeout        time.Duration
	ExtractTimeout time.Duration
	GitHubToken    string `masq:"secret"`
}

// Flags returns CLI flags for download configuration
func (c *Download) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:        "retry",
			Usage:       "Retries for a failed download (connection errors and 5xx)",
			Value:       3,
			Destination: &c.RetryMax,
			Sources:     cli.EnvVars("PLONK_RETRY"),
		},
		&cli.DurationFlag{
			Name:        "timeout",
			Usage:       "Timeout of the whole download",
			Value:       10 * time.Minute,
			Destination: &c.Timeout,
			Sources:     cli.EnvVars("PLONK_DOWNLOAD_TIMEOUT"),
		},
		&cli.DurationFlag{
			Name:        "extract-timeout",
			Usage:       "Timeout of the archive extraction",
			Value:       5 * time.Minute,
			Destination: &c.ExtractTimeout,
			Sources:     cli.EnvVars("PLONK_EXTRACT_TIMEOUT"),
		},
		&cli.StringFlag{
			Name:        "github-token",
			Usage:       "GitHub token for authenticated downloads",
			Destination: &c.GitHubToken,
			Sources:     cli.EnvVars("PLONK_GITHUB_TOKEN", "GITHUB_TOKEN"),
		},
	}
}

// ClientOptions returns options for the release asset client
func (c *Download) ClientOptions(logger *slog.Logger) []githubinfra.Option {
	opts := []githubinfra.Option{
		githubinfra.WithRetryMax(c.RetryMax),
		githubinfra.WithTimeout(c.Timeout),
	}
	if c.GitHubToken != "" {
		opts = append(opts, githubinfra.WithToken(c.GitHubToken))
	}
	if logger != nil {
		opts = append(opts, githubinfra.WithLogger(logger))
	}
	return opts
}
