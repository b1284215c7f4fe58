package interfaces

import (
	"context"
	"io"
	"time"
)

// AssetClient downloads release assets
type AssetClient interface {
	// DownloadAsset streams the asset at url into w and returns the number of bytes written
	DownloadAsset(ctx context.Context, url string, w io.Writer) (int64, error)
}

// CommandRequest describes one external tool invocation
type CommandRequest struct {
	Name    string
	Args    []string
	Dir     string
	Env     []string
	Timeout time.Duration
}

// CommandResult holds the captured output of a finished command
type CommandResult struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}

// CommandRunner runs external tools
type CommandRunner interface {
	// Run executes req. A non-zero exit is reported as an error together with the result.
	Run(ctx context.Context, req CommandRequest) (*CommandResult, error)
}
