package types

import (
	"errors"
	"fmt"
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// Error tags identify which stage of a run failed.
var (
	ErrTagNetwork    = goerr.NewTag("network")
	ErrTagFilesystem = goerr.NewTag("filesystem")
	ErrTagExtraction = goerr.NewTag("extraction")
	ErrTagBuild      = goerr.NewTag("build")
	ErrTagArgument   = goerr.NewTag("argument")
)

// CommandError describes an external tool that exited unsuccessfully.
type CommandError struct {
	Command  []string
	ExitCode int
	Stdout   string
	Stderr   string
}

func (e *CommandError) Error() string {
	name := ""
	if len(e.Command) > 0 {
		name = e.Command[0]
	}
	msg := fmt.Sprintf("%s exited with code %d", name, e.ExitCode)
	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		msg += ": " + stderr
	}
	return msg
}

// TagOptions returns goerr.T options for every stage tag carried by err, so a
// wrapping error keeps the stage of its cause.
func TagOptions(err error) []goerr.Option {
	var opts []goerr.Option
	for _, tag := range tagList(ErrTagArgument, ErrTagNetwork, ErrTagFilesystem, ErrTagExtraction, ErrTagBuild) {
		if goerr.HasTag(err, tag) {
			opts = append(opts, goerr.T(tag))
		}
	}
	return opts
}

// tagList collects tags into a slice; the goerr tag type is unexported.
func tagList[T any](tags ...T) []T {
	return tags
}

// Stage returns a short name of the failed stage for diagnostics.
func Stage(err error) string {
	switch {
	case err == nil:
		return ""
	case goerr.HasTag(err, ErrTagArgument):
		return "argument"
	case goerr.HasTag(err, ErrTagNetwork):
		return "download"
	case goerr.HasTag(err, ErrTagFilesystem):
		return "write"
	case goerr.HasTag(err, ErrTagExtraction):
		return "extract"
	case goerr.HasTag(err, ErrTagBuild):
		return "build"
	default:
		return "unknown"
	}
}

// ExitCodeOf maps err to a process exit code. A failed external tool's exit code
// is passed through, everything else exits with 1.
func ExitCodeOf(err error) int {
	if err == nil {
		return 0
	}
	var cmdErr *CommandError
	if errors.As(err, &cmdErr) && cmdErr.ExitCode > 0 {
		return cmdErr.ExitCode
	}
	return 1
}
