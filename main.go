package main

import (
	"context"
	"os"

	"github.com/m-mizutani/plonk/pkg/cli"
	"github.com/m-mizutani/plonk/pkg/domain/types"
)

func main() {
	if err := cli.Run(context.Background(), os.Args); err != nil {
		os.Exit(types.ExitCodeOf(err))
	}
}
