package main

import (
	"context"
	"os"

	"github.com/tomz197/starfield/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
