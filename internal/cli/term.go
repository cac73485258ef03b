package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/tomz197/starfield/internal/draw"
	"github.com/tomz197/starfield/internal/loop/client"
	"github.com/tomz197/starfield/internal/loop/server"
)

// NewTermCommand creates the term command: raw ANSI half blocks on the
// current terminal, the same renderer SSH sessions get.
func NewTermCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "term",
		Short: "Run in the current terminal with truecolor half blocks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTerm(cmd.Context(), rootOpts)
		},
	}
}

func runTerm(ctx context.Context, rootOpts *RootOptions) error {
	eopts, err := rootOpts.EngineOptions()
	if err != nil {
		return err
	}

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("enable raw mode: %w", err)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	c, err := client.NewClient(server.NewServer(server.Options{Logger: rootOpts.Logger}), bufio.NewReader(os.Stdin), os.Stdout, client.ClientOptions{
		TermSizeFunc: draw.DefaultTermSizeFunc,
		Username:     os.Getenv("USER"),
		Engine:       eopts,
		Logger:       rootOpts.Logger,
	})
	if err != nil {
		return err
	}
	return c.Run(ctx)
}
