package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/tomz197/starfield/internal/host"
)

// NewTUICommand creates the tui command, driven by tcell.
func NewTUICommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run full screen through tcell with mouse wheel scrolling",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context(), rootOpts)
		},
	}
}

func runTUI(ctx context.Context, rootOpts *RootOptions) error {
	eopts, err := rootOpts.EngineOptions()
	if err != nil {
		return err
	}
	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	return host.RunTUI(ctx, screen, eopts)
}
