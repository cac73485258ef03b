package cli

import (
	"fmt"
	"image/png"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/tomz197/starfield/internal/engine"
)

// FrameOptions holds the frame command flags.
type FrameOptions struct {
	Width   float64
	Height  float64
	DPR     float64
	ScrollY float64
	Ticks   int
	Output  string // "-" for stdout
}

// NewFrameCommand creates the frame command, which writes one PNG still.
func NewFrameCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &FrameOptions{}

	cmd := &cobra.Command{
		Use:   "frame",
		Short: "Render a single frame to PNG",
		Long: `Render a single frame to PNG.

With a fixed --seed the output is identical on every run.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFrame(rootOpts, opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().Float64Var(&opts.Width, "width", 800, "logical width")
	cmd.Flags().Float64Var(&opts.Height, "height", 600, "logical height")
	cmd.Flags().Float64Var(&opts.DPR, "dpr", 1, "device pixel ratio")
	cmd.Flags().Float64Var(&opts.ScrollY, "scroll", 0, "scroll offset in logical pixels")
	cmd.Flags().IntVar(&opts.Ticks, "ticks", 0, "ticks to simulate before rendering")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "-", "output file, - for stdout")

	return cmd
}

func runFrame(rootOpts *RootOptions, opts *FrameOptions, stdout io.Writer) error {
	eopts, err := rootOpts.EngineOptions()
	if err != nil {
		return err
	}

	img, err := engine.RenderFrame(eopts, engine.FrameRequest{
		Width:   opts.Width,
		Height:  opts.Height,
		DPR:     opts.DPR,
		ScrollY: opts.ScrollY,
		Ticks:   opts.Ticks,
	})
	if err != nil {
		return err
	}

	w := stdout
	if opts.Output != "-" {
		f, err := os.Create(opts.Output)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()
		w = f
	}
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	rootOpts.Logger.Debug("frame written", "output", opts.Output, "width", img.Rect.Dx(), "height", img.Rect.Dy())
	return nil
}
