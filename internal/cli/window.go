package cli

import (
	"github.com/spf13/cobra"

	"github.com/tomz197/starfield/internal/host"
)

// NewWindowCommand creates the window command.
func NewWindowCommand(rootOpts *RootOptions) *cobra.Command {
	wopts := host.WindowOptions{}

	cmd := &cobra.Command{
		Use:   "window",
		Short: "Open a desktop window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			eopts, err := rootOpts.EngineOptions()
			if err != nil {
				return err
			}
			rootOpts.Logger.Info("opening window", "width", wopts.Width, "height", wopts.Height)
			return host.RunWindow(eopts, wopts)
		},
	}

	cmd.Flags().StringVar(&wopts.Title, "title", "starfield", "window title")
	cmd.Flags().IntVar(&wopts.Width, "width", 960, "window width in logical pixels")
	cmd.Flags().IntVar(&wopts.Height, "height", 600, "window height in logical pixels")
	cmd.Flags().BoolVar(&wopts.Fullscreen, "fullscreen", false, "start full screen")
	cmd.Flags().BoolVar(&wopts.Floating, "floating", false, "keep the window above others")
	cmd.Flags().BoolVar(&wopts.MousePassthrough, "passthrough", false, "overlay mode: clicks fall through to windows below (wheel and keys stop reaching the window)")

	return cmd
}
