// Package cli defines the starfield command tree.
package cli

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/tomz197/starfield/internal/config"
	"github.com/tomz197/starfield/internal/engine"
	"github.com/tomz197/starfield/internal/logging"
)

// RootOptions holds global flags for all commands, and the settings they
// resolve to before a subcommand runs.
type RootOptions struct {
	ConfigPath string
	LogLevel   string

	ParticleCount int
	Color         string
	MaxDepth      float64
	AutoMoveSpeed float64
	Seed          uint64
	FPS           int

	Config config.Config
	Logger *log.Logger
}

// NewRootCommand creates the root command for the starfield CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "starfield",
		Short: "Ambient parallax star field",
		Long: `Render a drifting, twinkling star field with depth parallax.

Settings come from STARFIELD_* environment variables, then the optional
--config YAML file, then command-line flags.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.resolve(cmd)
		},
	}

	opts.bindFlags(cmd.PersistentFlags())

	// Add subcommands
	cmd.AddCommand(NewTermCommand(opts))
	cmd.AddCommand(NewTUICommand(opts))
	cmd.AddCommand(NewWindowCommand(opts))
	cmd.AddCommand(NewFrameCommand(opts))

	return cmd
}

// bindFlags registers the global flags on flags.
func (o *RootOptions) bindFlags(flags *pflag.FlagSet) {
	flags.StringVar(&o.ConfigPath, "config", "", "YAML config file")
	flags.StringVar(&o.LogLevel, "log-level", "", "log level (debug|info|warn|error)")
	flags.IntVarP(&o.ParticleCount, "particles", "n", engine.DefaultParticleCount, "number of stars")
	flags.StringVar(&o.Color, "color", "255,255,255", "star color as r,g,b or #rrggbb")
	flags.Float64Var(&o.MaxDepth, "max-depth", engine.DefaultMaxDepth, "depth range; deeper stars look smaller and slower")
	flags.Float64Var(&o.AutoMoveSpeed, "auto-move-speed", engine.DefaultAutoMoveSpeed, "upward drift per frame")
	flags.Uint64Var(&o.Seed, "seed", 0, "random seed (0 seeds from the clock)")
	flags.IntVar(&o.FPS, "fps", engine.DefaultFPS, "ticks per second")
}

// resolve loads the config, applies explicitly set flags on top and builds
// the logger.
func (o *RootOptions) resolve(cmd *cobra.Command) error {
	cfg, err := config.Load(o.ConfigPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.LogLevel = o.LogLevel
	}
	if flags.Changed("particles") {
		cfg.Engine.ParticleCount = o.ParticleCount
	}
	if flags.Changed("color") {
		cfg.Engine.Color = o.Color
	}
	if flags.Changed("max-depth") {
		cfg.Engine.MaxDepth = o.MaxDepth
	}
	if flags.Changed("auto-move-speed") {
		cfg.Engine.AutoMoveSpeed = o.AutoMoveSpeed
	}
	if flags.Changed("seed") {
		cfg.Engine.Seed = o.Seed
	}
	if flags.Changed("fps") {
		cfg.Engine.FPS = o.FPS
	}

	logger, err := logging.NewWriter(cmd.ErrOrStderr(), cfg.LogLevel, "starfield")
	if err != nil {
		return err
	}
	o.Config = cfg
	o.Logger = logger
	return nil
}

// EngineOptions converts the resolved settings. Out-of-range numbers are
// clamped with a warning; an unparsable color is an error.
func (o *RootOptions) EngineOptions() (engine.Options, error) {
	opts, err := o.Config.Engine.Options()
	if err != nil {
		return engine.Options{}, fmt.Errorf("engine settings: %w", err)
	}
	if err := opts.Validate(); err != nil {
		o.Logger.Warn("clamping engine settings", "err", err)
		opts = opts.Sanitize()
	}
	opts.Logger = o.Logger
	return opts, nil
}
