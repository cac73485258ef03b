package cli

import (
	"bytes"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomz197/starfield/internal/engine"
)

func execute(t *testing.T, args ...string) (*bytes.Buffer, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	return &out, cmd.Execute()
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "starfield", cmd.Use)
	assert.Contains(t, cmd.Long, "STARFIELD_")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := []string{"term", "tui", "window", "frame"}

	for _, cmdName := range commands {
		t.Run(cmdName, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{cmdName})
			require.NoError(t, err, "Command %s should exist", cmdName)
			require.NotNil(t, subCmd)
			assert.Equal(t, cmdName, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	particles := cmd.PersistentFlags().Lookup("particles")
	require.NotNil(t, particles)
	assert.Equal(t, "n", particles.Shorthand)
	assert.Equal(t, "300", particles.DefValue)

	seed := cmd.PersistentFlags().Lookup("seed")
	require.NotNil(t, seed)
	assert.Equal(t, "0", seed.DefValue)

	require.NotNil(t, cmd.PersistentFlags().Lookup("config"))
	require.NotNil(t, cmd.PersistentFlags().Lookup("log-level"))
}

func TestWindowCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	windowCmd, _, err := cmd.Find([]string{"window"})
	require.NoError(t, err)

	for _, name := range []string{"title", "width", "height", "fullscreen", "floating", "passthrough"} {
		assert.NotNil(t, windowCmd.Flags().Lookup(name), name)
	}

	// The window is the scroll and key target unless overlay mode is asked for
	assert.Equal(t, "false", windowCmd.Flags().Lookup("passthrough").DefValue)
}

func TestFrameCommand_WritesPNG(t *testing.T) {
	out, err := execute(t, "frame", "--seed", "7", "-n", "50", "--width", "40", "--height", "30", "--dpr", "2", "--ticks", "10")
	require.NoError(t, err)

	img, err := png.Decode(out)
	require.NoError(t, err)
	assert.Equal(t, 80, img.Bounds().Dx())
	assert.Equal(t, 60, img.Bounds().Dy())
}

func TestFrameCommand_Deterministic(t *testing.T) {
	args := []string{"frame", "--seed", "11", "--width", "32", "--height", "32", "--ticks", "5"}
	first, err := execute(t, args...)
	require.NoError(t, err)
	second, err := execute(t, args...)
	require.NoError(t, err)
	assert.Equal(t, first.Bytes(), second.Bytes())
}

func TestFrameCommand_OutputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frame.png")
	out, err := execute(t, "frame", "--seed", "3", "--width", "16", "--height", "16", "-o", path)
	require.NoError(t, err)
	assert.Zero(t, out.Len())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 16, img.Bounds().Dx())
}

func TestFrameCommand_TooLarge(t *testing.T) {
	_, err := execute(t, "frame", "--width", "10000", "--height", "10000")
	assert.ErrorIs(t, err, engine.ErrFrameTooLarge)
}

func TestFrameCommand_BadColor(t *testing.T) {
	_, err := execute(t, "frame", "--color", "not-a-color")
	assert.ErrorContains(t, err, "engine settings")
}

func TestResolve_Precedence(t *testing.T) {
	t.Setenv("STARFIELD_PARTICLE_COUNT", "42")
	t.Setenv("STARFIELD_FPS", "30")
	t.Setenv("STARFIELD_AUTO_MOVE_SPEED", "1.5")
	path := filepath.Join(t.TempDir(), "starfield.yaml")
	require.NoError(t, os.WriteFile(path, []byte("engine:\n  particle_count: 100\n  max_depth: 4\n"), 0o600))

	opts := &RootOptions{}
	cmd := &cobra.Command{Use: "test"}
	cmd.SetErr(io.Discard)
	opts.bindFlags(cmd.Flags())
	require.NoError(t, cmd.ParseFlags([]string{"--config", path, "--max-depth", "6"}))
	require.NoError(t, opts.resolve(cmd))

	// Flag beats file beats env beats default
	assert.Equal(t, 6.0, opts.Config.Engine.MaxDepth)
	assert.Equal(t, 100, opts.Config.Engine.ParticleCount)
	assert.Equal(t, 30, opts.Config.Engine.FPS)
	assert.Equal(t, 1.5, opts.Config.Engine.AutoMoveSpeed)
	assert.Equal(t, "255,255,255", opts.Config.Engine.Color)
	require.NotNil(t, opts.Logger)
}

func TestResolve_BadLogLevel(t *testing.T) {
	opts := &RootOptions{}
	cmd := &cobra.Command{Use: "test"}
	opts.bindFlags(cmd.Flags())
	require.NoError(t, cmd.ParseFlags([]string{"--log-level", "loud"}))
	assert.Error(t, opts.resolve(cmd))
}

func TestEngineOptions_ClampsInvalidNumbers(t *testing.T) {
	opts := &RootOptions{}
	cmd := &cobra.Command{Use: "test"}
	cmd.SetErr(io.Discard)
	opts.bindFlags(cmd.Flags())
	require.NoError(t, cmd.ParseFlags([]string{"--fps=0", "--particles=-5"}))
	require.NoError(t, opts.resolve(cmd))

	eopts, err := opts.EngineOptions()
	require.NoError(t, err)
	assert.NoError(t, eopts.Validate())
	assert.Same(t, opts.Logger, eopts.Logger)
}
