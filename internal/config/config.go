package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/tomz197/starfield/internal/draw"
	"github.com/tomz197/starfield/internal/engine"
)

// Engine holds the star field settings.
type Engine struct {
	ParticleCount    int     `env:"STARFIELD_PARTICLE_COUNT" envDefault:"300" yaml:"particle_count"`
	Color            string  `env:"STARFIELD_COLOR" envDefault:"255,255,255" yaml:"color"`
	MaxDepth         float64 `env:"STARFIELD_MAX_DEPTH" envDefault:"8" yaml:"max_depth"`
	AutoMoveSpeed    float64 `env:"STARFIELD_AUTO_MOVE_SPEED" envDefault:"0.5" yaml:"auto_move_speed"`
	Seed             uint64  `env:"STARFIELD_SEED" envDefault:"0" yaml:"seed"`
	FPS              int     `env:"STARFIELD_FPS" envDefault:"60" yaml:"fps"`
	BackgroundTop    string  `env:"STARFIELD_BACKGROUND_TOP" envDefault:"6,6,23" yaml:"background_top"`
	BackgroundBottom string  `env:"STARFIELD_BACKGROUND_BOTTOM" envDefault:"18,3,40" yaml:"background_bottom"`
}

// SSH holds the SSH host settings.
type SSH struct {
	Host            string        `env:"SSH_HOST" envDefault:"::" yaml:"host"`
	Port            string        `env:"SSH_PORT" envDefault:"2222" yaml:"port"`
	HostKey         string        `env:"SSH_HOST_KEY" envDefault:"/app/keys/host_key" yaml:"host_key"`
	MaxSessions     int           `env:"SSH_MAX_SESSIONS" envDefault:"0" yaml:"max_sessions"`
	ShutdownTimeout time.Duration `env:"SSH_SHUTDOWN_TIMEOUT" envDefault:"15s" yaml:"shutdown_timeout"`
}

// Web holds the HTTP host settings.
type Web struct {
	Host        string `env:"WEB_HOST" envDefault:"0.0.0.0" yaml:"host"`
	Port        string `env:"WEB_PORT" envDefault:"8080" yaml:"port"`
	DisplayHost string `env:"SSH_DISPLAY_HOST" envDefault:"your-server.com" yaml:"display_host"`
}

// Config is the full runtime configuration.
type Config struct {
	LogLevel string `env:"LOG_LEVEL" envDefault:"info" yaml:"log_level"`
	Engine   Engine `yaml:"engine"`
	SSH      SSH    `yaml:"ssh"`
	Web      Web    `yaml:"web"`
}

// Load reads the environment, then overlays the YAML file at path.
// An empty path skips the file. Unknown YAML keys are rejected.
func Load(path string) (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := decodeYAML(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

func decodeYAML(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Options converts the settings into engine options.
func (e Engine) Options() (engine.Options, error) {
	opts := engine.DefaultOptions()
	opts.ParticleCount = e.ParticleCount
	opts.MaxDepth = e.MaxDepth
	opts.AutoMoveSpeed = e.AutoMoveSpeed
	opts.Seed = e.Seed
	opts.FPS = e.FPS

	var err error
	if opts.Color, err = draw.ParseColor(e.Color); err != nil {
		return engine.Options{}, fmt.Errorf("color: %w", err)
	}
	if opts.Background.Top, err = draw.ParseColor(e.BackgroundTop); err != nil {
		return engine.Options{}, fmt.Errorf("background top: %w", err)
	}
	if opts.Background.Bottom, err = draw.ParseColor(e.BackgroundBottom); err != nil {
		return engine.Options{}, fmt.Errorf("background bottom: %w", err)
	}
	return opts, nil
}
