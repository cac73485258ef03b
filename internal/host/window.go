//go:build cgo

package host

import (
	"errors"
	"image"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/tomz197/starfield/internal/draw"
	"github.com/tomz197/starfield/internal/engine"
	"github.com/tomz197/starfield/internal/field"
	"github.com/tomz197/starfield/internal/input"
	"github.com/tomz197/starfield/internal/loop"
	"github.com/tomz197/starfield/internal/loop/config"
)

// glowRings approximates the quadratic glow falloff with stacked discs.
const glowRings = 4

// ebitenSurface paints onto the screen image handed to Draw.
type ebitenSurface struct {
	img      *ebiten.Image
	dpr      float64
	gradient *ebiten.Image // 1×height column, stretched across the screen
	gradKey  gradientKey
}

type gradientKey struct {
	height      int
	top, bottom draw.Color
}

func (s *ebitenSurface) Bounds() (width, height float64) {
	if s.img == nil {
		return 0, 0
	}
	b := s.img.Bounds()
	return float64(b.Dx()) / s.dpr, float64(b.Dy()) / s.dpr
}

func (s *ebitenSurface) FillVerticalGradient(top, bottom draw.Color) {
	if s.img == nil {
		return
	}
	b := s.img.Bounds()
	key := gradientKey{height: b.Dy(), top: top, bottom: bottom}
	if s.gradient == nil || s.gradKey != key {
		if s.gradient != nil {
			s.gradient.Deallocate()
		}
		col := image.NewNRGBA(image.Rect(0, 0, 1, b.Dy()))
		for y := 0; y < b.Dy(); y++ {
			col.SetNRGBA(0, y, draw.Lerp(top, bottom, (float64(y)+0.5)/float64(b.Dy())).NRGBA())
		}
		s.gradient = ebiten.NewImageFromImage(col)
		s.gradKey = key
	}

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(b.Dx()), 1)
	op.Blend = ebiten.BlendCopy
	s.img.DrawImage(s.gradient, op)
}

func (s *ebitenSurface) FillCircle(cx, cy, radius float64, c draw.Color, blur float64) {
	if s.img == nil || c.A <= 0 || radius <= 0 {
		return
	}
	x := float32(cx * s.dpr)
	y := float32(cy * s.dpr)
	r := radius * s.dpr

	if blur > 0 {
		for i := glowRings; i >= 1; i-- {
			t := (float64(i) - 0.5) / glowRings
			falloff := (1 - t) * (1 - t)
			// Rings overlap toward the center, so each carries part of the peak
			ring := c.WithAlpha(c.A * falloff * draw.GlowStrength / 2)
			vector.DrawFilledCircle(s.img, x, y, float32(r+blur*s.dpr*float64(i)/glowRings), ring.NRGBA(), true)
		}
	}
	vector.DrawFilledCircle(s.img, x, y, float32(r), c.NRGBA(), true)
}

var _ draw.Surface = (*ebitenSurface)(nil)

// WindowOptions configures the desktop window.
type WindowOptions struct {
	Title            string
	Width, Height    int // Logical window size
	Fullscreen       bool
	Floating         bool // Keep above other windows
	MousePassthrough bool // Let clicks fall through to windows below
}

// windowGame implements ebiten.Game. Update steps the engine through a
// manual scheduler and Draw paints the current state.
type windowGame struct {
	engine  *engine.Engine
	sched   *loop.Manual
	host    *input.Dispatcher
	surface *ebitenSurface
	paused  bool
	log     *log.Logger
}

// RunWindow opens a desktop window and runs the star field until it closes
// or the user quits.
func RunWindow(opts engine.Options, wopts WindowOptions) error {
	if wopts.Width <= 0 || wopts.Height <= 0 {
		wopts.Width, wopts.Height = 960, 600
	}
	if wopts.Title == "" {
		wopts.Title = "starfield"
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	dpr := ebiten.Monitor().DeviceScaleFactor()
	if !(dpr > 0) {
		dpr = 1
	}
	host := input.NewDispatcher(float64(wopts.Width), float64(wopts.Height), dpr)
	sched := &loop.Manual{}

	opts.Surface = nil // Draw paints via RenderTo
	opts.Scheduler = sched
	opts.Viewport.Width, opts.Viewport.Height, opts.Viewport.DPR = float64(wopts.Width), float64(wopts.Height), dpr
	eng, err := engine.New(opts)
	if err != nil {
		return err
	}

	g := &windowGame{
		engine:  eng,
		sched:   sched,
		host:    host,
		surface: &ebitenSurface{dpr: dpr},
		log:     logger,
	}
	if err := eng.Mount(host); err != nil {
		return err
	}
	defer eng.Unmount()

	ebiten.SetWindowTitle(wopts.Title)
	ebiten.SetWindowSize(wopts.Width, wopts.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetFullscreen(wopts.Fullscreen)
	ebiten.SetWindowFloating(wopts.Floating)
	ebiten.SetWindowMousePassthrough(wopts.MousePassthrough)
	ebiten.SetTPS(opts.FPS)

	err = ebiten.RunGame(g)
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}

func (g *windowGame) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	var in input.Input
	if _, dy := ebiten.Wheel(); dy > 0 {
		in.ScrollLines--
	} else if dy < 0 {
		in.ScrollLines++
	}
	for _, k := range []struct {
		key   ebiten.Key
		apply func(*input.Input)
	}{
		{ebiten.KeyArrowUp, func(in *input.Input) { in.ScrollLines-- }},
		{ebiten.KeyArrowDown, func(in *input.Input) { in.ScrollLines++ }},
		{ebiten.KeyPageUp, func(in *input.Input) { in.ScrollPages-- }},
		{ebiten.KeyPageDown, func(in *input.Input) { in.ScrollPages++ }},
		{ebiten.KeyHome, func(in *input.Input) { in.Home = true }},
		{ebiten.KeyEnd, func(in *input.Input) { in.End = true }},
	} {
		if inpututil.IsKeyJustPressed(k.key) {
			k.apply(&in)
		}
	}
	g.host.Apply(in, config.ScrollSteps)

	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		g.paused = !g.paused
		g.engine.SetFrozen(g.paused)
	}

	g.sched.Pump()
	return nil
}

func (g *windowGame) Draw(screen *ebiten.Image) {
	g.surface.img = screen
	g.engine.RenderTo(g.surface)
	g.surface.img = nil
}

// Layout renders at device resolution and reports the logical size to the engine.
func (g *windowGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	dpr := ebiten.Monitor().DeviceScaleFactor()
	if !(dpr > 0) {
		dpr = 1
	}
	g.surface.dpr = dpr
	vp := field.NewViewport(float64(outsideWidth), float64(outsideHeight), dpr)
	g.host.Resize(vp.Width, vp.Height, vp.DPR)
	return vp.BackingSize()
}
