// Package host runs a star field engine inside an interactive front end:
// a tcell terminal screen or a desktop window.
package host

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gdamore/tcell/v2"

	"github.com/tomz197/starfield/internal/draw"
	"github.com/tomz197/starfield/internal/engine"
	"github.com/tomz197/starfield/internal/input"
	"github.com/tomz197/starfield/internal/loop"
	"github.com/tomz197/starfield/internal/loop/config"
)

// tuiSurface rasterizes in software and presents the pixels as upper half
// blocks on a tcell screen, two sub-pixels per cell.
type tuiSurface struct {
	*draw.Raster
	screen tcell.Screen
}

func newTUISurface(screen tcell.Screen) *tuiSurface {
	w, h := screen.Size()
	return &tuiSurface{
		Raster: draw.NewRasterPixels(max(w, 1), max(h, 1)*2, config.TermDPR),
		screen: screen,
	}
}

// resize matches the backing store to the screen size.
func (s *tuiSurface) resize() {
	w, h := s.screen.Size()
	s.Raster.Resize(float64(max(w, 1))/config.TermDPR, float64(max(h, 1)*2)/config.TermDPR, config.TermDPR)
}

// Present copies the raster into screen cells and shows them.
func (s *tuiSurface) Present() error {
	pw, ph := s.PixelSize()
	for row := 0; row*2 < ph; row++ {
		for col := 0; col < pw; col++ {
			top := s.At(col, row*2)
			bottom := s.At(col, row*2+1)
			style := tcell.StyleDefault.
				Foreground(tcell.NewRGBColor(int32(top.R), int32(top.G), int32(top.B))).
				Background(tcell.NewRGBColor(int32(bottom.R), int32(bottom.G), int32(bottom.B)))
			s.screen.SetContent(col, row, draw.BlockUpperHalf, nil, style)
		}
	}
	s.screen.Show()
	return nil
}

// tui couples a tcell screen to an engine. Every callback runs on the
// goroutine that called RunTUI.
type tui struct {
	screen  tcell.Screen
	surface *tuiSurface
	host    *input.Dispatcher
	engine  *engine.Engine
	sched   *loop.Manual
	fps     int
	paused  bool
	log     *log.Logger
}

// RunTUI initializes screen, runs the star field on it and restores the
// terminal on return. It blocks until the user quits or ctx is cancelled.
func RunTUI(ctx context.Context, screen tcell.Screen, opts engine.Options) error {
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()
	screen.EnableMouse()
	screen.HideCursor()

	t, err := newTUI(screen, opts)
	if err != nil {
		return err
	}
	return t.run(ctx)
}

func newTUI(screen tcell.Screen, opts engine.Options) (*tui, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	surface := newTUISurface(screen)
	width, height := surface.Bounds()

	t := &tui{
		screen:  screen,
		surface: surface,
		host:    input.NewDispatcher(width, height, config.TermDPR),
		sched:   &loop.Manual{},
		log:     logger,
	}

	opts.Surface = surface
	opts.Scheduler = t.sched
	opts.Viewport.Width, opts.Viewport.Height, opts.Viewport.DPR = width, height, config.TermDPR
	eng, err := engine.New(opts)
	if err != nil {
		return nil, err
	}
	t.engine = eng
	t.fps = opts.FPS
	return t, nil
}

func (t *tui) run(ctx context.Context) error {
	if err := t.engine.Mount(t.host); err != nil {
		return err
	}
	defer t.engine.Unmount()

	ticker := time.NewTicker(time.Second / time.Duration(t.fps))
	defer ticker.Stop()

	events := make(chan tcell.Event, 100)
	quit := make(chan struct{})
	defer close(quit)
	go t.screen.ChannelEvents(events, quit)

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if !t.handleEvent(ev) {
				return nil
			}
		case <-ticker.C:
			t.sched.Pump()
			if err := t.engine.Err(); err != nil {
				return err
			}
		}
	}
}

// handleEvent applies one tcell event. Returns false to quit.
func (t *tui) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return t.handleKey(ev)
	case *tcell.EventMouse:
		switch {
		case ev.Buttons()&tcell.WheelUp != 0:
			t.host.Apply(input.Input{ScrollLines: -1}, config.ScrollSteps)
		case ev.Buttons()&tcell.WheelDown != 0:
			t.host.Apply(input.Input{ScrollLines: 1}, config.ScrollSteps)
		}
	case *tcell.EventResize:
		t.screen.Sync()
		t.surface.resize()
		width, height := t.surface.Bounds()
		t.host.Resize(width, height, config.TermDPR)
		t.log.Debug("screen resized", "width", width, "height", height)
	}
	return true
}

func (t *tui) handleKey(ev *tcell.EventKey) bool {
	var in input.Input
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyUp:
		in.ScrollLines = -1
	case tcell.KeyDown:
		in.ScrollLines = 1
	case tcell.KeyPgUp:
		in.ScrollPages = -1
	case tcell.KeyPgDn:
		in.ScrollPages = 1
	case tcell.KeyHome:
		in.Home = true
	case tcell.KeyEnd:
		in.End = true
	case tcell.KeyRune:
		in = input.Parse([]byte(string(ev.Rune())))
	}

	if in.Quit {
		return false
	}
	t.host.Apply(in, config.ScrollSteps)
	if in.Pause {
		t.paused = !t.paused
		t.engine.SetFrozen(t.paused)
	}
	return true
}
