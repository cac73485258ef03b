package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	wishlogging "github.com/charmbracelet/wish/logging"
	"golang.org/x/sync/errgroup"

	"github.com/tomz197/starfield/internal/config"
	"github.com/tomz197/starfield/internal/draw"
	"github.com/tomz197/starfield/internal/engine"
	"github.com/tomz197/starfield/internal/logging"
	"github.com/tomz197/starfield/internal/loop/client"
	"github.com/tomz197/starfield/internal/loop/server"
)

const statsInterval = time.Minute

func main() {
	if err := run(); err != nil {
		log.Error("ssh server failed", "err", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(os.Getenv("STARFIELD_CONFIG"))
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.LogLevel, "ssh")
	if err != nil {
		return err
	}
	eopts, err := cfg.Engine.Options()
	if err != nil {
		return fmt.Errorf("engine settings: %w", err)
	}
	if err := eopts.Validate(); err != nil {
		logger.Warn("clamping engine settings", "err", err)
		eopts = eopts.Sanitize()
	}

	workingDir, workErr := os.Getwd()
	if workErr != nil {
		logger.Warn("failed to get working directory", "err", workErr)
	}
	logger.Info("ssh config",
		"host", cfg.SSH.Host, "port", cfg.SSH.Port, "hostKey", cfg.SSH.HostKey,
		"maxSessions", cfg.SSH.MaxSessions, "workingDir", workingDir)

	// Shared by all SSH sessions
	hub := server.NewServer(server.Options{MaxClients: cfg.SSH.MaxSessions, Logger: logger})
	sessions := &sessionHandler{hub: hub, engine: eopts, log: logger}

	opts := []ssh.Option{
		wish.WithAddress(net.JoinHostPort(cfg.SSH.Host, cfg.SSH.Port)),
		wish.WithMiddleware(
			sessions.middleware,
			activeterm.Middleware(),
			wishlogging.MiddlewareWithLogger(logger),
		),
		// Set TCP_NODELAY so key presses reach the session without batching
		ssh.WrapConn(func(ctx ssh.Context, conn net.Conn) net.Conn {
			if tcpConn, ok := conn.(*net.TCPConn); ok {
				_ = tcpConn.SetNoDelay(true)
			}
			return conn
		}),
	}
	if cfg.SSH.HostKey != "" {
		opts = append(opts, wish.WithHostKeyPath(cfg.SSH.HostKey))
	}

	s, err := wish.NewServer(opts...)
	if err != nil {
		return fmt.Errorf("create server: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("starting ssh server", "addr", s.Addr)
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		ticker := time.NewTicker(statsInterval)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				st := hub.Stats()
				logger.Info("sessions", "active", st.Clients, "served", st.Served, "uptime", st.Uptime.Round(time.Second))
			}
		}
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server")

		// Show the countdown to connected viewers and wait for them to leave
		if remaining := hub.Shutdown(cfg.SSH.ShutdownTimeout); remaining > 0 {
			logger.Warn("sessions still open after shutdown timeout", "count", remaining)
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.Shutdown(shutdownCtx); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})
	return g.Wait()
}

// sessionHandler runs one star field client per SSH session.
type sessionHandler struct {
	hub    *server.Server
	engine engine.Options
	log    *log.Logger
}

func (h *sessionHandler) middleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		pty, winCh, ok := sess.Pty()
		if !ok {
			fmt.Fprintln(sess, "Error: PTY required. Please connect with: ssh -t user@host")
			return
		}

		logger := h.log.With("user", sess.User(), "remote", sess.RemoteAddr().String())
		logger.Info("new session", "term", pty.Term, "width", pty.Window.Width, "height", pty.Window.Height)

		sizeTracker := newSizeTracker(pty.Window.Width, pty.Window.Height)
		go func() {
			for win := range winCh {
				sizeTracker.update(win.Width, win.Height)
			}
		}()

		c, err := client.NewClient(h.hub, bufio.NewReader(sess), sess, client.ClientOptions{
			TermSizeFunc: sizeTracker.getSize,
			Username:     sess.User(),
			Engine:       h.engine,
			Logger:       logger,
			JoinNotice:   fmt.Sprintf("%s is watching the stars", sess.User()),
		})
		switch {
		case errors.Is(err, server.ErrServerFull):
			fmt.Fprintln(sess, "The sky is full right now. Please try again later.")
			logger.Warn("session rejected", "err", err)
			return
		case errors.Is(err, server.ErrShuttingDown):
			fmt.Fprintln(sess, "Server is shutting down. Please reconnect in a moment.")
			return
		case err != nil:
			logger.Error("session setup failed", "err", err)
			return
		}

		if err := c.Run(sess.Context()); err != nil {
			logger.Error("session error", "err", err)
		}
		logger.Info("session ended", "id", c.ID())
		next(sess)
	}
}

// sizeTracker tracks terminal size from SSH window change events.
type sizeTracker struct {
	mu     sync.RWMutex
	width  int
	height int
}

func newSizeTracker(width, height int) *sizeTracker {
	return &sizeTracker{width: width, height: height}
}

func (s *sizeTracker) update(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width = width
	s.height = height
}

func (s *sizeTracker) getSize() (int, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.width, s.height, nil
}

// Ensure sizeTracker.getSize satisfies draw.TermSizeFunc
var _ draw.TermSizeFunc = (*sizeTracker)(nil).getSize
