// Package server hosts the terminal viewer over SSH. Every session gets
// its own World built from the configured scene.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	bm "github.com/charmbracelet/wish/bubbletea"
	"github.com/charmbracelet/wish/logging"
	"go.uber.org/zap"

	"github.com/san-kum/rigid2d/internal/config"
	"github.com/san-kum/rigid2d/internal/viz"
)

const (
	// panelWidth is what the stats panel and canvas border take from the
	// terminal width.
	panelWidth = 46
	minCols    = 20
	minRows    = 8
)

var ErrNoScene = errors.New("server: no scene")

type Server struct {
	cfg    config.ServerConfig
	scene  *config.Scene
	logger *zap.Logger
	srv    *ssh.Server

	sessions atomic.Int64
	seq      atomic.Int64
}

func New(cfg config.ServerConfig, sc *config.Scene, logger *zap.Logger) (*Server, error) {
	if sc == nil {
		return nil, ErrNoScene
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{cfg: cfg, scene: sc.Clone(), logger: logger}
	opts := []ssh.Option{
		wish.WithAddress(cfg.Addr),
		wish.WithMiddleware(
			bm.Middleware(s.handler),
			activeterm.Middleware(),
			s.track,
			logging.Middleware(),
		),
	}
	if cfg.HostKeyPath != "" {
		opts = append(opts, wish.WithHostKeyPath(cfg.HostKeyPath))
	}

	srv, err := wish.NewServer(opts...)
	if err != nil {
		return nil, fmt.Errorf("create ssh server: %w", err)
	}
	s.srv = srv
	return s, nil
}

// ListenAndServe blocks until Shutdown. A clean shutdown returns nil.
func (s *Server) ListenAndServe() error {
	s.logger.Info("ssh server listening", zap.String("addr", s.cfg.Addr))
	return ignoreClosed(s.srv.ListenAndServe())
}

// Serve is ListenAndServe on an existing listener.
func (s *Server) Serve(l net.Listener) error {
	s.logger.Info("ssh server listening", zap.Stringer("addr", l.Addr()))
	return ignoreClosed(s.srv.Serve(l))
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("ssh server shutting down", zap.Int64("sessions", s.sessions.Load()))
	return ignoreClosed(s.srv.Shutdown(ctx))
}

// Sessions is the number of connected sessions.
func (s *Server) Sessions() int { return int(s.sessions.Load()) }

func ignoreClosed(err error) error {
	if errors.Is(err, ssh.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) track(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		n := s.sessions.Add(1)
		start := time.Now()
		s.logger.Info("session opened",
			zap.String("user", sess.User()),
			zap.Stringer("remote", sess.RemoteAddr()),
			zap.Int64("active", n))
		defer func() {
			s.sessions.Add(-1)
			s.logger.Info("session closed",
				zap.String("user", sess.User()),
				zap.Duration("duration", time.Since(start)))
		}()
		next(sess)
	}
}

func (s *Server) handler(sess ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, _ := sess.Pty()
	cols, rows := CanvasSize(pty.Window.Width, pty.Window.Height)

	m, err := viz.NewModel(viz.Options{
		Scene:     s.scene,
		Width:     cols,
		Height:    rows,
		MaxBodies: s.cfg.MaxBodies,
		Seed:      s.seq.Add(1),
		Logger:    s.logger.With(zap.String("user", sess.User())),
	})
	if err != nil {
		s.logger.Error("session setup failed", zap.Error(err))
		wish.Fatalln(sess, err)
		return nil, nil
	}
	return m, []tea.ProgramOption{tea.WithAltScreen(), tea.WithMouseCellMotion()}
}

// CanvasSize fits the braille canvas next to the stats panel in a
// terminal of the given size.
func CanvasSize(width, height int) (cols, rows int) {
	return max(width-panelWidth, minCols), max(height-2, minRows)
}
