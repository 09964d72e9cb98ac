package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/andy6609/roomchat/internal/config"
)

type Server struct {
	cfg    config.Config
	logger *slog.Logger
	names  *Names
	rooms  *Rooms

	listener net.Listener
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

func NewServer(cfg config.Config, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		cfg:    cfg,
		logger: logger,
		names:  NewNames(cfg.NameLabel),
		rooms:  NewRooms(cfg.RoomCapacity),
		ctx:    ctx,
		cancel: cancel,
	}
}

func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.cfg.ChatAddr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.ChatAddr, err)
	}
	s.listener = ln

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.acceptLoop(ln)
	}()

	s.logger.Info("server started", "addr", ln.Addr().String())
	return nil
}

// Addr is the bound listener address, nil before Start.
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

func (s *Server) Rooms() *Rooms { return s.rooms }

func (s *Server) Names() *Names { return s.names }

// Stop closes the listener, ends every session and waits for them up to
// ShutdownTimeout.
func (s *Server) Stop() error {
	s.logger.Info("shutting down")

	if s.listener != nil {
		_ = s.listener.Close()
	}
	s.cancel()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	timeout := s.cfg.ShutdownTimeout
	if timeout <= 0 {
		<-done
		s.logger.Info("shutdown complete")
		return nil
	}
	select {
	case <-done:
		s.logger.Info("shutdown complete")
		return nil
	case <-time.After(timeout):
		s.logger.Warn("shutdown timed out, sessions still running", "timeout", timeout)
		return context.DeadlineExceeded
	}
}

func (s *Server) acceptLoop(ln net.Listener) {
	opts := sessionOptions{
		defaultRoom:  s.cfg.DefaultRoom,
		maxLineBytes: s.cfg.MaxLineBytes,
		writeTimeout: s.cfg.WriteTimeout,
	}
	if opts.defaultRoom == "" {
		opts.defaultRoom = "main"
	}
	if opts.maxLineBytes <= 0 {
		opts.maxLineBytes = 64 * 1024
	}

	for {
		conn, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return
			}
			s.logger.Warn("accept failed", "error", err)
			time.Sleep(50 * time.Millisecond)
			continue
		}

		s.logger.Debug("client connected", "addr", conn.RemoteAddr().String())

		sess := newSession(conn, s.names, s.rooms, opts, s.logger)
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			sess.Run(s.ctx)
		}()
	}
}
