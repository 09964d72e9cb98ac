// Package admin serves the operational HTTP endpoints next to the chat
// listener: Prometheus metrics, a health check and a room snapshot.
package admin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/andy6609/roomchat/internal/chat"
)

// RoomLister is the read side of the room registry.
type RoomLister interface {
	List() []chat.RoomInfo
}

func NewRouter(rooms RoomLister) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	r.GET("/rooms", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"rooms": rooms.List()})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	return r
}

type Server struct {
	addr   string
	logger *slog.Logger
	srv    *http.Server
}

func NewServer(addr string, rooms RoomLister, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		addr:   addr,
		logger: logger,
		srv: &http.Server{
			Handler:           NewRouter(rooms),
			ReadHeaderTimeout: 5 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
	}
}

// Serve binds and blocks until Shutdown. It returns nil after a clean
// shutdown.
func (s *Server) Serve() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("admin listen %s: %w", s.addr, err)
	}
	s.logger.Info("admin server started", "addr", ln.Addr().String())

	if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("admin serve: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.srv.Shutdown(ctx); err != nil {
		s.logger.Error("admin shutdown failed", "error", err)
		return err
	}
	return nil
}
