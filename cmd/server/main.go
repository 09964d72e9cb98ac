package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/andy6609/roomchat/internal/admin"
	"github.com/andy6609/roomchat/internal/chat"
	"github.com/andy6609/roomchat/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	addr := flag.String("addr", cfg.ChatAddr, "chat listen address")
	adminAddr := flag.String("admin-addr", cfg.AdminAddr, "admin/metrics listen address, empty disables")
	flag.Parse()
	cfg.ChatAddr = *addr
	cfg.AdminAddr = *adminAddr

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := chat.NewServer(*cfg, logger)
	if err := srv.Start(); err != nil {
		logger.Error("failed to start server", "error", err)
		os.Exit(1)
	}

	g, gctx := errgroup.WithContext(ctx)

	if cfg.AdminAddr != "" {
		adm := admin.NewServer(cfg.AdminAddr, srv.Rooms(), logger)
		g.Go(adm.Serve)
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
			defer cancel()
			return adm.Shutdown(shutdownCtx)
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		return srv.Stop()
	})

	if err := g.Wait(); err != nil {
		logger.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}
