package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"dynform/internal/api"
	"dynform/internal/config"
	"dynform/internal/logger"
	"dynform/internal/provider"
	"dynform/internal/session"
)

func main() {
	cfg, err := config.LoadWithPath("config.json", os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}

	log, err := logger.New(cfg.LogLevel, cfg.DevLogging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(2)
	}
	logger.Set(log)
	defer func() { _ = log.Sync() }()

	// 1. Загружаем каталог форм: встроенные + из formsDir
	catalog, err := provider.Load(cfg.FormsDir)
	if err != nil {
		log.Fatalw("form catalog load failed", "formsDir", cfg.FormsDir, "error", err)
	}
	if issues := catalog.Lint(); len(issues) > 0 {
		for _, is := range issues {
			log.Errorw("form definition issue", "form", is.Form, "field", is.Field, "code", is.Code, "message", is.Message)
		}
		log.Fatalw("form catalog has blocking issues", "count", len(issues))
	}
	log.Infow("form catalog loaded", "forms", catalog.Len())

	// 2. Мок-источник и сессии
	src := provider.NewStatic(catalog, provider.WithLatency(cfg.MockLatency.Std()))
	sessions := session.NewManager(src, session.Config{
		DefaultFormType: cfg.DefaultFormType,
		IdleTTL:         cfg.SessionTTL.Std(),
		MessageTTL:      cfg.MessageTTL.Std(),
	}, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go sessions.Run(ctx, cfg.SweepEvery.Std())

	// 3. HTTP
	if !cfg.DevLogging {
		gin.SetMode(gin.ReleaseMode)
	}
	app := &api.App{Provider: src, Sessions: sessions, FormsDir: cfg.FormsDir, Log: log}
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           api.NewRouter(app),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Infow("starting dynform server", "addr", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalw("server stopped", "error", err)
	}
}
