package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/amaumene/nekoview/internal/config"
	"github.com/amaumene/nekoview/internal/constants"
	"github.com/amaumene/nekoview/internal/middleware"
	"github.com/amaumene/nekoview/pkg/helpers"
)

func main() {
	// A missing .env is fine; the environment and defaults still apply.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	log := initializeLogger(cfg)
	a := initializeServices(cfg, log)
	defer a.close()

	if !strings.EqualFold(cfg.LogLevel, "debug") {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(log.With("HTTP")))
	r.Use(middleware.CORS(cfg.CORSOrigins...))
	r.Use(middleware.Gzip(helpers.ProxyPath))

	a.handler.RegisterRoutes(r)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Start cache cleanup routine
	a.services.Images.StartCleanup(ctx, constants.CacheCleanupInterval)

	srv := &http.Server{
		Addr:    cfg.Address(),
		Handler: r,
	}

	go func() {
		log.Infof("[App] starting HTTP server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Errorf("[App] server failed: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Infof("[App] shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("[App] graceful shutdown failed: %v", err)
	}
}
