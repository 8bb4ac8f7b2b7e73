package main

import (
	"context"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/dmorgan81/kittenbass/internal/config"
	"github.com/dmorgan81/kittenbass/internal/handler"
	"github.com/dmorgan81/kittenbass/internal/inject"
	"github.com/dmorgan81/kittenbass/internal/log"
	"github.com/dmorgan81/kittenbass/internal/server"
	"github.com/gin-gonic/gin"
	"github.com/samber/do"
)

func main() {
	var level slog.LevelVar
	logger := log.New(os.Stderr, &level)
	ctx := log.NewContext(context.Background(), logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("loading config", log.Err(err))
		os.Exit(1)
	}
	if l, err := log.ParseLevel(cfg.LogLevel); err != nil {
		logger.Warn("ignoring LOG_LEVEL", log.Err(err))
	} else {
		level.Set(l)
	}
	gin.SetMode(cfg.GinMode)

	injector := inject.Setup(ctx, cfg)
	h, err := do.Invoke[*handler.Handler](injector)
	if err != nil {
		logger.Error("wiring handler", log.Err(err))
		os.Exit(1)
	}

	if os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != "" {
		lambda.StartWithOptions(h.Invoke, lambda.WithContext(ctx), lambda.WithEnableSIGTERM(func() {
			_ = injector.Shutdown()
		}))
		return
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := server.New(net.JoinHostPort("", cfg.Port), handler.InitRoutes(h, logger))
	if err := srv.Run(ctx); err != nil {
		logger.Error("server stopped", log.Err(err))
	}
	if err := injector.Shutdown(); err != nil {
		logger.Error("shutting down", log.Err(err))
	}
}
