package main

import (
    "context"
    "errors"
    "net/http"
    "os"
    "os/signal"
    "syscall"
    "time"

    "go.uber.org/zap"
    "go.uber.org/zap/zapcore"

    "github.com/jaminalder/tic-tac-gomoku/internal/app"
    "github.com/jaminalder/tic-tac-gomoku/internal/config"
    "github.com/jaminalder/tic-tac-gomoku/internal/web"
)

func main() {
    cfg, err := config.Setup(".env")
    if err != nil {
        NewLogger(false, "info").Fatalw("failed to load configuration", "error", err)
    }
    logger := NewLogger(cfg.Dev, cfg.LogLevel)
    defer func() { _ = logger.Sync() }()

    rules, err := cfg.Rules()
    if err != nil {
        logger.Fatalw("invalid board settings", "error", err)
    }
    svc := app.NewService(app.WithRules(rules), app.WithLogger(logger.Named("app")))
    handler := web.NewServer(svc,
        web.WithLogger(logger.Named("web")),
        web.WithHeartbeat(cfg.Heartbeat),
    )

    srv := &http.Server{
        Addr:              cfg.Addr,
        Handler:           handler,
        ReadHeaderTimeout: 10 * time.Second,
    }

    ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
    defer stop()

    go func() {
        logger.Infow("server is running", "addr", cfg.Addr, "outer_size", rules.OuterSize, "win_length", rules.WinLength)
        if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
            logger.Errorw("failed to start server", "error", err)
            stop()
        }
    }()

    <-ctx.Done()
    logger.Info("received shutdown signal")
    shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
    defer cancel()
    if err := srv.Shutdown(shutdownCtx); err != nil {
        logger.Errorw("shutdown", "error", err)
        os.Exit(1)
    }
}

// NewLogger builds a production logger, or a development one when dev is set.
// Unknown levels fall back to info.
func NewLogger(dev bool, level string) *zap.SugaredLogger {
    zcfg := zap.NewProductionConfig()
    if dev {
        zcfg = zap.NewDevelopmentConfig()
    }
    lvl, err := zapcore.ParseLevel(level)
    if err != nil {
        lvl = zapcore.InfoLevel
    }
    zcfg.Level = zap.NewAtomicLevelAt(lvl)
    logger, err := zcfg.Build()
    if err != nil {
        panic("failed to initialize logger: " + err.Error())
    }
    return logger.Sugar()
}
