package main

import (
	"context"
	"crypto/tls"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"expense_tracker/internal/amqp"
	"expense_tracker/internal/api/routers"
	"expense_tracker/internal/config"
	"expense_tracker/internal/repositories"
	"expense_tracker/internal/repositories/sqlconnect"
	"expense_tracker/pkg/utils"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()
	logger := utils.NewLogger(cfg.AppEnv, cfg.LogLevel, "logs")

	if err := cfg.Validate(); err != nil {
		logger.Fatalf("invalid configuration: %v", err)
	}
	if cfg.IsProduction() && !cfg.CookieSecure {
		logger.Warn("COOKIE_SECURE is off in production")
	}
	if !cfg.SMTPEnabled() {
		logger.Info("SMTP not configured, welcome emails disabled")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatalf("server stopped: %v", err)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *logrus.Logger) error {
	if err := sqlconnect.RunMigrations(cfg); err != nil {
		return utils.ErrorHandler(logger, err, "migrations failed")
	}

	db, dialect, err := sqlconnect.ConnectDb(ctx, cfg, logger)
	if err != nil {
		return utils.ErrorHandler(logger, err, "DB connection failed")
	}
	defer db.Close()

	deps := routers.Deps{
		Config: cfg,
		Store:  repositories.NewStore(db, dialect),
		Mailer: utils.NewMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPEmail, cfg.SMTPPass, logger),
		Logger: logger,
	}

	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, logger)
		if err != nil {
			logger.WithError(err).Warn("amqp unavailable, expense events disabled")
		} else {
			defer client.Close()
			deps.Publisher = client
		}
	}

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           routers.NewApp(deps),
		ReadHeaderTimeout: 5 * time.Second,
		TLSConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.WithFields(logrus.Fields{
			"port":   cfg.Port,
			"driver": string(dialect),
			"tls":    cfg.CertFile != "",
		}).Info("server is running")

		var err error
		if cfg.CertFile != "" {
			err = server.ListenAndServeTLS(cfg.CertFile, cfg.KeyFile)
		} else {
			err = server.ListenAndServe()
		}
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
