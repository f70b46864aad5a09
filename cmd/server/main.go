package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"eventDeskProxy/internal/config"
	"eventDeskProxy/internal/modules/events/application/port"
	"eventDeskProxy/internal/modules/events/application/usecase"
	"eventDeskProxy/internal/modules/events/domain"
	"eventDeskProxy/internal/modules/events/infrastructure"
	transport "eventDeskProxy/internal/modules/events/interface"
	"eventDeskProxy/internal/platform/broker"
	"eventDeskProxy/internal/shared/logging"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Attempt to load variables from .env so local runs honour configuration tweaks.
	if err := godotenv.Overload(); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, ".env load warning: %v\n", err)
		}
	}
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load error: %v\n", err)
		os.Exit(1)
	}

	logFile, logger, err := setupLogging(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging setup error: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()
	slog.SetDefault(logger)
	slog.Info("logging initialized", slog.String("directory", cfg.Logging.Directory), slog.String("level", cfg.Logging.Level), slog.String("format", cfg.Logging.Format))
	slog.Info("odoo config resolved",
		slog.String("url", cfg.Odoo.URL),
		slog.String("database", cfg.Odoo.Database),
		slog.Bool("defaultUser", cfg.Odoo.User != ""),
		slog.Duration("timeout", cfg.Odoo.Timeout),
	)

	var publisher port.RegistrationPublisher = port.NopRegistrationPublisher{}
	if kafkaPublisher := broker.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.RegistrationTopic); kafkaPublisher != nil {
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
		slog.Info("kafka publisher enabled", slog.Any("brokers", cfg.Kafka.Brokers), slog.String("topic", cfg.Kafka.RegistrationTopic))
	}

	gateway := infrastructure.NewJSONRPCClient(cfg.Odoo.URL, cfg.Odoo.Timeout, nil)
	proxyUC := usecase.NewProxyUseCase(gateway, publisher)
	resolver := usecase.NewAuthResolver(domain.Credential{
		User:     cfg.Odoo.User,
		Password: cfg.Odoo.Password,
		Database: cfg.Odoo.Database,
	})

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.Logger.SetOutput(log.Writer())
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())

	transport.Mount(e, transport.RouteConfig{
		UseCase:        proxyUC,
		Resolver:       resolver,
		AllowedOrigins: cfg.CORS.Origins,
	})

	go func() {
		slog.Info("http server listening", slog.String("address", cfg.Server.Address()), slog.Any("corsOrigins", cfg.CORS.Origins))
		if err := e.Start(cfg.Server.Address()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server stopped", slog.Any("error", err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	slog.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		slog.Error("http server shutdown", slog.Any("error", err))
	}
	proxyUC.Wait()
}

func setupLogging(cfg config.LoggingConfig) (*os.File, *slog.Logger, error) {
	dir := cfg.Directory
	if dir == "" {
		dir = "./logs"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	fileName := filepath.Join(dir, time.Now().UTC().Format("2006-01-02")+".log")
	file, err := os.OpenFile(fileName, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}

	writer := io.MultiWriter(os.Stdout, file)
	logger := logging.New(writer, logging.Config{
		Level:     cfg.Level,
		Format:    cfg.Format,
		AddSource: true,
	})
	log.SetOutput(writer)
	log.SetFlags(0)
	log.SetPrefix("")

	return file, logger, nil
}
