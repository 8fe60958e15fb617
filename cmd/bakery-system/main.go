package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"bakery-system/internal/app/notify"
	"bakery-system/internal/app/web"
	"bakery-system/internal/common/logger"
	"bakery-system/internal/config"
	"bakery-system/internal/connections/database"
	"bakery-system/internal/connections/rabbitmq"
	"bakery-system/internal/demo"
	"bakery-system/internal/repository"
	"bakery-system/internal/security"
)

func main() {
	mode := flag.String("mode", "web", "web | notification-subscriber")
	cfgPath := flag.String("config", "", "path to config yaml (default: ./config/config.yaml)")
	port := flag.Int("port", 0, "web: http port override")
	flag.Parse()

	lg := logger.New("bootstrap")

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		lg.Error("config_load_failed", err, nil)
		os.Exit(1)
	}
	if *port != 0 {
		cfg.HTTP.Port = *port
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	switch *mode {
	case "web":
		if err := runWeb(ctx, cfg, lg); err != nil {
			lg.Error("fatal", err, nil)
			os.Exit(1)
		}
	case "notification-subscriber":
		if err := runNotify(ctx, cfg, lg); err != nil {
			lg.Error("fatal", err, nil)
			os.Exit(1)
		}
	default:
		fmt.Fprintln(os.Stderr, "--mode must be one of: web | notification-subscriber")
		os.Exit(2)
	}
}

func runWeb(ctx context.Context, cfg *config.Config, lg *logger.Logger) error {
	db, err := database.Connect(ctx, database.Config{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		Name:     cfg.Database.Name,
		SSLMode:  cfg.Database.SSLMode,
	})
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()
	lg.Info("database_connected", map[string]any{"host": cfg.Database.Host, "name": cfg.Database.Name})

	if err := repository.Migrate(ctx, db); err != nil {
		return err
	}

	mq, err := rabbitmq.Dial(rabbitmq.Config{
		Host:     cfg.RabbitMQ.Host,
		Port:     cfg.RabbitMQ.Port,
		User:     cfg.RabbitMQ.User,
		Password: cfg.RabbitMQ.Password,
		VHost:    cfg.RabbitMQ.VHost,
	})
	if err != nil {
		return fmt.Errorf("connect rabbitmq: %w", err)
	}
	defer mq.Close()
	if err := mq.DeclareTopology(); err != nil {
		return err
	}
	lg.Info("rabbitmq_connected", map[string]any{"host": cfg.RabbitMQ.Host})

	if cfg.Demo.Enabled {
		gen := demo.New(
			repository.NewUsers(db),
			repository.NewProducts(db),
			repository.NewPickupLocations(db),
			repository.NewOrders(db),
			security.NewBcryptEncoder(),
			logger.New("demo-data"),
		)
		if err := gen.Run(ctx); err != nil {
			return fmt.Errorf("seed demo data: %w", err)
		}
	}

	return web.Run(ctx, cfg.HTTP.Port, db, mq)
}

func runNotify(ctx context.Context, cfg *config.Config, lg *logger.Logger) error {
	mq, err := rabbitmq.Dial(rabbitmq.Config{
		Host:     cfg.RabbitMQ.Host,
		Port:     cfg.RabbitMQ.Port,
		User:     cfg.RabbitMQ.User,
		Password: cfg.RabbitMQ.Password,
		VHost:    cfg.RabbitMQ.VHost,
	})
	if err != nil {
		return fmt.Errorf("connect rabbitmq: %w", err)
	}
	defer mq.Close()
	lg.Info("rabbitmq_connected", map[string]any{"host": cfg.RabbitMQ.Host})

	return notify.Run(ctx, mq)
}
