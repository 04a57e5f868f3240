package app

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"go-leave/internal/approvaltoken"
	"go-leave/internal/messaging/kafka"
	"go-leave/internal/messaging/kafka/producer"
	"go-leave/internal/shared/config"
	"go-leave/internal/shared/connection"

	"go.uber.org/zap"
)

// RunWorker relays the outbox to Kafka and sweeps expired approval tokens
// until SIGINT/SIGTERM.
func RunWorker(cfg config.Config) error {
	logger := zap.L().Named("app.worker")

	gormDB, err := connection.ConnectGORMWithRetry(cfg.Database.DSN(), cfg.Database.MaxRetries)
	if err != nil {
		return err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var wg sync.WaitGroup

	if cfg.Kafka.Broker != "" {
		kafkaWriter, err := connection.ConnectKafkaWithRetry(cfg.Kafka.Broker, cfg.Database.MaxRetries)
		if err != nil {
			return err
		}
		defer kafkaWriter.Close()

		outboxRepo := kafka.NewOutboxRepository(sqlDB)

		wg.Add(1)
		go func() {
			defer wg.Done()
			producer.ProcessOutboxEvents(ctx, outboxRepo, kafkaWriter, logger, cfg.Kafka.OutboxPollInterval)
		}()
	} else {
		logger.Warn("KAFKA_BROKER not set, outbox relay disabled")
	}

	tokenService := approvaltoken.NewService(approvaltoken.NewRepository(gormDB), logger)

	wg.Add(1)
	go func() {
		defer wg.Done()
		approvaltoken.RunSweeper(ctx, tokenService, cfg.Approval.SweepInterval, logger)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("worker shutting down")
	cancel()
	wg.Wait()

	return nil
}
