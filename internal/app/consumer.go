package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go-payroll/internal/events"
	"go-payroll/internal/messaging/kafka/consumer"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

func RunConsumer() error {
	logger := zap.L().Named("app.consumer")

	kafkaBroker := os.Getenv("KAFKA_BROKER")
	if kafkaBroker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

	newReader := func(topic, groupID string) *kafkago.Reader {
		return kafkago.NewReader(kafkago.ReaderConfig{
			Brokers:        []string{kafkaBroker},
			Topic:          topic,
			GroupID:        groupID,
			CommitInterval: 0,
			StartOffset:    kafkago.FirstOffset,
		})
	}

	lifecycleReader := newReader(events.PayrollRunLifecycleTopic, "go-payroll-notifications")
	defer lifecycleReader.Close()
	disputeReader := newReader(events.DisputeDecisionTopic, "go-payroll-notifications")
	defer disputeReader.Close()
	ledgerReader := newReader(events.LedgerPostingTopic, "go-payroll-ledger")
	defer ledgerReader.Close()

	notifier := consumer.NewLogNotifier(logger)
	poster := consumer.NewLogLedgerPoster(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go consumer.ConsumeRunLifecycle(ctx, lifecycleReader, notifier, logger)
	go consumer.ConsumeDisputeDecision(ctx, disputeReader, notifier, logger)
	go consumer.ConsumeLedgerPosting(ctx, ledgerReader, poster, logger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("consumer shutting down")
	cancel()

	return nil
}
