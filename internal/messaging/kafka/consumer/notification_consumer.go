package consumer

import (
	"context"
	"encoding/json"

	"go-payroll/internal/events"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Notifier is the messaging collaborator boundary. Delivery transport
// (mail, chat, push) lives outside this module.
type Notifier interface {
	NotifyRunTransition(ctx context.Context, event events.PayrollRunLifecycleEvent) error
	NotifyDisputeDecision(ctx context.Context, event events.DisputeDecisionEvent) error
}

type logNotifier struct {
	logger *zap.Logger
}

func NewLogNotifier(logger *zap.Logger) Notifier {
	return &logNotifier{logger: logger.Named("notifier")}
}

func (n *logNotifier) NotifyRunTransition(_ context.Context, event events.PayrollRunLifecycleEvent) error {
	n.logger.Info("run transition notification",
		zap.String("run_id", event.RunID),
		zap.String("org_id", event.OrgID),
		zap.String("to_status", event.ToStatus),
		zap.String("actor_id", event.ActorID),
	)
	return nil
}

func (n *logNotifier) NotifyDisputeDecision(_ context.Context, event events.DisputeDecisionEvent) error {
	n.logger.Info("dispute decision notification",
		zap.String("dispute_id", event.DisputeID),
		zap.String("org_id", event.OrgID),
		zap.String("decision", event.Decision),
		zap.String("actor_id", event.ActorID),
	)
	return nil
}

func ConsumeRunLifecycle(
	ctx context.Context,
	reader *kafkago.Reader,
	notifier Notifier,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.run_lifecycle")
	log.Info("run lifecycle consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("run lifecycle consumer stopped")
				return
			}
			log.Error("fetch run lifecycle message failed", zap.Error(err))
			continue
		}

		var event events.PayrollRunLifecycleEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode run lifecycle event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		// notification failure never propagates back into payroll
		if err := notifier.NotifyRunTransition(ctx, event); err != nil {
			log.Error("notify run transition failed",
				zap.String("run_id", event.RunID),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit run lifecycle message failed", zap.Error(err))
			continue
		}
	}
}

func ConsumeDisputeDecision(
	ctx context.Context,
	reader *kafkago.Reader,
	notifier Notifier,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.dispute_decision")
	log.Info("dispute decision consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("dispute decision consumer stopped")
				return
			}
			log.Error("fetch dispute decision message failed", zap.Error(err))
			continue
		}

		var event events.DisputeDecisionEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode dispute decision event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		if err := notifier.NotifyDisputeDecision(ctx, event); err != nil {
			log.Error("notify dispute decision failed",
				zap.String("dispute_id", event.DisputeID),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit dispute decision message failed", zap.Error(err))
			continue
		}
	}
}
