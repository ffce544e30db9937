package consumer

import (
	"context"
	"encoding/json"

	"go-payroll/internal/events"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// LedgerPoster hands the aggregated debit/credit lines of a run to the
// general-ledger collaborator. Double-entry posting rules are its concern,
// not payroll's.
type LedgerPoster interface {
	PostRunJournal(ctx context.Context, event events.LedgerPostingEvent) error
}

type logLedgerPoster struct {
	logger *zap.Logger
}

func NewLogLedgerPoster(logger *zap.Logger) LedgerPoster {
	return &logLedgerPoster{logger: logger.Named("ledger")}
}

func (p *logLedgerPoster) PostRunJournal(_ context.Context, event events.LedgerPostingEvent) error {
	var debit, credit int64
	for _, line := range event.Lines {
		if line.Side == "DEBIT" {
			debit += line.Amount
		} else {
			credit += line.Amount
		}
	}
	p.logger.Info("ledger posting accepted",
		zap.String("run_id", event.RunID),
		zap.String("org_id", event.OrgID),
		zap.String("period", event.Period),
		zap.Int("lines", len(event.Lines)),
		zap.Int64("debit_total", debit),
		zap.Int64("credit_total", credit),
	)
	return nil
}

func ConsumeLedgerPosting(
	ctx context.Context,
	reader *kafkago.Reader,
	poster LedgerPoster,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.ledger_posting")
	log.Info("ledger posting consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("ledger posting consumer stopped")
				return
			}
			log.Error("fetch ledger posting message failed", zap.Error(err))
			continue
		}

		var event events.LedgerPostingEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode ledger posting event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		if err := poster.PostRunJournal(ctx, event); err != nil {
			log.Error("ledger posting failed",
				zap.String("run_id", event.RunID),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit ledger posting message failed", zap.Error(err))
			continue
		}
	}
}
