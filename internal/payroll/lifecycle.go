package payroll

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go-payroll/internal/events"
	"go-payroll/internal/messaging/kafka"
	payrollerrors "go-payroll/internal/payroll/errors"
	"go-payroll/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// isAllowedRunTransition encodes the run state machine. PROCESSING and
// FAILED transitions happen only inside GenerateRun; REJECTED can be sent
// back to review after correction. A LOCKED run never transitions again;
// corrections go through the dispute chain, entry by entry.
func isAllowedRunTransition(currentStatus, targetStatus string) bool {
	switch currentStatus {
	case RunStatusCompleted:
		return targetStatus == RunStatusUnderReview
	case RunStatusUnderReview:
		return targetStatus == RunStatusApproved || targetStatus == RunStatusRejected
	case RunStatusApproved:
		return targetStatus == RunStatusLocked || targetStatus == RunStatusRejected
	case RunStatusRejected:
		return targetStatus == RunStatusUnderReview
	default:
		return false
	}
}

func (s *service) SubmitRun(ctx context.Context, orgID, actorID, id string) (RunResponse, error) {
	return s.transitionRun(ctx, orgID, actorID, id, RunStatusUnderReview, "")
}

func (s *service) ApproveRun(ctx context.Context, orgID, actorID, id string) (RunResponse, error) {
	return s.transitionRun(ctx, orgID, actorID, id, RunStatusApproved, "")
}

func (s *service) RejectRun(ctx context.Context, orgID, actorID, id string, req RejectRunRequest) (RunResponse, error) {
	if req.RejectionReason == "" {
		return RunResponse{}, payrollerrors.ErrRejectionReasonRequired
	}
	return s.transitionRun(ctx, orgID, actorID, id, RunStatusRejected, req.RejectionReason)
}

func (s *service) ResubmitRun(ctx context.Context, orgID, actorID, id string) (RunResponse, error) {
	return s.transitionRun(ctx, orgID, actorID, id, RunStatusUnderReview, "")
}

func (s *service) LockRun(ctx context.Context, orgID, actorID, id string) (RunResponse, error) {
	return s.transitionRun(ctx, orgID, actorID, id, RunStatusLocked, "")
}

func (s *service) transitionRun(ctx context.Context, orgID, actorID, id, targetStatus, rejectionReason string) (RunResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("transition run begin tx failed", zap.Error(err))
		return RunResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	outboxTx := s.outbox.WithTx(tx)

	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return RunResponse{}, payrollerrors.ErrInvalidActorID
	}

	run, err := qtx.FindRunByIDAndOrg(ctx, orgID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return RunResponse{}, payrollerrors.ErrRunNotFound
		}
		return RunResponse{}, err
	}
	fromStatus := run.Status
	if !isAllowedRunTransition(fromStatus, targetStatus) {
		s.logger.Warn("transition run invalid",
			zap.String("run_id", id),
			zap.String("from_status", fromStatus),
			zap.String("to_status", targetStatus),
		)
		return RunResponse{}, payrollerrors.ErrInvalidStatusTransition
	}

	run.Status = targetStatus
	switch targetStatus {
	case RunStatusRejected:
		run.RejectionReason = rejectionReason
	case RunStatusUnderReview:
		run.RejectionReason = ""
	case RunStatusLocked:
		now := time.Now().UTC()
		run.LockedBy = &actorUUID
		run.LockedAt = &now
	}

	if err := qtx.UpdateRun(ctx, run); err != nil {
		s.logger.Error("transition run persist failed", zap.String("run_id", id), zap.Error(err))
		return RunResponse{}, err
	}
	// Entry statuses mirror the run's. Superseded rows keep their final
	// status.
	if err := qtx.UpdateEntryStatusesByRun(ctx, orgID, id, targetStatus); err != nil {
		s.logger.Error("transition run entries persist failed", zap.String("run_id", id), zap.Error(err))
		return RunResponse{}, err
	}

	if err := s.enqueueRunLifecycleEvent(ctx, outboxTx, run, fromStatus, targetStatus, actorID); err != nil {
		return RunResponse{}, err
	}
	if targetStatus == RunStatusLocked {
		if err := s.enqueueLedgerPostingEvent(ctx, outboxTx, qtx, run); err != nil {
			return RunResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("transition run commit failed", zap.String("run_id", id), zap.Error(err))
		return RunResponse{}, err
	}

	s.logger.Info("transition run success",
		zap.String("run_id", id),
		zap.String("from_status", fromStatus),
		zap.String("to_status", targetStatus),
		zap.String("actor_id", actorID),
	)
	return mapRunToResponse(*run), nil
}

// enqueueLedgerPostingEvent aggregates the run's non-superseded entries
// into balanced journal lines. The ledger's own posting rules live with
// the consumer; payroll only supplies the totals.
func (s *service) enqueueLedgerPostingEvent(ctx context.Context, outbox kafka.OutboxRepository, qtx Repository, run *PayrollRun) error {
	entries, err := qtx.FindActiveEntriesByRun(ctx, run.OrgID.String(), run.ID.String())
	if err != nil {
		return err
	}
	var gross, tax, base, net int64
	for _, entry := range entries {
		gross += entry.GrossEarnings
		tax += entry.TaxWithheld
		base += entry.BaseDeductions
		net += entry.NetPay
	}

	payload, err := json.Marshal(events.LedgerPostingEvent{
		EventType: "payroll.run.ledger_posting",
		RunID:     run.ID.String(),
		OrgID:     run.OrgID.String(),
		Period:    run.Period,
		Lines: []events.LedgerLine{
			{Account: "payroll_expense", Side: "DEBIT", Amount: gross},
			{Account: "tds_payable", Side: "CREDIT", Amount: tax},
			{Account: "deductions_payable", Side: "CREDIT", Amount: base},
			{Account: "net_pay_payable", Side: "CREDIT", Amount: net},
		},
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	return outbox.Create(ctx, kafka.OutboxEvent{
		ID:            uuid.New().String(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "payroll_run",
		AggregateID:   run.ID.String(),
		EventType:     "payroll.run.ledger_posting",
		Topic:         events.LedgerPostingTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}
