package dispute

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	disputeerrors "go-payroll/internal/dispute/errors"
	"go-payroll/internal/events"
	"go-payroll/internal/messaging/kafka"
	"go-payroll/internal/payroll"
	"go-payroll/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=dispute_service.go -destination=mock/dispute_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, orgID, actorID string, req CreateDisputeRequest) (DisputeResponse, error)
	GetAll(ctx context.Context, orgID string) ([]DisputeResponse, error)
	GetByID(ctx context.Context, orgID, id string) (DisputeResponse, error)

	BeginReview(ctx context.Context, orgID, actorID, id string) (DisputeResponse, error)
	ManagerApprove(ctx context.Context, orgID, actorID, id string, req ReviewDisputeRequest) (DisputeResponse, error)
	ManagerReject(ctx context.Context, orgID, actorID, id string, req ReviewDisputeRequest) (DisputeResponse, error)
	HRApprove(ctx context.Context, orgID, actorID, id string, req ReviewDisputeRequest) (DisputeResponse, error)
	HRReject(ctx context.Context, orgID, actorID, id string, req ReviewDisputeRequest) (DisputeResponse, error)
	// FinanceApprove is the only operation that authorizes a correction:
	// it creates one new entry revising the original, marks the original
	// superseded, and adjusts the run's totals. The original row is never
	// mutated beyond the superseded pointer.
	FinanceApprove(ctx context.Context, orgID, actorID, id string, req FinanceApproveRequest) (DisputeResponse, error)
	FinanceReject(ctx context.Context, orgID, actorID, id string, req ReviewDisputeRequest) (DisputeResponse, error)
}

type service struct {
	db      *sql.DB
	repo    Repository
	entries payroll.Repository
	outbox  kafka.OutboxRepository
	logger  *zap.Logger
}

func NewService(db *sql.DB, repo Repository, entryRepo payroll.Repository, outboxRepo kafka.OutboxRepository) Service {
	return &service{
		db:      db,
		repo:    repo,
		entries: entryRepo,
		outbox:  outboxRepo,
		logger:  zap.L().Named("dispute.service"),
	}
}

func (s *service) Create(ctx context.Context, orgID, actorID string, req CreateDisputeRequest) (DisputeResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create dispute begin tx failed", zap.Error(err))
		return DisputeResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	orgUUID, err := uuid.Parse(orgID)
	if err != nil {
		return DisputeResponse{}, disputeerrors.ErrInvalidOrgID
	}
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return DisputeResponse{}, disputeerrors.ErrInvalidActorID
	}
	entryUUID, err := uuid.Parse(req.EntryID)
	if err != nil {
		return DisputeResponse{}, disputeerrors.ErrInvalidEntryID
	}
	if !isValidCategory(req.Category) {
		return DisputeResponse{}, disputeerrors.ErrInvalidCategory
	}

	entry, err := s.entries.FindEntryByIDAndOrg(ctx, orgID, req.EntryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return DisputeResponse{}, disputeerrors.ErrInvalidEntryID
		}
		return DisputeResponse{}, err
	}
	if entry.Status != payroll.RunStatusLocked {
		return DisputeResponse{}, disputeerrors.ErrEntryNotLocked
	}
	if entry.SupersededByID != nil {
		return DisputeResponse{}, disputeerrors.ErrEntrySuperseded
	}
	open, err := qtx.HasOpenDisputeForEntry(ctx, orgID, req.EntryID)
	if err != nil {
		return DisputeResponse{}, err
	}
	if open {
		return DisputeResponse{}, disputeerrors.ErrDisputeAlreadyOpen
	}

	d := &PayslipDispute{
		ID:          uuid.New(),
		OrgID:       orgUUID,
		EntryID:     entryUUID,
		EmployeeID:  entry.EmployeeID,
		Category:    req.Category,
		Description: req.Description,
		Stage:       StageOpen,
		RaisedBy:    actorUUID,
	}
	if err := qtx.Create(ctx, d); err != nil {
		s.logger.Error("create dispute persist failed", zap.Error(err))
		return DisputeResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("create dispute commit failed", zap.Error(err))
		return DisputeResponse{}, err
	}

	s.logger.Info("create dispute success",
		zap.String("dispute_id", d.ID.String()),
		zap.String("entry_id", req.EntryID),
		zap.String("category", req.Category),
	)
	return mapToResponse(*d), nil
}

func (s *service) GetAll(ctx context.Context, orgID string) ([]DisputeResponse, error) {
	disputes, err := s.repo.FindAllByOrg(ctx, orgID)
	if err != nil {
		return nil, err
	}
	resp := make([]DisputeResponse, len(disputes))
	for i, d := range disputes {
		resp[i] = mapToResponse(d)
	}
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, orgID, id string) (DisputeResponse, error) {
	d, err := s.repo.FindByIDAndOrg(ctx, orgID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return DisputeResponse{}, disputeerrors.ErrDisputeNotFound
		}
		return DisputeResponse{}, err
	}
	return mapToResponse(*d), nil
}

func (s *service) BeginReview(ctx context.Context, orgID, actorID, id string) (DisputeResponse, error) {
	return s.advanceStage(ctx, orgID, actorID, id, StageOpen, StageManagerReview, "")
}

func (s *service) ManagerApprove(ctx context.Context, orgID, actorID, id string, req ReviewDisputeRequest) (DisputeResponse, error) {
	return s.advanceStage(ctx, orgID, actorID, id, StageManagerReview, StageHRReview, req.Notes)
}

func (s *service) ManagerReject(ctx context.Context, orgID, actorID, id string, req ReviewDisputeRequest) (DisputeResponse, error) {
	return s.rejectAtStage(ctx, orgID, actorID, id, StageManagerReview, req.Notes)
}

func (s *service) HRApprove(ctx context.Context, orgID, actorID, id string, req ReviewDisputeRequest) (DisputeResponse, error) {
	return s.advanceStage(ctx, orgID, actorID, id, StageHRReview, StageFinanceReview, req.Notes)
}

func (s *service) HRReject(ctx context.Context, orgID, actorID, id string, req ReviewDisputeRequest) (DisputeResponse, error) {
	return s.rejectAtStage(ctx, orgID, actorID, id, StageHRReview, req.Notes)
}

func (s *service) FinanceReject(ctx context.Context, orgID, actorID, id string, req ReviewDisputeRequest) (DisputeResponse, error) {
	return s.rejectAtStage(ctx, orgID, actorID, id, StageFinanceReview, req.Notes)
}

func (s *service) advanceStage(ctx context.Context, orgID, actorID, id, fromStage, toStage, notes string) (DisputeResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("advance dispute begin tx failed", zap.Error(err))
		return DisputeResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	d, actorUUID, err := s.loadForReview(ctx, qtx, orgID, actorID, id, fromStage)
	if err != nil {
		return DisputeResponse{}, err
	}

	recordStageReview(d, fromStage, actorUUID, notes)
	d.Stage = toStage

	if err := qtx.Update(ctx, d); err != nil {
		s.logger.Error("advance dispute persist failed", zap.String("dispute_id", id), zap.Error(err))
		return DisputeResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return DisputeResponse{}, err
	}

	s.logger.Info("advance dispute success",
		zap.String("dispute_id", id),
		zap.String("from_stage", fromStage),
		zap.String("to_stage", toStage),
	)
	return mapToResponse(*d), nil
}

func (s *service) rejectAtStage(ctx context.Context, orgID, actorID, id, atStage, notes string) (DisputeResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("reject dispute begin tx failed", zap.Error(err))
		return DisputeResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	outboxTx := s.outbox.WithTx(tx)

	d, actorUUID, err := s.loadForReview(ctx, qtx, orgID, actorID, id, atStage)
	if err != nil {
		return DisputeResponse{}, err
	}

	recordStageReview(d, atStage, actorUUID, notes)
	d.Stage = StageRejected
	d.RejectedAtStage = atStage

	if err := qtx.Update(ctx, d); err != nil {
		s.logger.Error("reject dispute persist failed", zap.String("dispute_id", id), zap.Error(err))
		return DisputeResponse{}, err
	}
	if err := s.enqueueDecisionEvent(ctx, outboxTx, d, atStage, actorID, ""); err != nil {
		return DisputeResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return DisputeResponse{}, err
	}

	s.logger.Info("reject dispute success",
		zap.String("dispute_id", id),
		zap.String("rejected_at_stage", atStage),
	)
	return mapToResponse(*d), nil
}

func (s *service) FinanceApprove(ctx context.Context, orgID, actorID, id string, req FinanceApproveRequest) (DisputeResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("finance approve begin tx failed", zap.Error(err))
		return DisputeResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	entriesTx := s.entries.WithTx(tx)
	outboxTx := s.outbox.WithTx(tx)

	d, actorUUID, err := s.loadForReview(ctx, qtx, orgID, actorID, id, StageFinanceReview)
	if err != nil {
		return DisputeResponse{}, err
	}

	original, err := entriesTx.FindEntryByIDAndOrg(ctx, orgID, d.EntryID.String())
	if err != nil {
		return DisputeResponse{}, err
	}
	if original.SupersededByID != nil {
		return DisputeResponse{}, disputeerrors.ErrEntrySuperseded
	}

	correction, err := buildCorrectionEntry(original, req.Correction)
	if err != nil {
		return DisputeResponse{}, err
	}
	if err := entriesTx.CreateEntry(ctx, correction); err != nil {
		s.logger.Error("finance approve correction persist failed", zap.String("dispute_id", id), zap.Error(err))
		return DisputeResponse{}, err
	}

	// The original keeps every figure it was locked with; only the
	// superseded pointer changes.
	original.SupersededByID = &correction.ID
	if err := entriesTx.UpdateEntry(ctx, original); err != nil {
		return DisputeResponse{}, err
	}

	// Run totals move by the delta between correction and original so
	// they stay the exact sum of non-superseded entries.
	run, err := entriesTx.FindRunByIDAndOrg(ctx, orgID, original.RunID.String())
	if err != nil {
		return DisputeResponse{}, err
	}
	run.TotalGross += correction.GrossEarnings - original.GrossEarnings
	run.TotalDeductions += correction.TotalDeductions - original.TotalDeductions
	run.TotalNet += correction.NetPay - original.NetPay
	if err := entriesTx.UpdateRun(ctx, run); err != nil {
		return DisputeResponse{}, err
	}

	recordStageReview(d, StageFinanceReview, actorUUID, req.Notes)
	d.Stage = StageApproved
	d.CorrectionEntryID = &correction.ID
	if err := qtx.Update(ctx, d); err != nil {
		return DisputeResponse{}, err
	}

	if err := s.enqueueDecisionEvent(ctx, outboxTx, d, StageFinanceReview, actorID, correction.ID.String()); err != nil {
		return DisputeResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("finance approve commit failed", zap.String("dispute_id", id), zap.Error(err))
		return DisputeResponse{}, err
	}

	s.logger.Info("finance approve success",
		zap.String("dispute_id", id),
		zap.String("original_entry_id", original.ID.String()),
		zap.String("correction_entry_id", correction.ID.String()),
	)
	return mapToResponse(*d), nil
}

func (s *service) loadForReview(ctx context.Context, qtx Repository, orgID, actorID, id, expectedStage string) (*PayslipDispute, uuid.UUID, error) {
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return nil, uuid.Nil, disputeerrors.ErrInvalidActorID
	}

	d, err := qtx.FindByIDAndOrg(ctx, orgID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, uuid.Nil, disputeerrors.ErrDisputeNotFound
		}
		return nil, uuid.Nil, err
	}
	if d.Stage != expectedStage {
		s.logger.Warn("dispute stage mismatch",
			zap.String("dispute_id", id),
			zap.String("stage", d.Stage),
			zap.String("expected_stage", expectedStage),
		)
		return nil, uuid.Nil, disputeerrors.ErrInvalidStageTransition
	}
	return d, actorUUID, nil
}

func recordStageReview(d *PayslipDispute, stage string, actorUUID uuid.UUID, notes string) {
	now := time.Now().UTC()
	switch stage {
	case StageManagerReview:
		d.ManagerReviewedBy = &actorUUID
		d.ManagerReviewedAt = &now
		d.ManagerNotes = notes
	case StageHRReview:
		d.HRReviewedBy = &actorUUID
		d.HRReviewedAt = &now
		d.HRNotes = notes
	case StageFinanceReview:
		d.FinanceReviewedBy = &actorUUID
		d.FinanceReviewedAt = &now
		d.FinanceNotes = notes
	}
}

func buildCorrectionEntry(original *payroll.PayrollEntry, input CorrectionInput) (*payroll.PayrollEntry, error) {
	gross := original.GrossEarnings
	base := original.BaseDeductions
	withheld := original.TaxWithheld
	if input.GrossEarnings != nil {
		gross = *input.GrossEarnings
	}
	if input.BaseDeductions != nil {
		base = *input.BaseDeductions
	}
	if input.TaxWithheld != nil {
		withheld = *input.TaxWithheld
	}
	if gross < 0 || base < 0 || withheld < 0 {
		return nil, disputeerrors.ErrInvalidCorrection
	}

	correction := &payroll.PayrollEntry{
		ID:               uuid.New(),
		RunID:            original.RunID,
		OrgID:            original.OrgID,
		EmployeeID:       original.EmployeeID,
		StructureID:      original.StructureID,
		AnnualCTC:        original.AnnualCTC,
		WorkingDays:      original.WorkingDays,
		LwpDays:          original.LwpDays,
		PaidDays:         original.PaidDays,
		GrossEarnings:    gross,
		BaseDeductions:   base,
		TaxWithheld:      withheld,
		TotalDeductions:  base + withheld,
		AbsenceDeduction: original.AbsenceDeduction,
		NetPay:           gross - base - withheld,
		Status:           payroll.RunStatusUnderReview,
		RevisesEntryID:   &original.ID,
	}
	for _, component := range original.Components {
		correction.Components = append(correction.Components, payroll.EntryComponent{
			ID:            uuid.New(),
			EntryID:       correction.ID,
			Name:          component.Name,
			Kind:          component.Kind,
			AnnualAmount:  component.AnnualAmount,
			MonthlyAmount: component.MonthlyAmount,
			Taxable:       component.Taxable,
			DisplayOrder:  component.DisplayOrder,
		})
	}
	return correction, nil
}

func (s *service) enqueueDecisionEvent(ctx context.Context, outbox kafka.OutboxRepository, d *PayslipDispute, decidedAtStage, actorID, revisedEntryID string) error {
	decision := d.Stage
	payload, err := json.Marshal(events.DisputeDecisionEvent{
		EventType:      "payroll.dispute." + decision,
		DisputeID:      d.ID.String(),
		OrgID:          d.OrgID.String(),
		EntryID:        d.EntryID.String(),
		Stage:          decidedAtStage,
		Decision:       decision,
		ActorID:        actorID,
		RevisedEntryID: revisedEntryID,
		OccurredAt:     time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	return outbox.Create(ctx, kafka.OutboxEvent{
		ID:            uuid.New().String(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "payslip_dispute",
		AggregateID:   d.ID.String(),
		EventType:     "payroll.dispute." + decision,
		Topic:         events.DisputeDecisionTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

func mapToResponse(d PayslipDispute) DisputeResponse {
	resp := DisputeResponse{
		ID:              d.ID.String(),
		OrgID:           d.OrgID.String(),
		EntryID:         d.EntryID.String(),
		EmployeeID:      d.EmployeeID.String(),
		Category:        d.Category,
		Description:     d.Description,
		Stage:           d.Stage,
		RaisedBy:        d.RaisedBy.String(),
		ManagerReview:   mapStageReview(d.ManagerReviewedBy, d.ManagerReviewedAt, d.ManagerNotes),
		HRReview:        mapStageReview(d.HRReviewedBy, d.HRReviewedAt, d.HRNotes),
		FinanceReview:   mapStageReview(d.FinanceReviewedBy, d.FinanceReviewedAt, d.FinanceNotes),
		RejectedAtStage: d.RejectedAtStage,
	}
	if d.CorrectionEntryID != nil {
		v := d.CorrectionEntryID.String()
		resp.CorrectionEntryID = &v
	}
	return resp
}

func mapStageReview(by *uuid.UUID, at *time.Time, notes string) StageReviewResponse {
	review := StageReviewResponse{Notes: notes}
	if by != nil {
		v := by.String()
		review.ReviewedBy = &v
	}
	if at != nil {
		v := at.Format(time.RFC3339)
		review.ReviewedAt = &v
	}
	return review
}
