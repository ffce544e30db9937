package leave

import (
	"context"
	"database/sql"
	"errors"
	"time"

	leaveerrors "go-payroll/internal/leave/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	StatusPending   = "PENDING"
	StatusSubmitted = "SUBMITTED"
	StatusApproved  = "APPROVED"
	StatusRejected  = "REJECTED"
	StatusCanceled  = "CANCELLED"
)

//go:generate mockgen -source=leave_service.go -destination=mock/leave_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, orgID, actorID string, req CreateLeaveRequest) (LeaveResponse, error)
	GetAll(ctx context.Context, orgID string) ([]LeaveResponse, error)
	GetByID(ctx context.Context, orgID, id string) (LeaveResponse, error)
	Submit(ctx context.Context, orgID, actorID, id string) (LeaveResponse, error)
	Approve(ctx context.Context, orgID, actorID, id string) (LeaveResponse, error)
	Reject(ctx context.Context, orgID, actorID, id, rejectionReason string) (LeaveResponse, error)
	Cancel(ctx context.Context, orgID, actorID, id string) (LeaveResponse, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository) Service {
	return &service{db: db, repo: repo, logger: zap.L().Named("leave.service")}
}

func (s *service) Create(ctx context.Context, orgID, actorID string, req CreateLeaveRequest) (LeaveResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	orgUUID, err := uuid.Parse(orgID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidOrgID
	}
	createdByUUID, err := uuid.Parse(actorID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidActorID
	}
	employeeUUID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidEmployeeID
	}
	if req.LeaveType != TypePaid && req.LeaveType != TypeUnpaid {
		return LeaveResponse{}, leaveerrors.ErrInvalidLeaveType
	}

	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return LeaveResponse{}, err
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		return LeaveResponse{}, err
	}
	if startDate.After(endDate) {
		return LeaveResponse{}, leaveerrors.ErrInvalidDateRange
	}

	overlap, err := qtx.HasOverlappingPeriod(ctx, orgID, req.EmployeeID, startDate, endDate, nil)
	if err != nil {
		s.logger.Error("create leave overlap check failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	if overlap {
		return LeaveResponse{}, leaveerrors.ErrLeaveOverlap
	}

	totalDays := int(endDate.Sub(startDate).Hours()/24) + 1
	l := &Leave{
		ID:         uuid.New(),
		OrgID:      orgUUID,
		EmployeeID: employeeUUID,
		LeaveType:  req.LeaveType,
		StartDate:  startDate,
		EndDate:    endDate,
		TotalDays:  totalDays,
		Reason:     req.Reason,
		Status:     StatusPending,
		CreatedBy:  createdByUUID,
	}

	if err := qtx.Create(ctx, l); err != nil {
		s.logger.Error("create leave persist failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create leave commit failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	s.logger.Info("create leave success",
		zap.String("leave_id", l.ID.String()),
		zap.String("org_id", orgID),
		zap.String("employee_id", req.EmployeeID),
		zap.String("leave_type", req.LeaveType),
	)

	return mapToResponse(*l), nil
}

func (s *service) GetAll(ctx context.Context, orgID string) ([]LeaveResponse, error) {
	leaves, err := s.repo.FindAllByOrg(ctx, orgID)
	if err != nil {
		return nil, err
	}
	resp := make([]LeaveResponse, len(leaves))
	for i, l := range leaves {
		resp[i] = mapToResponse(l)
	}
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, orgID, id string) (LeaveResponse, error) {
	l, err := s.repo.FindByIDAndOrg(ctx, orgID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
		}
		return LeaveResponse{}, err
	}
	return mapToResponse(*l), nil
}

func (s *service) Submit(ctx context.Context, orgID, actorID, id string) (LeaveResponse, error) {
	return s.transitionLeaveStatus(ctx, orgID, actorID, id, StatusSubmitted, nil)
}

func (s *service) Approve(ctx context.Context, orgID, actorID, id string) (LeaveResponse, error) {
	return s.transitionLeaveStatus(ctx, orgID, actorID, id, StatusApproved, nil)
}

func (s *service) Reject(ctx context.Context, orgID, actorID, id, rejectionReason string) (LeaveResponse, error) {
	return s.transitionLeaveStatus(ctx, orgID, actorID, id, StatusRejected, &rejectionReason)
}

func (s *service) Cancel(ctx context.Context, orgID, actorID, id string) (LeaveResponse, error) {
	return s.transitionLeaveStatus(ctx, orgID, actorID, id, StatusCanceled, nil)
}

func isAllowedStatusTransition(currentStatus, targetStatus string) bool {
	if currentStatus == targetStatus {
		return currentStatus == StatusPending
	}

	switch currentStatus {
	case StatusPending:
		return targetStatus == StatusSubmitted || targetStatus == StatusCanceled
	case StatusSubmitted:
		return targetStatus == StatusApproved || targetStatus == StatusRejected
	default:
		return false
	}
}

func (s *service) transitionLeaveStatus(ctx context.Context, orgID, actorID, id, targetStatus string, rejectionReason *string) (LeaveResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("transition leave status begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if _, err = uuid.Parse(orgID); err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidOrgID
	}
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidActorID
	}

	l, err := qtx.FindByIDAndOrg(ctx, orgID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
		}
		return LeaveResponse{}, err
	}
	if !isAllowedStatusTransition(l.Status, targetStatus) {
		s.logger.Warn("transition leave status invalid",
			zap.String("leave_id", id),
			zap.String("from_status", l.Status),
			zap.String("to_status", targetStatus),
		)
		return LeaveResponse{}, leaveerrors.ErrInvalidStatusTransition
	}

	l.Status = targetStatus
	switch targetStatus {
	case StatusApproved:
		l.ApprovedBy = &actorUUID
		now := time.Now().UTC()
		l.ApprovedAt = &now
		l.RejectionReason = nil
	case StatusRejected:
		if rejectionReason == nil || *rejectionReason == "" {
			return LeaveResponse{}, leaveerrors.ErrRejectionReasonRequired
		}
		l.ApprovedBy = nil
		l.ApprovedAt = nil
		l.RejectionReason = rejectionReason
	default:
		l.ApprovedBy = nil
		l.ApprovedAt = nil
		l.RejectionReason = nil
	}

	if err := qtx.Update(ctx, l); err != nil {
		s.logger.Error("transition leave status persist failed",
			zap.String("leave_id", id),
			zap.String("target_status", targetStatus),
			zap.Error(err),
		)
		return LeaveResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("transition leave status commit failed",
			zap.String("leave_id", id),
			zap.Error(err),
		)
		return LeaveResponse{}, err
	}
	s.logger.Info("transition leave status success",
		zap.String("leave_id", id),
		zap.String("status", targetStatus),
	)
	return mapToResponse(*l), nil
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, leaveerrors.ErrInvalidDateFormat
	}
	return t, nil
}

func mapToResponse(l Leave) LeaveResponse {
	resp := LeaveResponse{
		ID:         l.ID.String(),
		OrgID:      l.OrgID.String(),
		EmployeeID: l.EmployeeID.String(),
		LeaveType:  l.LeaveType,
		StartDate:  l.StartDate.Format("2006-01-02"),
		EndDate:    l.EndDate.Format("2006-01-02"),
		TotalDays:  l.TotalDays,
		Reason:     l.Reason,
		Status:     l.Status,
		CreatedBy:  l.CreatedBy.String(),
	}
	if l.ApprovedBy != nil {
		v := l.ApprovedBy.String()
		resp.ApprovedBy = &v
	}
	if l.ApprovedAt != nil {
		v := l.ApprovedAt.Format(time.RFC3339)
		resp.ApprovedAt = &v
	}
	resp.RejectionReason = l.RejectionReason
	return resp
}
