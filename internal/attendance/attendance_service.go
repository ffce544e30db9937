package attendance

import (
	"context"
	"database/sql"
	"time"

	attendanceerrors "go-payroll/internal/attendance/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

//go:generate mockgen -source=attendance_service.go -destination=mock/attendance_service_mock.go -package=mock
type Service interface {
	Mark(ctx context.Context, orgID, actorID string, req MarkAttendanceRequest) (AttendanceResponse, error)
	GetForEmployee(ctx context.Context, orgID, employeeID, from, to string) ([]AttendanceResponse, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository) Service {
	return &service{db: db, repo: repo, logger: zap.L().Named("attendance.service")}
}

func (s *service) Mark(ctx context.Context, orgID, actorID string, req MarkAttendanceRequest) (AttendanceResponse, error) {
	orgUUID, err := uuid.Parse(orgID)
	if err != nil {
		return AttendanceResponse{}, attendanceerrors.ErrInvalidOrgID
	}
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return AttendanceResponse{}, attendanceerrors.ErrInvalidActorID
	}
	employeeUUID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return AttendanceResponse{}, attendanceerrors.ErrInvalidEmployeeID
	}
	if req.Status != StatusPresent && req.Status != StatusAbsent && req.Status != StatusHalfDay {
		return AttendanceResponse{}, attendanceerrors.ErrInvalidStatus
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return AttendanceResponse{}, attendanceerrors.ErrInvalidDateFormat
	}

	row := &Attendance{
		ID:         uuid.New(),
		OrgID:      orgUUID,
		EmployeeID: employeeUUID,
		Date:       date,
		Status:     req.Status,
		Note:       req.Note,
		RecordedBy: actorUUID,
	}
	if err := s.repo.Upsert(ctx, row); err != nil {
		s.logger.Error("mark attendance persist failed", zap.Error(err))
		return AttendanceResponse{}, err
	}

	s.logger.Info("mark attendance success",
		zap.String("org_id", orgID),
		zap.String("employee_id", req.EmployeeID),
		zap.String("date", req.Date),
		zap.String("status", req.Status),
	)
	return mapToResponse(*row), nil
}

func (s *service) GetForEmployee(ctx context.Context, orgID, employeeID, from, to string) ([]AttendanceResponse, error) {
	if _, err := uuid.Parse(orgID); err != nil {
		return nil, attendanceerrors.ErrInvalidOrgID
	}
	if _, err := uuid.Parse(employeeID); err != nil {
		return nil, attendanceerrors.ErrInvalidEmployeeID
	}
	fromDate, err := time.Parse("2006-01-02", from)
	if err != nil {
		return nil, attendanceerrors.ErrInvalidDateFormat
	}
	toDate, err := time.Parse("2006-01-02", to)
	if err != nil {
		return nil, attendanceerrors.ErrInvalidDateFormat
	}
	if fromDate.After(toDate) {
		return nil, attendanceerrors.ErrInvalidPeriod
	}

	rows, err := s.repo.FindByEmployeeAndPeriod(ctx, orgID, employeeID, fromDate, toDate)
	if err != nil {
		return nil, err
	}
	resp := make([]AttendanceResponse, len(rows))
	for i, row := range rows {
		resp[i] = mapToResponse(row)
	}
	return resp, nil
}

func mapToResponse(a Attendance) AttendanceResponse {
	return AttendanceResponse{
		ID:         a.ID.String(),
		OrgID:      a.OrgID.String(),
		EmployeeID: a.EmployeeID.String(),
		Date:       a.Date.Format("2006-01-02"),
		Status:     a.Status,
		Note:       a.Note,
		RecordedBy: a.RecordedBy.String(),
	}
}
