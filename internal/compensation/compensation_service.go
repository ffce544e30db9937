package compensation

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"time"

	compensationerrors "go-payroll/internal/compensation/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=compensation_service.go -destination=mock/compensation_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, orgID, actorID string, req CreateStructureRequest) (StructureResponse, error)
	GetAll(ctx context.Context, orgID string) ([]StructureResponse, error)
	GetByID(ctx context.Context, orgID, id string) (StructureResponse, error)
	// ResolveActive returns the one structure effective for the employee on
	// asOf, or ErrNoActiveStructure. Callers exclude the employee from the
	// run on that condition instead of failing.
	ResolveActive(ctx context.Context, orgID, employeeID string, asOf time.Time) (*Structure, error)
	ListActiveEmployeeIDs(ctx context.Context, orgID string, asOf time.Time) ([]string, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository) Service {
	return &service{db: db, repo: repo, logger: zap.L().Named("compensation.service")}
}

func (s *service) Create(ctx context.Context, orgID, actorID string, req CreateStructureRequest) (StructureResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return StructureResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	orgUUID, err := uuid.Parse(orgID)
	if err != nil {
		return StructureResponse{}, compensationerrors.ErrInvalidOrgID
	}
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return StructureResponse{}, compensationerrors.ErrInvalidActorID
	}
	employeeUUID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return StructureResponse{}, compensationerrors.ErrInvalidEmployeeID
	}

	effectiveFrom, err := parseDate(req.EffectiveFrom)
	if err != nil {
		return StructureResponse{}, err
	}
	var effectiveTo *time.Time
	if req.EffectiveTo != nil && *req.EffectiveTo != "" {
		t, err := parseDate(*req.EffectiveTo)
		if err != nil {
			return StructureResponse{}, err
		}
		if effectiveFrom.After(t) {
			return StructureResponse{}, compensationerrors.ErrInvalidEffectiveRange
		}
		effectiveTo = &t
	}

	for _, c := range req.Components {
		if c.Kind != ComponentKindEarning && c.Kind != ComponentKindDeduction {
			return StructureResponse{}, compensationerrors.ErrInvalidComponentKind
		}
	}

	revision := 1

	// a new structure supersedes the currently active one: close it the
	// day before the new effective_from and carry the revision forward
	current, err := qtx.FindActiveByEmployee(ctx, orgID, req.EmployeeID, effectiveFrom)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return StructureResponse{}, err
	}
	if err == nil {
		closeDate := effectiveFrom.AddDate(0, 0, -1)
		if !current.EffectiveFrom.Before(effectiveFrom) {
			return StructureResponse{}, compensationerrors.ErrStructureOverlap
		}
		if err := qtx.CloseStructure(ctx, orgID, current.ID.String(), closeDate); err != nil {
			return StructureResponse{}, err
		}
		revision = current.Revision + 1
	}

	overlap, err := qtx.HasOverlappingRange(ctx, orgID, req.EmployeeID, effectiveFrom, effectiveTo, nil)
	if err != nil {
		return StructureResponse{}, err
	}
	if overlap {
		return StructureResponse{}, compensationerrors.ErrStructureOverlap
	}

	structure := &Structure{
		ID:            uuid.New(),
		OrgID:         orgUUID,
		EmployeeID:    employeeUUID,
		AnnualCTC:     req.AnnualCTC,
		EffectiveFrom: effectiveFrom,
		EffectiveTo:   effectiveTo,
		Active:        true,
		Revision:      revision,
		CreatedBy:     actorUUID,
	}
	for i, c := range req.Components {
		structure.Components = append(structure.Components, Component{
			ID:           uuid.New(),
			StructureID:  structure.ID,
			OrgID:        orgUUID,
			Name:         c.Name,
			Kind:         c.Kind,
			AnnualAmount: c.AnnualAmount,
			PctOfBasic:   c.PctOfBasic,
			Taxable:      c.Taxable,
			DisplayOrder: orDefaultOrder(c.DisplayOrder, i),
		})
	}

	if err := qtx.Create(ctx, structure); err != nil {
		s.logger.Error("create structure persist failed", zap.Error(err))
		return StructureResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return StructureResponse{}, err
	}

	s.logger.Info("compensation structure created",
		zap.String("structure_id", structure.ID.String()),
		zap.String("org_id", orgID),
		zap.String("employee_id", req.EmployeeID),
		zap.Int("revision", revision),
	)

	return mapToResponse(*structure), nil
}

func (s *service) GetAll(ctx context.Context, orgID string) ([]StructureResponse, error) {
	structures, err := s.repo.FindAllByOrg(ctx, orgID)
	if err != nil {
		return nil, err
	}

	resp := make([]StructureResponse, len(structures))
	for i, st := range structures {
		resp[i] = mapToResponse(st)
	}
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, orgID, id string) (StructureResponse, error) {
	structure, err := s.repo.FindByIDAndOrg(ctx, orgID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return StructureResponse{}, compensationerrors.ErrStructureNotFound
		}
		return StructureResponse{}, err
	}
	return mapToResponse(*structure), nil
}

func (s *service) ResolveActive(ctx context.Context, orgID, employeeID string, asOf time.Time) (*Structure, error) {
	structure, err := s.repo.FindActiveByEmployee(ctx, orgID, employeeID, asOf)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, compensationerrors.ErrNoActiveStructure
		}
		return nil, err
	}

	SortComponents(structure.Components)
	return structure, nil
}

func (s *service) ListActiveEmployeeIDs(ctx context.Context, orgID string, asOf time.Time) ([]string, error) {
	return s.repo.ListActiveEmployeeIDs(ctx, orgID, asOf)
}

// SortComponents orders components by display order, falling back to
// creation time so equal orders stay deterministic.
func SortComponents(components []Component) {
	sort.SliceStable(components, func(i, j int) bool {
		if components[i].DisplayOrder != components[j].DisplayOrder {
			return components[i].DisplayOrder < components[j].DisplayOrder
		}
		return components[i].CreatedAt.Before(components[j].CreatedAt)
	})
}

func orDefaultOrder(order, index int) int {
	if order != 0 {
		return order
	}
	return index
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, compensationerrors.ErrInvalidDateFormat
	}
	return t, nil
}

func mapToResponse(structure Structure) StructureResponse {
	resp := StructureResponse{
		ID:            structure.ID.String(),
		OrgID:         structure.OrgID.String(),
		EmployeeID:    structure.EmployeeID.String(),
		AnnualCTC:     structure.AnnualCTC,
		EffectiveFrom: structure.EffectiveFrom.Format("2006-01-02"),
		Active:        structure.Active,
		Revision:      structure.Revision,
	}
	if structure.EffectiveTo != nil {
		v := structure.EffectiveTo.Format("2006-01-02")
		resp.EffectiveTo = &v
	}
	for _, c := range structure.Components {
		resp.Components = append(resp.Components, ComponentResponse{
			ID:           c.ID.String(),
			Name:         c.Name,
			Kind:         c.Kind,
			AnnualAmount: c.AnnualAmount,
			PctOfBasic:   c.PctOfBasic,
			Taxable:      c.Taxable,
			DisplayOrder: c.DisplayOrder,
		})
	}
	return resp
}
