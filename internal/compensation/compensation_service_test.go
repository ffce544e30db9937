package compensation_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"go-payroll/internal/compensation"
	compensationerrors "go-payroll/internal/compensation/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeCompensationRepository struct {
	withTxFn                func(tx *sql.Tx) compensation.Repository
	createFn                func(ctx context.Context, structure *compensation.Structure) error
	findAllByOrgFn          func(ctx context.Context, orgID string) ([]compensation.Structure, error)
	findByIDAndOrgFn        func(ctx context.Context, orgID string, id string) (*compensation.Structure, error)
	findActiveByEmployeeFn  func(ctx context.Context, orgID string, employeeID string, asOf time.Time) (*compensation.Structure, error)
	listActiveEmployeeIDsFn func(ctx context.Context, orgID string, asOf time.Time) ([]string, error)
	closeStructureFn        func(ctx context.Context, orgID string, id string, effectiveTo time.Time) error
	hasOverlappingRangeFn   func(ctx context.Context, orgID string, employeeID string, from time.Time, to *time.Time, excludeID *string) (bool, error)
}

func (f *fakeCompensationRepository) WithTx(tx *sql.Tx) compensation.Repository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}

func (f *fakeCompensationRepository) Create(ctx context.Context, structure *compensation.Structure) error {
	if f.createFn != nil {
		return f.createFn(ctx, structure)
	}
	return nil
}

func (f *fakeCompensationRepository) FindAllByOrg(ctx context.Context, orgID string) ([]compensation.Structure, error) {
	if f.findAllByOrgFn != nil {
		return f.findAllByOrgFn(ctx, orgID)
	}
	return nil, nil
}

func (f *fakeCompensationRepository) FindByIDAndOrg(ctx context.Context, orgID string, id string) (*compensation.Structure, error) {
	if f.findByIDAndOrgFn != nil {
		return f.findByIDAndOrgFn(ctx, orgID, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeCompensationRepository) FindActiveByEmployee(ctx context.Context, orgID string, employeeID string, asOf time.Time) (*compensation.Structure, error) {
	if f.findActiveByEmployeeFn != nil {
		return f.findActiveByEmployeeFn(ctx, orgID, employeeID, asOf)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeCompensationRepository) ListActiveEmployeeIDs(ctx context.Context, orgID string, asOf time.Time) ([]string, error) {
	if f.listActiveEmployeeIDsFn != nil {
		return f.listActiveEmployeeIDsFn(ctx, orgID, asOf)
	}
	return nil, nil
}

func (f *fakeCompensationRepository) CloseStructure(ctx context.Context, orgID string, id string, effectiveTo time.Time) error {
	if f.closeStructureFn != nil {
		return f.closeStructureFn(ctx, orgID, id, effectiveTo)
	}
	return nil
}

func (f *fakeCompensationRepository) HasOverlappingRange(ctx context.Context, orgID string, employeeID string, from time.Time, to *time.Time, excludeID *string) (bool, error) {
	if f.hasOverlappingRangeFn != nil {
		return f.hasOverlappingRangeFn(ctx, orgID, employeeID, from, to, excludeID)
	}
	return false, nil
}

type compensationServiceDeps struct {
	db      *sql.DB
	sqlMock sqlmock.Sqlmock
	service compensation.Service
	repo    *fakeCompensationRepository
}

func setupCompensationServiceTest(t *testing.T) *compensationServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	repo := &fakeCompensationRepository{}
	svc := compensation.NewService(db, repo)

	return &compensationServiceDeps{db: db, sqlMock: sqlMock, service: svc, repo: repo}
}

func TestCompensationService_Create_SupersedesActiveStructure(t *testing.T) {
	ctx := context.Background()
	orgID := uuid.New().String()
	actorID := uuid.New().String()
	employeeID := uuid.New().String()

	deps := setupCompensationServiceTest(t)
	defer deps.db.Close()

	deps.sqlMock.ExpectBegin()
	deps.sqlMock.ExpectCommit()

	currentID := uuid.New()
	closed := false
	deps.repo.findActiveByEmployeeFn = func(ctx context.Context, o, e string, asOf time.Time) (*compensation.Structure, error) {
		return &compensation.Structure{
			ID:            currentID,
			EmployeeID:    uuid.MustParse(employeeID),
			Revision:      2,
			EffectiveFrom: time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
		}, nil
	}
	deps.repo.closeStructureFn = func(ctx context.Context, o, id string, effectiveTo time.Time) error {
		closed = true
		assert.Equal(t, currentID.String(), id)
		assert.Equal(t, "2026-03-31", effectiveTo.Format("2006-01-02"))
		return nil
	}

	resp, err := deps.service.Create(ctx, orgID, actorID, compensation.CreateStructureRequest{
		EmployeeID:    employeeID,
		AnnualCTC:     1200000,
		EffectiveFrom: "2026-04-01",
		Components: []compensation.ComponentInput{
			{Name: "Basic", Kind: compensation.ComponentKindEarning, AnnualAmount: 600000, Taxable: true},
			{Name: "PF", Kind: compensation.ComponentKindDeduction, AnnualAmount: 21600},
		},
	})

	assert.NoError(t, err)
	assert.True(t, closed)
	assert.Equal(t, 3, resp.Revision)
	assert.Len(t, resp.Components, 2)
	assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
}

func TestCompensationService_Create_RejectsBadComponentKind(t *testing.T) {
	ctx := context.Background()

	deps := setupCompensationServiceTest(t)
	defer deps.db.Close()

	deps.sqlMock.ExpectBegin()
	deps.sqlMock.ExpectRollback()

	_, err := deps.service.Create(ctx, uuid.New().String(), uuid.New().String(), compensation.CreateStructureRequest{
		EmployeeID:    uuid.New().String(),
		AnnualCTC:     1200000,
		EffectiveFrom: "2026-04-01",
		Components: []compensation.ComponentInput{
			{Name: "Basic", Kind: "BONUS", AnnualAmount: 600000},
		},
	})

	assert.ErrorIs(t, err, compensationerrors.ErrInvalidComponentKind)
	assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
}

func TestCompensationService_ResolveActive_NoStructure(t *testing.T) {
	ctx := context.Background()

	deps := setupCompensationServiceTest(t)
	defer deps.db.Close()

	_, err := deps.service.ResolveActive(ctx, uuid.New().String(), uuid.New().String(), time.Now())

	assert.ErrorIs(t, err, compensationerrors.ErrNoActiveStructure)
}

func TestCompensationService_ResolveActive_OrdersComponents(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	deps := setupCompensationServiceTest(t)
	defer deps.db.Close()

	deps.repo.findActiveByEmployeeFn = func(ctx context.Context, o, e string, asOf time.Time) (*compensation.Structure, error) {
		return &compensation.Structure{
			ID: uuid.New(),
			Components: []compensation.Component{
				{Name: "HRA", DisplayOrder: 2, CreatedAt: base},
				{Name: "Basic", DisplayOrder: 1, CreatedAt: base},
				{Name: "Special", DisplayOrder: 2, CreatedAt: base.Add(-time.Hour)},
			},
		}, nil
	}

	structure, err := deps.service.ResolveActive(ctx, uuid.New().String(), uuid.New().String(), time.Now())

	assert.NoError(t, err)
	names := []string{structure.Components[0].Name, structure.Components[1].Name, structure.Components[2].Name}
	assert.Equal(t, []string{"Basic", "Special", "HRA"}, names)
}
