package payroll_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"go-payroll/internal/absence"
	"go-payroll/internal/compensation"
	compensationerrors "go-payroll/internal/compensation/errors"
	"go-payroll/internal/employee"
	"go-payroll/internal/events"
	"go-payroll/internal/messaging/kafka"
	"go-payroll/internal/payroll"
	payrollerrors "go-payroll/internal/payroll/errors"
	"go-payroll/internal/tax"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakePayrollRepository struct {
	createRunFn                func(ctx context.Context, run *payroll.PayrollRun) error
	updateRunFn                func(ctx context.Context, run *payroll.PayrollRun) error
	findRunByIDAndOrgFn        func(ctx context.Context, orgID, id string) (*payroll.PayrollRun, error)
	findRunByPeriodFn          func(ctx context.Context, orgID, period string) (*payroll.PayrollRun, error)
	findAllRunsByOrgFn         func(ctx context.Context, orgID string) ([]payroll.PayrollRun, error)
	createAnomaliesFn          func(ctx context.Context, anomalies []payroll.RunAnomaly) error
	createEntriesFn            func(ctx context.Context, entries []payroll.PayrollEntry) error
	createEntryFn              func(ctx context.Context, entry *payroll.PayrollEntry) error
	updateEntryFn              func(ctx context.Context, entry *payroll.PayrollEntry) error
	findEntryByIDAndOrgFn      func(ctx context.Context, orgID, id string) (*payroll.PayrollEntry, error)
	findEntriesByRunFn         func(ctx context.Context, orgID, runID string) ([]payroll.PayrollEntry, error)
	findActiveEntriesByRunFn   func(ctx context.Context, orgID, runID string) ([]payroll.PayrollEntry, error)
	updateEntryStatusCASFn     func(ctx context.Context, orgID, id, fromStatus, toStatus string) (bool, error)
	updateEntryStatusesByRunFn func(ctx context.Context, orgID, runID, toStatus string) error
	sumWithheldTaxFn           func(ctx context.Context, orgID, employeeID string, periods []string) (int64, error)
}

func (f *fakePayrollRepository) WithTx(tx *sql.Tx) payroll.Repository { return f }

func (f *fakePayrollRepository) CreateRun(ctx context.Context, run *payroll.PayrollRun) error {
	if f.createRunFn != nil {
		return f.createRunFn(ctx, run)
	}
	return nil
}

func (f *fakePayrollRepository) UpdateRun(ctx context.Context, run *payroll.PayrollRun) error {
	if f.updateRunFn != nil {
		return f.updateRunFn(ctx, run)
	}
	return nil
}

func (f *fakePayrollRepository) FindRunByIDAndOrg(ctx context.Context, orgID, id string) (*payroll.PayrollRun, error) {
	if f.findRunByIDAndOrgFn != nil {
		return f.findRunByIDAndOrgFn(ctx, orgID, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakePayrollRepository) FindRunByPeriod(ctx context.Context, orgID, period string) (*payroll.PayrollRun, error) {
	if f.findRunByPeriodFn != nil {
		return f.findRunByPeriodFn(ctx, orgID, period)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakePayrollRepository) FindAllRunsByOrg(ctx context.Context, orgID string) ([]payroll.PayrollRun, error) {
	if f.findAllRunsByOrgFn != nil {
		return f.findAllRunsByOrgFn(ctx, orgID)
	}
	return nil, nil
}

func (f *fakePayrollRepository) CreateAnomalies(ctx context.Context, anomalies []payroll.RunAnomaly) error {
	if f.createAnomaliesFn != nil {
		return f.createAnomaliesFn(ctx, anomalies)
	}
	return nil
}

func (f *fakePayrollRepository) CreateEntries(ctx context.Context, entries []payroll.PayrollEntry) error {
	if f.createEntriesFn != nil {
		return f.createEntriesFn(ctx, entries)
	}
	return nil
}

func (f *fakePayrollRepository) CreateEntry(ctx context.Context, entry *payroll.PayrollEntry) error {
	if f.createEntryFn != nil {
		return f.createEntryFn(ctx, entry)
	}
	return nil
}

func (f *fakePayrollRepository) UpdateEntry(ctx context.Context, entry *payroll.PayrollEntry) error {
	if f.updateEntryFn != nil {
		return f.updateEntryFn(ctx, entry)
	}
	return nil
}

func (f *fakePayrollRepository) FindEntryByIDAndOrg(ctx context.Context, orgID, id string) (*payroll.PayrollEntry, error) {
	if f.findEntryByIDAndOrgFn != nil {
		return f.findEntryByIDAndOrgFn(ctx, orgID, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakePayrollRepository) FindEntriesByRun(ctx context.Context, orgID, runID string) ([]payroll.PayrollEntry, error) {
	if f.findEntriesByRunFn != nil {
		return f.findEntriesByRunFn(ctx, orgID, runID)
	}
	return nil, nil
}

func (f *fakePayrollRepository) FindActiveEntriesByRun(ctx context.Context, orgID, runID string) ([]payroll.PayrollEntry, error) {
	if f.findActiveEntriesByRunFn != nil {
		return f.findActiveEntriesByRunFn(ctx, orgID, runID)
	}
	return nil, nil
}

func (f *fakePayrollRepository) UpdateEntryStatusCAS(ctx context.Context, orgID, id, fromStatus, toStatus string) (bool, error) {
	if f.updateEntryStatusCASFn != nil {
		return f.updateEntryStatusCASFn(ctx, orgID, id, fromStatus, toStatus)
	}
	return true, nil
}

func (f *fakePayrollRepository) UpdateEntryStatusesByRun(ctx context.Context, orgID, runID, toStatus string) error {
	if f.updateEntryStatusesByRunFn != nil {
		return f.updateEntryStatusesByRunFn(ctx, orgID, runID, toStatus)
	}
	return nil
}

func (f *fakePayrollRepository) SumWithheldTaxForEmployee(ctx context.Context, orgID, employeeID string, periods []string) (int64, error) {
	if f.sumWithheldTaxFn != nil {
		return f.sumWithheldTaxFn(ctx, orgID, employeeID, periods)
	}
	return 0, nil
}

type fakeCompensationResolver struct {
	resolveActiveFn func(ctx context.Context, orgID, employeeID string, asOf time.Time) (*compensation.Structure, error)
	listActiveFn    func(ctx context.Context, orgID string, asOf time.Time) ([]string, error)
}

func (f *fakeCompensationResolver) ResolveActive(ctx context.Context, orgID, employeeID string, asOf time.Time) (*compensation.Structure, error) {
	if f.resolveActiveFn != nil {
		return f.resolveActiveFn(ctx, orgID, employeeID, asOf)
	}
	return nil, compensationerrors.ErrNoActiveStructure
}

func (f *fakeCompensationResolver) ListActiveEmployeeIDs(ctx context.Context, orgID string, asOf time.Time) ([]string, error) {
	if f.listActiveFn != nil {
		return f.listActiveFn(ctx, orgID, asOf)
	}
	return nil, nil
}

type fakeAbsenceResolver struct {
	resolveFn func(ctx context.Context, orgID, employeeID string, periodStart, periodEnd time.Time) (absence.AbsenceSummary, error)
}

func (f *fakeAbsenceResolver) Resolve(ctx context.Context, orgID, employeeID string, periodStart, periodEnd time.Time) (absence.AbsenceSummary, error) {
	if f.resolveFn != nil {
		return f.resolveFn(ctx, orgID, employeeID, periodStart, periodEnd)
	}
	return absence.AbsenceSummary{}, nil
}

type fakeWithholdingComputer struct {
	computeFn func(ctx context.Context, orgID, employeeID string, period time.Time, annualGross, withheldSoFar int64) (tax.WithholdingResult, error)
}

func (f *fakeWithholdingComputer) ComputeForEmployee(ctx context.Context, orgID, employeeID string, period time.Time, annualGross, withheldSoFar int64) (tax.WithholdingResult, error) {
	if f.computeFn != nil {
		return f.computeFn(ctx, orgID, employeeID, period, annualGross, withheldSoFar)
	}
	return tax.WithholdingResult{}, nil
}

type fakeEmployeeDirectory struct {
	findByIDsFn func(ctx context.Context, orgID string, ids []string) (map[string]employee.Employee, error)
}

func (f *fakeEmployeeDirectory) FindByIDAndOrg(ctx context.Context, orgID, id string) (*employee.Employee, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeEmployeeDirectory) FindByIDs(ctx context.Context, orgID string, ids []string) (map[string]employee.Employee, error) {
	if f.findByIDsFn != nil {
		return f.findByIDsFn(ctx, orgID, ids)
	}
	return map[string]employee.Employee{}, nil
}

type fakeOutboxRepository struct {
	events []kafka.OutboxEvent
}

func (f *fakeOutboxRepository) WithTx(tx *sql.Tx) kafka.OutboxRepository { return f }

func (f *fakeOutboxRepository) Create(ctx context.Context, event kafka.OutboxEvent) error {
	f.events = append(f.events, event)
	return nil
}

func (f *fakeOutboxRepository) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return nil, nil
}

func (f *fakeOutboxRepository) MarkSent(ctx context.Context, id string) error { return nil }
func (f *fakeOutboxRepository) MarkFailed(ctx context.Context, id, _ string) error {
	return nil
}

type fakeEntryLocker struct {
	acquireFn func(key string) (bool, error)
	released  []string
}

func (f *fakeEntryLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	if f.acquireFn != nil {
		return f.acquireFn(key)
	}
	return true, nil
}

func (f *fakeEntryLocker) Release(ctx context.Context, key string) {
	f.released = append(f.released, key)
}

type payrollServiceDeps struct {
	db           *sql.DB
	sqlMock      sqlmock.Sqlmock
	service      payroll.Service
	repo         *fakePayrollRepository
	compensation *fakeCompensationResolver
	absence      *fakeAbsenceResolver
	tax          *fakeWithholdingComputer
	employees    *fakeEmployeeDirectory
	outbox       *fakeOutboxRepository
	locker       *fakeEntryLocker
}

func setupPayrollServiceTest(t *testing.T) *payrollServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	deps := &payrollServiceDeps{
		db:           db,
		sqlMock:      sqlMock,
		repo:         &fakePayrollRepository{},
		compensation: &fakeCompensationResolver{},
		absence:      &fakeAbsenceResolver{},
		tax:          &fakeWithholdingComputer{},
		employees:    &fakeEmployeeDirectory{},
		outbox:       &fakeOutboxRepository{},
		locker:       &fakeEntryLocker{},
	}
	deps.service = payroll.NewService(
		db, deps.repo, deps.compensation, deps.absence, deps.tax,
		deps.employees, deps.outbox, deps.locker,
	)
	return deps
}

func testStructure(employeeID string) *compensation.Structure {
	return &compensation.Structure{
		ID:         uuid.New(),
		EmployeeID: uuid.MustParse(employeeID),
		AnnualCTC:  871600,
		Components: []compensation.Component{
			{Name: "Basic", Kind: compensation.ComponentKindEarning, AnnualAmount: 600000, Taxable: true, DisplayOrder: 1},
			{Name: "HRA", Kind: compensation.ComponentKindEarning, AnnualAmount: 250000, Taxable: true, DisplayOrder: 2},
			{Name: "PF", Kind: compensation.ComponentKindDeduction, AnnualAmount: 21600, DisplayOrder: 3},
		},
	}
}

func TestGenerateRun_TotalsEqualSumOfEntries(t *testing.T) {
	ctx := context.Background()
	orgID := uuid.New().String()
	actorID := uuid.New().String()
	empA := uuid.New().String()
	empB := uuid.New().String()

	deps := setupPayrollServiceTest(t)
	defer deps.db.Close()

	deps.sqlMock.ExpectBegin()
	deps.sqlMock.ExpectCommit()

	deps.compensation.listActiveFn = func(ctx context.Context, o string, asOf time.Time) ([]string, error) {
		return []string{empA, empB}, nil
	}
	deps.compensation.resolveActiveFn = func(ctx context.Context, o, e string, asOf time.Time) (*compensation.Structure, error) {
		return testStructure(e), nil
	}
	deps.absence.resolveFn = func(ctx context.Context, o, e string, s, en time.Time) (absence.AbsenceSummary, error) {
		if e == empB {
			return absence.AbsenceSummary{Count: 2}, nil
		}
		return absence.AbsenceSummary{}, nil
	}
	deps.tax.computeFn = func(ctx context.Context, o, e string, p time.Time, gross, withheld int64) (tax.WithholdingResult, error) {
		return tax.WithholdingResult{PeriodWithholding: 4550}, nil
	}

	var persisted []payroll.PayrollEntry
	deps.repo.createEntriesFn = func(ctx context.Context, entries []payroll.PayrollEntry) error {
		persisted = entries
		return nil
	}

	resp, err := deps.service.GenerateRun(ctx, orgID, actorID, payroll.GenerateRunRequest{Period: "2026-01"})

	assert.NoError(t, err)
	assert.Equal(t, payroll.RunStatusCompleted, resp.Status)
	assert.Equal(t, 2, resp.EmployeeCount)
	assert.Len(t, persisted, 2)

	var gross, deductions, net int64
	for _, entry := range persisted {
		assert.Equal(t, entry.WorkingDays, entry.PaidDays+entry.LwpDays)
		assert.Equal(t, entry.BaseDeductions+entry.TaxWithheld, entry.TotalDeductions)
		assert.Equal(t, entry.GrossEarnings-entry.TotalDeductions, entry.NetPay)
		gross += entry.GrossEarnings
		deductions += entry.TotalDeductions
		net += entry.NetPay
	}
	assert.Equal(t, gross, resp.TotalGross)
	assert.Equal(t, deductions, resp.TotalDeductions)
	assert.Equal(t, net, resp.TotalNet)

	// One lifecycle event written through the outbox in the same tx.
	assert.Len(t, deps.outbox.events, 1)
	assert.Equal(t, events.PayrollRunLifecycleTopic, deps.outbox.events[0].Topic)
	assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
}

func TestGenerateRun_DuplicatePeriod(t *testing.T) {
	ctx := context.Background()

	deps := setupPayrollServiceTest(t)
	defer deps.db.Close()

	deps.repo.createRunFn = func(ctx context.Context, run *payroll.PayrollRun) error {
		return gorm.ErrDuplicatedKey
	}

	_, err := deps.service.GenerateRun(ctx, uuid.New().String(), uuid.New().String(), payroll.GenerateRunRequest{Period: "2026-01"})

	assert.ErrorIs(t, err, payrollerrors.ErrDuplicateRun)
}

func TestGenerateRun_DuplicatePeriodRawPgError(t *testing.T) {
	ctx := context.Background()

	deps := setupPayrollServiceTest(t)
	defer deps.db.Close()

	deps.repo.createRunFn = func(ctx context.Context, run *payroll.PayrollRun) error {
		return &pgconn.PgError{Code: "23505", ConstraintName: "uq_payroll_runs_org_period"}
	}

	_, err := deps.service.GenerateRun(ctx, uuid.New().String(), uuid.New().String(), payroll.GenerateRunRequest{Period: "2026-01"})

	assert.ErrorIs(t, err, payrollerrors.ErrDuplicateRun)
}

func TestGenerateRun_EmptyPopulationCompletes(t *testing.T) {
	ctx := context.Background()

	deps := setupPayrollServiceTest(t)
	defer deps.db.Close()

	deps.sqlMock.ExpectBegin()
	deps.sqlMock.ExpectCommit()

	resp, err := deps.service.GenerateRun(ctx, uuid.New().String(), uuid.New().String(), payroll.GenerateRunRequest{Period: "2026-01"})

	assert.NoError(t, err)
	assert.Equal(t, payroll.RunStatusCompleted, resp.Status)
	assert.Equal(t, 0, resp.EmployeeCount)
	assert.Equal(t, int64(0), resp.TotalNet)
	assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
}

func TestGenerateRun_InvalidPeriod(t *testing.T) {
	ctx := context.Background()

	deps := setupPayrollServiceTest(t)
	defer deps.db.Close()

	_, err := deps.service.GenerateRun(ctx, uuid.New().String(), uuid.New().String(), payroll.GenerateRunRequest{Period: "January 2026"})

	assert.ErrorIs(t, err, payrollerrors.ErrInvalidPeriod)
}

func TestGenerateRun_PartialPersistenceFailsRun(t *testing.T) {
	ctx := context.Background()
	empA := uuid.New().String()

	deps := setupPayrollServiceTest(t)
	defer deps.db.Close()

	deps.sqlMock.ExpectBegin()
	deps.sqlMock.ExpectRollback()

	deps.compensation.listActiveFn = func(ctx context.Context, o string, asOf time.Time) ([]string, error) {
		return []string{empA}, nil
	}
	deps.compensation.resolveActiveFn = func(ctx context.Context, o, e string, asOf time.Time) (*compensation.Structure, error) {
		return testStructure(e), nil
	}
	deps.repo.createEntriesFn = func(ctx context.Context, entries []payroll.PayrollEntry) error {
		return errors.New("connection reset")
	}

	var finalStatus string
	deps.repo.updateRunFn = func(ctx context.Context, run *payroll.PayrollRun) error {
		finalStatus = run.Status
		return nil
	}

	_, err := deps.service.GenerateRun(ctx, uuid.New().String(), uuid.New().String(), payroll.GenerateRunRequest{Period: "2026-01"})

	assert.ErrorIs(t, err, payrollerrors.ErrPartialPersistence)
	assert.Equal(t, payroll.RunStatusFailed, finalStatus)
	assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
}

func TestGenerateRun_AnomalyExcludesEmployee(t *testing.T) {
	ctx := context.Background()
	empGood := uuid.New().String()
	empBad := uuid.New().String()

	deps := setupPayrollServiceTest(t)
	defer deps.db.Close()

	deps.sqlMock.ExpectBegin()
	deps.sqlMock.ExpectCommit()

	deps.compensation.listActiveFn = func(ctx context.Context, o string, asOf time.Time) ([]string, error) {
		return []string{empGood, empBad}, nil
	}
	deps.compensation.resolveActiveFn = func(ctx context.Context, o, e string, asOf time.Time) (*compensation.Structure, error) {
		if e == empBad {
			return &compensation.Structure{
				ID:         uuid.New(),
				EmployeeID: uuid.MustParse(e),
				Components: []compensation.Component{
					{Name: "Basic", Kind: compensation.ComponentKindEarning, AnnualAmount: -600000},
				},
			}, nil
		}
		return testStructure(e), nil
	}

	var persisted []payroll.PayrollEntry
	var anomalies []payroll.RunAnomaly
	deps.repo.createEntriesFn = func(ctx context.Context, entries []payroll.PayrollEntry) error {
		persisted = entries
		return nil
	}
	deps.repo.createAnomaliesFn = func(ctx context.Context, a []payroll.RunAnomaly) error {
		anomalies = a
		return nil
	}

	resp, err := deps.service.GenerateRun(ctx, uuid.New().String(), uuid.New().String(), payroll.GenerateRunRequest{Period: "2026-01"})

	assert.NoError(t, err)
	assert.Equal(t, payroll.RunStatusCompleted, resp.Status)
	assert.Equal(t, 1, resp.EmployeeCount)
	assert.Len(t, persisted, 1)
	assert.Equal(t, empGood, persisted[0].EmployeeID.String())
	assert.Len(t, anomalies, 1)
	assert.Equal(t, empBad, anomalies[0].EmployeeID.String())
}

func TestGenerateRun_NoActiveStructureIsNotAnAnomaly(t *testing.T) {
	ctx := context.Background()
	empA := uuid.New().String()

	deps := setupPayrollServiceTest(t)
	defer deps.db.Close()

	deps.sqlMock.ExpectBegin()
	deps.sqlMock.ExpectCommit()

	deps.compensation.listActiveFn = func(ctx context.Context, o string, asOf time.Time) ([]string, error) {
		return []string{empA}, nil
	}

	var anomalies []payroll.RunAnomaly
	deps.repo.createAnomaliesFn = func(ctx context.Context, a []payroll.RunAnomaly) error {
		anomalies = a
		return nil
	}

	resp, err := deps.service.GenerateRun(ctx, uuid.New().String(), uuid.New().String(), payroll.GenerateRunRequest{Period: "2026-01"})

	assert.NoError(t, err)
	assert.Equal(t, 0, resp.EmployeeCount)
	assert.Empty(t, anomalies)
}

func TestSubmitRun_FromCompleted(t *testing.T) {
	ctx := context.Background()
	orgID := uuid.New().String()
	runID := uuid.New()

	deps := setupPayrollServiceTest(t)
	defer deps.db.Close()

	deps.sqlMock.ExpectBegin()
	deps.sqlMock.ExpectCommit()

	deps.repo.findRunByIDAndOrgFn = func(ctx context.Context, o, id string) (*payroll.PayrollRun, error) {
		return &payroll.PayrollRun{ID: runID, OrgID: uuid.MustParse(orgID), Period: "2026-01", Status: payroll.RunStatusCompleted}, nil
	}

	var mirroredStatus string
	deps.repo.updateEntryStatusesByRunFn = func(ctx context.Context, o, r, toStatus string) error {
		mirroredStatus = toStatus
		return nil
	}

	resp, err := deps.service.SubmitRun(ctx, orgID, uuid.New().String(), runID.String())

	assert.NoError(t, err)
	assert.Equal(t, payroll.RunStatusUnderReview, resp.Status)
	assert.Equal(t, payroll.RunStatusUnderReview, mirroredStatus)
	assert.Len(t, deps.outbox.events, 1)
	assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
}

func TestLockRun_WritesMetadataAndLedgerEvent(t *testing.T) {
	ctx := context.Background()
	orgID := uuid.New().String()
	actorID := uuid.New().String()
	runID := uuid.New()

	deps := setupPayrollServiceTest(t)
	defer deps.db.Close()

	deps.sqlMock.ExpectBegin()
	deps.sqlMock.ExpectCommit()

	deps.repo.findRunByIDAndOrgFn = func(ctx context.Context, o, id string) (*payroll.PayrollRun, error) {
		return &payroll.PayrollRun{ID: runID, OrgID: uuid.MustParse(orgID), Period: "2026-01", Status: payroll.RunStatusApproved}, nil
	}
	deps.repo.findActiveEntriesByRunFn = func(ctx context.Context, o, r string) ([]payroll.PayrollEntry, error) {
		return []payroll.PayrollEntry{
			{GrossEarnings: 70833, BaseDeductions: 1800, TaxWithheld: 4550, NetPay: 64483},
		}, nil
	}

	resp, err := deps.service.LockRun(ctx, orgID, actorID, runID.String())

	assert.NoError(t, err)
	assert.Equal(t, payroll.RunStatusLocked, resp.Status)
	assert.NotNil(t, resp.LockedBy)
	assert.Equal(t, actorID, *resp.LockedBy)

	topics := []string{deps.outbox.events[0].Topic, deps.outbox.events[1].Topic}
	assert.Contains(t, topics, events.PayrollRunLifecycleTopic)
	assert.Contains(t, topics, events.LedgerPostingTopic)
	assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
}

func TestTransitionRun_OutOfOrderRejected(t *testing.T) {
	ctx := context.Background()
	orgID := uuid.New().String()
	runID := uuid.New()

	deps := setupPayrollServiceTest(t)
	defer deps.db.Close()

	deps.sqlMock.ExpectBegin()
	deps.sqlMock.ExpectRollback()

	deps.repo.findRunByIDAndOrgFn = func(ctx context.Context, o, id string) (*payroll.PayrollRun, error) {
		return &payroll.PayrollRun{ID: runID, OrgID: uuid.MustParse(orgID), Status: payroll.RunStatusLocked}, nil
	}

	_, err := deps.service.SubmitRun(ctx, orgID, uuid.New().String(), runID.String())

	assert.ErrorIs(t, err, payrollerrors.ErrInvalidStatusTransition)
	assert.Empty(t, deps.outbox.events)
}

func TestRejectRun_RequiresReason(t *testing.T) {
	ctx := context.Background()

	deps := setupPayrollServiceTest(t)
	defer deps.db.Close()

	_, err := deps.service.RejectRun(ctx, uuid.New().String(), uuid.New().String(), uuid.New().String(), payroll.RejectRunRequest{})

	assert.ErrorIs(t, err, payrollerrors.ErrRejectionReasonRequired)
}

func TestBulkTransition_WinnerAndLoser(t *testing.T) {
	ctx := context.Background()
	entryID := uuid.New().String()

	deps := setupPayrollServiceTest(t)
	defer deps.db.Close()

	// First CAS wins, the second finds the status already moved.
	calls := 0
	deps.repo.updateEntryStatusCASFn = func(ctx context.Context, o, id, from, to string) (bool, error) {
		calls++
		return calls == 1, nil
	}
	deps.repo.findEntryByIDAndOrgFn = func(ctx context.Context, o, id string) (*payroll.PayrollEntry, error) {
		return &payroll.PayrollEntry{ID: uuid.MustParse(entryID), Status: payroll.RunStatusLocked}, nil
	}

	first, err := deps.service.BulkTransitionEntries(ctx, uuid.New().String(), uuid.New().String(), payroll.BulkTransitionRequest{
		IDs:          []string{entryID},
		TargetStatus: payroll.RunStatusLocked,
	})
	assert.NoError(t, err)
	assert.True(t, first[0].Success)

	second, err := deps.service.BulkTransitionEntries(ctx, uuid.New().String(), uuid.New().String(), payroll.BulkTransitionRequest{
		IDs:          []string{entryID},
		TargetStatus: payroll.RunStatusLocked,
	})
	assert.NoError(t, err)
	assert.False(t, second[0].Success)
	assert.Equal(t, "entry has already been transitioned", second[0].Error)
}

func TestBulkTransition_CurrentlyProcessing(t *testing.T) {
	ctx := context.Background()

	deps := setupPayrollServiceTest(t)
	defer deps.db.Close()

	deps.locker.acquireFn = func(key string) (bool, error) { return false, nil }

	results, err := deps.service.BulkTransitionEntries(ctx, uuid.New().String(), uuid.New().String(), payroll.BulkTransitionRequest{
		IDs:          []string{uuid.New().String()},
		TargetStatus: payroll.RunStatusApproved,
	})

	assert.NoError(t, err)
	assert.False(t, results[0].Success)
	assert.Equal(t, "entry is currently being processed by another request", results[0].Error)
}

func TestBulkTransition_PartialSuccessReportedPerID(t *testing.T) {
	ctx := context.Background()
	okID := uuid.New().String()
	staleID := uuid.New().String()

	deps := setupPayrollServiceTest(t)
	defer deps.db.Close()

	deps.repo.updateEntryStatusCASFn = func(ctx context.Context, o, id, from, to string) (bool, error) {
		return id == okID, nil
	}
	deps.repo.findEntryByIDAndOrgFn = func(ctx context.Context, o, id string) (*payroll.PayrollEntry, error) {
		return &payroll.PayrollEntry{ID: uuid.MustParse(staleID), Status: payroll.RunStatusApproved}, nil
	}

	results, err := deps.service.BulkTransitionEntries(ctx, uuid.New().String(), uuid.New().String(), payroll.BulkTransitionRequest{
		IDs:          []string{okID, staleID},
		TargetStatus: payroll.RunStatusApproved,
	})

	assert.NoError(t, err)
	assert.Len(t, results, 2)
	assert.True(t, results[0].Success)
	assert.False(t, results[1].Success)
	assert.Equal(t, "entry has already been transitioned", results[1].Error)
	assert.Len(t, deps.locker.released, 2)
}

func TestBulkTransition_UnknownEntryReportsNotFound(t *testing.T) {
	ctx := context.Background()

	deps := setupPayrollServiceTest(t)
	defer deps.db.Close()

	// CAS misses and the follow-up read finds no row: the id is bad, not
	// stale.
	deps.repo.updateEntryStatusCASFn = func(ctx context.Context, o, id, from, to string) (bool, error) {
		return false, nil
	}

	results, err := deps.service.BulkTransitionEntries(ctx, uuid.New().String(), uuid.New().String(), payroll.BulkTransitionRequest{
		IDs:          []string{uuid.New().String()},
		TargetStatus: payroll.RunStatusApproved,
	})

	assert.NoError(t, err)
	assert.False(t, results[0].Success)
	assert.Equal(t, "payroll entry not found", results[0].Error)
}

func TestBulkTransition_RejectsUnknownTarget(t *testing.T) {
	ctx := context.Background()

	deps := setupPayrollServiceTest(t)
	defer deps.db.Close()

	_, err := deps.service.BulkTransitionEntries(ctx, uuid.New().String(), uuid.New().String(), payroll.BulkTransitionRequest{
		IDs:          []string{uuid.New().String()},
		TargetStatus: "ARCHIVED",
	})

	assert.ErrorIs(t, err, payrollerrors.ErrInvalidStatusTransition)
}

func TestExportRunCSV_ColumnOrder(t *testing.T) {
	ctx := context.Background()
	orgID := uuid.New().String()
	runID := uuid.New()
	empID := uuid.New()

	deps := setupPayrollServiceTest(t)
	defer deps.db.Close()

	deps.repo.findRunByIDAndOrgFn = func(ctx context.Context, o, id string) (*payroll.PayrollRun, error) {
		return &payroll.PayrollRun{ID: runID, OrgID: uuid.MustParse(orgID), Period: "2026-01"}, nil
	}
	deps.repo.findActiveEntriesByRunFn = func(ctx context.Context, o, r string) ([]payroll.PayrollEntry, error) {
		return []payroll.PayrollEntry{{
			ID:               uuid.New(),
			EmployeeID:       empID,
			AnnualCTC:        60000000,
			WorkingDays:      22,
			LwpDays:          2,
			PaidDays:         20,
			GrossEarnings:    4545500,
			TotalDeductions:  455000,
			AbsenceDeduction: 454500,
			NetPay:           4090500,
			// The breakdown lines sum below the contractual CTC; the
			// register must report the snapshot, not the sum.
			Components: []payroll.EntryComponent{
				{Name: "Basic", Kind: compensation.ComponentKindEarning, AnnualAmount: 54000000},
			},
		}}, nil
	}
	deps.employees.findByIDsFn = func(ctx context.Context, o string, ids []string) (map[string]employee.Employee, error) {
		return map[string]employee.Employee{
			empID.String(): {ID: empID, FullName: "Asha Rao", Department: "Engineering", Title: "Senior Engineer"},
		}, nil
	}

	data, err := deps.service.ExportRunCSV(ctx, orgID, runID.String())

	assert.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, "Employee,Department,Title,Annual CTC,Gross Earnings,Total Deductions,LOP Days,LOP Amount,Working Days,Paid Days,Net Pay")
	assert.Contains(t, out, "Asha Rao,Engineering,Senior Engineer,600000.00,45455.00,4550.00,2,4545.00,22,20,40905.00")
}
