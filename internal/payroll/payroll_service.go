package payroll

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"go-payroll/internal/absence"
	"go-payroll/internal/compensation"
	compensationerrors "go-payroll/internal/compensation/errors"
	"go-payroll/internal/employee"
	"go-payroll/internal/events"
	"go-payroll/internal/messaging/kafka"
	payrollerrors "go-payroll/internal/payroll/errors"
	"go-payroll/internal/shared/contextutil"
	"go-payroll/internal/tax"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// computeConcurrency bounds the per-employee fan-out during run
// generation. Employee computations are independent; only the final
// persist is serialized into one transaction.
const computeConcurrency = 8

// CompensationResolver is the slice of the compensation service run
// generation needs.
type CompensationResolver interface {
	ResolveActive(ctx context.Context, orgID, employeeID string, asOf time.Time) (*compensation.Structure, error)
	ListActiveEmployeeIDs(ctx context.Context, orgID string, asOf time.Time) ([]string, error)
}

// WithholdingComputer is the slice of the tax service run generation needs.
type WithholdingComputer interface {
	ComputeForEmployee(ctx context.Context, orgID, employeeID string, period time.Time, annualGross, taxWithheldSoFar int64) (tax.WithholdingResult, error)
}

//go:generate mockgen -source=payroll_service.go -destination=mock/payroll_service_mock.go -package=mock
type Service interface {
	GenerateRun(ctx context.Context, orgID, actorID string, req GenerateRunRequest) (RunResponse, error)
	GetRuns(ctx context.Context, orgID string) ([]RunResponse, error)
	GetRunByID(ctx context.Context, orgID, id string) (RunResponse, error)
	GetRunEntries(ctx context.Context, orgID, runID string) ([]EntryResponse, error)
	GetEntryByID(ctx context.Context, orgID, id string) (EntryResponse, error)

	SubmitRun(ctx context.Context, orgID, actorID, id string) (RunResponse, error)
	ApproveRun(ctx context.Context, orgID, actorID, id string) (RunResponse, error)
	RejectRun(ctx context.Context, orgID, actorID, id string, req RejectRunRequest) (RunResponse, error)
	ResubmitRun(ctx context.Context, orgID, actorID, id string) (RunResponse, error)
	LockRun(ctx context.Context, orgID, actorID, id string) (RunResponse, error)

	BulkTransitionEntries(ctx context.Context, orgID, actorID string, req BulkTransitionRequest) ([]BulkTransitionResult, error)

	ExportRunCSV(ctx context.Context, orgID, runID string) ([]byte, error)
	ExportRunXLSX(ctx context.Context, orgID, runID string) ([]byte, error)
}

type service struct {
	db           *sql.DB
	repo         Repository
	compensation CompensationResolver
	absence      absence.Resolver
	tax          WithholdingComputer
	employees    employee.Repository
	outbox       kafka.OutboxRepository
	locker       EntryLocker
	logger       *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	compensationService CompensationResolver,
	absenceResolver absence.Resolver,
	taxService WithholdingComputer,
	employeeRepo employee.Repository,
	outboxRepo kafka.OutboxRepository,
	locker EntryLocker,
) Service {
	return &service{
		db:           db,
		repo:         repo,
		compensation: compensationService,
		absence:      absenceResolver,
		tax:          taxService,
		employees:    employeeRepo,
		outbox:       outboxRepo,
		locker:       locker,
		logger:       zap.L().Named("payroll.service"),
	}
}

// computedEntry is one employee's finished computation before persistence.
type computedEntry struct {
	entry   PayrollEntry
	anomaly *RunAnomaly
}

func (s *service) GenerateRun(ctx context.Context, orgID, actorID string, req GenerateRunRequest) (RunResponse, error) {
	orgUUID, err := uuid.Parse(orgID)
	if err != nil {
		return RunResponse{}, payrollerrors.ErrInvalidOrgID
	}
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return RunResponse{}, payrollerrors.ErrInvalidActorID
	}
	periodStart, periodEnd, err := parsePeriod(req.Period)
	if err != nil {
		return RunResponse{}, err
	}

	run := &PayrollRun{
		ID:          uuid.New(),
		OrgID:       orgUUID,
		Period:      req.Period,
		Status:      RunStatusProcessing,
		GeneratedBy: actorUUID,
	}
	// The unique (org, period) key is the serialization point for
	// concurrent generation attempts.
	if err := s.repo.CreateRun(ctx, run); err != nil {
		if mapped := mapRunPersistenceError(err); errors.Is(mapped, payrollerrors.ErrDuplicateRun) {
			return RunResponse{}, mapped
		}
		s.logger.Error("generate run create failed", zap.Error(err))
		return RunResponse{}, err
	}

	employeeIDs, err := s.compensation.ListActiveEmployeeIDs(ctx, orgID, periodEnd)
	if err != nil {
		return RunResponse{}, s.failRun(ctx, run, fmt.Sprintf("list active employees: %v", err))
	}

	workingDays := WorkingDays(periodStart, periodEnd)

	var (
		mu       sync.Mutex
		computed []computedEntry
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(computeConcurrency)
	for _, employeeID := range employeeIDs {
		employeeID := employeeID
		g.Go(func() error {
			result, err := s.computeEmployee(gctx, orgID, employeeID, run, periodStart, periodEnd, workingDays)
			if err != nil {
				return err
			}
			if result == nil {
				return nil
			}
			mu.Lock()
			computed = append(computed, *result)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return RunResponse{}, s.failRun(ctx, run, fmt.Sprintf("employee computation: %v", err))
	}

	entries := make([]PayrollEntry, 0, len(computed))
	anomalies := make([]RunAnomaly, 0)
	for _, c := range computed {
		if c.anomaly != nil {
			anomalies = append(anomalies, *c.anomaly)
			continue
		}
		entries = append(entries, c.entry)
	}

	run.Status = RunStatusCompleted
	run.EmployeeCount = len(entries)
	for _, entry := range entries {
		run.TotalGross += entry.GrossEarnings
		run.TotalDeductions += entry.TotalDeductions
		run.TotalNet += entry.NetPay
	}

	if err := s.persistRunResult(ctx, run, entries, anomalies, actorID); err != nil {
		failErr := s.failRun(ctx, run, fmt.Sprintf("persist entries: %v", err))
		if failErr != nil {
			return RunResponse{}, failErr
		}
		return RunResponse{}, payrollerrors.ErrPartialPersistence
	}

	s.logger.Info("generate run success",
		zap.String("run_id", run.ID.String()),
		zap.String("org_id", orgID),
		zap.String("period", req.Period),
		zap.Int("employee_count", run.EmployeeCount),
		zap.Int("anomaly_count", len(anomalies)),
		zap.Int64("total_net", run.TotalNet),
	)
	run.Anomalies = anomalies
	return mapRunToResponse(*run), nil
}

func (s *service) computeEmployee(
	ctx context.Context,
	orgID, employeeID string,
	run *PayrollRun,
	periodStart, periodEnd time.Time,
	workingDays int,
) (*computedEntry, error) {
	structure, err := s.compensation.ResolveActive(ctx, orgID, employeeID, periodEnd)
	if err != nil {
		if errors.Is(err, compensationerrors.ErrNoActiveStructure) {
			// Not an anomaly: the employee is simply outside this
			// run's population.
			return nil, nil
		}
		return nil, err
	}

	summary, err := s.absence.Resolve(ctx, orgID, employeeID, periodStart, periodEnd)
	if err != nil {
		return nil, err
	}

	proration, err := Prorate(workingDays, summary.Count, structure.Components)
	if err != nil {
		if errors.Is(err, ErrZeroWorkingDays) || errors.Is(err, ErrNegativeProratedAmount) {
			return &computedEntry{anomaly: &RunAnomaly{
				ID:         uuid.New(),
				RunID:      run.ID,
				EmployeeID: uuid.MustParse(employeeID),
				Reason:     err.Error(),
			}}, nil
		}
		return nil, err
	}

	withheldSoFar, err := s.repo.SumWithheldTaxForEmployee(ctx, orgID, employeeID, fiscalPeriodsBefore(periodStart))
	if err != nil {
		return nil, err
	}

	withholding, err := s.tax.ComputeForEmployee(ctx, orgID, employeeID, periodStart, AnnualTaxableEarnings(structure.Components), withheldSoFar)
	if err != nil {
		return nil, err
	}

	entry := PayrollEntry{
		ID:               uuid.New(),
		RunID:            run.ID,
		OrgID:            run.OrgID,
		EmployeeID:       uuid.MustParse(employeeID),
		StructureID:      structure.ID,
		AnnualCTC:        structure.AnnualCTC,
		WorkingDays:      proration.WorkingDays,
		LwpDays:          proration.LwpDays,
		PaidDays:         proration.PaidDays,
		GrossEarnings:    proration.GrossEarnings,
		BaseDeductions:   proration.BaseDeductions,
		TaxWithheld:      withholding.PeriodWithholding,
		TotalDeductions:  proration.BaseDeductions + withholding.PeriodWithholding,
		AbsenceDeduction: proration.AbsenceDeduction,
		NetPay:           proration.GrossEarnings - proration.BaseDeductions - withholding.PeriodWithholding,
		Status:           RunStatusCompleted,
	}
	for _, line := range proration.Components {
		entry.Components = append(entry.Components, EntryComponent{
			ID:            uuid.New(),
			EntryID:       entry.ID,
			Name:          line.Name,
			Kind:          line.Kind,
			AnnualAmount:  line.AnnualAmount,
			MonthlyAmount: line.MonthlyAmount,
			Taxable:       line.Taxable,
			DisplayOrder:  line.DisplayOrder,
		})
	}
	return &computedEntry{entry: entry}, nil
}

// persistRunResult writes entries, anomalies, totals and the lifecycle
// outbox event in one transaction; any failure rolls everything back so
// the run can be marked FAILED instead of half-completed.
func (s *service) persistRunResult(ctx context.Context, run *PayrollRun, entries []PayrollEntry, anomalies []RunAnomaly, actorID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if err := qtx.CreateEntries(ctx, entries); err != nil {
		return err
	}
	if err := qtx.CreateAnomalies(ctx, anomalies); err != nil {
		return err
	}
	if err := qtx.UpdateRun(ctx, run); err != nil {
		return err
	}
	if err := s.enqueueRunLifecycleEvent(ctx, s.outbox.WithTx(tx), run, RunStatusProcessing, RunStatusCompleted, actorID); err != nil {
		return err
	}

	return tx.Commit()
}

// failRun is best-effort: generation already failed, so a second failure
// while recording it is only logged.
func (s *service) failRun(ctx context.Context, run *PayrollRun, reason string) error {
	s.logger.Error("generate run failed",
		zap.String("run_id", run.ID.String()),
		zap.String("period", run.Period),
		zap.String("reason", reason),
	)
	run.Status = RunStatusFailed
	run.FailureReason = reason
	run.TotalGross, run.TotalDeductions, run.TotalNet, run.EmployeeCount = 0, 0, 0, 0
	if err := s.repo.UpdateRun(ctx, run); err != nil {
		s.logger.Error("mark run failed did not persist", zap.String("run_id", run.ID.String()), zap.Error(err))
	}
	return payrollerrors.ErrPartialPersistence
}

func (s *service) enqueueRunLifecycleEvent(ctx context.Context, outbox kafka.OutboxRepository, run *PayrollRun, fromStatus, toStatus, actorID string) error {
	payload, err := json.Marshal(events.PayrollRunLifecycleEvent{
		EventType:  "payroll.run." + toStatus,
		RunID:      run.ID.String(),
		OrgID:      run.OrgID.String(),
		Period:     run.Period,
		FromStatus: fromStatus,
		ToStatus:   toStatus,
		ActorID:    actorID,
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
		EventType:     "payroll.run." + toStatus,
		Topic:         events.PayrollRunLifecycleTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

func (s *service) GetRuns(ctx context.Context, orgID string) ([]RunResponse, error) {
	runs, err := s.repo.FindAllRunsByOrg(ctx, orgID)
	if err != nil {
		return nil, err
	}
	resp := make([]RunResponse, len(runs))
	for i, run := range runs {
		resp[i] = mapRunToResponse(run)
	}
	return resp, nil
}

func (s *service) GetRunByID(ctx context.Context, orgID, id string) (RunResponse, error) {
	run, err := s.repo.FindRunByIDAndOrg(ctx, orgID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return RunResponse{}, payrollerrors.ErrRunNotFound
		}
		return RunResponse{}, err
	}
	return mapRunToResponse(*run), nil
}

func (s *service) GetRunEntries(ctx context.Context, orgID, runID string) ([]EntryResponse, error) {
	entries, err := s.repo.FindEntriesByRun(ctx, orgID, runID)
	if err != nil {
		return nil, err
	}
	resp := make([]EntryResponse, len(entries))
	for i, entry := range entries {
		resp[i] = mapEntryToResponse(entry)
	}
	return resp, nil
}

func (s *service) GetEntryByID(ctx context.Context, orgID, id string) (EntryResponse, error) {
	entry, err := s.repo.FindEntryByIDAndOrg(ctx, orgID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return EntryResponse{}, payrollerrors.ErrEntryNotFound
		}
		return EntryResponse{}, err
	}
	return mapEntryToResponse(*entry), nil
}

func parsePeriod(period string) (time.Time, time.Time, error) {
	start, err := time.Parse("2006-01", period)
	if err != nil {
		return time.Time{}, time.Time{}, payrollerrors.ErrInvalidPeriod
	}
	end := start.AddDate(0, 1, -1)
	return start, end, nil
}

// fiscalPeriodsBefore lists the year-month periods from the start of the
// April–March fiscal year up to, not including, the given period.
func fiscalPeriodsBefore(period time.Time) []string {
	fyStart := time.Date(period.Year(), time.April, 1, 0, 0, 0, 0, time.UTC)
	if period.Month() < time.April {
		fyStart = fyStart.AddDate(-1, 0, 0)
	}
	var periods []string
	for p := fyStart; p.Before(time.Date(period.Year(), period.Month(), 1, 0, 0, 0, 0, time.UTC)); p = p.AddDate(0, 1, 0) {
		periods = append(periods, p.Format("2006-01"))
	}
	return periods
}

func mapRunToResponse(run PayrollRun) RunResponse {
	resp := RunResponse{
		ID:              run.ID.String(),
		OrgID:           run.OrgID.String(),
		Period:          run.Period,
		Status:          run.Status,
		TotalGross:      run.TotalGross,
		TotalDeductions: run.TotalDeductions,
		TotalNet:        run.TotalNet,
		EmployeeCount:   run.EmployeeCount,
		GeneratedBy:     run.GeneratedBy.String(),
		FailureReason:   run.FailureReason,
		RejectionReason: run.RejectionReason,
	}
	if run.LockedBy != nil {
		v := run.LockedBy.String()
		resp.LockedBy = &v
	}
	if run.LockedAt != nil {
		v := run.LockedAt.Format(time.RFC3339)
		resp.LockedAt = &v
	}
	for _, anomaly := range run.Anomalies {
		resp.Anomalies = append(resp.Anomalies, AnomalyResponse{
			EmployeeID: anomaly.EmployeeID.String(),
			Reason:     anomaly.Reason,
		})
	}
	return resp
}

func mapEntryToResponse(entry PayrollEntry) EntryResponse {
	resp := EntryResponse{
		ID:               entry.ID.String(),
		RunID:            entry.RunID.String(),
		EmployeeID:       entry.EmployeeID.String(),
		StructureID:      entry.StructureID.String(),
		WorkingDays:      entry.WorkingDays,
		LwpDays:          entry.LwpDays,
		PaidDays:         entry.PaidDays,
		GrossEarnings:    entry.GrossEarnings,
		BaseDeductions:   entry.BaseDeductions,
		TaxWithheld:      entry.TaxWithheld,
		TotalDeductions:  entry.TotalDeductions,
		AbsenceDeduction: entry.AbsenceDeduction,
		NetPay:           entry.NetPay,
		Status:           entry.Status,
	}
	if entry.SupersededByID != nil {
		v := entry.SupersededByID.String()
		resp.SupersededByID = &v
	}
	if entry.RevisesEntryID != nil {
		v := entry.RevisesEntryID.String()
		resp.RevisesEntryID = &v
	}
	for _, component := range entry.Components {
		resp.Components = append(resp.Components, ComponentResponse{
			Name:          component.Name,
			Kind:          component.Kind,
			AnnualAmount:  component.AnnualAmount,
			MonthlyAmount: component.MonthlyAmount,
			Taxable:       component.Taxable,
			DisplayOrder:  component.DisplayOrder,
		})
	}
	return resp
}
