package tax

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"time"

	taxerrors "go-payroll/internal/tax/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var fiscalYearPattern = regexp.MustCompile(`^\d{4}-\d{2}$`)

//go:generate mockgen -source=tax_service.go -destination=mock/tax_service_mock.go -package=mock
type Service interface {
	CreateRegime(ctx context.Context, req CreateRegimeRequest) (RegimeResponse, error)
	GetRegimes(ctx context.Context) ([]RegimeResponse, error)

	UpsertSettings(ctx context.Context, orgID, actorID string, req UpsertSettingsRequest) (SettingsResponse, error)
	GetSettings(ctx context.Context, orgID, employeeID, fiscalYear string) (SettingsResponse, error)

	SubmitDeclaration(ctx context.Context, orgID, actorID string, req SubmitDeclarationRequest) (DeclarationResponse, error)
	GetDeclarations(ctx context.Context, orgID, employeeID, fiscalYear string) ([]DeclarationResponse, error)
	ApproveDeclaration(ctx context.Context, orgID, actorID, id string, req ReviewDeclarationRequest) (DeclarationResponse, error)
	RejectDeclaration(ctx context.Context, orgID, actorID, id string, req ReviewDeclarationRequest) (DeclarationResponse, error)

	// ComputeForEmployee assembles the withholding input for one employee
	// and period from settings, regime and approved declarations.
	// Employees without settings fall back to the default regime with no
	// itemized deductions.
	ComputeForEmployee(ctx context.Context, orgID, employeeID string, period time.Time, annualGross, taxWithheldSoFar int64) (WithholdingResult, error)
}

// DefaultRegimeCode is used when an employee has no tax settings for the
// fiscal year.
const DefaultRegimeCode = "SIMPLIFIED"

type service struct {
	db     *sql.DB
	repo   Repository
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository) Service {
	return &service{db: db, repo: repo, logger: zap.L().Named("tax.service")}
}

func (s *service) CreateRegime(ctx context.Context, req CreateRegimeRequest) (RegimeResponse, error) {
	for i, slab := range req.Slabs {
		if slab.To != 0 && slab.To <= slab.From {
			return RegimeResponse{}, taxerrors.ErrInvalidSlabOrder
		}
		if i > 0 && req.Slabs[i-1].To != slab.From {
			return RegimeResponse{}, taxerrors.ErrInvalidSlabOrder
		}
		if slab.To == 0 && i != len(req.Slabs)-1 {
			return RegimeResponse{}, taxerrors.ErrInvalidSlabOrder
		}
	}

	regime := &TaxRegime{
		ID:                uuid.New(),
		Code:              req.Code,
		Name:              req.Name,
		AllowsItemized:    req.AllowsItemized,
		StandardDeduction: req.StandardDeduction,
		CessPctBp:         req.CessPctBp,
	}
	for i, slab := range req.Slabs {
		regime.Slabs = append(regime.Slabs, TaxSlab{
			ID:        uuid.New(),
			RegimeID:  regime.ID,
			From:      slab.From,
			To:        slab.To,
			RatePctBp: slab.RatePctBp,
			Position:  i,
		})
	}

	if err := s.repo.CreateRegime(ctx, regime); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return RegimeResponse{}, taxerrors.ErrRegimeExists
		}
		s.logger.Error("create tax regime persist failed", zap.Error(err))
		return RegimeResponse{}, err
	}

	s.logger.Info("create tax regime success", zap.String("code", req.Code))
	return mapRegimeToResponse(*regime), nil
}

func (s *service) GetRegimes(ctx context.Context) ([]RegimeResponse, error) {
	regimes, err := s.repo.FindAllRegimes(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]RegimeResponse, len(regimes))
	for i, regime := range regimes {
		resp[i] = mapRegimeToResponse(regime)
	}
	return resp, nil
}

func (s *service) UpsertSettings(ctx context.Context, orgID, actorID string, req UpsertSettingsRequest) (SettingsResponse, error) {
	orgUUID, err := uuid.Parse(orgID)
	if err != nil {
		return SettingsResponse{}, taxerrors.ErrInvalidOrgID
	}
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return SettingsResponse{}, taxerrors.ErrInvalidActorID
	}
	employeeUUID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return SettingsResponse{}, taxerrors.ErrInvalidEmployeeID
	}
	if !fiscalYearPattern.MatchString(req.FiscalYear) {
		return SettingsResponse{}, taxerrors.ErrInvalidFiscalYear
	}
	if _, err := s.repo.FindRegimeByCode(ctx, req.RegimeCode); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return SettingsResponse{}, taxerrors.ErrRegimeNotFound
		}
		return SettingsResponse{}, err
	}

	settings := &EmployeeTaxSettings{
		OrgID:               orgUUID,
		EmployeeID:          employeeUUID,
		FiscalYear:          req.FiscalYear,
		RegimeCode:          req.RegimeCode,
		PriorEmployerIncome: req.PriorEmployerIncome,
		PriorEmployerTax:    req.PriorEmployerTax,
		CreatedBy:           actorUUID,
	}
	if existing, err := s.repo.FindSettings(ctx, orgID, req.EmployeeID, req.FiscalYear); err == nil {
		settings.ID = existing.ID
		settings.CreatedBy = existing.CreatedBy
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return SettingsResponse{}, err
	} else {
		settings.ID = uuid.New()
	}

	if err := s.repo.UpsertSettings(ctx, settings); err != nil {
		s.logger.Error("upsert tax settings persist failed", zap.Error(err))
		return SettingsResponse{}, err
	}

	s.logger.Info("upsert tax settings success",
		zap.String("org_id", orgID),
		zap.String("employee_id", req.EmployeeID),
		zap.String("fiscal_year", req.FiscalYear),
		zap.String("regime_code", req.RegimeCode),
	)
	return mapSettingsToResponse(*settings), nil
}

func (s *service) GetSettings(ctx context.Context, orgID, employeeID, fiscalYear string) (SettingsResponse, error) {
	settings, err := s.repo.FindSettings(ctx, orgID, employeeID, fiscalYear)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return SettingsResponse{}, taxerrors.ErrSettingsNotFound
		}
		return SettingsResponse{}, err
	}
	return mapSettingsToResponse(*settings), nil
}

func (s *service) SubmitDeclaration(ctx context.Context, orgID, actorID string, req SubmitDeclarationRequest) (DeclarationResponse, error) {
	orgUUID, err := uuid.Parse(orgID)
	if err != nil {
		return DeclarationResponse{}, taxerrors.ErrInvalidOrgID
	}
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return DeclarationResponse{}, taxerrors.ErrInvalidActorID
	}
	employeeUUID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return DeclarationResponse{}, taxerrors.ErrInvalidEmployeeID
	}
	if !fiscalYearPattern.MatchString(req.FiscalYear) {
		return DeclarationResponse{}, taxerrors.ErrInvalidFiscalYear
	}
	if req.DeclaredAmount <= 0 {
		return DeclarationResponse{}, taxerrors.ErrInvalidDeclaredAmount
	}

	declaration := &InvestmentDeclaration{
		ID:             uuid.New(),
		OrgID:          orgUUID,
		EmployeeID:     employeeUUID,
		FiscalYear:     req.FiscalYear,
		Section:        req.Section,
		DeclaredAmount: req.DeclaredAmount,
		Status:         DeclarationPending,
		CreatedBy:      actorUUID,
	}
	if err := s.repo.CreateDeclaration(ctx, declaration); err != nil {
		s.logger.Error("submit declaration persist failed", zap.Error(err))
		return DeclarationResponse{}, err
	}

	s.logger.Info("submit declaration success",
		zap.String("declaration_id", declaration.ID.String()),
		zap.String("section", req.Section),
	)
	return mapDeclarationToResponse(*declaration), nil
}

func (s *service) GetDeclarations(ctx context.Context, orgID, employeeID, fiscalYear string) ([]DeclarationResponse, error) {
	declarations, err := s.repo.FindDeclarationsByEmployee(ctx, orgID, employeeID, fiscalYear)
	if err != nil {
		return nil, err
	}
	resp := make([]DeclarationResponse, len(declarations))
	for i, declaration := range declarations {
		resp[i] = mapDeclarationToResponse(declaration)
	}
	return resp, nil
}

func (s *service) ApproveDeclaration(ctx context.Context, orgID, actorID, id string, req ReviewDeclarationRequest) (DeclarationResponse, error) {
	return s.reviewDeclaration(ctx, orgID, actorID, id, DeclarationApproved, req)
}

func (s *service) RejectDeclaration(ctx context.Context, orgID, actorID, id string, req ReviewDeclarationRequest) (DeclarationResponse, error) {
	req.ApprovedAmount = 0
	return s.reviewDeclaration(ctx, orgID, actorID, id, DeclarationRejected, req)
}

func (s *service) reviewDeclaration(ctx context.Context, orgID, actorID, id, targetStatus string, req ReviewDeclarationRequest) (DeclarationResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("review declaration begin tx failed", zap.Error(err))
		return DeclarationResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return DeclarationResponse{}, taxerrors.ErrInvalidActorID
	}

	declaration, err := qtx.FindDeclarationByIDAndOrg(ctx, orgID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return DeclarationResponse{}, taxerrors.ErrDeclarationNotFound
		}
		return DeclarationResponse{}, err
	}
	if declaration.Status != DeclarationPending {
		return DeclarationResponse{}, taxerrors.ErrDeclarationNotPending
	}
	if targetStatus == DeclarationApproved {
		if req.ApprovedAmount <= 0 || req.ApprovedAmount > declaration.DeclaredAmount {
			return DeclarationResponse{}, taxerrors.ErrInvalidApprovedAmount
		}
		declaration.ApprovedAmount = req.ApprovedAmount
	}

	now := time.Now().UTC()
	declaration.Status = targetStatus
	declaration.ReviewNote = req.ReviewNote
	declaration.ReviewedBy = &actorUUID
	declaration.ReviewedAt = &now

	if err := qtx.UpdateDeclaration(ctx, declaration); err != nil {
		s.logger.Error("review declaration persist failed", zap.Error(err))
		return DeclarationResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("review declaration commit failed", zap.Error(err))
		return DeclarationResponse{}, err
	}

	s.logger.Info("review declaration success",
		zap.String("declaration_id", id),
		zap.String("status", targetStatus),
	)
	return mapDeclarationToResponse(*declaration), nil
}

func (s *service) ComputeForEmployee(ctx context.Context, orgID, employeeID string, period time.Time, annualGross, taxWithheldSoFar int64) (WithholdingResult, error) {
	fiscalYear := FiscalYearOf(period)

	regimeCode := DefaultRegimeCode
	var priorIncome, priorTax int64
	settings, err := s.repo.FindSettings(ctx, orgID, employeeID, fiscalYear)
	switch {
	case err == nil:
		regimeCode = settings.RegimeCode
		priorIncome = settings.PriorEmployerIncome
		priorTax = settings.PriorEmployerTax
	case errors.Is(err, gorm.ErrRecordNotFound):
		// default regime, no priors
	default:
		return WithholdingResult{}, err
	}

	regime, err := s.repo.FindRegimeByCode(ctx, regimeCode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return WithholdingResult{}, taxerrors.ErrRegimeNotFound
		}
		return WithholdingResult{}, err
	}

	var deductions []ApprovedDeduction
	if regime.AllowsItemized {
		approved, err := s.repo.FindApprovedDeclarations(ctx, orgID, employeeID, fiscalYear)
		if err != nil {
			return WithholdingResult{}, err
		}
		for _, d := range approved {
			deductions = append(deductions, ApprovedDeduction{Section: d.Section, Amount: d.ApprovedAmount})
		}
	}

	return ComputeWithholding(WithholdingInput{
		AnnualGrossIncome:   annualGross,
		PriorEmployerIncome: priorIncome,
		Regime:              *regime,
		Deductions:          deductions,
		TaxWithheldSoFar:    taxWithheldSoFar,
		PriorEmployerTax:    priorTax,
		RemainingPeriods:    RemainingPeriodsInFiscalYear(period),
	}), nil
}

func mapRegimeToResponse(regime TaxRegime) RegimeResponse {
	resp := RegimeResponse{
		ID:                regime.ID.String(),
		Code:              regime.Code,
		Name:              regime.Name,
		AllowsItemized:    regime.AllowsItemized,
		StandardDeduction: regime.StandardDeduction,
		CessPctBp:         regime.CessPctBp,
	}
	for _, slab := range regime.Slabs {
		resp.Slabs = append(resp.Slabs, SlabResponse{From: slab.From, To: slab.To, RatePctBp: slab.RatePctBp})
	}
	return resp
}

func mapSettingsToResponse(settings EmployeeTaxSettings) SettingsResponse {
	return SettingsResponse{
		ID:                  settings.ID.String(),
		EmployeeID:          settings.EmployeeID.String(),
		FiscalYear:          settings.FiscalYear,
		RegimeCode:          settings.RegimeCode,
		PriorEmployerIncome: settings.PriorEmployerIncome,
		PriorEmployerTax:    settings.PriorEmployerTax,
	}
}

func mapDeclarationToResponse(declaration InvestmentDeclaration) DeclarationResponse {
	resp := DeclarationResponse{
		ID:             declaration.ID.String(),
		EmployeeID:     declaration.EmployeeID.String(),
		FiscalYear:     declaration.FiscalYear,
		Section:        declaration.Section,
		DeclaredAmount: declaration.DeclaredAmount,
		ApprovedAmount: declaration.ApprovedAmount,
		Status:         declaration.Status,
		ReviewNote:     declaration.ReviewNote,
	}
	if declaration.ReviewedBy != nil {
		v := declaration.ReviewedBy.String()
		resp.ReviewedBy = &v
	}
	if declaration.ReviewedAt != nil {
		v := declaration.ReviewedAt.Format(time.RFC3339)
		resp.ReviewedAt = &v
	}
	return resp
}
