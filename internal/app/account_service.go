package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/example/see/internal/core/account"
	"github.com/example/see/internal/core/kpi"
	"github.com/example/see/internal/ctxutil"
	"github.com/example/see/internal/ports/primary"
	"github.com/example/see/internal/ports/secondary"
)

// AccountServiceImpl implements the AccountService interface.
type AccountServiceImpl struct {
	engagementRepo secondary.EngagementRepository
	accountRepo    secondary.AccountRepository
	economicsRepo  secondary.UnitEconomicsRepository
	logger         *zap.Logger
}

// NewAccountService creates a new AccountService with injected dependencies.
func NewAccountService(
	engagementRepo secondary.EngagementRepository,
	accountRepo secondary.AccountRepository,
	economicsRepo secondary.UnitEconomicsRepository,
	logger *zap.Logger,
) *AccountServiceImpl {
	return &AccountServiceImpl{
		engagementRepo: engagementRepo,
		accountRepo:    accountRepo,
		economicsRepo:  economicsRepo,
		logger:         logger,
	}
}

// CreateAccount adds a row to the account plan.
func (s *AccountServiceImpl) CreateAccount(ctx context.Context, req primary.CreateAccountRequest) (*primary.Account, error) {
	if _, exists, err := lookupEngagement(ctx, s.engagementRepo, req.EngagementID); err != nil {
		return nil, err
	} else if !exists {
		return nil, invalidInput("engagement %s not found", req.EngagementID)
	}
	status, ok := account.NormalizeStatus(req.Status)
	if !ok {
		return nil, invalidInput("unknown account status %q", req.Status)
	}

	nextID, err := s.accountRepo.GetNextID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate account ID: %w", err)
	}
	record := &secondary.AccountRecord{
		ID:             nextID,
		EngagementID:   req.EngagementID,
		Name:           strings.TrimSpace(req.Name),
		Goal12m:        strings.TrimSpace(req.Goal12m),
		DecisionMakers: strings.TrimSpace(req.DecisionMakers),
		Competitors:    strings.TrimSpace(req.Competitors),
		MainPain:       strings.TrimSpace(req.MainPain),
		ValueProp:      strings.TrimSpace(req.ValueProp),
		Agenda8w:       strings.TrimSpace(req.Agenda8w),
		NextStep:       strings.TrimSpace(req.NextStep),
		Status:         status,
	}
	if err := s.accountRepo.Create(ctxutil.WithEngagementID(ctx, req.EngagementID), record); err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}
	s.logger.Info("account created", zap.String("engagement_id", req.EngagementID), zap.String("account_id", nextID))
	return recordToAccount(record), nil
}

// GetAccount retrieves an account by ID.
func (s *AccountServiceImpl) GetAccount(ctx context.Context, accountID string) (*primary.Account, error) {
	record, err := s.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return recordToAccount(record), nil
}

// ListAccounts returns the account plan ordered by name.
func (s *AccountServiceImpl) ListAccounts(ctx context.Context, engagementID string) ([]*primary.Account, error) {
	records, err := s.accountRepo.List(ctx, engagementID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	out := make([]*primary.Account, len(records))
	for i, r := range records {
		out[i] = recordToAccount(r)
	}
	return out, nil
}

// UpdateAccount merges the given fields into an account.
func (s *AccountServiceImpl) UpdateAccount(ctx context.Context, req primary.UpdateAccountRequest) (*primary.Account, error) {
	record, err := s.accountRepo.GetByID(ctx, req.AccountID)
	if err != nil {
		return nil, err
	}
	setIfPresent(&record.Name, req.Name)
	setIfPresent(&record.Goal12m, req.Goal12m)
	setIfPresent(&record.DecisionMakers, req.DecisionMakers)
	setIfPresent(&record.Competitors, req.Competitors)
	setIfPresent(&record.MainPain, req.MainPain)
	setIfPresent(&record.ValueProp, req.ValueProp)
	setIfPresent(&record.Agenda8w, req.Agenda8w)
	setIfPresent(&record.NextStep, req.NextStep)
	if strings.TrimSpace(req.Status) != "" {
		status, ok := account.NormalizeStatus(req.Status)
		if !ok {
			return nil, invalidInput("unknown account status %q", req.Status)
		}
		record.Status = status
	}
	if err := s.accountRepo.Update(ctxutil.WithEngagementID(ctx, record.EngagementID), record); err != nil {
		return nil, fmt.Errorf("failed to update account: %w", err)
	}
	return recordToAccount(record), nil
}

// DeleteAccount removes an account. Its unit-economics rows are kept
// without a link.
func (s *AccountServiceImpl) DeleteAccount(ctx context.Context, accountID string) error {
	record, err := s.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return err
	}
	if err := s.accountRepo.Delete(ctxutil.WithEngagementID(ctx, record.EngagementID), accountID); err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	return nil
}

// ListAccountOptions returns the accounts as id and label pairs.
func (s *AccountServiceImpl) ListAccountOptions(ctx context.Context, engagementID string) ([]primary.AccountOption, error) {
	if _, err := s.engagementRepo.GetByID(ctx, engagementID); err != nil {
		return nil, err
	}
	records, err := s.accountRepo.List(ctx, engagementID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	out := make([]primary.AccountOption, len(records))
	for i, r := range records {
		out[i] = primary.AccountOption{ID: r.ID, Label: account.Label(r.Name)}
	}
	return out, nil
}

// EnsureAccount finds an account by name, ignoring case, or creates it.
func (s *AccountServiceImpl) EnsureAccount(ctx context.Context, engagementID, name string) (*primary.Account, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalidInput("account name is required")
	}
	record, err := s.accountRepo.FindByName(ctx, engagementID, name)
	if err == nil {
		return recordToAccount(record), nil
	}
	if !errors.Is(err, secondary.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up account %q: %w", name, err)
	}
	return s.CreateAccount(ctx, primary.CreateAccountRequest{EngagementID: engagementID, Name: name})
}

// AddUnitEconomics records a unit-economics row. An account of another
// engagement is dropped rather than refused. Revenue defaults to m² times
// the price per m².
func (s *AccountServiceImpl) AddUnitEconomics(ctx context.Context, req primary.AddUnitEconomicsRequest) (*primary.UnitEconomics, error) {
	if _, exists, err := lookupEngagement(ctx, s.engagementRepo, req.EngagementID); err != nil {
		return nil, err
	} else if !exists {
		return nil, invalidInput("engagement %s not found", req.EngagementID)
	}

	var linked *secondary.AccountRecord
	if id := strings.TrimSpace(req.AccountID); id != "" {
		a, err := s.accountRepo.GetByID(ctx, id)
		switch {
		case err == nil && a.EngagementID == req.EngagementID:
			linked = a
		case err == nil, errors.Is(err, secondary.ErrNotFound):
			s.logger.Debug("unit economics account dropped",
				zap.String("engagement_id", req.EngagementID), zap.String("account_id", id))
		default:
			return nil, fmt.Errorf("failed to validate account: %w", err)
		}
	}

	nextID, err := s.economicsRepo.GetNextID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate unit economics ID: %w", err)
	}
	m2 := account.ParseDecimal(req.M2Month)
	price := account.ParseDecimal(req.PriceUSDM2)
	record := &secondary.UnitEconomicsRecord{
		ID:           nextID,
		EngagementID: req.EngagementID,
		ClientSite:   strings.TrimSpace(req.ClientSite),
		Modality:     strings.TrimSpace(req.Modality),
		M2Month:      m2,
		PriceUSDM2:   price,
		RevenueMonth: account.Revenue(account.ParseDecimal(req.RevenueMonth), m2, price),
		DirectCosts:  account.ParseDecimal(req.DirectCosts),
		Margin:       account.ParseDecimal(req.Margin),
		MarginPct:    account.ParseDecimal(req.MarginPct),
		Risks:        strings.TrimSpace(req.Risks),
		Evidence:     strings.TrimSpace(req.Evidence),
	}
	if linked != nil {
		record.AccountID = linked.ID
	}
	if err := s.economicsRepo.Create(ctxutil.WithEngagementID(ctx, req.EngagementID), record); err != nil {
		return nil, fmt.Errorf("failed to save unit economics: %w", err)
	}
	out := recordToUnitEconomics(record)
	if linked != nil {
		out.AccountLabel = account.Label(linked.Name)
	}
	return out, nil
}

// ListUnitEconomics returns the rows with their account labels.
func (s *AccountServiceImpl) ListUnitEconomics(ctx context.Context, engagementID, accountID string) ([]*primary.UnitEconomics, error) {
	records, err := s.economicsRepo.List(ctx, engagementID, strings.TrimSpace(accountID))
	if err != nil {
		return nil, fmt.Errorf("failed to list unit economics: %w", err)
	}
	accounts, err := s.accountRepo.List(ctx, engagementID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	labels := make(map[string]string, len(accounts))
	for _, a := range accounts {
		labels[a.ID] = account.Label(a.Name)
	}

	out := make([]*primary.UnitEconomics, len(records))
	for i, r := range records {
		out[i] = recordToUnitEconomics(r)
		out[i].AccountLabel = labels[r.AccountID]
	}
	return out, nil
}

// DeleteUnitEconomics removes a row of the engagement.
func (s *AccountServiceImpl) DeleteUnitEconomics(ctx context.Context, engagementID, rowID string) error {
	if err := s.economicsRepo.Delete(ctxutil.WithEngagementID(ctx, engagementID), engagementID, rowID); err != nil {
		return fmt.Errorf("failed to delete unit economics row: %w", err)
	}
	return nil
}

// checkScope refuses check-in writes under a scope that is neither the
// global scope nor an account of the engagement.
func checkScope(ctx context.Context, repo secondary.AccountRepository, engagementID, scope string) error {
	guard := account.ScopeContext{EngagementID: engagementID, ScopeKey: scope, GlobalScope: kpi.GlobalScope}
	if scope != kpi.GlobalScope {
		a, err := repo.GetByID(ctx, scope)
		switch {
		case err == nil:
			guard.AccountEngagementID = a.EngagementID
		case !errors.Is(err, secondary.ErrNotFound):
			return fmt.Errorf("failed to validate scope: %w", err)
		}
	}
	if result := account.CanUseScope(guard); !result.Allowed {
		return refused(result.Reason)
	}
	return nil
}

func recordToAccount(r *secondary.AccountRecord) *primary.Account {
	return &primary.Account{
		ID:             r.ID,
		EngagementID:   r.EngagementID,
		Name:           r.Name,
		Label:          account.Label(r.Name),
		Goal12m:        r.Goal12m,
		DecisionMakers: r.DecisionMakers,
		Competitors:    r.Competitors,
		MainPain:       r.MainPain,
		ValueProp:      r.ValueProp,
		Agenda8w:       r.Agenda8w,
		NextStep:       r.NextStep,
		Status:         r.Status,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

func recordToUnitEconomics(r *secondary.UnitEconomicsRecord) *primary.UnitEconomics {
	return &primary.UnitEconomics{
		ID:           r.ID,
		EngagementID: r.EngagementID,
		AccountID:    r.AccountID,
		ClientSite:   r.ClientSite,
		Modality:     r.Modality,
		M2Month:      r.M2Month,
		PriceUSDM2:   r.PriceUSDM2,
		RevenueMonth: r.RevenueMonth,
		DirectCosts:  r.DirectCosts,
		Margin:       r.Margin,
		MarginPct:    r.MarginPct,
		Risks:        r.Risks,
		Evidence:     r.Evidence,
		CreatedAt:    r.CreatedAt,
	}
}

var _ primary.AccountService = (*AccountServiceImpl)(nil)
