package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/example/see/internal/ports/secondary"
)

// AccountRepository implements secondary.AccountRepository with SQLite.
type AccountRepository struct {
	db        *sql.DB
	logWriter secondary.LogWriter
}

// NewAccountRepository creates a new SQLite account repository.
func NewAccountRepository(db *sql.DB, logWriter secondary.LogWriter) *AccountRepository {
	return &AccountRepository{db: db, logWriter: logWriter}
}

const accountColumns = `id, engagement_id, name, goal_12m, decision_makers, competitors, main_pain,
	value_prop, agenda_8w, next_step, status, created_at, updated_at`

func scanAccount(row rowScanner) (*secondary.AccountRecord, error) {
	var (
		goal, makers, competitors, pain, prop, agenda, next sql.NullString
		createdAt, updatedAt                                time.Time
	)
	a := &secondary.AccountRecord{}
	err := row.Scan(&a.ID, &a.EngagementID, &a.Name, &goal, &makers, &competitors, &pain,
		&prop, &agenda, &next, &a.Status, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	a.Goal12m = goal.String
	a.DecisionMakers = makers.String
	a.Competitors = competitors.String
	a.MainPain = pain.String
	a.ValueProp = prop.String
	a.Agenda8w = agenda.String
	a.NextStep = next.String
	a.CreatedAt = formatTime(createdAt)
	a.UpdatedAt = formatTime(updatedAt)
	return a, nil
}

// Create persists a new account.
func (r *AccountRepository) Create(ctx context.Context, a *secondary.AccountRecord) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO accounts (id, engagement_id, name, goal_12m, decision_makers, competitors,
			main_pain, value_prop, agenda_8w, next_step, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.EngagementID, a.Name, nullString(a.Goal12m), nullString(a.DecisionMakers),
		nullString(a.Competitors), nullString(a.MainPain), nullString(a.ValueProp),
		nullString(a.Agenda8w), nullString(a.NextStep), a.Status,
	)
	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}
	if r.logWriter != nil {
		_ = r.logWriter.LogCreate(ctx, "account", a.ID)
	}
	return nil
}

// GetByID retrieves an account by its ID.
func (r *AccountRepository) GetByID(ctx context.Context, id string) (*secondary.AccountRecord, error) {
	a, err := scanAccount(r.db.QueryRowContext(ctx, "SELECT "+accountColumns+" FROM accounts WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("account", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return a, nil
}

// FindByName looks up an account by name within an engagement.
func (r *AccountRepository) FindByName(ctx context.Context, engagementID, name string) (*secondary.AccountRecord, error) {
	a, err := scanAccount(r.db.QueryRowContext(ctx,
		"SELECT "+accountColumns+" FROM accounts WHERE engagement_id = ? AND LOWER(TRIM(name)) = LOWER(TRIM(?)) ORDER BY id LIMIT 1",
		engagementID, name))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("account", name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find account: %w", err)
	}
	return a, nil
}

// Update replaces an account.
func (r *AccountRepository) Update(ctx context.Context, a *secondary.AccountRecord) error {
	old, err := r.GetByID(ctx, a.ID)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		`UPDATE accounts SET name = ?, goal_12m = ?, decision_makers = ?, competitors = ?, main_pain = ?,
			value_prop = ?, agenda_8w = ?, next_step = ?, status = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		a.Name, nullString(a.Goal12m), nullString(a.DecisionMakers), nullString(a.Competitors),
		nullString(a.MainPain), nullString(a.ValueProp), nullString(a.Agenda8w),
		nullString(a.NextStep), a.Status, a.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update account: %w", err)
	}
	if r.logWriter != nil && old.Status != a.Status {
		_ = r.logWriter.LogUpdate(ctx, "account", a.ID, "status", old.Status, a.Status)
	}
	return nil
}

// Delete removes an account. Its unit-economics rows stay, unlinked.
func (r *AccountRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM accounts WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	if err := checkAffected(result, "account", id); err != nil {
		return err
	}
	if r.logWriter != nil {
		_ = r.logWriter.LogDelete(ctx, "account", id)
	}
	return nil
}

// List returns the accounts of an engagement ordered by name.
func (r *AccountRepository) List(ctx context.Context, engagementID string) ([]*secondary.AccountRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+accountColumns+" FROM accounts WHERE engagement_id = ? ORDER BY name, id", engagementID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*secondary.AccountRecord
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

// GetNextID returns the next available account ID.
func (r *AccountRepository) GetNextID(ctx context.Context) (string, error) {
	return nextSequentialID(ctx, r.db, "accounts", "ACC")
}

// UnitEconomicsRepository implements secondary.UnitEconomicsRepository with SQLite.
type UnitEconomicsRepository struct {
	db        *sql.DB
	logWriter secondary.LogWriter
}

// NewUnitEconomicsRepository creates a new SQLite unit-economics repository.
func NewUnitEconomicsRepository(db *sql.DB, logWriter secondary.LogWriter) *UnitEconomicsRepository {
	return &UnitEconomicsRepository{db: db, logWriter: logWriter}
}

const unitEconomicsColumns = `id, engagement_id, account_id, client_site, modality, m2_month, price_usd_m2,
	revenue_month, direct_costs, margin, margin_pct, risks, evidence, created_at`

func scanUnitEconomics(row rowScanner) (*secondary.UnitEconomicsRecord, error) {
	var (
		account, site, modality, risks, evidence    sql.NullString
		m2, price, revenue, costs, margin, marginPc sql.NullFloat64
		createdAt                                   time.Time
	)
	u := &secondary.UnitEconomicsRecord{}
	err := row.Scan(&u.ID, &u.EngagementID, &account, &site, &modality, &m2, &price,
		&revenue, &costs, &margin, &marginPc, &risks, &evidence, &createdAt)
	if err != nil {
		return nil, err
	}
	u.AccountID = account.String
	u.ClientSite = site.String
	u.Modality = modality.String
	u.M2Month = floatPtr(m2)
	u.PriceUSDM2 = floatPtr(price)
	u.RevenueMonth = floatPtr(revenue)
	u.DirectCosts = floatPtr(costs)
	u.Margin = floatPtr(margin)
	u.MarginPct = floatPtr(marginPc)
	u.Risks = risks.String
	u.Evidence = evidence.String
	u.CreatedAt = formatTime(createdAt)
	return u, nil
}

// Create persists a new unit-economics row.
func (r *UnitEconomicsRepository) Create(ctx context.Context, u *secondary.UnitEconomicsRecord) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO unit_economics (id, engagement_id, account_id, client_site, modality, m2_month,
			price_usd_m2, revenue_month, direct_costs, margin, margin_pct, risks, evidence)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.EngagementID, nullString(u.AccountID), nullString(u.ClientSite), nullString(u.Modality),
		nullFloat(u.M2Month), nullFloat(u.PriceUSDM2), nullFloat(u.RevenueMonth), nullFloat(u.DirectCosts),
		nullFloat(u.Margin), nullFloat(u.MarginPct), nullString(u.Risks), nullString(u.Evidence),
	)
	if err != nil {
		return fmt.Errorf("failed to create unit economics row: %w", err)
	}
	if r.logWriter != nil {
		_ = r.logWriter.LogCreate(ctx, "unit_economics", u.ID)
	}
	return nil
}

// List returns the rows of an engagement, optionally for one account.
func (r *UnitEconomicsRepository) List(ctx context.Context, engagementID, accountID string) ([]*secondary.UnitEconomicsRecord, error) {
	query := "SELECT " + unitEconomicsColumns + " FROM unit_economics WHERE engagement_id = ?"
	args := []any{engagementID}
	if accountID != "" {
		query += " AND account_id = ?"
		args = append(args, accountID)
	}
	rows, err := r.db.QueryContext(ctx, query+" ORDER BY created_at, id", args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list unit economics: %w", err)
	}
	defer rows.Close()

	var out []*secondary.UnitEconomicsRecord
	for rows.Next() {
		u, err := scanUnitEconomics(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan unit economics row: %w", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// Delete removes a row of the given engagement.
func (r *UnitEconomicsRepository) Delete(ctx context.Context, engagementID, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM unit_economics WHERE id = ? AND engagement_id = ?", id, engagementID)
	if err != nil {
		return fmt.Errorf("failed to delete unit economics row: %w", err)
	}
	if err := checkAffected(result, "unit economics row", id); err != nil {
		return err
	}
	if r.logWriter != nil {
		_ = r.logWriter.LogDelete(ctx, "unit_economics", id)
	}
	return nil
}

// GetNextID returns the next available unit-economics ID.
func (r *UnitEconomicsRepository) GetNextID(ctx context.Context) (string, error) {
	return nextSequentialID(ctx, r.db, "unit_economics", "UE")
}

var (
	_ secondary.AccountRepository       = (*AccountRepository)(nil)
	_ secondary.UnitEconomicsRepository = (*UnitEconomicsRepository)(nil)
)
