package secondary

import "context"

// AccountRepository stores the account plan of an engagement.
type AccountRepository interface {
	Create(ctx context.Context, account *AccountRecord) error
	GetByID(ctx context.Context, id string) (*AccountRecord, error)

	// FindByName looks up an account by name within an engagement,
	// ignoring case. Returns ErrNotFound when absent.
	FindByName(ctx context.Context, engagementID, name string) (*AccountRecord, error)

	Update(ctx context.Context, account *AccountRecord) error
	Delete(ctx context.Context, id string) error

	// List returns the accounts of an engagement ordered by name.
	List(ctx context.Context, engagementID string) ([]*AccountRecord, error)
	GetNextID(ctx context.Context) (string, error)
}

// AccountRecord is one accounts row.
type AccountRecord struct {
	ID             string
	EngagementID   string
	Name           string
	Goal12m        string
	DecisionMakers string
	Competitors    string
	MainPain       string
	ValueProp      string
	Agenda8w       string
	NextStep       string
	Status         string
	CreatedAt      string
	UpdatedAt      string
}

// UnitEconomicsRepository stores unit-economics rows.
type UnitEconomicsRepository interface {
	Create(ctx context.Context, row *UnitEconomicsRecord) error

	// List returns the rows of an engagement, oldest first. A non-empty
	// accountID keeps only the rows linked to that account.
	List(ctx context.Context, engagementID, accountID string) ([]*UnitEconomicsRecord, error)

	// Delete removes a row of the given engagement.
	Delete(ctx context.Context, engagementID, id string) error
	GetNextID(ctx context.Context) (string, error)
}

// UnitEconomicsRecord is one unit_economics row. Amounts are USD.
type UnitEconomicsRecord struct {
	ID           string
	EngagementID string
	AccountID    string // optional
	ClientSite   string
	Modality     string
	M2Month      *float64
	PriceUSDM2   *float64
	RevenueMonth *float64
	DirectCosts  *float64
	Margin       *float64
	MarginPct    *float64
	Risks        string
	Evidence     string
	CreatedAt    string
}
