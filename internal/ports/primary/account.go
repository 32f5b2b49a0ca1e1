package primary

import "context"

// AccountService defines the primary port for the account plan and the
// unit economics of each account.
type AccountService interface {
	CreateAccount(ctx context.Context, req CreateAccountRequest) (*Account, error)
	GetAccount(ctx context.Context, accountID string) (*Account, error)
	// ListAccounts returns the account plan ordered by name.
	ListAccounts(ctx context.Context, engagementID string) ([]*Account, error)
	UpdateAccount(ctx context.Context, req UpdateAccountRequest) (*Account, error)
	DeleteAccount(ctx context.Context, accountID string) error

	// ListAccountOptions returns id and label pairs for scope pickers.
	ListAccountOptions(ctx context.Context, engagementID string) ([]AccountOption, error)

	// EnsureAccount returns the account with the given name, creating it
	// when the engagement has none.
	EnsureAccount(ctx context.Context, engagementID, name string) (*Account, error)

	AddUnitEconomics(ctx context.Context, req AddUnitEconomicsRequest) (*UnitEconomics, error)
	// ListUnitEconomics returns the rows of an engagement; a non-empty
	// accountID keeps only that account's rows.
	ListUnitEconomics(ctx context.Context, engagementID, accountID string) ([]*UnitEconomics, error)
	DeleteUnitEconomics(ctx context.Context, engagementID, rowID string) error
}

// CreateAccountRequest contains parameters for adding an account row.
type CreateAccountRequest struct {
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
}

// UpdateAccountRequest updates an account. Empty strings leave stored
// values unchanged.
type UpdateAccountRequest struct {
	AccountID      string
	Name           string
	Goal12m        string
	DecisionMakers string
	Competitors    string
	MainPain       string
	ValueProp      string
	Agenda8w       string
	NextStep       string
	Status         string
}

// Account is one row of the account plan.
type Account struct {
	ID             string
	EngagementID   string
	Name           string
	Label          string
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

// AccountOption is an account as offered in a picker.
type AccountOption struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// AddUnitEconomicsRequest records one unit-economics row. Amounts are
// free text such as "1.234,5"; blank amounts stay unset.
type AddUnitEconomicsRequest struct {
	EngagementID string
	AccountID    string
	ClientSite   string
	Modality     string
	M2Month      string
	PriceUSDM2   string
	RevenueMonth string
	DirectCosts  string
	Margin       string
	MarginPct    string
	Risks        string
	Evidence     string
}

// UnitEconomics is one unit-economics row.
type UnitEconomics struct {
	ID           string
	EngagementID string
	AccountID    string
	AccountLabel string
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
