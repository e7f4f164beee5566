package accounts

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/sync/errgroup"
)

// ErrSystemAccount occurs when deactivating a protected account.
var ErrSystemAccount = errors.New("accounts: cannot deactivate a system account")

// Service owns chart-of-accounts use cases.
type Service struct {
	repo      Repository
	companyID int64
	currency  string
}

// NewService constructs the accounts service.
func NewService(repo Repository, companyID int64, currency string) *Service {
	return &Service{repo: repo, companyID: companyID, currency: currency}
}

// Chart bundles accounts with their reference types.
type Chart struct {
	Accounts []Account
	Types    []AccountType
}

// LoadChart fetches accounts and account types concurrently and joins the
// results. Types and accounts are independent reads, so they run in
// parallel; the error of either cancels the other.
func (s *Service) LoadChart(ctx context.Context) (Chart, error) {
	var chart Chart
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		accts, err := s.repo.List(ctx, s.companyID)
		if err != nil {
			return err
		}
		chart.Accounts = accts
		return nil
	})
	g.Go(func() error {
		types, err := s.repo.ListTypes(ctx)
		if err != nil {
			return err
		}
		chart.Types = types
		return nil
	})
	if err := g.Wait(); err != nil {
		return Chart{}, err
	}
	return chart, nil
}

// CreateInput carries the account form fields.
type CreateInput struct {
	Code           string
	Name           string
	Description    string
	TypeID         int64
	ParentID       *int64
	Currency       string
	OpeningBalance float64
	IsActive       bool
}

// Validate checks the required form fields.
func (in CreateInput) Validate() error {
	if strings.TrimSpace(in.Code) == "" || strings.TrimSpace(in.Name) == "" || in.TypeID == 0 {
		return errors.New("accounts: code, name, and account type are required")
	}
	return nil
}

// Create inserts a new account; the opening balance also becomes the
// starting current balance.
func (s *Service) Create(ctx context.Context, in CreateInput) (Account, error) {
	if err := in.Validate(); err != nil {
		return Account{}, err
	}
	currency := in.Currency
	if currency == "" {
		currency = s.currency
	}
	return s.repo.Create(ctx, Account{
		CompanyID:      s.companyID,
		Code:           strings.TrimSpace(in.Code),
		Name:           strings.TrimSpace(in.Name),
		Description:    strings.TrimSpace(in.Description),
		TypeID:         in.TypeID,
		ParentID:       in.ParentID,
		Currency:       currency,
		OpeningBalance: in.OpeningBalance,
		IsActive:       in.IsActive,
	})
}

// Update rewrites the mutable account fields.
func (s *Service) Update(ctx context.Context, id int64, in CreateInput) (Account, error) {
	if err := in.Validate(); err != nil {
		return Account{}, err
	}
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return Account{}, err
	}
	if in.ParentID != nil && *in.ParentID == id {
		return Account{}, errors.New("accounts: an account cannot be its own parent")
	}
	current.Code = strings.TrimSpace(in.Code)
	current.Name = strings.TrimSpace(in.Name)
	current.Description = strings.TrimSpace(in.Description)
	current.TypeID = in.TypeID
	current.ParentID = in.ParentID
	if in.Currency != "" {
		current.Currency = in.Currency
	}
	current.OpeningBalance = in.OpeningBalance
	current.IsActive = in.IsActive
	return s.repo.Update(ctx, current)
}

// ToggleActive flips the active flag. Active system accounts are protected
// from deactivation.
func (s *Service) ToggleActive(ctx context.Context, id int64) (Account, error) {
	a, err := s.repo.Get(ctx, id)
	if err != nil {
		return Account{}, err
	}
	if a.IsSystem && a.IsActive {
		return Account{}, ErrSystemAccount
	}
	if err := s.repo.SetActive(ctx, id, !a.IsActive); err != nil {
		return Account{}, err
	}
	a.IsActive = !a.IsActive
	return a, nil
}

// InitializeDefaultChart seeds the stock chart for an empty company.
func (s *Service) InitializeDefaultChart(ctx context.Context) error {
	return s.repo.SeedDefaultChart(ctx, s.companyID, DefaultChart(s.currency))
}

// Grouped applies the listing filter over a freshly loaded chart.
func (s *Service) Grouped(ctx context.Context, f Filter) ([]TypeGroup, error) {
	chart, err := s.LoadChart(ctx)
	if err != nil {
		return nil, err
	}
	return GroupByType(chart.Accounts, chart.Types, f), nil
}
