package dto

import (
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest defines the data needed to create a new account.
type CreateAccountRequest struct {
	Code            string             `json:"code" binding:"required,max=32"`
	Name            string             `json:"name" binding:"required,max=255"`
	AccountType     domain.AccountType `json:"accountType" binding:"required,oneof=ASSET LIABILITY EQUITY REVENUE EXPENSE"`
	ParentAccountID *string            `json:"parentAccountID"` // Optional, use pointer for nullability
	Description     string             `json:"description"`     // Optional
}

// UpdateAccountRequest defines the data allowed for updating an account.
// Code and AccountType are immutable; they are accepted only to reject an attempted change.
type UpdateAccountRequest struct {
	Name        *string             `json:"name" binding:"omitempty,max=255"`
	Description *string             `json:"description"`
	Code        *string             `json:"code"`
	AccountType *domain.AccountType `json:"accountType"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID       string             `json:"accountID"`
	Code            string             `json:"code"`
	Name            string             `json:"name"`
	AccountType     domain.AccountType `json:"accountType"`
	ParentAccountID string             `json:"parentAccountID"` // Empty string for root accounts
	Description     string             `json:"description"`
	Balance         decimal.Decimal    `json:"balance"`
	NormalBalance   decimal.Decimal    `json:"normalBalance"`
	CreatedAt       time.Time          `json:"createdAt"`
	CreatedBy       string             `json:"createdBy"`
	LastUpdatedAt   time.Time          `json:"lastUpdatedAt"`
	LastUpdatedBy   string             `json:"lastUpdatedBy"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:       acc.AccountID,
		Code:            acc.Code,
		Name:            acc.Name,
		AccountType:     acc.AccountType,
		ParentAccountID: acc.ParentAccountID,
		Description:     acc.Description,
		Balance:         acc.Balance,
		NormalBalance:   accounting.NormalBalance(acc.AccountType, acc.Balance),
		CreatedAt:       acc.CreatedAt,
		CreatedBy:       acc.CreatedBy,
		LastUpdatedAt:   acc.LastUpdatedAt,
		LastUpdatedBy:   acc.LastUpdatedBy,
	}
}

// ToListAccountResponse converts a slice of domain.Account to a slice of AccountResponse DTOs
func ToListAccountResponse(accounts []domain.Account) []AccountResponse {
	res := make([]AccountResponse, len(accounts))
	for i := range accounts {
		res[i] = ToAccountResponse(&accounts[i])
	}
	return res
}

// ListAccountsParams defines query parameters for listing accounts.
type ListAccountsParams struct {
	Type     string `form:"type" binding:"omitempty,oneof=ASSET LIABILITY EQUITY REVENUE EXPENSE"`
	Search   string `form:"search"`
	ParentID string `form:"parentId"`
}

// ToFilter converts the query parameters into a domain filter.
func (p ListAccountsParams) ToFilter() domain.AccountFilter {
	filter := domain.AccountFilter{Search: p.Search}
	if p.Type != "" {
		t := domain.AccountType(p.Type)
		filter.Type = &t
	}
	if p.ParentID != "" {
		parentID := p.ParentID
		filter.ParentID = &parentID
	}
	return filter
}

// AccountBalanceParams defines the optional window of an account balance query.
type AccountBalanceParams struct {
	From string `form:"from" binding:"omitempty,ledgerdate"`
	AsOf string `form:"asOf" binding:"omitempty,ledgerdate"`
}

// AccountBalanceResponse defines the data returned for an account balance query.
type AccountBalanceResponse struct {
	AccountID     string          `json:"accountID"`
	Code          string          `json:"code"`
	Name          string          `json:"name"`
	AccountType   string          `json:"accountType"`
	From          string          `json:"from,omitempty"`
	AsOf          string          `json:"asOf,omitempty"`
	Balance       decimal.Decimal `json:"balance"`
	NormalBalance decimal.Decimal `json:"normalBalance"`
}

// ToAccountBalanceResponse converts a domain.AccountBalance to its DTO.
func ToAccountBalanceResponse(b *domain.AccountBalance) AccountBalanceResponse {
	return AccountBalanceResponse{
		AccountID:     b.AccountID,
		Code:          b.Code,
		Name:          b.Name,
		AccountType:   string(b.AccountType),
		From:          formatDatePtr(b.From),
		AsOf:          formatDatePtr(b.AsOf),
		Balance:       b.Balance,
		NormalBalance: b.NormalBalance,
	}
}
