// Package seed loads a chart of accounts from YAML and creates the missing accounts.
package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
)

// AccountEntry is one account of a chart file.
type AccountEntry struct {
	Code        string             `yaml:"code" validate:"required,max=32"`
	Name        string             `yaml:"name" validate:"required,max=255"`
	Type        domain.AccountType `yaml:"type" validate:"required,oneof=ASSET LIABILITY EQUITY REVENUE EXPENSE"`
	Description string             `yaml:"description"`
	ParentCode  string             `yaml:"parentCode"`
}

// Chart is the root document of a chart file.
type Chart struct {
	Accounts []AccountEntry `yaml:"accounts" validate:"required,min=1,dive"`
}

// Result reports what Apply did.
type Result struct {
	Created []string
	Skipped []string
}

var validate = validator.New()

// LoadChart reads and validates a chart file.
func LoadChart(path string) (*Chart, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read chart file: %w", err)
	}
	return ParseChart(data)
}

// ParseChart decodes a YAML chart and checks that codes are unique and that
// every parent is listed before its children.
func ParseChart(data []byte) (*Chart, error) {
	var chart Chart
	if err := yaml.Unmarshal(data, &chart); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := validate.Struct(chart); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	seen := make(map[string]bool, len(chart.Accounts))
	for _, entry := range chart.Accounts {
		if seen[entry.Code] {
			return nil, fmt.Errorf("%w: duplicate code %s in chart", apperrors.ErrValidation, entry.Code)
		}
		if entry.ParentCode != "" && !seen[entry.ParentCode] {
			return nil, fmt.Errorf("%w: parent %s of %s must be listed before it", apperrors.ErrValidation, entry.ParentCode, entry.Code)
		}
		seen[entry.Code] = true
	}
	return &chart, nil
}

// Apply creates every chart account whose code does not exist yet.
// Existing accounts are left untouched, so running it twice is a no-op.
func Apply(ctx context.Context, accounts portssvc.AccountSvcFacade, chart *Chart, userID string, logger *slog.Logger) (*Result, error) {
	if logger == nil {
		logger = slog.Default()
	}
	ids := make(map[string]string, len(chart.Accounts))
	result := &Result{}

	for _, entry := range chart.Accounts {
		existing, err := accounts.GetAccountByCode(ctx, entry.Code)
		if err == nil {
			ids[entry.Code] = existing.AccountID
			result.Skipped = append(result.Skipped, entry.Code)
			continue
		}
		if !errors.Is(err, apperrors.ErrNotFound) {
			return result, fmt.Errorf("look up account %s: %w", entry.Code, err)
		}

		req := dto.CreateAccountRequest{
			Code:        entry.Code,
			Name:        entry.Name,
			AccountType: entry.Type,
			Description: entry.Description,
		}
		if entry.ParentCode != "" {
			parentID := ids[entry.ParentCode]
			req.ParentAccountID = &parentID
		}

		created, err := accounts.CreateAccount(ctx, req, userID)
		if err != nil {
			return result, fmt.Errorf("create account %s: %w", entry.Code, err)
		}
		ids[entry.Code] = created.AccountID
		result.Created = append(result.Created, entry.Code)
	}

	logger.InfoContext(ctx, "Chart of accounts applied",
		slog.Int("created", len(result.Created)),
		slog.Int("skipped", len(result.Skipped)))
	return result, nil
}
