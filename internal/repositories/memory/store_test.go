package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/repositories/memory"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func day(d int) time.Time { return time.Date(2025, time.March, d, 0, 0, 0, 0, time.UTC) }

func seedAccounts(t *testing.T, ctx context.Context, s *memory.Store) {
	t.Helper()
	repos := memory.NewRepositoryProvider(s)
	for _, a := range []domain.Account{
		{AccountID: "cash", Code: "1000", Name: "Cash", AccountType: domain.Asset},
		{AccountID: "sales", Code: "4000", Name: "Sales", AccountType: domain.Revenue},
		{AccountID: "rent", Code: "5000", Name: "Rent", AccountType: domain.Expense},
	} {
		require.NoError(t, repos.AccountRepo.SaveAccount(ctx, a))
	}
}

func txn(id string, date time.Time, debitAcc, creditAcc string, amount string) domain.Transaction {
	return domain.Transaction{
		TransactionID: id,
		Date:          date,
		Type:          domain.JournalEntryTxn,
		Description:   "txn " + id,
		Reference:     "REF-" + id,
		Amount:        dec(amount),
		Entries: []domain.JournalEntry{
			{EntryID: id + "-1", TransactionID: id, AccountID: debitAcc, LineNo: 1, Debit: dec(amount), Credit: decimal.Zero},
			{EntryID: id + "-2", TransactionID: id, AccountID: creditAcc, LineNo: 2, Debit: decimal.Zero, Credit: dec(amount)},
		},
		AuditFields: domain.AuditFields{CreatedAt: date},
	}
}

func TestAccountRepository_CodesAndHierarchy(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	repos := memory.NewRepositoryProvider(s)
	seedAccounts(t, ctx, s)

	err := repos.AccountRepo.SaveAccount(ctx, domain.Account{AccountID: "dup", Code: "1000", Name: "Dup", AccountType: domain.Asset})
	assert.ErrorIs(t, err, apperrors.ErrDuplicateCode)

	err = repos.AccountRepo.SaveAccount(ctx, domain.Account{AccountID: "orphan", Code: "1999", Name: "Orphan", AccountType: domain.Asset, ParentAccountID: "missing"})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	require.NoError(t, repos.AccountRepo.SaveAccount(ctx, domain.Account{AccountID: "petty", Code: "1010", Name: "Petty Cash", AccountType: domain.Asset, ParentAccountID: "cash"}))
	assert.ErrorIs(t, repos.AccountRepo.DeleteAccount(ctx, "cash"), apperrors.ErrHasChildren)

	byCode, err := repos.AccountRepo.FindAccountByCode(ctx, "1010")
	require.NoError(t, err)
	assert.Equal(t, "petty", byCode.AccountID)

	require.NoError(t, repos.AccountRepo.DeleteAccount(ctx, "petty"))
	_, err = repos.AccountRepo.FindAccountByCode(ctx, "1010")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestAccountRepository_ListAccounts(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	repos := memory.NewRepositoryProvider(s)
	seedAccounts(t, ctx, s)

	revenue := domain.Revenue
	cashID := "cash"

	testCases := []struct {
		name   string
		filter domain.AccountFilter
		codes  []string
	}{
		{name: "all ordered by code", filter: domain.AccountFilter{}, codes: []string{"1000", "4000", "5000"}},
		{name: "by type", filter: domain.AccountFilter{Type: &revenue}, codes: []string{"4000"}},
		{name: "search name case-insensitive", filter: domain.AccountFilter{Search: "CAS"}, codes: []string{"1000"}},
		{name: "search code", filter: domain.AccountFilter{Search: "500"}, codes: []string{"5000"}},
		{name: "by parent", filter: domain.AccountFilter{ParentID: &cashID}, codes: []string{}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			accounts, err := repos.AccountRepo.ListAccounts(ctx, tc.filter)
			require.NoError(t, err)
			codes := make([]string, 0, len(accounts))
			for _, a := range accounts {
				codes = append(codes, a.Code)
			}
			assert.Equal(t, tc.codes, codes)
		})
	}
}

func TestTransactionRepository_SaveAndDeleteAdjustBalances(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	repos := memory.NewRepositoryProvider(s)
	seedAccounts(t, ctx, s)

	t1 := txn("t1", day(1), "cash", "sales", "250.00")
	require.NoError(t, repos.TransactionRepo.SaveTransaction(ctx, t1, t1.BalanceChanges()))

	cash, err := repos.AccountRepo.FindAccountByID(ctx, "cash")
	require.NoError(t, err)
	assert.True(t, cash.Balance.Equal(dec("250")))

	has, err := repos.AccountRepo.HasJournalEntries(ctx, "sales")
	require.NoError(t, err)
	assert.True(t, has)
	assert.ErrorIs(t, repos.AccountRepo.DeleteAccount(ctx, "sales"), apperrors.ErrHasTransactions)

	found, err := repos.TransactionRepo.FindTransactionByID(ctx, "t1")
	require.NoError(t, err)
	require.Len(t, found.Entries, 2)
	require.NotNil(t, found.Entries[0].Account)
	assert.Equal(t, "1000", found.Entries[0].Account.Code)

	inverse := map[string]decimal.Decimal{"cash": dec("-250"), "sales": dec("250")}
	require.NoError(t, repos.TransactionRepo.DeleteTransaction(ctx, "t1", inverse))
	assert.ErrorIs(t, repos.TransactionRepo.DeleteTransaction(ctx, "t1", inverse), apperrors.ErrNotFound)

	cash, err = repos.AccountRepo.FindAccountByID(ctx, "cash")
	require.NoError(t, err)
	assert.True(t, cash.Balance.IsZero())
}

func TestTransactionRepository_SaveUnknownAccountChangesNothing(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	repos := memory.NewRepositoryProvider(s)
	seedAccounts(t, ctx, s)

	bad := txn("bad", day(1), "cash", "ghost", "10")
	err := repos.TransactionRepo.SaveTransaction(ctx, bad, bad.BalanceChanges())
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	cash, err := repos.AccountRepo.FindAccountByID(ctx, "cash")
	require.NoError(t, err)
	assert.True(t, cash.Balance.IsZero())
	_, err = repos.TransactionRepo.FindTransactionByID(ctx, "bad")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestTransactionRepository_ListPaginates(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	repos := memory.NewRepositoryProvider(s)
	seedAccounts(t, ctx, s)

	for i, id := range []string{"a", "b", "c", "d", "e"} {
		tx := txn(id, day(i+1), "cash", "sales", "10")
		require.NoError(t, repos.TransactionRepo.SaveTransaction(ctx, tx, tx.BalanceChanges()))
	}

	var seen []string
	token := ""
	for page := 0; page < 5; page++ {
		txns, next, err := repos.TransactionRepo.ListTransactions(ctx, domain.TransactionFilter{Limit: 2, NextToken: token})
		require.NoError(t, err)
		for _, tx := range txns {
			seen = append(seen, tx.TransactionID)
		}
		if next == nil {
			break
		}
		token = *next
	}
	assert.Equal(t, []string{"e", "d", "c", "b", "a"}, seen)

	_, _, err := repos.TransactionRepo.ListTransactions(ctx, domain.TransactionFilter{NextToken: "%%%"})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestTransactionRepository_ListFilters(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	repos := memory.NewRepositoryProvider(s)
	seedAccounts(t, ctx, s)

	sale := txn("sale", day(2), "cash", "sales", "100")
	rent := txn("rent", day(5), "rent", "cash", "40")
	rent.Type = domain.ExpenseTxn
	rent.Description = "March rent"
	for _, tx := range []domain.Transaction{sale, rent} {
		require.NoError(t, repos.TransactionRepo.SaveTransaction(ctx, tx, tx.BalanceChanges()))
	}

	expense := domain.ExpenseTxn
	testCases := []struct {
		name   string
		filter domain.TransactionFilter
		ids    []string
	}{
		{name: "all newest first", filter: domain.TransactionFilter{}, ids: []string{"rent", "sale"}},
		{name: "type", filter: domain.TransactionFilter{Type: &expense}, ids: []string{"rent"}},
		{name: "account", filter: domain.TransactionFilter{AccountID: "sales"}, ids: []string{"sale"}},
		{name: "search description", filter: domain.TransactionFilter{Search: "MARCH"}, ids: []string{"rent"}},
		{name: "search reference", filter: domain.TransactionFilter{Search: "ref-sale"}, ids: []string{"sale"}},
		{name: "inclusive upper bound", filter: domain.TransactionFilter{Range: domain.Until(day(2))}, ids: []string{"sale"}},
		{name: "inclusive window", filter: domain.TransactionFilter{Range: domain.Between(day(3), day(5))}, ids: []string{"rent"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			txns, next, err := repos.TransactionRepo.ListTransactions(ctx, tc.filter)
			require.NoError(t, err)
			assert.Nil(t, next)
			ids := make([]string, 0, len(txns))
			for _, tx := range txns {
				ids = append(ids, tx.TransactionID)
			}
			assert.Equal(t, tc.ids, ids)
		})
	}
}

func TestBalanceRepository_Windows(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	repos := memory.NewRepositoryProvider(s)
	seedAccounts(t, ctx, s)

	for _, tx := range []domain.Transaction{
		txn("t1", day(1), "cash", "sales", "100"),
		txn("t2", day(10), "cash", "sales", "50"),
		txn("t3", day(20), "rent", "cash", "30"),
	} {
		require.NoError(t, repos.TransactionRepo.SaveTransaction(ctx, tx, tx.BalanceChanges()))
	}

	totals, err := repos.BalanceRepo.SumEntriesForAccount(ctx, "cash", domain.Until(day(10)))
	require.NoError(t, err)
	assert.True(t, totals.Net().Equal(dec("150")))

	sums, err := repos.BalanceRepo.SumEntriesByAccount(ctx, domain.Between(day(10), day(20)))
	require.NoError(t, err)
	assert.True(t, sums["cash"].Debit.Equal(dec("50")))
	assert.True(t, sums["cash"].Credit.Equal(dec("30")))
	assert.True(t, sums["sales"].Credit.Equal(dec("50")))

	lines, err := repos.BalanceRepo.ListAccountEntries(ctx, "cash", domain.DateRange{})
	require.NoError(t, err)
	require.Len(t, lines, 3)
	assert.Equal(t, "t1", lines[0].TransactionID)
	assert.Equal(t, "t3", lines[2].TransactionID)
}
