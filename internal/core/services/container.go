package services

import (
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
)

// NewServiceContainer wires every ledger service on top of the given repositories.
// Observers are notified after each committed or deleted transaction.
func NewServiceContainer(repos *portsrepo.RepositoryProvider, observers ...portssvc.TransactionObserver) *portssvc.ServiceContainer {
	journalOpts := make([]JournalServiceOption, 0, len(observers))
	for _, observer := range observers {
		journalOpts = append(journalOpts, WithObserver(observer))
	}

	account := NewAccountService(repos.AccountRepo)
	journal := NewJournalService(repos.TransactionRepo, repos.AccountRepo, journalOpts...)
	balance := NewBalanceEngine(repos.AccountRepo, repos.BalanceRepo)

	return &portssvc.ServiceContainer{
		Account: account,
		Journal: journal,
		Balance: balance,
		Invoice: NewInvoicePostingService(journal, balance),
	}
}
