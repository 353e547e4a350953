package pgsql

import (
	portsrepo "github.com/SscSPs/school_ledger/internal/core/ports/repositories"
)

// NewRepositoryProvider wires every repository port to the given pool.
func NewRepositoryProvider(db DB) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo:   newPgxAccountRepository(db),
		CurrencyRepo:  newPgxCurrencyRepository(db),
		JournalRepo:   newPgxJournalRepository(db),
		BalanceRepo:   newPgxBalanceRepository(db),
		ReportingRepo: newReportingRepository(db),
		TxManager:     newTxManager(db),
	}
}
