package services

import (
	portsrepo "github.com/SscSPs/school_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/school_ledger/internal/core/ports/services"
	"github.com/SscSPs/school_ledger/internal/platform/metrics"
)

// NewServiceContainer creates a new service container with properly initialized dependencies.
// The journal and balance facades are both served by the single ledger service so posting
// and balance maintenance share one transactional boundary.
func NewServiceContainer(repos portsrepo.RepositoryProvider, m *metrics.Metrics, options ...ServiceOption) *portssvc.ServiceContainer {
	ledger := NewLedgerService(repos, m, options...)

	return &portssvc.ServiceContainer{
		Account:  NewAccountService(repos.AccountRepo, options...),
		Currency: NewCurrencyService(repos.CurrencyRepo, options...),
		Journal:  ledger,
		Balance:  ledger,
		Ledger:   ledger,
	}
}
