package repositories

import (
	"context"
)

// TxFunc is the unit of work executed by TransactionManager.WithinTx.
type TxFunc func(ctx context.Context, tx LedgerTx) error

// TransactionManager runs ledger operations in a single database transaction.
type TransactionManager interface {
	// WithinTx begins a transaction, runs fn and commits when fn returns nil.
	// Any error from fn, a panic or a cancelled ctx rolls the transaction back.
	WithinTx(ctx context.Context, fn TxFunc) error
}
