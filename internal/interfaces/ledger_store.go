package interfaces

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/negocio-suite/ledger-reconciliation/internal/models"
)

// LedgerStore persists aggregates. AddDelta is the only legal way to change
// a ledger's balance and must be a single atomic increment at the storage
// layer, never a read-then-write.
type LedgerStore interface {
	CreateLedger(ctx context.Context, ledger models.Ledger) error
	GetLedger(ctx context.Context, id string) (models.Ledger, error)
	// AddDelta atomically adds delta to the ledger's balance and returns the
	// resulting balance. Returns models.ErrLedgerNotFound if the ledger is
	// absent.
	AddDelta(ctx context.Context, id string, delta decimal.Decimal) (decimal.Decimal, error)
	DeleteLedger(ctx context.Context, id string) error
}
