package interfaces

import (
	"context"

	"github.com/negocio-suite/ledger-reconciliation/internal/models"
)

// EntryStore persists line-items. It knows nothing about ledgers or
// effects; that knowledge lives only in the reconciliation engine.
type EntryStore interface {
	CreateEntry(ctx context.Context, entry models.Entry) error
	GetEntry(ctx context.Context, id string) (models.Entry, error)
	UpdateEntry(ctx context.Context, entry models.Entry) error
	DeleteEntry(ctx context.Context, id string) error
	ListByLedger(ctx context.Context, ledgerID string) ([]models.Entry, error)
}
