package events

import (
	"time"

	"github.com/shopspring/decimal"
)

// Operations reported by EntryReconciled.
const (
	OperationCreated = "created"
	OperationUpdated = "updated"
	OperationDeleted = "deleted"
)

// EntryReconciled is published after every successful reconciliation
// operation. Balance is the ledger balance after the delta was applied.
type EntryReconciled struct {
	EntryID    string          `json:"entry_id"`
	LedgerID   string          `json:"ledger_id"`
	Operation  string          `json:"operation"`
	Delta      decimal.Decimal `json:"delta"`
	Balance    decimal.Decimal `json:"balance"`
	OccurredAt time.Time       `json:"occurred_at"`
}
