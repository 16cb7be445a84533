package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerKind tells which pair of entry directions a ledger accepts.
type LedgerKind string

const (
	// LedgerKindAccount is a financial account; its entries move money in or out.
	LedgerKindAccount LedgerKind = "account"
	// LedgerKindProduct is an inventory item; its entries move stock in or out.
	LedgerKindProduct LedgerKind = "product"
)

// Valid reports whether k is one of the known ledger kinds.
func (k LedgerKind) Valid() bool {
	return k == LedgerKindAccount || k == LedgerKindProduct
}

// Ledger is the aggregate whose Balance must always equal the sum of the
// effects of its Completed entries. Balance is never assigned directly;
// it only changes through the store's atomic AddDelta.
type Ledger struct {
	ID        string
	Kind      LedgerKind
	Name      string
	OwnerRef  string // desk/folder owner reference, opaque to the engine
	Balance   decimal.Decimal
	CreatedAt time.Time
	UpdatedAt time.Time
}
