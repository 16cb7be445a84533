package reconcile

import (
	"github.com/shopspring/decimal"

	"github.com/negocio-suite/ledger-reconciliation/internal/models"
)

// Effect returns the signed contribution an entry makes to its ledger's
// balance: amount * sign(direction) while Completed, zero otherwise. It is
// the single source of truth for "does this entry currently count".
func Effect(status models.Status, amount decimal.Decimal, direction models.Direction) decimal.Decimal {
	if status != models.StatusCompleted {
		return decimal.Zero
	}
	if direction.Sign() < 0 {
		return amount.Neg()
	}
	return amount
}

// entryEffect is Effect applied to an entry's current persisted fields.
func entryEffect(e models.Entry) decimal.Decimal {
	return Effect(e.Status, e.Amount, e.Direction)
}
