package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Status is the lifecycle state of an entry. The stored values are the
// domain's Spanish literals; only StatusCompleted entries count toward
// their ledger's balance.
type Status string

const (
	StatusPending   Status = "Pendiente"
	StatusCompleted Status = "Finalizado"
	StatusCanceled  Status = "Cancelado"
)

// Valid reports whether s is one of the three known statuses.
func (s Status) Valid() bool {
	return s == StatusPending || s == StatusCompleted || s == StatusCanceled
}

// ParseStatus maps a wire literal onto a Status.
func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if !s.Valid() {
		return "", &ValidationError{Field: "status", Message: fmt.Sprintf("unknown status %q", raw)}
	}
	return s, nil
}

// Direction is the two-valued label that decides whether an entry's amount
// adds to or subtracts from its ledger. income/expense belong to account
// ledgers, inflow/outflow to product ledgers.
type Direction string

const (
	DirectionIncome  Direction = "income"
	DirectionExpense Direction = "expense"
	DirectionInflow  Direction = "inflow"
	DirectionOutflow Direction = "outflow"
)

// Valid reports whether d is one of the four known directions.
func (d Direction) Valid() bool {
	switch d {
	case DirectionIncome, DirectionExpense, DirectionInflow, DirectionOutflow:
		return true
	}
	return false
}

// Sign returns +1 for directions that increase the balance and -1 for
// directions that decrease it.
func (d Direction) Sign() int {
	switch d {
	case DirectionIncome, DirectionInflow:
		return 1
	case DirectionExpense, DirectionOutflow:
		return -1
	}
	return 0
}

// Kind returns the ledger kind this direction belongs to.
func (d Direction) Kind() LedgerKind {
	switch d {
	case DirectionIncome, DirectionExpense:
		return LedgerKindAccount
	case DirectionInflow, DirectionOutflow:
		return LedgerKindProduct
	}
	return ""
}

// ParseDirection maps a wire literal onto a Direction.
func ParseDirection(raw string) (Direction, error) {
	d := Direction(raw)
	if !d.Valid() {
		return "", &ValidationError{Field: "direction", Message: fmt.Sprintf("unknown direction %q", raw)}
	}
	return d, nil
}

// Entry is a line-item belonging to exactly one ledger. Amount is stored
// non-negative; the sign comes from Direction. LedgerID never changes
// after creation.
type Entry struct {
	ID        string
	LedgerID  string
	Title     string
	Category  string
	Direction Direction
	Amount    decimal.Decimal
	Status    Status
	Date      time.Time
	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
