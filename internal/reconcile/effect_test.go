package reconcile

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/negocio-suite/ledger-reconciliation/internal/models"
)

func TestEffect(t *testing.T) {
	tests := []struct {
		name      string
		status    models.Status
		amount    string
		direction models.Direction
		want      string
	}{
		{"completed income counts positive", models.StatusCompleted, "100", models.DirectionIncome, "100"},
		{"completed expense counts negative", models.StatusCompleted, "100", models.DirectionExpense, "-100"},
		{"completed inflow counts positive", models.StatusCompleted, "7.5", models.DirectionInflow, "7.5"},
		{"completed outflow counts negative", models.StatusCompleted, "7.5", models.DirectionOutflow, "-7.5"},
		{"pending contributes nothing", models.StatusPending, "100", models.DirectionIncome, "0"},
		{"canceled contributes nothing", models.StatusCanceled, "100", models.DirectionExpense, "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amount := decimal.RequireFromString(tt.amount)
			want := decimal.RequireFromString(tt.want)
			got := Effect(tt.status, amount, tt.direction)
			assert.True(t, want.Equal(got), "want %s, got %s", want, got)
		})
	}
}
