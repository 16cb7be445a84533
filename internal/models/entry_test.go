package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	for _, raw := range []string{"Pendiente", "Finalizado", "Cancelado"} {
		status, err := ParseStatus(raw)
		require.NoError(t, err)
		assert.Equal(t, Status(raw), status)
	}

	_, err := ParseStatus("Completed")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "status", verr.Field)
}

func TestParseDirection(t *testing.T) {
	for _, raw := range []string{"income", "expense", "inflow", "outflow"} {
		direction, err := ParseDirection(raw)
		require.NoError(t, err)
		assert.Equal(t, Direction(raw), direction)
	}

	_, err := ParseDirection("both")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestDirectionSignAndKind(t *testing.T) {
	tests := []struct {
		direction Direction
		sign      int
		kind      LedgerKind
	}{
		{DirectionIncome, 1, LedgerKindAccount},
		{DirectionExpense, -1, LedgerKindAccount},
		{DirectionInflow, 1, LedgerKindProduct},
		{DirectionOutflow, -1, LedgerKindProduct},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.sign, tt.direction.Sign(), string(tt.direction))
		assert.Equal(t, tt.kind, tt.direction.Kind(), string(tt.direction))
	}
}

func TestCreateEntryInputValidate(t *testing.T) {
	valid := CreateEntryInput{
		Title:     "office supplies",
		Category:  "supplies",
		Direction: DirectionExpense,
		Amount:    decimal.NewFromInt(20),
		Status:    StatusCompleted,
	}
	require.NoError(t, valid.Validate())

	// empty status is allowed; the engine defaults it to Completed
	noStatus := valid
	noStatus.Status = ""
	require.NoError(t, noStatus.Validate())

	tests := []struct {
		name   string
		mutate func(*CreateEntryInput)
	}{
		{"empty title", func(in *CreateEntryInput) { in.Title = "" }},
		{"title too long", func(in *CreateEntryInput) {
			long := make([]byte, 121)
			for i := range long {
				long[i] = 'a'
			}
			in.Title = string(long)
		}},
		{"empty category", func(in *CreateEntryInput) { in.Category = "" }},
		{"zero amount", func(in *CreateEntryInput) { in.Amount = decimal.Zero }},
		{"negative amount", func(in *CreateEntryInput) { in.Amount = decimal.NewFromInt(-1) }},
		{"unknown status", func(in *CreateEntryInput) { in.Status = "Hecho" }},
		{"unknown direction", func(in *CreateEntryInput) { in.Direction = "up" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.mutate(&in)
			var verr *ValidationError
			require.ErrorAs(t, in.Validate(), &verr)
		})
	}
}

func TestUpdateEntryInputValidate(t *testing.T) {
	valid := UpdateEntryInput{
		Direction: DirectionIncome,
		Amount:    decimal.NewFromInt(10),
		Status:    StatusPending,
	}
	require.NoError(t, valid.Validate())

	noStatus := valid
	noStatus.Status = ""
	var verr *ValidationError
	require.ErrorAs(t, noStatus.Validate(), &verr)

	emptyTitle := valid
	empty := ""
	emptyTitle.Title = &empty
	require.ErrorAs(t, emptyTitle.Validate(), &verr)
}
