package reconcile

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/negocio-suite/ledger-reconciliation/internal/interfaces"
	"github.com/negocio-suite/ledger-reconciliation/internal/models"
	"github.com/negocio-suite/ledger-reconciliation/internal/models/events"
)

// Engine keeps a ledger's persisted balance equal to the sum of effects of
// its Completed entries across entry create/update/delete. Every operation
// applies exactly one net delta through the store's atomic increment.
type Engine struct {
	ledgers   interfaces.LedgerStore
	entries   interfaces.EntryStore
	publisher interfaces.EventPublisher // optional, may be nil
	log       zerolog.Logger

	muMap map[string]*sync.Mutex // per-ledger lock, serializes read-compute-write windows
	mapMu sync.Mutex             // protects muMap itself
}

// NewEngine wires the engine to its stores. The publisher may be nil to
// disable event emission.
func NewEngine(ledgers interfaces.LedgerStore, entries interfaces.EntryStore, publisher interfaces.EventPublisher, log zerolog.Logger) *Engine {
	return &Engine{
		ledgers:   ledgers,
		entries:   entries,
		publisher: publisher,
		log:       log,
		muMap:     make(map[string]*sync.Mutex),
	}
}

func (e *Engine) getLedgerLock(ledgerID string) *sync.Mutex {
	e.mapMu.Lock()
	defer e.mapMu.Unlock()

	if _, exists := e.muMap[ledgerID]; !exists {
		e.muMap[ledgerID] = &sync.Mutex{}
	}
	return e.muMap[ledgerID]
}

// CreateLedger persists a new aggregate with a zero balance.
func (e *Engine) CreateLedger(ctx context.Context, kind models.LedgerKind, name, ownerRef string) (models.Ledger, error) {
	if !kind.Valid() {
		return models.Ledger{}, &models.ValidationError{Field: "kind", Message: "unknown ledger kind " + string(kind)}
	}
	if name == "" {
		return models.Ledger{}, &models.ValidationError{Field: "name", Message: "name is required"}
	}

	now := time.Now().UTC()
	ledger := models.Ledger{
		ID:        uuid.NewString(),
		Kind:      kind,
		Name:      name,
		OwnerRef:  ownerRef,
		Balance:   decimal.Zero,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := e.ledgers.CreateLedger(ctx, ledger); err != nil {
		return models.Ledger{}, fmt.Errorf("create ledger: %w", err)
	}
	return ledger, nil
}

// GetLedger returns the aggregate with its current balance.
func (e *Engine) GetLedger(ctx context.Context, id string) (models.Ledger, error) {
	return e.ledgers.GetLedger(ctx, id)
}

// ListEntries returns all entries belonging to a ledger.
func (e *Engine) ListEntries(ctx context.Context, ledgerID string) ([]models.Entry, error) {
	return e.entries.ListByLedger(ctx, ledgerID)
}

// DeleteLedger removes a ledger together with all its entries. The entries
// disappear with the aggregate, so no balance adjustment is made.
func (e *Engine) DeleteLedger(ctx context.Context, id string) error {
	lock := e.getLedgerLock(id)
	lock.Lock()
	defer lock.Unlock()

	entries, err := e.entries.ListByLedger(ctx, id)
	if err != nil {
		return fmt.Errorf("list entries: %w", err)
	}
	for _, entry := range entries {
		if err := e.entries.DeleteEntry(ctx, entry.ID); err != nil {
			return fmt.Errorf("cascade delete entry %s: %w", entry.ID, err)
		}
	}
	return e.ledgers.DeleteLedger(ctx, id)
}

// ApplyCreate persists a new entry and applies its effect to the ledger.
// If the ledger is missing nothing is persisted; if the delta application
// fails the entry write is rolled back, so the call is all-or-nothing.
func (e *Engine) ApplyCreate(ctx context.Context, ledgerID string, in models.CreateEntryInput) (models.Entry, error) {
	if err := in.Validate(); err != nil {
		return models.Entry{}, err
	}

	ledger, err := e.ledgers.GetLedger(ctx, ledgerID)
	if err != nil {
		return models.Entry{}, err
	}
	if in.Direction.Kind() != ledger.Kind {
		return models.Entry{}, &models.ValidationError{
			Field:   "direction",
			Message: fmt.Sprintf("direction %q not valid for a %s ledger", in.Direction, ledger.Kind),
		}
	}

	status := in.Status
	if status == "" {
		status = models.StatusCompleted
	}
	date := in.Date
	if date.IsZero() {
		date = time.Now().UTC()
	}

	lock := e.getLedgerLock(ledgerID)
	lock.Lock()
	defer lock.Unlock()

	now := time.Now().UTC()
	entry := models.Entry{
		ID:        uuid.NewString(),
		LedgerID:  ledgerID,
		Title:     in.Title,
		Category:  in.Category,
		Direction: in.Direction,
		Amount:    in.Amount,
		Status:    status,
		Date:      date,
		Notes:     in.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := e.entries.CreateEntry(ctx, entry); err != nil {
		return models.Entry{}, fmt.Errorf("create entry: %w", err)
	}

	delta := entryEffect(entry)
	balance, err := e.ledgers.AddDelta(ctx, ledgerID, delta)
	if err != nil {
		// roll the entry back so no partial mutation survives
		if derr := e.entries.DeleteEntry(ctx, entry.ID); derr != nil {
			e.log.Error().Err(derr).Str("entry_id", entry.ID).Msg("compensating entry delete failed")
		}
		return models.Entry{}, deltaError("apply create delta", err)
	}

	e.publish(ctx, entry, events.OperationCreated, delta, balance)
	return entry, nil
}

// ApplyUpdate reads the entry's current persisted fields, computes the net
// delta across amount, direction and status, applies it to the ledger in a
// single atomic write, then persists the new field values.
func (e *Engine) ApplyUpdate(ctx context.Context, entryID string, in models.UpdateEntryInput) (models.Entry, error) {
	if err := in.Validate(); err != nil {
		return models.Entry{}, err
	}

	// First read only locates the owning ledger; LedgerID is immutable, so
	// the lock taken from it stays correct for the re-read below.
	current, err := e.entries.GetEntry(ctx, entryID)
	if err != nil {
		return models.Entry{}, err
	}

	ledger, err := e.ledgers.GetLedger(ctx, current.LedgerID)
	if err != nil {
		return models.Entry{}, err
	}
	if in.Direction.Kind() != ledger.Kind {
		return models.Entry{}, &models.ValidationError{
			Field:   "direction",
			Message: fmt.Sprintf("direction %q not valid for a %s ledger", in.Direction, ledger.Kind),
		}
	}

	lock := e.getLedgerLock(current.LedgerID)
	lock.Lock()
	defer lock.Unlock()

	current, err = e.entries.GetEntry(ctx, entryID)
	if err != nil {
		return models.Entry{}, err
	}

	updated := current
	updated.Direction = in.Direction
	updated.Amount = in.Amount
	updated.Status = in.Status
	if in.Title != nil {
		updated.Title = *in.Title
	}
	if in.Category != nil {
		updated.Category = *in.Category
	}
	if in.Date != nil {
		updated.Date = *in.Date
	}
	if in.Notes != nil {
		updated.Notes = *in.Notes
	}
	updated.UpdatedAt = time.Now().UTC()

	// One net delta covers all four old/new status combinations; reversing
	// the old effect and applying the new one as separate increments would
	// expose an inconsistent intermediate balance.
	delta := entryEffect(updated).Sub(entryEffect(current))

	balance, err := e.ledgers.AddDelta(ctx, current.LedgerID, delta)
	if err != nil {
		return models.Entry{}, deltaError("apply update delta", err)
	}
	if err := e.entries.UpdateEntry(ctx, updated); err != nil {
		if _, cerr := e.ledgers.AddDelta(ctx, current.LedgerID, delta.Neg()); cerr != nil {
			e.log.Error().Err(cerr).Str("ledger_id", current.LedgerID).Msg("compensating delta reversal failed")
		}
		return models.Entry{}, fmt.Errorf("update entry: %w", err)
	}

	e.publish(ctx, updated, events.OperationUpdated, delta, balance)
	return updated, nil
}

// ApplyDelete reverses the entry's current effect from its ledger and
// removes the row. A non-Completed entry contributes nothing, so its ledger
// balance is left as-is.
func (e *Engine) ApplyDelete(ctx context.Context, entryID string) error {
	entry, err := e.entries.GetEntry(ctx, entryID)
	if err != nil {
		return err
	}

	lock := e.getLedgerLock(entry.LedgerID)
	lock.Lock()
	defer lock.Unlock()

	entry, err = e.entries.GetEntry(ctx, entryID)
	if err != nil {
		return err
	}

	delta := entryEffect(entry).Neg()
	balance, err := e.ledgers.AddDelta(ctx, entry.LedgerID, delta)
	if err != nil {
		return deltaError("apply delete delta", err)
	}
	if err := e.entries.DeleteEntry(ctx, entry.ID); err != nil {
		if _, cerr := e.ledgers.AddDelta(ctx, entry.LedgerID, delta.Neg()); cerr != nil {
			e.log.Error().Err(cerr).Str("ledger_id", entry.LedgerID).Msg("compensating delta reversal failed")
		}
		return fmt.Errorf("delete entry: %w", err)
	}

	e.publish(ctx, entry, events.OperationDeleted, delta, balance)
	return nil
}

// deltaError classifies a failed AddDelta: a missing ledger stays NotFound,
// anything else becomes ErrConflict because no partial state was committed
// and the caller may safely re-invoke the whole operation.
func deltaError(op string, err error) error {
	if errors.Is(err, models.ErrLedgerNotFound) {
		return err
	}
	return fmt.Errorf("%s: %w: %v", op, models.ErrConflict, err)
}

// publish emits an EntryReconciled event. Publishing is best-effort: a
// failed emit is logged and never fails the reconciliation operation.
func (e *Engine) publish(ctx context.Context, entry models.Entry, operation string, delta, balance decimal.Decimal) {
	if e.publisher == nil {
		return
	}
	evt := events.EntryReconciled{
		EntryID:    entry.ID,
		LedgerID:   entry.LedgerID,
		Operation:  operation,
		Delta:      delta,
		Balance:    balance,
		OccurredAt: time.Now().UTC(),
	}
	if err := e.publisher.Publish(ctx, evt); err != nil {
		e.log.Warn().Err(err).Str("entry_id", entry.ID).Msg("publish reconciliation event failed")
	}
}
