package memory

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/negocio-suite/ledger-reconciliation/internal/interfaces"
	"github.com/negocio-suite/ledger-reconciliation/internal/models"
)

// MemoryStore is an in-memory implementation of interfaces.LedgerStore and
// interfaces.EntryStore. It is thread-safe and backs the unit tests as well
// as the default server configuration.
type MemoryStore struct {
	mu      sync.Mutex
	ledgers map[string]models.Ledger
	entries map[string]models.Entry
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		ledgers: make(map[string]models.Ledger),
		entries: make(map[string]models.Entry),
	}
}

func (m *MemoryStore) CreateLedger(ctx context.Context, ledger models.Ledger) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ledgers[ledger.ID] = ledger
	return nil
}

func (m *MemoryStore) GetLedger(ctx context.Context, id string) (models.Ledger, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ledger, ok := m.ledgers[id]
	if !ok {
		return models.Ledger{}, models.ErrLedgerNotFound
	}
	return ledger, nil
}

// AddDelta increments the balance under the store mutex, the in-memory
// equivalent of a storage-level atomic increment.
func (m *MemoryStore) AddDelta(ctx context.Context, id string, delta decimal.Decimal) (decimal.Decimal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ledger, ok := m.ledgers[id]
	if !ok {
		return decimal.Zero, models.ErrLedgerNotFound
	}
	ledger.Balance = ledger.Balance.Add(delta)
	ledger.UpdatedAt = time.Now().UTC()
	m.ledgers[id] = ledger
	return ledger.Balance, nil
}

func (m *MemoryStore) DeleteLedger(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.ledgers[id]; !ok {
		return models.ErrLedgerNotFound
	}
	delete(m.ledgers, id)
	return nil
}

func (m *MemoryStore) CreateEntry(ctx context.Context, entry models.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[entry.ID] = entry
	return nil
}

func (m *MemoryStore) GetEntry(ctx context.Context, id string) (models.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[id]
	if !ok {
		return models.Entry{}, models.ErrEntryNotFound
	}
	return entry, nil
}

func (m *MemoryStore) UpdateEntry(ctx context.Context, entry models.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.entries[entry.ID]; !ok {
		return models.ErrEntryNotFound
	}
	m.entries[entry.ID] = entry
	return nil
}

func (m *MemoryStore) DeleteEntry(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.entries[id]; !ok {
		return models.ErrEntryNotFound
	}
	delete(m.entries, id)
	return nil
}

// ListByLedger returns copies so external code can't modify internal state.
func (m *MemoryStore) ListByLedger(ctx context.Context, ledgerID string) ([]models.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var result []models.Entry
	for _, entry := range m.entries {
		if entry.LedgerID == ledgerID {
			result = append(result, entry)
		}
	}
	return result, nil
}

// Compile-time checks: MemoryStore implements both store interfaces.
var (
	_ interfaces.LedgerStore = (*MemoryStore)(nil)
	_ interfaces.EntryStore  = (*MemoryStore)(nil)
)
