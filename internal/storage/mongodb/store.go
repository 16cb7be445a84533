package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/negocio-suite/ledger-reconciliation/internal/interfaces"
	"github.com/negocio-suite/ledger-reconciliation/internal/models"
)

// MongoStore implements interfaces.LedgerStore and interfaces.EntryStore on
// a document database. Amounts and balances are stored as Decimal128 so the
// $inc used by AddDelta is exact; single-document updates are atomic, which
// is all the engine needs from this backend.
type MongoStore struct {
	ledgers *mongo.Collection
	entries *mongo.Collection
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{
		ledgers: db.Collection("ledgers"),
		entries: db.Collection("entries"),
	}
}

type ledgerDoc struct {
	ID        string               `bson:"_id"`
	Kind      string               `bson:"kind"`
	Name      string               `bson:"name"`
	OwnerRef  string               `bson:"owner_ref"`
	Balance   primitive.Decimal128 `bson:"balance"`
	CreatedAt time.Time            `bson:"created_at"`
	UpdatedAt time.Time            `bson:"updated_at"`
}

type entryDoc struct {
	ID        string               `bson:"_id"`
	LedgerID  string               `bson:"ledger_id"`
	Title     string               `bson:"title"`
	Category  string               `bson:"category"`
	Direction string               `bson:"direction"`
	Amount    primitive.Decimal128 `bson:"amount"`
	Status    string               `bson:"status"`
	Date      time.Time            `bson:"date"`
	Notes     string               `bson:"notes"`
	CreatedAt time.Time            `bson:"created_at"`
	UpdatedAt time.Time            `bson:"updated_at"`
}

func toDecimal128(d decimal.Decimal) (primitive.Decimal128, error) {
	return primitive.ParseDecimal128(d.String())
}

func fromDecimal128(d primitive.Decimal128) (decimal.Decimal, error) {
	return decimal.NewFromString(d.String())
}

func toLedgerDoc(ledger models.Ledger) (ledgerDoc, error) {
	balance, err := toDecimal128(ledger.Balance)
	if err != nil {
		return ledgerDoc{}, fmt.Errorf("encode balance: %w", err)
	}
	return ledgerDoc{
		ID:        ledger.ID,
		Kind:      string(ledger.Kind),
		Name:      ledger.Name,
		OwnerRef:  ledger.OwnerRef,
		Balance:   balance,
		CreatedAt: ledger.CreatedAt,
		UpdatedAt: ledger.UpdatedAt,
	}, nil
}

func (d ledgerDoc) toModel() (models.Ledger, error) {
	balance, err := fromDecimal128(d.Balance)
	if err != nil {
		return models.Ledger{}, fmt.Errorf("decode balance: %w", err)
	}
	return models.Ledger{
		ID:        d.ID,
		Kind:      models.LedgerKind(d.Kind),
		Name:      d.Name,
		OwnerRef:  d.OwnerRef,
		Balance:   balance,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}, nil
}

func toEntryDoc(entry models.Entry) (entryDoc, error) {
	amount, err := toDecimal128(entry.Amount)
	if err != nil {
		return entryDoc{}, fmt.Errorf("encode amount: %w", err)
	}
	return entryDoc{
		ID:        entry.ID,
		LedgerID:  entry.LedgerID,
		Title:     entry.Title,
		Category:  entry.Category,
		Direction: string(entry.Direction),
		Amount:    amount,
		Status:    string(entry.Status),
		Date:      entry.Date,
		Notes:     entry.Notes,
		CreatedAt: entry.CreatedAt,
		UpdatedAt: entry.UpdatedAt,
	}, nil
}

func (d entryDoc) toModel() (models.Entry, error) {
	amount, err := fromDecimal128(d.Amount)
	if err != nil {
		return models.Entry{}, fmt.Errorf("decode amount: %w", err)
	}
	return models.Entry{
		ID:        d.ID,
		LedgerID:  d.LedgerID,
		Title:     d.Title,
		Category:  d.Category,
		Direction: models.Direction(d.Direction),
		Amount:    amount,
		Status:    models.Status(d.Status),
		Date:      d.Date,
		Notes:     d.Notes,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}, nil
}

func (m *MongoStore) CreateLedger(ctx context.Context, ledger models.Ledger) error {
	doc, err := toLedgerDoc(ledger)
	if err != nil {
		return err
	}
	_, err = m.ledgers.InsertOne(ctx, doc)
	return err
}

func (m *MongoStore) GetLedger(ctx context.Context, id string) (models.Ledger, error) {
	var doc ledgerDoc
	err := m.ledgers.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Ledger{}, models.ErrLedgerNotFound
	}
	if err != nil {
		return models.Ledger{}, err
	}
	return doc.toModel()
}

// AddDelta is a single FindOneAndUpdate with $inc; the server applies the
// increment atomically on the ledger document and returns the result.
func (m *MongoStore) AddDelta(ctx context.Context, id string, delta decimal.Decimal) (decimal.Decimal, error) {
	inc, err := toDecimal128(delta)
	if err != nil {
		return decimal.Zero, fmt.Errorf("encode delta: %w", err)
	}

	update := bson.M{
		"$inc": bson.M{"balance": inc},
		"$set": bson.M{"updated_at": time.Now().UTC()},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc ledgerDoc
	err = m.ledgers.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return decimal.Zero, models.ErrLedgerNotFound
	}
	if err != nil {
		return decimal.Zero, err
	}
	return fromDecimal128(doc.Balance)
}

func (m *MongoStore) DeleteLedger(ctx context.Context, id string) error {
	res, err := m.ledgers.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return models.ErrLedgerNotFound
	}
	return nil
}

func (m *MongoStore) CreateEntry(ctx context.Context, entry models.Entry) error {
	doc, err := toEntryDoc(entry)
	if err != nil {
		return err
	}
	_, err = m.entries.InsertOne(ctx, doc)
	return err
}

func (m *MongoStore) GetEntry(ctx context.Context, id string) (models.Entry, error) {
	var doc entryDoc
	err := m.entries.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Entry{}, models.ErrEntryNotFound
	}
	if err != nil {
		return models.Entry{}, err
	}
	return doc.toModel()
}

func (m *MongoStore) UpdateEntry(ctx context.Context, entry models.Entry) error {
	doc, err := toEntryDoc(entry)
	if err != nil {
		return err
	}
	res, err := m.entries.ReplaceOne(ctx, bson.M{"_id": entry.ID}, doc)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return models.ErrEntryNotFound
	}
	return nil
}

func (m *MongoStore) DeleteEntry(ctx context.Context, id string) error {
	res, err := m.entries.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return models.ErrEntryNotFound
	}
	return nil
}

func (m *MongoStore) ListByLedger(ctx context.Context, ledgerID string) ([]models.Entry, error) {
	cursor, err := m.entries.Find(ctx, bson.M{"ledger_id": ledgerID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []models.Entry
	for cursor.Next(ctx) {
		var doc entryDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		entry, err := doc.toModel()
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// Compile-time checks: MongoStore implements both store interfaces.
var (
	_ interfaces.LedgerStore = (*MongoStore)(nil)
	_ interfaces.EntryStore  = (*MongoStore)(nil)
)
