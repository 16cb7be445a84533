package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	_ "github.com/lib/pq"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/negocio-suite/ledger-reconciliation/internal/config"
	"github.com/negocio-suite/ledger-reconciliation/internal/events/kafka"
	"github.com/negocio-suite/ledger-reconciliation/internal/interfaces"
	"github.com/negocio-suite/ledger-reconciliation/internal/logger"
	"github.com/negocio-suite/ledger-reconciliation/internal/models"
	"github.com/negocio-suite/ledger-reconciliation/internal/reconcile"
	"github.com/negocio-suite/ledger-reconciliation/internal/storage/memory"
	"github.com/negocio-suite/ledger-reconciliation/internal/storage/mongodb"
	"github.com/negocio-suite/ledger-reconciliation/internal/storage/postgres"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.LogLevel)

	ledgerStore, entryStore, err := buildStores(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("store initialization failed")
	}

	var publisher interfaces.EventPublisher
	if len(cfg.KafkaBrokers) > 0 {
		kp := kafka.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer kp.Close()
		publisher = kp
	}

	engine := reconcile.NewEngine(ledgerStore, entryStore, publisher, log)

	http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	http.HandleFunc("/ledgers", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}

		var req struct {
			Kind     string `json:"kind"`
			Name     string `json:"name"`
			OwnerRef string `json:"owner_ref"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}

		ledger, err := engine.CreateLedger(r.Context(), models.LedgerKind(req.Kind), req.Name, req.OwnerRef)
		if err != nil {
			writeError(w, log, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(ledgerResponse(ledger))
	})

	http.HandleFunc("/ledgers/balance", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}

		ledgerID := r.URL.Query().Get("ledger_id")
		if ledgerID == "" {
			http.Error(w, "ledger_id is a mandatory field", http.StatusBadRequest)
			return
		}

		ledger, err := engine.GetLedger(r.Context(), ledgerID)
		if err != nil {
			writeError(w, log, err)
			return
		}

		response := struct {
			LedgerID string          `json:"ledger_id"`
			Balance  decimal.Decimal `json:"balance"`
		}{
			LedgerID: ledger.ID,
			Balance:  ledger.Balance,
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(response)
	})

	http.HandleFunc("/ledgers/delete", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}

		ledgerID := r.URL.Query().Get("ledger_id")
		if ledgerID == "" {
			http.Error(w, "ledger_id is a mandatory field", http.StatusBadRequest)
			return
		}

		if err := engine.DeleteLedger(r.Context(), ledgerID); err != nil {
			writeError(w, log, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	http.HandleFunc("/entries", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			var req struct {
				LedgerID  string          `json:"ledger_id"`
				Title     string          `json:"title"`
				Category  string          `json:"category"`
				Direction string          `json:"direction"`
				Amount    decimal.Decimal `json:"amount"`
				Status    string          `json:"status"`
				Date      *time.Time      `json:"date"`
				Notes     string          `json:"notes"`
			}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, "invalid request body", http.StatusBadRequest)
				return
			}

			direction, err := models.ParseDirection(req.Direction)
			if err != nil {
				writeError(w, log, err)
				return
			}
			var status models.Status
			if req.Status != "" {
				if status, err = models.ParseStatus(req.Status); err != nil {
					writeError(w, log, err)
					return
				}
			}

			in := models.CreateEntryInput{
				Title:     req.Title,
				Category:  req.Category,
				Direction: direction,
				Amount:    req.Amount,
				Status:    status,
				Notes:     req.Notes,
			}
			if req.Date != nil {
				in.Date = *req.Date
			}

			entry, err := engine.ApplyCreate(r.Context(), req.LedgerID, in)
			if err != nil {
				writeError(w, log, err)
				return
			}

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(entryResponse(entry))

		case http.MethodGet:
			ledgerID := r.URL.Query().Get("ledger_id")
			if ledgerID == "" {
				http.Error(w, "ledger_id is a mandatory field", http.StatusBadRequest)
				return
			}

			entries, err := engine.ListEntries(r.Context(), ledgerID)
			if err != nil {
				writeError(w, log, err)
				return
			}

			responses := make([]map[string]any, 0, len(entries))
			for _, entry := range entries {
				responses = append(responses, entryResponse(entry))
			}
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(responses)

		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})

	http.HandleFunc("/entries/update", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}

		entryID := r.URL.Query().Get("entry_id")
		if entryID == "" {
			http.Error(w, "entry_id is a mandatory field", http.StatusBadRequest)
			return
		}

		var req struct {
			Title     *string         `json:"title"`
			Category  *string         `json:"category"`
			Direction string          `json:"direction"`
			Amount    decimal.Decimal `json:"amount"`
			Status    string          `json:"status"`
			Date      *time.Time      `json:"date"`
			Notes     *string         `json:"notes"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}

		direction, err := models.ParseDirection(req.Direction)
		if err != nil {
			writeError(w, log, err)
			return
		}
		status, err := models.ParseStatus(req.Status)
		if err != nil {
			writeError(w, log, err)
			return
		}

		entry, err := engine.ApplyUpdate(r.Context(), entryID, models.UpdateEntryInput{
			Title:     req.Title,
			Category:  req.Category,
			Direction: direction,
			Amount:    req.Amount,
			Status:    status,
			Date:      req.Date,
			Notes:     req.Notes,
		})
		if err != nil {
			writeError(w, log, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(entryResponse(entry))
	})

	http.HandleFunc("/entries/delete", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}

		entryID := r.URL.Query().Get("entry_id")
		if entryID == "" {
			http.Error(w, "entry_id is a mandatory field", http.StatusBadRequest)
			return
		}

		if err := engine.ApplyDelete(r.Context(), entryID); err != nil {
			writeError(w, log, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	log.Info().Str("port", cfg.Port).Str("backend", cfg.StoreBackend).Msg("starting server")
	if err := http.ListenAndServe(":"+cfg.Port, nil); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

// buildStores picks the storage backend from configuration. Both store
// interfaces are served by the same backend instance.
func buildStores(cfg config.Config, log zerolog.Logger) (interfaces.LedgerStore, interfaces.EntryStore, error) {
	switch cfg.StoreBackend {
	case config.BackendPostgres:
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		store := postgres.NewPostgresStore(db)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := store.EnsureSchema(ctx); err != nil {
			return nil, nil, err
		}
		return store, store, nil

	case config.BackendMongoDB:
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			return nil, nil, err
		}
		store := mongodb.NewMongoStore(client.Database(cfg.MongoDatabase))
		return store, store, nil

	default:
		log.Info().Msg("using in-memory store")
		store := memory.NewMemoryStore()
		return store, store, nil
	}
}

// writeError maps the engine's error taxonomy onto HTTP status codes.
func writeError(w http.ResponseWriter, log zerolog.Logger, err error) {
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		http.Error(w, verr.Error(), http.StatusBadRequest)
	case errors.Is(err, models.ErrLedgerNotFound), errors.Is(err, models.ErrEntryNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, models.ErrConflict):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		log.Error().Err(err).Msg("request failed")
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func ledgerResponse(ledger models.Ledger) map[string]any {
	return map[string]any{
		"id":        ledger.ID,
		"kind":      string(ledger.Kind),
		"name":      ledger.Name,
		"owner_ref": ledger.OwnerRef,
		"balance":   ledger.Balance,
	}
}

func entryResponse(entry models.Entry) map[string]any {
	return map[string]any{
		"id":        entry.ID,
		"ledger_id": entry.LedgerID,
		"title":     entry.Title,
		"category":  entry.Category,
		"direction": string(entry.Direction),
		"amount":    entry.Amount,
		"status":    string(entry.Status),
		"date":      entry.Date,
		"notes":     entry.Notes,
	}
}
