package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	logger "github.com/sirupsen/logrus"

	"github.com/ZocoMacc/PaperDuel/src/battle"
	"github.com/ZocoMacc/PaperDuel/src/marketdata"
)

// battleRegistry is the slice of the registry the handlers consume.
type battleRegistry interface {
	Create(primarySymbol string, userIDs []string) (*battle.Battle, error)
	Get(id string) (*battle.Battle, error)
}

// snapshotPublisher pushes advance results to spectator streams.
type snapshotPublisher interface {
	Publish(battleID string, snap battle.Snapshot)
}

type startBattleRequest struct {
	Asset   string   `json:"asset"`
	UserIDs []string `json:"user_ids"`
}

type startBattleResponse struct {
	BattleID     string          `json:"battle_id"`
	Asset        string          `json:"asset"`
	TotalBars    int             `json:"total_bars"`
	InitialState battle.Snapshot `json:"initial_state"`
}

type tradeRequest struct {
	BattleID    string   `json:"battle_id"`
	UserID      string   `json:"user_id"`
	Action      string   `json:"action"`
	Size        int      `json:"size,omitempty"`
	StopLoss    *float64 `json:"sl,omitempty"`
	TakeProfit  *float64 `json:"tp,omitempty"`
	TradedAsset string   `json:"traded_asset,omitempty"`
}

// StartBattleHandler creates a new duel over the requested primary
// asset and returns its id, bar count, and initial state.
func StartBattleHandler(registry battleRegistry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload startBattleRequest
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			http.Error(w, "Invalid payload", http.StatusBadRequest)
			return
		}

		asset := strings.ToUpper(strings.TrimSpace(payload.Asset))
		if !isAvailableAsset(asset) {
			http.Error(w, "Invalid asset. Choose ES or NQ.", http.StatusBadRequest)
			return
		}
		if len(payload.UserIDs) == 0 {
			http.Error(w, "At least one user id is required", http.StatusBadRequest)
			return
		}

		b, err := registry.Create(asset, payload.UserIDs)
		if err != nil {
			logger.WithError(err).WithField("asset", asset).Error("failed to create battle")
			writeBattleError(w, err)
			return
		}

		writeJSON(w, startBattleResponse{
			BattleID:     b.ID(),
			Asset:        asset,
			TotalBars:    b.TotalBars(),
			InitialState: b.State(),
		})
	}
}

// AdvanceBarHandler moves one battle a single bar forward and publishes
// the resulting snapshot to spectators.
func AdvanceBarHandler(registry battleRegistry, publisher snapshotPublisher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		battleID := chi.URLParam(r, "battleID")

		b, err := registry.Get(battleID)
		if err != nil {
			writeBattleError(w, err)
			return
		}

		snap := b.Advance()
		if publisher != nil {
			publisher.Publish(battleID, snap)
		}

		writeJSON(w, snap)
	}
}

// PlaceTradeHandler executes a BUY/SELL/CLOSE instruction for one
// participant of one battle.
func PlaceTradeHandler(registry battleRegistry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload tradeRequest
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			http.Error(w, "Invalid payload", http.StatusBadRequest)
			return
		}

		b, err := registry.Get(payload.BattleID)
		if err != nil {
			writeBattleError(w, err)
			return
		}

		result, err := b.Order(battle.OrderRequest{
			UserID:       payload.UserID,
			Action:       battle.Action(strings.ToUpper(payload.Action)),
			Size:         payload.Size,
			StopLoss:     payload.StopLoss,
			TakeProfit:   payload.TakeProfit,
			TradedSymbol: strings.ToUpper(payload.TradedAsset),
		})
		if err != nil {
			writeBattleError(w, err)
			return
		}

		writeJSON(w, result)
	}
}

// GetStateHandler returns the current read-only snapshot of a battle.
func GetStateHandler(registry battleRegistry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b, err := registry.Get(chi.URLParam(r, "battleID"))
		if err != nil {
			writeBattleError(w, err)
			return
		}
		writeJSON(w, b.State())
	}
}

func isAvailableAsset(symbol string) bool {
	for _, available := range marketdata.AvailableAssets() {
		if symbol == available {
			return true
		}
	}
	return false
}

// writeBattleError maps the engine's error taxonomy onto HTTP statuses:
// unknown battle/user are 404, client-input validation is 400, a
// finished battle is 409, anything else is a 500.
func writeBattleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, battle.ErrNotFound), errors.Is(err, battle.ErrUnknownUser):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, battle.ErrBattleFinished):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, battle.ErrEndOfData),
		errors.Is(err, battle.ErrInvalidSize),
		errors.Is(err, battle.ErrInvalidStopTarget),
		errors.Is(err, battle.ErrInvalidOrderState),
		errors.Is(err, battle.ErrTradeLimitReached),
		errors.Is(err, battle.ErrAssetMismatch),
		errors.Is(err, marketdata.ErrUnknownSymbol):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, battle.ErrDataUnavailable):
		// Creation-time failure: the data is the server's problem.
		http.Error(w, err.Error(), http.StatusInternalServerError)
	default:
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.WithError(err).Error("failed to encode response")
	}
}
