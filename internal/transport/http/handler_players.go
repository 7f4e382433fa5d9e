package httptransport

import (
	"encoding/json"
	"errors"
	"net/http"

	"rps-arena/internal/bank"
)

// PlayerHandlers cover onboarding: register an account, inspect your own.
type PlayerHandlers struct {
	players *PlayerRegistry
	bank    *bank.Bank
	faucet  int64
}

func NewPlayerHandlers(players *PlayerRegistry, b *bank.Bank, faucet int64) *PlayerHandlers {
	return &PlayerHandlers{players: players, bank: b, faucet: faucet}
}

// Register creates a player and credits the faucet amount so new accounts
// can bet immediately. The API key is returned exactly once.
func (h *PlayerHandlers) Register() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Name string `json:"name"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		p, err := h.players.Register(body.Name)
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidName):
				WriteHTTPError(w, http.StatusBadRequest, "invalid_name")
			case errors.Is(err, ErrNameTaken):
				WriteHTTPError(w, http.StatusConflict, "name_taken")
			default:
				WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
			}
			return
		}
		if h.faucet > 0 {
			_ = h.bank.Deposit(p.Address, h.faucet)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"address": p.Address,
			"name":    p.Name,
			"api_key": p.APIKey,
			"balance": h.bank.Balance(p.Address),
		})
	}
}

func (h *PlayerHandlers) Me() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, _ := PlayerFromContext(r.Context())
		_ = json.NewEncoder(w).Encode(map[string]any{
			"address": p.Address,
			"name":    p.Name,
			"balance": h.bank.Balance(p.Address),
		})
	}
}
