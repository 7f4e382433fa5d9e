package httptransport

import (
	"encoding/json"
	"net/http"
	"time"

	"rps-arena/internal/bank"
	"rps-arena/internal/game"
	"rps-arena/internal/store"
)

// AdminHandlers expose the owner-gated contract surface plus bank plumbing.
// Authentication is the admin API key; calls into the contract run as the
// configured owner address.
type AdminHandlers struct {
	contract *game.Contract
	bank     *bank.Bank
	owner    string
	archive  *store.Store // nil when the archive is disabled
}

func NewAdminHandlers(contract *game.Contract, b *bank.Bank, owner string, archive *store.Store) *AdminHandlers {
	return &AdminHandlers{contract: contract, bank: b, owner: owner, archive: archive}
}

func (h *AdminHandlers) Health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]any{"ok": true, "paused": h.contract.Paused()}
		if h.archive != nil {
			if err := h.archive.Ping(r.Context()); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				resp["ok"] = false
				resp["archive"] = "down"
				_ = json.NewEncoder(w).Encode(resp)
				return
			}
			resp["archive"] = "up"
		}
		_ = json.NewEncoder(w).Encode(resp)
	}
}

func (h *AdminHandlers) BetLimits() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			MinBet int64 `json:"min_bet"`
			MaxBet int64 `json:"max_bet"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		if err := h.contract.SetBetLimits(h.owner, body.MinBet, body.MaxBet); err != nil {
			writeGameError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true})
	}
}

func (h *AdminHandlers) CommissionRate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			RateBps uint16 `json:"rate_bps"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		if err := h.contract.SetCommissionRate(h.owner, body.RateBps); err != nil {
			writeGameError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true})
	}
}

func (h *AdminHandlers) CommissionWallets() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			_ = json.NewEncoder(w).Encode(map[string]any{"wallets": h.contract.GetParams().CommissionWallets})
		case http.MethodPost:
			var body struct {
				Wallets []string `json:"wallets"`
			}
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				WriteHTTPError(w, http.StatusBadRequest, "invalid_json")
				return
			}
			if err := h.contract.SetCommissionWallets(h.owner, body.Wallets); err != nil {
				writeGameError(w, err)
				return
			}
			_ = json.NewEncoder(w).Encode(map[string]any{"ok": true})
		default:
			WriteHTTPError(w, http.StatusMethodNotAllowed, "method_not_allowed")
		}
	}
}

func (h *AdminHandlers) Timeouts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			CommitTimeoutSec int64 `json:"commit_timeout_sec"`
			RevealTimeoutSec int64 `json:"reveal_timeout_sec"`
			MatchExpirySec   int64 `json:"match_expiry_sec"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		err := h.contract.SetTimeouts(h.owner,
			time.Duration(body.CommitTimeoutSec)*time.Second,
			time.Duration(body.RevealTimeoutSec)*time.Second,
			time.Duration(body.MatchExpirySec)*time.Second)
		if err != nil {
			writeGameError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true})
	}
}

func (h *AdminHandlers) Pause() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h.contract.Pause(h.owner); err != nil {
			writeGameError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true, "paused": true})
	}
}

func (h *AdminHandlers) Unpause() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h.contract.Unpause(h.owner); err != nil {
			writeGameError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true, "paused": false})
	}
}

func (h *AdminHandlers) Topup() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Address string `json:"address"`
			Amount  int64  `json:"amount"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		if body.Address == "" || body.Amount <= 0 {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		if err := h.bank.Deposit(body.Address, body.Amount); err != nil {
			writeGameError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true, "balance": h.bank.Balance(body.Address)})
	}
}

// Bank pages the custodial ledger, newest entries first.
func (h *AdminHandlers) Bank() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, offset := ParsePagination(r)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"escrow":  h.bank.EscrowBalance(),
			"entries": h.bank.Entries(limit, offset),
			"limit":   limit,
			"offset":  offset,
		})
	}
}
