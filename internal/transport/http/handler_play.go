package httptransport

import (
	"encoding/json"
	"net/http"
	"strconv"

	"rps-arena/internal/game"

	"github.com/go-chi/chi/v5"
)

// PlayHandlers cover the authenticated match lifecycle: create, join,
// cancel, commit, reveal and timeout claims.
type PlayHandlers struct {
	contract *game.Contract
}

func NewPlayHandlers(contract *game.Contract) *PlayHandlers {
	return &PlayHandlers{contract: contract}
}

func matchIDParam(r *http.Request) (uint64, bool) {
	id, err := strconv.ParseUint(chi.URLParam(r, "match_id"), 10, 64)
	return id, err == nil
}

func (h *PlayHandlers) Create() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, _ := PlayerFromContext(r.Context())
		var body struct {
			BetAmount   int64  `json:"bet_amount"`
			GameMode    string `json:"game_mode"`
			PrivateCode string `json:"private_code"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		mode, ok := parseGameMode(body.GameMode)
		if !ok {
			writeGameError(w, game.ErrInvalidMode)
			return
		}
		var codeHash game.Commitment
		if body.PrivateCode != "" {
			codeHash = game.HashPrivateCode(body.PrivateCode)
		}
		matchCreateTotal.Add(1)
		id, err := h.contract.CreateMatch(p.Address, body.BetAmount, mode, codeHash)
		if err != nil {
			matchCreateErrors.Add(1)
			writeGameError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"match_id": id})
	}
}

func (h *PlayHandlers) Join() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, _ := PlayerFromContext(r.Context())
		id, ok := matchIDParam(r)
		if !ok {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		var body struct {
			BetAmount int64 `json:"bet_amount"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		if err := h.contract.JoinMatch(p.Address, id, body.BetAmount); err != nil {
			writeGameError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true})
	}
}

func (h *PlayHandlers) JoinPrivate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, _ := PlayerFromContext(r.Context())
		id, ok := matchIDParam(r)
		if !ok {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		var body struct {
			BetAmount int64  `json:"bet_amount"`
			Code      string `json:"code"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		if err := h.contract.JoinPrivateMatch(p.Address, id, body.BetAmount, body.Code); err != nil {
			writeGameError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true})
	}
}

func (h *PlayHandlers) Cancel() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, _ := PlayerFromContext(r.Context())
		id, ok := matchIDParam(r)
		if !ok {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		if err := h.contract.CancelMatch(p.Address, id); err != nil {
			writeGameError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true})
	}
}

func (h *PlayHandlers) Commit() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, _ := PlayerFromContext(r.Context())
		id, ok := matchIDParam(r)
		if !ok {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		var body struct {
			Commitment string `json:"commitment"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		commit, err := game.ParseCommitment(body.Commitment)
		if err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_commitment")
			return
		}
		if err := h.contract.CommitChoice(p.Address, id, commit); err != nil {
			writeGameError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true})
	}
}

func (h *PlayHandlers) Reveal() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, _ := PlayerFromContext(r.Context())
		id, ok := matchIDParam(r)
		if !ok {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		var body struct {
			Choice string `json:"choice"`
			Salt   string `json:"salt"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		choice, ok := game.ParseChoice(body.Choice)
		if !ok {
			writeGameError(w, game.ErrInvalidReveal)
			return
		}
		salt, err := game.ParseSalt(body.Salt)
		if err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_salt")
			return
		}
		if err := h.contract.RevealChoice(p.Address, id, choice, salt); err != nil {
			writeGameError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true})
	}
}

func (h *PlayHandlers) ClaimTimeout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := matchIDParam(r)
		if !ok {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		timeoutClaimTotal.Add(1)
		if err := h.contract.ClaimTimeout(id); err != nil {
			writeGameError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true})
	}
}

func parseGameMode(s string) (game.GameMode, bool) {
	switch s {
	case "", "bo1":
		return game.ModeBO1, true
	case "bo3":
		return game.ModeBO3, true
	case "bo5":
		return game.ModeBO5, true
	}
	return 0, false
}
