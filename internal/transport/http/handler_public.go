package httptransport

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"rps-arena/internal/feed"
	"rps-arena/internal/game"
	"rps-arena/internal/store"

	"github.com/go-chi/chi/v5"
)

var ssePingInterval = 15 * time.Second

// PublicHandlers serve unauthenticated reads: match browsing, round state,
// player stats, archived history and the live event stream.
type PublicHandlers struct {
	contract *game.Contract
	events   *feed.Buffer
	archive  *store.Store // nil when the archive is disabled
}

func NewPublicHandlers(contract *game.Contract, events *feed.Buffer, archive *store.Store) *PublicHandlers {
	return &PublicHandlers{contract: contract, events: events, archive: archive}
}

// matchView is the public JSON shape of a match. Commitments and choices
// live on the round view instead.
type matchView struct {
	ID           uint64    `json:"id"`
	Player1      string    `json:"player1"`
	Player2      string    `json:"player2,omitempty"`
	BetAmount    int64     `json:"bet_amount"`
	GameMode     string    `json:"game_mode"`
	State        string    `json:"state"`
	CurrentRound uint8     `json:"current_round"`
	P1Wins       uint8     `json:"p1_wins"`
	P2Wins       uint8     `json:"p2_wins"`
	IsPrivate    bool      `json:"is_private"`
	CreatedAt    time.Time `json:"created_at"`
	ExpiresAt    time.Time `json:"expires_at"`
}

func toMatchView(m game.Match) matchView {
	return matchView{
		ID:           m.ID,
		Player1:      m.Player1,
		Player2:      m.Player2,
		BetAmount:    m.BetAmount,
		GameMode:     m.GameMode.String(),
		State:        m.State.String(),
		CurrentRound: m.CurrentRound,
		P1Wins:       m.P1Wins,
		P2Wins:       m.P2Wins,
		IsPrivate:    m.IsPrivate,
		CreatedAt:    m.CreatedAt,
		ExpiresAt:    m.ExpiresAt,
	}
}

type roundView struct {
	Round          uint8     `json:"round"`
	P1Committed    bool      `json:"p1_committed"`
	P2Committed    bool      `json:"p2_committed"`
	P1Revealed     bool      `json:"p1_revealed"`
	P2Revealed     bool      `json:"p2_revealed"`
	P1Choice       string    `json:"p1_choice"`
	P2Choice       string    `json:"p2_choice"`
	TieCount       uint8     `json:"tie_count"`
	CommitDeadline time.Time `json:"commit_deadline"`
	RevealDeadline time.Time `json:"reveal_deadline"`
}

func (h *PublicHandlers) OpenMatches() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, offset := ParsePagination(r)
		ids := h.contract.GetOpenMatches(offset, limit)
		items := make([]matchView, 0, len(ids))
		for _, id := range ids {
			m, err := h.contract.GetMatch(id)
			if err != nil {
				continue
			}
			items = append(items, toMatchView(m))
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"items": items, "limit": limit, "offset": offset})
	}
}

func (h *PublicHandlers) OpenMatchCount() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"count": h.contract.GetOpenMatchCount()})
	}
}

func (h *PublicHandlers) Match() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := matchIDParam(r)
		if !ok {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		m, err := h.contract.GetMatch(id)
		if err != nil {
			writeGameError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(toMatchView(m))
	}
}

func (h *PublicHandlers) Round() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := matchIDParam(r)
		if !ok {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		round, err := strconv.ParseUint(chi.URLParam(r, "round"), 10, 8)
		if err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		rs, err := h.contract.GetRoundState(id, uint8(round))
		if err != nil {
			writeGameError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(roundView{
			Round:          uint8(round),
			P1Committed:    !rs.P1Commit.IsZero(),
			P2Committed:    !rs.P2Commit.IsZero(),
			P1Revealed:     rs.P1Revealed,
			P2Revealed:     rs.P2Revealed,
			P1Choice:       rs.P1Choice.String(),
			P2Choice:       rs.P2Choice.String(),
			TieCount:       rs.TieCount,
			CommitDeadline: rs.CommitDeadline,
			RevealDeadline: rs.RevealDeadline,
		})
	}
}

func (h *PublicHandlers) PlayerStats() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		addr := chi.URLParam(r, "address")
		stats := h.contract.GetPlayerStats(addr)
		_ = json.NewEncoder(w).Encode(map[string]any{"address": addr, "stats": stats})
	}
}

func (h *PublicHandlers) PlayerMatches() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		addr := chi.URLParam(r, "address")
		ids := h.contract.GetActiveMatches(addr)
		items := make([]matchView, 0, len(ids))
		for _, id := range ids {
			m, err := h.contract.GetMatch(id)
			if err != nil {
				continue
			}
			items = append(items, toMatchView(m))
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"items": items})
	}
}

// History pages completed matches out of the archive. 404 when the server
// runs without one.
func (h *PublicHandlers) History() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.archive == nil {
			WriteHTTPError(w, http.StatusNotFound, "archive_disabled")
			return
		}
		limit, offset := ParsePagination(r)
		player := r.URL.Query().Get("player")
		items, err := h.archive.ListMatchHistory(r.Context(), player, limit, offset)
		if err != nil {
			WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
			return
		}
		total, err := h.archive.CountMatchHistory(r.Context(), player)
		if err != nil {
			WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"items": items, "total": total, "limit": limit, "offset": offset})
	}
}

func (h *PublicHandlers) HistoryRounds() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.archive == nil {
			WriteHTTPError(w, http.StatusNotFound, "archive_disabled")
			return
		}
		id, ok := matchIDParam(r)
		if !ok {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		items, err := h.archive.ListRoundsByMatch(r.Context(), id)
		if err != nil {
			WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"items": items})
	}
}

// Events streams contract signals over SSE. Reconnecting clients send
// Last-Event-ID and get the buffered backlog replayed first.
func (h *PublicHandlers) Events() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			WriteHTTPError(w, http.StatusInternalServerError, "stream_not_supported")
			return
		}
		eventSSEConnectionsTotal.Add(1)
		eventSSEConnectionsActive.Add(1)
		defer eventSSEConnectionsActive.Add(-1)

		feed.SetSSEHeaders(w)

		// Register before writing the backlog: anything newer than the
		// snapshot arrives on the channel, so the client misses nothing
		// between replay and live delivery.
		backlog, ch := h.events.SubscribeWithReplay(r.Header.Get("Last-Event-ID"))
		defer h.events.Unsubscribe(ch)
		for _, ev := range backlog {
			if err := feed.WriteSSE(w, ev); err != nil {
				return
			}
		}
		flusher.Flush()

		ticker := time.NewTicker(ssePingInterval)
		defer ticker.Stop()

		for {
			select {
			case <-r.Context().Done():
				return
			case ev, ok := <-ch:
				if !ok {
					return
				}
				if err := feed.WriteSSE(w, ev); err != nil {
					return
				}
				flusher.Flush()
			case <-ticker.C:
				ping := feed.StreamEvent{
					Event:    "ping",
					ServerTS: time.Now().UnixMilli(),
					Data:     map[string]any{"ts": time.Now().UnixMilli()},
				}
				if err := feed.WriteSSE(w, ping); err != nil {
					return
				}
				flusher.Flush()
			}
		}
	}
}

// HistoryMatch reads one archived match; falls back cleanly when unknown.
func (h *PublicHandlers) HistoryMatch() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.archive == nil {
			WriteHTTPError(w, http.StatusNotFound, "archive_disabled")
			return
		}
		id, ok := matchIDParam(r)
		if !ok {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		m, err := h.archive.GetMatch(r.Context(), id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				WriteHTTPError(w, http.StatusNotFound, "not_found")
				return
			}
			WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
			return
		}
		_ = json.NewEncoder(w).Encode(m)
	}
}
