package archive

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"rps-arena/internal/game"
	"rps-arena/internal/store"
)

// Recorder copies terminal contract events into the match archive. It
// implements game.Emitter; Emit runs under the contract lock, so writes are
// handed to a background worker through a bounded queue and dropped with a
// warning when the queue is full. The archive is best-effort by design.
type Recorder struct {
	st   *store.Store
	jobs chan job
	done chan struct{}
}

type job struct {
	event   string
	matchID uint64
	data    map[string]any
}

func NewRecorder(st *store.Store) *Recorder {
	r := &Recorder{
		st:   st,
		jobs: make(chan job, 256),
		done: make(chan struct{}),
	}
	go r.run()
	return r
}

func (r *Recorder) Emit(event string, matchID uint64, data map[string]any) {
	switch event {
	case game.EventRoundResult, game.EventMatchCompleted, game.EventMatchExpired, game.EventMatchCancelled:
	default:
		return
	}
	select {
	case r.jobs <- job{event: event, matchID: matchID, data: data}:
	default:
		log.Warn().Str("event", event).Uint64("match_id", matchID).Msg("archive queue full, dropping event")
	}
}

// Close drains pending writes and stops the worker.
func (r *Recorder) Close() {
	close(r.jobs)
	<-r.done
}

func (r *Recorder) run() {
	defer close(r.done)
	for j := range r.jobs {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := r.handle(ctx, j); err != nil {
			log.Warn().Err(err).Str("event", j.event).Uint64("match_id", j.matchID).Msg("archive write failed")
		}
		cancel()
	}
}

func (r *Recorder) handle(ctx context.Context, j job) error {
	switch j.event {
	case game.EventRoundResult:
		_, err := r.st.InsertRound(ctx, store.RoundRecord{
			MatchID:    j.matchID,
			Round:      asInt(j.data["round"]),
			Winner:     asString(j.data["winner"]),
			TieCount:   asInt(j.data["tie_count"]),
			IsOvertime: asBool(j.data["is_overtime"]),
		})
		return err
	case game.EventMatchCompleted:
		return r.st.InsertMatch(ctx, store.MatchRecord{
			ID:         j.matchID,
			Player1:    asString(j.data["player1"]),
			Player2:    asString(j.data["player2"]),
			BetAmount:  asInt64(j.data["bet_amount"]),
			GameMode:   asString(j.data["game_mode"]),
			State:      "completed",
			Winner:     asString(j.data["winner"]),
			Payout:     asInt64(j.data["payout"]),
			Commission: asInt64(j.data["commission"]),
			WasDraw:    asBool(j.data["was_draw"]),
		})
	case game.EventMatchExpired:
		return r.st.InsertMatch(ctx, store.MatchRecord{
			ID:      j.matchID,
			Player1: asString(j.data["player1"]),
			Player2: asString(j.data["player2"]),
			State:   "expired",
			Winner:  asString(j.data["winner"]),
		})
	case game.EventMatchCancelled:
		return r.st.InsertMatch(ctx, store.MatchRecord{
			ID:        j.matchID,
			Player1:   asString(j.data["player1"]),
			BetAmount: asInt64(j.data["bet_amount"]),
			State:     "cancelled",
		})
	}
	return nil
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asBool(v any) bool {
	b, _ := v.(bool)
	return b
}

func asInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case uint8:
		return int(n)
	case uint64:
		return int(n)
	}
	return 0
}

func asInt64(v any) int64 {
	switch n := v.(type) {
	case int:
		return int64(n)
	case int64:
		return n
	case uint8:
		return int64(n)
	case uint64:
		return int64(n)
	}
	return 0
}
