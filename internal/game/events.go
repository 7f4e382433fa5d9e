package game

import "github.com/rs/zerolog/log"

// Signal names carried on the event feed. Payload keys are snake_case and
// stable; the UI and notification collaborators key off these.
const (
	EventMatchCreated    = "match_created"
	EventMatchJoined     = "match_joined"
	EventChoiceCommitted = "choice_committed"
	EventChoiceRevealed  = "choice_revealed"
	EventRoundResult     = "round_result"
	EventMatchCompleted  = "match_completed"
	EventMatchCancelled  = "match_cancelled"
	EventMatchExpired    = "match_expired"
)

// Emitter receives contract state-change signals. Signals are delivered with
// the contract lock held, and only after the operation that produced them has
// committed; Emit must not call back into the contract or block.
type Emitter interface {
	Emit(event string, matchID uint64, data map[string]any)
}

type multiEmitter []Emitter

func (m multiEmitter) Emit(event string, matchID uint64, data map[string]any) {
	for _, e := range m {
		e.Emit(event, matchID, data)
	}
}

// CombineEmitters fans one signal stream out to several consumers.
func CombineEmitters(emitters ...Emitter) Emitter {
	out := make(multiEmitter, 0, len(emitters))
	for _, e := range emitters {
		if e != nil {
			out = append(out, e)
		}
	}
	if len(out) == 1 {
		return out[0]
	}
	return out
}

type stagedEvent struct {
	event   string
	matchID uint64
	data    map[string]any
}

// emit stages a signal on the in-flight operation. Staged signals reach the
// emitter only through flushEvents once the operation commits; an operation
// that rolls back drops them instead, so consumers never observe state that
// was reverted.
func (c *Contract) emit(event string, matchID uint64, data map[string]any) {
	c.staged = append(c.staged, stagedEvent{event: event, matchID: matchID, data: data})
}

func (c *Contract) flushEvents() {
	for _, ev := range c.staged {
		log.Debug().Str("event", ev.event).Uint64("match_id", ev.matchID).Fields(ev.data).Msg("contract event")
		if c.emitter != nil {
			c.emitter.Emit(ev.event, ev.matchID, ev.data)
		}
	}
	c.staged = c.staged[:0]
}

func (c *Contract) dropEvents() {
	c.staged = c.staged[:0]
}
