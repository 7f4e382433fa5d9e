package feed

import (
	"strconv"
	"sync"
	"time"
)

// StreamEvent is one contract signal as served over the event stream.
type StreamEvent struct {
	EventID  string         `json:"event_id"`
	Event    string         `json:"event"`
	MatchID  uint64         `json:"match_id"`
	ServerTS int64          `json:"server_ts"`
	Data     map[string]any `json:"data"`
}

// Buffer is a bounded in-memory event log with live fan-out. It implements
// game.Emitter: Emit is called with the contract lock held, so nothing here
// may block — slow watchers drop events and recover via ReplayAfter.
type Buffer struct {
	mu       sync.Mutex
	nextID   int64
	max      int
	events   []StreamEvent
	watchers map[chan StreamEvent]struct{}
	closed   bool
}

func NewBuffer(max int) *Buffer {
	if max <= 0 {
		max = 500
	}
	return &Buffer{
		max:      max,
		watchers: map[chan StreamEvent]struct{}{},
	}
}

func (b *Buffer) Emit(event string, matchID uint64, data map[string]any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.nextID++
	ev := StreamEvent{
		EventID:  strconv.FormatInt(b.nextID, 10),
		Event:    event,
		MatchID:  matchID,
		ServerTS: time.Now().UnixMilli(),
		Data:     data,
	}
	b.events = append(b.events, ev)
	if len(b.events) > b.max {
		b.events = b.events[len(b.events)-b.max:]
	}
	for ch := range b.watchers {
		select {
		case ch <- ev:
		default:
		}
	}
}

// ReplayAfter returns buffered events newer than lastEventID. An empty or
// unparseable id replays the whole buffer.
func (b *Buffer) ReplayAfter(lastEventID string) []StreamEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.replayLocked(lastEventID)
}

func (b *Buffer) replayLocked(lastEventID string) []StreamEvent {
	if len(b.events) == 0 {
		return nil
	}
	last, err := strconv.ParseInt(lastEventID, 10, 64)
	if lastEventID == "" || err != nil {
		out := make([]StreamEvent, len(b.events))
		copy(out, b.events)
		return out
	}
	out := make([]StreamEvent, 0, len(b.events))
	for _, ev := range b.events {
		id, _ := strconv.ParseInt(ev.EventID, 10, 64)
		if id > last {
			out = append(out, ev)
		}
	}
	return out
}

func (b *Buffer) Subscribe() chan StreamEvent {
	ch := make(chan StreamEvent, 32)
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		close(ch)
		return ch
	}
	b.watchers[ch] = struct{}{}
	return ch
}

// SubscribeWithReplay registers a watcher and replays the backlog after
// lastEventID in one step, so no event can land between the replay snapshot
// and the subscription: everything after the returned backlog arrives on the
// channel.
func (b *Buffer) SubscribeWithReplay(lastEventID string) ([]StreamEvent, chan StreamEvent) {
	ch := make(chan StreamEvent, 32)
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		close(ch)
		return nil, ch
	}
	backlog := b.replayLocked(lastEventID)
	b.watchers[ch] = struct{}{}
	return backlog, ch
}

func (b *Buffer) Unsubscribe(ch chan StreamEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.watchers[ch]; ok {
		delete(b.watchers, ch)
		close(ch)
	}
}

func (b *Buffer) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for ch := range b.watchers {
		close(ch)
		delete(b.watchers, ch)
	}
}
