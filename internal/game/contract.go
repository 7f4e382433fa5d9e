package game

import (
	"sort"
	"sync"
	"time"

	"rps-arena/internal/bank"
)

// Params bound the contract's behavior. Bet limits and timeouts apply at
// call time only; changing them later never retroactively invalidates
// existing matches.
type Params struct {
	Owner             string
	MinBet            int64
	MaxBet            int64
	CommissionRateBps uint16
	CommissionWallets []string
	CommitTimeout     time.Duration
	RevealTimeout     time.Duration
	MatchExpiry       time.Duration
}

// MaxCommissionRateBps caps the configurable commission at 10%.
const MaxCommissionRateBps = 1000

// Contract is the single-ledger match state machine. Every exported
// operation is one serialized, all-or-nothing transition: the mutex spans
// the whole call, and fund movements are validated and applied as the last
// step so a failed transfer rolls the transition back (see restore). Events
// are staged per call and flushed only when the transition commits, so a
// rolled-back call is invisible to emitters too.
//
// There is no background scheduler; deadlines are checked lazily against
// the clock at call time.
type Contract struct {
	mu      sync.Mutex
	params  Params
	bank    *bank.Bank
	emitter Emitter
	now     func() time.Time

	paused      bool
	nextMatchID uint64
	staged      []stagedEvent

	matches map[uint64]*Match
	rounds  map[roundKey]*RoundState
	stats   map[string]*PlayerStats

	// Open-match discovery list: order-preserving on append, swap-remove
	// on delete. Consumers page through it and may not rely on order.
	openList  []uint64
	openIndex map[uint64]int

	activeByPlayer map[string]map[uint64]struct{}
}

func New(p Params, b *bank.Bank, em Emitter) (*Contract, error) {
	if p.Owner == "" {
		return nil, ErrNotOwner
	}
	if len(p.CommissionWallets) == 0 {
		return nil, ErrNoWallets
	}
	if p.CommissionRateBps > MaxCommissionRateBps {
		return nil, ErrRateTooHigh
	}
	if p.MinBet <= 0 || p.MaxBet < p.MinBet {
		return nil, ErrInvalidBet
	}
	if p.CommitTimeout <= 0 || p.RevealTimeout <= 0 || p.MatchExpiry <= 0 {
		return nil, ErrInvalidTimeout
	}
	p.CommissionWallets = append([]string(nil), p.CommissionWallets...)
	return &Contract{
		params:         p,
		bank:           b,
		emitter:        em,
		now:            time.Now,
		matches:        map[uint64]*Match{},
		rounds:         map[roundKey]*RoundState{},
		stats:          map[string]*PlayerStats{},
		openIndex:      map[uint64]int{},
		activeByPlayer: map[string]map[uint64]struct{}{},
	}, nil
}

// ---- read operations ----

func (c *Contract) GetMatch(id uint64) (Match, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	m, ok := c.matches[id]
	if !ok {
		return Match{}, ErrNotFound
	}
	return *m, nil
}

func (c *Contract) GetRoundState(id uint64, round uint8) (RoundState, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.matches[id]; !ok {
		return RoundState{}, ErrNotFound
	}
	rs, ok := c.rounds[roundKey{id, round}]
	if !ok {
		return RoundState{}, nil
	}
	return *rs, nil
}

// GetOpenMatches pages through joinable match ids. Out-of-range pages
// return empty rather than erroring.
func (c *Contract) GetOpenMatches(offset, limit int) []uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if offset < 0 || limit <= 0 || offset >= len(c.openList) {
		return []uint64{}
	}
	end := offset + limit
	if end > len(c.openList) {
		end = len(c.openList)
	}
	out := make([]uint64, end-offset)
	copy(out, c.openList[offset:end])
	return out
}

func (c *Contract) GetOpenMatchCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.openList)
}

// GetActiveMatches lists non-terminal match ids the player participates in,
// ascending.
func (c *Contract) GetActiveMatches(player string) []uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]uint64, 0, len(c.activeByPlayer[player]))
	for id := range c.activeByPlayer[player] {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// GetPlayerStats returns a zero-valued snapshot for unknown players, never
// an error.
func (c *Contract) GetPlayerStats(player string) PlayerStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	if s, ok := c.stats[player]; ok {
		return *s
	}
	return PlayerStats{}
}

func (c *Contract) GetParams() Params {
	c.mu.Lock()
	defer c.mu.Unlock()
	p := c.params
	p.CommissionWallets = append([]string(nil), p.CommissionWallets...)
	return p
}

func (c *Contract) Paused() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.paused
}

// ---- internal helpers (lock held) ----

func (c *Contract) currentRound(m *Match) *RoundState {
	return c.rounds[roundKey{m.ID, m.CurrentRound}]
}

func (c *Contract) addOpen(id uint64) {
	c.openIndex[id] = len(c.openList)
	c.openList = append(c.openList, id)
}

func (c *Contract) removeOpen(id uint64) {
	pos, ok := c.openIndex[id]
	if !ok {
		return
	}
	last := len(c.openList) - 1
	moved := c.openList[last]
	c.openList[pos] = moved
	c.openIndex[moved] = pos
	c.openList = c.openList[:last]
	delete(c.openIndex, id)
}

func (c *Contract) isOpen(id uint64) bool {
	_, ok := c.openIndex[id]
	return ok
}

func (c *Contract) addActive(player string, id uint64) {
	set := c.activeByPlayer[player]
	if set == nil {
		set = map[uint64]struct{}{}
		c.activeByPlayer[player] = set
	}
	set[id] = struct{}{}
}

func (c *Contract) removeActive(player string, id uint64) {
	if player == "" {
		return
	}
	delete(c.activeByPlayer[player], id)
}

func (c *Contract) statsFor(player string) *PlayerStats {
	s, ok := c.stats[player]
	if !ok {
		s = &PlayerStats{}
		c.stats[player] = s
	}
	return s
}

// txnSnapshot captures everything a settlement-bearing transition may touch
// so a failed payout can revert the whole call.
type txnSnapshot struct {
	match    Match
	round    *RoundState
	key      roundKey
	p1Stats  *PlayerStats
	p2Stats  *PlayerStats
	wasOpen  bool
	p1Active bool
	p2Active bool
}

func (c *Contract) snapshot(m *Match) txnSnapshot {
	snap := txnSnapshot{
		match:    *m,
		key:      roundKey{m.ID, m.CurrentRound},
		wasOpen:  c.isOpen(m.ID),
		p1Active: c.hasActive(m.Player1, m.ID),
		p2Active: c.hasActive(m.Player2, m.ID),
	}
	if rs := c.currentRound(m); rs != nil {
		cp := *rs
		snap.round = &cp
	}
	if s, ok := c.stats[m.Player1]; ok {
		cp := *s
		snap.p1Stats = &cp
	}
	if m.Player2 != "" {
		if s, ok := c.stats[m.Player2]; ok {
			cp := *s
			snap.p2Stats = &cp
		}
	}
	return snap
}

func (c *Contract) restore(snap txnSnapshot) {
	m := c.matches[snap.match.ID]
	*m = snap.match
	if snap.round != nil {
		cp := *snap.round
		c.rounds[snap.key] = &cp
	} else {
		delete(c.rounds, snap.key)
	}
	// A later round created by the failed transition is harmless to leave;
	// resolution never advances the round on a settlement path.
	restoreStats := func(player string, saved *PlayerStats) {
		if player == "" {
			return
		}
		if saved != nil {
			cp := *saved
			c.stats[player] = &cp
		} else {
			delete(c.stats, player)
		}
	}
	restoreStats(snap.match.Player1, snap.p1Stats)
	restoreStats(snap.match.Player2, snap.p2Stats)
	if snap.wasOpen && !c.isOpen(snap.match.ID) {
		c.addOpen(snap.match.ID)
	}
	if snap.p1Active {
		c.addActive(snap.match.Player1, snap.match.ID)
	}
	if snap.p2Active {
		c.addActive(snap.match.Player2, snap.match.ID)
	}
}

func (c *Contract) hasActive(player string, id uint64) bool {
	if player == "" {
		return false
	}
	_, ok := c.activeByPlayer[player][id]
	return ok
}
