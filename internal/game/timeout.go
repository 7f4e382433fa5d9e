package game

import (
	"rps-arena/internal/bank"
)

// ClaimTimeout forces resolution of a stalled match once the applicable
// deadline has passed. Callable by anyone; the contract does not run a
// scheduler, so somebody has to ask.
//
// Forfeit awards deliberately bypass commission: the non-faulting player
// takes the full pot. Mutual abandonment (neither side acted in time)
// refunds both bets. Timeout resolution never touches player stats.
func (c *Contract) ClaimTimeout(id uint64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	m, ok := c.matches[id]
	if !ok {
		return ErrNotFound
	}
	if m.State.Terminal() {
		return ErrWrongState
	}
	now := c.now()

	switch m.State {
	case StateWaitingForP2:
		if !now.After(m.ExpiresAt) {
			return ErrNotExpired
		}
		snap := c.snapshot(m)
		m.State = StateExpired
		c.removeOpen(id)
		c.removeActive(m.Player1, id)
		err := c.bank.Payout([]bank.Transfer{
			{To: m.Player1, Amount: m.BetAmount, Kind: bank.KindRefund, MatchID: id},
		})
		if err != nil {
			c.restore(snap)
			return ErrTransferFailed
		}
		c.emit(EventMatchExpired, id, map[string]any{
			"reason":  "unjoined",
			"player1": m.Player1,
		})
		c.flushEvents()
		return nil

	case StateBothJoined:
		rs := c.currentRound(m)
		if !now.After(rs.CommitDeadline) {
			return ErrNotExpired
		}
		return c.expireUnfinished(m, "commit_timeout",
			!rs.P1Commit.IsZero(), !rs.P2Commit.IsZero())

	case StateBothCommitted, StateP1Revealed, StateP2Revealed:
		rs := c.currentRound(m)
		if !now.After(rs.RevealDeadline) {
			return ErrNotExpired
		}
		return c.expireUnfinished(m, "reveal_timeout", rs.P1Revealed, rs.P2Revealed)
	}
	return ErrWrongState
}

// expireUnfinished settles a mid-round timeout: the player who acted takes
// the whole pot, or both are refunded when neither did.
func (c *Contract) expireUnfinished(m *Match, reason string, p1Acted, p2Acted bool) error {
	snap := c.snapshot(m)
	m.State = StateExpired
	c.removeActive(m.Player1, m.ID)
	c.removeActive(m.Player2, m.ID)

	pot := 2 * m.BetAmount
	var transfers []bank.Transfer
	winner := ""
	switch {
	case p1Acted && !p2Acted:
		winner = m.Player1
		transfers = []bank.Transfer{{To: m.Player1, Amount: pot, Kind: bank.KindPayout, MatchID: m.ID}}
	case p2Acted && !p1Acted:
		winner = m.Player2
		transfers = []bank.Transfer{{To: m.Player2, Amount: pot, Kind: bank.KindPayout, MatchID: m.ID}}
	default:
		transfers = []bank.Transfer{
			{To: m.Player1, Amount: m.BetAmount, Kind: bank.KindRefund, MatchID: m.ID},
			{To: m.Player2, Amount: m.BetAmount, Kind: bank.KindRefund, MatchID: m.ID},
		}
	}
	if err := c.bank.Payout(transfers); err != nil {
		c.restore(snap)
		return ErrTransferFailed
	}

	c.emit(EventMatchExpired, m.ID, map[string]any{
		"reason":  reason,
		"player1": m.Player1,
		"player2": m.Player2,
		"winner":  winner,
		"round":   m.CurrentRound,
	})
	c.flushEvents()
	return nil
}
