package game

import (
	"rps-arena/internal/bank"
)

// settleWin pays the decisive winner and disburses commission. State is
// fully transitioned before any funds move; a rejected transfer reverts the
// entire call via snap and leaves the match retry-able.
func (c *Contract) settleWin(m *Match, rs *RoundState, winner string, round uint8, overtime bool, snap txnSnapshot) error {
	pot := 2 * m.BetAmount
	commission := pot * int64(c.params.CommissionRateBps) / 10000
	payout := pot - commission

	c.statsFor(m.Player1).TotalMatches++
	c.statsFor(m.Player2).TotalMatches++

	m.State = StateCompleted
	c.removeActive(m.Player1, m.ID)
	c.removeActive(m.Player2, m.ID)

	transfers := make([]bank.Transfer, 0, 1+len(c.params.CommissionWallets))
	transfers = append(transfers, bank.Transfer{
		To: winner, Amount: payout, Kind: bank.KindPayout, MatchID: m.ID,
	})
	transfers = append(transfers, c.commissionTransfers(commission, m.ID)...)
	if err := c.bank.Payout(transfers); err != nil {
		c.restore(snap)
		return ErrTransferFailed
	}

	c.emit(EventRoundResult, m.ID, map[string]any{
		"round":       round,
		"winner":      winner,
		"tie_count":   rs.TieCount,
		"is_overtime": overtime,
	})
	c.emit(EventMatchCompleted, m.ID, map[string]any{
		"player1":    m.Player1,
		"player2":    m.Player2,
		"winner":     winner,
		"payout":     payout,
		"commission": commission,
		"was_draw":   false,
		"game_mode":  m.GameMode.String(),
		"bet_amount": m.BetAmount,
	})
	return nil
}

// settleDraw ends a match forced to a draw by the tie cap: each player gets
// their bet back and no commission is taken.
func (c *Contract) settleDraw(m *Match, rs *RoundState, snap txnSnapshot) error {
	round := m.CurrentRound

	for _, p := range []string{m.Player1, m.Player2} {
		s := c.statsFor(p)
		s.TotalMatches++
		s.Ties++
		s.CurrentStreak = 0
	}

	m.State = StateCompleted
	c.removeActive(m.Player1, m.ID)
	c.removeActive(m.Player2, m.ID)

	err := c.bank.Payout([]bank.Transfer{
		{To: m.Player1, Amount: m.BetAmount, Kind: bank.KindRefund, MatchID: m.ID},
		{To: m.Player2, Amount: m.BetAmount, Kind: bank.KindRefund, MatchID: m.ID},
	})
	if err != nil {
		c.restore(snap)
		return ErrTransferFailed
	}

	c.emit(EventRoundResult, m.ID, map[string]any{
		"round":       round,
		"winner":      "",
		"tie_count":   rs.TieCount,
		"is_overtime": true,
	})
	c.emit(EventMatchCompleted, m.ID, map[string]any{
		"player1":    m.Player1,
		"player2":    m.Player2,
		"winner":     "",
		"payout":     int64(0),
		"commission": int64(0),
		"was_draw":   true,
		"game_mode":  m.GameMode.String(),
		"bet_amount": m.BetAmount,
	})
	return nil
}

// commissionTransfers splits commission across the configured wallets. Every
// wallet but the last gets the floored even share; the last wallet takes the
// remainder so no dust is lost to rounding. Zero shares are skipped.
func (c *Contract) commissionTransfers(commission int64, matchID uint64) []bank.Transfer {
	if commission <= 0 {
		return nil
	}
	wallets := c.params.CommissionWallets
	n := int64(len(wallets))
	share := commission / n
	out := make([]bank.Transfer, 0, n)
	for i, w := range wallets {
		amt := share
		if int64(i) == n-1 {
			amt = commission - share*(n-1)
		}
		if amt <= 0 {
			continue
		}
		out = append(out, bank.Transfer{
			To: w, Amount: amt, Kind: bank.KindCommission, MatchID: matchID,
		})
	}
	return out
}
