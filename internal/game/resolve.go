package game

// resolveRound runs once both choices of the current round are open. Called
// with the lock held; snap was taken before this call's first mutation so a
// settlement transfer failure can revert the whole reveal.
func (c *Contract) resolveRound(m *Match, rs *RoundState, snap txnSnapshot) error {
	round := m.CurrentRound
	p1c, p2c := rs.P1Choice, rs.P2Choice

	recordChoice(c.statsFor(m.Player1), p1c)
	recordChoice(c.statsFor(m.Player2), p2c)

	if p1c == p2c {
		rs.TieCount++
		if rs.TieCount >= TieCap {
			return c.settleDraw(m, rs, snap)
		}
		// Overtime: same round number replays with fresh commits; the tie
		// counter carries over.
		tie := rs.TieCount
		*rs = RoundState{
			TieCount:       tie,
			CommitDeadline: c.now().Add(c.params.CommitTimeout),
		}
		m.State = StateBothJoined
		c.emit(EventRoundResult, m.ID, map[string]any{
			"round":       round,
			"winner":      "",
			"tie_count":   tie,
			"is_overtime": true,
		})
		return nil
	}

	winner, loser := m.Player1, m.Player2
	if p2c.Beats(p1c) {
		winner, loser = m.Player2, m.Player1
	}
	wins := &m.P1Wins
	if winner == m.Player2 {
		wins = &m.P2Wins
	}
	*wins++

	overtime := rs.TieCount > 0
	ws, ls := c.statsFor(winner), c.statsFor(loser)
	ws.Wins++
	ws.CurrentStreak++
	if ws.CurrentStreak > ws.BestStreak {
		ws.BestStreak = ws.CurrentStreak
	}
	ls.Losses++
	ls.CurrentStreak = 0
	if overtime {
		ws.OvertimeWins++
		ls.OvertimeLosses++
	}

	if *wins >= m.GameMode.WinsRequired() {
		return c.settleWin(m, rs, winner, round, overtime, snap)
	}

	m.CurrentRound++
	c.rounds[roundKey{m.ID, m.CurrentRound}] = &RoundState{
		CommitDeadline: c.now().Add(c.params.CommitTimeout),
	}
	m.State = StateBothJoined
	c.emit(EventRoundResult, m.ID, map[string]any{
		"round":       round,
		"winner":      winner,
		"tie_count":   rs.TieCount,
		"is_overtime": overtime,
	})
	return nil
}

func recordChoice(s *PlayerStats, ch Choice) {
	switch ch {
	case ChoiceRock:
		s.RockCount++
	case ChoicePaper:
		s.PaperCount++
	case ChoiceScissors:
		s.ScissorsCount++
	}
}
