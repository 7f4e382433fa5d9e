package game

import (
	"rps-arena/internal/bank"
)

// CreateMatch escrows the creator's bet and lists a new match waiting for an
// opponent. Private matches are discoverable only by code and never appear in
// the open list.
func (c *Contract) CreateMatch(creator string, bet int64, mode GameMode, codeHash Commitment) (uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.paused {
		return 0, ErrPaused
	}
	if !mode.Valid() {
		return 0, ErrInvalidMode
	}
	if bet < c.params.MinBet || bet > c.params.MaxBet {
		return 0, ErrInvalidBet
	}

	c.nextMatchID++
	id := c.nextMatchID
	now := c.now()

	if err := c.bank.Escrow(creator, bet, id); err != nil {
		c.nextMatchID--
		return 0, err
	}

	m := &Match{
		ID:              id,
		Player1:         creator,
		BetAmount:       bet,
		GameMode:        mode,
		State:           StateWaitingForP2,
		IsPrivate:       !codeHash.IsZero(),
		PrivateCodeHash: codeHash,
		CreatedAt:       now,
		ExpiresAt:       now.Add(c.params.MatchExpiry),
	}
	c.matches[id] = m
	c.addActive(creator, id)
	if !m.IsPrivate {
		c.addOpen(id)
	}

	c.emit(EventMatchCreated, id, map[string]any{
		"player1":    creator,
		"bet_amount": bet,
		"game_mode":  mode.String(),
		"is_private": m.IsPrivate,
		"expires_at": m.ExpiresAt,
	})
	c.flushEvents()
	return id, nil
}

// JoinMatch enters an open public match as player 2 with a matching bet.
// On success the first round begins and the commit window opens.
func (c *Contract) JoinMatch(player string, id uint64, bet int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.join(player, id, bet, "")
}

// JoinPrivateMatch is JoinMatch for private matches; the plaintext code must
// hash to the stored code hash.
func (c *Contract) JoinPrivateMatch(player string, id uint64, bet int64, code string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.join(player, id, bet, code)
}

func (c *Contract) join(player string, id uint64, bet int64, code string) error {
	if c.paused {
		return ErrPaused
	}
	m, ok := c.matches[id]
	if !ok {
		return ErrNotFound
	}
	if m.State != StateWaitingForP2 {
		return ErrWrongState
	}
	if c.now().After(m.ExpiresAt) {
		return ErrWrongState
	}
	if player == m.Player1 {
		return ErrSelfJoin
	}
	if m.IsPrivate {
		// Joining a private match through the public path fails the same
		// way as a wrong code.
		if code == "" || HashPrivateCode(code) != m.PrivateCodeHash {
			return ErrInvalidCode
		}
	} else if code != "" {
		return ErrInvalidCode
	}
	if bet != m.BetAmount {
		return ErrWrongBet
	}
	if err := c.bank.Escrow(player, bet, id); err != nil {
		return err
	}

	m.Player2 = player
	m.State = StateBothJoined
	m.CurrentRound = 1
	c.rounds[roundKey{id, 1}] = &RoundState{
		CommitDeadline: c.now().Add(c.params.CommitTimeout),
	}
	c.removeOpen(id)
	c.addActive(player, id)

	c.emit(EventMatchJoined, id, map[string]any{
		"player1":    m.Player1,
		"player2":    player,
		"bet_amount": m.BetAmount,
		"game_mode":  m.GameMode.String(),
	})
	c.flushEvents()
	return nil
}

// CancelMatch lets the creator withdraw an unjoined match and reclaim the
// escrowed bet.
func (c *Contract) CancelMatch(caller string, id uint64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	m, ok := c.matches[id]
	if !ok {
		return ErrNotFound
	}
	if caller != m.Player1 {
		return ErrNotCreator
	}
	if m.State != StateWaitingForP2 {
		return ErrWrongState
	}

	snap := c.snapshot(m)
	m.State = StateCancelled
	c.removeOpen(id)
	c.removeActive(m.Player1, id)

	err := c.bank.Payout([]bank.Transfer{
		{To: m.Player1, Amount: m.BetAmount, Kind: bank.KindRefund, MatchID: id},
	})
	if err != nil {
		c.restore(snap)
		return ErrTransferFailed
	}

	c.emit(EventMatchCancelled, id, map[string]any{
		"player1":    m.Player1,
		"bet_amount": m.BetAmount,
	})
	c.flushEvents()
	return nil
}
