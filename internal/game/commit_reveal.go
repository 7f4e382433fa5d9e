package game

// CommitChoice stores the caller's commitment for the current round. The
// second commit of a round closes the commit phase and opens the reveal
// window. A commit landing after the commit deadline is still accepted as
// long as nobody has claimed the timeout yet.
func (c *Contract) CommitChoice(player string, id uint64, commit Commitment) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.paused {
		return ErrPaused
	}
	m, ok := c.matches[id]
	if !ok {
		return ErrNotFound
	}
	if player != m.Player1 && player != m.Player2 {
		return ErrNotParticipant
	}
	if m.State != StateBothJoined {
		return ErrWrongState
	}
	if commit.IsZero() {
		// The zero digest doubles as the empty-slot sentinel.
		return ErrInvalidCommit
	}

	rs := c.currentRound(m)
	if player == m.Player1 {
		if !rs.P1Commit.IsZero() {
			return ErrAlreadyCommitted
		}
		rs.P1Commit = commit
	} else {
		if !rs.P2Commit.IsZero() {
			return ErrAlreadyCommitted
		}
		rs.P2Commit = commit
	}

	if !rs.P1Commit.IsZero() && !rs.P2Commit.IsZero() {
		m.State = StateBothCommitted
		rs.RevealDeadline = c.now().Add(c.params.RevealTimeout)
	}

	c.emit(EventChoiceCommitted, id, map[string]any{
		"player": player,
		"round":  m.CurrentRound,
	})
	c.flushEvents()
	return nil
}

// RevealChoice opens the caller's commitment. A mismatched (choice, salt)
// pair fails InvalidReveal without saying which half was wrong. The second
// reveal resolves the round synchronously within this call.
func (c *Contract) RevealChoice(player string, id uint64, choice Choice, salt Salt) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.paused {
		return ErrPaused
	}
	m, ok := c.matches[id]
	if !ok {
		return ErrNotFound
	}
	if player != m.Player1 && player != m.Player2 {
		return ErrNotParticipant
	}
	if m.State != StateBothCommitted && m.State != StateP1Revealed && m.State != StateP2Revealed {
		return ErrWrongState
	}
	if !choice.Valid() || choice == ChoiceNone {
		return ErrInvalidReveal
	}

	rs := c.currentRound(m)
	// Taken before the first mutation: if this reveal triggers settlement and
	// a transfer is rejected, the whole call reverts, reveal included.
	snap := c.snapshot(m)
	if player == m.Player1 {
		if rs.P1Revealed {
			return ErrAlreadyRevealed
		}
		if !rs.P1Commit.Verify(choice, salt) {
			return ErrInvalidReveal
		}
		rs.P1Choice = choice
		rs.P1Revealed = true
	} else {
		if rs.P2Revealed {
			return ErrAlreadyRevealed
		}
		if !rs.P2Commit.Verify(choice, salt) {
			return ErrInvalidReveal
		}
		rs.P2Choice = choice
		rs.P2Revealed = true
	}

	c.emit(EventChoiceRevealed, id, map[string]any{
		"player": player,
		"choice": choice.String(),
		"round":  m.CurrentRound,
	})

	if rs.P1Revealed && rs.P2Revealed {
		if err := c.resolveRound(m, rs, snap); err != nil {
			// The reveal was rolled back; its staged signal goes with it.
			c.dropEvents()
			return err
		}
		c.flushEvents()
		return nil
	}
	if player == m.Player1 {
		m.State = StateP1Revealed
	} else {
		m.State = StateP2Revealed
	}
	c.flushEvents()
	return nil
}
