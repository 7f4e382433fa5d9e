package game

import "time"

// Owner-gated configuration. Changes apply to future calls only; matches
// already in flight keep the deadlines and bets they were created with.

func (c *Contract) SetBetLimits(caller string, minBet, maxBet int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if caller != c.params.Owner {
		return ErrNotOwner
	}
	if minBet <= 0 || maxBet < minBet {
		return ErrInvalidBet
	}
	c.params.MinBet = minBet
	c.params.MaxBet = maxBet
	return nil
}

func (c *Contract) SetCommissionRate(caller string, bps uint16) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if caller != c.params.Owner {
		return ErrNotOwner
	}
	if bps > MaxCommissionRateBps {
		return ErrRateTooHigh
	}
	c.params.CommissionRateBps = bps
	return nil
}

func (c *Contract) SetCommissionWallets(caller string, wallets []string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if caller != c.params.Owner {
		return ErrNotOwner
	}
	if len(wallets) == 0 {
		return ErrNoWallets
	}
	c.params.CommissionWallets = append([]string(nil), wallets...)
	return nil
}

func (c *Contract) SetTimeouts(caller string, commit, reveal, expiry time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if caller != c.params.Owner {
		return ErrNotOwner
	}
	if commit <= 0 || reveal <= 0 || expiry <= 0 {
		return ErrInvalidTimeout
	}
	c.params.CommitTimeout = commit
	c.params.RevealTimeout = reveal
	c.params.MatchExpiry = expiry
	return nil
}

// Pause blocks create/join/commit/reveal. Cancel and timeout claims stay
// available so in-flight matches can unwind.
func (c *Contract) Pause(caller string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if caller != c.params.Owner {
		return ErrNotOwner
	}
	c.paused = true
	return nil
}

func (c *Contract) Unpause(caller string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if caller != c.params.Owner {
		return ErrNotOwner
	}
	c.paused = false
	return nil
}

// SetClock swaps the contract's time source. Test hook.
func (c *Contract) SetClock(now func() time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}
