package game

import (
	"errors"
	"testing"
	"time"
)

func TestAdminOpsRequireOwner(t *testing.T) {
	c, _, _, _ := newTestContract(t, defaultParams())
	calls := []struct {
		name string
		call func(caller string) error
	}{
		{"SetBetLimits", func(caller string) error { return c.SetBetLimits(caller, 10, 20) }},
		{"SetCommissionRate", func(caller string) error { return c.SetCommissionRate(caller, 100) }},
		{"SetCommissionWallets", func(caller string) error { return c.SetCommissionWallets(caller, []string{"w"}) }},
		{"SetTimeouts", func(caller string) error { return c.SetTimeouts(caller, time.Minute, time.Minute, time.Hour) }},
		{"Pause", c.Pause},
		{"Unpause", c.Unpause},
	}
	for _, tc := range calls {
		if err := tc.call(alice); !errors.Is(err, ErrNotOwner) {
			t.Fatalf("%s(non-owner) error = %v, want ErrNotOwner", tc.name, err)
		}
		if err := tc.call(owner); err != nil {
			t.Fatalf("%s(owner) error = %v", tc.name, err)
		}
	}
}

func TestSetBetLimits(t *testing.T) {
	c, _, _, _ := newTestContract(t, defaultParams())
	if err := c.SetBetLimits(owner, 0, 100); !errors.Is(err, ErrInvalidBet) {
		t.Fatalf("zero min error = %v, want ErrInvalidBet", err)
	}
	if err := c.SetBetLimits(owner, 500, 100); !errors.Is(err, ErrInvalidBet) {
		t.Fatalf("inverted limits error = %v, want ErrInvalidBet", err)
	}
	if err := c.SetBetLimits(owner, 500, 600); err != nil {
		t.Fatalf("SetBetLimits() error = %v", err)
	}
	if _, err := c.CreateMatch(alice, 100, ModeBO1, Commitment{}); !errors.Is(err, ErrInvalidBet) {
		t.Fatalf("bet below new minimum accepted, error = %v", err)
	}
	if _, err := c.CreateMatch(alice, 500, ModeBO1, Commitment{}); err != nil {
		t.Fatalf("bet at new minimum rejected: %v", err)
	}
}

func TestSetCommissionRateCap(t *testing.T) {
	c, _, _, _ := newTestContract(t, defaultParams())
	if err := c.SetCommissionRate(owner, MaxCommissionRateBps+1); !errors.Is(err, ErrRateTooHigh) {
		t.Fatalf("over-cap rate error = %v, want ErrRateTooHigh", err)
	}
	if err := c.SetCommissionRate(owner, MaxCommissionRateBps); err != nil {
		t.Fatalf("at-cap rate error = %v", err)
	}
	if got := c.GetParams().CommissionRateBps; got != MaxCommissionRateBps {
		t.Fatalf("rate = %d, want %d", got, MaxCommissionRateBps)
	}
}

func TestSetCommissionWalletsCopiesInput(t *testing.T) {
	c, _, _, _ := newTestContract(t, defaultParams())
	if err := c.SetCommissionWallets(owner, nil); !errors.Is(err, ErrNoWallets) {
		t.Fatalf("empty wallets error = %v, want ErrNoWallets", err)
	}
	in := []string{"a", "b"}
	if err := c.SetCommissionWallets(owner, in); err != nil {
		t.Fatalf("SetCommissionWallets() error = %v", err)
	}
	in[0] = "mutated"
	if got := c.GetParams().CommissionWallets[0]; got != "a" {
		t.Fatalf("wallet[0] = %q, caller mutation leaked", got)
	}
}

func TestSetTimeoutsAppliesToNewRounds(t *testing.T) {
	c, _, clk, _ := newTestContract(t, defaultParams())
	if err := c.SetTimeouts(owner, 0, time.Minute, time.Hour); !errors.Is(err, ErrInvalidTimeout) {
		t.Fatalf("zero commit timeout error = %v, want ErrInvalidTimeout", err)
	}
	if err := c.SetTimeouts(owner, 10*time.Second, time.Minute, time.Hour); err != nil {
		t.Fatalf("SetTimeouts() error = %v", err)
	}

	id := mustCreate(t, c, alice, 100, ModeBO1)
	mustJoin(t, c, bob, id, 100)
	clk.Advance(11 * time.Second)
	if err := c.ClaimTimeout(id); err != nil {
		t.Fatalf("claim after shortened window error = %v", err)
	}
}

func TestPauseBlocksPlayButNotUnwinding(t *testing.T) {
	c, _, clk, _ := newTestContract(t, defaultParams())
	open := mustCreate(t, c, alice, 100, ModeBO1)
	inPlay := mustCreate(t, c, alice, 100, ModeBO1)
	mustJoin(t, c, bob, inPlay, 100)
	commitChoice(t, c, alice, inPlay, ChoiceRock)

	if err := c.Pause(owner); err != nil {
		t.Fatalf("Pause() error = %v", err)
	}
	if !c.Paused() {
		t.Fatal("Paused() = false after Pause")
	}

	if _, err := c.CreateMatch(alice, 100, ModeBO1, Commitment{}); !errors.Is(err, ErrPaused) {
		t.Fatalf("create while paused error = %v, want ErrPaused", err)
	}
	if err := c.JoinMatch(carol, open, 100); !errors.Is(err, ErrPaused) {
		t.Fatalf("join while paused error = %v, want ErrPaused", err)
	}
	salt, _ := NewSalt()
	if err := c.CommitChoice(bob, inPlay, MakeCommitment(ChoicePaper, salt)); !errors.Is(err, ErrPaused) {
		t.Fatalf("commit while paused error = %v, want ErrPaused", err)
	}
	if err := c.RevealChoice(alice, inPlay, ChoiceRock, salt); !errors.Is(err, ErrPaused) {
		t.Fatalf("reveal while paused error = %v, want ErrPaused", err)
	}

	// Cancels and timeout claims keep working so locked funds can exit.
	if err := c.CancelMatch(alice, open); err != nil {
		t.Fatalf("cancel while paused error = %v", err)
	}
	clk.Advance(2 * time.Minute)
	if err := c.ClaimTimeout(inPlay); err != nil {
		t.Fatalf("claim while paused error = %v", err)
	}

	if err := c.Unpause(owner); err != nil {
		t.Fatalf("Unpause() error = %v", err)
	}
	if _, err := c.CreateMatch(alice, 100, ModeBO1, Commitment{}); err != nil {
		t.Fatalf("create after unpause error = %v", err)
	}
}
