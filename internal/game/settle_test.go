package game

import (
	"errors"
	"testing"
	"time"
)

func TestCommissionSplitRemainderToLastWallet(t *testing.T) {
	p := defaultParams()
	p.CommissionWallets = []string{"w1", "w2", "w3"}
	c, b, _, _ := newTestContract(t, p)

	// Pot 20000 at 250 bps -> commission 500; 500/3 = 166 with 168 to the
	// last wallet.
	id := mustCreate(t, c, alice, 10000, ModeBO1)
	mustJoin(t, c, bob, id, 10000)
	playRound(t, c, id, ChoicePaper, ChoiceRock)

	if got := b.Balance("w1"); got != 166 {
		t.Fatalf("w1 balance = %d, want 166", got)
	}
	if got := b.Balance("w2"); got != 166 {
		t.Fatalf("w2 balance = %d, want 166", got)
	}
	if got := b.Balance("w3"); got != 168 {
		t.Fatalf("w3 balance = %d, want 168", got)
	}
	if got := b.Balance(alice); got != 100000-10000+19500 {
		t.Fatalf("winner balance = %d, want %d", got, 100000-10000+19500)
	}
	if got := b.EscrowBalance(); got != 0 {
		t.Fatalf("escrow = %d, want 0", got)
	}
}

func TestZeroCommissionSkipsTransfers(t *testing.T) {
	p := defaultParams()
	p.CommissionRateBps = 0
	c, b, _, _ := newTestContract(t, p)

	id := mustCreate(t, c, alice, 100, ModeBO1)
	mustJoin(t, c, bob, id, 100)
	playRound(t, c, id, ChoiceRock, ChoiceScissors)

	if got := b.Balance(alice); got != 100100 {
		t.Fatalf("winner balance = %d, want full pot", got)
	}
	if got := b.Balance("treasury"); got != 0 {
		t.Fatalf("treasury balance = %d, want 0", got)
	}
}

func TestSettlementRollsBackOnBlockedRecipient(t *testing.T) {
	c, b, _, em := newTestContract(t, defaultParams())
	id := mustCreate(t, c, alice, 100, ModeBO1)
	mustJoin(t, c, bob, id, 100)

	s1 := commitChoice(t, c, alice, id, ChoiceRock)
	s2 := commitChoice(t, c, bob, id, ChoiceScissors)
	if err := c.RevealChoice(bob, id, ChoiceScissors, s2); err != nil {
		t.Fatalf("RevealChoice(bob) error = %v", err)
	}

	b.SetBlocked(alice, true)
	seen := len(em.events)
	if err := c.RevealChoice(alice, id, ChoiceRock, s1); !errors.Is(err, ErrTransferFailed) {
		t.Fatalf("reveal with blocked winner error = %v, want ErrTransferFailed", err)
	}
	// A rolled-back call must be invisible on the feed too: no
	// choice_revealed, no round_result, nothing.
	if got := len(em.events); got != seen {
		t.Fatalf("reverted reveal emitted %d event(s): %v", got-seen, em.events[seen:])
	}

	// The whole call reverted, the failed reveal included: the match is
	// back where it stood after bob's reveal and no funds moved.
	m, _ := c.GetMatch(id)
	if m.State != StateP2Revealed || m.P1Wins != 0 {
		t.Fatalf("after rollback: state=%v score=%d:%d", m.State, m.P1Wins, m.P2Wins)
	}
	rs, _ := c.GetRoundState(id, 1)
	if rs.P1Revealed {
		t.Fatal("alice's reveal survived the rollback")
	}
	if !rs.P2Revealed {
		t.Fatal("bob's earlier reveal was lost")
	}
	if got := b.EscrowBalance(); got != 200 {
		t.Fatalf("escrow = %d, want 200 (untouched)", got)
	}
	if got := b.Balance(alice); got != 99900 {
		t.Fatalf("alice balance = %d, want 99900 (untouched)", got)
	}
	if s := c.GetPlayerStats(alice); s != (PlayerStats{}) {
		t.Fatalf("alice stats = %+v, want rolled back", s)
	}
	if got := c.GetActiveMatches(alice); len(got) != 1 {
		t.Fatalf("alice active = %v, want match still active", got)
	}

	// The match stays retry-able: unblock and reveal again.
	b.SetBlocked(alice, false)
	if err := c.RevealChoice(alice, id, ChoiceRock, s1); err != nil {
		t.Fatalf("retried reveal error = %v", err)
	}
	m, _ = c.GetMatch(id)
	if m.State != StateCompleted {
		t.Fatalf("state after retry = %v, want completed", m.State)
	}
	if got := b.Balance(alice); got != 100095 {
		t.Fatalf("alice balance after retry = %d, want 100095", got)
	}

	// The successful retry emits the settlement sequence exactly once.
	var names []string
	for _, ev := range em.events[seen:] {
		names = append(names, ev.name)
	}
	want := []string{EventChoiceRevealed, EventRoundResult, EventMatchCompleted}
	if len(names) != len(want) {
		t.Fatalf("retry events = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("retry events = %v, want %v", names, want)
		}
	}
}

func TestSettlementRollsBackOnBlockedCommissionWallet(t *testing.T) {
	c, b, _, _ := newTestContract(t, defaultParams())
	id := mustCreate(t, c, alice, 100, ModeBO1)
	mustJoin(t, c, bob, id, 100)

	s1 := commitChoice(t, c, alice, id, ChoiceRock)
	s2 := commitChoice(t, c, bob, id, ChoiceScissors)
	if err := c.RevealChoice(bob, id, ChoiceScissors, s2); err != nil {
		t.Fatalf("RevealChoice(bob) error = %v", err)
	}

	// The payout batch is all-or-nothing: a blocked commission wallet holds
	// up the winner's share too.
	b.SetBlocked("treasury", true)
	if err := c.RevealChoice(alice, id, ChoiceRock, s1); !errors.Is(err, ErrTransferFailed) {
		t.Fatalf("error = %v, want ErrTransferFailed", err)
	}
	if got := b.Balance(alice); got != 99900 {
		t.Fatalf("alice balance = %d, want untouched", got)
	}
}

func TestCancelRollsBackOnBlockedCreator(t *testing.T) {
	c, b, _, _ := newTestContract(t, defaultParams())
	id := mustCreate(t, c, alice, 100, ModeBO1)

	b.SetBlocked(alice, true)
	if err := c.CancelMatch(alice, id); !errors.Is(err, ErrTransferFailed) {
		t.Fatalf("error = %v, want ErrTransferFailed", err)
	}
	m, _ := c.GetMatch(id)
	if m.State != StateWaitingForP2 {
		t.Fatalf("state = %v, want waiting_for_p2 after rollback", m.State)
	}
	if c.GetOpenMatchCount() != 1 {
		t.Fatal("match dropped from open list despite rollback")
	}

	b.SetBlocked(alice, false)
	if err := c.CancelMatch(alice, id); err != nil {
		t.Fatalf("retried cancel error = %v", err)
	}
}

func TestTimeoutRollsBackOnBlockedRecipient(t *testing.T) {
	c, b, clk, _ := newTestContract(t, defaultParams())
	id := mustCreate(t, c, alice, 100, ModeBO1)
	mustJoin(t, c, bob, id, 100)
	commitChoice(t, c, alice, id, ChoiceRock)

	clk.Advance(2 * time.Minute)
	b.SetBlocked(alice, true)
	if err := c.ClaimTimeout(id); !errors.Is(err, ErrTransferFailed) {
		t.Fatalf("error = %v, want ErrTransferFailed", err)
	}
	m, _ := c.GetMatch(id)
	if m.State != StateBothJoined {
		t.Fatalf("state = %v, want both_joined after rollback", m.State)
	}

	b.SetBlocked(alice, false)
	if err := c.ClaimTimeout(id); err != nil {
		t.Fatalf("retried claim error = %v", err)
	}
	if got := b.Balance(alice); got != 100100 {
		t.Fatalf("alice balance = %d, want 100100", got)
	}
}
