package game

import (
	"errors"
	"testing"
	"time"

	"rps-arena/internal/bank"
)

const (
	owner = "owner"
	alice = "alice"
	bob   = "bob"
	carol = "carol"
)

type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time {
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

type captureEmitter struct {
	events []capturedEvent
}

type capturedEvent struct {
	name    string
	matchID uint64
	data    map[string]any
}

func (e *captureEmitter) Emit(name string, matchID uint64, data map[string]any) {
	e.events = append(e.events, capturedEvent{name: name, matchID: matchID, data: data})
}

func (e *captureEmitter) last(name string) (capturedEvent, bool) {
	for i := len(e.events) - 1; i >= 0; i-- {
		if e.events[i].name == name {
			return e.events[i], true
		}
	}
	return capturedEvent{}, false
}

func defaultParams() Params {
	return Params{
		Owner:             owner,
		MinBet:            100,
		MaxBet:            10000,
		CommissionRateBps: 250,
		CommissionWallets: []string{"treasury"},
		CommitTimeout:     time.Minute,
		RevealTimeout:     time.Minute,
		MatchExpiry:       24 * time.Hour,
	}
}

func newTestContract(t *testing.T, p Params) (*Contract, *bank.Bank, *testClock, *captureEmitter) {
	t.Helper()
	b := bank.New()
	for _, acct := range []string{alice, bob, carol} {
		if err := b.Deposit(acct, 100000); err != nil {
			t.Fatalf("deposit %s: %v", acct, err)
		}
	}
	em := &captureEmitter{}
	c, err := New(p, b, em)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	clk := &testClock{now: time.Unix(1700000000, 0)}
	c.SetClock(clk.Now)
	return c, b, clk, em
}

func mustCreate(t *testing.T, c *Contract, creator string, bet int64, mode GameMode) uint64 {
	t.Helper()
	id, err := c.CreateMatch(creator, bet, mode, Commitment{})
	if err != nil {
		t.Fatalf("CreateMatch() error = %v", err)
	}
	return id
}

func mustJoin(t *testing.T, c *Contract, player string, id uint64, bet int64) {
	t.Helper()
	if err := c.JoinMatch(player, id, bet); err != nil {
		t.Fatalf("JoinMatch() error = %v", err)
	}
}

func commitChoice(t *testing.T, c *Contract, player string, id uint64, ch Choice) Salt {
	t.Helper()
	salt, err := NewSalt()
	if err != nil {
		t.Fatalf("NewSalt() error = %v", err)
	}
	if err := c.CommitChoice(player, id, MakeCommitment(ch, salt)); err != nil {
		t.Fatalf("CommitChoice(%s) error = %v", player, err)
	}
	return salt
}

// playRound drives one full commit/reveal exchange.
func playRound(t *testing.T, c *Contract, id uint64, p1c, p2c Choice) {
	t.Helper()
	s1 := commitChoice(t, c, alice, id, p1c)
	s2 := commitChoice(t, c, bob, id, p2c)
	if err := c.RevealChoice(alice, id, p1c, s1); err != nil {
		t.Fatalf("RevealChoice(alice) error = %v", err)
	}
	if err := c.RevealChoice(bob, id, p2c, s2); err != nil {
		t.Fatalf("RevealChoice(bob) error = %v", err)
	}
}

func TestNewValidatesParams(t *testing.T) {
	b := bank.New()
	cases := []struct {
		name   string
		mutate func(*Params)
		want   error
	}{
		{"no owner", func(p *Params) { p.Owner = "" }, ErrNotOwner},
		{"no wallets", func(p *Params) { p.CommissionWallets = nil }, ErrNoWallets},
		{"rate too high", func(p *Params) { p.CommissionRateBps = 1001 }, ErrRateTooHigh},
		{"min above max", func(p *Params) { p.MinBet = 500; p.MaxBet = 100 }, ErrInvalidBet},
		{"zero timeout", func(p *Params) { p.CommitTimeout = 0 }, ErrInvalidTimeout},
	}
	for _, tc := range cases {
		p := defaultParams()
		tc.mutate(&p)
		if _, err := New(p, b, nil); !errors.Is(err, tc.want) {
			t.Fatalf("%s: New() error = %v, want %v", tc.name, err, tc.want)
		}
	}
}

func TestCreateMatchEscrowsBet(t *testing.T) {
	c, b, _, em := newTestContract(t, defaultParams())
	id := mustCreate(t, c, alice, 100, ModeBO1)

	if got := b.Balance(alice); got != 99900 {
		t.Fatalf("alice balance = %d, want 99900", got)
	}
	if got := b.EscrowBalance(); got != 100 {
		t.Fatalf("escrow = %d, want 100", got)
	}
	m, err := c.GetMatch(id)
	if err != nil {
		t.Fatalf("GetMatch() error = %v", err)
	}
	if m.State != StateWaitingForP2 {
		t.Fatalf("state = %v, want waiting_for_p2", m.State)
	}
	if m.ExpiresAt.Sub(m.CreatedAt) != 24*time.Hour {
		t.Fatalf("expiry window = %v, want 24h", m.ExpiresAt.Sub(m.CreatedAt))
	}
	if _, ok := em.last(EventMatchCreated); !ok {
		t.Fatal("expected match_created event")
	}
}

func TestCreateMatchRejectsBadBets(t *testing.T) {
	c, _, _, _ := newTestContract(t, defaultParams())
	if _, err := c.CreateMatch(alice, 99, ModeBO1, Commitment{}); !errors.Is(err, ErrInvalidBet) {
		t.Fatalf("low bet error = %v, want ErrInvalidBet", err)
	}
	if _, err := c.CreateMatch(alice, 10001, ModeBO1, Commitment{}); !errors.Is(err, ErrInvalidBet) {
		t.Fatalf("high bet error = %v, want ErrInvalidBet", err)
	}
	if _, err := c.CreateMatch(alice, 100, GameMode(7), Commitment{}); !errors.Is(err, ErrInvalidMode) {
		t.Fatalf("bad mode error = %v, want ErrInvalidMode", err)
	}
}

func TestCreateMatchInsufficientFunds(t *testing.T) {
	c, _, _, _ := newTestContract(t, defaultParams())
	if _, err := c.CreateMatch("pauper", 100, ModeBO1, Commitment{}); !errors.Is(err, bank.ErrInsufficientFunds) {
		t.Fatalf("error = %v, want ErrInsufficientFunds", err)
	}
	// A failed create must not burn an id.
	id := mustCreate(t, c, alice, 100, ModeBO1)
	if id != 1 {
		t.Fatalf("first match id = %d, want 1", id)
	}
}

func TestJoinMatch(t *testing.T) {
	c, b, _, em := newTestContract(t, defaultParams())
	id := mustCreate(t, c, alice, 100, ModeBO1)
	mustJoin(t, c, bob, id, 100)

	m, _ := c.GetMatch(id)
	if m.State != StateBothJoined || m.Player2 != bob || m.CurrentRound != 1 {
		t.Fatalf("after join: state=%v player2=%q round=%d", m.State, m.Player2, m.CurrentRound)
	}
	if got := b.EscrowBalance(); got != 200 {
		t.Fatalf("escrow = %d, want 200", got)
	}
	rs, err := c.GetRoundState(id, 1)
	if err != nil {
		t.Fatalf("GetRoundState() error = %v", err)
	}
	if rs.CommitDeadline.IsZero() {
		t.Fatal("commit deadline not set")
	}
	if _, ok := em.last(EventMatchJoined); !ok {
		t.Fatal("expected match_joined event")
	}
	if c.GetOpenMatchCount() != 0 {
		t.Fatal("joined match still listed open")
	}
}

func TestJoinMatchGuards(t *testing.T) {
	c, _, _, _ := newTestContract(t, defaultParams())
	id := mustCreate(t, c, alice, 100, ModeBO1)

	if err := c.JoinMatch(bob, 999, 100); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown id error = %v, want ErrNotFound", err)
	}
	if err := c.JoinMatch(alice, id, 100); !errors.Is(err, ErrSelfJoin) {
		t.Fatalf("self join error = %v, want ErrSelfJoin", err)
	}
	if err := c.JoinMatch(bob, id, 150); !errors.Is(err, ErrWrongBet) {
		t.Fatalf("wrong bet error = %v, want ErrWrongBet", err)
	}
	mustJoin(t, c, bob, id, 100)
	if err := c.JoinMatch(carol, id, 100); !errors.Is(err, ErrWrongState) {
		t.Fatalf("late join error = %v, want ErrWrongState", err)
	}
}

func TestPrivateMatchJoin(t *testing.T) {
	c, _, _, _ := newTestContract(t, defaultParams())
	id, err := c.CreateMatch(alice, 100, ModeBO1, HashPrivateCode("sekrit"))
	if err != nil {
		t.Fatalf("CreateMatch() error = %v", err)
	}
	if c.GetOpenMatchCount() != 0 {
		t.Fatal("private match listed in open index")
	}
	if err := c.JoinMatch(bob, id, 100); !errors.Is(err, ErrInvalidCode) {
		t.Fatalf("public join of private match error = %v, want ErrInvalidCode", err)
	}
	if err := c.JoinPrivateMatch(bob, id, 100, "wrong"); !errors.Is(err, ErrInvalidCode) {
		t.Fatalf("wrong code error = %v, want ErrInvalidCode", err)
	}
	if err := c.JoinPrivateMatch(bob, id, 100, "sekrit"); err != nil {
		t.Fatalf("JoinPrivateMatch() error = %v", err)
	}
}

func TestCancelMatch(t *testing.T) {
	c, b, _, em := newTestContract(t, defaultParams())
	id := mustCreate(t, c, alice, 100, ModeBO1)

	if err := c.CancelMatch(bob, id); !errors.Is(err, ErrNotCreator) {
		t.Fatalf("stranger cancel error = %v, want ErrNotCreator", err)
	}
	if err := c.CancelMatch(alice, id); err != nil {
		t.Fatalf("CancelMatch() error = %v", err)
	}
	m, _ := c.GetMatch(id)
	if m.State != StateCancelled {
		t.Fatalf("state = %v, want cancelled", m.State)
	}
	if got := b.Balance(alice); got != 100000 {
		t.Fatalf("alice balance = %d, want full refund", got)
	}
	if _, ok := em.last(EventMatchCancelled); !ok {
		t.Fatal("expected match_cancelled event")
	}
	if err := c.CancelMatch(alice, id); !errors.Is(err, ErrWrongState) {
		t.Fatalf("double cancel error = %v, want ErrWrongState", err)
	}
}

func TestOpenMatchPagination(t *testing.T) {
	c, _, _, _ := newTestContract(t, defaultParams())
	for i := 0; i < 5; i++ {
		mustCreate(t, c, alice, 100, ModeBO1)
	}
	if got := c.GetOpenMatchCount(); got != 5 {
		t.Fatalf("count = %d, want 5", got)
	}
	if got := len(c.GetOpenMatches(0, 3)); got != 3 {
		t.Fatalf("page len = %d, want 3", got)
	}
	if got := len(c.GetOpenMatches(3, 3)); got != 2 {
		t.Fatalf("tail page len = %d, want 2", got)
	}
	if got := len(c.GetOpenMatches(99, 3)); got != 0 {
		t.Fatalf("past-end page len = %d, want 0", got)
	}
	if got := len(c.GetOpenMatches(-1, 3)); got != 0 {
		t.Fatalf("negative offset len = %d, want 0", got)
	}
}

func TestActiveMatches(t *testing.T) {
	c, _, _, _ := newTestContract(t, defaultParams())
	id1 := mustCreate(t, c, alice, 100, ModeBO1)
	id2 := mustCreate(t, c, alice, 100, ModeBO1)
	mustJoin(t, c, bob, id2, 100)

	got := c.GetActiveMatches(alice)
	if len(got) != 2 || got[0] != id1 || got[1] != id2 {
		t.Fatalf("alice active = %v, want [%d %d]", got, id1, id2)
	}
	if got := c.GetActiveMatches(bob); len(got) != 1 || got[0] != id2 {
		t.Fatalf("bob active = %v, want [%d]", got, id2)
	}
	if got := c.GetActiveMatches(carol); len(got) != 0 {
		t.Fatalf("carol active = %v, want empty", got)
	}

	playRound(t, c, id2, ChoiceRock, ChoiceScissors)
	if got := c.GetActiveMatches(bob); len(got) != 0 {
		t.Fatalf("bob active after completion = %v, want empty", got)
	}
}

func TestGetPlayerStatsUnknownPlayer(t *testing.T) {
	c, _, _, _ := newTestContract(t, defaultParams())
	if s := c.GetPlayerStats("nobody"); s != (PlayerStats{}) {
		t.Fatalf("unknown player stats = %+v, want zero", s)
	}
}
