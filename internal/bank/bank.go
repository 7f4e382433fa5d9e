package bank

import (
	"errors"
	"sync"
	"time"
)

var (
	ErrInsufficientFunds = errors.New("insufficient_funds")
	ErrRecipientBlocked  = errors.New("recipient_blocked")
	ErrInvalidAmount     = errors.New("invalid_amount")
)

// Ledger entry kinds.
const (
	KindDeposit    = "deposit"
	KindEscrow     = "escrow"
	KindPayout     = "payout"
	KindRefund     = "refund"
	KindCommission = "commission"
)

// Transfer moves funds out of contract custody to a recipient.
type Transfer struct {
	To      string
	Amount  int64
	Kind    string
	MatchID uint64
}

// Entry is one row of the bank's append-only ledger. Negative amounts are
// debits against the account, positive amounts are credits.
type Entry struct {
	Seq     int64     `json:"seq"`
	Account string    `json:"account"`
	Amount  int64     `json:"amount"`
	Kind    string    `json:"kind"`
	MatchID uint64    `json:"match_id,omitempty"`
	At      time.Time `json:"at"`
}

// Bank holds custodial player balances plus the contract escrow pool.
// Recipients can be marked blocked to model a transfer being rejected.
type Bank struct {
	mu       sync.Mutex
	balances map[string]int64
	blocked  map[string]bool
	escrow   int64
	nextSeq  int64
	entries  []Entry
}

func New() *Bank {
	return &Bank{
		balances: map[string]int64{},
		blocked:  map[string]bool{},
	}
}

func (b *Bank) Deposit(account string, amount int64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.balances[account] += amount
	b.record(account, amount, KindDeposit, 0)
	return nil
}

func (b *Bank) Balance(account string) int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.balances[account]
}

func (b *Bank) EscrowBalance() int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.escrow
}

func (b *Bank) SetBlocked(account string, blocked bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.blocked[account] = blocked
}

// Escrow debits a player's balance into contract custody.
func (b *Bank) Escrow(account string, amount int64, matchID uint64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.balances[account] < amount {
		return ErrInsufficientFunds
	}
	b.balances[account] -= amount
	b.escrow += amount
	b.record(account, -amount, KindEscrow, matchID)
	return nil
}

// Payout releases escrowed funds to the given recipients. The batch is
// all-or-nothing: every transfer is validated before any balance moves, so a
// blocked recipient anywhere in the batch leaves the bank untouched.
func (b *Bank) Payout(transfers []Transfer) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	total := int64(0)
	for _, t := range transfers {
		if t.Amount <= 0 {
			return ErrInvalidAmount
		}
		if b.blocked[t.To] {
			return ErrRecipientBlocked
		}
		total += t.Amount
	}
	if total > b.escrow {
		return ErrInsufficientFunds
	}
	for _, t := range transfers {
		b.escrow -= t.Amount
		b.balances[t.To] += t.Amount
		b.record(t.To, t.Amount, t.Kind, t.MatchID)
	}
	return nil
}

// Entries returns a page of the ledger, newest first.
func (b *Bank) Entries(limit, offset int) []Entry {
	b.mu.Lock()
	defer b.mu.Unlock()
	if limit <= 0 {
		limit = 50
	}
	out := make([]Entry, 0, limit)
	for i := len(b.entries) - 1 - offset; i >= 0 && len(out) < limit; i-- {
		out = append(out, b.entries[i])
	}
	return out
}

func (b *Bank) record(account string, amount int64, kind string, matchID uint64) {
	b.nextSeq++
	b.entries = append(b.entries, Entry{
		Seq:     b.nextSeq,
		Account: account,
		Amount:  amount,
		Kind:    kind,
		MatchID: matchID,
		At:      time.Now(),
	})
}
