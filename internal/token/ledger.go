package token

import (
	"errors"
	"fmt"
	"sync"
)

// Ledger is the external fungible-token collaborator. The engine only
// issues transfer instructions, it never holds balance state itself.
type Ledger interface {
	// Identity is the ledger's own account address, used for the
	// airdrop privileged-caller check.
	Identity() string

	Transfer(to string, amount int64) error
}

var (
	ErrInsufficientPool = errors.New("token: insufficient pool balance")
	ErrTransferDenied   = errors.New("token: transfer denied")
)

// MemoryLedger is an in-memory Ledger funded from a fixed pool. Transfers
// to addresses marked with FailFor are rejected, which tests use to
// exercise transfer-failure handling.
type MemoryLedger struct {
	identity string

	mu       sync.Mutex
	pool     int64
	balances map[string]int64
	denied   map[string]bool
}

func NewMemoryLedger(identity string, pool int64) *MemoryLedger {
	return &MemoryLedger{
		identity: identity,
		pool:     pool,
		balances: make(map[string]int64),
		denied:   make(map[string]bool),
	}
}

func (l *MemoryLedger) Identity() string {
	return l.identity
}

func (l *MemoryLedger) Transfer(to string, amount int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.denied[to] {
		return fmt.Errorf("%w: %s", ErrTransferDenied, to)
	}

	if amount > l.pool {
		return fmt.Errorf("%w: need %d, have %d", ErrInsufficientPool, amount, l.pool)
	}

	l.pool -= amount
	l.balances[to] += amount
	return nil
}

// FailFor makes every subsequent transfer to the address fail.
func (l *MemoryLedger) FailFor(address string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.denied[address] = true
}

func (l *MemoryLedger) BalanceOf(address string) int64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.balances[address]
}

func (l *MemoryLedger) Pool() int64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.pool
}
