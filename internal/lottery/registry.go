package lottery

import (
	"backend/internal/storage"
)

// Register adds the account to the participant list. An account may
// register exactly once; the registration guard is the sole source of the
// "appears once" invariant on the list.
func (e *Engine) Register(account string) error {
	e.mu.Lock()

	if _, ok := e.participants[account]; ok {
		e.mu.Unlock()
		return ErrAlreadyRegistered
	}

	record := &storage.Participant{
		Address:  account,
		Position: int64(len(e.order)),
	}

	if err := e.store.UpsertParticipant(record); err != nil {
		e.mu.Unlock()
		return err
	}

	e.participants[account] = &participant{
		entries: make(map[int64]uint64),
	}
	e.order = append(e.order, account)
	e.mu.Unlock()

	e.sink(Registered{Account: account})
	return nil
}

func (e *Engine) IsRegistered(account string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()

	_, ok := e.participants[account]
	return ok
}

// TotalEntries counts participate calls, not distinct entry slots. It is 0
// for unregistered accounts.
func (e *Engine) TotalEntries(account string) int64 {
	e.mu.RLock()
	defer e.mu.RUnlock()

	state, ok := e.participants[account]
	if !ok {
		return 0
	}

	return state.totalEntries
}

func (e *Engine) Count() int {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return len(e.order)
}
