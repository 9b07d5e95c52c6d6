package lottery

import (
	"backend/internal/storage"
)

// Participate requests randomness for the entry and stores the returned
// request id at (account, entryNumber). A later call for the same
// entryNumber silently overwrites the previous request id; the entry
// counter still advances on every call, so it counts calls rather than
// distinct slots. The randomness answer arrives asynchronously through
// the gateway handler, Participate never waits for it.
func (e *Engine) Participate(account string, entryNumber int64) (uint64, error) {
	if entryNumber <= 0 {
		return 0, ErrInvalidEntryNumber
	}

	if !e.IsRegistered(account) {
		return 0, ErrNotRegistered
	}

	requestID, err := e.gateway.RequestRandomness(requestSeed(account, entryNumber))
	if err != nil {
		return 0, err
	}

	e.mu.Lock()

	state, ok := e.participants[account]
	if !ok {
		e.mu.Unlock()
		return 0, ErrNotRegistered
	}

	entry := &storage.Entry{
		Address:     account,
		EntryNumber: entryNumber,
		RequestID:   requestID,
	}
	if err := e.store.UpsertEntry(entry); err != nil {
		e.mu.Unlock()
		return 0, err
	}

	record := &storage.Participant{
		Address:      account,
		Position:     e.position(account),
		TotalEntries: state.totalEntries + 1,
	}
	if err := e.store.UpsertParticipant(record); err != nil {
		e.mu.Unlock()
		return 0, err
	}

	state.entries[entryNumber] = requestID
	state.totalEntries++
	e.mu.Unlock()

	e.sink(EntryGenerated{
		Account:     account,
		EntryNumber: entryNumber,
		RequestID:   requestID,
	})
	return requestID, nil
}

// EntryValue returns the request id stored for the entry, 0 if unset.
func (e *Engine) EntryValue(account string, entryNumber int64) uint64 {
	e.mu.RLock()
	defer e.mu.RUnlock()

	state, ok := e.participants[account]
	if !ok {
		return 0
	}

	return state.entries[entryNumber]
}

// position must be called with the lock held.
func (e *Engine) position(account string) int64 {
	for i, address := range e.order {
		if address == account {
			return int64(i)
		}
	}

	return int64(len(e.order))
}
