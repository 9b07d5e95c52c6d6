package lottery

import "fmt"

// DistributePrize pays amount to the caller when the caller's stored entry
// value equals the current round randomness. The equality check is the only
// guard: nothing marks a winning entry as claimed, so a matching entry can
// be submitted repeatedly. That behavior is kept as-is, see DESIGN.md.
func (e *Engine) DistributePrize(caller string, entryNumber int64, amount int64) error {
	e.mu.RLock()
	randomResult := e.randomResult
	var stored uint64
	if state, ok := e.participants[caller]; ok {
		stored = state.entries[entryNumber]
	}
	e.mu.RUnlock()

	if randomResult == 0 {
		return ErrRandomnessNotReady
	}

	if stored != randomResult {
		return ErrNoMatch
	}

	if err := e.ledger.Transfer(caller, amount); err != nil {
		return fmt.Errorf("%w: %v", ErrTransferFailed, err)
	}

	e.sink(PrizeDistributed{Account: caller, Amount: amount})
	return nil
}

// DistributeAirdrop splits totalAmount evenly across all registered
// accounts in registration order. Only the token ledger's own identity may
// call it. The share is floor(totalAmount / count); a remainder from
// non-exact division stays undistributed. A failed transfer aborts the
// batch: transfers already made stand, no further transfers are issued,
// and no event is emitted for the failed account.
func (e *Engine) DistributeAirdrop(caller string, totalAmount int64) error {
	if caller != e.ledger.Identity() {
		return ErrUnauthorized
	}

	if totalAmount <= 0 {
		return ErrInvalidAmount
	}

	e.mu.RLock()
	recipients := make([]string, len(e.order))
	copy(recipients, e.order)
	e.mu.RUnlock()

	if len(recipients) == 0 {
		return ErrNoParticipants
	}

	share := totalAmount / int64(len(recipients))

	for _, account := range recipients {
		if err := e.ledger.Transfer(account, share); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrTransferFailed, account, err)
		}

		e.sink(AirdropTokensDistributed{Account: account, Amount: share})
	}

	return nil
}
