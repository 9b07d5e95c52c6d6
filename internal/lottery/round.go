package lottery

import (
	"backend/internal/logger"
	"backend/internal/storage"

	"go.uber.org/zap"
)

// OnFulfilled is the gateway fulfillment handler. It unconditionally
// overwrites the single round randomness value, whichever request
// triggered it; the request id is discarded here. Entries from earlier
// requests keep matching against whatever value was delivered last.
func (e *Engine) OnFulfilled(requestID uint64, randomValue uint64) {
	e.mu.Lock()

	if err := e.store.UpdateRoundState(&storage.RoundState{RandomResult: randomValue}); err != nil {
		logger.Error("cannot persist round state",
			zap.Uint64("requestID", requestID),
			zap.Error(err))
	}

	e.randomResult = randomValue
	e.mu.Unlock()

	logger.Debug("round randomness fulfilled",
		zap.Uint64("requestID", requestID),
		zap.Uint64("randomValue", randomValue))
}

// CurrentRandomness returns the most recently fulfilled random value,
// 0 until the first fulfillment.
func (e *Engine) CurrentRandomness() uint64 {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.randomResult
}
