package lottery

import (
	"backend/internal/logger"

	"go.uber.org/zap"
)

// Events are delivered to the configured Sink exactly once per successful
// operation, after all state mutation for that operation completes.

type Event interface {
	event()
}

type Registered struct {
	Account string
}

type EntryGenerated struct {
	Account     string
	EntryNumber int64
	RequestID   uint64
}

type PrizeDistributed struct {
	Account string
	Amount  int64
}

type AirdropTokensDistributed struct {
	Account string
	Amount  int64
}

func (Registered) event()               {}
func (EntryGenerated) event()           {}
func (PrizeDistributed) event()         {}
func (AirdropTokensDistributed) event() {}

type Sink func(Event)

// LogSink writes every event to the process logger.
func LogSink(event Event) {
	switch e := event.(type) {
	case Registered:
		logger.Info("registered", zap.String("account", e.Account))
	case EntryGenerated:
		logger.Info("entry generated",
			zap.String("account", e.Account),
			zap.Int64("entryNumber", e.EntryNumber),
			zap.Uint64("requestID", e.RequestID))
	case PrizeDistributed:
		logger.Info("prize distributed",
			zap.String("account", e.Account),
			zap.Int64("amount", e.Amount))
	case AirdropTokensDistributed:
		logger.Info("airdrop tokens distributed",
			zap.String("account", e.Account),
			zap.Int64("amount", e.Amount))
	}
}
