package lottery

import (
	"backend/internal/logger"
	"backend/internal/randomness"
	"backend/internal/storage"
	"backend/internal/token"
	"encoding/binary"
	"sync"

	"go.uber.org/zap"
)

// Engine holds the process-lifetime lottery state: the participant
// registry, the per-entry request ids and the single round randomness
// value. State is authoritative in memory and written through to storage
// so a restart rebuilds it. One RWMutex serializes all mutation.
type Engine struct {
	store   storage.Storage
	gateway randomness.Gateway
	ledger  token.Ledger
	sink    Sink

	mu           sync.RWMutex
	participants map[string]*participant
	order        []string
	randomResult uint64
}

type participant struct {
	totalEntries int64
	entries      map[int64]uint64
}

func NewEngine(store storage.Storage, gateway randomness.Gateway, ledger token.Ledger, sink Sink) (*Engine, error) {
	if sink == nil {
		sink = LogSink
	}

	engine := &Engine{
		store:        store,
		gateway:      gateway,
		ledger:       ledger,
		sink:         sink,
		participants: make(map[string]*participant),
	}

	if err := engine.load(); err != nil {
		return nil, err
	}

	gateway.SetHandler(engine.OnFulfilled)
	return engine, nil
}

func (e *Engine) load() error {
	logger.Debug("loading lottery state...")

	records, err := e.store.GetParticipants()
	if err != nil {
		return err
	}

	for _, record := range records {
		e.participants[record.Address] = &participant{
			totalEntries: record.TotalEntries,
			entries:      make(map[int64]uint64),
		}
		e.order = append(e.order, record.Address)
	}

	entries, err := e.store.GetEntries()
	if err != nil {
		return err
	}

	for _, entry := range entries {
		state, ok := e.participants[entry.Address]
		if !ok {
			continue
		}

		state.entries[entry.EntryNumber] = entry.RequestID
	}

	round, err := e.store.GetRoundState()
	if err != nil {
		return err
	}

	e.randomResult = round.RandomResult

	logger.Debug("loading lottery state... done",
		zap.Int("participants", len(e.order)),
		zap.Int("entries", len(entries)),
		zap.Uint64("randomResult", e.randomResult))
	return nil
}

// requestSeed builds the seed parameters forwarded to the oracle from the
// entry's identity.
func requestSeed(account string, entryNumber int64) []byte {
	seed := make([]byte, 0, len(account)+8)
	seed = append(seed, account...)
	return binary.BigEndian.AppendUint64(seed, uint64(entryNumber))
}
