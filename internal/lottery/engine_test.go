package lottery

import (
	"backend/internal/randomness"
	"backend/internal/storage"
	"backend/internal/token"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// stubGateway hands out sequential request ids and lets a test deliver
// fulfillments deterministically.
type stubGateway struct {
	mu      sync.Mutex
	next    uint64
	handler randomness.Handler
}

func (g *stubGateway) RequestRandomness(_ []byte) (uint64, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.next++
	return g.next, nil
}

func (g *stubGateway) SetHandler(handler randomness.Handler) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.handler = handler
}

func (g *stubGateway) fulfill(requestID uint64, value uint64) {
	g.mu.Lock()
	handler := g.handler
	g.mu.Unlock()

	handler(requestID, value)
}

type eventRecorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *eventRecorder) sink(event Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = append(r.events, event)
}

func (r *eventRecorder) all() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

func newTestEngine(t *testing.T) (*Engine, *stubGateway, *token.MemoryLedger, *eventRecorder) {
	t.Helper()

	gateway := &stubGateway{}
	ledger := token.NewMemoryLedger("ledger-identity", 1_000_000)
	recorder := &eventRecorder{}

	engine, err := NewEngine(storage.NewMemoryStorage(), gateway, ledger, recorder.sink)
	require.NoError(t, err)

	return engine, gateway, ledger, recorder
}

func TestRegister(t *testing.T) {
	engine, _, _, recorder := newTestEngine(t)

	require.NoError(t, engine.Register("alice"))
	require.True(t, engine.IsRegistered("alice"))
	require.Equal(t, 1, engine.Count())

	err := engine.Register("alice")
	require.ErrorIs(t, err, ErrAlreadyRegistered)
	require.Equal(t, 1, engine.Count())

	require.Equal(t, []Event{Registered{Account: "alice"}}, recorder.all())
}

func TestParticipateRequiresRegistration(t *testing.T) {
	engine, _, _, _ := newTestEngine(t)

	_, err := engine.Participate("alice", 1)
	require.ErrorIs(t, err, ErrNotRegistered)
}

func TestParticipateRejectsInvalidEntryNumber(t *testing.T) {
	engine, _, _, _ := newTestEngine(t)
	require.NoError(t, engine.Register("alice"))

	for _, entryNumber := range []int64{0, -1} {
		_, err := engine.Participate("alice", entryNumber)
		require.ErrorIs(t, err, ErrInvalidEntryNumber)
	}

	require.EqualValues(t, 0, engine.TotalEntries("alice"))
}

func TestParticipateStoresRequestID(t *testing.T) {
	engine, _, _, recorder := newTestEngine(t)
	require.NoError(t, engine.Register("alice"))

	requestID, err := engine.Participate("alice", 7)
	require.NoError(t, err)
	require.Equal(t, requestID, engine.EntryValue("alice", 7))
	require.EqualValues(t, 1, engine.TotalEntries("alice"))

	events := recorder.all()
	require.Len(t, events, 2)
	require.Equal(t, EntryGenerated{Account: "alice", EntryNumber: 7, RequestID: requestID}, events[1])
}

func TestParticipateOverwriteStillCounts(t *testing.T) {
	engine, _, _, _ := newTestEngine(t)
	require.NoError(t, engine.Register("alice"))

	first, err := engine.Participate("alice", 7)
	require.NoError(t, err)

	second, err := engine.Participate("alice", 7)
	require.NoError(t, err)
	require.NotEqual(t, first, second)

	// The slot holds the later request id, the counter counts both calls.
	require.Equal(t, second, engine.EntryValue("alice", 7))
	require.EqualValues(t, 2, engine.TotalEntries("alice"))
}

func TestEntryValueUnset(t *testing.T) {
	engine, _, _, _ := newTestEngine(t)
	require.NoError(t, engine.Register("alice"))

	require.EqualValues(t, 0, engine.EntryValue("alice", 3))
	require.EqualValues(t, 0, engine.EntryValue("nobody", 3))
}

func TestPrizeBeforeFulfillment(t *testing.T) {
	engine, _, _, _ := newTestEngine(t)
	require.NoError(t, engine.Register("alice"))

	_, err := engine.Participate("alice", 1)
	require.NoError(t, err)

	err = engine.DistributePrize("alice", 1, 100)
	require.ErrorIs(t, err, ErrRandomnessNotReady)
}

func TestPrizeMatchAndNoMatch(t *testing.T) {
	engine, gateway, ledger, recorder := newTestEngine(t)
	require.NoError(t, engine.Register("alice"))
	require.NoError(t, engine.Register("bob"))

	aliceID, err := engine.Participate("alice", 1)
	require.NoError(t, err)
	bobID, err := engine.Participate("bob", 1)
	require.NoError(t, err)
	require.NotEqual(t, aliceID, bobID)

	gateway.fulfill(aliceID, aliceID)
	require.Equal(t, aliceID, engine.CurrentRandomness())

	require.NoError(t, engine.DistributePrize("alice", 1, 250))
	require.EqualValues(t, 250, ledger.BalanceOf("alice"))

	err = engine.DistributePrize("bob", 1, 250)
	require.ErrorIs(t, err, ErrNoMatch)
	require.EqualValues(t, 0, ledger.BalanceOf("bob"))

	events := recorder.all()
	require.Equal(t, PrizeDistributed{Account: "alice", Amount: 250}, events[len(events)-1])
}

func TestPrizeReplay(t *testing.T) {
	engine, gateway, ledger, _ := newTestEngine(t)
	require.NoError(t, engine.Register("alice"))

	requestID, err := engine.Participate("alice", 1)
	require.NoError(t, err)
	gateway.fulfill(requestID, requestID)

	// No claimed flag: the same matching entry pays out on every call.
	require.NoError(t, engine.DistributePrize("alice", 1, 100))
	require.NoError(t, engine.DistributePrize("alice", 1, 100))
	require.EqualValues(t, 200, ledger.BalanceOf("alice"))
}

func TestPrizeTransferFailure(t *testing.T) {
	engine, gateway, ledger, _ := newTestEngine(t)
	require.NoError(t, engine.Register("alice"))

	requestID, err := engine.Participate("alice", 1)
	require.NoError(t, err)
	gateway.fulfill(requestID, requestID)

	ledger.FailFor("alice")
	err = engine.DistributePrize("alice", 1, 100)
	require.ErrorIs(t, err, ErrTransferFailed)
}

func TestFulfillmentOverwrites(t *testing.T) {
	engine, gateway, _, _ := newTestEngine(t)

	gateway.fulfill(1, 41)
	gateway.fulfill(9, 42)
	require.EqualValues(t, 42, engine.CurrentRandomness())
}

func TestAirdropAuthorization(t *testing.T) {
	engine, _, _, _ := newTestEngine(t)
	require.NoError(t, engine.Register("alice"))

	err := engine.DistributeAirdrop("alice", 10)
	require.ErrorIs(t, err, ErrUnauthorized)
}

func TestAirdropValidation(t *testing.T) {
	engine, _, _, _ := newTestEngine(t)

	err := engine.DistributeAirdrop("ledger-identity", 0)
	require.ErrorIs(t, err, ErrInvalidAmount)

	err = engine.DistributeAirdrop("ledger-identity", -5)
	require.ErrorIs(t, err, ErrInvalidAmount)

	err = engine.DistributeAirdrop("ledger-identity", 10)
	require.ErrorIs(t, err, ErrNoParticipants)
}

func TestAirdropFloorDivision(t *testing.T) {
	engine, _, ledger, recorder := newTestEngine(t)
	accounts := []string{"alice", "bob", "carol"}
	for _, account := range accounts {
		require.NoError(t, engine.Register(account))
	}

	// 10 across 3: floor share of 3 each, remainder 1 stays undistributed.
	require.NoError(t, engine.DistributeAirdrop("ledger-identity", 10))
	for _, account := range accounts {
		require.EqualValues(t, 3, ledger.BalanceOf(account))
	}

	// 9 across 3 splits exactly.
	require.NoError(t, engine.DistributeAirdrop("ledger-identity", 9))
	for _, account := range accounts {
		require.EqualValues(t, 6, ledger.BalanceOf(account))
	}

	var drops []AirdropTokensDistributed
	for _, event := range recorder.all() {
		if drop, ok := event.(AirdropTokensDistributed); ok {
			drops = append(drops, drop)
		}
	}
	require.Len(t, drops, 6)
	// Registration order on both passes.
	require.Equal(t, "alice", drops[0].Account)
	require.Equal(t, "bob", drops[1].Account)
	require.Equal(t, "carol", drops[2].Account)
}

func TestAirdropAbortsOnTransferFailure(t *testing.T) {
	engine, _, ledger, recorder := newTestEngine(t)
	for _, account := range []string{"alice", "bob", "carol"} {
		require.NoError(t, engine.Register(account))
	}

	ledger.FailFor("bob")
	err := engine.DistributeAirdrop("ledger-identity", 9)
	require.ErrorIs(t, err, ErrTransferFailed)

	// The transfer already made stands, nothing past the failure is issued.
	require.EqualValues(t, 3, ledger.BalanceOf("alice"))
	require.EqualValues(t, 0, ledger.BalanceOf("bob"))
	require.EqualValues(t, 0, ledger.BalanceOf("carol"))

	var drops []AirdropTokensDistributed
	for _, event := range recorder.all() {
		if drop, ok := event.(AirdropTokensDistributed); ok {
			drops = append(drops, drop)
		}
	}
	require.Len(t, drops, 1)
	require.Equal(t, "alice", drops[0].Account)
}

func TestConcurrentParticipate(t *testing.T) {
	engine, _, _, _ := newTestEngine(t)

	const accounts = 32
	for i := 0; i < accounts; i++ {
		require.NoError(t, engine.Register(fmt.Sprintf("account-%d", i)))
	}

	returned := make([]uint64, accounts)
	errs := make([]error, accounts)
	var wg sync.WaitGroup
	for i := 0; i < accounts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			returned[i], errs[i] = engine.Participate(fmt.Sprintf("account-%d", i), 1)
		}(i)
	}
	wg.Wait()

	for i := 0; i < accounts; i++ {
		require.NoError(t, errs[i])
		account := fmt.Sprintf("account-%d", i)
		require.Equal(t, returned[i], engine.EntryValue(account, 1), account)
		require.EqualValues(t, 1, engine.TotalEntries(account), account)
	}
}

func TestRestartRebuildsState(t *testing.T) {
	for _, backend := range []string{"sqlite", "bolt"} {
		t.Run(backend, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "lottery.db")

			open := func() storage.Storage {
				if backend == "bolt" {
					store, err := storage.NewBoltStorage(path)
					require.NoError(t, err)
					return store
				}
				return storage.NewSqliteStorage(path)
			}

			gateway := &stubGateway{}
			ledger := token.NewMemoryLedger("ledger-identity", 1000)

			store := open()
			engine, err := NewEngine(store, gateway, ledger, func(Event) {})
			require.NoError(t, err)

			require.NoError(t, engine.Register("alice"))
			require.NoError(t, engine.Register("bob"))
			requestID, err := engine.Participate("alice", 4)
			require.NoError(t, err)
			gateway.fulfill(requestID, 77)
			require.NoError(t, store.Close())

			store = open()
			defer func() {
				require.NoError(t, store.Close())
			}()

			rebuilt, err := NewEngine(store, gateway, ledger, func(Event) {})
			require.NoError(t, err)

			require.Equal(t, 2, rebuilt.Count())
			require.True(t, rebuilt.IsRegistered("alice"))
			require.True(t, rebuilt.IsRegistered("bob"))
			require.EqualValues(t, 1, rebuilt.TotalEntries("alice"))
			require.Equal(t, requestID, rebuilt.EntryValue("alice", 4))
			require.EqualValues(t, 77, rebuilt.CurrentRandomness())
		})
	}
}
