package randomness

import (
	"encoding/binary"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/crypto/sha3"
)

// LocalOracle simulates the external oracle in-process. Random values are
// derived by hashing the server seed, the request counter, the caller seed
// and the request time, then delivered asynchronously to the handler after
// an optional delay. Values are always non-zero, zero is the engine's
// "not yet generated" sentinel.
type LocalOracle struct {
	serverSeed []byte
	delay      time.Duration
	counter    atomic.Uint64

	mu      sync.RWMutex
	handler Handler
}

func NewLocalOracle(serverSeed []byte, delay time.Duration) *LocalOracle {
	return &LocalOracle{
		serverSeed: serverSeed,
		delay:      delay,
	}
}

func (o *LocalOracle) SetHandler(handler Handler) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.handler = handler
}

func (o *LocalOracle) RequestRandomness(seed []byte) (uint64, error) {
	requestID := o.counter.Add(1)
	randomValue := o.derive(requestID, seed)

	go func() {
		if o.delay > 0 {
			time.Sleep(o.delay)
		}

		o.mu.RLock()
		handler := o.handler
		o.mu.RUnlock()

		if handler != nil {
			handler(requestID, randomValue)
		}
	}()

	return requestID, nil
}

func (o *LocalOracle) derive(requestID uint64, seed []byte) uint64 {
	data := make([]byte, 0, len(o.serverSeed)+len(seed)+16)
	data = append(data, o.serverSeed...)
	data = binary.BigEndian.AppendUint64(data, requestID)
	data = binary.BigEndian.AppendUint64(data, uint64(time.Now().UnixNano()))
	data = append(data, seed...)

	digest := sha3.Sum256(data)
	value := binary.BigEndian.Uint64(digest[:8]) >> 1
	if value == 0 {
		value = 1
	}

	return value
}
