package randomness

// Handler receives oracle fulfillments. It is invoked exactly once per
// request id, at an arbitrary time after the request, in arbitrary order
// relative to other in-flight requests.
type Handler func(requestID uint64, randomValue uint64)

// Gateway abstracts the external randomness oracle. RequestRandomness
// never blocks on the answer; the answer arrives later through the
// registered Handler.
type Gateway interface {
	RequestRandomness(seed []byte) (uint64, error)
	SetHandler(handler Handler)
}
