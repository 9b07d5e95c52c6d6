package storage

import "errors"

// ErrNotFound is returned by point lookups when no record exists.
var ErrNotFound = errors.New("storage: record not found")

type Storage interface {
	// participant
	GetParticipant(address string) (*Participant, error)
	GetParticipants() ([]*Participant, error)
	UpsertParticipant(participant *Participant) error

	// entry
	GetEntry(address string, entryNumber int64) (*Entry, error)
	GetEntries() ([]*Entry, error)
	UpsertEntry(entry *Entry) error

	// round state
	GetRoundState() (*RoundState, error)
	UpdateRoundState(state *RoundState) error

	Close() error
}
