package storage

import (
	"sort"
	"sync"
)

// MemoryStorage is a map-backed Storage used in tests and as the default
// backend for a purely in-process engine.
type MemoryStorage struct {
	mu           sync.RWMutex
	participants map[string]Participant
	entries      map[string]map[int64]Entry
	round        RoundState
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		participants: make(map[string]Participant),
		entries:      make(map[string]map[int64]Entry),
		round:        RoundState{ID: 1},
	}
}

func (s *MemoryStorage) GetParticipant(address string) (*Participant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	participant, ok := s.participants[address]
	if !ok {
		return nil, ErrNotFound
	}

	return &participant, nil
}

func (s *MemoryStorage) GetParticipants() ([]*Participant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	participants := make([]*Participant, 0, len(s.participants))
	for address := range s.participants {
		participant := s.participants[address]
		participants = append(participants, &participant)
	}

	sort.Slice(participants, func(i, j int) bool {
		return participants[i].Position < participants[j].Position
	})

	return participants, nil
}

func (s *MemoryStorage) UpsertParticipant(participant *Participant) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.participants[participant.Address] = *participant
	return nil
}

func (s *MemoryStorage) GetEntry(address string, entryNumber int64) (*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[address][entryNumber]
	if !ok {
		return nil, ErrNotFound
	}

	return &entry, nil
}

func (s *MemoryStorage) GetEntries() ([]*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]*Entry, 0)
	for address := range s.entries {
		for entryNumber := range s.entries[address] {
			entry := s.entries[address][entryNumber]
			entries = append(entries, &entry)
		}
	}

	return entries, nil
}

func (s *MemoryStorage) UpsertEntry(entry *Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.entries[entry.Address] == nil {
		s.entries[entry.Address] = make(map[int64]Entry)
	}

	s.entries[entry.Address][entry.EntryNumber] = *entry
	return nil
}

func (s *MemoryStorage) GetRoundState() (*RoundState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	round := s.round
	return &round, nil
}

func (s *MemoryStorage) UpdateRoundState(state *RoundState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	state.ID = 1
	s.round = *state
	return nil
}

func (s *MemoryStorage) Close() error {
	return nil
}
