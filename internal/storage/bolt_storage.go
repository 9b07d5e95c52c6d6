package storage

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"

	"go.etcd.io/bbolt"
)

var (
	bucketParticipants = []byte("participants")
	bucketOrder        = []byte("participants_order")
	bucketEntries      = []byte("entries")
	bucketRound        = []byte("round_state")
)

// BoltStorage implements Storage on top of an embedded bbolt database.
// Participants are kept twice: by address for point lookups and by
// position under participants_order so GetParticipants returns
// registration order.
type BoltStorage struct {
	db *bbolt.DB
}

func NewBoltStorage(path string) (*BoltStorage, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("storage: create directory: %w", err)
	}

	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("storage: open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketParticipants, bucketOrder, bucketEntries, bucketRound} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("storage: create bucket %q: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &BoltStorage{db: db}, nil
}

func (s *BoltStorage) GetParticipant(address string) (*Participant, error) {
	var participant *Participant
	err := s.db.View(func(tx *bbolt.Tx) error {
		raw := tx.Bucket(bucketParticipants).Get([]byte(address))
		if raw == nil {
			return ErrNotFound
		}

		participant = new(Participant)
		return decodeGob(raw, participant)
	})
	if err != nil {
		return nil, err
	}

	return participant, nil
}

func (s *BoltStorage) GetParticipants() ([]*Participant, error) {
	var participants = make([]*Participant, 0)
	err := s.db.View(func(tx *bbolt.Tx) error {
		order := tx.Bucket(bucketOrder)
		byAddress := tx.Bucket(bucketParticipants)

		return order.ForEach(func(_, address []byte) error {
			raw := byAddress.Get(address)
			if raw == nil {
				return fmt.Errorf("storage: orphan order slot for %q", address)
			}

			var participant Participant
			if err := decodeGob(raw, &participant); err != nil {
				return err
			}

			participants = append(participants, &participant)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	return participants, nil
}

func (s *BoltStorage) UpsertParticipant(participant *Participant) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		raw, err := encodeGob(participant)
		if err != nil {
			return err
		}

		address := []byte(participant.Address)
		if err := tx.Bucket(bucketParticipants).Put(address, raw); err != nil {
			return err
		}

		return tx.Bucket(bucketOrder).Put(positionKey(participant.Position), address)
	})
}

func (s *BoltStorage) GetEntry(address string, entryNumber int64) (*Entry, error) {
	var entry *Entry
	err := s.db.View(func(tx *bbolt.Tx) error {
		raw := tx.Bucket(bucketEntries).Get(entryKey(address, entryNumber))
		if raw == nil {
			return ErrNotFound
		}

		entry = new(Entry)
		return decodeGob(raw, entry)
	})
	if err != nil {
		return nil, err
	}

	return entry, nil
}

func (s *BoltStorage) GetEntries() ([]*Entry, error) {
	var entries = make([]*Entry, 0)
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketEntries).ForEach(func(_, raw []byte) error {
			var entry Entry
			if err := decodeGob(raw, &entry); err != nil {
				return err
			}

			entries = append(entries, &entry)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	return entries, nil
}

func (s *BoltStorage) UpsertEntry(entry *Entry) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		raw, err := encodeGob(entry)
		if err != nil {
			return err
		}

		return tx.Bucket(bucketEntries).Put(entryKey(entry.Address, entry.EntryNumber), raw)
	})
}

func (s *BoltStorage) GetRoundState() (*RoundState, error) {
	state := &RoundState{ID: 1}
	err := s.db.View(func(tx *bbolt.Tx) error {
		raw := tx.Bucket(bucketRound).Get([]byte{1})
		if raw == nil {
			return nil
		}

		return decodeGob(raw, state)
	})
	if err != nil {
		return nil, err
	}

	return state, nil
}

func (s *BoltStorage) UpdateRoundState(state *RoundState) error {
	state.ID = 1
	return s.db.Update(func(tx *bbolt.Tx) error {
		raw, err := encodeGob(state)
		if err != nil {
			return err
		}

		return tx.Bucket(bucketRound).Put([]byte{1}, raw)
	})
}

func (s *BoltStorage) Close() error {
	return s.db.Close()
}

// positionKey encodes a registration position as an 8-byte big-endian key
// so bucket iteration yields registration order.
func positionKey(position int64) []byte {
	k := make([]byte, 8)
	binary.BigEndian.PutUint64(k, uint64(position))
	return k
}

func entryKey(address string, entryNumber int64) []byte {
	k := make([]byte, 0, len(address)+9)
	k = append(k, address...)
	k = append(k, 0)
	return binary.BigEndian.AppendUint64(k, uint64(entryNumber))
}

func encodeGob(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decodeGob(data []byte, v interface{}) error {
	return gob.NewDecoder(bytes.NewReader(data)).Decode(v)
}
