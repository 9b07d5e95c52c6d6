package storage

import (
	"backend/internal/logger"
	"errors"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SqliteStorage struct {
	db *gorm.DB
}

func NewSqliteStorage(path string) *SqliteStorage {

	logger.Debug("initializing database...")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		panic(err)
	}

	err = db.AutoMigrate(
		&Participant{},
		&Entry{},
		&RoundState{},
	)

	if err != nil {
		panic(err)
	}

	return &SqliteStorage{
		db: db,
	}
}

func (s *SqliteStorage) GetParticipant(address string) (*Participant, error) {

	var participant Participant
	err := s.db.Where("address = ?", address).First(&participant).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}

	if err != nil {
		return nil, err
	}

	return &participant, nil
}

func (s *SqliteStorage) GetParticipants() ([]*Participant, error) {

	var participants = make([]*Participant, 0)
	err := s.db.Raw(`
		select *
		from participants
		order by position
	`).Scan(&participants).Error

	if err != nil {
		return nil, err
	}

	return participants, nil
}

func (s *SqliteStorage) UpsertParticipant(participant *Participant) error {
	logger.Debug("updating participant...")

	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "address"}},
		DoUpdates: clause.AssignmentColumns([]string{"total_entries"}),
	}).Create(&participant).Error

	if err != nil {
		return err
	}

	logger.Debug("updating participant...done")
	return nil
}

func (s *SqliteStorage) GetEntry(address string, entryNumber int64) (*Entry, error) {

	var entry Entry
	err := s.db.Where("address = ? and entry_number = ?", address, entryNumber).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}

	if err != nil {
		return nil, err
	}

	return &entry, nil
}

func (s *SqliteStorage) GetEntries() ([]*Entry, error) {

	var entries = make([]*Entry, 0)
	err := s.db.Raw(`
		select *
		from entries
		order by address, entry_number
	`).Scan(&entries).Error

	if err != nil {
		return nil, err
	}

	return entries, nil
}

func (s *SqliteStorage) UpsertEntry(entry *Entry) error {
	logger.Debug("updating entry...")

	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "address"}, {Name: "entry_number"}},
		DoUpdates: clause.AssignmentColumns([]string{"request_id"}),
	}).Create(&entry).Error

	if err != nil {
		return err
	}

	logger.Debug("updating entry...done")
	return nil
}

func (s *SqliteStorage) GetRoundState() (*RoundState, error) {

	var state RoundState
	err := s.db.Where("id = ?", 1).First(&state).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &RoundState{ID: 1}, nil
	}

	if err != nil {
		return nil, err
	}

	return &state, nil
}

func (s *SqliteStorage) UpdateRoundState(state *RoundState) error {
	logger.Debug("updating round state...")

	state.ID = 1
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"random_result"}),
	}).Create(&state).Error

	if err != nil {
		return err
	}

	logger.Debug("updating round state...done")
	return nil
}

func (s *SqliteStorage) Close() error {
	db, err := s.db.DB()
	if err != nil {
		return err
	}

	return db.Close()
}
