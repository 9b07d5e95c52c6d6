package storage

type Participant struct {
	Address      string `gorm:"primaryKey"`
	Position     int64  `gorm:"uniqueIndex;not null"`
	TotalEntries int64  `gorm:"default:0"`
}

type Entry struct {
	Address     string `gorm:"primaryKey"`
	EntryNumber int64  `gorm:"primaryKey"`
	RequestID   uint64 `gorm:"not null"`
}

// RoundState is a single-row table, ID is always 1.
type RoundState struct {
	ID           uint8  `gorm:"primaryKey"`
	RandomResult uint64 `gorm:"default:0"`
}
