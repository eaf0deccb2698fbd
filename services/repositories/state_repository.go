package repositories

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StateRecord is a row in the key-value table the device state lives in.
// The payload is an opaque JSON document; schema evolution happens at the
// decode step, not in the table.
type StateRecord struct {
	Key       string `gorm:"primaryKey"`
	Payload   []byte `gorm:"not null"`
	UpdatedAt time.Time
}

func (StateRecord) TableName() string {
	return "state_records"
}

type StateRepository struct {
	BaseRepository
}

func NewStateRepository(db *gorm.DB) *StateRepository {
	return &StateRepository{BaseRepository: NewBaseRepository(db)}
}

// Get returns the payload stored under key, or (nil, nil) when no record
// exists yet. Lazy initialization is the caller's concern.
func (r *StateRepository) Get(key string) ([]byte, error) {
	var record StateRecord
	err := r.db.First(&record, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return record.Payload, nil
}

// Put upserts the payload under key. The store offers no compare-and-swap;
// the last write to land wins.
func (r *StateRepository) Put(key string, payload []byte) error {
	record := StateRecord{Key: key, Payload: payload, UpdatedAt: time.Now()}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
	}).Create(&record).Error
}
