package db

import (
	"time"

	"gorm.io/datatypes"
)

// Game stores one aggregate as a whole document. State holds the full
// serialized aggregate; Version increments on every write so concurrent
// writers from another process surface as conflicts instead of silent loss.
type Game struct {
	ID        uint           `gorm:"primaryKey"`
	Code      string         `gorm:"size:8;uniqueIndex;not null"`
	Phase     string         `gorm:"size:32;not null"`
	Version   int64          `gorm:"not null;default:0"`
	State     datatypes.JSON `gorm:"type:jsonb;not null"`
	CreatedAt time.Time      `gorm:"not null"`
	UpdatedAt time.Time      `gorm:"not null"`
	Events    []Event        `gorm:"foreignKey:GameID"`
}

// Event is one published notification, kept as an audit trail.
type Event struct {
	ID          uint           `gorm:"primaryKey"`
	GameID      uint           `gorm:"index;not null"`
	RoundNumber *int           `gorm:"index"`
	Type        string         `gorm:"size:64;not null"`
	Payload     datatypes.JSON `gorm:"type:jsonb;not null"`
	CreatedAt   time.Time      `gorm:"not null"`
}
