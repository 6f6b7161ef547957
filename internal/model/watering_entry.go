package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WateringEntry records one watering of a plant.
type WateringEntry struct {
	ID         string    `gorm:"primaryKey;size:36" json:"id"`
	PlantID    int64     `gorm:"index;not null" json:"plant_id"`
	Date       time.Time `gorm:"index;not null" json:"date"`
	Fertilized bool      `gorm:"not null;default:false" json:"fertilized"`
	Note       string    `json:"note"`
	Photos     []string  `gorm:"serializer:json" json:"photos"`
	CreatedAt  time.Time `gorm:"not null" json:"created_at"`
}

// BeforeCreate assigns a random ID to entries created without one.
func (e *WateringEntry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}
