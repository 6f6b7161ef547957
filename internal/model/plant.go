package model

import (
	"time"

	"plant-care-backend/internal/schedule"
)

// Plant is a tracked plant with its watering configuration.
type Plant struct {
	ID                        int64      `gorm:"primaryKey" json:"id"`
	Name                      string     `gorm:"size:256;not null" json:"name"`
	PlantType                 string     `gorm:"size:128" json:"plant_type"`
	Notes                     string     `json:"notes"`
	Photo                     string     `json:"photo"`
	Photos                    []string   `gorm:"serializer:json" json:"photos"`
	WateringIntervalDays      int        `gorm:"not null" json:"watering_interval_days"`
	FertilizerEveryNWaterings int        `gorm:"not null;default:0" json:"fertilizer_every_n_waterings"`
	LastWateredOverride       *time.Time `json:"last_watered_override"`
	FloweringStart            *time.Time `json:"flowering_start"`
	FloweringEnd              *time.Time `json:"flowering_end"`
	FloweringPhoto            string     `json:"flowering_photo"`
	CreatedAt                 time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt                 time.Time  `gorm:"not null" json:"updated_at"`

	// Associations
	WateringLog []WateringEntry `gorm:"foreignKey:PlantID;constraint:OnDelete:CASCADE" json:"watering_log"`
}

// Schedule converts the plant into the engine's input.
func (p *Plant) Schedule() schedule.Plant {
	log := make([]schedule.Entry, len(p.WateringLog))
	for i, e := range p.WateringLog {
		log[i] = schedule.Entry{Date: e.Date, Fertilized: e.Fertilized}
	}
	return schedule.Plant{
		IntervalDays:        p.WateringIntervalDays,
		FertilizeEvery:      p.FertilizerEveryNWaterings,
		LastWateredOverride: p.LastWateredOverride,
		Log:                 log,
	}
}
