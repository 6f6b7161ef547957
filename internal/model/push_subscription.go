package model

import "time"

// PushSubscription holds the information for a browser push subscription.
type PushSubscription struct {
	Endpoint  string    `gorm:"primaryKey"`
	P256DH    string    `gorm:"column:p256dh;not null"`
	Auth      string    `gorm:"not null"`
	AllPlants bool      `gorm:"not null;default:false"`
	CreatedAt time.Time `gorm:"not null"`

	// Associations
	Plants []*Plant `gorm:"many2many:subscription_plant_mapping;constraint:OnDelete:CASCADE"`
}
