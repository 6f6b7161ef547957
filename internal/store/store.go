package store

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"plant-care-backend/internal/model"
)

// ErrNotFound is returned when a plant, watering entry or subscription does not exist.
var ErrNotFound = errors.New("not found")

// Store defines the interface for all database operations.
type Store interface {
	ListPlants(ctx context.Context) ([]model.Plant, error)
	GetPlant(ctx context.Context, id int64) (*model.Plant, error)
	CreatePlant(ctx context.Context, plant *model.Plant) error
	UpdatePlant(ctx context.Context, plant *model.Plant) error
	DeletePlant(ctx context.Context, id int64) error

	AddWatering(ctx context.Context, plantID int64, entry *model.WateringEntry) error
	DeleteWatering(ctx context.Context, plantID int64, entryID string) error

	PutSubscription(ctx context.Context, sub *model.PushSubscription, plantIDs []int64) error
	GetSubscription(ctx context.Context, endpoint string) (*model.PushSubscription, error)
	DeleteSubscription(ctx context.Context, endpoint string) error
	SubscribersForPlant(ctx context.Context, plantID int64) ([]model.PushSubscription, error)

	DB() *gorm.DB
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) DB() *gorm.DB {
	return s.db
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// newestFirst orders the preloaded watering log by date, most recent first.
func newestFirst(db *gorm.DB) *gorm.DB {
	return db.Order("date DESC")
}

// sortLog re-sorts a preloaded log by instant. Rows written with mixed
// offsets do not sort correctly as text on sqlite.
func sortLog(p *model.Plant) {
	slices.SortStableFunc(p.WateringLog, func(a, b model.WateringEntry) int {
		return b.Date.Compare(a.Date)
	})
}

// ListPlants returns every plant with its watering log, oldest plant first.
func (s *gormStore) ListPlants(ctx context.Context) ([]model.Plant, error) {
	var plants []model.Plant
	if err := s.db.WithContext(ctx).
		Preload("WateringLog", newestFirst).
		Order("created_at ASC, id ASC").
		Find(&plants).Error; err != nil {
		return nil, fmt.Errorf("failed to list plants: %w", err)
	}
	for i := range plants {
		sortLog(&plants[i])
	}
	return plants, nil
}

// GetPlant returns a plant with its watering log.
func (s *gormStore) GetPlant(ctx context.Context, id int64) (*model.Plant, error) {
	var plant model.Plant
	if err := s.db.WithContext(ctx).
		Preload("WateringLog", newestFirst).
		First(&plant, id).Error; err != nil {
		return nil, fmt.Errorf("failed to get plant %d: %w", id, notFound(err))
	}
	sortLog(&plant)
	return &plant, nil
}

// CreatePlant inserts a plant. Any watering log on it is ignored.
func (s *gormStore) CreatePlant(ctx context.Context, plant *model.Plant) error {
	plant.WateringLog = nil
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(plant).Error; err != nil {
		return fmt.Errorf("failed to create plant: %w", err)
	}
	return nil
}

// UpdatePlant replaces the editable fields of an existing plant. The
// watering log is left untouched.
func (s *gormStore) UpdatePlant(ctx context.Context, plant *model.Plant) error {
	res := s.db.WithContext(ctx).
		Model(&model.Plant{ID: plant.ID}).
		Omit(clause.Associations).
		Select("name", "plant_type", "notes", "photo", "photos",
			"watering_interval_days", "fertilizer_every_n_waterings",
			"last_watered_override", "flowering_start", "flowering_end", "flowering_photo").
		Updates(plant)
	if res.Error != nil {
		return fmt.Errorf("failed to update plant %d: %w", plant.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("failed to update plant %d: %w", plant.ID, ErrNotFound)
	}
	return nil
}

// DeletePlant removes a plant together with its log and subscription mappings.
func (s *gormStore) DeletePlant(ctx context.Context, id int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("plant_id = ?", id).Delete(&model.WateringEntry{}).Error; err != nil {
			return fmt.Errorf("failed to delete watering log of plant %d: %w", id, err)
		}
		if err := tx.Exec("DELETE FROM subscription_plant_mapping WHERE plant_id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to delete subscriptions of plant %d: %w", id, err)
		}
		res := tx.Delete(&model.Plant{}, id)
		if res.Error != nil {
			return fmt.Errorf("failed to delete plant %d: %w", id, res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("failed to delete plant %d: %w", id, ErrNotFound)
		}
		return nil
	})
}

// AddWatering appends an entry to a plant's watering log.
func (s *gormStore) AddWatering(ctx context.Context, plantID int64, entry *model.WateringEntry) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.Plant{}).Where("id = ?", plantID).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to look up plant %d: %w", plantID, err)
		}
		if count == 0 {
			return fmt.Errorf("failed to water plant %d: %w", plantID, ErrNotFound)
		}

		entry.PlantID = plantID
		// sqlite compares stored times as text, so every row shares one offset.
		entry.Date = entry.Date.UTC()
		if err := tx.Create(entry).Error; err != nil {
			return fmt.Errorf("failed to add watering to plant %d: %w", plantID, err)
		}
		return nil
	})
}

// DeleteWatering removes an entry; it must belong to the given plant.
func (s *gormStore) DeleteWatering(ctx context.Context, plantID int64, entryID string) error {
	res := s.db.WithContext(ctx).
		Where("id = ? AND plant_id = ?", entryID, plantID).
		Delete(&model.WateringEntry{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete watering %s: %w", entryID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("failed to delete watering %s of plant %d: %w", entryID, plantID, ErrNotFound)
	}
	return nil
}
