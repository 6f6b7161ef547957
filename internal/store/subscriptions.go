package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"plant-care-backend/internal/model"
)

// PutSubscription creates or replaces a push subscription and the plants it follows.
func (s *gormStore) PutSubscription(ctx context.Context, sub *model.PushSubscription, plantIDs []int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "endpoint"}},
			DoUpdates: clause.AssignmentColumns([]string{"p256dh", "auth", "all_plants"}),
		}).Create(sub).Error; err != nil {
			return fmt.Errorf("failed to upsert subscription: %w", err)
		}

		var plants []*model.Plant
		if len(plantIDs) > 0 {
			if err := tx.Find(&plants, plantIDs).Error; err != nil {
				return fmt.Errorf("failed to load subscribed plants: %w", err)
			}
		}

		if err := tx.Model(sub).Association("Plants").Replace(&plants); err != nil {
			return fmt.Errorf("failed to map subscription to plants: %w", err)
		}
		sub.Plants = plants
		return nil
	})
}

// GetSubscription returns a subscription with the plants it follows.
func (s *gormStore) GetSubscription(ctx context.Context, endpoint string) (*model.PushSubscription, error) {
	var sub model.PushSubscription
	if err := s.db.WithContext(ctx).Preload("Plants").First(&sub, "endpoint = ?", endpoint).Error; err != nil {
		return nil, fmt.Errorf("failed to get subscription: %w", notFound(err))
	}
	return &sub, nil
}

// DeleteSubscription removes a subscription and its plant mappings.
func (s *gormStore) DeleteSubscription(ctx context.Context, endpoint string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM subscription_plant_mapping WHERE push_subscription_endpoint = ?", endpoint).Error; err != nil {
			return fmt.Errorf("failed to delete subscription mappings: %w", err)
		}
		if err := tx.Delete(&model.PushSubscription{Endpoint: endpoint}).Error; err != nil {
			return fmt.Errorf("failed to delete subscription: %w", err)
		}
		return nil
	})
}

// SubscribersForPlant returns subscriptions following the plant, either
// explicitly or through AllPlants.
func (s *gormStore) SubscribersForPlant(ctx context.Context, plantID int64) ([]model.PushSubscription, error) {
	var subs []model.PushSubscription
	err := s.db.WithContext(ctx).
		Where("all_plants = ?", true).
		Or("endpoint IN (?)", s.db.Table("subscription_plant_mapping").
			Select("push_subscription_endpoint").
			Where("plant_id = ?", plantID)).
		Find(&subs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch subscriptions for plant %d: %w", plantID, err)
	}
	return subs, nil
}
