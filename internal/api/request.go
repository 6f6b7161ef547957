package api

import (
	"context"
	"fmt"
	"strings"

	"plant-care-backend/internal/model"
	"plant-care-backend/internal/parse"
)

const (
	minIntervalDays = 1
	maxIntervalDays = 365
)

type validationError struct {
	Field   string
	Message string
}

func (e validationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// plantRequest is the body of POST and PUT /api/plants. Dates are strings so
// that date-only values from HTML inputs are accepted.
type plantRequest struct {
	Name                      string   `json:"name"`
	PlantType                 string   `json:"plant_type"`
	Notes                     string   `json:"notes"`
	Photo                     string   `json:"photo"`
	Photos                    []string `json:"photos"`
	WateringIntervalDays      int      `json:"watering_interval_days"`
	FertilizerEveryNWaterings int      `json:"fertilizer_every_n_waterings"`
	LastWateredOverride       *string  `json:"last_watered_override"`
	FloweringStart            *string  `json:"flowering_start"`
	FloweringEnd              *string  `json:"flowering_end"`
	FloweringPhoto            string   `json:"flowering_photo"`
}

// toPlant validates the request and builds the plant it describes. Photos
// are validated and, if configured, uploaded.
func (h *Handler) toPlant(ctx context.Context, req plantRequest) (*model.Plant, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, validationError{"name", "is required"}
	}
	if req.WateringIntervalDays < minIntervalDays || req.WateringIntervalDays > maxIntervalDays {
		return nil, validationError{"watering_interval_days", fmt.Sprintf("must be between %d and %d", minIntervalDays, maxIntervalDays)}
	}
	if req.FertilizerEveryNWaterings < 0 {
		return nil, validationError{"fertilizer_every_n_waterings", "must not be negative"}
	}

	override, err := parse.OptionalDate(req.LastWateredOverride, h.loc)
	if err != nil {
		return nil, validationError{"last_watered_override", err.Error()}
	}
	floweringStart, err := parse.OptionalDate(req.FloweringStart, h.loc)
	if err != nil {
		return nil, validationError{"flowering_start", err.Error()}
	}
	floweringEnd, err := parse.OptionalDate(req.FloweringEnd, h.loc)
	if err != nil {
		return nil, validationError{"flowering_end", err.Error()}
	}
	if floweringEnd != nil && (floweringStart == nil || floweringEnd.Before(*floweringStart)) {
		return nil, validationError{"flowering_end", "must not be before flowering_start"}
	}

	cover, err := h.photos.Store(ctx, "plant-cover", req.Photo)
	if err != nil {
		return nil, err
	}
	gallery, err := h.photos.StoreAll(ctx, "plant-gallery", req.Photos, 0)
	if err != nil {
		return nil, err
	}
	flowering, err := h.photos.Store(ctx, "plant-flowering", req.FloweringPhoto)
	if err != nil {
		return nil, err
	}

	return &model.Plant{
		Name:                      name,
		PlantType:                 strings.TrimSpace(req.PlantType),
		Notes:                     strings.TrimSpace(req.Notes),
		Photo:                     cover,
		Photos:                    gallery,
		WateringIntervalDays:      req.WateringIntervalDays,
		FertilizerEveryNWaterings: req.FertilizerEveryNWaterings,
		LastWateredOverride:       override,
		FloweringStart:            floweringStart,
		FloweringEnd:              floweringEnd,
		FloweringPhoto:            flowering,
	}, nil
}

// waterRequest is the body of POST /api/plants/:id/water. An empty body
// records a plain watering now.
type waterRequest struct {
	Date       *string  `json:"date"`
	Fertilized bool     `json:"fertilized"`
	Note       string   `json:"note"`
	Photos     []string `json:"photos"`
}

func (h *Handler) toEntry(ctx context.Context, req waterRequest) (*model.WateringEntry, error) {
	date, err := parse.OptionalDate(req.Date, h.loc)
	if err != nil {
		return nil, validationError{"date", err.Error()}
	}
	when := h.now()
	if date != nil {
		when = *date
	}

	photos, err := h.photos.StoreAll(ctx, "watering", req.Photos, h.maxPerWatering)
	if err != nil {
		return nil, err
	}

	return &model.WateringEntry{
		Date:       when.UTC(),
		Fertilized: req.Fertilized,
		Note:       strings.TrimSpace(req.Note),
		Photos:     photos,
	}, nil
}
