package api

import (
	"time"

	"plant-care-backend/internal/model"
	"plant-care-backend/internal/schedule"
)

// plantResponse is a stored plant plus everything derived from its schedule.
type plantResponse struct {
	model.Plant

	Status             schedule.Status    `json:"status"`
	NeedsWater         bool               `json:"needs_water"`
	DaysUntilWatering  float64            `json:"days_until_watering"`
	NextWateringDate   time.Time          `json:"next_watering_date"`
	LastWateredDate    *time.Time         `json:"last_watered_date"`
	NeedsFertilizer    bool               `json:"needs_fertilizer"`
	LastFertilizedDate *time.Time         `json:"last_fertilized_date"`
	Relative           string             `json:"relative"`
	Flowering          schedule.Flowering `json:"flowering"`
}

func (h *Handler) present(p model.Plant, now time.Time) plantResponse {
	if p.WateringLog == nil {
		p.WateringLog = []model.WateringEntry{}
	}
	if p.Photos == nil {
		p.Photos = []string{}
	}

	s := schedule.Summarize(p.Schedule(), now)
	return plantResponse{
		Plant:              p,
		Status:             s.Status,
		NeedsWater:         s.Status.NeedsWater(),
		DaysUntilWatering:  s.DaysUntilWatering,
		NextWateringDate:   s.NextWatering,
		LastWateredDate:    s.LastWatered,
		NeedsFertilizer:    s.NeedsFertilizer,
		LastFertilizedDate: s.LastFertilized,
		Relative:           h.phrases.Format(s.Relative),
		Flowering:          schedule.FloweringState(p.FloweringStart, p.FloweringEnd, now),
	}
}
