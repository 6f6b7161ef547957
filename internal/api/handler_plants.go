package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"plant-care-backend/internal/schedule"
)

const (
	filterAll   = "all"
	filterNeeds = "needs"
)

// ListPlants returns every plant with its derived schedule. The optional
// filter query narrows the list to plants needing water or to one status.
func (h *Handler) ListPlants(c *gin.Context) {
	filter := c.DefaultQuery("filter", filterAll)
	if filter != filterAll && filter != filterNeeds && !schedule.Status(filter).Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid filter"})
		return
	}

	plants, err := h.store.ListPlants(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}

	now := h.now()
	resp := make([]plantResponse, 0, len(plants))
	for _, p := range plants {
		pr := h.present(p, now)
		switch {
		case filter == filterNeeds && !pr.NeedsWater:
			continue
		case filter != filterAll && filter != filterNeeds && string(pr.Status) != filter:
			continue
		}
		resp = append(resp, pr)
	}

	c.JSON(http.StatusOK, resp)
}

// GetPlant returns a single plant.
func (h *Handler) GetPlant(c *gin.Context) {
	id, ok := plantID(c)
	if !ok {
		return
	}

	plant, err := h.store.GetPlant(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.present(*plant, h.now()))
}

// CreatePlant adds a new plant with an empty watering log.
func (h *Handler) CreatePlant(c *gin.Context) {
	var req plantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	plant, err := h.toPlant(ctx, req)
	if err != nil {
		abortWithError(c, err)
		return
	}
	if err := h.store.CreatePlant(ctx, plant); err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, h.present(*plant, h.now()))
}

// UpdatePlant replaces the editable fields of a plant.
func (h *Handler) UpdatePlant(c *gin.Context) {
	id, ok := plantID(c)
	if !ok {
		return
	}

	var req plantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	plant, err := h.toPlant(ctx, req)
	if err != nil {
		abortWithError(c, err)
		return
	}
	plant.ID = id
	if err := h.store.UpdatePlant(ctx, plant); err != nil {
		abortWithError(c, err)
		return
	}

	updated, err := h.store.GetPlant(ctx, id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.present(*updated, h.now()))
}

// DeletePlant removes a plant and its history.
func (h *Handler) DeletePlant(c *gin.Context) {
	id, ok := plantID(c)
	if !ok {
		return
	}

	if err := h.store.DeletePlant(c.Request.Context(), id); err != nil {
		abortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
