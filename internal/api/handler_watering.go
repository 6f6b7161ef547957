package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

// WaterPlant records a watering and returns the plant with its new schedule.
func (h *Handler) WaterPlant(c *gin.Context) {
	id, ok := plantID(c)
	if !ok {
		return
	}

	var req waterRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	entry, err := h.toEntry(ctx, req)
	if err != nil {
		abortWithError(c, err)
		return
	}
	if err := h.store.AddWatering(ctx, id, entry); err != nil {
		abortWithError(c, err)
		return
	}

	plant, err := h.store.GetPlant(ctx, id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, h.present(*plant, h.now()))
}

// DeleteWatering removes one entry from a plant's log.
func (h *Handler) DeleteWatering(c *gin.Context) {
	id, ok := plantID(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	if err := h.store.DeleteWatering(ctx, id, c.Param("entry_id")); err != nil {
		abortWithError(c, err)
		return
	}

	plant, err := h.store.GetPlant(ctx, id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.present(*plant, h.now()))
}
