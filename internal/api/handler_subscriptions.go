package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"plant-care-backend/internal/model"
)

type putSubscriptionRequest struct {
	Endpoint         string  `json:"endpoint" binding:"required"`
	P256DH           string  `json:"p256dh" binding:"required"`
	Auth             string  `json:"auth" binding:"required"`
	AllPlants        bool    `json:"all_plants"`
	SubscribedPlants []int64 `json:"subscribed_plants"`
}

type subscriptionResponse struct {
	AllPlants        bool    `json:"all_plants"`
	SubscribedPlants []int64 `json:"subscribed_plants"`
}

func toSubscriptionResponse(sub *model.PushSubscription) subscriptionResponse {
	ids := make([]int64, len(sub.Plants))
	for i, p := range sub.Plants {
		ids[i] = p.ID
	}
	return subscriptionResponse{AllPlants: sub.AllPlants, SubscribedPlants: ids}
}

// PutSubscription handles the creation or replacement of a subscription.
func (h *Handler) PutSubscription(c *gin.Context) {
	var req putSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sub := &model.PushSubscription{
		Endpoint:  req.Endpoint,
		P256DH:    req.P256DH,
		Auth:      req.Auth,
		AllPlants: req.AllPlants,
	}
	if err := h.store.PutSubscription(c.Request.Context(), sub, req.SubscribedPlants); err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toSubscriptionResponse(sub))
}

type deleteSubscriptionRequest struct {
	Endpoint string `json:"endpoint" binding:"required"`
}

// DeleteSubscription handles the deletion of a subscription.
func (h *Handler) DeleteSubscription(c *gin.Context) {
	var req deleteSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.store.DeleteSubscription(c.Request.Context(), req.Endpoint); err != nil {
		abortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// rawQueryParam returns a query value without URL decoding. Push endpoints
// are URLs themselves and clients often forget to escape them.
func rawQueryParam(rawQuery, key string) (string, bool) {
	for _, kv := range strings.Split(rawQuery, "&") {
		if v, ok := strings.CutPrefix(kv, key+"="); ok {
			return v, true
		}
	}
	return "", false
}

// GetSubscription handles the retrieval of a subscription.
func (h *Handler) GetSubscription(c *gin.Context) {
	raw, ok := rawQueryParam(c.Request.URL.RawQuery, "endpoint")
	if !ok || raw == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "endpoint is required"})
		return
	}

	sub, err := h.store.GetSubscription(c.Request.Context(), raw)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, toSubscriptionResponse(sub))
}
