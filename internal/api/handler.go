package api

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"

	"plant-care-backend/internal/parse"
	"plant-care-backend/internal/photo"
	"plant-care-backend/internal/schedule"
	"plant-care-backend/internal/store"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store          store.Store
	webpush        *webpush.Options
	photos         *photo.Service
	maxPerWatering int
	loc            *time.Location
	phrases        schedule.Phrases
	now            func() time.Time
}

// Options configures a Handler.
type Options struct {
	Webpush        *webpush.Options
	Photos         *photo.Service
	MaxPerWatering int
	Location       *time.Location
	Phrases        schedule.Phrases
	Now            func() time.Time
}

// NewHandler creates a new API handler.
func NewHandler(s store.Store, opts Options) *Handler {
	h := &Handler{
		store:          s,
		webpush:        opts.Webpush,
		photos:         opts.Photos,
		maxPerWatering: opts.MaxPerWatering,
		loc:            opts.Location,
		phrases:        opts.Phrases,
		now:            time.Now,
	}
	if opts.Now != nil {
		h.now = opts.Now
	}
	if h.photos == nil {
		h.photos = photo.NewService(nil, "", 0)
	}
	if h.loc == nil {
		h.loc = time.UTC
	}
	if h.phrases == (schedule.Phrases{}) {
		h.phrases = schedule.Spanish
	}
	return h
}

func plantID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid plant ID"})
		return 0, false
	}
	return id, true
}

// abortWithError maps domain errors to HTTP status codes.
func abortWithError(c *gin.Context, err error) {
	var verr validationError
	switch {
	case errors.As(err, &verr):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": verr.Error(), "field": verr.Field})
	case errors.Is(err, store.ErrNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, parse.ErrUnrecognizedDate),
		errors.Is(err, photo.ErrInvalidDataURI),
		errors.Is(err, photo.ErrTooLarge),
		errors.Is(err, photo.ErrTooMany):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		log.Printf("Error handling %s %s: %v", c.Request.Method, c.FullPath(), err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
