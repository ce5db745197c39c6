package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"nomadai/database"
	"nomadai/planner"
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	planner *planner.Service
	flights planner.FlightSearcher
	hotels  planner.HotelSearcher
	places  planner.PlacesSearcher
	store   Pinger
}

// New wires the HTTP layer. store may be nil when the backend has nothing to ping.
func New(svc *planner.Service, flights planner.FlightSearcher, hotels planner.HotelSearcher, places planner.PlacesSearcher, store Pinger) *Handler {
	return &Handler{planner: svc, flights: flights, hotels: hotels, places: places, store: store}
}

// Register mounts every route on the /api group.
func (h *Handler) Register(api *gin.RouterGroup) {
	api.GET("/health", h.Health)

	api.GET("/flights", h.SearchFlights)
	api.GET("/hotels", h.SearchHotels)
	api.GET("/points-of-interest", h.SearchPlaces)

	api.POST("/itinerary/generate", h.GenerateItinerary)
	api.GET("/itinerary/:id", h.GetItinerary)
	api.POST("/itinerary/:id/reselect", h.Reselect)
	api.GET("/itinerary/:id/pdf", h.DownloadPDF)

	api.POST("/chat", h.Chat)
}

// respondError maps pipeline errors onto HTTP statuses.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, planner.ErrInvalidRequest), errors.Is(err, planner.ErrBadSelection):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, planner.ErrNoFlights), errors.Is(err, planner.ErrNoHotels), errors.Is(err, database.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, planner.ErrOverBudget):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		log.Printf("❌ %s %s: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
