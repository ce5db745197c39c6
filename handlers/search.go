package handlers

import (
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"nomadai/models"
)

func (h *Handler) SearchFlights(c *gin.Context) {
	origin := strings.TrimSpace(c.Query("origin"))
	destination := strings.TrimSpace(c.Query("destination"))
	if origin == "" || destination == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "origin and destination are required"})
		return
	}

	depart, err := models.ParseDate(c.Query("depart_date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid depart_date format. Use YYYY-MM-DD"})
		return
	}
	ret, err := models.ParseDate(c.Query("return_date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid return_date format. Use YYYY-MM-DD"})
		return
	}
	if ret.Before(depart.Time) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "return_date must not be before depart_date"})
		return
	}

	adults := 1
	if v := c.Query("adults"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "adults must be a positive integer"})
			return
		}
		adults = n
	}

	flights, err := h.flights.SearchFlights(c.Request.Context(), origin, destination, depart, ret, adults)
	if err != nil {
		log.Printf("⚠️  Flight search failed: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Flight search failed"})
		return
	}
	log.Printf("✅ %d flights found for %s → %s", len(flights), origin, destination)
	c.JSON(http.StatusOK, flights)
}

func (h *Handler) SearchHotels(c *gin.Context) {
	destination := strings.TrimSpace(c.Query("destination"))
	if destination == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "destination is required"})
		return
	}

	records, err := h.hotels.SearchHotelsByCity(c.Request.Context(), destination)
	if err != nil {
		log.Printf("⚠️  Hotel search failed: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Hotel search failed"})
		return
	}
	c.JSON(http.StatusOK, h.planner.Estimator().ToHotelOptions(records, destination))
}

func (h *Handler) SearchPlaces(c *gin.Context) {
	destination := strings.TrimSpace(c.Query("destination"))
	if destination == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "destination is required"})
		return
	}

	var prefs []string
	for _, p := range strings.Split(c.Query("preferences"), ",") {
		if p = strings.TrimSpace(p); p != "" {
			prefs = append(prefs, p)
		}
	}

	pois, err := h.places.SearchPlaces(c.Request.Context(), destination, prefs)
	if err != nil {
		log.Printf("⚠️  Places search failed: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Points of interest search failed"})
		return
	}
	c.JSON(http.StatusOK, pois)
}
