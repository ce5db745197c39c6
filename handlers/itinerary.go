package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"nomadai/models"
)

func (h *Handler) GenerateItinerary(c *gin.Context) {
	var req models.TravelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	it, err := h.planner.GenerateItinerary(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, it)
}

func (h *Handler) GetItinerary(c *gin.Context) {
	it, err := h.planner.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, it)
}

type ReselectRequest struct {
	FlightIndex *int `json:"flight_index"`
	HotelIndex  *int `json:"hotel_index"`
}

func (h *Handler) Reselect(c *gin.Context) {
	var req ReselectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	if req.FlightIndex == nil && req.HotelIndex == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "flight_index or hotel_index is required"})
		return
	}

	it, err := h.planner.Reselect(c.Request.Context(), c.Param("id"), indexOrKeep(req.FlightIndex), indexOrKeep(req.HotelIndex))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, it)
}

func indexOrKeep(i *int) int {
	if i == nil {
		return -1
	}
	return *i
}

type ChatRequest struct {
	RequestID string `json:"request_id" binding:"required"`
	Message   string `json:"message" binding:"required"`
}

type ChatResponse struct {
	Reply            string            `json:"reply"`
	UpdatedItinerary *models.Itinerary `json:"updated_itinerary"`
}

func (h *Handler) Chat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	reply := h.planner.AnswerFollowUp(c.Request.Context(), req.RequestID, req.Message)
	c.JSON(http.StatusOK, ChatResponse{Reply: reply})
}
