package handlers

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"nomadai/services"
)

func (h *Handler) DownloadPDF(c *gin.Context) {
	it, err := h.planner.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	pdfBytes, err := services.ItineraryPDF(it)
	if err != nil {
		log.Printf("❌ PDF generation failed for %s: %v", it.RequestID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate PDF"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=nomadai-%s.pdf", it.RequestID))
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}

func (h *Handler) Health(c *gin.Context) {
	storeStatus := "ok"
	if h.store != nil {
		if err := h.store.Ping(c.Request.Context()); err != nil {
			storeStatus = "error: " + err.Error()
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "NomadAI API",
		"store":   storeStatus,
	})
}
