package planner

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"nomadai/metrics"
	"nomadai/models"
)

const (
	itineraryTemperature = 0.5
	chatTemperature      = 0.7
)

// Completer is a language-model completion backend.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userMessage string, temperature float64) (string, error)
}

// Generator produces itinerary markdown, falling back to a fixed template
// whenever the completion backend is unavailable or returns nothing.
type Generator struct {
	llm      Completer
	currency string
}

func NewGenerator(llm Completer, currency string) *Generator {
	return &Generator{llm: llm, currency: currency}
}

// Generate never fails; the returned source tells which path produced the text.
func (g *Generator) Generate(ctx context.Context, req models.TravelRequest, tripCtx Context) (string, models.Source) {
	if g.llm == nil {
		log.Println("⚠️  No LLM configured — using fallback itinerary")
		return FallbackItinerary(req, g.currency), models.SourceFallback
	}

	userMessage, err := g.userMessage(req, tripCtx)
	if err != nil {
		log.Printf("⚠️  Failed to encode itinerary context: %v — using fallback itinerary", err)
		return FallbackItinerary(req, g.currency), models.SourceFallback
	}

	start := time.Now()
	text, err := g.llm.Complete(ctx, itinerarySystemPrompt, userMessage, itineraryTemperature)
	metrics.LLMRequestDuration.WithLabelValues("itinerary").Observe(time.Since(start).Seconds())
	if err != nil {
		log.Printf("❌ Itinerary generation failed: %v — using fallback itinerary", err)
		return FallbackItinerary(req, g.currency), models.SourceFallback
	}
	text = strings.TrimSpace(text)
	if text == "" {
		log.Println("⚠️  LLM returned an empty itinerary — using fallback itinerary")
		return FallbackItinerary(req, g.currency), models.SourceFallback
	}
	return text, models.SourceLLM
}

func (g *Generator) userMessage(req models.TravelRequest, tripCtx Context) (string, error) {
	data, err := json.MarshalIndent(tripCtx, "", "  ")
	if err != nil {
		return "", err
	}

	preferences := "no specific preferences"
	if len(req.Preferences) > 0 {
		preferences = strings.Join(req.Preferences, ", ")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Please plan a %d-day trip from %s to %s within a budget of %s %s.\n\n",
		req.Duration, req.Origin, req.Destination, g.currency, strconv.FormatFloat(req.Budget, 'f', -1, 64))
	fmt.Fprintf(&b, "The traveler has indicated the following preferences: %s.\n\n", preferences)
	b.WriteString("Data:\n")
	b.Write(data)
	return b.String(), nil
}

// FallbackItinerary is the deterministic template used when the LLM cannot be reached.
func FallbackItinerary(req models.TravelRequest, currency string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Trip to %s\n\n", req.Destination)
	b.WriteString("## Overview\n")
	fmt.Fprintf(&b, "A %d-day trip to %s from %s.\n\n", req.Duration, req.Destination, req.Origin)

	b.WriteString("## Suggested Flight\n")
	fmt.Fprintf(&b, "Economy class flight from %s to %s.\n\n", req.Origin, req.Destination)

	b.WriteString("## Suggested Accommodation\n")
	fmt.Fprintf(&b, "Standard hotel in %s city center.\n\n", req.Destination)

	b.WriteString("## Day-by-Day Itinerary\n")
	for day := 1; day <= req.Duration; day++ {
		fmt.Fprintf(&b, "### Day %d\n", day)
		b.WriteString("- Morning: Breakfast at hotel, explore local area\n")
		b.WriteString("- Afternoon: Visit main tourist attractions\n")
		b.WriteString("- Evening: Dinner at local restaurant\n\n")
	}

	b.WriteString("## Estimated Budget\n")
	fmt.Fprintf(&b, "Total estimated cost: %s %.2f\n", currency, req.Budget*0.9)

	return b.String()
}
