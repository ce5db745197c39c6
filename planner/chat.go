package planner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"nomadai/metrics"
	"nomadai/models"
)

const (
	replyNotFound = "I couldn't find the itinerary you're referring to. Please try again."
	replyError    = "I'm sorry, I encountered an error while processing your message. Please try again."
)

var errNoCompleter = errors.New("no language model configured")

type daySummary struct {
	Day           int     `json:"day"`
	Date          string  `json:"date"`
	Description   string  `json:"description"`
	Morning       *string `json:"morning"`
	Afternoon     *string `json:"afternoon"`
	Evening       *string `json:"evening"`
	Accommodation *string `json:"accommodation"`
}

// chatContext is the stored itinerary as shown to the model during follow-up chat.
type chatContext struct {
	TripDetails      TripDetails     `json:"trip_details"`
	SelectedFlight   *FlightSummary  `json:"selected_flight"`
	SelectedHotel    *HotelSummary   `json:"selected_hotel"`
	AvailableFlights []FlightSummary `json:"available_flights"`
	AvailableHotels  []HotelSummary  `json:"available_hotels"`
	PointsOfInterest []POISummary    `json:"points_of_interest"`
	DailyPlan        []daySummary    `json:"daily_plan"`
	Summary          string          `json:"summary"`
	TotalCost        float64         `json:"total_cost"`
	RawItineraryText string          `json:"raw_itinerary_text"`
}

func newChatContext(it *models.Itinerary) chatContext {
	base := BuildContext(it.TravelRequest, nil, nil, it.PointsOfInterest)

	c := chatContext{
		TripDetails:      base.TripDetails,
		AvailableFlights: make([]FlightSummary, 0, len(it.AvailableFlights)),
		AvailableHotels:  make([]HotelSummary, 0, len(it.AvailableHotels)),
		PointsOfInterest: base.PointsOfInterest,
		DailyPlan:        make([]daySummary, 0, len(it.DailyPlan)),
		Summary:          it.Summary,
		TotalCost:        it.TotalCost,
		RawItineraryText: it.RawText,
	}
	if it.SelectedFlight != nil {
		f := summarizeFlight(*it.SelectedFlight)
		c.SelectedFlight = &f
	}
	if it.SelectedHotel != nil {
		h := summarizeHotel(*it.SelectedHotel)
		c.SelectedHotel = &h
	}
	for _, f := range it.AvailableFlights {
		c.AvailableFlights = append(c.AvailableFlights, summarizeFlight(f))
	}
	for _, h := range it.AvailableHotels {
		c.AvailableHotels = append(c.AvailableHotels, summarizeHotel(h))
	}
	for _, d := range it.DailyPlan {
		c.DailyPlan = append(c.DailyPlan, daySummary{
			Day:           d.Day,
			Date:          d.Date.String(),
			Description:   d.Description,
			Morning:       d.Morning,
			Afternoon:     d.Afternoon,
			Evening:       d.Evening,
			Accommodation: d.Accommodation,
		})
	}
	return c
}

// AnswerFollowUp replies to a question about a stored itinerary. Failures are
// reported to the traveler as an apology reply, never as an error.
func (s *Service) AnswerFollowUp(ctx context.Context, id, message string) string {
	ctx, span := otel.Tracer("planner").Start(ctx, "AnswerFollowUp", trace.WithAttributes(
		attribute.String("request_id", id),
	))
	defer span.End()

	it, err := s.store.Get(ctx, id)
	if err != nil {
		log.Printf("⚠️  Chat for unknown itinerary %s: %v", id, err)
		metrics.ChatReplies.WithLabelValues("not_found").Inc()
		return replyNotFound
	}

	reply, err := s.chat(ctx, it, message)
	if err != nil {
		log.Printf("❌ Chat for itinerary %s failed: %v", id, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		metrics.ChatReplies.WithLabelValues("error").Inc()
		return replyError
	}
	metrics.ChatReplies.WithLabelValues("ok").Inc()
	return reply
}

func (s *Service) chat(ctx context.Context, it *models.Itinerary, message string) (string, error) {
	if s.llm == nil {
		return "", errNoCompleter
	}
	data, err := json.MarshalIndent(newChatContext(it), "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode chat context: %w", err)
	}
	userMessage := fmt.Sprintf("Here is the context about my trip:\n%s\n\nMy question: %s", data, message)

	start := time.Now()
	reply, err := s.llm.Complete(ctx, chatSystemPrompt, userMessage, chatTemperature)
	metrics.LLMRequestDuration.WithLabelValues("chat").Observe(time.Since(start).Seconds())
	if err != nil {
		return "", err
	}
	reply = strings.TrimSpace(reply)
	if reply == "" {
		return "", errors.New("empty reply")
	}
	return reply, nil
}
