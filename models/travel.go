package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// MaxDuration is the longest trip, in days, a request may ask for.
const MaxDuration = 60

// Date is a calendar day serialized as YYYY-MM-DD.
type Date struct {
	time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q, use YYYY-MM-DD: %w", s, err)
	}
	return Date{t}, nil
}

// AddDays returns the date n calendar days later.
func (d Date) AddDays(n int) Date {
	return Date{d.Time.AddDate(0, 0, n)}
}

func (d Date) String() string {
	return d.Format(dateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ─── Request ─────────────────────────────────────────────────────────────────

type TravelRequest struct {
	Origin      string   `json:"origin"`
	Destination string   `json:"destination"`
	DepartDate  Date     `json:"depart_date"`
	ReturnDate  Date     `json:"return_date"`
	Duration    int      `json:"duration"`
	Budget      float64  `json:"budget"`
	Preferences []string `json:"preferences"`
	Adults      int      `json:"adults"`
}

// Validate checks the request and fills in the adult count default.
func (r *TravelRequest) Validate() error {
	var errs []error
	if strings.TrimSpace(r.Origin) == "" {
		errs = append(errs, errors.New("origin is required"))
	}
	if strings.TrimSpace(r.Destination) == "" {
		errs = append(errs, errors.New("destination is required"))
	}
	if r.Duration < 1 {
		errs = append(errs, errors.New("duration must be at least 1 day"))
	} else if r.Duration > MaxDuration {
		errs = append(errs, fmt.Errorf("duration must be at most %d days", MaxDuration))
	}
	if r.Budget <= 0 {
		errs = append(errs, errors.New("budget must be positive"))
	}
	if r.DepartDate.IsZero() || r.ReturnDate.IsZero() {
		errs = append(errs, errors.New("depart_date and return_date are required"))
	} else if r.ReturnDate.Before(r.DepartDate.Time) {
		errs = append(errs, errors.New("return_date must not be before depart_date"))
	}
	if r.Adults <= 0 {
		r.Adults = 1
	}
	return errors.Join(errs...)
}

// Nights is the number of hotel nights billed for the trip.
func (r TravelRequest) Nights() int {
	return max(1, r.Duration-1)
}

// ─── Options ─────────────────────────────────────────────────────────────────

type FlightOption struct {
	// Airline is the IATA carrier code; AirlineName is for display.
	Airline       string  `json:"airline"`
	AirlineName   string  `json:"airline_name,omitempty"`
	Price         float64 `json:"price"`
	Origin        string  `json:"origin"`
	Destination   string  `json:"destination"`
	DepartDate    Date    `json:"depart_date"`
	ReturnDate    Date    `json:"return_date"`
	FlightNumber  string  `json:"flight_number,omitempty"`
	DepartureTime string  `json:"departure_time,omitempty"`
	ArrivalTime   string  `json:"arrival_time,omitempty"`
	Duration      string  `json:"duration,omitempty"`
	Stops         int     `json:"stops"`
	Currency      string  `json:"currency,omitempty"`
}

// Identifier is the literal the generated text must contain to reference this flight.
func (f FlightOption) Identifier() string {
	if f.FlightNumber == "" {
		return f.Airline
	}
	return f.Airline + " " + f.FlightNumber
}

// HotelRecord is a hotel as returned by the hotel-search provider, before pricing.
type HotelRecord struct {
	HotelID     string  `json:"hotel_id"`
	Name        string  `json:"name"`
	Rating      float64 `json:"rating"`
	CountryCode string  `json:"country_code,omitempty"`
	Price       float64 `json:"price,omitempty"`
}

type HotelOption struct {
	Name          string   `json:"name"`
	PricePerNight float64  `json:"price_per_night"`
	Stars         float64  `json:"stars"`
	City          string   `json:"city"`
	Address       string   `json:"address,omitempty"`
	Amenities     []string `json:"amenities,omitempty"`
	HotelID       string   `json:"hotel_id,omitempty"`
}

type PointOfInterest struct {
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Rating      float64 `json:"rating"`
	Address     string  `json:"address,omitempty"`
	Description string  `json:"description,omitempty"`
	PriceLevel  *int    `json:"price_level,omitempty"`
	ImageURL    string  `json:"image_url,omitempty"`
}

// ─── Itinerary ───────────────────────────────────────────────────────────────

type ItineraryDayActivity struct {
	Day           int     `json:"day"`
	Date          Date    `json:"date"`
	Description   string  `json:"description"`
	Morning       *string `json:"morning"`
	Afternoon     *string `json:"afternoon"`
	Evening       *string `json:"evening"`
	Accommodation *string `json:"accommodation"`
}

// Source records where the itinerary text came from.
type Source string

const (
	SourceLLM      Source = "llm"
	SourceFallback Source = "fallback"
)

// Itinerary is written once by the pipeline and never mutated afterwards.
type Itinerary struct {
	RequestID        string                 `json:"request_id"`
	TravelRequest    TravelRequest          `json:"travel_request"`
	SelectedFlight   *FlightOption          `json:"selected_flight"`
	SelectedHotel    *HotelOption           `json:"selected_hotel"`
	PointsOfInterest []PointOfInterest      `json:"points_of_interest"`
	DailyPlan        []ItineraryDayActivity `json:"daily_plan"`
	Summary          string                 `json:"summary"`
	TotalCost        float64                `json:"total_cost"`
	AvailableFlights []FlightOption         `json:"available_flights"`
	AvailableHotels  []HotelOption          `json:"available_hotels"`
	RawText          string                 `json:"raw_text"`
	Source           Source                 `json:"source"`
	CreatedAt        time.Time              `json:"created_at"`
}
