package planner

import (
	"nomadai/models"
)

// MaxContextOptions bounds how many flights and hotels reach the prompt and
// how many are kept on the itinerary for reselection.
const MaxContextOptions = 5

type TripDetails struct {
	Origin       string   `json:"origin"`
	Destination  string   `json:"destination"`
	DurationDays int      `json:"duration_days"`
	StartDate    string   `json:"start_date"`
	EndDate      string   `json:"end_date"`
	Budget       float64  `json:"budget"`
	Preferences  []string `json:"preferences"`
}

type FlightSummary struct {
	Airline       string  `json:"airline"`
	AirlineName   string  `json:"airline_name,omitempty"`
	Price         float64 `json:"price"`
	DepartureTime string  `json:"departure_time"`
	ArrivalTime   string  `json:"arrival_time"`
	FlightNumber  string  `json:"flight_number"`
}

type HotelSummary struct {
	Name          string   `json:"name"`
	PricePerNight float64  `json:"price_per_night"`
	Stars         float64  `json:"stars"`
	Address       string   `json:"address"`
	Amenities     []string `json:"amenities"`
}

type POISummary struct {
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Rating      float64 `json:"rating"`
	Address     string  `json:"address"`
	Description string  `json:"description,omitempty"`
	PriceLevel  *int    `json:"price_level,omitempty"`
	ImageURL    string  `json:"image_url,omitempty"`
}

// Context is the document embedded in the itinerary prompt.
type Context struct {
	TripDetails      TripDetails     `json:"trip_details"`
	Flights          []FlightSummary `json:"flights"`
	Hotels           []HotelSummary  `json:"hotels"`
	PointsOfInterest []POISummary    `json:"points_of_interest"`
}

// BuildContext reduces the candidate lists to the fields the model needs.
// Flights and hotels are truncated; POIs are assumed already filtered upstream.
func BuildContext(req models.TravelRequest, flights []models.FlightOption, hotels []models.HotelOption, pois []models.PointOfInterest) Context {
	prefs := req.Preferences
	if prefs == nil {
		prefs = []string{}
	}

	c := Context{
		TripDetails: TripDetails{
			Origin:       req.Origin,
			Destination:  req.Destination,
			DurationDays: req.Duration,
			StartDate:    req.DepartDate.String(),
			EndDate:      req.ReturnDate.String(),
			Budget:       req.Budget,
			Preferences:  prefs,
		},
		Flights:          make([]FlightSummary, 0, MaxContextOptions),
		Hotels:           make([]HotelSummary, 0, MaxContextOptions),
		PointsOfInterest: make([]POISummary, 0, len(pois)),
	}

	for _, f := range prefix(flights, MaxContextOptions) {
		c.Flights = append(c.Flights, summarizeFlight(f))
	}
	for _, h := range prefix(hotels, MaxContextOptions) {
		c.Hotels = append(c.Hotels, summarizeHotel(h))
	}
	for _, p := range pois {
		c.PointsOfInterest = append(c.PointsOfInterest, POISummary{
			Name:        p.Name,
			Category:    p.Category,
			Rating:      p.Rating,
			Address:     p.Address,
			Description: p.Description,
			PriceLevel:  p.PriceLevel,
			ImageURL:    p.ImageURL,
		})
	}
	return c
}

func summarizeFlight(f models.FlightOption) FlightSummary {
	return FlightSummary{
		Airline:       f.Airline,
		AirlineName:   f.AirlineName,
		Price:         f.Price,
		DepartureTime: f.DepartureTime,
		ArrivalTime:   f.ArrivalTime,
		FlightNumber:  f.FlightNumber,
	}
}

func summarizeHotel(h models.HotelOption) HotelSummary {
	return HotelSummary{
		Name:          h.Name,
		PricePerNight: h.PricePerNight,
		Stars:         h.Stars,
		Address:       h.Address,
		Amenities:     h.Amenities,
	}
}

// prefix returns a copy of at most n leading elements.
func prefix[T any](items []T, n int) []T {
	if len(items) < n {
		n = len(items)
	}
	out := make([]T, n)
	copy(out, items[:n])
	return out
}
