package planner

import (
	"sort"
	"strings"

	"nomadai/models"
)

// SelectionPolicy holds the budget shares an upgraded pick must fit in.
type SelectionPolicy struct {
	// FlightShare is the fraction of the total budget a mentioned flight may cost.
	FlightShare float64
	// HotelShare is the fraction of the per-night budget left after the flight
	// that a mentioned hotel may cost.
	HotelShare float64
}

var DefaultSelectionPolicy = SelectionPolicy{FlightShare: 0.6, HotelShare: 0.7}

// Selection is the outcome of option selection. Either field may be nil.
type Selection struct {
	Flight *models.FlightOption
	Hotel  *models.HotelOption
}

// SelectOptions picks the cheapest flight and hotel, then upgrades each pick to
// the first option the text names literally that still fits the policy.
func SelectOptions(flights []models.FlightOption, hotels []models.HotelOption, text string, budget float64, duration int, policy SelectionPolicy) Selection {
	var sel Selection

	if f, ok := cheapestFlight(flights); ok {
		sel.Flight = &f
	}
	for _, f := range flights {
		if mentions(text, f.Identifier()) && policy.FlightFits(f, budget) {
			picked := f
			sel.Flight = &picked
			break
		}
	}

	if h, ok := cheapestHotel(hotels); ok {
		sel.Hotel = &h
	}
	ceiling := policy.MaxHotelPerNight(budget, sel.Flight, duration)
	for _, h := range hotels {
		if mentions(text, h.Name) && h.PricePerNight <= ceiling {
			picked := h
			sel.Hotel = &picked
			break
		}
	}

	return sel
}

// FlightFits reports whether the flight price is inside the policy's flight share.
func (p SelectionPolicy) FlightFits(f models.FlightOption, budget float64) bool {
	return f.Price <= budget*p.FlightShare
}

// MaxHotelPerNight is the nightly ceiling left once the flight is paid for.
func (p SelectionPolicy) MaxHotelPerNight(budget float64, flight *models.FlightOption, duration int) float64 {
	remaining := budget
	if flight != nil {
		remaining -= flight.Price
	}
	nights := max(1, duration-1)
	return remaining / float64(nights) * p.HotelShare
}

func mentions(text, literal string) bool {
	return literal != "" && strings.Contains(text, literal)
}

func cheapestFlight(flights []models.FlightOption) (models.FlightOption, bool) {
	if len(flights) == 0 {
		return models.FlightOption{}, false
	}
	sorted := make([]models.FlightOption, len(flights))
	copy(sorted, flights)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Price < sorted[j].Price })
	return sorted[0], true
}

func cheapestHotel(hotels []models.HotelOption) (models.HotelOption, bool) {
	if len(hotels) == 0 {
		return models.HotelOption{}, false
	}
	sorted := make([]models.HotelOption, len(hotels))
	copy(sorted, hotels)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].PricePerNight < sorted[j].PricePerNight })
	return sorted[0], true
}
