package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nomadai/models"
)

var (
	testFlights = []models.FlightOption{
		{Airline: "Singapore Airlines", FlightNumber: "SQ636", Price: 900},
		{Airline: "Scoot", FlightNumber: "TR808", Price: 500},
		{Airline: "Japan Airlines", FlightNumber: "JL38", Price: 1500},
		{Airline: "Budget Air", FlightNumber: "BA1", Price: 500},
	}
	testHotels = []models.HotelOption{
		{Name: "Park Hyatt Tokyo", PricePerNight: 600},
		{Name: "Sakura Inn", PricePerNight: 80},
		{Name: "Ginza Stay", PricePerNight: 250},
	}
)

func TestSelectOptionsDefaultsToCheapest(t *testing.T) {
	sel := SelectOptions(testFlights, testHotels, "no names here", 2000, 3, DefaultSelectionPolicy)

	require.NotNil(t, sel.Flight)
	require.NotNil(t, sel.Hotel)
	assert.Equal(t, "TR808", sel.Flight.FlightNumber, "ties keep the earlier option")
	assert.Equal(t, "Sakura Inn", sel.Hotel.Name)
}

func TestSelectOptionsUpgradesToMentionedOptions(t *testing.T) {
	text := "Fly Singapore Airlines SQ636 and stay at Ginza Stay."
	sel := SelectOptions(testFlights, testHotels, text, 2000, 3, DefaultSelectionPolicy)

	assert.Equal(t, "SQ636", sel.Flight.FlightNumber)
	// (2000 - 900) / 2 nights * 0.7 = 385 per night
	assert.Equal(t, "Ginza Stay", sel.Hotel.Name)
}

func TestSelectOptionsRejectsMentionsOverShare(t *testing.T) {
	text := "Fly Japan Airlines JL38 and stay at Park Hyatt Tokyo."
	sel := SelectOptions(testFlights, testHotels, text, 2000, 3, DefaultSelectionPolicy)

	assert.Equal(t, "TR808", sel.Flight.FlightNumber, "1500 exceeds 60% of 2000")
	// (2000 - 500) / 2 * 0.7 = 525 < 600
	assert.Equal(t, "Sakura Inn", sel.Hotel.Name)
}

func TestSelectOptionsFirstMentionInListOrder(t *testing.T) {
	text := "Either Sakura Inn or Ginza Stay works."
	sel := SelectOptions(testFlights, testHotels, text, 2000, 3, DefaultSelectionPolicy)
	assert.Equal(t, "Sakura Inn", sel.Hotel.Name)
}

func TestSelectOptionsCaseSensitive(t *testing.T) {
	sel := SelectOptions(testFlights, testHotels, "ginza stay", 2000, 3, DefaultSelectionPolicy)
	assert.Equal(t, "Sakura Inn", sel.Hotel.Name)
}

func TestSelectOptionsEmptyInputs(t *testing.T) {
	sel := SelectOptions(nil, nil, "anything", 2000, 3, DefaultSelectionPolicy)
	assert.Nil(t, sel.Flight)
	assert.Nil(t, sel.Hotel)

	sel = SelectOptions(nil, testHotels, "Ginza Stay", 2000, 3, DefaultSelectionPolicy)
	assert.Nil(t, sel.Flight)
	// no flight: 2000 / 2 * 0.7 = 700
	assert.Equal(t, "Ginza Stay", sel.Hotel.Name)
}

func TestSelectOptionsDoesNotReorderInput(t *testing.T) {
	flights := append([]models.FlightOption(nil), testFlights...)
	SelectOptions(flights, testHotels, "", 2000, 3, DefaultSelectionPolicy)
	assert.Equal(t, testFlights, flights)
}

func TestSelectOptionsIgnoresEmptyNames(t *testing.T) {
	hotels := []models.HotelOption{{Name: "Sakura Inn", PricePerNight: 80}, {Name: "", PricePerNight: 90}}
	sel := SelectOptions(nil, hotels, "text", 2000, 3, DefaultSelectionPolicy)
	assert.Equal(t, "Sakura Inn", sel.Hotel.Name)
}

func TestMaxHotelPerNightSingleDay(t *testing.T) {
	f := &models.FlightOption{Price: 600}
	assert.InDelta(t, 980.0, DefaultSelectionPolicy.MaxHotelPerNight(2000, f, 1), 1e-9)
}
