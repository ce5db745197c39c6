package planner

import (
	"context"
	"errors"
	"sync"
	"time"

	"nomadai/models"
)

var (
	june1 = models.NewDate(2024, time.June, 1)
	june3 = models.NewDate(2024, time.June, 3)
)

func tokyoRequest() models.TravelRequest {
	return models.TravelRequest{
		Origin:      "Singapore",
		Destination: "Tokyo",
		DepartDate:  june1,
		ReturnDate:  june3,
		Duration:    3,
		Budget:      2000,
		Preferences: []string{"food", "culture"},
		Adults:      1,
	}
}

type fakeCompleter struct {
	mu     sync.Mutex
	reply  string
	err    error
	calls  int
	system []string
	user   []string
	temps  []float64
}

func (f *fakeCompleter) Complete(_ context.Context, systemPrompt, userMessage string, temperature float64) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.system = append(f.system, systemPrompt)
	f.user = append(f.user, userMessage)
	f.temps = append(f.temps, temperature)
	return f.reply, f.err
}

type fakeSearch struct {
	flights    []models.FlightOption
	flightsErr error
	hotels     []models.HotelRecord
	hotelsErr  error
	pois       []models.PointOfInterest
	poisErr    error
}

func (f *fakeSearch) SearchFlights(context.Context, string, string, models.Date, models.Date, int) ([]models.FlightOption, error) {
	return f.flights, f.flightsErr
}

func (f *fakeSearch) SearchHotelsByCity(context.Context, string) ([]models.HotelRecord, error) {
	return f.hotels, f.hotelsErr
}

func (f *fakeSearch) SearchPlaces(context.Context, string, []string) ([]models.PointOfInterest, error) {
	return f.pois, f.poisErr
}

var errNotStored = errors.New("not stored")

type mapStore struct {
	mu    sync.Mutex
	items map[string]*models.Itinerary
	err   error
}

func newMapStore() *mapStore {
	return &mapStore{items: map[string]*models.Itinerary{}}
}

func (s *mapStore) Save(_ context.Context, it *models.Itinerary) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.items[it.RequestID] = it
	return nil
}

func (s *mapStore) Get(_ context.Context, id string) (*models.Itinerary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	it, ok := s.items[id]
	if !ok {
		return nil, errNotStored
	}
	return it, nil
}
