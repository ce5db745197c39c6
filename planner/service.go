package planner

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"nomadai/metrics"
	"nomadai/models"
)

var (
	ErrInvalidRequest = errors.New("invalid travel request")
	ErrNoFlights      = errors.New("no flights found")
	ErrNoHotels       = errors.New("no hotels found")
	ErrOverBudget     = errors.New("selection exceeds budget allocation")
	ErrBadSelection   = errors.New("selection index out of range")
)

type FlightSearcher interface {
	SearchFlights(ctx context.Context, origin, destination string, depart, ret models.Date, adults int) ([]models.FlightOption, error)
}

type HotelSearcher interface {
	SearchHotelsByCity(ctx context.Context, city string) ([]models.HotelRecord, error)
}

type PlacesSearcher interface {
	SearchPlaces(ctx context.Context, city string, preferences []string) ([]models.PointOfInterest, error)
}

// Store keeps generated itineraries. Entries are written once and read many times.
type Store interface {
	Save(ctx context.Context, it *models.Itinerary) error
	Get(ctx context.Context, id string) (*models.Itinerary, error)
}

type Options struct {
	Currency            string
	ActivityCostCeiling float64
	PriceSeed           uint64
	Policy              SelectionPolicy
}

type Service struct {
	flights FlightSearcher
	hotels  HotelSearcher
	places  PlacesSearcher
	llm     Completer
	store   Store

	generator  *Generator
	parser     *DayParser
	reconciler *Reconciler
	estimator  PriceEstimator
	policy     SelectionPolicy
	now        func() time.Time
}

func NewService(flights FlightSearcher, hotels HotelSearcher, places PlacesSearcher, llm Completer, store Store, opts Options) *Service {
	if opts.Currency == "" {
		opts.Currency = "SGD"
	}
	if opts.Policy == (SelectionPolicy{}) {
		opts.Policy = DefaultSelectionPolicy
	}
	return &Service{
		flights:    flights,
		hotels:     hotels,
		places:     places,
		llm:        llm,
		store:      store,
		generator:  NewGenerator(llm, opts.Currency),
		parser:     NewDayParser(),
		reconciler: NewReconciler(opts.Currency, opts.ActivityCostCeiling),
		estimator:  PriceEstimator{Seed: opts.PriceSeed},
		policy:     opts.Policy,
		now:        time.Now,
	}
}

// Estimator exposes the hotel price estimator used by the pipeline.
func (s *Service) Estimator() PriceEstimator {
	return s.estimator
}

// GenerateItinerary gathers candidates from the collaborators, builds the
// itinerary and stores it.
func (s *Service) GenerateItinerary(ctx context.Context, req models.TravelRequest) (*models.Itinerary, error) {
	ctx, span := otel.Tracer("planner").Start(ctx, "GenerateItinerary", trace.WithAttributes(
		attribute.String("origin", req.Origin),
		attribute.String("destination", req.Destination),
		attribute.Int("duration", req.Duration),
	))
	defer span.End()

	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	flights, err := s.flights.SearchFlights(ctx, req.Origin, req.Destination, req.DepartDate, req.ReturnDate, req.Adults)
	if err != nil {
		log.Printf("⚠️  Flight search failed: %v", err)
		return nil, fmt.Errorf("%w from %s to %s: %w", ErrNoFlights, req.Origin, req.Destination, err)
	}
	if len(flights) == 0 {
		return nil, fmt.Errorf("%w from %s to %s", ErrNoFlights, req.Origin, req.Destination)
	}

	records, err := s.hotels.SearchHotelsByCity(ctx, req.Destination)
	if err != nil {
		log.Printf("⚠️  Hotel search failed: %v", err)
		return nil, fmt.Errorf("%w in %s: %w", ErrNoHotels, req.Destination, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoHotels, req.Destination)
	}
	hotels := s.estimator.ToHotelOptions(records, req.Destination)

	var pois []models.PointOfInterest
	if s.places != nil {
		pois, err = s.places.SearchPlaces(ctx, req.Destination, req.Preferences)
		if err != nil {
			log.Printf("⚠️  Places search failed: %v — continuing without points of interest", err)
			pois = nil
		}
	}

	it := s.CreateItinerary(ctx, req, flights, hotels, pois)

	if err := s.store.Save(ctx, it); err != nil {
		return nil, fmt.Errorf("save itinerary: %w", err)
	}
	span.SetAttributes(attribute.String("request_id", it.RequestID))
	log.Printf("✅ Itinerary %s generated (%s, %d days planned, total %.2f)", it.RequestID, it.Source, len(it.DailyPlan), it.TotalCost)
	return it, nil
}

// CreateItinerary runs the pipeline over already-fetched candidates. It never fails.
func (s *Service) CreateItinerary(ctx context.Context, req models.TravelRequest, flights []models.FlightOption, hotels []models.HotelOption, pois []models.PointOfInterest) *models.Itinerary {
	tripCtx := BuildContext(req, flights, hotels, pois)
	text, source := s.generator.Generate(ctx, req, tripCtx)
	metrics.ItinerariesGenerated.WithLabelValues(string(source)).Inc()

	sel := SelectOptions(flights, hotels, text, req.Budget, req.Duration, s.policy)
	return s.assemble(uuid.New().String(), req, sel, pois, text, source, prefix(flights, MaxContextOptions), prefix(hotels, MaxContextOptions))
}

func (s *Service) assemble(id string, req models.TravelRequest, sel Selection, pois []models.PointOfInterest, text string, source models.Source, flights []models.FlightOption, hotels []models.HotelOption) *models.Itinerary {
	var accommodation *string
	if sel.Hotel != nil {
		accommodation = &sel.Hotel.Name
	}
	if pois == nil {
		pois = []models.PointOfInterest{}
	}

	return &models.Itinerary{
		RequestID:        id,
		TravelRequest:    req,
		SelectedFlight:   sel.Flight,
		SelectedHotel:    sel.Hotel,
		PointsOfInterest: pois,
		DailyPlan:        s.parser.Parse(text, req, accommodation),
		Summary:          Summary(text),
		TotalCost:        s.reconciler.Reconcile(text, req.Budget, req.Duration, sel.Flight, sel.Hotel),
		AvailableFlights: flights,
		AvailableHotels:  hotels,
		RawText:          text,
		Source:           source,
		CreatedAt:        s.now().UTC(),
	}
}

// Get returns a stored itinerary.
func (s *Service) Get(ctx context.Context, id string) (*models.Itinerary, error) {
	return s.store.Get(ctx, id)
}

// Reselect stores a new itinerary with the traveler's own flight and hotel
// picks from the retained candidates. A negative index keeps the current pick.
// Picks must fit the same budget shares as text-driven upgrades. A kept hotel
// that no longer fits after a flight change drops back to the cheapest one.
func (s *Service) Reselect(ctx context.Context, id string, flightIndex, hotelIndex int) (*models.Itinerary, error) {
	orig, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	req := orig.TravelRequest
	sel := Selection{Flight: orig.SelectedFlight, Hotel: orig.SelectedHotel}

	if flightIndex >= 0 {
		if flightIndex >= len(orig.AvailableFlights) {
			return nil, fmt.Errorf("%w: flight %d", ErrBadSelection, flightIndex)
		}
		f := orig.AvailableFlights[flightIndex]
		if !s.policy.FlightFits(f, req.Budget) {
			return nil, fmt.Errorf("%w: %s costs %.2f", ErrOverBudget, f.Identifier(), f.Price)
		}
		sel.Flight = &f
	}
	if hotelIndex >= 0 {
		if hotelIndex >= len(orig.AvailableHotels) {
			return nil, fmt.Errorf("%w: hotel %d", ErrBadSelection, hotelIndex)
		}
		h := orig.AvailableHotels[hotelIndex]
		if h.PricePerNight > s.policy.MaxHotelPerNight(req.Budget, sel.Flight, req.Duration) {
			return nil, fmt.Errorf("%w: %s costs %.2f per night", ErrOverBudget, h.Name, h.PricePerNight)
		}
		sel.Hotel = &h
	} else if flightIndex >= 0 && sel.Hotel != nil &&
		sel.Hotel.PricePerNight > s.policy.MaxHotelPerNight(req.Budget, sel.Flight, req.Duration) {
		if h, ok := cheapestHotel(orig.AvailableHotels); ok && h.PricePerNight < sel.Hotel.PricePerNight {
			log.Printf("⚠️  %s no longer fits the budget with %s — using %s", sel.Hotel.Name, sel.Flight.Identifier(), h.Name)
			sel.Hotel = &h
		}
	}

	it := s.assemble(uuid.New().String(), req, sel, orig.PointsOfInterest, orig.RawText, orig.Source,
		prefix(orig.AvailableFlights, MaxContextOptions), prefix(orig.AvailableHotels, MaxContextOptions))
	if err := s.store.Save(ctx, it); err != nil {
		return nil, fmt.Errorf("save itinerary: %w", err)
	}
	log.Printf("✅ Itinerary %s reselected from %s", it.RequestID, id)
	return it, nil
}
