package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nomadai/models"
)

var (
	departDay = models.NewDate(2024, time.June, 1)
	returnDay = models.NewDate(2024, time.June, 3)
)

type fakeAmadeus struct {
	*httptest.Server
	tokenCalls atomic.Int32
	failSearch bool
	lastQuery  atomic.Value
	tokenGate  chan struct{}
}

func newFakeAmadeus(t *testing.T) *fakeAmadeus {
	t.Helper()
	f := &fakeAmadeus{}
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/security/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		f.tokenCalls.Add(1)
		if f.tokenGate != nil {
			<-f.tokenGate
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"access_token": "tok", "expires_in": 1799})
	})
	mux.HandleFunc("/v1/reference-data/locations", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("keyword") {
		case "Osaka":
			_, _ = w.Write([]byte(`{"data":[{"iataCode":"OSA"}]}`))
		default:
			_, _ = w.Write([]byte(`{"data":[]}`))
		}
	})
	mux.HandleFunc("/v2/shopping/flight-offers", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		f.lastQuery.Store(r.URL.RawQuery)
		if f.failSearch {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(`{"data":[
			{"price":{"grandTotal":"512.40","currency":"SGD"},
			 "validatingAirlineCodes":["SQ"],
			 "itineraries":[{"duration":"PT6H45M","segments":[
				{"departure":{"iataCode":"SIN","at":"2024-06-01T08:00:00"},"arrival":{"iataCode":"HND","at":"2024-06-01T15:45:00"},"carrierCode":"SQ","number":"636"}
			 ]}]},
			{"price":{"grandTotal":"not-a-number","currency":"SGD"},"itineraries":[{"segments":[]}]}
		]}`))
	})
	mux.HandleFunc("/v1/reference-data/locations/hotels/by-city", func(w http.ResponseWriter, r *http.Request) {
		if f.failSearch {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"data":[
			{"hotelId":"HTTYO001","name":"Sakura Inn","rating":4,"address":{"countryCode":"JP"}},
			{"hotelId":"HTTYO002","name":"Ginza Stay","rating":"5","address":{"countryCode":"JP"}},
			{"hotelId":"HTTYO003","name":"","address":{"countryCode":"JP"}}
		]}`))
	})
	f.Server = httptest.NewServer(mux)
	t.Cleanup(f.Close)
	return f
}

func (f *fakeAmadeus) client(env string) *AmadeusClient {
	return NewAmadeusClient(AmadeusOptions{
		ClientID:     "id",
		ClientSecret: "secret",
		Env:          env,
		BaseURL:      f.URL,
		RPS:          100,
	})
}

func TestSearchFlightsParsesOffers(t *testing.T) {
	fake := newFakeAmadeus(t)
	c := fake.client("production")

	flights, err := c.SearchFlights(context.Background(), "Singapore", "Tokyo", departDay, returnDay, 2)
	require.NoError(t, err)
	require.Len(t, flights, 1)

	f := flights[0]
	assert.Equal(t, "SQ", f.Airline)
	assert.Equal(t, "Singapore Airlines", f.AirlineName)
	assert.Equal(t, "SQ SQ636", f.Identifier())
	assert.Equal(t, "SQ636", f.FlightNumber)
	assert.Equal(t, 512.40, f.Price)
	assert.Equal(t, "6h 45m", f.Duration)
	assert.Equal(t, "2024-06-01T08:00:00", f.DepartureTime)
	assert.Equal(t, "Singapore", f.Origin)
	assert.Equal(t, returnDay, f.ReturnDate)

	query := fake.lastQuery.Load().(string)
	assert.Contains(t, query, "originLocationCode=SIN")
	assert.Contains(t, query, "destinationLocationCode=TYO")
	assert.Contains(t, query, "currencyCode=SGD")
	assert.Contains(t, query, "adults=2")
}

func TestSearchFlightsTestModeFallsBackToSandboxFlight(t *testing.T) {
	fake := newFakeAmadeus(t)
	fake.failSearch = true

	flights, err := fake.client("test").SearchFlights(context.Background(), "SIN", "TYO", departDay, returnDay, 1)
	require.NoError(t, err)
	require.Len(t, flights, 1)
	assert.Equal(t, "SQ123", flights[0].FlightNumber)
	assert.Equal(t, 800.0, flights[0].Price)
}

func TestSearchFlightsProductionFailure(t *testing.T) {
	fake := newFakeAmadeus(t)
	fake.failSearch = true

	_, err := fake.client("production").SearchFlights(context.Background(), "SIN", "TYO", departDay, returnDay, 1)
	assert.Error(t, err)
}

func TestCityCode(t *testing.T) {
	fake := newFakeAmadeus(t)
	c := fake.client("production")
	ctx := context.Background()

	tests := []struct {
		city string
		want string
	}{
		{"Singapore", "SIN"},
		{"  new york ", "NYC"},
		{"hnd", "TYO"},
		{"BKK", "BKK"},
		{"Osaka", "OSA"},
	}
	for _, tt := range tests {
		got, err := c.CityCode(ctx, tt.city)
		require.NoError(t, err, tt.city)
		assert.Equal(t, tt.want, got, tt.city)
	}

	_, err := c.CityCode(ctx, "Atlantis")
	assert.ErrorIs(t, err, ErrUnknownCity)
}

func TestTokenIsReused(t *testing.T) {
	fake := newFakeAmadeus(t)
	c := fake.client("production")
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := c.SearchFlights(ctx, "SIN", "TYO", departDay, returnDay, 1)
		require.NoError(t, err)
	}
	assert.Equal(t, int32(1), fake.tokenCalls.Load())
}

func TestTokenRefreshSurvivesCancelledCaller(t *testing.T) {
	fake := newFakeAmadeus(t)
	fake.tokenGate = make(chan struct{})
	c := fake.client("test")

	ctx, cancel := context.WithCancel(context.Background())
	first := make(chan error, 1)
	go func() {
		_, err := c.token(ctx)
		first <- err
	}()
	require.Eventually(t, func() bool { return fake.tokenCalls.Load() == 1 }, time.Second, 5*time.Millisecond)

	second := make(chan string, 1)
	go func() {
		tok, err := c.token(context.Background())
		assert.NoError(t, err)
		second <- tok
	}()

	cancel()
	assert.ErrorIs(t, <-first, context.Canceled)

	close(fake.tokenGate)
	assert.Equal(t, "tok", <-second)
	assert.Equal(t, int32(1), fake.tokenCalls.Load())
}

func TestSearchHotelsByCity(t *testing.T) {
	fake := newFakeAmadeus(t)

	records, err := fake.client("production").SearchHotelsByCity(context.Background(), "Tokyo")
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, models.HotelRecord{HotelID: "HTTYO001", Name: "Sakura Inn", Rating: 4, CountryCode: "JP"}, records[0])
	assert.Equal(t, 5.0, records[1].Rating)
	assert.Zero(t, records[2].Rating)
	assert.Zero(t, records[0].Price)
}

func TestSearchHotelsTestModeDemoHotels(t *testing.T) {
	fake := newFakeAmadeus(t)
	fake.failSearch = true

	records, err := fake.client("test").SearchHotelsByCity(context.Background(), "Tokyo")
	require.NoError(t, err)
	require.Len(t, records, 5)
	assert.Equal(t, "Demo Hotel 1", records[0].Name)
	assert.Equal(t, "TYO", records[0].CountryCode)
}

func TestUnconfiguredClientUsesEstimatedData(t *testing.T) {
	c := NewAmadeusClient(AmadeusOptions{})
	ctx := context.Background()

	flights, err := c.SearchFlights(ctx, "Singapore", "Tokyo", departDay, returnDay, 1)
	require.NoError(t, err)
	assert.Len(t, flights, 5)

	again, err := c.SearchFlights(ctx, "Singapore", "Tokyo", departDay, returnDay, 1)
	require.NoError(t, err)
	assert.Equal(t, flights, again)

	hotels, err := c.SearchHotelsByCity(ctx, "Tokyo")
	require.NoError(t, err)
	assert.NotEmpty(t, hotels)
	assert.Equal(t, "Park Hyatt Tokyo", hotels[0].Name)
}

func TestParseDuration(t *testing.T) {
	assert.Equal(t, "5h 30m", parseDuration("PT5H30M"))
	assert.Equal(t, "2h", parseDuration("PT2H"))
	assert.Equal(t, "45m", parseDuration("PT45M"))
	assert.Equal(t, "", parseDuration(""))
}
