package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchPlaces(t *testing.T) {
	var (
		mu      sync.Mutex
		queries []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/places:searchText", r.URL.Path)
		assert.Equal(t, "pk", r.Header.Get("X-Goog-Api-Key"))
		assert.Equal(t, placesFieldMask, r.Header.Get("X-Goog-FieldMask"))

		var body struct {
			TextQuery string `json:"textQuery"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		mu.Lock()
		queries = append(queries, body.TextQuery)
		mu.Unlock()

		if !strings.HasPrefix(body.TextQuery, "beach ") {
			_, _ = w.Write([]byte(`{}`))
			return
		}
		_, _ = w.Write([]byte(`{"places":[
			{"displayName":{"text":"Siloso Beach"},"formattedAddress":"Sentosa","rating":4.5,
			 "priceLevel":"PRICE_LEVEL_FREE","types":["beach","tourist_attraction"],
			 "photos":[{"name":"places/abc/photos/p1"}],"editorialSummary":{"text":"Lively beach."}},
			{"displayName":{"text":"Palawan Beach"},"types":["natural_feature","beach_resort"]}
		]}`))
	}))
	defer srv.Close()

	c := NewPlacesClient("pk", srv.URL)
	pois, err := c.SearchPlaces(context.Background(), "Singapore", []string{"Beach"})
	require.NoError(t, err)
	require.Len(t, pois, 2)

	assert.Equal(t, []string{"beach in Singapore"}, queries)

	first := pois[0]
	assert.Equal(t, "Siloso Beach", first.Name)
	assert.Equal(t, "Beach", first.Category)
	assert.Equal(t, 4.5, first.Rating)
	require.NotNil(t, first.PriceLevel)
	assert.Equal(t, 0, *first.PriceLevel)
	assert.Equal(t, "Lively beach.", first.Description)
	assert.Equal(t, srv.URL+"/places/abc/photos/p1/media?key=pk&maxWidthPx=400", first.ImageURL)

	second := pois[1]
	assert.Equal(t, 4.0, second.Rating)
	assert.Equal(t, "Singapore", second.Address)
	assert.Nil(t, second.PriceLevel)
	assert.Equal(t, "Palawan Beach is a Natural Feature and Beach Resort.", second.Description)
}

func TestSearchPlacesPlaceholders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	for _, c := range []*PlacesClient{NewPlacesClient("", srv.URL), NewPlacesClient("pk", srv.URL)} {
		pois, err := c.SearchPlaces(context.Background(), "Lima", nil)
		require.NoError(t, err)
		require.Len(t, pois, 3)
		assert.Equal(t, "Lima Attraction 1", pois[0].Name)
		assert.Equal(t, "Main Street, Lima", pois[0].Address)
	}
}

func TestPlaceTypes(t *testing.T) {
	assert.Equal(t, []string{"beach"}, placeTypes(" BEACH "))
	assert.Equal(t, []string{"tourist_attraction"}, placeTypes("spelunking"))
}
