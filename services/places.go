package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"nomadai/models"
)

const (
	placesBaseURL      = "https://places.googleapis.com/v1"
	placesFieldMask    = "places.displayName,places.formattedAddress,places.priceLevel,places.rating,places.types,places.photos,places.editorialSummary"
	placesPerType      = 3
	placePhotoMaxWidth = 400
	placeholderImage   = "https://via.placeholder.com/400x300.png?text=No+Image+Available"
)

var defaultPreferences = []string{"culture", "adventure", "food"}

var preferencePlaceTypes = map[string][]string{
	"culture":    {"museum", "art_gallery", "library", "tourist_attraction"},
	"relaxation": {"spa", "beauty_salon", "park"},
	"adventure":  {"amusement_park", "tourist_attraction", "natural_feature"},
	"food":       {"restaurant", "cafe", "bakery", "bar"},
	"nature":     {"park", "natural_feature", "campground"},
	"nightlife":  {"night_club", "bar", "casino"},
	"luxury":     {"spa", "jewelry_store", "shopping_mall"},
	"budget":     {"restaurant", "tourist_attraction", "park"},
	"family":     {"amusement_park", "aquarium", "zoo", "museum"},
	"shopping":   {"shopping_mall", "department_store", "clothing_store"},
	"beach":      {"beach"},
	"mountain":   {"natural_feature", "campground"},
}

var priceLevels = map[string]int{
	"PRICE_LEVEL_FREE":           0,
	"PRICE_LEVEL_INEXPENSIVE":    1,
	"PRICE_LEVEL_MODERATE":       2,
	"PRICE_LEVEL_EXPENSIVE":      3,
	"PRICE_LEVEL_VERY_EXPENSIVE": 4,
}

// PlacesClient finds points of interest with the Google Places text search.
type PlacesClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func NewPlacesClient(apiKey, baseURL string) *PlacesClient {
	if baseURL == "" {
		baseURL = placesBaseURL
	}
	if apiKey == "" {
		log.Println("⚠️  GOOGLE_PLACES_KEY not set — points of interest will use placeholders")
	}
	return &PlacesClient{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

type place struct {
	DisplayName struct {
		Text string `json:"text"`
	} `json:"displayName"`
	FormattedAddress string   `json:"formattedAddress"`
	PriceLevel       string   `json:"priceLevel"`
	Rating           *float64 `json:"rating"`
	Types            []string `json:"types"`
	Photos           []struct {
		Name string `json:"name"`
	} `json:"photos"`
	EditorialSummary *struct {
		Text string `json:"text"`
	} `json:"editorialSummary"`
}

// SearchPlaces returns up to three places per place type for each preference.
// Failed lookups are skipped; with no results at all it returns placeholders.
func (c *PlacesClient) SearchPlaces(ctx context.Context, city string, preferences []string) ([]models.PointOfInterest, error) {
	if len(preferences) == 0 {
		preferences = defaultPreferences
	}

	var pois []models.PointOfInterest
	if c.apiKey != "" {
		for _, pref := range preferences {
			for _, placeType := range placeTypes(pref) {
				places, err := c.searchText(ctx, placeType+" in "+city)
				if err != nil {
					if ctx.Err() != nil {
						return nil, ctx.Err()
					}
					log.Printf("⚠️  Places search for %s in %s failed: %v", placeType, city, err)
					continue
				}
				for _, p := range places {
					pois = append(pois, c.toPOI(p, pref, city))
				}
				if len(places) >= placesPerType {
					break
				}
			}
		}
	}

	if len(pois) == 0 {
		return placeholderPOIs(city), nil
	}
	return pois, nil
}

func placeTypes(pref string) []string {
	if types, ok := preferencePlaceTypes[strings.ToLower(strings.TrimSpace(pref))]; ok {
		return types
	}
	return []string{"tourist_attraction"}
}

func (c *PlacesClient) searchText(ctx context.Context, query string) ([]place, error) {
	jsonBody, err := json.Marshal(map[string]any{
		"textQuery":      query,
		"maxResultCount": placesPerType,
		"languageCode":   "en",
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/places:searchText", bytes.NewReader(jsonBody))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Goog-Api-Key", c.apiKey)
	req.Header.Set("X-Goog-FieldMask", placesFieldMask)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("places API error (%d): %s", resp.StatusCode, string(body))
	}

	var out struct {
		Places []place `json:"places"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("failed to parse places response: %w", err)
	}
	return out.Places, nil
}

func (c *PlacesClient) toPOI(p place, pref, city string) models.PointOfInterest {
	name := p.DisplayName.Text
	if name == "" {
		name = "Unknown"
	}
	rating := 4.0
	if p.Rating != nil {
		rating = *p.Rating
	}
	address := p.FormattedAddress
	if address == "" {
		address = city
	}

	poi := models.PointOfInterest{
		Name:        name,
		Category:    pref,
		Rating:      rating,
		Address:     address,
		Description: describe(p),
	}
	if level, ok := priceLevels[p.PriceLevel]; ok {
		poi.PriceLevel = &level
	}
	if len(p.Photos) > 0 && p.Photos[0].Name != "" {
		poi.ImageURL = fmt.Sprintf("%s/%s/media?key=%s&maxWidthPx=%d",
			c.baseURL, p.Photos[0].Name, url.QueryEscape(c.apiKey), placePhotoMaxWidth)
	}
	return poi
}

// describe prefers the editorial summary, then a sentence built from the first three types.
func describe(p place) string {
	if p.EditorialSummary != nil && p.EditorialSummary.Text != "" {
		return p.EditorialSummary.Text
	}
	if len(p.Types) == 0 {
		return ""
	}

	types := p.Types[:min(3, len(p.Types))]
	readable := make([]string, len(types))
	for i, t := range types {
		readable[i] = titleWords(strings.ReplaceAll(t, "_", " "))
	}
	name := p.DisplayName.Text
	if name == "" {
		name = "This place"
	}
	return fmt.Sprintf("%s is a %s.", name, strings.Join(readable, " and "))
}

func titleWords(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}

func placeholderPOIs(city string) []models.PointOfInterest {
	pois := make([]models.PointOfInterest, 0, 3)
	for i := 1; i <= 3; i++ {
		pois = append(pois, models.PointOfInterest{
			Name:     fmt.Sprintf("%s Attraction %d", city, i),
			Category: "Tourist Attraction",
			Rating:   4.0,
			Address:  "Main Street, " + city,
			ImageURL: placeholderImage,
		})
	}
	return pois
}
