package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"nomadai/models"
)

const (
	amadeusTestURL       = "https://test.api.amadeus.com"
	amadeusProductionURL = "https://api.amadeus.com"
	maxFlightOffers      = 5
	hotelSearchRadiusKM  = 20
	tokenTimeout         = 15 * time.Second
)

var ErrUnknownCity = errors.New("unknown city")

// cityOverrides short-circuits the location lookup for common destinations.
var cityOverrides = map[string]string{
	"singapore":     "SIN",
	"tokyo":         "TYO",
	"paris":         "PAR",
	"london":        "LON",
	"new york":      "NYC",
	"bangkok":       "BKK",
	"dubai":         "DXB",
	"sydney":        "SYD",
	"san francisco": "SFO",
	"los angeles":   "LAX",
}

// ─── Amadeus Client ───────────────────────────────────────────────────────────

type AmadeusOptions struct {
	ClientID     string
	ClientSecret string
	Env          string // "test" (default) or "production"
	BaseURL      string // overrides Env when set
	Currency     string
	RPS          float64
	HTTPClient   *http.Client
}

// AmadeusClient searches flights and hotels. Without credentials it serves
// estimated data; in the test environment it falls back to sandbox dummies
// when the API fails or returns nothing.
type AmadeusClient struct {
	clientID     string
	clientSecret string
	baseURL      string
	testMode     bool
	currency     string
	httpClient   *http.Client
	limiter      *rate.Limiter

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
	refresh     singleflight.Group
}

func NewAmadeusClient(opts AmadeusOptions) *AmadeusClient {
	testMode := opts.Env == "" || opts.Env == "test"
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = amadeusProductionURL
		if testMode {
			baseURL = amadeusTestURL
		}
	}
	if opts.Currency == "" {
		opts.Currency = "SGD"
	}
	if opts.RPS <= 0 {
		opts.RPS = 5
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}

	c := &AmadeusClient{
		clientID:     opts.ClientID,
		clientSecret: opts.ClientSecret,
		baseURL:      strings.TrimRight(baseURL, "/"),
		testMode:     testMode,
		currency:     opts.Currency,
		httpClient:   opts.HTTPClient,
		limiter:      rate.NewLimiter(rate.Limit(opts.RPS), max(1, int(opts.RPS))),
	}
	if !c.Configured() {
		log.Println("⚠️  AMADEUS_CLIENT_ID or AMADEUS_CLIENT_SECRET not set — flight/hotel search will use estimated data")
	}
	return c
}

func (c *AmadeusClient) Configured() bool {
	return c.clientID != "" && c.clientSecret != ""
}

// Warm fetches a token ahead of the first search.
func (c *AmadeusClient) Warm(ctx context.Context) {
	if !c.Configured() {
		return
	}
	if _, err := c.token(ctx); err != nil {
		log.Printf("⚠️  Amadeus token pre-warm failed: %v", err)
		return
	}
	log.Println("✅ Amadeus API authenticated")
}

// ─── OAuth2 Token ─────────────────────────────────────────────────────────────

func (c *AmadeusClient) token(ctx context.Context) (string, error) {
	c.mu.Lock()
	token, expiry := c.accessToken, c.tokenExpiry
	c.mu.Unlock()
	if token != "" && time.Now().Before(expiry) {
		return token, nil
	}

	// Concurrent searches share a single refresh that outlives any one caller.
	ch := c.refresh.DoChan("token", func() (any, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), tokenTimeout)
		defer cancel()
		return c.fetchToken(fetchCtx)
	})
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	}
}

func (c *AmadeusClient) fetchToken(ctx context.Context) (string, error) {
	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", c.clientID)
	form.Set("client_secret", c.clientSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v1/security/oauth2/token",
		strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token request failed (%d): %s", resp.StatusCode, string(body))
	}

	var result struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to parse token response: %w", err)
	}

	c.mu.Lock()
	c.accessToken = result.AccessToken
	c.tokenExpiry = time.Now().Add(time.Duration(result.ExpiresIn-60) * time.Second)
	c.mu.Unlock()

	return result.AccessToken, nil
}

func (c *AmadeusClient) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	token, err := c.token(ctx)
	if err != nil {
		return nil, fmt.Errorf("auth failed: %w", err)
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("amadeus error (%d): %s", resp.StatusCode, string(respBody))
	}
	return respBody, nil
}

// ─── City Codes ───────────────────────────────────────────────────────────────

// CityCode resolves a city name or IATA code to an Amadeus city code.
func (c *AmadeusClient) CityCode(ctx context.Context, city string) (string, error) {
	name := strings.ToLower(strings.TrimSpace(city))
	if code, ok := cityOverrides[name]; ok {
		return code, nil
	}
	if isIATACode(city) {
		return airportToCity(strings.ToUpper(city)), nil
	}

	body, err := c.get(ctx, "/v1/reference-data/locations", url.Values{
		"keyword": {city},
		"subType": {"CITY"},
	})
	if err != nil {
		return "", fmt.Errorf("city lookup for %s: %w", city, err)
	}

	var resp struct {
		Data []struct {
			IataCode string `json:"iataCode"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("failed to parse locations: %w", err)
	}
	if len(resp.Data) == 0 || resp.Data[0].IataCode == "" {
		return "", fmt.Errorf("%w: %s", ErrUnknownCity, city)
	}
	return resp.Data[0].IataCode, nil
}

func isIATACode(s string) bool {
	if len(s) != 3 {
		return false
	}
	for _, r := range s {
		if (r < 'A' || r > 'Z') && (r < 'a' || r > 'z') {
			return false
		}
	}
	return true
}

// ─── Flight Search ────────────────────────────────────────────────────────────

// SearchFlights returns round-trip offers via the Flight Offers Search API.
func (c *AmadeusClient) SearchFlights(ctx context.Context, origin, destination string, depart, ret models.Date, adults int) ([]models.FlightOption, error) {
	if !c.Configured() {
		return GenerateFlightsFallback(origin, destination, depart, ret, c.currency), nil
	}

	originCode, err := c.CityCode(ctx, origin)
	if err != nil {
		return nil, err
	}
	destCode, err := c.CityCode(ctx, destination)
	if err != nil {
		return nil, err
	}

	body, err := c.get(ctx, "/v2/shopping/flight-offers", url.Values{
		"originLocationCode":      {originCode},
		"destinationLocationCode": {destCode},
		"departureDate":           {depart.String()},
		"returnDate":              {ret.String()},
		"adults":                  {strconv.Itoa(max(1, adults))},
		"max":                     {strconv.Itoa(maxFlightOffers)},
		"currencyCode":            {c.currency},
	})
	if err != nil {
		if c.testMode {
			log.Printf("⚠️  Flight search failed in test mode, using sandbox flight: %v", err)
			return []models.FlightOption{sandboxFlight(origin, destination, depart, ret, c.currency)}, nil
		}
		return nil, fmt.Errorf("flight search failed: %w", err)
	}

	flights, err := parseFlightOffers(body, origin, destination, depart, ret)
	if err != nil {
		return nil, err
	}
	if len(flights) == 0 && c.testMode {
		flights = []models.FlightOption{sandboxFlight(origin, destination, depart, ret, c.currency)}
	}
	return flights, nil
}

type amadeusSegment struct {
	Departure struct {
		IataCode string `json:"iataCode"`
		At       string `json:"at"`
	} `json:"departure"`
	Arrival struct {
		IataCode string `json:"iataCode"`
		At       string `json:"at"`
	} `json:"arrival"`
	CarrierCode string `json:"carrierCode"`
	Number      string `json:"number"`
}

type amadeusFlightOffer struct {
	Price struct {
		GrandTotal string `json:"grandTotal"`
		Currency   string `json:"currency"`
	} `json:"price"`
	Itineraries []struct {
		Duration string           `json:"duration"`
		Segments []amadeusSegment `json:"segments"`
	} `json:"itineraries"`
	ValidatingAirlineCodes []string `json:"validatingAirlineCodes"`
}

func parseFlightOffers(data []byte, origin, destination string, depart, ret models.Date) ([]models.FlightOption, error) {
	var resp struct {
		Data []amadeusFlightOffer `json:"data"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse flight offers: %w", err)
	}

	flights := make([]models.FlightOption, 0, len(resp.Data))
	for _, offer := range resp.Data {
		price := parsePrice(offer.Price.GrandTotal)
		if price <= 0 || len(offer.Itineraries) == 0 {
			continue
		}

		outbound := offer.Itineraries[0]
		code := ""
		if len(offer.ValidatingAirlineCodes) > 0 {
			code = offer.ValidatingAirlineCodes[0]
		} else if len(outbound.Segments) > 0 {
			code = outbound.Segments[0].CarrierCode
		}

		f := models.FlightOption{
			Airline:     code,
			AirlineName: airlineName(code),
			Price:       price,
			Origin:      origin,
			Destination: destination,
			DepartDate:  depart,
			ReturnDate:  ret,
			Duration:    parseDuration(outbound.Duration),
			Stops:       max(0, len(outbound.Segments)-1),
			Currency:    offer.Price.Currency,
		}
		if n := len(outbound.Segments); n > 0 {
			first := outbound.Segments[0]
			carrier := first.CarrierCode
			if carrier == "" {
				carrier = code
			}
			f.FlightNumber = carrier + first.Number
			f.DepartureTime = first.Departure.At
			f.ArrivalTime = outbound.Segments[n-1].Arrival.At
		}
		flights = append(flights, f)
	}
	return flights, nil
}

func sandboxFlight(origin, destination string, depart, ret models.Date, currency string) models.FlightOption {
	return models.FlightOption{
		Airline:       "SQ",
		AirlineName:   airlineName("SQ"),
		Price:         800,
		Origin:        origin,
		Destination:   destination,
		DepartDate:    depart,
		ReturnDate:    ret,
		FlightNumber:  "SQ123",
		DepartureTime: "09:00",
		ArrivalTime:   "14:00",
		Currency:      currency,
	}
}

// ─── Hotel Search ─────────────────────────────────────────────────────────────

// SearchHotelsByCity lists hotels via the Hotel List API. Records carry no
// price; the planner estimates nightly rates.
func (c *AmadeusClient) SearchHotelsByCity(ctx context.Context, city string) ([]models.HotelRecord, error) {
	if !c.Configured() {
		return GenerateHotelsFallback(city), nil
	}

	code, err := c.CityCode(ctx, city)
	if err != nil {
		return nil, err
	}

	body, err := c.get(ctx, "/v1/reference-data/locations/hotels/by-city", url.Values{
		"cityCode":    {code},
		"radius":      {strconv.Itoa(hotelSearchRadiusKM)},
		"radiusUnit":  {"KM"},
		"hotelSource": {"ALL"},
	})
	if err != nil {
		if c.testMode {
			log.Printf("⚠️  Hotel search failed in test mode, using demo hotels: %v", err)
			return demoHotels(code), nil
		}
		return nil, fmt.Errorf("hotel list failed: %w", err)
	}
	return parseHotelList(body)
}

func parseHotelList(data []byte) ([]models.HotelRecord, error) {
	var resp struct {
		Data []struct {
			HotelID string          `json:"hotelId"`
			Name    string          `json:"name"`
			Rating  json.RawMessage `json:"rating"`
			Address struct {
				CountryCode string `json:"countryCode"`
			} `json:"address"`
		} `json:"data"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse hotel list: %w", err)
	}

	records := make([]models.HotelRecord, 0, len(resp.Data))
	for _, h := range resp.Data {
		records = append(records, models.HotelRecord{
			HotelID:     h.HotelID,
			Name:        h.Name,
			Rating:      parseRating(h.Rating),
			CountryCode: h.Address.CountryCode,
		})
	}
	return records, nil
}

func demoHotels(cityCode string) []models.HotelRecord {
	records := make([]models.HotelRecord, 0, 5)
	for i := 1; i <= 5; i++ {
		records = append(records, models.HotelRecord{
			HotelID:     fmt.Sprintf("DUMMY_HOTEL_%d", i),
			Name:        fmt.Sprintf("Demo Hotel %d", i),
			CountryCode: cityCode,
		})
	}
	return records
}

// ─── Helpers ──────────────────────────────────────────────────────────────────

// parseDuration converts ISO 8601 duration (PT5H30M) to human readable (5h 30m)
func parseDuration(iso string) string {
	d, err := time.ParseDuration(strings.ToLower(strings.TrimPrefix(iso, "PT")))
	if err != nil || d <= 0 {
		return ""
	}
	return formatDurationMin(int(d.Minutes()))
}

func formatDurationMin(minutes int) string {
	h, m := minutes/60, minutes%60
	switch {
	case h == 0:
		return fmt.Sprintf("%dm", m)
	case m == 0:
		return fmt.Sprintf("%dh", h)
	}
	return fmt.Sprintf("%dh %dm", h, m)
}

func parsePrice(s string) float64 {
	price, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return price
}

// parseRating accepts the star rating as a number or a numeric string.
func parseRating(raw json.RawMessage) float64 {
	s := strings.Trim(string(raw), `"`)
	r, err := strconv.ParseFloat(s, 64)
	if err != nil || r <= 0 {
		return 0
	}
	return min(r, 5)
}

// airportToCity maps airport IATA codes to city codes for search
func airportToCity(airport string) string {
	mapping := map[string]string{
		"LHR": "LON", "LGW": "LON", "STN": "LON",
		"CDG": "PAR", "ORY": "PAR",
		"JFK": "NYC", "LGA": "NYC", "EWR": "NYC",
		"NRT": "TYO", "HND": "TYO",
		"KIX": "OSA", "ITM": "OSA",
		"DMK": "BKK",
		"FCO": "ROM",
	}
	if city, ok := mapping[airport]; ok {
		return city
	}
	return airport
}

// airlineName returns full airline name from IATA code
func airlineName(code string) string {
	names := map[string]string{
		"SQ": "Singapore Airlines",
		"TR": "Scoot",
		"3K": "Jetstar Asia",
		"MH": "Malaysia Airlines",
		"AK": "AirAsia",
		"TG": "Thai Airways",
		"CX": "Cathay Pacific",
		"NH": "ANA",
		"JL": "Japan Airlines",
		"KE": "Korean Air",
		"QF": "Qantas",
		"EK": "Emirates",
		"QR": "Qatar Airways",
		"BA": "British Airways",
		"AF": "Air France",
		"LH": "Lufthansa",
		"UA": "United Airlines",
	}
	if name, ok := names[code]; ok {
		return name
	}
	if code != "" {
		return code
	}
	return "Unknown Airline"
}
