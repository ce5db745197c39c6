package services

import (
	"fmt"
	"strings"
	"time"

	"nomadai/models"
)

// ─── Fallback (when Amadeus is not configured) ───────────────────────────────

type routeInfo struct {
	basePrice float64
	minutes   int
}

var fallbackRoutes = map[string]routeInfo{
	"SIN-TYO": {620, 420}, "SIN-BKK": {210, 145}, "SIN-LON": {1250, 810},
	"SIN-PAR": {1180, 800}, "SIN-SYD": {690, 480}, "SIN-DXB": {560, 440},
	"SIN-NYC": {1650, 1100}, "SIN-SFO": {1350, 960}, "SIN-LAX": {1400, 1000},
	"BKK-TYO": {480, 360}, "LON-PAR": {160, 80}, "LON-NYC": {780, 480},
}

type fallbackCarrier struct {
	code     string
	priceMod float64
	stops    int
}

var fallbackCarriers = []fallbackCarrier{
	{"SQ", 1.00, 0},
	{"CX", 0.90, 1},
	{"EK", 1.20, 1},
	{"TR", 0.65, 0},
	{"JL", 1.10, 0},
}

// GenerateFlightsFallback produces estimated round-trip options without an API key.
// Prices depend only on the route.
func GenerateFlightsFallback(origin, destination string, depart, ret models.Date, currency string) []models.FlightOption {
	from, to := fallbackCode(origin), fallbackCode(destination)
	info, ok := fallbackRoutes[from+"-"+to]
	if !ok {
		info, ok = fallbackRoutes[to+"-"+from]
	}
	if !ok {
		info = routeInfo{basePrice: 700, minutes: 360}
	}

	flights := make([]models.FlightOption, 0, len(fallbackCarriers))
	for i, carrier := range fallbackCarriers {
		price := float64(int(info.basePrice*carrier.priceMod/5) * 5)

		minutes := info.minutes
		if carrier.stops > 0 {
			minutes += 90
		}
		dep := time.Date(depart.Year(), depart.Month(), depart.Day(), 6+i*3, 0, 0, 0, time.UTC)
		arr := dep.Add(time.Duration(minutes) * time.Minute)

		flights = append(flights, models.FlightOption{
			Airline:       carrier.code,
			AirlineName:   airlineName(carrier.code),
			Price:         price,
			Origin:        origin,
			Destination:   destination,
			DepartDate:    depart,
			ReturnDate:    ret,
			FlightNumber:  fmt.Sprintf("%s%d", carrier.code, 100+i*11),
			DepartureTime: dep.Format("2006-01-02T15:04:05"),
			ArrivalTime:   arr.Format("2006-01-02T15:04:05"),
			Duration:      formatDurationMin(minutes),
			Stops:         carrier.stops,
			Currency:      currency,
		})
	}
	return flights
}

var fallbackHotels = map[string][]models.HotelRecord{
	"TYO": {
		{HotelID: "FB_TYO_1", Name: "Park Hyatt Tokyo", Rating: 5, CountryCode: "JP"},
		{HotelID: "FB_TYO_2", Name: "Shinjuku Granbell Hotel", Rating: 4, CountryCode: "JP"},
		{HotelID: "FB_TYO_3", Name: "Hotel Gracery Asakusa", Rating: 3, CountryCode: "JP"},
		{HotelID: "FB_TYO_4", Name: "Sotetsu Fresa Inn Ginza", Rating: 3, CountryCode: "JP"},
		{HotelID: "FB_TYO_5", Name: "Nine Hours Akihabara", Rating: 2, CountryCode: "JP"},
	},
	"BKK": {
		{HotelID: "FB_BKK_1", Name: "Mandarin Oriental Bangkok", Rating: 5, CountryCode: "TH"},
		{HotelID: "FB_BKK_2", Name: "Ibis Styles Bangkok Khaosan", Rating: 3, CountryCode: "TH"},
		{HotelID: "FB_BKK_3", Name: "Novotel Bangkok Sukhumvit", Rating: 4, CountryCode: "TH"},
		{HotelID: "FB_BKK_4", Name: "Lub d Bangkok Siam", Rating: 2, CountryCode: "TH"},
	},
	"PAR": {
		{HotelID: "FB_PAR_1", Name: "Hotel Le Marais", Rating: 4, CountryCode: "FR"},
		{HotelID: "FB_PAR_2", Name: "Pullman Paris Tour Eiffel", Rating: 4, CountryCode: "FR"},
		{HotelID: "FB_PAR_3", Name: "Ibis Paris Montmartre", Rating: 3, CountryCode: "FR"},
		{HotelID: "FB_PAR_4", Name: "Generator Paris", Rating: 2, CountryCode: "FR"},
	},
	"LON": {
		{HotelID: "FB_LON_1", Name: "Hilton London Tower Bridge", Rating: 4, CountryCode: "GB"},
		{HotelID: "FB_LON_2", Name: "Premier Inn London City", Rating: 3, CountryCode: "GB"},
		{HotelID: "FB_LON_3", Name: "citizenM London Bankside", Rating: 4, CountryCode: "GB"},
		{HotelID: "FB_LON_4", Name: "Generator London", Rating: 2, CountryCode: "GB"},
	},
}

// GenerateHotelsFallback produces unpriced hotel records without an API key.
func GenerateHotelsFallback(city string) []models.HotelRecord {
	if hotels, ok := fallbackHotels[fallbackCode(city)]; ok {
		out := make([]models.HotelRecord, len(hotels))
		copy(out, hotels)
		return out
	}

	// Generic fallback
	return []models.HotelRecord{
		{HotelID: "FB_GEN_1", Name: "Grand City Hotel " + city, Rating: 4},
		{HotelID: "FB_GEN_2", Name: "Business Inn " + city, Rating: 3},
		{HotelID: "FB_GEN_3", Name: "Boutique Residence " + city, Rating: 4},
		{HotelID: "FB_GEN_4", Name: "Economy Suites " + city, Rating: 2},
		{HotelID: "FB_GEN_5", Name: "Luxury Collection " + city, Rating: 5},
	}
}

func fallbackCode(city string) string {
	if code, ok := cityOverrides[strings.ToLower(strings.TrimSpace(city))]; ok {
		return code
	}
	return airportToCity(strings.ToUpper(strings.TrimSpace(city)))
}
