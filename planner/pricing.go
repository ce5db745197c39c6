package planner

import (
	"hash/fnv"
	"math/rand/v2"

	"nomadai/models"
)

const (
	maxPricedHotels = 10
	defaultStars    = 3.0
)

var defaultAmenities = []string{"Wi-Fi", "Room Service", "Air Conditioning"}

// PriceEstimator synthesizes nightly rates for hotel records that carry none.
// The jitter for a hotel depends only on the seed and the hotel's identity, so
// the same inputs always price the same way.
type PriceEstimator struct {
	Seed uint64
}

// Estimate returns the record's own price when set, otherwise
// 100 + stars*50*jitter with jitter in [0.8, 1.2).
func (e PriceEstimator) Estimate(rec models.HotelRecord) float64 {
	if rec.Price > 0 {
		return rec.Price
	}
	return 100 + stars(rec)*50*e.jitter(rec)
}

func (e PriceEstimator) jitter(rec models.HotelRecord) float64 {
	key := rec.HotelID
	if key == "" {
		key = rec.Name
	}
	h := fnv.New64a()
	_, _ = h.Write([]byte(key))
	rng := rand.New(rand.NewPCG(e.Seed, h.Sum64()))
	return 0.8 + rng.Float64()*0.4
}

// ToHotelOptions prices up to ten records as options in the destination city.
func (e PriceEstimator) ToHotelOptions(records []models.HotelRecord, city string) []models.HotelOption {
	records = prefix(records, maxPricedHotels)
	hotels := make([]models.HotelOption, 0, len(records))
	for _, rec := range records {
		name := rec.Name
		if name == "" {
			name = "Unknown Hotel"
		}
		amenities := make([]string, len(defaultAmenities))
		copy(amenities, defaultAmenities)
		hotels = append(hotels, models.HotelOption{
			Name:          name,
			PricePerNight: e.Estimate(rec),
			Stars:         stars(rec),
			City:          city,
			Address:       rec.CountryCode,
			Amenities:     amenities,
			HotelID:       rec.HotelID,
		})
	}
	return hotels
}

func stars(rec models.HotelRecord) float64 {
	if rec.Rating <= 0 {
		return defaultStars
	}
	return min(rec.Rating, 5)
}
