package database

import "errors"

var (
	ErrNotFound  = errors.New("itinerary not found")
	ErrDuplicate = errors.New("itinerary already exists")
)
