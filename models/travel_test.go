package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidate(t *testing.T) {
	valid := func() TravelRequest {
		return TravelRequest{
			Origin:      "Singapore",
			Destination: "Tokyo",
			DepartDate:  NewDate(2024, time.June, 1),
			ReturnDate:  NewDate(2024, time.June, 3),
			Duration:    3,
			Budget:      2000,
		}
	}

	tests := []struct {
		name    string
		mutate  func(*TravelRequest)
		wantErr string
	}{
		{"valid", func(*TravelRequest) {}, ""},
		{"longest trip", func(r *TravelRequest) { r.Duration = MaxDuration }, ""},
		{"too long", func(r *TravelRequest) { r.Duration = MaxDuration + 1 }, "at most 60 days"},
		{"zero duration", func(r *TravelRequest) { r.Duration = 0 }, "at least 1 day"},
		{"no origin", func(r *TravelRequest) { r.Origin = " " }, "origin is required"},
		{"negative budget", func(r *TravelRequest) { r.Budget = -1 }, "budget must be positive"},
		{"return before depart", func(r *TravelRequest) { r.ReturnDate = NewDate(2024, time.May, 30) }, "return_date must not be before"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid()
			tt.mutate(&req)
			err := req.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				assert.Equal(t, 1, req.Adults)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
