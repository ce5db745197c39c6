package database

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nomadai/models"
)

func itinerary(id string) *models.Itinerary {
	return &models.Itinerary{
		RequestID: id,
		TravelRequest: models.TravelRequest{
			Origin:      "SIN",
			Destination: "TYO",
			DepartDate:  models.NewDate(2024, time.June, 1),
			ReturnDate:  models.NewDate(2024, time.June, 3),
			Duration:    3,
			Budget:      2000,
		},
		TotalCost: 740,
		Source:    models.SourceFallback,
	}
}

func TestMemoryStoreSaveGet(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(time.Hour, 10)

	require.NoError(t, s.Save(ctx, itinerary("a")))

	got, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "a", got.RequestID)
	assert.Equal(t, 740.0, got.TotalCost)
}

func TestMemoryStoreNotFound(t *testing.T) {
	_, err := NewMemoryStore(time.Hour, 10).Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreRejectsDuplicate(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(time.Hour, 10)

	require.NoError(t, s.Save(ctx, itinerary("a")))
	err := s.Save(ctx, itinerary("a"))
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestMemoryStoreExpires(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(20*time.Millisecond, 10)

	require.NoError(t, s.Save(ctx, itinerary("a")))
	time.Sleep(40 * time.Millisecond)

	_, err := s.Get(ctx, "a")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreEvictsClosestToExpiry(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(time.Hour, 2)

	require.NoError(t, s.Save(ctx, itinerary("first")))
	time.Sleep(2 * time.Millisecond)
	require.NoError(t, s.Save(ctx, itinerary("second")))
	time.Sleep(2 * time.Millisecond)
	require.NoError(t, s.Save(ctx, itinerary("third")))

	assert.Equal(t, 2, s.Len())
	_, err := s.Get(ctx, "first")
	assert.ErrorIs(t, err, ErrNotFound)
	for _, id := range []string{"second", "third"} {
		_, err := s.Get(ctx, id)
		assert.NoError(t, err, id)
	}
}

func TestMemoryStoreConcurrentSaves(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(time.Hour, 50)

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, s.Save(ctx, itinerary(fmt.Sprintf("it-%d", i))))
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 50, s.Len())
}
