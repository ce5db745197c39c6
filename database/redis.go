package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"nomadai/models"
)

const itineraryKeyPrefix = "itinerary:"

// RedisStore keeps itineraries as JSON strings that expire after the TTL.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// ConnectRedis opens a client and checks the server answers.
func ConnectRedis(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:        addr,
		Password:    password,
		DB:          db,
		DialTimeout: 5 * time.Second,
	})
	pong, err := client.Ping(ctx).Result()
	if err != nil {
		return nil, fmt.Errorf("ping redis at %s: %w", addr, err)
	}
	if pong != "PONG" {
		return nil, fmt.Errorf("expected PONG, got %s", pong)
	}
	return client, nil
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) Save(ctx context.Context, it *models.Itinerary) error {
	data, err := json.Marshal(it)
	if err != nil {
		return fmt.Errorf("encode itinerary %s: %w", it.RequestID, err)
	}

	ok, err := s.client.SetNX(ctx, itineraryKeyPrefix+it.RequestID, data, s.ttl).Result()
	if err != nil {
		return fmt.Errorf("store itinerary %s: %w", it.RequestID, err)
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrDuplicate, it.RequestID)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, id string) (*models.Itinerary, error) {
	val, err := s.client.Get(ctx, itineraryKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("load itinerary %s: %w", id, err)
	}

	it := &models.Itinerary{}
	if err := json.Unmarshal(val, it); err != nil {
		return nil, fmt.Errorf("decode itinerary %s: %w", id, err)
	}
	return it, nil
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
