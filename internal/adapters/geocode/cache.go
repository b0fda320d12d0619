package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"riconnect/internal/domain"
)

const keyPrefix = "riconnect:geocode:"

// Store is the subset of a redis client the cache needs.
type Store interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

type cachedGeocoder struct {
	next   domain.Geocoder
	store  Store
	ttl    time.Duration
	logger *slog.Logger
}

// NewCachedGeocoder memoizes next in redis. Coordinates are rounded to five decimals
// (about a meter) for the key. Cache failures are logged and fall through to next.
func NewCachedGeocoder(next domain.Geocoder, store Store, ttl time.Duration, logger *slog.Logger) domain.Geocoder {
	if logger == nil {
		logger = slog.Default()
	}
	return &cachedGeocoder{next: next, store: store, ttl: ttl, logger: logger}
}

// NewRedisClient parses a redis:// URL.
func NewRedisClient(rawURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return redis.NewClient(opts), nil
}

func cacheKey(c domain.Coordinates) string {
	return fmt.Sprintf("%s%.5f,%.5f", keyPrefix, c.Latitude, c.Longitude)
}

func (g *cachedGeocoder) ReverseGeocode(ctx context.Context, c domain.Coordinates) ([]domain.Placemark, error) {
	key := cacheKey(c)

	raw, err := g.store.Get(ctx, key).Result()
	switch {
	case err == nil:
		var placemarks []domain.Placemark
		if jerr := json.Unmarshal([]byte(raw), &placemarks); jerr == nil {
			return placemarks, nil
		}
		g.logger.WarnContext(ctx, "discarding corrupt geocode cache entry", "key", key)
	case !errors.Is(err, redis.Nil):
		g.logger.WarnContext(ctx, "geocode cache read failed", "key", key, "err", err)
	}

	placemarks, err := g.next.ReverseGeocode(ctx, c)
	if err != nil {
		return nil, err
	}
	if placemarks == nil {
		placemarks = []domain.Placemark{}
	}
	data, err := json.Marshal(placemarks)
	if err != nil {
		return placemarks, nil
	}
	if err := g.store.Set(ctx, key, data, g.ttl).Err(); err != nil {
		g.logger.WarnContext(ctx, "geocode cache write failed", "key", key, "err", err)
	}
	return placemarks, nil
}
