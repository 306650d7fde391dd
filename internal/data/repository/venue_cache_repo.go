package repository

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"event-reservation/internal/data/entity"
	"event-reservation/pkg/cache"

	"go.uber.org/zap"
)

// KeyValueCache is satisfied by *cache.Cache.
type KeyValueCache interface {
	Get(ctx context.Context, namespace, key string) (string, error)
	Set(ctx context.Context, namespace, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, namespace, key string) error
}

const venueNamespace = "venue"

// cachedVenueRepository serves FindByID from the cache and evicts on writes.
// Cache failures fall through to the wrapped repository.
type cachedVenueRepository struct {
	VenueRepository
	cache KeyValueCache
	ttl   time.Duration
	log   *zap.Logger
}

func NewCachedVenueRepository(next VenueRepository, kv KeyValueCache, ttl time.Duration, log *zap.Logger) VenueRepository {
	return &cachedVenueRepository{
		VenueRepository: next,
		cache:           kv,
		ttl:             ttl,
		log:             log.With(zap.String("repository", "venue_cache")),
	}
}

func (r *cachedVenueRepository) FindByID(ctx context.Context, id int64) (*entity.Venue, error) {
	key := strconv.FormatInt(id, 10)

	raw, err := r.cache.Get(ctx, venueNamespace, key)
	if err == nil {
		var venue entity.Venue
		if jsonErr := json.Unmarshal([]byte(raw), &venue); jsonErr == nil {
			return &venue, nil
		}
		r.log.Warn("Discarding undecodable cached venue", zap.Int64("venue_id", id))
	} else if !errors.Is(err, cache.ErrMiss) {
		r.log.Warn("Venue cache read failed", zap.Error(err), zap.Int64("venue_id", id))
	}

	venue, err := r.VenueRepository.FindByID(ctx, id)
	if err != nil || venue == nil {
		return venue, err
	}

	if data, err := json.Marshal(venue); err == nil {
		if err := r.cache.Set(ctx, venueNamespace, key, data, r.ttl); err != nil {
			r.log.Warn("Venue cache write failed", zap.Error(err), zap.Int64("venue_id", id))
		}
	}

	return venue, nil
}

func (r *cachedVenueRepository) Update(ctx context.Context, venue *entity.Venue) error {
	if err := r.VenueRepository.Update(ctx, venue); err != nil {
		return err
	}
	r.evict(ctx, venue.ID)
	return nil
}

func (r *cachedVenueRepository) SetActive(ctx context.Context, id int64, active bool) error {
	if err := r.VenueRepository.SetActive(ctx, id, active); err != nil {
		return err
	}
	r.evict(ctx, id)
	return nil
}

func (r *cachedVenueRepository) evict(ctx context.Context, id int64) {
	if err := r.cache.Delete(ctx, venueNamespace, strconv.FormatInt(id, 10)); err != nil {
		r.log.Warn("Venue cache eviction failed", zap.Error(err), zap.Int64("venue_id", id))
	}
}
