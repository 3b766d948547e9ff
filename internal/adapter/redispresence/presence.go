// Package redispresence keeps a TTL-based liveness mark per available driver.
// The store row says a driver wants rides; the Redis key says the driver's
// client checked in recently. Listing available drivers intersects both.
package redispresence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "presence:driver:"

type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

func New(rdb *redis.Client, ttl time.Duration) *Store {
	return &Store{
		rdb: rdb,
		ttl: ttl,
	}
}

// MarkOnline sets (or refreshes) the driver's presence key.
func (s *Store) MarkOnline(ctx context.Context, driverID uuid.UUID) error {
	return s.rdb.Set(ctx, keyPrefix+driverID.String(), time.Now().Unix(), s.ttl).Err()
}

// MarkOffline drops the driver's presence key.
func (s *Store) MarkOffline(ctx context.Context, driverID uuid.UUID) error {
	return s.rdb.Del(ctx, keyPrefix+driverID.String()).Err()
}

// FilterOnline returns the subset of ids with a live presence key, preserving
// order. Expired keys fall out naturally via TTL.
func (s *Store) FilterOnline(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	pipe := s.rdb.Pipeline()
	cmds := make([]*redis.IntCmd, len(ids))
	for i, id := range ids {
		cmds[i] = pipe.Exists(ctx, keyPrefix+id.String())
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, err
	}

	online := make([]uuid.UUID, 0, len(ids))
	for i, cmd := range cmds {
		if cmd.Val() > 0 {
			online = append(online, ids[i])
		}
	}
	return online, nil
}
