package viewcache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis is a Cache shared by every API instance. Keys are namespaced with a
// prefix so several deployments can share one server.
type Redis struct {
	client *redis.Client
	prefix string
}

// NewRedis connects to addr and verifies the connection with a PING.
func NewRedis(ctx context.Context, addr, password string, db int, prefix string) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}

	return &Redis{client: client, prefix: prefix}, nil
}

// versionTTL bounds how long an eviction counter outlives its last bump. An
// expired counter reads as zero, which no outstanding fill can hold.
const versionTTL = 24 * time.Hour

func (r *Redis) key(k string) string {
	return r.prefix + k
}

func (r *Redis) versionKey(k string) string {
	return r.prefix + k + "#version"
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := r.client.Get(ctx, r.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}

		return nil, false, fmt.Errorf("getting cached view: %w", err)
	}

	return b, true, nil
}

func (r *Redis) Version(ctx context.Context, key string) (uint64, error) {
	v, err := r.client.Get(ctx, r.versionKey(key)).Uint64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return 0, fmt.Errorf("reading view version: %w", err)
	}

	return v, nil
}

// Fill writes value in a WATCH/MULTI transaction on the key's version counter,
// so a Delete landing between the check and the write aborts it.
func (r *Redis) Fill(ctx context.Context, key string, version uint64, value []byte, ttl time.Duration) (bool, error) {
	vk := r.versionKey(key)
	stored := false

	err := r.client.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := tx.Get(ctx, vk).Uint64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}

		if cur != version {
			return nil
		}

		_, err = tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
			p.Set(ctx, r.key(key), value, ttl)
			return nil
		})
		if err != nil {
			return err
		}

		stored = true

		return nil
	}, vk)

	if errors.Is(err, redis.TxFailedErr) {
		return false, nil
	}

	if err != nil {
		return false, fmt.Errorf("caching view: %w", err)
	}

	return stored, nil
}

func (r *Redis) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = r.key(k)
	}

	_, err := r.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Del(ctx, full...)

		for _, k := range keys {
			p.Incr(ctx, r.versionKey(k))
			p.Expire(ctx, r.versionKey(k), versionTTL)
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("evicting views: %w", err)
	}

	return nil
}

func (r *Redis) Close() error {
	return r.client.Close()
}
