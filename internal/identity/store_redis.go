package identity

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

type redisStore struct {
	rdb *redis.Client
}

// NewRedisStore connects to the given redis:// URL and returns a Store
// keeping seat bindings there. TTLs are enforced natively by key expiry.
func NewRedisStore(redisURL string) (Store, error) {
	if strings.TrimSpace(redisURL) == "" {
		return nil, fmt.Errorf("redis url required")
	}
	opts, err := parseRedisURL(redisURL)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &redisStore{rdb: rdb}, nil
}

func seatKey(playerID string) string { return "uno:seat:" + strings.TrimSpace(playerID) }

func (s *redisStore) Bind(ctx context.Context, playerID, roomID string, ttl time.Duration) error {
	playerID = strings.TrimSpace(playerID)
	if playerID == "" || strings.TrimSpace(roomID) == "" {
		return nil
	}
	return s.rdb.Set(ctx, seatKey(playerID), roomID, ttl).Err()
}

func (s *redisStore) Lookup(ctx context.Context, playerID string) (string, error) {
	v, err := s.rdb.Get(ctx, seatKey(playerID)).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return v, nil
}

func (s *redisStore) Unbind(ctx context.Context, playerID string) error {
	return s.rdb.Del(ctx, seatKey(playerID)).Err()
}

func (s *redisStore) Close() error {
	if s == nil || s.rdb == nil {
		return nil
	}
	return s.rdb.Close()
}

func parseRedisURL(raw string) (*redis.Options, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	if u.Scheme != "redis" && u.Scheme != "rediss" {
		return nil, fmt.Errorf("unsupported scheme: %s", u.Scheme)
	}
	db := 0
	if p := strings.TrimPrefix(u.Path, "/"); p != "" {
		if n, err := strconv.Atoi(p); err == nil {
			db = n
		}
	}
	pass, _ := u.User.Password()
	return &redis.Options{Addr: u.Host, Password: pass, DB: db}, nil
}
