package caching

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const keyPrefix = "praenforce:"

// ReportCache stores computed reports as JSON under fingerprinted keys
type ReportCache interface {
	// Get decodes the cached value into dest. A miss returns false and no error.
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	InvalidateAll(ctx context.Context) error
	Ping(ctx context.Context) error
}

type redisReportCache struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisClient accepts either host:port or a redis:// URL
func NewRedisClient(addr, password string, db int, logger *zap.Logger) *redis.Client {
	parsedAddr := addr
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		if opts, err := redis.ParseURL(addr); err == nil {
			parsedAddr = opts.Addr
			if password == "" {
				password = opts.Password
			}
		}
	}

	logger.Debug("creating redis client", zap.String("addr", parsedAddr), zap.Int("db", db))
	return redis.NewClient(&redis.Options{
		Addr:     parsedAddr,
		Password: password,
		DB:       db,
	})
}

func NewRedisReportCache(client *redis.Client, logger *zap.Logger) ReportCache {
	if err := client.Ping(context.Background()).Err(); err != nil {
		logger.Warn("redis ping failed on initialization", zap.Error(err))
	}
	return &redisReportCache{client: client, logger: logger}
}

// ReportKey names a cached report. The fingerprint covers the report inputs.
func ReportKey(operation, officerID string, fingerprint uint64) string {
	if officerID == "" {
		officerID = "all"
	}
	return fmt.Sprintf("%sreport:%s:%s:%016x", keyPrefix, operation, officerID, fingerprint)
}

func (r *redisReportCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		r.logger.Warn("discarding undecodable cache entry", zap.String("key", key), zap.Error(err))
		return false, nil
	}
	return true, nil
}

func (r *redisReportCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, data, ttl).Err()
}

// InvalidateAll drops every report key
func (r *redisReportCache) InvalidateAll(ctx context.Context) error {
	var cursor uint64
	for {
		keys, next, err := r.client.Scan(ctx, cursor, keyPrefix+"report:*", 100).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := r.client.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}

func (r *redisReportCache) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
