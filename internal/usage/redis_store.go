package usage

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"codeberg.org/echowrite/server/internal/logger"
)

// redis key patterns
const (
	// echowrite:usage:{userID} - hash with role, usage_count, max_usage, updated_at
	keyUsageRecord = "echowrite:usage:%s"

	// echowrite:profile:{userID} - hash with email, name, updated_at
	keyProfile = "echowrite:profile:%s"
)

// returns {status, role, usage_count, max_usage, updated_at}; status is ok, missing or exceeded
var incrementScript = redis.NewScript(`
local key = KEYS[1]
if redis.call('EXISTS', key) == 0 then
	return {'missing'}
end
local role = redis.call('HGET', key, 'role')
local count = tonumber(redis.call('HGET', key, 'usage_count'))
local max = tonumber(redis.call('HGET', key, 'max_usage'))
if role ~= 'premium' and count >= max then
	return {'exceeded'}
end
redis.call('HINCRBY', key, 'usage_count', 1)
redis.call('HSET', key, 'updated_at', ARGV[1])
local rec = redis.call('HMGET', key, 'role', 'usage_count', 'max_usage', 'updated_at')
return {'ok', rec[1], rec[2], rec[3], rec[4]}
`)

// ARGV: email, name, max_usage, now
var bootstrapScript = redis.NewScript(`
redis.call('HSET', KEYS[2], 'email', ARGV[1], 'updated_at', ARGV[4])
if ARGV[2] ~= '' then
	redis.call('HSET', KEYS[2], 'name', ARGV[2])
end
if redis.call('EXISTS', KEYS[1]) == 0 then
	redis.call('HSET', KEYS[1], 'role', 'user', 'usage_count', 0, 'max_usage', ARGV[3], 'updated_at', ARGV[4])
end
local rec = redis.call('HMGET', KEYS[1], 'role', 'usage_count', 'max_usage', 'updated_at')
return {'ok', rec[1], rec[2], rec[3], rec[4]}
`)

var activateScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
	return {'missing'}
end
redis.call('HSET', KEYS[1], 'role', 'premium', 'updated_at', ARGV[1])
local rec = redis.call('HMGET', KEYS[1], 'role', 'usage_count', 'max_usage', 'updated_at')
return {'ok', rec[1], rec[2], rec[3], rec[4]}
`)

// ledger backed by redis hashes with lua compare-and-increment
type RedisLedger struct {
	client *redis.Client
}

func NewRedisLedger(client *redis.Client) *RedisLedger {
	return &RedisLedger{client: client}
}

// creates a new ledger with its own redis connection
func NewRedisLedgerFromURL(ctx context.Context, redisURL string) (*RedisLedger, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	// test connection
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close() //nolint:errcheck // already failing
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Info("connected to redis", "ledger", "redis")

	return &RedisLedger{client: client}, nil
}

// closes the Redis connection
func (l *RedisLedger) Close() error {
	return l.client.Close()
}

func (l *RedisLedger) Get(ctx context.Context, userID string) (*Record, error) {
	values, err := l.client.HMGet(ctx, fmt.Sprintf(keyUsageRecord, userID),
		"role", "usage_count", "max_usage", "updated_at").Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read usage record: %w", err)
	}

	if values[0] == nil {
		return nil, ErrProfileMissing
	}

	return parseRecord(userID, values)
}

func (l *RedisLedger) Increment(ctx context.Context, userID string) (*Record, error) {
	result, err := incrementScript.Run(ctx, l.client,
		[]string{fmt.Sprintf(keyUsageRecord, userID)},
		now(),
	).Slice()
	if err != nil {
		return nil, fmt.Errorf("failed to increment usage: %w", err)
	}

	return scriptRecord(userID, result)
}

func (l *RedisLedger) Bootstrap(ctx context.Context, profile Profile, maxUsage int) (*Record, error) {
	result, err := bootstrapScript.Run(ctx, l.client,
		[]string{
			fmt.Sprintf(keyUsageRecord, profile.UserID),
			fmt.Sprintf(keyProfile, profile.UserID),
		},
		profile.Email, profile.Name, maxUsage, now(),
	).Slice()
	if err != nil {
		return nil, fmt.Errorf("failed to bootstrap usage record: %w", err)
	}

	return scriptRecord(profile.UserID, result)
}

func (l *RedisLedger) ActivatePremium(ctx context.Context, userID string) (*Record, error) {
	result, err := activateScript.Run(ctx, l.client,
		[]string{fmt.Sprintf(keyUsageRecord, userID)},
		now(),
	).Slice()
	if err != nil {
		return nil, fmt.Errorf("failed to activate premium: %w", err)
	}

	return scriptRecord(userID, result)
}

func (l *RedisLedger) Ping(ctx context.Context) error {
	return l.client.Ping(ctx).Err()
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

// decodes the {status, fields...} reply shared by all scripts
func scriptRecord(userID string, result []any) (*Record, error) {
	if len(result) == 0 {
		return nil, errors.New("empty script reply")
	}

	switch status, _ := result[0].(string); status {
	case "ok":
		return parseRecord(userID, result[1:])
	case "missing":
		return nil, ErrProfileMissing
	case "exceeded":
		return nil, ErrQuotaExceeded
	default:
		return nil, fmt.Errorf("unexpected script status %v", result[0])
	}
}

// parses role, usage_count, max_usage, updated_at as returned by HMGET
func parseRecord(userID string, values []any) (*Record, error) {
	if len(values) < 4 {
		return nil, fmt.Errorf("usage record for %s is incomplete", userID)
	}

	role, _ := values[0].(string)

	count, err := toInt(values[1])
	if err != nil {
		return nil, fmt.Errorf("invalid usage_count for %s: %w", userID, err)
	}

	maxUsage, err := toInt(values[2])
	if err != nil {
		return nil, fmt.Errorf("invalid max_usage for %s: %w", userID, err)
	}

	record := &Record{
		UserID:     userID,
		Role:       Role(role),
		UsageCount: count,
		MaxUsage:   maxUsage,
	}

	if raw, ok := values[3].(string); ok {
		if ts, err := time.Parse(time.RFC3339Nano, raw); err == nil {
			record.UpdatedAt = ts
		}
	}

	return record, nil
}

func toInt(value any) (int, error) {
	switch v := value.(type) {
	case int64:
		return int(v), nil
	case string:
		return strconv.Atoi(v)
	default:
		return 0, fmt.Errorf("unexpected type %T", value)
	}
}
