package cache

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/reponha/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	appprocurement "github.com/reponha/backend/internal/application/procurement"
)

// RedisShareTokenStore keeps supplier share tokens in Redis so every app
// instance can resolve a link regardless of which one issued it. Expiry is
// delegated to Redis TTLs.
type RedisShareTokenStore struct {
	client    *redis.Client
	keyPrefix string
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// NewRedisShareTokenStore creates a new Redis-backed share token store
func NewRedisShareTokenStore(cfg RedisConfig) (*RedisShareTokenStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisShareTokenStore{
		client:    client,
		keyPrefix: "share:order:",
	}, nil
}

// NewRedisShareTokenStoreWithClient creates a store with an existing Redis
// client. Useful for testing or when sharing a client across components.
func NewRedisShareTokenStoreWithClient(client *redis.Client, keyPrefix string) *RedisShareTokenStore {
	if keyPrefix == "" {
		keyPrefix = "share:order:"
	}
	return &RedisShareTokenStore{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

// Issue generates an opaque token for the order and stores it with a TTL
func (s *RedisShareTokenStore) Issue(ctx context.Context, tenantID, orderID uuid.UUID, ttl time.Duration) (string, time.Time, error) {
	token, err := newShareToken()
	if err != nil {
		return "", time.Time{}, err
	}

	value := tenantID.String() + ":" + orderID.String()
	if err := s.client.Set(ctx, s.keyPrefix+token, value, ttl).Err(); err != nil {
		return "", time.Time{}, fmt.Errorf("failed to store share token: %w", err)
	}

	return token, time.Now().Add(ttl), nil
}

// Resolve returns the tenant and order a token grants access to.
// Unknown or expired tokens resolve to shared.ErrNotFound.
func (s *RedisShareTokenStore) Resolve(ctx context.Context, token string) (uuid.UUID, uuid.UUID, error) {
	value, err := s.client.Get(ctx, s.keyPrefix+token).Result()
	if errors.Is(err, redis.Nil) {
		return uuid.Nil, uuid.Nil, shared.ErrNotFound
	}
	if err != nil {
		return uuid.Nil, uuid.Nil, fmt.Errorf("failed to resolve share token: %w", err)
	}
	return parseShareTokenValue(value)
}

// Revoke removes a token before its TTL expires. Revoking an unknown token
// is a no-op.
func (s *RedisShareTokenStore) Revoke(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, s.keyPrefix+token).Err(); err != nil {
		return fmt.Errorf("failed to revoke share token: %w", err)
	}
	return nil
}

// Close closes the Redis client
func (s *RedisShareTokenStore) Close() error {
	return s.client.Close()
}

// newShareToken returns a 32-byte random token, URL-safe encoded
func newShareToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate share token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

func parseShareTokenValue(value string) (uuid.UUID, uuid.UUID, error) {
	parts := strings.SplitN(value, ":", 2)
	if len(parts) != 2 {
		return uuid.Nil, uuid.Nil, fmt.Errorf("malformed share token value")
	}
	tenantID, err := uuid.Parse(parts[0])
	if err != nil {
		return uuid.Nil, uuid.Nil, fmt.Errorf("malformed share token tenant: %w", err)
	}
	orderID, err := uuid.Parse(parts[1])
	if err != nil {
		return uuid.Nil, uuid.Nil, fmt.Errorf("malformed share token order: %w", err)
	}
	return tenantID, orderID, nil
}

// Ensure RedisShareTokenStore implements ShareTokenStore
var _ appprocurement.ShareTokenStore = (*RedisShareTokenStore)(nil)
