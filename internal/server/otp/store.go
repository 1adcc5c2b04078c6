// Package otp issues and checks the one-time codes used for signup
// verification and password reset. Codes and the pending signups they
// guard live in an expiring keyed store (Redis), not in process memory,
// so any instance behind the load balancer can complete a verification
// started by another.
package otp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/higherpolynomia/backend/internal/common"
	"github.com/higherpolynomia/backend/internal/server/models"
)

const (
	signupKeyPrefix = "signup:"
	resetKeyPrefix  = "reset:"
)

// Store is the durable, expiring keyed store for verification state.
// Writes are idempotent upserts keyed by email; re-issuing a code
// replaces the previous record and restarts its TTL.
type Store interface {
	SavePendingSignup(ctx context.Context, pending *models.PendingSignup, ttl time.Duration) error
	GetPendingSignup(ctx context.Context, email string) (*models.PendingSignup, error)
	DeletePendingSignup(ctx context.Context, email string) error

	SaveResetCode(ctx context.Context, email string, code string, ttl time.Duration) error
	GetResetCode(ctx context.Context, email string) (string, error)
	DeleteResetCode(ctx context.Context, email string) error
}

// RedisStore implements Store on top of go-redis. Expiry is delegated to
// Redis TTLs; a missing key means the code was never issued or has
// already expired, which callers treat the same way.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) SavePendingSignup(ctx context.Context, pending *models.PendingSignup, ttl time.Duration) error {
	payload, err := json.Marshal(pending)
	if err != nil {
		return fmt.Errorf("marshaling pending signup: %w", err)
	}
	return s.client.Set(ctx, signupKeyPrefix+pending.Email, payload, ttl).Err()
}

func (s *RedisStore) GetPendingSignup(ctx context.Context, email string) (*models.PendingSignup, error) {
	payload, err := s.client.Get(ctx, signupKeyPrefix+email).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, common.ErrOTPExpired
		}
		return nil, fmt.Errorf("reading pending signup: %w", err)
	}

	pending := &models.PendingSignup{}
	if err := json.Unmarshal(payload, pending); err != nil {
		return nil, fmt.Errorf("unmarshaling pending signup: %w", err)
	}
	return pending, nil
}

func (s *RedisStore) DeletePendingSignup(ctx context.Context, email string) error {
	return s.client.Del(ctx, signupKeyPrefix+email).Err()
}

func (s *RedisStore) SaveResetCode(ctx context.Context, email string, code string, ttl time.Duration) error {
	return s.client.Set(ctx, resetKeyPrefix+email, code, ttl).Err()
}

func (s *RedisStore) GetResetCode(ctx context.Context, email string) (string, error) {
	code, err := s.client.Get(ctx, resetKeyPrefix+email).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", common.ErrOTPExpired
		}
		return "", fmt.Errorf("reading reset code: %w", err)
	}
	return code, nil
}

func (s *RedisStore) DeleteResetCode(ctx context.Context, email string) error {
	return s.client.Del(ctx, resetKeyPrefix+email).Err()
}
