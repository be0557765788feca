// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/pwdregistry/internal/platform/apperr"
	"github.com/taibuivan/pwdregistry/internal/platform/constants"
)

// # Verification Tokens

// RedisVerificationTokenRepository implements [VerificationTokenRepository].
type RedisVerificationTokenRepository struct {
	client redis.Cmdable
}

// NewVerificationTokenRepository builds the Redis token repository.
func NewVerificationTokenRepository(client redis.Cmdable) *RedisVerificationTokenRepository {
	return &RedisVerificationTokenRepository{client: client}
}

func verifyKey(token string) string {
	return constants.RedisPrefixVerifyToken + token
}

// Set stores token → accountID for ttl.
func (repository *RedisVerificationTokenRepository) Set(ctx context.Context, token, accountID string, ttl time.Duration) error {
	if err := repository.client.Set(ctx, verifyKey(token), accountID, ttl).Err(); err != nil {
		return fmt.Errorf("redis_verify_token_set_failed: %w", err)
	}
	return nil
}

// Get resolves token. Unknown or expired tokens are NotFound.
func (repository *RedisVerificationTokenRepository) Get(ctx context.Context, token string) (string, error) {
	accountID, err := repository.client.Get(ctx, verifyKey(token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", apperr.NotFound("Confirmation token")
		}
		return "", fmt.Errorf("redis_verify_token_get_failed: %w", err)
	}
	return accountID, nil
}

// Delete drops token.
func (repository *RedisVerificationTokenRepository) Delete(ctx context.Context, token string) error {
	if err := repository.client.Del(ctx, verifyKey(token)).Err(); err != nil {
		return fmt.Errorf("redis_verify_token_delete_failed: %w", err)
	}
	return nil
}

// # Resend Throttle

// RedisResendThrottle implements [ResendThrottle] with SET NX.
type RedisResendThrottle struct {
	client redis.Cmdable
}

// NewResendThrottle builds the Redis resend throttle.
func NewResendThrottle(client redis.Cmdable) *RedisResendThrottle {
	return &RedisResendThrottle{client: client}
}

// Acquire claims the resend slot for email for window.
func (throttle *RedisResendThrottle) Acquire(ctx context.Context, email string, window time.Duration) (bool, error) {
	ok, err := throttle.client.SetNX(ctx, constants.RedisPrefixResendLock+email, 1, window).Result()
	if err != nil {
		return false, fmt.Errorf("redis_resend_throttle_failed: %w", err)
	}
	return ok, nil
}
