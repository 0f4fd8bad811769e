package middleware

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/portal-eventos/portal-api/utils"
	"github.com/portal-eventos/portal-api/utils/cache"
	"github.com/portal-eventos/portal-api/utils/response"
	"github.com/sirupsen/logrus"
)

const attemptWindow = 15 * time.Minute

// BruteForceProtection throttles failed logins per client IP using Redis.
// A nil *BruteForceProtection is valid and never blocks.
type BruteForceProtection struct {
	redisCache *cache.RedisCache
}

// NewBruteForceProtection creates a new brute force protection instance
func NewBruteForceProtection(redisCache *cache.RedisCache) *BruteForceProtection {
	return &BruteForceProtection{
		redisCache: redisCache,
	}
}

func attemptKey(ip string) string { return fmt.Sprintf("brute_force:attempts:%s", ip) }
func lockKey(ip string) string    { return fmt.Sprintf("brute_force:lock:%s", ip) }

// lockDuration is the progressive lockout for the given number of failures in the window
func lockDuration(attempts int64) time.Duration {
	switch {
	case attempts >= 25:
		return 24 * time.Hour
	case attempts >= 10:
		return time.Hour
	case attempts >= 5:
		return 2 * time.Minute
	default:
		return 0
	}
}

// CheckAndRecordAttempt middleware rejects locked out IPs with 429
func (b *BruteForceProtection) CheckAndRecordAttempt() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if b == nil {
			return c.Next()
		}

		ip := c.IP()
		locked, err := b.redisCache.Exists(c.UserContext(), lockKey(ip))
		if err != nil {
			// Redis down: let the request through
			utils.FromContext(c.UserContext()).WithError(err).Warn("brute force check skipped")
			return c.Next()
		}

		if locked {
			ttl, _ := b.redisCache.TTL(c.UserContext(), lockKey(ip))
			retryAfter := int(ttl.Seconds())
			if retryAfter <= 0 {
				retryAfter = 60
			}

			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(retryAfter))
			return response.TooManyRequests(c, fmt.Sprintf("Muitas tentativas de login. Tente novamente em %d segundos", retryAfter))
		}

		return c.Next()
	}
}

// RecordFailedAttempt counts a failed login and locks the IP once a threshold is crossed
func (b *BruteForceProtection) RecordFailedAttempt(ctx context.Context, ip, email string) error {
	if b == nil {
		return nil
	}

	attempts, err := b.redisCache.Increment(ctx, attemptKey(ip))
	if err != nil {
		return err
	}
	if attempts == 1 {
		if err := b.redisCache.Expire(ctx, attemptKey(ip), attemptWindow); err != nil {
			return err
		}
	}

	duration := lockDuration(attempts)
	if duration == 0 {
		return nil
	}

	utils.FromContext(ctx).WithFields(logrus.Fields{
		"ip":       ip,
		"email":    email,
		"attempts": attempts,
		"lock":     duration.String(),
	}).Warn("login locked out")

	return b.redisCache.Set(ctx, lockKey(ip), "locked", duration)
}

// RecordSuccessfulAttempt clears failed attempts on successful login
func (b *BruteForceProtection) RecordSuccessfulAttempt(ctx context.Context, ip string) error {
	if b == nil {
		return nil
	}
	return b.redisCache.Delete(ctx, attemptKey(ip), lockKey(ip))
}
