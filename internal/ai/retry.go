// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sethvargo/go-retry"
)

// Defaults for the LLM retry driver: one initial attempt plus two retries,
// one second apart.
const (
	DefaultAttempts = 3
	DefaultDelay    = 1000 * time.Millisecond
)

// ErrRetriesExhausted wraps the last error once every attempt has failed.
var ErrRetriesExhausted = errors.New("ai: all attempts failed")

// RetryPolicy is a flat retry policy: a total attempt cap and a fixed delay.
// Every failure is retried the same way; there is no error classification,
// no exponential growth and no jitter.
type RetryPolicy struct {
	Attempts int
	Delay    time.Duration
}

// DefaultRetryPolicy returns the 3 attempts / 1000ms policy.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{Attempts: DefaultAttempts, Delay: DefaultDelay}
}

// Retry runs op until it succeeds or the policy's attempt cap is reached.
// Failures on non-final attempts are logged and swallowed; the final
// failure is returned wrapped in ErrRetriesExhausted. A cancelled context
// stops the loop and returns the context's error.
func Retry(ctx context.Context, policy RetryPolicy, op func(ctx context.Context) error) error {
	attempts := policy.Attempts
	if attempts < 1 {
		attempts = 1
	}
	delay := policy.Delay
	if delay <= 0 {
		// go-retry's constant backoff panics on a non-positive interval.
		delay = time.Nanosecond
	}

	backoff := retry.WithMaxRetries(uint64(attempts-1), retry.NewConstant(delay))

	var (
		attempt int
		lastErr error
	)
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		if err := op(ctx); err != nil {
			lastErr = err
			if attempt < attempts {
				slog.Warn("llm attempt failed, retrying",
					"attempt", attempt,
					"max_attempts", attempts,
					"delay", delay.String(),
					"error", err,
				)
			}
			return retry.RetryableError(err)
		}
		return nil
	})
	if err == nil {
		return nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if lastErr == nil {
		return err
	}
	return fmt.Errorf("%w after %d attempts: %w", ErrRetriesExhausted, attempt, lastErr)
}
