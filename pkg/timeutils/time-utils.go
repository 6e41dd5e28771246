package timeutils

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	ErrAllAttemptsFailed = errors.New("all attempts failed")
)

// Retry calls function once per entry of attemptDelays, sleeping the entry's
// delay after a failed attempt. onFinished decides whether the attempt failed.
// When every attempt fails the last error is returned wrapped together with
// ErrAllAttemptsFailed.
func Retry[T any](
	ctx context.Context,
	attemptDelays []time.Duration,
	function func(context.Context) (T, error),
	onFinished func(T, error) (needRetry bool),
) (T, error) {
	var (
		res     T
		lastErr error
	)
	for i, delay := range attemptDelays {
		if ctx.Err() != nil {
			return res, fmt.Errorf("retry canceled: %w", ctx.Err())
		}
		res, lastErr = function(ctx)
		if !onFinished(res, lastErr) {
			return res, lastErr
		}
		if i == len(attemptDelays)-1 {
			break
		}
		if err := SleepCtx(ctx, delay); err != nil {
			return res, err
		}
	}
	if lastErr == nil {
		return res, ErrAllAttemptsFailed
	}
	return res, fmt.Errorf("%w: %w", ErrAllAttemptsFailed, lastErr)
}

func SleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return fmt.Errorf("sleep canceled: %w", ctx.Err())
	case <-timer.C:
		return nil
	}
}
