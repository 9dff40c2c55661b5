// Package retry provides backoff strategies and a context-aware retry loop
// for transient upstream failures.
//
// Rate-limited (429), 5xx and network failures are retried by default.
// A server-suggested wait carried on the error raises the delay for that
// attempt, capped by Config.MaxDelay.
//
//	err := retry.Do(ctx, func(ctx context.Context) error {
//		return client.GetJSON(ctx, path, query, &out)
//	}, &retry.Config{
//		MaxAttempts: 3,
//		Backoff:     retry.DefaultExponentialBackoff(),
//	})
package retry
