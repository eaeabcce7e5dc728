package tasks

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

func logInfoTask(logger *zap.Logger) TaskHandler {
	return func(_ context.Context, args map[string]interface{}) (map[string]interface{}, error) {
		message, ok := args["message"].(string)
		if !ok {
			message = "No message provided"
		}
		logger.Info("log_info task", zap.String("message", message))
		return map[string]interface{}{"status": "success", "message": message}, nil
	}
}

func warmCatalogTask(catalog CatalogWarmer) TaskHandler {
	return func(ctx context.Context, _ map[string]interface{}) (map[string]interface{}, error) {
		if err := catalog.Warm(ctx); err != nil {
			return nil, fmt.Errorf("warm catalog: %w", err)
		}
		return map[string]interface{}{"status": "success"}, nil
	}
}

// purgeGuestCartsTask accepts an optional "older_than" duration argument
// ("72h") overriding the configured ttl.
func purgeGuestCartsTask(carts GuestCartPurger, ttl time.Duration, now func() time.Time) TaskHandler {
	return func(ctx context.Context, args map[string]interface{}) (map[string]interface{}, error) {
		age := ttl
		if raw, ok := args["older_than"].(string); ok && raw != "" {
			d, err := time.ParseDuration(raw)
			if err != nil || d <= 0 {
				return nil, fmt.Errorf("invalid older_than %q", raw)
			}
			age = d
		}
		cutoff := now().Add(-age)
		n, err := carts.PurgeOlderThan(ctx, cutoff)
		if err != nil {
			return nil, fmt.Errorf("purge guest carts: %w", err)
		}
		return map[string]interface{}{
			"status": "success",
			"purged": n,
			"cutoff": cutoff.Format(time.RFC3339),
		}, nil
	}
}
