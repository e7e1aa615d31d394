package providers

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/vukan322/folio/internal/core"
)

// QuoteWithFallback asks primary for a snapshot and, if it fails for any
// reason, asks fallback instead. It returns the snapshot together with the
// name of the provider that produced it.
func QuoteWithFallback(ctx context.Context, primary, fallback QuoteProvider, log *zap.SugaredLogger) (core.StockSnapshot, string, error) {
	snap, err := primary.Quote(ctx)
	if err == nil {
		if err = snap.Validate(); err == nil {
			return snap, primary.Name(), nil
		}
	}

	log.Warnw("live quote unavailable, falling back", "provider", primary.Name(), "fallback", fallback.Name(), "error", err)

	snap, err = fallback.Quote(ctx)
	if err != nil {
		return core.StockSnapshot{}, fallback.Name(), fmt.Errorf("provider %s failed: %w", fallback.Name(), err)
	}
	if err := snap.Validate(); err != nil {
		return core.StockSnapshot{}, fallback.Name(), err
	}
	return snap, fallback.Name(), nil
}
