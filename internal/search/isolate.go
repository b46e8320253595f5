// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/research-finder/internal/metrics"
	"github.com/pdiddy/research-finder/pkg/types"
)

// isolated wraps an Adapter so that errors, timeouts and panics become an
// empty result.
type isolated struct {
	inner   Adapter
	timeout time.Duration
	logger  *zap.Logger
}

// Isolate returns an Adapter whose Search never fails: the inner adapter
// runs under its own timeout, and any error or panic is logged, counted and
// replaced with an empty result.
func Isolate(a Adapter, timeout time.Duration, logger *zap.Logger) Adapter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &isolated{inner: a, timeout: timeout, logger: logger}
}

func (i *isolated) Name() string { return i.inner.Name() }

func (i *isolated) Search(ctx context.Context, query string) (records []types.Record, err error) {
	name := i.inner.Name()
	if i.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, i.timeout)
		defer cancel()
	}

	start := time.Now()
	defer func() {
		if rec := recover(); rec != nil {
			i.fail(name, metrics.OutcomePanic, fmt.Errorf("panic: %v", rec), start)
			records, err = nil, nil
		}
	}()

	records, err = i.inner.Search(ctx, query)
	if err != nil {
		outcome := metrics.OutcomeError
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			outcome = metrics.OutcomeTimeout
		}
		i.fail(name, outcome, err, start)
		return nil, nil
	}

	metrics.ObserveAdapter(name, metrics.OutcomeOK, len(records), time.Since(start))
	i.logger.Debug("source returned",
		zap.String("source", name),
		zap.Int("records", len(records)),
		zap.Duration("duration", time.Since(start)),
	)
	return records, nil
}

func (i *isolated) fail(name, outcome string, err error, start time.Time) {
	d := time.Since(start)
	metrics.ObserveAdapter(name, outcome, 0, d)
	i.logger.Warn("source failed",
		zap.String("source", name),
		zap.String("outcome", outcome),
		zap.Error(err),
		zap.Duration("duration", d),
	)
}
