package sweepers

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"
)

// PriceHistoryRefresher is the part of the catalog engine the sweeper drives
type PriceHistoryRefresher interface {
	ProductIDs(ctx context.Context) ([]string, error)
	RefreshPriceHistory(ctx context.Context, productID string) (int, error)
}

// SweepResult summarizes one sweep
type SweepResult struct {
	Products int
	Items    int
	Failed   int
}

// PriceHistorySweeper periodically records today's selling price of every item
// and drops price log entries that fell out of the retention window
type PriceHistorySweeper struct {
	engine      PriceHistoryRefresher
	logger      *zerolog.Logger
	interval    time.Duration
	concurrency int64
	stopChan    chan struct{}
	stopOnce    sync.Once
}

// NewPriceHistorySweeper creates a new sweeper for price log maintenance
func NewPriceHistorySweeper(engine PriceHistoryRefresher, logger *zerolog.Logger, interval time.Duration, concurrency int) *PriceHistorySweeper {
	if concurrency < 1 {
		concurrency = 1
	}
	return &PriceHistorySweeper{
		engine:      engine,
		logger:      logger,
		interval:    interval,
		concurrency: int64(concurrency),
		stopChan:    make(chan struct{}),
	}
}

// Start runs a sweep immediately and then once per interval
func (s *PriceHistorySweeper) Start(ctx context.Context) {
	s.logger.Info().
		Dur("interval", s.interval).
		Msg("Starting price history sweeper")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.sweep(ctx)
	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("Price history sweeper stopping (context cancelled)")
			return
		case <-s.stopChan:
			s.logger.Info().Msg("Price history sweeper stopping (stop signal)")
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

// Stop signals the sweeper to stop
func (s *PriceHistorySweeper) Stop() {
	s.stopOnce.Do(func() { close(s.stopChan) })
}

func (s *PriceHistorySweeper) sweep(ctx context.Context) {
	result, err := s.Sweep(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to refresh price history")
		return
	}
	s.logger.Info().
		Int("products", result.Products).
		Int("items", result.Items).
		Int("failed", result.Failed).
		Msg("Refreshed price history")
}

// Sweep refreshes the price log of every stored product. Failures of single
// products are logged and counted; only a failure to list products is returned.
func (s *PriceHistorySweeper) Sweep(ctx context.Context) (SweepResult, error) {
	s.logger.Debug().Msg("Running price history refresh")

	ids, err := s.engine.ProductIDs(ctx)
	if err != nil {
		return SweepResult{}, fmt.Errorf("failed to list products: %w", err)
	}

	var (
		mu     sync.Mutex
		wg     sync.WaitGroup
		result = SweepResult{Products: len(ids)}
		sem    = semaphore.NewWeighted(s.concurrency)
	)
	for _, id := range ids {
		if err := sem.Acquire(ctx, 1); err != nil {
			break
		}
		wg.Add(1)
		go func(productID string) {
			defer wg.Done()
			defer sem.Release(1)

			refreshed, err := s.engine.RefreshPriceHistory(ctx, productID)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Failed++
				s.logger.Error().Err(err).Str("product_id", productID).Msg("Failed to refresh product price history")
				return
			}
			result.Items += refreshed
		}(id)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("price history sweep interrupted: %w", err)
	}
	return result, nil
}
