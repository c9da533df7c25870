package sweepers

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEngine struct {
	mu        sync.Mutex
	products  map[string]int
	failing   map[string]bool
	listErr   error
	refreshed []string
}

func (f *fakeEngine) ProductIDs(ctx context.Context) ([]string, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	ids := make([]string, 0, len(f.products))
	for id := range f.products {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (f *fakeEngine) RefreshPriceHistory(ctx context.Context, productID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing[productID] {
		return 0, errors.New("storage unavailable")
	}
	f.refreshed = append(f.refreshed, productID)
	return f.products[productID], nil
}

func nopLogger() *zerolog.Logger {
	logger := zerolog.Nop()
	return &logger
}

func TestSweep(t *testing.T) {
	engine := &fakeEngine{
		products: map[string]int{"p1": 2, "p2": 0, "p3": 5},
		failing:  map[string]bool{"p2": true},
	}
	sweeper := NewPriceHistorySweeper(engine, nopLogger(), time.Hour, 2)

	result, err := sweeper.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, SweepResult{Products: 3, Items: 7, Failed: 1}, result)
	assert.ElementsMatch(t, []string{"p1", "p3"}, engine.refreshed)
}

func TestSweepListFailure(t *testing.T) {
	engine := &fakeEngine{listErr: errors.New("connection refused")}
	sweeper := NewPriceHistorySweeper(engine, nopLogger(), time.Hour, 1)

	_, err := sweeper.Sweep(context.Background())
	assert.ErrorContains(t, err, "connection refused")
}

func TestStartStop(t *testing.T) {
	engine := &fakeEngine{products: map[string]int{"p1": 1}}
	sweeper := NewPriceHistorySweeper(engine, nopLogger(), time.Hour, 1)

	done := make(chan struct{})
	go func() {
		sweeper.Start(context.Background())
		close(done)
	}()

	require.Eventually(t, func() bool {
		engine.mu.Lock()
		defer engine.mu.Unlock()
		return len(engine.refreshed) == 1
	}, time.Second, 10*time.Millisecond)

	sweeper.Stop()
	sweeper.Stop()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}
}
