// Package engine routes inbound catalog facts into stored incomplete products,
// stashes facts for items that are not known yet, and serves exports.
package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/kosarica/catalog-service/internal/completion"
	"github.com/kosarica/catalog-service/internal/recovery"
	"github.com/kosarica/catalog-service/internal/storage"
	"github.com/kosarica/catalog-service/internal/storefront"
)

var (
	// ErrItemNotFound is returned when no product is known for an item.
	ErrItemNotFound = errors.New("item not found")

	// ErrProductNotFound is returned when no product is stored under an id.
	ErrProductNotFound = errors.New("product not found")

	// ErrInvalidFact is returned for facts without the ids needed to route them.
	ErrInvalidFact = errors.New("invalid fact")
)

const (
	productPrefix = "products/"
	itemPrefix    = "items/"

	tracerName = "github.com/kosarica/catalog-service/internal/engine"
)

// Outcome tells what happened to an inbound fact.
type Outcome string

const (
	// Applied facts were folded into their product.
	Applied Outcome = "applied"
	// Stashed facts wait in the recovery cache until their item is known.
	Stashed Outcome = "stashed"
	// Dropped removals discarded a stashed fact of an unknown item.
	Dropped Outcome = "dropped"
)

// Config holds engine settings.
type Config struct {
	// HistoryTimezone is the store timezone whose calendar dates the selling
	// price log is kept in.
	HistoryTimezone storefront.Timezone
	// ExportConcurrency bounds how many items of a product are localized at once.
	ExportConcurrency int
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock replaces the clock used for pricing and the price log.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// Engine applies inbound facts and serves exports. It is safe for concurrent use
// within one process.
type Engine struct {
	store    storage.Storage
	recovery recovery.Cache
	cfg      Config
	now      func() time.Time
	locks    *keyedMutex
	metrics  *MetricsRecorder
	logger   zerolog.Logger
	tracer   trace.Tracer
}

// New creates an engine on the given document store and recovery cache.
func New(store storage.Storage, cache recovery.Cache, cfg Config, logger zerolog.Logger, opts ...Option) *Engine {
	if !cfg.HistoryTimezone.IsValid() {
		cfg.HistoryTimezone = storefront.Moscow
	}
	e := &Engine{
		store:    store,
		recovery: cache,
		cfg:      cfg,
		now:      time.Now,
		locks:    newKeyedMutex(),
		metrics:  NewMetricsRecorder(),
		logger:   logger.With().Str("component", "engine").Logger(),
		tracer:   otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func productKey(productID string) string {
	return productPrefix + productID
}

func itemKey(itemID string) string {
	return itemPrefix + itemID
}

// Product loads the incomplete product stored under productID.
func (e *Engine) Product(ctx context.Context, productID string) (completion.IncompleteProduct, error) {
	product, err := storage.GetJSON[completion.IncompleteProduct](ctx, e.store, productKey(productID))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return completion.IncompleteProduct{}, fmt.Errorf("%w: %s", ErrProductNotFound, productID)
		}
		e.metrics.RecordCollaboratorError("storage")
		return completion.IncompleteProduct{}, fmt.Errorf("failed to load product %s: %w", productID, err)
	}
	if product.Items == nil {
		product.Items = map[string]completion.IncompleteProductItem{}
	}
	return product, nil
}

// ProductIDs lists the ids of every stored product in ascending order.
func (e *Engine) ProductIDs(ctx context.Context) ([]string, error) {
	keys, err := e.store.List(ctx, productPrefix)
	if err != nil {
		e.metrics.RecordCollaboratorError("storage")
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	ids := make([]string, len(keys))
	for i, key := range keys {
		ids[i] = strings.TrimPrefix(key, productPrefix)
	}
	return ids, nil
}

// ProductOf returns the id of the product itemID belongs to.
func (e *Engine) ProductOf(ctx context.Context, itemID string) (string, error) {
	productID, ok, err := e.productOf(ctx, itemID)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrItemNotFound, itemID)
	}
	return productID, nil
}

// Item loads the incomplete item with itemID.
func (e *Engine) Item(ctx context.Context, itemID string) (completion.IncompleteProductItem, error) {
	productID, err := e.ProductOf(ctx, itemID)
	if err != nil {
		return completion.IncompleteProductItem{}, err
	}
	product, err := e.Product(ctx, productID)
	if err != nil {
		return completion.IncompleteProductItem{}, err
	}
	item, ok := product.Item(itemID)
	if !ok {
		return completion.IncompleteProductItem{}, fmt.Errorf("%w: %s", ErrItemNotFound, itemID)
	}
	return item, nil
}

func (e *Engine) productOf(ctx context.Context, itemID string) (string, bool, error) {
	productID, err := storage.GetJSON[string](ctx, e.store, itemKey(itemID))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return "", false, nil
		}
		e.metrics.RecordCollaboratorError("storage")
		return "", false, fmt.Errorf("failed to resolve product of item %s: %w", itemID, err)
	}
	return productID, true, nil
}

func (e *Engine) saveProduct(ctx context.Context, product completion.IncompleteProduct) error {
	if err := e.putJSON(ctx, productKey(product.ProductID), product); err != nil {
		return fmt.Errorf("failed to save product %s: %w", product.ProductID, err)
	}
	return nil
}

func (e *Engine) putJSON(ctx context.Context, key string, v any) error {
	if err := storage.PutJSON(ctx, e.store, key, v); err != nil {
		e.metrics.RecordCollaboratorError("storage")
		return err
	}
	return nil
}

// updateProduct runs f on the stored product under the product lock and saves
// the result. A missing product starts out empty.
func (e *Engine) updateProduct(ctx context.Context, productID string, f func(completion.IncompleteProduct) (completion.IncompleteProduct, error)) (completion.IncompleteProduct, error) {
	unlock := e.locks.Lock("product:" + productID)
	defer unlock()

	product, err := e.Product(ctx, productID)
	if errors.Is(err, ErrProductNotFound) {
		product, err = completion.NewIncompleteProduct(productID), nil
	}
	if err != nil {
		return completion.IncompleteProduct{}, err
	}

	updated, err := f(product)
	if err != nil {
		return completion.IncompleteProduct{}, err
	}
	if err := e.saveProduct(ctx, updated); err != nil {
		return completion.IncompleteProduct{}, err
	}
	return updated, nil
}

func (e *Engine) stash(ctx context.Context, part completion.Part, itemID string, fact any) error {
	content, err := json.Marshal(fact)
	if err != nil {
		return fmt.Errorf("failed to encode %s fact of item %s: %w", part, itemID, err)
	}
	if err := e.recovery.Set(ctx, recovery.Key(string(part), itemID), content); err != nil {
		e.metrics.RecordCollaboratorError("recovery")
		return fmt.Errorf("failed to stash %s fact of item %s: %w", part, itemID, err)
	}
	return nil
}

func (e *Engine) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return e.tracer.Start(ctx, "engine."+name, trace.WithAttributes(attrs...))
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
