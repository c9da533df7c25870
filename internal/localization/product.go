package localization

import (
	"sort"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"

	"github.com/kosarica/catalog-service/internal/completion"
	"github.com/kosarica/catalog-service/internal/partial"
	"github.com/kosarica/catalog-service/internal/storefront"
)

// LocalizedProduct is a product with its localized variations sorted by item id.
type LocalizedProduct struct {
	ProductID  string
	Language   language.Tag
	Timezone   storefront.Timezone
	Variations []LocalizedCompleteItem
}

// ProductView is the wire representation of a LocalizedProduct.
type ProductView struct {
	ProductID  string     `json:"productId"`
	Language   string     `json:"language"`
	Timezone   string     `json:"timezone"`
	Variations []ItemView `json:"variations"`
}

func (p LocalizedProduct) View() ProductView {
	views := make([]ItemView, len(p.Variations))
	for i, v := range p.Variations {
		views[i] = v.View()
	}
	return ProductView{
		ProductID:  p.ProductID,
		Language:   p.Language.String(),
		Timezone:   p.Timezone.String(),
		Variations: views,
	}
}

// LocalizationResult is the outcome of localizing a complete product.
type LocalizationResult = partial.Result[LocalizedProduct, ItemLocalizationError]

// ExportResult is the outcome of exporting a product from its incomplete state.
type ExportResult = partial.Result[LocalizedProduct, FullItemError]

type options struct {
	concurrency int
}

// Option configures product localization.
type Option func(*options)

// WithConcurrency bounds the number of items localized at the same time.
// Zero or less means no bound.
func WithConcurrency(n int) Option {
	return func(o *options) {
		o.concurrency = n
	}
}

// TryLocalizeCompleteProduct localizes every item of product and reports the
// items that failed by item id.
func TryLocalizeCompleteProduct(now time.Time, tz storefront.Timezone, lang language.Tag, product completion.CompleteProduct, opts ...Option) LocalizationResult {
	localized, errors := localizeProduct(now, tz, lang, product, opts)
	return partial.Of(product.ProductID, localized, len(localized.Variations), errors)
}

func localizeProduct(now time.Time, tz storefront.Timezone, lang language.Tag, product completion.CompleteProduct, opts []Option) (LocalizedProduct, map[string][]ItemLocalizationError) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	type outcome struct {
		item LocalizedCompleteItem
		err  *ItemLocalizationError
	}
	outcomes := make([]outcome, len(product.Items))

	var g errgroup.Group
	if o.concurrency > 0 {
		g.SetLimit(o.concurrency)
	}
	for i, item := range product.Items {
		i, item := i, item
		g.Go(func() error {
			localized, err := LocalizeCompleteItem(now, tz, lang, item)
			outcomes[i] = outcome{item: localized, err: err}
			return nil
		})
	}
	_ = g.Wait()

	localized := LocalizedProduct{
		ProductID:  product.ProductID,
		Language:   lang,
		Timezone:   tz,
		Variations: []LocalizedCompleteItem{},
	}
	errors := make(map[string][]ItemLocalizationError)
	for _, out := range outcomes {
		if out.err != nil {
			errors[out.err.ItemID] = append(errors[out.err.ItemID], *out.err)
			continue
		}
		localized.Variations = append(localized.Variations, out.item)
	}
	sort.Slice(localized.Variations, func(a, b int) bool {
		return localized.Variations[a].ItemID < localized.Variations[b].ItemID
	})
	return localized, errors
}

// ExportProduct completes and localizes product. Items missing facts are reported
// with their missing parts and are not localized.
func ExportProduct(now time.Time, tz storefront.Timezone, lang language.Tag, product completion.IncompleteProduct, opts ...Option) ExportResult {
	completed := completion.TryCompleteProduct(product)

	errors := make(map[string][]FullItemError)
	for id, missing := range completed.Errors {
		for _, m := range missing {
			errors[id] = append(errors[id], MissingPartError(m))
		}
	}

	localized := LocalizedProduct{
		ProductID:  product.ProductID,
		Language:   lang,
		Timezone:   tz,
		Variations: []LocalizedCompleteItem{},
	}
	if completed.Value != nil {
		var failed map[string][]ItemLocalizationError
		localized, failed = localizeProduct(now, tz, lang, *completed.Value, opts)
		for id, failures := range failed {
			for _, f := range failures {
				errors[id] = append(errors[id], LocalizationError(f))
			}
		}
	}

	return partial.Of(product.ProductID, localized, len(localized.Variations), errors)
}

// ExportItem completes and localizes a single item.
func ExportItem(now time.Time, tz storefront.Timezone, lang language.Tag, item completion.IncompleteProductItem) (LocalizedCompleteItem, []FullItemError) {
	complete, missing := completion.TryCompleteItem(item)
	if len(missing) > 0 {
		errs := make([]FullItemError, len(missing))
		for i, m := range missing {
			errs[i] = MissingPartError(m)
		}
		return LocalizedCompleteItem{}, errs
	}

	localized, err := LocalizeCompleteItem(now, tz, lang, complete)
	if err != nil {
		return LocalizedCompleteItem{}, []FullItemError{LocalizationError(*err)}
	}
	return localized, nil
}
