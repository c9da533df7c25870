package localization

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"

	"github.com/kosarica/catalog-service/internal/completion"
)

// Field names a localized attribute required for export.
type Field string

const (
	FieldProTerm                Field = "pro_term"
	FieldFullReview             Field = "full_review"
	FieldShortDescription       Field = "short_description"
	FieldSeo                    Field = "seo"
	FieldManufacturerPartNumber Field = "manufacturer_part_number"
)

// ProductItemLocalizationError reports a required field that is missing or blank
// for a language.
type ProductItemLocalizationError struct {
	ItemID   string       `json:"itemId"`
	Field    Field        `json:"field"`
	Language language.Tag `json:"language"`
}

func (e ProductItemLocalizationError) Error() string {
	return fmt.Sprintf("item %s: %s missing for %s", e.ItemID, e.Field, e.Language)
}

// ItemLocalizationError collects every reason an item could not be localized.
type ItemLocalizationError struct {
	ItemID        string                         `json:"itemId"`
	Fields        []ProductItemLocalizationError `json:"fields,omitempty"`
	NoActivePrice bool                           `json:"noActivePrice,omitempty"`
}

func (e ItemLocalizationError) Error() string {
	var reasons []string
	for _, f := range e.Fields {
		reasons = append(reasons, string(f.Field))
	}
	if e.NoActivePrice {
		reasons = append(reasons, "no active price")
	}
	return fmt.Sprintf("item %s: cannot localize: %s", e.ItemID, strings.Join(reasons, ", "))
}

// FullItemErrorKind tags the variant of a FullItemError.
type FullItemErrorKind string

const (
	KindMissingPart  FullItemErrorKind = "missing_part"
	KindLocalization FullItemErrorKind = "localization"
)

// FullItemError is an export error of one item: either a missing fact or a
// localization failure.
type FullItemError struct {
	Kind         FullItemErrorKind                  `json:"kind"`
	ItemID       string                             `json:"itemId"`
	MissingPart  *completion.MissingProductItemPart `json:"missingPart,omitempty"`
	Localization *ItemLocalizationError             `json:"localization,omitempty"`
}

func MissingPartError(m completion.MissingProductItemPart) FullItemError {
	return FullItemError{Kind: KindMissingPart, ItemID: m.ItemID, MissingPart: &m}
}

func LocalizationError(e ItemLocalizationError) FullItemError {
	return FullItemError{Kind: KindLocalization, ItemID: e.ItemID, Localization: &e}
}

func (e FullItemError) Error() string {
	switch e.Kind {
	case KindMissingPart:
		return e.MissingPart.Error()
	case KindLocalization:
		return e.Localization.Error()
	default:
		return fmt.Sprintf("item %s: unknown error", e.ItemID)
	}
}
