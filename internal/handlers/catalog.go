package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/language"

	"github.com/kosarica/catalog-service/internal/engine"
	"github.com/kosarica/catalog-service/internal/storefront"
)

// Global catalog instances (initialized by the application)
var (
	catalogEngine   *engine.Engine
	languageMatcher *storefront.LanguageMatcher
	defaultStore    storefront.Timezone
)

// InitCatalog initializes the engine the fact and export handlers serve.
// This should be called during application startup
func InitCatalog(e *engine.Engine, matcher *storefront.LanguageMatcher, store storefront.Timezone) {
	catalogEngine = e
	languageMatcher = matcher
	defaultStore = store
}

// StoreQuery selects the storefront an export is built for.
type StoreQuery struct {
	Store string `form:"store"`
	Lang  string `form:"lang"`
}

// resolve maps the query to a store time zone and a supported language.
// Missing values fall back to the default store and the first supported language.
func (q StoreQuery) resolve() (storefront.Timezone, language.Tag, error) {
	tz := defaultStore
	if q.Store != "" {
		parsed, err := storefront.ParseTimezone(q.Store)
		if err != nil {
			return "", language.Und, err
		}
		tz = parsed
	}

	lang := languageMatcher.Supported()[0]
	if q.Lang != "" {
		matched, err := languageMatcher.Match(q.Lang)
		if err != nil {
			return "", language.Und, err
		}
		lang = matched
	}
	return tz, lang, nil
}

// writeError maps engine and request errors to a JSON error response.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, engine.ErrItemNotFound), errors.Is(err, engine.ErrProductNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, engine.ErrInvalidFact),
		errors.Is(err, storefront.ErrUnknownTimezone),
		errors.Is(err, storefront.ErrUnsupportedLanguage):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
