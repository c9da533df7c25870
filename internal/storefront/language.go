package storefront

import (
	"errors"
	"fmt"

	"golang.org/x/text/language"
)

// ErrUnsupportedLanguage is returned when a requested language cannot be served.
var ErrUnsupportedLanguage = errors.New("unsupported language")

// DefaultLanguages are the languages catalog items are localized for.
var DefaultLanguages = []language.Tag{language.Russian, language.English}

// LanguageMatcher negotiates requested languages against the supported set.
type LanguageMatcher struct {
	supported []language.Tag
	matcher   language.Matcher
}

// NewLanguageMatcher creates a matcher for the given supported languages.
// An empty list means DefaultLanguages.
func NewLanguageMatcher(supported []language.Tag) *LanguageMatcher {
	if len(supported) == 0 {
		supported = DefaultLanguages
	}
	return &LanguageMatcher{
		supported: supported,
		matcher:   language.NewMatcher(supported),
	}
}

// ParseLanguages parses a list of BCP 47 tags.
func ParseLanguages(tags []string) ([]language.Tag, error) {
	out := make([]language.Tag, 0, len(tags))
	for _, s := range tags {
		tag, err := language.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("invalid language %q: %w", s, err)
		}
		out = append(out, tag)
	}
	return out, nil
}

// Supported returns the supported languages in preference order.
func (m *LanguageMatcher) Supported() []language.Tag {
	return m.supported
}

// Match resolves a requested tag (e.g. "ru-RU", "en") to one of the supported languages.
// Only exact or high-confidence matches are accepted.
func (m *LanguageMatcher) Match(requested string) (language.Tag, error) {
	tag, err := language.Parse(requested)
	if err != nil {
		return language.Und, fmt.Errorf("%w: %q", ErrUnsupportedLanguage, requested)
	}
	_, idx, conf := m.matcher.Match(tag)
	if conf < language.High {
		return language.Und, fmt.Errorf("%w: %q", ErrUnsupportedLanguage, requested)
	}
	return m.supported[idx], nil
}
