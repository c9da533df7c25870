// Package storefront describes the storefronts a catalog is served to:
// their local time zones and the languages they are localized for.
package storefront

import (
	"errors"
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"

	"cloud.google.com/go/civil"
)

// ErrUnknownTimezone is returned when a store time zone name is not recognized.
var ErrUnknownTimezone = errors.New("unknown store timezone")

// Timezone identifies the local time zone of a storefront.
// Every date-bucketed computation uses the requesting store's calendar date.
type Timezone string

const (
	Moscow        Timezone = "moscow"
	Yekaterinburg Timezone = "yekaterinburg"
	Novosibirsk   Timezone = "novosibirsk"
	Vladivostok   Timezone = "vladivostok"
)

// Timezones lists every recognized store time zone.
var Timezones = []Timezone{Moscow, Yekaterinburg, Novosibirsk, Vladivostok}

var ianaNames = map[Timezone]string{
	Moscow:        "Europe/Moscow",
	Yekaterinburg: "Asia/Yekaterinburg",
	Novosibirsk:   "Asia/Novosibirsk",
	Vladivostok:   "Asia/Vladivostok",
}

var locations = loadLocations()

func loadLocations() map[Timezone]*time.Location {
	locs := make(map[Timezone]*time.Location, len(ianaNames))
	for tz, name := range ianaNames {
		loc, err := time.LoadLocation(name)
		if err != nil {
			// tzdata is embedded, so this only happens on a broken build
			panic(fmt.Sprintf("failed to load location %s: %v", name, err))
		}
		locs[tz] = loc
	}
	return locs
}

// ParseTimezone parses a store time zone name (case-insensitive).
func ParseTimezone(s string) (Timezone, error) {
	tz := Timezone(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := ianaNames[tz]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownTimezone, s)
	}
	return tz, nil
}

// IsValid reports whether tz is one of the recognized store time zones.
func (tz Timezone) IsValid() bool {
	_, ok := ianaNames[tz]
	return ok
}

// Location returns the time.Location of the store. Unknown values fall back to Moscow.
func (tz Timezone) Location() *time.Location {
	if loc, ok := locations[tz]; ok {
		return loc
	}
	return locations[Moscow]
}

// IANA returns the tz database name of the store time zone.
func (tz Timezone) IANA() string {
	return ianaNames[tz]
}

// LocalDate converts an instant into the store's local calendar date.
func (tz Timezone) LocalDate(now time.Time) civil.Date {
	return civil.DateOf(now.In(tz.Location()))
}

func (tz Timezone) String() string {
	return string(tz)
}
