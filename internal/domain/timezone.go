package domain

import (
	"errors"
	"sort"
	"time"
)

// ErrInvalidTimezone is returned when a timezone identifier is not in the
// supported set.
var ErrInvalidTimezone = errors.New("invalid timezone")

// DefaultTimezone is used when a user has no stored timezone.
const DefaultTimezone = "Europe/Moscow"

// timezoneOffsets maps supported identifiers to fixed UTC offsets in hours.
// Fixed offsets, not IANA rules: the supported set has no DST and the bot
// must behave identically on hosts without tzdata.
var timezoneOffsets = map[string]int{
	"Europe/Moscow":      3,
	"Asia/Tbilisi":       4,
	"Europe/Samara":      4,
	"Asia/Yekaterinburg": 5,
	"Europe/London":      0,
	"Asia/Bangkok":       7,
}

// Timezone resolves a stored identifier to a fixed UTC offset.
type Timezone struct {
	name string
	loc  *time.Location
}

// NewTimezone builds a Timezone for the given identifier. Unknown identifiers
// fall back to the default zone rather than failing: a stale stored value must
// not break timestamping.
func NewTimezone(name string) Timezone {
	offset, ok := timezoneOffsets[name]
	if !ok {
		name = DefaultTimezone
		offset = timezoneOffsets[name]
	}
	return Timezone{
		name: name,
		loc:  time.FixedZone(name, offset*3600),
	}
}

// ValidTimezone reports whether name is in the supported set.
func ValidTimezone(name string) bool {
	_, ok := timezoneOffsets[name]
	return ok
}

// TimezoneNames returns the supported identifiers, sorted.
func TimezoneNames() []string {
	names := make([]string, 0, len(timezoneOffsets))
	for n := range timezoneOffsets {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Name returns the timezone identifier.
func (tz Timezone) Name() string { return tz.name }

// Now returns the current wall-clock time in the zone.
func (tz Timezone) Now() time.Time {
	return time.Now().In(tz.loc)
}

// At converts t into the zone.
func (tz Timezone) At(t time.Time) time.Time {
	return t.In(tz.loc)
}
