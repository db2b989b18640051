package domain

import (
	"fmt"
	"strings"
	"time"
)

// releaseLayouts are the datetime formats observed in the CT DEEP extract,
// tried in order. Layouts without a time component report hasHour=false.
var releaseLayouts = []struct {
	layout  string
	hasHour bool
}{
	{"1/2/2006 15:04", true},
	{"1/2/2006 3:04 PM", true},
	{"1/2/2006 15:04:05", true},
	{"2006-01-02 15:04:05", true},
	{"2006-01-02T15:04:05", true},
	{"1/2/2006", false},
	{"2006-01-02", false},
}

// ParseReleaseDateTime coerces a raw release date/time string to UTC.
// hasHour is false when the source value carried only a date, in which case
// the hour of day is unknown but the record is still usable for the
// geographic, substance, and cause dimensions.
func ParseReleaseDateTime(s string) (t time.Time, hasHour bool, err error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false, fmt.Errorf("empty release datetime")
	}
	for _, l := range releaseLayouts {
		if t, err := time.ParseInLocation(l.layout, s, time.UTC); err == nil {
			return t, l.hasHour, nil
		}
	}
	return time.Time{}, false, fmt.Errorf("unparseable release datetime %q", s)
}

// NormalizeTown canonicalizes a municipality name: trim, uppercase, collapse
// interior whitespace. Matching against the town registry is exact after
// normalization.
func NormalizeTown(s string) string {
	return strings.Join(strings.Fields(strings.ToUpper(s)), " ")
}

// Time-period labels for the temporal analysis.
const (
	PeriodMorning   = "Morning (06:00-12:00)"
	PeriodAfternoon = "Afternoon (12:00-18:00)"
	PeriodEvening   = "Evening (18:00-24:00)"
	PeriodNight     = "Night (00:00-06:00)"
	PeriodUnknown   = "Unknown"
)

// TimePeriod buckets an hour of day into a coarse period label.
// HourUnknown maps to PeriodUnknown.
func TimePeriod(hour int) string {
	switch {
	case hour >= 6 && hour < 12:
		return PeriodMorning
	case hour >= 12 && hour < 18:
		return PeriodAfternoon
	case hour >= 18 && hour < 24:
		return PeriodEvening
	case hour >= 0 && hour < 6:
		return PeriodNight
	default:
		return PeriodUnknown
	}
}

// NewIncident assembles a cleaned incident from its coerced parts.
// ProcessedAt comes from the package clock so fixtures and tests can freeze it.
func NewIncident(caseNumber, town string, occurredAt time.Time, hasHour bool, substance, cause string) Incident {
	hour := HourUnknown
	if hasHour {
		hour = occurredAt.Hour()
	}
	return Incident{
		CaseNumber:  caseNumber,
		Town:        town,
		OccurredAt:  occurredAt,
		Hour:        hour,
		Year:        occurredAt.Year(),
		TimePeriod:  TimePeriod(hour),
		Substance:   substance,
		Cause:       cause,
		ProcessedAt: clock.Now(),
	}
}
