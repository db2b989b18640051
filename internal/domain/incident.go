package domain

import "time"

// RawIncidentRecord is one CSV row from the CT DEEP spill report extract,
// untouched except for whitespace trimming. All fields are strings; type
// coercion happens in the cleaning stage so parse failures can be counted
// instead of aborting the load.
type RawIncidentRecord struct {
	CaseNumber      string
	Town            string
	State           string
	ReleaseDateTime string
	Substance       string
	Cause           string

	// Line is the 1-based CSV line number, kept for quality reporting.
	Line int
}

// Incident is the cleaned, typed representation of one reported spill.
type Incident struct {
	CaseNumber string
	Town       string // canonical upper-case town name
	OccurredAt time.Time
	Hour       int // 0-23, or HourUnknown when the source had no time component
	Year       int
	TimePeriod string
	Substance  string // canonical substance category
	Cause      string // canonical cause category

	ProcessedAt time.Time
}

// HourUnknown marks incidents whose release timestamp carried no time of day.
const HourUnknown = -1

// HasHour reports whether the incident has a usable hour of day.
func (i Incident) HasHour() bool { return i.Hour != HourUnknown }

// StudyWindow is the inclusive date range the analysis is restricted to.
type StudyWindow struct {
	Start time.Time
	End   time.Time
}

// NewStudyWindow builds the window covering startYear through endYear,
// inclusive on both ends (Jan 1 00:00 through Dec 31 23:59:59).
func NewStudyWindow(startYear, endYear int) StudyWindow {
	return StudyWindow{
		Start: time.Date(startYear, time.January, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(endYear, time.December, 31, 23, 59, 59, 0, time.UTC),
	}
}

// Contains reports whether t falls inside the window.
func (w StudyWindow) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// QualityMetrics counts every record excluded or bucketed during cleaning.
// Exclusions are never silent: each dropped record increments exactly one of
// the drop counters below.
type QualityMetrics struct {
	RawRecords           int `json:"raw_records"`
	DuplicateCaseNumbers int `json:"duplicate_case_numbers"`
	UnparseableDates     int `json:"unparseable_dates"`
	OutsideStudyWindow   int `json:"outside_study_window"`
	UnrecognizedTowns    int `json:"unrecognized_towns"`
	MissingHour          int `json:"missing_hour"`
	SubstanceOther       int `json:"substance_other"`
	CauseOther           int `json:"cause_other"`
	CleanedRecords       int `json:"cleaned_records"`
}

// Dropped returns the total number of excluded records.
func (q QualityMetrics) Dropped() int {
	return q.DuplicateCaseNumbers + q.UnparseableDates + q.OutsideStudyWindow + q.UnrecognizedTowns
}
