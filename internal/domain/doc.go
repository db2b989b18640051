// Package domain models Connecticut spill incident report data.
//
// # Data Source
//
// Incident reports come from the Connecticut Department of Energy and
// Environmental Protection (CT DEEP) spill incident database, published as a
// delimited extract on the Connecticut Open Data portal. One row is one
// reported release. The analysis is restricted to the 2019-2022 study window.
//
// # Source Data Conventions
//
// Case numbers:
//
//	The "Case No." column is the report's unique key. The extract contains
//	occasional duplicate case numbers from re-submitted reports; the first
//	occurrence wins, mirroring an ON CONFLICT DO NOTHING upsert, so repeated
//	cleaning of the same data is a no-op.
//
// Release date and time:
//
//	Mixed formats, most commonly "M/D/YYYY HH:MM". Some rows carry only a
//	date; those keep their day for window filtering but report an unknown
//	hour, which the temporal analysis buckets explicitly rather than drops.
//
// Towns:
//
//	The "Town of Release" column is free text. After upper-casing and
//	whitespace normalization it is matched exactly against the registry of
//	the 169 incorporated Connecticut towns. Out-of-state locations and
//	unrecognized names are excluded from the geographic analysis and counted
//	in the quality metrics.
//
// Substance and cause:
//
//	"Release Substance" and "Cause Info" are free text. Versioned keyword
//	tables map them onto small closed category sets (e.g. "UNLEADED GASOLINE"
//	-> "Petroleum Products", "MV ACCIDENT" -> "Motor Vehicle Accident").
//	Values matching no keyword bucket to "Other"; blank values to "Unknown".
//	Nothing is dropped on category grounds.
//
// # Reference Findings
//
// The validator checks the aggregates against the published research
// findings: top towns {Groton, Southington, Hartford, New Britain, Enfield},
// Petroleum Products near 63.4% of incidents, Motor Vehicle Accident as the
// dominant cause, and coverage of the full town set. Percentage targets are
// approximate; rounding differences between implementations are absorbed by
// an explicit tolerance band.
package domain
