package domain

import "strings"

// Canonical substance categories.
const (
	SubstancePetroleum = "Petroleum Products"
	SubstanceChemicals = "Chemicals"
	SubstanceWaste     = "Waste Products"
	SubstanceOther     = "Other"
	SubstanceUnknown   = "Unknown"
)

// Canonical cause categories.
const (
	CauseMotorVehicle = "Motor Vehicle Accident"
	CauseEquipment    = "Equipment Failure"
	CauseHumanError   = "Human Error"
	CauseNatural      = "Natural Causes"
	CauseOther        = "Other"
	CauseUnknown      = "Unknown"
)

// categoryRule maps uppercase keywords to a canonical category. Rules are
// evaluated in order; the first rule with a matching keyword wins.
type categoryRule struct {
	category string
	keywords []string
}

// CategoryTable is a versioned lookup from free-text field values to a small
// closed category set. Values matching no rule fall into the fallback bucket;
// blank values map to the unknown bucket. Nothing is ever dropped here.
type CategoryTable struct {
	Version  string
	fallback string
	unknown  string
	rules    []categoryRule
}

// Categorize maps a raw free-text value to its canonical category.
func (t CategoryTable) Categorize(raw string) string {
	raw = strings.ToUpper(strings.TrimSpace(raw))
	if raw == "" {
		return t.unknown
	}
	for _, r := range t.rules {
		for _, kw := range r.keywords {
			if strings.Contains(raw, kw) {
				return r.category
			}
		}
	}
	return t.fallback
}

// Categories returns every label the table can produce, canonical rules first.
func (t CategoryTable) Categories() []string {
	out := make([]string, 0, len(t.rules)+2)
	for _, r := range t.rules {
		out = append(out, r.category)
	}
	return append(out, t.fallback, t.unknown)
}

// SubstanceTable returns the current substance keyword table. The keyword
// sets mirror the published research methodology for the 2019-2022 study.
func SubstanceTable() CategoryTable {
	return CategoryTable{
		Version:  "2024-01",
		fallback: SubstanceOther,
		unknown:  SubstanceUnknown,
		rules: []categoryRule{
			{SubstancePetroleum, []string{"GASOLINE", "DIESEL", "FUEL", "OIL", "PETROLEUM", "HYDRAULIC"}},
			{SubstanceChemicals, []string{"CHEMICAL", "ACID", "SOLVENT", "PAINT"}},
			{SubstanceWaste, []string{"WASTE", "SEWAGE"}},
		},
	}
}

// CauseTable returns the current cause keyword table. "MV" is the CT DEEP
// shorthand for motor vehicle in the Cause Info field.
func CauseTable() CategoryTable {
	return CategoryTable{
		Version:  "2024-01",
		fallback: CauseOther,
		unknown:  CauseUnknown,
		rules: []categoryRule{
			{CauseMotorVehicle, []string{"MV", "MOTOR VEHICLE", "ACCIDENT"}},
			{CauseEquipment, []string{"EQUIPMENT", "FAILURE", "MECHANICAL"}},
			{CauseHumanError, []string{"HUMAN", "OPERATOR", "ERROR"}},
			{CauseNatural, []string{"WEATHER", "NATURAL"}},
		},
	}
}
