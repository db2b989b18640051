package validate_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spillsight/ct-spill-analysis/internal/aggregate"
	"github.com/spillsight/ct-spill-analysis/internal/domain"
	"github.com/spillsight/ct-spill-analysis/internal/validate"
)

func buildIncidents(townCounts map[string]int, substance, cause string) []domain.Incident {
	var out []domain.Incident
	occurred := time.Date(2021, time.May, 10, 14, 0, 0, 0, time.UTC)
	for town, n := range townCounts {
		for i := 0; i < n; i++ {
			out = append(out, domain.NewIncident("case", town, occurred, true, substance, cause))
		}
	}
	return out
}

func findings() validate.ExpectedFindings {
	return validate.ExpectedFindings{
		TopTowns:             []string{"SOUTHINGTON", "GROTON"},
		TopTownsWindow:       5,
		DominantSubstance:    domain.SubstancePetroleum,
		DominantSubstancePct: 100.0,
		DominantCause:        domain.CauseMotorVehicle,
		DominantCausePct:     100.0,
		MinTownCoverage:      3,
		PercentTolerance:     1.0,
		MinRecords:           10,
	}
}

func aggregates(incidents []domain.Incident) (towns, substances, causes aggregate.Result) {
	towns = aggregate.Count(incidents, aggregate.DimTown, aggregate.ByTown)
	substances = aggregate.Count(incidents, aggregate.DimSubstance, aggregate.BySubstance)
	causes = aggregate.Count(incidents, aggregate.DimCause, aggregate.ByCause)
	return
}

func claimByName(t *testing.T, r validate.Result, name string) validate.ClaimResult {
	t.Helper()
	for _, c := range r.Claims {
		if c.Claim == name {
			return c
		}
	}
	t.Fatalf("claim %q not found", name)
	return validate.ClaimResult{}
}

func TestRun_AllPass(t *testing.T) {
	// Southington appears most frequently; Groton second; others trail.
	incidents := buildIncidents(map[string]int{
		"SOUTHINGTON": 10,
		"GROTON":      8,
		"HARTFORD":    6,
		"ENFIELD":     4,
		"AVON":        2,
	}, domain.SubstancePetroleum, domain.CauseMotorVehicle)

	res := validate.Run(aggregatesAll(incidents, findings()))
	assert.True(t, res.AllPassed())
	assert.False(t, res.Insufficient())

	top := claimByName(t, res, validate.ClaimTopTowns)
	assert.Equal(t, validate.StatusPass, top.Status)
}

// aggregatesAll adapts the helper tuple to validate.Run's signature.
func aggregatesAll(incidents []domain.Incident, exp validate.ExpectedFindings) (aggregate.Result, aggregate.Result, aggregate.Result, validate.ExpectedFindings) {
	towns, substances, causes := aggregates(incidents)
	return towns, substances, causes, exp
}

func TestRun_TopTownSetContainmentIgnoresOrder(t *testing.T) {
	// Groton outranks Southington; containment must still pass.
	incidents := buildIncidents(map[string]int{
		"GROTON":      10,
		"SOUTHINGTON": 9,
		"HARTFORD":    1,
	}, domain.SubstancePetroleum, domain.CauseMotorVehicle)

	res := validate.Run(aggregatesAll(incidents, findings()))
	assert.Equal(t, validate.StatusPass, claimByName(t, res, validate.ClaimTopTowns).Status)
}

func TestRun_TopTownMissingFails(t *testing.T) {
	exp := findings()
	exp.TopTowns = []string{"SOUTHINGTON", "DANBURY"}

	incidents := buildIncidents(map[string]int{
		"SOUTHINGTON": 10,
		"GROTON":      5,
		"HARTFORD":    5,
	}, domain.SubstancePetroleum, domain.CauseMotorVehicle)

	res := validate.Run(aggregatesAll(incidents, exp))
	claim := claimByName(t, res, validate.ClaimTopTowns)
	assert.Equal(t, validate.StatusFail, claim.Status)
	assert.Contains(t, claim.Observed, "DANBURY")
	assert.False(t, res.AllPassed())
}

func TestRun_ShareToleranceBand(t *testing.T) {
	// 64 of 100 petroleum → 64.0% observed.
	incidents := buildIncidents(map[string]int{"SOUTHINGTON": 36, "GROTON": 28}, domain.SubstanceChemicals, domain.CauseMotorVehicle)
	incidents = append(incidents, buildIncidents(map[string]int{"HARTFORD": 36}, domain.SubstancePetroleum, domain.CauseMotorVehicle)...)

	tests := []struct {
		name     string
		expected float64
		want     validate.Status
	}{
		{"inside band", 64.5, validate.StatusPass},
		{"band edge", 65.0, validate.StatusPass},
		{"outside band", 65.2, validate.StatusFail},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exp := findings()
			exp.TopTowns = []string{"SOUTHINGTON"}
			exp.MinTownCoverage = 2
			exp.DominantSubstance = domain.SubstanceChemicals
			exp.DominantSubstancePct = tt.expected

			res := validate.Run(aggregatesAll(incidents, exp))
			assert.Equal(t, tt.want, claimByName(t, res, validate.ClaimSubstanceShare).Status)
		})
	}
}

func TestRun_DominantMismatchFails(t *testing.T) {
	incidents := buildIncidents(map[string]int{
		"SOUTHINGTON": 6,
		"GROTON":      5,
		"HARTFORD":    4,
	}, domain.SubstanceChemicals, domain.CauseEquipment)

	res := validate.Run(aggregatesAll(incidents, findings()))
	assert.Equal(t, validate.StatusFail, claimByName(t, res, validate.ClaimDominantSubstance).Status)
	assert.Equal(t, validate.StatusFail, claimByName(t, res, validate.ClaimDominantCause).Status)
}

func TestRun_CoverageCheck(t *testing.T) {
	incidents := buildIncidents(map[string]int{
		"SOUTHINGTON": 5,
		"GROTON":      5,
	}, domain.SubstancePetroleum, domain.CauseMotorVehicle)

	exp := findings()
	exp.MinTownCoverage = 3

	res := validate.Run(aggregatesAll(incidents, exp))
	claim := claimByName(t, res, validate.ClaimTownCoverage)
	assert.Equal(t, validate.StatusFail, claim.Status)
	assert.Contains(t, claim.Observed, "2 distinct towns")
}

func TestRun_InsufficientDataFailsClosed(t *testing.T) {
	// 5 records against a threshold of 50: no claim may pass.
	incidents := buildIncidents(map[string]int{"SOUTHINGTON": 5}, domain.SubstancePetroleum, domain.CauseMotorVehicle)

	exp := findings()
	exp.MinRecords = 50

	res := validate.Run(aggregatesAll(incidents, exp))
	require.NotEmpty(t, res.Claims)
	for _, c := range res.Claims {
		assert.Equal(t, validate.StatusInsufficient, c.Status, c.Claim)
	}
	assert.True(t, res.Insufficient())
	assert.False(t, res.AllPassed())
}

func TestResult_AllPassedEmpty(t *testing.T) {
	assert.False(t, validate.Result{}.AllPassed(), "no claims is not a pass")
}
