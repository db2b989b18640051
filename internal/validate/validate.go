// Package validate compares the aggregate results against an injected table
// of expected research findings and reports pass/fail per claim.
package validate

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/spillsight/ct-spill-analysis/internal/aggregate"
)

// Claim statuses. Insufficient data fails closed: no claim passes on a
// dataset below the minimum record threshold.
type Status string

const (
	StatusPass         Status = "pass"
	StatusFail         Status = "fail"
	StatusInsufficient Status = "insufficient_data"
)

// Claim names.
const (
	ClaimTopTowns          = "top-towns"
	ClaimDominantSubstance = "dominant-substance"
	ClaimSubstanceShare    = "substance-share"
	ClaimDominantCause     = "dominant-cause"
	ClaimCauseShare        = "cause-share"
	ClaimTownCoverage      = "town-coverage"
)

// ExpectedFindings is the reference table the aggregates are checked against.
// It is injected rather than hardcoded so alternate reference datasets can be
// substituted in tests and config.
type ExpectedFindings struct {
	// TopTowns must all appear within the observed top TopTownsWindow list,
	// order-independent.
	TopTowns       []string
	TopTownsWindow int

	DominantSubstance    string
	DominantSubstancePct float64
	DominantCause        string
	DominantCausePct     float64

	// MinTownCoverage is the least acceptable count of distinct towns.
	MinTownCoverage int

	// PercentTolerance is the half-width of the acceptance band around each
	// expected percentage, in percentage points.
	PercentTolerance float64

	// MinRecords is the smallest cleaned dataset the claims may be judged on.
	MinRecords int
}

// ClaimResult is one claim's outcome. Immutable once created.
type ClaimResult struct {
	Claim    string `json:"claim"`
	Expected string `json:"expected"`
	Observed string `json:"observed"`
	Status   Status `json:"status"`
}

// Result is the full validation outcome.
type Result struct {
	Claims []ClaimResult `json:"claims"`
}

// AllPassed reports whether every claim passed.
func (r Result) AllPassed() bool {
	for _, c := range r.Claims {
		if c.Status != StatusPass {
			return false
		}
	}
	return len(r.Claims) > 0
}

// Insufficient reports whether the claims failed closed on too little data.
func (r Result) Insufficient() bool {
	for _, c := range r.Claims {
		if c.Status == StatusInsufficient {
			return true
		}
	}
	return false
}

// Run evaluates every claim against the aggregates. When the cleaned dataset
// is smaller than MinRecords, every claim reports StatusInsufficient rather
// than a misleading pass on partial data.
func Run(towns, substances, causes aggregate.Result, exp ExpectedFindings) Result {
	claims := []ClaimResult{
		checkTopTowns(towns, exp),
		checkDominant(ClaimDominantSubstance, substances, exp.DominantSubstance),
		checkShare(ClaimSubstanceShare, substances, exp.DominantSubstance, exp.DominantSubstancePct, exp.PercentTolerance),
		checkDominant(ClaimDominantCause, causes, exp.DominantCause),
		checkShare(ClaimCauseShare, causes, exp.DominantCause, exp.DominantCausePct, exp.PercentTolerance),
		checkCoverage(towns, exp.MinTownCoverage),
	}

	if towns.Total < exp.MinRecords {
		observed := fmt.Sprintf("%d cleaned records (minimum %d)", towns.Total, exp.MinRecords)
		for i := range claims {
			claims[i].Status = StatusInsufficient
			claims[i].Observed = observed
		}
	}

	return Result{Claims: claims}
}

// checkTopTowns verifies set containment: every expected town appears within
// the observed top-M list, regardless of exact rank.
func checkTopTowns(towns aggregate.Result, exp ExpectedFindings) ClaimResult {
	window := exp.TopTownsWindow
	if window < len(exp.TopTowns) {
		window = len(exp.TopTowns)
	}

	observed := make(map[string]struct{}, window)
	var observedKeys []string
	for _, b := range towns.Top(window) {
		observed[b.Key] = struct{}{}
		observedKeys = append(observedKeys, b.Key)
	}

	var missing []string
	for _, want := range exp.TopTowns {
		if _, ok := observed[want]; !ok {
			missing = append(missing, want)
		}
	}
	sort.Strings(missing)

	status := StatusPass
	obs := fmt.Sprintf("top %d: %s", window, strings.Join(observedKeys, ", "))
	if len(missing) > 0 {
		status = StatusFail
		obs += fmt.Sprintf(" (missing: %s)", strings.Join(missing, ", "))
	}
	return ClaimResult{
		Claim:    ClaimTopTowns,
		Expected: fmt.Sprintf("all of %s within top %d", strings.Join(exp.TopTowns, ", "), window),
		Observed: obs,
		Status:   status,
	}
}

func checkDominant(claim string, res aggregate.Result, want string) ClaimResult {
	observed := "no data"
	status := StatusFail
	if len(res.Buckets) > 0 {
		top := res.Buckets[0]
		observed = fmt.Sprintf("%s (%.1f%%)", top.Key, top.Percent)
		if top.Key == want {
			status = StatusPass
		}
	}
	return ClaimResult{
		Claim:    claim,
		Expected: want + " ranks first",
		Observed: observed,
		Status:   status,
	}
}

func checkShare(claim string, res aggregate.Result, key string, want, tolerance float64) ClaimResult {
	got := res.Percent(key)
	status := StatusFail
	if math.Abs(got-want) <= tolerance {
		status = StatusPass
	}
	return ClaimResult{
		Claim:    claim,
		Expected: fmt.Sprintf("%s at %.1f%% ±%.1fpp", key, want, tolerance),
		Observed: fmt.Sprintf("%.1f%%", got),
		Status:   status,
	}
}

func checkCoverage(towns aggregate.Result, minCoverage int) ClaimResult {
	status := StatusFail
	if towns.Keys() >= minCoverage {
		status = StatusPass
	}
	return ClaimResult{
		Claim:    ClaimTownCoverage,
		Expected: fmt.Sprintf("at least %d distinct towns", minCoverage),
		Observed: fmt.Sprintf("%d distinct towns", towns.Keys()),
		Status:   status,
	}
}
