package compliance

import (
	pstrings "rostra/pkg/platform/strings"
)

// RequirementSet defines which certification types an assignment requires.
// Baseline always applies; Driving is unioned in when the evaluation context
// involves driving.
type RequirementSet struct {
	Baseline []string
	Driving  []string
}

// DefaultRequirements is the care-sector baseline every worker must hold,
// plus the driving additions for transport duties.
func DefaultRequirements() RequirementSet {
	return RequirementSet{
		Baseline: []string{
			"Police Check",
			"NDIS Worker Screening",
			"First Aid",
			"CPR",
			"Working With Children Check",
		},
		Driving: []string{
			"Driver Licence",
			"Vehicle Insurance",
		},
	}
}

// Effective returns the required type list for one evaluation: baseline,
// plus driving types when the context requires driving, plus caller-supplied
// extras, deduplicated case-insensitively with the earliest casing preserved.
// Total for any input, including empty extras.
func (rs RequirementSet) Effective(evalCtx EvaluationContext) []string {
	merged := make([]string, 0,
		len(rs.Baseline)+len(rs.Driving)+len(evalCtx.AdditionalRequirements))
	merged = append(merged, rs.Baseline...)
	if evalCtx.RequiresDriving {
		merged = append(merged, rs.Driving...)
	}
	merged = append(merged, evalCtx.AdditionalRequirements...)
	return pstrings.DedupeAndTrimFold(merged)
}
