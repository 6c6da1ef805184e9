package resource

import "slices"

// Strategy is the load mode handed to a Loader.
type Strategy string

const (
	// StrategyStandard loads the resource as is.
	StrategyStandard Strategy = "standard"
	// StrategyReduced asks the backend for a reduced-footprint load, for
	// example a quantised model.
	StrategyReduced Strategy = "reduced"
)

// StrategyFunc chooses the load strategy for an entry.
type StrategyFunc func(Entry) Strategy

// DefaultReducedClasses are the size classes loaded in reduced mode when no
// other policy is configured.
var DefaultReducedClasses = []string{"large"}

// SizeClassPolicy loads entries whose size class is in reduced with
// StrategyReduced and everything else with StrategyStandard.
func SizeClassPolicy(reduced ...string) StrategyFunc {
	classes := slices.Clone(reduced)
	return func(e Entry) Strategy {
		if slices.Contains(classes, e.SizeClass) {
			return StrategyReduced
		}
		return StrategyStandard
	}
}
