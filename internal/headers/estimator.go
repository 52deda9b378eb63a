package headers

import (
	"sort"
	"time"

	"github.com/btcsuite/btcd/chaincfg"
)

// SpacingChange switches the expected block interval from Height onward.
type SpacingChange struct {
	Height  int32
	Spacing time.Duration
}

// Estimator guesses how many headers a node has yet to see from the time
// elapsed since the best known header.
type Estimator struct {
	base     time.Duration
	schedule []SpacingChange
}

// NewEstimator uses the network's target block time, overridden from each
// scheduled height onward.
func NewEstimator(params *chaincfg.Params, schedule ...SpacingChange) *Estimator {
	sorted := make([]SpacingChange, 0, len(schedule))
	for _, change := range schedule {
		if change.Spacing > 0 {
			sorted = append(sorted, change)
		}
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Height < sorted[j].Height })
	return &Estimator{base: params.TargetTimePerBlock, schedule: sorted}
}

// Spacing returns the block interval in effect at height.
func (e *Estimator) Spacing(height int32) time.Duration {
	spacing := e.base
	for _, change := range e.schedule {
		if change.Height > height {
			break
		}
		spacing = change.Spacing
	}
	return spacing
}

// EstimateHeadersLeft returns elapsedSeconds divided by the block spacing at
// knownHeight. Negative elapsed time (clock skew) yields zero.
func (e *Estimator) EstimateHeadersLeft(elapsedSeconds int64, knownHeight int32) int {
	spacing := int64(e.Spacing(knownHeight) / time.Second)
	if spacing <= 0 || elapsedSeconds <= 0 {
		return 0
	}
	return int(elapsedSeconds / spacing)
}
