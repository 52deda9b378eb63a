package overlay

import "math"

const (
	// MaxSamples bounds the verification progress history.
	MaxSamples = 5000

	// rateWindowMillis is how far back the rate estimate looks for its
	// reference sample.
	rateWindowMillis = 500 * 1000

	millisPerHour = 1000 * 3600
)

// ProgressSample is one observation of verification progress.
type ProgressSample struct {
	TimeMillis int64
	Progress   float64
}

// Rate is the sync speed derived from the sample history.
type Rate struct {
	// PerHour is the fraction of the chain verified per hour.
	PerHour float64
	// RemainingMillis is only meaningful when Known is set.
	RemainingMillis int64
	Known           bool
}

// progressHistory keeps samples oldest-first internally; Samples exposes
// them newest-first.
type progressHistory struct {
	samples []ProgressSample
}

func (h *progressHistory) Len() int { return len(h.samples) }

// Samples returns a newest-first copy of the retained samples.
func (h *progressHistory) Samples() []ProgressSample {
	out := make([]ProgressSample, len(h.samples))
	for i, s := range h.samples {
		out[len(h.samples)-1-i] = s
	}
	return out
}

// add records s as the newest sample. The returned rate is only valid when
// ok is true, which requires at least two samples.
func (h *progressHistory) add(s ProgressSample) (rate Rate, ok bool) {
	h.samples = append(h.samples, s)
	n := len(h.samples)
	if n < 2 {
		return Rate{}, false
	}

	newest := h.samples[n-1]
	cutoff := newest.TimeMillis - rateWindowMillis
	// Walk back from the second newest sample and take the first one older
	// than the window, or the oldest retained one.
	for i := n - 2; i >= 0; i-- {
		ref := h.samples[i]
		if ref.TimeMillis >= cutoff && i != 0 {
			continue
		}
		rate = estimateRate(newest, ref)
		break
	}

	h.trim()
	return rate, true
}

func estimateRate(newest, ref ProgressSample) Rate {
	progressDelta := newest.Progress - ref.Progress
	timeDelta := newest.TimeMillis - ref.TimeMillis
	if progressDelta <= 0 || timeDelta <= 0 {
		return Rate{}
	}
	rate := Rate{PerHour: progressDelta / float64(timeDelta) * millisPerHour}

	// A vanishing progress step projects an ETA beyond int64 range.
	remaining := (1.0 - newest.Progress) / progressDelta * float64(timeDelta)
	if math.IsNaN(remaining) || math.IsInf(remaining, 0) || remaining >= math.MaxInt64 {
		return rate
	}
	rate.RemainingMillis = int64(remaining)
	rate.Known = true
	return rate
}

func (h *progressHistory) trim() {
	excess := len(h.samples) - MaxSamples
	if excess <= 0 {
		return
	}
	copy(h.samples, h.samples[excess:])
	h.samples = h.samples[:MaxSamples]
}
