package overlay

import "time"

// SlideDuration is how long the overlay takes to slide in or out.
const SlideDuration = 300 * time.Millisecond

// Easing maps linear progress in [0,1] onto eased progress.
type Easing func(t float64) float64

// EaseOutQuad decelerates towards the end of the transition.
func EaseOutQuad(t float64) float64 {
	return 1 - (1-t)*(1-t)
}

// Transition is a timed move of the overlay's vertical offset. The view
// samples Value on every frame; End may be retargeted while it runs.
type Transition struct {
	Start    float32
	End      float32
	Duration time.Duration
	Ease     Easing
	Started  time.Time
}

func newSlide(start, end float32, now time.Time) *Transition {
	return &Transition{
		Start:    start,
		End:      end,
		Duration: SlideDuration,
		Ease:     EaseOutQuad,
		Started:  now,
	}
}

// Progress returns the linear completion fraction at now.
func (t *Transition) Progress(now time.Time) float64 {
	if t.Duration <= 0 {
		return 1
	}
	p := float64(now.Sub(t.Started)) / float64(t.Duration)
	switch {
	case p < 0:
		return 0
	case p > 1:
		return 1
	}
	return p
}

// Value returns the interpolated offset at now.
func (t *Transition) Value(now time.Time) float32 {
	p := t.Progress(now)
	if t.Ease != nil {
		p = t.Ease(p)
	}
	return t.Start + (t.End-t.Start)*float32(p)
}

// Done reports whether the transition has reached its end.
func (t *Transition) Done(now time.Time) bool {
	return t.Progress(now) >= 1
}
