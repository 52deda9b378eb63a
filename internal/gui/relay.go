package gui

import (
	"time"

	"syncwallet_gui/internal/overlay"
)

// MaxTipAge is how old the newest block may be before the wallet counts as
// out of sync.
const MaxTipAge = 90 * time.Minute

// SyncRelay forwards node events to the overlay and shows it while the chain
// tip is stale. It hides the overlay once the tip is recent.
type SyncRelay struct {
	ctrl *overlay.Controller
	now  func() time.Time
}

func NewSyncRelay(ctrl *overlay.Controller, now func() time.Time) *SyncRelay {
	if now == nil {
		now = time.Now
	}
	return &SyncRelay{ctrl: ctrl, now: now}
}

func (r *SyncRelay) RecordHeaderHeight(count int32, date time.Time) {
	r.ctrl.RecordHeaderHeight(count, date)
}

func (r *SyncRelay) RecordTipUpdate(count int32, blockDate time.Time, progress float64) {
	r.ctrl.RecordTipUpdate(count, blockDate, progress)
	if !blockDate.IsZero() && r.now().Sub(blockDate) < MaxTipAge {
		r.ctrl.ShowHide(true, true)
		return
	}
	r.ctrl.ShowHide(false, false)
}
