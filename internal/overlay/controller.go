package overlay

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"go.uber.org/zap"

	"syncwallet_gui/internal/timefmt"
)

// HeaderHeightDeltaSync is the number of estimated missing headers under
// which the overlay trusts its best header and counts blocks left.
const HeaderHeightDeltaSync = 24

const (
	textUnknown        = "unknown"
	textUnknownHeaders = "Unknown…"
	blockDateLayout    = time.ANSIC
)

// Type selects which page the overlay presents.
type Type int

const (
	TypeSync Type = iota
	TypeBackup
)

// HeaderEstimator guesses how many headers are still missing.
type HeaderEstimator interface {
	EstimateHeadersLeft(elapsedSeconds int64, knownHeight int32) int
}

// Status is the text the overlay view displays.
type Status struct {
	PercentageProgress string
	ProgressPerHour    string
	ExpectedTimeLeft   string
	NewestBlockDate    string
	BlocksLeft         string
}

// ParentListener receives notifications from the surface the overlay covers.
type ParentListener interface {
	ParentResized(width, height float32)
	ChildAdded()
}

// Parent is a surface that reports resizes and newly added children.
type Parent interface {
	Subscribe(l ParentListener) (unsubscribe func())
}

// Option configures a Controller.
type Option func(*Controller)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Controller) { c.log = l }
}

func WithType(t Type) Option {
	return func(c *Controller) { c.typ = t }
}

// WithWalletEnabled controls whether the wallet-specific explanation is shown.
func WithWalletEnabled(enabled bool) Option {
	return func(c *Controller) { c.walletEnabled = enabled }
}

// Controller drives the sync overlay: it turns node progress callbacks into
// display text and slides the overlay in and out of its parent.
// All methods must be called from the UI goroutine.
type Controller struct {
	log           *zap.Logger
	now           func() time.Time
	estimator     HeaderEstimator
	typ           Type
	walletEnabled bool

	history          progressHistory
	rate             Rate
	bestHeaderHeight int32
	bestHeaderDate   time.Time
	status           Status

	layerVisible bool
	userClosed   bool
	shown        bool

	width, height float32
	y             float32
	transition    *Transition

	unsubscribe func()

	onTriggered []func(hidden bool)
	onBackup    []func()
	onChanged   []func(Status)
	onRaise     []func()
}

// NewController returns a hidden overlay.
func NewController(estimator HeaderEstimator, opts ...Option) *Controller {
	c := &Controller{
		log:           zap.NewNop(),
		now:           time.Now,
		estimator:     estimator,
		walletEnabled: true,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) OnTriggered(fn func(hidden bool)) { c.onTriggered = append(c.onTriggered, fn) }
func (c *Controller) OnBackupWallet(fn func())         { c.onBackup = append(c.onBackup, fn) }
func (c *Controller) OnChanged(fn func(Status))        { c.onChanged = append(c.onChanged, fn) }

// OnRaise is called whenever the overlay must be stacked above its siblings.
func (c *Controller) OnRaise(fn func()) { c.onRaise = append(c.onRaise, fn) }

func (c *Controller) notifyChanged() {
	for _, fn := range c.onChanged {
		fn(c.status)
	}
}

func (c *Controller) raise() {
	for _, fn := range c.onRaise {
		fn()
	}
}

// Attach subscribes to parent, replacing any previous parent.
func (c *Controller) Attach(parent Parent) {
	c.Detach()
	c.unsubscribe = parent.Subscribe(c)
	c.raise()
}

// Detach stops listening to the current parent, if any.
func (c *Controller) Detach() {
	if c.unsubscribe != nil {
		c.unsubscribe()
		c.unsubscribe = nil
	}
}

// ParentResized keeps the overlay the size of its parent. A hidden overlay
// stays just below the bottom edge, and a running hide slide is retargeted
// to the new height.
func (c *Controller) ParentResized(width, height float32) {
	c.width, c.height = width, height
	if !c.layerVisible {
		c.y = height
	}
	if c.transition != nil && c.transition.End > 0 {
		c.transition.End = height
	}
}

func (c *Controller) ChildAdded() { c.raise() }

// Advance samples the active transition at now and returns the overlay's
// vertical offset and whether the slide is still running.
func (c *Controller) Advance(now time.Time) (y float32, running bool) {
	if c.transition == nil {
		return c.y, false
	}
	c.y = c.transition.Value(now)
	return c.y, !c.transition.Done(now)
}

// Transition returns the most recent slide, nil before the first one.
func (c *Controller) Transition() *Transition { return c.transition }

// Visible reports the logical state of the layer, independent of any slide
// still in progress.
func (c *Controller) Visible() bool    { return c.layerVisible }
func (c *Controller) UserClosed() bool { return c.userClosed }

func (c *Controller) Status() Status { return c.status }
func (c *Controller) Rate() Rate     { return c.rate }

func (c *Controller) BestHeaderHeight() int32 { return c.bestHeaderHeight }

// Samples returns the progress history newest-first.
func (c *Controller) Samples() []ProgressSample { return c.history.Samples() }

// RecordHeaderHeight raises the best known header. Lower or equal heights
// are ignored.
func (c *Controller) RecordHeaderHeight(count int32, date time.Time) {
	if count <= c.bestHeaderHeight {
		return
	}
	c.bestHeaderHeight = count
	c.bestHeaderDate = date
	c.updateHeaderSyncLabel()
	c.notifyChanged()
}

func (c *Controller) estimateHeadersLeft() int {
	if c.bestHeaderDate.IsZero() {
		return c.estimator.EstimateHeadersLeft(0, c.bestHeaderHeight)
	}
	elapsed := int64(c.now().Sub(c.bestHeaderDate) / time.Second)
	return c.estimator.EstimateHeadersLeft(elapsed, c.bestHeaderHeight)
}

func (c *Controller) updateHeaderSyncLabel() {
	left := c.estimateHeadersLeft()
	total := float64(c.bestHeaderHeight) + float64(left)
	pct := 0.0
	if total > 0 {
		pct = 100.0 / total * float64(c.bestHeaderHeight)
	}
	c.status.BlocksLeft = fmt.Sprintf("Unknown. Syncing Headers (%d, %.1f%%)…", c.bestHeaderHeight, pct)
}

// RecordTipUpdate records a new validated tip and refreshes the progress,
// speed and remaining time text.
func (c *Controller) RecordTipUpdate(count int32, blockDate time.Time, progress float64) {
	defer c.notifyChanged()

	if math.IsNaN(progress) || math.IsInf(progress, 0) {
		c.log.Warn("Ignoring malformed verification progress", zap.Int32("height", count))
		c.status.PercentageProgress = textUnknown
		c.status.ExpectedTimeLeft = textUnknown
		return
	}
	progress = math.Min(math.Max(progress, 0), 1)

	now := c.now()
	if rate, ok := c.history.add(ProgressSample{TimeMillis: now.UnixMilli(), Progress: progress}); ok {
		c.rate = rate
		c.status.ProgressPerHour = strconv.FormatFloat(rate.PerHour*100, 'f', 2, 64) + "%"
		if rate.Known {
			c.status.ExpectedTimeLeft = timefmt.NiceOffset(rate.RemainingMillis / 1000)
		} else {
			c.status.ExpectedTimeLeft = textUnknown
		}
	}

	if blockDate.IsZero() {
		c.status.NewestBlockDate = textUnknown
	} else {
		c.status.NewestBlockDate = blockDate.Local().Format(blockDateLayout)
	}
	c.status.PercentageProgress = strconv.FormatFloat(progress*100, 'f', 2, 64) + "%"

	// Still fetching headers, nothing to compare the tip against.
	if c.bestHeaderDate.IsZero() {
		return
	}

	headersLeft := c.estimateHeadersLeft()
	hasBestHeader := c.bestHeaderHeight >= count
	if headersLeft < HeaderHeightDeltaSync && hasBestHeader {
		c.status.BlocksLeft = strconv.FormatInt(int64(c.bestHeaderHeight-count), 10)
		return
	}
	c.updateHeaderSyncLabel()
	c.status.ExpectedTimeLeft = textUnknownHeaders
}

// ShowHide slides the overlay out (hide) or in. Showing is refused after
// the user closed the overlay unless the request comes from the user.
func (c *Controller) ShowHide(hide, userRequested bool) {
	if (c.layerVisible && !hide) || (!c.layerVisible && hide) || (!hide && c.userClosed && !userRequested) {
		return
	}

	for _, fn := range c.onTriggered {
		fn(hide)
	}

	if !c.shown && !hide {
		c.shown = true
	}

	start, end := c.height, float32(0)
	if hide {
		start, end = 0, c.height
	}
	c.transition = newSlide(start, end, c.now())
	c.layerVisible = !hide

	c.log.Debug("Overlay slide started",
		zap.Bool("hide", hide),
		zap.Bool("user_requested", userRequested))
}

// ToggleVisibility flips the overlay on user request. Hiding it this way
// latches userClosed.
func (c *Controller) ToggleVisibility() {
	c.ShowHide(c.layerVisible, true)
	if !c.layerVisible {
		c.userClosed = true
	}
}

func (c *Controller) CloseClicked() {
	c.ShowHide(true, false)
	c.userClosed = true
}

func (c *Controller) BackupWalletClicked() {
	for _, fn := range c.onBackup {
		fn()
	}
	c.ShowHide(true, true)
}

// CloseButtonText is the label of the dismiss button for this overlay type.
func (c *Controller) CloseButtonText() string {
	if c.typ == TypeBackup {
		return "Maybe later"
	}
	return "Hide"
}

func (c *Controller) BackupButtonVisible() bool { return c.typ == TypeBackup }

func (c *Controller) Type() Type { return c.typ }

// InfoText explains what the overlay is waiting for.
func (c *Controller) InfoText() string {
	switch {
	case c.typ == TypeBackup:
		return "Your wallet has not been backed up. Make a backup now so the funds it holds can be restored if this computer is lost."
	case !c.walletEnabled:
		return "The node is currently syncing. It will download headers and blocks from peers and validate them until reaching the tip of the block chain."
	default:
		return "Recent transactions may not yet be visible, and therefore your wallet's balance might be incorrect. This information will be correct once your wallet has finished synchronizing with the network."
	}
}
