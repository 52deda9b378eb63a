package gui

import (
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"syncwallet_gui/internal/overlay"
)

// OverlayView renders an overlay.Controller as a panel sliding over a Surface.
type OverlayView struct {
	ctrl    *overlay.Controller
	surface *Surface
	panel   *fyne.Container
	anim    *fyne.Animation

	blocksLeft  *widget.Label
	blockDate   *widget.Label
	progress    *widget.Label
	perHour     *widget.Label
	timeLeft    *widget.Label
	closeButton *widget.Button
	backup      *widget.Button
}

func NewOverlayView(ctrl *overlay.Controller, surface *Surface) *OverlayView {
	v := &OverlayView{
		ctrl:       ctrl,
		surface:    surface,
		blocksLeft: widget.NewLabel(""),
		blockDate:  widget.NewLabel(""),
		progress:   widget.NewLabel(""),
		perHour:    widget.NewLabel(""),
		timeLeft:   widget.NewLabel(""),
	}

	info := widget.NewLabel(ctrl.InfoText())
	info.Wrapping = fyne.TextWrapWord

	form := widget.NewForm(
		widget.NewFormItem("Number of blocks left", v.blocksLeft),
		widget.NewFormItem("Last block time", v.blockDate),
		widget.NewFormItem("Progress", v.progress),
		widget.NewFormItem("Progress increase per hour", v.perHour),
		widget.NewFormItem("Estimated time left until synced", v.timeLeft),
	)

	v.closeButton = widget.NewButton(ctrl.CloseButtonText(), ctrl.CloseClicked)
	v.backup = widget.NewButtonWithIcon("Backup wallet", theme.DocumentSaveIcon(), ctrl.BackupWalletClicked)
	v.backup.Importance = widget.HighImportance

	title := "Synchronizing with the network"
	if ctrl.BackupButtonVisible() {
		title = "Back up your wallet"
		form.Hide()
	} else {
		v.backup.Hide()
	}

	card := widget.NewCard(title, "", container.NewVBox(
		info,
		form,
		container.NewHBox(layout.NewSpacer(), v.backup, v.closeButton),
	))
	bg := canvas.NewRectangle(theme.Color(theme.ColorNameOverlayBackground))
	v.panel = container.NewStack(bg, container.NewPadded(card))
	v.panel.Hide()

	ctrl.OnChanged(v.setStatus)
	ctrl.OnTriggered(v.slide)
	ctrl.OnRaise(func() { surface.Raise(v.panel) })

	surface.AddSliding(v.panel, func() float32 {
		y, _ := ctrl.Advance(time.Now())
		return y
	})
	ctrl.Attach(surface)
	y, _ := ctrl.Advance(time.Now())
	v.panel.Move(fyne.NewPos(0, y))
	v.setStatus(ctrl.Status())
	return v
}

// Panel is the sliding container, exposed for tests and custom layouts.
func (v *OverlayView) Panel() *fyne.Container { return v.panel }

func (v *OverlayView) setStatus(s overlay.Status) {
	v.blocksLeft.SetText(s.BlocksLeft)
	v.blockDate.SetText(s.NewestBlockDate)
	v.progress.SetText(s.PercentageProgress)
	v.perHour.SetText(s.ProgressPerHour)
	v.timeLeft.SetText(s.ExpectedTimeLeft)
}

// slide runs once the controller has decided to move; the controller owns the
// easing, the animation only supplies frames.
func (v *OverlayView) slide(bool) {
	if v.anim != nil {
		v.anim.Stop()
	}
	v.panel.Show()
	v.anim = fyne.NewAnimation(overlay.SlideDuration, func(done float32) {
		v.step(done >= 1)
	})
	v.anim.Curve = fyne.AnimationLinear
	v.anim.Start()
}

func (v *OverlayView) step(final bool) {
	now := time.Now()
	if t := v.ctrl.Transition(); final && t != nil {
		now = t.Started.Add(t.Duration)
	}
	y, running := v.ctrl.Advance(now)
	v.panel.Move(fyne.NewPos(0, y))
	if !running && !v.ctrl.Visible() {
		v.panel.Hide()
	}
}

// Close detaches the view from its surface.
func (v *OverlayView) Close() {
	if v.anim != nil {
		v.anim.Stop()
	}
	v.ctrl.Detach()
}
