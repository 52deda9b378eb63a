package gui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/btcsuite/btcd/btcutil"

	"syncwallet_gui/internal/paymentrequest"
)

var errInvalidAmount = errors.New("invalid amount")

// ParseAmount reads a BTC amount as typed by the user. Empty means zero.
func ParseAmount(s string) (btcutil.Amount, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 0 {
		return 0, fmt.Errorf("%w: %q", errInvalidAmount, s)
	}
	amt, err := btcutil.NewAmount(f)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", errInvalidAmount, err)
	}
	return amt, nil
}

// RequestDialog shows the receive address of a paymentrequest.Controller.
type RequestDialog struct {
	ctrl   *paymentrequest.Controller
	window fyne.Window

	title       *widget.Label
	address     *widget.Label
	uri         *widget.Label
	qr          *canvas.Image
	copyURI     *widget.Button
	copyAddress *widget.Button
	refresh     *widget.Button
	request     *widget.Button
	clear       *widget.Button

	content fyne.CanvasObject
}

func NewRequestDialog(ctrl *paymentrequest.Controller, window fyne.Window, qrSize float32) *RequestDialog {
	d := &RequestDialog{
		ctrl:    ctrl,
		window:  window,
		title:   widget.NewLabelWithStyle("", fyne.TextAlignCenter, fyne.TextStyle{Bold: true}),
		address: widget.NewLabelWithStyle("", fyne.TextAlignCenter, fyne.TextStyle{Monospace: true}),
		uri:     widget.NewLabel(""),
		qr:      &canvas.Image{FillMode: canvas.ImageFillContain},
	}
	d.address.Wrapping = fyne.TextWrapBreak
	d.uri.Wrapping = fyne.TextWrapBreak
	d.qr.SetMinSize(fyne.NewSize(qrSize, qrSize))

	d.copyURI = widget.NewButtonWithIcon("Copy URI", theme.ContentCopyIcon(), ctrl.CopyURI)
	d.copyAddress = widget.NewButtonWithIcon("Copy address", theme.ContentCopyIcon(), ctrl.CopyAddress)
	d.refresh = widget.NewButtonWithIcon("New address", theme.ViewRefreshIcon(), ctrl.RefreshClicked)
	d.request = widget.NewButtonWithIcon("Request payment", theme.ContentAddIcon(), d.showRequestForm)
	d.clear = widget.NewButtonWithIcon("Clear", theme.ContentClearIcon(), ctrl.Reject)

	d.content = container.NewVBox(
		d.title,
		container.NewCenter(d.qr),
		d.address,
		d.uri,
		container.NewHBox(layout.NewSpacer(), d.copyAddress, d.copyURI, layout.NewSpacer()),
		widget.NewSeparator(),
		container.NewHBox(d.clear, layout.NewSpacer(), d.refresh, d.request),
	)

	ctrl.OnUpdate(d.render)
	d.render(ctrl.Display())
	return d
}

// Content is the dialog body, usable outside a dialog as well.
func (d *RequestDialog) Content() fyne.CanvasObject { return d.content }

// Show opens the dialog. OK accepts, Close rejects; both return the dialog
// to the default address.
func (d *RequestDialog) Show() {
	dlg := dialog.NewCustomConfirm("Receive", "OK", "Close", d.content, func(ok bool) {
		if ok {
			d.ctrl.Accept()
			return
		}
		d.ctrl.Reject()
	}, d.window)
	dlg.Show()
}

func (d *RequestDialog) render(disp paymentrequest.Display) {
	d.title.SetText(disp.Title)
	d.address.SetText(disp.Address)
	d.uri.SetText(disp.URI)

	if len(disp.QR) > 0 {
		d.qr.Resource = fyne.NewStaticResource("request.png", disp.QR)
		d.qr.Show()
	} else {
		d.qr.Resource = nil
		d.qr.Hide()
	}
	d.qr.Refresh()

	for _, b := range []*widget.Button{d.copyURI, d.copyAddress} {
		if disp.Enabled {
			b.Enable()
		} else {
			b.Disable()
		}
	}
	if disp.RefreshEnabled {
		d.refresh.Enable()
		d.request.Enable()
	} else {
		d.refresh.Disable()
		d.request.Disable()
	}
}

func (d *RequestDialog) showRequestForm() {
	label := widget.NewEntry()
	message := widget.NewEntry()
	amount := widget.NewEntry()
	amount.SetPlaceHolder("0.00000000")
	amount.Validator = func(s string) error {
		_, err := ParseAmount(s)
		return err
	}

	items := []*widget.FormItem{
		widget.NewFormItem("Label", label),
		widget.NewFormItem("Amount (BTC)", amount),
		widget.NewFormItem("Message", message),
	}
	dialog.ShowForm("Request payment", "Create", "Cancel", items, func(ok bool) {
		if !ok {
			return
		}
		amt, err := ParseAmount(amount.Text)
		if err != nil {
			dialog.ShowError(err, d.window)
			return
		}
		if !d.ctrl.RequestPayment(label.Text, message.Text, amt) {
			dialog.ShowError(errors.New("could not create a receiving address"), d.window)
		}
	}, d.window)
}
