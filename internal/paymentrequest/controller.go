package paymentrequest

import (
	"fmt"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"go.uber.org/zap"

	"syncwallet_gui/internal/history"
	"syncwallet_gui/internal/models"
	"syncwallet_gui/internal/payuri"
	"syncwallet_gui/internal/wallet"
)

// Wallet hands out receiving addresses.
type Wallet interface {
	DefaultAddressType() wallet.AddressType
	GenerateReceivingAddress(label string, t wallet.AddressType) (string, error)
	CanGenerateAddresses() bool
}

// Clipboard receives copied text. fyne.Clipboard satisfies it.
type Clipboard interface {
	SetContent(content string)
}

// QREncoder renders a payment URI as an image.
type QREncoder interface {
	Encode(text string) ([]byte, error)
}

// Display is everything the request dialog shows.
type Display struct {
	Title string
	// URI is the full payment URI, used for the QR code and tooltip.
	URI string
	// AddressURI is the URI without amount, label or message.
	AddressURI     string
	Address        string
	Request        models.PaymentRequest
	QR             []byte
	Enabled        bool
	RefreshEnabled bool
}

type Option func(*Controller)

func WithLogger(l *zap.Logger) Option {
	return func(c *Controller) { c.log = l }
}

// WithQREncoder enables QR codes in the display.
func WithQREncoder(e QREncoder) Option {
	return func(c *Controller) { c.qr = e }
}

func WithClipboard(cb Clipboard) Option {
	return func(c *Controller) { c.clipboard = cb }
}

// Controller owns the request shown by the receive dialog. Not safe for
// concurrent use; call from the UI goroutine.
type Controller struct {
	log       *zap.Logger
	params    *chaincfg.Params
	wallet    Wallet
	history   history.Store
	clipboard Clipboard
	qr        QREncoder

	current        models.PaymentRequest
	display        Display
	refreshEnabled bool

	onUpdate []func(Display)
}

func NewController(params *chaincfg.Params, opts ...Option) *Controller {
	c := &Controller{
		log:    zap.NewNop(),
		params: params,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// OnUpdate registers a view callback fired whenever the display changes.
func (c *Controller) OnUpdate(fn func(Display)) { c.onUpdate = append(c.onUpdate, fn) }

func (c *Controller) notify() {
	for _, fn := range c.onUpdate {
		fn(c.display)
	}
}

// SetModel binds the wallet and request history; either may be nil.
func (c *Controller) SetModel(w Wallet, h history.Store) {
	c.wallet = w
	c.history = h
	c.refreshEnabled = w != nil && w.CanGenerateAddresses()
	c.Update()
}

// CurrentRequest returns a copy of the request on display.
func (c *Controller) CurrentRequest() models.PaymentRequest { return c.current }

func (c *Controller) Display() Display { return c.display }

// SetCurrentRequest replaces the request and refreshes the display.
func (c *Controller) SetCurrentRequest(req models.PaymentRequest) {
	c.current = req
	c.Update()
}

// RefreshAddress asks the wallet for a new address labelled like the
// current request and records the request in the history. It returns false
// only when no wallet or history is bound.
func (c *Controller) RefreshAddress() bool {
	if c.wallet == nil || c.history == nil {
		return false
	}

	addressType := c.wallet.DefaultAddressType()
	addr, err := c.wallet.GenerateReceivingAddress(c.current.Label, addressType)
	if err != nil {
		c.log.Warn("Failed to generate receiving address",
			zap.String("type", addressType.String()),
			zap.Error(err))
		addr = ""
	}
	c.current.Address = addr

	if addr != "" {
		if _, err := c.history.AddRequest(c.current); err != nil {
			c.log.Error("Failed to store payment request", zap.Error(err))
		}
	}
	return true
}

// GetDefaultAddress adopts the newest plain request from the history, or
// generates a fresh address when there is none. It reports whether an
// address is now available.
func (c *Controller) GetDefaultAddress() bool {
	if c.history == nil {
		return false
	}

	found := false
	err := c.history.Walk(func(row models.RecentRequest) bool {
		if row.Request.IsPlain() {
			c.current = row.Request
			found = true
			return false
		}
		return true
	})
	if err != nil {
		c.log.Error("Failed to read request history", zap.Error(err))
	}

	if !found {
		c.current = models.PaymentRequest{}
		c.RefreshAddress()
	}
	return c.current.Address != ""
}

func (c *Controller) title() string {
	name := c.current.Label
	if name == "" {
		name = c.current.Address
	}
	return fmt.Sprintf("Request payment to %s", name)
}

// Update rebuilds the display from the current request. Without an address
// it falls back to Clear.
func (c *Controller) Update() {
	if c.current.Address == "" {
		c.Clear()
		return
	}

	uri := payuri.Format(c.uriRequest(c.current), c.params)
	display := Display{
		Title:          c.title(),
		URI:            uri,
		AddressURI:     payuri.Format(payuri.Request{Address: c.current.Address}, c.params),
		Address:        c.current.Address,
		Request:        c.current,
		Enabled:        true,
		RefreshEnabled: c.refreshEnabled,
	}
	if c.qr != nil {
		png, err := c.qr.Encode(uri)
		if err != nil {
			c.log.Warn("Failed to render QR code", zap.Error(err))
		} else {
			display.QR = png
		}
	}
	c.display = display
	c.notify()
}

// Clear shows the default address if one can be found, otherwise empties
// and disables the display.
func (c *Controller) Clear() {
	if c.GetDefaultAddress() {
		c.Update()
		return
	}
	c.current = models.PaymentRequest{}
	c.display = Display{
		Title:          fmt.Sprintf("Request payment to %s", ""),
		RefreshEnabled: c.refreshEnabled,
	}
	c.notify()
}

func (c *Controller) uriRequest(req models.PaymentRequest) payuri.Request {
	return payuri.Request{
		Address: req.Address,
		Label:   req.Label,
		Message: req.Message,
		Amount:  req.Amount,
	}
}

// CopyURI puts the full payment URI on the clipboard.
func (c *Controller) CopyURI() {
	if c.clipboard == nil {
		return
	}
	c.clipboard.SetContent(payuri.Format(c.uriRequest(c.current), c.params))
}

func (c *Controller) CopyAddress() {
	if c.clipboard == nil {
		return
	}
	c.clipboard.SetContent(c.current.Address)
}

func (c *Controller) RefreshClicked() {
	if c.RefreshAddress() {
		c.Update()
	}
}

// RequestPayment creates a labelled request on a fresh address and shows it.
func (c *Controller) RequestPayment(label, message string, amount btcutil.Amount) bool {
	c.current = models.PaymentRequest{Label: label, Message: message, Amount: amount}
	ok := c.RefreshAddress() && c.current.Address != ""
	c.Update()
	return ok
}

// CanGenerateAddressesChanged re-reads the wallet's ability to hand out
// addresses; when it becomes able and nothing is shown, the default
// address is loaded.
func (c *Controller) CanGenerateAddressesChanged() {
	can := c.wallet != nil && c.wallet.CanGenerateAddresses()
	getDefault := can && !c.refreshEnabled && c.display.Address == ""
	c.refreshEnabled = can
	c.display.RefreshEnabled = can
	if getDefault && c.GetDefaultAddress() {
		c.Update()
		return
	}
	c.notify()
}

func (c *Controller) RefreshEnabled() bool { return c.refreshEnabled }

// Accept and Reject close the dialog; both reset it to the default address.
func (c *Controller) Accept() { c.Clear() }
func (c *Controller) Reject() { c.Clear() }
