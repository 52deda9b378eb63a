package models

import (
	"time"

	"github.com/btcsuite/btcd/btcutil"
)

// PaymentRequest describes what a payer is asked to send and where.
type PaymentRequest struct {
	Address string         `json:"address"`
	Label   string         `json:"label"`
	Message string         `json:"message"`
	Amount  btcutil.Amount `json:"amount"`
}

// IsPlain reports whether the request carries no label, message or amount,
// which is what makes an address reusable as the default one.
func (r PaymentRequest) IsPlain() bool {
	return r.Label == "" && r.Message == "" && r.Amount == 0
}

// RecentRequest is a request as stored in the request history.
type RecentRequest struct {
	ID      int64          `json:"id"`
	Date    time.Time      `json:"date"`
	Request PaymentRequest `json:"request"`
}
