// Package payuri formats BIP21 payment URIs.
package payuri

import (
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
)

const Scheme = "bitcoin"

// Request is the subset of a payment request that ends up in the URI.
type Request struct {
	Address string
	Label   string
	Message string
	Amount  btcutil.Amount
}

// Format builds the payment URI for req. Bech32 addresses of the given
// network are upper-cased so QR codes can use the alphanumeric mode.
func Format(req Request, params *chaincfg.Params) string {
	var b strings.Builder
	b.WriteString(Scheme)
	b.WriteByte(':')

	address := req.Address
	if params != nil && strings.HasPrefix(strings.ToLower(address), params.Bech32HRPSegwit+"1") {
		address = strings.ToUpper(address)
	}
	b.WriteString(address)

	sep := byte('?')
	add := func(key, value string) {
		b.WriteByte(sep)
		b.WriteString(key)
		b.WriteByte('=')
		b.WriteString(value)
		sep = '&'
	}
	if req.Amount != 0 {
		add("amount", FormatAmount(req.Amount))
	}
	if req.Label != "" {
		add("label", percentEncode(req.Label))
	}
	if req.Message != "" {
		add("message", percentEncode(req.Message))
	}
	return b.String()
}

// FormatAmount renders amt in BTC with trailing zeros removed, e.g. "0.001".
func FormatAmount(amt btcutil.Amount) string {
	sign := ""
	sats := int64(amt)
	if sats < 0 {
		sign = "-"
		sats = -sats
	}
	whole := sats / btcutil.SatoshiPerBitcoin
	frac := sats % btcutil.SatoshiPerBitcoin
	if frac == 0 {
		return fmt.Sprintf("%s%d", sign, whole)
	}
	fracStr := strings.TrimRight(fmt.Sprintf("%08d", frac), "0")
	return fmt.Sprintf("%s%d.%s", sign, whole, fracStr)
}

func isUnreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	return c == '-' || c == '.' || c == '_' || c == '~'
}

// percentEncode escapes every byte outside the RFC 3986 unreserved set.
func percentEncode(s string) string {
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isUnreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&0x0f])
	}
	return b.String()
}
