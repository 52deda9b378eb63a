package payuri

import (
	"testing"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/stretchr/testify/assert"
)

const (
	legacyAddr = "1BvBMSEYstWetqTFn5Au4m4GFg7xJaNVN2"
	bech32Addr = "bc1qar0srrr7xfkvy5l643lydnw9re59gtzzwf5mdq"
)

func TestFormatAddressOnly(t *testing.T) {
	got := Format(Request{Address: legacyAddr}, &chaincfg.MainNetParams)
	assert.Equal(t, "bitcoin:"+legacyAddr, got)
}

func TestFormatUppercasesBech32(t *testing.T) {
	got := Format(Request{Address: bech32Addr}, &chaincfg.MainNetParams)
	assert.Equal(t, "bitcoin:BC1QAR0SRRR7XFKVY5L643LYDNW9RE59GTZZWF5MDQ", got)

	// Not the active network's prefix: left alone.
	got = Format(Request{Address: bech32Addr}, &chaincfg.TestNet3Params)
	assert.Equal(t, "bitcoin:"+bech32Addr, got)
}

func TestFormatParameters(t *testing.T) {
	req := Request{
		Address: legacyAddr,
		Amount:  btcutil.Amount(150000),
		Label:   "Luke Jr",
		Message: "Donation for project xyz & more",
	}
	got := Format(req, &chaincfg.MainNetParams)
	assert.Equal(t, "bitcoin:"+legacyAddr+
		"?amount=0.0015&label=Luke%20Jr&message=Donation%20for%20project%20xyz%20%26%20more", got)

	got = Format(Request{Address: legacyAddr, Message: "héllo"}, &chaincfg.MainNetParams)
	assert.Equal(t, "bitcoin:"+legacyAddr+"?message=h%C3%A9llo", got)
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "0", FormatAmount(0))
	assert.Equal(t, "1", FormatAmount(btcutil.SatoshiPerBitcoin))
	assert.Equal(t, "0.00000001", FormatAmount(1))
	assert.Equal(t, "20.5", FormatAmount(2050000000))
	assert.Equal(t, "-0.1", FormatAmount(-10000000))
}
