package wallet

import (
	"errors"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/schnorr"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcwallet/waddrmgr"
)

// AddressType is the output type used for new receiving addresses.
type AddressType int

const (
	AddressLegacy AddressType = iota
	AddressNestedSegWit
	AddressSegWit
	AddressTaproot
)

// AllAddressTypes lists every supported output type.
var AllAddressTypes = []AddressType{AddressLegacy, AddressNestedSegWit, AddressSegWit, AddressTaproot}

var ErrUnknownAddressType = errors.New("unknown address type")

func (t AddressType) String() string {
	switch t {
	case AddressLegacy:
		return "legacy"
	case AddressNestedSegWit:
		return "p2sh-segwit"
	case AddressSegWit:
		return "bech32"
	case AddressTaproot:
		return "bech32m"
	default:
		return fmt.Sprintf("AddressType(%d)", int(t))
	}
}

// ParseAddressType accepts the names bitcoind uses for -addresstype.
func ParseAddressType(s string) (AddressType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "legacy", "p2pkh":
		return AddressLegacy, nil
	case "p2sh-segwit", "nested", "p2sh-p2wpkh":
		return AddressNestedSegWit, nil
	case "bech32", "p2wpkh", "segwit":
		return AddressSegWit, nil
	case "bech32m", "p2tr", "taproot":
		return AddressTaproot, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownAddressType, s)
	}
}

// Scope returns the BIP44-style key scope for t on the given network.
func (t AddressType) Scope(params *chaincfg.Params) (waddrmgr.KeyScope, error) {
	var scope waddrmgr.KeyScope
	switch t {
	case AddressLegacy:
		scope = waddrmgr.KeyScopeBIP0044
	case AddressNestedSegWit:
		scope = waddrmgr.KeyScopeBIP0049Plus
	case AddressSegWit:
		scope = waddrmgr.KeyScopeBIP0084
	case AddressTaproot:
		scope = waddrmgr.KeyScopeBIP0086
	default:
		return waddrmgr.KeyScope{}, fmt.Errorf("%w: %d", ErrUnknownAddressType, int(t))
	}
	scope.Coin = params.HDCoinType
	return scope, nil
}

// encodeAddress renders pubKey as an address of type t.
func encodeAddress(t AddressType, pubKey *btcec.PublicKey, params *chaincfg.Params) (btcutil.Address, error) {
	switch t {
	case AddressLegacy:
		return btcutil.NewAddressPubKeyHash(btcutil.Hash160(pubKey.SerializeCompressed()), params)
	case AddressNestedSegWit:
		return nestedSegWitAddress(pubKey, params)
	case AddressSegWit:
		return btcutil.NewAddressWitnessPubKeyHash(btcutil.Hash160(pubKey.SerializeCompressed()), params)
	case AddressTaproot:
		taprootKey := txscript.ComputeTaprootKeyNoScript(pubKey)
		return btcutil.NewAddressTaproot(schnorr.SerializePubKey(taprootKey), params)
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownAddressType, int(t))
	}
}

// nestedSegWitAddress wraps a P2WPKH witness program in P2SH.
func nestedSegWitAddress(pubKey *btcec.PublicKey, params *chaincfg.Params) (btcutil.Address, error) {
	builder := txscript.NewScriptBuilder()
	builder.AddOp(txscript.OP_0)
	builder.AddData(btcutil.Hash160(pubKey.SerializeCompressed()))
	witnessScript, err := builder.Script()
	if err != nil {
		return nil, fmt.Errorf("failed to build witness script: %w", err)
	}
	return btcutil.NewAddressScriptHashFromHash(btcutil.Hash160(witnessScript), params)
}
