package wallet

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

const testMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

func newTestWallet(t *testing.T, defaultType AddressType) *Wallet {
	t.Helper()
	w, err := NewFromSeed(SeedFromMnemonic(testMnemonic, ""), &chaincfg.MainNetParams, defaultType, zaptest.NewLogger(t))
	require.NoError(t, err)
	return w
}

func TestSeedFromMnemonic(t *testing.T) {
	seed := SeedFromMnemonic("  abandon abandon abandon abandon abandon abandon\nabandon abandon abandon abandon abandon about ", "")
	assert.Equal(t,
		"5eb00bbddcf069084889a8ab9155568165f5c453ccb85e70811aaed6f6da5fc19a5ac40b389cd370d086206dec8aa6c43daea6690f20ad3d8d48b2d2ce9e38e4",
		hex.EncodeToString(seed))
}

func TestSeedFromHex(t *testing.T) {
	seed, err := SeedFromHex(" 000102030405060708090a0b0c0d0e0f ")
	require.NoError(t, err)
	assert.Len(t, seed, 16)

	_, err = SeedFromHex("zz")
	assert.Error(t, err)
}

func TestGenerateReceivingAddressVectors(t *testing.T) {
	w := newTestWallet(t, AddressSegWit)
	require.True(t, w.CanGenerateAddresses())

	first, err := w.GenerateReceivingAddress("first", AddressSegWit)
	require.NoError(t, err)
	assert.Equal(t, "bc1qcr8te4kr609gcawutmrza0j4xv80jy8z306fyu", first)

	second, err := w.GenerateReceivingAddress("", AddressSegWit)
	require.NoError(t, err)
	assert.Equal(t, "bc1qnjg0jd8228aq7egyzacy8cys3knf9xvrerkf9g", second)
	assert.Equal(t, uint32(2), w.NextIndex(AddressSegWit))

	taproot, err := w.GenerateReceivingAddress("", AddressTaproot)
	require.NoError(t, err)
	assert.Equal(t, "bc1p5cyxnuxmeuwuvkwfem96lqzszd02n6xdcjrs20cac6yqjjwudpxqkedrcr", taproot)
}

func TestGenerateReceivingAddressLogsLabel(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	w, err := NewFromSeed(SeedFromMnemonic(testMnemonic, ""), &chaincfg.MainNetParams, AddressSegWit, zap.New(core))
	require.NoError(t, err)

	addr, err := w.GenerateReceivingAddress("rent", AddressSegWit)
	require.NoError(t, err)

	entries := logs.FilterMessage("Generated receiving address").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, addr, fields["address"])
	assert.Equal(t, "rent", fields["label"])
}

func TestGenerateReceivingAddressTypes(t *testing.T) {
	w := newTestWallet(t, AddressLegacy)

	legacy, err := w.GenerateReceivingAddress("", AddressLegacy)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(legacy, "1"), legacy)

	nested, err := w.GenerateReceivingAddress("", AddressNestedSegWit)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(nested, "3"), nested)

	_, err = w.GenerateReceivingAddress("", AddressType(42))
	assert.ErrorIs(t, err, ErrUnknownAddressType)
}

func TestWalletWithoutPrivateKey(t *testing.T) {
	w := New(nil, &chaincfg.MainNetParams, AddressSegWit, nil)
	assert.False(t, w.CanGenerateAddresses())

	_, err := w.GenerateReceivingAddress("", AddressSegWit)
	assert.ErrorIs(t, err, ErrNoSeed)

	master, err := hdkeychain.NewMaster(SeedFromMnemonic(testMnemonic, ""), &chaincfg.MainNetParams)
	require.NoError(t, err)
	public, err := master.Neuter()
	require.NoError(t, err)
	assert.False(t, New(public, &chaincfg.MainNetParams, AddressSegWit, nil).CanGenerateAddresses())
}

func TestResumeSkipsKnownAddresses(t *testing.T) {
	w := newTestWallet(t, AddressSegWit)

	third, err := w.AddressAt(AddressSegWit, 2)
	require.NoError(t, err)
	taproot, err := w.AddressAt(AddressTaproot, 0)
	require.NoError(t, err)

	require.NoError(t, w.Resume([]string{third, taproot, "1BvBMSEYstWetqTFn5Au4m4GFg7xJaNVN2"}))
	assert.Equal(t, uint32(3), w.NextIndex(AddressSegWit))
	assert.Equal(t, uint32(1), w.NextIndex(AddressTaproot))
	assert.Zero(t, w.NextIndex(AddressLegacy))

	next, err := w.GenerateReceivingAddress("", AddressSegWit)
	require.NoError(t, err)
	assert.NotEqual(t, third, next)
}

func TestParseAddressType(t *testing.T) {
	for name, want := range map[string]AddressType{
		"legacy":      AddressLegacy,
		"P2SH-SEGWIT": AddressNestedSegWit,
		"bech32":      AddressSegWit,
		" bech32m ":   AddressTaproot,
	} {
		got, err := ParseAddressType(name)
		require.NoError(t, err)
		assert.Equal(t, want, got)
		assert.NotEmpty(t, got.String())
	}

	_, err := ParseAddressType("p2pk")
	assert.ErrorIs(t, err, ErrUnknownAddressType)
}

func TestScopeUsesNetworkCoinType(t *testing.T) {
	scope, err := AddressSegWit.Scope(&chaincfg.TestNet3Params)
	require.NoError(t, err)
	assert.Equal(t, uint32(84), scope.Purpose)
	assert.Equal(t, uint32(1), scope.Coin)
}
