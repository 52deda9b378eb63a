package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "mainnet", cfg.Network)
	assert.Equal(t, "127.0.0.1:8332", cfg.RPC.Host)
	assert.Equal(t, 2*time.Second, cfg.RPC.PollInterval)
	assert.Equal(t, "bech32", cfg.Wallet.AddressType)
	assert.Equal(t, "sync", cfg.Overlay.Type)
	assert.Equal(t, 256, cfg.QRSize)

	params, err := cfg.NetParams()
	require.NoError(t, err)
	assert.Equal(t, chaincfg.MainNetParams.Name, params.Name)
}

func TestLoadFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
network: testnet
rpc:
  host: 10.0.0.2:18332
  poll_interval: 5s
overlay:
  type: backup
spacing_schedule:
  - height: 100
    spacing: 32s
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))
	t.Setenv("SYNCWALLET_RPC_USER", "alice")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "testnet", cfg.Network)
	assert.Equal(t, "10.0.0.2:18332", cfg.RPC.Host)
	assert.Equal(t, "alice", cfg.RPC.User)
	assert.Equal(t, 5*time.Second, cfg.RPC.PollInterval)
	assert.Equal(t, "backup", cfg.Overlay.Type)
	require.Len(t, cfg.SpacingSchedule, 1)
	assert.Equal(t, int32(100), cfg.SpacingSchedule[0].Height)
	assert.Equal(t, 32*time.Second, cfg.SpacingSchedule[0].Spacing)
}

func TestValidateRejectsUnknownValues(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	bad := *cfg
	bad.Network = "moonnet"
	assert.Error(t, bad.Validate())

	bad = *cfg
	bad.Overlay.Type = "modal"
	assert.Error(t, bad.Validate())

	bad = *cfg
	bad.QRSize = 0
	assert.Error(t, bad.Validate())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestNetParams(t *testing.T) {
	for name, want := range map[string]*chaincfg.Params{
		"mainnet":  &chaincfg.MainNetParams,
		"TestNet3": &chaincfg.TestNet3Params,
		"regtest":  &chaincfg.RegressionNetParams,
		"signet":   &chaincfg.SigNetParams,
	} {
		params, err := (&Config{Network: name}).NetParams()
		require.NoError(t, err)
		assert.Same(t, want, params)
	}

	params, err := (&Config{Network: "moonnet"}).NetParams()
	assert.Error(t, err)
	assert.Nil(t, params)
}
