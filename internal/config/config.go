package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g. SYNCWALLET_RPC_HOST.
const EnvPrefix = "SYNCWALLET"

// SpacingChange switches the expected block interval from Height onward.
type SpacingChange struct {
	Height  int32         `mapstructure:"height"`
	Spacing time.Duration `mapstructure:"spacing"`
}

type RPC struct {
	Host         string        `mapstructure:"host"`
	User         string        `mapstructure:"user"`
	Pass         string        `mapstructure:"pass"`
	PollInterval time.Duration `mapstructure:"poll_interval"`
	Enabled      bool          `mapstructure:"enabled"`
}

type Log struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

type Wallet struct {
	Mnemonic    string `mapstructure:"mnemonic"`
	Passphrase  string `mapstructure:"passphrase"`
	SeedHex     string `mapstructure:"seed_hex"`
	AddressType string `mapstructure:"address_type"`
	Enabled     bool   `mapstructure:"enabled"`
}

type Overlay struct {
	Type string `mapstructure:"type"`
}

type Config struct {
	Network         string          `mapstructure:"network"`
	RPC             RPC             `mapstructure:"rpc"`
	Log             Log             `mapstructure:"log"`
	Wallet          Wallet          `mapstructure:"wallet"`
	Overlay         Overlay         `mapstructure:"overlay"`
	HistoryPath     string          `mapstructure:"history_path"`
	QRSize          int             `mapstructure:"qr_size"`
	SpacingSchedule []SpacingChange `mapstructure:"spacing_schedule"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("network", "mainnet")
	v.SetDefault("rpc.host", "127.0.0.1:8332")
	v.SetDefault("rpc.user", "")
	v.SetDefault("rpc.pass", "")
	v.SetDefault("rpc.poll_interval", 2*time.Second)
	v.SetDefault("rpc.enabled", true)
	v.SetDefault("log.file", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("wallet.mnemonic", "")
	v.SetDefault("wallet.passphrase", "")
	v.SetDefault("wallet.seed_hex", "")
	v.SetDefault("wallet.address_type", "bech32")
	v.SetDefault("wallet.enabled", true)
	v.SetDefault("overlay.type", "sync")
	v.SetDefault("history_path", "")
	v.SetDefault("qr_size", 256)
}

// Load reads the YAML file at path (optional when empty) and applies
// SYNCWALLET_* environment overrides on top of the defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values viper cannot type-check on its own.
func (c *Config) Validate() error {
	if _, err := c.NetParams(); err != nil {
		return err
	}
	if c.RPC.PollInterval <= 0 {
		return errors.New("rpc.poll_interval must be positive")
	}
	if c.QRSize <= 0 {
		return errors.New("qr_size must be positive")
	}
	switch c.Overlay.Type {
	case "sync", "backup":
	default:
		return fmt.Errorf("unknown overlay.type %q", c.Overlay.Type)
	}
	for _, change := range c.SpacingSchedule {
		if change.Spacing <= 0 {
			return fmt.Errorf("spacing at height %d must be positive", change.Height)
		}
	}
	return nil
}

// NetParams maps the configured network name onto btcd chain parameters.
func (c *Config) NetParams() (*chaincfg.Params, error) {
	switch strings.ToLower(c.Network) {
	case "mainnet", "main":
		return &chaincfg.MainNetParams, nil
	case "testnet", "testnet3":
		return &chaincfg.TestNet3Params, nil
	case "regtest":
		return &chaincfg.RegressionNetParams, nil
	case "signet":
		return &chaincfg.SigNetParams, nil
	case "simnet":
		return &chaincfg.SimNetParams, nil
	default:
		return nil, fmt.Errorf("unknown network %q", c.Network)
	}
}
