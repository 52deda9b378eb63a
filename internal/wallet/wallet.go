package wallet

import (
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
	"go.uber.org/zap"
	"golang.org/x/crypto/pbkdf2"
)

const (
	DefaultAccount uint32 = 0
	ExternalChain  uint32 = 0

	// ResumeSearchLimit bounds how far Resume looks for known addresses.
	ResumeSearchLimit uint32 = 200

	bip39Rounds  = 2048
	bip39SeedLen = 64
)

var ErrNoSeed = errors.New("wallet has no private master key")

// SeedFromMnemonic stretches a BIP39 mnemonic and passphrase into a seed.
// Words are whitespace-normalized; the checksum is not verified.
func SeedFromMnemonic(mnemonic, passphrase string) []byte {
	words := strings.Join(strings.Fields(mnemonic), " ")
	return pbkdf2.Key([]byte(words), []byte("mnemonic"+passphrase), bip39Rounds, bip39SeedLen, sha512.New)
}

// SeedFromHex decodes a hex encoded seed.
func SeedFromHex(s string) ([]byte, error) {
	seed, err := hex.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("invalid hex seed: %w", err)
	}
	return seed, nil
}

// RandomSeed returns a fresh seed of the recommended length.
func RandomSeed() ([]byte, error) {
	return hdkeychain.GenerateSeed(hdkeychain.RecommendedSeedLen)
}

// Wallet hands out receiving addresses from an HD master key, one external
// chain per address type.
type Wallet struct {
	log         *zap.Logger
	params      *chaincfg.Params
	master      *hdkeychain.ExtendedKey
	defaultType AddressType
	nextIndex   map[AddressType]uint32
}

// New wraps master. A nil or public master key yields a wallet that cannot
// generate addresses.
func New(master *hdkeychain.ExtendedKey, params *chaincfg.Params, defaultType AddressType, log *zap.Logger) *Wallet {
	if log == nil {
		log = zap.NewNop()
	}
	return &Wallet{
		log:         log,
		params:      params,
		master:      master,
		defaultType: defaultType,
		nextIndex:   make(map[AddressType]uint32),
	}
}

// NewFromSeed derives the master key from seed.
func NewFromSeed(seed []byte, params *chaincfg.Params, defaultType AddressType, log *zap.Logger) (*Wallet, error) {
	master, err := hdkeychain.NewMaster(seed, params)
	if err != nil {
		return nil, fmt.Errorf("failed to derive master key: %w", err)
	}
	return New(master, params, defaultType, log), nil
}

func (w *Wallet) DefaultAddressType() AddressType { return w.defaultType }

// CanGenerateAddresses reports whether hardened derivation is possible.
func (w *Wallet) CanGenerateAddresses() bool {
	return w.master != nil && w.master.IsPrivate()
}

// chainKey derives m/purpose'/coin'/account'/chain for t.
func (w *Wallet) chainKey(t AddressType, chain uint32) (*hdkeychain.ExtendedKey, error) {
	scope, err := t.Scope(w.params)
	if err != nil {
		return nil, err
	}
	purposeKey, err := w.master.Derive(scope.Purpose + hdkeychain.HardenedKeyStart)
	if err != nil {
		return nil, fmt.Errorf("failed to derive purpose key: %w", err)
	}
	coinTypeKey, err := purposeKey.Derive(scope.Coin + hdkeychain.HardenedKeyStart)
	if err != nil {
		return nil, fmt.Errorf("failed to derive coin type key: %w", err)
	}
	accountKey, err := coinTypeKey.Derive(DefaultAccount + hdkeychain.HardenedKeyStart)
	if err != nil {
		return nil, fmt.Errorf("failed to derive account key: %w", err)
	}
	chainKey, err := accountKey.Derive(chain)
	if err != nil {
		return nil, fmt.Errorf("failed to derive chain key: %w", err)
	}
	return chainKey, nil
}

func addressAt(chainKey *hdkeychain.ExtendedKey, t AddressType, index uint32, params *chaincfg.Params) (string, error) {
	indexKey, err := chainKey.Derive(index)
	if err != nil {
		return "", fmt.Errorf("failed to derive index key %d: %w", index, err)
	}
	pubKey, err := indexKey.ECPubKey()
	if err != nil {
		return "", fmt.Errorf("failed to get public key: %w", err)
	}
	addr, err := encodeAddress(t, pubKey, params)
	if err != nil {
		return "", err
	}
	return addr.EncodeAddress(), nil
}

// AddressAt derives the external address of type t at index without
// touching the wallet's counters.
func (w *Wallet) AddressAt(t AddressType, index uint32) (string, error) {
	if !w.CanGenerateAddresses() {
		return "", ErrNoSeed
	}
	chainKey, err := w.chainKey(t, ExternalChain)
	if err != nil {
		return "", err
	}
	return addressAt(chainKey, t, index, w.params)
}

// GenerateReceivingAddress returns the next unused external address of
// type t. The label is only logged; the request history keeps it.
func (w *Wallet) GenerateReceivingAddress(label string, t AddressType) (string, error) {
	if !w.CanGenerateAddresses() {
		return "", ErrNoSeed
	}
	chainKey, err := w.chainKey(t, ExternalChain)
	if err != nil {
		return "", err
	}

	// Indices that do not yield a valid child are skipped per BIP32.
	index := w.nextIndex[t]
	for {
		addr, err := addressAt(chainKey, t, index, w.params)
		index++
		if errors.Is(err, hdkeychain.ErrInvalidChild) {
			continue
		}
		if err != nil {
			return "", err
		}
		w.nextIndex[t] = index
		w.log.Debug("Generated receiving address",
			zap.String("address", addr),
			zap.String("label", label),
			zap.String("type", t.String()),
			zap.Uint32("index", index-1))
		return addr, nil
	}
}


// NextIndex returns the index the next address of type t will use.
func (w *Wallet) NextIndex(t AddressType) uint32 { return w.nextIndex[t] }

// Resume advances the counters past every address in known that this wallet
// derives within ResumeSearchLimit, so restarts do not hand out used
// addresses again.
func (w *Wallet) Resume(known []string) error {
	if !w.CanGenerateAddresses() || len(known) == 0 {
		return nil
	}
	pending := make(map[string]struct{}, len(known))
	for _, addr := range known {
		pending[addr] = struct{}{}
	}

	for _, t := range AllAddressTypes {
		chainKey, err := w.chainKey(t, ExternalChain)
		if err != nil {
			return err
		}
		for index := uint32(0); index < ResumeSearchLimit && len(pending) > 0; index++ {
			addr, err := addressAt(chainKey, t, index, w.params)
			if err != nil {
				continue
			}
			if _, ok := pending[addr]; !ok {
				continue
			}
			delete(pending, addr)
			if index+1 > w.nextIndex[t] {
				w.nextIndex[t] = index + 1
			}
		}
	}

	if len(pending) > 0 {
		w.log.Info("Some history addresses were not found in the wallet",
			zap.Int("count", len(pending)),
			zap.Uint32("search_limit", ResumeSearchLimit))
	}
	return nil
}
