package node

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/btcsuite/btcd/btcjson"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/rpcclient"
	"go.uber.org/zap"
)

// ChainClient is the part of the node RPC API the monitor uses.
// *rpcclient.Client satisfies it.
type ChainClient interface {
	GetBlockChainInfo() (*btcjson.GetBlockChainInfoResult, error)
	GetBlockHeaderVerbose(hash *chainhash.Hash) (*btcjson.GetBlockHeaderVerboseResult, error)
	RawRequest(method string, params []json.RawMessage) (json.RawMessage, error)
	Ping() error
	Shutdown()
}

// Listener receives chain progress. *overlay.Controller satisfies it.
type Listener interface {
	RecordHeaderHeight(count int32, date time.Time)
	RecordTipUpdate(count int32, blockDate time.Time, progress float64)
}

// Dispatcher runs fn on the goroutine that owns the listener.
type Dispatcher func(fn func())

type Config struct {
	Host         string
	User         string
	Pass         string
	PollInterval time.Duration
}

type Option func(*Monitor)

func WithLogger(l *zap.Logger) Option {
	return func(m *Monitor) { m.log = l }
}

// WithDispatcher hands listener calls to d instead of calling them inline.
func WithDispatcher(d Dispatcher) Option {
	return func(m *Monitor) { m.dispatch = d }
}

// WithDialer replaces the rpcclient connection factory.
func WithDialer(dial func() (ChainClient, error)) Option {
	return func(m *Monitor) { m.dial = dial }
}

// Monitor polls a node and reports header and block tip changes.
type Monitor struct {
	cfg      Config
	log      *zap.Logger
	listener Listener
	dispatch Dispatcher
	dial     func() (ChainClient, error)
	client   ChainClient

	lastHeaders  int32
	lastBlocks   int32
	lastProgress float64
}

func NewMonitor(cfg Config, listener Listener, opts ...Option) *Monitor {
	m := &Monitor{
		cfg:         cfg,
		log:         zap.NewNop(),
		listener:    listener,
		dispatch:    func(fn func()) { fn() },
		lastHeaders: -1,
		lastBlocks:  -1,
	}
	m.dial = m.dialRPC
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// connConfig mirrors how a node URL is typed by users: a bare host:port,
// or an http:// / https:// URL.
func connConfig(cfg Config) *rpcclient.ConnConfig {
	connCfg := &rpcclient.ConnConfig{
		Host:         cfg.Host,
		User:         cfg.User,
		Pass:         cfg.Pass,
		HTTPPostMode: true,
		DisableTLS:   true,
	}
	if strings.HasPrefix(strings.ToLower(cfg.Host), "https://") {
		connCfg.DisableTLS = false
		connCfg.Host = cfg.Host[len("https://"):]
	} else if strings.HasPrefix(strings.ToLower(cfg.Host), "http://") {
		connCfg.Host = cfg.Host[len("http://"):]
	}
	return connCfg
}

func (m *Monitor) dialRPC() (ChainClient, error) {
	connCfg := connConfig(m.cfg)
	client, err := rpcclient.New(connCfg, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to node RPC at %s: %w", connCfg.Host, err)
	}
	return client, nil
}

// connect returns the cached client while it still answers pings.
func (m *Monitor) connect() (ChainClient, error) {
	if m.client != nil {
		err := m.client.Ping()
		if err == nil {
			return m.client, nil
		}
		m.log.Warn("RPC ping failed, reconnecting", zap.Error(err))
		m.disconnect()
	}

	client, err := m.dial()
	if err != nil {
		return nil, err
	}
	m.client = client
	return client, nil
}

func (m *Monitor) disconnect() {
	if m.client != nil {
		m.client.Shutdown()
		m.client = nil
	}
}

// Run polls until ctx is cancelled. Poll errors are logged and retried on
// the next tick.
func (m *Monitor) Run(ctx context.Context) {
	interval := m.cfg.PollInterval
	if interval <= 0 {
		interval = 2 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	defer m.disconnect()

	m.log.Info("Node monitor started", zap.String("host", m.cfg.Host), zap.Duration("interval", interval))
	for {
		if err := m.Poll(); err != nil {
			m.log.Warn("Node poll failed", zap.Error(err))
		}
		select {
		case <-ctx.Done():
			m.log.Info("Node monitor stopped")
			return
		case <-ticker.C:
		}
	}
}

// Poll queries the node once and emits whatever changed since the last poll.
func (m *Monitor) Poll() error {
	client, err := m.connect()
	if err != nil {
		return err
	}

	info, err := client.GetBlockChainInfo()
	if err != nil {
		m.disconnect()
		return fmt.Errorf("getblockchaininfo failed: %w", err)
	}

	if info.Headers != m.lastHeaders {
		date, err := m.bestHeaderTime(client, info)
		if err != nil {
			m.log.Warn("Could not resolve best header time", zap.Int32("headers", info.Headers), zap.Error(err))
		} else {
			height := info.Headers
			m.lastHeaders = height
			m.dispatch(func() { m.listener.RecordHeaderHeight(height, date) })
		}
	}

	if info.Blocks != m.lastBlocks || info.VerificationProgress != m.lastProgress {
		date, err := m.headerTime(client, info.BestBlockHash)
		if err != nil {
			return fmt.Errorf("failed to read tip header: %w", err)
		}
		height, progress := info.Blocks, info.VerificationProgress
		m.lastBlocks, m.lastProgress = height, progress
		m.dispatch(func() { m.listener.RecordTipUpdate(height, date, progress) })
	}
	return nil
}

func (m *Monitor) headerTime(client ChainClient, hashStr string) (time.Time, error) {
	hash, err := chainhash.NewHashFromStr(hashStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid block hash %q: %w", hashStr, err)
	}
	header, err := client.GetBlockHeaderVerbose(hash)
	if err != nil {
		return time.Time{}, fmt.Errorf("getblockheader %s failed: %w", hashStr, err)
	}
	return time.Unix(header.Time, 0), nil
}

type chainTip struct {
	Height int32  `json:"height"`
	Hash   string `json:"hash"`
	Status string `json:"status"`
}

var errNoHeaderTip = errors.New("no usable chain tip")

// bestHeaderTime finds the tallest non-invalid chain tip, which may be a
// headers-only branch ahead of the validated chain.
func (m *Monitor) bestHeaderTime(client ChainClient, info *btcjson.GetBlockChainInfoResult) (time.Time, error) {
	if info.Headers == info.Blocks {
		return m.headerTime(client, info.BestBlockHash)
	}

	raw, err := client.RawRequest("getchaintips", nil)
	if err != nil {
		return time.Time{}, fmt.Errorf("getchaintips failed: %w", err)
	}
	var tips []chainTip
	if err := json.Unmarshal(raw, &tips); err != nil {
		return time.Time{}, fmt.Errorf("failed to decode getchaintips result: %w", err)
	}

	var best *chainTip
	for i := range tips {
		tip := &tips[i]
		if tip.Status == "invalid" {
			continue
		}
		if best == nil || tip.Height > best.Height {
			best = tip
		}
	}
	if best == nil {
		return time.Time{}, errNoHeaderTip
	}
	return m.headerTime(client, best.Hash)
}
