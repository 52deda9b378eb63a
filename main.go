package main

import (
	"context"
	"encoding/hex"
	"flag"
	"fmt"
	"log"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/data/binding"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/btcsuite/btcd/chaincfg"
	"go.uber.org/zap"

	"syncwallet_gui/internal/config"
	"syncwallet_gui/internal/gui"
	"syncwallet_gui/internal/headers"
	"syncwallet_gui/internal/history"
	"syncwallet_gui/internal/logger"
	"syncwallet_gui/internal/models"
	"syncwallet_gui/internal/node"
	"syncwallet_gui/internal/overlay"
	"syncwallet_gui/internal/paymentrequest"
	"syncwallet_gui/internal/qr"
	"syncwallet_gui/internal/wallet"
)

// Global Variables
var (
	myApp      fyne.App
	mainWindow fyne.Window
	zlog       *zap.Logger
	netParams  *chaincfg.Params
	walletSeed []byte

	syncOverlay   *overlay.Controller
	requests      *paymentrequest.Controller
	requestDialog *gui.RequestDialog

	// UI Elements
	statusBinding binding.String
	addressLabel  *widget.Label
)

// --- Setup ---

// openWallet builds the receiving wallet from the configured mnemonic or hex
// seed. Without either, a random seed is generated for this session only.
func openWallet(cfg *config.Config) (*wallet.Wallet, error) {
	if !cfg.Wallet.Enabled {
		return nil, nil
	}
	addressType, err := wallet.ParseAddressType(cfg.Wallet.AddressType)
	if err != nil {
		return nil, err
	}

	switch {
	case cfg.Wallet.Mnemonic != "":
		walletSeed = wallet.SeedFromMnemonic(cfg.Wallet.Mnemonic, cfg.Wallet.Passphrase)
	case cfg.Wallet.SeedHex != "":
		walletSeed, err = wallet.SeedFromHex(cfg.Wallet.SeedHex)
		if err != nil {
			return nil, err
		}
	default:
		walletSeed, err = wallet.RandomSeed()
		if err != nil {
			return nil, fmt.Errorf("failed to generate seed: %w", err)
		}
		zlog.Warn("No wallet seed configured, using a random seed for this session")
	}
	return wallet.NewFromSeed(walletSeed, netParams, addressType, zlog.Named("wallet"))
}

// openHistory returns the request history and a function releasing it.
func openHistory(path string) (history.Store, func(), error) {
	if path == "" {
		return history.NewMemoryStore(), func() {}, nil
	}
	store, err := history.OpenLevelStore(path)
	if err != nil {
		return nil, nil, err
	}
	return store, func() {
		if err := store.Close(); err != nil {
			zlog.Error("Failed to close request history", zap.Error(err))
		}
	}, nil
}

func historyAddresses(store history.Store) []string {
	var addrs []string
	err := store.Walk(func(row models.RecentRequest) bool {
		addrs = append(addrs, row.Request.Address)
		return true
	})
	if err != nil {
		zlog.Error("Failed to read request history", zap.Error(err))
	}
	return addrs
}

func overlayType(name string) overlay.Type {
	if name == "backup" {
		return overlay.TypeBackup
	}
	return overlay.TypeSync
}

func spacingSchedule(cfg *config.Config) []headers.SpacingChange {
	schedule := make([]headers.SpacingChange, 0, len(cfg.SpacingSchedule))
	for _, change := range cfg.SpacingSchedule {
		schedule = append(schedule, headers.SpacingChange{Height: change.Height, Spacing: change.Spacing})
	}
	return schedule
}

// --- UI Logic ---

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	zlog, err = logger.New(cfg.Log.File, cfg.Log.Level)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zlog.Sync()
	netParams, err = cfg.NetParams()
	if err != nil {
		zlog.Fatal("Unsupported network", zap.String("network", cfg.Network), zap.Error(err))
	}

	store, closeStore, err := openHistory(cfg.HistoryPath)
	if err != nil {
		zlog.Fatal("Failed to open request history", zap.Error(err))
	}
	defer closeStore()

	receiveWallet, err := openWallet(cfg)
	if err != nil {
		zlog.Fatal("Failed to open wallet", zap.Error(err))
	}
	// A nil *wallet.Wallet must not reach the controller as a non-nil interface.
	var walletModel paymentrequest.Wallet
	if receiveWallet != nil {
		if err := receiveWallet.Resume(historyAddresses(store)); err != nil {
			zlog.Error("Failed to resume address counters", zap.Error(err))
		}
		walletModel = receiveWallet
	}

	myApp = app.New()
	mainWindow = myApp.NewWindow("Sync Wallet")

	// --- Sync Overlay ---
	syncOverlay = overlay.NewController(
		headers.NewEstimator(netParams, spacingSchedule(cfg)...),
		overlay.WithLogger(zlog.Named("overlay")),
		overlay.WithType(overlayType(cfg.Overlay.Type)),
		overlay.WithWalletEnabled(receiveWallet != nil),
	)
	syncOverlay.OnBackupWallet(showBackup)

	// --- Payment Requests ---
	requests = paymentrequest.NewController(netParams,
		paymentrequest.WithLogger(zlog.Named("paymentrequest")),
		paymentrequest.WithQREncoder(qr.NewEncoder(cfg.QRSize)),
		paymentrequest.WithClipboard(mainWindow.Clipboard()),
	)
	requestDialog = gui.NewRequestDialog(requests, mainWindow, float32(cfg.QRSize))

	// --- Status Label ---
	statusBinding = binding.NewString()
	statusLabel := widget.NewLabelWithData(statusBinding)
	statusLabel.Wrapping = fyne.TextWrapWord
	syncOverlay.OnChanged(func(s overlay.Status) {
		showStatus(fmt.Sprintf("Sync progress %s, last block %s", s.PercentageProgress, s.NewestBlockDate))
	})

	addressLabel = widget.NewLabelWithStyle("", fyne.TextAlignLeading, fyne.TextStyle{Monospace: true})
	addressLabel.Wrapping = fyne.TextWrapBreak
	requests.OnUpdate(func(d paymentrequest.Display) { addressLabel.SetText(d.Address) })
	requests.SetModel(walletModel, store)

	receiveButton := widget.NewButtonWithIcon("Receive", theme.DownloadIcon(), requestDialog.Show)
	receiveButton.Importance = widget.HighImportance

	toolbar := widget.NewToolbar(
		widget.NewToolbarAction(theme.InfoIcon(), syncOverlay.ToggleVisibility),
		widget.NewToolbarSpacer(),
		widget.NewToolbarAction(theme.ContentCopyIcon(), requests.CopyAddress),
	)

	home := container.NewBorder(
		toolbar,
		container.NewVBox(widget.NewSeparator(), statusLabel),
		nil,
		nil,
		container.NewVBox(
			widget.NewCard("Receiving address", "", container.NewPadded(container.NewVBox(
				addressLabel,
				container.NewHBox(layout.NewSpacer(), receiveButton),
			))),
		),
	)

	surface := gui.NewSurface(home)
	overlayView := gui.NewOverlayView(syncOverlay, surface)
	defer overlayView.Close()

	// --- Node Monitor ---
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if cfg.RPC.Enabled {
		monitor := node.NewMonitor(node.Config{
			Host:         cfg.RPC.Host,
			User:         cfg.RPC.User,
			Pass:         cfg.RPC.Pass,
			PollInterval: cfg.RPC.PollInterval,
		}, gui.NewSyncRelay(syncOverlay, nil),
			node.WithLogger(zlog.Named("node")),
			node.WithDispatcher(fyne.Do),
		)
		go monitor.Run(ctx)
		showStatus(fmt.Sprintf("Connecting to node at %s...", cfg.RPC.Host))
	} else {
		showStatus("Node monitoring disabled.")
	}
	if syncOverlay.Type() == overlay.TypeBackup {
		syncOverlay.ShowHide(false, false)
	}

	mainWindow.SetOnClosed(cancel)
	mainWindow.SetContent(surface.Container)
	mainWindow.Resize(fyne.NewSize(900, 650))
	mainWindow.ShowAndRun()
}

// --- Status Update Functions ---
func showStatus(msg string) {
	zlog.Debug("Status", zap.String("message", msg))
	if err := statusBinding.Set(msg); err != nil {
		zlog.Warn("Failed to set status binding", zap.Error(err))
	}
}

// showBackup displays the wallet seed with a copy button.
func showBackup() {
	if walletSeed == nil {
		dialog.ShowInformation("Backup wallet", "This wallet has no seed to back up.", mainWindow)
		return
	}
	seedHex := hex.EncodeToString(walletSeed)
	seedEntry := widget.NewMultiLineEntry()
	seedEntry.SetText(seedHex)
	seedEntry.Wrapping = fyne.TextWrapBreak
	seedEntry.Disable()
	copyButton := widget.NewButtonWithIcon("", theme.ContentCopyIcon(), func() {
		mainWindow.Clipboard().SetContent(seedHex)
		showStatus("Seed copied to clipboard.")
	})
	content := container.NewVBox(
		widget.NewLabel("Write this seed down and keep it somewhere safe. Anyone holding it can spend your funds."),
		container.NewBorder(nil, nil, nil, copyButton, seedEntry),
	)
	dialog.ShowCustom("Backup wallet", "Done", content, mainWindow)
}
