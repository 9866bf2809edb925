package cmd

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/shunichi-ikebuchi/billdivider/pkg/config"
	"github.com/shunichi-ikebuchi/billdivider/pkg/db"
	"github.com/shunichi-ikebuchi/billdivider/pkg/ledger"
	"github.com/shunichi-ikebuchi/billdivider/pkg/pathutil"
	"github.com/shunichi-ikebuchi/billdivider/pkg/report"
	"github.com/shunichi-ikebuchi/billdivider/pkg/roommates"
	"github.com/shunichi-ikebuchi/billdivider/pkg/store/boltstore"
	"github.com/shunichi-ikebuchi/billdivider/pkg/store/memory"
)

// app holds the components every command needs.
type app struct {
	cfg       *config.Config
	paths     *pathutil.PathResolver
	ledger    *ledger.Ledger
	names     *roommates.Directory
	formatter *report.Formatter
	conn      *db.Connection
	closers   []func() error
}

// newApp loads configuration and opens the configured ledger store.
func newApp() (*app, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if storeBackend != "" {
		cfg.Storage.Backend = storeBackend
	}
	if err := cfg.Validate("storage.root", "household.currency"); err != nil {
		return nil, err
	}

	a := &app{
		cfg: cfg,
		paths: pathutil.New(pathutil.Config{
			Root:          cfg.Storage.Root,
			DatabasePath:  cfg.Storage.DBPath,
			BoltPath:      cfg.Storage.BoltPath,
			RoommatesFile: cfg.Household.RoommatesFile,
			ExportDir:     cfg.Household.ExportDir,
		}),
	}

	a.names, err = roommates.LoadOrEmpty(a.paths.GetRoommatesFile())
	if err != nil {
		return nil, err
	}
	a.formatter, err = report.New(cfg.Household.Currency, a.names)
	if err != nil {
		return nil, err
	}

	var store ledger.Store
	switch cfg.Storage.Backend {
	case config.StoreSQLite:
		conn, err := a.database()
		if err != nil {
			return nil, err
		}
		store = db.NewKVStore(conn)
	case config.StoreBolt:
		if err := a.paths.EnsureParentDir(a.paths.GetBoltPath()); err != nil {
			return nil, err
		}
		slog.Debug("Opening bolt store", "path", a.paths.GetBoltPath())
		bs, err := boltstore.New(a.paths.GetBoltPath())
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, bs.Close)
		store = bs
	case config.StoreMemory:
		slog.Warn("Using in-memory store; the ledger is discarded on exit")
		store = memory.New()
	default:
		return nil, fmt.Errorf("unknown store backend: %s", cfg.Storage.Backend)
	}

	a.ledger = ledger.New(store, ledger.WithLogger(slog.Default()))
	return a, nil
}

// database opens the SQLite database once.
func (a *app) database() (*db.Connection, error) {
	if a.conn != nil {
		return a.conn, nil
	}

	slog.Debug("Opening database", "path", a.paths.GetDatabasePath())
	conn, err := db.Open(a.paths.GetDatabasePath())
	if err != nil {
		return nil, err
	}
	a.conn = conn
	a.closers = append(a.closers, conn.Close)
	return conn, nil
}

// Close releases every opened store.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			slog.Error("Failed to close store", "error", err)
		}
	}
}

// mustApp is newApp for command handlers.
func mustApp() *app {
	a, err := newApp()
	exitOnError(err, "failed to initialize")
	return a
}

// resolveRoommate turns a name or number into a roommate id.
func (a *app) resolveRoommate(arg string) (int, error) {
	return a.names.Resolve(arg)
}

func parseAmount(arg string) (float64, error) {
	amount, err := strconv.ParseFloat(arg, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", arg, err)
	}
	return amount, nil
}
