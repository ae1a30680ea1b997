package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/jask/fintrack/internal/config"
	"github.com/jask/fintrack/internal/database"
	"github.com/jask/fintrack/internal/ledger"
	"github.com/jask/fintrack/internal/logger"
	"github.com/jask/fintrack/internal/prefs"
	"github.com/jask/fintrack/internal/storage"
	"github.com/jask/fintrack/internal/testdata"
	"github.com/jask/fintrack/internal/tui"
)

func main() {
	_ = godotenv.Load()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var demo bool

var rootCmd = &cobra.Command{
	Use:          "fintrack",
	Short:        "Track income and expenses in the terminal",
	SilenceUsage: true,
	RunE:         runTUI,
}

func init() {
	rootCmd.Flags().BoolVar(&demo, "demo", false, "Browse generated sample data without touching the ledger")
	rootCmd.AddCommand(summaryCmd, importCmd)
}

// env is everything a command needs once config is resolved.
type env struct {
	cfg     config.Config
	log     zerolog.Logger
	store   *ledger.Store
	persist ledger.Persistence
	close   func()
}

// setup loads config, opens the log file and the configured backend, and
// builds a store over its category table.
func setup(ctx context.Context) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	var logOut io.Writer = io.Discard
	var closers []func()
	if f, err := logger.OpenFile(cfg.Log.Path); err == nil {
		logOut = f
		closers = append(closers, func() { _ = f.Close() })
	} else {
		fmt.Fprintf(os.Stderr, "warn: logging disabled: %v\n", err)
	}
	lvl, err := logger.ParseLevel(cfg.Log.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warn: %v\n", err)
	}
	log := logger.New(logOut).Level(lvl)

	e := &env{cfg: cfg, log: log}
	e.close = func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	var table []ledger.CategoryInfo
	if cfg.Storage.UsesSQLite() {
		b, err := database.OpenBackend(cfg.Storage.Path)
		if err != nil {
			e.close()
			return nil, fmt.Errorf("open ledger: %w", err)
		}
		closers = append(closers, func() { _ = b.Close() })
		if err := database.SeedCategories(ctx, b.DB(), prefs.DefaultCategories()); err != nil {
			e.close()
			return nil, fmt.Errorf("seed categories: %w", err)
		}
		if table, err = b.Categories(ctx); err != nil {
			e.close()
			return nil, fmt.Errorf("load categories: %w", err)
		}
		e.persist = b
	} else {
		if table, err = prefs.LoadCategories(cfg.Storage.CategoriesPath); err != nil {
			e.close()
			return nil, fmt.Errorf("load categories: %w", err)
		}
		e.persist = storage.NewCSVFile(cfg.Storage.Path)
	}
	log.Info().Str("path", cfg.Storage.Path).Bool("sqlite", cfg.Storage.UsesSQLite()).
		Int("categories", len(table)).Msg("ledger opened")

	e.store = ledger.NewStore(ledger.NewCategoryTable(table), ledger.WithLogger(log))
	return e, nil
}

// loadInto fills the store from the backend.
func (e *env) loadInto(ctx context.Context) error {
	txs, err := e.persist.Load(ctx)
	if err != nil {
		return err
	}
	e.store.Load(txs)
	return nil
}

func runTUI(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	e, err := setup(ctx)
	if err != nil {
		return err
	}
	defer e.close()
	ctx = logger.WithContext(ctx, e.log)

	deps := tui.Deps{
		Store:       e.store,
		Persistence: e.persist,
		Config:      e.cfg,
		Logger:      e.log,
	}
	if demo {
		e.store.Load(testdata.Ledger(time.Now().UnixNano(), time.Now()))
		deps.Persistence = nil
		deps.ReadOnly = true
	}

	p := tea.NewProgram(tui.New(ctx, deps), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}
