package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"github.com/jask/fintrack/internal/ledger"
)

// Config holds application configuration.
type Config struct {
	Storage StorageConfig
	Budget  BudgetConfig
	UI      UIConfig
	Log     LogConfig
}

// StorageConfig locates the ledger and the category table.
type StorageConfig struct {
	Path           string
	CategoriesPath string `mapstructure:"categories_path"`
}

// UsesSQLite reports whether Path names a sqlite database rather than a CSV file.
func (s StorageConfig) UsesSQLite() bool {
	switch strings.ToLower(filepath.Ext(s.Path)) {
	case ".db", ".sqlite", ".sqlite3":
		return true
	}
	return false
}

// BudgetConfig holds the yearly budget target and the spending-goal split.
type BudgetConfig struct {
	Target     string
	NeedsPct   int `mapstructure:"needs_pct"`
	WantsPct   int `mapstructure:"wants_pct"`
	SavingsPct int `mapstructure:"savings_pct"`
}

// TargetAmount parses Target; blank means no budget.
func (b BudgetConfig) TargetAmount() (decimal.Decimal, error) {
	if strings.TrimSpace(b.Target) == "" {
		return decimal.Zero, nil
	}
	d, err := ledger.ParseDecimal(b.Target)
	if err != nil {
		return decimal.Zero, fmt.Errorf("budget.target %q: %w", b.Target, err)
	}
	return d, nil
}

// UIConfig holds presentation settings.
type UIConfig struct {
	DateFormat     string `mapstructure:"date_format"`
	CurrencySymbol string `mapstructure:"currency_symbol"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level string
	Path  string
}

// Path returns the config file location. FINTRACK_CONFIG overrides the default.
func Path() string {
	if p := os.Getenv("FINTRACK_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(os.Getenv("HOME"), ".config", "fintrack", "config.toml")
}

// Load reads configuration from file and env. Env var overrides use prefix FINTRACK_.
func Load() (Config, error) {
	v := viper.New()

	home := os.Getenv("HOME")
	v.SetDefault("storage.path", filepath.Join(home, ".local", "share", "fintrack", "transactions.csv"))
	v.SetDefault("storage.categories_path", filepath.Join(home, ".config", "fintrack", "categories.toml"))
	v.SetDefault("budget.target", "0")
	v.SetDefault("budget.needs_pct", 50)
	v.SetDefault("budget.wants_pct", 30)
	v.SetDefault("budget.savings_pct", 20)
	v.SetDefault("ui.date_format", "2006-01-02")
	v.SetDefault("ui.currency_symbol", "$")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.path", filepath.Join(home, ".local", "state", "fintrack", "fintrack.log"))

	v.SetConfigType("toml")
	v.SetConfigFile(Path())

	v.SetEnvPrefix("FINTRACK")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// a missing file just means defaults
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.Is(err, fs.ErrNotExist) && !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks the budget settings.
func (c Config) Validate() error {
	target, err := c.Budget.TargetAmount()
	if err != nil {
		return err
	}
	if target.IsNegative() {
		return fmt.Errorf("budget.target must not be negative, got %s", target)
	}
	pcts := map[string]int{
		"budget.needs_pct":   c.Budget.NeedsPct,
		"budget.wants_pct":   c.Budget.WantsPct,
		"budget.savings_pct": c.Budget.SavingsPct,
	}
	for key, p := range pcts {
		if p < 0 || p > 100 {
			return fmt.Errorf("%s must be between 0 and 100, got %d", key, p)
		}
	}
	if sum := c.Budget.NeedsPct + c.Budget.WantsPct + c.Budget.SavingsPct; sum > 100 {
		return fmt.Errorf("budget goals add up to %d%%, more than 100%%", sum)
	}
	return nil
}

// Save writes the provided config to disk, creating the config directory if needed.
// The Settings view uses it after editing the budget.
func Save(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	path := Path()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("storage.path", cfg.Storage.Path)
	v.Set("storage.categories_path", cfg.Storage.CategoriesPath)
	v.Set("budget.target", cfg.Budget.Target)
	v.Set("budget.needs_pct", cfg.Budget.NeedsPct)
	v.Set("budget.wants_pct", cfg.Budget.WantsPct)
	v.Set("budget.savings_pct", cfg.Budget.SavingsPct)
	v.Set("ui.date_format", cfg.UI.DateFormat)
	v.Set("ui.currency_symbol", cfg.UI.CurrencySymbol)
	v.Set("log.level", cfg.Log.Level)
	v.Set("log.path", cfg.Log.Path)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
