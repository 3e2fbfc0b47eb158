package config

import (
	"time"
)

type (
	Config struct {
		App                App      `json:"app"`
		Postgres           Postgres `json:"postgres"`
		Redis              Redis    `json:"redis"`
		SecretKey          string   `json:"secret_key"`
		NewRelicLicenseKey string   `json:"new_relic_license_key"`

		Ledger LedgerConfig `json:"ledger"`
		Report ReportConfig `json:"report"`
	}

	App struct {
		Env             string        `json:"env"`
		HTTPPort        int           `json:"http_port"`
		HTTPTimeout     time.Duration `json:"http_timeout"`
		GracefulTimeout time.Duration `json:"graceful_timeout"`
		Name            string        `json:"name"`
		LogLevel        string        `json:"log_level"`
	}

	Postgres struct {
		Write Database `json:"write"`
		Read  Database `json:"read"`
	}

	Database struct {
		DbHost            string `json:"db_host"`
		DbPort            string `json:"db_port"`
		DbUser            string `json:"db_user"`
		DbPass            string `json:"db_pass"`
		DbName            string `json:"db_name"`
		DbSchema          string `json:"db_schema"`
		MaxOpenConnection int    `json:"maxOpenConnections"`
		MaxIdleConnection int    `json:"maxIdleConnections"`
		ConnMaxLifetime   int    `json:"connMaxLifetime"`
	}

	Redis struct {
		Host     string `json:"host"`
		Port     string `json:"port"`
		Password string `json:"password"`
		Db       int    `json:"db"`
	}

	// LedgerConfig tunes transaction and reconciliation behavior.
	LedgerConfig struct {
		// MinSplits is the minimum number of splits a transaction must carry.
		MinSplits int `json:"min_splits"`
	}

	ReportConfig struct {
		// ReferenceCacheTTL is how long reference data (accounts, account
		// types, journals) is kept in redis before re-reading from postgres.
		ReferenceCacheTTL time.Duration `json:"reference_cache_ttl"`

		// ProjectionWeeks is how far forward recurring splits are projected
		// in the running balance report.
		ProjectionWeeks int `json:"projection_weeks"`

		// RecurrenceWindowMonths is how far back the recurrence detector
		// looks for repeating payee and memo pairs.
		RecurrenceWindowMonths int `json:"recurrence_window_months"`
	}
)

// WithDefaults fills zero values with sane defaults so a minimal config
// file still yields a working instance.
func (c Config) WithDefaults() Config {
	if c.App.HTTPPort == 0 {
		c.App.HTTPPort = 8080
	}
	if c.App.GracefulTimeout == 0 {
		c.App.GracefulTimeout = 5 * time.Second
	}
	if c.Ledger.MinSplits == 0 {
		c.Ledger.MinSplits = 2
	}
	if c.Report.ReferenceCacheTTL == 0 {
		c.Report.ReferenceCacheTTL = 5 * time.Minute
	}
	if c.Report.ProjectionWeeks == 0 {
		c.Report.ProjectionWeeks = 3
	}
	if c.Report.RecurrenceWindowMonths == 0 {
		c.Report.RecurrenceWindowMonths = 12
	}
	return c
}
