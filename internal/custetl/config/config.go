package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/spf13/viper"
)

type InputCfg struct {
	FilePath string `mapstructure:"file_path"`
}

type OutputCfg struct {
	ExportFile string `mapstructure:"export_file"`
}

type DatabaseCfg struct {
	Driver string `mapstructure:"driver"`
	Host   string `mapstructure:"host"`
	Port   int    `mapstructure:"port"`
	Name   string `mapstructure:"name"`
	Params string `mapstructure:"params"`
}

type LoadCfg struct {
	TablePrefix       string `mapstructure:"table_prefix"`
	BatchSize         int    `mapstructure:"batch_size"`
	SingleTransaction bool   `mapstructure:"single_transaction"`
}

type RunCfg struct {
	AsOf string `mapstructure:"as_of"`
}

type LoggingCfg struct {
	Level  string `mapstructure:"level"`
	RunLog string `mapstructure:"run_log"`
}

type MetricsCfg struct {
	PushgatewayURL string `mapstructure:"pushgateway_url"`
	Job            string `mapstructure:"job"`
}

type Config struct {
	Input    InputCfg    `mapstructure:"input"`
	Output   OutputCfg   `mapstructure:"output"`
	Database DatabaseCfg `mapstructure:"database"`
	Load     LoadCfg     `mapstructure:"load"`
	Run      RunCfg      `mapstructure:"run"`
	Logging  LoggingCfg  `mapstructure:"logging"`
	Metrics  MetricsCfg  `mapstructure:"metrics"`
}

// EnvPrefix is prepended to environment overrides, e.g. CUSTETL_DATABASE_HOST.
const EnvPrefix = "CUSTETL"

var cfg *Config

// SetDefaults registers every known key so env overrides and Unmarshal see it.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("input.file_path", "customers.txt")
	v.SetDefault("output.export_file", "transformed_customer_data.xlsx")
	v.SetDefault("database.driver", "mysql")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 0)
	v.SetDefault("database.name", "hospital_db")
	v.SetDefault("database.params", "")
	v.SetDefault("load.table_prefix", "Table_")
	v.SetDefault("load.batch_size", 500)
	v.SetDefault("load.single_transaction", false)
	v.SetDefault("run.as_of", "")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.run_log", "")
	v.SetDefault("metrics.pushgateway_url", "")
	v.SetDefault("metrics.job", "custetl")
}

// BindEnv enables CUSTETL_* environment overrides on v.
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// Load populates global config from a viper instance
func Load(v *viper.Viper) error {
	SetDefaults(v)

	var c Config
	if err := v.UnmarshalExact(&c); err != nil {
		return fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return err
	}
	cfg = &c
	return nil
}

// Validate checks the values that would otherwise fail late, after the
// export has already been written.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "mysql", "postgres", "sqlite":
	default:
		return fmt.Errorf("config: unsupported database.driver %q (want mysql, postgres or sqlite)", c.Database.Driver)
	}
	if c.Database.Port < 0 {
		return fmt.Errorf("config: database.port must not be negative")
	}
	if c.Load.BatchSize <= 0 {
		return fmt.Errorf("config: load.batch_size must be positive, got %d", c.Load.BatchSize)
	}
	if strings.TrimSpace(c.Input.FilePath) == "" {
		return fmt.Errorf("config: input.file_path is required")
	}
	if strings.TrimSpace(c.Output.ExportFile) == "" {
		return fmt.Errorf("config: output.export_file is required")
	}
	if _, err := c.AsOfDate(); err != nil {
		return err
	}
	return nil
}

// DatabasePort returns the configured port or the driver's usual default.
func (c *Config) DatabasePort() int {
	if c.Database.Port != 0 {
		return c.Database.Port
	}
	switch c.Database.Driver {
	case "postgres":
		return 5432
	case "mysql":
		return 3306
	default:
		return 0
	}
}

// AsOfDate returns the pinned reference date, or the zero time when the run
// should use the current day.
func (c *Config) AsOfDate() (time.Time, error) {
	s := strings.TrimSpace(c.Run.AsOf)
	if s == "" {
		return time.Time{}, nil
	}
	t, err := dateparse.ParseStrict(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("config: run.as_of %q: %w", s, err)
	}
	return t, nil
}

func Get() *Config {
	if cfg == nil {
		cfg = &Config{}
	}
	return cfg
}
