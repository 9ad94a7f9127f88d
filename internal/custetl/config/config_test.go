package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	v := viper.New()
	require.NoError(t, Load(v))

	cfg := Get()
	assert.Equal(t, "customers.txt", cfg.Input.FilePath)
	assert.Equal(t, "transformed_customer_data.xlsx", cfg.Output.ExportFile)
	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, "hospital_db", cfg.Database.Name)
	assert.Equal(t, 3306, cfg.DatabasePort())
	assert.Equal(t, "Table_", cfg.Load.TablePrefix)
	assert.Equal(t, 500, cfg.Load.BatchSize)
	assert.False(t, cfg.Load.SingleTransaction)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "custetl", cfg.Metrics.Job)

	asOf, err := cfg.AsOfDate()
	require.NoError(t, err)
	assert.True(t, asOf.IsZero())
}

func TestLoad_FullConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
input:
  file_path: ./data/customers.txt
output:
  export_file: ./out/customers.xlsx
database:
  driver: postgres
  host: db.internal
  name: clinic
  params: sslmode=require
load:
  table_prefix: cust_
  batch_size: 50
  single_transaction: true
run:
  as_of: "2024-03-15"
logging:
  level: debug
  run_log: ./run.jsonl
metrics:
  pushgateway_url: http://pushgateway:9091
  job: nightly
`), 0o644))

	v := viper.New()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())
	require.NoError(t, Load(v))

	cfg := Get()
	assert.Equal(t, "./data/customers.txt", cfg.Input.FilePath)
	assert.Equal(t, "./out/customers.xlsx", cfg.Output.ExportFile)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.DatabasePort())
	assert.Equal(t, "clinic", cfg.Database.Name)
	assert.Equal(t, "sslmode=require", cfg.Database.Params)
	assert.Equal(t, "cust_", cfg.Load.TablePrefix)
	assert.Equal(t, 50, cfg.Load.BatchSize)
	assert.True(t, cfg.Load.SingleTransaction)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "./run.jsonl", cfg.Logging.RunLog)
	assert.Equal(t, "http://pushgateway:9091", cfg.Metrics.PushgatewayURL)
	assert.Equal(t, "nightly", cfg.Metrics.Job)

	asOf, err := cfg.AsOfDate()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), asOf)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("CUSTETL_DATABASE_HOST", "env-host")
	t.Setenv("CUSTETL_LOAD_BATCH_SIZE", "7")

	v := viper.New()
	BindEnv(v)
	require.NoError(t, Load(v))

	assert.Equal(t, "env-host", Get().Database.Host)
	assert.Equal(t, 7, Get().Load.BatchSize)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  any
	}{
		{"unknown driver", "database.driver", "oracle"},
		{"zero batch", "load.batch_size", 0},
		{"non numeric batch", "load.batch_size", "many"},
		{"bad as_of", "run.as_of", "not a date"},
		{"empty input", "input.file_path", " "},
		{"negative port", "database.port", -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := viper.New()
			v.Set(tt.key, tt.val)
			assert.Error(t, Load(v))
		})
	}
}

func TestLoad_UnknownKeyRejected(t *testing.T) {
	v := viper.New()
	v.Set("database.hostname", "typo")
	assert.Error(t, Load(v))
}

func TestGet_NilConfig(t *testing.T) {
	cfg = nil

	c := Get()
	require.NotNil(t, c)
	assert.Equal(t, "", c.Database.Driver)
	assert.Same(t, c, Get())
}

func TestDatabasePort_SQLite(t *testing.T) {
	c := &Config{Database: DatabaseCfg{Driver: "sqlite"}}
	assert.Equal(t, 0, c.DatabasePort())
}
