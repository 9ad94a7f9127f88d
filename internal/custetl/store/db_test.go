package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaibhaw-/custetl/internal/custetl/etlerr"
)

func TestBuildDSN_MySQL(t *testing.T) {
	dsn, err := buildDSN(Options{Driver: "mysql", Host: "localhost", Port: 3306, Name: "hospital_db"},
		Credentials{User: "root", Password: "p@ss:word"})
	require.NoError(t, err)

	cfg, err := mysql.ParseDSN(dsn)
	require.NoError(t, err)
	assert.Equal(t, "root", cfg.User)
	assert.Equal(t, "p@ss:word", cfg.Passwd)
	assert.Equal(t, "tcp", cfg.Net)
	assert.Equal(t, "localhost:3306", cfg.Addr)
	assert.Equal(t, "hospital_db", cfg.DBName)
	assert.True(t, cfg.ParseTime)
}

func TestBuildDSN_MySQLParams(t *testing.T) {
	dsn, err := buildDSN(Options{Driver: "mysql", Host: "db", Port: 3307, Name: "x", Params: "timeout=5s"},
		Credentials{User: "u", Password: "p"})
	require.NoError(t, err)

	cfg, err := mysql.ParseDSN(dsn)
	require.NoError(t, err)
	assert.Equal(t, "5s", cfg.Timeout.String())
}

func TestBuildDSN_Postgres(t *testing.T) {
	dsn, err := buildDSN(Options{Driver: "postgres", Host: "pg", Port: 5432, Name: "hospital_db"},
		Credentials{User: "app", Password: "a/b?c"})
	require.NoError(t, err)
	assert.Equal(t, "postgres://app:a%2Fb%3Fc@pg:5432/hospital_db?sslmode=disable", dsn)

	dsn, err = buildDSN(Options{Driver: "postgres", Host: "pg", Port: 5432, Name: "db", Params: "sslmode=require"},
		Credentials{User: "app", Password: "x"})
	require.NoError(t, err)
	assert.Equal(t, "postgres://app:x@pg:5432/db?sslmode=require", dsn)
}

func TestBuildDSN_SQLite(t *testing.T) {
	dsn, err := buildDSN(Options{Driver: "sqlite", Name: "/tmp/x.db"}, Credentials{User: "ignored"})
	require.NoError(t, err)
	assert.Equal(t, "/tmp/x.db", dsn)
}

func TestBuildDSN_BadParams(t *testing.T) {
	_, err := buildDSN(Options{Driver: "mysql", Params: "a=%zz"}, Credentials{})
	assert.Error(t, err)
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), Options{Driver: "oracle"}, Credentials{})

	var ce *etlerr.ConnectionError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "oracle", ce.Driver)
}

func TestOpen_Unreachable(t *testing.T) {
	// Nothing listens on port 1 of the loopback interface.
	_, err := Open(context.Background(),
		Options{Driver: "postgres", Host: "127.0.0.1", Port: 1, Name: "x"},
		Credentials{User: "u", Password: "p"})

	var ce *etlerr.ConnectionError
	require.True(t, errors.As(err, &ce))
}

func TestOpen_SQLite(t *testing.T) {
	conn, err := Open(context.Background(),
		Options{Driver: "sqlite", Name: filepath.Join(t.TempDir(), "test.db")}, Credentials{})
	require.NoError(t, err)
	defer conn.Close()

	assert.Equal(t, "sqlite", conn.Dialect().Name)
	assert.NoError(t, conn.DB().Ping())
}
