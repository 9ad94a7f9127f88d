// Package store owns the database side of a run: connecting to the target
// and replacing the per-country customer tables.
package store

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/vaibhaw-/custetl/internal/custetl/etlerr"
	"github.com/vaibhaw-/custetl/internal/custetl/logger"
)

// Options selects and addresses the target database.
type Options struct {
	Driver string // mysql | postgres | sqlite
	Host   string
	Port   int
	Name   string // database name; file path for sqlite
	Params string // extra DSN query parameters, e.g. "tls=true"
}

// Credentials are supplied on the command line, never from config.
type Credentials struct {
	User     string
	Password string
}

// Conn is the single serial session used for the whole load.
type Conn struct {
	db      *sql.DB
	dialect Dialect
}

// Open connects and pings the target. Any failure, including a bad login,
// is an *etlerr.ConnectionError.
func Open(ctx context.Context, opts Options, creds Credentials) (*Conn, error) {
	log := logger.L()

	dialect, err := DialectFor(opts.Driver)
	if err != nil {
		return nil, etlerr.NewConnectionError(opts.Driver, opts.Host, err)
	}

	db, err := openDB(opts, creds)
	if err != nil {
		return nil, etlerr.NewConnectionError(opts.Driver, opts.Host, err)
	}
	// One connection: create, delete and insert run in a single session.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, etlerr.NewConnectionError(opts.Driver, opts.Host, err)
	}

	log.Infow("connected to database",
		"driver", opts.Driver,
		"host", opts.Host,
		"port", opts.Port,
		"database", opts.Name,
		"user", creds.User)
	return &Conn{db: db, dialect: dialect}, nil
}

// NewConn wraps an already open *sql.DB, mainly for tests.
func NewConn(db *sql.DB, driver string) (*Conn, error) {
	d, err := DialectFor(driver)
	if err != nil {
		return nil, err
	}
	return &Conn{db: db, dialect: d}, nil
}

// DB exposes the underlying handle.
func (c *Conn) DB() *sql.DB { return c.db }

// Dialect returns the SQL dialect in use.
func (c *Conn) Dialect() Dialect { return c.dialect }

// Close closes the session.
func (c *Conn) Close() error { return c.db.Close() }

func openDB(opts Options, creds Credentials) (*sql.DB, error) {
	dsn, err := buildDSN(opts, creds)
	if err != nil {
		return nil, err
	}

	var connector driver.Connector
	switch opts.Driver {
	case "mysql":
		mcfg, err := mysql.ParseDSN(dsn)
		if err != nil {
			return nil, fmt.Errorf("mysql dsn: %w", err)
		}
		connector, err = mysql.NewConnector(mcfg)
		if err != nil {
			return nil, err
		}
	case "postgres":
		connector, err = pq.NewConnector(dsn)
		if err != nil {
			return nil, fmt.Errorf("postgres dsn: %w", err)
		}
	default:
		return sql.Open("sqlite", dsn)
	}
	return sql.OpenDB(connector), nil
}

// buildDSN constructs a DSN for mysql/postgres/sqlite
func buildDSN(opts Options, creds Credentials) (string, error) {
	params := strings.TrimPrefix(strings.TrimSpace(opts.Params), "?")
	if params != "" {
		if _, err := url.ParseQuery(params); err != nil {
			return "", fmt.Errorf("database.params: %w", err)
		}
	}
	addr := net.JoinHostPort(opts.Host, strconv.Itoa(opts.Port))

	switch opts.Driver {
	case "mysql":
		mcfg := mysql.NewConfig()
		mcfg.User = creds.User
		mcfg.Passwd = creds.Password
		mcfg.Net = "tcp"
		mcfg.Addr = addr
		mcfg.DBName = opts.Name
		mcfg.ParseTime = true
		dsn := mcfg.FormatDSN()
		if params != "" {
			dsn += "&" + params
		}
		return dsn, nil
	case "postgres":
		if params == "" {
			params = "sslmode=disable"
		}
		u := url.URL{
			Scheme:   "postgres",
			User:     url.UserPassword(creds.User, creds.Password),
			Host:     addr,
			Path:     "/" + opts.Name,
			RawQuery: params,
		}
		return u.String(), nil
	case "sqlite":
		if params != "" {
			return opts.Name + "?" + params, nil
		}
		return opts.Name, nil
	default:
		return "", fmt.Errorf("unsupported driver %q", opts.Driver)
	}
}
