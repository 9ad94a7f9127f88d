// Package etlerr holds the typed errors returned at custetl component
// boundaries. Every type wraps its cause so errors.Is/As see through it.
package etlerr

import (
	"fmt"
	"strings"
)

// ReadError means the input file is missing, unreadable or malformed.
type ReadError struct {
	Path string
	Line int // 0 when the failure is not tied to a line
	Err  error
}

func (e *ReadError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("read %s line %d: %v", e.Path, e.Line, e.Err)
	}
	return fmt.Sprintf("read %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// NewReadError builds a ReadError.
func NewReadError(path string, line int, err error) error {
	return &ReadError{Path: path, Line: line, Err: err}
}

// ParseError is a field-level date parse failure. It never aborts a run; the
// transformer counts it and turns the field into a missing value.
type ParseError struct {
	Field string
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s %q: %v", e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ExportError means the spreadsheet could not be written.
type ExportError struct {
	Path string
	Err  error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export %s: %v", e.Path, e.Err)
}

func (e *ExportError) Unwrap() error { return e.Err }

// NewExportError builds an ExportError.
func NewExportError(path string, err error) error {
	return &ExportError{Path: path, Err: err}
}

// ConnectionError means the database is unreachable or rejected the login.
type ConnectionError struct {
	Driver string
	Host   string
	Err    error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connect %s at %s: %v", e.Driver, e.Host, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// NewConnectionError builds a ConnectionError.
func NewConnectionError(driver, host string, err error) error {
	return &ConnectionError{Driver: driver, Host: host, Err: err}
}

// LoadError means a create, delete or insert statement failed for a country.
// Committed lists the countries whose tables were already replaced.
type LoadError struct {
	Country   string
	Table     string
	Committed []string
	Err       error
}

func (e *LoadError) Error() string {
	msg := fmt.Sprintf("load country %q into %s: %v", e.Country, e.Table, e.Err)
	if len(e.Committed) > 0 {
		msg += fmt.Sprintf(" (already committed: %s)", strings.Join(e.Committed, ","))
	}
	return msg
}

func (e *LoadError) Unwrap() error { return e.Err }

// NewLoadError builds a LoadError. The committed slice is copied.
func NewLoadError(country, table string, committed []string, err error) error {
	return &LoadError{
		Country:   country,
		Table:     table,
		Committed: append([]string(nil), committed...),
		Err:       err,
	}
}
