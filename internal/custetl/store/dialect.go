package store

import (
	"fmt"
	"strings"
)

// Dialect captures the SQL differences between the supported targets.
type Dialect struct {
	Name        string
	quote       func(ident string) string
	placeholder func(n int) string // n is 1-based
	tableSuffix string
}

var dialects = map[string]Dialect{
	"mysql": {
		Name:        "mysql",
		quote:       func(s string) string { return "`" + s + "`" },
		placeholder: func(int) string { return "?" },
		tableSuffix: " ENGINE=InnoDB DEFAULT CHARSET=utf8mb4",
	},
	"postgres": {
		Name:        "postgres",
		quote:       func(s string) string { return `"` + s + `"` },
		placeholder: func(n int) string { return fmt.Sprintf("$%d", n) },
	},
	"sqlite": {
		Name:        "sqlite",
		quote:       func(s string) string { return `"` + s + `"` },
		placeholder: func(int) string { return "?" },
	},
}

// DialectFor returns the dialect for a configured driver name.
func DialectFor(driver string) (Dialect, error) {
	d, ok := dialects[driver]
	if !ok {
		return Dialect{}, fmt.Errorf("unsupported driver %q", driver)
	}
	return d, nil
}

// Quote quotes an identifier. Identifiers reaching here come from TableName
// or the fixed column list, so they never contain quote characters.
func (d Dialect) Quote(ident string) string { return d.quote(ident) }

// columnDefs is the country table schema, in records.Columns order.
var columnDefs = []struct {
	name string
	ddl  string
}{
	{"customer_name", "VARCHAR(255) NOT NULL"},
	{"customer_id", "VARCHAR(18) NOT NULL"},
	{"open_date", "DATE NOT NULL"},
	{"last_consulted_date", "DATE"},
	{"vaccination_id", "VARCHAR(5)"},
	{"doctor_name", "VARCHAR(255)"},
	{"state", "VARCHAR(5)"},
	{"country", "VARCHAR(5)"},
	{"dob", "DATE"},
	{"is_active", "CHAR(1)"},
	{"age", "INTEGER"},
	{"days_since_last_consultation", "INTEGER"},
}

// CreateTableSQL returns an idempotent CREATE TABLE for a country table.
func (d Dialect) CreateTableSQL(table string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE IF NOT EXISTS %s (\n", d.Quote(table))
	for i, c := range columnDefs {
		fmt.Fprintf(&b, "    %s %s", d.Quote(c.name), c.ddl)
		if i < len(columnDefs)-1 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	b.WriteString(")")
	b.WriteString(d.tableSuffix)
	return b.String()
}

// ClearTableSQL removes every row. DELETE is used rather than TRUNCATE
// because MySQL commits implicitly on TRUNCATE, which would break the
// per-country replace transaction.
func (d Dialect) ClearTableSQL(table string) string {
	return "DELETE FROM " + d.Quote(table)
}

// InsertSQL returns a multi-row INSERT for rows rows of the full column list.
func (d Dialect) InsertSQL(table string, rows int) string {
	cols := make([]string, len(columnDefs))
	for i, c := range columnDefs {
		cols[i] = d.Quote(c.name)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "INSERT INTO %s (%s) VALUES ", d.Quote(table), strings.Join(cols, ", "))
	n := 1
	for r := 0; r < rows; r++ {
		if r > 0 {
			b.WriteString(", ")
		}
		b.WriteByte('(')
		for c := range columnDefs {
			if c > 0 {
				b.WriteString(", ")
			}
			b.WriteString(d.placeholder(n))
			n++
		}
		b.WriteByte(')')
	}
	return b.String()
}

// TableName derives the country table name: prefix + country with every
// character outside [A-Za-z0-9_] replaced by '_'. An empty country maps to
// "unknown".
func TableName(prefix, country string) string {
	c := strings.TrimSpace(country)
	if c == "" {
		c = "unknown"
	}
	return sanitize(prefix) + sanitize(c)
}

func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			return r
		default:
			return '_'
		}
	}, s)
}
