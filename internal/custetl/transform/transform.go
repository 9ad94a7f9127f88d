// Package transform turns raw extract rows into customer records: it parses
// the date fields, fills missing doctor names and computes age and days since
// the last consultation against a single reference date.
package transform

import (
	"time"

	"github.com/vaibhaw-/custetl/internal/custetl/etlerr"
	"github.com/vaibhaw-/custetl/internal/custetl/logger"
	"github.com/vaibhaw-/custetl/internal/custetl/records"
)

// Transformer converts RawRecords. The zero value uses the current day.
type Transformer struct {
	// AsOf pins "today". Zero means time.Now() at construction.
	AsOf time.Time

	today time.Time
}

// Stats counts field-level parse failures per field.
type Stats struct {
	ParseErrors map[string]int
}

// Total sums ParseErrors.
func (s Stats) Total() int {
	n := 0
	for _, c := range s.ParseErrors {
		n += c
	}
	return n
}

// New returns a Transformer whose reference date is asOf, or today when asOf
// is zero.
func New(asOf time.Time) *Transformer {
	today := asOf
	if today.IsZero() {
		today = time.Now()
	}
	return &Transformer{AsOf: asOf, today: civil(today)}
}

// Today returns the reference date used for derived fields.
func (t *Transformer) Today() time.Time {
	if t.today.IsZero() {
		*t = *New(t.AsOf)
	}
	return t.today
}

// Apply transforms every row. Unparseable dates become missing values and
// are reported in Stats, never as an error.
func (t *Transformer) Apply(in []records.RawRecord) ([]records.Customer, Stats) {
	log := logger.L()
	today := t.Today()
	stats := Stats{ParseErrors: map[string]int{}}

	parse := func(raw records.RawRecord, field, value string, fn func(string) (*time.Time, error)) *time.Time {
		d, err := fn(value)
		if err != nil {
			stats.ParseErrors[field]++
			perr := &etlerr.ParseError{Field: field, Value: value, Err: err}
			log.Debugw("date parse failed; treating as missing",
				"line", raw.Line,
				"customer_id", raw.CustomerID,
				"err", perr.Error())
			return nil
		}
		return d
	}

	out := make([]records.Customer, 0, len(in))
	for _, raw := range in {
		c := records.Customer{
			CustomerName:  raw.CustomerName,
			CustomerID:    raw.CustomerID,
			VaccinationID: raw.VaccinationID,
			DoctorName:    raw.DoctorName,
			State:         raw.State,
			Country:       raw.Country,
			IsActive:      raw.IsActive,
		}
		c.OpenDate = parse(raw, "open_date", raw.OpenDate, ParseYMD)
		c.LastConsultedDate = parse(raw, "last_consulted_date", raw.LastConsultedDate, ParseYMD)
		c.DOB = parse(raw, "dob", raw.DOB, ParseDMY)

		if c.DoctorName == "" {
			c.DoctorName = records.NoDataProvided
		}

		c.Age = Age(c.DOB, today)
		c.DaysSinceLastConsultation = DaysSince(c.LastConsultedDate, today)
		out = append(out, c)
	}

	log.Infow("records transformed",
		"rows", len(out),
		"as_of", today.Format("2006-01-02"),
		"parse_errors", stats.Total())
	return out, stats
}
