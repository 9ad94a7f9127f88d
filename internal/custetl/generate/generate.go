// Package generate writes synthetic customer extracts in the pipe-delimited
// input format, for demos and load testing of the ETL run.
package generate

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/vaibhaw-/custetl/internal/custetl/logger"
	"github.com/vaibhaw-/custetl/internal/custetl/records"
)

// Header is the first line of every generated file.
const Header = "H|Customer_Name|Customer_Id|Open_Date|Last_Consulted_Date|Vaccination_Id|Dr_Name|State|Country|DOB|Is_Active"

var (
	openFrom = time.Date(2005, 1, 1, 0, 0, 0, 0, time.UTC)
	openTo   = time.Date(2020, 12, 31, 0, 0, 0, 0, time.UTC)
	lastFrom = time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC)
	lastTo   = time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)
	dobFrom  = time.Date(1940, 1, 1, 0, 0, 0, 0, time.UTC)
	dobTo    = time.Date(2015, 12, 31, 0, 0, 0, 0, time.UTC)
)

// Stats counts what was written, header excluded.
type Stats struct {
	Lines      int
	Detail     int
	NonDetail  int
	Customers  int // distinct customer ids
	Duplicates int // extra detail rows for an already written id
}

type customer struct {
	name, id, country, state, dob string
}

// WriteFile creates p.Output and writes the extract into it.
func WriteFile(p Profile) (Stats, error) {
	if err := p.Validate(); err != nil {
		return Stats{}, err
	}
	f, err := os.Create(p.Output)
	if err != nil {
		return Stats{}, fmt.Errorf("create %s: %w", p.Output, err)
	}
	stats, err := Write(f, p)
	if cerr := f.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("close %s: %w", p.Output, cerr)
	}
	if err != nil {
		return stats, err
	}

	logger.L().Infow("generated customer extract",
		"output", p.Output,
		"seed", p.Seed,
		"lines", stats.Lines,
		"detail", stats.Detail,
		"non_detail", stats.NonDetail,
		"customers", stats.Customers,
		"duplicates", stats.Duplicates)
	return stats, nil
}

// Write streams the extract to w. The same profile always yields the same
// bytes.
func Write(w io.Writer, p Profile) (Stats, error) {
	if err := p.Validate(); err != nil {
		return Stats{}, err
	}
	fake := gofakeit.New(p.Seed)
	bw := bufio.NewWriter(w)
	var stats Stats

	if _, err := fmt.Fprintln(bw, Header); err != nil {
		return stats, err
	}

	seen := make([]customer, 0, p.Customers)
	emit := func(fields ...string) error {
		stats.Lines++
		_, err := fmt.Fprintln(bw, strings.Join(fields, "|"))
		return err
	}

	for i := 0; i < p.Customers; i++ {
		country := fake.RandomString(p.Countries)
		c := customer{
			name:    fake.FirstName(),
			id:      fmt.Sprintf("C%06d", i+1),
			country: country,
			state:   pickState(fake, country),
			dob:     fake.DateRange(dobFrom, dobTo).Format("02012006"),
		}
		seen = append(seen, c)
		if err := emit(detailRow(fake, p, c)...); err != nil {
			return stats, err
		}
		stats.Detail++
		stats.Customers++

		if fake.Float64() < p.DuplicateRate {
			prev := seen[fake.Number(0, len(seen)-1)]
			if err := emit(detailRow(fake, p, prev)...); err != nil {
				return stats, err
			}
			stats.Detail++
			stats.Duplicates++
		}

		if fake.Float64() < p.NonDetailRate {
			row := detailRow(fake, p, c)
			row[0] = fake.RandomString(nonDetailTypes)
			if err := emit(row...); err != nil {
				return stats, err
			}
			stats.NonDetail++
		}

		if (i+1)%10000 == 0 {
			logger.L().Debugw("generated customers", "count", i+1)
		}
	}

	if err := bw.Flush(); err != nil {
		return stats, err
	}
	return stats, nil
}

// detailRow returns the InputFieldCount fields of one detail line for c.
func detailRow(fake *gofakeit.Faker, p Profile, c customer) []string {
	doctor := fake.RandomString(Doctors)
	if fake.Float64() < p.MissingDoctorRate {
		doctor = ""
	}
	last := fake.DateRange(lastFrom, lastTo).Format("20060102")
	if fake.Float64() < p.MissingDateRate {
		last = ""
	}
	active := "A"
	if fake.Bool() {
		active = "I"
	}

	row := make([]string, 0, records.InputFieldCount)
	return append(row,
		records.DetailRecordType,
		c.name,
		c.id,
		fake.DateRange(openFrom, openTo).Format("20060102"),
		last,
		fake.RandomString(Vaccinations),
		doctor,
		c.state,
		c.country,
		c.dob,
		active,
	)
}

func pickState(fake *gofakeit.Faker, country string) string {
	states, ok := States[country]
	if !ok {
		return fake.StateAbr()
	}
	return fake.RandomString(states)
}
