// Package reader parses the pipe-delimited customer extract.
//
// The first line is a header and is always discarded. Every other non-blank
// line must carry exactly records.InputFieldCount fields in this order:
//
//	record_type|customer_name|customer_id|open_date|last_consulted_date|
//	vaccination_id|doctor_name|state|country|dob|is_active
//
// Only detail rows (record_type "D") are returned.
package reader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/vaibhaw-/custetl/internal/custetl/etlerr"
	"github.com/vaibhaw-/custetl/internal/custetl/logger"
	"github.com/vaibhaw-/custetl/internal/custetl/records"
)

// Stats counts what the reader saw.
type Stats struct {
	Lines   int // data lines after the header
	Detail  int // rows kept
	Skipped int // rows dropped because record_type != "D"
}

// ReadFile opens path and reads it with Read.
func ReadFile(path string) ([]records.RawRecord, Stats, error) {
	logger.L().Debugw("opening input file", "path", path)

	f, err := os.Open(path)
	if err != nil {
		return nil, Stats{}, etlerr.NewReadError(path, 0, err)
	}
	defer f.Close()

	return Read(f, path)
}

// Read parses r. source is only used in error messages.
func Read(r io.Reader, source string) ([]records.RawRecord, Stats, error) {
	log := logger.L()

	cr := csv.NewReader(r)
	cr.Comma = '|'
	cr.LazyQuotes = true
	// Field counts are checked below so the error can name the line.
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	var stats Stats

	if _, err := cr.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, stats, nil
		}
		return nil, stats, etlerr.NewReadError(source, 1, fmt.Errorf("header: %w", err))
	}

	var out []records.RawRecord
	for {
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			line := 0
			if errors.As(err, &pe) {
				line = pe.Line
			}
			return nil, stats, etlerr.NewReadError(source, line, err)
		}

		line, _ := cr.FieldPos(0)
		stats.Lines++

		if len(fields) != records.InputFieldCount {
			return nil, stats, etlerr.NewReadError(source, line,
				fmt.Errorf("expected %d fields, got %d", records.InputFieldCount, len(fields)))
		}

		rec := toRaw(fields, line)
		if rec.RecordType != records.DetailRecordType {
			stats.Skipped++
			log.Debugw("skipping non-detail row", "line", line, "record_type", rec.RecordType)
			continue
		}
		stats.Detail++
		out = append(out, rec)
	}

	log.Infow("input read",
		"source", source,
		"lines", stats.Lines,
		"detail", stats.Detail,
		"skipped", stats.Skipped)
	return out, stats, nil
}

func toRaw(f []string, line int) records.RawRecord {
	get := func(i int) string { return strings.TrimSpace(f[i]) }
	return records.RawRecord{
		Line:              line,
		RecordType:        f[0], // compared literally, not trimmed
		CustomerName:      get(1),
		CustomerID:        get(2),
		OpenDate:          get(3),
		LastConsultedDate: get(4),
		VaccinationID:     get(5),
		DoctorName:        get(6),
		State:             get(7),
		Country:           get(8),
		DOB:               get(9),
		IsActive:          get(10),
	}
}
