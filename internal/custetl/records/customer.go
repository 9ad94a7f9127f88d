package records

import "time"

// NoDataProvided replaces an empty doctor_name before anything is persisted.
const NoDataProvided = "no_data_provided"

// DetailRecordType marks an input row that carries customer data.
const DetailRecordType = "D"

// InputFieldCount is the number of '|' separated fields on every input line.
const InputFieldCount = 11

// Columns is the fixed output column order shared by the export and the
// country tables.
var Columns = []string{
	"customer_name",
	"customer_id",
	"open_date",
	"last_consulted_date",
	"vaccination_id",
	"doctor_name",
	"state",
	"country",
	"dob",
	"is_active",
	"age",
	"days_since_last_consultation",
}

// RawRecord is one input line split into its named fields, before any parsing.
type RawRecord struct {
	Line              int // 1-based line number in the source file
	RecordType        string
	CustomerName      string
	CustomerID        string
	OpenDate          string
	LastConsultedDate string
	VaccinationID     string
	DoctorName        string
	State             string
	Country           string
	DOB               string
	IsActive          string
}

// Customer is one row of the working dataset. Nil pointers are missing values.
type Customer struct {
	CustomerName      string
	CustomerID        string
	OpenDate          *time.Time
	LastConsultedDate *time.Time
	VaccinationID     string
	DoctorName        string
	State             string
	Country           string
	DOB               *time.Time
	IsActive          string

	Age                       *int
	DaysSinceLastConsultation *int
}

// Values returns the record in Columns order. Missing dates and integers are
// returned as untyped nil so callers can map them to NULL or empty cells.
func (c Customer) Values() []any {
	return []any{
		c.CustomerName,
		c.CustomerID,
		dateOrNil(c.OpenDate),
		dateOrNil(c.LastConsultedDate),
		stringOrNil(c.VaccinationID),
		stringOrNil(c.DoctorName),
		stringOrNil(c.State),
		stringOrNil(c.Country),
		dateOrNil(c.DOB),
		stringOrNil(c.IsActive),
		intOrNil(c.Age),
		intOrNil(c.DaysSinceLastConsultation),
	}
}

func dateOrNil(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}

func intOrNil(i *int) any {
	if i == nil {
		return nil
	}
	return *i
}

func stringOrNil(s string) any {
	if s == "" {
		return nil
	}
	return s
}
