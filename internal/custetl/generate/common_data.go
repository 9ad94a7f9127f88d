package generate

// Value pools for synthetic customer rows.

var Vaccinations = []string{"MVD", "BCG", "DPT", "HEPB", "IPV", "MMR", "HPV", "TDAP"}

var Doctors = []string{
	"Paul", "Mark", "John", "Sarah", "Priya", "Chen", "Olivia", "Rahul",
	"Fatima", "Diego", "Anika", "Tom", "Grace", "Kwame", "Lucia", "Ivan",
}

var States = map[string][]string{
	"USA":  {"SA", "CA", "TX", "NY", "WA"},
	"IND":  {"TN", "KA", "MH", "DL", "WB"},
	"AU":   {"VIC", "NSW", "QLD", "WA"},
	"PHIL": {"NCR", "CEB", "DAV"},
	"NYC":  {"BK", "QN", "MN"},
	"UK":   {"ENG", "SCT", "WLS"},
}

// nonDetailTypes are record types the reader must skip.
var nonDetailTypes = []string{"H", "T", "A"}
