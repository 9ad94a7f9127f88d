package generate

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/vaibhaw-/custetl/internal/custetl/logger"
)

// Profile describes the synthetic extract to write.
type Profile struct {
	Output    string `yaml:"output"`
	Seed      uint64 `yaml:"seed"`
	Customers int    `yaml:"customers"`

	// Rates are fractions in [0,1].
	DuplicateRate     float64 `yaml:"duplicate_rate"`
	NonDetailRate     float64 `yaml:"non_detail_rate"`
	MissingDoctorRate float64 `yaml:"missing_doctor_rate"`
	MissingDateRate   float64 `yaml:"missing_date_rate"`

	Countries []string `yaml:"countries"`
}

// DefaultProfile is used when no profile file is given.
func DefaultProfile() Profile {
	return Profile{
		Output:            "customers.txt",
		Seed:              42,
		Customers:         1000,
		DuplicateRate:     0.2,
		NonDetailRate:     0.05,
		MissingDoctorRate: 0.1,
		MissingDateRate:   0.05,
		Countries:         []string{"USA", "IND", "AU", "PHIL", "NYC", "UK"},
	}
}

// ReadProfile loads a YAML profile. Keys missing from the file keep their
// DefaultProfile values.
func ReadProfile(path string) (Profile, error) {
	logger.L().Debugw("loading generator profile", "path", path)

	p := DefaultProfile()
	data, err := os.ReadFile(path)
	if err != nil {
		return p, err
	}
	if err := yaml.Unmarshal(data, &p); err != nil {
		return p, fmt.Errorf("parse profile %s: %w", path, err)
	}
	return p, p.Validate()
}

func (p Profile) Validate() error {
	if p.Customers < 0 {
		return fmt.Errorf("profile: customers must not be negative, got %d", p.Customers)
	}
	if len(p.Countries) == 0 {
		return fmt.Errorf("profile: at least one country is required")
	}
	rates := map[string]float64{
		"duplicate_rate":      p.DuplicateRate,
		"non_detail_rate":     p.NonDetailRate,
		"missing_doctor_rate": p.MissingDoctorRate,
		"missing_date_rate":   p.MissingDateRate,
	}
	for name, r := range rates {
		if r < 0 || r > 1 {
			return fmt.Errorf("profile: %s must be within [0,1], got %v", name, r)
		}
	}
	return nil
}
