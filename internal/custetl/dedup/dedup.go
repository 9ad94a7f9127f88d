// Package dedup keeps one record per customer: the one consulted most
// recently.
//
// Missing last_consulted_date values rank below every real date. Among rows
// with the same date (or all missing), the row that appears first in the
// input wins, so the result never depends on sort stability or map order.
// The output is ordered by customer_id.
package dedup

import (
	"sort"

	"github.com/vaibhaw-/custetl/internal/custetl/logger"
	"github.com/vaibhaw-/custetl/internal/custetl/records"
)

// Latest returns one record per CustomerID.
func Latest(in []records.Customer) []records.Customer {
	if len(in) == 0 {
		return nil
	}

	// Replacing only on a strictly newer date keeps the earliest row on ties.
	winners := make(map[string]records.Customer, len(in))
	for _, r := range in {
		prev, ok := winners[r.CustomerID]
		if !ok || newer(r, prev) {
			winners[r.CustomerID] = r
		}
	}

	out := make([]records.Customer, 0, len(winners))
	for _, r := range winners {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CustomerID < out[j].CustomerID })

	logger.L().Infow("records deduplicated",
		"input", len(in),
		"customers", len(out),
		"dropped", len(in)-len(out))
	return out
}

// newer reports whether a was consulted strictly later than b.
func newer(a, b records.Customer) bool {
	switch {
	case a.LastConsultedDate == nil:
		return false
	case b.LastConsultedDate == nil:
		return true
	default:
		return a.LastConsultedDate.After(*b.LastConsultedDate)
	}
}
