package deficit

import (
	"github.com/shopspring/decimal"

	"gear-cost/core/types"
)

// Row is one tracked resource of a report
type Row struct {
	Resource types.ResourceKind `json:"resource"`
	Required int64              `json:"required"`
	Owned    int64              `json:"owned"`
	Deficit  int64              `json:"deficit"`
}

// PartCost is what a single part's upgrade costs in tracked resources
type PartCost struct {
	Part    string           `json:"part"`
	Current string           `json:"current"`
	Target  string           `json:"target"`
	Cost    types.CostVector `json:"cost"`
}

// Report is the result of one calculation
type Report struct {
	// Rows has one entry per tracked resource, in request order
	Rows []Row `json:"rows"`

	// PerPart breaks the required totals down by part
	PerPart []PartCost `json:"per_part"`

	// Untracked holds bundle resources outside the tracked set.
	// They never count toward any row.
	Untracked types.CostVector `json:"untracked,omitempty"`

	// IgnoredBundles lists purchased keys that matched no bundle
	IgnoredBundles []string `json:"ignored_bundles,omitempty"`

	// Spend is the summed price of the known purchased bundles
	Spend decimal.Decimal `json:"spend"`
}

// Shortfall reports whether any resource is short
func (r *Report) Shortfall() bool {
	for _, row := range r.Rows {
		if row.Deficit > 0 {
			return true
		}
	}
	return false
}

// Row returns the row for kind
func (r *Report) Row(kind types.ResourceKind) (Row, bool) {
	for _, row := range r.Rows {
		if row.Resource == kind {
			return row, true
		}
	}
	return Row{}, false
}

// TotalDeficit sums the deficits of every row
func (r *Report) TotalDeficit() int64 {
	var total int64
	for _, row := range r.Rows {
		total += row.Deficit
	}
	return total
}
