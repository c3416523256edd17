// Package types defines core domain types shared across all layers.
// This package contains NO business logic beyond vector arithmetic.
package types

import (
	"math"
	"sort"
)

// ResourceKind identifies an upgrade resource such as "Alloy" or "Design".
// The set is open-ended: bundles may introduce kinds that no tier costs.
type ResourceKind string

// String returns the string representation
func (r ResourceKind) String() string {
	return string(r)
}

// CostVector maps resource kinds to non-negative amounts.
// A missing kind reads as zero.
type CostVector map[ResourceKind]int64

// Get returns the amount for a kind, zero when absent
func (v CostVector) Get(kind ResourceKind) int64 {
	return v[kind]
}

// Add accumulates other into v in place
func (v CostVector) Add(other CostVector) {
	for k, amount := range other {
		v[k] += amount
	}
}

// AddAmounts returns a+b for non-negative amounts; ok is false when the sum
// does not fit in an int64
func AddAmounts(a, b int64) (int64, bool) {
	if a > math.MaxInt64-b {
		return 0, false
	}
	return a + b, true
}

// MulAmounts returns a*b for non-negative amounts; ok is false when the
// product does not fit in an int64
func MulAmounts(a, b int64) (int64, bool) {
	if a != 0 && b > math.MaxInt64/a {
		return 0, false
	}
	return a * b, true
}

// AddChecked accumulates other into v in kind order. It stops at the first
// kind whose total would overflow and returns that kind with ok false; v is
// then partially updated and should be discarded.
func (v CostVector) AddChecked(other CostVector) (ResourceKind, bool) {
	for _, k := range other.Kinds() {
		sum, ok := AddAmounts(v[k], other[k])
		if !ok {
			return k, false
		}
		v[k] = sum
	}
	return "", true
}

// Scale returns a new vector with every amount multiplied by n
func (v CostVector) Scale(n int64) CostVector {
	out := make(CostVector, len(v))
	for k, amount := range v {
		out[k] = amount * n
	}
	return out
}

// Restrict returns a new vector holding exactly the given kinds.
// Kinds absent from v are present with zero.
func (v CostVector) Restrict(kinds []ResourceKind) CostVector {
	out := make(CostVector, len(kinds))
	for _, k := range kinds {
		out[k] = v[k]
	}
	return out
}

// Without returns the entries of v whose kind is not in kinds
func (v CostVector) Without(kinds []ResourceKind) CostVector {
	skip := make(map[ResourceKind]struct{}, len(kinds))
	for _, k := range kinds {
		skip[k] = struct{}{}
	}
	out := make(CostVector)
	for k, amount := range v {
		if _, ok := skip[k]; !ok {
			out[k] = amount
		}
	}
	return out
}

// Clone returns a copy of v
func (v CostVector) Clone() CostVector {
	out := make(CostVector, len(v))
	for k, amount := range v {
		out[k] = amount
	}
	return out
}

// IsZero reports whether every amount is zero
func (v CostVector) IsZero() bool {
	for _, amount := range v {
		if amount != 0 {
			return false
		}
	}
	return true
}

// Kinds returns the kinds present in v, sorted by name
func (v CostVector) Kinds() []ResourceKind {
	kinds := make([]ResourceKind, 0, len(v))
	for k := range v {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// Holding is a directly owned amount of one resource kind
type Holding struct {
	Resource ResourceKind `json:"resource" yaml:"resource" validate:"required"`
	Amount   int64        `json:"amount" yaml:"amount" validate:"gte=0"`
}

// Inventory is an ordered set of holdings.
// Its order is the row order of a deficit report.
type Inventory []Holding

// Kinds returns the distinct kinds in first-seen order
func (inv Inventory) Kinds() []ResourceKind {
	seen := make(map[ResourceKind]struct{}, len(inv))
	kinds := make([]ResourceKind, 0, len(inv))
	for _, h := range inv {
		if _, ok := seen[h.Resource]; ok {
			continue
		}
		seen[h.Resource] = struct{}{}
		kinds = append(kinds, h.Resource)
	}
	return kinds
}

// Vector sums the holdings into a cost vector
func (inv Inventory) Vector() CostVector {
	out := make(CostVector, len(inv))
	for _, h := range inv {
		out[h.Resource] += h.Amount
	}
	return out
}
