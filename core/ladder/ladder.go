// Package ladder holds the ordered tier ladder and answers cost lookups.
// A Ladder is immutable once built and safe for concurrent readers.
package ladder

import (
	"strings"

	"gear-cost/core/types"
	"gear-cost/internal/errors"
	"gear-cost/internal/suggest"
)

// Tier is one rank of the ladder. Cost is what it takes to reach this tier
// from the one immediately before it.
type Tier struct {
	Name    string           `json:"name"`
	Ordinal int              `json:"ordinal"`
	Cost    types.CostVector `json:"cost"`
}

// Ladder is the ordered sequence of tiers
type Ladder struct {
	tiers     []Tier
	index     map[string]int
	resources []types.ResourceKind
}

// New builds a ladder from tiers in order. Ordinals are assigned from the
// slice position; any Ordinal already set on the input is ignored.
func New(tiers []Tier) (*Ladder, error) {
	if len(tiers) == 0 {
		return nil, errors.Input("tier ladder is empty")
	}

	l := &Ladder{
		tiers: make([]Tier, 0, len(tiers)),
		index: make(map[string]int, len(tiers)),
	}
	seenKind := make(map[types.ResourceKind]struct{})
	// running totals bound every interval sum
	cumulative := make(types.CostVector)

	for i, t := range tiers {
		name := strings.TrimSpace(t.Name)
		if name == "" {
			return nil, errors.Newf(errors.TypeInput, "tier at position %d has no name", i)
		}
		if _, dup := l.index[name]; dup {
			return nil, errors.Newf(errors.TypeInput, "duplicate tier name %q", name)
		}
		for kind, amount := range t.Cost {
			if amount < 0 {
				return nil, errors.Newf(errors.TypeInput, "tier %q has negative %s cost %d", name, kind, amount)
			}
		}
		if kind, ok := cumulative.AddChecked(t.Cost); !ok {
			return nil, errors.Newf(errors.TypeInput, "tier %q: cumulative %s cost overflows", name, kind)
		}
		for _, kind := range t.Cost.Kinds() {
			if _, ok := seenKind[kind]; !ok {
				seenKind[kind] = struct{}{}
				l.resources = append(l.resources, kind)
			}
		}

		l.index[name] = i
		l.tiers = append(l.tiers, Tier{
			Name:    name,
			Ordinal: i,
			Cost:    t.Cost.Clone(),
		})
	}

	return l, nil
}

// Len returns the number of tiers
func (l *Ladder) Len() int {
	return len(l.tiers)
}

// Names returns the tier names in ladder order
func (l *Ladder) Names() []string {
	names := make([]string, len(l.tiers))
	for i, t := range l.tiers {
		names[i] = t.Name
	}
	return names
}

// Resources returns every kind any tier costs, in first-seen order
func (l *Ladder) Resources() []types.ResourceKind {
	out := make([]types.ResourceKind, len(l.resources))
	copy(out, l.resources)
	return out
}

// Tiers returns a copy of the ladder
func (l *Ladder) Tiers() []Tier {
	out := make([]Tier, len(l.tiers))
	for i, t := range l.tiers {
		out[i] = Tier{Name: t.Name, Ordinal: t.Ordinal, Cost: t.Cost.Clone()}
	}
	return out
}

// Has reports whether name is a tier of the ladder
func (l *Ladder) Has(name string) bool {
	_, ok := l.index[name]
	return ok
}

// Lookup returns the named tier. Unknown names fail with a NOT_FOUND error
// that lists the closest known names.
func (l *Ladder) Lookup(name string) (Tier, error) {
	i, ok := l.index[name]
	if !ok {
		err := errors.NotFound("tier", name)
		if near := suggest.Closest(name, l.Names(), 3); len(near) > 0 {
			err = err.WithContext("did_you_mean", near)
		}
		return Tier{}, err
	}
	t := l.tiers[i]
	return Tier{Name: t.Name, Ordinal: t.Ordinal, Cost: t.Cost.Clone()}, nil
}

// Position returns the ordinal of the named tier
func (l *Ladder) Position(name string) (int, error) {
	t, err := l.Lookup(name)
	if err != nil {
		return -1, err
	}
	return t.Ordinal, nil
}

// Range returns the cost vectors of the tiers strictly after from, up to and
// including to. It is empty when from >= to. Bounds are clamped to the ladder.
func (l *Ladder) Range(from, to int) []types.CostVector {
	if from < -1 {
		from = -1
	}
	if to >= len(l.tiers) {
		to = len(l.tiers) - 1
	}
	if from >= to {
		return nil
	}

	out := make([]types.CostVector, 0, to-from)
	for i := from + 1; i <= to; i++ {
		out = append(out, l.tiers[i].Cost.Clone())
	}
	return out
}

// IntervalCost sums the cost of upgrading from current to target.
// Downgrades and no-ops cost nothing.
func (l *Ladder) IntervalCost(current, target string) (types.CostVector, error) {
	from, err := l.Position(current)
	if err != nil {
		return nil, err
	}
	to, err := l.Position(target)
	if err != nil {
		return nil, err
	}

	total := make(types.CostVector)
	for _, step := range l.Range(from, to) {
		total.Add(step)
	}
	return total, nil
}
