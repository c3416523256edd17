// Package gear describes the fixed chief gear layout: which parts exist, how
// they group by unit type, which resources the calculator tracks and how the
// bundle shop is arranged.
package gear

import "gear-cost/core/types"

// DefaultTier is the tier every part starts at when nothing is selected
const DefaultTier = "Gold"

// Unit is a troop type that owns two gear parts
type Unit string

const (
	Infantry Unit = "Infantry"
	Marksman Unit = "Marksman"
	Lancer   Unit = "Lancer"
)

// Group is a unit and its parts
type Group struct {
	Unit  Unit     `json:"unit"`
	Parts []string `json:"parts"`
}

var groups = []Group{
	{Unit: Infantry, Parts: []string{"Coat", "Pants"}},
	{Unit: Marksman, Parts: []string{"Ring", "Cudgel"}},
	{Unit: Lancer, Parts: []string{"Hat", "Watch"}},
}

// Groups returns the unit groups in display order
func Groups() []Group {
	out := make([]Group, len(groups))
	for i, g := range groups {
		parts := make([]string, len(g.Parts))
		copy(parts, g.Parts)
		out[i] = Group{Unit: g.Unit, Parts: parts}
	}
	return out
}

// Parts returns every part in display order
func Parts() []string {
	var out []string
	for _, g := range groups {
		out = append(out, g.Parts...)
	}
	return out
}

// UnitOf returns the unit a part belongs to
func UnitOf(part string) (Unit, bool) {
	for _, g := range groups {
		for _, p := range g.Parts {
			if p == part {
				return g.Unit, true
			}
		}
	}
	return "", false
}

// Tracked resources, in report order
const (
	Design types.ResourceKind = "Design"
	Alloy  types.ResourceKind = "Alloy"
	Polish types.ResourceKind = "Polish"
	Amber  types.ResourceKind = "Amber"
)

var labels = map[types.ResourceKind]string{
	Design: "Design Plans",
	Alloy:  "Alloy",
	Polish: "Polishing Solution",
	Amber:  "Lunar Amber",
}

// Resources returns the tracked resources in report order
func Resources() []types.ResourceKind {
	return []types.ResourceKind{Design, Alloy, Polish, Amber}
}

// Label returns the display name of a resource
func Label(kind types.ResourceKind) string {
	if l, ok := labels[kind]; ok {
		return l
	}
	return string(kind)
}

// PriceTiers are the package labels offered for every shop category
var PriceTiers = []string{"$5", "$10", "$20", "$50", "$100"}

// Shop categories
const (
	Sublime    = "Sublime"
	Exquisite  = "Exquisite"
	Classic    = "Classic"
	DawnMarket = "DawnMarket"
)

// ArtisanCategories are the artisan package lines
var ArtisanCategories = []string{Sublime, Exquisite, Classic}
