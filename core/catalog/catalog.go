// Package catalog - Bundle catalog
// Holds the purchasable bundles, each keyed by (category, package) and
// contributing a fixed amount of resources per unit bought.
// Catalogs without categories use the NoCategory sentinel.
package catalog

import (
	"sort"
	"strings"

	"gear-cost/core/types"
	"gear-cost/internal/errors"
)

// NoCategory is the category of bundles from a flat, price-only catalog
const NoCategory = "none"

// Key identifies a bundle
type Key struct {
	Category string `json:"category"`
	Package  string `json:"package"`
}

// NewKey builds a key, mapping an empty category to NoCategory
func NewKey(category, pkg string) Key {
	category = strings.TrimSpace(category)
	if category == "" {
		category = NoCategory
	}
	return Key{Category: category, Package: strings.TrimSpace(pkg)}
}

// String renders the key in the Category_Package form accepted by ParseKey
func (k Key) String() string {
	if k.Category == NoCategory {
		return k.Package
	}
	return k.Category + "_" + k.Package
}

// ParseKey reads "Category_Package", "Category/Package" or a bare "Package"
// (flat catalog). ok is false for malformed input.
func ParseKey(s string) (Key, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Key{}, false
	}

	for _, sep := range []string{"_", "/"} {
		if i := strings.Index(s, sep); i >= 0 {
			category, pkg := strings.TrimSpace(s[:i]), strings.TrimSpace(s[i+1:])
			if category == "" || pkg == "" {
				return Key{}, false
			}
			return Key{Category: category, Package: pkg}, true
		}
	}
	return Key{Category: NoCategory, Package: s}, true
}

// Entry is one resource a bundle grants per unit
type Entry struct {
	Resource types.ResourceKind `json:"resource"`
	Amount   int64              `json:"amount"`
}

// Definition is a bundle and its per-unit contents
type Definition struct {
	Key     Key     `json:"key"`
	Entries []Entry `json:"entries"`
}

// Vector returns the per-unit contents as a cost vector
func (d Definition) Vector() types.CostVector {
	out := make(types.CostVector, len(d.Entries))
	for _, e := range d.Entries {
		out[e.Resource] += e.Amount
	}
	return out
}

// Row is one line of tabular catalog data
type Row struct {
	Category string
	Package  string
	Resource types.ResourceKind
	Amount   int64
}

// Catalog is the read-only bundle catalog
type Catalog struct {
	defs       map[Key]*Definition
	order      []Key
	categories []string
	packages   map[string][]string
}

// New builds a catalog from rows. Rows sharing a key and resource are summed.
// Category and package order follow first appearance in rows.
func New(rows []Row) (*Catalog, error) {
	c := &Catalog{
		defs:     make(map[Key]*Definition),
		packages: make(map[string][]string),
	}

	for i, row := range rows {
		key := NewKey(row.Category, row.Package)
		if key.Package == "" {
			return nil, errors.Newf(errors.TypeInput, "catalog row %d has no package", i)
		}
		resource := types.ResourceKind(strings.TrimSpace(string(row.Resource)))
		if resource == "" {
			return nil, errors.Newf(errors.TypeInput, "catalog row %d (%s) has no resource", i, key)
		}
		if row.Amount < 0 {
			return nil, errors.Newf(errors.TypeInput, "catalog row %d (%s) has negative amount %d", i, key, row.Amount)
		}

		def, ok := c.defs[key]
		if !ok {
			def = &Definition{Key: key}
			c.defs[key] = def
			c.order = append(c.order, key)
			if _, seen := c.packages[key.Category]; !seen {
				c.categories = append(c.categories, key.Category)
			}
			c.packages[key.Category] = append(c.packages[key.Category], key.Package)
		}

		merged := false
		for j := range def.Entries {
			if def.Entries[j].Resource == resource {
				sum, ok := types.AddAmounts(def.Entries[j].Amount, row.Amount)
				if !ok {
					return nil, errors.Newf(errors.TypeInput, "catalog row %d (%s) overflows the %s amount", i, key, resource)
				}
				def.Entries[j].Amount = sum
				merged = true
				break
			}
		}
		if !merged {
			def.Entries = append(def.Entries, Entry{Resource: resource, Amount: row.Amount})
		}
	}

	return c, nil
}

// Len returns the number of bundles
func (c *Catalog) Len() int {
	return len(c.order)
}

// Get returns a copy of the bundle definition for key
func (c *Catalog) Get(key Key) (Definition, bool) {
	def, ok := c.defs[key]
	if !ok {
		return Definition{}, false
	}
	return copyDefinition(def), true
}

// Categories returns the categories in catalog order
func (c *Catalog) Categories() []string {
	out := make([]string, len(c.categories))
	copy(out, c.categories)
	return out
}

// Packages returns the package labels of a category in catalog order
func (c *Catalog) Packages(category string) []string {
	pkgs := c.packages[category]
	out := make([]string, len(pkgs))
	copy(out, pkgs)
	return out
}

// Definitions returns every bundle in catalog order
func (c *Catalog) Definitions() []Definition {
	out := make([]Definition, 0, len(c.order))
	for _, key := range c.order {
		out = append(out, copyDefinition(c.defs[key]))
	}
	return out
}

// Keys returns the textual keys of every bundle in catalog order
func (c *Catalog) Keys() []string {
	out := make([]string, len(c.order))
	for i, key := range c.order {
		out[i] = key.String()
	}
	return out
}

// Resources returns every resource any bundle grants, sorted
func (c *Catalog) Resources() []types.ResourceKind {
	all := make(types.CostVector)
	for _, def := range c.defs {
		for _, e := range def.Entries {
			all[e.Resource] = 0
		}
	}
	return all.Kinds()
}

func copyDefinition(def *Definition) Definition {
	entries := make([]Entry, len(def.Entries))
	copy(entries, def.Entries)
	return Definition{Key: def.Key, Entries: entries}
}

// sortedKeys returns the keys of p in a stable order
func sortedKeys(p Purchases) []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
