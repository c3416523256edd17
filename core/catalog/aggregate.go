package catalog

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"gear-cost/core/types"
	"gear-cost/internal/errors"
)

// Purchases maps textual bundle keys (see ParseKey) to units bought
type Purchases map[string]int64

// Add records n more units of key
func (p Purchases) Add(key Key, n int64) {
	p[key.String()] += n
}

// Contribution is the resource total granted by a purchase selection
type Contribution struct {
	// Totals holds every granted kind, including ones no tier costs
	Totals types.CostVector `json:"totals"`

	// Unknown lists purchased keys with no matching bundle, sorted
	Unknown []string `json:"unknown,omitempty"`
}

// Aggregate converts purchases into resources. Each known bundle bought n
// times adds n times its per-unit contents. Keys that are malformed or not in
// the catalog contribute nothing and are listed in Unknown. Totals that do
// not fit in an int64 fail with an INPUT_ERROR naming the bundle.
func (c *Catalog) Aggregate(purchases Purchases) (Contribution, error) {
	out := Contribution{Totals: make(types.CostVector)}

	for _, raw := range sortedKeys(purchases) {
		count := purchases[raw]
		if count <= 0 {
			continue
		}
		def, ok := c.lookup(raw)
		if !ok {
			out.Unknown = append(out.Unknown, raw)
			continue
		}
		for _, e := range def.Entries {
			granted, ok := types.MulAmounts(e.Amount, count)
			if ok {
				granted, ok = types.AddAmounts(out.Totals[e.Resource], granted)
			}
			if !ok {
				return Contribution{}, errors.Newf(errors.TypeInput,
					"buying %d x %s overflows the %s total", count, raw, e.Resource).
					WithContext("bundle", raw).
					WithContext("resource", string(e.Resource))
			}
			out.Totals[e.Resource] = granted
		}
	}

	return out, nil
}

// lookup resolves a purchase key. A flat bundle whose label contains a
// separator is matched whole before the key is split.
func (c *Catalog) lookup(raw string) (*Definition, bool) {
	if def, ok := c.defs[Key{Category: NoCategory, Package: strings.TrimSpace(raw)}]; ok {
		return def, true
	}
	key, ok := ParseKey(raw)
	if !ok {
		return nil, false
	}
	def, ok := c.defs[key]
	return def, ok
}

var priceNumber = regexp.MustCompile(`[0-9]+(?:\.[0-9]+)?`)

// Price reads the price encoded in a package label such as "$5" or "USD 9.99"
func (c *Catalog) Price(key Key) (decimal.Decimal, bool) {
	if _, ok := c.defs[key]; !ok {
		return decimal.Zero, false
	}
	return ParsePrice(key.Package)
}

// ParsePrice extracts the first number in label as a decimal price
func ParsePrice(label string) (decimal.Decimal, bool) {
	match := priceNumber.FindString(label)
	if match == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(match)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// Spend totals the price of every known, priced bundle in purchases
func (c *Catalog) Spend(purchases Purchases) decimal.Decimal {
	total := decimal.Zero
	for _, raw := range sortedKeys(purchases) {
		count := purchases[raw]
		if count <= 0 {
			continue
		}
		def, ok := c.lookup(raw)
		if !ok {
			continue
		}
		price, ok := ParsePrice(def.Key.Package)
		if !ok {
			continue
		}
		total = total.Add(price.Mul(decimal.NewFromInt(count)))
	}
	return total
}
