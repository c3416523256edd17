package catalog

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gear-cost/core/types"
	"gear-cost/internal/errors"
)

func sampleCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := New([]Row{
		{Category: "Basic", Package: "$5", Resource: "Design", Amount: 3},
		{Category: "Sublime", Package: "$5", Resource: "Alloy", Amount: 100},
		{Category: "Sublime", Package: "$5", Resource: "Plans", Amount: 2},
		{Category: "Sublime", Package: "$10", Resource: "Alloy", Amount: 250},
		{Category: "Sublime", Package: "$10", Resource: "Alloy", Amount: 50},
		{Package: "$20", Resource: "Amber", Amount: 4},
	})
	require.NoError(t, err)
	return c
}

func TestParseKey(t *testing.T) {
	tests := []struct {
		in   string
		want Key
		ok   bool
	}{
		{in: "Sublime_$5", want: Key{Category: "Sublime", Package: "$5"}, ok: true},
		{in: "Sublime/$10", want: Key{Category: "Sublime", Package: "$10"}, ok: true},
		{in: " DawnMarket_$100 ", want: Key{Category: "DawnMarket", Package: "$100"}, ok: true},
		{in: "$20", want: Key{Category: NoCategory, Package: "$20"}, ok: true},
		{in: "_$5", ok: false},
		{in: "Sublime_", ok: false},
		{in: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseKey(tt.in)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
				back, _ := ParseKey(got.String())
				assert.Equal(t, got, back)
			}
		})
	}
}

func TestNewMergesAndOrders(t *testing.T) {
	c := sampleCatalog(t)

	assert.Equal(t, 4, c.Len())
	assert.Equal(t, []string{"Basic", "Sublime", NoCategory}, c.Categories())
	assert.Equal(t, []string{"$5", "$10"}, c.Packages("Sublime"))
	assert.Equal(t, []string{"Basic_$5", "Sublime_$5", "Sublime_$10", "$20"}, c.Keys())

	def, ok := c.Get(Key{Category: "Sublime", Package: "$10"})
	require.True(t, ok)
	assert.Equal(t, []Entry{{Resource: "Alloy", Amount: 300}}, def.Entries)

	assert.Equal(t, []types.ResourceKind{"Alloy", "Amber", "Design", "Plans"}, c.Resources())
}

func TestNewRejectsBadRows(t *testing.T) {
	tests := []struct {
		name string
		row  Row
	}{
		{name: "no package", row: Row{Category: "Basic", Resource: "Design", Amount: 1}},
		{name: "no resource", row: Row{Category: "Basic", Package: "$5", Amount: 1}},
		{name: "negative", row: Row{Category: "Basic", Package: "$5", Resource: "Design", Amount: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New([]Row{tt.row})
			require.Error(t, err)
			assert.True(t, errors.IsType(err, errors.TypeInput))
		})
	}
}

func aggregate(t *testing.T, c *Catalog, p Purchases) Contribution {
	t.Helper()
	got, err := c.Aggregate(p)
	require.NoError(t, err)
	return got
}

func TestAggregate(t *testing.T) {
	c := sampleCatalog(t)

	t.Run("basic bundle times four", func(t *testing.T) {
		got := aggregate(t, c, Purchases{"Basic_$5": 4})
		assert.Equal(t, int64(12), got.Totals.Get("Design"))
		assert.Empty(t, got.Unknown)
	})

	t.Run("bundle only resources are kept", func(t *testing.T) {
		got := aggregate(t, c, Purchases{"Sublime_$5": 3})
		assert.Equal(t, int64(300), got.Totals.Get("Alloy"))
		assert.Equal(t, int64(6), got.Totals.Get("Plans"))
	})

	t.Run("flat bundle", func(t *testing.T) {
		got := aggregate(t, c, Purchases{"$20": 2})
		assert.Equal(t, int64(8), got.Totals.Get("Amber"))
	})

	t.Run("unknown and malformed keys are skipped", func(t *testing.T) {
		got := aggregate(t, c, Purchases{"Basic_$5": 1, "Nope_$5": 2, "_": 1, "Sublime_$999": 0})
		assert.Equal(t, types.CostVector{"Design": 3}, got.Totals)
		assert.Equal(t, []string{"Nope_$5", "_"}, got.Unknown)
	})

	t.Run("zero count contributes nothing", func(t *testing.T) {
		got := aggregate(t, c, Purchases{"Basic_$5": 0})
		assert.True(t, got.Totals.IsZero())
	})
}

func TestAggregateOverflow(t *testing.T) {
	c, err := New([]Row{
		{Category: "Sublime", Package: "$5", Resource: "Alloy", Amount: 6000},
		{Category: "Basic", Package: "$5", Resource: "Alloy", Amount: 1},
	})
	require.NoError(t, err)

	t.Run("product", func(t *testing.T) {
		_, err := c.Aggregate(Purchases{"Sublime_$5": 2_000_000_000_000_000})
		require.Error(t, err)
		assert.True(t, errors.IsType(err, errors.TypeInput))
		assert.Contains(t, err.Error(), "Sublime_$5")
		assert.Contains(t, err.Error(), "Alloy")
	})

	t.Run("sum across bundles", func(t *testing.T) {
		_, err := c.Aggregate(Purchases{"Sublime_$5": math.MaxInt64 / 6000, "Basic_$5": math.MaxInt64})
		require.Error(t, err)
		assert.True(t, errors.IsType(err, errors.TypeInput))
	})

	t.Run("largest count that fits", func(t *testing.T) {
		got := aggregate(t, c, Purchases{"Sublime_$5": math.MaxInt64 / 6000})
		assert.Equal(t, int64(math.MaxInt64/6000*6000), got.Totals.Get("Alloy"))
	})
}

func TestNewRejectsOverflowingMerge(t *testing.T) {
	_, err := New([]Row{
		{Category: "Sublime", Package: "$5", Resource: "Alloy", Amount: math.MaxInt64},
		{Category: "Sublime", Package: "$5", Resource: "Alloy", Amount: 1},
	})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeInput))
}

func TestKeysRoundTripThroughAggregate(t *testing.T) {
	c, err := New([]Row{
		{Category: "Sublime", Package: "$5", Resource: "Alloy", Amount: 100},
		{Package: "Pack_A", Resource: "Alloy", Amount: 7},
		{Package: "Starter/Plus", Resource: "Plans", Amount: 2},
		{Package: "$20", Resource: "Amber", Amount: 4},
	})
	require.NoError(t, err)

	for _, key := range c.Keys() {
		got := aggregate(t, c, Purchases{key: 1})
		assert.Empty(t, got.Unknown, key)
		assert.False(t, got.Totals.IsZero(), key)
	}

	got := aggregate(t, c, Purchases{"Pack_A": 3})
	assert.Equal(t, types.CostVector{"Alloy": 21}, got.Totals)
}

func TestAggregateIsLinear(t *testing.T) {
	c := sampleCatalog(t)

	for n := int64(0); n <= 5; n++ {
		one := aggregate(t, c, Purchases{"Sublime_$5": 1}).Totals
		many := aggregate(t, c, Purchases{"Sublime_$5": n}).Totals
		for _, kind := range c.Resources() {
			assert.Equal(t, n*one.Get(kind), many.Get(kind))
		}
	}

	a := aggregate(t, c, Purchases{"Basic_$5": 2}).Totals
	b := aggregate(t, c, Purchases{"Sublime_$10": 1}).Totals
	both := aggregate(t, c, Purchases{"Basic_$5": 2, "Sublime_$10": 1}).Totals
	sum := a.Clone()
	sum.Add(b)
	assert.Equal(t, sum, both)
}

func TestPriceAndSpend(t *testing.T) {
	c := sampleCatalog(t)

	price, ok := c.Price(Key{Category: "Sublime", Package: "$10"})
	require.True(t, ok)
	assert.True(t, price.Equal(decimal.NewFromInt(10)))

	_, ok = c.Price(Key{Category: "Sublime", Package: "$42"})
	assert.False(t, ok)

	p, ok := ParsePrice("USD 9.99")
	require.True(t, ok)
	assert.Equal(t, "9.99", p.String())

	_, ok = ParsePrice("free")
	assert.False(t, ok)

	spend := c.Spend(Purchases{"Basic_$5": 4, "Sublime_$10": 1, "$20": 1, "Ghost_$50": 3})
	assert.Equal(t, "50", spend.String())
}

func TestValidate(t *testing.T) {
	assert.Empty(t, sampleCatalog(t).Validate(DefaultValidationRules()))

	c, err := New([]Row{
		{Category: "Gift", Package: "Free", Resource: "Alloy", Amount: 10},
		{Category: "Sublime", Package: "$5", Resource: "Alloy", Amount: 0},
	})
	require.NoError(t, err)

	errs := c.Validate(DefaultValidationRules())
	require.Len(t, errs, 2)
	assert.EqualError(t, errs[0], `Gift_Free: package "Free" has no price`)
	assert.EqualError(t, errs[1], "Sublime_$5: bundle grants nothing")
}
