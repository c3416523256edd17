package refdata

import (
	"fmt"

	"github.com/hashicorp/hcl/v2/hclsimple"

	"gear-cost/core/catalog"
	"gear-cost/core/ladder"
	"gear-cost/core/types"
)

// hclDocument is the HCL form of reference data:
//
//	tier "Silver" {
//	  costs = { Alloy = 10 }
//	}
//
//	bundle "Basic" "$5" {
//	  contents = { Design = 3 }
//	}
//
// Flat catalogs use the "none" category label.
type hclDocument struct {
	Tiers   []hclTier   `hcl:"tier,block"`
	Bundles []hclBundle `hcl:"bundle,block"`
}

type hclTier struct {
	Level string           `hcl:"level,label"`
	Costs map[string]int64 `hcl:"costs,optional"`
}

type hclBundle struct {
	Category string           `hcl:"category,label"`
	Package  string           `hcl:"package,label"`
	Contents map[string]int64 `hcl:"contents,optional"`
}

func decodeHCL(filename string, data []byte) (*hclDocument, error) {
	var doc hclDocument
	if err := hclsimple.Decode(filename, data, nil, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// ParseLadderHCL reads tier blocks in file order.
// filename must end in .hcl; it is used for diagnostics and syntax selection.
func ParseLadderHCL(filename string, data []byte) ([]ladder.Tier, error) {
	doc, err := decodeHCL(filename, data)
	if err != nil {
		return nil, err
	}
	if len(doc.Tiers) == 0 {
		return nil, fmt.Errorf("no tier blocks defined")
	}

	tiers := make([]ladder.Tier, 0, len(doc.Tiers))
	for _, t := range doc.Tiers {
		cost := make(types.CostVector, len(t.Costs))
		for k, v := range t.Costs {
			cost[types.ResourceKind(k)] = v
		}
		tiers = append(tiers, ladder.Tier{Name: t.Level, Cost: cost})
	}
	return tiers, nil
}

// ParseCatalogHCL reads bundle blocks in file order
func ParseCatalogHCL(filename string, data []byte) ([]catalog.Row, error) {
	doc, err := decodeHCL(filename, data)
	if err != nil {
		return nil, err
	}
	if len(doc.Bundles) == 0 {
		return nil, fmt.Errorf("no bundle blocks defined")
	}

	var rows []catalog.Row
	for _, b := range doc.Bundles {
		rows = append(rows, contentRows(b.Category, b.Package, b.Contents)...)
	}
	return rows, nil
}
