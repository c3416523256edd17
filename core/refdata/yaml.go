package refdata

import (
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	"gear-cost/core/catalog"
	"gear-cost/core/ladder"
	"gear-cost/core/types"
)

// yamlDocument is the YAML form of reference data. One file may carry the
// ladder, the catalog, or both.
//
//	tiers:
//	  - level: Silver
//	    costs: {Alloy: 10}
//	bundles:
//	  - category: Basic
//	    package: $5
//	    contents: {Design: 3}
type yamlDocument struct {
	Tiers   []yamlTier   `yaml:"tiers"`
	Bundles []yamlBundle `yaml:"bundles"`
}

type yamlTier struct {
	Level string           `yaml:"level"`
	Costs map[string]int64 `yaml:"costs"`
}

type yamlBundle struct {
	Category string           `yaml:"category"`
	Package  string           `yaml:"package"`
	Contents map[string]int64 `yaml:"contents"`
}

// ParseLadderYAML reads the tiers section of a YAML document
func ParseLadderYAML(data []byte) ([]ladder.Tier, error) {
	var doc yamlDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if len(doc.Tiers) == 0 {
		return nil, fmt.Errorf("no tiers defined")
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

// ParseCatalogYAML reads the bundles section of a YAML document.
// Contents of one bundle are emitted in resource name order.
func ParseCatalogYAML(data []byte) ([]catalog.Row, error) {
	var doc yamlDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if len(doc.Bundles) == 0 {
		return nil, fmt.Errorf("no bundles defined")
	}

	var rows []catalog.Row
	for _, b := range doc.Bundles {
		rows = append(rows, contentRows(b.Category, b.Package, b.Contents)...)
	}
	return rows, nil
}

func contentRows(category, pkg string, contents map[string]int64) []catalog.Row {
	names := make([]string, 0, len(contents))
	for name := range contents {
		names = append(names, name)
	}
	sort.Strings(names)

	rows := make([]catalog.Row, 0, len(names))
	for _, name := range names {
		rows = append(rows, catalog.Row{
			Category: category,
			Package:  pkg,
			Resource: types.ResourceKind(name),
			Amount:   contents[name],
		})
	}
	return rows
}
