package refdata

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"gear-cost/core/catalog"
	"gear-cost/core/ladder"
	"gear-cost/core/types"
)

// Column names of the tabular sources
const (
	ColumnLevel    = "Level"
	ColumnCategory = "Category"
	ColumnPackage  = "Package"
	ColumnResource = "Resource"
	ColumnAmount   = "Amount"
)

// ParseLadderCSV reads a ladder table: a Level column followed by one column
// per resource kind. Row order is ladder order; empty cells read as zero.
func ParseLadderCSV(r io.Reader) ([]ladder.Tier, error) {
	header, records, err := readTable(r)
	if err != nil {
		return nil, err
	}

	levelCol := -1
	for i, h := range header {
		if strings.EqualFold(h, ColumnLevel) {
			levelCol = i
			break
		}
	}
	if levelCol < 0 {
		return nil, fmt.Errorf("missing %q column", ColumnLevel)
	}

	var tiers []ladder.Tier
	for n, rec := range records {
		line := n + 2
		tier := ladder.Tier{Name: strings.TrimSpace(rec[levelCol]), Cost: make(types.CostVector)}
		for i, cell := range rec {
			if i == levelCol || header[i] == "" {
				continue
			}
			amount, err := parseAmount(cell)
			if err != nil {
				return nil, fmt.Errorf("line %d column %s: %w", line, header[i], err)
			}
			tier.Cost[types.ResourceKind(header[i])] = amount
		}
		tiers = append(tiers, tier)
	}
	return tiers, nil
}

// ParseCatalogCSV reads a bundle table with Category, Package, Resource and
// Amount columns. Category is optional; without it every bundle is flat.
func ParseCatalogCSV(r io.Reader) ([]catalog.Row, error) {
	header, records, err := readTable(r)
	if err != nil {
		return nil, err
	}

	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(h)] = i
	}
	for _, required := range []string{ColumnPackage, ColumnResource, ColumnAmount} {
		if _, ok := cols[strings.ToLower(required)]; !ok {
			return nil, fmt.Errorf("missing %q column", required)
		}
	}
	categoryCol, hasCategory := cols[strings.ToLower(ColumnCategory)]

	var rows []catalog.Row
	for n, rec := range records {
		line := n + 2
		amount, err := parseAmount(rec[cols["amount"]])
		if err != nil {
			return nil, fmt.Errorf("line %d column %s: %w", line, ColumnAmount, err)
		}
		row := catalog.Row{
			Package:  strings.TrimSpace(rec[cols["package"]]),
			Resource: types.ResourceKind(strings.TrimSpace(rec[cols["resource"]])),
			Amount:   amount,
		}
		if hasCategory {
			row.Category = strings.TrimSpace(rec[categoryCol])
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func readTable(r io.Reader) ([]string, [][]string, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.Comment = '#'

	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("no header row")
	}

	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		header[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}
	return header, records[1:], nil
}

// parseAmount accepts integers and integral decimals such as "1500.0"
func parseAmount(cell string) (int64, error) {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return 0, nil
	}
	if n, err := strconv.ParseInt(cell, 10, 64); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(cell, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) || f != math.Trunc(f) {
		return 0, fmt.Errorf("invalid amount %q", cell)
	}
	return int64(f), nil
}
