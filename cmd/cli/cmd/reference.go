// Package cmd - tiers and bundles commands
package cmd

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"gear-cost/core/gear"
	"gear-cost/core/ui"
	"gear-cost/internal/app"
	"gear-cost/internal/config"
	"gear-cost/internal/errors"
	"gear-cost/internal/suggest"
)

var referenceJSON bool

// tiersCmd lists the tier ladder
var tiersCmd = &cobra.Command{
	Use:   "tiers",
	Short: "List gear tiers and the cost of reaching each one",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ref, err := app.LoadReference(config.Get())
		if err != nil {
			return err
		}
		if referenceJSON {
			return writeJSON(cmd, ref.Ladder.Tiers())
		}

		out := ui.NewWriter(cmd.OutOrStdout(), config.Get().Output.NoColor)
		resources := ref.Ladder.Resources()
		headers := []string{"#", "Tier"}
		for _, kind := range resources {
			headers = append(headers, gear.Label(kind))
		}
		table := out.NewTable(headers...)
		table.SetAlign(0, ui.AlignRight)
		for i := range resources {
			table.SetAlign(i+2, ui.AlignRight)
		}
		for _, tier := range ref.Ladder.Tiers() {
			row := []string{strconv.Itoa(tier.Ordinal), tier.Name}
			for _, kind := range resources {
				row = append(row, strconv.FormatInt(tier.Cost.Get(kind), 10))
			}
			table.AddRow(row...)
		}
		out.Header("Tiers (" + ref.Source.Ladder + ")")
		table.Render()
		return nil
	},
}

// bundlesCmd lists the bundle catalog
var bundlesCmd = &cobra.Command{
	Use:   "bundles [category]",
	Short: "List purchasable bundles and their contents",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ref, err := app.LoadReference(config.Get())
		if err != nil {
			return err
		}

		defs := ref.Catalog.Definitions()
		if len(args) == 1 {
			category := args[0]
			filtered := defs[:0]
			for _, def := range defs {
				if strings.EqualFold(def.Key.Category, category) {
					filtered = append(filtered, def)
				}
			}
			if len(filtered) == 0 {
				err := errors.NotFound("bundle category", category)
				if near := suggest.Closest(category, ref.Catalog.Categories(), 3); len(near) > 0 {
					return fmt.Errorf("%w (did you mean %s?)", err, strings.Join(near, ", "))
				}
				return err
			}
			defs = filtered
		}
		if referenceJSON {
			return writeJSON(cmd, defs)
		}

		out := ui.NewWriter(cmd.OutOrStdout(), config.Get().Output.NoColor)
		table := out.NewTable("Bundle", "Price", "Contents")
		table.SetAlign(1, ui.AlignRight)
		for _, def := range defs {
			price := "-"
			if p, ok := ref.Catalog.Price(def.Key); ok {
				price = "$" + p.StringFixed(2)
			}
			contents := make([]string, 0, len(def.Entries))
			for _, e := range def.Entries {
				contents = append(contents, fmt.Sprintf("%d %s", e.Amount, gear.Label(e.Resource)))
			}
			table.AddRow(def.Key.String(), price, strings.Join(contents, ", "))
		}
		out.Header("Bundles (" + ref.Source.Catalog + ")")
		table.Render()
		return nil
	},
}

func init() {
	tiersCmd.Flags().BoolVar(&referenceJSON, "json", false, "print as JSON")
	bundlesCmd.Flags().BoolVar(&referenceJSON, "json", false, "print as JSON")
}

func writeJSON(cmd *cobra.Command, v interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
