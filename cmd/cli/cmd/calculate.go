// Package cmd - calculate command
package cmd

import (
	stderrors "errors"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"gear-cost/core/deficit"
	"gear-cost/core/output"
	"gear-cost/internal/app"
	"gear-cost/internal/config"
	"gear-cost/internal/logging"
)

var errShortfall = stderrors.New("upgrade plan has a resource shortfall")

var (
	outputFormat  string
	inputFile     string
	partFlags     []string
	ownedFlags    []string
	buyFlags      []string
	noColor       bool
	failOnDeficit bool
)

// calculateCmd represents the calculate command
var calculateCmd = &cobra.Command{
	Use:   "calculate",
	Short: "Calculate the resource deficit of an upgrade plan",
	Long: `Sum the resources needed for the selected gear upgrades and compare them to
what you own plus the contents of the bundles you plan to buy.

Without --input every part starts at Gold -> Gold and the four tracked
resources (Design, Alloy, Polish, Amber) are reported. Flags then override
individual parts, holdings and purchases.

Examples:
  gear-cost calculate --part Coat=Gold:Legendary --part Hat=Mythic
  gear-cost calculate --owned Alloy=250000 --owned "Lunar Amber=40"
  gear-cost calculate --buy Sublime_\$20=2 --buy DawnMarket_\$5=1
  gear-cost calculate --input plan.yaml --format csv`,
	Args: cobra.NoArgs,
	RunE: runCalculate,
}

func init() {
	calculateCmd.Flags().StringVarP(&outputFormat, "format", "f", "", "output format (table, json, csv, markdown); default from config")
	calculateCmd.Flags().StringVarP(&inputFile, "input", "i", "", "request file (YAML or JSON)")
	calculateCmd.Flags().StringArrayVarP(&partFlags, "part", "p", nil, "part selection PART=[CURRENT:]TARGET (repeatable)")
	calculateCmd.Flags().StringArrayVarP(&ownedFlags, "owned", "o", nil, "owned resource RESOURCE=AMOUNT (repeatable)")
	calculateCmd.Flags().StringArrayVarP(&buyFlags, "buy", "b", nil, "bundle purchase CATEGORY_PRICE=COUNT (repeatable)")
	calculateCmd.Flags().BoolVar(&noColor, "no-color", false, "disable colored output")
	calculateCmd.Flags().BoolVar(&failOnDeficit, "fail-on-deficit", false, "exit with status 2 when any resource is short")
}

func runCalculate(cmd *cobra.Command, args []string) error {
	startTime := time.Now()
	cfg := config.Get()
	log := logging.Named("calculate")

	format := outputFormat
	if format == "" {
		format = cfg.Output.Format
	}
	formatter, err := output.Default().Get(format)
	if err != nil {
		return err
	}
	if formatter.Format() == output.FormatTable {
		formatter = output.NewTableFormatter(noColor || cfg.Output.NoColor)
	}

	engine, err := app.NewEngine(cfg)
	if err != nil {
		return err
	}

	req, err := buildRequest(engine.Reference(), inputFile, partFlags, ownedFlags, buyFlags)
	if err != nil {
		return err
	}
	log.Debug("request built",
		zap.Int("parts", len(req.Parts)),
		zap.Int("owned", len(req.Owned)),
		zap.Int("purchases", len(req.Purchases)))

	if err := deficit.ValidateRequest(req); err != nil {
		return err
	}

	report, err := engine.Compute(req)
	if err != nil {
		return err
	}

	result := &output.Result{
		Report:  report,
		Request: &req,
		Metadata: output.Metadata{
			Timestamp: startTime.UTC().Format(time.RFC3339),
			Duration:  time.Since(startTime).String(),
			Version:   Version,
			Source:    engine.Reference().Source,
		},
	}
	if err := formatter.Render(cmd.OutOrStdout(), result); err != nil {
		return err
	}

	if failOnDeficit && report.Shortfall() {
		return errShortfall
	}
	return nil
}
