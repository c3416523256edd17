package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gear-cost/core/gear"
	"gear-cost/core/ui"
)

// TableFormatter renders an aligned terminal table
type TableFormatter struct {
	NoColor bool
}

// NewTableFormatter creates a table formatter
func NewTableFormatter(noColor bool) *TableFormatter {
	return &TableFormatter{NoColor: noColor}
}

// Format returns the format type
func (f *TableFormatter) Format() Format { return FormatTable }

// Render writes the resource summary table followed by notes on purchases
func (f *TableFormatter) Render(w io.Writer, result *Result) error {
	out := ui.NewWriter(w, f.NoColor)
	report := result.Report

	out.Header("Resource Summary")
	table := out.NewTable("Resource", "Required", "Owned", "Deficit")
	for col := 1; col <= 3; col++ {
		table.SetAlign(col, ui.AlignRight)
	}
	for _, row := range report.Rows {
		cells := []string{
			gear.Label(row.Resource),
			formatAmount(row.Required),
			formatAmount(row.Owned),
			formatAmount(row.Deficit),
		}
		if row.Deficit > 0 {
			table.AddColoredRow(ui.Red, cells...)
		} else {
			table.AddRow(cells...)
		}
	}
	table.Render()
	out.Println("")

	if !report.Spend.IsZero() || len(report.Untracked) > 0 || len(report.IgnoredBundles) > 0 {
		out.SubHeader("Bundles")
	}
	if !report.Spend.IsZero() {
		out.Println("Bundle spend: $%s", report.Spend.StringFixed(2))
	}
	if len(report.Untracked) > 0 {
		var parts []string
		for _, kind := range report.Untracked.Kinds() {
			parts = append(parts, fmt.Sprintf("%s %s", formatAmount(report.Untracked[kind]), gear.Label(kind)))
		}
		out.Println("Also from bundles: %s", strings.Join(parts, ", "))
	}
	for _, key := range report.IgnoredBundles {
		out.Warning("ignored unknown bundle %s", key)
	}

	if report.Shortfall() {
		out.Error("short by %s resources in total", formatAmount(report.TotalDeficit()))
	} else {
		out.Success("all upgrades are covered")
	}
	return nil
}

// JSONFormatter renders the full result as indented JSON
type JSONFormatter struct{}

// Format returns the format type
func (JSONFormatter) Format() Format { return FormatJSON }

// Render writes result as JSON
func (JSONFormatter) Render(w io.Writer, result *Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

// CSVFormatter renders the report rows as CSV
type CSVFormatter struct{}

// Format returns the format type
func (CSVFormatter) Format() Format { return FormatCSV }

// Render writes a Resource,Required,Owned,Deficit table
func (CSVFormatter) Render(w io.Writer, result *Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Resource", "Required", "Owned", "Deficit"}); err != nil {
		return err
	}
	for _, row := range result.Report.Rows {
		record := []string{
			string(row.Resource),
			strconv.FormatInt(row.Required, 10),
			strconv.FormatInt(row.Owned, 10),
			strconv.FormatInt(row.Deficit, 10),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarkdownFormatter renders a GitHub-flavored markdown table
type MarkdownFormatter struct{}

// Format returns the format type
func (MarkdownFormatter) Format() Format { return FormatMarkdown }

// Render writes the report as a markdown table
func (MarkdownFormatter) Render(w io.Writer, result *Result) error {
	var b strings.Builder
	b.WriteString("| Resource | Required | Owned | Deficit |\n")
	b.WriteString("|---|---:|---:|---:|\n")
	for _, row := range result.Report.Rows {
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n",
			gear.Label(row.Resource),
			formatAmount(row.Required),
			formatAmount(row.Owned),
			formatAmount(row.Deficit))
	}
	if !result.Report.Spend.IsZero() {
		fmt.Fprintf(&b, "\nBundle spend: $%s\n", result.Report.Spend.StringFixed(2))
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// formatAmount groups thousands: 1234567 -> 1,234,567
func formatAmount(n int64) string {
	s := strconv.FormatInt(n, 10)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	for i := len(s) - 3; i > 0; i -= 3 {
		s = s[:i] + "," + s[i:]
	}
	return sign + s
}
