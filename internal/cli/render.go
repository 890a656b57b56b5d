package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"github.com/rshade/cellscope/internal/config"
	"github.com/rshade/cellscope/internal/greenops"
	"github.com/rshade/cellscope/internal/runner"
	"github.com/rshade/cellscope/internal/scenario"
)

// Rendering constants.
const (
	boxWidth        = 60
	boxTitlePadding = 4
	tabPadding      = 2
)

// boxBorderColor returns the Lip Gloss color used for box borders.
func boxBorderColor() lipgloss.Color { return lipgloss.Color("240") }

// boxTitleColor returns the Lip Gloss color used for box titles.
func boxTitleColor() lipgloss.Color { return lipgloss.Color("39") }

func sectionColor() lipgloss.Color { return lipgloss.Color("33") }

func warningColor() lipgloss.Color { return lipgloss.Color("214") }

// isWriterTerminal reports whether w is a terminal.
func isWriterTerminal(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return isTerminal(f)
	}
	return false
}

// runOutput is the machine-readable form of a single run.
type runOutput struct {
	runner.Run  `yaml:",inline"`
	Equivalents *greenops.EquivalencyOutput `json:"equivalents,omitempty" yaml:"equivalents,omitempty"`
}

// yearLine is one NDJSON record.
type yearLine struct {
	Scenario string `json:"scenario"`
	RunID    string `json:"run_id,omitempty"`
	scenario.YearResult
}

func newRunOutput(run runner.Run) runOutput {
	out := runOutput{Run: run}
	if run.Result != nil {
		if eq, err := greenops.FromTonnes(run.Result.TotalEmissions); err == nil && !eq.IsEmpty {
			out.Equivalents = &eq
		}
	}
	return out
}

// checkFormat rejects unknown output formats.
func checkFormat(format string) error {
	switch format {
	case config.FormatTable, config.FormatJSON, config.FormatYAML, config.FormatNDJSON:
		return nil
	}
	return fmt.Errorf("%w: unknown output format %q (want table, json, yaml or ndjson)",
		scenario.ErrInvalidConfiguration, format)
}

// RenderRun writes a run in format.
func RenderRun(w io.Writer, format string, precision int, run runner.Run) error {
	switch format {
	case config.FormatJSON:
		return writeJSON(w, newRunOutput(run))
	case config.FormatYAML:
		return writeYAML(w, newRunOutput(run))
	case config.FormatNDJSON:
		return writeNDJSON(w, []runner.Run{run})
	case config.FormatTable:
		return renderRunTable(w, precision, run)
	}
	return checkFormat(format)
}

// RenderComparison writes comparison results in format.
func RenderComparison(w io.Writer, format string, precision int, results []*scenario.Result) error {
	switch format {
	case config.FormatJSON:
		return writeJSON(w, map[string]any{"results": results})
	case config.FormatYAML:
		return writeYAML(w, map[string]any{"results": results})
	case config.FormatNDJSON:
		enc := json.NewEncoder(w)
		for _, r := range results {
			if err := enc.Encode(r); err != nil {
				return err
			}
		}
		return nil
	case config.FormatTable:
		return renderComparisonTable(w, precision, results)
	}
	return checkFormat(format)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

// writeNDJSON emits one line per computed year. A single-year run yields a
// single line.
func writeNDJSON(w io.Writer, runs []runner.Run) error {
	enc := json.NewEncoder(w)
	for _, run := range runs {
		res := run.Result
		years := res.Years
		if len(years) == 0 {
			years = []scenario.YearResult{singleYear(res)}
		}
		for _, y := range years {
			if err := enc.Encode(yearLine{Scenario: resultTitle(res), RunID: run.RunID, YearResult: y}); err != nil {
				return err
			}
		}
	}
	return nil
}

// singleYear folds a single-year result into a YearResult.
func singleYear(res *scenario.Result) scenario.YearResult {
	y := scenario.YearResult{
		Year:       res.StartYear,
		Cells:      res.TotalCells,
		EnergyKWh:  res.TotalEnergyKWh,
		Scope1:     res.Scope1,
		Scope2:     res.Scope2,
		Scope3:     res.Scope3,
		Emissions:  res.TotalEmissions,
		CarbonCost: res.CarbonCost,
		EnergyCost: res.EnergyCost,
		Incomplete: res.Incomplete,
	}
	if priced := pricedTotal(res); priced > 0 {
		y.CarbonPrice = res.CarbonCost / priced
	}
	return y
}

func pricedTotal(res *scenario.Result) float64 {
	if res.CarbonBasis == scenario.CarbonBasisOperational {
		return res.OperationalEmissions()
	}
	return res.TotalEmissions
}

// resultTitle names a result, falling back to its dimensions.
func resultTitle(res *scenario.Result) string {
	if res.Name != "" {
		return res.Name
	}
	return strings.Join([]string{
		res.Location.Label(), res.Strategy.Label(), string(res.Chemistry),
	}, " / ")
}

func periodLabel(res *scenario.Result) string {
	if res.StartYear == res.EndYear {
		return fmt.Sprintf("%d", res.StartYear)
	}
	return fmt.Sprintf("%d-%d", res.StartYear, res.EndYear)
}

// renderRunTable renders a styled box on terminals and plain text
// otherwise.
func renderRunTable(w io.Writer, precision int, run runner.Run) error {
	if isWriterTerminal(w) {
		return renderStyledRun(w, precision, run)
	}
	return renderPlainRun(w, precision, run)
}

func renderStyledRun(w io.Writer, precision int, run runner.Run) error {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(boxTitleColor())
	sectionStyle := lipgloss.NewStyle().Bold(true).Foreground(sectionColor())
	warnStyle := lipgloss.NewStyle().Foreground(warningColor())
	borderStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(boxBorderColor()).
		Padding(0, 1).
		Width(boxWidth)

	res := run.Result
	var content strings.Builder
	content.WriteString(titleStyle.Render(strings.ToUpper(resultTitle(res))))
	content.WriteString("\n")
	content.WriteString(strings.Repeat("═", boxWidth-boxTitlePadding))
	content.WriteString("\n")
	content.WriteString(runHeader(run))
	content.WriteString("\n\n")

	content.WriteString(sectionStyle.Render("EMISSIONS"))
	content.WriteString("\n")
	content.WriteString(emissionLines(res, precision))

	content.WriteString("\n")
	content.WriteString(sectionStyle.Render("COST"))
	content.WriteString("\n")
	content.WriteString(costLines(res, precision))

	if len(res.Years) > 0 {
		content.WriteString("\n")
		content.WriteString(sectionStyle.Render("BY YEAR"))
		content.WriteString("\n")
		content.WriteString(yearTable(res, precision))
	}

	if eq, err := greenops.FromTonnes(res.TotalEmissions); err == nil && !eq.IsEmpty {
		content.WriteString("\n")
		content.WriteString(eq.DisplayText)
		content.WriteString("\n")
	}
	if res.Incomplete {
		content.WriteString("\n")
		content.WriteString(warnStyle.Render(incompleteLine(res)))
		content.WriteString("\n")
	}

	_, err := fmt.Fprintln(w, borderStyle.Render(strings.TrimRight(content.String(), "\n")))
	return err
}

func renderPlainRun(w io.Writer, precision int, run runner.Run) error {
	res := run.Result
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", resultTitle(res))
	b.WriteString(runHeader(run))
	b.WriteString("\n\n")
	b.WriteString(emissionLines(res, precision))
	b.WriteString("\n")
	b.WriteString(costLines(res, precision))
	if len(res.Years) > 0 {
		b.WriteString("\n")
		b.WriteString(yearTable(res, precision))
	}
	if eq, err := greenops.FromTonnes(res.TotalEmissions); err == nil && !eq.IsEmpty {
		b.WriteString("\n")
		b.WriteString(eq.DisplayText)
		b.WriteString("\n")
	}
	if res.Incomplete {
		b.WriteString("\n")
		b.WriteString(incompleteLine(res))
		b.WriteString("\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func runHeader(run runner.Run) string {
	res := run.Result
	line := fmt.Sprintf("%s, %s, %s, %s", res.Location.Label(), periodLabel(res), res.Strategy.Label(), res.Chemistry)
	if run.Cached {
		return line + "\nrun " + run.RunID + " (cached)"
	}
	return line + "\nrun " + run.RunID
}

func emissionLines(res *scenario.Result, precision int) string {
	return tabulate(func(tw *tabwriter.Writer) {
		fmt.Fprintf(tw, "Scope 1\t%s\n", greenops.FormatTonnes(res.Scope1, precision))
		fmt.Fprintf(tw, "Scope 2\t%s\n", greenops.FormatTonnes(res.Scope2, precision))
		fmt.Fprintf(tw, "Scope 3 (%s)\t%s\n", res.Scope3Method, greenops.FormatTonnes(res.Scope3, precision))
		fmt.Fprintf(tw, "Total\t%s\n", greenops.FormatTonnes(res.TotalEmissions, precision))
		fmt.Fprintf(tw, "Energy\t%s kWh\n", greenops.FormatFloat(res.TotalEnergyKWh, 0))
		fmt.Fprintf(tw, "Cells\t%s\n", greenops.FormatFloat(res.TotalCells, 0))
	})
}

func costLines(res *scenario.Result, precision int) string {
	return tabulate(func(tw *tabwriter.Writer) {
		fmt.Fprintf(tw, "Energy cost\t%s\n", greenops.FormatMoney(res.EnergyCost, res.Currency, precision))
		fmt.Fprintf(tw, "Carbon cost (%s)\t%s\n", res.CarbonBasis, greenops.FormatMoney(res.CarbonCost, res.Currency, precision))
		fmt.Fprintf(tw, "Total cost\t%s\n",
			greenops.FormatMoney(res.EnergyCost+res.CarbonCost, res.Currency, precision))
	})
}

func yearTable(res *scenario.Result, precision int) string {
	return tabulate(func(tw *tabwriter.Writer) {
		fmt.Fprintln(tw, "YEAR\tSCOPE 1\tSCOPE 2\tSCOPE 3\tTOTAL\tCARBON COST")
		for _, y := range res.Years {
			mark := ""
			if y.Incomplete {
				mark = " *"
			}
			fmt.Fprintf(tw, "%d%s\t%s\t%s\t%s\t%s\t%s\n", y.Year, mark,
				greenops.FormatFloat(y.Scope1, precision),
				greenops.FormatFloat(y.Scope2, precision),
				greenops.FormatFloat(y.Scope3, precision),
				greenops.FormatFloat(y.Emissions, precision),
				greenops.FormatFloat(y.CarbonCost, precision))
		}
	})
}

func incompleteLine(res *scenario.Result) string {
	years := make([]string, 0, len(res.MissingYears))
	for _, y := range res.MissingYears {
		years = append(years, fmt.Sprintf("%d", y))
	}
	return "Incomplete: reference data missing for " + strings.Join(years, ", ")
}

func tabulate(fn func(tw *tabwriter.Writer)) string {
	var b strings.Builder
	tw := tabwriter.NewWriter(&b, 0, 0, tabPadding, ' ', 0)
	fn(tw)
	_ = tw.Flush()
	return b.String()
}

func renderComparisonTable(w io.Writer, precision int, results []*scenario.Result) error {
	if isWriterTerminal(w) {
		titleStyle := lipgloss.NewStyle().Bold(true).Foreground(boxTitleColor())
		borderStyle := lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(boxBorderColor()).
			Padding(0, 1)
		body := titleStyle.Render("SCENARIO COMPARISON") + "\n" + comparisonTable(results, precision)
		_, err := fmt.Fprintln(w, borderStyle.Render(strings.TrimRight(body, "\n")))
		return err
	}
	_, err := io.WriteString(w, comparisonTable(results, precision))
	return err
}

func comparisonTable(results []*scenario.Result, precision int) string {
	return tabulate(func(tw *tabwriter.Writer) {
		fmt.Fprintln(tw, "SCENARIO\tSCOPE 1\tSCOPE 2\tSCOPE 3\tTOTAL tCO2e\tENERGY COST\tCARBON COST")
		for _, r := range results {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n", resultTitle(r),
				greenops.FormatFloat(r.Scope1, precision),
				greenops.FormatFloat(r.Scope2, precision),
				greenops.FormatFloat(r.Scope3, precision),
				greenops.FormatFloat(r.TotalEmissions, precision),
				greenops.FormatMoney(r.EnergyCost, r.Currency, precision),
				greenops.FormatMoney(r.CarbonCost, r.Currency, precision))
		}
	})
}
