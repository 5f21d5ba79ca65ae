package output

import (
	"fmt"
	"io"
	"strings"

	"solar-proposal/core/types"
)

// MarkdownFormatter renders a markdown report
type MarkdownFormatter struct {
	opts Options
}

// NewMarkdownFormatter creates a markdown formatter
func NewMarkdownFormatter(opts Options) *MarkdownFormatter {
	return &MarkdownFormatter{opts: opts}
}

// Format returns FormatMarkdown
func (f *MarkdownFormatter) Format() Format {
	return FormatMarkdown
}

// Render writes the report
func (f *MarkdownFormatter) Render(w io.Writer, proposal *types.Proposal) error {
	v := NewView(proposal)
	var b strings.Builder

	title := "Solar proposal"
	if v.Customer.Name != "" {
		title += ": " + v.Customer.Name
	}
	fmt.Fprintf(&b, "# %s\n\n", title)
	fmt.Fprintf(&b, "`%s` · %s · valid until %s\n\n", v.ID, v.Customer.RegionName, v.ValidUntil[:10])

	b.WriteString("## System\n\n| Item | Value |\n|---|---|\n")
	fmt.Fprintf(&b, "| Size | %s kWp |\n", Number(v.System.SizeKwp, 2))
	fmt.Fprintf(&b, "| Panels | %d × %s |\n", v.System.PanelCount, v.System.Panel)
	fmt.Fprintf(&b, "| Inverter | %d × %s |\n", v.System.InverterCount, v.System.Inverter)
	fmt.Fprintf(&b, "| Roof area | %s m² |\n", Number(v.System.RoofAreaM2, 1))
	fmt.Fprintf(&b, "| Mounting | %s |\n", v.System.Mounting)
	fmt.Fprintf(&b, "| Annual production | %s kWh |\n", Number(v.Production.AnnualKwh, 0))
	fmt.Fprintf(&b, "| Coverage | %s%% |\n\n", Number(v.Production.CoveragePercent, 1))

	if f.opts.ShowMonthly {
		b.WriteString("| Month | kWh |\n|---|---:|\n")
		for i, kwh := range v.Production.MonthlyKwh {
			fmt.Fprintf(&b, "| %s | %s |\n", monthNames[i], Number(kwh, 0))
		}
		b.WriteString("\n")
	}

	b.WriteString("## Investment\n\n| Category | USD |\n|---|---:|\n")
	for _, line := range v.Financial.Costs {
		fmt.Fprintf(&b, "| %s | %s |\n", line.Category, USD(line.USD))
	}
	fmt.Fprintf(&b, "| **Total** | **%s** |\n\n", USD(v.Financial.TotalInvestmentUSD))
	fmt.Fprintf(&b, "Total in pesos: %s\n\n", ARS(v.Financial.TotalInvestmentARS))

	b.WriteString("## Returns\n\n")
	fmt.Fprintf(&b, "- Monthly savings: %s\n", ARS(v.Financial.MonthlySavingsARS))
	fmt.Fprintf(&b, "- Payback: %s\n", paybackLabel(v.Financial.PaybackYears))
	fmt.Fprintf(&b, "- IRR: %s\n", irrLabel(v.Financial.IRRPercent))
	fmt.Fprintf(&b, "- NPV: %s\n", USD(v.Financial.NPVUSD))
	fmt.Fprintf(&b, "- ROI: %s%%\n\n", Number(v.Financial.ROIPercent, 1))

	if f.opts.ShowProjection {
		b.WriteString("| Year | kWh | Savings | Net position |\n|---:|---:|---:|---:|\n")
		for _, y := range v.Financial.Projection {
			fmt.Fprintf(&b, "| %d | %s | %s | %s |\n", y.Year, Number(y.ProductionKwh, 0), USD(y.SavingsUSD), USD(y.NetPositionUSD))
		}
		b.WriteString("\n")
	}

	b.WriteString("## Environment\n\n")
	fmt.Fprintf(&b, "- %s kg CO₂ avoided per year\n", Number(v.Environmental.AnnualCO2AvoidedKg, 0))
	fmt.Fprintf(&b, "- %d trees, %s cars off the road\n", v.Environmental.TreesEquivalent, Number(v.Environmental.CarsOffRoad, 1))

	if len(v.Assumptions) > 0 {
		b.WriteString("\n## Assumptions\n\n")
		for _, a := range v.Assumptions {
			fmt.Fprintf(&b, "- _%s_: %s\n", a.Stage, a.Description)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}
