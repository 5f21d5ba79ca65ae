package output

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"solar-proposal/core/types"
)

var monthNames = [12]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// TextFormatter renders an aligned terminal report
type TextFormatter struct {
	opts Options
}

// NewTextFormatter creates a text formatter
func NewTextFormatter(opts Options) *TextFormatter {
	return &TextFormatter{opts: opts}
}

// Format returns FormatText
func (f *TextFormatter) Format() Format {
	return FormatText
}

// Render writes the report
func (f *TextFormatter) Render(w io.Writer, proposal *types.Proposal) error {
	v := NewView(proposal)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	header := "Solar proposal"
	if v.Customer.Name != "" {
		header += " for " + v.Customer.Name
	}
	fmt.Fprintf(tw, "%s\n%s\n", header, strings.Repeat("=", len(header)))
	fmt.Fprintf(tw, "ID:\t%s\n", v.ID)
	fmt.Fprintf(tw, "Issued:\t%s\n", proposal.CreatedAt.Format(time.DateOnly))
	fmt.Fprintf(tw, "Valid until:\t%s\n", proposal.ValidUntil.Format(time.DateOnly))
	location := v.Customer.RegionName
	if v.Customer.City != "" {
		location = v.Customer.City + ", " + location
	}
	fmt.Fprintf(tw, "Location:\t%s (%s)\n", location, v.Customer.Utility)
	fmt.Fprintf(tw, "Consumption:\t%s kWh/month (%s)\n", Number(v.Customer.MonthlyConsumptionKwh, 0), v.Customer.ConsumptionSource)

	fmt.Fprintf(tw, "\nSYSTEM\n")
	fmt.Fprintf(tw, "Size:\t%s kWp\n", Number(v.System.SizeKwp, 2))
	fmt.Fprintf(tw, "Panels:\t%d × %s (%d W)\n", v.System.PanelCount, v.System.Panel, v.System.PanelWattage)
	fmt.Fprintf(tw, "Inverter:\t%d × %s (%s kW)\n", v.System.InverterCount, v.System.Inverter, Number(v.System.InverterKw, 1))
	fmt.Fprintf(tw, "DC/AC ratio:\t%s\n", Number(v.System.DCACRatio, 2))
	fmt.Fprintf(tw, "Roof area:\t%s m²\n", Number(v.System.RoofAreaM2, 1))
	fmt.Fprintf(tw, "Mounting:\t%s\n", v.System.Mounting)
	fmt.Fprintf(tw, "Cabling:\t%s m\n", Number(v.System.CablingMeters, 0))

	fmt.Fprintf(tw, "\nPRODUCTION\n")
	fmt.Fprintf(tw, "Annual:\t%s kWh\n", Number(v.Production.AnnualKwh, 0))
	fmt.Fprintf(tw, "Specific yield:\t%s kWh/kWp\n", Number(v.Production.SpecificYield, 0))
	fmt.Fprintf(tw, "Coverage:\t%s%%\n", Number(v.Production.CoveragePercent, 1))
	if f.opts.ShowMonthly {
		for i, kwh := range v.Production.MonthlyKwh {
			fmt.Fprintf(tw, "  %s\t%s kWh\n", monthNames[i], Number(kwh, 0))
		}
	}

	fmt.Fprintf(tw, "\nINVESTMENT\n")
	for _, line := range v.Financial.Costs {
		fmt.Fprintf(tw, "  %s\t%s\n", line.Category, USD(line.USD))
	}
	fmt.Fprintf(tw, "Total:\t%s\n", USD(v.Financial.TotalInvestmentUSD))
	fmt.Fprintf(tw, "Total (ARS):\t%s at %s ARS/USD\n", ARS(v.Financial.TotalInvestmentARS), Number(v.Financial.ExchangeRate, 2))

	fmt.Fprintf(tw, "\nRETURNS\n")
	fmt.Fprintf(tw, "Monthly savings:\t%s\n", ARS(v.Financial.MonthlySavingsARS))
	fmt.Fprintf(tw, "Annual savings:\t%s (%s)\n", ARS(v.Financial.AnnualSavingsARS), USD(v.Financial.AnnualSavingsUSD))
	fmt.Fprintf(tw, "Payback:\t%s\n", paybackLabel(v.Financial.PaybackYears))
	fmt.Fprintf(tw, "IRR:\t%s\n", irrLabel(v.Financial.IRRPercent))
	fmt.Fprintf(tw, "NPV:\t%s\n", USD(v.Financial.NPVUSD))
	fmt.Fprintf(tw, "ROI:\t%s%%\n", Number(v.Financial.ROIPercent, 1))
	fmt.Fprintf(tw, "LCOE:\t%s USD/kWh\n", Number(v.Financial.LCOEUSDPerKwh, 4))
	if f.opts.ShowProjection {
		fmt.Fprintf(tw, "  Year\tkWh\tSavings\tNet position\n")
		for _, y := range v.Financial.Projection {
			fmt.Fprintf(tw, "  %d\t%s\t%s\t%s\n", y.Year, Number(y.ProductionKwh, 0), USD(y.SavingsUSD), USD(y.NetPositionUSD))
		}
	}

	fmt.Fprintf(tw, "\nENVIRONMENT\n")
	fmt.Fprintf(tw, "CO2 avoided:\t%s kg/year (%s kg lifetime)\n",
		Number(v.Environmental.AnnualCO2AvoidedKg, 0), Number(v.Environmental.LifetimeCO2AvoidedKg, 0))
	fmt.Fprintf(tw, "Equivalent to:\t%d trees, %s cars, %s homes\n",
		v.Environmental.TreesEquivalent, Number(v.Environmental.CarsOffRoad, 1), Number(v.Environmental.HomesEquivalent, 1))

	if len(v.Assumptions) > 0 {
		fmt.Fprintf(tw, "\nASSUMPTIONS\n")
		for _, a := range v.Assumptions {
			fmt.Fprintf(tw, "  [%s]\t%s\n", a.Stage, a.Description)
		}
	}

	return tw.Flush()
}

func paybackLabel(years *float64) string {
	if years == nil {
		return "not reached within the projection"
	}
	return Number(*years, 1) + " years"
}

func irrLabel(irr *float64) string {
	if irr == nil {
		return "undefined"
	}
	return Number(*irr, 1) + "%"
}
