// Package cmd - propose command
package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"solar-proposal/core/output"
	"solar-proposal/core/reference"
	"solar-proposal/core/types"
	"solar-proposal/internal/config"
	"solar-proposal/internal/logging"
)

var (
	proposeInput   types.CustomerInput
	proposeUtility string
	outputFormat   string
	showMonthly    bool
	showProjection bool
	batchFile      string
	batchWorkers   int
)

// proposeCmd represents the propose command
var proposeCmd = &cobra.Command{
	Use:   "propose",
	Short: "Generate a proposal for one customer or a batch",
	Long: `Size, price and evaluate a solar installation.

Consumption comes from --kwh when given; otherwise it is estimated from
--bill using the region's tariff. The region can be given directly or
resolved from the utility company name.

Examples:
  solar-proposal propose --region cordoba --kwh 450
  solar-proposal propose --utility "Edesur" --bill 95000 --orientation east
  solar-proposal propose --batch customers.json --workers 4 --format json`,
	Args: cobra.NoArgs,
	RunE: runPropose,
}

func init() {
	f := proposeCmd.Flags()
	f.StringVarP(&proposeInput.RegionID, "region", "r", "", "province id (see 'regions')")
	f.StringVar(&proposeUtility, "utility", "", "utility company name, used when --region is empty")
	f.StringVar(&proposeInput.City, "city", "", "city (informational)")
	f.StringVar(&proposeInput.CustomerName, "name", "", "customer name")
	f.Float64Var(&proposeInput.MonthlyBillARS, "bill", 0, "monthly bill in ARS")
	f.Float64Var(&proposeInput.MonthlyConsumptionKwh, "kwh", 0, "monthly consumption in kWh")
	f.StringVar((*string)(&proposeInput.Class), "class", string(types.ClassResidential), "installation class (residential, commercial)")
	f.StringVar((*string)(&proposeInput.Roof), "roof", string(types.RoofTile), "roof material (tile, metal, concrete, flat)")
	f.StringVar((*string)(&proposeInput.Orientation), "orientation", string(types.OrientationNorth), "roof orientation (north, northeast, northwest, east, west)")
	f.StringVarP((*string)(&proposeInput.Tier), "tier", "t", string(types.TierStandard), "equipment tier (economy, standard, premium)")
	f.StringVar((*string)(&proposeInput.Financing), "financing", "", "financing intent (cash, financing, undecided)")
	f.Float64Var(&proposeInput.AvailableRoofAreaM2, "roof-area", 0, "usable roof area in m² (0 = unconstrained)")

	f.StringVarP(&outputFormat, "format", "f", "", "output format (text, json, markdown)")
	f.BoolVar(&showMonthly, "monthly", true, "show monthly production")
	f.BoolVar(&showProjection, "projection", false, "show the yearly projection")
	f.StringVar(&batchFile, "batch", "", "JSON file with an array of customer inputs")
	f.IntVar(&batchWorkers, "workers", runtime.NumCPU(), "concurrent proposals in batch mode")
}

func runPropose(cmd *cobra.Command, args []string) error {
	cfg := config.Get()
	if outputFormat == "" {
		outputFormat = cfg.Output.DefaultFormat
	}
	if !cmd.Flags().Changed("monthly") {
		showMonthly = cfg.Output.ShowMonthly
	}
	if !cmd.Flags().Changed("projection") {
		showProjection = cfg.Output.ShowProjection
	}

	registry := output.NewRegistry(output.Options{ShowMonthly: showMonthly, ShowProjection: showProjection})
	formatter, err := registry.Get(outputFormat)
	if err != nil {
		return err
	}

	eng, err := newEngine()
	if err != nil {
		return err
	}

	if batchFile != "" {
		inputs, err := readBatch(batchFile)
		if err != nil {
			return err
		}
		logging.Info("generating batch", zap.String("file", batchFile), zap.Int("count", len(inputs)), zap.Int("workers", batchWorkers))

		proposals, err := eng.GenerateBatch(cmd.Context(), inputs, batchWorkers)
		if err != nil {
			return err
		}
		return renderBatch(cmd.OutOrStdout(), formatter, proposals)
	}

	input := proposeInput
	if input.RegionID == "" && proposeUtility != "" {
		id, ok := reference.RegionForUtility(proposeUtility)
		if !ok {
			return fmt.Errorf("unknown utility %q; pass --region instead", proposeUtility)
		}
		logging.Debug("resolved utility", zap.String("utility", proposeUtility), zap.String("region", id))
		input.RegionID = id
	}
	if input.RegionID == "" {
		return fmt.Errorf("--region or --utility is required")
	}

	proposal, err := eng.Generate(input)
	if err != nil {
		return err
	}
	return formatter.Render(cmd.OutOrStdout(), proposal)
}

func readBatch(path string) ([]types.CustomerInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var inputs []types.CustomerInput
	if err := json.Unmarshal(data, &inputs); err != nil {
		return nil, fmt.Errorf("failed to parse batch file %s: %w", path, err)
	}
	if len(inputs) == 0 {
		return nil, fmt.Errorf("batch file %s is empty", path)
	}
	return inputs, nil
}

// renderBatch writes JSON batches as one array and other formats one after another
func renderBatch(w io.Writer, formatter output.Formatter, proposals []*types.Proposal) error {
	if formatter.Format() == output.FormatJSON {
		views := make([]output.View, 0, len(proposals))
		for _, p := range proposals {
			views = append(views, output.NewView(p))
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(views)
	}

	for i, p := range proposals {
		if i > 0 {
			fmt.Fprintln(w)
		}
		if err := formatter.Render(w, p); err != nil {
			return err
		}
	}
	return nil
}
