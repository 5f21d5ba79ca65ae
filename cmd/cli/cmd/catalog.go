// Package cmd - reference data commands
package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"solar-proposal/core/output"
	"solar-proposal/core/types"
)

var regionsCmd = &cobra.Command{
	Use:   "regions",
	Short: "List provinces with irradiance, tariffs and net-metering policy",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine()
		if err != nil {
			return err
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tNAME\tUTILITY\tkWh/m²/day\tRESIDENTIAL ARS/kWh\tNET METERING")
		for _, r := range eng.Provider().Regions() {
			nm := "no"
			if r.NetMetering.Enabled {
				nm = string(r.NetMetering.Scheme)
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%.1f\t%s\t%s\n",
				r.ID, r.Name, r.Utility, r.SolarIrradiance,
				output.Number(r.ResidentialTariff.EnergyCharge, 0), nm)
		}
		fmt.Fprintf(tw, "\nreference snapshot %s\n", eng.Provider().SnapshotHash())
		return tw.Flush()
	},
}

var catalogCmd = &cobra.Command{
	Use:       "catalog [tier]",
	Short:     "List panels, inverters and installation rates per tier",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{string(types.TierEconomy), string(types.TierStandard), string(types.TierPremium)},
	RunE: func(cmd *cobra.Command, args []string) error {
		tiers := types.Tiers()
		if len(args) == 1 {
			tier, err := types.ParseTier(args[0])
			if err != nil {
				return err
			}
			tiers = []types.Tier{tier}
		}

		eng, err := newEngine()
		if err != nil {
			return err
		}
		provider := eng.Provider()

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		for i, tier := range tiers {
			if i > 0 {
				fmt.Fprintln(tw)
			}
			fmt.Fprintf(tw, "%s\n", tier)

			fmt.Fprintln(tw, "  PANEL\tW\tEFFICIENCY\tUSD")
			for _, p := range provider.Panels(tier) {
				fmt.Fprintf(tw, "  %s (%s %s)\t%d\t%.1f%%\t%s\n", p.ID, p.Brand, p.Model, p.Wattage, p.Efficiency, p.PriceUSD.StringFixed(2))
			}

			fmt.Fprintln(tw, "  INVERTER\tkW\tPHASES\tUSD")
			for _, inv := range provider.Inverters(tier) {
				fmt.Fprintf(tw, "  %s (%s %s)\t%.1f\t%d\t%s\n", inv.ID, inv.Brand, inv.Model, inv.PowerKw, inv.Phases, inv.PriceUSD.StringFixed(2))
			}

			rates, err := provider.InstallationRates(tier)
			if err != nil {
				return err
			}
			fmt.Fprintf(tw, "  rates per kWp: mounting %s, cabling %s, protections %s, installation %s, design %s; permits %s\n",
				rates.MountingPerKwp.StringFixed(2), rates.CablingPerKwp.StringFixed(2), rates.ProtectionsPerKwp.StringFixed(2),
				rates.InstallationPerKwp.StringFixed(2), rates.DesignPerKwp.StringFixed(2), rates.PermitsFlat.StringFixed(2))
		}
		return tw.Flush()
	},
}
