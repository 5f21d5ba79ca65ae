// Package design sizes a photovoltaic system and picks its equipment.
package design

import (
	"math"
	"sort"

	"github.com/shopspring/decimal"

	"solar-proposal/core/assumptions"
	"solar-proposal/core/reference"
	"solar-proposal/core/types"
	"solar-proposal/internal/config"
	apperrors "solar-proposal/internal/errors"
)

// epsilon absorbs float noise before ceil/floor on panel counts and ratio edges
const epsilon = 1e-9

// CablingMetersPerPanel and CablingBaseMeters estimate the DC and AC runs
const (
	CablingMetersPerPanel = 3.0
	CablingBaseMeters     = 20.0
)

// Protections is the code-required device set, independent of size
var Protections = []string{
	"Surge protection device (SPD)",
	"DC disconnect switch",
	"AC circuit breaker",
	"String fuses",
	"Grounding system",
}

// Designer builds SystemConfigurations from a resolved consumption.
// It is stateless and safe for concurrent use.
type Designer struct {
	provider reference.Provider
	cfg      config.EngineConfig
}

// NewDesigner creates a designer
func NewDesigner(provider reference.Provider, cfg config.EngineConfig) *Designer {
	return &Designer{provider: provider, cfg: cfg}
}

// Design sizes a system for monthlyKwh
func (d *Designer) Design(monthlyKwh float64, region types.Region, input types.CustomerInput) (types.SystemConfiguration, error) {
	return d.DesignTracked(monthlyKwh, region, input, nil)
}

// DesignTracked is Design with caps and defaults recorded on tracker
func (d *Designer) DesignTracked(monthlyKwh float64, region types.Region, input types.CustomerInput, tracker *assumptions.Tracker) (types.SystemConfiguration, error) {
	if err := d.validate(monthlyKwh, region, input); err != nil {
		return types.SystemConfiguration{}, err
	}

	orientationFactor := d.cfg.OrientationFactors[input.Orientation]
	targetAnnual := monthlyKwh * 12 * d.cfg.OverbuildFactor
	requiredKwp := targetAnnual / (region.SolarIrradiance * 365 * d.cfg.PerformanceRatio * orientationFactor)

	tracker.RecordDefault(assumptions.StageDesign, "target production is %.0f%% of annual consumption", d.cfg.OverbuildFactor*100)
	if orientationFactor < 1 {
		tracker.RecordDerived(assumptions.StageDesign, "%s-facing roof sized with orientation factor %.2f", input.Orientation, orientationFactor)
	}

	panel, err := d.SelectPanel(input.Tier, requiredKwp)
	if err != nil {
		return types.SystemConfiguration{}, err
	}

	count := int(math.Ceil(requiredKwp*1000/float64(panel.Wattage) - epsilon))
	if count < 1 {
		count = 1
	}

	if maxKwp := d.cfg.MaxSystemKwp[input.Class]; maxKwp > 0 {
		maxCount := int(math.Floor(maxKwp*1000/float64(panel.Wattage) + epsilon))
		if maxCount < 1 {
			return types.SystemConfiguration{}, apperrors.NoEquipment("panel %s exceeds the %g kWp %s limit", panel.ID, maxKwp, input.Class)
		}
		if count > maxCount {
			tracker.RecordLimit(assumptions.StageDesign, "system capped at %g kWp %s limit (%d panels instead of %d)", maxKwp, input.Class, maxCount, count)
			count = maxCount
		}
	}

	panelRoofArea := panel.Dimensions.Area() * d.cfg.RoofSpacingFactor
	if input.AvailableRoofAreaM2 > 0 {
		maxByRoof := int(math.Floor(input.AvailableRoofAreaM2/panelRoofArea + epsilon))
		if maxByRoof < 1 {
			return types.SystemConfiguration{}, apperrors.InvalidInput("available roof area %.1f m² cannot fit one %s panel (%.2f m²)", input.AvailableRoofAreaM2, panel.ID, panelRoofArea)
		}
		if count > maxByRoof {
			tracker.RecordLimit(assumptions.StageDesign, "system capped by %.1f m² of roof (%d panels instead of %d)", input.AvailableRoofAreaM2, maxByRoof, count)
			count = maxByRoof
		}
	}

	sizeKwp := float64(count*panel.Wattage) / 1000

	inverter, inverterCount, err := d.SelectInverter(input.Tier, sizeKwp)
	if err != nil {
		return types.SystemConfiguration{}, err
	}
	acKw := inverter.PowerKw * float64(inverterCount)

	return types.SystemConfiguration{
		SystemSizeKwp: sizeKwp,
		Panel:         panel,
		PanelCount:    count,
		Inverter:      inverter,
		InverterCount: inverterCount,
		RoofAreaM2:    panelRoofArea * float64(count),
		Mounting:      MountingFor(input.Roof, input.Class),
		Protections:   append([]string(nil), Protections...),
		CablingMeters: CablingMetersPerPanel*float64(count) + CablingBaseMeters,
		DCACRatio:     sizeKwp / acKw,
	}, nil
}

func (d *Designer) validate(monthlyKwh float64, region types.Region, input types.CustomerInput) error {
	switch {
	case math.IsNaN(monthlyKwh) || monthlyKwh <= 0:
		return apperrors.InvalidInput("monthly consumption must be positive, got %g", monthlyKwh)
	case region.SolarIrradiance <= 0:
		return apperrors.InvalidInput("region %s has no solar irradiance", region.ID)
	case !input.Class.IsValid():
		return apperrors.InvalidInput("unknown installation class %q", input.Class)
	case !input.Roof.IsValid():
		return apperrors.InvalidInput("unknown roof material %q", input.Roof)
	case !input.Orientation.IsValid():
		return apperrors.InvalidInput("unknown roof orientation %q", input.Orientation)
	case !input.Tier.IsValid():
		return apperrors.InvalidInput("unknown equipment tier %q", input.Tier)
	case input.AvailableRoofAreaM2 < 0:
		return apperrors.InvalidInput("available roof area must not be negative")
	}
	return nil
}

// SelectPanel walks the tier's selection table. The first rule whose bound
// exceeds requiredKwp wins; past the last bound the last rule applies.
func (d *Designer) SelectPanel(tier types.Tier, requiredKwp float64) (types.Panel, error) {
	rules := d.provider.SelectionRules(tier)
	if len(rules) == 0 {
		return types.Panel{}, apperrors.NoEquipment("no panel selection rules for tier %s", tier)
	}

	rule := rules[len(rules)-1]
	for _, r := range rules {
		if r.UpToKwp == 0 || requiredKwp < r.UpToKwp {
			rule = r
			break
		}
	}

	for _, p := range d.provider.Panels(tier) {
		if p.ID == rule.PanelID {
			return p, nil
		}
	}
	return types.Panel{}, apperrors.NoEquipment("panel %s is not in the %s catalog", rule.PanelID, tier)
}

type inverterOption struct {
	inverter types.Inverter
	count    int
	acKw     float64
}

// SelectInverter returns the smallest configuration of identical inverters whose
// DC/AC ratio falls within the configured band: fewest units, then least AC power,
// then lowest total price, then id.
func (d *Designer) SelectInverter(tier types.Tier, sizeKwp float64) (types.Inverter, int, error) {
	var options []inverterOption
	for _, inv := range d.provider.Inverters(tier) {
		for n := 1; n <= d.cfg.MaxInverterCount; n++ {
			acKw := inv.PowerKw * float64(n)
			ratio := sizeKwp / acKw
			if ratio < d.cfg.DCACRatioMin-epsilon {
				break
			}
			if ratio <= d.cfg.DCACRatioMax+epsilon {
				options = append(options, inverterOption{inverter: inv, count: n, acKw: acKw})
			}
		}
	}

	if len(options) == 0 {
		return types.Inverter{}, 0, apperrors.NoEquipment("no %s inverter configuration fits %.2f kWp within DC/AC %.2f-%.2f",
			tier, sizeKwp, d.cfg.DCACRatioMin, d.cfg.DCACRatioMax)
	}

	sort.Slice(options, func(i, j int) bool {
		a, b := options[i], options[j]
		if a.count != b.count {
			return a.count < b.count
		}
		if a.acKw != b.acKw {
			return a.acKw < b.acKw
		}
		pa := a.inverter.PriceUSD.Mul(decimal.NewFromInt(int64(a.count)))
		pb := b.inverter.PriceUSD.Mul(decimal.NewFromInt(int64(b.count)))
		if !pa.Equal(pb) {
			return pa.LessThan(pb)
		}
		return a.inverter.ID < b.inverter.ID
	})

	best := options[0]
	return best.inverter, best.count, nil
}

// MountingFor maps the roof to a racking style
func MountingFor(roof types.RoofMaterial, class types.InstallationClass) types.MountingClass {
	if roof != types.RoofFlat {
		return types.MountingFlush
	}
	if class == types.ClassCommercial {
		return types.MountingBallasted
	}
	return types.MountingTilted
}
