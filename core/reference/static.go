package reference

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"solar-proposal/core/determinism"
	"solar-proposal/core/pricing"
	"solar-proposal/core/types"
	apperrors "solar-proposal/internal/errors"
)

// Dataset is the raw reference content before indexing
type Dataset struct {
	Regions   []types.Region            `json:"regions"`
	Panels    []types.Panel             `json:"panels"`
	Inverters []types.Inverter          `json:"inverters"`
	Rates     []types.InstallationRates `json:"installation_rates"`
	Rules     []types.SelectionRule     `json:"selection_rules"`
}

// Static is an in-memory Provider. It is immutable after construction
// and safe for concurrent use.
type Static struct {
	regions   map[string]types.Region
	regionIDs []string
	panels    map[types.Tier][]types.Panel
	inverters map[types.Tier][]types.Inverter
	rates     map[types.Tier]types.InstallationRates
	rules     map[types.Tier][]types.SelectionRule
	hash      string
}

var _ Provider = (*Static)(nil)

// NewStatic validates and indexes a dataset
func NewStatic(ds Dataset) (*Static, error) {
	s := &Static{
		regions:   make(map[string]types.Region),
		panels:    make(map[types.Tier][]types.Panel),
		inverters: make(map[types.Tier][]types.Inverter),
		rates:     make(map[types.Tier]types.InstallationRates),
		rules:     make(map[types.Tier][]types.SelectionRule),
	}

	for _, r := range ds.Regions {
		if err := validateRegion(r); err != nil {
			return nil, err
		}
		id := normalizeID(r.ID)
		if _, exists := s.regions[id]; exists {
			return nil, apperrors.InvalidInput("duplicate region %q", r.ID)
		}
		r.ID = id
		s.regions[id] = r.Clone()
		s.regionIDs = append(s.regionIDs, id)
	}
	sort.Strings(s.regionIDs)

	panelIDs := make(map[string]types.Panel)
	for _, p := range ds.Panels {
		if err := validatePanel(p); err != nil {
			return nil, err
		}
		if _, exists := panelIDs[p.ID]; exists {
			return nil, apperrors.InvalidInput("duplicate panel %q", p.ID)
		}
		panelIDs[p.ID] = p
		s.panels[p.Tier] = append(s.panels[p.Tier], p)
	}

	inverterIDs := make(map[string]bool)
	for _, inv := range ds.Inverters {
		if err := validateInverter(inv); err != nil {
			return nil, err
		}
		if inverterIDs[inv.ID] {
			return nil, apperrors.InvalidInput("duplicate inverter %q", inv.ID)
		}
		inverterIDs[inv.ID] = true
		s.inverters[inv.Tier] = append(s.inverters[inv.Tier], inv)
	}

	for _, rates := range ds.Rates {
		if !rates.Tier.IsValid() {
			return nil, apperrors.InvalidInput("installation rates have unknown tier %q", rates.Tier)
		}
		if _, exists := s.rates[rates.Tier]; exists {
			return nil, apperrors.InvalidInput("duplicate installation rates for tier %s", rates.Tier)
		}
		for _, v := range []struct {
			name string
			neg  bool
		}{
			{"mounting", rates.MountingPerKwp.IsNegative()},
			{"cabling", rates.CablingPerKwp.IsNegative()},
			{"protections", rates.ProtectionsPerKwp.IsNegative()},
			{"installation", rates.InstallationPerKwp.IsNegative()},
			{"design", rates.DesignPerKwp.IsNegative()},
			{"permits", rates.PermitsFlat.IsNegative()},
		} {
			if v.neg {
				return nil, apperrors.InvalidInput("%s rate for tier %s is negative", v.name, rates.Tier)
			}
		}
		s.rates[rates.Tier] = rates
	}

	for _, rule := range ds.Rules {
		if !rule.Tier.IsValid() {
			return nil, apperrors.InvalidInput("selection rule has unknown tier %q", rule.Tier)
		}
		if rule.UpToKwp < 0 {
			return nil, apperrors.InvalidInput("selection rule for tier %s has negative bound", rule.Tier)
		}
		panel, ok := panelIDs[rule.PanelID]
		if !ok {
			return nil, apperrors.InvalidInput("selection rule for tier %s references unknown panel %q", rule.Tier, rule.PanelID)
		}
		if panel.Tier != rule.Tier {
			return nil, apperrors.InvalidInput("selection rule for tier %s references %s-tier panel %q", rule.Tier, panel.Tier, rule.PanelID)
		}
		s.rules[rule.Tier] = append(s.rules[rule.Tier], rule)
	}

	for tier := range s.panels {
		sort.Slice(s.panels[tier], func(i, j int) bool { return s.panels[tier][i].ID < s.panels[tier][j].ID })
	}
	for tier := range s.inverters {
		sort.Slice(s.inverters[tier], func(i, j int) bool { return s.inverters[tier][i].ID < s.inverters[tier][j].ID })
	}
	for tier, rules := range s.rules {
		sortRules(rules)
		for i, rule := range rules {
			if rule.UpToKwp == 0 && i != len(rules)-1 {
				return nil, apperrors.InvalidInput("tier %s has more than one unbounded selection rule", tier)
			}
			if i > 0 && rule.UpToKwp != 0 && rule.UpToKwp == rules[i-1].UpToKwp {
				return nil, apperrors.InvalidInput("tier %s has duplicate selection bound %g", tier, rule.UpToKwp)
			}
		}
	}

	hash, err := contentHash(s)
	if err != nil {
		return nil, apperrors.Internal("failed to hash reference data", err)
	}
	s.hash = hash

	return s, nil
}

// Region looks up a province by id (case-insensitive)
func (s *Static) Region(id string) (types.Region, error) {
	r, ok := s.regions[normalizeID(id)]
	if !ok {
		return types.Region{}, apperrors.NotFound("region", id)
	}
	return r.Clone(), nil
}

// Regions returns every province ordered by id
func (s *Static) Regions() []types.Region {
	out := make([]types.Region, 0, len(s.regionIDs))
	for _, id := range s.regionIDs {
		out = append(out, s.regions[id].Clone())
	}
	return out
}

// Panels returns a copy of the tier's panel catalog
func (s *Static) Panels(tier types.Tier) []types.Panel {
	return append([]types.Panel(nil), s.panels[tier]...)
}

// Inverters returns a copy of the tier's inverter catalog
func (s *Static) Inverters(tier types.Tier) []types.Inverter {
	return append([]types.Inverter(nil), s.inverters[tier]...)
}

// InstallationRates returns the rates of a tier
func (s *Static) InstallationRates(tier types.Tier) (types.InstallationRates, error) {
	rates, ok := s.rates[tier]
	if !ok {
		return types.InstallationRates{}, apperrors.NotFound("installation rates", tier.String())
	}
	return rates, nil
}

// SelectionRules returns a copy of the tier's selection table
func (s *Static) SelectionRules(tier types.Tier) []types.SelectionRule {
	return append([]types.SelectionRule(nil), s.rules[tier]...)
}

// SnapshotHash returns the SHA-256 of the canonical dataset
func (s *Static) SnapshotHash() string {
	return s.hash
}

func normalizeID(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}

// sortRules orders ascending by bound with the unbounded rule last
func sortRules(rules []types.SelectionRule) {
	sort.SliceStable(rules, func(i, j int) bool {
		a, b := rules[i].UpToKwp, rules[j].UpToKwp
		if a == 0 {
			return false
		}
		if b == 0 {
			return true
		}
		return a < b
	})
}

func validateRegion(r types.Region) error {
	if normalizeID(r.ID) == "" {
		return apperrors.InvalidInput("region id is required")
	}
	if r.SolarIrradiance <= 0 {
		return apperrors.InvalidInput("region %s: solar irradiance must be positive", r.ID)
	}
	if r.ExchangeRate <= 0 {
		return apperrors.InvalidInput("region %s: exchange rate must be positive", r.ID)
	}
	for _, class := range []types.InstallationClass{types.ClassResidential, types.ClassCommercial} {
		if err := pricing.ValidateTariff(r.TariffFor(class)); err != nil {
			return apperrors.Wrap(apperrors.TypeInvalidInput, fmt.Sprintf("region %s: %s tariff", r.ID, class), err)
		}
	}
	if r.NetMetering.CreditRate < 0 {
		return apperrors.InvalidInput("region %s: net metering credit rate is negative", r.ID)
	}
	switch r.NetMetering.Scheme {
	case "", types.SchemeNetMetering, types.SchemeNetBilling:
	default:
		return apperrors.InvalidInput("region %s: unknown net metering scheme %q", r.ID, r.NetMetering.Scheme)
	}
	return nil
}

func validatePanel(p types.Panel) error {
	switch {
	case p.ID == "":
		return apperrors.InvalidInput("panel id is required")
	case !p.Tier.IsValid():
		return apperrors.InvalidInput("panel %s: unknown tier %q", p.ID, p.Tier)
	case p.Wattage <= 0:
		return apperrors.InvalidInput("panel %s: wattage must be positive", p.ID)
	case p.Dimensions.Area() <= 0:
		return apperrors.InvalidInput("panel %s: dimensions must be positive", p.ID)
	case p.PriceUSD.IsNegative():
		return apperrors.InvalidInput("panel %s: price is negative", p.ID)
	}
	return nil
}

func validateInverter(inv types.Inverter) error {
	switch {
	case inv.ID == "":
		return apperrors.InvalidInput("inverter id is required")
	case !inv.Tier.IsValid():
		return apperrors.InvalidInput("inverter %s: unknown tier %q", inv.ID, inv.Tier)
	case inv.PowerKw <= 0:
		return apperrors.InvalidInput("inverter %s: rated power must be positive", inv.ID)
	case inv.Phases != 1 && inv.Phases != 3:
		return apperrors.InvalidInput("inverter %s: phases must be 1 or 3", inv.ID)
	case inv.PriceUSD.IsNegative():
		return apperrors.InvalidInput("inverter %s: price is negative", inv.ID)
	}
	switch inv.Topology {
	case types.TopologyString, types.TopologyHybrid, types.TopologyMicro:
	default:
		return apperrors.InvalidInput("inverter %s: unknown topology %q", inv.ID, inv.Topology)
	}
	return nil
}

// contentHash serializes the indexed dataset in a stable order and hashes it
func contentHash(s *Static) (string, error) {
	canonical := Dataset{Regions: s.Regions()}
	for _, tier := range types.Tiers() {
		canonical.Panels = append(canonical.Panels, s.panels[tier]...)
		canonical.Inverters = append(canonical.Inverters, s.inverters[tier]...)
		if rates, ok := s.rates[tier]; ok {
			canonical.Rates = append(canonical.Rates, rates)
		}
		canonical.Rules = append(canonical.Rules, s.rules[tier]...)
	}

	data, err := json.Marshal(canonical)
	if err != nil {
		return "", err
	}
	return determinism.ComputeHash(data).Hex(), nil
}
