// Package reference serves the read-only reference data the engine prices against:
// provinces with their tariffs, the equipment catalog per tier,
// installation rates and the panel selection table.
package reference

import "solar-proposal/core/types"

// Provider is the read-only reference data source.
// Implementations return copies; callers can never mutate provider state.
type Provider interface {
	// Region looks up a province by id
	Region(id string) (types.Region, error)

	// Regions returns every province ordered by id
	Regions() []types.Region

	// Panels returns the panel catalog of a tier ordered by id
	Panels(tier types.Tier) []types.Panel

	// Inverters returns the inverter catalog of a tier ordered by id
	Inverters(tier types.Tier) []types.Inverter

	// InstallationRates returns balance-of-system rates for a tier
	InstallationRates(tier types.Tier) (types.InstallationRates, error)

	// SelectionRules returns the panel selection table of a tier,
	// ascending by UpToKwp with the unbounded rule last
	SelectionRules(tier types.Tier) []types.SelectionRule

	// SnapshotHash identifies the dataset content
	SnapshotHash() string
}
