// Package types defines core domain types shared across all layers.
// This package contains NO business logic - only type definitions.
package types

import "fmt"

// InstallationClass selects the applicable tariff block and size limits
type InstallationClass string

const (
	ClassResidential InstallationClass = "residential"
	ClassCommercial  InstallationClass = "commercial"
)

// String returns the string representation
func (c InstallationClass) String() string {
	return string(c)
}

// IsValid checks if the class is known
func (c InstallationClass) IsValid() bool {
	switch c {
	case ClassResidential, ClassCommercial:
		return true
	default:
		return false
	}
}

// RoofMaterial describes the roof the array is mounted on
type RoofMaterial string

const (
	RoofTile     RoofMaterial = "tile"
	RoofMetal    RoofMaterial = "metal"
	RoofConcrete RoofMaterial = "concrete"
	RoofFlat     RoofMaterial = "flat"
)

// String returns the string representation
func (r RoofMaterial) String() string {
	return string(r)
}

// IsValid checks if the roof material is known
func (r RoofMaterial) IsValid() bool {
	switch r {
	case RoofTile, RoofMetal, RoofConcrete, RoofFlat:
		return true
	default:
		return false
	}
}

// Orientation is the compass class the roof faces.
// North is optimal in the southern hemisphere.
type Orientation string

const (
	OrientationNorth     Orientation = "north"
	OrientationNortheast Orientation = "northeast"
	OrientationNorthwest Orientation = "northwest"
	OrientationEast      Orientation = "east"
	OrientationWest      Orientation = "west"
)

// Orientations returns every orientation class in a stable order
func Orientations() []Orientation {
	return []Orientation{
		OrientationNorth,
		OrientationNortheast,
		OrientationNorthwest,
		OrientationEast,
		OrientationWest,
	}
}

// String returns the string representation
func (o Orientation) String() string {
	return string(o)
}

// IsValid checks if the orientation is known
func (o Orientation) IsValid() bool {
	for _, known := range Orientations() {
		if o == known {
			return true
		}
	}
	return false
}

// Tier is the equipment budget tier
type Tier string

const (
	TierEconomy  Tier = "economy"
	TierStandard Tier = "standard"
	TierPremium  Tier = "premium"
)

// Tiers returns every tier in a stable order
func Tiers() []Tier {
	return []Tier{TierEconomy, TierStandard, TierPremium}
}

// String returns the string representation
func (t Tier) String() string {
	return string(t)
}

// IsValid checks if the tier is known
func (t Tier) IsValid() bool {
	switch t {
	case TierEconomy, TierStandard, TierPremium:
		return true
	default:
		return false
	}
}

// ParseTier converts user input into a Tier
func ParseTier(s string) (Tier, error) {
	t := Tier(s)
	if !t.IsValid() {
		return "", fmt.Errorf("unknown equipment tier %q", s)
	}
	return t, nil
}

// FinancingIntent is informational only; it never affects calculations
type FinancingIntent string

const (
	FinancingCash      FinancingIntent = "cash"
	FinancingLoan      FinancingIntent = "financing"
	FinancingUndecided FinancingIntent = "undecided"
)

// IsValid checks if the financing intent is known (empty is allowed)
func (f FinancingIntent) IsValid() bool {
	switch f {
	case "", FinancingCash, FinancingLoan, FinancingUndecided:
		return true
	default:
		return false
	}
}

// MountingClass is the racking style
type MountingClass string

const (
	MountingFlush     MountingClass = "flush"
	MountingTilted    MountingClass = "tilted"
	MountingBallasted MountingClass = "ballasted"
)

// MountingClasses returns every mounting class in a stable order
func MountingClasses() []MountingClass {
	return []MountingClass{MountingFlush, MountingTilted, MountingBallasted}
}

// String returns the string representation
func (m MountingClass) String() string {
	return string(m)
}

// Currency represents a currency code
type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyARS Currency = "ARS"
)

// String returns the string representation
func (c Currency) String() string {
	return string(c)
}
