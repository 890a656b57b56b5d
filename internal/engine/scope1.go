package engine

// OnsiteFraction is the share of energy attributed to on-site combustion.
const OnsiteFraction = 0.05

// Scope1 returns direct on-site emissions for energyKWh.
func Scope1(energyKWh, factor float64) float64 {
	return energyKWh * factor * OnsiteFraction
}
