package greenops

// EPA greenhouse gas equivalency factors, kg CO2e per unit of activity.
// Source: https://www.epa.gov/energy/greenhouse-gas-equivalencies-calculator
//
//	equivalency = kg_CO2e / factor
const (
	// EPAMilesDrivenFactor is per mile in an average passenger vehicle.
	EPAMilesDrivenFactor = 0.393

	// EPAVehicleYearFactor is one typical passenger vehicle driven for a year.
	EPAVehicleYearFactor = 4600.0

	// EPAHomeYearFactor is one average US home's electricity use for a year.
	EPAHomeYearFactor = 5139.0

	// EPATreeSeedlingFactor is one urban tree seedling grown for 10 years.
	EPATreeSeedlingFactor = 60.0
)

// TonnesToKg converts metric tonnes to kilograms.
const TonnesToKg = 1000.0

// Display thresholds.
const (
	// MinEquivalencyThresholdKg is the smallest value worth an equivalency.
	MinEquivalencyThresholdKg = 1.0

	// VehicleYearThresholdKg switches the headline equivalency from miles
	// driven to vehicle-years.
	VehicleYearThresholdKg = 100 * EPAVehicleYearFactor

	// LargeNumberThreshold and above render as "~X.X million".
	LargeNumberThreshold = 1_000_000

	// BillionThreshold and above render as "~X.X billion".
	BillionThreshold = 1_000_000_000
)
