package trip

import "math"

// Local estimator constants. These mirror the backend model's coarse
// assumptions so a fallback estimate stays in the same ballpark.
const (
	// consumptionRate is battery percent consumed per kilometre.
	consumptionRate = 0.7
	// averageSpeedKmh is the assumed average trip speed.
	averageSpeedKmh = 40.0
)

// Estimate produces a local trip prediction from the given parameters. It is
// pure and deterministic: no network access, same inputs always yield the
// same result. The returned Prediction has the exact shape the backend path
// produces.
func Estimate(vehicleID string, p Params) Prediction {
	battery := p.BatteryPercent
	distance := p.DistanceKm

	socAfterTrip := math.Max(0, battery-distance*consumptionRate)
	fullRangeKm := battery / consumptionRate

	return Prediction{
		VehicleID:             vehicleID,
		SOCBeforeTrip:         battery,
		SOCAfterTrip:          socAfterTrip,
		EstimatedTimeHours:    distance / averageSpeedKmh,
		DistanceKm:            distance,
		FullRangeKm:           fullRangeKm,
		RangeAfterTripKm:      math.Max(0, socAfterTrip/consumptionRate),
		RechargeRequiredAtKm:  fullRangeKm,
		SafeToGo:              socAfterTrip > 15,
		WillReachDestination:  socAfterTrip > 5,
		CellImbalanceDetected: battery < 20 || socAfterTrip < 10,
	}
}
