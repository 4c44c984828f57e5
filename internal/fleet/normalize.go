package fleet

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/evrider/rideassist/internal/trip"
)

// unwrapRoster extracts the vehicle entries from whichever envelope the
// backend chose: a bare array, {"vehicles": [...]}, or {"data": [...]}.
func unwrapRoster(body []byte) ([]json.RawMessage, bool) {
	var entries []json.RawMessage
	if err := json.Unmarshal(body, &entries); err == nil {
		return entries, true
	}

	var envelope struct {
		Vehicles []json.RawMessage `json:"vehicles"`
		Data     []json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, false
	}
	if envelope.Vehicles != nil {
		return envelope.Vehicles, true
	}
	if envelope.Data != nil {
		return envelope.Data, true
	}
	return nil, false
}

// decodeVehicle normalizes one roster entry. Entries may be objects carrying
// the id and name under several historical keys, or bare scalars that serve
// as both.
func decodeVehicle(raw json.RawMessage, index int) (trip.Vehicle, bool) {
	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err == nil {
		id := firstString(obj, "id", "vehicleId", "vehicle_id")
		name := firstString(obj, "name", "vehicleName", "vehicle_name", "vehicleNum")
		if id == "" {
			id = name
		}
		if name == "" {
			name = id
		}
		if id == "" {
			return trip.Vehicle{}, false
		}
		return trip.Vehicle{ID: id, Name: name}, true
	}

	var scalar any
	if err := json.Unmarshal(raw, &scalar); err != nil {
		return trip.Vehicle{}, false
	}
	s := stringify(scalar)
	if s == "" {
		return trip.Vehicle{}, false
	}
	return trip.Vehicle{ID: s, Name: s}, true
}

// firstString returns the stringified value of the first key present and
// non-empty in obj.
func firstString(obj map[string]any, keys ...string) string {
	for _, key := range keys {
		if v, ok := obj[key]; ok {
			if s := stringify(v); s != "" {
				return s
			}
		}
	}
	return ""
}

// stringify renders a scalar JSON value as a string. Integral floats drop
// the decimal point so numeric ids round-trip cleanly.
func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		if t == float64(int64(t)) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	}
	return ""
}

// Candidate keys for each telemetry field, in precedence order. The backend
// has shipped several spellings over time; tempBms is the battery-pack sensor
// and wins over ambient readings.
var (
	distanceKeys = []string{"distanceKm", "distance", "distanceKms", "plannedDistanceKm"}
	trafficKeys  = []string{"traffic", "trafficLevel"}
	tempKeys     = []string{"tempBms", "temperature", "temp", "ambientTemperature", "ambientTemp"}
	socKeys      = []string{"soc", "battery", "stateOfCharge", "socBeforeTrip", "currentSoc"}
)

// normalizeTelemetry maps a raw telemetry object onto the canonical snapshot.
// For each field the first candidate key holding a usable value wins; numeric
// fields accept numbers or numeric strings. Traffic and temperature get safe
// defaults when absent, distance and SOC stay unset.
func normalizeTelemetry(fields map[string]any) trip.Telemetry {
	tel := trip.Telemetry{
		DistanceKm:   firstNumber(fields, distanceKeys),
		TemperatureC: firstNumber(fields, tempKeys),
		SOC:          firstNumber(fields, socKeys),
	}

	if s := firstString(fields, trafficKeys...); s != "" {
		switch strings.ToLower(s) {
		case "low":
			tel.Traffic = trip.TrafficLow
		case "medium":
			tel.Traffic = trip.TrafficMedium
		case "high":
			tel.Traffic = trip.TrafficHigh
		}
	}
	if tel.Traffic == "" {
		tel.Traffic = trip.TrafficLow
	}
	if tel.TemperatureC == nil {
		v := 25.0
		tel.TemperatureC = &v
	}

	return tel
}

// firstNumber returns the first candidate key holding a number or a numeric
// string, or nil when none does.
func firstNumber(obj map[string]any, keys []string) *float64 {
	for _, key := range keys {
		v, ok := obj[key]
		if !ok {
			continue
		}
		switch t := v.(type) {
		case float64:
			n := t
			return &n
		case string:
			if n, err := strconv.ParseFloat(strings.TrimSpace(t), 64); err == nil {
				return &n
			}
		}
	}
	return nil
}

// predictionResponse is the backend's prediction wire shape. Several fields
// have shipped under two names; the alternates are folded in below. The
// cellImbalenceDetected misspelling is the backend's, preserved on the wire
// only.
type predictionResponse struct {
	VehicleID             string   `json:"vehicleId"`
	SOCBeforeTrip         float64  `json:"socBeforeTrip"`
	SOCAfterTrip          float64  `json:"socAfterTrip"`
	EstimatedTimeHours    *float64 `json:"estimatedTimeHours"`
	EstimatedTime         *float64 `json:"estimatedTime"`
	DistanceKm            float64  `json:"distanceKms"`
	KmPossibleNow         float64  `json:"kmPossibleNow"`
	KmPossibleAfterTrip   float64  `json:"kmPossibleAfterTrip"`
	RechargeRequiredAtKm  *float64 `json:"rechargeRequiredAtKm"`
	RechargeNeededAtKm    *float64 `json:"rechargeNeededAtKm"`
	SafeToGo              bool     `json:"safeToGo"`
	WillReachDestination  bool     `json:"willReachDestination"`
	CellImbalanceDetected bool     `json:"cellImbalenceDetected"`
}

// toPrediction maps the wire shape onto the canonical prediction, resolving
// the alternate field names.
func (r predictionResponse) toPrediction(vehicleID string) *trip.Prediction {
	id := r.VehicleID
	if id == "" {
		id = vehicleID
	}

	estimatedTime := 0.0
	if r.EstimatedTimeHours != nil {
		estimatedTime = *r.EstimatedTimeHours
	} else if r.EstimatedTime != nil {
		estimatedTime = *r.EstimatedTime
	}

	recharge := 0.0
	if r.RechargeRequiredAtKm != nil {
		recharge = *r.RechargeRequiredAtKm
	} else if r.RechargeNeededAtKm != nil {
		recharge = *r.RechargeNeededAtKm
	}

	return &trip.Prediction{
		VehicleID:             id,
		SOCBeforeTrip:         r.SOCBeforeTrip,
		SOCAfterTrip:          r.SOCAfterTrip,
		EstimatedTimeHours:    estimatedTime,
		DistanceKm:            r.DistanceKm,
		FullRangeKm:           r.KmPossibleNow,
		RangeAfterTripKm:      r.KmPossibleAfterTrip,
		RechargeRequiredAtKm:  recharge,
		SafeToGo:              r.SafeToGo,
		WillReachDestination:  r.WillReachDestination,
		CellImbalanceDetected: r.CellImbalanceDetected,
	}
}
