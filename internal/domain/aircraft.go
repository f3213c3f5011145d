package domain

import "fmt"

// Aircraft holds the resource and kinematic parameters of the fixed-wing
// platform. The tank is a single shared volume: fuel for the whole flight
// and spray mix both come out of TankCapacityL.
type Aircraft struct {
	SprayWidthM    float64 `json:"spray_width_m"`
	TurnRadiusM    float64 `json:"turn_radius_m"`
	TankCapacityL  float64 `json:"tank_capacity_l"`
	FuelReserveL   float64 `json:"fuel_reserve_l"`
	FuelBurnLPerKm float64 `json:"fuel_burn_l_per_km"`
	MixRateLPerHa  float64 `json:"mix_rate_l_per_ha"`
	TransitSpeedMS float64 `json:"transit_speed_ms"`
	SpraySpeedMS   float64 `json:"spray_speed_ms"`
}

// Validate rejects configuration errors before any planning starts.
func (a Aircraft) Validate() error {
	if a.TankCapacityL <= 0 {
		return fmt.Errorf("aircraft: tank_capacity_l must be > 0, got %.2f", a.TankCapacityL)
	}
	if a.FuelReserveL < 0 {
		return fmt.Errorf("aircraft: fuel_reserve_l must be >= 0, got %.2f", a.FuelReserveL)
	}
	if a.TurnRadiusM <= 0 {
		return fmt.Errorf("aircraft: turn_radius_m must be > 0, got %.2f", a.TurnRadiusM)
	}
	if a.SprayWidthM <= 0 {
		return fmt.Errorf("aircraft: spray_width_m must be > 0, got %.2f", a.SprayWidthM)
	}
	if a.FuelBurnLPerKm < 0 {
		return fmt.Errorf("aircraft: fuel_burn_l_per_km must be >= 0, got %.2f", a.FuelBurnLPerKm)
	}
	return nil
}

// FuelPerMeter converts the per-kilometer burn rate to per-meter.
func (a Aircraft) FuelPerMeter() float64 { return a.FuelBurnLPerKm / 1000.0 }

// MixPerMeter is liters of spray mix consumed per meter of swath, from the
// per-hectare application rate and the spray width.
func (a Aircraft) MixPerMeter() float64 {
	return (a.MixRateLPerHa / 10000.0) * a.SprayWidthM
}
