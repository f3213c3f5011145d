package domain

import (
	"math"
	"testing"
)

func validAircraft() Aircraft {
	return Aircraft{
		SprayWidthM:    10,
		TurnRadiusM:    40,
		TankCapacityL:  100,
		FuelReserveL:   5,
		FuelBurnLPerKm: 10,
		MixRateLPerHa:  10,
		TransitSpeedMS: 30,
		SpraySpeedMS:   20,
	}
}

func TestAircraftValidate(t *testing.T) {
	if err := validAircraft().Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	bad := validAircraft()
	bad.TankCapacityL = 0
	if err := bad.Validate(); err == nil {
		t.Fatalf("expected error for zero tank capacity")
	}

	bad = validAircraft()
	bad.TurnRadiusM = -1
	if err := bad.Validate(); err == nil {
		t.Fatalf("expected error for negative turn radius")
	}

	bad = validAircraft()
	bad.FuelReserveL = -1
	if err := bad.Validate(); err == nil {
		t.Fatalf("expected error for negative reserve")
	}
}

func TestAircraftRates(t *testing.T) {
	ac := validAircraft()

	if got := ac.FuelPerMeter(); math.Abs(got-0.01) > 1e-12 {
		t.Fatalf("FuelPerMeter = %v, want 0.01", got)
	}
	// 10 L/ha over a 10 m width is 0.01 L per meter flown.
	if got := ac.MixPerMeter(); math.Abs(got-0.01) > 1e-12 {
		t.Fatalf("MixPerMeter = %v, want 0.01", got)
	}
}
