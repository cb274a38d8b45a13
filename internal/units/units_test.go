package units

import (
	"math"
	"testing"
)

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestTemperatureRoundTrip(t *testing.T) {
	for _, x := range []float64{-273.15, -40, -12.5, 0, 21.5, 37, 100, 1e6} {
		if got := Celsius(Fahrenheit(x)); !almostEqual(got, x, 1e-9) {
			t.Errorf("Celsius(Fahrenheit(%v)) = %v", x, got)
		}
		if got := Fahrenheit(Celsius(x)); !almostEqual(got, x, 1e-9) {
			t.Errorf("Fahrenheit(Celsius(%v)) = %v", x, got)
		}
	}
}

func TestConversions(t *testing.T) {
	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"freezing", Fahrenheit(0), 32},
		{"boiling", Fahrenheit(100), 212},
		{"minus forty", Celsius(-40), -40},
		{"room", Fahrenheit(21.5), 70.7},
		{"inHg at sea level", InchesHg(SeaLevelPressure), 29.921252401894762},
		{"mmHg scale", MillimetersHg(SeaLevelPressure), 1.178002063066723},
		{"atm from inHg", AtmospheresFromInchesHg(29.92), 1},
		{"atm from Pa", AtmospheresFromPascals(202650), 2},
		{"km to feet", Feet(1000), 3280.84},
		{"zero feet", Feet(0), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !almostEqual(tt.got, tt.want, 1e-9) {
				t.Fatalf("got %v, want %v", tt.got, tt.want)
			}
		})
	}
}

func TestDewPoint(t *testing.T) {
	t.Run("saturated air", func(t *testing.T) {
		for _, temp := range []float64{-5, 0, 20, 35} {
			if got := DewPoint(temp, 100); !almostEqual(got, temp, 1e-9) {
				t.Errorf("DewPoint(%v, 100) = %v, want %v", temp, got, temp)
			}
		}
	})

	t.Run("half humidity", func(t *testing.T) {
		if got := DewPoint(20, 50); !almostEqual(got, 9.308599403545827, 1e-9) {
			t.Fatalf("DewPoint(20, 50) = %v", got)
		}
	})

	t.Run("drier air has lower dew point", func(t *testing.T) {
		if DewPoint(25, 30) >= DewPoint(25, 60) {
			t.Fatalf("expected dew point to rise with humidity")
		}
	})
}

func TestAltitude(t *testing.T) {
	if got := Altitude(SeaLevelPressure, SeaLevelPressure); got != 0 {
		t.Fatalf("Altitude at reference pressure = %v, want 0", got)
	}

	if got := Altitude(90000, SeaLevelPressure); !almostEqual(got, 988.6465618057615, 1e-6) {
		t.Fatalf("Altitude(90000) = %v", got)
	}

	for _, p := range []float64{50000, 90000, 100000, 101325, 105000} {
		want := Altitude(p, SeaLevelPressure)
		for _, p0 := range []float64{0, -1, -101325} {
			if got := Altitude(p, p0); got != want {
				t.Errorf("Altitude(%v, %v) = %v, want %v", p, p0, got, want)
			}
		}
	}
}

func TestAltitudeUnitIndependent(t *testing.T) {
	pa := Altitude(95000, 101325)
	hpa := Altitude(950, 1013.25)
	if !almostEqual(pa, hpa, 1e-6) {
		t.Fatalf("Pa altitude %v differs from hPa altitude %v", pa, hpa)
	}
}
