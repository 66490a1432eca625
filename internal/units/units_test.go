package units

import (
	"math"
	"testing"
)

func TestSI_Convert(t *testing.T) {
	testCases := []struct {
		name  string
		value float64
		from  Unit
		to    Unit
		want  float64
	}{
		{"pi radians to degrees", math.Pi, Radian, Degree, 180},
		{"half pi radians to deg alias", math.Pi / 2, Radian, DegreeAlt, 90},
		{"degrees to radians", 90, Degree, Radian, math.Pi / 2},
		{"turn to degrees", 1, Turn, Degree, 360},
		{"degree to arc minutes", 1, Degree, ArcMinute, 60},
		{"arc minute to arc seconds", 1, ArcMinute, ArcSecond, 60},
		{"gradians to degrees", 100, Gradian, Degree, 90},
		{"g to m/s2", 1, StandardGravity, MetrePerSecond2, 9.80665},
		{"g to ft/s2", 1, StandardGravity, FootPerSecond2, 9.80665 / 0.3048},
		{"same unit", 42, Degree, Degree, 42},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := SI.Convert(tc.value, tc.from, tc.to)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if math.Abs(got-tc.want) > 1e-9 {
				t.Errorf("Convert(%v, %s, %s) = %v, want %v", tc.value, tc.from, tc.to, got, tc.want)
			}
		})
	}
}

func TestSI_ConvertErrors(t *testing.T) {
	testCases := []struct {
		name string
		from Unit
		to   Unit
	}{
		{"unknown source unit", "furlong", Degree},
		{"unknown target unit", Radian, "furlong"},
		{"cross dimension", Radian, StandardGravity},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := SI.Convert(1, tc.from, tc.to); err == nil {
				t.Error("Expected an error")
			}
		})
	}
}

func TestIdentity_Convert(t *testing.T) {
	got, err := Identity.Convert(1.25, Radian, Degree)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got != 1.25 {
		t.Errorf("Expected value unchanged, got %v", got)
	}
}

func TestFromSI(t *testing.T) {
	got, err := FromSI(math.Pi, Degree)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if math.Abs(got-180) > 1e-12 {
		t.Errorf("Expected 180, got %v", got)
	}

	if _, err = FromSI(1, "parsec"); err == nil {
		t.Error("Expected error for unknown unit")
	}
}
