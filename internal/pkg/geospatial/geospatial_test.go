package geospatial

import "testing"

func TestHaversine(t *testing.T) {
	// Trafalgar Square to St Paul's Cathedral, roughly 2.3 km.
	d := Haversine(51.5080, -0.1281, 51.5138, -0.0984)
	if d < 2100 || d > 2500 {
		t.Errorf("distance = %.0f m, want roughly 2.3 km", d)
	}

	if d := Haversine(51.5, -0.12, 51.5, -0.12); d != 0 {
		t.Errorf("identical points should be 0 m apart, got %.2f", d)
	}
}

func TestMetersToDegrees(t *testing.T) {
	// One degree of latitude is about 111.32 km.
	if got := MetersToDegrees(111320); got < 0.999 || got > 1.001 {
		t.Errorf("111320 m = %.4f degrees, want ~1", got)
	}
}
