package coordsys

import (
	"math"
	"testing"
)

func TestToLocalIdentityFrame(t *testing.T) {
	// Same CRS on both sides, zero origin, zero azimuth: local == physical
	// for x/y, z passed through unchanged.
	f, err := NewFrame("+proj=longlat +datum=WGS84", "+proj=longlat +datum=WGS84", 0, 0, 0)
	if err != nil {
		t.Fatalf("NewFrame: %v", err)
	}

	pts := []Point3{{X: 10, Y: 20, Z: -5}}
	local := f.ToLocal(pts)

	if !local[0].Valid {
		t.Fatal("expected valid projection")
	}
	if math.Abs(local[0].X-10) > 1e-6 || math.Abs(local[0].Y-20) > 1e-6 {
		t.Errorf("got %+v, want x=10 y=20", local[0])
	}
	if local[0].Z != -5 {
		t.Errorf("expected z passthrough, got %v", local[0].Z)
	}
}

func TestToLocalOriginTranslation(t *testing.T) {
	f, err := NewFrame("+proj=longlat +datum=WGS84", "+proj=longlat +datum=WGS84", 10, 20, 0)
	if err != nil {
		t.Fatalf("NewFrame: %v", err)
	}

	local := f.ToLocal([]Point3{{X: 10, Y: 20, Z: 0}})
	if math.Abs(local[0].X) > 1e-6 || math.Abs(local[0].Y) > 1e-6 {
		t.Errorf("expected origin point to map to (0,0), got %+v", local[0])
	}
}

func TestToPhysicalRoundTrip(t *testing.T) {
	f, err := NewFrame("+proj=longlat +datum=WGS84", "+proj=longlat +datum=WGS84", 5, 5, 30)
	if err != nil {
		t.Fatalf("NewFrame: %v", err)
	}

	original := []Point3{{X: 12, Y: 8, Z: -100}}
	local := f.ToLocal(original)
	back := f.ToPhysical(local)

	if math.Abs(back[0].X-original[0].X) > 1e-6 || math.Abs(back[0].Y-original[0].Y) > 1e-6 {
		t.Errorf("round trip mismatch: got %+v, want %+v", back[0], original[0])
	}
}
