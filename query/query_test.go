package query

import (
	"math"
	"testing"

	"github.com/geomodelgrids/geomodelgrids/coordsys"
	"github.com/geomodelgrids/geomodelgrids/grid"
	"github.com/geomodelgrids/geomodelgrids/metadata"
)

func TestTrilinearCorners(t *testing.T) {
	// All corners equal: interpolation should return that value regardless
	// of fractional offsets.
	c := [8]float64{5, 5, 5, 5, 5, 5, 5, 5}
	got := trilinear(c, 0.3, 0.7, 0.9)
	if math.Abs(got-5) > 1e-9 {
		t.Errorf("got %v, want 5", got)
	}
}

func TestTrilinearMidpoint(t *testing.T) {
	c := [8]float64{0, 1, 1, 2, 1, 2, 2, 3}
	got := trilinear(c, 0.5, 0.5, 0.5)
	want := 1.5
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestBilinearFlatSurface(t *testing.T) {
	flat := []float32{10, 10, 10, 10}
	got := bilinear(flat, 2, 2, 0, 0, 0.5, 0.5)
	if got != 10 {
		t.Errorf("got %v, want 10", got)
	}
}

func TestContains(t *testing.T) {
	m := &Model{Metadata: &metadata.Model{DimX: 100, DimY: 100}}
	points := []coordsys.LocalPoint{
		{X: 50, Y: 50, Valid: true},
		{X: 150, Y: 50, Valid: true},
		{X: 50, Y: 50, Valid: false},
	}
	got := m.Contains(points)
	want := []bool{true, false, false}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("index %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestContainsChecksVerticalSupport(t *testing.T) {
	m := &Model{Metadata: &metadata.Model{DimX: 100, DimY: 100, DimZ: 50}}
	points := []coordsys.LocalPoint{
		{X: 50, Y: 50, Z: -25, Valid: true},  // within [-50, 0]
		{X: 50, Y: 50, Z: -75, Valid: true},  // below -dim_z
		{X: 50, Y: 50, Z: 10, Valid: true},   // above the (absent) top surface
	}
	got := m.Contains(points)
	want := []bool{true, false, false}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("index %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestBlockForSelectsContainingBlock(t *testing.T) {
	shallow := grid.NewBlock("shallow", grid.UniformAxis(10), grid.UniformAxis(10), grid.ZAxis{ZTop: 0, ZBot: -100, Resolution: 10}, 0, nil)
	deep := grid.NewBlock("deep", grid.UniformAxis(10), grid.UniformAxis(10), grid.ZAxis{ZTop: -100, ZBot: -500, Resolution: 10}, 0, nil)

	m := &Model{Blocks: []*grid.Block{shallow, deep}}
	sortBlocksByDepth(m.Blocks)

	if b := m.blockFor(-50); b != shallow {
		t.Errorf("expected shallow block for z=-50, got %v", b)
	}
	if b := m.blockFor(-300); b != deep {
		t.Errorf("expected deep block for z=-300, got %v", b)
	}
	if b := m.blockFor(-1000); b != nil {
		t.Errorf("expected nil for out-of-range depth, got %v", b)
	}
}

func TestWarpZNoTopSurfaceIsIdentity(t *testing.T) {
	// t == domainTop (no top surface, defaults to 0): z passes through.
	got := warpZ(-25, 0, -100, 0)
	if math.Abs(got-(-25)) > 1e-9 {
		t.Errorf("got %v, want -25", got)
	}
}

func TestWarpZFollowsTopSurface(t *testing.T) {
	// domain top (0) warps to the actual top elevation (10).
	got := warpZ(0, 0, -100, 10)
	if math.Abs(got-10) > 1e-9 {
		t.Errorf("got %v, want 10", got)
	}
	// domain bottom stays fixed regardless of the top surface.
	got = warpZ(-100, 0, -100, 10)
	if math.Abs(got-(-100)) > 1e-9 {
		t.Errorf("got %v, want -100", got)
	}
}

func TestCellCornersClampsAtEdge(t *testing.T) {
	corners := cellCorners(4, 4, 4, 5, 5, 5)
	for _, c := range corners {
		if c[0] >= 5 || c[1] >= 5 || c[2] >= 5 {
			t.Errorf("corner %v exceeds bounds", c)
		}
	}
}
