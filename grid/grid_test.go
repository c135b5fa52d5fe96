package grid

import (
	"math"
	"testing"

	"github.com/geomodelgrids/geomodelgrids/batch"
	"github.com/geomodelgrids/geomodelgrids/metadata"
)

func testModel() *metadata.Model {
	return &metadata.Model{DimX: 100, DimY: 100, DimZ: 50}
}

func TestSurfaceDims(t *testing.T) {
	m := testModel()
	s := NewSurface("top", UniformAxis(10), UniformAxis(10), m)
	nx, ny := s.Dims()
	if nx != 11 || ny != 11 {
		t.Errorf("got (%d,%d), want (11,11)", nx, ny)
	}
}

func TestSurfaceGeneratePointsCount(t *testing.T) {
	m := testModel()
	s := NewSurface("top", UniformAxis(10), UniformAxis(10), m)
	win := batch.Window2D{XRange: batch.Range{Start: 0, End: 11}, YRange: batch.Range{Start: 0, End: 11}}
	pts := s.GeneratePoints(win)
	if len(pts) != 121 {
		t.Errorf("got %d points, want 121", len(pts))
	}
}

func TestBlockDims(t *testing.T) {
	m := testModel()
	b := NewBlock("block1", UniformAxis(10), UniformAxis(10), ZAxis{ZTop: 0, ZBot: -50, Resolution: 10}, 0, m)
	nx, ny, nz := b.Dims()
	if nx != 11 || ny != 11 || nz != 6 {
		t.Errorf("got (%d,%d,%d), want (11,11,6)", nx, ny, nz)
	}
}

func TestBlockGeneratePointsUnwarpedFlat(t *testing.T) {
	m := testModel()
	b := NewBlock("block1", UniformAxis(100), UniformAxis(100), ZAxis{ZTop: 0, ZBot: -50, Resolution: 50}, 0, m)
	win := batch.Window3D{
		XRange: batch.Range{Start: 0, End: 2},
		YRange: batch.Range{Start: 0, End: 2},
		ZRange: batch.Range{Start: 0, End: 2},
	}
	pts := b.GeneratePoints(win, nil)
	if len(pts) != 8 {
		t.Fatalf("got %d points, want 8", len(pts))
	}
	// Unwarped: z runs directly from z_top (0) to z_bot (-50).
	for _, p := range pts {
		if p[2] != 0 && p[2] != -50 {
			t.Errorf("unexpected z value %v", p[2])
		}
	}
}

func TestBlockGeneratePointsWarpedTop(t *testing.T) {
	m := testModel()
	b := NewBlock("block1", UniformAxis(100), UniformAxis(100), ZAxis{ZTop: 0, ZBot: -50, Resolution: 50}, 0, m)
	win := batch.Window3D{
		XRange: batch.Range{Start: 0, End: 1},
		YRange: batch.Range{Start: 0, End: 1},
		ZRange: batch.Range{Start: 0, End: 2},
	}
	topElev := [][]float32{{10}}
	pts := b.GeneratePoints(win, topElev)

	// iz=0 (zOrig=0): frac = (0-(-50))/(0-(-50)) = 1 -> z = -50 + (10-(-50))*1 = 10
	if math.Abs(pts[0][2]-10) > 1e-9 {
		t.Errorf("top layer z = %v, want 10", pts[0][2])
	}
	// iz=1 (zOrig=-50, the domain bottom): frac = 0 -> z pins to domain bottom, -50.
	if math.Abs(pts[1][2]-(-50)) > 1e-9 {
		t.Errorf("bottom layer z = %v, want -50", pts[1][2])
	}
}

func TestBlockSampleSurfaceSkipTolerance(t *testing.T) {
	m := testModel()
	surface := NewSurface("top", UniformAxis(50), UniformAxis(50), m)
	b := NewBlock("block1", UniformAxis(99), UniformAxis(99), ZAxis{ZTop: 0, ZBot: -50, Resolution: 50}, 0, m)

	elev := [][]float32{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}}
	if _, err := b.SampleSurface(surface, elev); err == nil {
		t.Error("expected mismatch error for non-integer skip")
	}
}

func TestBlockSampleSurfaceSkip(t *testing.T) {
	m := testModel()
	surface := NewSurface("top", UniformAxis(50), UniformAxis(50), m)
	b := NewBlock("block1", UniformAxis(100), UniformAxis(100), ZAxis{ZTop: 0, ZBot: -50, Resolution: 50}, 0, m)

	elev := [][]float32{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}}
	sampled, err := b.SampleSurface(surface, elev)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sampled) != 2 || len(sampled[0]) != 2 {
		t.Fatalf("got shape %dx%d, want 2x2", len(sampled), len(sampled[0]))
	}
	if sampled[0][0] != 1 || sampled[1][1] != 9 {
		t.Errorf("unexpected sampled corners: %+v", sampled)
	}
}
