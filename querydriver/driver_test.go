package querydriver

import (
	"math"
	"testing"

	"github.com/geomodelgrids/geomodelgrids/coordsys"
	"github.com/geomodelgrids/geomodelgrids/query"
)

func TestSquashZ(t *testing.T) {
	got := squashZ(-1000, 150, -5000)
	want := -1120.0
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestSquashZPinsMinElev(t *testing.T) {
	// z_in at the minimum squashing elevation always maps to itself.
	got := squashZ(-5000, 150, -5000)
	if math.Abs(got-(-5000)) > 1e-9 {
		t.Errorf("got %v, want -5000", got)
	}
}

func TestInitializeNoModels(t *testing.T) {
	if _, err := Initialize(nil, []string{"Vp"}, nil, nil); err == nil {
		t.Error("expected error for empty model list")
	}
}

func TestQueryElevationFirstHitWins(t *testing.T) {
	frame, err := coordsys.NewFrame("+proj=longlat +datum=WGS84", "+proj=longlat +datum=WGS84", 0, 0, 0)
	if err != nil {
		t.Fatalf("NewFrame: %v", err)
	}
	d := &Driver{Models: []*query.Model{nil, nil}, Frame: frame}

	calls := 0
	fn := func(m *query.Model, pts []coordsys.LocalPoint) ([]float32, []bool) {
		out := make([]float32, len(pts))
		errs := make([]bool, len(pts))
		if calls == 0 {
			// first model: a miss for everything
			for i := range errs {
				errs[i] = true
			}
		} else {
			for i := range out {
				out[i] = 42
			}
		}
		calls++
		return out, errs
	}

	got, errs := d.queryElevation([]coordsys.Point3{{}}, fn)
	if errs[0] {
		t.Error("expected second model to resolve the point")
	}
	if got[0] != 42 {
		t.Errorf("got %v, want 42", got[0])
	}
}
