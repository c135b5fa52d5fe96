package datasource

import (
	"context"

	"github.com/geomodelgrids/geomodelgrids/batch"
	"github.com/geomodelgrids/geomodelgrids/coordsys"
	"github.com/geomodelgrids/geomodelgrids/grid"
)

// LinearFunction is f(x, y, z) = A*x + B*y + C*z + D, the deterministic
// ground-truth function the original test fixtures generate model data
// from.
type LinearFunction struct {
	A, B, C, D float64
}

func (f LinearFunction) eval(x, y, z float64) float64 {
	return f.A*x + f.B*y + f.C*z + f.D
}

// AnalyticSource is a DataSource whose values are computed directly from
// configured linear functions rather than read from an external store,
// used for tests and demos where a known-correct ground truth is needed.
type AnalyticSource struct {
	TopSurface       LinearFunction
	TopographyBathymetry *LinearFunction // nil if the model has no topo/bathy surface
	Values           map[string]LinearFunction
}

func (a *AnalyticSource) Initialize(ctx context.Context) error { return nil }

func (a *AnalyticSource) GetTopSurface(points []coordsys.Point3) ([]float32, error) {
	out := make([]float32, len(points))
	for i, p := range points {
		out[i] = float32(a.TopSurface.eval(p.X, p.Y, 0))
	}
	return out, nil
}

func (a *AnalyticSource) GetTopographyBathymetry(points []coordsys.Point3) ([]float32, error) {
	if a.TopographyBathymetry == nil {
		return nil, nil
	}
	out := make([]float32, len(points))
	for i, p := range points {
		out[i] = float32(a.TopographyBathymetry.eval(p.X, p.Y, 0))
	}
	return out, nil
}

func (a *AnalyticSource) GetValues(block *grid.Block, win batch.Window3D, points []coordsys.Point3) (map[string][]float32, error) {
	out := make(map[string][]float32, len(a.Values))
	for name, fn := range a.Values {
		values := make([]float32, len(points))
		for i, p := range points {
			values[i] = float32(fn.eval(p.X, p.Y, p.Z))
		}
		out[name] = values
	}
	return out, nil
}

func (a *AnalyticSource) Metadata() map[string]any {
	return map[string]any{"source": "analytic"}
}
