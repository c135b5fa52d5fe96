// Package querydriver answers point queries against an ordered list of
// models, returning the first model's value for each point and falling
// back to subsequent, coarser-resolution models where a point is outside
// a model's domain.
package querydriver

import (
	"context"
	"errors"

	"github.com/geomodelgrids/geomodelgrids/coordsys"
	"github.com/geomodelgrids/geomodelgrids/errstatus"
	"github.com/geomodelgrids/geomodelgrids/query"
)

var (
	ErrNoModels        = errors.New("querydriver: no models configured")
	ErrValueNotServed  = errors.New("querydriver: no configured model serves a requested value")
)

// Driver queries an ordered sequence of models, finest resolution first,
// falling back to the next model whenever a point falls outside the
// current one's domain.
type Driver struct {
	Models   []*query.Model
	Values   []string
	Frame    *coordsys.Frame
	Reporter *errstatus.Reporter

	squashMinElev *float64
	squashSurface string
}

// Initialize opens every named model and verifies each requested value is
// served by at least one of them.
func Initialize(uris []string, values []string, frame *coordsys.Frame, reporter *errstatus.Reporter) (*Driver, error) {
	if len(uris) == 0 {
		return nil, ErrNoModels
	}

	d := &Driver{Values: values, Frame: frame, Reporter: reporter}

	for _, uri := range uris {
		m, err := query.Open(uri, reporter)
		if err != nil {
			d.Finalize()
			return nil, err
		}
		d.Models = append(d.Models, m)
	}

	for _, v := range values {
		served := false
		for _, m := range d.Models {
			for _, dv := range m.Metadata.DataValues {
				if dv == v {
					served = true
				}
			}
		}
		if !served {
			d.Finalize()
			return nil, errors.Join(ErrValueNotServed, errors.New(v))
		}
	}

	return d, nil
}

// SetSquashMinElev enables topography squashing: query points at or above
// minElev have their z coordinate remapped, using the named surface's
// elevation, before lookup.
func (d *Driver) SetSquashMinElev(minElev float64, surface string) {
	d.squashMinElev = &minElev
	d.squashSurface = surface
}

// Finalize releases all opened models.
func (d *Driver) Finalize() error {
	var first error
	for _, m := range d.Models {
		if err := m.Close(); err != nil && first == nil {
			first = err
		}
	}
	d.Models = nil
	return first
}

// Query resolves data values for physical-space points, walking models in
// order and stopping at the first one that contains the point.
func (d *Driver) Query(ctx context.Context, points []coordsys.Point3) (query.Result, error) {
	result := query.Result{
		Values: make([][]float32, len(points)),
		Err:    make([]bool, len(points)),
	}

	for i := range result.Values {
		result.Values[i] = make([]float32, len(d.Values))
		for j := range result.Values[i] {
			result.Values[i][j] = query.NODATA
		}
		result.Err[i] = true
	}

	remaining := make([]int, len(points))
	for i := range remaining {
		remaining[i] = i
	}

	for _, m := range d.Models {
		if ctx.Err() != nil {
			return result, ctx.Err()
		}
		if len(remaining) == 0 {
			break
		}

		local := make([]coordsys.LocalPoint, len(remaining))
		physForIdx := make([]coordsys.Point3, len(remaining))
		for k, idx := range remaining {
			physForIdx[k] = points[idx]
		}
		local = d.Frame.ToLocal(physForIdx)

		if d.squashMinElev != nil {
			local = d.applySquash(m, local)
		}

		res, err := m.Query(local, d.Values)
		if err != nil {
			if d.Reporter != nil {
				d.Reporter.SetError(err)
			}
			return result, err
		}

		var stillRemaining []int
		for k, idx := range remaining {
			if !res.Err[k] {
				result.Values[idx] = res.Values[k]
				result.Err[idx] = false
			} else {
				stillRemaining = append(stillRemaining, idx)
			}
		}
		remaining = stillRemaining

		if ctx.Err() != nil {
			return result, ctx.Err()
		}
	}

	return result, nil
}

// applySquash implements the documented squashing remap: for points at or
// above the minimum squashing elevation e, z is shifted down by a fraction
// of the squash surface elevation s(x,y) that grows linearly from 0 at e to
// the full s(x,y) at z = 0, so e maps to e and 0 maps to -s(x,y).
//
//	z' = z_in - s(x,y)*(z_in - e)/(0 - e),  z_in >= e
func (d *Driver) applySquash(m *query.Model, points []coordsys.LocalPoint) []coordsys.LocalPoint {
	var surfElev []float32
	var errs []bool
	if d.squashSurface == "topography_bathymetry" {
		surfElev, errs = m.QueryTopobathyElevation(points)
	} else {
		surfElev, errs = m.QueryTopElevation(points)
	}

	e := *d.squashMinElev
	out := make([]coordsys.LocalPoint, len(points))
	for i, p := range points {
		out[i] = p
		if !p.Valid || errs[i] || p.Z < e {
			continue
		}
		out[i].Z = squashZ(p.Z, float64(surfElev[i]), e)
	}
	return out
}

// squashZ remaps z_in into the squashed frame: z_in = 0 maps to
// -surfaceElev, the minimum squashing elevation e stays fixed, and points
// below e are left to the caller unchanged.
func squashZ(zIn, surfaceElev, e float64) float64 {
	return zIn - surfaceElev*(zIn-e)/(0-e)
}

// QueryTopElevation returns the first-hit top-surface elevation for each
// physical-space point across the model list.
func (d *Driver) QueryTopElevation(points []coordsys.Point3) ([]float32, []bool) {
	return d.queryElevation(points, (*query.Model).QueryTopElevation)
}

// QueryTopobathyElevation returns the first-hit topography/bathymetry
// elevation for each physical-space point across the model list.
func (d *Driver) QueryTopobathyElevation(points []coordsys.Point3) ([]float32, []bool) {
	return d.queryElevation(points, (*query.Model).QueryTopobathyElevation)
}

func (d *Driver) queryElevation(points []coordsys.Point3, fn func(*query.Model, []coordsys.LocalPoint) ([]float32, []bool)) ([]float32, []bool) {
	out := make([]float32, len(points))
	errs := make([]bool, len(points))
	for i := range out {
		out[i] = query.NODATA
		errs[i] = true
	}

	local := d.Frame.ToLocal(points)

	for _, m := range d.Models {
		elev, errFlags := fn(m, local)
		for i := range out {
			if errs[i] && !errFlags[i] {
				out[i] = elev[i]
				errs[i] = false
			}
		}
	}

	return out, errs
}
