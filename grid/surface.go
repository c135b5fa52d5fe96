package grid

import (
	"errors"

	"github.com/geomodelgrids/geomodelgrids/batch"
	"github.com/geomodelgrids/geomodelgrids/metadata"
)

var (
	ErrInconsistentGeometry = errors.New("grid: stored geometry does not match configured geometry")
	ErrBlockSurfaceMismatch = errors.New("grid: block horizontal resolution is not an integer multiple of surface resolution")
)

// Surface is a horizontal grid of elevations that warps a Block's vertical
// axis: the model's top-of-domain topography or topography/bathymetry.
type Surface struct {
	Name  string
	X, Y  Axis
	model *metadata.Model
}

// NewSurface builds a Surface bound to a model, non-owning (the model owns
// the surface's lifetime; the surface only borrows it for DimX/DimY).
func NewSurface(name string, x, y Axis, m *metadata.Model) *Surface {
	return &Surface{Name: name, X: x, Y: y, model: m}
}

// Dims returns the surface's (numX, numY) point counts.
func (s *Surface) Dims() (numX, numY int) {
	return s.X.NumPoints(s.model.DimX), s.Y.NumPoints(s.model.DimY)
}

// GeneratePoints returns the local-frame (x, y) coordinates of every point
// in win, in row-major (x outer, y inner) order, matching the storage
// layout of the surface array.
func (s *Surface) GeneratePoints(win batch.Window2D) [][2]float64 {
	pts := make([][2]float64, 0, (win.XRange.End-win.XRange.Start)*(win.YRange.End-win.YRange.Start))
	for ix := win.XRange.Start; ix < win.XRange.End; ix++ {
		x := s.X.Coordinate(ix)
		for iy := win.YRange.Start; iy < win.YRange.End; iy++ {
			y := s.Y.Coordinate(iy)
			pts = append(pts, [2]float64{x, y})
		}
	}
	return pts
}
