package grid

import (
	"math"

	"github.com/geomodelgrids/geomodelgrids/batch"
	"github.com/geomodelgrids/geomodelgrids/metadata"
)

// ZAxis describes a block's vertical discretization between its top and
// bottom elevations (in the model's unwarped domain frame).
type ZAxis struct {
	ZTop, ZBot float64
	Resolution float64
}

// NumPoints returns the number of vertical grid points, 1 + int((ztop -
// zbot) / resolution).
func (z ZAxis) NumPoints() int {
	return 1 + int((z.ZTop-z.ZBot)/z.Resolution)
}

// Coordinate returns the unwarped depth of vertical index iz, counting
// down from ZTop.
func (z ZAxis) Coordinate(iz int) float64 {
	return z.ZTop - float64(iz)*z.Resolution
}

// Block is a 3-D sub-volume of a model's grid, optionally warped to follow
// a top surface.
type Block struct {
	Name       string
	X, Y       Axis
	Z          ZAxis
	ZTopOffset float64

	model *metadata.Model
}

// NewBlock builds a Block bound to a model.
func NewBlock(name string, x, y Axis, z ZAxis, zTopOffset float64, m *metadata.Model) *Block {
	return &Block{Name: name, X: x, Y: y, Z: z, ZTopOffset: zTopOffset, model: m}
}

// Dims returns the block's (numX, numY, numZ) point counts.
func (b *Block) Dims() (numX, numY, numZ int) {
	return b.X.NumPoints(b.model.DimX), b.Y.NumPoints(b.model.DimY), b.Z.NumPoints()
}

// SampleSurface reads the elevations a Surface contributes at every one of
// this block's horizontal grid points, using the integer skip-stride implied
// by the two resolutions. elevations must already be the full surface
// array in row-major x,y order.
func (b *Block) SampleSurface(surface *Surface, elevations [][]float32) ([][]float32, error) {
	const tolerance = 0.01

	if b.X.IsVariable() || surface.X.IsVariable() {
		return elevations, nil
	}

	skip := int(0.01 + b.X.Resolution/surface.X.Resolution)
	if math.Abs(float64(skip)*surface.X.Resolution-b.X.Resolution) > tolerance {
		return nil, ErrBlockSurfaceMismatch
	}

	numX, numY, _ := b.Dims()
	out := make([][]float32, numX)
	for ix := 0; ix < numX; ix++ {
		row := make([]float32, numY)
		srcX := ix * skip
		for iy := 0; iy < numY; iy++ {
			srcY := iy * skip
			if srcX < len(elevations) && srcY < len(elevations[srcX]) {
				row[iy] = elevations[srcX][srcY]
			}
		}
		out[ix] = row
	}
	return out, nil
}

// GeneratePoints returns the local-frame (x, y, z) coordinates of every
// point in win. When topElev is non-nil, the vertical axis is warped so
// that the block's top layer follows the surface's elevation and the
// block's bottom layer stays pinned at z_bot; topElev must be indexed the
// same way as SampleSurface's output, offset by win's x/y start. When
// topElev is nil the block is unwarped: z runs uniformly from z_top to
// z_bot. Either way, ZTopOffset is added to the uppermost layer only.
func (b *Block) GeneratePoints(win batch.Window3D, topElev [][]float32) [][3]float64 {
	domainTop := 0.0
	domainBot := -b.model.DimZ

	n := (win.XRange.End - win.XRange.Start) * (win.YRange.End - win.YRange.Start) * (win.ZRange.End - win.ZRange.Start)
	pts := make([][3]float64, 0, n)

	for ix := win.XRange.Start; ix < win.XRange.End; ix++ {
		x := b.X.Coordinate(ix)
		for iy := win.YRange.Start; iy < win.YRange.End; iy++ {
			y := b.Y.Coordinate(iy)

			var topAtXY float64
			if topElev != nil {
				topAtXY = float64(topElev[ix-win.XRange.Start][iy-win.YRange.Start])
			}

			for iz := win.ZRange.Start; iz < win.ZRange.End; iz++ {
				zOrig := b.Z.Coordinate(iz)

				var z float64
				if topElev != nil {
					frac := (zOrig - domainBot) / (domainTop - domainBot)
					z = domainBot + (topAtXY-domainBot)*frac
				} else {
					z = zOrig
				}

				if iz == 0 {
					z += b.ZTopOffset
				}

				pts = append(pts, [3]float64{x, y, z})
			}
		}
	}

	return pts
}
