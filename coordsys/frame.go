// Package coordsys converts between a model's physical coordinate
// reference system and its rotated, origin-shifted local frame.
package coordsys

import (
	"errors"
	"math"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/proj"
)

var ErrBadCRS = errors.New("coordsys: invalid coordinate reference system string")

// Point3 is a physical-space point: X/Y in the frame's source CRS, Z in
// metres relative to sea level.
type Point3 struct {
	X, Y, Z float64
}

// LocalPoint is a point in a model's local frame: X/Y in metres from the
// model origin along its rotated axes, Z in metres of depth (negative is
// below the domain top). Valid is false when the source point could not be
// projected into the model's CRS.
type LocalPoint struct {
	X, Y, Z float64
	Valid   bool
}

// Frame projects points between a model's declared CRS and its local,
// rotated grid frame, caching the transform so repeated calls do not
// reparse the CRS strings.
type Frame struct {
	OriginX, OriginY float64
	AzimuthDeg       float64

	sourceSR *proj.SR
	modelSR  *proj.SR
	toModel  proj.Transformer
	toSource proj.Transformer
}

// NewFrame builds a Frame transforming between sourceCRS (the CRS query
// points arrive in) and modelCRS (the CRS the model's origin/azimuth are
// defined in).
func NewFrame(sourceCRS, modelCRS string, originX, originY, azimuthDeg float64) (*Frame, error) {
	sourceSR, err := proj.Parse(sourceCRS)
	if err != nil {
		return nil, errors.Join(ErrBadCRS, err)
	}
	modelSR, err := proj.Parse(modelCRS)
	if err != nil {
		return nil, errors.Join(ErrBadCRS, err)
	}

	toModel, err := sourceSR.NewTransform(modelSR)
	if err != nil {
		return nil, err
	}
	toSource, err := modelSR.NewTransform(sourceSR)
	if err != nil {
		return nil, err
	}

	return &Frame{
		OriginX:    originX,
		OriginY:    originY,
		AzimuthDeg: azimuthDeg,
		sourceSR:   sourceSR,
		modelSR:    modelSR,
		toModel:    toModel,
		toSource:   toSource,
	}, nil
}

// ToLocal projects physical points into the model's local frame: CRS
// reprojection, then translation by the origin, then rotation by
// -azimuth. A point whose CRS reprojection fails is reported with
// Valid=false rather than aborting the whole batch.
func (f *Frame) ToLocal(points []Point3) []LocalPoint {
	az := f.AzimuthDeg * math.Pi / 180.0
	cosAz, sinAz := math.Cos(az), math.Sin(az)

	out := make([]LocalPoint, len(points))
	for i, p := range points {
		g, err := geom.Point{X: p.X, Y: p.Y}.Transform(f.toModel)
		if err != nil {
			out[i] = LocalPoint{}
			continue
		}
		proj := g.(geom.Point)
		dx := proj.X - f.OriginX
		dy := proj.Y - f.OriginY

		out[i] = LocalPoint{
			X:     dx*cosAz - dy*sinAz,
			Y:     dx*sinAz + dy*cosAz,
			Z:     p.Z,
			Valid: true,
		}
	}
	return out
}

// ToPhysical is the inverse of ToLocal: rotation by +azimuth, translation
// by the origin, then CRS reprojection back to the source CRS. Used when a
// DataSource needs physical-space coordinates for locally-generated grid
// points.
func (f *Frame) ToPhysical(points []LocalPoint) []Point3 {
	az := f.AzimuthDeg * math.Pi / 180.0
	cosAz, sinAz := math.Cos(az), math.Sin(az)

	out := make([]Point3, len(points))
	for i, p := range points {
		modelX := f.OriginX + p.X*cosAz + p.Y*sinAz
		modelY := f.OriginY - p.X*sinAz + p.Y*cosAz

		g, err := geom.Point{X: modelX, Y: modelY}.Transform(f.toSource)
		if err != nil {
			out[i] = Point3{Z: p.Z}
			continue
		}
		src := g.(geom.Point)
		out[i] = Point3{X: src.X, Y: src.Y, Z: p.Z}
	}
	return out
}
