// Package datasource defines the contract GeoModelGrids build tools use to
// obtain surface elevations and block data values, plus the variants this
// repository ships.
package datasource

import (
	"context"

	"github.com/geomodelgrids/geomodelgrids/batch"
	"github.com/geomodelgrids/geomodelgrids/coordsys"
	"github.com/geomodelgrids/geomodelgrids/grid"
)

// DataSource supplies the physical-space data a build populates a model
// with. Initialize is called once before any Get* call. Metadata describes
// the source; build.Run does not call it, so its return value is not
// written into the model's Auxiliary JSON.
type DataSource interface {
	Initialize(ctx context.Context) error
	GetTopSurface(points []coordsys.Point3) ([]float32, error)
	GetTopographyBathymetry(points []coordsys.Point3) ([]float32, error)
	GetValues(block *grid.Block, win batch.Window3D, points []coordsys.Point3) (map[string][]float32, error)
	Metadata() map[string]any
}
