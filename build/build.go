// Package build orchestrates writing a model's domain metadata, surfaces,
// and blocks to storage from a DataSource, following the step order of the
// original build tool's domain -> surfaces -> blocks -> metadata pipeline.
package build

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/geomodelgrids/geomodelgrids/batch"
	"github.com/geomodelgrids/geomodelgrids/coordsys"
	"github.com/geomodelgrids/geomodelgrids/datasource"
	"github.com/geomodelgrids/geomodelgrids/grid"
	"github.com/geomodelgrids/geomodelgrids/metadata"
	"github.com/geomodelgrids/geomodelgrids/storage"
)

var ErrNoBlocks = errors.New("build: model has no blocks configured")

var log = logrus.WithField("component", "build")

// Options selects which build steps to run, matching the CLI flags of the
// original tool.
type Options struct {
	Domain         bool
	Surfaces       bool
	Blocks         bool
	UpdateMetadata bool
	MaxBatchValues int // 0 disables batching
}

// Spec describes everything Run needs besides the DataSource: the model's
// metadata, its surfaces and blocks, the frame used to turn local grid
// points into the physical-space points a DataSource expects, and the
// storage URI to write to.
type Spec struct {
	URI      string
	Model    *metadata.Model
	TopSurface *grid.Surface // nil if the model has no top surface
	TopoBathy  *grid.Surface // nil if the model has no topography/bathymetry surface
	Blocks     []*grid.Block
	Frame      *coordsys.Frame
	ChunkSize2D [2]int
	ChunkSize3D [3]int
}

// Run executes the requested build steps against eng using src as the
// source of physical data values.
func Run(ctx context.Context, eng *storage.Engine, spec Spec, src datasource.DataSource, opts Options) error {
	if err := src.Initialize(ctx); err != nil {
		return err
	}

	if opts.Domain {
		if err := eng.CreateGroup(); err != nil {
			return err
		}
		if err := eng.SaveDomain(spec.Model); err != nil {
			return err
		}
		log.WithField("model", spec.Model.ID).Info("wrote domain")
	}

	if opts.Surfaces {
		if spec.TopSurface != nil {
			if err := writeSurface(eng, spec, spec.TopSurface, src.GetTopSurface, opts.MaxBatchValues); err != nil {
				return err
			}
		}
		if spec.TopoBathy != nil {
			if err := writeSurface(eng, spec, spec.TopoBathy, src.GetTopographyBathymetry, opts.MaxBatchValues); err != nil {
				return err
			}
		}
		log.Info("wrote surfaces")
	}

	if opts.Blocks {
		if len(spec.Blocks) == 0 {
			return ErrNoBlocks
		}

		for _, blk := range spec.Blocks {
			if err := writeBlock(eng, spec, blk, spec.TopSurface, src, opts.MaxBatchValues); err != nil {
				return err
			}
		}
		log.Info("wrote blocks")
	}

	if opts.UpdateMetadata {
		if err := eng.SaveDomain(spec.Model); err != nil {
			return err
		}
		log.Info("refreshed metadata")
	}

	return nil
}

func writeSurface(eng *storage.Engine, spec Spec, surface *grid.Surface, get func([]coordsys.Point3) ([]float32, error), maxBatch int) error {
	numX, numY := surface.Dims()
	if err := eng.CreateSurface(surface, spec.ChunkSize2D); err != nil {
		return err
	}

	for _, win := range batch.Windows2D(numX, numY, maxBatch) {
		localPts := surface.GeneratePoints(win)
		physPts := toPoint3(spec.Frame, localPts)

		values, err := get(physPts)
		if err != nil {
			return err
		}

		if err := eng.SaveSurface(surface, win, values); err != nil {
			return err
		}
	}

	return nil
}

func writeBlock(eng *storage.Engine, spec Spec, blk *grid.Block, topSurface *grid.Surface, src datasource.DataSource, maxBatch int) error {
	numX, numY, numZ := blk.Dims()
	if err := eng.CreateBlock(blk, spec.Model.DataValues, spec.ChunkSize3D); err != nil {
		return err
	}

	var fullTopElev [][]float32
	if topSurface != nil {
		tnx, tny := topSurface.Dims()
		raw, err := eng.LoadSurface(topSurface, batch.Window2D{XRange: batch.Range{Start: 0, End: tnx}, YRange: batch.Range{Start: 0, End: tny}})
		if err != nil {
			return err
		}
		fullTopElev = reshape(raw, tnx, tny)
	}

	for _, win := range batch.Windows3D(numX, numY, numZ, maxBatch) {
		var topWindow [][]float32
		if fullTopElev != nil {
			sampled, err := blk.SampleSurface(topSurface, fullTopElev)
			if err != nil {
				return err
			}
			topWindow = windowSlice2D(sampled, win)
		}

		localPts := blk.GeneratePoints(win, topWindow)
		physPts := toPoint3(spec.Frame, localPts)

		values, err := src.GetValues(blk, win, physPts)
		if err != nil {
			return err
		}

		if err := eng.SaveBlock(blk, win, values); err != nil {
			return err
		}
	}

	return nil
}

func toPoint3(frame *coordsys.Frame, local any) []coordsys.Point3 {
	switch pts := local.(type) {
	case [][2]float64:
		lp := make([]coordsys.LocalPoint, len(pts))
		for i, p := range pts {
			lp[i] = coordsys.LocalPoint{X: p[0], Y: p[1], Valid: true}
		}
		return frame.ToPhysical(lp)
	case [][3]float64:
		lp := make([]coordsys.LocalPoint, len(pts))
		for i, p := range pts {
			lp[i] = coordsys.LocalPoint{X: p[0], Y: p[1], Z: p[2], Valid: true}
		}
		return frame.ToPhysical(lp)
	default:
		return nil
	}
}

func reshape(flat []float32, numX, numY int) [][]float32 {
	out := make([][]float32, numX)
	for ix := 0; ix < numX; ix++ {
		out[ix] = flat[ix*numY : (ix+1)*numY]
	}
	return out
}

func windowSlice2D(full [][]float32, win batch.Window3D) [][]float32 {
	out := make([][]float32, win.XRange.End-win.XRange.Start)
	for ix := win.XRange.Start; ix < win.XRange.End; ix++ {
		out[ix-win.XRange.Start] = full[ix][win.YRange.Start:win.YRange.End]
	}
	return out
}
