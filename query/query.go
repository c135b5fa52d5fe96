package query

import (
	"strings"

	"github.com/geomodelgrids/geomodelgrids/batch"
	"github.com/geomodelgrids/geomodelgrids/coordsys"
	"github.com/geomodelgrids/geomodelgrids/grid"
	"github.com/geomodelgrids/geomodelgrids/internal/tiledbutil"
)

// Result holds per-point query output, row order matching the input
// points. Err[i] is true when point i could not be resolved (outside the
// domain, or a NODATA corner was encountered).
type Result struct {
	Values [][]float32
	Err    []bool
}

// QueryTopElevation returns the model's top-of-domain elevation at each
// point's horizontal location.
func (m *Model) QueryTopElevation(points []coordsys.LocalPoint) ([]float32, []bool) {
	return m.queryOneSurface(m.TopSurface, points)
}

// QueryTopobathyElevation returns the model's topography/bathymetry
// elevation at each point's horizontal location, or all-NODATA/err if the
// model has no such surface.
func (m *Model) QueryTopobathyElevation(points []coordsys.LocalPoint) ([]float32, []bool) {
	return m.queryOneSurface(m.TopoBathy, points)
}

func (m *Model) queryOneSurface(surface *grid.Surface, points []coordsys.LocalPoint) ([]float32, []bool) {
	out := make([]float32, len(points))
	errs := make([]bool, len(points))

	if surface == nil {
		for i := range out {
			out[i] = NODATA
			errs[i] = true
		}
		return out, errs
	}

	numX, numY := surface.Dims()
	full, err := m.eng.LoadSurface(surface, batch.Window2D{XRange: batch.Range{Start: 0, End: numX}, YRange: batch.Range{Start: 0, End: numY}})
	if err != nil {
		for i := range out {
			out[i] = NODATA
			errs[i] = true
		}
		if m.reporter != nil {
			m.reporter.SetError(err)
		}
		return out, errs
	}

	for i, p := range points {
		if !p.Valid {
			out[i] = NODATA
			errs[i] = true
			continue
		}
		ixLow, fx := surface.X.Locate(p.X)
		iyLow, fy := surface.Y.Locate(p.Y)
		if ixLow < 0 || ixLow >= numX || iyLow < 0 {
			out[i] = NODATA
			errs[i] = true
			continue
		}
		out[i] = bilinear(full, numX, numY, ixLow, iyLow, fx, fy)
	}

	return out, errs
}

func bilinear(flat []float32, numX, numY, ixLow, iyLow int, fx, fy float64) float32 {
	at := func(ix, iy int) float32 {
		if ix < 0 {
			ix = 0
		}
		if ix >= numX {
			ix = numX - 1
		}
		if iy < 0 {
			iy = 0
		}
		if iy >= numY {
			iy = numY - 1
		}
		return flat[ix*numY+iy]
	}

	v00 := float64(at(ixLow, iyLow))
	v10 := float64(at(ixLow+1, iyLow))
	v01 := float64(at(ixLow, iyLow+1))
	v11 := float64(at(ixLow+1, iyLow+1))

	v0 := v00*(1-fx) + v10*fx
	v1 := v01*(1-fx) + v11*fx
	return float32(v0*(1-fy) + v1*fy)
}

// Query resolves data values for a batch of local-frame points, applying
// block selection (first block whose z-range contains the point, ordered
// decreasing by ZTop), 8-corner fetch, and trilinear interpolation.
func (m *Model) Query(points []coordsys.LocalPoint, values []string) (Result, error) {
	res := Result{
		Values: make([][]float32, len(points)),
		Err:    make([]bool, len(points)),
	}
	if m.closed {
		return res, ErrInvalidHandle
	}

	valueIndex := map[string]bool{}
	for _, v := range values {
		valueIndex[v] = true
	}
	for _, v := range values {
		found := false
		for _, dv := range m.Metadata.DataValues {
			if dv == v {
				found = true
				break
			}
		}
		if !found {
			return res, ErrUnknownValue
		}
	}

	topElev, topErrs := m.QueryTopElevation(points)
	domainTop := 0.0
	domainBot := -m.Metadata.DimZ

	for i, p := range points {
		row := make([]float32, len(values))
		if !p.Valid || p.X < 0 || p.X > m.Metadata.DimX || p.Y < 0 || p.Y > m.Metadata.DimY {
			fillNodata(row)
			res.Values[i] = row
			res.Err[i] = true
			continue
		}

		// Warp the physical z into the block's unwarped domain frame (spec
		// step 3): the top surface elevation maps to the domain top, -dim_z
		// stays fixed. A model with no top surface leaves z untouched.
		t := domainTop
		if !topErrs[i] {
			t = float64(topElev[i])
		}
		warped := p
		warped.Z = warpZ(p.Z, domainTop, domainBot, t)

		blk := m.blockFor(warped.Z)
		if blk == nil {
			fillNodata(row)
			res.Values[i] = row
			res.Err[i] = true
			continue
		}

		v, ok := m.queryPointInBlock(blk, warped, values)
		if !ok {
			fillNodata(row)
			res.Err[i] = true
		} else {
			row = v
		}
		res.Values[i] = row
	}

	return res, nil
}

// warpZ maps a physical-space z into a block's unwarped domain frame: the
// top surface elevation t maps to domainTop, domainBot stays fixed. When t
// equals domainBot (a degenerate, zero-thickness column) z is left
// unchanged rather than dividing by zero.
func warpZ(zIn, domainTop, domainBot, t float64) float64 {
	if t == domainBot {
		return zIn
	}
	return domainBot + (zIn-domainBot)*(domainTop-domainBot)/(t-domainBot)
}

func fillNodata(row []float32) {
	for i := range row {
		row[i] = NODATA
	}
}

func (m *Model) queryPointInBlock(blk *grid.Block, p coordsys.LocalPoint, values []string) ([]float32, bool) {
	numX, numY, numZ := blk.Dims()

	ixLow, fx := blk.X.Locate(p.X)
	iyLow, fy := blk.Y.Locate(p.Y)

	depthFrac := (blk.Z.ZTop - p.Z) / blk.Z.Resolution
	izLow := int(depthFrac)
	fz := depthFrac - float64(izLow)

	if ixLow < 0 || ixLow >= numX || iyLow < 0 || iyLow >= numY || izLow < 0 || izLow >= numZ {
		return nil, false
	}

	key := tiledbutil.ChunkKey{ArrayURI: m.URI + "/" + blk.Name + "/" + strings.Join(values, ","), XChunk: ixLow, YChunk: iyLow, ZChunk: izLow}

	rows, cached := m.cache.Get(key)
	if !cached {
		corners := cellCorners(ixLow, iyLow, izLow, numX, numY, numZ)
		var err error
		rows, err = m.eng.LoadBlockCorners(blk, values, corners)
		if err != nil {
			if m.reporter != nil {
				m.reporter.SetError(err)
			}
			return nil, false
		}
		m.cache.Put(key, rows)
	}

	out := make([]float32, len(values))
	for col := range values {
		c := [8]float64{
			float64(rows[0][col]), float64(rows[1][col]), float64(rows[2][col]), float64(rows[3][col]),
			float64(rows[4][col]), float64(rows[5][col]), float64(rows[6][col]), float64(rows[7][col]),
		}
		for _, v := range c {
			if float32(v) == NODATA {
				return nil, false
			}
		}
		out[col] = float32(trilinear(c, fx, fy, fz))
	}

	return out, true
}

func cellCorners(ix, iy, iz, numX, numY, numZ int) [][3]int {
	clampIdx := func(v, max int) int {
		if v >= max {
			return max - 1
		}
		return v
	}
	ix1 := clampIdx(ix+1, numX)
	iy1 := clampIdx(iy+1, numY)
	iz1 := clampIdx(iz+1, numZ)

	return [][3]int{
		{ix, iy, iz}, {ix1, iy, iz}, {ix, iy1, iz}, {ix1, iy1, iz},
		{ix, iy, iz1}, {ix1, iy, iz1}, {ix, iy1, iz1}, {ix1, iy1, iz1},
	}
}

// trilinear interpolates the 8 corner values c (ordered as cellCorners
// produces them: x fastest, then y, then z) at fractional offsets
// fx, fy, fz in [0, 1].
func trilinear(c [8]float64, fx, fy, fz float64) float64 {
	c00 := c[0]*(1-fx) + c[1]*fx
	c10 := c[2]*(1-fx) + c[3]*fx
	c01 := c[4]*(1-fx) + c[5]*fx
	c11 := c[6]*(1-fx) + c[7]*fx

	c0 := c00*(1-fy) + c10*fy
	c1 := c01*(1-fy) + c11*fy

	return c0*(1-fz) + c1*fz
}
