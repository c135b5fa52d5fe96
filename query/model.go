// Package query answers point queries against a single stored model:
// locating the containing block, fetching its 8 surrounding grid corners,
// and trilinearly interpolating the requested data values.
package query

import (
	"errors"
	"sort"

	"github.com/geomodelgrids/geomodelgrids/coordsys"
	"github.com/geomodelgrids/geomodelgrids/errstatus"
	"github.com/geomodelgrids/geomodelgrids/grid"
	"github.com/geomodelgrids/geomodelgrids/internal/tiledbutil"
	"github.com/geomodelgrids/geomodelgrids/metadata"
	"github.com/geomodelgrids/geomodelgrids/storage"
)

const NODATA = float32(1.0e+20)

var (
	ErrInvalidHandle  = errors.New("query: model has been closed")
	ErrOutsideDomain  = errors.New("query: point is outside the model domain")
	ErrUnknownValue   = errors.New("query: requested value is not served by this model")
)

// Model is an open, queryable stored model.
type Model struct {
	URI        string
	Metadata   *metadata.Model
	TopSurface *grid.Surface
	TopoBathy  *grid.Surface
	Blocks     []*grid.Block // ordered by decreasing ZTop

	eng      *storage.Engine
	cache    *tiledbutil.ChunkCache
	reporter *errstatus.Reporter
	closed   bool
}

// Open opens a stored model for querying, reconstructing its metadata,
// surfaces, and blocks from the group.
func Open(uri string, reporter *errstatus.Reporter) (*Model, error) {
	eng, err := storage.Open(uri)
	if err != nil {
		if reporter != nil {
			reporter.SetError(err)
		}
		return nil, err
	}

	dom, err := eng.LoadDomain()
	if err != nil {
		if reporter != nil {
			reporter.SetError(err)
		}
		eng.Close()
		return nil, err
	}
	sortBlocksByDepth(dom.Blocks)

	cache, err := tiledbutil.NewChunkCache(256)
	if err != nil {
		eng.Close()
		return nil, err
	}

	return &Model{
		URI:        uri,
		Metadata:   dom.Model,
		TopSurface: dom.TopSurface,
		TopoBathy:  dom.TopoBathy,
		Blocks:     dom.Blocks,
		eng:        eng,
		cache:      cache,
		reporter:   reporter,
	}, nil
}

// Close releases the model's storage handle. Subsequent Query calls return
// ErrInvalidHandle; calling Close again is a no-op.
func (m *Model) Close() error {
	if m.closed {
		return nil
	}
	m.closed = true
	m.eng.Close()
	return nil
}

// Contains reports, for each point, whether it falls within the model's
// horizontal domain and vertical support (between the top surface, or the
// domain top if the model has none, and -dim_z).
func (m *Model) Contains(points []coordsys.LocalPoint) []bool {
	out := make([]bool, len(points))
	idx := make([]int, 0, len(points))
	for i, p := range points {
		if p.Valid && p.X >= 0 && p.X <= m.Metadata.DimX && p.Y >= 0 && p.Y <= m.Metadata.DimY {
			out[i] = true
			idx = append(idx, i)
		}
	}
	if len(idx) == 0 {
		return out
	}

	subset := make([]coordsys.LocalPoint, len(idx))
	for k, i := range idx {
		subset[k] = points[i]
	}
	top, errs := m.QueryTopElevation(subset)

	domainBot := -m.Metadata.DimZ
	for k, i := range idx {
		t := 0.0
		if !errs[k] {
			t = float64(top[k])
		}
		out[i] = points[i].Z <= t+1e-9 && points[i].Z >= domainBot-1e-9
	}
	return out
}

func (m *Model) blockFor(z float64) *grid.Block {
	for _, b := range m.Blocks {
		if z <= b.Z.ZTop+1e-9 && z >= b.Z.ZBot-1e-9 {
			return b
		}
	}
	return nil
}

// sortBlocksByDepth orders blocks by decreasing ZTop, the order the query
// driver and Open both rely on for first-match block selection.
func sortBlocksByDepth(blocks []*grid.Block) {
	sort.Slice(blocks, func(i, j int) bool { return blocks[i].Z.ZTop > blocks[j].Z.ZTop })
}
