// Package storage persists GeoModelGrids models to a TileDB group: one
// hierarchical container holding the domain metadata, optional top/
// topography-bathymetry surfaces, and one dense array per block, standing
// in for the single-file HDF5 layout of the original tool.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"

	tiledb "github.com/TileDB-Inc/TileDB-Go"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/geomodelgrids/geomodelgrids/batch"
	"github.com/geomodelgrids/geomodelgrids/grid"
	"github.com/geomodelgrids/geomodelgrids/internal/tiledbutil"
	"github.com/geomodelgrids/geomodelgrids/metadata"
)

var (
	ErrOpenArray   = errors.New("storage: error opening tiledb array")
	ErrCreateArray = errors.New("storage: error creating tiledb array")
	ErrWrite       = errors.New("storage: error writing to tiledb array")
	ErrRead        = errors.New("storage: error reading from tiledb array")
	ErrValidate    = errors.New("storage: model failed structural validation")
)

var log = logrus.WithField("component", "storage")

const compressionLevel = int32(6)

// Engine is the TileDB-backed storage handle for one model.
type Engine struct {
	ctx *tiledb.Context
	uri string
}

// Open wraps an existing or about-to-be-created model group URI with a
// fresh TileDB context.
func Open(uri string) (*Engine, error) {
	cfg, err := tiledb.NewConfig()
	if err != nil {
		return nil, errors.Join(ErrOpenArray, err)
	}
	defer cfg.Free()

	ctx, err := tiledb.NewContext(cfg)
	if err != nil {
		return nil, errors.Join(ErrOpenArray, err)
	}

	return &Engine{ctx: ctx, uri: uri}, nil
}

// CreateGroup creates the root TileDB group for a new model, overwriting
// nothing that may already exist at a different URI.
func (e *Engine) CreateGroup() error {
	if err := tiledb.GroupCreate(e.ctx, e.uri); err != nil {
		return errors.Join(ErrCreateArray, err)
	}
	return nil
}

// SaveDomain writes the model's metadata as group-level TileDB metadata
// entries, one key per attribute, mirroring the original's per-attribute
// HDF5 root group attrs.
func (e *Engine) SaveDomain(m *metadata.Model) error {
	grp, err := tiledb.NewGroup(e.ctx, e.uri)
	if err != nil {
		return errors.Join(ErrWrite, err)
	}
	defer grp.Free()

	if err := grp.Open(tiledb.TILEDB_WRITE); err != nil {
		return errors.Join(ErrWrite, err)
	}
	defer grp.Close()

	attrs := map[string]any{
		"title":               m.Title,
		"id":                  m.ID,
		"description":         m.Description,
		"keywords":            m.Keywords,
		"history":             m.History,
		"comment":             m.Comment,
		"version":             m.Version,
		"creator_name":        m.CreatorName,
		"creator_institution": m.CreatorInstitution,
		"creator_email":       m.CreatorEmail,
		"acknowledgement":     m.Acknowledgement,
		"authors":             m.Authors,
		"references":          m.References,
		"repository_name":     m.RepositoryName,
		"repository_url":      m.RepositoryURL,
		"doi":                 m.DOI,
		"license":             m.License,
		"data_values":         m.DataValues,
		"data_units":          m.DataUnits,
		"data_layout":         m.DataLayout,
		"crs":                 m.CRS,
		"origin_x":            m.OriginX,
		"origin_y":            m.OriginY,
		"y_azimuth":           m.YAzimuth,
		"dim_x":               m.DimX,
		"dim_y":               m.DimY,
		"dim_z":               m.DimZ,
	}
	if m.Auxiliary != nil {
		attrs["auxiliary"] = m.Auxiliary
	}

	for key, value := range attrs {
		if err := putGroupMetadataJSON(grp, key, value); err != nil {
			return errors.Join(ErrWrite, err)
		}
	}

	log.WithField("model", m.ID).Info("wrote domain metadata")
	return nil
}

// putGroupMetadataJSON stores value under key as a JSON-encoded group
// metadata entry.
func putGroupMetadataJSON(grp *tiledb.Group, key string, value any) error {
	jsn, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return grp.PutMetadata(key, jsn)
}

// getGroupMetadataJSON reads and JSON-decodes a group metadata entry
// written by putGroupMetadataJSON into out, reporting false rather than an
// error when the key is simply absent.
func getGroupMetadataJSON(grp *tiledb.Group, key string, out any) (bool, error) {
	_, _, val, err := grp.GetMetadata(key)
	if err != nil {
		return false, nil
	}

	var raw []byte
	switch v := val.(type) {
	case []byte:
		raw = v
	case []uint8:
		raw = []byte(v)
	default:
		return false, fmt.Errorf("storage: metadata %q has unexpected type %T", key, val)
	}
	if len(raw) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, err
	}
	return true, nil
}

func surfaceURI(rootURI, name string) string {
	return fmt.Sprintf("%s/surfaces/%s", rootURI, name)
}

func blockURI(rootURI, name string) string {
	return fmt.Sprintf("%s/blocks/%s", rootURI, name)
}

// CreateSurface creates the dense array backing a surface's elevation
// values and registers it as a group member.
func (e *Engine) CreateSurface(s *grid.Surface, chunkSize [2]int) error {
	numX, numY := s.Dims()

	domain, err := tiledb.NewDomain(e.ctx)
	if err != nil {
		return errors.Join(ErrCreateArray, err)
	}
	defer domain.Free()

	for axis, n := range []int{numX, numY} {
		name := []string{"x", "y"}[axis]
		dim, err := tiledb.NewDimension(e.ctx, name, tiledb.TILEDB_INT32, []int32{0, int32(n - 1)}, int32(chunkSize[axis]))
		if err != nil {
			return errors.Join(ErrCreateArray, err)
		}
		if err := domain.AddDimensions(dim); err != nil {
			return errors.Join(ErrCreateArray, err)
		}
	}

	schema, err := tiledb.NewArraySchema(e.ctx, tiledb.TILEDB_DENSE)
	if err != nil {
		return errors.Join(ErrCreateArray, err)
	}
	defer schema.Free()

	if err := schema.SetDomain(domain); err != nil {
		return errors.Join(ErrCreateArray, err)
	}
	if err := schema.SetCellOrder(tiledb.TILEDB_ROW_MAJOR); err != nil {
		return errors.Join(ErrCreateArray, err)
	}
	if err := schema.SetTileOrder(tiledb.TILEDB_ROW_MAJOR); err != nil {
		return errors.Join(ErrCreateArray, err)
	}

	if err := tiledbutil.CreateValueAttr(e.ctx, schema, "value", "gzip(level=6)"); err != nil {
		return errors.Join(ErrCreateArray, err)
	}

	uri := surfaceURI(e.uri, s.Name)
	array, err := tiledb.NewArray(e.ctx, uri)
	if err != nil {
		return errors.Join(ErrCreateArray, err)
	}
	defer array.Free()

	if err := array.Create(schema); err != nil {
		return errors.Join(ErrCreateArray, err)
	}

	if err := e.addGroupMember(uri, "surfaces/"+s.Name); err != nil {
		return err
	}
	if err := e.saveSurfaceGeometry(s); err != nil {
		return err
	}
	return e.appendGroupList("surfaces", s.Name)
}

// CreateBlock creates the dense array backing a block's data-value
// attributes and registers it as a group member.
func (e *Engine) CreateBlock(b *grid.Block, dataValues []string, chunkSize [3]int) error {
	numX, numY, numZ := b.Dims()

	domain, err := tiledb.NewDomain(e.ctx)
	if err != nil {
		return errors.Join(ErrCreateArray, err)
	}
	defer domain.Free()

	dims := []int{numX, numY, numZ}
	names := []string{"x", "y", "z"}
	for i, n := range dims {
		dim, err := tiledb.NewDimension(e.ctx, names[i], tiledb.TILEDB_INT32, []int32{0, int32(n - 1)}, int32(chunkSize[i]))
		if err != nil {
			return errors.Join(ErrCreateArray, err)
		}
		if err := domain.AddDimensions(dim); err != nil {
			return errors.Join(ErrCreateArray, err)
		}
	}

	schema, err := tiledb.NewArraySchema(e.ctx, tiledb.TILEDB_DENSE)
	if err != nil {
		return errors.Join(ErrCreateArray, err)
	}
	defer schema.Free()

	if err := schema.SetDomain(domain); err != nil {
		return errors.Join(ErrCreateArray, err)
	}
	if err := schema.SetCellOrder(tiledb.TILEDB_ROW_MAJOR); err != nil {
		return errors.Join(ErrCreateArray, err)
	}
	if err := schema.SetTileOrder(tiledb.TILEDB_ROW_MAJOR); err != nil {
		return errors.Join(ErrCreateArray, err)
	}

	for _, name := range dataValues {
		if err := tiledbutil.CreateValueAttr(e.ctx, schema, name, "gzip(level=6)"); err != nil {
			return errors.Join(ErrCreateArray, err)
		}
	}

	uri := blockURI(e.uri, b.Name)
	array, err := tiledb.NewArray(e.ctx, uri)
	if err != nil {
		return errors.Join(ErrCreateArray, err)
	}
	defer array.Free()

	if err := array.Create(schema); err != nil {
		return errors.Join(ErrCreateArray, err)
	}

	if err := e.addGroupMember(uri, "blocks/"+b.Name); err != nil {
		return err
	}
	if err := e.saveBlockGeometry(b); err != nil {
		return err
	}
	return e.appendGroupList("blocks", b.Name)
}

// saveSurfaceGeometry persists the axis geometry needed to reconstruct a
// Surface from storage: the original build tool keeps this in per-dataset
// HDF5 attrs, here it rides along as group metadata keyed by surface name.
func (e *Engine) saveSurfaceGeometry(s *grid.Surface) error {
	grp, err := tiledb.NewGroup(e.ctx, e.uri)
	if err != nil {
		return errors.Join(ErrWrite, err)
	}
	defer grp.Free()

	if err := grp.Open(tiledb.TILEDB_WRITE); err != nil {
		return errors.Join(ErrWrite, err)
	}
	defer grp.Close()

	if err := putGroupMetadataJSON(grp, "surface."+s.Name+".x", s.X); err != nil {
		return errors.Join(ErrWrite, err)
	}
	if err := putGroupMetadataJSON(grp, "surface."+s.Name+".y", s.Y); err != nil {
		return errors.Join(ErrWrite, err)
	}
	return nil
}

// saveBlockGeometry persists the axis and vertical geometry needed to
// reconstruct a Block from storage.
func (e *Engine) saveBlockGeometry(b *grid.Block) error {
	grp, err := tiledb.NewGroup(e.ctx, e.uri)
	if err != nil {
		return errors.Join(ErrWrite, err)
	}
	defer grp.Free()

	if err := grp.Open(tiledb.TILEDB_WRITE); err != nil {
		return errors.Join(ErrWrite, err)
	}
	defer grp.Close()

	entries := map[string]any{
		"block." + b.Name + ".x":            b.X,
		"block." + b.Name + ".y":            b.Y,
		"block." + b.Name + ".z":            b.Z,
		"block." + b.Name + ".z_top_offset": b.ZTopOffset,
	}
	for key, value := range entries {
		if err := putGroupMetadataJSON(grp, key, value); err != nil {
			return errors.Join(ErrWrite, err)
		}
	}
	return nil
}

// appendGroupList adds name to the ordered string-list group metadata
// entry under key, no-op if name is already present.
func (e *Engine) appendGroupList(key, name string) error {
	existing, err := e.readGroupStringList(key)
	if err != nil {
		return err
	}
	for _, n := range existing {
		if n == name {
			return nil
		}
	}
	existing = append(existing, name)

	grp, err := tiledb.NewGroup(e.ctx, e.uri)
	if err != nil {
		return errors.Join(ErrWrite, err)
	}
	defer grp.Free()

	if err := grp.Open(tiledb.TILEDB_WRITE); err != nil {
		return errors.Join(ErrWrite, err)
	}
	defer grp.Close()

	if err := putGroupMetadataJSON(grp, key, existing); err != nil {
		return errors.Join(ErrWrite, err)
	}
	return nil
}

func (e *Engine) readGroupStringList(key string) ([]string, error) {
	grp, err := tiledb.NewGroup(e.ctx, e.uri)
	if err != nil {
		return nil, errors.Join(ErrRead, err)
	}
	defer grp.Free()

	if err := grp.Open(tiledb.TILEDB_READ); err != nil {
		return nil, errors.Join(ErrRead, err)
	}
	defer grp.Close()

	var out []string
	if _, err := getGroupMetadataJSON(grp, key, &out); err != nil {
		return nil, errors.Join(ErrRead, err)
	}
	return out, nil
}

// Domain is a model's full reconstructed domain: its descriptive metadata,
// its 0-2 surfaces, and its blocks in storage order.
type Domain struct {
	Model      *metadata.Model
	TopSurface *grid.Surface
	TopoBathy  *grid.Surface
	Blocks     []*grid.Block
}

// LoadDomain rebuilds a model's metadata, surfaces, and blocks from the
// group metadata written by SaveDomain, CreateSurface, and CreateBlock.
func (e *Engine) LoadDomain() (*Domain, error) {
	grp, err := tiledb.NewGroup(e.ctx, e.uri)
	if err != nil {
		return nil, errors.Join(ErrRead, err)
	}
	defer grp.Free()

	if err := grp.Open(tiledb.TILEDB_READ); err != nil {
		return nil, errors.Join(ErrRead, err)
	}
	defer grp.Close()

	m := &metadata.Model{}
	scalarFields := []struct {
		key string
		dst any
	}{
		{"title", &m.Title}, {"id", &m.ID}, {"description", &m.Description},
		{"keywords", &m.Keywords}, {"history", &m.History}, {"comment", &m.Comment},
		{"version", &m.Version}, {"creator_name", &m.CreatorName},
		{"creator_institution", &m.CreatorInstitution}, {"creator_email", &m.CreatorEmail},
		{"acknowledgement", &m.Acknowledgement}, {"authors", &m.Authors},
		{"references", &m.References}, {"repository_name", &m.RepositoryName},
		{"repository_url", &m.RepositoryURL}, {"doi", &m.DOI}, {"license", &m.License},
		{"data_values", &m.DataValues}, {"data_units", &m.DataUnits},
		{"data_layout", &m.DataLayout},
		{"crs", &m.CRS}, {"origin_x", &m.OriginX}, {"origin_y", &m.OriginY},
		{"y_azimuth", &m.YAzimuth}, {"dim_x", &m.DimX}, {"dim_y", &m.DimY}, {"dim_z", &m.DimZ},
	}
	for _, f := range scalarFields {
		if _, err := getGroupMetadataJSON(grp, f.key, f.dst); err != nil {
			return nil, errors.Join(ErrRead, err)
		}
	}

	var aux json.RawMessage
	if ok, err := getGroupMetadataJSON(grp, "auxiliary", &aux); err != nil {
		return nil, errors.Join(ErrRead, err)
	} else if ok {
		m.Auxiliary = aux
	}

	if err := m.Validate(); err != nil {
		return nil, errors.Join(ErrRead, err)
	}

	dom := &Domain{Model: m}

	var surfaceNames []string
	if _, err := getGroupMetadataJSON(grp, "surfaces", &surfaceNames); err != nil {
		return nil, errors.Join(ErrRead, err)
	}
	for _, name := range surfaceNames {
		var x, y grid.Axis
		if _, err := getGroupMetadataJSON(grp, "surface."+name+".x", &x); err != nil {
			return nil, errors.Join(ErrRead, err)
		}
		if _, err := getGroupMetadataJSON(grp, "surface."+name+".y", &y); err != nil {
			return nil, errors.Join(ErrRead, err)
		}

		surf := grid.NewSurface(name, x, y, m)
		switch name {
		case "top_surface":
			dom.TopSurface = surf
		case "topography_bathymetry":
			dom.TopoBathy = surf
		}
	}

	var blockNames []string
	if _, err := getGroupMetadataJSON(grp, "blocks", &blockNames); err != nil {
		return nil, errors.Join(ErrRead, err)
	}
	for _, name := range blockNames {
		var x, y grid.Axis
		var z grid.ZAxis
		var zTopOffset float64
		if _, err := getGroupMetadataJSON(grp, "block."+name+".x", &x); err != nil {
			return nil, errors.Join(ErrRead, err)
		}
		if _, err := getGroupMetadataJSON(grp, "block."+name+".y", &y); err != nil {
			return nil, errors.Join(ErrRead, err)
		}
		if _, err := getGroupMetadataJSON(grp, "block."+name+".z", &z); err != nil {
			return nil, errors.Join(ErrRead, err)
		}
		if _, err := getGroupMetadataJSON(grp, "block."+name+".z_top_offset", &zTopOffset); err != nil {
			return nil, errors.Join(ErrRead, err)
		}
		dom.Blocks = append(dom.Blocks, grid.NewBlock(name, x, y, z, zTopOffset, m))
	}

	return dom, nil
}

func (e *Engine) addGroupMember(uri, name string) error {
	grp, err := tiledb.NewGroup(e.ctx, e.uri)
	if err != nil {
		return errors.Join(ErrWrite, err)
	}
	defer grp.Free()

	if err := grp.Open(tiledb.TILEDB_WRITE); err != nil {
		return errors.Join(ErrWrite, err)
	}
	defer grp.Close()

	if err := grp.AddMember(uri, false, name); err != nil {
		return errors.Join(ErrWrite, err)
	}
	return nil
}

// SaveSurface writes a window's worth of elevation values.
func (e *Engine) SaveSurface(s *grid.Surface, win batch.Window2D, values []float32) error {
	uri := surfaceURI(e.uri, s.Name)
	array, err := arrayOpen(e.ctx, uri, tiledb.TILEDB_WRITE)
	if err != nil {
		return errors.Join(ErrOpenArray, err)
	}
	defer array.Free()
	defer array.Close()

	query, err := tiledb.NewQuery(e.ctx, array)
	if err != nil {
		return errors.Join(ErrWrite, err)
	}
	defer query.Free()

	if err := query.SetLayout(tiledb.TILEDB_ROW_MAJOR); err != nil {
		return errors.Join(ErrWrite, err)
	}

	if _, err := query.SetDataBuffer("value", values); err != nil {
		return errors.Join(ErrWrite, err)
	}

	subarr, err := array.NewSubarray()
	if err != nil {
		return errors.Join(ErrWrite, err)
	}
	defer subarr.Free()

	if err := setSubarrayRange2D(subarr, win); err != nil {
		return errors.Join(ErrWrite, err)
	}
	if err := query.SetSubarray(subarr); err != nil {
		return errors.Join(ErrWrite, err)
	}

	if err := query.Submit(); err != nil {
		return errors.Join(ErrWrite, err)
	}
	if err := query.Finalize(); err != nil {
		return errors.Join(ErrWrite, err)
	}

	log.WithField("surface", s.Name).Debug("wrote surface batch")
	return nil
}

// SaveBlock writes a window's worth of data-value attributes. values maps
// attribute name to its flattened row-major data for the window.
func (e *Engine) SaveBlock(b *grid.Block, win batch.Window3D, values map[string][]float32) error {
	uri := blockURI(e.uri, b.Name)
	array, err := arrayOpen(e.ctx, uri, tiledb.TILEDB_WRITE)
	if err != nil {
		return errors.Join(ErrOpenArray, err)
	}
	defer array.Free()
	defer array.Close()

	query, err := tiledb.NewQuery(e.ctx, array)
	if err != nil {
		return errors.Join(ErrWrite, err)
	}
	defer query.Free()

	if err := query.SetLayout(tiledb.TILEDB_ROW_MAJOR); err != nil {
		return errors.Join(ErrWrite, err)
	}

	for name, data := range values {
		if _, err := query.SetDataBuffer(name, data); err != nil {
			return errors.Join(ErrWrite, err)
		}
	}

	subarr, err := array.NewSubarray()
	if err != nil {
		return errors.Join(ErrWrite, err)
	}
	defer subarr.Free()

	if err := setSubarrayRange3D(subarr, win); err != nil {
		return errors.Join(ErrWrite, err)
	}
	if err := query.SetSubarray(subarr); err != nil {
		return errors.Join(ErrWrite, err)
	}

	if err := query.Submit(); err != nil {
		return errors.Join(ErrWrite, err)
	}
	if err := query.Finalize(); err != nil {
		return errors.Join(ErrWrite, err)
	}

	log.WithFields(logrus.Fields{"block": b.Name}).Debug("wrote block batch")
	return nil
}

// LoadSurface reads a window's worth of elevation values.
func (e *Engine) LoadSurface(s *grid.Surface, win batch.Window2D) ([]float32, error) {
	uri := surfaceURI(e.uri, s.Name)
	array, err := arrayOpen(e.ctx, uri, tiledb.TILEDB_READ)
	if err != nil {
		return nil, errors.Join(ErrOpenArray, err)
	}
	defer array.Free()
	defer array.Close()

	query, err := tiledb.NewQuery(e.ctx, array)
	if err != nil {
		return nil, errors.Join(ErrRead, err)
	}
	defer query.Free()

	if err := query.SetLayout(tiledb.TILEDB_ROW_MAJOR); err != nil {
		return nil, errors.Join(ErrRead, err)
	}

	n := (win.XRange.End - win.XRange.Start) * (win.YRange.End - win.YRange.Start)
	values := make([]float32, n)
	if _, err := query.SetDataBuffer("value", values); err != nil {
		return nil, errors.Join(ErrRead, err)
	}

	subarr, err := array.NewSubarray()
	if err != nil {
		return nil, errors.Join(ErrRead, err)
	}
	defer subarr.Free()

	if err := setSubarrayRange2D(subarr, win); err != nil {
		return nil, errors.Join(ErrRead, err)
	}
	if err := query.SetSubarray(subarr); err != nil {
		return nil, errors.Join(ErrRead, err)
	}

	if err := query.Submit(); err != nil {
		return nil, errors.Join(ErrRead, err)
	}

	return values, nil
}

// LoadBlockCorners reads the data-value rows at a set of cell corner
// indices, one []float32 of values (ordered as attrNames) per requested
// corner.
func (e *Engine) LoadBlockCorners(b *grid.Block, attrNames []string, corners [][3]int) ([][]float32, error) {
	uri := blockURI(e.uri, b.Name)
	array, err := arrayOpen(e.ctx, uri, tiledb.TILEDB_READ)
	if err != nil {
		return nil, errors.Join(ErrOpenArray, err)
	}
	defer array.Free()
	defer array.Close()

	out := make([][]float32, len(corners))
	for i, c := range corners {
		win := batch.Window3D{
			XRange: batch.Range{Start: c[0], End: c[0] + 1},
			YRange: batch.Range{Start: c[1], End: c[1] + 1},
			ZRange: batch.Range{Start: c[2], End: c[2] + 1},
		}

		query, err := tiledb.NewQuery(e.ctx, array)
		if err != nil {
			return nil, errors.Join(ErrRead, err)
		}

		row := make([]float32, len(attrNames))
		buffers := make(map[string][]float32, len(attrNames))
		for j, name := range attrNames {
			buf := make([]float32, 1)
			buffers[name] = buf
			if _, err := query.SetDataBuffer(name, buf); err != nil {
				query.Free()
				return nil, errors.Join(ErrRead, err)
			}
			_ = j
		}

		subarr, err := array.NewSubarray()
		if err != nil {
			query.Free()
			return nil, errors.Join(ErrRead, err)
		}
		if err := setSubarrayRange3D(subarr, win); err != nil {
			subarr.Free()
			query.Free()
			return nil, errors.Join(ErrRead, err)
		}
		if err := query.SetSubarray(subarr); err != nil {
			subarr.Free()
			query.Free()
			return nil, errors.Join(ErrRead, err)
		}

		if err := query.Submit(); err != nil {
			subarr.Free()
			query.Free()
			return nil, errors.Join(ErrRead, err)
		}

		for j, name := range attrNames {
			row[j] = buffers[name][0]
		}

		subarr.Free()
		query.Free()
		out[i] = row
	}

	return out, nil
}

// Validate performs a structural consistency check on a model's
// configuration, in the spirit of the original tool's per-file
// quality-assurance pass: block names must be unique and the model must
// declare at least one data value. It does not open the block arrays or
// compare their attributes against the declared data values.
func (e *Engine) Validate(m *metadata.Model, blockNames []string) error {
	dupes := lo.FindDuplicates(blockNames)
	if len(dupes) > 0 {
		return errors.Join(ErrValidate, fmt.Errorf("duplicate block names: %v", dupes))
	}
	if len(m.DataValues) == 0 {
		return errors.Join(ErrValidate, errors.New("model declares no data values"))
	}
	return nil
}

// Close releases the engine's TileDB context.
func (e *Engine) Close() {
	e.ctx.Free()
}

func arrayOpen(ctx *tiledb.Context, uri string, mode tiledb.QueryType) (*tiledb.Array, error) {
	array, err := tiledb.NewArray(ctx, uri)
	if err != nil {
		return nil, err
	}
	if err := array.Open(mode); err != nil {
		array.Free()
		return nil, err
	}
	return array, nil
}

func setSubarrayRange2D(subarr *tiledb.Subarray, win batch.Window2D) error {
	rx, err := tiledb.MakeRange(int32(win.XRange.Start), int32(win.XRange.End-1))
	if err != nil {
		return err
	}
	if err := subarr.AddRangeByName("x", rx); err != nil {
		return err
	}
	ry, err := tiledb.MakeRange(int32(win.YRange.Start), int32(win.YRange.End-1))
	if err != nil {
		return err
	}
	return subarr.AddRangeByName("y", ry)
}

func setSubarrayRange3D(subarr *tiledb.Subarray, win batch.Window3D) error {
	rx, err := tiledb.MakeRange(int32(win.XRange.Start), int32(win.XRange.End-1))
	if err != nil {
		return err
	}
	if err := subarr.AddRangeByName("x", rx); err != nil {
		return err
	}
	ry, err := tiledb.MakeRange(int32(win.YRange.Start), int32(win.YRange.End-1))
	if err != nil {
		return err
	}
	if err := subarr.AddRangeByName("y", ry); err != nil {
		return err
	}
	rz, err := tiledb.MakeRange(int32(win.ZRange.Start), int32(win.ZRange.End-1))
	if err != nil {
		return err
	}
	return subarr.AddRangeByName("z", rz)
}
