// Package tiledbutil holds the TileDB-Go helpers shared by storage: filter
// pipeline construction, struct-tag-driven attribute definitions, and a
// bounded cache for repeatedly-read chunks.
package tiledbutil

import (
	"errors"

	tiledb "github.com/TileDB-Inc/TileDB-Go"
)

var ErrAddFilters = errors.New("tiledbutil: error adding filter to filter list")

// ZstdFilter builds a Zstandard compression filter at the given level.
func ZstdFilter(ctx *tiledb.Context, level int32) (*tiledb.Filter, error) {
	filt, err := tiledb.NewFilter(ctx, tiledb.TILEDB_FILTER_ZSTD)
	if err != nil {
		return nil, err
	}
	if err := filt.SetOption(tiledb.TILEDB_COMPRESSION_LEVEL, level); err != nil {
		filt.Free()
		return nil, err
	}
	return filt, nil
}

// GzipFilter builds a deflate compression filter at the given level.
func GzipFilter(ctx *tiledb.Context, level int32) (*tiledb.Filter, error) {
	filt, err := tiledb.NewFilter(ctx, tiledb.TILEDB_FILTER_GZIP)
	if err != nil {
		return nil, err
	}
	if err := filt.SetOption(tiledb.TILEDB_COMPRESSION_LEVEL, level); err != nil {
		filt.Free()
		return nil, err
	}
	return filt, nil
}

// PositiveDeltaFilter builds the positive-delta filter used ahead of
// compression for monotonically increasing index-like data.
func PositiveDeltaFilter(ctx *tiledb.Context) (*tiledb.Filter, error) {
	return tiledb.NewFilter(ctx, tiledb.TILEDB_FILTER_POSITIVE_DELTA)
}

// AddFilters sequentially appends filters to a filter pipeline.
func AddFilters(list *tiledb.FilterList, filters ...*tiledb.Filter) error {
	for _, f := range filters {
		if err := list.AddFilter(f); err != nil {
			return errors.Join(ErrAddFilters, err)
		}
	}
	return nil
}

// AttachFilters sets the same filter list on a batch of attributes.
func AttachFilters(list *tiledb.FilterList, attrs ...*tiledb.Attribute) error {
	for _, a := range attrs {
		if err := a.SetFilterList(list); err != nil {
			return err
		}
	}
	return nil
}

// GzipAttrFilters builds the standard gzip(level) attribute filter list
// used for surface and block value arrays, mirroring the original
// storage's "chunks=..., compression='gzip'" dataset creation option.
func GzipAttrFilters(ctx *tiledb.Context, level int32) (*tiledb.FilterList, error) {
	list, err := tiledb.NewFilterList(ctx)
	if err != nil {
		return nil, err
	}

	filt, err := GzipFilter(ctx, level)
	if err != nil {
		list.Free()
		return nil, err
	}
	defer filt.Free()

	if err := AddFilters(list, filt); err != nil {
		list.Free()
		return nil, err
	}

	return list, nil
}
