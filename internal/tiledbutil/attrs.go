package tiledbutil

import (
	"errors"

	tiledb "github.com/TileDB-Inc/TileDB-Go"
	stgpsr "github.com/yuin/stagparser"
)

var ErrCreateAttr = errors.New("tiledbutil: error creating attribute")

// CreateValueAttr creates a float32 data-value attribute on schema and
// attaches a filter pipeline described by a stagparser tag string, e.g.
// "gzip(level=6)" or "zstd(level=16),bysh". This is the same tag-driven
// filter pipeline construction the teacher's schema builder uses for ping
// fields, retargeted here at dynamically named model data values rather
// than a fixed struct's fields.
func CreateValueAttr(ctx *tiledb.Context, schema *tiledb.ArraySchema, name string, filterTag string) error {
	defs, err := stgpsr.Parse(filterTag)
	if err != nil {
		return errors.Join(ErrCreateAttr, err)
	}

	filterList, err := tiledb.NewFilterList(ctx)
	if err != nil {
		return errors.Join(ErrCreateAttr, err)
	}
	defer filterList.Free()

	for _, def := range defs {
		switch def.Name() {
		case "zstd":
			level, _ := def.Attribute("level")
			filt, err := ZstdFilter(ctx, attrLevel(level))
			if err != nil {
				return errors.Join(ErrCreateAttr, err)
			}
			defer filt.Free()
			if err := filterList.AddFilter(filt); err != nil {
				return errors.Join(ErrCreateAttr, err)
			}
		case "gzip":
			level, _ := def.Attribute("level")
			filt, err := GzipFilter(ctx, attrLevel(level))
			if err != nil {
				return errors.Join(ErrCreateAttr, err)
			}
			defer filt.Free()
			if err := filterList.AddFilter(filt); err != nil {
				return errors.Join(ErrCreateAttr, err)
			}
		case "bysh":
			filt, err := tiledb.NewFilter(ctx, tiledb.TILEDB_FILTER_BYTESHUFFLE)
			if err != nil {
				return errors.Join(ErrCreateAttr, err)
			}
			defer filt.Free()
			if err := filterList.AddFilter(filt); err != nil {
				return errors.Join(ErrCreateAttr, err)
			}
		}
	}

	attr, err := tiledb.NewAttribute(ctx, name, tiledb.TILEDB_FLOAT32)
	if err != nil {
		return errors.Join(ErrCreateAttr, err)
	}
	defer attr.Free()

	if err := AttachFilters(filterList, attr); err != nil {
		return errors.Join(ErrCreateAttr, err)
	}

	if err := schema.AddAttributes(attr); err != nil {
		return errors.Join(ErrCreateAttr, err)
	}

	return nil
}

func attrLevel(v any) int32 {
	if i, ok := v.(int64); ok {
		return int32(i)
	}
	return 6
}
