package datasource

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/geomodelgrids/geomodelgrids/batch"
	"github.com/geomodelgrids/geomodelgrids/coordsys"
	"github.com/geomodelgrids/geomodelgrids/grid"
)

var ErrCSVFormat = errors.New("datasource: malformed csv row")

// CSVSource reads precomputed grid values from a CSV file keyed by the
// physical-space coordinate of each row, with one column per data value
// plus "x", "y", "z" columns. Every GetValues/GetTopSurface/
// GetTopographyBathymetry call looks rows up by exact coordinate match,
// suiting small reference grids built by hand or dumped from another tool.
type CSVSource struct {
	Filename string

	columns []string
	rows    map[[3]float64]map[string]float64
	topKey  func(x, y float64) [3]float64
}

// Initialize reads and indexes the CSV file.
func (c *CSVSource) Initialize(ctx context.Context) error {
	f, err := os.Open(c.Filename)
	if err != nil {
		return err
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return err
	}
	c.columns = header

	xi, yi, zi := indexOf(header, "x"), indexOf(header, "y"), indexOf(header, "z")
	if xi < 0 || yi < 0 || zi < 0 {
		return errors.Join(ErrCSVFormat, errors.New("missing x/y/z columns"))
	}

	c.rows = map[[3]float64]map[string]float64{}

	for {
		record, err := r.Read()
		if err != nil {
			break
		}
		x, err1 := strconv.ParseFloat(record[xi], 64)
		y, err2 := strconv.ParseFloat(record[yi], 64)
		z, err3 := strconv.ParseFloat(record[zi], 64)
		if err1 != nil || err2 != nil || err3 != nil {
			return errors.Join(ErrCSVFormat, fmt.Errorf("row %v", record))
		}

		values := make(map[string]float64, len(header))
		for i, name := range header {
			if i == xi || i == yi || i == zi {
				continue
			}
			v, err := strconv.ParseFloat(record[i], 64)
			if err != nil {
				return errors.Join(ErrCSVFormat, err)
			}
			values[name] = v
		}

		c.rows[[3]float64{x, y, z}] = values
	}

	return nil
}

func indexOf(header []string, name string) int {
	for i, h := range header {
		if h == name {
			return i
		}
	}
	return -1
}

func (c *CSVSource) lookup(x, y, z float64, column string) float32 {
	if row, ok := c.rows[[3]float64{x, y, z}]; ok {
		if v, ok := row[column]; ok {
			return float32(v)
		}
	}
	return 0
}

func (c *CSVSource) GetTopSurface(points []coordsys.Point3) ([]float32, error) {
	out := make([]float32, len(points))
	for i, p := range points {
		out[i] = c.lookup(p.X, p.Y, 0, "top_surface")
	}
	return out, nil
}

func (c *CSVSource) GetTopographyBathymetry(points []coordsys.Point3) ([]float32, error) {
	out := make([]float32, len(points))
	for i, p := range points {
		out[i] = c.lookup(p.X, p.Y, 0, "topography_bathymetry")
	}
	return out, nil
}

func (c *CSVSource) GetValues(block *grid.Block, win batch.Window3D, points []coordsys.Point3) (map[string][]float32, error) {
	out := map[string][]float32{}
	for _, name := range c.columns {
		if name == "x" || name == "y" || name == "z" || name == "top_surface" || name == "topography_bathymetry" {
			continue
		}
		values := make([]float32, len(points))
		for i, p := range points {
			values[i] = c.lookup(p.X, p.Y, p.Z, name)
		}
		out[name] = values
	}
	return out, nil
}

func (c *CSVSource) Metadata() map[string]any {
	return map[string]any{"source": "csv", "filename": c.Filename}
}
