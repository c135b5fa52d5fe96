// Command geomodelgrids-query resolves data values at a list of points
// against an ordered list of GeoModelGrids models, writing one CSV row of
// results per input point.
package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/geomodelgrids/geomodelgrids/coordsys"
	"github.com/geomodelgrids/geomodelgrids/errstatus"
	"github.com/geomodelgrids/geomodelgrids/query"
	"github.com/geomodelgrids/geomodelgrids/querydriver"
)

var log = logrus.WithField("component", "geomodelgrids-query")

const defaultPointsCRS = "+proj=longlat +datum=WGS84"

func main() {
	app := &cli.App{
		Name:  "geomodelgrids-query",
		Usage: "query an ordered list of GeoModelGrids models at a set of points",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{Name: "models", Usage: "model URIs, finest resolution first"},
			&cli.StringSliceFlag{Name: "values", Usage: "value names to query, in output column order"},
			&cli.StringFlag{Name: "points", Usage: "input points CSV (x,y,z columns), optionally 'path|coordsys=<CRS>'"},
			&cli.StringFlag{Name: "output", Usage: "output CSV path"},
			&cli.Float64Flag{Name: "squash-min-elev", Usage: "enable squashing above this elevation"},
			&cli.StringFlag{Name: "squash-surface", Usage: "surface name squashing references", Value: "top_surface"},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

func run(cCtx *cli.Context) error {
	models := cCtx.StringSlice("models")
	values := cCtx.StringSlice("values")
	pointsArg := cCtx.String("points")
	outputPath := cCtx.String("output")

	if len(models) == 0 {
		return errors.New("geomodelgrids-query: --models is required")
	}
	if len(values) == 0 {
		return errors.New("geomodelgrids-query: --values is required")
	}
	if pointsArg == "" || outputPath == "" {
		return errors.New("geomodelgrids-query: --points and --output are required")
	}

	pointsPath, pointsCRS := parsePointsArg(pointsArg)

	reporter := errstatus.New()

	// All listed models are assumed to share one local coordinate frame
	// (the common case: a regional model plus nested local refinements),
	// so the frame is built once from the first, finest-resolution model
	// and reused for the fallback chain.
	first, err := query.Open(models[0], reporter)
	if err != nil {
		return err
	}
	frame, err := coordsys.NewFrame(pointsCRS, first.Metadata.CRS, first.Metadata.OriginX, first.Metadata.OriginY, first.Metadata.YAzimuth)
	first.Close()
	if err != nil {
		return err
	}

	driver, err := querydriver.Initialize(models, values, frame, reporter)
	if err != nil {
		return err
	}
	defer driver.Finalize()

	if cCtx.IsSet("squash-min-elev") {
		driver.SetSquashMinElev(cCtx.Float64("squash-min-elev"), cCtx.String("squash-surface"))
	}

	points, err := readPoints(pointsPath)
	if err != nil {
		return err
	}

	result, err := driver.Query(context.Background(), points)
	if err != nil {
		if status, msg := reporter.Get(); status == errstatus.Error {
			return fmt.Errorf("geomodelgrids-query: %s", msg)
		}
		return err
	}

	if err := writeResults(outputPath, points, values, result); err != nil {
		return err
	}

	log.WithField("points", len(points)).Info("query complete")
	return nil
}

// parsePointsArg splits "path|coordsys=CRS" into its path and CRS
// components, defaulting to geographic WGS84 when no CRS is given.
func parsePointsArg(arg string) (path, crs string) {
	parts := strings.SplitN(arg, "|", 2)
	path = parts[0]
	crs = defaultPointsCRS
	if len(parts) == 2 {
		if strings.HasPrefix(parts[1], "coordsys=") {
			crs = strings.TrimPrefix(parts[1], "coordsys=")
		}
	}
	return path, crs
}

func readPoints(path string) ([]coordsys.Point3, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, err
	}
	xi, yi, zi := colIndex(header, "x"), colIndex(header, "y"), colIndex(header, "z")
	if xi < 0 || yi < 0 || zi < 0 {
		return nil, errors.New("geomodelgrids-query: points file must have x, y, z columns")
	}

	var points []coordsys.Point3
	for {
		record, err := r.Read()
		if err != nil {
			break
		}
		x, err1 := strconv.ParseFloat(record[xi], 64)
		y, err2 := strconv.ParseFloat(record[yi], 64)
		z, err3 := strconv.ParseFloat(record[zi], 64)
		if err1 != nil || err2 != nil || err3 != nil {
			return nil, fmt.Errorf("geomodelgrids-query: malformed points row %v", record)
		}
		points = append(points, coordsys.Point3{X: x, Y: y, Z: z})
	}

	return points, nil
}

func colIndex(header []string, name string) int {
	for i, h := range header {
		if h == name {
			return i
		}
	}
	return -1
}

func writeResults(path string, points []coordsys.Point3, values []string, result query.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := append([]string{"x", "y", "z"}, values...)
	header = append(header, "err")
	if err := w.Write(header); err != nil {
		return err
	}

	for i, p := range points {
		row := make([]string, 0, len(header))
		row = append(row, strconv.FormatFloat(p.X, 'g', -1, 64), strconv.FormatFloat(p.Y, 'g', -1, 64), strconv.FormatFloat(p.Z, 'g', -1, 64))
		for _, v := range result.Values[i] {
			row = append(row, strconv.FormatFloat(float64(v), 'g', -1, 32))
		}
		row = append(row, strconv.FormatBool(result.Err[i]))
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return nil
}
