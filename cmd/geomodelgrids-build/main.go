// Command geomodelgrids-build populates a model's storage from a DataSource
// described by a build configuration file, mirroring the import steps of
// the original build tool: domain, surfaces, blocks, metadata refresh.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/geomodelgrids/geomodelgrids/build"
	"github.com/geomodelgrids/geomodelgrids/coordsys"
	"github.com/geomodelgrids/geomodelgrids/datasource"
	"github.com/geomodelgrids/geomodelgrids/grid"
	"github.com/geomodelgrids/geomodelgrids/internal/config"
	"github.com/geomodelgrids/geomodelgrids/metadata"
	"github.com/geomodelgrids/geomodelgrids/storage"
)

var log = logrus.WithField("component", "geomodelgrids-build")

func main() {
	app := &cli.App{
		Name:  "geomodelgrids-build",
		Usage: "build a GeoModelGrids model from a build configuration",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{Name: "config", Usage: "one or more INI build configuration files, later files override earlier ones"},
			&cli.BoolFlag{Name: "show-parameters", Usage: "print the fully resolved configuration and exit"},
			&cli.BoolFlag{Name: "import-domain", Usage: "write the model's domain metadata"},
			&cli.BoolFlag{Name: "import-surfaces", Usage: "write top_surface and topography_bathymetry"},
			&cli.BoolFlag{Name: "import-blocks", Usage: "write every configured block"},
			&cli.BoolFlag{Name: "update-metadata", Usage: "refresh root metadata without rewriting any dataset"},
			&cli.BoolFlag{Name: "all", Usage: "shorthand for --import-domain --import-surfaces --import-blocks --update-metadata"},
			&cli.BoolFlag{Name: "quiet", Usage: "suppress informational logging"},
			&cli.StringFlag{Name: "log", Usage: "write logs to this file instead of stderr"},
			&cli.BoolFlag{Name: "debug", Usage: "enable debug-level logging"},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

func run(cCtx *cli.Context) error {
	if cCtx.Bool("debug") {
		logrus.SetLevel(logrus.DebugLevel)
	}
	if cCtx.Bool("quiet") {
		logrus.SetLevel(logrus.WarnLevel)
	}
	if path := cCtx.String("log"); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("geomodelgrids-build: opening log file: %w", err)
		}
		logrus.SetOutput(f)
	}

	configFiles := cCtx.StringSlice("config")
	if len(configFiles) == 0 {
		return errors.New("geomodelgrids-build: --config is required")
	}

	cfg, err := config.Load(configFiles...)
	if err != nil {
		return err
	}

	if cCtx.Bool("show-parameters") {
		return cfg.WriteINI(os.Stdout)
	}

	model, err := metadata.NewModel(cfg)
	if err != nil {
		return err
	}

	frame, err := coordsys.NewFrame(model.CRS, model.CRS, model.OriginX, model.OriginY, model.YAzimuth)
	if err != nil {
		return err
	}

	topSurface, topoBathy, err := surfacesFromConfig(cfg, model)
	if err != nil {
		return err
	}

	blocks, err := blocksFromConfig(cfg, model)
	if err != nil {
		return err
	}

	src, err := dataSourceFromConfig(cfg)
	if err != nil {
		return err
	}

	filename := cfg.GetDefault("geomodelgrids", "filename", "")
	if filename == "" {
		return errors.New("geomodelgrids-build: geomodelgrids.filename is required")
	}

	blockNames := make([]string, len(blocks))
	for i, b := range blocks {
		blockNames[i] = b.Name
	}

	eng, err := storage.Open(filename)
	if err != nil {
		return err
	}
	defer eng.Close()

	if err := eng.Validate(model, blockNames); err != nil {
		return err
	}

	opts := build.Options{
		Domain:         cCtx.Bool("import-domain") || cCtx.Bool("all"),
		Surfaces:       cCtx.Bool("import-surfaces") || cCtx.Bool("all"),
		Blocks:         cCtx.Bool("import-blocks") || cCtx.Bool("all"),
		UpdateMetadata: cCtx.Bool("update-metadata") || cCtx.Bool("all"),
		MaxBatchValues: batchSize(cfg),
	}

	spec := build.Spec{
		URI:         filename,
		Model:       model,
		TopSurface:  topSurface,
		TopoBathy:   topoBathy,
		Blocks:      blocks,
		Frame:       frame,
		ChunkSize2D: chunkSize2D(cfg),
		ChunkSize3D: chunkSize3D(cfg),
	}

	if err := build.Run(context.Background(), eng, spec, src, opts); err != nil {
		return err
	}

	log.WithField("model", model.ID).Info("build complete")
	return nil
}

func batchSize(cfg config.Config) int {
	v := cfg.GetDefault("domain", "batch_size", "0")
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return n
}

func chunkSize2D(cfg config.Config) [2]int {
	x, _ := strconv.Atoi(cfg.GetDefault("domain", "chunk_size_x", "64"))
	y, _ := strconv.Atoi(cfg.GetDefault("domain", "chunk_size_y", "64"))
	return [2]int{x, y}
}

func chunkSize3D(cfg config.Config) [3]int {
	x, _ := strconv.Atoi(cfg.GetDefault("domain", "chunk_size_x", "64"))
	y, _ := strconv.Atoi(cfg.GetDefault("domain", "chunk_size_y", "64"))
	z, _ := strconv.Atoi(cfg.GetDefault("domain", "chunk_size_z", "64"))
	return [3]int{x, y, z}
}

func axisFromConfig(cfg config.Config, section, prefix string) (grid.Axis, error) {
	if coords, ok := cfg.Get(section, prefix+"_coordinates"); ok {
		values, err := parseFloatCSV(coords)
		if err != nil {
			return grid.Axis{}, err
		}
		return grid.VariableAxis(values), nil
	}
	res, ok := cfg.Get(section, prefix+"_resolution")
	if !ok {
		return grid.Axis{}, fmt.Errorf("geomodelgrids-build: section %q missing %s_resolution or %s_coordinates", section, prefix, prefix)
	}
	v, err := strconv.ParseFloat(res, 64)
	if err != nil {
		return grid.Axis{}, fmt.Errorf("geomodelgrids-build: %s.%s_resolution: %w", section, prefix, err)
	}
	return grid.UniformAxis(v), nil
}

func parseFloatCSV(s string) ([]float64, error) {
	parts := strings.Split(s, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func surfacesFromConfig(cfg config.Config, model *metadata.Model) (top, topoBathy *grid.Surface, err error) {
	if _, ok := cfg["top_surface"]; ok {
		x, err := axisFromConfig(cfg, "top_surface", "x")
		if err != nil {
			return nil, nil, err
		}
		y, err := axisFromConfig(cfg, "top_surface", "y")
		if err != nil {
			return nil, nil, err
		}
		top = grid.NewSurface("top_surface", x, y, model)
	}

	if _, ok := cfg["topography_bathymetry"]; ok {
		x, err := axisFromConfig(cfg, "topography_bathymetry", "x")
		if err != nil {
			return nil, nil, err
		}
		y, err := axisFromConfig(cfg, "topography_bathymetry", "y")
		if err != nil {
			return nil, nil, err
		}
		topoBathy = grid.NewSurface("topography_bathymetry", x, y, model)
	}

	return top, topoBathy, nil
}

func blocksFromConfig(cfg config.Config, model *metadata.Model) ([]*grid.Block, error) {
	names, ok := cfg.Get("domain", "blocks")
	if !ok {
		return nil, nil
	}

	var blocks []*grid.Block
	for _, name := range strings.Split(names, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}

		section := cfg[name]
		if section == nil {
			return nil, fmt.Errorf("geomodelgrids-build: no [%s] section for block %q", name, name)
		}

		x, err := axisFromConfig(cfg, name, "x")
		if err != nil {
			return nil, err
		}
		y, err := axisFromConfig(cfg, name, "y")
		if err != nil {
			return nil, err
		}

		zTop, err := strconv.ParseFloat(section["z_top"], 64)
		if err != nil {
			return nil, fmt.Errorf("geomodelgrids-build: %s.z_top: %w", name, err)
		}
		zBot, err := strconv.ParseFloat(section["z_bot"], 64)
		if err != nil {
			return nil, fmt.Errorf("geomodelgrids-build: %s.z_bot: %w", name, err)
		}
		zRes, err := strconv.ParseFloat(section["z_resolution"], 64)
		if err != nil {
			return nil, fmt.Errorf("geomodelgrids-build: %s.z_resolution: %w", name, err)
		}

		zTopOffset := 0.0
		if v, ok := section["z_top_offset"]; ok {
			zTopOffset, err = strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, fmt.Errorf("geomodelgrids-build: %s.z_top_offset: %w", name, err)
			}
		}

		blk := grid.NewBlock(name, x, y, grid.ZAxis{ZTop: zTop, ZBot: zBot, Resolution: zRes}, zTopOffset, model)
		blocks = append(blocks, blk)
	}

	return blocks, nil
}

func dataSourceFromConfig(cfg config.Config) (datasource.DataSource, error) {
	kind := cfg.GetDefault("geomodelgrids", "data_source", "")
	switch kind {
	case "csv":
		filename, ok := cfg.Get("data_source", "filename")
		if !ok {
			return nil, errors.New("geomodelgrids-build: data_source.filename required for csv source")
		}
		return &datasource.CSVSource{Filename: filename}, nil
	case "external":
		cmdName, ok := cfg.Get("data_source", "command")
		if !ok {
			return nil, errors.New("geomodelgrids-build: data_source.command required for external source")
		}
		args := strings.Fields(cfg.GetDefault("data_source", "args", ""))
		columns := strings.Split(cfg.GetDefault("data_source", "columns", ""), ",")
		return &datasource.ExternalProgramSource{Command: cmdName, Args: args, Columns: columns}, nil
	case "":
		return nil, errors.New("geomodelgrids-build: geomodelgrids.data_source is required")
	default:
		return nil, fmt.Errorf("geomodelgrids-build: unknown data_source %q", kind)
	}
}
