// Package metadata describes a GeoModelGrids model's descriptive,
// coordinate, and dimensional metadata.
package metadata

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/geomodelgrids/geomodelgrids/internal/config"
	"github.com/geomodelgrids/geomodelgrids/units"
)

var (
	ErrDataValuesUnitsMismatch = errors.New("metadata: data_values and data_units lengths differ")
	ErrBadDimension            = errors.New("metadata: model dimension must be positive")
	ErrBadAzimuth              = errors.New("metadata: azimuth must be in [0, 360)")
)

// Model holds the descriptive, coordinate, and dimensional metadata of a
// GeoModelGrids model, matching the fields the original build tool's
// ModelMetadata dataclass carries.
type Model struct {
	Title           string
	ID              string
	Description     string
	Keywords        []string
	History         string
	Comment         string
	Version         string
	CreatorName     string
	CreatorInstitution string
	CreatorEmail    string
	Acknowledgement string
	Authors         []string
	References      []string
	RepositoryName  string
	RepositoryURL   string
	DOI             string
	License         string

	DataValues []string
	DataUnits  []string
	DataLayout string

	CRS        string
	OriginX    float64
	OriginY    float64
	YAzimuth   float64

	DimX, DimY, DimZ float64

	Auxiliary json.RawMessage
}

// NewModel builds and validates a Model from a flat config section named
// "geomodelgrids" plus coordinate fields under "coordsys" and dimensions
// under "domain", matching the section layout of the build config file
// format.
func NewModel(cfg config.Config) (*Model, error) {
	m := &Model{
		Title:              cfg.GetDefault("geomodelgrids", "title", ""),
		ID:                 cfg.GetDefault("geomodelgrids", "id", ""),
		Description:        cfg.GetDefault("geomodelgrids", "description", ""),
		History:            cfg.GetDefault("geomodelgrids", "history", ""),
		Comment:            cfg.GetDefault("geomodelgrids", "comment", ""),
		Version:            cfg.GetDefault("geomodelgrids", "version", ""),
		CreatorName:        cfg.GetDefault("geomodelgrids", "creator_name", ""),
		CreatorInstitution: cfg.GetDefault("geomodelgrids", "creator_institution", ""),
		CreatorEmail:       cfg.GetDefault("geomodelgrids", "creator_email", ""),
		Acknowledgement:    cfg.GetDefault("geomodelgrids", "acknowledgement", ""),
		RepositoryName:     cfg.GetDefault("geomodelgrids", "repository_name", ""),
		RepositoryURL:      cfg.GetDefault("geomodelgrids", "repository_url", ""),
		DOI:                cfg.GetDefault("geomodelgrids", "doi", ""),
		License:            cfg.GetDefault("geomodelgrids", "license", ""),
		DataLayout:         cfg.GetDefault("geomodelgrids", "data_layout", "vertex"),
		CRS:                cfg.GetDefault("coordsys", "crs", ""),
	}

	m.Keywords = units.StringToList(cfg.GetDefault("geomodelgrids", "keywords", ""), ",")
	m.Authors = units.StringToList(cfg.GetDefault("geomodelgrids", "authors", ""), "|")
	m.References = units.StringToList(cfg.GetDefault("geomodelgrids", "references", ""), "|")
	m.DataValues = units.StringToList(cfg.GetDefault("geomodelgrids", "data_values", ""), ",")
	m.DataUnits = units.StringToList(cfg.GetDefault("geomodelgrids", "data_units", ""), ",")

	if aux, ok := cfg.Get("geomodelgrids", "auxiliary"); ok && aux != "" {
		m.Auxiliary = json.RawMessage(aux)
	}

	var err error
	m.OriginX, err = parseFloat(cfg, "coordsys", "origin_x")
	if err != nil {
		return nil, err
	}
	m.OriginY, err = parseFloat(cfg, "coordsys", "origin_y")
	if err != nil {
		return nil, err
	}
	m.YAzimuth, err = parseFloat(cfg, "coordsys", "y_azimuth")
	if err != nil {
		return nil, err
	}

	m.DimX, err = parseFloat(cfg, "domain", "dim_x")
	if err != nil {
		return nil, err
	}
	m.DimY, err = parseFloat(cfg, "domain", "dim_y")
	if err != nil {
		return nil, err
	}
	m.DimZ, err = parseFloat(cfg, "domain", "dim_z")
	if err != nil {
		return nil, err
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}

	return m, nil
}

// Validate checks the invariants of a Model's metadata.
func (m *Model) Validate() error {
	if len(m.DataValues) != len(m.DataUnits) {
		return errors.Join(ErrDataValuesUnitsMismatch,
			fmt.Errorf("data_values has %d entries, data_units has %d", len(m.DataValues), len(m.DataUnits)))
	}
	if m.DimX <= 0 || m.DimY <= 0 || m.DimZ <= 0 {
		return ErrBadDimension
	}
	if m.YAzimuth < 0 || m.YAzimuth >= 360 {
		return ErrBadAzimuth
	}
	return nil
}

func parseFloat(cfg config.Config, section, key string) (float64, error) {
	v, ok := cfg.Get(section, key)
	if !ok {
		return 0, fmt.Errorf("metadata: missing required %s.%s", section, key)
	}
	var f float64
	if _, err := fmt.Sscanf(v, "%g", &f); err != nil {
		return 0, fmt.Errorf("metadata: %s.%s is not a number: %w", section, key, err)
	}
	return f, nil
}
