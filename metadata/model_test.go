package metadata

import (
	"testing"

	"github.com/geomodelgrids/geomodelgrids/internal/config"
)

func validConfig() config.Config {
	return config.Config{
		"geomodelgrids": {
			"title":       "Test Model",
			"id":          "test",
			"data_values": "Vp, Vs, density",
			"data_units":  "m/s, m/s, kg/m**3",
		},
		"coordsys": {
			"crs":       "EPSG:4326",
			"origin_x":  "0.0",
			"origin_y":  "0.0",
			"y_azimuth": "0.0",
		},
		"domain": {
			"dim_x": "10000.0",
			"dim_y": "10000.0",
			"dim_z": "5000.0",
		},
	}
}

func TestNewModelValid(t *testing.T) {
	m, err := NewModel(validConfig())
	if err != nil {
		t.Fatalf("NewModel: %v", err)
	}
	if len(m.DataValues) != 3 {
		t.Errorf("expected 3 data values, got %d", len(m.DataValues))
	}
	if m.DimX != 10000.0 {
		t.Errorf("expected dim_x 10000, got %v", m.DimX)
	}
}

func TestNewModelMismatchedDataValuesUnits(t *testing.T) {
	cfg := validConfig()
	cfg["geomodelgrids"]["data_units"] = "m/s, m/s"

	if _, err := NewModel(cfg); err == nil {
		t.Error("expected error for mismatched data_values/data_units")
	}
}

func TestNewModelBadDimension(t *testing.T) {
	cfg := validConfig()
	cfg["domain"]["dim_z"] = "-1.0"

	if _, err := NewModel(cfg); err == nil {
		t.Error("expected error for non-positive dimension")
	}
}

func TestNewModelBadAzimuth(t *testing.T) {
	cfg := validConfig()
	cfg["coordsys"]["y_azimuth"] = "400"

	if _, err := NewModel(cfg); err == nil {
		t.Error("expected error for out-of-range azimuth")
	}
}
