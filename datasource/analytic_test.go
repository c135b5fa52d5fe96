package datasource

import (
	"context"
	"testing"

	"github.com/geomodelgrids/geomodelgrids/batch"
	"github.com/geomodelgrids/geomodelgrids/coordsys"
)

func TestAnalyticSourceTopSurface(t *testing.T) {
	src := &AnalyticSource{TopSurface: LinearFunction{A: 1, B: 2, D: 100}}
	if err := src.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	out, err := src.GetTopSurface([]coordsys.Point3{{X: 10, Y: 5}})
	if err != nil {
		t.Fatalf("GetTopSurface: %v", err)
	}
	want := float32(1*10 + 2*5 + 100)
	if out[0] != want {
		t.Errorf("got %v, want %v", out[0], want)
	}
}

func TestAnalyticSourceNoTopoBathy(t *testing.T) {
	src := &AnalyticSource{}
	out, err := src.GetTopographyBathymetry([]coordsys.Point3{{X: 1, Y: 1}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != nil {
		t.Errorf("expected nil for absent topo/bathy surface, got %v", out)
	}
}

func TestAnalyticSourceValues(t *testing.T) {
	src := &AnalyticSource{
		Values: map[string]LinearFunction{
			"Vp": {A: 0, B: 0, C: -1, D: 1000},
		},
	}
	out, err := src.GetValues(nil, batch.Window3D{}, []coordsys.Point3{{Z: -500}})
	if err != nil {
		t.Fatalf("GetValues: %v", err)
	}
	if out["Vp"][0] != 1500 {
		t.Errorf("got %v, want 1500", out["Vp"][0])
	}
}
