package datasource

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/geomodelgrids/geomodelgrids/batch"
	"github.com/geomodelgrids/geomodelgrids/coordsys"
)

func TestCSVSourceLookup(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "values.csv")
	contents := "x,y,z,Vp,Vs\n0,0,0,1500,800\n100,100,-50,1600,850\n"
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	src := &CSVSource{Filename: path}
	if err := src.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	values, err := src.GetValues(nil, batch.Window3D{}, []coordsys.Point3{{X: 100, Y: 100, Z: -50}})
	if err != nil {
		t.Fatalf("GetValues: %v", err)
	}
	if values["Vp"][0] != 1600 {
		t.Errorf("got Vp=%v, want 1600", values["Vp"][0])
	}
	if values["Vs"][0] != 850 {
		t.Errorf("got Vs=%v, want 850", values["Vs"][0])
	}
}

func TestCSVSourceMissingColumns(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.csv")
	if err := os.WriteFile(path, []byte("a,b\n1,2\n"), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	src := &CSVSource{Filename: path}
	if err := src.Initialize(context.Background()); err == nil {
		t.Error("expected error for missing x/y/z columns")
	}
}
