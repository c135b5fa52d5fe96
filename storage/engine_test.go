package storage

import (
	"testing"

	"github.com/geomodelgrids/geomodelgrids/metadata"
)

func TestValidateDuplicateBlocks(t *testing.T) {
	e := &Engine{}
	m := &metadata.Model{DataValues: []string{"Vp"}}

	if err := e.Validate(m, []string{"shallow", "deep", "shallow"}); err == nil {
		t.Error("expected error for duplicate block names")
	}
}

func TestValidateNoDataValues(t *testing.T) {
	e := &Engine{}
	m := &metadata.Model{}

	if err := e.Validate(m, []string{"shallow"}); err == nil {
		t.Error("expected error for model with no data values")
	}
}

func TestValidateOK(t *testing.T) {
	e := &Engine{}
	m := &metadata.Model{DataValues: []string{"Vp", "Vs"}}

	if err := e.Validate(m, []string{"shallow", "deep"}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
