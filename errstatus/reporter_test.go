package errstatus

import (
	"errors"
	"testing"
)

func TestReporterDefaultsToOK(t *testing.T) {
	r := New()
	status, msg := r.Get()
	if status != OK {
		t.Errorf("expected OK, got %v", status)
	}
	if msg != "" {
		t.Errorf("expected empty message, got %q", msg)
	}
}

func TestReporterSetError(t *testing.T) {
	r := New()
	r.SetError(errors.New("boom"))
	status, msg := r.Get()
	if status != Error {
		t.Errorf("expected Error, got %v", status)
	}
	if msg != "boom" {
		t.Errorf("expected %q, got %q", "boom", msg)
	}
}

func TestReporterSetErrorNilIsNoop(t *testing.T) {
	r := New()
	r.SetStatus(Warning, "prior")
	r.SetError(nil)
	status, msg := r.Get()
	if status != Warning || msg != "prior" {
		t.Errorf("expected unchanged Warning/prior, got %v/%q", status, msg)
	}
}

func TestReporterReset(t *testing.T) {
	r := New()
	r.SetStatus(Error, "bad")
	r.Reset()
	status, msg := r.Get()
	if status != OK || msg != "" {
		t.Errorf("expected reset to OK/empty, got %v/%q", status, msg)
	}
}
