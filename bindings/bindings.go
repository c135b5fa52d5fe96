// Package bindings exposes querydriver.Driver to foreign callers through a
// flat, C-callable API: opaque integer handles in place of Go pointers, and
// status/message retrieval through errstatus.Reporter instead of panics or
// Go error values crossing the boundary.
//
// This package uses cgo and has no build constraint; the rest of the module
// has no cgo dependency of its own.
package bindings

/*
#include <stddef.h>
*/
import "C"

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/geomodelgrids/geomodelgrids/coordsys"
	"github.com/geomodelgrids/geomodelgrids/errstatus"
	"github.com/geomodelgrids/geomodelgrids/querydriver"
)

type handle struct {
	driver   *querydriver.Driver
	reporter *errstatus.Reporter
}

var (
	handles   sync.Map // int64 -> *handle
	nextToken int64
)

func register(h *handle) int64 {
	token := atomic.AddInt64(&nextToken, 1)
	handles.Store(token, h)
	return token
}

func lookup(token C.longlong) *handle {
	v, ok := handles.Load(int64(token))
	if !ok {
		return nil
	}
	return v.(*handle)
}

func recoverToReporter(r *errstatus.Reporter) {
	if p := recover(); p != nil {
		if r != nil {
			r.SetStatus(errstatus.Error, "internal panic recovered at bindings boundary")
		}
	}
}

//export gmg_driver_create
func gmg_driver_create() C.longlong {
	h := &handle{reporter: errstatus.New()}
	return C.longlong(register(h))
}

//export gmg_driver_destroy
func gmg_driver_destroy(token C.longlong) {
	h := lookup(token)
	if h == nil {
		return
	}
	defer recoverToReporter(h.reporter)
	if h.driver != nil {
		h.driver.Finalize()
	}
	handles.Delete(int64(token))
}

//export gmg_driver_initialize
func gmg_driver_initialize(token C.longlong, uris **C.char, numURIs C.int, values **C.char, numValues C.int, sourceCRS *C.char, modelCRS *C.char, originX, originY, azimuth C.double) C.int {
	h := lookup(token)
	if h == nil {
		return -1
	}
	defer recoverToReporter(h.reporter)

	uriSlice := cStringArray(uris, int(numURIs))
	valueSlice := cStringArray(values, int(numValues))

	frame, err := coordsys.NewFrame(C.GoString(sourceCRS), C.GoString(modelCRS), float64(originX), float64(originY), float64(azimuth))
	if err != nil {
		h.reporter.SetError(err)
		return -1
	}

	driver, err := querydriver.Initialize(uriSlice, valueSlice, frame, h.reporter)
	if err != nil {
		h.reporter.SetError(err)
		return -1
	}

	h.driver = driver
	return 0
}

//export gmg_driver_finalize
func gmg_driver_finalize(token C.longlong) C.int {
	h := lookup(token)
	if h == nil || h.driver == nil {
		return -1
	}
	defer recoverToReporter(h.reporter)
	if err := h.driver.Finalize(); err != nil {
		h.reporter.SetError(err)
		return -1
	}
	return 0
}

//export gmg_driver_query
func gmg_driver_query(token C.longlong, xs, ys, zs *C.double, n C.int, out *C.float) C.int {
	h := lookup(token)
	if h == nil || h.driver == nil {
		return -1
	}
	defer recoverToReporter(h.reporter)

	points := cPointArray(xs, ys, zs, int(n))

	result, err := h.driver.Query(context.Background(), points)
	if err != nil {
		h.reporter.SetError(err)
		return -1
	}

	writeResultToBuffer(result, out, len(h.driver.Values))
	return 0
}

//export gmg_driver_get_error_status
func gmg_driver_get_error_status(token C.longlong) C.int {
	h := lookup(token)
	if h == nil {
		return C.int(errstatus.Error)
	}
	status, _ := h.reporter.Get()
	return C.int(status)
}

//export gmg_driver_get_error_message
func gmg_driver_get_error_message(token C.longlong) *C.char {
	h := lookup(token)
	if h == nil {
		return C.CString("unknown handle")
	}
	_, msg := h.reporter.Get()
	return C.CString(msg)
}
