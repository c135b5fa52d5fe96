package bindings

/*
#include <stddef.h>
*/
import "C"

import (
	"unsafe"

	"github.com/geomodelgrids/geomodelgrids/coordsys"
	"github.com/geomodelgrids/geomodelgrids/query"
)

// cStringArray converts a C array of n char* into a Go string slice.
func cStringArray(arr **C.char, n int) []string {
	if arr == nil || n == 0 {
		return nil
	}
	ptrs := unsafe.Slice(arr, n)
	out := make([]string, n)
	for i, p := range ptrs {
		out[i] = C.GoString(p)
	}
	return out
}

// cPointArray converts three parallel C double arrays into physical-space
// points. All three must have at least n elements.
func cPointArray(xs, ys, zs *C.double, n int) []coordsys.Point3 {
	if n == 0 {
		return nil
	}
	xSlice := unsafe.Slice(xs, n)
	ySlice := unsafe.Slice(ys, n)
	zSlice := unsafe.Slice(zs, n)

	out := make([]coordsys.Point3, n)
	for i := range out {
		out[i] = coordsys.Point3{X: float64(xSlice[i]), Y: float64(ySlice[i]), Z: float64(zSlice[i])}
	}
	return out
}

// writeResultToBuffer flattens result.Values row-major into out, which the
// caller must have sized to len(result.Values)*numValues floats. Points
// that could not be resolved are written as query.NODATA.
func writeResultToBuffer(result query.Result, out *C.float, numValues int) {
	if out == nil || numValues == 0 {
		return
	}
	buf := unsafe.Slice(out, len(result.Values)*numValues)
	for i, row := range result.Values {
		for j := 0; j < numValues; j++ {
			var v float32 = query.NODATA
			if j < len(row) {
				v = row[j]
			}
			buf[i*numValues+j] = C.float(v)
		}
	}
}
