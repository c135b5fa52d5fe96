// Package batch breaks large point domains into bounded-size windows so
// that point generation and data-source queries can run without holding an
// entire model dimension in memory at once.
package batch

import "math"

// Range is an inclusive-exclusive [Start, End) index range along one axis.
type Range struct {
	Start, End int
}

// Window2D is one batch of a 2-D domain.
type Window2D struct {
	XRange, YRange Range
}

// Window3D is one batch of a 3-D domain.
type Window3D struct {
	XRange, YRange, ZRange Range
}

// Generator2D iterates the batches of a 2-D domain, sized so that no batch
// exceeds maxValues points. A maxValues of 0 disables batching (one window
// covering the whole domain).
type Generator2D struct {
	numX, numY       int
	bnumX, bnumY     int
	nbatchX, nbatchY int
	ix, iy           int
	done             bool
}

// NewGenerator2D constructs a batch generator for a numX by numY domain.
func NewGenerator2D(numX, numY, maxValues int) *Generator2D {
	g := &Generator2D{numX: numX, numY: numY}

	if maxValues <= 0 || numX*numY <= maxValues {
		g.bnumX, g.bnumY = numX, numY
	} else {
		numXY := int(math.Floor(math.Sqrt(float64(maxValues))))
		switch {
		case numX > numXY && numY > numXY:
			g.bnumX, g.bnumY = numXY, numXY
		case numX <= numXY:
			g.bnumX = numX
			g.bnumY = maxValues / numX
		case numY <= numXY:
			g.bnumY = numY
			g.bnumX = maxValues / numY
		}
	}

	g.nbatchX = ceilDiv(numX, g.bnumX)
	g.nbatchY = ceilDiv(numY, g.bnumY)

	return g
}

// Next returns the next window, or ok=false once the domain is exhausted.
func (g *Generator2D) Next() (Window2D, bool) {
	if g.done || g.ix >= g.nbatchX {
		g.done = true
		return Window2D{}, false
	}

	xStart := g.ix * g.bnumX
	yStart := g.iy * g.bnumY

	w := Window2D{
		XRange: Range{xStart, min(xStart+g.bnumX, g.numX)},
		YRange: Range{yStart, min(yStart+g.bnumY, g.numY)},
	}

	g.iy++
	if g.iy >= g.nbatchY {
		g.iy = 0
		g.ix++
	}

	return w, true
}

// Windows2D drains a Generator2D into a slice, for callers that prefer a
// range loop over manual iteration.
func Windows2D(numX, numY, maxValues int) []Window2D {
	g := NewGenerator2D(numX, numY, maxValues)
	var out []Window2D
	for {
		w, ok := g.Next()
		if !ok {
			return out
		}
		out = append(out, w)
	}
}

// Generator3D iterates the batches of a 3-D domain.
type Generator3D struct {
	numX, numY, numZ          int
	bnumX, bnumY, bnumZ       int
	nbatchX, nbatchY, nbatchZ int
	ix, iy, iz                int
	done                      bool
}

// NewGenerator3D constructs a batch generator for a numX by numY by numZ
// domain, following the same reduction order as the 2-D case: the smallest
// axis relative to the cube-root batch size is held whole and the remaining
// two axes are re-split as a 2-D problem.
func NewGenerator3D(numX, numY, numZ, maxValues int) *Generator3D {
	g := &Generator3D{numX: numX, numY: numY, numZ: numZ}

	if maxValues <= 0 || numX*numY*numZ <= maxValues {
		g.bnumX, g.bnumY, g.bnumZ = numX, numY, numZ
	} else {
		numXYZ := int(math.Floor(math.Cbrt(float64(maxValues))))
		switch {
		case numX > numXYZ && numY > numXYZ && numZ > numXYZ:
			g.bnumX, g.bnumY, g.bnumZ = numXYZ, numXYZ, numXYZ
		case numZ <= numXYZ:
			g.bnumZ = numZ
			numXY := int(math.Floor(math.Sqrt(float64(maxValues / numZ))))
			switch {
			case numX > numXY && numY > numXY:
				g.bnumX, g.bnumY = numXY, numXY
			case numX <= numXY:
				g.bnumX = numX
				g.bnumY = maxValues / (numX * numZ)
			default:
				g.bnumY = numY
				g.bnumX = maxValues / (numY * numZ)
			}
		case numX <= numXYZ:
			g.bnumX = numX
			numYZ := int(math.Floor(math.Sqrt(float64(maxValues / numX))))
			if numY > numYZ && numZ > numYZ {
				g.bnumY, g.bnumZ = numYZ, numYZ
			} else {
				g.bnumY = numY
				g.bnumZ = maxValues / (numX * numY)
			}
		default:
			g.bnumY = numY
			numXZ := int(math.Floor(math.Sqrt(float64(maxValues / numY))))
			g.bnumX, g.bnumZ = numXZ, numXZ
		}
	}

	g.nbatchX = ceilDiv(numX, g.bnumX)
	g.nbatchY = ceilDiv(numY, g.bnumY)
	g.nbatchZ = ceilDiv(numZ, g.bnumZ)

	return g
}

// Next returns the next window, or ok=false once the domain is exhausted.
// Z varies fastest, then Y, then X, matching the point-generation order
// used by Surface and Block.
func (g *Generator3D) Next() (Window3D, bool) {
	if g.done || g.ix >= g.nbatchX {
		g.done = true
		return Window3D{}, false
	}

	xStart := g.ix * g.bnumX
	yStart := g.iy * g.bnumY
	zStart := g.iz * g.bnumZ

	w := Window3D{
		XRange: Range{xStart, min(xStart+g.bnumX, g.numX)},
		YRange: Range{yStart, min(yStart+g.bnumY, g.numY)},
		ZRange: Range{zStart, min(zStart+g.bnumZ, g.numZ)},
	}

	g.iz++
	if g.iz >= g.nbatchZ {
		g.iz = 0
		g.iy++
	}
	if g.iy >= g.nbatchY {
		g.iz = 0
		g.iy = 0
		g.ix++
	}

	return w, true
}

// Windows3D drains a Generator3D into a slice.
func Windows3D(numX, numY, numZ, maxValues int) []Window3D {
	g := NewGenerator3D(numX, numY, numZ, maxValues)
	var out []Window3D
	for {
		w, ok := g.Next()
		if !ok {
			return out
		}
		out = append(out, w)
	}
}

func ceilDiv(num, denom int) int {
	return int(math.Ceil(float64(num) / float64(denom)))
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
