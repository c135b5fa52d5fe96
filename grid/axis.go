package grid

import "sort"

// Axis describes discretization along one horizontal axis of a surface or
// block: either a uniform resolution or an explicit list of coordinates.
type Axis struct {
	Resolution  float64   // 0 if Coordinates is set
	Coordinates []float64 // nil if Resolution is set
}

// UniformAxis builds a regularly-spaced axis.
func UniformAxis(resolution float64) Axis {
	return Axis{Resolution: resolution}
}

// VariableAxis builds an axis from explicit, increasing coordinates.
func VariableAxis(coords []float64) Axis {
	return Axis{Coordinates: coords}
}

// IsVariable reports whether the axis uses explicit coordinates rather
// than a uniform resolution.
func (a Axis) IsVariable() bool {
	return len(a.Coordinates) > 0
}

// NumPoints returns the number of grid points spanning a dimension of the
// given length, matching the original "1 + int(dim/resolution)" sizing
// rule for uniform axes.
func (a Axis) NumPoints(dim float64) int {
	if a.IsVariable() {
		return len(a.Coordinates)
	}
	return 1 + int(dim/a.Resolution)
}

// Coordinate returns the local-frame coordinate of grid index i.
func (a Axis) Coordinate(i int) float64 {
	if a.IsVariable() {
		return a.Coordinates[i]
	}
	return float64(i) * a.Resolution
}

// Locate finds the grid cell containing x for interpolation: the index of
// the point at or below x, and the fractional distance to the next point
// (0 at the lower point, 1 at the next one).
func (a Axis) Locate(x float64) (lower int, frac float64) {
	if a.IsVariable() {
		n := len(a.Coordinates)
		i := sort.SearchFloat64s(a.Coordinates, x)
		if i >= n {
			return n - 1, 0
		}
		if a.Coordinates[i] == x || i == 0 {
			if i == n-1 {
				return i, 0
			}
			if a.Coordinates[i] == x {
				return i, 0
			}
		}
		lower = i - 1
		if lower < 0 {
			lower = 0
		}
		span := a.Coordinates[lower+1] - a.Coordinates[lower]
		if span == 0 {
			return lower, 0
		}
		return lower, (x - a.Coordinates[lower]) / span
	}

	idx := x / a.Resolution
	lower = int(idx)
	return lower, idx - float64(lower)
}
