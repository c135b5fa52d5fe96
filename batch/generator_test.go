package batch

import "testing"

func TestGenerator2DSingleBatch(t *testing.T) {
	windows := Windows2D(10, 10, 0)
	if len(windows) != 1 {
		t.Fatalf("expected a single window, got %d", len(windows))
	}
	w := windows[0]
	if w.XRange != (Range{0, 10}) || w.YRange != (Range{0, 10}) {
		t.Errorf("unexpected window: %+v", w)
	}
}

func TestGenerator2DMultipleBatches(t *testing.T) {
	windows := Windows2D(10, 10, 25)
	if len(windows) == 0 {
		t.Fatal("expected at least one window")
	}

	var covered [10][10]bool
	for _, w := range windows {
		n := (w.XRange.End - w.XRange.Start) * (w.YRange.End - w.YRange.Start)
		if n > 25 {
			t.Errorf("window %+v exceeds max values: %d", w, n)
		}
		for x := w.XRange.Start; x < w.XRange.End; x++ {
			for y := w.YRange.Start; y < w.YRange.End; y++ {
				covered[x][y] = true
			}
		}
	}

	for x := 0; x < 10; x++ {
		for y := 0; y < 10; y++ {
			if !covered[x][y] {
				t.Errorf("point (%d,%d) never covered by any batch", x, y)
			}
		}
	}
}

func TestGenerator3DCoversDomain(t *testing.T) {
	windows := Windows3D(6, 5, 4, 20)
	var covered [6][5][4]bool
	for _, w := range windows {
		for x := w.XRange.Start; x < w.XRange.End; x++ {
			for y := w.YRange.Start; y < w.YRange.End; y++ {
				for z := w.ZRange.Start; z < w.ZRange.End; z++ {
					covered[x][y][z] = true
				}
			}
		}
	}
	for x := 0; x < 6; x++ {
		for y := 0; y < 5; y++ {
			for z := 0; z < 4; z++ {
				if !covered[x][y][z] {
					t.Errorf("point (%d,%d,%d) never covered", x, y, z)
				}
			}
		}
	}
}

func TestGenerator2DExhausted(t *testing.T) {
	g := NewGenerator2D(2, 2, 2)
	count := 0
	for {
		_, ok := g.Next()
		if !ok {
			break
		}
		count++
		if count > 100 {
			t.Fatal("generator did not terminate")
		}
	}
	if count == 0 {
		t.Error("expected at least one batch")
	}
}
