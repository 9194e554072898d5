package camera

import "testing"

func TestFrameCentersSubject(t *testing.T) {
	// Map 1000x1000, viewport 320x240, subject well inside.
	off := Frame(500, 500, 320, 240, 1000, 1000)
	if off.X != 500-160 {
		t.Errorf("Expected x offset 340, got %f", off.X)
	}
	if off.Y != 500-120 {
		t.Errorf("Expected y offset 380, got %f", off.Y)
	}
}

func TestFrameClampsToMapEdges(t *testing.T) {
	// Subject in the top-left corner.
	off := Frame(10, 10, 320, 240, 1000, 1000)
	if off.X != 0 || off.Y != 0 {
		t.Errorf("Expected clamp to origin, got (%f,%f)", off.X, off.Y)
	}

	// Subject in the bottom-right corner.
	off = Frame(995, 995, 320, 240, 1000, 1000)
	if off.X != 1000-320 {
		t.Errorf("Expected x clamp to %d, got %f", 1000-320, off.X)
	}
	if off.Y != 1000-240 {
		t.Errorf("Expected y clamp to %d, got %f", 1000-240, off.Y)
	}
}

func TestFrameCentersSmallMap(t *testing.T) {
	// Map narrower and shorter than the viewport: centered with equal
	// margins, regardless of where the subject stands.
	off := Frame(50, 50, 320, 240, 160, 120)
	if off.X != -80 {
		t.Errorf("Expected x offset -80, got %f", off.X)
	}
	if off.Y != -60 {
		t.Errorf("Expected y offset -60, got %f", off.Y)
	}

	other := Frame(10, 110, 320, 240, 160, 120)
	if other != off {
		t.Errorf("Expected small-map offset independent of subject, got %+v vs %+v", other, off)
	}
}

func TestFrameMixedAxes(t *testing.T) {
	// Narrow but tall map: x centered, y clamped/centered independently.
	off := Frame(50, 500, 320, 240, 160, 1000)
	if off.X != -80 {
		t.Errorf("Expected centered x, got %f", off.X)
	}
	if off.Y != 500-120 {
		t.Errorf("Expected y to follow subject, got %f", off.Y)
	}
}

func TestFrameOffsetsNeverExposeVoidOnLargeMaps(t *testing.T) {
	for _, vw := range []int{100, 320, 640} {
		for _, mw := range []int{640, 1000, 3000} {
			if mw < vw {
				continue
			}
			for _, sx := range []float64{-50, 0, 100, float64(mw) / 2, float64(mw), float64(mw) + 50} {
				off := Frame(sx, 0, vw, 1, mw, 1)
				if off.X < 0 {
					t.Errorf("viewport %d map %d subject %f: negative offset %f", vw, mw, sx, off.X)
				}
				if off.X > float64(mw-vw) {
					t.Errorf("viewport %d map %d subject %f: offset %f past map edge", vw, mw, sx, off.X)
				}
			}
		}
	}
}
