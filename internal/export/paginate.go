package export

import (
	"errors"
	"fmt"
	"math"
)

// Standard page geometries in PDF points (1 pt = 1/72 inch).
const (
	A4WidthPt      = 595.28
	A4HeightPt     = 841.89
	LetterWidthPt  = 612.0
	LetterHeightPt = 792.0
)

var (
	// ErrEmptySurface is returned when the captured surface has no pixels.
	ErrEmptySurface = errors.New("render surface is empty")

	// ErrPageGeometry is returned for non-positive page dimensions.
	ErrPageGeometry = errors.New("page geometry must be positive")
)

// PageGeometry is the target output page size in points.
type PageGeometry struct {
	Width  float64
	Height float64
}

// A4 returns the default portrait A4 page geometry.
func A4() PageGeometry {
	return PageGeometry{Width: A4WidthPt, Height: A4HeightPt}
}

// Letter returns the US Letter page geometry.
func Letter() PageGeometry {
	return PageGeometry{Width: LetterWidthPt, Height: LetterHeightPt}
}

// Slice describes one horizontal band of the source raster that maps to
// exactly one output page. Y and Height are in source pixels; OutWidth and
// OutHeight are the placed page dimensions in points.
type Slice struct {
	Y         int
	Height    int
	OutWidth  float64
	OutHeight float64
}

// PlanSlices splits a source raster of w x h pixels into page slices for the
// given page geometry. The output page width always equals geom.Width; the
// source is scaled uniformly, so every page except possibly the last has
// height geom.Height. The slice rectangles cover [0,h) with no gap and no
// overlap.
func PlanSlices(w, h int, geom PageGeometry) ([]Slice, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrEmptySurface, w, h)
	}
	if geom.Width <= 0 || geom.Height <= 0 {
		return nil, fmt.Errorf("%w: %.2fx%.2f", ErrPageGeometry, geom.Width, geom.Height)
	}

	ratio := geom.Width / float64(w)
	fullHeight := float64(h) * ratio

	// Fast path: the whole surface fits on a single page.
	if fullHeight <= geom.Height {
		return []Slice{{
			Y:         0,
			Height:    h,
			OutWidth:  geom.Width,
			OutHeight: fullHeight,
		}}, nil
	}

	// Number of source rows that map to exactly one page height. Floor keeps
	// the slice grid on whole pixels; the clamp guarantees progress even for
	// degenerate geometries where a page holds less than one source row.
	sliceSrc := int(math.Floor(geom.Height / ratio))
	if sliceSrc < 1 {
		sliceSrc = 1
	}

	slices := make([]Slice, 0, (h+sliceSrc-1)/sliceSrc)
	for y := 0; y < h; y += sliceSrc {
		remaining := h - y
		sh := sliceSrc
		if remaining < sh {
			sh = remaining
		}
		slices = append(slices, Slice{
			Y:         y,
			Height:    sh,
			OutWidth:  geom.Width,
			OutHeight: float64(sh) * ratio,
		})
	}

	return slices, nil
}
