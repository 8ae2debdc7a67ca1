package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"

	xdraw "golang.org/x/image/draw"
)

const (
	// MinScaleFactor and MaxScaleFactor bound the oversampling multiplier
	// applied to the layout dimensions at capture time.
	MinScaleFactor = 2
	MaxScaleFactor = 5
)

var (
	// ErrScaleFactor is returned when the oversampling factor is out of range.
	ErrScaleFactor = errors.New("scale factor must be between 2 and 5")

	// ErrEmptyPreview is returned when the preview has no layout area.
	ErrEmptyPreview = errors.New("preview has no layout area")
)

// Renderable is the contract between the form preview and surface capture.
// LayoutSize must be stable for a given record; RenderTo must draw the full
// preview into a raster of at least that size.
type Renderable interface {
	LayoutSize() (w, h int)
	RenderTo(dst draw.Image) error
}

// Capture renders the preview and returns a fresh surface whose pixel
// dimensions are the layout dimensions multiplied by scale. The preview is
// rendered once at layout size and then upscaled, not re-rendered at the
// target resolution: the preview face is a fixed-size bitmap font, so a
// larger render pass would produce the same glyph pixels. The surface is
// filled opaque white before drawing so transparent preview regions cannot
// come out black in the exported raster. The surface is never cached; every
// export captures the current state again.
func Capture(r Renderable, scale int) (*image.RGBA, error) {
	if scale < MinScaleFactor || scale > MaxScaleFactor {
		return nil, fmt.Errorf("%w: got %d", ErrScaleFactor, scale)
	}

	w, h := r.LayoutSize()
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrEmptyPreview, w, h)
	}

	base := image.NewRGBA(image.Rect(0, 0, w, h))
	fillWhite(base)
	if err := r.RenderTo(base); err != nil {
		return nil, fmt.Errorf("cannot render preview: %w", err)
	}

	surface := image.NewRGBA(image.Rect(0, 0, w*scale, h*scale))
	fillWhite(surface)
	xdraw.CatmullRom.Scale(surface, surface.Bounds(), base, base.Bounds(), xdraw.Over, nil)

	return surface, nil
}

func fillWhite(dst draw.Image) {
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
}
