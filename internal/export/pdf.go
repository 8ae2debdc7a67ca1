package export

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"github.com/go-pdf/fpdf"
)

// AssembleDocument builds a multi-page PDF from the planned slices of the
// captured surface. Each slice becomes one page sized exactly to the slice's
// output dimensions; the raster keeps its capture resolution so the
// oversampling factor survives into the document. Any per-page encode or
// embed failure aborts the whole assembly; a document with missing pages is
// worse than no document.
func AssembleDocument(surface *image.RGBA, slices []Slice, title string) ([]byte, error) {
	if len(slices) == 0 {
		return nil, fmt.Errorf("%w: no pages to assemble", ErrEmptySurface)
	}

	doc := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: slices[0].OutWidth, Ht: slices[0].OutHeight},
	})
	doc.SetTitle(title, true)
	doc.SetCreator("servicereport", true)
	doc.SetMargins(0, 0, 0)
	doc.SetAutoPageBreak(false, 0)

	width := surface.Bounds().Dx()
	for i, s := range slices {
		sub, ok := surface.SubImage(image.Rect(0, s.Y, width, s.Y+s.Height)).(*image.RGBA)
		if !ok {
			return nil, fmt.Errorf("page %d: cannot slice surface", i+1)
		}

		var buf bytes.Buffer
		if err := png.Encode(&buf, sub); err != nil {
			return nil, fmt.Errorf("page %d: cannot encode slice: %w", i+1, err)
		}

		doc.AddPageFormat("P", fpdf.SizeType{Wd: s.OutWidth, Ht: s.OutHeight})

		opts := fpdf.ImageOptions{ImageType: "PNG"}
		name := fmt.Sprintf("page-%d", i+1)
		doc.RegisterImageOptionsReader(name, opts, &buf)
		doc.ImageOptions(name, 0, 0, s.OutWidth, s.OutHeight, false, opts, 0, "")

		if err := doc.Error(); err != nil {
			return nil, fmt.Errorf("page %d: cannot embed slice: %w", i+1, err)
		}
	}

	var out bytes.Buffer
	if err := doc.Output(&out); err != nil {
		return nil, fmt.Errorf("cannot finalize document: %w", err)
	}
	return out.Bytes(), nil
}
