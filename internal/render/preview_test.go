package render

import (
	"image"
	"strings"
	"testing"

	"github.com/fieldserve/servicereport/internal/dataurl"
	"github.com/fieldserve/servicereport/internal/report"
)

func sampleRecord(t *testing.T) *report.Report {
	t.Helper()

	logo, err := dataurl.EncodeImage(image.NewRGBA(image.Rect(0, 0, 60, 20)))
	if err != nil {
		t.Fatalf("encode logo: %v", err)
	}
	photo, err := dataurl.EncodeImage(image.NewRGBA(image.Rect(0, 0, 320, 240)))
	if err != nil {
		t.Fatalf("encode photo: %v", err)
	}

	r := report.DefaultReport()
	r.Admin = report.Admin{ReportNumber: "SR-2024-017", ReportDate: "2024-06-12", Technician: "M. Weber"}
	r.Customer = report.Customer{Company: "Acme Pumps", System: "PX-300"}
	r.JobTypes = report.JobTypes{Repair: true}
	r.WorkPerformed = "Replaced main seal and flushed the circuit."
	r.Logo = logo
	r.Parts = []report.Part{{Quantity: 1, ArticleNumber: "A-113", Description: "Seal kit"}}
	r.Photos = []report.Photo{{ID: "p1", Image: photo, Caption: "before"}}
	return r
}

func TestPreviewLayoutWidthIsFixed(t *testing.T) {
	w, _ := NewPreview(report.DefaultReport()).LayoutSize()
	if w != PreviewWidth {
		t.Errorf("Expected layout width %d, got %d", PreviewWidth, w)
	}

	w, _ = NewPreview(sampleRecord(t)).LayoutSize()
	if w != PreviewWidth {
		t.Errorf("Expected layout width %d for populated record, got %d", PreviewWidth, w)
	}
}

func TestPreviewHeightGrowsWithContent(t *testing.T) {
	_, empty := NewPreview(report.DefaultReport()).LayoutSize()
	if empty <= 0 {
		t.Fatalf("Expected positive height for empty record, got %d", empty)
	}

	_, populated := NewPreview(sampleRecord(t)).LayoutSize()
	if populated <= empty {
		t.Errorf("Expected populated record to be taller: empty=%d populated=%d", empty, populated)
	}

	long := sampleRecord(t)
	long.Remarks = strings.Repeat("The replacement part should be checked again in four weeks. ", 40)
	_, withRemarks := NewPreview(long).LayoutSize()
	if withRemarks <= populated {
		t.Errorf("Expected remarks to add height: %d vs %d", withRemarks, populated)
	}
}

func TestPreviewRenderMatchesMeasuredSize(t *testing.T) {
	p := NewPreview(sampleRecord(t))
	w, h := p.LayoutSize()

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	if err := p.RenderTo(dst); err != nil {
		t.Fatalf("RenderTo returned error: %v", err)
	}

	// Measuring again after rendering must give identical dimensions.
	w2, h2 := p.LayoutSize()
	if w != w2 || h != h2 {
		t.Errorf("Layout size changed after render: %dx%d vs %dx%d", w, h, w2, h2)
	}
}

func TestPreviewRendersSomething(t *testing.T) {
	p := NewPreview(sampleRecord(t))
	w, h := p.LayoutSize()

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	if err := p.RenderTo(dst); err != nil {
		t.Fatalf("RenderTo returned error: %v", err)
	}

	// At least one pixel must be non-zero: the heading text alone
	// guarantees ink on the surface.
	ink := false
	for i := 3; i < len(dst.Pix); i += 4 {
		if dst.Pix[i] != 0 {
			ink = true
			break
		}
	}
	if !ink {
		t.Error("Expected rendered preview to contain ink")
	}
}

func TestPreviewReportsBadEmbeddedImage(t *testing.T) {
	r := report.DefaultReport()
	r.Logo = "data:image/png;base64,bm90IGFuIGltYWdl"

	p := NewPreview(r)
	w, h := p.LayoutSize()
	dst := image.NewRGBA(image.Rect(0, 0, w, h))

	// The bad logo is replaced by a placeholder and reported; the layout
	// height stays stable either way.
	if err := p.RenderTo(dst); err == nil {
		t.Error("Expected error for undecodable embedded image")
	}
}

func TestWrapText(t *testing.T) {
	lines := wrapText("one two three four five six seven eight nine ten", 100)
	if len(lines) < 2 {
		t.Errorf("Expected text to wrap into multiple lines, got %d", len(lines))
	}
	for _, line := range lines {
		if textWidth(line) > 100 {
			t.Errorf("Line %q exceeds wrap width", line)
		}
	}

	lines = wrapText("first\nsecond", 1000)
	if len(lines) != 2 {
		t.Errorf("Expected explicit newline to split lines, got %v", lines)
	}
}

func TestFitBox(t *testing.T) {
	tests := []struct {
		name             string
		w, h, maxW, maxH int
		wantW, wantH     int
	}{
		{"fits untouched", 50, 40, 100, 100, 50, 40},
		{"width bound", 200, 100, 100, 100, 100, 50},
		{"height bound", 100, 200, 100, 100, 50, 100},
		{"degenerate", 0, 10, 100, 100, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := fitBox(tt.w, tt.h, tt.maxW, tt.maxH)
			if w != tt.wantW || h != tt.wantH {
				t.Errorf("Expected %dx%d, got %dx%d", tt.wantW, tt.wantH, w, h)
			}
		})
	}
}
