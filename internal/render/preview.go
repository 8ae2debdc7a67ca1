// Package render turns a report record into the raster surface the export
// engine paginates. The preview has a fixed layout width; its height grows
// with the content (parts lines, photos, remarks).
package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strings"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/fieldserve/servicereport/internal/dataurl"
	"github.com/fieldserve/servicereport/internal/report"
)

// PreviewWidth is the fixed layout width of the preview in pixels, matching
// an A4 page at 96 DPI.
const PreviewWidth = 794

const (
	marginX    = 48
	lineHeight = 16
	sectionGap = 14
	boxSize    = 11
	logoMaxW   = 180
	logoMaxH   = 64
	photoMaxW  = 330
	photoMaxH  = 240
	sigMaxW    = 220
	sigMaxH    = 80
)

// Preview renders a report record. It implements the Renderable contract
// consumed by Capture: LayoutSize and RenderTo agree because both run the
// same layout pass.
type Preview struct {
	rec *report.Report
}

// NewPreview creates a preview for the given record. The record is not
// copied; callers pass the store's cloned snapshot.
func NewPreview(rec *report.Report) *Preview {
	return &Preview{rec: rec}
}

// LayoutSize returns the preview's layout pixel dimensions.
func (p *Preview) LayoutSize() (int, int) {
	pen := &pen{}
	p.paint(pen)
	return PreviewWidth, pen.height()
}

// RenderTo draws the preview into dst, which must be at least LayoutSize
// pixels. The caller is responsible for the background fill.
func (p *Preview) RenderTo(dst draw.Image) error {
	pen := &pen{dst: dst}
	p.paint(pen)
	return pen.err
}

// pen is a cursor over the preview surface. With a nil dst it only measures;
// the drawing pass replays the identical operations.
type pen struct {
	dst draw.Image
	y   int
	err error
}

func (p *pen) height() int {
	return p.y + marginX
}

func (p *pen) advance(dy int) {
	p.y += dy
}

func (p *pen) text(x int, s string) {
	if p.dst != nil && s != "" {
		d := font.Drawer{
			Dst:  p.dst,
			Src:  image.Black,
			Face: basicfont.Face7x13,
			Dot:  fixed.P(x, p.y+basicfont.Face7x13.Ascent),
		}
		d.DrawString(s)
	}
	p.advance(lineHeight)
}

// label draws a "Name: value" line; empty values still occupy the line so
// the layout is stable while the form is being filled in.
func (p *pen) label(x int, name, value string) {
	p.text(x, name+": "+value)
}

// heading draws emphasized text by double-striking one pixel apart.
func (p *pen) heading(s string) {
	if p.dst != nil {
		for _, dx := range []int{0, 1} {
			d := font.Drawer{
				Dst:  p.dst,
				Src:  image.Black,
				Face: basicfont.Face7x13,
				Dot:  fixed.P(marginX+dx, p.y+basicfont.Face7x13.Ascent),
			}
			d.DrawString(s)
		}
	}
	p.advance(lineHeight + 4)
}

func (p *pen) hline() {
	if p.dst != nil {
		r := image.Rect(marginX, p.y, PreviewWidth-marginX, p.y+1)
		draw.Draw(p.dst, r, image.NewUniform(color.Gray{Y: 0x60}), image.Point{}, draw.Src)
	}
	p.advance(sectionGap)
}

func (p *pen) checkbox(x int, label string, checked bool) int {
	if p.dst != nil {
		box := image.Rect(x, p.y+2, x+boxSize, p.y+2+boxSize)
		outline(p.dst, box, color.Black)
		if checked {
			inner := box.Inset(3)
			draw.Draw(p.dst, inner, image.Black, image.Point{}, draw.Src)
		}
		d := font.Drawer{
			Dst:  p.dst,
			Src:  image.Black,
			Face: basicfont.Face7x13,
			Dot:  fixed.P(x+boxSize+6, p.y+basicfont.Face7x13.Ascent),
		}
		d.DrawString(label)
	}
	return x + boxSize + 6 + textWidth(label) + 18
}

// dataImage draws an embedded data URL image scaled to fit the given box
// and returns the drawn height. An undecodable image is replaced by an
// outlined placeholder of the full box size so pagination stays stable.
func (p *pen) dataImage(x int, url string, maxW, maxH int) {
	drawnH := maxH

	img, err := dataurl.DecodeImage(url)
	if err != nil {
		if p.dst != nil {
			box := image.Rect(x, p.y, x+maxW, p.y+maxH)
			outline(p.dst, box, color.Gray{Y: 0xa0})
		}
		if p.err == nil {
			p.err = fmt.Errorf("embedded image: %w", err)
		}
		p.advance(drawnH)
		return
	}

	b := img.Bounds()
	w, h := fitBox(b.Dx(), b.Dy(), maxW, maxH)
	drawnH = h
	if p.dst != nil && w > 0 && h > 0 {
		r := image.Rect(x, p.y, x+w, p.y+h)
		xdraw.ApproxBiLinear.Scale(p.dst, r, img, b, xdraw.Over, nil)
	}
	p.advance(drawnH)
}

// paint walks every section of the record once. The same walk serves both
// the measuring and the drawing pass.
func (p *Preview) paint(pen *pen) {
	r := p.rec
	pen.y = marginX

	if r.Logo != "" {
		pen.dataImage(marginX, r.Logo, logoMaxW, logoMaxH)
		pen.advance(8)
	}

	pen.heading("SERVICE REPORT " + r.Admin.ReportNumber)
	pen.hline()

	pen.label(marginX, "Date", r.Admin.ReportDate)
	pen.label(marginX, "Order no.", r.Admin.OrderNumber)
	pen.label(marginX, "Technician", r.Admin.Technician)
	pen.advance(sectionGap)

	pen.heading("Customer / System")
	pen.label(marginX, "Company", r.Customer.Company)
	pen.label(marginX, "Contact", r.Customer.ContactName)
	pen.label(marginX, "Address", r.Customer.Address)
	pen.label(marginX, "Phone", r.Customer.Phone)
	pen.label(marginX, "Email", r.Customer.Email)
	pen.label(marginX, "System", r.Customer.System)
	pen.label(marginX, "Serial no.", r.Customer.SerialNumber)
	pen.label(marginX, "Location", r.Customer.Location)
	pen.advance(sectionGap)

	pen.heading("Job type")
	x := marginX
	x = pen.checkbox(x, "Maintenance", r.JobTypes.Maintenance)
	x = pen.checkbox(x, "Repair", r.JobTypes.Repair)
	x = pen.checkbox(x, "Installation", r.JobTypes.Installation)
	_ = pen.checkbox(x, "Inspection", r.JobTypes.Inspection)
	pen.advance(lineHeight)
	x = marginX
	x = pen.checkbox(x, "Warranty", r.JobTypes.Warranty)
	_ = pen.checkbox(x, "Other", r.JobTypes.Other)
	pen.advance(lineHeight)
	if r.JobTypes.Other && r.JobTypes.OtherText != "" {
		pen.label(marginX, "Other", r.JobTypes.OtherText)
	}
	pen.advance(sectionGap)

	pen.heading("Service type")
	x = marginX
	x = pen.checkbox(x, "Regular", r.ServiceTypes.Regular)
	x = pen.checkbox(x, "Emergency", r.ServiceTypes.Emergency)
	x = pen.checkbox(x, "Weekend", r.ServiceTypes.Weekend)
	_ = pen.checkbox(x, "Follow-up required", r.ServiceTypes.FollowupRequired)
	pen.advance(lineHeight)
	pen.advance(sectionGap)

	pen.heading("Times")
	pen.label(marginX, "Arrival", r.Timing.Arrival)
	pen.label(marginX, "Departure", r.Timing.Departure)
	pen.label(marginX, "Work hours", trimFloat(r.Timing.WorkHours))
	pen.label(marginX, "Travel hours", trimFloat(r.Timing.TravelHours))
	pen.label(marginX, "Kilometers", trimFloat(r.Timing.Kilometers))
	pen.advance(sectionGap)

	if r.WorkPerformed != "" {
		pen.heading("Work performed")
		for _, line := range wrapText(r.WorkPerformed, PreviewWidth-2*marginX) {
			pen.text(marginX, line)
		}
		pen.advance(sectionGap)
	}

	if len(r.Parts) > 0 {
		pen.heading("Parts used")
		pen.text(marginX, fmt.Sprintf("%-8s %-16s %s", "Qty", "Article", "Description"))
		pen.hline()
		for _, part := range r.Parts {
			pen.text(marginX, fmt.Sprintf("%-8s %-16s %s",
				trimFloat(part.Quantity), part.ArticleNumber, part.Description))
		}
		pen.advance(sectionGap)
	}

	if r.Remarks != "" {
		pen.heading("Remarks")
		for _, line := range wrapText(r.Remarks, PreviewWidth-2*marginX) {
			pen.text(marginX, line)
		}
		pen.advance(sectionGap)
	}

	if len(r.Photos) > 0 {
		pen.heading("Photos")
		for _, photo := range r.Photos {
			pen.dataImage(marginX, photo.Image, photoMaxW, photoMaxH)
			if photo.Caption != "" {
				pen.text(marginX, photo.Caption)
			}
			pen.advance(sectionGap)
		}
	}

	pen.heading("Signatures")
	if r.Technician.Image != "" {
		pen.dataImage(marginX, r.Technician.Image, sigMaxW, sigMaxH)
	}
	pen.label(marginX, "Technician", r.Technician.Name)
	pen.advance(sectionGap)
	if r.CustomerSig.Image != "" {
		pen.dataImage(marginX, r.CustomerSig.Image, sigMaxW, sigMaxH)
	}
	pen.label(marginX, "Customer", r.CustomerSig.Name)
}

// outline draws a one pixel rectangle border.
func outline(dst draw.Image, r image.Rectangle, c color.Color) {
	u := image.NewUniform(c)
	draw.Draw(dst, image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+1), u, image.Point{}, draw.Src)
	draw.Draw(dst, image.Rect(r.Min.X, r.Max.Y-1, r.Max.X, r.Max.Y), u, image.Point{}, draw.Src)
	draw.Draw(dst, image.Rect(r.Min.X, r.Min.Y, r.Min.X+1, r.Max.Y), u, image.Point{}, draw.Src)
	draw.Draw(dst, image.Rect(r.Max.X-1, r.Min.Y, r.Max.X, r.Max.Y), u, image.Point{}, draw.Src)
}

// fitBox scales (w, h) to fit inside (maxW, maxH) preserving aspect ratio.
func fitBox(w, h, maxW, maxH int) (int, int) {
	if w <= 0 || h <= 0 {
		return 0, 0
	}
	fw, fh := float64(w), float64(h)
	scale := float64(maxW) / fw
	if s := float64(maxH) / fh; s < scale {
		scale = s
	}
	if scale > 1 {
		scale = 1
	}
	return int(fw * scale), int(fh * scale)
}

// textWidth measures a string in the preview face.
func textWidth(s string) int {
	return font.MeasureString(basicfont.Face7x13, s).Ceil()
}

// wrapText splits text into lines that fit the given pixel width, honoring
// explicit newlines.
func wrapText(text string, width int) []string {
	var lines []string
	for _, para := range strings.Split(text, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		cur := words[0]
		for _, w := range words[1:] {
			if textWidth(cur+" "+w) > width {
				lines = append(lines, cur)
				cur = w
				continue
			}
			cur += " " + w
		}
		lines = append(lines, cur)
	}
	return lines
}

func trimFloat(f float64) string {
	s := fmt.Sprintf("%.2f", f)
	s = strings.TrimRight(s, "0")
	return strings.TrimRight(s, ".")
}
