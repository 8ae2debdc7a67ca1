// Package export implements the pagination and document delivery engine: it
// captures the live preview as an oversampled raster, splits it into
// page-sized slices and assembles the slices into a multi-page PDF named
// after the document identifier.
package export

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fieldserve/servicereport/internal/render"
)

// ErrExportInFlight is returned when an export is requested while another
// one is still running. Two concurrent exports would both read the live
// preview and could observe inconsistent mid-edit state.
var ErrExportInFlight = errors.New("an export is already in flight")

// Exporter runs PDF exports against a configured output directory. At most
// one export runs at a time.
type Exporter struct {
	mu     sync.Mutex
	outDir string
	scale  int
	geom   PageGeometry
}

// NewExporter creates an exporter writing into outDir with the given
// oversampling factor and page geometry. The directory must exist; scale
// and geometry are validated when an export runs.
func NewExporter(outDir string, scale int, geom PageGeometry) *Exporter {
	return &Exporter{
		outDir: outDir,
		scale:  scale,
		geom:   geom,
	}
}

// ExportPDF captures the preview, paginates it and writes
// "<name>.pdf" into the output directory, returning the written path. The
// surface is captured fresh for this call and discarded afterwards. A
// second call while one export is pending fails with ErrExportInFlight.
func (e *Exporter) ExportPDF(ctx context.Context, r render.Renderable, name string) (string, error) {
	if !e.mu.TryLock() {
		return "", ErrExportInFlight
	}
	defer e.mu.Unlock()

	path, err := e.artifactPath(name, ".pdf")
	if err != nil {
		return "", err
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}
	surface, err := render.Capture(r, e.scale)
	if err != nil {
		return "", fmt.Errorf("surface capture failed: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}
	b := surface.Bounds()
	slices, err := PlanSlices(b.Dx(), b.Dy(), e.geom)
	if err != nil {
		return "", fmt.Errorf("pagination failed: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}
	doc, err := AssembleDocument(surface, slices, name)
	if err != nil {
		return "", fmt.Errorf("assembly failed: %w", err)
	}

	if err := os.WriteFile(path, doc, 0o600); err != nil {
		return "", fmt.Errorf("cannot write artifact: %w", err)
	}

	if err := VerifyArtifact(path, len(slices)); err != nil {
		os.Remove(path)
		return "", err
	}
	return path, nil
}

// artifactPath resolves a document name inside the output directory and
// rejects names that are empty or would escape it.
func (e *Exporter) artifactPath(name, ext string) (string, error) {
	if name == "" || name == "." || name == ".." {
		return "", fmt.Errorf("artifact name cannot be empty")
	}
	if strings.ContainsAny(name, `/\`) || name != filepath.Base(name) {
		return "", fmt.Errorf("artifact name %q must not contain path separators", name)
	}

	dir, err := filepath.Abs(e.outDir)
	if err != nil {
		return "", fmt.Errorf("cannot resolve output directory: %w", err)
	}
	return filepath.Join(dir, name+ext), nil
}
