package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"runtime"

	"github.com/spf13/pflag"

	"github.com/fieldserve/servicereport/internal/config"
	"github.com/fieldserve/servicereport/internal/export"
	"github.com/fieldserve/servicereport/internal/render"
	"github.com/fieldserve/servicereport/internal/report"
	"github.com/fieldserve/servicereport/internal/storage"
)

var (
	version   = "dev"     // This will be set by build flags
	buildTime = "unknown" // This will be set by build flags
	gitCommit = "unknown" // This will be set by build flags
)

// setupLogging configures logging based on the configured level
func setupLogging(cfg *config.Config) {
	log.SetOutput(os.Stderr)
	if cfg.IsDebug() {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	}
}

func main() {
	// Check for version flag before parsing other flags
	for _, arg := range os.Args[1:] {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			printVersion()
			return
		}
	}

	cfg, err := config.LoadFromFlags()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	setupLogging(cfg)

	if version != "dev" {
		cfg.Version = version
	}
	if cfg.IsDebug() {
		log.Printf("Starting with configuration: %s", cfg.String())
	}

	backend, err := storage.NewFileStore(cfg.RecordFile)
	if err != nil {
		log.Fatalf("Failed to open record storage: %v", err)
	}
	store := report.NewStore(backend)

	args := pflag.Args()
	if len(args) == 0 {
		pflag.Usage()
		os.Exit(2)
	}

	ctx := context.Background()

	switch args[0] {
	case "export":
		runExport(ctx, cfg, store)
	case "snapshot":
		runSnapshot(cfg, store)
	case "import":
		if len(args) < 2 {
			log.Fatal("import requires a snapshot file")
		}
		runImport(store, args[1])
	case "photos":
		if len(args) < 2 {
			log.Fatal("photos requires at least one image file")
		}
		runPhotos(store, args[1:])
	case "show":
		runShow(store)
	default:
		log.Fatalf("Unknown command: %s", args[0])
	}
}

// runExport captures the preview of the current record and writes the
// paginated PDF artifact.
func runExport(ctx context.Context, cfg *config.Config, store *report.Store) {
	geom := export.A4()
	if cfg.PageSize == config.PageLetter {
		geom = export.Letter()
	}

	exporter := export.NewExporter(cfg.OutputDir, cfg.ScaleFactor, geom)
	preview := render.NewPreview(store.Report())

	path, err := exporter.ExportPDF(ctx, preview, store.DocumentName())
	if err != nil {
		log.Fatalf("Export failed: %v", err)
	}
	fmt.Printf("Wrote %s\n", path)
}

// runSnapshot writes the record as a JSON document next to the PDF artifacts.
func runSnapshot(cfg *config.Config, store *report.Store) {
	path, err := store.WriteSnapshot(cfg.OutputDir)
	if err != nil {
		log.Fatalf("Snapshot failed: %v", err)
	}
	fmt.Printf("Wrote %s\n", path)
}

// runImport replaces the record wholesale from a JSON snapshot. A parse
// error leaves the current record untouched.
func runImport(store *report.Store, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("Cannot read snapshot: %v", err)
	}
	if err := store.ImportSnapshot(data); err != nil {
		log.Fatalf("Import failed, record unchanged: %v", err)
	}
	fmt.Printf("Imported %s\n", path)
}

// runPhotos attaches a batch of photo files to the record. Files that fail
// to convert are reported and skipped.
func runPhotos(store *report.Store, paths []string) {
	added, failed, err := store.IngestPhotos(paths)
	if err != nil {
		log.Fatalf("Cannot attach photos: %v", err)
	}
	for _, f := range failed {
		log.Printf("Skipped: %v", f)
	}
	fmt.Printf("Attached %d photo(s)\n", len(added))
}

// runShow prints a short summary of the current record.
func runShow(store *report.Store) {
	r := store.Report()
	fmt.Printf("Report:     %s (%s)\n", r.Admin.ReportNumber, r.Admin.ReportDate)
	fmt.Printf("Technician: %s\n", r.Admin.Technician)
	fmt.Printf("Customer:   %s / %s\n", r.Customer.Company, r.Customer.ContactName)
	fmt.Printf("System:     %s (s/n %s)\n", r.Customer.System, r.Customer.SerialNumber)
	fmt.Printf("Parts:      %d line(s)\n", len(r.Parts))
	fmt.Printf("Photos:     %d\n", len(r.Photos))
}

// printVersion prints version information
func printVersion() {
	fmt.Printf("Service Report\n")
	fmt.Printf("Version: %s\n", version)
	fmt.Printf("Build Time: %s\n", buildTime)
	fmt.Printf("Git Commit: %s\n", gitCommit)
	fmt.Printf("Built with: %s\n", runtime.Version())
}
