package diagnostics

import (
	"fmt"
	"os"
	"strings"
	"time"

	"pdf-compressor/internal/domain"
	"pdf-compressor/internal/locate"
)

// Checker validates the Ghostscript helper and required filesystem paths.
type Checker struct {
	locate     func(override string) (string, bool)
	mkdirAll   func(string, os.FileMode) error
	createTemp func(string, string) (*os.File, error)
	remove     func(string) error
}

// NewChecker builds a checker using real OS dependencies.
func NewChecker() *Checker {
	locator := locate.NewLocator()
	return &Checker{
		locate:     locator.Resolve,
		mkdirAll:   os.MkdirAll,
		createTemp: os.CreateTemp,
		remove:     os.Remove,
	}
}

// Run executes all startup checks and returns a combined report.
func (c *Checker) Run(settings domain.Settings) domain.DiagnosticReport {
	items := []domain.DiagnosticItem{
		c.checkGhostscript(settings.GhostscriptPath),
		c.checkOutputDir(settings.OutputDir),
		c.checkPreset(settings.Preset),
	}

	hasFailures := false
	for _, item := range items {
		if item.Status == domain.DiagnosticStatusFail {
			hasFailures = true
			break
		}
	}

	return domain.DiagnosticReport{
		GeneratedAt: time.Now().UTC(),
		HasFailures: hasFailures,
		Items:       items,
	}
}

// checkGhostscript verifies the compression helper can be resolved.
func (c *Checker) checkGhostscript(override string) domain.DiagnosticItem {
	item := domain.DiagnosticItem{
		ID:   "tool_ghostscript",
		Name: "Ghostscript",
	}

	path, found := c.locate(override)
	if !found {
		item.Status = domain.DiagnosticStatusFail
		item.Message = "Ghostscript not found on PATH or in common install locations."
		item.Hint = "Install Ghostscript and ensure it's added to your system's PATH. You can download it from: ghostscript.com/releases"
		return item
	}

	item.Status = domain.DiagnosticStatusPass
	item.Message = fmt.Sprintf("Found at %s", path)
	return item
}

// checkOutputDir validates output directory existence and write access.
func (c *Checker) checkOutputDir(outputDir string) domain.DiagnosticItem {
	item := domain.DiagnosticItem{
		ID:   "output_dir",
		Name: "Output directory",
	}

	if strings.TrimSpace(outputDir) == "" {
		item.Status = domain.DiagnosticStatusFail
		item.Message = "Output directory is empty."
		item.Hint = "Set an output directory where compressed PDF files can be written."
		return item
	}

	if err := c.mkdirAll(outputDir, 0o755); err != nil {
		item.Status = domain.DiagnosticStatusFail
		item.Message = fmt.Sprintf("Cannot create output directory: %s", outputDir)
		item.Hint = "Choose a writable location or adjust filesystem permissions."
		return item
	}

	tmpFile, err := c.createTemp(outputDir, ".write-check-*")
	if err != nil {
		item.Status = domain.DiagnosticStatusFail
		item.Message = fmt.Sprintf("Output directory is not writable: %s", outputDir)
		item.Hint = "Choose a writable directory for compressed output."
		return item
	}

	tmpPath := tmpFile.Name()
	_ = tmpFile.Close()
	_ = c.remove(tmpPath)

	item.Status = domain.DiagnosticStatusPass
	item.Message = fmt.Sprintf("Writable directory: %s", outputDir)
	return item
}

// checkPreset validates the configured quality preset name.
func (c *Checker) checkPreset(preset string) domain.DiagnosticItem {
	item := domain.DiagnosticItem{
		ID:   "preset",
		Name: "Quality preset",
	}

	parsed, err := domain.ParsePreset(preset)
	if err != nil {
		item.Status = domain.DiagnosticStatusFail
		item.Message = err.Error()
		item.Hint = fmt.Sprintf("Choose one of: %s.", strings.Join(domain.PresetNames(), ", "))
		return item
	}

	item.Status = domain.DiagnosticStatusPass
	item.Message = fmt.Sprintf("Preset is valid: %s", parsed)
	return item
}

// NewCheckerForTests creates checker with injectable dependencies.
func NewCheckerForTests(
	locateFn func(string) (string, bool),
	mkdirAll func(string, os.FileMode) error,
	createTemp func(string, string) (*os.File, error),
	remove func(string) error,
) *Checker {
	return &Checker{
		locate:     locateFn,
		mkdirAll:   mkdirAll,
		createTemp: createTemp,
		remove:     remove,
	}
}
