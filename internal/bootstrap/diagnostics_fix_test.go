package bootstrap

import (
	"os"
	"path/filepath"
	"testing"

	"pdf-compressor/internal/domain"
)

// TestInstallOrFixOutputDirCreatesDirectory ensures output dir fix creates missing directories.
func TestInstallOrFixOutputDirCreatesDirectory(t *testing.T) {
	root := t.TempDir()
	outputDir := filepath.Join(root, "nested", "compressed")

	settings := domain.Settings{
		Preset:    "ebook",
		OutputDir: outputDir,
	}
	fixed, changed, err := installOrFixOutputDir(settings)
	if err != nil {
		t.Fatalf("fix output dir: %v", err)
	}
	if changed {
		t.Fatal("expected settings to remain unchanged")
	}
	if fixed.OutputDir != outputDir {
		t.Fatalf("OutputDir = %s, want %s", fixed.OutputDir, outputDir)
	}
	if _, err := os.Stat(outputDir); err != nil {
		t.Fatalf("stat output dir: %v", err)
	}
}

// TestInstallOrFixOutputDirFillsDefaultWhenEmpty ensures the default location is applied.
func TestInstallOrFixOutputDirFillsDefaultWhenEmpty(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	fixed, changed, err := installOrFixOutputDir(domain.Settings{Preset: "ebook"})
	if err != nil {
		t.Fatalf("fix output dir: %v", err)
	}
	if !changed {
		t.Fatal("expected settings change for empty output dir")
	}
	if fixed.OutputDir == "" {
		t.Fatal("expected default output dir to be filled in")
	}
}

// TestResetPresetToDefaultRepairsUnknownValue ensures invalid presets reset.
func TestResetPresetToDefaultRepairsUnknownValue(t *testing.T) {
	fixed, changed := resetPresetToDefault(domain.Settings{Preset: "maximum"})
	if !changed {
		t.Fatal("expected invalid preset to be replaced")
	}
	if fixed.Preset != string(domain.DefaultPreset) {
		t.Fatalf("Preset = %s, want %s", fixed.Preset, domain.DefaultPreset)
	}

	same, changed := resetPresetToDefault(domain.Settings{Preset: "printer"})
	if changed {
		t.Fatal("expected valid preset to be kept")
	}
	if same.Preset != "printer" {
		t.Fatalf("Preset = %s, want printer", same.Preset)
	}
}

// TestInstallOrFixDiagnosticRejectsUnknownID validates id handling.
func TestInstallOrFixDiagnosticRejectsUnknownID(t *testing.T) {
	app := &App{Store: &fakeStore{settings: domain.Settings{Preset: "ebook"}}}

	if _, err := app.InstallOrFixDiagnostic("model_path"); err == nil {
		t.Fatal("expected error for unsupported diagnostic id")
	}
	if _, err := app.InstallOrFixDiagnostic("  "); err == nil {
		t.Fatal("expected error for blank diagnostic id")
	}
}

// TestInstallOrFixDiagnosticRepairsPreset validates the preset remediation path.
func TestInstallOrFixDiagnosticRepairsPreset(t *testing.T) {
	store := &fakeStore{settings: domain.Settings{Preset: "maximum", OutputDir: t.TempDir()}}
	app := &App{Store: store}

	if _, err := app.InstallOrFixDiagnostic("preset"); err != nil {
		t.Fatalf("fix preset: %v", err)
	}
	if store.saved == nil {
		t.Fatal("expected repaired settings to be saved")
	}
	if store.saved.Preset != string(domain.DefaultPreset) {
		t.Fatalf("saved preset = %s, want %s", store.saved.Preset, domain.DefaultPreset)
	}
}

// TestRequiresElevationCoversLinuxManagers validates the elevation allowlist.
func TestRequiresElevationCoversLinuxManagers(t *testing.T) {
	for _, manager := range []string{"apt-get", "dnf", "pacman", "zypper"} {
		if !requiresElevation(manager) {
			t.Fatalf("requiresElevation(%s) = false, want true", manager)
		}
	}
	for _, manager := range []string{"brew", "winget", "choco", "scoop"} {
		if requiresElevation(manager) {
			t.Fatalf("requiresElevation(%s) = true, want false", manager)
		}
	}
}

// TestFormatCommandJoinsArgs validates command rendering in error text.
func TestFormatCommandJoinsArgs(t *testing.T) {
	got := formatCommand("apt-get", []string{"install", "-y", "ghostscript"})
	if got != "apt-get install -y ghostscript" {
		t.Fatalf("formatCommand = %q", got)
	}
}
