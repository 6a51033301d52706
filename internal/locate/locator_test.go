package locate

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

// TestLocatePrefersPathOverInstallDirs verifies PATH hits skip the scan.
func TestLocatePrefersPathOverInstallDirs(t *testing.T) {
	walked := false
	locator := NewLocatorForTests(
		"windows",
		func(name string) (string, error) {
			if name == "gswin64c.exe" {
				return `C:\tools\gswin64c.exe`, nil
			}
			return "", errors.New("not found")
		},
		os.Stat,
		func(root string, fn fs.WalkDirFunc) error {
			walked = true
			return nil
		},
		func(string) string { return "" },
	)

	path, ok := locator.Locate()
	if !ok {
		t.Fatal("expected executable to be found")
	}
	if path != `C:\tools\gswin64c.exe` {
		t.Fatalf("path = %q, want PATH hit", path)
	}
	if walked {
		t.Fatal("install directory scan should not run after a PATH hit")
	}
}

// TestLocateRespectsCandidateNameOrderOnPath verifies name priority.
func TestLocateRespectsCandidateNameOrderOnPath(t *testing.T) {
	locator := NewLocatorForTests(
		"windows",
		func(name string) (string, error) {
			if name == "gs.exe" || name == "gswin32c.exe" {
				return `C:\tools\` + name, nil
			}
			return "", errors.New("not found")
		},
		os.Stat,
		func(string, fs.WalkDirFunc) error { return nil },
		func(string) string { return "" },
	)

	path, ok := locator.Locate()
	if !ok {
		t.Fatal("expected executable to be found")
	}
	if path != `C:\tools\gswin32c.exe` {
		t.Fatalf("path = %q, want gswin32c.exe before gs.exe", path)
	}
}

// TestLocateFallsBackToInstallDirScan verifies recursive directory discovery.
func TestLocateFallsBackToInstallDirScan(t *testing.T) {
	programFiles := t.TempDir()
	binDir := filepath.Join(programFiles, "gs", "gs10.03.1", "bin")
	exePath := filepath.Join(binDir, "gswin64c.exe")
	mustWriteFile(t, exePath, "binary")
	mustWriteFile(t, filepath.Join(binDir, "gsdll64.dll"), "library")

	locator := NewLocatorForTests(
		"windows",
		func(string) (string, error) { return "", errors.New("not found") },
		os.Stat,
		filepath.WalkDir,
		func(key string) string {
			if key == "ProgramFiles" {
				return programFiles
			}
			return ""
		},
	)

	path, ok := locator.Locate()
	if !ok {
		t.Fatal("expected executable under install root")
	}
	if path != exePath {
		t.Fatalf("path = %q, want %q", path, exePath)
	}
}

// TestScanPrefersCandidateOrderWithinDirectory verifies the 64-bit build wins
// over the 32-bit one when both sit in the same install directory.
func TestScanPrefersCandidateOrderWithinDirectory(t *testing.T) {
	programFiles := t.TempDir()
	binDir := filepath.Join(programFiles, "gs", "gs10.03.1", "bin")
	mustWriteFile(t, filepath.Join(binDir, "gswin32c.exe"), "binary")
	want := filepath.Join(binDir, "gswin64c.exe")
	mustWriteFile(t, want, "binary")

	locator := NewLocatorForTests(
		"windows",
		func(string) (string, error) { return "", errors.New("not found") },
		os.Stat,
		filepath.WalkDir,
		func(key string) string {
			if key == "ProgramFiles" {
				return programFiles
			}
			return ""
		},
	)

	path, ok := locator.Locate()
	if !ok {
		t.Fatal("expected executable under install root")
	}
	if path != want {
		t.Fatalf("path = %q, want gswin64c.exe over gswin32c.exe", path)
	}
}

// TestLocateAbsenceIsNormalOutcome verifies missing helper yields ok=false.
func TestLocateAbsenceIsNormalOutcome(t *testing.T) {
	locator := NewLocatorForTests(
		"windows",
		func(string) (string, error) { return "", errors.New("not found") },
		os.Stat,
		filepath.WalkDir,
		func(string) string { return "" },
	)

	if path, ok := locator.Locate(); ok {
		t.Fatalf("expected no hit, got %q", path)
	}
}

// TestLocateSwallowsProbeErrors verifies walk failures never surface.
func TestLocateSwallowsProbeErrors(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "gs"), 0o755); err != nil {
		t.Fatalf("mkdir gs root: %v", err)
	}

	locator := NewLocatorForTests(
		"windows",
		func(string) (string, error) { return "", errors.New("not found") },
		os.Stat,
		func(string, fs.WalkDirFunc) error { return errors.New("disk unplugged") },
		func(key string) string {
			if key == "ProgramFiles" {
				return root
			}
			return ""
		},
	)

	if path, ok := locator.Locate(); ok {
		t.Fatalf("expected no hit, got %q", path)
	}
}

// TestResolvePrefersExistingOverride verifies settings overrides win.
func TestResolvePrefersExistingOverride(t *testing.T) {
	override := filepath.Join(t.TempDir(), "gs")
	mustWriteFile(t, override, "binary")

	looked := false
	locator := NewLocatorForTests(
		"linux",
		func(string) (string, error) {
			looked = true
			return "", errors.New("not found")
		},
		os.Stat,
		filepath.WalkDir,
		os.Getenv,
	)

	path, ok := locator.Resolve(override)
	if !ok || path != override {
		t.Fatalf("Resolve() = %q, %v, want override path", path, ok)
	}
	if looked {
		t.Fatal("override should short-circuit PATH lookup")
	}
}

// TestResolveIgnoresMissingOverride verifies bad overrides fall back to discovery.
func TestResolveIgnoresMissingOverride(t *testing.T) {
	locator := NewLocatorForTests(
		"linux",
		func(name string) (string, error) {
			if name == "gs" {
				return "/usr/bin/gs", nil
			}
			return "", errors.New("not found")
		},
		os.Stat,
		filepath.WalkDir,
		os.Getenv,
	)

	path, ok := locator.Resolve("/does/not/exist/gs")
	if !ok || path != "/usr/bin/gs" {
		t.Fatalf("Resolve() = %q, %v, want PATH fallback", path, ok)
	}
}

// TestCandidateNamesPerOS verifies the per-platform candidate lists.
func TestCandidateNamesPerOS(t *testing.T) {
	windows := CandidateNames("windows")
	if len(windows) != 3 || windows[0] != "gswin64c.exe" || windows[1] != "gswin32c.exe" || windows[2] != "gs.exe" {
		t.Fatalf("windows candidates = %v", windows)
	}

	unix := CandidateNames("linux")
	if len(unix) != 1 || unix[0] != "gs" {
		t.Fatalf("unix candidates = %v", unix)
	}
}

// mustWriteFile creates parent directory and writes file content.
func mustWriteFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir parent: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write file %s: %v", path, err)
	}
}
