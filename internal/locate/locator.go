package locate

import (
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	goruntime "runtime"
	"strings"
)

// Locator discovers a Ghostscript executable on the local system.
// A missing executable is a normal comma-ok outcome, never an error.
type Locator struct {
	goos     string
	lookPath func(file string) (string, error)
	stat     func(name string) (os.FileInfo, error)
	walkDir  func(root string, fn fs.WalkDirFunc) error
	getenv   func(key string) string
}

// NewLocator builds a locator using real OS dependencies.
func NewLocator() *Locator {
	return &Locator{
		goos:     goruntime.GOOS,
		lookPath: exec.LookPath,
		stat:     os.Stat,
		walkDir:  filepath.WalkDir,
		getenv:   os.Getenv,
	}
}

// Resolve prefers an explicit executable path before automatic discovery.
// An override that does not point at an existing file falls back to discovery.
func (l *Locator) Resolve(override string) (string, bool) {
	path := strings.TrimSpace(override)
	if path != "" {
		if info, err := l.stat(path); err == nil && !info.IsDir() {
			return path, true
		}
	}
	return l.Locate()
}

// Locate tries candidate names on PATH first, then scans well-known
// install directories. PATH matches always win over directory matches.
func (l *Locator) Locate() (string, bool) {
	names := CandidateNames(l.goos)
	for _, name := range names {
		if path, err := l.lookPath(name); err == nil {
			return path, true
		}
	}

	for _, root := range l.installRoots() {
		info, err := l.stat(root)
		if err != nil || !info.IsDir() {
			continue
		}
		if path, ok := l.scanRoot(root, names); ok {
			return path, true
		}
	}

	return "", false
}

// CandidateNames returns executable names in priority order for one OS.
func CandidateNames(goos string) []string {
	if goos == "windows" {
		return []string{"gswin64c.exe", "gswin32c.exe", "gs.exe"}
	}
	return []string{"gs"}
}

// installRoots returns well-known installation directories for the locator's OS.
func (l *Locator) installRoots() []string {
	if l.goos == "windows" {
		roots := make([]string, 0, 2)
		if dir := l.getenv("ProgramFiles"); dir != "" {
			roots = append(roots, filepath.Join(dir, "gs"))
		}
		if dir := l.getenv("ProgramFiles(x86)"); dir != "" {
			roots = append(roots, filepath.Join(dir, "gs"))
		}
		if len(roots) == 0 {
			roots = append(roots, filepath.Join(`C:\Program Files`, "gs"))
		}
		return roots
	}

	return []string{"/usr/local/bin", "/opt/homebrew/bin", "/opt/local/bin"}
}

// scanRoot walks one install root and returns the first candidate file.
// Candidate names are checked in priority order within each directory, so
// a directory holding several builds yields the preferred one. Probe
// failures inside the tree are swallowed and treated as no match.
func (l *Locator) scanRoot(root string, names []string) (string, bool) {
	var found string
	err := l.walkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil || entry == nil || !entry.IsDir() {
			return nil
		}
		for _, name := range names {
			candidate := filepath.Join(path, name)
			if info, statErr := l.stat(candidate); statErr == nil && info.Mode().IsRegular() {
				found = candidate
				return fs.SkipAll
			}
		}
		return nil
	})
	if err != nil || found == "" {
		return "", false
	}
	return found, true
}

// NewLocatorForTests creates a locator with injectable dependencies.
func NewLocatorForTests(
	goos string,
	lookPath func(string) (string, error),
	stat func(string) (os.FileInfo, error),
	walkDir func(string, fs.WalkDirFunc) error,
	getenv func(string) string,
) *Locator {
	return &Locator{
		goos:     goos,
		lookPath: lookPath,
		stat:     stat,
		walkDir:  walkDir,
		getenv:   getenv,
	}
}
