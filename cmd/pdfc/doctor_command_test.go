package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
)

// TestDoctorCommandPrintsStoreLocations checks settings and history paths appear.
func TestDoctorCommandPrintsStoreLocations(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	var out bytes.Buffer
	cmd := newDoctorCommand(&commandContext{})
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	_ = cmd.RunE(cmd, nil)

	rendered := out.String()
	if !strings.Contains(rendered, "Settings file") {
		t.Fatalf("output missing settings line:\n%s", rendered)
	}
	if !strings.Contains(rendered, filepath.Join(home, ".pdf-compressor", "settings.json")) {
		t.Fatalf("output missing settings path:\n%s", rendered)
	}
	if !strings.Contains(rendered, "History database") {
		t.Fatalf("output missing history line:\n%s", rendered)
	}
	if !strings.Contains(rendered, filepath.Join(home, ".pdf-compressor", "history.db")) {
		t.Fatalf("output missing history path:\n%s", rendered)
	}
}
