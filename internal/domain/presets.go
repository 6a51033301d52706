package domain

import (
	"fmt"
	"strings"
)

// Preset selects one of the fixed Ghostscript quality profiles.
type Preset string

const (
	PresetScreen   Preset = "screen"
	PresetEbook    Preset = "ebook"
	PresetPrinter  Preset = "printer"
	PresetPrepress Preset = "prepress"
)

// DefaultPreset is applied when no preset has been chosen yet.
const DefaultPreset = PresetEbook

// Valid reports whether the preset is one of the supported profiles.
func (p Preset) Valid() bool {
	switch p {
	case PresetScreen, PresetEbook, PresetPrinter, PresetPrepress:
		return true
	default:
		return false
	}
}

// Flag returns the -dPDFSETTINGS value understood by Ghostscript.
func (p Preset) Flag() string {
	return "/" + string(p)
}

// String returns the plain preset name.
func (p Preset) String() string {
	return string(p)
}

// ParsePreset maps user input to a supported preset.
func ParsePreset(raw string) (Preset, error) {
	preset := Preset(strings.ToLower(strings.TrimSpace(raw)))
	if !preset.Valid() {
		return "", fmt.Errorf("unsupported preset %q (valid: %s)", raw, strings.Join(PresetNames(), ", "))
	}
	return preset, nil
}

// PresetNames lists supported preset names from strongest to lightest compression.
func PresetNames() []string {
	return []string{
		string(PresetScreen),
		string(PresetEbook),
		string(PresetPrinter),
		string(PresetPrepress),
	}
}

// PresetOption describes one selectable quality profile for UI rendering.
type PresetOption struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Flag        string `json:"flag"`
	Default     bool   `json:"default"`
}

// PresetCatalog returns the supported profiles with user-facing descriptions.
func PresetCatalog() []PresetOption {
	return []PresetOption{
		{
			ID:          string(PresetScreen),
			Name:        "Low Quality",
			Description: "Low Quality (72 dpi) - Max Compression",
			Flag:        PresetScreen.Flag(),
		},
		{
			ID:          string(PresetEbook),
			Name:        "Medium Quality",
			Description: "Medium Quality (150 dpi) - Good for screen reading",
			Flag:        PresetEbook.Flag(),
			Default:     true,
		},
		{
			ID:          string(PresetPrinter),
			Name:        "High Quality",
			Description: "High Quality (300 dpi) - Good for printing",
			Flag:        PresetPrinter.Flag(),
		},
		{
			ID:          string(PresetPrepress),
			Name:        "Best Quality",
			Description: "Best Quality (300 dpi, preserves color) - Minimal Compression",
			Flag:        PresetPrepress.Flag(),
		},
	}
}
