package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"pdf-compressor/internal/domain"
)

func newPresetsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List available quality presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			headers, rows, aligns := presetTable(domain.PresetCatalog())
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(headers, rows, aligns))
			return nil
		},
	}
}

// presetTable shapes preset options into table cells.
func presetTable(options []domain.PresetOption) ([]string, [][]string, []columnAlignment) {
	headers := []string{"Preset", "Description", "Default"}
	aligns := []columnAlignment{alignLeft, alignLeft, alignLeft}

	rows := make([][]string, 0, len(options))
	for _, option := range options {
		defaultMark := ""
		if option.Default {
			defaultMark = "yes"
		}
		rows = append(rows, []string{option.ID, option.Description, defaultMark})
	}
	return headers, rows, aligns
}
