package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"pdf-compressor/internal/diagnostics"
	"pdf-compressor/internal/domain"
)

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check Ghostscript and configuration health",
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, store, err := ctx.loadSettings()
			if err != nil {
				return err
			}

			report := diagnostics.NewChecker().Run(settings)

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			for _, line := range renderSectionHeader("PDF Compressor doctor", colorize) {
				fmt.Fprintln(out, line)
			}
			for _, item := range report.Items {
				pass := item.Status == domain.DiagnosticStatusPass
				fmt.Fprintln(out, renderCheckLine(item.Name, item.Message, pass, colorize))
				if !pass && item.Hint != "" {
					fmt.Fprintln(out, renderHintLine(item.Hint))
				}
			}

			fmt.Fprintln(out, renderCheckLine("Settings file", store.Path(), true, colorize))
			historyOK := true
			if hist, histErr := ctx.openHistory(); histErr != nil {
				historyOK = false
				fmt.Fprintln(out, renderCheckLine("History database", histErr.Error(), false, colorize))
			} else {
				fmt.Fprintln(out, renderCheckLine("History database", hist.Path(), true, colorize))
				_ = hist.Close()
			}

			if report.HasFailures || !historyOK {
				return errors.New("one or more checks failed")
			}
			return nil
		},
	}
}
