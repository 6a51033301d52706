package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"pdf-compressor/internal/compress"
	"pdf-compressor/internal/domain"
	"pdf-compressor/internal/history"
	"pdf-compressor/internal/locate"
)

func newCompressCommand(ctx *commandContext) *cobra.Command {
	var outputFlag string
	var presetFlag string
	var gsFlag string

	cmd := &cobra.Command{
		Use:   "compress <input.pdf>",
		Short: "Compress a PDF file with Ghostscript",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := ctx.logger()
			if err != nil {
				return err
			}

			settings, _, err := ctx.loadSettings()
			if err != nil {
				return err
			}

			input, err := filepath.Abs(args[0])
			if err != nil {
				return fmt.Errorf("resolve input path: %w", err)
			}

			presetName := strings.TrimSpace(presetFlag)
			if presetName == "" {
				presetName = settings.Preset
			}
			preset, err := domain.ParsePreset(presetName)
			if err != nil {
				return err
			}

			override := strings.TrimSpace(gsFlag)
			if override == "" {
				override = settings.GhostscriptPath
			}
			helperPath, found := locate.NewLocator().Resolve(override)
			if !found {
				return errors.New("ghostscript not found: install it and ensure it is on PATH (download: ghostscript.com/releases)")
			}

			output := strings.TrimSpace(outputFlag)
			if output == "" {
				output = compress.DefaultOutputPath(input)
			}

			logger.Debug("starting compression",
				slog.String("input", input),
				slog.String("output", output),
				slog.String("preset", preset.String()),
				slog.String("helper", helperPath),
			)

			result, err := compress.NewRunner().Run(cmd.Context(), compress.Request{
				HelperPath: helperPath,
				InputPath:  input,
				OutputPath: output,
				Preset:     preset,
				OnLog: func(log compress.CommandLog) {
					logger.Debug("helper finished",
						slog.String("command", log.Command),
						slog.Int("exitCode", log.ExitCode),
					)
				},
			})
			if err != nil {
				return err
			}

			fmt.Fprint(cmd.OutOrStdout(), compressionSummary(output, result))

			recordCompression(cmd.Context(), ctx, logger, input, output, preset, result)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Output file path (default: <input>_compressed.pdf)")
	cmd.Flags().StringVarP(&presetFlag, "preset", "p", "", "Quality preset: screen, ebook, printer, prepress")
	cmd.Flags().StringVar(&gsFlag, "gs", "", "Ghostscript executable path override")
	return cmd
}

// compressionSummary renders sizes and savings for the finished run.
func compressionSummary(outputPath string, result compress.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Compressed to %s\n", outputPath)
	fmt.Fprintf(&b, "Original:   %s\n", humanize.IBytes(uint64(result.OriginalSizeBytes)))
	fmt.Fprintf(&b, "Compressed: %s\n", humanize.IBytes(uint64(result.CompressedSizeBytes)))
	fmt.Fprintf(&b, "Reduction:  %.1f%%\n", result.ReductionPercent())
	return b.String()
}

// recordCompression appends the run to shared history, best effort.
func recordCompression(ctx context.Context, cmdCtx *commandContext, logger *slog.Logger, input, output string, preset domain.Preset, result compress.Result) {
	store, err := cmdCtx.openHistory()
	if err != nil {
		logger.Warn("history unavailable", slog.Any("error", err))
		return
	}
	defer store.Close()

	_, err = store.Append(ctx, history.Entry{
		JobID:               uuid.NewString(),
		InputPath:           input,
		OutputPath:          output,
		Preset:              string(preset),
		OriginalSizeBytes:   result.OriginalSizeBytes,
		CompressedSizeBytes: result.CompressedSizeBytes,
	})
	if err != nil {
		logger.Warn("record history", slog.Any("error", err))
	}
}
