package main

import (
	"strings"
	"testing"

	"pdf-compressor/internal/compress"
)

func TestCompressionSummaryFormatsSizes(t *testing.T) {
	out := compressionSummary("/tmp/report_compressed.pdf", compress.Result{
		OriginalSizeBytes:   10 << 20,
		CompressedSizeBytes: 4 << 20,
	})

	for _, want := range []string{
		"Compressed to /tmp/report_compressed.pdf",
		"Original:   10 MiB",
		"Compressed: 4.0 MiB",
		"Reduction:  60.0%",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestCompressCommandRegistersFlags(t *testing.T) {
	cmd := newCompressCommand(&commandContext{})
	for _, name := range []string{"output", "preset", "gs"} {
		if cmd.Flags().Lookup(name) == nil {
			t.Fatalf("flag --%s not registered", name)
		}
	}
}
