package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

const (
	ansiReset = "\x1b[0m"
	ansiRed   = "\x1b[31m"
	ansiGreen = "\x1b[32m"
	ansiBlue  = "\x1b[34m"
)

const checkLabelWidth = 18

// renderCheckLine renders one doctor check result, optionally colorized.
func renderCheckLine(name, message string, pass, colorize bool) string {
	label := "FAIL"
	color := ansiRed
	if pass {
		label = "OK"
		color = ansiGreen
	}

	line := fmt.Sprintf("  %-*s [%s] %s", checkLabelWidth, name+":", label, message)
	if colorize {
		return color + line + ansiReset
	}
	return line
}

// renderHintLine indents a remediation hint under its check line.
func renderHintLine(hint string) string {
	return "      " + hint
}

// renderSectionHeader renders a titled divider for grouped output.
func renderSectionHeader(title string, colorize bool) []string {
	line := fmt.Sprintf("== %s ==", strings.TrimSpace(title))
	rule := strings.Repeat("-", len(line))
	if colorize {
		line = ansiBlue + line + ansiReset
		rule = ansiBlue + rule + ansiReset
	}
	return []string{line, rule}
}

// shouldColorize reports whether the writer is an interactive terminal.
func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
