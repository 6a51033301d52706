package compress

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"pdf-compressor/internal/domain"
)

// Request describes one Ghostscript compression run.
type Request struct {
	HelperPath string
	InputPath  string
	OutputPath string
	Preset     domain.Preset
	OnLog      func(log CommandLog)
}

// Result carries measured sizes and the command log after a successful run.
type Result struct {
	OriginalSizeBytes   int64      `json:"originalSizeBytes"`
	CompressedSizeBytes int64      `json:"compressedSizeBytes"`
	Log                 CommandLog `json:"log"`
}

// OriginalMB returns the input size in mebibytes.
func (r Result) OriginalMB() float64 {
	return toMB(r.OriginalSizeBytes)
}

// CompressedMB returns the output size in mebibytes.
func (r Result) CompressedMB() float64 {
	return toMB(r.CompressedSizeBytes)
}

// ReductionPercent derives the saved percentage from the two stored sizes.
func (r Result) ReductionPercent() float64 {
	if r.OriginalSizeBytes <= 0 {
		return 0
	}
	return 100 - (float64(r.CompressedSizeBytes)/float64(r.OriginalSizeBytes))*100
}

// toMB converts a byte count to mebibytes.
func toMB(n int64) float64 {
	return float64(n) / (1024 * 1024)
}

// CommandLog captures one external command invocation result.
type CommandLog struct {
	Command  string   `json:"command"`
	Args     []string `json:"args"`
	ExitCode int      `json:"exitCode"`
	Stdout   string   `json:"stdout"`
	Stderr   string   `json:"stderr"`
}

// ErrorKind classifies terminal failure causes for one run.
type ErrorKind string

const (
	// ErrorKindConfig marks a missing or unusable helper configuration.
	ErrorKindConfig ErrorKind = "config"
	// ErrorKindInput marks requests rejected before any process was started.
	ErrorKindInput ErrorKind = "input"
	// ErrorKindLaunch marks processes that could not be started at all.
	ErrorKindLaunch ErrorKind = "launch"
	// ErrorKindProcess marks processes that started but exited nonzero.
	ErrorKindProcess ErrorKind = "process"
)

// RunnerError is a kind-aware error with optional command context.
type RunnerError struct {
	Kind       ErrorKind  `json:"kind"`
	Message    string     `json:"message"`
	CommandLog CommandLog `json:"commandLog"`
	Err        error      `json:"-"`
}

// Error formats run failures for logs and UI.
func (e *RunnerError) Error() string {
	if e == nil {
		return ""
	}
	if e.CommandLog.Command == "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}

	return fmt.Sprintf(
		"%s: %s (cmd=%s exit=%d)",
		e.Kind,
		e.Message,
		e.CommandLog.Command,
		e.CommandLog.ExitCode,
	)
}

// Unwrap exposes underlying error for errors.Is / errors.As.
func (e *RunnerError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// commandResult is an internal process execution response.
type commandResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// commandRunner abstracts process execution for testability.
type commandRunner interface {
	Run(ctx context.Context, name string, args ...string) (commandResult, error)
}

// execRunner executes commands via os/exec.
type execRunner struct{}

// Run executes one command and captures stdout/stderr and exit code.
func (r *execRunner) Run(ctx context.Context, name string, args ...string) (commandResult, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	hideConsoleWindow(cmd)
	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := commandResult{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: 0,
	}
	if err != nil {
		result.ExitCode = -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
		}
		return result, err
	}

	return result, nil
}

// Runner invokes Ghostscript for single-shot PDF compression runs.
type Runner struct {
	runner   commandRunner
	stat     func(name string) (os.FileInfo, error)
	mkdirAll func(path string, perm os.FileMode) error
}

// NewRunner constructs the production runner with OS dependencies.
func NewRunner() *Runner {
	return &Runner{
		runner:   &execRunner{},
		stat:     os.Stat,
		mkdirAll: os.MkdirAll,
	}
}

// Run validates the request, invokes Ghostscript once, and measures sizes.
// Config and input errors are reported before any process is started.
func (r *Runner) Run(ctx context.Context, req Request) (Result, error) {
	if strings.TrimSpace(req.HelperPath) == "" {
		return Result{}, &RunnerError{
			Kind:    ErrorKindConfig,
			Message: "ghostscript executable path is required",
		}
	}

	if strings.TrimSpace(req.InputPath) == "" {
		return Result{}, &RunnerError{
			Kind:    ErrorKindInput,
			Message: "input PDF path is required",
		}
	}
	inputInfo, err := r.stat(req.InputPath)
	if err != nil {
		return Result{}, &RunnerError{
			Kind:    ErrorKindInput,
			Message: fmt.Sprintf("cannot access input PDF: %s", req.InputPath),
			Err:     err,
		}
	}
	if inputInfo.IsDir() {
		return Result{}, &RunnerError{
			Kind:    ErrorKindInput,
			Message: fmt.Sprintf("input path is a directory: %s", req.InputPath),
		}
	}

	if !req.Preset.Valid() {
		return Result{}, &RunnerError{
			Kind:    ErrorKindInput,
			Message: fmt.Sprintf("unsupported preset: %q", string(req.Preset)),
		}
	}

	if strings.TrimSpace(req.OutputPath) == "" {
		return Result{}, &RunnerError{
			Kind:    ErrorKindInput,
			Message: "output PDF path is required",
		}
	}
	if dir := filepath.Dir(req.OutputPath); dir != "" && dir != "." {
		if err := r.mkdirAll(dir, 0o755); err != nil {
			return Result{}, &RunnerError{
				Kind:    ErrorKindInput,
				Message: fmt.Sprintf("cannot create output directory: %s", dir),
				Err:     err,
			}
		}
	}

	args := buildGhostscriptArgs(req.Preset, req.InputPath, req.OutputPath)
	cmdResult, runErr := r.runner.Run(ctx, req.HelperPath, args...)
	log := CommandLog{
		Command:  req.HelperPath,
		Args:     args,
		ExitCode: cmdResult.ExitCode,
		Stdout:   cmdResult.Stdout,
		Stderr:   cmdResult.Stderr,
	}
	emitLog(req.OnLog, log)
	if runErr != nil {
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			return Result{}, &RunnerError{
				Kind:       ErrorKindProcess,
				Message:    processFailureMessage(cmdResult.Stderr, cmdResult.ExitCode),
				CommandLog: log,
				Err:        runErr,
			}
		}

		return Result{}, &RunnerError{
			Kind:       ErrorKindLaunch,
			Message:    runErr.Error(),
			CommandLog: log,
			Err:        runErr,
		}
	}

	// Sizes are read after the run; the output may overwrite the input.
	inputInfo, err = r.stat(req.InputPath)
	if err != nil {
		return Result{}, &RunnerError{
			Kind:       ErrorKindProcess,
			Message:    "ghostscript completed but the input file is missing",
			CommandLog: log,
			Err:        err,
		}
	}
	outputInfo, err := r.stat(req.OutputPath)
	if err != nil {
		return Result{}, &RunnerError{
			Kind:       ErrorKindProcess,
			Message:    "ghostscript completed but the output file is missing",
			CommandLog: log,
			Err:        err,
		}
	}

	return Result{
		OriginalSizeBytes:   inputInfo.Size(),
		CompressedSizeBytes: outputInfo.Size(),
		Log:                 log,
	}, nil
}

// emitLog forwards command logs when callback is configured.
func emitLog(cb func(log CommandLog), log CommandLog) {
	if cb != nil {
		cb(log)
	}
}

// processFailureMessage prefers captured stderr over the raw exit error.
// Invalid UTF-8 in stderr is dropped so the message always renders.
func processFailureMessage(stderr string, exitCode int) string {
	message := strings.TrimSpace(strings.ToValidUTF8(stderr, ""))
	if message == "" {
		return fmt.Sprintf("ghostscript exited with code %d", exitCode)
	}
	return message
}

// buildGhostscriptArgs builds the fixed pdfwrite invocation for one preset.
func buildGhostscriptArgs(preset domain.Preset, inputPath, outputPath string) []string {
	return []string{
		"-sDEVICE=pdfwrite",
		"-dCompatibilityLevel=1.4",
		"-dPDFSETTINGS=" + preset.Flag(),
		"-dNOPAUSE",
		"-dQUIET",
		"-dBATCH",
		"-sOutputFile=" + outputPath,
		inputPath,
	}
}

// DefaultOutputPath proposes "<name>_compressed.pdf" next to the input file.
func DefaultOutputPath(inputPath string) string {
	return filepath.Join(filepath.Dir(inputPath), DefaultOutputFileName(inputPath))
}

// DefaultOutputFileName builds the proposed output file name from the input name.
func DefaultOutputFileName(inputPath string) string {
	base := filepath.Base(inputPath)
	stem := strings.TrimSpace(strings.TrimSuffix(base, filepath.Ext(base)))
	if stem == "" || stem == "." || stem == string(filepath.Separator) {
		stem = "document"
	}
	return stem + "_compressed.pdf"
}

// NewRunnerForTests constructs a runner with injectable dependencies.
func NewRunnerForTests(
	runner commandRunner,
	stat func(name string) (os.FileInfo, error),
	mkdirAll func(path string, perm os.FileMode) error,
) *Runner {
	return &Runner{
		runner:   runner,
		stat:     stat,
		mkdirAll: mkdirAll,
	}
}
