package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	goruntime "runtime"
	"strings"
	"sync"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"

	"pdf-compressor/internal/compress"
	"pdf-compressor/internal/config"
	"pdf-compressor/internal/diagnostics"
	"pdf-compressor/internal/domain"
	"pdf-compressor/internal/history"
	"pdf-compressor/internal/jobs"
	"pdf-compressor/internal/locate"

	wailsruntime "github.com/wailsapp/wails/v2/pkg/runtime"
)

var pdfDialogFilter = []wailsruntime.FileFilter{
	{
		DisplayName: "PDF Files",
		Pattern:     "*.pdf",
	},
}

const helperMissingMessage = "Ghostscript is required for PDF compression but could not be found.\n\n" +
	"Please install Ghostscript and ensure it's added to your system's PATH.\n\n" +
	"You can download it from: ghostscript.com/releases"

// App wires configuration, jobs, the compression runner, and UI runtime callbacks.
type App struct {
	Settings    domain.Settings
	Store       config.Store
	Jobs        *jobs.Manager
	Runner      compressRunner
	History     *history.Store
	Diagnostics domain.DiagnosticReport
	assets      fs.FS
	checker     *diagnostics.Checker
	locate      func(override string) (string, bool)
	dialog      func(dialogType wailsruntime.DialogType, title, message string)

	mu           sync.Mutex
	activeJobID  string
	events       *jobs.EventBus
	runtimeCtx   context.Context
	instanceLock *flock.Flock
}

// compressRunner isolates the Ghostscript runner behind an interface.
type compressRunner interface {
	Run(ctx context.Context, req compress.Request) (compress.Result, error)
}

// New builds the application with persisted settings and startup diagnostics.
func New() (*App, error) {
	return NewWithAssets(nil)
}

// NewWithAssets builds the application and optionally configures embedded frontend assets.
func NewWithAssets(assets fs.FS) (*App, error) {
	dataDir, err := config.DataDir()
	if err != nil {
		return nil, fmt.Errorf("resolve data directory: %w", err)
	}

	store := config.NewJSONStore(filepath.Join(dataDir, "settings.json"))
	settings, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	checker := diagnostics.NewChecker()
	report := checker.Run(settings)

	hist, err := history.Open(filepath.Join(dataDir, "history.db"))
	if err != nil {
		return nil, fmt.Errorf("open history store: %w", err)
	}

	return &App{
		Settings:    settings,
		Store:       store,
		Jobs:        jobs.NewManager(),
		Runner:      compress.NewRunner(),
		History:     hist,
		Diagnostics: report,
		assets:      assets,
		checker:     checker,
		locate:      locate.NewLocator().Resolve,
		events:      jobs.NewEventBus(1000),
	}, nil
}

// Run starts the Wails desktop application and binds backend methods.
func (a *App) Run() error {
	if err := a.acquireInstanceLock(); err != nil {
		return err
	}
	defer a.releaseInstanceLock()

	assetOptions := &assetserver.Options{}
	if a.assets != nil {
		assetOptions.Assets = a.assets
	} else {
		assetOptions.Handler = http.FileServer(http.Dir("./frontend"))
	}

	return wails.Run(&options.App{
		Title:         "PDF Compressor",
		Width:         550,
		Height:        350,
		DisableResize: true,
		AssetServer:   assetOptions,
		OnStartup:     a.Startup,
		OnShutdown: func(ctx context.Context) {
			a.mu.Lock()
			defer a.mu.Unlock()
			a.runtimeCtx = nil
		},
		Bind: []interface{}{a},
	})
}

// Startup stores Wails runtime context and warns when Ghostscript is missing.
func (a *App) Startup(ctx context.Context) {
	a.mu.Lock()
	a.runtimeCtx = ctx
	a.mu.Unlock()

	if status := a.HelperStatus(); !status.Found {
		go a.showDialog(wailsruntime.WarningDialog, "Ghostscript Not Found", helperMissingMessage)
	}
}

// acquireInstanceLock takes a file lock so only one desktop instance runs.
func (a *App) acquireInstanceLock() error {
	dataDir, err := config.DataDir()
	if err != nil {
		return fmt.Errorf("resolve data directory: %w", err)
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("ensure data directory: %w", err)
	}

	lock := flock.New(filepath.Join(dataDir, "app.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire instance lock: %w", err)
	}
	if !locked {
		return errors.New("another instance is already running")
	}

	a.instanceLock = lock
	return nil
}

// releaseInstanceLock drops the single-instance file lock.
func (a *App) releaseInstanceLock() {
	if a.instanceLock != nil {
		_ = a.instanceLock.Unlock()
	}
}

// GetDiagnostics returns the latest cached diagnostics report.
func (a *App) GetDiagnostics() domain.DiagnosticReport {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.Diagnostics
}

// GetSettings loads and returns the latest persisted settings.
func (a *App) GetSettings() (domain.Settings, error) {
	settings, err := a.Store.Load()
	if err != nil {
		return domain.Settings{}, fmt.Errorf("load settings: %w", err)
	}

	a.mu.Lock()
	a.Settings = settings
	a.mu.Unlock()

	return settings, nil
}

// SaveSettings normalizes and persists settings, then refreshes diagnostics.
func (a *App) SaveSettings(settings domain.Settings) (domain.Settings, error) {
	normalized := normalizeSettings(settings)
	if err := a.Store.Save(normalized); err != nil {
		return domain.Settings{}, fmt.Errorf("save settings: %w", err)
	}

	a.mu.Lock()
	a.Settings = normalized
	if a.checker != nil {
		a.Diagnostics = a.checker.Run(normalized)
	}
	a.mu.Unlock()

	return normalized, nil
}

// GetPresets returns quality preset options for the settings UI.
func (a *App) GetPresets() []domain.PresetOption {
	return domain.PresetCatalog()
}

// HelperStatus reports whether Ghostscript is currently resolvable.
func (a *App) HelperStatus() domain.HelperStatus {
	a.mu.Lock()
	override := a.Settings.GhostscriptPath
	a.mu.Unlock()

	path, found := a.resolveHelper(override)
	return domain.HelperStatus{Found: found, Path: path}
}

// PickInputFile opens a native file dialog for PDF selection.
func (a *App) PickInputFile() (string, error) {
	ctx, err := a.runtimeContext()
	if err != nil {
		return "", err
	}

	path, err := wailsruntime.OpenFileDialog(ctx, wailsruntime.OpenDialogOptions{
		Title:   "Select a PDF file",
		Filters: pdfDialogFilter,
	})
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(path), nil
}

// PickOutputFile opens a native save dialog seeded with the default output name.
func (a *App) PickOutputFile(inputPath string) (string, error) {
	ctx, err := a.runtimeContext()
	if err != nil {
		return "", err
	}

	a.mu.Lock()
	defaultDir := a.Settings.OutputDir
	a.mu.Unlock()
	if defaultDir == "" && strings.TrimSpace(inputPath) != "" {
		defaultDir = filepath.Dir(inputPath)
	}

	path, err := wailsruntime.SaveFileDialog(ctx, wailsruntime.SaveDialogOptions{
		Title:            "Save Compressed PDF As...",
		DefaultDirectory: defaultDir,
		DefaultFilename:  compress.DefaultOutputFileName(inputPath),
		Filters:          pdfDialogFilter,
	})
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(path), nil
}

// PickOutputDirectory opens a native directory picker for compressed output.
func (a *App) PickOutputDirectory() (string, error) {
	ctx, err := a.runtimeContext()
	if err != nil {
		return "", err
	}

	path, err := wailsruntime.OpenDirectoryDialog(ctx, wailsruntime.OpenDialogOptions{
		Title: "Select output directory",
	})
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(path), nil
}

// PickHelperExecutable opens a native file dialog for a Ghostscript binary.
func (a *App) PickHelperExecutable() (string, error) {
	ctx, err := a.runtimeContext()
	if err != nil {
		return "", err
	}

	path, err := wailsruntime.OpenFileDialog(ctx, wailsruntime.OpenDialogOptions{
		Title: "Select Ghostscript executable",
	})
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(path), nil
}

// OpenOutputFolder opens the given path (or configured output dir) in file manager.
func (a *App) OpenOutputFolder(path string) error {
	target := strings.TrimSpace(path)
	if target == "" {
		a.mu.Lock()
		target = a.Settings.OutputDir
		a.mu.Unlock()
	}
	if target == "" {
		return fmt.Errorf("output path is empty")
	}

	info, err := os.Stat(target)
	if err != nil {
		return fmt.Errorf("resolve output path: %w", err)
	}

	openPath := target
	if !info.IsDir() {
		openPath = filepath.Dir(target)
	}

	return openInFileManager(openPath)
}

// RefreshDiagnostics reloads settings and reruns dependency checks.
func (a *App) RefreshDiagnostics() (domain.DiagnosticReport, error) {
	settings, err := a.Store.Load()
	if err != nil {
		return domain.DiagnosticReport{}, fmt.Errorf("load settings: %w", err)
	}

	a.mu.Lock()
	a.Settings = settings
	a.Diagnostics = a.checker.Run(settings)
	report := a.Diagnostics
	a.mu.Unlock()

	return report, nil
}

// StartCompression validates the request, creates a job, and runs it asynchronously.
func (a *App) StartCompression(inputPath, outputPath, preset string) (domain.Job, error) {
	settings, err := a.Store.Load()
	if err != nil {
		return domain.Job{}, fmt.Errorf("load settings: %w", err)
	}

	input := strings.TrimSpace(inputPath)
	if input == "" {
		return domain.Job{}, &compress.RunnerError{Kind: compress.ErrorKindInput, Message: "input file is required"}
	}
	info, err := os.Stat(input)
	if err != nil {
		return domain.Job{}, &compress.RunnerError{
			Kind:    compress.ErrorKindInput,
			Message: fmt.Sprintf("input file does not exist: %s", input),
			Err:     err,
		}
	}
	if info.IsDir() {
		return domain.Job{}, &compress.RunnerError{
			Kind:    compress.ErrorKindInput,
			Message: fmt.Sprintf("input path is a directory: %s", input),
		}
	}

	presetName := strings.TrimSpace(preset)
	if presetName == "" {
		presetName = settings.Preset
	}
	parsedPreset, err := domain.ParsePreset(presetName)
	if err != nil {
		return domain.Job{}, &compress.RunnerError{Kind: compress.ErrorKindInput, Message: err.Error(), Err: err}
	}

	output := strings.TrimSpace(outputPath)
	if output == "" {
		if settings.OutputDir != "" {
			output = filepath.Join(settings.OutputDir, compress.DefaultOutputFileName(input))
		} else {
			output = compress.DefaultOutputPath(input)
		}
	}

	helperPath, found := a.resolveHelper(settings.GhostscriptPath)
	if !found {
		a.showDialog(wailsruntime.WarningDialog, "Ghostscript Not Found", helperMissingMessage)
		return domain.Job{}, &compress.RunnerError{
			Kind:    compress.ErrorKindConfig,
			Message: "Ghostscript is required for PDF compression but could not be found.",
		}
	}

	job := domain.Job{
		ID:         uuid.NewString(),
		InputPath:  input,
		OutputPath: output,
		Preset:     parsedPreset,
	}
	if err := a.Jobs.Start(job); err != nil {
		return domain.Job{}, err
	}

	a.mu.Lock()
	a.activeJobID = job.ID
	a.Settings = settings
	a.mu.Unlock()

	a.publishStatus(job.ID, domain.JobStatusRunning, "Job started")

	go a.runCompressionJob(job, helperPath)
	return a.Jobs.Current(), nil
}

// CurrentJob returns current job metadata and status.
func (a *App) CurrentJob() domain.Job {
	return a.Jobs.Current()
}

// JobEvents returns all events with sequence greater than sinceSeq.
func (a *App) JobEvents(sinceSeq int64) []jobs.Event {
	return a.events.Since(sinceSeq)
}

// RecentHistory returns the latest recorded compressions, newest first.
func (a *App) RecentHistory(limit int) ([]history.Entry, error) {
	if a.History == nil {
		return nil, nil
	}
	return a.History.Recent(context.Background(), limit)
}

// ClearHistory removes all recorded compressions.
func (a *App) ClearHistory() error {
	if a.History == nil {
		return nil
	}
	return a.History.Clear(context.Background())
}

// runCompressionJob executes the runner and maps outcomes to job events.
func (a *App) runCompressionJob(job domain.Job, helperPath string) {
	req := compress.Request{
		HelperPath: helperPath,
		InputPath:  job.InputPath,
		OutputPath: job.OutputPath,
		Preset:     job.Preset,
		OnLog: func(log compress.CommandLog) {
			a.publishEvent(jobs.Event{
				JobID:    job.ID,
				Type:     jobs.EventTypeLog,
				Message:  "Command completed",
				Command:  log.Command,
				Args:     log.Args,
				ExitCode: log.ExitCode,
				Stdout:   log.Stdout,
				Stderr:   log.Stderr,
			})
		},
	}

	result, err := a.Runner.Run(context.Background(), req)
	if err != nil {
		_ = a.Jobs.Transition(domain.JobStatusFailed)
		a.publishStatus(job.ID, domain.JobStatusFailed, "Job failed")

		message := err.Error()
		dialogMessage := message
		var runnerErr *compress.RunnerError
		if errors.As(err, &runnerErr) {
			message = runnerErr.Message
			dialogMessage = message
			if runnerErr.Kind == compress.ErrorKindProcess {
				dialogMessage = "Ghostscript Error:\n" + message
			}
		}
		a.publishEvent(jobs.Event{
			JobID:   job.ID,
			Type:    jobs.EventTypeError,
			Status:  domain.JobStatusFailed,
			Message: message,
		})

		if runnerErr != nil && runnerErr.CommandLog.Command != "" {
			a.publishEvent(jobs.Event{
				JobID:    job.ID,
				Type:     jobs.EventTypeLog,
				Message:  "Failed command",
				Command:  runnerErr.CommandLog.Command,
				Args:     runnerErr.CommandLog.Args,
				ExitCode: runnerErr.CommandLog.ExitCode,
				Stdout:   runnerErr.CommandLog.Stdout,
				Stderr:   runnerErr.CommandLog.Stderr,
			})
		}

		a.showDialog(wailsruntime.ErrorDialog, "Compression Failed", "An error occurred during compression:\n\n"+dialogMessage)
		a.clearActiveJob(job.ID)
		return
	}

	if err := a.Jobs.Transition(domain.JobStatusDone); err == nil {
		a.publishStatus(job.ID, domain.JobStatusDone, "Job completed")
	}
	a.publishEvent(jobs.Event{
		JobID:               job.ID,
		Type:                jobs.EventTypeResult,
		Status:              domain.JobStatusDone,
		Message:             "Compression successful!",
		OutputPath:          job.OutputPath,
		OriginalSizeBytes:   result.OriginalSizeBytes,
		CompressedSizeBytes: result.CompressedSizeBytes,
	})

	a.recordHistory(job, result)
	a.showDialog(wailsruntime.InfoDialog, "Success", successMessage(result))
	a.clearActiveJob(job.ID)
}

// recordHistory appends the finished job to the history store, best effort.
func (a *App) recordHistory(job domain.Job, result compress.Result) {
	if a.History == nil {
		return
	}

	entry := history.Entry{
		JobID:               job.ID,
		InputPath:           job.InputPath,
		OutputPath:          job.OutputPath,
		Preset:              string(job.Preset),
		OriginalSizeBytes:   result.OriginalSizeBytes,
		CompressedSizeBytes: result.CompressedSizeBytes,
	}
	if _, err := a.History.Append(context.Background(), entry); err != nil {
		a.publishEvent(jobs.Event{
			JobID:   job.ID,
			Type:    jobs.EventTypeError,
			Message: fmt.Sprintf("record history: %v", err),
		})
	}
}

// successMessage formats the completion dialog body with sizes and reduction.
func successMessage(result compress.Result) string {
	return fmt.Sprintf(
		"PDF compressed successfully!\n\nOriginal Size: %.2f MB\nCompressed Size: %.2f MB\nReduction: %.1f%%",
		result.OriginalMB(),
		result.CompressedMB(),
		result.ReductionPercent(),
	)
}

// publishStatus sends a normalized status event.
func (a *App) publishStatus(jobID string, status domain.JobStatus, message string) {
	a.publishEvent(jobs.Event{
		JobID:   jobID,
		Type:    jobs.EventTypeStatus,
		Status:  status,
		Message: message,
	})
}

// publishEvent stores event history and emits runtime push notifications.
func (a *App) publishEvent(event jobs.Event) {
	published := a.events.Publish(event)

	a.mu.Lock()
	ctx := a.runtimeCtx
	a.mu.Unlock()
	if ctx != nil {
		wailsruntime.EventsEmit(ctx, "job:event", published)
	}
}

// showDialog displays a native message dialog when the runtime is available.
func (a *App) showDialog(dialogType wailsruntime.DialogType, title, message string) {
	if a.dialog != nil {
		a.dialog(dialogType, title, message)
		return
	}

	a.mu.Lock()
	ctx := a.runtimeCtx
	a.mu.Unlock()
	if ctx == nil {
		return
	}

	_, _ = wailsruntime.MessageDialog(ctx, wailsruntime.MessageDialogOptions{
		Type:    dialogType,
		Title:   title,
		Message: message,
	})
}

// clearActiveJob clears bookkeeping for completed job IDs.
func (a *App) clearActiveJob(jobID string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.activeJobID == jobID {
		a.activeJobID = ""
	}
}

// resolveHelper locates Ghostscript honoring a configured override path.
func (a *App) resolveHelper(override string) (string, bool) {
	if a.locate == nil {
		return "", false
	}
	return a.locate(override)
}

// runtimeContext returns current Wails runtime context for dialog APIs.
func (a *App) runtimeContext() (context.Context, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.runtimeCtx == nil {
		return nil, fmt.Errorf("runtime context is not initialized")
	}
	return a.runtimeCtx, nil
}

// normalizeSettings trims user inputs and applies the default preset when empty.
func normalizeSettings(settings domain.Settings) domain.Settings {
	settings.Preset = strings.ToLower(strings.TrimSpace(settings.Preset))
	settings.OutputDir = strings.TrimSpace(settings.OutputDir)
	settings.GhostscriptPath = strings.TrimSpace(settings.GhostscriptPath)
	if settings.Preset == "" {
		settings.Preset = string(domain.DefaultPreset)
	}
	return settings
}

// openInFileManager launches the platform file explorer for the provided path.
func openInFileManager(path string) error {
	var cmd *exec.Cmd
	switch goruntime.GOOS {
	case "darwin":
		cmd = exec.Command("open", path)
	case "windows":
		cmd = exec.Command("explorer", filepath.Clean(path))
	default:
		cmd = exec.Command("xdg-open", path)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("launch file manager: %w", err)
	}
	return nil
}
