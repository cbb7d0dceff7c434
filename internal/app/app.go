// Package app implements the application layer for xform.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.trai.ch/xform/internal/adapters/detector"           //nolint:depguard // Wired in app layer
	"go.trai.ch/xform/internal/adapters/telemetry/progrock" //nolint:depguard // Wired in app layer
	"go.trai.ch/xform/internal/adapters/tui"                //nolint:depguard // Wired in app layer
	"go.trai.ch/xform/internal/core/domain"
	"go.trai.ch/xform/internal/core/ports"
	"go.trai.ch/xform/internal/engine/flight"
	"go.trai.ch/zerr"
)

// LevelSetter is implemented by loggers whose verbosity follows the project settings.
type LevelSetter interface {
	SetLevel(level domain.LogLevel)
}

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	resolvers    ports.ConfigResolverProvider
	stores       ports.StoreProvider
	hasher       ports.Hasher
	inputs       ports.InputResolver
	watchers     ports.WatcherFactory
	flights      *flight.Group[*domain.Artifact]
	telemetry    ports.Telemetry
	logger       ports.Logger
	compiler     ports.Compiler
	launcher     ports.CompilerLauncher
	analyzers    []ports.Analyzer
	teaOptions   []tea.ProgramOption
}

// New creates a new App instance. compiler is the in-process compiler;
// launcher builds the external one when a project asks for it. flights and
// resolvers are shared by every worker the App creates.
func New(
	loader ports.ConfigLoader,
	resolvers ports.ConfigResolverProvider,
	stores ports.StoreProvider,
	hasher ports.Hasher,
	inputs ports.InputResolver,
	watchers ports.WatcherFactory,
	flights *flight.Group[*domain.Artifact],
	tel ports.Telemetry,
	log ports.Logger,
	compiler ports.Compiler,
	launcher ports.CompilerLauncher,
	analyzers ...ports.Analyzer,
) *App {
	return &App{
		configLoader: loader,
		resolvers:    resolvers,
		stores:       stores,
		hasher:       hasher,
		inputs:       inputs,
		watchers:     watchers,
		flights:      flights,
		telemetry:    tel,
		logger:       log,
		compiler:     compiler,
		launcher:     launcher,
		analyzers:    analyzers,
	}
}

// WithTeaOptions adds bubbletea program options to the progress view.
// This is primarily used for testing to disable input/output.
func (a *App) WithTeaOptions(opts ...tea.ProgramOption) *App {
	a.teaOptions = append(a.teaOptions, opts...)
	return a
}

// LoadOptions selects the project to work on.
type LoadOptions struct {
	// Cwd is the directory discovery starts from. Empty means the process working directory.
	Cwd string
	// ConfigPath skips discovery when set. Relative paths are taken from Cwd.
	ConfigPath string
	// Verbose keeps debug logging regardless of the project's log level.
	Verbose bool
}

// LoadProject loads the project configuration and applies its log level.
func (a *App) LoadProject(opts LoadOptions) (*domain.Project, error) {
	cwd, err := workingDir(opts.Cwd)
	if err != nil {
		return nil, err
	}

	var project *domain.Project
	if configPath := opts.ConfigPath; configPath != "" {
		if !filepath.IsAbs(configPath) {
			configPath = filepath.Join(cwd, configPath)
		}
		project, err = a.configLoader.LoadFile(cwd, configPath)
	} else {
		project, err = a.configLoader.Load(cwd)
	}
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load configuration")
	}

	if ls, ok := a.logger.(LevelSetter); ok && !opts.Verbose {
		ls.SetLevel(project.LogLevel)
	}
	return project, nil
}

func workingDir(dir string) (string, error) {
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", zerr.Wrap(err, "failed to get working directory")
		}
		return wd, nil
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to resolve working directory"), "dir", dir)
	}
	return abs, nil
}

// NewWorker builds a worker for project reporting to tel.
func (a *App) NewWorker(project *domain.Project, tel ports.Telemetry) (*Worker, error) {
	compiler, err := a.compilerFor(project.Compiler)
	if err != nil {
		return nil, err
	}

	store, err := a.stores.ForRoot(project.CacheDir)
	if err != nil {
		return nil, err
	}

	resolver := a.resolvers.ForProject(project)
	return NewWorker(project, compiler, store, a.hasher, a.flights, resolver, tel, a.logger, a.analyzers...), nil
}

func (a *App) compilerFor(cfg domain.CompilerConfig) (ports.Compiler, error) {
	switch cfg.Kind {
	case "", domain.CompilerEsbuild:
		return a.compiler, nil
	case domain.CompilerShell:
		return a.launcher.Launch(cfg.Command, cfg.Env), nil
	default:
		return nil, zerr.With(domain.ErrUnknownCompiler, "kind", string(cfg.Kind))
	}
}

// TransformOptions configuration for the Transform method.
type TransformOptions struct {
	LoadOptions
	// Inputs are files, directories or globs relative to the working directory.
	Inputs []string
	// OutDir receives <rel>.js and <rel>.js.map for every file. Empty writes nothing.
	OutDir string
	// Progress is auto, tui or plain.
	Progress string
}

// Report summarizes a transform run.
type Report struct {
	Project *domain.Project
	Files   []FileResult
}

// Failed returns the number of files that could not be transformed.
func (r *Report) Failed() int {
	n := 0
	for _, f := range r.Files {
		if f.Err != nil {
			n++
		}
	}
	return n
}

// Transform transforms the input files of the project.
// When any file fails the report is still returned together with an error
// matching domain.ErrTransformFailed.
func (a *App) Transform(ctx context.Context, opts TransformOptions) (*Report, error) {
	project, err := a.LoadProject(opts.LoadOptions)
	if err != nil {
		return nil, err
	}

	cwd, err := workingDir(opts.Cwd)
	if err != nil {
		return nil, err
	}
	files, err := a.inputs.ResolveInputs(opts.Inputs, cwd)
	if err != nil {
		return nil, err
	}

	tel := a.telemetry
	var feed *tui.Feed
	if detector.ResolveMode(detector.DetectEnvironment(os.Stderr), opts.Progress) == detector.ModeTUI {
		feed = tui.NewFeed()
		tel = progrock.NewRecorder(feed)
	}

	worker, err := a.NewWorker(project, tel)
	if err != nil {
		return nil, err
	}
	worker.SourceMaps = opts.OutDir != ""

	a.logger.Debug(fmt.Sprintf("transforming %d files with %s", len(files), worker.compiler.Name()))
	var results []FileResult
	if feed == nil {
		results = worker.TransformFiles(ctx, files)
	} else {
		results = a.withProgress(ctx, feed, tel, func() []FileResult {
			return worker.TransformFiles(ctx, files)
		})
	}
	return finishReport(project, results, opts.OutDir)
}

// finishReport writes outputs and folds per-file failures into one error.
func finishReport(project *domain.Project, results []FileResult, outDir string) (*Report, error) {
	if outDir != "" {
		writeOutputs(outDir, results)
	}

	report := &Report{Project: project, Files: results}
	var errs []error
	for _, f := range report.Files {
		if f.Err != nil {
			errs = append(errs, f.Err)
		}
	}
	if len(errs) > 0 {
		return report, errors.Join(append([]error{domain.ErrTransformFailed}, errs...)...)
	}
	return report, nil
}

// withProgress shows the progress view while run executes.
// Closing tel ends the feed, which lets the view exit on its own.
func (a *App) withProgress(ctx context.Context, feed *tui.Feed, tel ports.Telemetry, run func() []FileResult) []FileResult {
	teaOpts := append([]tea.ProgramOption{tea.WithContext(ctx), tea.WithOutput(os.Stderr)}, a.teaOptions...)
	renderer := tui.NewRenderer(feed, teaOpts...)
	if err := renderer.Start(ctx); err != nil {
		a.logger.Warn("progress view unavailable: " + err.Error())
		_ = tel.Close()
		return run()
	}

	results := run()

	_ = tel.Close()
	if err := renderer.Wait(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		a.logger.Warn("progress view failed: " + err.Error())
	}
	return results
}

// CleanOptions configuration for the Clean method.
type CleanOptions struct {
	LoadOptions
	// OlderThan removes only entries not written within the duration. Zero removes everything.
	OlderThan time.Duration
}

// Clean removes cache entries of the project and returns how many were pruned.
// A full clean reports zero.
func (a *App) Clean(ctx context.Context, opts CleanOptions) (int, error) {
	project, err := a.LoadProject(opts.LoadOptions)
	if err != nil {
		return 0, err
	}

	store, err := a.stores.ForRoot(project.CacheDir)
	if err != nil {
		return 0, err
	}

	if opts.OlderThan > 0 {
		a.logger.Info(fmt.Sprintf("pruning entries older than %s from %s", opts.OlderThan, project.CacheDir))
		return store.Prune(ctx, opts.OlderThan)
	}

	a.logger.Info("removing " + project.CacheDir + "...")
	if err := store.Clean(ctx); err != nil {
		return 0, err
	}
	a.logger.Info("removed " + project.CacheDir)
	return 0, nil
}
