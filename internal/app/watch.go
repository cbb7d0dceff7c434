package app

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"go.trai.ch/xform/internal/adapters/fs"      //nolint:depguard // Wired in app layer
	"go.trai.ch/xform/internal/adapters/watcher" //nolint:depguard // Wired in app layer
)

// WatchOptions configuration for the Watch method.
type WatchOptions struct {
	TransformOptions
	// Debounce is the quiet period after the last change before transforming again.
	// Zero uses watcher.DefaultDebounceWindow.
	Debounce time.Duration
}

// Watch transforms the inputs once and again after every burst of source changes
// below the project root, until ctx is done. Every run is passed to onRun,
// failed runs included. Unchanged files are served from the store.
func (a *App) Watch(ctx context.Context, opts WatchOptions, onRun func(*Report, error)) error {
	project, err := a.LoadProject(opts.LoadOptions)
	if err != nil {
		return err
	}
	cwd, err := workingDir(opts.Cwd)
	if err != nil {
		return err
	}

	worker, err := a.NewWorker(project, a.telemetry)
	if err != nil {
		return err
	}
	worker.SourceMaps = opts.OutDir != ""

	ignore := []string{project.CacheDir}
	if opts.OutDir != "" {
		outDir := opts.OutDir
		if !filepath.IsAbs(outDir) {
			outDir = filepath.Join(cwd, outDir)
		}
		ignore = append(ignore, outDir)
	}

	w := a.watchers.NewWatcher()
	if err := w.Start(ctx, project.Root, ignore); err != nil {
		return err
	}
	defer func() { _ = w.Stop() }()

	run := func() {
		files, err := a.inputs.ResolveInputs(opts.Inputs, cwd)
		if err != nil {
			onRun(nil, err)
			return
		}
		onRun(finishReport(project, worker.TransformFiles(ctx, files), opts.OutDir))
	}

	window := opts.Debounce
	if window <= 0 {
		window = watcher.DefaultDebounceWindow
	}
	// One queued run covers every change made before it starts.
	changes := make(chan []string, 1)
	debouncer := watcher.NewDebouncer(window, func(paths []string) {
		select {
		case changes <- paths:
		default:
		}
	})
	go func() {
		for ev := range w.Events() {
			if fs.IsSourceFile(ev.Path) {
				debouncer.Add(ev.Path)
			}
		}
	}()

	a.logger.Info("watching " + project.Root)
	run()
	for {
		select {
		case <-ctx.Done():
			return nil
		case paths := <-changes:
			a.logger.Info(fmt.Sprintf("%d source files changed", len(paths)))
			run()
		}
	}
}
