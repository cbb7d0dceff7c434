package app

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"

	"go.trai.ch/xform/internal/core/domain"
	"go.trai.ch/xform/internal/core/ports"
	"go.trai.ch/xform/internal/engine/flight"
	"go.trai.ch/xform/internal/engine/transform"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// overridable matches the files overrides may apply to.
var overridable = regexp.MustCompile(`\.(mjs|js|jsx)$`)

// Worker serves transform requests for one project.
type Worker struct {
	project   *domain.Project
	resolver  ports.ConfigResolver
	compiler  ports.Compiler
	store     ports.ArtifactStore
	hasher    ports.Hasher
	executor  *transform.Executor
	flights   *flight.Group[*domain.Artifact]
	telemetry ports.Telemetry
	logger    ports.Logger
	loader    domain.LoaderOptions

	// SourceMaps requests source maps for files transformed by TransformFiles.
	SourceMaps bool
}

// NewWorker creates a Worker. Workers that share flights never compute the same
// key concurrently. Analyzers run after every compile and never affect cache keys.
func NewWorker(
	project *domain.Project,
	compiler ports.Compiler,
	store ports.ArtifactStore,
	hasher ports.Hasher,
	flights *flight.Group[*domain.Artifact],
	resolver ports.ConfigResolver,
	tel ports.Telemetry,
	log ports.Logger,
	analyzers ...ports.Analyzer,
) *Worker {
	overrideUIDs := make([]string, len(project.Overrides))
	for i, o := range project.Overrides {
		overrideUIDs[i] = hasher.ConfigUID(o)
	}

	return &Worker{
		project:   project,
		resolver:  resolver,
		compiler:  compiler,
		store:     store,
		hasher:    hasher,
		executor:  transform.NewExecutor(compiler, analyzers...),
		flights:   flights,
		telemetry: tel,
		logger:    log,
		loader: domain.LoaderOptions{
			ConfigCacheKey:   hasher.ConfigUID(project.Config),
			Config:           project.Config,
			OverrideCacheKey: strings.Join(overrideUIDs, "+"),
			Overrides:        project.Overrides,
		},
	}
}

// Transform returns the artifact for req, serving it from the store when possible.
// Concurrent requests for the same cache key share one computation. The returned
// artifact belongs to the caller; nil means the compiler produced nothing.
func (w *Worker) Transform(ctx context.Context, req domain.Request) (*domain.Artifact, error) {
	if req.CacheKey == "" {
		return nil, domain.ErrEmptyCacheKey
	}

	opts, err := w.Options(req)
	if err != nil {
		return nil, err
	}

	ctx, vertex := w.telemetry.Record(ctx, opts.SourceFileName)

	ran := false
	outcome := domain.OutcomeCached
	artifact, _, err := w.flights.Do(ctx, req.CacheKey, func(ctx context.Context) (*domain.Artifact, error) {
		ran = true
		return w.store.Get(ctx, req.CacheKey, func(ctx context.Context) (*domain.Artifact, error) {
			outcome = domain.OutcomeCompiled
			return w.executor.Execute(ctx, req.Source, opts)
		})
	})

	switch {
	case err != nil:
		outcome = domain.OutcomeFailed
	case !ran:
		outcome = domain.OutcomeShared
	case artifact == nil:
		outcome = domain.OutcomeEmpty
	}

	if outcome == domain.OutcomeCached {
		vertex.Cached()
	}
	vertex.Complete(err)
	w.logger.Debug(fmt.Sprintf("%s: %s", opts.SourceFileName, outcome))

	if err != nil {
		return nil, err
	}
	return artifact.Clone(), nil
}

// Options resolves the compile options for req.
//
// The base configuration is resolved under Loader.ConfigCacheKey and override i
// under "<Loader.OverrideCacheKey>#<i>". Overrides apply to .mjs, .js and .jsx
// files whose transform mode is "all".
func (w *Worker) Options(req domain.Request) (*domain.CompileOptions, error) {
	base, err := w.resolver.Resolve(req.Loader.ConfigCacheKey, req.Loader.Config)
	if err != nil {
		return nil, domain.NewConfigResolutionError(err)
	}
	data := base.Data

	if len(req.Loader.Overrides) > 0 {
		apply, err := w.overridesApply(req.Filename)
		if err != nil {
			return nil, domain.NewConfigResolutionError(err)
		}
		for i, over := range req.Loader.Overrides {
			uid := ""
			if req.Loader.OverrideCacheKey != "" {
				uid = fmt.Sprintf("%s#%d", req.Loader.OverrideCacheKey, i)
			}
			resolved, err := w.resolver.Resolve(uid, over)
			if err != nil {
				return nil, domain.NewConfigResolutionError(err)
			}
			if apply {
				data = data.Merge(resolved.Data)
			}
		}
	}

	root := req.RootContext
	if root == "" {
		root = w.project.Root
	}

	opts := data.Options(req.Filename)
	opts.SourceFileName = domain.RelativePath(root, req.Filename)
	opts.SourceRoot = root
	opts.SourceMaps = req.SourceMaps
	opts.InputSourceMap = req.InputSourceMap
	return &opts, nil
}

func (w *Worker) overridesApply(filename string) (bool, error) {
	if !overridable.MatchString(filename) {
		return false, nil
	}
	mode, err := w.project.TransformModeFor(filename)
	if err != nil {
		return false, err
	}
	return mode == domain.TransformAll, nil
}

// FileResult is the outcome of transforming one file.
type FileResult struct {
	Path     string
	Rel      string
	Artifact *domain.Artifact
	Output   string
	Err      error
}

// TransformFiles transforms paths with at most Project.Concurrency files in flight.
// Failures are recorded per file; results keep the order of paths.
func (w *Worker) TransformFiles(ctx context.Context, paths []string) []FileResult {
	results := make([]FileResult, len(paths))

	var g errgroup.Group
	g.SetLimit(max(w.project.Concurrency, 1))
	for i, path := range paths {
		g.Go(func() error {
			results[i] = w.transformFile(ctx, path)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func (w *Worker) transformFile(ctx context.Context, path string) FileResult {
	res := FileResult{Path: path, Rel: domain.RelativePath(w.project.Root, path)}
	if err := ctx.Err(); err != nil {
		res.Err = err
		return res
	}

	source, err := os.ReadFile(path)
	if err != nil {
		res.Err = zerr.With(zerr.Wrap(err, domain.ErrFileOpenFailed.Error()), "path", path)
		return res
	}

	req := domain.Request{
		Source:      string(source),
		Filename:    path,
		Loader:      w.loader,
		RootContext: w.project.Root,
		SourceMaps:  w.SourceMaps,
	}
	opts, err := w.Options(req)
	if err != nil {
		res.Err = err
		return res
	}
	req.CacheKey = w.hasher.CacheKey(path, source, opts, w.compiler.Name())

	res.Artifact, res.Err = w.Transform(ctx, req)
	return res
}
