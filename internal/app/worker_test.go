package app_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"testing/synctest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/xform/internal/adapters/cas"
	"go.trai.ch/xform/internal/adapters/config"
	"go.trai.ch/xform/internal/adapters/esbuild"
	"go.trai.ch/xform/internal/adapters/fs"
	"go.trai.ch/xform/internal/adapters/i18n"
	"go.trai.ch/xform/internal/adapters/telemetry/progrock"
	"go.trai.ch/xform/internal/app"
	"go.trai.ch/xform/internal/core/domain"
	"go.trai.ch/xform/internal/core/ports"
	"go.trai.ch/xform/internal/core/ports/mocks"
	"go.trai.ch/xform/internal/engine/flight"
	"go.uber.org/mock/gomock"
)

func quietLogger(ctrl *gomock.Controller) *mocks.MockLogger {
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Debug(gomock.Any()).AnyTimes()
	return log
}

func testProject(root string) *domain.Project {
	return &domain.Project{
		Root:        root,
		CacheDir:    filepath.Join(root, "node_modules", ".xform-cache"),
		Compiler:    domain.CompilerConfig{Kind: domain.CompilerEsbuild},
		Concurrency: 4,
		LogLevel:    domain.LogLevelInfo,
	}
}

func request(root, rel, source, key string) domain.Request {
	return domain.Request{
		Source:      source,
		CacheKey:    key,
		Filename:    filepath.Join(root, rel),
		RootContext: root,
	}
}

// newWorker builds a worker with its own flight group and resolver.
func newWorker(
	project *domain.Project,
	compiler ports.Compiler,
	store ports.ArtifactStore,
	tel ports.Telemetry,
	log ports.Logger,
	analyzers ...ports.Analyzer,
) *app.Worker {
	return app.NewWorker(project, compiler, store, fs.NewHasher(),
		flight.New[*domain.Artifact](), config.NewResolver(project.Presets), tel, log, analyzers...)
}

func esbuildWorker(t *testing.T, project *domain.Project, log ports.Logger) (*app.Worker, *cas.Store) {
	t.Helper()
	store := cas.NewStore(project.CacheDir, log)
	return newWorker(project, esbuild.New(), store, progrock.Noop{}, log, i18n.NewExtractor()), store
}

func TestWorker_Transform_RoundTrip(t *testing.T) {
	ctrl := gomock.NewController(t)
	root := t.TempDir()
	w, store := esbuildWorker(t, testProject(root), quietLogger(ctrl))

	artifact, err := w.Transform(t.Context(), request(root, "src/a.js", "const x=1;", "k1"))
	require.NoError(t, err)
	require.NotNil(t, artifact)
	assert.Equal(t, "const x = 1;\n", artifact.Code)
	assert.Equal(t, domain.SourceTypeModule, artifact.SourceType)
	assert.Equal(t, domain.Metadata{}, artifact.Metadata)

	stored, err := store.Load("k1")
	require.NoError(t, err)
	assert.Equal(t, artifact, stored)
}

func TestWorker_Transform_MalformedSourceIsNotStored(t *testing.T) {
	ctrl := gomock.NewController(t)
	root := t.TempDir()
	w, store := esbuildWorker(t, testProject(root), quietLogger(ctrl))

	artifact, err := w.Transform(t.Context(), request(root, "src/bad.js", "1+", "bad1"))
	require.Error(t, err)
	assert.Nil(t, artifact)
	assert.True(t, domain.IsKind(err, domain.KindSyntax))
	assert.True(t, strings.HasPrefix(err.Error(), "SyntaxError: "), err.Error())
	assert.NotContains(t, err.Error(), "src/bad.js: ", "filename prefix is stripped")
	assert.Contains(t, err.Error(), "\n\n> 1 | 1+\n")
	assert.Equal(t, err.Error(), fmt.Sprintf("%+v", err), "syntax errors hide the trace")

	_, err = store.Load("bad1")
	require.ErrorIs(t, err, domain.ErrCacheMiss)
}

func TestWorker_Transform_HitMatchesMiss(t *testing.T) {
	ctrl := gomock.NewController(t)
	root := t.TempDir()
	w, _ := esbuildWorker(t, testProject(root), quietLogger(ctrl))

	miss, err := w.Transform(t.Context(), request(root, "src/a.js", "translate('hello');", "k-tr"))
	require.NoError(t, err)
	hit, err := w.Transform(t.Context(), request(root, "src/a.js", "translate('hello');", "k-tr"))
	require.NoError(t, err)

	assert.Equal(t, miss, hit)
	assert.Equal(t, []string{"hello"}, hit.TranslationIDs())
}

func TestWorker_Transform_EmptyKey(t *testing.T) {
	ctrl := gomock.NewController(t)
	root := t.TempDir()
	w, _ := esbuildWorker(t, testProject(root), quietLogger(ctrl))

	_, err := w.Transform(t.Context(), request(root, "src/a.js", "x", ""))
	require.ErrorIs(t, err, domain.ErrEmptyCacheKey)
}

func TestWorker_Transform_ServedFromStoreAcrossWorkers(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := quietLogger(ctrl)
	root := t.TempDir()
	project := testProject(root)

	compiler := mocks.NewMockCompiler(ctrl)
	compiler.EXPECT().Compile(gomock.Any(), "const x=1;", gomock.Any()).
		Return(&domain.CompileResult{Code: "const x=1;"}, nil).
		Times(1)

	first := newWorker(project, compiler, cas.NewStore(project.CacheDir, log), progrock.Noop{}, log)
	_, err := first.Transform(t.Context(), request(root, "src/a.js", "const x=1;", "k1"))
	require.NoError(t, err)

	tel := mocks.NewMockTelemetry(ctrl)
	vertex := mocks.NewMockVertex(ctrl)
	tel.EXPECT().Record(gomock.Any(), "src/a.js").DoAndReturn(
		func(ctx context.Context, _ string, _ ...ports.VertexOption) (context.Context, ports.Vertex) {
			return ctx, vertex
		})
	vertex.EXPECT().Cached()
	vertex.EXPECT().Complete(nil)

	second := newWorker(project, compiler, cas.NewStore(project.CacheDir, log), tel, log)
	artifact, err := second.Transform(t.Context(), request(root, "src/a.js", "const x=1;", "k1"))
	require.NoError(t, err)
	assert.Equal(t, "const x=1;", artifact.Code)
}

func TestWorker_Transform_NullIsNotCached(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := quietLogger(ctrl)
	root := t.TempDir()
	project := testProject(root)

	compiler := mocks.NewMockCompiler(ctrl)
	compiler.EXPECT().Compile(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil).Times(2)

	w := newWorker(project, compiler, cas.NewStore(project.CacheDir, log), progrock.Noop{}, log)
	for range 2 {
		artifact, err := w.Transform(t.Context(), request(root, "src/empty.js", "", "k-empty"))
		require.NoError(t, err)
		assert.Nil(t, artifact)
	}
}

func TestWorker_Transform_SingleFlight(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		ctrl := gomock.NewController(t)
		log := quietLogger(ctrl)
		root := t.TempDir()
		project := testProject(root)
		release := make(chan struct{})

		compiler := mocks.NewMockCompiler(ctrl)
		compiler.EXPECT().Compile(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(context.Context, string, *domain.CompileOptions) (*domain.CompileResult, error) {
				<-release
				return &domain.CompileResult{Code: "shared();"}, nil
			}).
			Times(1)

		w := newWorker(project, compiler, cas.NewStore(project.CacheDir, log), progrock.Noop{}, log)

		const n = 8
		results := make([]*domain.Artifact, n)
		errs := make([]error, n)
		var wg sync.WaitGroup

		wg.Add(1)
		go func() {
			defer wg.Done()
			results[0], errs[0] = w.Transform(t.Context(), request(root, "src/a.js", "shared()", "k-shared"))
		}()
		synctest.Wait()

		for i := 1; i < n; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				results[i], errs[i] = w.Transform(t.Context(), request(root, "src/a.js", "shared()", "k-shared"))
			}()
		}
		synctest.Wait()

		close(release)
		wg.Wait()

		for i := range n {
			require.NoError(t, errs[i])
			assert.Equal(t, "shared();", results[i].Code)
		}
		assert.NotSame(t, results[0], results[1], "every caller owns its artifact")
	})
}

func TestWorker_Transform_SharedFlightsAcrossWorkers(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		ctrl := gomock.NewController(t)
		log := quietLogger(ctrl)
		root := t.TempDir()
		project := testProject(root)
		release := make(chan struct{})

		compiler := mocks.NewMockCompiler(ctrl)
		compiler.EXPECT().Compile(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(context.Context, string, *domain.CompileOptions) (*domain.CompileResult, error) {
				<-release
				return &domain.CompileResult{Code: "once();"}, nil
			}).
			Times(1)

		provider := cas.NewProvider(log)
		store, err := provider.ForRoot(project.CacheDir)
		require.NoError(t, err)
		flights := flight.New[*domain.Artifact]()
		resolver := config.NewResolver(project.Presets)
		workers := []*app.Worker{
			app.NewWorker(project, compiler, store, fs.NewHasher(), flights, resolver, progrock.Noop{}, log),
			app.NewWorker(project, compiler, store, fs.NewHasher(), flights, resolver, progrock.Noop{}, log),
		}

		results := make([]*domain.Artifact, len(workers))
		errs := make([]error, len(workers))
		var wg sync.WaitGroup

		wg.Add(1)
		go func() {
			defer wg.Done()
			results[0], errs[0] = workers[0].Transform(t.Context(), request(root, "src/a.js", "once()", "k"))
		}()
		synctest.Wait()
		require.True(t, flights.Pending("k"))

		wg.Add(1)
		go func() {
			defer wg.Done()
			results[1], errs[1] = workers[1].Transform(t.Context(), request(root, "src/a.js", "once()", "k"))
		}()
		synctest.Wait()

		close(release)
		wg.Wait()

		for i := range workers {
			require.NoError(t, errs[i])
			assert.Equal(t, "once();", results[i].Code)
		}
	})
}

func TestWorker_Options_SourceFileName(t *testing.T) {
	ctrl := gomock.NewController(t)
	w, _ := esbuildWorker(t, testProject("/repo/app"), quietLogger(ctrl))

	opts, err := w.Options(domain.Request{Filename: "/repo/app/src/main.js", SourceMaps: true})
	require.NoError(t, err)
	assert.Equal(t, "src/main.js", opts.SourceFileName)
	assert.Equal(t, "/repo/app", opts.SourceRoot)
	assert.True(t, opts.SourceMaps)

	opts, err = w.Options(domain.Request{Filename: "/tmp/gen.js", RootContext: "/repo/app"})
	require.NoError(t, err)
	assert.Equal(t, "/tmp/gen.js", opts.SourceFileName)
}

func TestWorker_Options_Overrides(t *testing.T) {
	loader := domain.LoaderOptions{
		ConfigCacheKey:   "base",
		Config:           domain.ConfigData{Target: "es2017"},
		OverrideCacheKey: "overrides",
		Overrides:        []domain.ConfigData{{Target: "es2020"}, {JSXFactory: "h"}},
	}

	tests := []struct {
		name       string
		file       string
		rules      []domain.TransformRule
		wantTarget string
		wantJSX    string
		wantErr    bool
	}{
		{name: "source dir defaults to all", file: "src/a.js", wantTarget: "es2020", wantJSX: "h"},
		{name: "jsx and mjs qualify", file: "src/a.mjs", wantTarget: "es2020", wantJSX: "h"},
		{name: "outside src defaults to spec", file: "lib/a.js", wantTarget: "es2017"},
		{name: "typescript never qualifies", file: "src/a.ts", wantTarget: "es2017"},
		{
			name:       "rule selects none",
			file:       "src/legacy/a.js",
			rules:      []domain.TransformRule{{Match: "src/legacy/**", Transform: "none"}},
			wantTarget: "es2017",
		},
		{
			name:       "rule selects all",
			file:       "lib/a.jsx",
			rules:      []domain.TransformRule{{Match: "lib/*.jsx", Transform: "all"}},
			wantTarget: "es2020",
			wantJSX:    "h",
		},
		{
			name:    "unknown mode fails",
			file:    "src/a.js",
			rules:   []domain.TransformRule{{Match: "src/*.js", Transform: "everything"}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			project := testProject("/repo")
			project.Rules = tt.rules
			w, _ := esbuildWorker(t, project, quietLogger(ctrl))

			opts, err := w.Options(domain.Request{Filename: "/repo/" + tt.file, Loader: loader})
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, domain.IsKind(err, domain.KindConfigResolution))
				assert.Contains(t, err.Error(), domain.ErrInvalidTransformMode.Error())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantTarget, opts.Target)
			assert.Equal(t, tt.wantJSX, opts.JSXFactory)
		})
	}
}

func TestWorker_Options_UnknownPreset(t *testing.T) {
	ctrl := gomock.NewController(t)
	root := t.TempDir()
	w, _ := esbuildWorker(t, testProject(root), quietLogger(ctrl))

	req := request(root, "src/a.js", "x", "k")
	req.Loader = domain.LoaderOptions{ConfigCacheKey: "cfg", Config: domain.ConfigData{Extends: []string{"missing"}}}

	_, err := w.Transform(t.Context(), req)
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.KindConfigResolution))
	assert.Contains(t, err.Error(), domain.ErrUnknownPreset.Error())
}

func TestWorker_TransformFiles(t *testing.T) {
	ctrl := gomock.NewController(t)
	root := t.TempDir()
	project := testProject(root)
	project.Presets = map[string]domain.ConfigData{"modern": {Target: "es2020"}}
	project.Config = domain.ConfigData{Extends: []string{"modern"}}

	writeFile(t, root, "src/a.js", "export const a = 1;\n")
	writeFile(t, root, "src/b.jsx", "export const B = () => <p>{translate('greeting.hello')}</p>;\n")

	w, _ := esbuildWorker(t, project, quietLogger(ctrl))
	paths := []string{
		filepath.Join(root, "src/a.js"),
		filepath.Join(root, "src/b.jsx"),
		filepath.Join(root, "src/missing.js"),
	}

	results := w.TransformFiles(t.Context(), paths)
	require.Len(t, results, 3)

	assert.Equal(t, "src/a.js", results[0].Rel)
	require.NoError(t, results[0].Err)
	assert.Contains(t, results[0].Artifact.Code, "export const a = 1;")

	require.NoError(t, results[1].Err)
	assert.Equal(t, []string{"greeting.hello"}, results[1].Artifact.TranslationIDs())

	require.Error(t, results[2].Err)
	assert.Contains(t, results[2].Err.Error(), domain.ErrFileOpenFailed.Error())

	again := w.TransformFiles(t.Context(), paths[:2])
	assert.Equal(t, results[0].Artifact.Code, again[0].Artifact.Code)
	assert.Equal(t, results[1].Artifact.Code, again[1].Artifact.Code)
	assert.Equal(t, []string{"greeting.hello"}, again[1].Artifact.TranslationIDs())
}

func TestWorker_TransformFiles_Canceled(t *testing.T) {
	ctrl := gomock.NewController(t)
	root := t.TempDir()
	w, _ := esbuildWorker(t, testProject(root), quietLogger(ctrl))

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	results := w.TransformFiles(ctx, []string{filepath.Join(root, "src/a.js")})
	require.Len(t, results, 1)
	require.ErrorIs(t, results[0].Err, context.Canceled)
}

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}
