package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docfold/docfold-cli/internal/adapters/driven/storage/memory"
	"github.com/docfold/docfold-cli/internal/core/domain"
)

// mockAnalyzer is a scripted analyzer for pipeline tests.
type mockAnalyzer struct {
	mu      sync.Mutex
	calls   []string
	respond func(path string, content []byte) (*domain.DocumentationRecord, error)
}

func (m *mockAnalyzer) Analyze(_ context.Context, path string, content []byte) (*domain.DocumentationRecord, error) {
	m.mu.Lock()
	m.calls = append(m.calls, path)
	m.mu.Unlock()
	return m.respond(path, content)
}

func (m *mockAnalyzer) ModelName() string { return "mock" }

func (m *mockAnalyzer) Ping(_ context.Context) error { return nil }

func (m *mockAnalyzer) Close() error { return nil }

func (m *mockAnalyzer) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

func (m *mockAnalyzer) calledWith() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.calls))
	copy(out, m.calls)
	return out
}

// calcRecord documents a module with classes and functions but no HTTP
// endpoints.
func calcRecord() *domain.DocumentationRecord {
	return &domain.DocumentationRecord{
		Title:   "Calculator utilities",
		Summary: "Basic arithmetic helpers.",
		Entities: []domain.Entity{
			{
				Name: "Calculator", Kind: domain.EntityClass,
				Description: "Stateful calculator.",
			},
			{
				Name: "divide", Kind: domain.EntityFunction,
				Description: "Divides two numbers.",
				Params: []domain.Param{
					{Name: "a", Type: "float", Required: true},
					{Name: "b", Type: "float", Required: true},
				},
				Returns: "float",
			},
		},
	}
}

// userAPIRecord documents a module exposing five HTTP endpoints, one of
// them authenticated.
func userAPIRecord() *domain.DocumentationRecord {
	return &domain.DocumentationRecord{
		Title:   "User API",
		Summary: "User management endpoints.",
		Endpoints: []domain.Endpoint{
			{
				Path: "/users", Method: "GET", Summary: "List users",
				Responses: []domain.Response{{Status: 200, Description: "User list"}},
			},
			{
				Path: "/users", Method: "POST", Summary: "Create a user",
				Request: []domain.Param{
					{Name: "name", Type: "string", Required: true},
					{Name: "email", Type: "string", Required: true},
				},
				Responses: []domain.Response{{Status: 201, Description: "Created"}},
			},
			{
				Path: "/users/{id}", Method: "GET", Summary: "Fetch a user",
				Responses: []domain.Response{
					{Status: 200, Description: "The user"},
					{Status: 404, Description: "Unknown user"},
				},
			},
			{
				Path: "/users/{id}", Method: "PUT", Summary: "Update a user",
				Responses: []domain.Response{{Status: 200, Description: "Updated"}},
			},
			{
				Path: "/users/{id}", Method: "DELETE", Summary: "Delete a user",
				Responses:  []domain.Response{{Status: 204, Description: "Deleted"}},
				AuthSignal: "requires a JWT bearer token",
			},
		},
	}
}

func writeSource(t *testing.T, root, rel, content string) {
	t.Helper()
	full := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0644))
}

func newTestOrchestrator(respond func(string, []byte) (*domain.DocumentationRecord, error)) (*GenerateOrchestrator, *mockAnalyzer, *memory.FingerprintStore, *memory.RunStore) {
	analyzer := &mockAnalyzer{respond: respond}
	fingerprints := memory.NewFingerprintStore()
	runs := memory.NewRunStore()
	orch := NewGenerateOrchestrator(analyzer, fingerprints, runs, domain.GenerateSettings{Concurrency: 2})
	return orch, analyzer, fingerprints, runs
}

func scriptedRespond(path string, _ []byte) (*domain.DocumentationRecord, error) {
	if filepath.Base(path) == "user_api.py" {
		return userAPIRecord(), nil
	}
	return calcRecord(), nil
}

func TestGenerateFirstRun(t *testing.T) {
	root := t.TempDir()
	writeSource(t, root, "calc.py", "class Calculator: ...\n")
	writeSource(t, root, "user_api.py", "@app.get('/users')\ndef list_users(): ...\n")

	orch, analyzer, _, runs := newTestOrchestrator(scriptedRespond)

	summary, err := orch.Generate(context.Background(), root)
	require.NoError(t, err)

	unchanged, generated, warned, failed := summary.Counts()
	assert.Equal(t, 0, unchanged)
	assert.Equal(t, 2, generated)
	assert.Equal(t, 0, warned)
	assert.Equal(t, 0, failed)
	assert.False(t, summary.Failed())
	assert.Equal(t, 2, analyzer.callCount())

	docs := filepath.Join(root, "docs")
	assert.FileExists(t, filepath.Join(docs, "calc.md"))
	assert.NoFileExists(t, filepath.Join(docs, "calc.yaml"), "no endpoints, no spec")
	assert.NoFileExists(t, filepath.Join(docs, "calc.html"))
	assert.FileExists(t, filepath.Join(docs, "user_api.md"))
	assert.FileExists(t, filepath.Join(docs, "user_api.yaml"))
	assert.FileExists(t, filepath.Join(docs, "user_api.html"))
	assert.FileExists(t, filepath.Join(docs, "README.md"))

	index, err := os.ReadFile(filepath.Join(docs, "README.md"))
	require.NoError(t, err)
	assert.Contains(t, string(index), "[calc.md](calc.md)")
	assert.Contains(t, string(index), "[user_api.yaml](user_api.yaml)")

	history, err := runs.Recent(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, 2, history[0].FilesGenerated)
}

func TestGenerateSecondRunIsIdempotent(t *testing.T) {
	root := t.TempDir()
	writeSource(t, root, "calc.py", "class Calculator: ...\n")
	writeSource(t, root, "user_api.py", "@app.get('/users')\ndef list_users(): ...\n")

	orch, analyzer, _, _ := newTestOrchestrator(scriptedRespond)
	ctx := context.Background()

	_, err := orch.Generate(ctx, root)
	require.NoError(t, err)
	require.Equal(t, 2, analyzer.callCount())

	summary, err := orch.Generate(ctx, root)
	require.NoError(t, err)

	assert.Equal(t, 2, analyzer.callCount(), "unchanged inputs must not reach the analyzer")
	unchanged, generated, _, _ := summary.Counts()
	assert.Equal(t, 2, unchanged)
	assert.Equal(t, 0, generated)

	// Unchanged modules still carry their artifact paths for the index.
	for _, r := range summary.Results {
		assert.NotEmpty(t, r.MarkdownPath, r.RelPath)
	}
}

func TestGenerateReanalyzesOnlyChangedFiles(t *testing.T) {
	root := t.TempDir()
	writeSource(t, root, "calc.py", "class Calculator: ...\n")
	writeSource(t, root, "user_api.py", "@app.get('/users')\ndef list_users(): ...\n")

	orch, analyzer, _, _ := newTestOrchestrator(scriptedRespond)
	ctx := context.Background()

	_, err := orch.Generate(ctx, root)
	require.NoError(t, err)

	apiSpec := filepath.Join(root, "docs", "user_api.yaml")
	before, err := os.Stat(apiSpec)
	require.NoError(t, err)

	// A one-character change must flip the fingerprint.
	writeSource(t, root, "calc.py", "class Calculator: ...\n# note\n")

	summary, err := orch.Generate(ctx, root)
	require.NoError(t, err)

	calls := analyzer.calledWith()
	require.Len(t, calls, 3)
	assert.Equal(t, "calc.py", calls[2])

	unchanged, generated, _, _ := summary.Counts()
	assert.Equal(t, 1, unchanged)
	assert.Equal(t, 1, generated)

	// Artifacts of the untouched module are not rewritten.
	after, err := os.Stat(apiSpec)
	require.NoError(t, err)
	assert.Equal(t, before.ModTime(), after.ModTime())
}

func TestGenerateWithholdsInvalidSpec(t *testing.T) {
	root := t.TempDir()
	writeSource(t, root, "bad_api.py", "def handler(): ...\n")

	// Endpoint path missing the leading slash fails validation.
	orch, analyzer, _, _ := newTestOrchestrator(func(string, []byte) (*domain.DocumentationRecord, error) {
		return &domain.DocumentationRecord{
			Title: "Bad API",
			Endpoints: []domain.Endpoint{
				{Path: "users", Method: "GET", Summary: "List users"},
			},
		}, nil
	})
	ctx := context.Background()

	summary, err := orch.Generate(ctx, root)
	require.NoError(t, err)

	require.Len(t, summary.Results, 1)
	res := summary.Results[0]
	assert.Equal(t, domain.ModuleSpecInvalid, res.State)
	assert.ErrorIs(t, res.Err, domain.ErrSchemaViolation)
	assert.NotEmpty(t, summary.Warnings)

	docs := filepath.Join(root, "docs")
	assert.FileExists(t, filepath.Join(docs, "bad_api.md"), "narrative doc is still produced")
	assert.NoFileExists(t, filepath.Join(docs, "bad_api.yaml"), "invalid document must never be persisted")
	assert.NoFileExists(t, filepath.Join(docs, "bad_api.html"))

	// No fingerprint update: the file is retried on the next run.
	_, err = orch.Generate(ctx, root)
	require.NoError(t, err)
	assert.Equal(t, 2, analyzer.callCount())
}

func TestGenerateNormalisesSecuritySchemes(t *testing.T) {
	root := t.TempDir()
	writeSource(t, root, "user_api.py", "@app.post('/users')\ndef create(): ...\n")

	orch, _, _, _ := newTestOrchestrator(scriptedRespond)

	_, err := orch.Generate(context.Background(), root)
	require.NoError(t, err)

	spec, err := os.ReadFile(filepath.Join(root, "docs", "user_api.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(spec), "bearerAuth", "JWT signal maps to the bearer scheme")
	assert.Contains(t, string(spec), "securitySchemes")
}

func TestGenerateIsolatesAnalysisFailures(t *testing.T) {
	root := t.TempDir()
	writeSource(t, root, "calc.py", "class Calculator: ...\n")
	writeSource(t, root, "user_api.py", "@app.get('/users')\ndef list_users(): ...\n")

	orch, analyzer, fingerprints, _ := newTestOrchestrator(func(path string, content []byte) (*domain.DocumentationRecord, error) {
		if filepath.Base(path) == "calc.py" {
			return nil, fmt.Errorf("%w: model timeout", domain.ErrAnalysisFailure)
		}
		return scriptedRespond(path, content)
	})
	ctx := context.Background()

	summary, err := orch.Generate(ctx, root)
	require.NoError(t, err, "analysis failures never abort the run")

	unchanged, generated, warned, failed := summary.Counts()
	assert.Equal(t, 0, unchanged)
	assert.Equal(t, 1, generated)
	assert.Equal(t, 1, warned)
	assert.Equal(t, 0, failed)
	assert.False(t, summary.Failed())
	require.Len(t, summary.Warnings, 1)
	assert.Contains(t, summary.Warnings[0], "calc.py")

	// The healthy file is fingerprinted; the failed one is not.
	_, err = fingerprints.Get(ctx, "user_api.py")
	assert.NoError(t, err)
	_, err = fingerprints.Get(ctx, "calc.py")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// Next run retries only the failed file.
	_, err = orch.Generate(ctx, root)
	require.NoError(t, err)
	calls := analyzer.calledWith()
	require.Len(t, calls, 3)
	assert.Equal(t, "calc.py", calls[2])
}

func TestGenerateRootUnreadable(t *testing.T) {
	orch, _, _, _ := newTestOrchestrator(scriptedRespond)

	_, err := orch.Generate(context.Background(), filepath.Join(t.TempDir(), "missing"))
	assert.ErrorIs(t, err, domain.ErrRootUnreadable)
}

func TestGenerateSkipsNoiseDirectories(t *testing.T) {
	root := t.TempDir()
	writeSource(t, root, "calc.py", "class Calculator: ...\n")
	writeSource(t, root, "__pycache__/calc.py", "compiled\n")
	writeSource(t, root, "venv/lib/site.py", "site\n")
	writeSource(t, root, ".hidden/secret.py", "secret\n")
	writeSource(t, root, "notes.txt", "not source\n")

	orch, analyzer, _, _ := newTestOrchestrator(scriptedRespond)

	summary, err := orch.Generate(context.Background(), root)
	require.NoError(t, err)

	require.Len(t, summary.Results, 1)
	assert.Equal(t, "calc.py", summary.Results[0].RelPath)
	assert.Equal(t, 1, analyzer.callCount())
}

func TestGenerateMirrorsSubdirectories(t *testing.T) {
	root := t.TempDir()
	writeSource(t, root, "api/users.py", "@app.get('/users')\ndef list_users(): ...\n")

	orch, _, _, _ := newTestOrchestrator(func(string, []byte) (*domain.DocumentationRecord, error) {
		return userAPIRecord(), nil
	})

	summary, err := orch.Generate(context.Background(), root)
	require.NoError(t, err)

	require.Len(t, summary.Results, 1)
	assert.Equal(t, filepath.Join("api", "users.md"), summary.Results[0].MarkdownPath)
	assert.FileExists(t, filepath.Join(root, "docs", "api", "users.md"))
	assert.FileExists(t, filepath.Join(root, "docs", "api", "users.yaml"))
}

func TestGeneratePrunesDeletedFiles(t *testing.T) {
	root := t.TempDir()
	writeSource(t, root, "calc.py", "class Calculator: ...\n")
	writeSource(t, root, "user_api.py", "@app.get('/users')\ndef list_users(): ...\n")

	orch, _, fingerprints, _ := newTestOrchestrator(scriptedRespond)
	ctx := context.Background()

	_, err := orch.Generate(ctx, root)
	require.NoError(t, err)

	require.NoError(t, os.Remove(filepath.Join(root, "calc.py")))

	_, err = orch.Generate(ctx, root)
	require.NoError(t, err)

	paths, err := fingerprints.Paths(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"user_api.py"}, paths, "records for deleted files are dropped")
}

func TestGenerateKeepsFingerprintForUnreadableFile(t *testing.T) {
	root := t.TempDir()
	writeSource(t, root, "calc.py", "class Calculator: ...\n")

	orch, _, fingerprints, _ := newTestOrchestrator(scriptedRespond)
	ctx := context.Background()

	_, err := orch.Generate(ctx, root)
	require.NoError(t, err)

	// Swap the file for a dangling symlink: the path is still on disk
	// but reading it fails.
	path := filepath.Join(root, "calc.py")
	require.NoError(t, os.Remove(path))
	require.NoError(t, os.Symlink(filepath.Join(root, "gone.py"), path))

	summary, err := orch.Generate(ctx, root)
	require.NoError(t, err)

	require.Len(t, summary.Results, 1)
	assert.Equal(t, domain.ModuleFailed, summary.Results[0].State)
	assert.ErrorIs(t, summary.Results[0].Err, domain.ErrStorageFailure)

	_, err = fingerprints.Get(ctx, "calc.py")
	assert.NoError(t, err, "record for an unreadable file is kept for the retry")
}

func TestPlanClassifiesWithoutSideEffects(t *testing.T) {
	root := t.TempDir()
	writeSource(t, root, "calc.py", "class Calculator: ...\n")
	writeSource(t, root, "user_api.py", "@app.get('/users')\ndef list_users(): ...\n")

	orch, analyzer, _, _ := newTestOrchestrator(scriptedRespond)
	ctx := context.Background()

	summary, err := orch.Plan(ctx, root)
	require.NoError(t, err)

	require.Len(t, summary.Results, 2)
	for _, r := range summary.Results {
		assert.Equal(t, domain.ModuleStale, r.State, r.RelPath)
	}
	assert.Equal(t, 0, analyzer.callCount())
	assert.NoDirExists(t, filepath.Join(root, "docs"))

	// After a real run, a plan reports everything unchanged.
	_, err = orch.Generate(ctx, root)
	require.NoError(t, err)

	summary, err = orch.Plan(ctx, root)
	require.NoError(t, err)
	for _, r := range summary.Results {
		assert.Equal(t, domain.ModuleUnchanged, r.State, r.RelPath)
	}
}

func TestGenerateCustomExtensions(t *testing.T) {
	root := t.TempDir()
	writeSource(t, root, "calc.py", "class Calculator: ...\n")
	writeSource(t, root, "handler.rb", "def handler; end\n")

	analyzer := &mockAnalyzer{respond: scriptedRespond}
	orch := NewGenerateOrchestrator(analyzer, memory.NewFingerprintStore(), nil, domain.GenerateSettings{
		Extensions: []string{".rb"},
	})

	summary, err := orch.Generate(context.Background(), root)
	require.NoError(t, err)

	require.Len(t, summary.Results, 1)
	assert.Equal(t, "handler.rb", summary.Results[0].RelPath)
}
