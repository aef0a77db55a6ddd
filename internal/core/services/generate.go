package services

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sourcegraph/conc/pool"
	"golang.org/x/time/rate"

	"github.com/docfold/docfold-cli/internal/core/domain"
	"github.com/docfold/docfold-cli/internal/core/ports/driven"
	"github.com/docfold/docfold-cli/internal/core/ports/driving"
	"github.com/docfold/docfold-cli/internal/logger"
	"github.com/docfold/docfold-cli/internal/openapi"
	"github.com/docfold/docfold-cli/internal/render/markdown"
	"github.com/docfold/docfold-cli/internal/render/viewer"
)

// Ensure GenerateOrchestrator implements the interface.
var _ driving.GenerateOrchestrator = (*GenerateOrchestrator)(nil)

// DocsDirName is the output directory created under the scanned root.
const DocsDirName = "docs"

// skipDirs are directory names never descended into during the scan.
var skipDirs = map[string]struct{}{
	".git":         {},
	"__pycache__":  {},
	"venv":         {},
	"env":          {},
	"node_modules": {},
	DocsDirName:    {},
}

// SkipDir reports whether a directory name is excluded from scans.
// Hidden directories and the generated docs tree never hold sources.
func SkipDir(name string) bool {
	if _, ok := skipDirs[name]; ok {
		return true
	}
	return strings.HasPrefix(name, ".")
}

// GenerateOrchestrator coordinates documentation generation: scan,
// change detection, analysis, artifact rendering, fingerprint updates
// and the index.
type GenerateOrchestrator struct {
	analyzer     driven.Analyzer
	fingerprints driven.FingerprintStore
	runs         driven.RunStore
	settings     domain.GenerateSettings

	// Status tracking
	mu     sync.RWMutex
	status *driving.GenerateStatus
}

// NewGenerateOrchestrator creates a new generate orchestrator.
// The run store is optional - if nil, no run history is kept.
func NewGenerateOrchestrator(
	analyzer driven.Analyzer,
	fingerprints driven.FingerprintStore,
	runs driven.RunStore,
	settings domain.GenerateSettings,
) *GenerateOrchestrator {
	settings.Normalise()
	return &GenerateOrchestrator{
		analyzer:     analyzer,
		fingerprints: fingerprints,
		runs:         runs,
		settings:     settings,
	}
}

// Generate runs the full pipeline over the root directory.
func (o *GenerateOrchestrator) Generate(ctx context.Context, root string) (*domain.RunSummary, error) {
	started := time.Now()

	root, err := o.checkRoot(root)
	if err != nil {
		return nil, err
	}

	files, failures, err := o.scan(root)
	if err != nil {
		return nil, err
	}

	docsDir := filepath.Join(root, DocsDirName)
	if err := os.MkdirAll(docsDir, 0755); err != nil {
		return nil, fmt.Errorf("%w: create docs directory: %v", domain.ErrStorageFailure, err)
	}

	o.setStatus(&driving.GenerateStatus{Running: true, FilesTotal: len(files) + len(failures)})
	defer o.clearStatus()

	var limiter *rate.Limiter
	if o.settings.RatePerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(o.settings.RatePerSecond), 1)
	}

	logger.Info("Processing %d files with concurrency %d", len(files), o.settings.Concurrency)

	results := make([]domain.ModuleResult, len(files))
	p := pool.New().WithMaxGoroutines(o.settings.Concurrency)
	for i, f := range files {
		i, f := i, f
		p.Go(func() {
			results[i] = o.processFile(ctx, f, docsDir, limiter)
			o.trackProgress(results[i])
		})
	}
	p.Wait()

	o.pruneStale(ctx, files, failures)

	summary := o.summarise(root, started, append(results, failures...))

	entries := BuildIndex(summary.Results)
	if err := WriteIndex(docsDir, ProjectName(root), entries); err != nil {
		logger.Warn("Index not written: %v", err)
		summary.Warnings = append(summary.Warnings, fmt.Sprintf("index: %v", err))
	}

	o.saveRun(ctx, summary)

	return summary, nil
}

// Plan classifies files without analyzing or writing anything.
func (o *GenerateOrchestrator) Plan(ctx context.Context, root string) (*domain.RunSummary, error) {
	started := time.Now()

	root, err := o.checkRoot(root)
	if err != nil {
		return nil, err
	}

	files, failures, err := o.scan(root)
	if err != nil {
		return nil, err
	}

	results := make([]domain.ModuleResult, 0, len(files))
	for _, f := range files {
		res := domain.ModuleResult{RelPath: f.RelPath, Module: f.ModuleName()}
		stored, err := o.fingerprints.Get(ctx, f.RelPath)
		switch {
		case err == nil && stored == f.Fingerprint:
			res.State = domain.ModuleUnchanged
		case err == nil || errors.Is(err, domain.ErrNotFound):
			res.State = domain.ModuleStale
		default:
			res.State = domain.ModuleFailed
			res.Err = fmt.Errorf("%w: read fingerprint for %s: %v", domain.ErrStorageFailure, f.RelPath, err)
		}
		results = append(results, res)
	}

	return o.summarise(root, started, append(results, failures...)), nil
}

// Status returns the progress of the run in flight, if any.
func (o *GenerateOrchestrator) Status(_ context.Context) (*driving.GenerateStatus, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()

	if o.status == nil {
		return &driving.GenerateStatus{}, nil
	}
	// Return a copy to avoid race conditions
	copied := *o.status
	return &copied, nil
}

// checkRoot resolves the root directory and verifies it is readable.
func (o *GenerateOrchestrator) checkRoot(root string) (string, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", domain.ErrRootUnreadable, root, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", domain.ErrRootUnreadable, root, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%w: %s is not a directory", domain.ErrRootUnreadable, root)
	}
	return abs, nil
}

// scan walks the root collecting source files matching the configured
// extensions. Files that cannot be read become failed results rather
// than aborting the scan.
func (o *GenerateOrchestrator) scan(root string) ([]domain.SourceFile, []domain.ModuleResult, error) {
	var files []domain.SourceFile
	var failures []domain.ModuleResult

	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return fmt.Errorf("%w: %v", domain.ErrRootUnreadable, err)
			}
			logger.Warn("Skipping %s: %v", path, err)
			return nil
		}
		if d.IsDir() {
			if path == root {
				return nil
			}
			if SkipDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if !o.wantsFile(path) {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		content, err := os.ReadFile(path)
		if err != nil {
			failures = append(failures, domain.ModuleResult{
				RelPath: rel,
				Module:  domain.SourceFile{RelPath: rel}.ModuleName(),
				State:   domain.ModuleFailed,
				Err:     fmt.Errorf("%w: read %s: %v", domain.ErrStorageFailure, rel, err),
			})
			return nil
		}
		files = append(files, domain.SourceFile{
			Path:        path,
			RelPath:     rel,
			Content:     content,
			Fingerprint: domain.NewFingerprint(content),
		})
		return nil
	})
	if walkErr != nil {
		return nil, nil, walkErr
	}

	sort.Slice(files, func(i, j int) bool { return files[i].RelPath < files[j].RelPath })
	return files, failures, nil
}

// wantsFile reports whether the path matches a configured extension.
func (o *GenerateOrchestrator) wantsFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, want := range o.settings.Extensions {
		if ext == strings.ToLower(want) {
			return true
		}
	}
	return false
}

// processFile takes one source file to its terminal state. The
// fingerprint is updated only after the file's complete artifact set is
// on disk, so a failure here leaves the file stale for the next run.
func (o *GenerateOrchestrator) processFile(ctx context.Context, f domain.SourceFile, docsDir string, limiter *rate.Limiter) domain.ModuleResult {
	res := domain.ModuleResult{RelPath: f.RelPath, Module: f.ModuleName()}

	stored, err := o.fingerprints.Get(ctx, f.RelPath)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		res.State = domain.ModuleFailed
		res.Err = fmt.Errorf("%w: read fingerprint for %s: %v", domain.ErrStorageFailure, f.RelPath, err)
		return res
	}
	if err == nil && stored == f.Fingerprint {
		res.State = domain.ModuleUnchanged
		attachExisting(&res, docsDir, f.RelPath)
		return res
	}

	if limiter != nil {
		if err := limiter.Wait(ctx); err != nil {
			res.State = domain.ModuleFailed
			res.Err = err
			return res
		}
	}

	logger.Debug("Analyzing %s", f.RelPath)
	rec, err := o.analyzer.Analyze(ctx, f.RelPath, f.Content)
	if err != nil {
		res.State = domain.ModuleAnalysisFailed
		res.Err = err
		return res
	}

	openapi.ClassifyRecord(rec)

	mdRel := artifactRel(f.RelPath, ".md")
	if err := writeArtifact(docsDir, mdRel, []byte(markdown.Render(rec, res.Module))); err != nil {
		res.State = domain.ModuleFailed
		res.Err = err
		return res
	}
	res.MarkdownPath = mdRel

	if len(rec.Endpoints) > 0 {
		doc := openapi.Assemble(rec, res.Module)
		if err := openapi.Validate(doc); err != nil {
			res.State = domain.ModuleSpecInvalid
			res.Err = err
			return res
		}

		encoded, err := doc.Encode()
		if err != nil {
			res.State = domain.ModuleFailed
			res.Err = fmt.Errorf("%w: encode spec for %s: %v", domain.ErrStorageFailure, f.RelPath, err)
			return res
		}
		specRel := artifactRel(f.RelPath, ".yaml")
		if err := writeArtifact(docsDir, specRel, encoded); err != nil {
			res.State = domain.ModuleFailed
			res.Err = err
			return res
		}
		res.SpecPath = specRel

		page, err := viewer.Emit(doc)
		if err != nil {
			res.State = domain.ModuleFailed
			res.Err = fmt.Errorf("%w: render viewer for %s: %v", domain.ErrStorageFailure, f.RelPath, err)
			return res
		}
		viewerRel := artifactRel(f.RelPath, ".html")
		if err := writeArtifact(docsDir, viewerRel, page); err != nil {
			res.State = domain.ModuleFailed
			res.Err = err
			return res
		}
		res.ViewerPath = viewerRel
	}

	if err := o.fingerprints.Save(ctx, f.RelPath, f.Fingerprint); err != nil {
		res.State = domain.ModuleFailed
		res.Err = fmt.Errorf("%w: save fingerprint for %s: %v", domain.ErrStorageFailure, f.RelPath, err)
		return res
	}

	res.State = domain.ModuleGenerated
	return res
}

// pruneStale drops fingerprint records for paths no longer on disk.
// Files that failed to read this run still exist, so their records are
// kept for the retry.
func (o *GenerateOrchestrator) pruneStale(ctx context.Context, files []domain.SourceFile, failures []domain.ModuleResult) {
	recorded, err := o.fingerprints.Paths(ctx)
	if err != nil {
		logger.Warn("Stale fingerprints not pruned: %v", err)
		return
	}

	present := make(map[string]struct{}, len(files)+len(failures))
	for _, f := range files {
		present[f.RelPath] = struct{}{}
	}
	for _, f := range failures {
		present[f.RelPath] = struct{}{}
	}
	for _, path := range recorded {
		if _, ok := present[path]; ok {
			continue
		}
		if err := o.fingerprints.Delete(ctx, path); err != nil {
			logger.Warn("Stale fingerprint for %s not deleted: %v", path, err)
		}
	}
}

// summarise builds the run summary from per-file results.
func (o *GenerateOrchestrator) summarise(root string, started time.Time, results []domain.ModuleResult) *domain.RunSummary {
	sort.Slice(results, func(i, j int) bool { return results[i].RelPath < results[j].RelPath })

	summary := &domain.RunSummary{
		ID:         uuid.NewString(),
		Root:       root,
		Results:    results,
		StartedAt:  started,
		FinishedAt: time.Now(),
	}
	for _, r := range results {
		switch r.State {
		case domain.ModuleAnalysisFailed, domain.ModuleSpecInvalid, domain.ModuleFailed:
			summary.Warnings = append(summary.Warnings, fmt.Sprintf("%s: %v", r.RelPath, r.Err))
		}
	}
	return summary
}

// saveRun persists the run record when a run store is configured.
func (o *GenerateOrchestrator) saveRun(ctx context.Context, summary *domain.RunSummary) {
	if o.runs == nil {
		return
	}
	if err := o.runs.Save(ctx, summary.Record()); err != nil {
		logger.Warn("Run history not saved: %v", err)
	}
}

// setStatus replaces the tracked status.
func (o *GenerateOrchestrator) setStatus(status *driving.GenerateStatus) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.status = status
}

// clearStatus removes the tracked status.
func (o *GenerateOrchestrator) clearStatus() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.status = nil
}

// trackProgress records one completed file.
func (o *GenerateOrchestrator) trackProgress(res domain.ModuleResult) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.status == nil {
		return
	}
	o.status.FilesProcessed++
	switch res.State {
	case domain.ModuleAnalysisFailed, domain.ModuleSpecInvalid:
		o.status.WarningCount++
	}
}

// artifactRel maps a source path to an artifact path relative to the
// docs directory, mirroring source subdirectories:
// "api/users.py" + ".md" -> "api/users.md".
func artifactRel(relPath, ext string) string {
	dir := filepath.Dir(relPath)
	base := filepath.Base(relPath)
	name := strings.TrimSuffix(base, filepath.Ext(base)) + ext
	if dir == "." {
		return name
	}
	return filepath.Join(dir, name)
}

// writeArtifact writes one artifact under the docs directory.
func writeArtifact(docsDir, rel string, data []byte) error {
	full := filepath.Join(docsDir, rel)
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		return fmt.Errorf("%w: create %s: %v", domain.ErrStorageFailure, filepath.Dir(rel), err)
	}
	if err := os.WriteFile(full, data, 0644); err != nil {
		return fmt.Errorf("%w: write %s: %v", domain.ErrStorageFailure, rel, err)
	}
	return nil
}

// attachExisting records which artifacts from a prior run still exist
// for an unchanged module.
func attachExisting(res *domain.ModuleResult, docsDir, relPath string) {
	if rel := artifactRel(relPath, ".md"); artifactExists(docsDir, rel) {
		res.MarkdownPath = rel
	}
	if rel := artifactRel(relPath, ".yaml"); artifactExists(docsDir, rel) {
		res.SpecPath = rel
	}
	if rel := artifactRel(relPath, ".html"); artifactExists(docsDir, rel) {
		res.ViewerPath = rel
	}
}

func artifactExists(docsDir, rel string) bool {
	info, err := os.Stat(filepath.Join(docsDir, rel))
	return err == nil && !info.IsDir()
}
