package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/docfold/docfold-cli/internal/adapters/driven/analysis"
	"github.com/docfold/docfold-cli/internal/adapters/driven/storage/memory"
	"github.com/docfold/docfold-cli/internal/adapters/driven/storage/sqlite"
	"github.com/docfold/docfold-cli/internal/core/domain"
	"github.com/docfold/docfold-cli/internal/core/ports/driven"
	"github.com/docfold/docfold-cli/internal/core/services"
)

// StateDirName is the fingerprint database directory inside docs/.
const StateDirName = ".docfold"

var generateCmd = &cobra.Command{
	Use:   "generate <root>",
	Short: "Generate documentation for a source tree",
	Long: `Scans the root directory for source files, analyzes new and changed
files, and writes documentation artifacts under <root>/docs/:

  <module>.md    narrative documentation (always)
  <module>.yaml  OpenAPI description (modules with HTTP endpoints)
  <module>.html  interactive API viewer (modules with HTTP endpoints)
  README.md      index of all documented modules

Analysis failures skip the affected file and are reported as warnings;
the rest of the batch is still processed.`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

func init() {
	flags := generateCmd.Flags()
	flags.StringSlice("ext", nil, "source file extensions to scan (default .py)")
	flags.Int("concurrency", 0, "number of files processed in parallel (default 4)")
	flags.Float64("rate", 0, "max analyzer calls per second (0 = unlimited)")
	flags.String("provider", "", "analyzer provider: openai or ollama")
	flags.String("model", "", "analyzer model name")
	flags.String("base-url", "", "analyzer API base URL")
	flags.String("api-key", "", "analyzer API key (openai)")
	flags.Bool("dry-run", false, "classify files without analyzing or writing")
	flags.Bool("watch", false, "re-run generation when source files change")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	root := args[0]
	genSettings := resolveGenerateSettings(cmd)

	dryRun, _ := cmd.Flags().GetBool("dry-run")
	if dryRun {
		return runPlan(cmd, root, genSettings)
	}

	analyzerSettings := resolveAnalyzerSettings(cmd)
	analyzer, err := analysis.CreateAndValidateAnalyzer(&analyzerSettings)
	if err != nil {
		return err
	}
	defer analyzer.Close()

	store, err := sqlite.NewStore(filepath.Join(root, services.DocsDirName, StateDirName))
	if err != nil {
		return fmt.Errorf("opening fingerprint store: %w", err)
	}
	defer store.Close()

	orch := services.NewGenerateOrchestrator(analyzer, store.FingerprintStore(), store.RunStore(), genSettings)

	summary, err := orch.Generate(cmd.Context(), root)
	if err != nil {
		return err
	}
	cmd.Print(renderSummary(summary))

	watch, _ := cmd.Flags().GetBool("watch")
	if err := reportFailures(cmd, summary, watch); err != nil {
		return err
	}
	if watch {
		return watchAndRegenerate(cmd, orch, root, genSettings)
	}
	return nil
}

// reportFailures turns failed files into a run error. Watch mode must
// stay alive instead, so there the failure is printed and the next
// regeneration gets a chance to recover.
func reportFailures(cmd *cobra.Command, summary *domain.RunSummary, watch bool) error {
	if !summary.Failed() {
		return nil
	}
	if !watch {
		return fmt.Errorf("run finished with failed files")
	}
	cmd.PrintErrln("Warning: run finished with failed files")
	return nil
}

// runPlan classifies files without side effects.
func runPlan(cmd *cobra.Command, root string, genSettings domain.GenerateSettings) error {
	fingerprints, cleanup, err := planFingerprints(root)
	if err != nil {
		return fmt.Errorf("opening fingerprint store: %w", err)
	}
	defer cleanup()

	// The analyzer is never reached on the plan path.
	orch := services.NewGenerateOrchestrator(nil, fingerprints, nil, genSettings)

	summary, err := orch.Plan(cmd.Context(), root)
	if err != nil {
		return err
	}
	cmd.Print(renderPlan(summary))
	return nil
}

// planFingerprints opens the on-disk state when it exists. A tree that
// was never generated gets an empty in-memory store instead, so a dry
// run leaves no directories or database behind.
func planFingerprints(root string) (driven.FingerprintStore, func(), error) {
	stateDir := filepath.Join(root, services.DocsDirName, StateDirName)
	if _, err := os.Stat(filepath.Join(stateDir, sqlite.DefaultFileName)); err != nil {
		if os.IsNotExist(err) {
			return memory.NewFingerprintStore(), func() {}, nil
		}
		return nil, nil, err
	}

	store, err := sqlite.NewStore(stateDir)
	if err != nil {
		return nil, nil, err
	}
	return store.FingerprintStore(), func() { _ = store.Close() }, nil
}

// resolveGenerateSettings merges flags over persisted config.
func resolveGenerateSettings(cmd *cobra.Command) domain.GenerateSettings {
	flags := cmd.Flags()

	settings := domain.GenerateSettings{}
	settings.Extensions, _ = flags.GetStringSlice("ext")
	if len(settings.Extensions) == 0 {
		settings.Extensions = cfgStringSlice("generate.extensions")
	}

	settings.Concurrency, _ = flags.GetInt("concurrency")
	if settings.Concurrency <= 0 {
		settings.Concurrency = cfgInt("generate.concurrency")
	}

	settings.RatePerSecond, _ = flags.GetFloat64("rate")
	if !flags.Changed("rate") {
		settings.RatePerSecond = cfgFloat("analyzer.rate_limit")
	}

	settings.Normalise()
	return settings
}

// resolveAnalyzerSettings merges flags over persisted config and the
// environment. Ollama is the default backend since it needs no key.
func resolveAnalyzerSettings(cmd *cobra.Command) domain.AnalyzerSettings {
	flags := cmd.Flags()

	provider, _ := flags.GetString("provider")
	if provider == "" {
		provider = cfgString("analyzer.provider")
	}
	if provider == "" {
		provider = domain.ProviderOllama.String()
	}

	model, _ := flags.GetString("model")
	if model == "" {
		model = cfgString("analyzer.model")
	}

	baseURL, _ := flags.GetString("base-url")
	if baseURL == "" {
		baseURL = cfgString("analyzer.base_url")
	}

	apiKey, _ := flags.GetString("api-key")
	if apiKey == "" {
		apiKey = cfgString("analyzer.api_key")
	}
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}

	var timeout time.Duration
	if secs := cfgInt("analyzer.timeout_seconds"); secs > 0 {
		timeout = time.Duration(secs) * time.Second
	}

	return domain.AnalyzerSettings{
		Provider: domain.AnalyzerProvider(provider),
		Model:    model,
		BaseURL:  baseURL,
		APIKey:   apiKey,
		Timeout:  timeout,
	}
}
