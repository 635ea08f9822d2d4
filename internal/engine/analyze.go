// File path: internal/engine/analyze.go
package engine

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"codecritic/internal/common/telemetry"
	"codecritic/internal/hashing"
	"codecritic/internal/issue"
	"codecritic/internal/workspace"
)

// ProgressFunc receives ordered (step, detail) notifications as the pipeline
// advances. It is a side channel only and never influences results.
type ProgressFunc func(step, detail string)

// Options tune one Analyze run.
type Options struct {
	// RuleFilter keeps only findings whose rule id contains one of the
	// entries (substring match).
	RuleFilter []string
	OnProgress ProgressFunc
	DiffOnly   bool
}

type analysisUnit struct {
	file     workspace.FileUnit
	fileHash string
}

// Analyze runs the complete pipeline over paths and returns the scored
// result. Configuration and store faults are fatal; per-file provider
// failures degrade to zero findings for that file and never abort the run.
func (e *Engine) Analyze(ctx context.Context, paths []string, opts Options) (*issue.AnalysisResult, error) {
	start := time.Now()
	ctx, finish := telemetry.StartSpan(ctx, "engine.analyze")
	defer finish()

	progress := func(step, detail string) {
		if opts.OnProgress != nil {
			opts.OnProgress(step, detail)
		}
	}

	// 1. Compose packs.
	progress("compose_packs", fmt.Sprintf("Loading packs: %s", strings.Join(e.cfg.Packs, ", ")))
	composed, err := e.compositor.Compose(e.cfg.Packs)
	if err != nil {
		return nil, err
	}
	progress("compose_packs", fmt.Sprintf("Loaded %d rules", len(composed.RuleIDs())))
	e.logger.Info("engine: rules composed", "packs", strings.Join(e.cfg.Packs, "+"), "rules", len(composed.RuleIDs()))

	// 2. Discover files.
	progress("discover_files", fmt.Sprintf("Scanning %d path(s)...", len(paths)))
	files, err := e.scanner.Discover(ctx, paths, opts.DiffOnly)
	if err != nil {
		return nil, fmt.Errorf("discover files: %w", err)
	}
	progress("discover_files", fmt.Sprintf("Found %d file(s) to analyze", len(files)))
	e.logger.Info("engine: discovery complete", "files", len(files), "diff_only", opts.DiffOnly)

	// 3. Nothing to do: perfect score, gate passes.
	if len(files) == 0 {
		return e.assembleResult(nil, 0, 0, 0, start), nil
	}

	// 4. Partition into cache hits and uncached work.
	progress("check_cache", "Checking cache for previous results...")
	rulesHash := hashing.HashRules(composed.RuleIDs())
	var allIssues []issue.Issue
	var uncached []analysisUnit
	cacheHits := 0
	for _, file := range files {
		fileHash := hashing.HashContent(file.Content)
		cached, ok, err := e.store.Get(ctx, fileHash, composed.Version(), rulesHash)
		if err != nil {
			return nil, fmt.Errorf("cache lookup for %s: %w", file.Path, err)
		}
		telemetry.RecordCacheLookup(ok)
		if ok {
			e.logger.Debug("engine: cache hit", "path", file.Path, "hash", fileHash[:8], "issues", len(cached))
			allIssues = append(allIssues, cached...)
			cacheHits++
			continue
		}
		uncached = append(uncached, analysisUnit{file: file, fileHash: fileHash})
	}
	e.logger.Info("engine: cache partitioned", "hits", cacheHits, "misses", len(uncached))

	// 5-7. Bounded fan-out to the provider for uncached units.
	progress("analyze_files", fmt.Sprintf("Analyzing %d uncached file(s)...", len(uncached)))
	fresh, providerCalls, err := e.analyzeUncached(ctx, uncached, composed, rulesHash)
	if err != nil {
		return nil, err
	}
	allIssues = append(allIssues, fresh...)

	// 8-9. Filter.
	if len(opts.RuleFilter) > 0 {
		progress("filter_rules", fmt.Sprintf("Filtering by rules: %s", strings.Join(opts.RuleFilter, ", ")))
		allIssues = filterByRules(allIssues, opts.RuleFilter)
	}
	if len(e.cfg.DisabledRules) > 0 {
		progress("filter_disabled", fmt.Sprintf("Filtering %d disabled rule(s)", len(e.cfg.DisabledRules)))
		allIssues = dropDisabled(allIssues, e.cfg.DisabledRules)
	}

	// 10. Stable dedup by derived identity.
	progress("deduplicate", fmt.Sprintf("Deduplicating %d issue(s)...", len(allIssues)))
	allIssues = deduplicate(allIssues)

	// 11. Per-file cap.
	progress("limit_issues", fmt.Sprintf("Limiting to %d issues per file...", maxIssuesPerFile))
	allIssues = limitPerFile(allIssues, maxIssuesPerFile)

	// 12-13. Score, gate, assemble.
	progress("calculate_score", fmt.Sprintf("Calculating score for %d issue(s)...", len(allIssues)))
	result := e.assembleResult(allIssues, len(files), cacheHits, providerCalls, start)
	progress("complete", fmt.Sprintf("Analysis complete in %dms", result.Meta["duration_ms"]))
	telemetry.RecordAnalysisRun(time.Since(start))

	e.logger.Info("engine: analysis complete",
		"files", len(files), "cache_hits", cacheHits, "llm_calls", providerCalls,
		"issues", len(allIssues), "score", result.Score, "gate_passed", result.GatePassed)
	return result, nil
}

// analyzeUncached dispatches units to the provider with bounded parallelism
// and aggregates in completion order behind a join barrier. Unit failures
// are absorbed here; only external cancellation propagates. The returned
// call count covers every dispatched provider invocation, failed ones
// included; skipped no-rules units never reach the provider.
func (e *Engine) analyzeUncached(ctx context.Context, uncached []analysisUnit, composed composedRules, rulesHash string) ([]issue.Issue, int, error) {
	if len(uncached) == 0 || e.cfg.MaxProviderCalls <= 0 {
		return nil, 0, nil
	}
	toAnalyze := uncached
	if len(toAnalyze) > e.cfg.MaxProviderCalls {
		e.logger.Warn("engine: provider call budget reached",
			"budget", e.cfg.MaxProviderCalls, "skipped", len(toAnalyze)-e.cfg.MaxProviderCalls)
		toAnalyze = toAnalyze[:e.cfg.MaxProviderCalls]
	}

	workers := e.provider.MaxConcurrent()
	if workers > e.cfg.MaxProviderCalls {
		workers = e.cfg.MaxProviderCalls
	}
	if workers > len(toAnalyze) {
		workers = len(toAnalyze)
	}
	if workers < 1 {
		workers = 1
	}

	jobs := make(chan analysisUnit)
	results := make(chan unitResult)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for unit := range jobs {
				results <- e.analyzeUnit(ctx, unit, composed, rulesHash)
			}
		}()
	}
	go func() {
		defer close(jobs)
		for _, unit := range toAnalyze {
			select {
			case jobs <- unit:
			case <-ctx.Done():
				return
			}
		}
	}()
	go func() {
		wg.Wait()
		close(results)
	}()

	var fresh []issue.Issue
	providerCalls := 0
	for res := range results {
		if ctx.Err() != nil {
			// Cancelled: drain and discard in-flight results. Cache writes
			// already committed by finished workers stay valid.
			continue
		}
		if res.skipped {
			e.logger.Debug("engine: no applicable rules", "path", res.path)
			continue
		}
		// Failed units still dispatched a provider call; count it so the
		// metadata reflects actual (possibly billed) invocations.
		providerCalls++
		if res.err != nil {
			e.logger.Warn("engine: analysis failed for file", "path", res.path, "error", res.err)
			continue
		}
		e.logger.Info("engine: file analyzed", "path", res.path, "issues", len(res.issues))
		fresh = append(fresh, res.issues...)
	}
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	return fresh, providerCalls, nil
}

func (e *Engine) assembleResult(issues []issue.Issue, filesAnalyzed, cacheHits, providerCalls int, start time.Time) *issue.AnalysisResult {
	if issues == nil {
		issues = []issue.Issue{}
	}
	score := e.scorer.Calculate(issues)
	passed, reasons := e.scorer.CheckGate(issues)
	return &issue.AnalysisResult{
		Issues:      issues,
		Score:       score,
		GatePassed:  passed,
		FailReasons: reasons,
		Meta: map[string]any{
			"files_analyzed": filesAnalyzed,
			"cache_hits":     cacheHits,
			"llm_calls":      providerCalls,
			"duration_ms":    time.Since(start).Milliseconds(),
		},
	}
}
