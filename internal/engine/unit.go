// File path: internal/engine/unit.go
package engine

import (
	"context"
	"time"

	"codecritic/internal/cache"
	"codecritic/internal/common/telemetry"
	"codecritic/internal/issue"
	"codecritic/internal/provider"
	"codecritic/internal/rules"
	"codecritic/internal/workspace"
)

// composedRules is the slice of the composed pack the per-unit path needs.
type composedRules interface {
	Name() string
	Version() string
	RuleIDs() []string
	RulesForFile(path, content string) []rules.Rule
}

// unitResult is the outcome of analyzing one file. Exactly one of the three
// shapes holds: issues produced (err nil, skipped false), no applicable
// rules (skipped true), or a recorded failure (err non-nil). Failures never
// leave this boundary as errors; the driver degrades them to zero findings.
type unitResult struct {
	path    string
	issues  []issue.Issue
	skipped bool
	err     error
}

// analyzeUnit performs one file's full analysis synchronously: rule
// applicability, provider call, response translation, cache write-back, and
// call logging. A file with no applicable rules is skipped without a
// provider call or a cache write, so future rule changes re-evaluate it.
func (e *Engine) analyzeUnit(ctx context.Context, unit analysisUnit, composed composedRules, rulesHash string) unitResult {
	applicable := composed.RulesForFile(unit.file.Path, unit.file.Content)
	if len(applicable) == 0 {
		return unitResult{path: unit.file.Path, skipped: true}
	}

	prompt := provider.BuildUserPrompt(unit.file.Path, unit.file.Content, e.cfg.Language, applicable)
	system := provider.BuildSystemPrompt(composed.Name())

	callStart := time.Now()
	resp, err := e.provider.CompleteStructured(ctx, provider.Request{
		System:      system,
		Prompt:      prompt,
		Schema:      provider.ResponseSchema(),
		SchemaName:  provider.ResponseSchemaName,
		MaxTokens:   maxTokensPerCall,
		Temperature: analysisTemperature,
	})
	durationMS := time.Since(callStart).Milliseconds()
	telemetry.RecordProviderCall(time.Since(callStart), err)
	if err != nil {
		return unitResult{path: unit.file.Path, err: err}
	}

	critic, err := provider.DecodeResponse(resp.Raw)
	if err != nil {
		return unitResult{path: unit.file.Path, err: err}
	}
	issues := e.translateResponse(critic, unit.file, composed.Name())

	// A confirmed empty result is as cacheable as a list of findings; the
	// write is its own transaction so it survives run cancellation.
	if err := e.store.Put(ctx, unit.fileHash, composed.Version(), rulesHash, issues); err != nil {
		e.logger.Warn("engine: cache write failed", "path", unit.file.Path, "error", err)
	}

	promptTokens := resp.PromptTokens
	if promptTokens == 0 {
		promptTokens = int64(e.provider.EstimateTokens(prompt))
	}
	completionTokens := resp.CompletionTokens
	if completionTokens == 0 {
		completionTokens = int64(e.provider.EstimateTokens(string(resp.Raw)))
	}
	if _, err := e.store.LogCall(ctx, cache.CallRecord{
		Model:            e.provider.Model(),
		Pack:             composed.Name(),
		Files:            []string{unit.file.Path},
		PromptTokens:     promptTokens,
		CompletionTokens: completionTokens,
		DurationMS:       durationMS,
		IssuesFound:      int64(len(issues)),
	}); err != nil {
		e.logger.Warn("engine: call log append failed", "path", unit.file.Path, "error", err)
	}

	return unitResult{path: unit.file.Path, issues: issues}
}

// translateResponse converts the provider payload into issues. A malformed
// finding is dropped individually; it never fails the whole unit.
func (e *Engine) translateResponse(critic *provider.CriticResponse, file workspace.FileUnit, packName string) []issue.Issue {
	issues := make([]issue.Issue, 0, len(critic.Issues))
	for _, reported := range critic.Issues {
		severity, err := issue.ParseSeverity(reported.Level)
		if err != nil {
			e.logger.Debug("engine: dropping finding with invalid severity",
				"path", file.Path, "rule", reported.RuleID, "level", reported.Level)
			continue
		}
		if reported.RuleID == "" || reported.Title == "" || reported.Location.StartLine < 1 {
			e.logger.Debug("engine: dropping malformed finding", "path", file.Path, "rule", reported.RuleID)
			continue
		}
		issues = append(issues, issue.Issue{
			RuleID:   reported.RuleID,
			Severity: severity,
			Location: issue.Location{
				Path:      file.Path,
				StartLine: reported.Location.StartLine,
				EndLine:   reported.Location.EndLine,
			},
			Title:      reported.Title,
			Why:        reported.Why,
			Do:         reported.Do,
			Pack:       packName,
			Source:     "llm",
			Confidence: reported.Confidence,
			Tags:       reported.Tags,
			Snippet:    extractSnippet(file.Content, reported.Location.StartLine, reported.Location.EndLine),
			Context:    extractContext(file.Content, reported.Location.StartLine),
		})
	}
	return issues
}
