// File path: internal/common/telemetry/telemetry.go

// Package telemetry exposes process-wide counters for the analysis pipeline
// via expvar. Counters are a side channel only; nothing in the pipeline reads
// them back.
package telemetry

import (
	"context"
	"expvar"
	"sync"
	"time"

	"codecritic/internal/common"
)

var (
	initOnce sync.Once

	cacheHitsTotal   *expvar.Int
	cacheMissesTotal *expvar.Int

	providerCallsTotal  *expvar.Int
	providerErrorsTotal *expvar.Int
	providerLatencyMS   *expvar.Int

	analysisRunsTotal *expvar.Int
	analysisRunMS     *expvar.Int
)

func ensureInit() {
	initOnce.Do(func() {
		cacheHitsTotal = expvar.NewInt("codecritic_cache_hits_total")
		cacheMissesTotal = expvar.NewInt("codecritic_cache_misses_total")
		providerCallsTotal = expvar.NewInt("codecritic_provider_calls_total")
		providerErrorsTotal = expvar.NewInt("codecritic_provider_errors_total")
		providerLatencyMS = expvar.NewInt("codecritic_provider_latency_ms")
		analysisRunsTotal = expvar.NewInt("codecritic_analysis_runs_total")
		analysisRunMS = expvar.NewInt("codecritic_analysis_run_ms")
	})
}

// RecordCacheLookup counts one cache hit or miss.
func RecordCacheLookup(hit bool) {
	ensureInit()
	if hit {
		cacheHitsTotal.Add(1)
		return
	}
	cacheMissesTotal.Add(1)
}

// RecordProviderCall counts one provider invocation and its latency.
func RecordProviderCall(duration time.Duration, err error) {
	ensureInit()
	providerCallsTotal.Add(1)
	if err != nil {
		providerErrorsTotal.Add(1)
	}
	if duration > 0 {
		providerLatencyMS.Add(duration.Milliseconds())
	}
}

// RecordAnalysisRun counts one completed run and its wall-clock duration.
func RecordAnalysisRun(duration time.Duration) {
	ensureInit()
	analysisRunsTotal.Add(1)
	if duration > 0 {
		analysisRunMS.Add(duration.Milliseconds())
	}
}

type spanKey struct{}

type span struct {
	name  string
	start time.Time
}

// StartSpan logs the start of a named pipeline stage and returns a finish
// function that logs its duration together with any extra attributes.
func StartSpan(ctx context.Context, name string) (context.Context, func(attrs ...any)) {
	ensureInit()
	sp := &span{name: name, start: time.Now()}
	ctx = context.WithValue(ctx, spanKey{}, sp)
	logger := common.Logger()
	logger.Debug("trace: start", "span", name)
	return ctx, func(attrs ...any) {
		duration := time.Since(sp.start)
		logger.Debug("trace: end", append([]any{"span", name, "dur", duration}, attrs...)...)
	}
}
