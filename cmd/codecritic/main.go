// File path: cmd/codecritic/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"codecritic/internal/common"
	"codecritic/internal/engine"
	"codecritic/internal/format"
	"codecritic/internal/scoring"
)

const (
	exitGateFailed = 1
	exitFatal      = 2
)

func main() {
	os.Exit(run())
}

func run() int {
	logger := common.Logger()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := godotenv.Load(); err == nil {
		logger.Info("codecritic: environment loaded from .env")
	}

	packs := flag.String("packs", "", "comma-separated rule packs to apply (default from config)")
	ruleFilter := flag.String("rules", "", "comma-separated rule id fragments to keep")
	diffOnly := flag.Bool("diff", false, "analyze only files changed per git status")
	outputFormat := flag.String("format", "text", "output format: text or json")
	providerName := flag.String("provider", "", "analysis backend: openai, gemini, or local")
	quiet := flag.Bool("quiet", false, "suppress progress output")
	cacheClear := flag.Bool("cache-clear", false, "clear the result cache and exit")
	cacheStats := flag.Bool("cache-stats", false, "print cache statistics and exit")
	costDays := flag.Int("cost-summary", 0, "print provider cost summary for the last N days and exit")
	flag.Parse()

	cfg, err := engine.LoadConfig()
	if err != nil {
		logger.Error("codecritic: config load failed", "error", err)
		fmt.Fprintln(os.Stderr, "config error:", err)
		return exitFatal
	}
	if trimmed := strings.TrimSpace(*packs); trimmed != "" {
		cfg.Packs = splitList(trimmed)
	}
	if trimmed := strings.TrimSpace(*providerName); trimmed != "" {
		os.Setenv("CODECRITIC_PROVIDER", trimmed)
	}

	eng, err := engine.New(ctx, cfg)
	if err != nil {
		logger.Error("codecritic: engine init failed", "error", err)
		fmt.Fprintln(os.Stderr, "startup error:", err)
		return exitFatal
	}
	defer eng.Close()

	switch {
	case *cacheClear:
		return runCacheClear(ctx, eng)
	case *cacheStats:
		return runCacheStats(ctx, eng)
	case *costDays > 0:
		return runCostSummary(ctx, eng, *costDays)
	}

	paths := flag.Args()
	if len(paths) == 0 {
		paths = []string{"."}
	}

	opts := engine.Options{
		RuleFilter: splitList(*ruleFilter),
		DiffOnly:   *diffOnly,
	}
	if !*quiet && *outputFormat != "json" {
		opts.OnProgress = func(step, detail string) {
			fmt.Fprintf(os.Stderr, "[%s] %s\n", step, detail)
		}
	}

	result, err := eng.Analyze(ctx, paths, opts)
	if err != nil {
		logger.Error("codecritic: analysis failed", "error", err)
		fmt.Fprintln(os.Stderr, "analysis error:", err)
		return exitFatal
	}

	calc := scoring.NewCalculator()
	calc.FailLevels = cfg.FailLevels
	calc.ScoreThreshold = cfg.ScoreThreshold
	formatter, err := format.New(*outputFormat, calc)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitFatal
	}
	if err := formatter.Write(os.Stdout, result); err != nil {
		logger.Error("codecritic: render failed", "error", err)
		return exitFatal
	}

	if !result.GatePassed {
		return exitGateFailed
	}
	return 0
}

func runCacheClear(ctx context.Context, eng *engine.Engine) int {
	removed, err := eng.Store().Clear(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "cache clear error:", err)
		return exitFatal
	}
	fmt.Printf("Cleared %d cached result(s).\n", removed)
	return 0
}

func runCacheStats(ctx context.Context, eng *engine.Engine) int {
	stats, err := eng.Store().Stats(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "cache stats error:", err)
		return exitFatal
	}
	fmt.Printf("Entries: %d\nSize: %d bytes\n", stats.Entries, stats.SizeBytes)
	return 0
}

func runCostSummary(ctx context.Context, eng *engine.Engine, days int) int {
	summary, err := eng.Store().GetCostSummary(ctx, days)
	if err != nil {
		fmt.Fprintln(os.Stderr, "cost summary error:", err)
		return exitFatal
	}
	fmt.Printf("Last %d day(s): %d call(s), %d tokens, $%.4f, %d issue(s) found\n",
		days, summary.TotalCalls, summary.TotalTokens, summary.TotalCost, summary.TotalIssues)
	return 0
}

func splitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
