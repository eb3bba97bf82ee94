package probe

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/okian/combine/internal/domain/types"
	"github.com/okian/combine/pkg/logger"
)

// Run probes the server at cfg.BaseURL. Check failures are collected in the
// returned Stats; the error is reserved for transport or setup failures.
func Run(ctx context.Context, cfg *Config) (*Stats, error) {
	applyDefaults(cfg)
	stats := &Stats{StartTime: time.Now()}
	log := logger.Named("probe")
	client := newHTTPClient(cfg.BaseURL, cfg.Timeout)

	log.Info(ctx, "starting combine probe",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("pairs", cfg.Pairs),
		logger.Int("workers", cfg.Workers),
		logger.Duration("timeout", cfg.Timeout),
	)

	if err := checkServiceHealth(ctx, client); err != nil {
		return stats, fmt.Errorf("service health check failed: %w", err)
	}

	var opts types.Options
	if err := client.GetJSON(ctx, "/api/options", &opts); err != nil {
		return stats, fmt.Errorf("options retrieval failed: %w", err)
	}

	if err := checkRankings(ctx, cfg, client, opts, stats); err != nil {
		return stats, fmt.Errorf("ranking checks failed: %w", err)
	}

	if err := checkComparisons(ctx, cfg, client, opts.Players, stats); err != nil {
		return stats, fmt.Errorf("comparison checks failed: %w", err)
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(ctx, log, stats)
	return stats, nil
}

func applyDefaults(cfg *Config) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Pairs <= 0 {
		cfg.Pairs = DefaultPairs
	}
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultWorkers
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, client *HTTPClient) error {
	resp, err := client.Get(ctx, "/healthz")
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	// The service answers with Prometheus metrics; any 200 is healthy.
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %d", ErrStatus, resp.StatusCode)
	}
	return nil
}

// checkRankings fetches the filtered and all-time ranking of every drill at
// every position, asking for one more than the maximum so clamping shows.
func checkRankings(ctx context.Context, cfg *Config, client *HTTPClient, opts types.Options, stats *Stats) error {
	for _, m := range opts.Metrics {
		for _, pos := range opts.Positions {
			for _, route := range []string{"/api/top", "/api/alltime"} {
				q := url.Values{}
				q.Set("metric", m.Name)
				q.Set("position", pos)
				q.Set("n", strconv.Itoa(opts.TopN.Max+1))
				path := route + "?" + q.Encode()

				var r types.Ranking
				if err := client.GetJSON(ctx, path, &r); err != nil {
					return err
				}
				stats.RankingsChecked++
				stats.PerformersChecked += len(r.Performers)
				if err := verifyRanking(r, m.LowerIsBetter, opts.TopN); err != nil {
					stats.Failures = append(stats.Failures, fmt.Sprintf("%s: %v", path, err))
				}
				if cfg.Verbose {
					logger.Get().Debug(ctx, "ranking checked",
						logger.String("path", path),
						logger.Int("performers", len(r.Performers)),
					)
				}
			}
		}
	}
	return nil
}

// pairs picks up to n distinct pairs from players, spreading across the list.
func pairs(players []string, n int) [][2]string {
	if len(players) < 2 {
		return nil
	}
	out := make([][2]string, 0, n)
	step := max(1, len(players)/(n+1))
	for i := 0; len(out) < n && i < len(players)-1-i; i += step {
		out = append(out, [2]string{players[i], players[len(players)-1-i]})
	}
	return out
}

// checkComparisons compares player pairs concurrently.
func checkComparisons(ctx context.Context, cfg *Config, client *HTTPClient, players []string, stats *Stats) error {
	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)

	for _, pair := range pairs(players, cfg.Pairs) {
		g.Go(func() error {
			q := url.Values{}
			q.Set("a", pair[0])
			q.Set("b", pair[1])
			path := "/api/compare?" + q.Encode()

			var c types.Comparison
			if err := client.GetJSON(gctx, path, &c); err != nil {
				return err
			}
			checked, undefined, verr := verifyComparison(c)

			mu.Lock()
			defer mu.Unlock()
			stats.ComparisonsChecked++
			stats.PercentilesChecked += checked
			stats.UndefinedScores += undefined
			if verr != nil {
				stats.Failures = append(stats.Failures, fmt.Sprintf("%s: %v", path, verr))
			}
			return nil
		})
	}
	return g.Wait()
}

// displayFinalStats logs the run summary.
func displayFinalStats(ctx context.Context, log logger.Logger, stats *Stats) {
	log.Info(ctx, "final statistics",
		logger.Int("rankingsChecked", stats.RankingsChecked),
		logger.Int("performersChecked", stats.PerformersChecked),
		logger.Int("comparisonsChecked", stats.ComparisonsChecked),
		logger.Int("percentilesChecked", stats.PercentilesChecked),
		logger.Int("undefinedScores", stats.UndefinedScores),
		logger.Int("failures", len(stats.Failures)),
		logger.Duration("duration", stats.Duration),
	)
	for _, f := range stats.Failures {
		log.Warn(ctx, "check failed", logger.String("detail", f))
	}
}
