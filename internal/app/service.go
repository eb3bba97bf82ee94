// Package service provides the core business service that implements
// the dependencies required by the HTTP API, the MCP tools and the CLI.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/okian/combine/internal/adapters/dataset"
	"github.com/okian/combine/internal/adapters/repository"
	"github.com/okian/combine/internal/domain/geo"
	"github.com/okian/combine/internal/domain/model"
	"github.com/okian/combine/internal/domain/percentile"
	"github.com/okian/combine/internal/domain/pipeline"
	"github.com/okian/combine/internal/domain/portrait"
	"github.com/okian/combine/internal/domain/query"
	"github.com/okian/combine/internal/domain/types"
	"github.com/okian/combine/pkg/logger"
	"github.com/okian/combine/pkg/metrics"
)

// Query selects a view of the dataset.
type Query = types.Query

// Service implements the read operations over the loaded combine snapshot.
type Service struct {
	mu sync.RWMutex

	// Core components
	store     repository.Store
	regions   geo.Lookup
	portraits portrait.Resolver

	// Configuration
	combinePath     string
	playersPath     string
	regionsPath     string
	preloaded       *dataset.Dataset
	defaultTopN     int
	minTopN         int
	maxTopN         int
	pipelineSchools int
	defaultYearMin  int
	defaultYearMax  int
	peerPool        string

	// State
	started bool

	// Logging
	logger logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		combinePath:     "nfl_combine_2010_to_2023.csv",
		playersPath:     "players.csv",
		portraits:       portrait.Default(),
		defaultTopN:     10,
		minTopN:         5,
		maxTopN:         50,
		pipelineSchools: pipeline.DefaultSchools,
		defaultYearMin:  2010,
		defaultYearMax:  2023,
		peerPool:        PeerPoolAll,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.store == nil {
		s.store = repository.NewSnapshotStore()
	}
	return s
}

// Start loads the region map and both input tables and publishes the
// snapshot. Any load failure is returned; the service cannot run without
// its dataset.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting combine service...",
		logger.String("dataset", s.combinePath),
		logger.String("players", s.playersPath),
	)

	if s.regions == nil {
		regions, err := geo.LoadLookup(s.regionsPath)
		if err != nil {
			return fmt.Errorf("load regions: %w", err)
		}
		s.regions = regions
	}

	var ds dataset.Dataset
	if s.preloaded != nil {
		ds = *s.preloaded
	} else {
		loaded, err := dataset.LoadAll(ctx, s.combinePath, s.playersPath)
		if err != nil {
			metrics.RecordErrorByComponent("dataset", "load_failed")
			return fmt.Errorf("load dataset: %w", err)
		}
		ds = loaded
	}

	snap, err := s.store.Publish(ctx, ds)
	if err != nil && !errors.Is(err, repository.ErrAlreadyLoaded) {
		return fmt.Errorf("publish dataset: %w", err)
	}
	if snap == nil {
		if snap, err = s.store.Snapshot(ctx); err != nil {
			return err
		}
	}

	s.started = true
	s.logger.Info(ctx, "combine service started",
		logger.Int("records", snap.Count()),
		logger.Int("players", snap.PlayersRead),
		logger.Int("portraits", snap.Portraits),
		logger.Int("eligible", len(snap.Players)),
		logger.Int("regions", len(s.regions)),
		logger.Duration("loadTime", snap.LoadTime),
	)
	return nil
}

// Stop marks the service stopped. The snapshot stays published.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.started = false
	s.logger.Info(context.Background(), "combine service stopped")
}

func (s *Service) snapshot(ctx context.Context) (*repository.Snapshot, error) {
	s.mu.RLock()
	started := s.started
	s.mu.RUnlock()
	if !started {
		return nil, ErrNotStarted
	}
	return s.store.Snapshot(ctx)
}

func observe(op string, start time.Time) {
	metrics.RecordQuery(op, float64(time.Since(start))/float64(time.Millisecond))
}

// criteria fills in the query defaults against snap.
func criteria(snap *repository.Snapshot, q Query) query.Criteria {
	c := query.Criteria{YearMin: q.YearMin, YearMax: q.YearMax, Position: q.Position}
	if c.YearMin == 0 {
		c.YearMin = snap.YearMin
	}
	if c.YearMax == 0 {
		c.YearMax = snap.YearMax
	}
	if c.Position == "" {
		c.Position = query.AllPositions
	}
	return c
}

func resolveMetric(name string) (model.Metric, error) {
	if name == "" {
		return model.Forty, nil
	}
	return model.ParseMetric(name)
}

func (s *Service) topN(n int) int {
	if n == 0 {
		n = s.defaultTopN
	}
	return query.ClampTopN(n, s.minTopN, s.maxTopN)
}

// Options returns every value the dashboard controls can take.
func (s *Service) Options(ctx context.Context) (types.Options, error) {
	defer observe("options", time.Now())

	snap, err := s.snapshot(ctx)
	if err != nil {
		return types.Options{}, err
	}

	defMin, defMax := s.defaultYearMin, s.defaultYearMax
	if snap.YearMax > 0 {
		defMin = min(max(defMin, snap.YearMin), snap.YearMax)
		defMax = max(min(defMax, snap.YearMax), defMin)
	}

	positions := make([]string, 0, len(snap.Positions)+1)
	positions = append(positions, query.AllPositions)
	positions = append(positions, snap.Positions...)

	return types.Options{
		Positions:      positions,
		Metrics:        metricOptions(),
		YearMin:        snap.YearMin,
		YearMax:        snap.YearMax,
		DefaultYearMin: defMin,
		DefaultYearMax: defMax,
		TopN:           types.TopNBounds{Min: s.minTopN, Max: s.maxTopN, Default: s.topN(0)},
		Players:        append([]string(nil), snap.Players...),
	}, nil
}

// Summary returns the headline counts for the filtered view.
func (s *Service) Summary(ctx context.Context, q Query) (types.Summary, error) {
	defer observe("summary", time.Now())

	snap, err := s.snapshot(ctx)
	if err != nil {
		return types.Summary{}, err
	}
	c := criteria(snap, q)
	sum := query.Summarize(query.Filter(snap.Records, c), c)
	return types.Summary{
		TotalPlayers:  sum.TotalPlayers,
		UniqueSchools: sum.UniqueSchools,
		Positions:     sum.Positions,
		YearMin:       sum.YearMin,
		YearMax:       sum.YearMax,
		Position:      c.Position,
	}, nil
}

// Top ranks the filtered view by the query metric.
func (s *Service) Top(ctx context.Context, q Query) (types.Ranking, error) {
	defer observe("top", time.Now())

	snap, err := s.snapshot(ctx)
	if err != nil {
		return types.Ranking{}, err
	}
	metric, err := resolveMetric(q.Metric)
	if err != nil {
		return types.Ranking{}, err
	}
	c := criteria(snap, q)
	n := s.topN(q.N)

	ranked := query.Rank(query.Filter(snap.Records, c), metric, n)
	out := toRanking(ranked, metric, c.Position, n)
	out.YearMin, out.YearMax = c.YearMin, c.YearMax
	return out, nil
}

// AllTime ranks the full history at the query position. Years are ignored.
func (s *Service) AllTime(ctx context.Context, q Query) (types.Ranking, error) {
	defer observe("alltime", time.Now())

	snap, err := s.snapshot(ctx)
	if err != nil {
		return types.Ranking{}, err
	}
	metric, err := resolveMetric(q.Metric)
	if err != nil {
		return types.Ranking{}, err
	}
	position := q.Position
	if position == "" {
		position = query.AllPositions
	}
	n := s.topN(q.N)

	ranked := query.Rank(query.ByPosition(snap.Records, position), metric, n)
	return toRanking(ranked, metric, position, n), nil
}

// Compare scores two eligible players against the peer pool at the first
// player's position, drawn from the full dataset.
func (s *Service) Compare(ctx context.Context, nameA, nameB string) (types.Comparison, error) {
	defer observe("compare", time.Now())

	snap, err := s.snapshot(ctx)
	if err != nil {
		return types.Comparison{}, err
	}

	a, err := snap.Lookup(nameA)
	if err != nil {
		metrics.RecordComparison("ineligible")
		s.logger.Warn(ctx, "comparison player not eligible", logger.String("player", nameA))
		return types.Comparison{}, fmt.Errorf("%w: %w", ErrIneligible, err)
	}
	b, err := snap.Lookup(nameB)
	if err != nil {
		metrics.RecordComparison("ineligible")
		s.logger.Warn(ctx, "comparison player not eligible", logger.String("player", nameB))
		return types.Comparison{}, fmt.Errorf("%w: %w", ErrIneligible, err)
	}

	pool := snap.Records
	if s.peerPool == PeerPoolComplete {
		pool = snap.Complete
	}
	cmp := percentile.Compare(a, b, pool)

	metrics.RecordComparison("ok")
	metrics.RecordUndefinedPercentiles(cmp.Undefined())
	if a.Position != b.Position {
		s.logger.Debug(ctx, "comparing players at different positions",
			logger.String("reference", a.Position),
			logger.String("other", b.Position),
		)
	}

	return toComparison(cmp, a, b, s.portraits), nil
}

// Regions counts the filtered view per mapped region.
func (s *Service) Regions(ctx context.Context, q Query) (types.Regions, error) {
	defer observe("regions", time.Now())

	snap, err := s.snapshot(ctx)
	if err != nil {
		return types.Regions{}, err
	}
	subset := query.Filter(snap.Records, criteria(snap, q))
	counts := geo.Aggregate(subset, s.regions)

	out := types.Regions{Regions: make([]types.RegionCount, 0, len(counts))}
	for _, rc := range geo.Sorted(counts) {
		out.Regions = append(out.Regions, types.RegionCount{Region: rc.Region, Count: rc.Count})
		out.Mapped += rc.Count
	}
	out.Unmapped = len(subset) - out.Mapped
	return out, nil
}

// Pipeline returns the institution distribution of the filtered view.
func (s *Service) Pipeline(ctx context.Context, q Query) (types.Pipeline, error) {
	defer observe("pipeline", time.Now())

	snap, err := s.snapshot(ctx)
	if err != nil {
		return types.Pipeline{}, err
	}
	metric, err := resolveMetric(q.Metric)
	if err != nil {
		return types.Pipeline{}, err
	}
	c := criteria(snap, q)
	res := pipeline.Analyze(query.Filter(snap.Records, c), metric, c.Position, s.pipelineSchools)
	return toPipeline(res), nil
}

// Players lists the names eligible for comparison.
func (s *Service) Players(ctx context.Context) (types.Players, error) {
	defer observe("players", time.Now())

	snap, err := s.snapshot(ctx)
	if err != nil {
		return types.Players{}, err
	}
	return types.Players{Players: append([]string(nil), snap.Players...), Count: len(snap.Players)}, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":         s.started,
		"peerPool":        s.peerPool,
		"minTopN":         s.minTopN,
		"maxTopN":         s.maxTopN,
		"pipelineSchools": s.pipelineSchools,
		"regions":         len(s.regions),
	}

	if s.started {
		if snap, err := s.store.Snapshot(context.Background()); err == nil {
			stats["records"] = snap.Count()
			stats["completeRecords"] = len(snap.Complete)
			stats["eligiblePlayers"] = len(snap.Players)
			stats["playersRead"] = snap.PlayersRead
			stats["portraits"] = snap.Portraits
			stats["positions"] = len(snap.Positions)
			stats["yearMin"] = snap.YearMin
			stats["yearMax"] = snap.YearMax
			stats["loadedAt"] = snap.LoadedAt.UTC().Format(time.RFC3339)
			stats["loadTimeMs"] = snap.LoadTime.Milliseconds()
		}
	}

	return stats
}
