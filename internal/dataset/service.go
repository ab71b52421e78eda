package dataset

import (
	"context"
	"log/slog"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

const statsKey = "station-stats"

// StatsService serves station analytics from the corpus file, recomputing at
// most once per TTL.
type StatsService struct {
	path   string
	cache  *gocache.Cache
	logger *slog.Logger
}

// NewStatsService creates a service reading the corpus at path. Expired
// entries are dropped on read; no background janitor runs.
func NewStatsService(path string, ttl time.Duration, logger *slog.Logger) *StatsService {
	return &StatsService{
		path:   path,
		cache:  gocache.New(ttl, 0),
		logger: logger,
	}
}

// Stats returns cached analytics, loading the corpus on a miss.
func (s *StatsService) Stats(_ context.Context) (StationStats, error) {
	if v, ok := s.cache.Get(statsKey); ok {
		return v.(StationStats), nil
	}

	start := time.Now()
	corpus, err := LoadFile(s.path)
	if err != nil {
		return StationStats{}, err
	}
	stats, err := ComputeStationStats(corpus)
	if err != nil {
		return StationStats{}, err
	}

	s.cache.SetDefault(statsKey, stats)
	s.logger.Info("station stats computed",
		"path", s.path,
		"rows", corpus.Len(),
		"stations", len(stats.Stations),
		"duration", time.Since(start),
	)
	return stats, nil
}

// Invalidate drops the cached analytics.
func (s *StatsService) Invalidate() {
	s.cache.Delete(statsKey)
}
