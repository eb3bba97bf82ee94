package service

import (
	"github.com/okian/combine/internal/adapters/dataset"
	"github.com/okian/combine/internal/adapters/repository"
	"github.com/okian/combine/internal/domain/geo"
	"github.com/okian/combine/internal/domain/portrait"
	"github.com/okian/combine/pkg/logger"
)

// Peer pool modes.
const (
	// PeerPoolAll compares against every record at the reference position.
	PeerPoolAll = "all"
	// PeerPoolComplete compares only against records with all drills present.
	PeerPoolComplete = "complete"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithDatasetPaths sets the combine table and player metadata sources.
func WithDatasetPaths(combinePath, playersPath string) Option {
	return func(s *Service) {
		if combinePath != "" {
			s.combinePath = combinePath
		}
		if playersPath != "" {
			s.playersPath = playersPath
		}
	}
}

// WithDataset publishes ds on Start instead of reading the dataset paths.
func WithDataset(ds dataset.Dataset) Option {
	return func(s *Service) {
		s.preloaded = &ds
	}
}

// WithRegionsPath sets the YAML institution-to-region map. Empty keeps the built-in map.
func WithRegionsPath(path string) Option {
	return func(s *Service) {
		s.regionsPath = path
	}
}

// WithRegions sets the region lookup directly.
func WithRegions(lookup geo.Lookup) Option {
	return func(s *Service) {
		if lookup != nil {
			s.regions = lookup
		}
	}
}

// WithPortraitResolver sets how portrait references are turned into URLs.
func WithPortraitResolver(r portrait.Resolver) Option {
	return func(s *Service) {
		s.portraits = r
	}
}

// WithTopNBounds sets the default ranking size and its clamp range.
func WithTopNBounds(def, minN, maxN int) Option {
	return func(s *Service) {
		if minN > 0 && maxN >= minN {
			s.minTopN, s.maxTopN = minN, maxN
		}
		if def > 0 {
			s.defaultTopN = def
		}
	}
}

// WithPipelineSchools sets how many institutions the pipeline view keeps.
func WithPipelineSchools(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.pipelineSchools = n
		}
	}
}

// WithDefaultYears sets the dashboard's initial year range.
func WithDefaultYears(minYear, maxYear int) Option {
	return func(s *Service) {
		if minYear > 0 && maxYear >= minYear {
			s.defaultYearMin, s.defaultYearMax = minYear, maxYear
		}
	}
}

// WithPeerPool selects PeerPoolAll or PeerPoolComplete. Unknown values are ignored.
func WithPeerPool(pool string) Option {
	return func(s *Service) {
		if pool == PeerPoolAll || pool == PeerPoolComplete {
			s.peerPool = pool
		}
	}
}

// WithStore sets the snapshot store.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}
