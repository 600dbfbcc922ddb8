// Package dedupe partitions company records into duplicate groups using
// pairwise field-similarity signals. Detection is a pure function over an
// in-memory snapshot; the Service adds the fetch/metrics/event plumbing.
package dedupe

import (
	"context"
	"time"

	"github.com/Gobusters/ectologger"

	"github.com/fairgroundhq/trellis/pkg/metrics"
	"github.com/fairgroundhq/trellis/pkg/models"
	"github.com/fairgroundhq/trellis/pkg/tracing"
)

// CompanyLister provides the company snapshot for a detection run.
type CompanyLister interface {
	List(ctx context.Context) ([]models.Company, error)
}

// EventEmitter publishes analysis lifecycle events.
type EventEmitter interface {
	EmitDuplicatesAnalyzed(ctx context.Context, scanned, groupCount int) error
}

// Service orchestrates duplicate detection runs.
type Service struct {
	log       ectologger.Logger
	companies CompanyLister
	events    EventEmitter
}

// NewService creates a new dedupe service.
func NewService(log ectologger.Logger, companies CompanyLister, events EventEmitter) *Service {
	return &Service{
		log:       log,
		companies: companies,
		events:    events,
	}
}

// DetectAll loads all companies ordered by name and delegates to Detect.
// A failed load surfaces as an error with zero groups; detection itself
// never fails.
func (s *Service) DetectAll(ctx context.Context) ([]models.DuplicateGroup, int, error) {
	ctx, span := tracing.StartSpan(ctx, "dedupe.Service.DetectAll")
	defer span.End()

	log := s.log.WithContext(ctx)
	start := time.Now()

	companies, err := s.companies.List(ctx)
	if err != nil {
		log.WithError(err).Error("Failed to load companies for duplicate analysis")
		return nil, 0, err
	}

	groups := Detect(companies)
	metrics.ObserveDuplicateScan(time.Since(start), len(companies), len(groups))

	log.WithFields(map[string]any{
		"scanned":     len(companies),
		"group_count": len(groups),
	}).Info("Duplicate analysis complete")

	if s.events != nil {
		if err := s.events.EmitDuplicatesAnalyzed(ctx, len(companies), len(groups)); err != nil {
			log.WithError(err).Warn("Failed to emit duplicates analyzed event")
		}
	}

	return groups, len(companies), nil
}
