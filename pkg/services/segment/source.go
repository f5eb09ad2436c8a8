package segment

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/de-tools/txn-atlas/pkg/adapters"
	"github.com/de-tools/txn-atlas/pkg/models/domain"
	"github.com/de-tools/txn-atlas/pkg/store/duckdb/segments"
)

// Source yields the half-period segment stats the analyze stage compares.
type Source interface {
	Segments(ctx context.Context) ([]domain.SegmentStat, error)
	Name() string
}

type storeSource struct {
	store segments.Store
}

func NewStoreSource(store segments.Store) Source {
	return &storeSource{store: store}
}

func (s *storeSource) Name() string {
	return "segment_stats table"
}

func (s *storeSource) Segments(ctx context.Context) ([]domain.SegmentStat, error) {
	rows, err := s.store.GetStats(ctx, segments.Filter{})
	if err != nil {
		return nil, fmt.Errorf("load segment stats: %w", err)
	}
	if len(rows) == 0 {
		return nil, &domain.InsufficientDataError{
			Subject: "segment_stats",
			Reason:  "table is empty, run the pipeline stage first",
		}
	}

	stats := make([]domain.SegmentStat, 0, len(rows))
	for _, row := range rows {
		stats = append(stats, adapters.MapSegmentStatStoreToDomain(row))
	}

	zerolog.Ctx(ctx).Info().
		Int("segment_rows", len(stats)).
		Str("source", s.Name()).
		Msg("loaded segment statistics")
	return stats, nil
}
