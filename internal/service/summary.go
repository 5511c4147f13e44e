package service

import (
	"context"
	"errors"
	"time"

	"github.com/xSteins/PencatatanKalori-sub000/internal"
	"github.com/xSteins/PencatatanKalori-sub000/internal/aggregate"
	"github.com/xSteins/PencatatanKalori-sub000/internal/calendar"
	"golang.org/x/sync/errgroup"
)

const rangeFetchLimit = 4

type SummaryService struct {
	env *Env
}

func NewSummaryService(env *Env) *SummaryService {
	return &SummaryService{env: env}
}

// ForDate summarizes one local day, creating its bucket from the current
// profile if the day has none yet. Without a profile it returns an empty
// summary for the day.
func (s *SummaryService) ForDate(ctx context.Context, date time.Time) (aggregate.DaySummary, error) {
	profile, err := s.env.Store.GetProfile(ctx)
	if err != nil {
		if errors.Is(err, internal.ErrNotFound) {
			day := calendar.StartOfDay(date, s.env.Location)
			return aggregate.DaySummary{Day: day, DayKey: day.Format(calendar.KeyLayout)}, nil
		}
		return aggregate.DaySummary{}, internal.StorageError("load the day summary", err)
	}
	bucket, err := s.env.Store.GetOrCreateDayBucket(ctx, bucketSeed(profile, date, s.env.Location))
	if err != nil {
		s.env.Reporter.Report("resolve day bucket", err)
		return aggregate.DaySummary{}, internal.StorageError("load the day summary", err)
	}
	return s.summarize(ctx, bucket)
}

func (s *SummaryService) Today(ctx context.Context) (aggregate.DaySummary, error) {
	return s.ForDate(ctx, s.env.Clock.Now())
}

// ForRange summarizes every existing bucket from the first through the last
// local day, oldest first. Days without a bucket are skipped, not created.
func (s *SummaryService) ForRange(ctx context.Context, first, last time.Time) ([]aggregate.DaySummary, error) {
	profile, err := s.env.Store.GetProfile(ctx)
	if err != nil {
		if errors.Is(err, internal.ErrNotFound) {
			return []aggregate.DaySummary{}, nil
		}
		return nil, internal.StorageError("load summaries", err)
	}
	start, end := calendar.SpanRange(first, last, s.env.Location)
	buckets, err := s.env.Store.ListDayBuckets(ctx, profile.ID, start, end)
	if err != nil {
		s.env.Reporter.Report("list day buckets", err)
		return nil, internal.StorageError("load summaries", err)
	}

	summaries := make([]aggregate.DaySummary, len(buckets))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(rangeFetchLimit)
	for i := range buckets {
		i := i
		g.Go(func() error {
			sum, err := s.summarize(gctx, &buckets[i])
			if err != nil {
				return err
			}
			summaries[i] = sum
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return summaries, nil
}

func (s *SummaryService) summarize(ctx context.Context, bucket *internal.DayBucket) (aggregate.DaySummary, error) {
	entries, err := s.env.Store.ListActivitiesForBucket(ctx, bucket.ID)
	if err != nil {
		s.env.Reporter.Report("list day activities", err)
		return aggregate.DaySummary{}, internal.StorageError("load the day summary", err)
	}
	return aggregate.SummarizeDay(bucket, entries), nil
}
