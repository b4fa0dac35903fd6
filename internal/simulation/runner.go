// Package simulation runs a scenario over many regions. Regions are
// independent: each one builds its activity series (and optionally a
// synthetic trip profile) with its own random generator, so they can be
// processed by a bounded pool of workers in any order.
package simulation

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jgoulah/simbev/internal/log"
	"github.com/jgoulah/simbev/internal/mobility"
	"github.com/jgoulah/simbev/internal/sampler"
	"github.com/jgoulah/simbev/internal/timeseries"
	"github.com/jgoulah/simbev/pkg/models"
)

// Store persists region results
type Store interface {
	InsertBuckets(buckets []models.Bucket) error
	InsertTrips(trips []models.Trip) error
}

// Params describes one scenario run
type Params struct {
	RunID string
	Start time.Time
	End   time.Time
	Step  int
	Seed  int64
}

// RegionResult is the outcome of one region. Err is set when the region
// failed; the other regions are unaffected.
type RegionResult struct {
	Region   models.Region
	Series   *timeseries.Series
	Draws    []string
	Trips    int
	Empty    bool // series was zero-filled because the region has no tables
	Duration time.Duration
	Err      error
}

// Runner fans regions out over NumThreads workers
type Runner struct {
	Source      mobility.TableSource
	Pool        *sampler.Pool // optional synthetic profile pool
	Store       Store         // optional
	NumThreads  int
	FillMissing bool // use a zero series for regions without tables
}

// Run processes every region and returns their results in input order. The
// returned error is only set when ctx was cancelled before all regions ran.
func (r *Runner) Run(ctx context.Context, params Params, regions []models.Region) ([]RegionResult, error) {
	results := make([]RegionResult, len(regions))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, min(r.NumThreads, len(regions))))

	for i, region := range regions {
		i, region := i, region
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i] = RegionResult{Region: region, Err: err}
				return err
			}
			results[i] = r.runRegion(params, i, region, len(regions))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, fmt.Errorf("run interrupted: %w", err)
	}
	return results, nil
}

// RegionSeed derives the generator seed of the region at index
func RegionSeed(seed int64, index int) int64 {
	return seed + int64(index)
}

func (r *Runner) runRegion(params Params, index int, region models.Region, total int) RegionResult {
	started := time.Now()
	res := RegionResult{Region: region}
	log.Infow("region started", "region", region.ID, "index", index+1, "of", total)

	res.Series, res.Err = timeseries.Build(params.Start, params.End, region.ID, params.Step, r.Source)
	if errors.Is(res.Err, mobility.ErrTableNotFound) && r.FillMissing {
		log.Warnw("no tables for region, using empty series", "region", region.ID, "error", res.Err)
		res.Series, res.Err = timeseries.Empty(params.Start, params.End, params.Step)
		if res.Series != nil {
			res.Series.Region = region.ID
		}
		res.Empty = true
	}
	if res.Err != nil {
		return r.finish(res, started)
	}

	var trips []models.Trip
	if r.Pool != nil {
		rng := rand.New(rand.NewSource(RegionSeed(params.Seed, index)))
		synth, err := sampler.Build(params.Start, params.End, params.Step, r.Pool, rng)
		if err != nil {
			res.Err = fmt.Errorf("sampling profile: %w", err)
			return r.finish(res, started)
		}
		res.Draws = synth.Draws
		trips = Trips(params.RunID, region.ID, synth.Records)
		res.Trips = len(trips)
	}

	if r.Store != nil {
		if err := r.Store.InsertBuckets(res.Series.Buckets(params.RunID)); err != nil {
			res.Err = fmt.Errorf("storing series: %w", err)
			return r.finish(res, started)
		}
		if len(trips) > 0 {
			if err := r.Store.InsertTrips(trips); err != nil {
				res.Err = fmt.Errorf("storing trips: %w", err)
				return r.finish(res, started)
			}
		}
	}
	return r.finish(res, started)
}

func (r *Runner) finish(res RegionResult, started time.Time) RegionResult {
	res.Duration = time.Since(started)
	if res.Err != nil {
		log.Errorw("region failed", "region", res.Region.ID, "error", res.Err)
		return res
	}
	log.Infow("region finished", "region", res.Region.ID, "buckets", res.Series.Len(),
		"trips", res.Trips, "duration", res.Duration)
	return res
}

// Trips converts sampled records into storable trips
func Trips(runID, region string, records []sampler.Record) []models.Trip {
	trips := make([]models.Trip, len(records))
	for i, rec := range records {
		trips[i] = models.Trip{
			RunID:         runID,
			Region:        region,
			WeekID:        rec.WeekID,
			Day:           rec.Day,
			DepartureTime: rec.DepartureTime,
			TimeStep:      rec.TimeStep,
			Attributes:    rec.Attributes,
		}
	}
	return trips
}

// Failed returns the results that carry an error
func Failed(results []RegionResult) []RegionResult {
	var failed []RegionResult
	for _, res := range results {
		if res.Err != nil {
			failed = append(failed, res)
		}
	}
	return failed
}
