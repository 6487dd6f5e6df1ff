package main

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"golang.org/x/sync/errgroup"

	"image-fade/pkg/field"
	"image-fade/pkg/search"
)

type sweepOptions struct {
	workers  int
	budget   int
	maxNodes int
	timeout  time.Duration
	logger   *slog.Logger
}

type job struct {
	scale         int
	branching     int
	bidirectional bool
}

func (j job) mode() string {
	if j.bidirectional {
		return "bidirectional"
	}
	return "forward"
}

type outcome struct {
	job
	state     search.State
	path      int
	edits     int
	processed int
	culled    int
	elapsed   time.Duration
}

// searcher is the surface shared by search.Engine and search.Coordinator.
type searcher interface {
	Step(ctx context.Context, budget int) (search.State, error)
	Path() (search.Path, error)
	Stop()
}

func grid(scales, branchings []int, bidi bool) []job {
	var jobs []job
	for _, s := range scales {
		for _, b := range branchings {
			jobs = append(jobs, job{scale: s, branching: b})
			if bidi {
				jobs = append(jobs, job{scale: s, branching: b, bidirectional: true})
			}
		}
	}
	return jobs
}

// sweep runs every job with at most opts.workers searches in flight. A
// search that ends without a path is a result, not an error; only invalid
// settings fail the sweep.
func sweep(ctx context.Context, start, goal *field.Field, jobs []job, opts sweepOptions) ([]outcome, error) {
	results := make([]outcome, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	if opts.workers > 0 {
		g.SetLimit(opts.workers)
	}
	for i, j := range jobs {
		g.Go(func() error {
			res, err := runJob(gctx, start, goal, j, opts)
			if err != nil {
				return fmt.Errorf("scale=%d branching=%d %s: %w", j.scale, j.branching, j.mode(), err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func runJob(ctx context.Context, start, goal *field.Field, j job, opts sweepOptions) (outcome, error) {
	if opts.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.timeout)
		defer cancel()
	}
	logger := opts.logger
	if logger == nil {
		logger = slog.Default()
	}
	searchOpts := []search.Option{
		search.WithScale(j.scale),
		search.WithBranchingFactor(j.branching),
		search.WithStepBudget(max(opts.budget, 1)),
		search.WithLogger(logger.With("scale", j.scale, "branching", j.branching)),
	}

	var (
		s         searcher
		processed func() int
		culled    func() int
	)
	if j.bidirectional {
		co, err := search.NewCoordinator(start, goal, searchOpts...)
		if err != nil {
			return outcome{}, err
		}
		s = co
		processed = func() int { return co.Forward().Stats().Processed + co.Backward().Stats().Processed }
		culled = func() int { return co.Forward().Stats().Culled + co.Backward().Stats().Culled }
	} else {
		eng, err := search.NewEngine(start, goal, searchOpts...)
		if err != nil {
			return outcome{}, err
		}
		s = eng
		processed = func() int { return eng.Stats().Processed }
		culled = func() int { return eng.Stats().Culled }
	}

	began := time.Now()
	st := search.StateReady
	for !st.Terminal() {
		if opts.maxNodes > 0 && processed() >= opts.maxNodes {
			s.Stop()
		}
		// Exhaustion and cancellation show up in the state.
		st, _ = s.Step(ctx, max(opts.budget, 1))
	}
	res := outcome{job: j, state: st, processed: processed(), culled: culled(), elapsed: time.Since(began)}
	if st == search.StateGoalFound {
		p, err := s.Path()
		if err != nil {
			return outcome{}, err
		}
		res.path, res.edits = len(p), p.Edits()
	}
	return res, nil
}

// rank orders successful searches first, then by shorter paths and less
// work.
func rank(results []outcome) {
	sort.SliceStable(results, func(a, b int) bool {
		ra, rb := results[a], results[b]
		okA, okB := ra.state == search.StateGoalFound, rb.state == search.StateGoalFound
		if okA != okB {
			return okA
		}
		if ra.path != rb.path {
			return ra.path < rb.path
		}
		return ra.processed < rb.processed
	})
}

func renderTable(results []outcome) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("scale", "branching", "mode", "state", "path", "edits", "processed", "culled", "elapsed")
	for _, r := range results {
		t.Row(
			strconv.Itoa(r.scale),
			strconv.Itoa(r.branching),
			r.mode(),
			r.state.String(),
			strconv.Itoa(r.path),
			strconv.Itoa(r.edits),
			strconv.Itoa(r.processed),
			strconv.Itoa(r.culled),
			r.elapsed.Round(time.Millisecond).String(),
		)
	}
	return t.Render()
}
