package batch

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"mediaskills/imagegen"
	"mediaskills/logging"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the worker count when --concurrency is not given.
const DefaultConcurrency = 4

// TaskGenerator produces one image file. *imagegen.Generator implements it.
type TaskGenerator interface {
	GenerateToFile(ctx context.Context, req imagegen.Request) (*imagegen.SavedImage, error)
}

// Runner executes resolved tasks on a fixed number of workers.
//
// Workers claim the next task index from a shared atomic cursor, so each
// task runs exactly once and a failing task never stops the others.
type Runner struct {
	generator   TaskGenerator
	concurrency int
	logger      *logging.Logger
}

// NewRunner creates a Runner. concurrency below 1 means DefaultConcurrency.
func NewRunner(generator TaskGenerator, concurrency int, logger *logging.Logger) (*Runner, error) {
	if generator == nil {
		return nil, fmt.Errorf("batch: generator cannot be nil")
	}
	if concurrency < 1 {
		concurrency = DefaultConcurrency
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Runner{
		generator:   generator,
		concurrency: concurrency,
		logger:      logger.Named("batch"),
	}, nil
}

// Run processes every task and returns the report with outcomes sorted by
// task index. The context is passed to each generation; Run itself never
// cancels it.
func (r *Runner) Run(ctx context.Context, tasks []ResolvedTask) *Report {
	workers := min(r.concurrency, len(tasks))

	r.logger.Info("starting batch",
		zap.Int("tasks", len(tasks)),
		zap.Int("workers", workers))

	var (
		cursor   atomic.Int64
		mu       sync.Mutex
		outcomes = make([]Outcome, 0, len(tasks))
	)

	g := new(errgroup.Group)
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			for {
				idx := int(cursor.Add(1)) - 1
				if idx >= len(tasks) {
					return nil
				}
				outcome := r.runTask(ctx, tasks[idx])

				mu.Lock()
				outcomes = append(outcomes, outcome)
				mu.Unlock()
			}
		})
	}
	_ = g.Wait()

	sort.Slice(outcomes, func(i, j int) bool { return outcomes[i].Index < outcomes[j].Index })
	return NewReport(outcomes)
}

func (r *Runner) runTask(ctx context.Context, task ResolvedTask) Outcome {
	log := r.logger.With(zap.Int("task", task.Index))

	saved, err := r.generator.GenerateToFile(ctx, task.Request())
	if err != nil {
		log.Warn("task failed", zap.Error(err))
		return Outcome{Index: task.Index, Image: task.OutputPath, OK: false, Error: err.Error()}
	}

	log.Debug("task succeeded", zap.String("image", saved.Path))
	return Outcome{Index: task.Index, Image: saved.Path, OK: true}
}
