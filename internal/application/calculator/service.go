// Package calculator is the application-layer bulk driver: it evaluates the
// registered descriptor set against one or many structures, fanning out to a
// worker pool when requested while preserving input order in the emitted
// results.
package calculator

import (
	"context"
	"runtime"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/turtacn/MolDesc-Engine/internal/domain/descriptor"
	"github.com/turtacn/MolDesc-Engine/internal/domain/molecule"
	"github.com/turtacn/MolDesc-Engine/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/MolDesc-Engine/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/MolDesc-Engine/internal/infrastructure/progress"
)

// Row is the outcome of evaluating one input structure: the ordered Result
// sequence aligned with the registry's column order, any output captured
// from descriptor code, and a per-structure preparation error.  A Row with
// Err set has no Results; the batch continues past it.
type Row struct {
	Index   int
	Results []descriptor.Result
	Output  string
	Err     error
}

// Service drives descriptor evaluation over a fixed registry.  The registry
// must not be mutated while evaluations are running.
type Service struct {
	reg         *descriptor.Registry
	evaluator   *descriptor.Evaluator
	logger      logging.Logger
	metrics     *prometheus.Collector
	conformerID int
}

// ServiceOptions configures a Service.
type ServiceOptions struct {
	// Logger receives run-level and failure diagnostics; defaults to no-op.
	Logger logging.Logger

	// Metrics optionally records run/structure/result counters.
	Metrics *prometheus.Collector

	// Debug enables result-type validation in the evaluator.
	Debug bool

	// ConformerID selects the coordinate set for 3D descriptors; -1 is the
	// primary conformer.
	ConformerID int
}

// NewService builds a Service over the given registry.
func NewService(reg *descriptor.Registry, opts ServiceOptions) *Service {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Service{
		reg:         reg,
		evaluator:   descriptor.NewEvaluator(reg, descriptor.EvaluatorOptions{Debug: opts.Debug, Logger: logger}),
		logger:      logger.Named("calculator"),
		metrics:     opts.Metrics,
		conformerID: opts.ConformerID,
	}
}

// EvaluateOne computes the full descriptor set for a single structure and
// returns the ordered Result sequence.  Preparation failures (kekulization,
// missing conformer) are returned as an error.
func (s *Service) EvaluateOne(mol *molecule.Molecule) ([]descriptor.Result, error) {
	row := s.evaluateStructure(mol)
	if row.Err != nil {
		return nil, row.Err
	}
	return row.Results, nil
}

// EvaluateMany evaluates all structures and emits one Row per input on the
// returned channel, in input order regardless of worker completion order.
// workers == 1 selects the deterministic in-process serial path; workers <= 0
// means one worker per CPU.  The channel is closed when all rows have been
// emitted or ctx is cancelled; cancellation takes effect at structure
// boundaries and never leaks workers.
func (s *Service) EvaluateMany(ctx context.Context, mols []*molecule.Molecule, workers int, rep progress.Reporter) <-chan Row {
	if rep == nil {
		rep = progress.Nop{}
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	runID := uuid.NewString()
	s.logger.Info("bulk evaluation started",
		logging.String("run_id", runID),
		logging.Int("structures", len(mols)),
		logging.Int("workers", workers),
		logging.Int("descriptors", s.reg.Len()),
	)
	if s.metrics != nil {
		s.metrics.CountRun()
	}
	rep.Start(len(mols))

	out := make(chan Row)
	if workers == 1 {
		go s.runSerial(ctx, mols, rep, out, runID)
	} else {
		go s.runParallel(ctx, mols, workers, rep, out, runID)
	}
	return out
}

// evaluateStructure builds a fresh EvaluationContext and computes every
// registered descriptor.  All per-descriptor failures are inside Results;
// only structure preparation can set Err.
func (s *Service) evaluateStructure(mol *molecule.Molecule) Row {
	start := time.Now()

	ectx, err := descriptor.NewEvaluationContext(s.reg, mol, s.conformerID)
	if err != nil {
		return Row{Err: err}
	}

	results := s.evaluator.EvaluateAll(ectx)

	if s.metrics != nil {
		s.metrics.ObserveStructure(time.Since(start))
		for _, r := range results {
			s.metrics.CountResult(r.Kind.String())
		}
	}
	return Row{Results: results, Output: ectx.CapturedOutput()}
}

// finishStructure forwards captured descriptor output through the reporter
// and advances the progress counter.  Called once per structure, on
// completion rather than emission, so parallel progress is live.
func finishStructure(rep progress.Reporter, row Row) {
	if row.Output != "" {
		rep.Write(row.Output)
	}
	rep.Advance()
}

func (s *Service) runSerial(ctx context.Context, mols []*molecule.Molecule, rep progress.Reporter, out chan<- Row, runID string) {
	defer close(out)
	defer rep.Finish()

	for i, mol := range mols {
		select {
		case <-ctx.Done():
			s.logger.Warn("bulk evaluation cancelled",
				logging.String("run_id", runID), logging.Int("completed", i))
			return
		default:
		}

		row := s.evaluateStructure(mol)
		row.Index = i
		if row.Err != nil {
			s.logger.Warn("structure preparation failed",
				logging.String("run_id", runID), logging.Int("index", i), logging.Err(row.Err))
		}
		finishStructure(rep, row)

		select {
		case out <- row:
		case <-ctx.Done():
			return
		}
	}
}

func (s *Service) runParallel(ctx context.Context, mols []*molecule.Molecule, workers int, rep progress.Reporter, out chan<- Row, runID string) {
	defer close(out)
	defer rep.Finish()

	g, gctx := errgroup.WithContext(ctx)
	indexes := make(chan int)
	rows := make(chan Row, workers)

	g.Go(func() error {
		defer close(indexes)
		for i := range mols {
			select {
			case indexes <- i:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})

	for w := 0; w < workers; w++ {
		g.Go(func() error {
			for i := range indexes {
				row := s.evaluateStructure(mols[i])
				row.Index = i
				if row.Err != nil {
					s.logger.Warn("structure preparation failed",
						logging.String("run_id", runID), logging.Int("index", i), logging.Err(row.Err))
				}
				finishStructure(rep, row)

				select {
				case rows <- row:
				case <-gctx.Done():
					return gctx.Err()
				}
			}
			return nil
		})
	}

	go func() {
		if err := g.Wait(); err != nil && err != context.Canceled {
			s.logger.Warn("bulk evaluation stopped early",
				logging.String("run_id", runID), logging.Err(err))
		}
		close(rows)
	}()

	// Reassemble completion-ordered rows back into input order.
	pending := make(map[int]Row)
	next := 0
	for row := range rows {
		pending[row.Index] = row
		for {
			r, ok := pending[next]
			if !ok {
				break
			}
			delete(pending, next)
			select {
			case out <- r:
			case <-ctx.Done():
				// Drain remaining rows so workers can exit.
				for range rows {
				}
				return
			}
			next++
		}
	}
}
