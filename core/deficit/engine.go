// Package deficit provides the deficit engine.
// The engine turns part selections, owned resources and bundle purchases into
// a per-resource required/owned/deficit report. It is pure: it keeps no state
// between calls and reads only the immutable reference data it was built with.
package deficit

import (
	"time"

	"go.uber.org/zap"

	"gear-cost/core/refdata"
	"gear-cost/core/types"
	"gear-cost/internal/errors"
	"gear-cost/internal/logging"
)

// Recorder observes finished calculations
type Recorder interface {
	RecordCalculation(outcome string, duration time.Duration, ignoredBundles int)
}

// Calculation outcomes passed to a Recorder
const (
	OutcomeOK       = "ok"
	OutcomeShortage = "shortage"
	OutcomeInvalid  = "invalid"
)

// Engine computes deficit reports against fixed reference data
type Engine struct {
	ref      *refdata.Reference
	logger   *zap.Logger
	recorder Recorder
}

// Option configures an Engine
type Option func(*Engine)

// WithLogger sets the engine logger
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithRecorder sets a calculation observer
func WithRecorder(r Recorder) Option {
	return func(e *Engine) { e.recorder = r }
}

// New creates an engine over ref
func New(ref *refdata.Reference, opts ...Option) (*Engine, error) {
	if ref == nil || ref.Ladder == nil || ref.Catalog == nil {
		return nil, errors.Input("deficit engine needs a tier ladder and a bundle catalog")
	}
	e := &Engine{ref: ref}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = logging.OrNop(e.logger)
	return e, nil
}

// Reference returns the reference data the engine reads
func (e *Engine) Reference() *refdata.Reference {
	return e.ref
}

// Compute produces the deficit report for req. The tracked resource set, and
// the row order, is the order of req.Owned. Unknown tiers fail the whole
// request; unknown bundles contribute nothing.
// Callers are expected to have run ValidateRequest first.
func (e *Engine) Compute(req Request) (*Report, error) {
	start := time.Now()

	report, err := e.compute(req)

	if e.recorder != nil {
		outcome, ignored := OutcomeInvalid, 0
		if err == nil {
			outcome, ignored = OutcomeOK, len(report.IgnoredBundles)
			if report.Shortfall() {
				outcome = OutcomeShortage
			}
		}
		e.recorder.RecordCalculation(outcome, time.Since(start), ignored)
	}
	return report, err
}

func (e *Engine) compute(req Request) (*Report, error) {
	tracked := req.Owned.Kinds()

	required := make(types.CostVector, len(tracked))
	perPart := make([]PartCost, 0, len(req.Parts))
	for _, p := range req.Parts {
		cost, err := e.ref.Ladder.IntervalCost(p.Current, p.Target)
		if err != nil {
			return nil, errors.Wrapf(errors.TypeInput, err, "part %s", p.Part).
				WithContext("part", p.Part)
		}
		cost = cost.Restrict(tracked)
		if kind, ok := required.AddChecked(cost); !ok {
			return nil, errors.Newf(errors.TypeInput, "required %s overflows at part %s", kind, p.Part).
				WithContext("part", p.Part).
				WithContext("resource", string(kind))
		}
		perPart = append(perPart, PartCost{
			Part:    p.Part,
			Current: p.Current,
			Target:  p.Target,
			Cost:    cost,
		})
	}

	contribution, err := e.ref.Catalog.Aggregate(req.Purchases)
	if err != nil {
		return nil, err
	}
	for _, key := range contribution.Unknown {
		e.logger.Debug("ignoring unknown bundle", zap.String("bundle", key))
	}

	direct := req.Owned.Vector()
	rows := make([]Row, 0, len(tracked))
	for _, kind := range tracked {
		need := required.Get(kind)
		have, ok := types.AddAmounts(direct.Get(kind), contribution.Totals.Get(kind))
		if !ok {
			return nil, errors.Newf(errors.TypeInput, "owned %s plus bundles overflows", kind).
				WithContext("resource", string(kind))
		}
		rows = append(rows, Row{
			Resource: kind,
			Required: need,
			Owned:    have,
			Deficit:  floorDeficit(need, have),
		})
	}

	report := &Report{
		Rows:           rows,
		PerPart:        perPart,
		Untracked:      nonZero(contribution.Totals.Without(tracked)),
		IgnoredBundles: contribution.Unknown,
		Spend:          e.ref.Catalog.Spend(req.Purchases),
	}

	e.logger.Debug("deficit computed",
		zap.Int("parts", len(req.Parts)),
		zap.Int("resources", len(rows)),
		zap.Bool("shortfall", report.Shortfall()))

	return report, nil
}

func floorDeficit(required, owned int64) int64 {
	if required > owned {
		return required - owned
	}
	return 0
}

func nonZero(v types.CostVector) types.CostVector {
	for k, amount := range v {
		if amount == 0 {
			delete(v, k)
		}
	}
	return v
}
