// Package checkout turns the active cart into an order request. The flow
// runs as a sequence of steps with compensating actions, so a failure
// mid-way leaves neither a half-written order nor a lost cart.
package checkout

import (
	"context"
	"log/slog"
)

// Step is a single unit of work in the checkout flow. Each step must have a
// compensating action that undoes its effect.
type Step interface {
	Name() string
	Execute(ctx context.Context) error
	Compensate(ctx context.Context) error
}

// Orchestrator runs checkout steps sequentially. When a step fails, the
// previously successful steps are compensated in LIFO order.
type Orchestrator struct {
	steps []Step
	log   *slog.Logger
}

func NewOrchestrator(steps []Step, log *slog.Logger) *Orchestrator {
	if log == nil {
		log = slog.Default()
	}
	return &Orchestrator{steps: steps, log: log}
}

// Run executes the steps in order, rolling back on the first failure.
func (o *Orchestrator) Run(ctx context.Context) error {
	var done []Step

	for _, step := range o.steps {
		o.log.DebugContext(ctx, "executing checkout step", "step", step.Name())
		if err := o.execute(ctx, step); err != nil {
			o.log.ErrorContext(ctx, "checkout step failed, rolling back", "step", step.Name(), "error", err)
			o.rollback(ctx, done)
			return err
		}
		done = append(done, step)
	}
	return nil
}

func (o *Orchestrator) execute(ctx context.Context, step Step) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return step.Execute(ctx)
}

func (o *Orchestrator) rollback(ctx context.Context, steps []Step) {
	for i := len(steps) - 1; i >= 0; i-- {
		step := steps[i]
		o.log.WarnContext(ctx, "compensating checkout step", "step", step.Name())
		if err := step.Compensate(ctx); err != nil {
			o.log.ErrorContext(ctx, "CRITICAL: failed to compensate checkout step", "step", step.Name(), "error", err)
		}
	}
}
