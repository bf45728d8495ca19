// Package workflow runs multi-call submissions as a sequence of named steps
// so a failure can be attributed to the exact step that caused it.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/naveenspark/liftlog/internal/logging"
)

// Step is one remote call in a workflow. Undo, when set, reverses a
// completed Do and is only used when the Runner rolls back.
type Step struct {
	Name string
	Do   func(ctx context.Context) error
	Undo func(ctx context.Context) error
}

// StepError reports which step failed and which steps had already completed.
type StepError struct {
	Step      string
	Index     int
	Completed []string
	Err       error
	// RolledBack lists the completed steps that were undone.
	RolledBack []string
	// UndoErr is the first error hit while rolling back, if any.
	UndoErr error
}

func (e *StepError) Error() string {
	msg := fmt.Sprintf("%s failed: %v", e.Step, e.Err)
	if len(e.Completed) > 0 {
		msg += fmt.Sprintf(" (completed: %s)", strings.Join(e.Completed, ", "))
	}
	return msg
}

func (e *StepError) Unwrap() error { return e.Err }

// FailedStep returns the name of the failed step in err's chain, or "".
func FailedStep(err error) string {
	var stepErr *StepError
	if errors.As(err, &stepErr) {
		return stepErr.Step
	}
	return ""
}

// Runner executes steps in order and stops at the first failure.
type Runner struct {
	// Rollback undoes completed steps in reverse order after a failure.
	Rollback bool
	Log      *slog.Logger
}

// Run executes steps sequentially. On failure it returns a *StepError.
func (r Runner) Run(ctx context.Context, steps ...Step) error {
	log := r.Log
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	completed := make([]string, 0, len(steps))
	for i, s := range steps {
		if err := ctx.Err(); err != nil {
			return r.fail(ctx, log, steps[:i], completed, s.Name, i, err)
		}
		if err := s.Do(ctx); err != nil {
			return r.fail(ctx, log, steps[:i], completed, s.Name, i, err)
		}
		log.Debug("workflow step done", slog.String("step", s.Name), slog.Int("index", i))
		completed = append(completed, s.Name)
	}
	return nil
}

func (r Runner) fail(ctx context.Context, log *slog.Logger, done []Step, completed []string, name string, idx int, err error) error {
	stepErr := &StepError{Step: name, Index: idx, Completed: completed, Err: err}
	log.Warn("workflow step failed",
		slog.String("step", name),
		slog.Int("completed", len(completed)),
		logging.Err(err),
	)
	if !r.Rollback {
		return stepErr
	}

	// Undo runs even if ctx was cancelled so partial records are not left behind.
	undoCtx := context.WithoutCancel(ctx)
	for i := len(done) - 1; i >= 0; i-- {
		if done[i].Undo == nil {
			continue
		}
		if uerr := done[i].Undo(undoCtx); uerr != nil {
			log.Error("workflow rollback failed", slog.String("step", done[i].Name), logging.Err(uerr))
			if stepErr.UndoErr == nil {
				stepErr.UndoErr = fmt.Errorf("undo %s: %w", done[i].Name, uerr)
			}
			continue
		}
		stepErr.RolledBack = append(stepErr.RolledBack, done[i].Name)
	}
	return stepErr
}
