package workflow

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/naveenspark/liftlog/pkg/domain"
)

// WorkoutAPI is the subset of the API client used to create a workout.
type WorkoutAPI interface {
	CreateWorkout(ctx context.Context, w domain.WorkoutSessionCreate) (*domain.WorkoutSession, error)
	CreateEntry(ctx context.Context, sessionID int, e domain.WorkoutEntryCreate) (*domain.WorkoutEntry, error)
	DeleteWorkout(ctx context.Context, id int) error
}

// CreateWorkoutInput carries a validated session and its entries.
type CreateWorkoutInput struct {
	Session domain.WorkoutSessionCreate
	Entries []domain.WorkoutEntryCreate
}

// CreateWorkoutDeps holds dependencies for ExecuteCreateWorkout.
type CreateWorkoutDeps struct {
	API      WorkoutAPI
	Rollback bool
	Log      *slog.Logger
}

// CreateWorkoutResult is the created session with the entries that were saved.
type CreateWorkoutResult struct {
	Session domain.WorkoutSession
	Entries []domain.WorkoutEntry
}

// EntryStepName names the step that creates entry i (zero-based).
func EntryStepName(i int, exercise string) string {
	return fmt.Sprintf("create entry %d (%s)", i+1, exercise)
}

// StepCreateSession names the step that creates the session record.
const StepCreateSession = "create session"

// ExecuteCreateWorkout creates the session and then each entry in order.
// PRE: input already validated
// POST: on success the session exists with every entry; on failure the
// returned *StepError names the failed entry and, unless Rollback is set,
// the session and earlier entries remain on the server. The partial result
// is returned alongside the error.
func ExecuteCreateWorkout(ctx context.Context, input CreateWorkoutInput, deps CreateWorkoutDeps) (*CreateWorkoutResult, error) {
	res := &CreateWorkoutResult{}

	steps := []Step{{
		Name: StepCreateSession,
		Do: func(ctx context.Context) error {
			s, err := deps.API.CreateWorkout(ctx, input.Session)
			if err != nil {
				return err
			}
			res.Session = *s
			return nil
		},
		Undo: func(ctx context.Context) error {
			return deps.API.DeleteWorkout(ctx, res.Session.ID)
		},
	}}
	for i, e := range input.Entries {
		steps = append(steps, Step{
			Name: EntryStepName(i, e.ExerciseName),
			Do: func(ctx context.Context) error {
				created, err := deps.API.CreateEntry(ctx, res.Session.ID, e)
				if err != nil {
					return err
				}
				res.Entries = append(res.Entries, *created)
				return nil
			},
		})
	}

	runner := Runner{Rollback: deps.Rollback, Log: deps.Log}
	if err := runner.Run(ctx, steps...); err != nil {
		return res, err
	}
	res.Session.Entries = res.Entries
	return res, nil
}
