package workflow

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(log *[]string, name string, err error) Step {
	return Step{
		Name: name,
		Do: func(context.Context) error {
			*log = append(*log, "do "+name)
			return err
		},
		Undo: func(context.Context) error {
			*log = append(*log, "undo "+name)
			return nil
		},
	}
}

func TestRun_AllSucceed(t *testing.T) {
	var log []string
	err := Runner{}.Run(context.Background(),
		record(&log, "a", nil),
		record(&log, "b", nil),
	)
	require.NoError(t, err)
	assert.Equal(t, []string{"do a", "do b"}, log)
}

func TestRun_StopsAtFirstFailure(t *testing.T) {
	var log []string
	boom := errors.New("boom")
	err := Runner{}.Run(context.Background(),
		record(&log, "a", nil),
		record(&log, "b", boom),
		record(&log, "c", nil),
	)

	var stepErr *StepError
	require.ErrorAs(t, err, &stepErr)
	assert.Equal(t, "b", stepErr.Step)
	assert.Equal(t, 1, stepErr.Index)
	assert.Equal(t, []string{"a"}, stepErr.Completed)
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, stepErr.RolledBack)
	assert.Equal(t, []string{"do a", "do b"}, log)
	assert.Equal(t, "b failed: boom (completed: a)", err.Error())
}

func TestRun_RollbackReverseOrder(t *testing.T) {
	var log []string
	err := Runner{Rollback: true}.Run(context.Background(),
		record(&log, "a", nil),
		record(&log, "b", nil),
		record(&log, "c", errors.New("nope")),
	)

	var stepErr *StepError
	require.ErrorAs(t, err, &stepErr)
	assert.Equal(t, []string{"b", "a"}, stepErr.RolledBack)
	assert.NoError(t, stepErr.UndoErr)
	assert.Equal(t, []string{"do a", "do b", "do c", "undo b", "undo a"}, log)
}

func TestRun_UndoErrorRecorded(t *testing.T) {
	undoFail := errors.New("undo failed")
	steps := []Step{
		{Name: "a", Do: func(context.Context) error { return nil }, Undo: func(context.Context) error { return undoFail }},
		{Name: "b", Do: func(context.Context) error { return errors.New("b broke") }},
	}
	err := Runner{Rollback: true}.Run(context.Background(), steps...)

	var stepErr *StepError
	require.ErrorAs(t, err, &stepErr)
	assert.ErrorIs(t, stepErr.UndoErr, undoFail)
	assert.Empty(t, stepErr.RolledBack)
}

func TestRun_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var log []string
	err := Runner{}.Run(ctx, record(&log, "a", nil))
	assert.Equal(t, "a", FailedStep(err))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, log)
}

func TestFailedStep_NotAStepError(t *testing.T) {
	assert.Equal(t, "", FailedStep(errors.New("plain")))
	assert.Equal(t, "", FailedStep(nil))
}
