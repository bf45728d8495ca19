package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/naveenspark/liftlog/pkg/domain"
)

// ListWorkouts returns the user's workout sessions.
func (c *Client) ListWorkouts(ctx context.Context) ([]domain.WorkoutSession, error) {
	var sessions []domain.WorkoutSession
	if err := c.get(ctx, "/workouts", &sessions); err != nil {
		return nil, fmt.Errorf("client.ListWorkouts: %w", err)
	}
	return sessions, nil
}

// GetWorkout fetches a single session with its entries.
func (c *Client) GetWorkout(ctx context.Context, id int) (*domain.WorkoutSession, error) {
	var s domain.WorkoutSession
	if err := c.get(ctx, "/workouts/"+strconv.Itoa(id), &s); err != nil {
		return nil, fmt.Errorf("client.GetWorkout: %w", err)
	}
	return &s, nil
}

func (c *Client) CreateWorkout(ctx context.Context, w domain.WorkoutSessionCreate) (*domain.WorkoutSession, error) {
	var created domain.WorkoutSession
	if err := c.post(ctx, "/workouts", w, &created); err != nil {
		return nil, fmt.Errorf("client.CreateWorkout: %w", err)
	}
	return &created, nil
}

func (c *Client) UpdateWorkout(ctx context.Context, id int, w domain.WorkoutSessionUpdate) (*domain.WorkoutSession, error) {
	var updated domain.WorkoutSession
	if err := c.put(ctx, "/workouts/"+strconv.Itoa(id), w, &updated); err != nil {
		return nil, fmt.Errorf("client.UpdateWorkout: %w", err)
	}
	return &updated, nil
}

func (c *Client) DeleteWorkout(ctx context.Context, id int) error {
	if err := c.delete(ctx, "/workouts/"+strconv.Itoa(id)); err != nil {
		return fmt.Errorf("client.DeleteWorkout: %w", err)
	}
	return nil
}

// SearchWorkouts filters sessions by date range and exercise name. Empty
// filters are omitted.
func (c *Client) SearchWorkouts(ctx context.Context, q domain.WorkoutSearch) ([]domain.WorkoutSession, error) {
	params := url.Values{}
	if q.StartDate != "" {
		params.Set("start_date", q.StartDate)
	}
	if q.EndDate != "" {
		params.Set("end_date", q.EndDate)
	}
	if q.ExerciseName != "" {
		params.Set("exercise_name", q.ExerciseName)
	}

	path := "/workouts/search"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}
	var sessions []domain.WorkoutSession
	if err := c.get(ctx, path, &sessions); err != nil {
		return nil, fmt.Errorf("client.SearchWorkouts: %w", err)
	}
	return sessions, nil
}

// --- Entry methods ---

func (c *Client) ListEntries(ctx context.Context, sessionID int) ([]domain.WorkoutEntry, error) {
	var entries []domain.WorkoutEntry
	if err := c.get(ctx, entriesPath(sessionID), &entries); err != nil {
		return nil, fmt.Errorf("client.ListEntries: %w", err)
	}
	return entries, nil
}

func (c *Client) CreateEntry(ctx context.Context, sessionID int, e domain.WorkoutEntryCreate) (*domain.WorkoutEntry, error) {
	var created domain.WorkoutEntry
	if err := c.post(ctx, entriesPath(sessionID), e, &created); err != nil {
		return nil, fmt.Errorf("client.CreateEntry: %w", err)
	}
	return &created, nil
}

func (c *Client) UpdateEntry(ctx context.Context, sessionID, entryID int, e domain.WorkoutEntryUpdate) (*domain.WorkoutEntry, error) {
	var updated domain.WorkoutEntry
	if err := c.put(ctx, entriesPath(sessionID)+"/"+strconv.Itoa(entryID), e, &updated); err != nil {
		return nil, fmt.Errorf("client.UpdateEntry: %w", err)
	}
	return &updated, nil
}

func (c *Client) DeleteEntry(ctx context.Context, sessionID, entryID int) error {
	if err := c.delete(ctx, entriesPath(sessionID)+"/"+strconv.Itoa(entryID)); err != nil {
		return fmt.Errorf("client.DeleteEntry: %w", err)
	}
	return nil
}

func entriesPath(sessionID int) string {
	return "/workouts/" + strconv.Itoa(sessionID) + "/entries"
}

// --- Stats methods ---

// ExerciseStats returns stats for one exercise over the last days days.
func (c *Client) ExerciseStats(ctx context.Context, exercise string, days int) (*domain.ExerciseStats, error) {
	var stats domain.ExerciseStats
	path := "/workouts/stats/exercise/" + url.PathEscape(exercise) + "?days=" + strconv.Itoa(days)
	if err := c.get(ctx, path, &stats); err != nil {
		return nil, fmt.Errorf("client.ExerciseStats: %w", err)
	}
	return &stats, nil
}

// CategoryStats returns per-exercise records and volume for a category.
func (c *Client) CategoryStats(ctx context.Context, category string, days int) (*domain.CategoryStats, error) {
	var stats domain.CategoryStats
	path := "/workouts/stats/category/" + url.PathEscape(category) + "?days=" + strconv.Itoa(days)
	if err := c.get(ctx, path, &stats); err != nil {
		return nil, fmt.Errorf("client.CategoryStats: %w", err)
	}
	return &stats, nil
}

func (c *Client) PersonalRecords(ctx context.Context, userID int) (*domain.PersonalRecords, error) {
	var prs domain.PersonalRecords
	if err := c.get(ctx, "/workouts/users/"+strconv.Itoa(userID)+"/personal-records", &prs); err != nil {
		return nil, fmt.Errorf("client.PersonalRecords: %w", err)
	}
	return &prs, nil
}

// CalculatePlates asks the server how to load a barbell for weight.
func (c *Client) CalculatePlates(ctx context.Context, weight float64) (*domain.PlateCalculation, error) {
	var calc domain.PlateCalculation
	path := "/workouts/calculate-plates/" + strconv.FormatFloat(weight, 'f', -1, 64)
	if err := c.get(ctx, path, &calc); err != nil {
		return nil, fmt.Errorf("client.CalculatePlates: %w", err)
	}
	return &calc, nil
}

// ListExercises returns every exercise name the user has logged.
func (c *Client) ListExercises(ctx context.Context) ([]string, error) {
	var names []string
	if err := c.get(ctx, "/exercises", &names); err != nil {
		return nil, fmt.Errorf("client.ListExercises: %w", err)
	}
	return names, nil
}
