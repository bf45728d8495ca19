package client

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/naveenspark/liftlog/pkg/domain"
)

// ListPrograms returns programs visible to the user. With publicOnly the
// server drops private programs, including the user's own.
func (c *Client) ListPrograms(ctx context.Context, publicOnly bool) ([]domain.WorkoutProgram, error) {
	var programs []domain.WorkoutProgram
	path := "/workout-programs?public_only=" + strconv.FormatBool(publicOnly)
	if err := c.get(ctx, path, &programs); err != nil {
		return nil, fmt.Errorf("client.ListPrograms: %w", err)
	}
	return programs, nil
}

func (c *Client) GetProgram(ctx context.Context, id int) (*domain.WorkoutProgram, error) {
	var p domain.WorkoutProgram
	if err := c.get(ctx, programPath(id), &p); err != nil {
		return nil, fmt.Errorf("client.GetProgram: %w", err)
	}
	return &p, nil
}

func (c *Client) CreateProgram(ctx context.Context, p domain.WorkoutProgramCreate) (*domain.WorkoutProgram, error) {
	var created domain.WorkoutProgram
	if err := c.post(ctx, "/workout-programs", p, &created); err != nil {
		return nil, fmt.Errorf("client.CreateProgram: %w", err)
	}
	return &created, nil
}

// UpdateProgram sends a partial update; fields is marshalled as-is.
func (c *Client) UpdateProgram(ctx context.Context, id int, fields map[string]any) (*domain.WorkoutProgram, error) {
	var updated domain.WorkoutProgram
	if err := c.put(ctx, programPath(id), fields, &updated); err != nil {
		return nil, fmt.Errorf("client.UpdateProgram: %w", err)
	}
	return &updated, nil
}

func (c *Client) DeleteProgram(ctx context.Context, id int) error {
	if err := c.delete(ctx, programPath(id)); err != nil {
		return fmt.Errorf("client.DeleteProgram: %w", err)
	}
	return nil
}

// AddProgramExercise appends an exercise to a scheduled program workout.
func (c *Client) AddProgramExercise(ctx context.Context, workoutID int, e domain.ProgramExerciseCreate) (*domain.ProgramExercise, error) {
	var created domain.ProgramExercise
	path := "/workout-programs/workouts/" + strconv.Itoa(workoutID) + "/exercises"
	if err := c.post(ctx, path, e, &created); err != nil {
		return nil, fmt.Errorf("client.AddProgramExercise: %w", err)
	}
	return &created, nil
}

// AssignProgram starts the program for the current user.
func (c *Client) AssignProgram(ctx context.Context, programID int) (*domain.UserProgramProgress, error) {
	var progress domain.UserProgramProgress
	if err := c.post(ctx, programPath(programID)+"/assign", nil, &progress); err != nil {
		return nil, fmt.Errorf("client.AssignProgram: %w", err)
	}
	return &progress, nil
}

func (c *Client) ListProgress(ctx context.Context) ([]domain.UserProgramProgress, error) {
	var progress []domain.UserProgramProgress
	if err := c.get(ctx, "/workout-programs/progress", &progress); err != nil {
		return nil, fmt.Errorf("client.ListProgress: %w", err)
	}
	return progress, nil
}

func (c *Client) UpdateProgress(ctx context.Context, progressID int, u domain.ProgressUpdate) (*domain.UserProgramProgress, error) {
	var progress domain.UserProgramProgress
	if err := c.put(ctx, "/workout-programs/progress/"+strconv.Itoa(progressID), u, &progress); err != nil {
		return nil, fmt.Errorf("client.UpdateProgress: %w", err)
	}
	return &progress, nil
}

// ImportProgramCSV uploads a CSV file; parsing happens server side.
func (c *Client) ImportProgramCSV(ctx context.Context, filename string, r io.Reader) (*domain.WorkoutProgram, error) {
	var p domain.WorkoutProgram
	if err := c.postFile(ctx, "/workout-programs/import/csv", "file", filename, r, &p); err != nil {
		return nil, fmt.Errorf("client.ImportProgramCSV: %w", err)
	}
	return &p, nil
}

func programPath(id int) string {
	return "/workout-programs/" + strconv.Itoa(id)
}

// --- Template methods ---

func (c *Client) ListTemplates(ctx context.Context) ([]domain.WorkoutTemplate, error) {
	var templates []domain.WorkoutTemplate
	if err := c.get(ctx, "/workout-templates", &templates); err != nil {
		return nil, fmt.Errorf("client.ListTemplates: %w", err)
	}
	return templates, nil
}

func (c *Client) GetTemplate(ctx context.Context, id int) (*domain.WorkoutTemplate, error) {
	var t domain.WorkoutTemplate
	if err := c.get(ctx, templatePath(id), &t); err != nil {
		return nil, fmt.Errorf("client.GetTemplate: %w", err)
	}
	return &t, nil
}

func (c *Client) CreateTemplate(ctx context.Context, t domain.WorkoutTemplateCreate) (*domain.WorkoutTemplate, error) {
	var created domain.WorkoutTemplate
	if err := c.post(ctx, "/workout-templates", t, &created); err != nil {
		return nil, fmt.Errorf("client.CreateTemplate: %w", err)
	}
	return &created, nil
}

func (c *Client) UpdateTemplate(ctx context.Context, id int, fields map[string]any) (*domain.WorkoutTemplate, error) {
	var updated domain.WorkoutTemplate
	if err := c.put(ctx, templatePath(id), fields, &updated); err != nil {
		return nil, fmt.Errorf("client.UpdateTemplate: %w", err)
	}
	return &updated, nil
}

func (c *Client) DeleteTemplate(ctx context.Context, id int) error {
	if err := c.delete(ctx, templatePath(id)); err != nil {
		return fmt.Errorf("client.DeleteTemplate: %w", err)
	}
	return nil
}

func (c *Client) AddTemplateExercise(ctx context.Context, templateID int, e domain.TemplateExerciseCreate) (*domain.TemplateExercise, error) {
	var created domain.TemplateExercise
	if err := c.post(ctx, templatePath(templateID)+"/exercises", e, &created); err != nil {
		return nil, fmt.Errorf("client.AddTemplateExercise: %w", err)
	}
	return &created, nil
}

func (c *Client) UpdateTemplateExercise(ctx context.Context, templateID, exerciseID int, fields map[string]any) (*domain.TemplateExercise, error) {
	var updated domain.TemplateExercise
	path := templatePath(templateID) + "/exercises/" + strconv.Itoa(exerciseID)
	if err := c.put(ctx, path, fields, &updated); err != nil {
		return nil, fmt.Errorf("client.UpdateTemplateExercise: %w", err)
	}
	return &updated, nil
}

func (c *Client) DeleteTemplateExercise(ctx context.Context, templateID, exerciseID int) error {
	path := templatePath(templateID) + "/exercises/" + strconv.Itoa(exerciseID)
	if err := c.delete(ctx, path); err != nil {
		return fmt.Errorf("client.DeleteTemplateExercise: %w", err)
	}
	return nil
}

func templatePath(id int) string {
	return "/workout-templates/" + strconv.Itoa(id)
}

// --- Plan methods ---

func (c *Client) ListPlans(ctx context.Context) ([]domain.WorkoutPlan, error) {
	var plans []domain.WorkoutPlan
	if err := c.get(ctx, "/workout-plans", &plans); err != nil {
		return nil, fmt.Errorf("client.ListPlans: %w", err)
	}
	return plans, nil
}

func (c *Client) GetPlan(ctx context.Context, id int) (*domain.WorkoutPlan, error) {
	var p domain.WorkoutPlan
	if err := c.get(ctx, planPath(id), &p); err != nil {
		return nil, fmt.Errorf("client.GetPlan: %w", err)
	}
	return &p, nil
}

func (c *Client) CreatePlan(ctx context.Context, p domain.WorkoutPlanCreate) (*domain.WorkoutPlan, error) {
	var created domain.WorkoutPlan
	if err := c.post(ctx, "/workout-plans", p, &created); err != nil {
		return nil, fmt.Errorf("client.CreatePlan: %w", err)
	}
	return &created, nil
}

func (c *Client) UpdatePlan(ctx context.Context, id int, fields map[string]any) (*domain.WorkoutPlan, error) {
	var updated domain.WorkoutPlan
	if err := c.put(ctx, planPath(id), fields, &updated); err != nil {
		return nil, fmt.Errorf("client.UpdatePlan: %w", err)
	}
	return &updated, nil
}

func (c *Client) DeletePlan(ctx context.Context, id int) error {
	if err := c.delete(ctx, planPath(id)); err != nil {
		return fmt.Errorf("client.DeletePlan: %w", err)
	}
	return nil
}

func planPath(id int) string {
	return "/workout-plans/" + strconv.Itoa(id)
}
