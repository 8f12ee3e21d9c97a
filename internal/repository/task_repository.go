package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/F4ria/LiteToDoBot/internal/model"
)

// StatusFilter selects which of the user's tasks List returns.
type StatusFilter int

const (
	FilterOpen StatusFilter = iota
	FilterDone
	FilterAny
)

type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// Create inserts a new open task and fills in its assigned id.
// CreatedAt and UpdatedAt are both set to the insertion time.
func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	task.Status = model.StatusOpen
	task.Note = ""
	task.CompletedAt = nil
	return r.db.WithContext(ctx).Create(task).Error
}

// List returns the user's tasks matching the filter, newest first.
func (r *TaskRepository) List(ctx context.Context, userID int64, filter StatusFilter) ([]model.Task, error) {
	q := r.db.WithContext(ctx).Where("user_id = ?", userID)
	switch filter {
	case FilterOpen:
		q = q.Where("status = ?", model.StatusOpen)
	case FilterDone:
		q = q.Where("status = ?", model.StatusDone)
	}

	var tasks []model.Task
	if err := q.Order("id DESC").Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// FindByID returns the task only if it exists and belongs to userID.
func (r *TaskRepository) FindByID(ctx context.Context, userID, id int64) (*model.Task, error) {
	var task model.Task
	err := r.db.WithContext(ctx).First(&task, "user_id = ? AND id = ?", userID, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	return &task, nil
}

// UpdateDescription sets the task text and bumps updated_at.
func (r *TaskRepository) UpdateDescription(ctx context.Context, userID, id int64, description string) (*model.Task, error) {
	return r.updateFields(ctx, userID, id, map[string]any{"task": description})
}

// UpdateNote sets the note and bumps updated_at.
func (r *TaskRepository) UpdateNote(ctx context.Context, userID, id int64, note string) (*model.Task, error) {
	return r.updateFields(ctx, userID, id, map[string]any{"note": note})
}

// updateFields applies a single owner-scoped UPDATE statement; row-level
// atomicity comes from it being one statement.
func (r *TaskRepository) updateFields(ctx context.Context, userID, id int64, fields map[string]any) (*model.Task, error) {
	result := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("user_id = ? AND id = ?", userID, id).
		Updates(fields)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrTaskNotFound
	}
	return r.FindByID(ctx, userID, id)
}

// Complete marks the task done and stamps completed_at. Completing an
// already-done task returns the task unchanged with ErrTaskAlreadyDone;
// completed_at is never overwritten.
func (r *TaskRepository) Complete(ctx context.Context, userID, id int64) (*model.Task, error) {
	task, err := r.FindByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if task.IsCompleted() {
		return task, ErrTaskAlreadyDone
	}

	now := time.Now()
	result := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("user_id = ? AND id = ? AND status = ?", userID, id, model.StatusOpen).
		Updates(map[string]any{"status": model.StatusDone, "completed_at": now})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		// A concurrent complete won the race; report the terminal state.
		task, err = r.FindByID(ctx, userID, id)
		if err != nil {
			return nil, err
		}
		return task, ErrTaskAlreadyDone
	}
	return r.FindByID(ctx, userID, id)
}
