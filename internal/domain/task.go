package domain

import (
	"time"
	"unicode/utf8"
)

// MaxTaskTitleLength is the largest title, in characters, the tasks table accepts.
const MaxTaskTitleLength = 255

// Task validation errors
var (
	// ErrTaskTitleRequired is returned when a task is created without a title.
	ErrTaskTitleRequired = NewValidationError("title", "is required", ErrValidation)

	// ErrTaskTitleTooLong is returned when a title exceeds MaxTaskTitleLength.
	ErrTaskTitleTooLong = NewValidationError("title", "is too long", ErrValidation)
)

// Task is a top-level work item. Tasks own zero or more comments, which are
// removed together with the task.
type Task struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// TaskUpdate carries the fields of a partial task update.
// Absent fields are left unchanged.
type TaskUpdate struct {
	Title       Optional[string] `json:"title"`
	Description Optional[string] `json:"description"`
}

// NewTask creates a new Task with the given title and description.
// The ID is left at zero; it is assigned by the store on insert.
// Returns an error if validation fails.
func NewTask(title, description string) (*Task, error) {
	task := &Task{
		Title:       title,
		Description: description,
		CreatedAt:   time.Now().UTC(),
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
func (t *Task) Validate() error {
	if t.Title == "" {
		return ErrTaskTitleRequired
	}

	if utf8.RuneCountInString(t.Title) > MaxTaskTitleLength {
		return ErrTaskTitleTooLong
	}

	return nil
}

// Apply merges a partial update into the task.
//
// An empty title is ignored, so a title can never be cleared through an
// update. A present description always replaces the current one, including
// with an empty string.
func (t *Task) Apply(u TaskUpdate) error {
	if u.Title.Set && u.Title.Value != "" {
		t.Title = u.Title.Value
	}

	if u.Description.Set {
		t.Description = u.Description.Value
	}

	return t.Validate()
}
