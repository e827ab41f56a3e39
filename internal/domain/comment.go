package domain

import (
	"time"
	"unicode/utf8"
)

// Comment defaults and limits
const (
	// DefaultCommentAuthor is used when a comment is created without an author.
	DefaultCommentAuthor = "anonymous"

	// MaxCommentAuthorLength is the largest author, in characters, the comments table accepts.
	MaxCommentAuthorLength = 120
)

// Comment validation errors
var (
	// ErrCommentFieldsRequired is returned when a comment is created without
	// a task reference or a body.
	ErrCommentFieldsRequired = NewValidationError("", "task_id and body are required", ErrValidation)

	// ErrCommentAuthorTooLong is returned when an author exceeds MaxCommentAuthorLength.
	ErrCommentAuthorTooLong = NewValidationError("author", "is too long", ErrValidation)
)

// Comment is a note attached to exactly one Task.
type Comment struct {
	ID        int64     `json:"id"`
	TaskID    int64     `json:"task_id"`
	Body      string    `json:"body"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CommentUpdate carries the fields of a partial comment update.
// Every present field replaces the current value, even when empty.
type CommentUpdate struct {
	Body   Optional[string] `json:"body"`
	Author Optional[string] `json:"author"`
}

// IsEmpty reports whether the update carries no fields.
func (u CommentUpdate) IsEmpty() bool {
	return !u.Body.Set && !u.Author.Set
}

// NewComment creates a new Comment for the given task.
// An absent or null author falls back to DefaultCommentAuthor.
// Returns an error if validation fails.
func NewComment(taskID int64, body string, author Optional[string]) (*Comment, error) {
	if taskID == 0 || body == "" {
		return nil, ErrCommentFieldsRequired
	}

	now := time.Now().UTC()
	comment := &Comment{
		TaskID:    taskID,
		Body:      body,
		Author:    author.NonNullOrElse(DefaultCommentAuthor),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := comment.Validate(); err != nil {
		return nil, err
	}

	return comment, nil
}

// Validate checks if the Comment has valid data.
// The body is only required at creation, so it is not checked here.
func (c *Comment) Validate() error {
	if c.TaskID == 0 {
		return ErrCommentFieldsRequired
	}

	if utf8.RuneCountInString(c.Author) > MaxCommentAuthorLength {
		return ErrCommentAuthorTooLong
	}

	return nil
}

// Apply merges a partial update into the comment and refreshes UpdatedAt.
// UpdatedAt never moves before CreatedAt. An empty update changes nothing.
func (c *Comment) Apply(u CommentUpdate, now time.Time) error {
	if u.IsEmpty() {
		return nil
	}

	if u.Body.Set {
		c.Body = u.Body.Value
	}

	if u.Author.Set {
		c.Author = u.Author.Value
	}

	now = now.UTC()
	if now.Before(c.CreatedAt) {
		now = c.CreatedAt
	}
	c.UpdatedAt = now

	return c.Validate()
}
