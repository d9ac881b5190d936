package models

import (
	"time"

	"github.com/google/uuid"
)

// CategoryRef is the category summary embedded in a note.
type CategoryRef struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Color string    `json:"color"`
}

type Note struct {
	ID         uuid.UUID   `json:"id"`
	UserID     uuid.UUID   `json:"user"`
	CategoryID uuid.UUID   `json:"-"`
	Category   CategoryRef `json:"category"`
	Title      string      `json:"title"`
	Content    string      `json:"content"`
	Tags       []string    `json:"tags"`
	IsPinned   bool        `json:"isPinned"`
	CreatedAt  time.Time   `json:"createdAt"`
	UpdatedAt  time.Time   `json:"updatedAt"`
}

type NoteRequest struct {
	Title    string   `json:"title" binding:"required"`
	Content  string   `json:"content" binding:"required"`
	Category string   `json:"category" binding:"required"`
	Tags     []string `json:"tags"`
	IsPinned bool     `json:"isPinned"`
}
