package models

import (
	"time"

	"github.com/google/uuid"
)

type Category struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	NoteCount int       `json:"noteCount"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CategoryStat aggregates the notes filed under one category.
type CategoryStat struct {
	ID          uuid.UUID `json:"_id"`
	Name        string    `json:"name"`
	Color       string    `json:"color"`
	Count       int       `json:"count"`
	PinnedCount int       `json:"pinnedCount"`
}

type CategoryRequest struct {
	Name  string `json:"name" binding:"required"`
	Color string `json:"color" binding:"required,len=7,hexcolor"`
}

// DefaultCategories are provisioned once for every newly verified account.
var DefaultCategories = []Category{
	{Name: "Personal", Color: "#3B82F6"},
	{Name: "Work", Color: "#10B981"},
	{Name: "Ideas", Color: "#F59E0B"},
	{Name: "Todo", Color: "#EF4444"},
	{Name: "Important", Color: "#8B5CF6"},
}
