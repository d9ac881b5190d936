package pdf

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hivedesk/internal/models"
)

func TestRenderNote_CoreFont(t *testing.T) {
	r := NewNoteRenderer("")
	note := models.Note{
		Title:     "Café plan",
		Content:   "Line one\nLine two",
		Tags:      []string{"go", "db"},
		IsPinned:  true,
		Category:  models.CategoryRef{Name: "Work"},
		UpdatedAt: time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC),
	}

	var buf bytes.Buffer
	require.NoError(t, r.RenderNote(&buf, note))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestNewNoteRenderer_MissingFontFallsBack(t *testing.T) {
	r := NewNoteRenderer("/nonexistent/DejaVuSans.ttf")
	assert.False(t, r.utf8)
	assert.Equal(t, "Helvetica", r.fontName)
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "Release_plan_Q3.pdf", FileName(models.Note{Title: "Release plan / Q3"}))
	assert.Equal(t, "note.pdf", FileName(models.Note{Title: "???"}))
}
