package handlers

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"hivedesk/internal/logger"
	"hivedesk/internal/models"
	"hivedesk/internal/pdf"
	"hivedesk/internal/services"
)

type NoteHandler struct {
	service  services.NoteService
	renderer pdf.Renderer
	log      *logger.Logger
}

func NewNoteHandler(service services.NoteService, renderer pdf.Renderer, log *logger.Logger) *NoteHandler {
	return &NoteHandler{service: service, renderer: renderer, log: log}
}

var noteMessages = errMessages{notFound: "Note not found"}

// @Summary      List notes
// @Description  Pinned notes first, then most recently updated
// @Tags         Notes
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Router       /notes [get]
func (h *NoteHandler) List(c *gin.Context) {
	notes, err := h.service.List(c.Request.Context(), userIDFrom(c))
	if err != nil {
		respondError(c, h.log, "[note][list]", err, noteMessages)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Notes retrieved successfully", "notes": notes})
}

// @Summary      Search notes
// @Tags         Notes
// @Produce      json
// @Security     BearerAuth
// @Param        q    query     string  true  "Search text"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]interface{}
// @Router       /notes/search [get]
func (h *NoteHandler) Search(c *gin.Context) {
	notes, err := h.service.Search(c.Request.Context(), userIDFrom(c), c.Query("q"))
	if err != nil {
		respondError(c, h.log, "[note][search]", err, noteMessages)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Search completed successfully", "notes": notes})
}

// @Summary      Get note
// @Tags         Notes
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Note ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]interface{}
// @Router       /notes/{id} [get]
func (h *NoteHandler) Get(c *gin.Context) {
	id, ok := parseID(c, noteMessages.notFound)
	if !ok {
		return
	}
	note, err := h.service.Get(c.Request.Context(), userIDFrom(c), id)
	if err != nil {
		respondError(c, h.log, "[note][get]", err, noteMessages)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Note retrieved successfully", "note": note})
}

// @Summary      Create note
// @Tags         Notes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      models.NoteRequest  true  "Note"
// @Success      201   {object}  map[string]interface{}
// @Failure      400   {object}  map[string]interface{}
// @Router       /notes [post]
func (h *NoteHandler) Create(c *gin.Context) {
	var req models.NoteRequest
	if !bindJSON(c, &req) {
		return
	}
	note, err := h.service.Create(c.Request.Context(), userIDFrom(c), req)
	if err != nil {
		respondError(c, h.log, "[note][create]", err, noteMessages)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Note created successfully", "note": note})
}

// @Summary      Update note
// @Tags         Notes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string              true  "Note ID"
// @Param        body  body      models.NoteRequest  true  "Note"
// @Success      200   {object}  map[string]interface{}
// @Failure      400   {object}  map[string]interface{}
// @Failure      404   {object}  map[string]interface{}
// @Router       /notes/{id} [put]
func (h *NoteHandler) Update(c *gin.Context) {
	id, ok := parseID(c, noteMessages.notFound)
	if !ok {
		return
	}
	var req models.NoteRequest
	if !bindJSON(c, &req) {
		return
	}
	note, err := h.service.Update(c.Request.Context(), userIDFrom(c), id, req)
	if err != nil {
		respondError(c, h.log, "[note][update]", err, noteMessages)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Note updated successfully", "note": note})
}

// @Summary      Delete note
// @Tags         Notes
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Note ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]interface{}
// @Router       /notes/{id} [delete]
func (h *NoteHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, noteMessages.notFound)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), userIDFrom(c), id); err != nil {
		respondError(c, h.log, "[note][delete]", err, noteMessages)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Note deleted successfully"})
}

// @Summary      Export note as PDF
// @Tags         Notes
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        id   path      string  true  "Note ID"
// @Success      200  {file}    file
// @Failure      404  {object}  map[string]interface{}
// @Router       /notes/{id}/export [get]
func (h *NoteHandler) Export(c *gin.Context) {
	id, ok := parseID(c, noteMessages.notFound)
	if !ok {
		return
	}
	note, err := h.service.Get(c.Request.Context(), userIDFrom(c), id)
	if err != nil {
		respondError(c, h.log, "[note][export]", err, noteMessages)
		return
	}

	var buf bytes.Buffer
	if err := h.renderer.RenderNote(&buf, *note); err != nil {
		respondError(c, h.log, "[note][export]", err, noteMessages)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, pdf.FileName(*note)))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}
