package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hivedesk/internal/logger"
	"hivedesk/internal/models"
	"hivedesk/internal/services"
)

type CategoryHandler struct {
	service services.CategoryService
	log     *logger.Logger
}

func NewCategoryHandler(service services.CategoryService, log *logger.Logger) *CategoryHandler {
	return &CategoryHandler{service: service, log: log}
}

var categoryMessages = errMessages{
	notFound: "Category not found",
	exists:   "Category with this name already exists",
}

// @Summary      List categories
// @Tags         Categories
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Router       /categories [get]
func (h *CategoryHandler) List(c *gin.Context) {
	cats, err := h.service.List(c.Request.Context(), userIDFrom(c))
	if err != nil {
		respondError(c, h.log, "[category][list]", err, categoryMessages)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Categories retrieved successfully", "categories": cats})
}

// @Summary      Category statistics
// @Description  Note and pinned counts for every category holding notes
// @Tags         Categories
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Router       /categories/stats [get]
func (h *CategoryHandler) Stats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context(), userIDFrom(c))
	if err != nil {
		respondError(c, h.log, "[category][stats]", err, categoryMessages)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Category statistics retrieved successfully", "stats": stats})
}

// @Summary      Get category
// @Tags         Categories
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Category ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]interface{}
// @Router       /categories/{id} [get]
func (h *CategoryHandler) Get(c *gin.Context) {
	id, ok := parseID(c, categoryMessages.notFound)
	if !ok {
		return
	}
	cat, err := h.service.Get(c.Request.Context(), userIDFrom(c), id)
	if err != nil {
		respondError(c, h.log, "[category][get]", err, categoryMessages)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Category retrieved successfully", "category": cat})
}

// @Summary      Create category
// @Tags         Categories
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      models.CategoryRequest  true  "Category"
// @Success      201   {object}  map[string]interface{}
// @Failure      400   {object}  map[string]interface{}
// @Failure      409   {object}  map[string]interface{}
// @Router       /categories [post]
func (h *CategoryHandler) Create(c *gin.Context) {
	var req models.CategoryRequest
	if !bindJSON(c, &req) {
		return
	}
	cat, err := h.service.Create(c.Request.Context(), userIDFrom(c), req)
	if err != nil {
		respondError(c, h.log, "[category][create]", err, categoryMessages)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Category created successfully", "category": cat})
}

// @Summary      Update category
// @Tags         Categories
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                  true  "Category ID"
// @Param        body  body      models.CategoryRequest  true  "Category"
// @Success      200   {object}  map[string]interface{}
// @Failure      400   {object}  map[string]interface{}
// @Failure      404   {object}  map[string]interface{}
// @Failure      409   {object}  map[string]interface{}
// @Router       /categories/{id} [put]
func (h *CategoryHandler) Update(c *gin.Context) {
	id, ok := parseID(c, categoryMessages.notFound)
	if !ok {
		return
	}
	var req models.CategoryRequest
	if !bindJSON(c, &req) {
		return
	}
	cat, err := h.service.Update(c.Request.Context(), userIDFrom(c), id, req)
	if err != nil {
		respondError(c, h.log, "[category][update]", err, categoryMessages)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Category updated successfully", "category": cat})
}

// @Summary      Delete category
// @Description  Refused while the category still holds notes
// @Tags         Categories
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Category ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]interface{}
// @Failure      409  {object}  map[string]interface{}
// @Router       /categories/{id} [delete]
func (h *CategoryHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, categoryMessages.notFound)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), userIDFrom(c), id); err != nil {
		respondError(c, h.log, "[category][delete]", err, categoryMessages)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Category deleted successfully"})
}
