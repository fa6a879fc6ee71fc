package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"leadgen-api/internal/domain"
	"leadgen-api/internal/service"
)

type createTemplateRequest struct {
	Name     string `json:"name" binding:"required"`
	Subject  string `json:"subject" binding:"required"`
	Body     string `json:"body" binding:"required"`
	Category string `json:"category"`
}

type updateTemplateRequest struct {
	Name     *string `json:"name"`
	Subject  *string `json:"subject"`
	Body     *string `json:"body"`
	Category *string `json:"category"`
}

func (h *Handler) createTemplate(c *gin.Context) {
	var req createTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondBindError(c, err)
		return
	}

	tpl, err := h.templates.Create(c.Request.Context(), identity(c), service.NewTemplate{
		Name:     req.Name,
		Subject:  req.Subject,
		Body:     req.Body,
		Category: req.Category,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, templateToResponse(*tpl))
}

func (h *Handler) listTemplates(c *gin.Context) {
	var filter domain.TemplateFilter
	if category := c.Query("category"); category != "" {
		filter.Category = &category
	}

	templates, err := h.templates.List(c.Request.Context(), identity(c), filter)
	if err != nil {
		h.respondError(c, err)
		return
	}

	resp := make([]TemplateResponse, len(templates))
	for i := range templates {
		resp[i] = templateToResponse(templates[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) getTemplate(c *gin.Context) {
	tpl, err := h.templates.Get(c.Request.Context(), identity(c), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, templateToResponse(*tpl))
}

func (h *Handler) updateTemplate(c *gin.Context) {
	var req updateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondBindError(c, err)
		return
	}

	tpl, err := h.templates.Update(c.Request.Context(), identity(c), c.Param("id"), domain.TemplatePatch{
		Name:     req.Name,
		Subject:  req.Subject,
		Body:     req.Body,
		Category: req.Category,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, templateToResponse(*tpl))
}

func (h *Handler) deleteTemplate(c *gin.Context) {
	if err := h.templates.Delete(c.Request.Context(), identity(c), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Template deleted"})
}
