package http

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"leadgen-api/internal/domain"
	"leadgen-api/internal/service"
)

type createLeadRequest struct {
	CompanyName        string  `json:"company_name" binding:"required"`
	Industry           *string `json:"industry"`
	CompanySize        *string `json:"company_size"`
	Website            *string `json:"website"`
	Status             string  `json:"status" binding:"omitempty,leadstatus"`
	Notes              *string `json:"notes"`
	QualificationScore *int    `json:"qualification_score"`
	AIInsights         *string `json:"ai_insights"`
}

type updateLeadRequest struct {
	CompanyName        *string `json:"company_name"`
	Industry           *string `json:"industry"`
	CompanySize        *string `json:"company_size"`
	Website            *string `json:"website"`
	Status             *string `json:"status" binding:"omitempty,leadstatus"`
	Notes              *string `json:"notes"`
	QualificationScore *int    `json:"qualification_score"`
	AIInsights         *string `json:"ai_insights"`
}

func (r updateLeadRequest) patch() domain.LeadPatch {
	p := domain.LeadPatch{
		CompanyName:        r.CompanyName,
		Industry:           r.Industry,
		CompanySize:        r.CompanySize,
		Website:            r.Website,
		Notes:              r.Notes,
		QualificationScore: r.QualificationScore,
		AIInsights:         r.AIInsights,
	}
	if r.Status != nil {
		status := domain.LeadStatus(*r.Status)
		p.Status = &status
	}
	return p
}

func (h *Handler) createLead(c *gin.Context) {
	var req createLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondBindError(c, err)
		return
	}

	lead, err := h.leads.Create(c.Request.Context(), identity(c), service.NewLead{
		CompanyName:        req.CompanyName,
		Industry:           req.Industry,
		CompanySize:        req.CompanySize,
		Website:            req.Website,
		Status:             domain.LeadStatus(req.Status),
		Notes:              req.Notes,
		QualificationScore: req.QualificationScore,
		AIInsights:         req.AIInsights,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, leadToResponse(*lead))
}

func (h *Handler) listLeads(c *gin.Context) {
	var filter domain.LeadFilter
	if status, ok := c.GetQuery("status"); ok && status != "" {
		s := domain.LeadStatus(status)
		filter.Status = &s
	}

	leads, err := h.leads.List(c.Request.Context(), identity(c), filter)
	if err != nil {
		h.respondError(c, err)
		return
	}

	resp := make([]LeadResponse, len(leads))
	for i := range leads {
		resp[i] = leadToResponse(leads[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) getLead(c *gin.Context) {
	lead, err := h.leads.Get(c.Request.Context(), identity(c), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, leadToResponse(*lead))
}

func (h *Handler) updateLead(c *gin.Context) {
	var req updateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondBindError(c, err)
		return
	}

	lead, err := h.leads.Update(c.Request.Context(), identity(c), c.Param("id"), req.patch())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, leadToResponse(*lead))
}

func (h *Handler) deleteLead(c *gin.Context) {
	if err := h.leads.Delete(c.Request.Context(), identity(c), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Lead deleted"})
}

func (h *Handler) leadStats(c *gin.Context) {
	stats, err := h.leads.Stats(c.Request.Context(), identity(c))
	if err != nil {
		h.respondError(c, err)
		return
	}

	resp := gin.H{"total": stats.Total}
	for _, status := range domain.LeadStatuses {
		resp[string(status)] = stats.ByStatus[status]
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) seedLeads(c *gin.Context) {
	result, err := h.leads.Seed(c.Request.Context(), identity(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":        fmt.Sprintf("Created %d example leads", result.Created),
		"created":        result.Created,
		"total_examples": result.TotalExamples,
	})
}
