package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"leadgen-api/internal/service"
)

type researchRequest struct {
	CompanyName       string  `json:"company_name" binding:"required"`
	Industry          *string `json:"industry"`
	AdditionalContext *string `json:"additional_context"`
}

type discoverContactsRequest struct {
	CompanyName string  `json:"company_name" binding:"required"`
	LeadID      *string `json:"lead_id"`
}

func (h *Handler) researchCompany(c *gin.Context) {
	var req researchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondBindError(c, err)
		return
	}

	res, err := h.research.Research(c.Request.Context(), identity(c), service.ResearchRequest{
		CompanyName:       req.CompanyName,
		Industry:          req.Industry,
		AdditionalContext: req.AdditionalContext,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"research": res.Research, "company_name": res.CompanyName})
}

func (h *Handler) discoverContacts(c *gin.Context) {
	var req discoverContactsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondBindError(c, err)
		return
	}

	res, err := h.research.DiscoverContacts(c.Request.Context(), identity(c), service.DiscoveryRequest{
		CompanyName: req.CompanyName,
		LeadID:      req.LeadID,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"contacts_research": res.ContactsResearch, "company_name": res.CompanyName})
}

// generateEmail takes its arguments from the query string.
func (h *Handler) generateEmail(c *gin.Context) {
	res, err := h.research.GenerateEmail(c.Request.Context(), identity(c), c.Query("lead_id"), c.Query("template_id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"email": res.Email, "lead_id": res.LeadID})
}

func (h *Handler) listArchive(c *gin.Context) {
	docs, err := h.research.ListArchive(c.Request.Context(), identity(c))
	if err != nil {
		h.respondError(c, err)
		return
	}

	resp := make([]ArchiveObjectResponse, len(docs))
	for i := range docs {
		resp[i] = archiveToResponse(docs[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) purgeArchive(c *gin.Context) {
	if err := h.research.PurgeArchive(c.Request.Context(), identity(c)); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Archive deleted"})
}
