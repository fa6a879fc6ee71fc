package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"leadgen-api/internal/domain"
	"leadgen-api/internal/service"
)

type createContactRequest struct {
	LeadID   string  `json:"lead_id" binding:"required"`
	Name     string  `json:"name" binding:"required"`
	Title    *string `json:"title"`
	Email    *string `json:"email"`
	Phone    *string `json:"phone"`
	LinkedIn *string `json:"linkedin"`
	Notes    *string `json:"notes"`
}

type updateContactRequest struct {
	Name     *string `json:"name"`
	Title    *string `json:"title"`
	Email    *string `json:"email"`
	Phone    *string `json:"phone"`
	LinkedIn *string `json:"linkedin"`
	Notes    *string `json:"notes"`
}

func (h *Handler) createContact(c *gin.Context) {
	var req createContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondBindError(c, err)
		return
	}

	contact, err := h.contacts.Create(c.Request.Context(), identity(c), service.NewContact{
		LeadID:   req.LeadID,
		Name:     req.Name,
		Title:    req.Title,
		Email:    req.Email,
		Phone:    req.Phone,
		LinkedIn: req.LinkedIn,
		Notes:    req.Notes,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, contactToResponse(*contact))
}

func (h *Handler) listContacts(c *gin.Context) {
	var filter domain.ContactFilter
	if leadID := c.Query("lead_id"); leadID != "" {
		filter.LeadID = &leadID
	}

	contacts, err := h.contacts.List(c.Request.Context(), identity(c), filter)
	if err != nil {
		h.respondError(c, err)
		return
	}

	resp := make([]ContactResponse, len(contacts))
	for i := range contacts {
		resp[i] = contactToResponse(contacts[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) getContact(c *gin.Context) {
	contact, err := h.contacts.Get(c.Request.Context(), identity(c), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, contactToResponse(*contact))
}

func (h *Handler) updateContact(c *gin.Context) {
	var req updateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondBindError(c, err)
		return
	}

	contact, err := h.contacts.Update(c.Request.Context(), identity(c), c.Param("id"), domain.ContactPatch{
		Name:     req.Name,
		Title:    req.Title,
		Email:    req.Email,
		Phone:    req.Phone,
		LinkedIn: req.LinkedIn,
		Notes:    req.Notes,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, contactToResponse(*contact))
}

func (h *Handler) deleteContact(c *gin.Context) {
	if err := h.contacts.Delete(c.Request.Context(), identity(c), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Contact deleted"})
}
