package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"leadgen-api/internal/domain"
)

type registerRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name" binding:"required"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondBindError(c, err)
		return
	}

	session, err := h.users.Register(c.Request.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessionToResponse(session))
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondBindError(c, err)
		return
	}

	session, err := h.users.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.metrics.AuthFailure(string(domain.KindOf(err)))
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessionToResponse(session))
}

func (h *Handler) me(c *gin.Context) {
	c.JSON(http.StatusOK, userToResponse(h.users.WhoAmI(currentUser(c))))
}
