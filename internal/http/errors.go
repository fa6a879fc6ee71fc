package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"leadgen-api/internal/domain"
)

func statusFor(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindValidation:
		return http.StatusBadRequest
	case domain.KindMissingCredential, domain.KindInvalidToken, domain.KindExpired, domain.KindUserNotFound:
		return http.StatusUnauthorized
	case domain.KindDuplicateEmail:
		return http.StatusBadRequest
	case domain.KindInvalidCredentials:
		return http.StatusUnauthorized
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindUpstream:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) respondError(c *gin.Context, err error) {
	kind := domain.KindOf(err)
	_ = c.Error(err)
	c.AbortWithStatusJSON(statusFor(kind), gin.H{
		"error":  domain.PublicMessage(err),
		"reason": string(kind),
	})
}

func (h *Handler) respondBindError(c *gin.Context, err error) {
	h.respondError(c, domain.WrapError(domain.KindValidation, bindMessage(err), err))
}
