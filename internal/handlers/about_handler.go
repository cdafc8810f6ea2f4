package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/archivus/archive-service/internal/services"
	"github.com/archivus/archive-service/internal/utils"
)

type AboutHandler struct {
	BaseHandler
	aboutService services.AboutService
}

func NewAboutHandler(aboutService services.AboutService, logger utils.Logger) *AboutHandler {
	return &AboutHandler{
		BaseHandler:  NewBaseHandler(logger),
		aboutService: aboutService,
	}
}

// GetAboutUs serves the public page content with resolved image URLs.
func (h *AboutHandler) GetAboutUs(c *gin.Context) {
	resp, err := h.aboutService.GetAboutUs(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.ok(c, "About us retrieved", resp)
}
