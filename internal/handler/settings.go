package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"khatapos/internal/dto"
	"khatapos/internal/service"
)

type SettingsHandler struct{ svc service.SettingsService }

func NewSettingsHandler(svc service.SettingsService) *SettingsHandler {
	return &SettingsHandler{svc: svc}
}

// GetLanguage godoc
// @Summary      Get UI language
// @Tags         settings
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} map[string]string
// @Router       /v1/settings/language [get]
func (h *SettingsHandler) GetLanguage(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"language": h.svc.Language(c.Request.Context())})
}

// SetLanguage godoc
// @Summary      Set UI language
// @Tags         settings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.SetLanguageRequest true "Language code"
// @Success      204
// @Failure      422  {object} apierror.ValidationError
// @Router       /v1/settings/language [put]
func (h *SettingsHandler) SetLanguage(c *gin.Context) {
	var req dto.SetLanguageRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.SetLanguage(c.Request.Context(), req.Language); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
