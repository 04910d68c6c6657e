package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"khatapos/internal/apierror"
	"khatapos/internal/dto"
	"khatapos/internal/service"
)

type ParseHandler struct{ svc service.ParseService }

func NewParseHandler(svc service.ParseService) *ParseHandler { return &ParseHandler{svc: svc} }

// respondParseError distinguishes a breaker fast-fail (503, retry later) from
// an upstream parser failure (502). Raw parser errors are logged, not leaked.
func respondParseError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrParserUnavailable) {
		respondServiceError(c, err)
		return
	}
	log.Warn().Err(err).Msg("bill parser upstream failure")
	c.JSON(http.StatusBadGateway, apierror.New("Could not parse the bill, please enter it manually"))
}

// ParseVoice godoc
// @Summary      Parse a spoken bill
// @Description  Turns a voice transcription into normalized line items linked to inventory where possible.
// @Tags         parse
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.ParseVoiceRequest true "Transcription"
// @Success      200  {object} dto.ParseResponse
// @Failure      502  {object} apierror.APIError
// @Failure      503  {object} apierror.APIError
// @Router       /v1/parse/voice [post]
func (h *ParseHandler) ParseVoice(c *gin.Context) {
	var req dto.ParseVoiceRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.ParseVoice(c.Request.Context(), req)
	if err != nil {
		respondParseError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ParseImage godoc
// @Summary      Parse a bill photo
// @Tags         parse
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.ParseImageRequest true "Base64 image"
// @Success      200  {object} dto.ParseResponse
// @Failure      502  {object} apierror.APIError
// @Failure      503  {object} apierror.APIError
// @Router       /v1/parse/image [post]
func (h *ParseHandler) ParseImage(c *gin.Context) {
	var req dto.ParseImageRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.ParseImage(c.Request.Context(), req)
	if err != nil {
		respondParseError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
