package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"khatapos/internal/apierror"
	"khatapos/internal/dto"
	"khatapos/internal/service"
)

type ReportsHandler struct{ svc service.ReportService }

func NewReportsHandler(svc service.ReportService) *ReportsHandler {
	return &ReportsHandler{svc: svc}
}

// Unified godoc
// @Summary      Unified transaction feed
// @Description  Merges the sales log and outstanding khata debits into one reverse-chronological list.
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Param        from  query string false "YYYY-MM-DD inclusive"
// @Param        to    query string false "YYYY-MM-DD inclusive"
// @Param        limit query int    false "Max rows (0 = all)"
// @Success      200   {object} dto.UnifiedListResponse
// @Router       /v1/transactions [get]
func (h *ReportsHandler) Unified(c *gin.Context) {
	var filter dto.UnifiedFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.Unified(c.Request.Context(), filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// DeleteUnified godoc
// @Summary      Delete a unified row
// @Description  Routes the deletion to the sales log or the khata sub-ledger according to original_type, reversing stock either way.
// @Tags         reports
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                   true "Row UUID"
// @Param        body body dto.DeleteUnifiedRequest true "Origin routing"
// @Success      204
// @Failure      404  {object} apierror.APIError
// @Router       /v1/transactions/{id} [delete]
func (h *ReportsHandler) DeleteUnified(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid transaction id"))
		return
	}
	var req dto.DeleteUnifiedRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.DeleteUnified(c.Request.Context(), id, req); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Summary godoc
// @Summary      Financial summary
// @Description  Cash/QR money in, net new credit, and debt recovered over a date window, netted per customer.
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Param        from query string false "YYYY-MM-DD inclusive"
// @Param        to   query string false "YYYY-MM-DD inclusive"
// @Success      200  {object} dto.SummaryResponse
// @Router       /v1/reports/summary [get]
func (h *ReportsHandler) Summary(c *gin.Context) {
	resp, err := h.svc.Summary(c.Request.Context(), c.Query("from"), c.Query("to"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
