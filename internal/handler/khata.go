package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"khatapos/internal/apierror"
	"khatapos/internal/dto"
	"khatapos/internal/service"
)

type KhataHandler struct{ svc service.KhataService }

func NewKhataHandler(svc service.KhataService) *KhataHandler { return &KhataHandler{svc: svc} }

// CreateCustomer godoc
// @Summary      Create khata customer
// @Tags         khata
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreateCustomerRequest true "Customer detail"
// @Success      201  {object} dto.CustomerResponse
// @Failure      422  {object} apierror.ValidationError
// @Router       /v1/khata/customers [post]
func (h *KhataHandler) CreateCustomer(c *gin.Context) {
	var req dto.CreateCustomerRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateCustomer(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// UpdateCustomer godoc
// @Summary      Update khata customer
// @Tags         khata
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                    true "Customer UUID"
// @Param        body body dto.UpdateCustomerRequest true "Customer detail"
// @Success      200  {object} dto.CustomerResponse
// @Failure      404  {object} apierror.APIError
// @Router       /v1/khata/customers/{id} [put]
func (h *KhataHandler) UpdateCustomer(c *gin.Context) {
	id, ok := parseCustomerID(c)
	if !ok {
		return
	}
	var req dto.UpdateCustomerRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.UpdateCustomer(c.Request.Context(), id, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListCustomers godoc
// @Summary      List khata customers with balances
// @Tags         khata
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} dto.CustomerListResponse
// @Router       /v1/khata/customers [get]
func (h *KhataHandler) ListCustomers(c *gin.Context) {
	resp, err := h.svc.ListCustomers(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetCustomer godoc
// @Summary      Get one customer with full entry history
// @Tags         khata
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Customer UUID"
// @Success      200 {object} dto.CustomerResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/khata/customers/{id} [get]
func (h *KhataHandler) GetCustomer(c *gin.Context) {
	id, ok := parseCustomerID(c)
	if !ok {
		return
	}
	resp, err := h.svc.GetCustomer(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Settle godoc
// @Summary      Settle a khata
// @Description  Bills new goods (optional) and records a payment (optional) against the customer's ledger in one atomic operation.
// @Tags         khata
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string            true "Customer UUID"
// @Param        body body dto.SettleRequest true "Items and payment"
// @Success      200  {object} dto.SettleResponse
// @Failure      409  {object} apierror.StockConflictError
// @Router       /v1/khata/customers/{id}/settle [post]
func (h *KhataHandler) Settle(c *gin.Context) {
	id, ok := parseCustomerID(c)
	if !ok {
		return
	}
	var req dto.SettleRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Settle(c.Request.Context(), id, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// AddItems godoc
// @Summary      Issue goods on khata
// @Description  Bills the items fully on credit, equivalent to a settlement with zero payment.
// @Tags         khata
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string              true "Customer UUID"
// @Param        body body dto.AddItemsRequest true "Items"
// @Success      200  {object} dto.SettleResponse
// @Failure      409  {object} apierror.StockConflictError
// @Router       /v1/khata/customers/{id}/items [post]
func (h *KhataHandler) AddItems(c *gin.Context) {
	id, ok := parseCustomerID(c)
	if !ok {
		return
	}
	var req dto.AddItemsRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AddItems(c.Request.Context(), id, req.Items, req.Description)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// DeleteEntry godoc
// @Summary      Delete a ledger entry
// @Description  Removes the entry and returns its linked items to inventory.
// @Tags         khata
// @Produce      json
// @Security     BearerAuth
// @Param        id      path string true "Customer UUID"
// @Param        entryId path string true "Entry UUID"
// @Success      204
// @Failure      404 {object} apierror.APIError
// @Router       /v1/khata/customers/{id}/entries/{entryId} [delete]
func (h *KhataHandler) DeleteEntry(c *gin.Context) {
	id, ok := parseCustomerID(c)
	if !ok {
		return
	}
	entryID, err := uuid.Parse(c.Param("entryId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid entry id"))
		return
	}
	if err := h.svc.DeleteEntry(c.Request.Context(), id, entryID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// SendStatement godoc
// @Summary      Email a khata statement
// @Description  Queues an async job that renders the statement PDF and mails it.
// @Tags         khata
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string               true "Customer UUID"
// @Param        body body dto.StatementRequest true "Recipient"
// @Success      202
// @Failure      404 {object} apierror.APIError
// @Router       /v1/khata/customers/{id}/statement [post]
func (h *KhataHandler) SendStatement(c *gin.Context) {
	id, ok := parseCustomerID(c)
	if !ok {
		return
	}
	var req dto.StatementRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.EnqueueStatement(c.Request.Context(), id, req.Email); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusAccepted)
}

func parseCustomerID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid customer id"))
		return uuid.Nil, false
	}
	return id, true
}
