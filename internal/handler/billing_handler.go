package handler

import (
	"net/http"

	"hospital-workflow-backend/internal/report"
	"hospital-workflow-backend/internal/service"
	"hospital-workflow-backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type BillingHandler struct {
	workflow *service.WorkflowService
	logger   *zap.Logger
}

func NewBillingHandler(workflow *service.WorkflowService, logger *zap.Logger) *BillingHandler {
	return &BillingHandler{
		workflow: workflow,
		logger:   logger,
	}
}

type PayInvoiceRequest struct {
	PaymentMethod string `json:"payment_method"`
}

func (h *BillingHandler) GetInvoice(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	bill, err := h.workflow.GetInvoice(id)
	if err != nil {
		respondError(c, err)
		return
	}
	if bill == nil {
		utils.ErrorResponse(c, http.StatusNotFound, "Invoice not found")
		return
	}
	utils.SuccessResponse(c, bill)
}

// ListPatientInvoices handles GET /patients/:id/invoices
func (h *BillingHandler) ListPatientInvoices(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	bills, err := h.workflow.ListInvoices(id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, gin.H{
		"invoices": bills,
		"count":    len(bills),
	})
}

// Pay marks the invoice paid; an omitted method is recorded as Manual
func (h *BillingHandler) Pay(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req PayInvoiceRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
			return
		}
	}
	bill, err := h.workflow.MarkInvoicePaid(id, req.PaymentMethod, actorID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, bill)
}

// ExportInvoice downloads the invoice statement as a workbook
func (h *BillingHandler) ExportInvoice(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	statement, err := h.workflow.GetInvoiceStatement(id)
	if err != nil {
		respondError(c, err)
		return
	}
	if statement == nil {
		utils.ErrorResponse(c, http.StatusNotFound, "Invoice not found")
		return
	}

	data, err := report.InvoiceStatement(*statement)
	if err != nil {
		h.logger.Error("failed to render invoice statement", zap.Uint("bill_id", id), zap.Error(err))
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to generate export")
		return
	}
	c.Header("Content-Disposition", "attachment; filename="+report.InvoiceFilename(*statement))
	c.Data(http.StatusOK, report.ContentType, data)
}
