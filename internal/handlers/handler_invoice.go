package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/SscSPs/ledger_engine/internal/middleware"
	"github.com/gin-gonic/gin"
)

// invoiceHandler receives settlement notifications from the invoicing and purchasing services.
type invoiceHandler struct {
	invoiceService portssvc.InvoicePostingSvc
}

func newInvoiceHandler(is portssvc.InvoicePostingSvc) *invoiceHandler {
	return &invoiceHandler{invoiceService: is}
}

// registerInvoiceRoutes registers the invoice, purchase and receivable routes.
func registerInvoiceRoutes(rg *gin.RouterGroup, invoiceService portssvc.InvoicePostingSvc) {
	h := newInvoiceHandler(invoiceService)

	rg.POST("/invoices/:id/status", h.recordInvoiceStatus)
	rg.POST("/purchases/:id/payment", h.recordPurchasePayment)
	rg.GET("/receivables/:id", h.getReceivableBalance)
}

// recordInvoiceStatus godoc
// @Summary Record an invoice status change
// @Description Posts an INVOICE_PAYMENT the first time an invoice becomes PAID. Other transitions post nothing.
// @Tags invoices
// @Accept  json
// @Produce  json
// @Param   id path string true "Invoice ID"
// @Param   change body dto.InvoiceStatusChangeRequest true "Status transition"
// @Success 200 {object} dto.PostingResponse "Nothing was posted"
// @Success 201 {object} dto.PostingResponse "Payment posted"
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 500 {object} map[string]string "Failed to record invoice status"
// @Security BearerAuth
// @Router /invoices/{id}/status [post]
func (h *invoiceHandler) recordInvoiceStatus(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	invoiceID := c.Param("id")

	var req dto.InvoiceStatusChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for InvoiceStatusChange", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	logger = logger.With(
		slog.String("invoice_id", invoiceID),
		slog.String("old_status", string(req.OldStatus)),
		slog.String("new_status", string(req.NewStatus)),
	)
	logger.Info("Received invoice status change")

	txn, err := h.invoiceService.RecordInvoiceStatusChange(c.Request.Context(), invoiceID, req, userID)
	if err != nil {
		writeError(c, logger, err, "Failed to record invoice status")
		return
	}

	status := http.StatusOK
	if txn != nil {
		status = http.StatusCreated
		logger.Info("Invoice payment posted", slog.String("transaction_id", txn.TransactionID))
	}
	c.JSON(status, dto.ToPostingResponse(txn))
}

// recordPurchasePayment godoc
// @Summary Record a purchase payment
// @Description Posts a PURCHASE_PAYMENT debiting accounts payable and crediting cash
// @Tags invoices
// @Accept  json
// @Produce  json
// @Param   id path string true "Purchase ID"
// @Param   payment body dto.PurchasePaymentRequest true "Payment details"
// @Success 201 {object} dto.PostingResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 500 {object} map[string]string "Failed to record purchase payment"
// @Security BearerAuth
// @Router /purchases/{id}/payment [post]
func (h *invoiceHandler) recordPurchasePayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	purchaseID := c.Param("id")

	var req dto.PurchasePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for PurchasePayment", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	logger = logger.With(slog.String("purchase_id", purchaseID))
	txn, err := h.invoiceService.RecordPurchasePayment(c.Request.Context(), purchaseID, req, userID)
	if err != nil {
		writeError(c, logger, err, "Failed to record purchase payment")
		return
	}

	logger.Info("Purchase payment posted", slog.String("transaction_id", txn.TransactionID))
	c.JSON(http.StatusCreated, dto.ToPostingResponse(txn))
}

// getReceivableBalance godoc
// @Summary Get a receivable balance
// @Description Returns the current balance of an accounts receivable account
// @Tags invoices
// @Produce  json
// @Param   id path string true "Account ID"
// @Success 200 {object} dto.AccountBalanceResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 500 {object} map[string]string "Failed to calculate balance"
// @Security BearerAuth
// @Router /receivables/{id} [get]
func (h *invoiceHandler) getReceivableBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	if _, ok := requireUserID(c, logger); !ok {
		return
	}

	balance, err := h.invoiceService.ReceivableBalance(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, logger, err, "Failed to calculate balance")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountBalanceResponse(balance))
}
