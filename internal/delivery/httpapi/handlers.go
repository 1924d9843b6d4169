package httpapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/eksporyuk/payment-core-service/internal/domain"
	"github.com/eksporyuk/payment-core-service/internal/usecase/provisioning"
	"github.com/eksporyuk/payment-core-service/internal/usecase/reconciliation"
	"github.com/eksporyuk/payment-core-service/internal/usecase/transaction"
	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	Provisioner     *provisioning.Provisioner
	ProvisionParams provisioning.Params
	TransactionUC   *transaction.DefaultTransactionUsecase
	Reconciliation  *reconciliation.Engine
}

func NewPaymentHandler(
	provisioner *provisioning.Provisioner,
	params provisioning.Params,
	transactionUC *transaction.DefaultTransactionUsecase,
	engine *reconciliation.Engine,
) *PaymentHandler {
	return &PaymentHandler{
		Provisioner:     provisioner,
		ProvisionParams: params,
		TransactionUC:   transactionUC,
		Reconciliation:  engine,
	}
}

type channelResponse struct {
	Resolved    bool            `json:"resolved"`
	RedirectURL string          `json:"redirectUrl,omitempty"`
	Reason      string          `json:"reason,omitempty"`
	Channel     *channelDetails `json:"channel,omitempty"`
}

type channelDetails struct {
	BankCode      string     `json:"bankCode"`
	BankName      string     `json:"bankName"`
	AccountNumber string     `json:"accountNumber"`
	Amount        int64      `json:"amount"`
	ExpiresAt     *time.Time `json:"expiresAt,omitempty"`
	InvoiceNumber string     `json:"invoiceNumber"`
	CustomerName  string     `json:"customer"`
}

// writeError emits the error envelope all endpoints share: "error" carries
// the machine-readable token, "message" the human-readable text.
func writeError(c *gin.Context, status int, token string, err error) {
	c.JSON(status, gin.H{"error": token, "message": err.Error()})
}

// GetChannel resolves the payment channel for a pending transaction,
// provisioning one lazily when nothing usable is stored yet.
func (h *PaymentHandler) GetChannel(c *gin.Context) {
	transactionID := c.Param("id")

	result, err := h.Provisioner.ResolveChannel(c.Request.Context(), transactionID, h.ProvisionParams)
	if err != nil {
		h.writeProvisionError(c, err)
		return
	}

	resp := channelResponse{
		Resolved:    result.Resolved,
		RedirectURL: result.RedirectURL,
		Reason:      result.Reason,
	}
	if result.Channel != nil {
		resp.Channel = &channelDetails{
			BankCode:      result.Channel.BankCode,
			BankName:      result.Channel.BankName,
			AccountNumber: result.Channel.AccountNumber,
			Amount:        result.Channel.Amount,
			ExpiresAt:     result.Channel.ExpiresAt,
			InvoiceNumber: result.Channel.InvoiceNumber,
			CustomerName:  result.Channel.CustomerName,
		}
	}
	c.JSON(http.StatusOK, resp)
}

func (h *PaymentHandler) writeProvisionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrTransactionNotFound):
		writeError(c, http.StatusNotFound, "TRANSACTION_NOT_FOUND", err)
	case errors.Is(err, domain.ErrProvisionLocked):
		writeError(c, http.StatusConflict, "PROVISION_IN_PROGRESS", err)
	case errors.Is(err, domain.ErrGatewayUnreachable):
		writeError(c, http.StatusBadGateway, "GATEWAY_UNREACHABLE", err)
	case errors.Is(err, domain.ErrChannelUnavailable):
		writeError(c, http.StatusServiceUnavailable, "CHANNEL_UNAVAILABLE", err)
	default:
		writeError(c, http.StatusInternalServerError, "INTERNAL", err)
	}
}

type checkoutRequest struct {
	UserID          string `json:"userId" binding:"required"`
	Type            string `json:"type" binding:"required"`
	ProductID       string `json:"productId" binding:"required"`
	Amount          int64  `json:"amount" binding:"required"`
	DiscountAmount  int64  `json:"discountAmount"`
	BankCode        string `json:"bankCode"`
	BankName        string `json:"bankName"`
	CustomerName    string `json:"customerName"`
	CustomerEmail   string `json:"customerEmail"`
	CustomerPhone   string `json:"customerPhone"`
	Description     string `json:"description"`
	AffiliateUserID string `json:"affiliateUserId"`
}

func (h *PaymentHandler) CreateCheckout(c *gin.Context) {
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", err)
		return
	}

	tx, err := h.TransactionUC.CreateCheckout(c.Request.Context(), transaction.CheckoutInput{
		UserID:         req.UserID,
		Type:           domain.TransactionType(req.Type),
		ProductID:      req.ProductID,
		Amount:         req.Amount,
		DiscountAmount: req.DiscountAmount,
		BankCode:       req.BankCode,
		BankName:       req.BankName,
		Customer: domain.CustomerInfo{
			Name:  req.CustomerName,
			Email: req.CustomerEmail,
			Phone: req.CustomerPhone,
		},
		Description:     req.Description,
		AffiliateUserID: req.AffiliateUserID,
	})
	if err != nil {
		writeError(c, http.StatusUnprocessableEntity, "CHECKOUT_REJECTED", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"transactionId": tx.ID,
		"invoiceNumber": tx.InvoiceNumber,
		"externalId":    tx.ExternalID,
		"status":        tx.Status,
		"amount":        tx.AmountInfo.Amount,
		"expiredAt":     tx.ExpiredAt,
	})
}

func (h *PaymentHandler) GetTransaction(c *gin.Context) {
	tx, err := h.TransactionUC.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrTransactionNotFound) {
			writeError(c, http.StatusNotFound, "TRANSACTION_NOT_FOUND", err)
			return
		}
		writeError(c, http.StatusInternalServerError, "INTERNAL", err)
		return
	}
	c.JSON(http.StatusOK, tx)
}

type settleRequest struct {
	ExternalID string     `json:"externalId" binding:"required"`
	PaidAt     *time.Time `json:"paidAt"`
}

// Settle is the gateway webhook target. Replays are safe: a transaction
// already PAID reports 404 and nothing changes.
func (h *PaymentHandler) Settle(c *gin.Context) {
	var req settleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", err)
		return
	}

	paidAt := time.Now()
	if req.PaidAt != nil {
		paidAt = *req.PaidAt
	}
	if err := h.TransactionUC.SettleByExternalID(c.Request.Context(), req.ExternalID, paidAt); err != nil {
		if errors.Is(err, domain.ErrTransactionNotFound) {
			writeError(c, http.StatusNotFound, "PENDING_TRANSACTION_NOT_FOUND", err)
			return
		}
		writeError(c, http.StatusInternalServerError, "INTERNAL", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"settled": true})
}

func (h *PaymentHandler) PreviewCommission(c *gin.Context) {
	var req struct {
		ProductID string `json:"productId" binding:"required"`
		Amount    int64  `json:"amount" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", err)
		return
	}

	preview, err := h.TransactionUC.PreviewCommission(c.Request.Context(), req.ProductID, req.Amount)
	if err != nil {
		if errors.Is(err, domain.ErrMembershipNotFound) {
			writeError(c, http.StatusNotFound, "PRODUCT_NOT_FOUND", err)
			return
		}
		writeError(c, http.StatusInternalServerError, "INTERNAL", err)
		return
	}
	c.JSON(http.StatusOK, preview)
}

type reconciliationRequest struct {
	TransactionIDs []string   `json:"transactionIds"`
	From           *time.Time `json:"from"`
	To             *time.Time `json:"to"`
	Limit          int        `json:"limit"`
	Operator       string     `json:"operator" binding:"required"`
}

func (h *PaymentHandler) RunReconciliation(c *gin.Context) {
	var req reconciliationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", err)
		return
	}

	input := reconciliation.RunInput{
		TransactionIDs: req.TransactionIDs,
		Limit:          req.Limit,
		Operator:       req.Operator,
	}
	if req.From != nil {
		input.From = *req.From
	}
	if req.To != nil {
		input.To = *req.To
	}

	report, err := h.Reconciliation.Run(c.Request.Context(), input)
	if err != nil {
		writeError(c, http.StatusUnprocessableEntity, "RECONCILIATION_FAILED", err)
		return
	}
	c.JSON(http.StatusOK, report)
}
