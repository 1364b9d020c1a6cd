package handlers

import (
	"errors"
	"net/http"

	"github.com/developer-chiranjeevim/B2P-STUDENT-UI/config"
	"github.com/developer-chiranjeevim/B2P-STUDENT-UI/internal/middleware"
	"github.com/developer-chiranjeevim/B2P-STUDENT-UI/internal/models"
	"github.com/developer-chiranjeevim/B2P-STUDENT-UI/internal/services"
	apperrors "github.com/developer-chiranjeevim/B2P-STUDENT-UI/pkg/errors"
	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	service  *services.PaymentService
	keys     services.RazorpayKeySource
	checkout config.CheckoutConfig
}

func NewPaymentHandler(service *services.PaymentService, keys services.RazorpayKeySource, checkoutCfg config.CheckoutConfig) *PaymentHandler {
	return &PaymentHandler{
		service:  service,
		keys:     keys,
		checkout: checkoutCfg,
	}
}

// CheckoutRequest is the payment form as submitted by the student. Amount
// stays a string here; the workflow validates and converts it.
type CheckoutRequest struct {
	Amount   string              `json:"amount" binding:"required"`
	Customer models.CustomerInfo `json:"customer" binding:"required"`
}

// GetConfig returns what the payment page needs before any attempt starts:
// the public key and the widget's static presentation settings.
func (h *PaymentHandler) GetConfig(c *gin.Context) {
	key, err := h.keys.Get(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusBadGateway, "Payment configuration unavailable", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"key":         key,
		"script_url":  h.checkout.ScriptURL,
		"name":        h.checkout.MerchantName,
		"description": h.checkout.PaymentDescription,
		"theme_color": h.checkout.ThemeColor,
		"currency":    h.checkout.Currency,
	})
}

// StartCheckout starts a payment attempt. Validation failures are 400 with
// the exact form message; a workflow failure past validation is a terminal
// attempt view, not an HTTP error.
func (h *PaymentHandler) StartCheckout(c *gin.Context) {
	state, err := middleware.GetSession(c)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Internal server error", err)
		return
	}

	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request", err)
		return
	}

	view, err := h.service.StartAttempt(c.Request.Context(), state.Token, req.Amount, req.Customer)
	if err != nil {
		switch {
		case apperrors.Is(err, apperrors.ErrInvalidInput):
			respondError(c, http.StatusBadRequest, inputMessage(err), err)
		case apperrors.Is(err, apperrors.ErrAttemptBusy):
			respondError(c, http.StatusConflict, "A payment is already in progress", err)
		default:
			respondError(c, http.StatusInternalServerError, "Internal server error", err)
		}
		return
	}

	c.JSON(http.StatusOK, view)
}

// HandleCallback receives the widget's completion callback and resumes the
// attempt through verification.
func (h *PaymentHandler) HandleCallback(c *gin.Context) {
	var resp models.CheckoutResponse
	if err := c.ShouldBindJSON(&resp); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request", err)
		return
	}

	view, err := h.service.HandleCompletion(c.Request.Context(), c.Param("id"), resp)
	if err != nil {
		respondAttemptError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// HandleCancel receives the widget's dismissal callback.
func (h *PaymentHandler) HandleCancel(c *gin.Context) {
	view, err := h.service.HandleDismissal(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondAttemptError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// GetAttempt returns the current snapshot of an attempt.
func (h *PaymentHandler) GetAttempt(c *gin.Context) {
	view, err := h.service.Attempt(c.Param("id"))
	if err != nil {
		respondAttemptError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

func respondAttemptError(c *gin.Context, err error) {
	switch {
	case apperrors.Is(err, apperrors.ErrUnknownAttempt):
		respondError(c, http.StatusNotFound, "Unknown payment attempt", err)
	case apperrors.Is(err, apperrors.ErrStaleEvent):
		respondError(c, http.StatusConflict, "Payment attempt already resolved", err)
	default:
		respondError(c, http.StatusInternalServerError, "Internal server error", err)
	}
}

// inputMessage extracts the user-facing message from a rejected form field.
func inputMessage(err error) string {
	var inputErr *apperrors.InputError
	if errors.As(err, &inputErr) {
		return inputErr.Message
	}
	return "Invalid request"
}
