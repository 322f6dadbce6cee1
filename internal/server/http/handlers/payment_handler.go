package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	domainErrors "github.com/ezla-online/portal/internal/domain/errors"
	"github.com/ezla-online/portal/internal/domain/model"
	"github.com/ezla-online/portal/internal/server/http/dto"
)

const unknownPaymentStatus = "unknown"

// PaymentHandler serves the gateway notification and return endpoints.
type PaymentHandler struct {
	facade PaymentFacade
}

// NewPaymentHandler constructs PaymentHandler.
func NewPaymentHandler(facade PaymentFacade) *PaymentHandler {
	return &PaymentHandler{facade: facade}
}

// Notification handles POST /api/payments/autopay/itn. The gateway retries
// every non-2xx answer, so anything already applied is acknowledged.
func (h *PaymentHandler) Notification(c *gin.Context) {
	var req dto.NotificationRequest
	if err := c.ShouldBind(&req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			field, msg := describeFieldError(verrs[0])
			c.String(http.StatusBadRequest, field+" "+msg)
			return
		}
		c.String(http.StatusBadRequest, "malformed notification")
		return
	}

	err := h.facade.HandleNotification(c.Request.Context(), model.PaymentNotification{
		ServiceID:     req.ServiceID,
		OrderID:       req.OrderID,
		RemoteID:      req.RemoteID,
		Amount:        req.Amount,
		Currency:      req.Currency,
		PaymentStatus: req.PaymentStatus,
		Hash:          req.Hash,
	})
	switch {
	case err == nil, errors.Is(err, domainErrors.ErrPaymentFinalized):
		c.String(http.StatusOK, "OK")
	case errors.Is(err, domainErrors.ErrHashMismatch):
		c.String(http.StatusForbidden, "hash mismatch")
	case errors.Is(err, domainErrors.ErrNotFound):
		c.String(http.StatusNotFound, "case not found")
	default:
		_ = c.Error(err)
		c.String(http.StatusInternalServerError, "internal error")
	}
}

// Return handles POST /api/payments/autopay/return.
func (h *PaymentHandler) Return(c *gin.Context) {
	var req dto.ReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, dto.ReturnResponse{Error: "malformed_request"})
		return
	}

	res, err := h.facade.ResolveReturn(c.Request.Context(), model.ReturnParams{
		ServiceID:    req.ServiceID,
		OrderID:      req.OrderID,
		Hash:         req.Hash,
		CaseNumber:   req.CaseNumber,
		CompactID:    req.CompactID,
		CachedCaseID: req.CachedCaseID,
	})
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrMissingParameters):
			c.JSON(http.StatusBadRequest, dto.ReturnResponse{Error: "missing_parameters"})
		case errors.Is(err, domainErrors.ErrHashMismatch):
			c.JSON(http.StatusForbidden, dto.ReturnResponse{Error: "hash_mismatch"})
		case errors.Is(err, domainErrors.ErrNotFound):
			c.JSON(http.StatusNotFound, dto.ReturnResponse{Error: "case_not_found"})
		default:
			_ = c.Error(err)
			c.JSON(http.StatusInternalServerError, dto.ReturnResponse{Error: "internal_error"})
		}
		return
	}

	status := string(res.PaymentStatus)
	if status == "" {
		status = unknownPaymentStatus
	}
	c.JSON(http.StatusOK, dto.ReturnResponse{
		Valid:         true,
		Verified:      res.Verified,
		Source:        string(res.Source),
		CaseNumber:    res.CaseNumber,
		PaymentStatus: status,
		CaseStatus:    string(res.CaseStatus),
		ClearCache:    res.ClearCache,
	})
}
