package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dokanhq/dokan/internal/models"
	"github.com/dokanhq/dokan/internal/payment"
	"go.uber.org/zap"
)

// GatewayClient verifies payment transactions with the hosted gateway.
type GatewayClient interface {
	GetTransactionStatus(ctx context.Context, trackingID string) (*payment.TransactionStatus, error)
}

// PaymentService records confirmed online payments.
type PaymentService interface {
	ConfirmOnlinePayment(ctx context.Context, number string) error
}

// PaymentHandler receives payment notifications from the hosted gateway.
type PaymentHandler struct {
	gateway GatewayClient
	svc     PaymentService
	logger  *zap.Logger
}

// NewPaymentHandler creates new PaymentHandler instance
func NewPaymentHandler(gateway GatewayClient, svc PaymentService, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{
		gateway: gateway,
		svc:     svc,
		logger:  logger,
	}
}

type ipnPayload struct {
	OrderTrackingID        string `json:"OrderTrackingId"`
	OrderMerchantReference string `json:"OrderMerchantReference"`
}

// HandleIPN processes a gateway payment notification. The payload is never
// trusted: the transaction status is re-read from the gateway before the
// order is marked paid. Merchant reference is our order number.
// 200 — notification processed;
// 400 — missing parameters;
// 500 — gateway unreachable or update failed.
func (ph *PaymentHandler) HandleIPN() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var trackingID, merchantRef string

		if r.Method == http.MethodPost {
			var p ipnPayload
			if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
				http.Error(w, "bad request", http.StatusBadRequest)
				return
			}
			defer r.Body.Close()
			trackingID = p.OrderTrackingID
			merchantRef = p.OrderMerchantReference
		} else {
			trackingID = r.URL.Query().Get("OrderTrackingId")
			merchantRef = r.URL.Query().Get("OrderMerchantReference")
		}

		if trackingID == "" || merchantRef == "" {
			http.Error(w, "missing parameters", http.StatusBadRequest)
			return
		}

		status, err := ph.gateway.GetTransactionStatus(r.Context(), trackingID)
		if err != nil {
			ph.logger.Error("gateway status check failed",
				zap.String("tracking_id", trackingID),
				zap.Error(err))
			http.Error(w, "payment status check failed", http.StatusInternalServerError)
			return
		}

		if status.PaymentStatus == payment.StatusCompleted {
			if err := ph.svc.ConfirmOnlinePayment(r.Context(), merchantRef); err != nil && !errors.Is(err, models.ErrDataNotFound) {
				ph.logger.Error("payment confirmation failed",
					zap.String("number", merchantRef),
					zap.Error(err))
				http.Error(w, "failed to record payment", http.StatusInternalServerError)
				return
			}
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"orderNotificationType":  "IPNCHANGE",
			"orderTrackingId":        trackingID,
			"orderMerchantReference": merchantRef,
			"status":                 200,
		})
	}
}
