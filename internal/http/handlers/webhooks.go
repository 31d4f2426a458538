package handlers

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BhargavEnigma/FreshVegApp-sub000/internal/http/middleware"
	"github.com/BhargavEnigma/FreshVegApp-sub000/internal/modules/payments"
	"github.com/BhargavEnigma/FreshVegApp-sub000/internal/shared/apperr"
)

const maxWebhookBody = 64 << 10

type WebhookHandler struct {
	Logger *slog.Logger
	Secret []byte
	Svc    *payments.WebhookService
}

func NewWebhookHandler(logger *slog.Logger, secret string, svc *payments.WebhookService) *WebhookHandler {
	return &WebhookHandler{Logger: logger, Secret: []byte(secret), Svc: svc}
}

// POST /webhooks/payments
// The signature covers the raw body, so it is read before any decoding.
func (h *WebhookHandler) Payment(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody+1))
	if err != nil || len(body) > maxWebhookBody {
		middleware.Fail(c, payments.ErrInvalidPayload)
		return
	}

	if err := payments.VerifySignature(h.Secret, body, c.GetHeader(payments.SignatureHeader)); err != nil {
		h.Logger.WarnContext(c.Request.Context(), "webhook signature rejected",
			"request_id", middleware.GetRequestID(c), "client_ip", c.ClientIP())
		middleware.Fail(c, err)
		return
	}

	ev, err := payments.ParseWebhook(body)
	if err != nil {
		middleware.Fail(c, err)
		return
	}

	res, err := h.Svc.Handle(c.Request.Context(), ev, body)
	if err != nil {
		// 5xx makes the provider retry; domain rejections are final
		if apperr.HTTPStatus(err) >= 500 {
			h.Logger.ErrorContext(c.Request.Context(), "webhook apply failed",
				"order_id", ev.OrderID, "provider_payment_id", ev.ProviderPaymentID, "err", err)
		}
		middleware.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "result": res})
}
