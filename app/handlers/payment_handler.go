package handlers

import (
	"net/http"

	"github.com/Learnathon-By-Geeky-Solutions/momentum/app/helpers"
	"github.com/Learnathon-By-Geeky-Solutions/momentum/app/services"
	"github.com/go-playground/validator/v10"
	"github.com/unrolled/render"
	"go.uber.org/zap"
)

// WebhookVerifier checks the gateway signature on a callback form.
type WebhookVerifier func(r *http.Request) bool

type PaymentHandler struct {
	render    *render.Render
	payments  *services.PaymentService
	validator *validator.Validate
	verify    WebhookVerifier
	log       *zap.Logger
}

// NewPaymentHandler accepts a nil verifier when callbacks are not signed.
func NewPaymentHandler(rnd *render.Render, payments *services.PaymentService, v *validator.Validate, verify WebhookVerifier, log *zap.Logger) *PaymentHandler {
	return &PaymentHandler{render: rnd, payments: payments, validator: v, verify: verify, log: log}
}

// SSLCommerzVerifier builds a WebhookVerifier for SSLCommerz verify_sign.
func SSLCommerzVerifier(storePass string) WebhookVerifier {
	return func(r *http.Request) bool {
		return services.VerifySSLCommerzSignature(r.PostForm, storePass)
	}
}

type initiatePaymentRequest struct {
	OrderID uint `json:"order_id" validate:"required"`
}

type payBillRequest struct {
	OrderID uint   `json:"order_id" validate:"required"`
	Method  string `json:"method" validate:"required,max=50"`
	TrxID   string `json:"trx_id" validate:"required,max=100"`
}

func (h *PaymentHandler) InitiatePayment(w http.ResponseWriter, r *http.Request) {
	user, _ := helpers.UserFromRequest(r)

	var in initiatePaymentRequest
	if !DecodeAndValidate(w, r, h.render, h.validator, &in) {
		return
	}

	res, err := h.payments.InitiatePayment(r.Context(), user, in.OrderID)
	if err != nil {
		WriteError(w, r, h.render, h.log, err)
		return
	}
	h.render.JSON(w, http.StatusOK, res)
}

func (h *PaymentHandler) PayBill(w http.ResponseWriter, r *http.Request) {
	user, _ := helpers.UserFromRequest(r)

	var in payBillRequest
	if !DecodeAndValidate(w, r, h.render, h.validator, &in) {
		return
	}

	msg, err := h.payments.PayBill(r.Context(), user, in.OrderID, in.Method, in.TrxID)
	if err != nil {
		WriteError(w, r, h.render, h.log, err)
		return
	}
	h.render.JSON(w, http.StatusOK, Message{Message: msg})
}

// callbackForm parses the gateway form. It never writes an error status: the
// gateway only expects an acknowledgement.
func (h *PaymentHandler) callbackForm(w http.ResponseWriter, r *http.Request) (string, bool) {
	if err := r.ParseForm(); err != nil {
		h.log.Warn("unreadable gateway callback", zap.String("path", r.URL.Path), zap.Error(err))
		h.render.JSON(w, http.StatusOK, Message{Message: "Invalid callback payload"})
		return "", false
	}
	if h.verify != nil && !h.verify(r) {
		h.log.Warn("gateway callback failed signature check",
			zap.String("path", r.URL.Path),
			zap.String("tran_id", r.PostForm.Get("tran_id")),
		)
		h.render.JSON(w, http.StatusOK, Message{Message: "Invalid signature"})
		return "", false
	}
	return r.PostForm.Get("tran_id"), true
}

func (h *PaymentHandler) SSLSuccess(w http.ResponseWriter, r *http.Request) {
	trxID, ok := h.callbackForm(w, r)
	if !ok {
		return
	}
	h.render.JSON(w, http.StatusOK, h.payments.ConfirmPayment(r.Context(), trxID, r.PostForm.Get("card_type")))
}

func (h *PaymentHandler) SSLFail(w http.ResponseWriter, r *http.Request) {
	trxID, ok := h.callbackForm(w, r)
	if !ok {
		return
	}
	h.render.JSON(w, http.StatusOK, h.payments.FailPayment(r.Context(), trxID))
}

func (h *PaymentHandler) SSLCancel(w http.ResponseWriter, r *http.Request) {
	trxID, ok := h.callbackForm(w, r)
	if !ok {
		return
	}
	h.render.JSON(w, http.StatusOK, h.payments.CancelPayment(r.Context(), trxID))
}
