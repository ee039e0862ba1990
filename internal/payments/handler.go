package payments

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wolfman30/portfolio-api/internal/http/render"
	"github.com/wolfman30/portfolio-api/pkg/logging"
)

type orderCreator interface {
	CreateOrder(ctx context.Context, req OrderRequest) (*Order, error)
}

// Handler serves order creation and standalone signature checks.
type Handler struct {
	orders   orderCreator
	verifier *Verifier
	logger   *logging.Logger
}

func NewHandler(orders orderCreator, verifier *Verifier, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{orders: orders, verifier: verifier, logger: logger}
}

// Routes mounts under /payment.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/create-order", h.CreateOrder)
	r.Post("/verify-payment", h.VerifyPayment)
	return r
}

type createOrderRequest struct {
	Amount   float64 `json:"amount" validate:"gt=0"`
	Currency string  `json:"currency"`
}

type createOrderResponse struct {
	OrderID string `json:"order_id"`
	Amount  int64  `json:"amount"`
}

// CreateOrder handles POST /payment/create-order.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := render.DecodeJSON(r, &req); err != nil {
		render.BadRequest(w, err)
		return
	}
	order, err := h.orders.CreateOrder(r.Context(), OrderRequest{Amount: req.Amount, Currency: req.Currency})
	if err != nil {
		h.logger.Error("create order failed", "error", err, "amount", req.Amount)
		render.ErrorCode(w, http.StatusBadGateway, "RAZORPAY_ORDER_CREATION_FAILED",
			"Payment service unavailable. Please try again later.")
		return
	}
	render.JSON(w, http.StatusOK, createOrderResponse{OrderID: order.ID, Amount: order.Amount})
}

type verifyPaymentResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	OrderID   string `json:"order_id,omitempty"`
	PaymentID string `json:"payment_id,omitempty"`
}

// VerifyPayment handles POST /payment/verify-payment.
func (h *Handler) VerifyPayment(w http.ResponseWriter, r *http.Request) {
	var att Attestation
	if err := render.DecodeJSON(r, &att); err != nil {
		render.BadRequest(w, err)
		return
	}
	result, err := h.verifier.Verify(r.Context(), att)
	if err != nil {
		h.logger.Error("payment verification failed", "error", err, "order_id", att.OrderID)
		render.ErrorCode(w, http.StatusInternalServerError, "PAYMENT_VERIFICATION_FAILED", "payment verification failed")
		return
	}
	if !result.Verified {
		render.JSON(w, http.StatusOK, verifyPaymentResponse{Success: false, Message: result.Reason})
		return
	}
	render.JSON(w, http.StatusOK, verifyPaymentResponse{
		Success:   true,
		Message:   "Payment verified successfully",
		OrderID:   att.OrderID,
		PaymentID: att.PaymentID,
	})
}
