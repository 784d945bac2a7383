package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/fastfood-platform/order-service/internal/orders/app"
	"github.com/fastfood-platform/order-service/internal/orders/domain"
	"github.com/fastfood-platform/order-service/internal/orders/ports"
	"github.com/go-chi/chi/v5"
)

const (
	defaultListLimit = 100
	maxListLimit     = 1000
)

// Handler exposes HTTP endpoints for order operations.
type Handler struct {
	service *app.Service
}

// NewHandler constructs a Handler.
func NewHandler(service *app.Service) *Handler {
	return &Handler{service: service}
}

// Routes binds the order endpoints onto a chi router, mounted under /order.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/create", h.createOrder)
	r.Get("/by-id/{id}", h.getOrder)
	r.Get("/list", h.listOrders)
	r.Get("/status/{status}", h.ordersByStatus)
	r.Put("/update_status/{id}", h.updateStatus)
	r.Delete("/cancel/{id}", h.cancelOrder)
	r.Post("/payment_confirm/{id}", h.confirmPayment)
	r.Get("/payment_status/{id}", h.paymentStatus)
	r.Post("/request-payment/{id}", h.requestPayment)

	return r
}

func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	idemKey := strings.TrimSpace(r.Header.Get("Idempotency-Key"))
	if idemKey != "" {
		stored, err := h.service.GetIdempotentResponse(ctx, idemKey)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		if stored != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(stored.StatusCode)
			_, _ = w.Write(stored.Body)
			return
		}
	}

	var payload createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", "invalid JSON payload")
		return
	}

	order, err := h.service.CreateOrder(ctx, payload.toInput())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response := toOrderResponse(order)
	body, err := json.Marshal(response)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}

	if idemKey != "" {
		stored := ports.StoredResponse{
			StatusCode: http.StatusCreated,
			Body:       body,
			OrderID:    order.InternalID,
		}
		if err := h.service.SaveIdempotentResponse(ctx, idemKey, stored); err != nil {
			writeServiceError(w, err)
			return
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_, _ = w.Write(body)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := orderID(w, r)
	if !ok {
		return
	}

	order, err := h.service.GetOrder(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(order))
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	filter := ports.ListFilter{Limit: defaultListLimit}

	if skipParam := r.URL.Query().Get("skip"); skipParam != "" {
		skip, err := strconv.Atoi(skipParam)
		if err != nil || skip < 0 {
			writeError(w, http.StatusBadRequest, "validation_error", "invalid skip parameter")
			return
		}
		filter.Skip = skip
	}

	if limitParam := r.URL.Query().Get("limit"); limitParam != "" {
		limit, err := strconv.Atoi(limitParam)
		if err != nil || limit <= 0 {
			writeError(w, http.StatusBadRequest, "validation_error", "invalid limit parameter")
			return
		}
		if limit > maxListLimit {
			limit = maxListLimit
		}
		filter.Limit = limit
	}

	orders, err := h.service.ListOrders(r.Context(), filter)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toOrderListResponse(orders))
}

func (h *Handler) ordersByStatus(w http.ResponseWriter, r *http.Request) {
	status, err := domain.ParseStatus(chi.URLParam(r, "status"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	orders, err := h.service.OrdersByStatus(r.Context(), status)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toOrderListResponse(orders))
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := orderID(w, r)
	if !ok {
		return
	}

	var payload updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", "invalid JSON payload")
		return
	}

	status, err := domain.ParseStatus(payload.Status)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	order, err := h.service.UpdateOrderStatus(r.Context(), id, status)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toOrderResponse(order))
}

func (h *Handler) cancelOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := orderID(w, r)
	if !ok {
		return
	}

	order, err := h.service.CancelOrder(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toOrderResponse(order))
}

func (h *Handler) confirmPayment(w http.ResponseWriter, r *http.Request) {
	id, ok := orderID(w, r)
	if !ok {
		return
	}

	var payload paymentConfirmRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", "invalid JSON payload")
		return
	}

	order, err := h.service.ConfirmPayment(r.Context(), id, domain.Payment{
		TransactionID:  payload.TransactionID,
		ApprovalStatus: payload.ApprovalStatus,
		Date:           payload.Date,
		Message:        payload.Message,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toOrderResponse(order))
}

func (h *Handler) paymentStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := orderID(w, r)
	if !ok {
		return
	}

	status, err := h.service.GetPaymentStatus(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, paymentStatusResponse{
		OrderInternalID:    status.OrderID,
		HasPaymentVerified: status.HasPaymentVerified,
		PaymentDate:        status.PaymentDate,
		TransactionID:      status.TransactionID,
		Message:            status.Message,
		Value:              status.Value,
		Status:             string(status.Status),
	})
}

func (h *Handler) requestPayment(w http.ResponseWriter, r *http.Request) {
	id, ok := orderID(w, r)
	if !ok {
		return
	}

	initiation, err := h.service.RequestPayment(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, paymentInitiationResponse{
		OrderInternalID: initiation.OrderID,
		Amount:          initiation.Amount,
		TransactionID:   initiation.TransactionID,
		PaymentURL:      initiation.PaymentURL,
		ExpiresAt:       initiation.ExpiresAt,
	})
}

func orderID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "validation_error", "invalid order id")
		return 0, false
	}
	return id, true
}

func writeServiceError(w http.ResponseWriter, err error) {
	var validationErr *domain.ValidationError
	switch {
	case errors.As(err, &validationErr):
		writeError(w, http.StatusBadRequest, "validation_error", validationErr.Error())
	case errors.Is(err, ports.ErrNotFound):
		// Wrapped not-found errors name the entity (e.g. "customer 77: not
		// found"); the bare sentinel is always an order lookup miss.
		message := "order not found"
		if err != ports.ErrNotFound {
			message = err.Error()
		}
		writeError(w, http.StatusNotFound, "not_found", message)
	case errors.Is(err, ports.ErrUnavailable), errors.Is(err, ports.ErrRejected):
		writeError(w, http.StatusBadGateway, "upstream_error", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, errType, message string) {
	writeJSON(w, status, map[string]any{"error": message, "type": errType})
}
