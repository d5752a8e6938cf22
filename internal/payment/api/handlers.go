/**
 * @description
 * HTTP handlers for the payment-service. Handlers decode the request, call the
 * application service and translate failures: malformed input is a 400, anything that
 * went wrong upstream is a 500 carrying the provider's payload or the error message.
 *
 * @dependencies
 * - encoding/json, net/http: Standard Go libraries.
 * - internal/payment/app, internal/payment/domain, pkg/momoclient.
 */
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/levishimwe/savesmart-mobile-app-Group4/internal/payment/app"
	"github.com/levishimwe/savesmart-mobile-app-Group4/internal/payment/domain"
	"github.com/levishimwe/savesmart-mobile-app-Group4/pkg/momoclient"
)

const healthMessage = "MoMo Backend is running!"

// PaymentHandlers holds the application service that handlers will use.
type PaymentHandlers struct {
	service *app.Service
	logger  *slog.Logger
}

// NewPaymentHandlers creates a new instance of PaymentHandlers.
func NewPaymentHandlers(service *app.Service, logger *slog.Logger) *PaymentHandlers {
	return &PaymentHandlers{service: service, logger: logger}
}

// RootHandler answers the liveness probe on "/".
func (h *PaymentHandlers) RootHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(healthMessage))
}

// PayHandler handles collection requests (user -> app).
func (h *PaymentHandlers) PayHandler(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r, "pay")
	if !ok {
		return
	}

	referenceID, err := h.service.Pay(r.Context(), req)
	if err != nil {
		h.writeFailure(w, "pay", err)
		return
	}

	h.writeJSON(w, http.StatusOK, domain.PaymentResponse{ReferenceID: referenceID})
}

// WithdrawHandler handles disbursement requests (app -> user).
func (h *PaymentHandlers) WithdrawHandler(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r, "withdraw")
	if !ok {
		return
	}

	referenceID, err := h.service.Withdraw(r.Context(), req)
	if err != nil {
		h.writeFailure(w, "withdraw", err)
		return
	}

	h.writeJSON(w, http.StatusOK, domain.PaymentResponse{ReferenceID: referenceID})
}

func (h *PaymentHandlers) decode(w http.ResponseWriter, r *http.Request, endpoint string) (domain.PaymentRequest, bool) {
	var req domain.PaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid request body", "endpoint", endpoint, "error", err)
		msg := "Invalid request body"
		if errors.Is(err, domain.ErrInvalidAmount) {
			msg = domain.ErrInvalidAmount.Error()
		}
		h.writeJSON(w, http.StatusBadRequest, domain.ErrorResponse{Error: msg})
		return req, false
	}
	return req, true
}

func (h *PaymentHandlers) writeFailure(w http.ResponseWriter, endpoint string, err error) {
	if errors.Is(err, app.ErrInvalidPaymentRequest) {
		h.writeJSON(w, http.StatusBadRequest, domain.ErrorResponse{Error: err.Error()})
		return
	}

	var apiErr *momoclient.APIError
	if errors.As(err, &apiErr) {
		h.logger.Error("provider rejected request", "endpoint", endpoint, "status", apiErr.StatusCode, "body", string(apiErr.Body))
		h.writeJSON(w, http.StatusInternalServerError, domain.ErrorResponse{Error: apiErr.Payload()})
		return
	}

	h.logger.Error("request failed", "endpoint", endpoint, "error", err)
	h.writeJSON(w, http.StatusInternalServerError, domain.ErrorResponse{Error: err.Error()})
}

func (h *PaymentHandlers) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}
