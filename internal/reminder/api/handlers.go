/**
 * @description
 * HTTP handlers for the reminder-service. The manual trigger runs the same job as the
 * weekly schedule and reports how many emails went out.
 */
package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/levishimwe/savesmart-mobile-app-Group4/internal/reminder/domain"
)

// Runner executes one reminder pass.
type Runner interface {
	Run(ctx context.Context) (domain.RunResult, error)
}

// TriggerResponse is the body returned by the manual trigger.
type TriggerResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// ReminderHandlers holds the job runner that handlers will use.
type ReminderHandlers struct {
	runner Runner
	logger *slog.Logger
}

// NewReminderHandlers creates a new instance of ReminderHandlers.
func NewReminderHandlers(runner Runner, logger *slog.Logger) *ReminderHandlers {
	return &ReminderHandlers{runner: runner, logger: logger}
}

// TriggerHandler runs the weekly reminder job on demand. The run outlives the caller: a
// disconnect does not cancel pending lookups or sends.
func (h *ReminderHandlers) TriggerHandler(w http.ResponseWriter, r *http.Request) {
	h.logger.Info("manual trigger: starting weekly reminder job")

	result, err := h.runner.Run(context.WithoutCancel(r.Context()))
	if err != nil {
		h.logger.Error("manual reminder trigger failed", "error", err)
		h.writeJSON(w, http.StatusInternalServerError, TriggerResponse{Success: false, Error: err.Error()})
		return
	}

	h.logger.Info("manual trigger finished", "sent", result.Sent, "skipped", result.Skipped, "failed", result.Failed)
	h.writeJSON(w, http.StatusOK, TriggerResponse{Success: true, Message: result.Summary()})
}

func (h *ReminderHandlers) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}
