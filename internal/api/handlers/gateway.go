package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/matiasleandrokruk/summarygate/internal/domain/summarize"
)

// GatewayService is the subset of summarize.Service the HTTP handlers use.
type GatewayService interface {
	Liveness() summarize.Liveness
	Health(ctx context.Context) summarize.HealthStatus
	Summarize(ctx context.Context, text string) (summarize.Response, error)
}

// GatewayHandler serves the three public gateway operations.
type GatewayHandler struct {
	service    GatewayService
	backendURL string
}

func NewGatewayHandler(service GatewayService, backendURL string) *GatewayHandler {
	return &GatewayHandler{service: service, backendURL: backendURL}
}

type healthResponse struct {
	Status string `json:"status"`
	Ollama string `json:"ollama"`
}

// Root handles GET /.
func (h *GatewayHandler) Root(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.service.Liveness())
}

// Health handles GET /health. It always answers 200; reachability is in the body.
func (h *GatewayHandler) Health(w http.ResponseWriter, r *http.Request) {
	status := h.service.Health(r.Context())

	backend := "disconnected"
	if status.BackendReachable {
		backend = "connected"
	}
	writeJSON(w, http.StatusOK, healthResponse{
		Status: string(status.APIStatus),
		Ollama: backend,
	})
}

// Summarize handles POST /summarize/ with a form field "text".
// The request context is passed down so a disconnect abandons the backend call.
func (h *GatewayHandler) Summarize(w http.ResponseWriter, r *http.Request) {
	text, err := formValue(r, "text")
	if err != nil {
		if errors.Is(err, errFieldMissing) {
			writeError(w, http.StatusUnprocessableEntity, "Field required: text")
			return
		}
		writeError(w, http.StatusBadRequest, "Invalid form body")
		return
	}

	resp, err := h.service.Summarize(r.Context(), text)
	if err != nil {
		status, detail := errorResponse(err, h.backendURL)
		writeError(w, status, detail)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
