package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/brandgen/brandgen-go/internal/model"
	"github.com/brandgen/brandgen-go/internal/service"
)

// Generator produces logo image URLs for a branding request.
type Generator interface {
	Generate(ctx context.Context, req model.BrandRequest) (model.GenerateResponse, error)
}

// TicketIssuer signs per-URL download tickets; nil tickets mean disabled.
type TicketIssuer interface {
	IssueTickets(urls []string) ([]string, error)
}

// BrandHandler handles HTTP requests for brand image generation.
type BrandHandler struct {
	generator Generator
	tickets   TicketIssuer
	logger    *slog.Logger
}

// NewBrandHandler creates a new BrandHandler.
func NewBrandHandler(gen Generator, tickets TicketIssuer, logger *slog.Logger) *BrandHandler {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &BrandHandler{generator: gen, tickets: tickets, logger: logger}
}

// HandleGenerate handles POST /api/generate-brand requests.
func (h *BrandHandler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB

	var req model.BrandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, model.ErrorResponse{Error: "request body too large"})
			return
		}
		writeJSON(w, http.StatusBadRequest, model.ErrorResponse{Error: "invalid request body", Details: err.Error()})
		return
	}

	resp, err := h.generator.Generate(r.Context(), req)
	if err != nil {
		if service.IsValidationError(err) {
			writeJSON(w, http.StatusBadRequest, model.ErrorResponse{
				Error:   "Missing required fields",
				Details: err.Error(),
			})
			return
		}

		h.logger.Error("brand generation failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, model.ErrorResponse{
			Error:   "Image generation failed",
			Details: errorDetails(err),
		})
		return
	}

	if h.tickets != nil {
		tickets, err := h.tickets.IssueTickets(resp.ImageURLs)
		if err != nil {
			h.logger.Error("issuing download tickets failed", "error", err)
			writeJSON(w, http.StatusInternalServerError, model.ErrorResponse{
				Error:   "Image generation failed",
				Details: "could not sign download tickets",
			})
			return
		}
		resp.DownloadTickets = tickets
	}

	writeJSON(w, http.StatusOK, resp)
}

func errorDetails(err error) string {
	var pe *service.ProviderError
	switch {
	case errors.As(err, &pe):
		return pe.Error()
	case errors.Is(err, service.ErrProviderTimeout):
		return "Image provider timed out"
	case errors.Is(err, service.ErrGenerationFailed):
		return "Failed to generate any images"
	case errors.Is(err, context.Canceled):
		return "Request canceled"
	}
	return err.Error()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
