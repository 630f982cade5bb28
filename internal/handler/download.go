package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/brandgen/brandgen-go/internal/service"
)

const downloadFilename = "brand-image.png"

// Downloader opens generated images for pass-through download.
type Downloader interface {
	Authorize(imageURL, ticket string) error
	Open(ctx context.Context, imageURL string) (*service.Image, error)
}

// DownloadHandler streams a generated image back as an attachment.
type DownloadHandler struct {
	downloads Downloader
	logger    *slog.Logger
}

// NewDownloadHandler creates a new DownloadHandler.
func NewDownloadHandler(d Downloader, logger *slog.Logger) *DownloadHandler {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &DownloadHandler{downloads: d, logger: logger}
}

// HandleDownload handles GET /api/download-image?url=... requests.
func (h *DownloadHandler) HandleDownload(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	imageURL := q.Get("url")
	if imageURL == "" {
		http.Error(w, "Image URL is required", http.StatusBadRequest)
		return
	}

	if err := h.downloads.Authorize(imageURL, q.Get("ticket")); err != nil {
		http.Error(w, "Invalid download ticket", http.StatusForbidden)
		return
	}

	img, err := h.downloads.Open(r.Context(), imageURL)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrImageURLRequired):
			http.Error(w, "Image URL is required", http.StatusBadRequest)
		case errors.Is(err, service.ErrInvalidImageURL):
			http.Error(w, "Invalid image URL", http.StatusBadRequest)
		default:
			h.logger.Error("download error", "error", err)
			http.Error(w, "Failed to download image", http.StatusInternalServerError)
		}
		return
	}
	defer img.Body.Close()

	w.Header().Set("Content-Disposition", "attachment; filename="+downloadFilename)
	w.Header().Set("Content-Type", "image/png")
	if img.ContentLength > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(img.ContentLength, 10))
	}
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, img.Body); err != nil {
		// Headers are gone already; all that is left is to note it.
		h.logger.Warn("download stream interrupted", "error", err)
	}
}
