package api

import (
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/erazemk/nepremicnine/internal/imaging"
	"github.com/erazemk/nepremicnine/internal/service"
)

// multipartOverhead is allowed on top of the image size limit for the
// multipart framing around the file.
const multipartOverhead = 64 << 10

// ImagesHandler handles image upload and download.
type ImagesHandler struct {
	Properties *service.PropertyService
}

// Upload handles PUT /api/properties/{id}/image.
func (h *ImagesHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, imaging.DefaultMaxBytes+multipartOverhead)

	if err := r.ParseMultipartForm(imaging.DefaultMaxBytes); err != nil {
		jsonError(w, http.StatusBadRequest, "file too large or invalid multipart form")
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, _, err := r.FormFile("image")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "image file required")
		return
	}
	defer file.Close()

	property, err := h.Properties.SetImage(r.Context(), r.PathValue("id"), file)
	if err != nil {
		writeError(w, r, err)
		return
	}

	slog.Info("property image uploaded", "property", property.ID, "image", property.Image)
	jsonSuccess(w, http.StatusOK, "image uploaded", property)
}

// Get handles GET /api/images/{key...}.
func (h *ImagesHandler) Get(w http.ResponseWriter, r *http.Request) {
	info, body, err := h.Properties.OpenImage(r.Context(), r.PathValue("key"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	defer body.Close()

	if info.ContentType != "" {
		w.Header().Set("Content-Type", info.ContentType)
	}
	if info.Size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(info.Size, 10))
	}
	// Keys are unique per upload, so content never changes.
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, body); err != nil {
		slog.Warn("failed to stream image", "key", info.Key, "error", err)
	}
}
