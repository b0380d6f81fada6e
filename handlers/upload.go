// Copyright (c) 2026 Crownvote contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/f21events/crownvote/cliparse"
	"github.com/f21events/crownvote/middleware"
	"github.com/f21events/crownvote/models"
)

// maxUploadBytes is the candidate photo size limit.
const maxUploadBytes = 5 * 1024 * 1024

// photoDir is the subdirectory photos live in, both on disk and in the
// stored path returned to the client.
const photoDir = "photos"

var allowedPhotoTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

type UploadHandler struct {
	cfg cliparse.Config
}

func NewUploadHandler(cfg cliparse.Config) *UploadHandler {
	return &UploadHandler{cfg: cfg}
}

// Upload handles POST /api/admin/upload
// Accepts one multipart "file" field, sniffs the content type instead of
// trusting the extension, and stores the photo under the upload dir.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes+1024*1024)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest,
			fmt.Sprintf("File too large. Maximum size is %s.", humanize.IBytes(maxUploadBytes)))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "No file provided")
		return
	}
	defer file.Close()

	if header.Size > maxUploadBytes {
		middleware.ErrorResponse(w, http.StatusBadRequest,
			fmt.Sprintf("File too large. Maximum size is %s.", humanize.IBytes(maxUploadBytes)))
		return
	}

	sniff := make([]byte, 512)
	n, err := io.ReadFull(file, sniff)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		slog.Error("failed to read upload", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to read file")
		return
	}
	contentType := http.DetectContentType(sniff[:n])

	ext, ok := allowedPhotoTypes[contentType]
	if !ok {
		middleware.ErrorResponse(w, http.StatusBadRequest,
			"Invalid file type. Only JPEG, PNG, WebP, and GIF are allowed.")
		return
	}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		slog.Error("failed to rewind upload", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to read file")
		return
	}

	fileName := fmt.Sprintf("%d-%s%s", time.Now().UnixMilli(), uuid.NewString()[:8], ext)
	storedPath := path.Join(photoDir, fileName)

	dir := filepath.Join(h.cfg.UploadDir, photoDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		slog.Error("failed to create upload dir", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Upload failed")
		return
	}

	dst, err := os.Create(filepath.Join(dir, fileName))
	if err != nil {
		slog.Error("failed to create photo file", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Upload failed")
		return
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		slog.Error("failed to write photo file", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Upload failed")
		return
	}

	slog.Info("photo uploaded", "path", storedPath, "size", humanize.IBytes(uint64(header.Size)))

	middleware.JSONResponse(w, http.StatusOK, models.UploadResponse{
		URL:  "/uploads/" + storedPath,
		Path: storedPath,
	})
}

// Delete handles DELETE /api/admin/upload?path=...
// Removes a stored photo. Only paths inside the photo directory are
// accepted.
func (h *UploadHandler) Delete(w http.ResponseWriter, r *http.Request) {
	p := r.URL.Query().Get("path")
	if p == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "File path is required")
		return
	}

	clean := path.Clean(p)
	if !strings.HasPrefix(clean, photoDir+"/") {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid file path")
		return
	}

	if err := os.Remove(filepath.Join(h.cfg.UploadDir, filepath.FromSlash(clean))); err != nil {
		if os.IsNotExist(err) {
			middleware.ErrorResponse(w, http.StatusNotFound, "File not found")
			return
		}
		slog.Error("failed to delete photo", "error", err, "path", clean)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete file")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.SuccessResponse{Success: true})
}
