package handler

import (
	"net/http"

	"solvehub/internal/api/middleware"
	"solvehub/internal/app/service"
	"solvehub/internal/common"

	"github.com/go-chi/chi/v5"
)

type UploadHandler struct {
	uploadService *service.UploadService
	maxSizeBytes  int64
	maxFiles      int
}

func NewUploadHandler(uploadService *service.UploadService, maxFiles int, maxSizeBytes int64) *UploadHandler {
	return &UploadHandler{
		uploadService: uploadService,
		maxFiles:      maxFiles,
		maxSizeBytes:  maxSizeBytes,
	}
}

func (h *UploadHandler) RegisterRoutes(r chi.Router) {
	r.Use(middleware.Authenticator)
	r.Post("/", h.upload)
}

func (h *UploadHandler) upload(w http.ResponseWriter, r *http.Request) {
	// Cap the request body at the worst-case batch size plus form overhead.
	limit := h.maxSizeBytes*int64(h.maxFiles) + 1<<20
	r.Body = http.MaxBytesReader(w, r.Body, limit)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid multipart form: "+err.Error())
		return
	}
	files := r.MultipartForm.File["files"]

	uploaded, err := h.uploadService.Upload(r.Context(), files)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, uploaded)
}
