package handler

import (
	"encoding/json"
	"net/http"

	"solvehub/internal/api/middleware"
	"solvehub/internal/app/service"
	"solvehub/internal/common"
	"solvehub/internal/domain/model"

	"github.com/go-chi/chi/v5"
)

type ReportHandler struct {
	reportService *service.ReportService
}

func NewReportHandler(reportService *service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// RegisterRoutes mounts report intake for authenticated users.
func (h *ReportHandler) RegisterRoutes(r chi.Router) {
	r.Use(middleware.Authenticator)
	r.Post("/", h.create)
}

// RegisterAdminRoutes mounts the moderation surface.
func (h *ReportHandler) RegisterAdminRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/{id}/resolve", h.resolve)
}

func (h *ReportHandler) create(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	var req service.CreateReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	report, err := h.reportService.Create(r.Context(), userID, req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, report)
}

func (h *ReportHandler) list(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pagination(r)
	status := model.ReportStatus(r.URL.Query().Get("status"))

	reports, total, err := h.reportService.List(r.Context(), status, page, pageSize)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, pagedResponse{
		Items: reports, Total: total, Page: page, PageSize: pageSize,
	})
}

func (h *ReportHandler) resolve(w http.ResponseWriter, r *http.Request) {
	report, err := h.reportService.Resolve(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, report)
}
