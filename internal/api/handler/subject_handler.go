package handler

import (
	"encoding/json"
	"net/http"

	"solvehub/internal/api/middleware"
	"solvehub/internal/app/service"
	"solvehub/internal/common"

	"github.com/go-chi/chi/v5"
)

type SubjectHandler struct {
	subjectService *service.SubjectService
}

func NewSubjectHandler(subjectService *service.SubjectService) *SubjectHandler {
	return &SubjectHandler{subjectService: subjectService}
}

func (h *SubjectHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/{slug}", h.get)

	r.Group(func(admin chi.Router) {
		admin.Use(middleware.Authenticator, middleware.AdminOnly)
		admin.Post("/", h.create)
		admin.Patch("/{id}/popular", h.setPopular)
	})
}

func (h *SubjectHandler) list(w http.ResponseWriter, r *http.Request) {
	popularOnly := r.URL.Query().Get("popular") == "true"
	subjects, err := h.subjectService.List(r.Context(), popularOnly)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, subjects)
}

func (h *SubjectHandler) get(w http.ResponseWriter, r *http.Request) {
	subject, err := h.subjectService.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, subject)
}

func (h *SubjectHandler) create(w http.ResponseWriter, r *http.Request) {
	var req service.CreateSubjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	subject, err := h.subjectService.Create(r.Context(), req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, subject)
}

func (h *SubjectHandler) setPopular(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IsPopular bool `json:"is_popular"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	if err := h.subjectService.SetPopular(r.Context(), chi.URLParam(r, "id"), req.IsPopular); err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]bool{"is_popular": req.IsPopular})
}
