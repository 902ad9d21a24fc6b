package handler

import (
	"encoding/json"
	"net/http"

	"solvehub/internal/api/middleware"
	"solvehub/internal/app/service"
	"solvehub/internal/common"
	"solvehub/internal/domain/repository"

	"github.com/go-chi/chi/v5"
)

type ExerciseHandler struct {
	exerciseService *service.ExerciseService
	answerService   *service.AnswerService
	userService     *service.UserService
}

func NewExerciseHandler(
	exerciseService *service.ExerciseService,
	answerService *service.AnswerService,
	userService *service.UserService,
) *ExerciseHandler {
	return &ExerciseHandler{
		exerciseService: exerciseService,
		answerService:   answerService,
		userService:     userService,
	}
}

func (h *ExerciseHandler) RegisterRoutes(r chi.Router) {
	r.Group(func(public chi.Router) {
		public.Use(middleware.OptionalAuthenticator)
		public.Get("/", h.list)
		public.Get("/{id}", h.get)
		public.Get("/{id}/answers", h.listAnswers)
	})

	r.Group(func(authed chi.Router) {
		authed.Use(middleware.Authenticator)
		authed.Post("/", h.create)
		authed.Post("/{id}/answers", h.createAnswer)
		authed.Post("/{id}/like", h.vote(true))
		authed.Post("/{id}/dislike", h.vote(false))
		authed.Post("/{id}/save", h.setSaved(true))
		authed.Delete("/{id}/save", h.setSaved(false))
		authed.Post("/{id}/complete", h.setCompleted(true))
		authed.Delete("/{id}/complete", h.setCompleted(false))
	})
}

func (h *ExerciseHandler) list(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pagination(r)
	filter := repository.ExerciseFilter{
		SubjectSlug: r.URL.Query().Get("subject"),
		Tag:         r.URL.Query().Get("tag"),
		SearchTerm:  r.URL.Query().Get("q"),
	}

	exercises, total, err := h.exerciseService.List(r.Context(), page, pageSize, filter)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, pagedResponse{
		Items: exercises, Total: total, Page: page, PageSize: pageSize,
	})
}

func (h *ExerciseHandler) get(w http.ResponseWriter, r *http.Request) {
	viewerID, _ := middleware.GetUserIDFromContext(r.Context())
	exercise, err := h.exerciseService.Get(r.Context(), chi.URLParam(r, "id"), viewerID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, exercise)
}

func (h *ExerciseHandler) create(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	var req service.CreateExerciseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	exercise, err := h.exerciseService.Create(r.Context(), userID, req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, exercise)
}

func (h *ExerciseHandler) listAnswers(w http.ResponseWriter, r *http.Request) {
	viewerID, _ := middleware.GetUserIDFromContext(r.Context())
	order := repository.OrderRecency
	if r.URL.Query().Get("order") == "thread" {
		order = repository.OrderThread
	}

	answers, err := h.answerService.ListByExercise(r.Context(), chi.URLParam(r, "id"), viewerID, order)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, answers)
}

func (h *ExerciseHandler) createAnswer(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	var req service.CreateAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	answer, err := h.answerService.Create(r.Context(), chi.URLParam(r, "id"), userID, req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, answer)
}

func (h *ExerciseHandler) vote(isLike bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _ := middleware.GetUserIDFromContext(r.Context())
		exercise, err := h.exerciseService.ToggleVote(r.Context(), chi.URLParam(r, "id"), userID, isLike)
		if err != nil {
			common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
			return
		}
		common.RespondWithJSON(w, http.StatusOK, exercise)
	}
}

func (h *ExerciseHandler) setSaved(saved bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _ := middleware.GetUserIDFromContext(r.Context())
		if err := h.userService.SetSaved(r.Context(), userID, chi.URLParam(r, "id"), saved); err != nil {
			common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
			return
		}
		common.RespondWithJSON(w, http.StatusOK, map[string]bool{"saved": saved})
	}
}

func (h *ExerciseHandler) setCompleted(completed bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _ := middleware.GetUserIDFromContext(r.Context())
		if err := h.userService.SetCompleted(r.Context(), userID, chi.URLParam(r, "id"), completed); err != nil {
			common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
			return
		}
		common.RespondWithJSON(w, http.StatusOK, map[string]bool{"completed": completed})
	}
}
