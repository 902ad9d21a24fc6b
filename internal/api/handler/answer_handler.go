package handler

import (
	"net/http"

	"solvehub/internal/api/middleware"
	"solvehub/internal/app/service"
	"solvehub/internal/common"

	"github.com/go-chi/chi/v5"
)

type AnswerHandler struct {
	answerService *service.AnswerService
}

func NewAnswerHandler(answerService *service.AnswerService) *AnswerHandler {
	return &AnswerHandler{answerService: answerService}
}

func (h *AnswerHandler) RegisterRoutes(r chi.Router) {
	r.Use(middleware.Authenticator)
	r.Post("/{id}/like", h.vote(true))
	r.Post("/{id}/dislike", h.vote(false))
}

func (h *AnswerHandler) vote(isLike bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _ := middleware.GetUserIDFromContext(r.Context())
		answer, err := h.answerService.ToggleVote(r.Context(), chi.URLParam(r, "id"), userID, isLike)
		if err != nil {
			common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
			return
		}
		common.RespondWithJSON(w, http.StatusOK, answer)
	}
}
