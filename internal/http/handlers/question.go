package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	types "github.com/amacast/amacast-backend/internal/domain"
	"github.com/amacast/amacast-backend/internal/http/response"
	"github.com/amacast/amacast-backend/internal/pkg/ctxutil"
	"github.com/amacast/amacast-backend/internal/services"
)

type QuestionHandler struct {
	questions services.QuestionService
}

func NewQuestionHandler(questions services.QuestionService) *QuestionHandler {
	return &QuestionHandler{questions: questions}
}

// GET /api/questions?sessionId=...&askerFid=...
func (h *QuestionHandler) List(c *gin.Context) {
	filter := types.QuestionFilter{AskerFid: c.Query("askerFid")}
	if raw := c.Query("sessionId"); raw != "" {
		sessionID, err := uuid.Parse(raw)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_session_id",
				fmt.Errorf("invalid session ID"))
			return
		}
		filter.SessionID = &sessionID
	}

	questions, err := h.questions.List(c.Request.Context(), filter)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"questions": questions})
}

type createQuestionRequest struct {
	SessionID string `json:"session_id"`
	Content   string `json:"content"`
}

// POST /api/questions
func (h *QuestionHandler) Create(c *gin.Context) {
	identity := ctxutil.GetIdentity(c.Request.Context())
	if identity == nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	var req createQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	sessionID, err := uuid.Parse(req.SessionID)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_session_id",
			fmt.Errorf("invalid session ID"))
		return
	}

	question, err := h.questions.Submit(c.Request.Context(), sessionID, identity.Fid, req.Content)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"question": question})
}

type answerQuestionRequest struct {
	Answer string `json:"answer"`
}

// PATCH /api/questions/:id
func (h *QuestionHandler) Answer(c *gin.Context) {
	identity := ctxutil.GetIdentity(c.Request.Context())
	if identity == nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	questionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_question_id",
			fmt.Errorf("invalid question ID"))
		return
	}

	var req answerQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	question, err := h.questions.Answer(c.Request.Context(), questionID, req.Answer, identity.Fid)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"question": question})
}
