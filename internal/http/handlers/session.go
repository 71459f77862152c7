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

type SessionHandler struct {
	sessions services.SessionService
}

func NewSessionHandler(sessions services.SessionService) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

// GET /api/sessions?status=...&creatorFid=...
func (h *SessionHandler) List(c *gin.Context) {
	filter := types.SessionFilter{
		Status:     c.Query("status"),
		CreatorFid: c.Query("creatorFid"),
	}
	sessions, err := h.sessions.List(c.Request.Context(), filter)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"sessions": sessions})
}

type createSessionRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// POST /api/sessions
func (h *SessionHandler) Create(c *gin.Context) {
	identity := ctxutil.GetIdentity(c.Request.Context())
	if identity == nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	var req createSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	session, err := h.sessions.Create(c.Request.Context(), identity.Fid, req.Title, req.Description)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"session": session})
}

// GET /api/sessions/:id
func (h *SessionHandler) Get(c *gin.Context) {
	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_session_id",
			fmt.Errorf("invalid session ID"))
		return
	}

	detail, err := h.sessions.GetDetail(c.Request.Context(), sessionID)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, detail)
}

type updateSessionRequest struct {
	Status string `json:"status"`
}

// PATCH /api/sessions/:id
func (h *SessionHandler) Update(c *gin.Context) {
	identity := ctxutil.GetIdentity(c.Request.Context())
	if identity == nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_session_id",
			fmt.Errorf("invalid session ID"))
		return
	}

	var req updateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if req.Status != types.SessionStatusEnded {
		response.RespondError(c, http.StatusBadRequest, "invalid_status",
			fmt.Errorf("only status %q is accepted", types.SessionStatusEnded))
		return
	}

	session, err := h.sessions.End(c.Request.Context(), sessionID, identity.Fid)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"session": session})
}
