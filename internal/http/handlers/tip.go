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

type TipHandler struct {
	tips services.TipService
}

func NewTipHandler(tips services.TipService) *TipHandler {
	return &TipHandler{tips: tips}
}

// GET /api/tips?sessionId=...&senderFid=...
func (h *TipHandler) List(c *gin.Context) {
	filter := types.TipFilter{SenderFid: c.Query("senderFid")}
	if raw := c.Query("sessionId"); raw != "" {
		sessionID, err := uuid.Parse(raw)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_session_id",
				fmt.Errorf("invalid session ID"))
			return
		}
		filter.SessionID = &sessionID
	}

	tips, err := h.tips.List(c.Request.Context(), filter)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"tips": tips})
}

type createTipRequest struct {
	SessionID string  `json:"session_id"`
	Amount    float64 `json:"amount"`
	TxHash    string  `json:"tx_hash"`
}

// POST /api/tips
func (h *TipHandler) Create(c *gin.Context) {
	identity := ctxutil.GetIdentity(c.Request.Context())
	if identity == nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	var req createTipRequest
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

	tip, err := h.tips.Record(c.Request.Context(), sessionID, identity.Fid, req.Amount, req.TxHash)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"tip": tip})
}
