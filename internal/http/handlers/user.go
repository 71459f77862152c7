package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/amacast/amacast-backend/internal/http/response"
	"github.com/amacast/amacast-backend/internal/pkg/ctxutil"
	"github.com/amacast/amacast-backend/internal/services"
)

type UserHandler struct {
	identity services.IdentityService
}

func NewUserHandler(identity services.IdentityService) *UserHandler {
	return &UserHandler{identity: identity}
}

// GET /api/users?fid=...&username=...&limit=...
func (h *UserHandler) List(c *gin.Context) {
	if fid := c.Query("fid"); fid != "" {
		user, err := h.identity.GetByFid(c.Request.Context(), fid)
		if err != nil {
			response.RespondAppError(c, err)
			return
		}
		response.RespondOK(c, gin.H{"user": user})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	users, err := h.identity.SearchUsers(c.Request.Context(), c.Query("username"), limit)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"users": users})
}

type upsertUserRequest struct {
	WalletAddress string `json:"wallet_address"`
}

// POST /api/users
func (h *UserHandler) Upsert(c *gin.Context) {
	identity := ctxutil.GetIdentity(c.Request.Context())
	if identity == nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	var req upsertUserRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	user, err := h.identity.ResolveIdentity(c.Request.Context(), *identity)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	if req.WalletAddress != "" {
		user, err = h.identity.AttachWallet(c.Request.Context(), user.Fid, req.WalletAddress)
		if err != nil {
			response.RespondAppError(c, err)
			return
		}
	}
	response.RespondCreated(c, gin.H{"user": user})
}

// GET /api/auth/me
func (h *UserHandler) GetMe(c *gin.Context) {
	identity := ctxutil.GetIdentity(c.Request.Context())
	if identity == nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	user, err := h.identity.ResolveIdentity(c.Request.Context(), *identity)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"user": user})
}
