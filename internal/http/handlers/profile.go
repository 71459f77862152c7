package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/amacast/amacast-backend/internal/http/response"
	"github.com/amacast/amacast-backend/internal/services"
)

type ProfileHandler struct {
	profiles services.ProfileService
}

func NewProfileHandler(profiles services.ProfileService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

// GET /api/profile/:username
func (h *ProfileHandler) Get(c *gin.Context) {
	username := c.Param("username")
	if username == "" {
		response.RespondError(c, http.StatusBadRequest, "missing_username",
			fmt.Errorf("username is required"))
		return
	}

	profile, err := h.profiles.GetByUsername(c.Request.Context(), username)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, profile)
}

// GET /api/best-friends?fid=...
func (h *ProfileHandler) BestFriends(c *gin.Context) {
	friends, err := h.profiles.BestFriends(c.Request.Context(), c.Query("fid"))
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"best_friends": friends})
}
