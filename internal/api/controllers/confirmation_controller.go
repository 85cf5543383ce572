package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"tripplanner/internal/models/response_models"
	"tripplanner/internal/services"
	mem "tripplanner/pkg/memcache"
	"tripplanner/pkg/utils"
)

const confirmTTL = 5 * time.Minute

type ConfirmationController struct {
	tokens mem.TokenStore[*services.ConfirmRequest]
}

func NewConfirmationController(tokens mem.TokenStore[*services.ConfirmRequest]) *ConfirmationController {
	return &ConfirmationController{tokens: tokens}
}

// issue parks req under a fresh token and returns the confirmation text to the caller.
func (cc *ConfirmationController) issue(c *gin.Context, req *services.ConfirmRequest) {
	token := uuid.New().String()
	cc.tokens.Set(token, req, confirmTTL)

	utils.RespondSuccess(c, response_models.ConfirmationResponse{
		Token:     token,
		Title:     req.Title,
		Message:   req.Message,
		ExpiresAt: time.Now().Add(confirmTTL).UnixMilli(),
	}, "Confirmation required")
}

// Confirm godoc
// @Summary Confirm a pending destructive action
// @Tags Confirmations
// @Produce json
// @Param token path string true "Confirmation token"
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /confirmations/{token} [post]
func (cc *ConfirmationController) Confirm(c *gin.Context) {
	req, ok := cc.tokens.Consume(c.Param("token"))
	if !ok {
		utils.RespondError(c, http.StatusNotFound, "Confirmation expired or unknown")
		return
	}

	if err := req.Confirm(c.Request.Context()); err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, nil, req.Title+" confirmed")
}

// Dismiss drops a pending action without running it.
func (cc *ConfirmationController) Dismiss(c *gin.Context) {
	if _, ok := cc.tokens.Consume(c.Param("token")); !ok {
		utils.RespondError(c, http.StatusNotFound, "Confirmation expired or unknown")
		return
	}
	utils.RespondSuccess(c, nil, "Dismissed")
}
