package account

import (
	"net/http"

	"codeberg.org/echowrite/server/internal/auth"
	"codeberg.org/echowrite/server/internal/errors"
	"codeberg.org/echowrite/server/internal/logger"
	"codeberg.org/echowrite/server/internal/relay"
	"codeberg.org/echowrite/server/internal/usage"
	"github.com/gin-gonic/gin"
)

// Handler godoc
// @Summary Bootstrap or upgrade the caller's account
// @Description "bootstrap" upserts the profile and creates the usage record if absent; "activate-premium" also sets role to premium
// @Tags account
// @Accept json
// @Produce json
// @Param request body Request true "Account action"
// @Success 200 {object} Response
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /api/v1/account [post]
// @Security BearerAuth
func Handler(accounts Accounts) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := auth.GetPrincipal(c)
		if !ok {
			errors.Unauthorized(c, "")
			return
		}

		var req Request

		if err := c.ShouldBindJSON(&req); err != nil {
			errors.ValidationError(c, err)
			return
		}

		name := req.Name
		if name == "" {
			name = principal.Name
		}

		profile := usage.Profile{
			UserID: principal.UserID,
			Email:  principal.Email,
			Name:   name,
		}

		var (
			record *usage.Record
			err    error
		)

		switch req.Action {
		case ActionBootstrap:
			record, err = accounts.Bootstrap(c.Request.Context(), profile)
		case ActionActivatePremium:
			record, err = accounts.ActivatePremium(c.Request.Context(), profile)
		default:
			errors.Respond(c, errors.KindUnknownAction, "", nil)
			return
		}

		if err != nil {
			errors.Respond(c, relay.KindOf(err), "", err)
			return
		}

		logger.FromContext(c.Request.Context()).Info("account updated",
			"action", req.Action,
			"user_id", record.UserID,
			"role", record.Role,
		)

		c.JSON(http.StatusOK, Response{
			OK:         true,
			Action:     req.Action,
			UserID:     record.UserID,
			Role:       record.Role,
			UsageCount: record.UsageCount,
			MaxUsage:   record.MaxUsage,
		})
	}
}

// returns the caller's usage record
func UsageHandler(accounts Accounts) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := auth.GetUserID(c)
		if !ok {
			errors.Unauthorized(c, "")
			return
		}

		record, err := accounts.Usage(c.Request.Context(), userID)
		if err != nil {
			errors.Respond(c, relay.KindOf(err), "", err)
			return
		}

		c.JSON(http.StatusOK, UsageResponse{
			UserID:     record.UserID,
			Role:       record.Role,
			UsageCount: record.UsageCount,
			MaxUsage:   record.MaxUsage,
			Remaining:  record.Remaining(),
		})
	}
}
