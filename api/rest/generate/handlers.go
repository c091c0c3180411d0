package generate

import (
	"net/http"
	"strconv"

	"codeberg.org/echowrite/server/echowrite/generation"
	"codeberg.org/echowrite/server/internal/auth"
	"codeberg.org/echowrite/server/internal/errors"
	"codeberg.org/echowrite/server/internal/logger"
	"codeberg.org/echowrite/server/internal/relay"
	"github.com/gin-gonic/gin"
)

// Handler godoc
// @Summary Generate text variations, translations, rephrasings or diagrams
// @Description Checks the caller's quota, relays the prompt to the AI provider and returns the action-specific result
// @Tags generate
// @Accept json
// @Produce json
// @Param request body generation.Request true "Generation request"
// @Success 200 {object} generation.VariationsResult
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 402 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 429 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /api/v1/generate [post]
// @Security BearerAuth
func Handler(generator Generator) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := auth.GetPrincipal(c)
		if !ok {
			errors.Unauthorized(c, "")
			return
		}

		var req generation.Request

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxBodyBytes)

		if err := c.ShouldBindJSON(&req); err != nil {
			errors.ValidationError(c, err)
			return
		}

		outcome, err := generator.Generate(c.Request.Context(), relay.Call{
			Principal: *principal,
			Request:   req,
		})

		if err != nil {
			kind := relay.KindOf(err)

			// server-side failures are logged by errors.Respond
			if kind.Status() < http.StatusInternalServerError {
				logger.FromContext(c.Request.Context()).Info("generation rejected",
					"action", req.Action,
					"kind", kind,
				)
			}

			errors.Respond(c, kind, "", err)
			return
		}

		if outcome.Result.IsDegraded() {
			logger.FromContext(c.Request.Context()).Warn("provider output could not be parsed, returning fallback",
				"action", req.Action,
				"model", outcome.Model,
			)
		}

		if outcome.Usage != nil {
			c.Header(HeaderUsageCount, strconv.Itoa(outcome.Usage.UsageCount))
			c.Header(HeaderUsageRemaining, strconv.Itoa(outcome.Usage.Remaining()))
		}

		c.JSON(http.StatusOK, outcome.Result)
	}
}
