package account

import (
	"codeberg.org/echowrite/server/internal/auth"
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(rg *gin.RouterGroup, resolver auth.Resolver, accounts Accounts) {
	group := rg.Group("/account")
	group.Use(auth.Middleware(resolver)) // all account routes require authentication

	group.POST("", Handler(accounts))
	group.GET("/usage", UsageHandler(accounts))
}
