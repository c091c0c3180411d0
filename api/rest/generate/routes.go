package generate

import (
	"codeberg.org/echowrite/server/internal/auth"
	"github.com/gin-gonic/gin"
)

// registers generation routes
func RegisterRoutes(router *gin.RouterGroup, resolver auth.Resolver, generator Generator) {
	router.POST("/generate", auth.Middleware(resolver), Handler(generator))
}
