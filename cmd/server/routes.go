package main

import (
	"codeberg.org/echowrite/server/api/rest/account"
	"codeberg.org/echowrite/server/api/rest/generate"
	"codeberg.org/echowrite/server/api/rest/health"
	"github.com/gin-gonic/gin"
)

// sets up all API routes
func RegisterRoutes(router *gin.Engine, server *Server) {
	router.GET("/health", health.Handler(map[string]health.Pinger{
		"ledger": server.services.Gate,
	}))

	v1 := router.Group("/api/v1")

	{
		v1.GET("/ping", health.PingHandler)

		generate.RegisterRoutes(v1, server.services.Resolver, server.services.Relay)
		account.RegisterRoutes(v1, server.services.Resolver, server.services.Gate)
	}
}
