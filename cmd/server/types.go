package main

import (
	"io"

	"codeberg.org/echowrite/server/internal/auth"
	"codeberg.org/echowrite/server/internal/config"
	"codeberg.org/echowrite/server/internal/llm"
	"codeberg.org/echowrite/server/internal/relay"
	"codeberg.org/echowrite/server/internal/usage"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// holds all dependencies and state for the API server
type Server struct {
	db       *pgxpool.Pool // nil unless the postgres ledger is selected
	config   *config.Config
	ledger   usage.Ledger
	services *Services
	router   *gin.Engine
	closers  []io.Closer
}

// holds the gate chain components (auth, usage, AI gateway, relay)
type Services struct {
	Resolver auth.Resolver
	Gate     *usage.Gate
	Gateway  llm.Gateway
	Relay    *relay.Service
}
