package main

import (
	"io"

	"codeberg.org/echowrite/server/internal/client"
	"github.com/spf13/viper"
)

// config keys, bound to flags, ECHOWRITE_* env vars and config.yaml
const (
	keyServer  = "server"
	keyToken   = "token"
	keyDataDir = "data-dir"
	keyJSON    = "json"
)

// shared state of one CLI invocation
type app struct {
	v      *viper.Viper
	stdin  io.Reader
	stdout io.Writer

	store  *client.LocalStore
	client *client.Client
}
