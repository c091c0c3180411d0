package main

import (
	"fmt"
	"os"

	"codeberg.org/echowrite/server/internal/auth"
	"codeberg.org/echowrite/server/internal/config"
	"codeberg.org/echowrite/server/internal/logger"
)

// mints a signed development token for the local JWT resolver
func main() {
	flags, err := config.ParseTokenFlags(os.Args[1:], os.Stderr)
	if err != nil {
		logger.FatalErr(err, "invalid arguments")
	}

	token, err := auth.GenerateJWT(flags.Secret, flags.UserID, flags.Email, flags.Name, flags.TTL)
	if err != nil {
		logger.FatalErr(err, "failed to generate token")
	}

	logger.Debug("token generated", "user_id", flags.UserID, "ttl", flags.TTL.String())

	fmt.Println(token)
}
