package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"codeberg.org/echowrite/server/internal/client"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New(), stdin: os.Stdin, stdout: os.Stdout}

	var configFile string

	root := &cobra.Command{
		Use:           "echowrite",
		Short:         "Rewrite, translate and visualize text with EchoWrite",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			a.stdin = cmd.InOrStdin()
			a.stdout = cmd.OutOrStdout()

			return a.loadConfig(configFile)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "config file (default ~/.echowrite/config.yaml)")
	flags.String(keyServer, client.DefaultBaseURL, "EchoWrite server URL")
	flags.String(keyToken, "", "access token (default: the token saved by login)")
	flags.String(keyDataDir, "", "directory for history and session (default ~/.echowrite)")
	flags.Bool(keyJSON, false, "print raw JSON instead of formatted output")

	for _, key := range []string{keyServer, keyToken, keyDataDir, keyJSON} {
		_ = a.v.BindPFlag(key, flags.Lookup(key)) //nolint:errcheck // flags are defined above
	}

	root.AddCommand(
		a.loginCmd(),
		a.logoutCmd(),
		a.bootstrapCmd(),
		a.upgradeCmd(),
		a.usageCmd(),
		a.historyCmd(),
		a.variationsCmd(),
		a.translateCmd(),
		a.rephraseCmd(),
		a.lengthsCmd(),
		a.visualCmd(),
		a.allCmd(),
		a.tuiCmd(),
	)

	return root
}

// layers flags over ECHOWRITE_* env vars over the config file
func (a *app) loadConfig(configFile string) error {
	a.v.SetEnvPrefix("ECHOWRITE")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	if configFile != "" {
		a.v.SetConfigFile(configFile)
	} else {
		dir, err := client.DefaultDir()
		if err == nil {
			a.v.AddConfigPath(dir)
		}

		a.v.SetConfigName("config")
		a.v.SetConfigType("yaml")
	}

	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	dataDir := a.v.GetString(keyDataDir)
	if dataDir == "" {
		dir, err := client.DefaultDir()
		if err != nil {
			return err
		}

		dataDir = dir
	}

	store, err := client.NewLocalStore(filepath.Clean(dataDir))
	if err != nil {
		return err
	}

	a.store = store

	return nil
}

// builds the REST client once; the token falls back to the saved session
func (a *app) api() (*client.Client, error) {
	if a.client != nil {
		return a.client, nil
	}

	token := a.v.GetString(keyToken)
	if token == "" {
		saved, err := a.store.Token()
		if err != nil {
			return nil, err
		}

		token = saved
	}

	if token == "" {
		return nil, fmt.Errorf("not signed in, run `echowrite login --token <token>` first")
	}

	a.client = client.New(a.v.GetString(keyServer), client.WithToken(token))

	return a.client, nil
}
