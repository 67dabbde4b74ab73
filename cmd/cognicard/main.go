// Package main implements the cognicard CLI: the dashboard tree and study tools
// on the command line, backed by the library service.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"cognicard/internal/client"
	"cognicard/internal/config"
	"cognicard/internal/workspace"
)

var (
	// apiURL and token override COGNICARD_API_URL and COGNICARD_TOKEN
	apiURL  string
	token   string
	verbose bool
	version = "dev"

	// Set up in PersistentPreRunE
	clientCfg *config.ClientConfig
	api       *client.Client
	logger    *slog.Logger
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		// Workspace failures were already shown by the notifier
		var shown *reportedError
		if !errors.As(err, &shown) {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		if client.IsRetryable(err) {
			fmt.Fprintln(os.Stderr, "the library service is busy or unavailable; try again shortly")
		}
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "cognicard",
	Short: "Organize and study CogniCard flashcards from the terminal",
	Long: `cognicard talks to a CogniCard library service.

Folders and decks are addressed by name path, e.g. "Biology/Genetics/Mendel".
Names match case-insensitively.

Configuration:
  COGNICARD_API_URL           library service URL (default http://localhost:8080)
  COGNICARD_TOKEN             bearer token
  COGNICARD_WORKSPACE_CONFIG  optional YAML overriding tree tuning`,
	Version:       version,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		_ = godotenv.Load()

		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

		var err error
		clientCfg, err = config.LoadClient()
		if err != nil {
			return err
		}
		if apiURL != "" {
			clientCfg.APIURL = apiURL
		}
		if token != "" {
			clientCfg.Token = token
		}

		api = client.New(clientCfg.APIURL, clientCfg.Token, clientCfg.Workspace.Remote.RequestTimeout, logger)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", "", "library service URL")
	rootCmd.PersistentFlags().StringVar(&token, "token", "", "bearer token")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log API calls")
}

// reportedError marks an error the workspace notifier already printed
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

func reported(err error) error {
	if err == nil {
		return nil
	}
	return &reportedError{err: err}
}

// loadWorkspace fetches the library into a fresh workspace
func loadWorkspace(ctx context.Context) (*workspace.Workspace, error) {
	// Successes are printed by each command; the notifier only reports failures
	notifyLogger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey && len(groups) == 0 {
				return slog.Attr{}
			}
			return a
		},
	}))
	ws := workspace.New(api, workspace.NewLogNotifier(notifyLogger), logger)
	if err := ws.Refresh(ctx); err != nil {
		return nil, reported(err)
	}
	return ws, nil
}
