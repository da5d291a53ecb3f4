package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
)

var (
	// Version information
	version   = "1.0.0"
	gitCommit = "unknown"
	buildDate = "unknown"

	// Global flags
	settingsFile string
	logLevel     string
	apiURL       string
	quiet        bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "campaignscraper",
	Short: "Scrape campaign social media posts and ship them to the ingestion API",
	Long: `campaignscraper collects posts from political campaign accounts on
Twitter/X using a headless browser, deduplicates and filters them, and
submits them to the campaign data API in rate-limited batches.

Run modes:
  - Single account:  campaignscraper run --username U --organization O
  - Multi account:   campaignscraper run --config accounts.json
  - Sample configs:  campaignscraper run --create-sample-configs

Exit codes: 0 success or clean no-op, 1 fatal error, 2 partial submission,
130 interrupted.`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildDate),
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&settingsFile, "settings", "s", "", "settings file (default is $HOME/.campaignscraper.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "ingestion API base URL")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress all output except errors")

	rootCmd.SetVersionTemplate(`campaignscraper {{.Version}}
Go Version: ` + runtime.Version() + `
OS/Arch: ` + runtime.GOOS + `/` + runtime.GOARCH + `
`)

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}
