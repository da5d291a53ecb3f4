package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"campaignscraper/pkg/api"
	"campaignscraper/pkg/auth"
	"campaignscraper/pkg/browser"
	"campaignscraper/pkg/config"
	"campaignscraper/pkg/export"
	"campaignscraper/pkg/logger"
	"campaignscraper/pkg/models"
	"campaignscraper/pkg/pipeline"
)

const (
	exitInterrupted = 130

	// durations in summaries round to this
	timeRound = 10 * time.Millisecond
)

var (
	// Run command flags
	runUsername     string
	runOrganization string
	runPartyID      int
	runMaxTweets    int
	runDryRun       bool
	runExportDir    string
	runAccountsFile string
	runSamples      bool
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the scraping pipeline",
	Long: `Run the scraping pipeline for one account or a whole organization.

A single-account run scrapes one profile and, when --party-id is set,
submits the posts to the ingestion API. A multi-account run reads an
accounts file and processes each account in turn with a cool-down
between them. All runs write export artifacts unless the export
directory is disabled in settings.`,
	Example: `  # Scrape one account and submit for party 3
  campaignscraper run --username UKLabour --organization "Labour Party" --party-id 3

  # Scrape without submitting, capped at 50 posts
  campaignscraper run --username UKLabour --organization "Labour Party" --max-tweets 50 --dry-run

  # Process every account in an organization file
  campaignscraper run --config config/labour_config.json

  # Write sample accounts files to get started
  campaignscraper run --create-sample-configs`,
	RunE: func(cmd *cobra.Command, args []string) error {
		os.Exit(runPipeline())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runUsername, "username", "u", "", "account username to scrape")
	runCmd.Flags().StringVarP(&runOrganization, "organization", "o", "", "organization the account belongs to")
	runCmd.Flags().IntVar(&runPartyID, "party-id", 0, "party ID to submit messages for (0 skips submission)")
	runCmd.Flags().IntVar(&runMaxTweets, "max-tweets", 0, "maximum posts to collect per account")
	runCmd.Flags().BoolVar(&runDryRun, "dry-run", false, "scrape and export without submitting")
	runCmd.Flags().StringVar(&runExportDir, "export-dir", "", "directory for export artifacts")
	runCmd.Flags().StringVarP(&runAccountsFile, "config", "c", "", "JSON accounts file for a multi-account run")
	runCmd.Flags().BoolVar(&runSamples, "create-sample-configs", false, "write sample accounts files and exit")
}

// runPipeline executes the selected run mode and returns the process exit code.
func runPipeline() int {
	if runSamples {
		return createSampleConfigs()
	}

	if runAccountsFile == "" && runUsername == "" {
		fmt.Fprintln(os.Stderr, "error: either --username or --config is required (or --create-sample-configs)")
		return 1
	}

	flags := map[string]interface{}{}
	if apiURL != "" {
		flags["api-url"] = apiURL
	}
	if runPartyID > 0 {
		flags["party-id"] = runPartyID
	}
	if runMaxTweets > 0 {
		flags["max-tweets"] = runMaxTweets
	}
	if runExportDir != "" {
		flags["export-dir"] = runExportDir
	}
	if quiet {
		flags["log-level"] = "error"
	} else if logLevel != "" {
		flags["log-level"] = logLevel
	}

	cfg, err := config.Load(settingsFile, flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	if err := logger.Initialize(&logger.Config{
		Level: cfg.Logging.Level,
		File:  cfg.Logging.File,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to initialize logger: %v\n", err)
		return 1
	}
	log := logger.GetLogger()

	// Resolve the API token from the keychain when the environment has none.
	if cfg.API.Token == "" {
		if token, err := auth.NewResolver().Resolve(); err == nil {
			cfg.API.Token = token
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	exporter, err := export.NewManager(cfg.Export.Directory, log)
	if err != nil {
		log.WithError(err).Error("failed to prepare export directory")
		return 1
	}

	client := api.NewClient(cfg.API.BaseURL, cfg.API.Token, cfg.API.Timeout, log)
	newDriver := func(bcfg config.BrowserConfig, l logger.Logger) (browser.Driver, error) {
		return browser.NewSession(bcfg, l)
	}

	runner := pipeline.NewRunner(cfg, client, newDriver, exporter, log)
	runner.DryRun = runDryRun

	var code int
	if runAccountsFile != "" {
		code = runMultiAccount(ctx, cfg, runner, exporter, log)
	} else {
		code = runSingleAccount(ctx, runner)
	}

	if ctx.Err() != nil {
		log.Warn("run interrupted")
		return exitInterrupted
	}
	return code
}

// runSingleAccount runs the pipeline for one --username.
func runSingleAccount(ctx context.Context, runner *pipeline.Runner) int {
	account := models.AccountSpec{
		Username:     strings.TrimPrefix(runUsername, "@"),
		Organization: runOrganization,
	}

	result, _ := runner.Run(ctx, account)
	printResult(result)
	return result.Status.ExitCode()
}

// runMultiAccount runs the pipeline for every account in the accounts file.
func runMultiAccount(ctx context.Context, cfg *config.Config, runner *pipeline.Runner, exporter *export.Manager, log logger.Logger) int {
	accountsFile, err := config.LoadAccountsFile(runAccountsFile)
	if err != nil {
		log.WithError(err).Error("failed to load accounts file")
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	orchestrator := pipeline.NewOrchestrator(cfg, runner, exporter, log)
	report := orchestrator.Run(ctx, accountsFile.Organization, accountsFile.AccountSpecs())
	printReport(report)
	return report.Status().ExitCode()
}

// createSampleConfigs writes the sample accounts files.
func createSampleConfigs() int {
	written, err := config.WriteSampleConfigs("config/twitter_accounts")
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	for _, path := range written {
		fmt.Printf("Created sample config: %s\n", path)
	}
	return 0
}

// printResult prints the human-readable summary for one account run.
func printResult(result *models.PipelineResult) {
	fmt.Println()
	fmt.Println("=== Pipeline Summary ===")
	fmt.Printf("Account:    @%s\n", result.Username)
	if result.PartyID > 0 {
		fmt.Printf("Party ID:   %d\n", result.PartyID)
	}
	fmt.Printf("Status:     %s\n", result.Status)
	fmt.Printf("Scraped:    %d\n", result.Scraped)
	fmt.Printf("Submitted:  %d\n", result.Submitted)
	fmt.Printf("Skipped:    %d\n", result.Skipped)
	fmt.Printf("Duration:   %s\n", result.ExecutionTime.Round(timeRound))
	for _, e := range result.Errors {
		if e.Batch > 0 {
			fmt.Printf("Error [%s, batch %d]: %s\n", e.Stage, e.Batch, e.Message)
		} else {
			fmt.Printf("Error [%s]: %s\n", e.Stage, e.Message)
		}
	}
}

// printReport prints the aggregate summary for a multi-account run.
func printReport(report *pipeline.RunReport) {
	fmt.Println()
	fmt.Printf("=== %s ===\n", report.Organization)
	for _, result := range report.Results {
		fmt.Printf("  @%-20s %-8s scraped=%d submitted=%d errors=%d\n",
			result.Username, result.Status, result.Scraped, result.Submitted, len(result.Errors))
	}
	fmt.Printf("Total posts: %d across %d accounts\n", report.TotalScraped, len(report.Results))
	if report.CombinedPath != "" {
		fmt.Printf("Combined export: %s\n", report.CombinedPath)
	}
	fmt.Printf("Overall status: %s\n", report.Status())
}
