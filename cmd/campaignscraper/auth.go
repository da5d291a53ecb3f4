package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"campaignscraper/pkg/auth"
)

// authCmd represents the auth command
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the ingestion API token",
	Long: `Manage the stored ingestion API bearer token.

The token is resolved in priority order:
  - CAMPAIGNSCRAPER_API_TOKEN environment variable (or .env file)
  - System keychain (when available)

Never commit the token to configuration files.`,
}

// tokenSetCmd represents the auth set command
var tokenSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Store the API token in the system keychain",
	Long: `Store the ingestion API bearer token in the system keychain.

The token is read from stdin without echoing. On headless systems
without a keychain, set CAMPAIGNSCRAPER_API_TOKEN instead.`,
	Example: `  campaignscraper auth set`,
	Run:     runTokenSet,
}

// tokenDeleteCmd represents the auth delete command
var tokenDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Remove the API token from the system keychain",
	Run:   runTokenDelete,
}

// tokenStatusCmd represents the auth status command
var tokenStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether an API token is resolvable",
	Run:   runTokenStatus,
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(tokenSetCmd)
	authCmd.AddCommand(tokenDeleteCmd)
	authCmd.AddCommand(tokenStatusCmd)
}

func runTokenSet(cmd *cobra.Command, args []string) {
	store, err := auth.NewKeyringStore()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: system keychain unavailable: %v\n", err)
		fmt.Fprintln(os.Stderr, "set CAMPAIGNSCRAPER_API_TOKEN in the environment instead")
		os.Exit(1)
	}

	fmt.Print("API token: ")
	raw, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to read token: %v\n", err)
		os.Exit(1)
	}

	token := strings.TrimSpace(string(raw))
	if token == "" {
		fmt.Fprintln(os.Stderr, "error: empty token")
		os.Exit(1)
	}

	if err := store.Store(token); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Token stored in system keychain")
}

func runTokenDelete(cmd *cobra.Command, args []string) {
	store, err := auth.NewKeyringStore()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: system keychain unavailable: %v\n", err)
		os.Exit(1)
	}

	if err := store.Delete(); err != nil {
		if errors.Is(err, auth.ErrTokenNotFound) {
			fmt.Println("No token stored")
			return
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Token removed from system keychain")
}

func runTokenStatus(cmd *cobra.Command, args []string) {
	if _, err := auth.NewEnvironmentStore().Retrieve(); err == nil {
		fmt.Println("Token source: environment (CAMPAIGNSCRAPER_API_TOKEN)")
		return
	}

	if store, err := auth.NewKeyringStore(); err == nil {
		if _, err := store.Retrieve(); err == nil {
			fmt.Println("Token source: system keychain")
			return
		}
	}

	fmt.Println("No API token found")
	fmt.Println("Run 'campaignscraper auth set' or export CAMPAIGNSCRAPER_API_TOKEN")
	os.Exit(1)
}
