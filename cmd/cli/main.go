package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/ivlev/dealbook/internal/infrastructure/config"
	"github.com/ivlev/dealbook/internal/infrastructure/logger"
	"github.com/ivlev/dealbook/internal/infrastructure/postgres"
)

var (
	baseURL string
	timeout time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "dealbook-cli",
		Short: "Dealbook CLI tool",
		Long:  `A command line interface for operating the Dealbook API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the Dealbook API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	ledgerCmd := &cobra.Command{
		Use:   "ledger",
		Short: "Ledger operations",
	}

	consistencyCmd := &cobra.Command{
		Use:   "consistency",
		Short: "Check that balances match the posting log",
		Run: func(cmd *cobra.Command, args []string) {
			checkConsistency()
		},
	}

	balanceSheetCmd := &cobra.Command{
		Use:   "balance-sheet",
		Short: "Print the current balance sheet",
		Run: func(cmd *cobra.Command, args []string) {
			printBalanceSheet()
		},
	}

	ledgerCmd.AddCommand(consistencyCmd, balanceSheetCmd)
	rootCmd.AddCommand(ledgerCmd)

	snapshotCmd := &cobra.Command{
		Use:   "snapshot <year> <month>",
		Short: "Take the monthly capital snapshot",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			takeSnapshot(args[0], args[1])
		},
	}
	rootCmd.AddCommand(snapshotCmd)

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migrations",
	}

	migrateUpCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		Run: func(cmd *cobra.Command, args []string) {
			runMigrations(false)
		},
	}

	migrateDownCmd := &cobra.Command{
		Use:   "down",
		Short: "Roll back all migrations",
		Run: func(cmd *cobra.Command, args []string) {
			runMigrations(true)
		},
	}

	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd)
	rootCmd.AddCommand(migrateCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func checkConsistency() {
	body, status := get("/api/v1/consistency")
	if status != http.StatusOK {
		fmt.Printf("Consistency check FAILED (Status: %d)\nResponse: %s\n", status, string(body))
		os.Exit(1)
	}

	var result map[string]any
	if err := json.Unmarshal(body, &result); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	if consistent, ok := result["consistent"].(bool); ok && !consistent {
		fmt.Printf("Ledger INCONSISTENT\nResponse: %s\n", string(body))
		os.Exit(1)
	}

	fmt.Printf("Consistency check PASSED\n")
	fmt.Printf("Accounts checked: %v, pairs checked: %v\n", result["accounts_checked"], result["pairs_checked"])
}

func printBalanceSheet() {
	body, status := get("/api/v1/capital/balance-sheet")
	if status != http.StatusOK {
		fmt.Printf("Request failed (Status: %d)\nResponse: %s\n", status, string(body))
		os.Exit(1)
	}

	fmt.Println(string(body))
}

func takeSnapshot(yearArg, monthArg string) {
	year, err := strconv.Atoi(yearArg)
	if err != nil {
		fmt.Printf("Invalid year: %s\n", yearArg)
		os.Exit(1)
	}

	month, err := strconv.Atoi(monthArg)
	if err != nil || month < 1 || month > 12 {
		fmt.Printf("Invalid month: %s\n", monthArg)
		os.Exit(1)
	}

	client := &http.Client{Timeout: timeout}
	url := fmt.Sprintf("%s/api/v1/capital/snapshot?year=%d&month=%d", baseURL, year, month)

	resp, err := client.Post(url, "application/json", nil)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusCreated {
		fmt.Printf("Snapshot FAILED (Status: %d)\nResponse: %s\n", resp.StatusCode, string(body))
		os.Exit(1)
	}

	fmt.Printf("Snapshot taken for %d-%02d\n%s\n", year, month, string(body))
}

func runMigrations(down bool) {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: "console", Service: "dealbook-cli"})

	if down {
		err = postgres.RunMigrationsDown(log, cfg.DatabaseURL, cfg.MigrationsPath)
	} else {
		err = postgres.RunMigrations(log, cfg.DatabaseURL, cfg.MigrationsPath)
	}
	if err != nil {
		fmt.Printf("Migration failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Migrations applied")
}

func get(path string) ([]byte, int) {
	client := &http.Client{Timeout: timeout}

	resp, err := client.Get(baseURL + path)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	return body, resp.StatusCode
}
