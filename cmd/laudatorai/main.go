// Package main provides the entry point for the LaudatorAI job
// application pipeline.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "laudatorai",
	Short: "Automated job application pipeline",
	Long:  "LaudatorAI scrapes job postings, tailors uploaded resumes against them, drafts cover letters and renders application-ready DOCX and PDF documents via a REST API backed by an async task pipeline.",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a JSON config file (environment variables win)")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
