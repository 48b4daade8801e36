package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "conveyor-mcp",
	Short: "Expose the Conveyor delivery platform to AI agents over MCP",
	Long: `conveyor-mcp is an MCP (Model Context Protocol) server that exposes
the Conveyor software delivery platform's GraphQL API as a catalog of
tools an AI agent can call: releases, pipelines, workflows, issues,
metrics, teams, applications, integrations, and stage gates.

Configuration is read from command-line flags, CONVEYOR_* environment
variables, or a .env file in the working directory, in that order of
precedence.`,
	// SilenceUsage is set to true to prevent printing usage message on
	// errors handled by us (e.g. missing configuration)
	SilenceUsage: true,
}

// SetVersion sets the version for the root command
func SetVersion(v string) {
	rootCmd.Version = v
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "conveyor-mcp version %s\n" .Version}}`)

	err := rootCmd.Execute()
	if err != nil {
		// Cobra prints the error, we just exit non-zero
		os.Exit(1)
	}
}
