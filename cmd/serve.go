package cmd

import (
	"os"

	"conveyormcp/internal/config"
	"conveyormcp/internal/conveyor"
	"conveyormcp/internal/server"
	"conveyormcp/internal/tools"
	"conveyormcp/pkg/logging"

	"github.com/spf13/cobra"
)

var (
	serveEndpoint   string
	serveCredential string
	serveOrgID      string
	serveAuthMode   string
	serveLogLevel   string
	serveSSE        bool
	serveHost       string
	servePort       int
)

// serveCmd starts the MCP server. This is the main command of
// conveyor-mcp: agent hosts spawn it with stdio transport, or connect
// to the SSE endpoint when --sse is given.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the Conveyor MCP server",
	Long: `Starts the MCP server and registers the Conveyor tool catalog.

By default the server speaks MCP over stdio, which is how agent hosts
like Claude Desktop or Cursor launch it. With --sse it serves HTTP
instead, exposing /sse and /message endpoints.

Required configuration (flag or environment variable):
  --endpoint    CONVEYOR_ENDPOINT     Conveyor GraphQL API URL
  --credential  CONVEYOR_CREDENTIAL   session cookie bundle or user access key
  --org-id      CONVEYOR_ORG_ID       default organization id

The credential kind is detected from its content; pass --auth-mode
cookie or --auth-mode accesskey to force it.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(config.Overrides{
		Endpoint:   serveEndpoint,
		Credential: serveCredential,
		OrgID:      serveOrgID,
		AuthMode:   serveAuthMode,
		LogLevel:   serveLogLevel,
	})
	if err != nil {
		return err
	}

	// stdout carries the MCP protocol in stdio mode, so logs go to
	// stderr unconditionally.
	logging.Init(logging.ParseLevel(cfg.LogLevel), os.Stderr)

	var clientOpts []conveyor.ClientOption
	switch cfg.AuthMode {
	case config.AuthModeCookie:
		clientOpts = append(clientOpts, conveyor.WithAuthMode(conveyor.AuthSessionCookie))
	case config.AuthModeAccessKey:
		clientOpts = append(clientOpts, conveyor.WithAuthMode(conveyor.AuthAccessKey))
	}
	client := conveyor.NewClient(cfg.Endpoint, cfg.Credential, rootCmd.Version, clientOpts...)
	logging.Info("Serve", "Authenticating with %s credentials", client.AuthMode())

	catalog := tools.NewCatalog(client, cfg.OrgID)

	return server.Run(cmd.Context(), server.Options{
		Name:    "conveyor-mcp",
		Version: rootCmd.Version,
		SSE:     serveSSE,
		Host:    serveHost,
		Port:    servePort,
	}, catalog.ServerTools())
}

// init registers the serve command and its flags with the root command.
func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveEndpoint, "endpoint", "", "Conveyor GraphQL API endpoint URL")
	serveCmd.Flags().StringVar(&serveCredential, "credential", "", "Conveyor credential (session cookie bundle or user access key)")
	serveCmd.Flags().StringVar(&serveOrgID, "org-id", "", "Default organization id for tool calls")
	serveCmd.Flags().StringVar(&serveAuthMode, "auth-mode", "", "Force credential kind: cookie or accesskey (default: infer from content)")
	serveCmd.Flags().StringVar(&serveLogLevel, "log-level", "", "Log level: debug, info, warn, error")
	serveCmd.Flags().BoolVar(&serveSSE, "sse", false, "Serve MCP over SSE/HTTP instead of stdio")
	serveCmd.Flags().StringVar(&serveHost, "host", "localhost", "Host to bind in SSE mode")
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to bind in SSE mode")
}
