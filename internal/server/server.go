// Package server wires the tool catalog into an MCP server and runs it
// over stdio or SSE.
package server

import (
	"context"
	"fmt"
	"net/http"

	"conveyormcp/pkg/logging"

	"github.com/mark3labs/mcp-go/server"
)

// Options controls how the MCP server is exposed.
type Options struct {
	Name    string
	Version string

	// SSE serves over HTTP instead of stdio when true.
	SSE  bool
	Host string
	Port int
}

// Run builds the MCP server, registers the given tools, and serves
// until the transport closes or the context is cancelled.
func Run(ctx context.Context, opts Options, tools []server.ServerTool) error {
	s := server.NewMCPServer(
		opts.Name,
		opts.Version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)
	s.AddTools(tools...)

	if opts.SSE {
		addr := fmt.Sprintf("%s:%d", opts.Host, opts.Port)
		sse := server.NewSSEServer(
			s,
			server.WithBaseURL(fmt.Sprintf("http://%s", addr)),
			server.WithSSEEndpoint("/sse"),
			server.WithMessageEndpoint("/message"),
		)

		errCh := make(chan error, 1)
		go func() {
			logging.Info("Server", "Serving MCP over SSE on %s", addr)
			if err := sse.Start(addr); err != nil && err != http.ErrServerClosed {
				errCh <- err
			}
		}()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
			return sse.Shutdown(context.Background())
		}
	}

	logging.Info("Server", "Serving MCP over stdio with %d tools", len(tools))
	return server.ServeStdio(s)
}
