package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tsrecall/tsrecall/internal/logging"
	"github.com/tsrecall/tsrecall/internal/mcp"
)

func newMCPServerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp-server",
		Short: "Run tsrecall as an MCP (Model Context Protocol) server",
		Long: `Start an MCP server that exposes the similarity search engine over stdio.

AI tools (Claude Desktop, Continue.dev, Cursor, Cline) can invoke the
tools directly:

  • series_add      - Store a time series with optional metadata
  • series_search   - Find stored series with a similar shape
  • series_get      - Fetch a stored series by document ID
  • series_analyze  - Report anomalies, seasonality, and patterns

The server communicates via JSON-RPC 2.0 over stdin/stdout, following
the Model Context Protocol specification. Documents live in memory for
the lifetime of the process.

Example client configuration:

  {
    "mcpServers": {
      "tsrecall": {
        "command": "tsrecall",
        "args": ["mcp-server"]
      }
    }
  }
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			// Logs go to stderr so they cannot corrupt the stdio transport.
			logger, err := logging.New(cfg.Logging)
			if err != nil {
				return fmt.Errorf("creating logger: %w", err)
			}
			defer logging.Sync(logger)

			svc, err := buildService(cfg, logger)
			if err != nil {
				return err
			}

			server, err := mcp.NewServer(&mcp.Config{
				Name:    "tsrecall",
				Version: version,
				Logger:  logger,
			}, svc)
			if err != nil {
				return fmt.Errorf("failed to create MCP server: %w", err)
			}

			if err := server.Run(cmd.Context()); err != nil {
				return fmt.Errorf("MCP server error: %w", err)
			}

			return nil
		},
	}

	return cmd
}
