package main

import (
	"os"
	"os/signal"

	"github.com/sandevgo/gomibot/internal/transport/mcp"
	"github.com/sandevgo/gomibot/pkg/log"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve schedules to MCP clients over stdio",
	Long:  `Runs a Model Context Protocol server on stdin/stdout exposing list_users, list_schedule, get_day and update_schedule. Logs go to stderr.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		// stdout carries the protocol
		ctx, flushLog := log.NewContextWithWriter(ctx, os.Stderr, debug)
		defer flushLog()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.db.Close()

		h := mcp.NewHandler(a.users, a.schedules, a.loc, a.limits)
		return mcp.Serve(ctx, mcp.NewServer(h), os.Stdin, os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
