package cmd

import (
	"fmt"
	"time"

	"github.com/mj1618/desktop-throw/internal/platform"
	"github.com/mj1618/desktop-throw/internal/server"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start an MCP server exposing the throw simulator",
	Long: `Start a Model Context Protocol (MCP) server that exposes the simulator as
tools: simulate, render, replay, windows, reset and config. Replay steps act on
a simulated desktop that persists between calls.

Supported transports:
  stdio             Standard I/O (default, for MCP clients)
  streamable-http   Streamable HTTP transport (for remote agents)

Examples:
  desktop-throw serve
  desktop-throw serve --transport streamable-http --port 8080
  desktop-throw serve --cache-ttl 0`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("transport", "stdio", "Transport: stdio, streamable-http")
	serveCmd.Flags().Int("port", 8080, "HTTP port for streamable-http transport")
	serveCmd.Flags().Int("cache-ttl", 60000, "Simulate result cache TTL in milliseconds (0 to disable)")
	serveCmd.Flags().String("screen", "0,0,1920,1080", "Simulated screen bounds as x,y,w,h")
}

func runServe(cmd *cobra.Command, args []string) error {
	transport, _ := cmd.Flags().GetString("transport")
	port, _ := cmd.Flags().GetInt("port")
	cacheTTLMs, _ := cmd.Flags().GetInt("cache-ttl")
	screenStr, _ := cmd.Flags().GetString("screen")

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	screen, err := platform.ParseBounds(screenStr)
	if err != nil {
		return fmt.Errorf("--screen: %w", err)
	}

	opts := server.Options{
		Transport: transport,
		Port:      port,
		CacheTTL:  time.Duration(cacheTTLMs) * time.Millisecond,
		Screen:    screen,
		Logger:    newLogger(cmd),
	}
	return server.New(cfg, opts).Serve(opts)
}
