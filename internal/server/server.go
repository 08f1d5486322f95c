// Package server exposes the throw simulator as MCP tools.
package server

import (
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/mj1618/desktop-throw/internal/config"
	"github.com/mj1618/desktop-throw/internal/platform"
	"github.com/mj1618/desktop-throw/internal/scenario"
	"github.com/mj1618/desktop-throw/internal/throw"
	"github.com/mj1618/desktop-throw/internal/version"
)

// DefaultScreen is the simulated screen used when none is given.
var DefaultScreen = platform.Bounds{Width: 1920, Height: 1080}

// Options holds MCP server configuration.
type Options struct {
	Transport string
	Port      int
	CacheTTL  time.Duration
	Screen    platform.Bounds
	Logger    *log.Logger
}

// Server holds a simulated desktop that replay steps act on, plus a cache
// of stateless simulate results.
type Server struct {
	mu      sync.Mutex
	cfg     config.Config
	screen  platform.Bounds
	session *scenario.Session
	cache   *TrajectoryCache
	logger  *log.Logger
	mcp     *mcpserver.MCPServer
}

// New creates and configures an MCP server with all throw tools.
func New(cfg config.Config, opts Options) *Server {
	s := &Server{
		cfg:    cfg,
		screen: opts.Screen,
		cache:  NewTrajectoryCache(opts.CacheTTL),
		logger: opts.Logger,
	}
	if s.screen.Width <= 0 || s.screen.Height <= 0 {
		s.screen = DefaultScreen
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard, "", 0)
	}
	s.session = s.newSession(s.screen)

	s.mcp = mcpserver.NewMCPServer("desktop-throw", version.Version)
	s.registerTools()
	return s
}

// MCP returns the underlying MCP server.
func (s *Server) MCP() *mcpserver.MCPServer { return s.mcp }

// Serve starts the MCP server with the configured transport.
func (s *Server) Serve(opts Options) error {
	switch opts.Transport {
	case "stdio":
		return mcpserver.ServeStdio(s.mcp)
	case "streamable-http":
		httpServer := mcpserver.NewStreamableHTTPServer(s.mcp)
		s.logger.Printf("listening on :%d", opts.Port)
		return httpServer.Start(fmt.Sprintf(":%d", opts.Port))
	default:
		return fmt.Errorf("unsupported transport: %s (use stdio or streamable-http)", opts.Transport)
	}
}

func (s *Server) newSession(screen platform.Bounds) *scenario.Session {
	return scenario.NewSession(s.cfg, screen, throw.WithLogger(s.logger))
}

func (s *Server) registerTools() {
	throwParams := []mcp.ToolOption{
		mcp.WithString("screen", mcp.Description("Screen bounds as x,y,w,h (default 0,0,1920,1080)")),
		mcp.WithString("window", mcp.Description("Window client bounds as x,y,w,h (default 100,100,400,300)")),
		mcp.WithNumber("border", mcp.Description("Window border width on every side")),
		mcp.WithNumber("vx", mcp.Description("Release velocity along x in px/ms")),
		mcp.WithNumber("vy", mcp.Description("Release velocity along y in px/ms")),
		mcp.WithArray("samples", mcp.Description("Drag samples [{dx, dy, dt}] used to estimate the release velocity when vx/vy are not given")),
		mcp.WithNumber("frame-ms", mcp.Description("Frame interval in ms (default from frame_rate)")),
		mcp.WithNumber("frames", mcp.Description("Maximum frames to simulate")),
	}

	// simulate
	s.mcp.AddTool(
		mcp.NewTool("simulate", append([]mcp.ToolOption{
			mcp.WithDescription("Throw a single window and return where it comes to rest. Uses the current physics config."),
			mcp.WithBoolean("points", mcp.Description("Include every frame of the trajectory")),
		}, throwParams...)...),
		s.handleSimulate,
	)

	// render
	s.mcp.AddTool(
		mcp.NewTool("render", append([]mcp.ToolOption{
			mcp.WithDescription("Throw a single window and return a PNG chart (position, velocity) or a trail of window outlines"),
			mcp.WithString("kind", mcp.Description("position, velocity or trail")),
			mcp.WithNumber("scale", mcp.Description("Trail image scale (default 0.5)")),
			mcp.WithNumber("every", mcp.Description("Trail: draw every Nth frame (default 10)")),
		}, throwParams...)...),
		s.handleRender,
	)

	// replay
	s.mcp.AddTool(
		mcp.NewTool("replay",
			mcp.WithDescription("Run window events against the simulated desktop. Steps: screen, window, destroy, grab, move, release, drag, throw, tick, settle. State persists between calls until reset."),
			mcp.WithArray("steps", mcp.Required(), mcp.Description(`Steps, e.g. [{"window": {"id": 1, "x": 100, "y": 100}}, {"drag": {"id": 1, "dx": 120, "ms": 80, "steps": 8}}, {"settle": {}}]`)),
			mcp.WithBoolean("stop-on-error", mcp.Description("Stop on the first failing step (default true)")),
		),
		s.handleReplay,
	)

	// windows
	s.mcp.AddTool(
		mcp.NewTool("windows",
			mcp.WithDescription("List the windows of the simulated desktop with their phase, bounds and velocity"),
		),
		s.handleWindows,
	)

	// reset
	s.mcp.AddTool(
		mcp.NewTool("reset",
			mcp.WithDescription("Discard every simulated window and start over"),
			mcp.WithString("screen", mcp.Description("New screen bounds as x,y,w,h")),
		),
		s.handleReset,
	)

	// config
	s.mcp.AddTool(
		mcp.NewTool("config",
			mcp.WithDescription("Show the physics config, or change it when any setting is given"),
			mcp.WithNumber("friction", mcp.Description("Percent of velocity removed per frame")),
			mcp.WithNumber("snap-threshold", mcp.Description("Speed in px/ms below which an axis stops")),
			mcp.WithBoolean("constrain-x", mcp.Description("Keep windows inside the screen horizontally")),
			mcp.WithBoolean("constrain-y", mcp.Description("Keep windows inside the screen vertically")),
			mcp.WithString("estimator", mcp.Description("Velocity estimator: ring or total")),
			mcp.WithNumber("ring-capacity", mcp.Description("Samples kept by the ring estimator")),
			mcp.WithNumber("frame-rate", mcp.Description("Frames per second")),
		),
		s.handleConfig,
	)
}
