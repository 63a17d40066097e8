package main

import (
	"context"
	"flag"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/mbocsi/roverlink/bridge"
	"github.com/mbocsi/roverlink/config"
	"github.com/mbocsi/roverlink/mcp"
	"github.com/mbocsi/roverlink/motion"
	"github.com/mbocsi/roverlink/transport"
	"github.com/mbocsi/roverlink/web"
)

type App struct {
	Bridge    *bridge.Bridge
	Transport transport.Transport
	Web       *web.Server
	MCP       *mcp.MCPServer
	Announcer *transport.Announcer
}

func (a *App) Start(ctx context.Context) {
	go func() {
		if err := a.Transport.Start(); err != nil {
			slog.Error("Transport failed", "error", err.Error())
			os.Exit(1)
		}
	}()
	if a.Web != nil {
		go func() {
			if err := a.Web.Start(); err != nil {
				slog.Error("Web server failed", "error", err.Error())
			}
		}()
	}
	if a.MCP != nil {
		go a.MCP.Start()
	}

	<-ctx.Done()
	slog.Info("Shutting down bridge")

	if a.Announcer != nil {
		if err := a.Announcer.Shutdown(); err != nil {
			slog.Error("There was an error when shutting down mDNS", "error", err.Error())
		}
	}
	if a.Web != nil {
		if err := a.Web.Shutdown(); err != nil {
			slog.Error("There was an error when shutting down web server", "error", err.Error())
		}
	}
	if err := a.Transport.Shutdown(); err != nil {
		slog.Error("There was an error when shutting down transport", "error", err.Error())
	}
}

func main() {
	configPath := flag.String("config", "", "path to TOML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err.Error())
		os.Exit(1)
	}

	logger := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel(cfg.LogLevel)})
	slog.SetDefault(slog.New(logger))

	vel := motion.NewLoopbackVelocity()
	drive := motion.NewLoopbackAction(cfg.DriveAction)
	rotate := motion.NewLoopbackAction(cfg.RotateAction)

	b := bridge.NewBridge(vel, drive, rotate, bridge.Options{
		DefaultDriveSpeed:  cfg.DefaultDriveSpeed,
		DefaultRotateSpeed: cfg.DefaultRotateSpeed,
		ReadyTimeout:       cfg.ReadyTimeout(),
	})

	udp := transport.NewUDPTransport(cfg.BindAddr, cfg.SegmentSize)
	b.AttachTransport(udp)

	app := &App{Bridge: b, Transport: udp}

	if cfg.WebAddr != "" {
		app.Web = web.NewServer(cfg.WebAddr, b)
	}
	if cfg.MCP {
		app.MCP = mcp.NewMCPServer()
		mcp.RegisterTools(app.MCP, b)
	}
	if cfg.MDNS {
		if port, err := bindPort(cfg.BindAddr); err == nil {
			announcer, aerr := transport.NewAnnouncer("roverlink", port)
			if aerr != nil {
				slog.Warn("mDNS advertisement unavailable", "error", aerr.Error())
			} else {
				app.Announcer = announcer
			}
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.ReportSecs > 0 {
		b.StartReporter(ctx, time.Duration(cfg.ReportSecs)*time.Second)
	}

	app.Start(ctx)
}

func bindPort(addr string) (int, error) {
	_, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(portStr)
}

func logLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
