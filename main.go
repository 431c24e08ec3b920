package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2/humacli"

	"github.com/Titan-Dynamics/WebcamRTSP/cmd"
	"github.com/Titan-Dynamics/WebcamRTSP/internal/api"
	"github.com/Titan-Dynamics/WebcamRTSP/internal/config"
	"github.com/Titan-Dynamics/WebcamRTSP/internal/conflict"
	"github.com/Titan-Dynamics/WebcamRTSP/internal/devices"
	"github.com/Titan-Dynamics/WebcamRTSP/internal/events"
	"github.com/Titan-Dynamics/WebcamRTSP/internal/ffmpeg"
	"github.com/Titan-Dynamics/WebcamRTSP/internal/logging"
	"github.com/Titan-Dynamics/WebcamRTSP/internal/mediamtx"
	"github.com/Titan-Dynamics/WebcamRTSP/internal/metrics"
	"github.com/Titan-Dynamics/WebcamRTSP/internal/rtsp"
	"github.com/Titan-Dynamics/WebcamRTSP/internal/session"
	"github.com/Titan-Dynamics/WebcamRTSP/internal/settings"
	"github.com/Titan-Dynamics/WebcamRTSP/internal/supervisor"
)

// Options for the CLI - flat structure with toml mapping.
type Options struct {
	Config string `help:"Path to configuration file" short:"c" default:"config.toml"`

	// Server settings
	Port string `help:"Port to listen on" short:"p" default:":8090" toml:"server.port" env:"SERVER_PORT"`

	// Settings file override (defaults to the user config dir)
	SettingsFile string `help:"Path to stream settings file" default:"" toml:"settings.file" env:"SETTINGS_FILE"`

	// Session settings
	SessionReadinessTimeout string `help:"How long to wait for the relay port" default:"6s" toml:"session.readiness_timeout" env:"SESSION_READINESS_TIMEOUT"`
	SessionGraceTimeout     string `help:"Grace period before force-killing processes" default:"2s" toml:"session.grace_timeout" env:"SESSION_GRACE_TIMEOUT"`

	// Auth settings
	AuthUsername string `help:"Basic auth username" default:"admin" toml:"auth.username" env:"AUTH_USERNAME"`
	AuthPassword string `help:"Basic auth password" default:"password" toml:"auth.password" env:"AUTH_PASSWORD"`

	// Logging settings
	LoggingLevel    string `help:"Global logging level (debug, info, warn, error)" default:"info" toml:"logging.level" env:"LOGGING_LEVEL"`
	LoggingFormat   string `help:"Logging format (text, json)" default:"text" toml:"logging.format" env:"LOGGING_FORMAT"`
	LoggingSession  string `help:"Session logging level" default:"info" toml:"logging.session" env:"LOGGING_SESSION"`
	LoggingCapture  string `help:"Capture logging level" default:"info" toml:"logging.capture" env:"LOGGING_CAPTURE"`
	LoggingRelay    string `help:"Relay logging level" default:"info" toml:"logging.relay" env:"LOGGING_RELAY"`
	LoggingFFmpeg   string `help:"FFmpeg output logging level" default:"info" toml:"logging.ffmpeg" env:"LOGGING_FFMPEG"`
	LoggingDevices  string `help:"Devices logging level" default:"info" toml:"logging.devices" env:"LOGGING_DEVICES"`
	LoggingSettings string `help:"Settings logging level" default:"info" toml:"logging.settings" env:"LOGGING_SETTINGS"`
	LoggingAPI      string `help:"API logging level" default:"info" toml:"logging.api" env:"LOGGING_API"`
}

func parseDurationOr(value string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func main() {
	var cli humacli.CLI
	cli = humacli.New(func(hooks humacli.Hooks, opts *Options) {
		// Load configuration automatically
		if loadErr := config.LoadConfig(opts, cli.Root()); loadErr != nil {
			logging.GetLogger("main").Warn("Failed to load config", "error", loadErr)
		}

		// Initialize logging: start from the file's [logging] table so
		// modules without a dedicated flag (http, conflict) can still be
		// tuned, then apply the flag-backed values on top.
		loggingConfig := config.LoadLoggingConfig(opts.Config)
		loggingConfig.Level = opts.LoggingLevel
		loggingConfig.Format = opts.LoggingFormat
		if loggingConfig.Modules == nil {
			loggingConfig.Modules = make(map[string]string)
		}
		for module, level := range map[string]string{
			"session":  opts.LoggingSession,
			"capture":  opts.LoggingCapture,
			"relay":    opts.LoggingRelay,
			"ffmpeg":   opts.LoggingFFmpeg,
			"devices":  opts.LoggingDevices,
			"settings": opts.LoggingSettings,
			"api":      opts.LoggingAPI,
		} {
			loggingConfig.Modules[module] = level
		}
		logging.Initialize(loggingConfig)

		logger := logging.GetLogger("main")

		// Create event bus for in-process event handling
		eventBus := events.New()

		// Forward new log entries to SSE subscribers
		logging.SetLogCallback(func(entry logging.LogEntry) {
			eventBus.Publish(events.LogEntryEvent{
				Timestamp:  entry.Timestamp.Format(time.RFC3339Nano),
				Level:      entry.Level,
				Module:     entry.Module,
				Message:    entry.Message,
				Attributes: entry.Attributes,
			})
		})

		// Settings store with live reload
		settingsPath := opts.SettingsFile
		if settingsPath == "" {
			path, err := settings.DefaultPath()
			if err != nil {
				logger.Warn("Cannot resolve user config dir, using working directory", "error", err)
				path = "settings.toml"
			}
			settingsPath = path
		}
		store := settings.NewStore(settingsPath, logging.GetLogger("settings"))
		store.Load()

		settingsWatcher := config.NewWatcher(
			settingsPath,
			func(string) (settings.Settings, error) { return store.Reload(), nil },
			logger,
		)

		// Process supervision
		captureSup := supervisor.New("ffmpeg", logging.GetLogger("capture"),
			supervisor.WithOutputParser(logging.GetLogger("ffmpeg"), ffmpeg.ParseLogLevel))
		relaySup := supervisor.New("mediamtx", logging.GetLogger("relay"))

		controller := session.New(session.Options{
			Logger:   logging.GetLogger("session"),
			Bus:      eventBus,
			Capture:  captureSup,
			Relay:    relaySup,
			Resolver: conflict.NewResolver(logging.GetLogger("conflict")),
			Target: func() rtsp.Target {
				return store.Get().Target()
			},
			CaptureCommand: func() ([]string, error) {
				binary, err := ffmpeg.Locate()
				if err != nil {
					return nil, err
				}
				return ffmpeg.BuildCaptureArgs(binary, store.Get().CaptureParams())
			},
			RelayCommand: func() ([]string, error) {
				binary, err := mediamtx.Locate()
				if err != nil {
					return nil, err
				}
				target := store.Get().Target()
				if cfgErr := mediamtx.EnsureConfig(binary, target.Addr(), target.Path); cfgErr != nil {
					logger.Warn("Cannot provision relay config, relying on relay defaults", "error", cfgErr)
				}
				return mediamtx.Command(binary), nil
			},
			ReadinessTimeout: parseDurationOr(opts.SessionReadinessTimeout, 6*time.Second),
			GraceTimeout:     parseDurationOr(opts.SessionGraceTimeout, session.DefaultGraceTimeout),
		})

		// Prometheus session metrics driven off the event bus
		unobserve := metrics.Observe(eventBus)

		server := api.NewServer(&api.Options{
			AuthUsername:      opts.AuthUsername,
			AuthPassword:      opts.AuthPassword,
			Session:           controller,
			Settings:          store,
			Detector:          devices.NewDetector(logging.GetLogger("devices")),
			EventBus:          eventBus,
			PrometheusHandler: metrics.HTTPHandler(),
		})

		hooks.OnStart(func() {
			if err := settingsWatcher.Start(); err != nil {
				logger.Warn("Settings watcher unavailable", "error", err)
			}

			logger.Info("Starting HTTP server", "port", opts.Port)
			if startErr := server.Start(opts.Port); startErr != nil && !errors.Is(startErr, http.ErrServerClosed) {
				logger.Error("Failed to start HTTP server", "error", startErr)
			}
		})

		hooks.OnStop(func() {
			logger.Info("Shutting down server")
			if stopErr := server.Stop(); stopErr != nil {
				logger.Error("Error stopping HTTP server", "error", stopErr)
			}

			// Stop the session after HTTP stops accepting requests
			controller.Stop(context.Background())
			controller.Close()

			unobserve()
			if stopErr := settingsWatcher.Stop(); stopErr != nil {
				logger.Error("Error stopping settings watcher", "error", stopErr)
			}
		})
	})

	cli.Root().AddCommand(cmd.CreateDevicesCmd())
	cli.Root().AddCommand(cmd.CreateStreamCmd())

	cli.Run()
}
