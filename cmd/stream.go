package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Titan-Dynamics/WebcamRTSP/internal/config"
	"github.com/Titan-Dynamics/WebcamRTSP/internal/conflict"
	"github.com/Titan-Dynamics/WebcamRTSP/internal/events"
	"github.com/Titan-Dynamics/WebcamRTSP/internal/ffmpeg"
	"github.com/Titan-Dynamics/WebcamRTSP/internal/logging"
	"github.com/Titan-Dynamics/WebcamRTSP/internal/mediamtx"
	"github.com/Titan-Dynamics/WebcamRTSP/internal/rtsp"
	"github.com/Titan-Dynamics/WebcamRTSP/internal/session"
	"github.com/Titan-Dynamics/WebcamRTSP/internal/settings"
	"github.com/Titan-Dynamics/WebcamRTSP/internal/supervisor"
)

// CreateStreamCmd creates the stream command.
func CreateStreamCmd() *cobra.Command {
	var settingsFile string
	var device string
	var resolution string
	var fps string
	var logJSON bool

	cmd := &cobra.Command{
		Use:   "stream",
		Short: "Run a headless streaming session",
		Long: `Starts the relay and capture pipeline using the persisted settings and keeps it ` +
			`running until interrupted. Flags override persisted settings for this run only.`,
		Run: func(_ *cobra.Command, _ []string) {
			loggingConfig := logging.Config{
				Level:  "info",
				Format: "text",
			}
			if logJSON {
				loggingConfig.Format = "json"
			}
			logging.Initialize(loggingConfig)
			logger := logging.GetLogger("stream")

			if settingsFile == "" {
				path, err := settings.DefaultPath()
				if err != nil {
					logger.Error("Cannot resolve settings path", "error", err)
					os.Exit(1)
				}
				settingsFile = path
			}
			store := settings.NewStore(settingsFile, logging.GetLogger("settings"))
			store.Load()

			// Reload persisted settings when the file changes so the next
			// start picks them up
			watcher := config.NewWatcher(
				settingsFile,
				func(string) (settings.Settings, error) { return store.Reload(), nil },
				logger,
				config.WithDebounce[settings.Settings](1500*time.Millisecond),
			)
			if err := watcher.Start(); err != nil {
				logger.Warn("Settings watcher unavailable", "error", err)
			} else {
				defer watcher.Stop()
			}

			overrides := settings.Settings{
				Device:     device,
				Resolution: resolution,
				FPS:        fps,
			}
			current := func() settings.Settings {
				return store.Get().Merge(overrides)
			}

			eventBus := events.New()
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
					return current().Target()
				},
				CaptureCommand: func() ([]string, error) {
					binary, err := ffmpeg.Locate()
					if err != nil {
						return nil, err
					}
					return ffmpeg.BuildCaptureArgs(binary, current().CaptureParams())
				},
				RelayCommand: func() ([]string, error) {
					binary, err := mediamtx.Locate()
					if err != nil {
						return nil, err
					}
					target := current().Target()
					if cfgErr := mediamtx.EnsureConfig(binary, target.Addr(), target.Path); cfgErr != nil {
						logger.Warn("Cannot provision relay config, relying on relay defaults", "error", cfgErr)
					}
					return mediamtx.Command(binary), nil
				},
			})

			ctx := context.Background()
			if err := controller.Start(ctx); err != nil {
				logger.Error("Failed to start streaming session", "error", err)
				controller.Close()
				os.Exit(1)
			}
			logger.Info("Streaming", "url", current().Target().URL())

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			<-sigCh

			logger.Info("Shutting down")
			controller.Stop(ctx)
			controller.Close()
		},
	}

	cmd.Flags().StringVar(&settingsFile, "settings", "", "Path to settings file (defaults to the user config dir)")
	cmd.Flags().StringVar(&device, "device", "", "Capture device override")
	cmd.Flags().StringVar(&resolution, "resolution", "", "Resolution override, e.g. 1280x720")
	cmd.Flags().StringVar(&fps, "fps", "", "Framerate override")
	cmd.Flags().BoolVar(&logJSON, "log-json", false, "Output logs in JSON format")

	return cmd
}
