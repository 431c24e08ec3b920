package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Titan-Dynamics/WebcamRTSP/internal/devices"
	"github.com/Titan-Dynamics/WebcamRTSP/internal/logging"
)

// CreateDevicesCmd creates the devices command.
func CreateDevicesCmd() *cobra.Command {
	var logJSON bool

	cmd := &cobra.Command{
		Use:   "devices",
		Short: "List video capture devices",
		Long:  `Enumerates the video capture devices available on this host and prints one per line.`,
		Run: func(_ *cobra.Command, _ []string) {
			loggingConfig := logging.Config{
				Level:  "warn",
				Format: "text",
			}
			if logJSON {
				loggingConfig.Format = "json"
			}
			logging.Initialize(loggingConfig)
			logger := logging.GetLogger("devices")

			ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()

			detector := devices.NewDetector(logger)
			found, err := detector.FindDevices(ctx)
			if err != nil {
				logger.Error("Device enumeration failed", "error", err)
				os.Exit(1)
			}

			if len(found) == 0 {
				fmt.Println("No video capture devices found")
				return
			}

			for _, dev := range found {
				if dev.Path != "" && dev.Path != dev.Name {
					fmt.Printf("%s\t%s\n", dev.Name, dev.Path)
				} else {
					fmt.Println(dev.Name)
				}
			}
		},
	}

	cmd.Flags().BoolVar(&logJSON, "log-json", false, "Output logs in JSON format")

	return cmd
}
