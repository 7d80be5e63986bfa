package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	var debug bool

	cmd := &cobra.Command{
		Use:   "segprep",
		Short: "Prepare supervised image-segmentation datasets",
		Long: `Segprep turns a directory of raw images and ground-truth label masks
into a fixed-size training set plus a JSON dataset index.

Every image/mask pair is resized so its shorter side matches the target
size, cropped with a single shared offset so pixel correspondence is
preserved, and reduced to a per-image class-presence vector.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	cmd.AddCommand(newPrepareCmd(&debug))
	cmd.AddCommand(newStatsCmd(&debug))

	return cmd
}

// initLogger initializes the logger with appropriate level
func initLogger(debug, json bool) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)

	if debug {
		logger.SetLevel(logrus.DebugLevel)
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
		return logger
	}

	logger.SetLevel(logrus.InfoLevel)
	if json {
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}
	return logger
}
