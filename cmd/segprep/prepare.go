package main

import (
	"github.com/spf13/cobra"

	"github.com/menta2k/segprep"
	"github.com/menta2k/segprep/internal/config"
	"github.com/menta2k/segprep/pkg/preprocess"
)

func newPrepareCmd(debug *bool) *cobra.Command {
	var (
		configPath string
		datadir    string
		glossary   string
		out        string
		size       int
		workers    int
		quality    int
		noProgress bool
	)

	cmd := &cobra.Command{
		Use:   "prepare",
		Short: "Resize, crop and index a directory of image/mask pairs",
		Long: `Prepare reads raw images from <datadir>/images and their masks from
<datadir>/labels, writes processed square images to <datadir>/input and
saves the dataset index as JSON.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Default()
			if configPath != "" {
				var err error
				if cfg, err = config.LoadFromFile(configPath); err != nil {
					return err
				}
			}

			// Explicit flags override the config file
			if size > 0 {
				cfg.Dataset.ImageSize = size
			}
			if glossary != "" {
				cfg.Dataset.GlossaryPath = glossary
			}
			if out != "" {
				cfg.Dataset.OutputPath = out
			}
			if cmd.Flags().Changed("workers") {
				cfg.Preprocess.Workers = workers
			}
			if cmd.Flags().Changed("quality") {
				cfg.Preprocess.JPEGQuality = quality
			}
			if noProgress {
				cfg.Preprocess.Progress = false
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			logger := initLogger(*debug, cfg.Logging.JSON)

			pipeline, err := segprep.New(cfg.Dataset.ImageSize, cfg.Dataset.GlossaryPath, preprocess.Options{
				Workers:     cfg.Preprocess.Workers,
				JPEGQuality: cfg.Preprocess.JPEGQuality,
				Logger:      logger,
				Progress:    cfg.Preprocess.Progress,
			})
			if err != nil {
				return err
			}
			logger.WithField("classes", pipeline.Catalog.NumClasses()).Info("glossary loaded")

			if err := pipeline.Populate(datadir); err != nil {
				return err
			}
			return pipeline.Save(cfg.Dataset.OutputPath)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to a JSON config file")
	cmd.Flags().StringVar(&datadir, "data", "", "dataset root directory (with images/ and labels/)")
	cmd.Flags().StringVar(&glossary, "glossary", "", "path to the class glossary JSON")
	cmd.Flags().StringVar(&out, "out", "", "output path for the dataset index JSON")
	cmd.Flags().IntVar(&size, "size", 0, "target square size in pixels")
	cmd.Flags().IntVar(&workers, "workers", 0, "parallel workers (0 = one per CPU)")
	cmd.Flags().IntVar(&quality, "quality", 0, "JPEG quality for processed images (1-100)")
	cmd.Flags().BoolVar(&noProgress, "no-progress", false, "disable the progress bar")
	_ = cmd.MarkFlagRequired("data")

	return cmd
}
