package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/menta2k/segprep/pkg/catalog"
)

func newStatsCmd(debug *bool) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats <dataset.json>",
		Short: "Print class and image statistics for a saved dataset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := initLogger(*debug, false)
			cat, err := catalog.LoadFile(args[0], logger)
			if err != nil {
				return err
			}

			fmt.Printf("image size: %d\n", cat.ImageSize())
			fmt.Printf("classes:    %d\n", cat.NumClasses())
			fmt.Printf("images:     %d\n", cat.NumImages())

			popularity := cat.ClassPopularity()
			if popularity == nil {
				fmt.Println("no images, no class popularity to report")
				return nil
			}
			for rank, id := range cat.ClassIDs() {
				class, _ := cat.Class(id)
				name := class.Name
				if class.Category != "" {
					name = class.Category + "--" + name
				}
				fmt.Printf("%4d  %-40s %.3f\n", id, name, popularity[rank])
			}
			return nil
		},
	}
	return cmd
}
