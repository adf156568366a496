package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fansense/fansense-cli/internal/export"
)

var (
	exportInput  string
	exportOutput string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export enriched posts as GeoJSON",
	Long:  "Converts a file of enriched posts into a GeoJSON FeatureCollection of geocoded points for mapping tools.",
	RunE: func(cmd *cobra.Command, args []string) error {
		posts, err := readPosts(exportInput)
		if err != nil {
			return err
		}

		if err := export.WriteFile(exportOutput, posts); err != nil {
			return err
		}

		zap.L().Info("export complete",
			zap.String("input", exportInput),
			zap.String("output", exportOutput),
			zap.Int("posts", len(posts)),
		)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportInput, "input", "", "path to enriched posts JSON (required)")
	exportCmd.Flags().StringVar(&exportOutput, "output", "posts.geojson", "output GeoJSON path")
	_ = exportCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(exportCmd)
}
