package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fansense/fansense-cli/internal/model"
	"github.com/fansense/fansense-cli/internal/pipeline"
)

var (
	processInput  string
	processOutput string
)

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Enrich a file of posts in batch",
	Long:  "Reads a JSON array of posts, attaches sentiment and resolved locations, and writes the enriched posts back out.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initPipeline(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		posts, err := readPosts(processInput)
		if err != nil {
			return err
		}

		run, err := env.Store.CreateRun(ctx, processInput)
		if err != nil {
			return err
		}

		env.Enricher.EnrichBatch(ctx, posts)
		stats := pipeline.Stats(posts)

		if err := env.Store.CompleteRun(ctx, run.ID, model.RunStatusComplete, stats); err != nil {
			return err
		}

		zap.L().Info("batch complete",
			zap.String("run_id", run.ID),
			zap.Int("posts", stats.Posts),
			zap.Int("located", stats.Located),
			zap.Int("geocoded", stats.Geocoded),
			zap.Int("scored", stats.Scored),
		)

		return writePosts(processOutput, posts)
	},
}

func init() {
	processCmd.Flags().StringVar(&processInput, "input", "", "path to JSON array of posts (required)")
	processCmd.Flags().StringVar(&processOutput, "output", "", "output path (default stdout)")
	_ = processCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(processCmd)
}

func readPosts(path string) ([]*model.Post, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "read posts %s", path)
	}

	var posts []*model.Post
	if err := json.Unmarshal(data, &posts); err != nil {
		return nil, eris.Wrapf(err, "decode posts %s", path)
	}
	return posts, nil
}

func writePosts(path string, posts []*model.Post) error {
	out := os.Stdout
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return eris.Wrapf(err, "create %s", path)
		}
		defer f.Close() //nolint:errcheck
		out = f
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return eris.Wrap(enc.Encode(posts), "encode posts")
}
