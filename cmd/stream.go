package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/fansense/fansense-cli/internal/model"
	"github.com/fansense/fansense-cli/internal/stream"
)

var streamCmd = &cobra.Command{
	Use:   "stream",
	Short: "Consume and enrich posts from Kafka",
	Long:  "Reads raw posts from the source topic, enriches them, and produces the results to the sink topic until interrupted.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initPipeline(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		run, err := env.Store.CreateRun(ctx, "stream:"+cfg.Stream.SourceTopic)
		if err != nil {
			return err
		}

		worker := stream.NewKafkaWorker(cfg.Stream, env.Enricher)

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			return worker.Run(gctx)
		})
		g.Go(func() error {
			<-gctx.Done()
			return worker.Close()
		})

		runErr := g.Wait()

		status := model.RunStatusComplete
		if runErr != nil {
			status = model.RunStatusFailed
		}
		if err := env.Store.CompleteRun(cmd.Context(), run.ID, status, worker.Stats()); err != nil {
			zap.L().Error("record stream run", zap.Error(err))
		}

		return runErr
	},
}

func init() {
	rootCmd.AddCommand(streamCmd)
}
