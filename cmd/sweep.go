package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/hrdocs-cli/internal/model"
	"github.com/sells-group/hrdocs-cli/internal/pipeline"
	"github.com/sells-group/hrdocs-cli/internal/store"
	"github.com/sells-group/hrdocs-cli/pkg/notify"
	"github.com/sells-group/hrdocs-cli/pkg/storage"
)

var sweepLimit int

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Process every spreadsheet in the input folder",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initPipeline(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		files, err := env.Storage.ListFiles(ctx, cfg.Storage.InputFolder)
		if err != nil {
			return eris.Wrap(err, "list input folder")
		}

		return processSweep(ctx, files, sweepLimit, env.Store, env.Notifier, env.Policy, func(ctx context.Context, file storage.FileMetadata) *model.ProcessingResult {
			return env.Orchestrator.ProcessFile(ctx, file, cfg.Storage.OutputFolderBase)
		})
	},
}

func init() {
	sweepCmd.Flags().IntVar(&sweepLimit, "limit", 0, "max number of files to process (0 = all)")
	rootCmd.AddCommand(sweepCmd)
}

// processFunc runs the orchestrator over one file.
type processFunc func(ctx context.Context, file storage.FileMetadata) *model.ProcessingResult

// processSweep runs every file sequentially through process, recording each
// outcome and notifying per policy. A failed file never stops the sweep.
func processSweep(ctx context.Context, files []storage.FileMetadata, limit int, st store.Store, notifier notify.Notifier, policy pipeline.Policy, process processFunc) error {
	if len(files) == 0 {
		zap.L().Info("no files to process")
		return nil
	}
	if limit > 0 && len(files) > limit {
		files = files[:limit]
	}

	zap.L().Info("starting sweep", zap.Int("files", len(files)))

	var succeeded, failed int
	for _, file := range files {
		if ctx.Err() != nil {
			return eris.Wrap(ctx.Err(), "sweep interrupted")
		}

		run, err := st.CreateRun(ctx, file.Name)
		if err != nil {
			zap.L().Warn("failed to record run", zap.String("file", file.Name), zap.Error(err))
		}

		result := process(ctx, file)
		if result.Success {
			succeeded++
		} else {
			failed++
		}

		if run != nil {
			if err := st.CompleteRun(ctx, run.ID, result); err != nil {
				zap.L().Warn("failed to save run result", zap.String("file", file.Name), zap.Error(err))
			}
		}

		if policy.ShouldNotify(result) {
			if err := notifier.Send(ctx, notify.Summary{
				FileName:  result.FileName,
				Success:   result.Success,
				Total:     result.TotalProcessed,
				Succeeded: result.SuccessCount,
				Failed:    result.FailureCount,
				Error:     result.ErrorMessage,
			}); err != nil {
				zap.L().Warn("notification failed", zap.String("file", file.Name), zap.Error(err))
			}
		}
	}

	zap.L().Info("sweep complete",
		zap.Int("files", len(files)),
		zap.Int("succeeded", succeeded),
		zap.Int("failed", failed),
	)
	return nil
}
