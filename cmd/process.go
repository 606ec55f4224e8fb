package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/hrdocs-cli/internal/model"
	"github.com/sells-group/hrdocs-cli/pkg/storage"
)

var processCmd = &cobra.Command{
	Use:   "process <file-name>",
	Short: "Process one spreadsheet from the input folder by name",
	Args:  cobra.ExactArgs(1),
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

		var target *storage.FileMetadata
		for i := range files {
			if files[i].Name == args[0] {
				target = &files[i]
				break
			}
		}
		if target == nil {
			return eris.Errorf("file %q not found in %s", args[0], cfg.Storage.InputFolder)
		}

		return processSweep(ctx, []storage.FileMetadata{*target}, 0, env.Store, env.Notifier, env.Policy, func(ctx context.Context, file storage.FileMetadata) *model.ProcessingResult {
			return env.Orchestrator.ProcessFile(ctx, file, cfg.Storage.OutputFolderBase)
		})
	},
}

func init() {
	rootCmd.AddCommand(processCmd)
}
