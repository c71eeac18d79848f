package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/uploader"
	"github.com/dmitrymomot/uploader/pkg/logger"
)

func newPutCommand(ctx *commandContext) *cobra.Command {
	var (
		jsonOutput bool
		skipCheck  bool
	)

	cmd := &cobra.Command{
		Use:   "put <path>...",
		Short: "Upload files as one batch",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			files := make([]uploader.File, 0, len(args))
			for _, path := range args {
				f, err := uploader.FromPath(path)
				if err != nil {
					return err
				}
				files = append(files, f)
			}

			up, err := newUploader(cfg, uploader.WithLogger(logger.NewWithWriter(cmd.ErrOrStderr(), cfg.Log)))
			if err != nil {
				return err
			}

			if !skipCheck {
				if n, limit := len(files), up.Options().Limit; n > limit {
					return fmt.Errorf("%w: got %d files, limit is %d", uploader.ErrTooManyFiles, n, limit)
				}
				if err := uploader.Validate(files, up.Options()); err != nil {
					return err
				}
			}

			progress := cmd.OutOrStdout()
			if jsonOutput {
				progress = io.Discard
			}
			printProgress(progress, up)

			end := up.UploadFiles(cmd.Context(), files)
			if jsonOutput {
				if err := writeJSON(cmd, end); err != nil {
					return err
				}
			} else {
				printItems(cmd.OutOrStdout(), end)
			}
			return batchError(end)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the final batch snapshot as JSON")
	cmd.Flags().BoolVar(&skipCheck, "no-validate", false, "Upload without checking count, type and size")

	return cmd
}
