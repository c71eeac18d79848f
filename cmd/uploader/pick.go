package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/uploader"
	"github.com/dmitrymomot/uploader/internal/termpicker"
	"github.com/dmitrymomot/uploader/pkg/logger"
)

func newPickCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "pick",
		Short: "Choose files in the terminal and upload them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			dialog := ctx.dialog
			if dialog == nil {
				dialog = termpicker.New()
			}

			up, err := newUploader(cfg,
				uploader.WithDialog(dialog),
				uploader.WithLogger(logger.NewWithWriter(cmd.ErrOrStderr(), cfg.Log)),
			)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			printProgress(out, up)

			var end uploader.Snapshot
			up.On(uploader.EventEnd, func(s uploader.Snapshot) { end = s })

			files, err := up.ChooseFile(cmd.Context())
			switch {
			case errors.Is(err, uploader.ErrPickCanceled):
				fmt.Fprintln(out, "No files selected")
				return nil
			case err != nil:
				return err
			}

			// Without auto upload the selection comes back for a manual upload.
			if files != nil {
				for _, f := range files {
					fmt.Fprintf(out, "Selected %s (%s, %d bytes)\n", f.Name(), f.ContentType(), f.Size())
				}
				end = up.UploadFiles(cmd.Context(), files)
			}

			printItems(out, end)
			return batchError(end)
		},
	}
}
