package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/uploader"
)

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printProgress reports start and progress events of up on w.
func printProgress(w io.Writer, up *uploader.Uploader) {
	up.On(uploader.EventStart, func(s uploader.Snapshot) {
		fmt.Fprintf(w, "Uploading %d file(s) as batch %s\n", len(s.Items), s.Batch)
	})
	up.On(uploader.EventProgress, func(s uploader.Snapshot) {
		fmt.Fprintf(w, "  %d/%d settled\n", s.Settled(), len(s.Items))
	})
}

// printItems writes one line per item of the final snapshot.
func printItems(w io.Writer, s uploader.Snapshot) {
	for _, it := range s.Items {
		switch it.Status {
		case uploader.StatusDone:
			fmt.Fprintf(w, "%-6s %s -> %s\n", "done", it.Name, it.URL)
		default:
			fmt.Fprintf(w, "%-6s %s: %s\n", it.Status, it.Name, it.Error)
		}
	}
}

// batchError reports failed items of a final snapshot, or nil.
func batchError(s uploader.Snapshot) error {
	if failed := len(s.Failed()); failed > 0 {
		return fmt.Errorf("%d of %d upload(s) failed", failed, len(s.Items))
	}
	return nil
}
