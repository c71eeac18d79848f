// Package uploader orchestrates file uploads: it picks files through a
// pluggable dialog, validates them against type and size constraints,
// uploads each one through a caller-supplied backend and reports per-file
// status through lifecycle events.
//
// # Quick Start
//
// Create an Uploader with a backend and options, subscribe to events and
// hand it files:
//
//	up, err := uploader.New(
//	    uploader.NewStorageBackend(store, storage.WithPrefix("avatars")),
//	    uploader.WithLimit(5),
//	    uploader.WithAccept("image/*"),
//	    uploader.WithMaxSize(5<<20),
//	)
//	if err != nil {
//	    return err
//	}
//
//	up.On(uploader.EventProgress, func(s uploader.Snapshot) {
//	    log.Printf("%d/%d settled", s.Settled(), len(s.Items))
//	})
//
//	end := up.UploadFiles(ctx, files)
//
// # Events
//
// Every batch emits exactly one [EventStart], one [EventProgress] per file
// and one [EventEnd], in that order. Handlers receive a [Snapshot]: a copy
// of the batch's items taken at emission time, so handlers may keep it
// without synchronization. Handlers run on the goroutine that settled the
// file and must not block for long.
//
// # Picking
//
// [Uploader.ChooseFile] opens the configured [Dialog]. Only one dialog is
// live per Uploader; opening a new one supersedes the previous, whose call
// returns [ErrPickSuperseded]. Selected files are validated before anything
// is uploaded. With AutoUpload enabled the selection is uploaded right away
// and ChooseFile returns no files: results arrive through events only.
//
// # Validation
//
// [Validate] checks content types first, then sizes, and stops at the first
// violation. Failures are *[ValidationError] values carrying a stable code
// and a message that can be localized with [ValidationError.Localize].
package uploader
