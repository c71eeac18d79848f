package uploader

import "errors"

var (
	// ErrNilBackend is returned by New when no backend is given.
	ErrNilBackend = errors.New("uploader: backend is nil")

	// ErrInvalidOptions is returned by New for inconsistent size bounds.
	ErrInvalidOptions = errors.New("uploader: invalid options")

	// ErrNoDialog is returned by ChooseFile when no Dialog is configured.
	ErrNoDialog = errors.New("uploader: no dialog configured")

	// ErrPickSuperseded is returned by a ChooseFile call whose dialog was
	// replaced by a newer one before the user finished.
	ErrPickSuperseded = errors.New("uploader: pick superseded")

	// ErrPickCanceled is returned when the dialog closes with no files.
	ErrPickCanceled = errors.New("uploader: pick canceled")

	// ErrDialogFailed wraps errors returned by a Dialog.
	ErrDialogFailed = errors.New("uploader: dialog failed")

	// ErrTooManyFiles is returned when a selection exceeds Options.Limit.
	ErrTooManyFiles = errors.New("uploader: too many files")

	// Validation sentinels, matched through errors.Is on *ValidationError.
	ErrInvalidType  = errors.New("uploader: invalid file type")
	ErrFileTooSmall = errors.New("uploader: file too small")
	ErrFileTooLarge = errors.New("uploader: file too large")
)
