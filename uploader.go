package uploader

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/dmitrymomot/uploader/pkg/eventbus"
	"github.com/dmitrymomot/uploader/pkg/logger"
	"github.com/dmitrymomot/uploader/pkg/settle"
)

// itemIDPrefix prefixes every item ID.
const itemIDPrefix = "uploader-"

// Handler receives batch snapshots.
type Handler func(Snapshot)

// Subscription identifies a handler registered with On.
type Subscription = eventbus.Subscription[Event]

// Uploader picks, validates and uploads files.
// It is safe for concurrent use; concurrent batches are independent.
type Uploader struct {
	backend Backend
	dialog  Dialog
	logger  *slog.Logger
	bus     *eventbus.Bus[Event, Snapshot]
	picks   pickSlot
	opts    Options
}

// New creates an Uploader that sends files to backend.
func New(backend Backend, opts ...Option) (*Uploader, error) {
	if backend == nil {
		return nil, ErrNilBackend
	}

	u := &Uploader{
		backend: backend,
		logger:  logger.NewNope(),
		opts:    DefaultOptions(),
	}
	for _, opt := range opts {
		opt(u)
	}

	u.opts.normalize()
	if err := u.opts.validate(); err != nil {
		return nil, err
	}

	u.bus = eventbus.New[Event, Snapshot](eventbus.WithPanicHandler(func(ev Event, r any) {
		u.logger.Error("event handler panicked",
			slog.String("event", string(ev)),
			slog.Any("panic", r),
		)
	}))

	return u, nil
}

// Options returns the options the Uploader was built with.
func (u *Uploader) Options() Options {
	return u.opts
}

// On registers fn for ev and returns a token for Off. Every call returns a
// distinct token, so registering the same function twice keeps both
// registrations. A nil fn is ignored and yields the zero Subscription.
func (u *Uploader) On(ev Event, fn Handler) Subscription {
	if fn == nil {
		return Subscription{}
	}
	return u.bus.Subscribe(ev, eventbus.Handler[Snapshot](fn))
}

// Off removes the single registration identified by sub. Removal is by
// token, not by function: a handler registered twice keeps running until
// both tokens are passed to Off. Unknown, zero or already removed tokens
// are ignored.
func (u *Uploader) Off(sub Subscription) {
	u.bus.Unsubscribe(sub)
}

// ChooseFile opens the dialog, validates the selection and, with
// AutoUpload enabled, uploads it before returning nil files. With
// AutoUpload disabled the validated selection is returned as is.
//
// Opening a new dialog supersedes one still open: the older call's dialog
// context is canceled and, unless its dialog still hands back a selection,
// it returns ErrPickSuperseded. A selection completed as the newer dialog
// opens is kept and processed.
func (u *Uploader) ChooseFile(ctx context.Context) ([]File, error) {
	if u.dialog == nil {
		return nil, ErrNoDialog
	}

	h := u.picks.acquire(ctx)
	defer h.release()

	files, err := u.dialog.Open(h.ctx, PickRequest{
		Accept:   u.opts.Accept,
		Limit:    u.opts.Limit,
		Multiple: u.opts.Limit > 1,
	})
	if err != nil || len(files) == 0 {
		if h.superseded() {
			return nil, ErrPickSuperseded
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrDialogFailed, err)
		}
		return nil, ErrPickCanceled
	}
	if len(files) > u.opts.Limit {
		return nil, fmt.Errorf("%w: selected %d, limit is %d", ErrTooManyFiles, len(files), u.opts.Limit)
	}
	if err := Validate(files, u.opts); err != nil {
		return nil, err
	}

	h.release()

	if !u.opts.AutoUpload {
		return files, nil
	}

	u.UploadFiles(ctx, files)
	return nil, nil
}

// UploadFiles uploads files as one batch and returns the final snapshot.
// Files are not validated here. Every file is sent to the backend at once
// (up to Options.Concurrency when set); a failing file never stops the
// others. Handlers see start, one progress per file, then end.
func (u *Uploader) UploadFiles(ctx context.Context, files []File) Snapshot {
	b := newBatch(files)
	ctx = logger.WithBatch(ctx, b.id)

	u.logger.DebugContext(ctx, "batch started", slog.Int("files", len(files)))
	b.emit(u.bus, EventStart)

	settle.All(ctx, len(files), func(ctx context.Context, i int) (string, error) {
		url, err := u.call(ctx, files[i])
		if err != nil {
			u.logger.WarnContext(ctx, "file upload failed",
				slog.String("item_id", b.items[i].ID),
				slog.String("file", files[i].Name()),
				slog.String("error", err.Error()),
			)
		}
		b.settle(u.bus, i, url, err)
		return url, err
	}, settle.WithLimit(u.opts.Concurrency))

	end := b.emit(u.bus, EventEnd)
	u.logger.DebugContext(ctx, "batch finished",
		slog.Int("files", len(end.Items)),
		slog.Int("failed", len(end.Failed())),
	)

	return end
}

// call invokes the backend, turning a panic into an error.
func (u *Uploader) call(ctx context.Context, f File) (url string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", settle.ErrPanic, r)
		}
	}()
	return u.backend(ctx, f)
}

// batch is the mutable state of one UploadFiles call. mu serializes item
// updates with emission so every snapshot is consistent and no two
// handlers of the same batch run at once.
type batch struct {
	id    string
	items []Item
	mu    sync.Mutex
}

func newBatch(files []File) *batch {
	b := &batch{
		id:    uuid.Must(uuid.NewV7()).String(),
		items: make([]Item, len(files)),
	}
	for i, f := range files {
		b.items[i] = Item{
			ID:     itemIDPrefix + uuid.Must(uuid.NewV7()).String(),
			Name:   f.Name(),
			Status: StatusPending,
		}
	}
	return b
}

func (b *batch) settle(bus *eventbus.Bus[Event, Snapshot], i int, url string, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err != nil {
		b.items[i].Status = StatusError
		b.items[i].Error = err.Error()
	} else {
		b.items[i].Status = StatusDone
		b.items[i].URL = url
	}
	bus.Emit(EventProgress, b.snapshotLocked(EventProgress))
}

func (b *batch) emit(bus *eventbus.Bus[Event, Snapshot], ev Event) Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()

	bus.Emit(ev, b.snapshotLocked(ev))
	return b.snapshotLocked(ev)
}

func (b *batch) snapshotLocked(ev Event) Snapshot {
	items := make([]Item, len(b.items))
	copy(items, b.items)
	return Snapshot{Batch: b.id, Event: ev, Items: items}
}
