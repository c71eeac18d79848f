package tracker_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/uploader"
	"github.com/dmitrymomot/uploader/internal/tracker"
)

func TestTracker_FollowsBatch(t *testing.T) {
	t.Parallel()

	tr := tracker.New(tracker.Config{})

	u, err := uploader.New(func(_ context.Context, f uploader.File) (string, error) {
		if f.Name() == "bad" {
			return "", errors.New("nope")
		}
		return "https://cdn.test/" + f.Name(), nil
	})
	require.NoError(t, err)

	var seen []uploader.Event
	u.On(uploader.EventProgress, func(s uploader.Snapshot) {
		got, ok := tr.Get(s.Batch)
		assert.True(t, ok)
		seen = append(seen, got.Event)
	})
	detach := tr.Attach(u)

	end := u.UploadFiles(context.Background(), []uploader.File{
		uploader.FromBytes("good", "image/png", []byte{1}),
		uploader.FromBytes("bad", "image/png", []byte{1}),
	})

	got, ok := tr.Get(end.Batch)
	require.True(t, ok)
	assert.Equal(t, end, got)
	assert.Equal(t, 1, tr.Len())

	// The tracker subscribed after the progress handler, so that handler
	// still sees the previous event.
	assert.Equal(t, []uploader.Event{uploader.EventStart, uploader.EventProgress}, seen)

	detach()
	next := u.UploadFiles(context.Background(), nil)
	_, ok = tr.Get(next.Batch)
	assert.False(t, ok)
}

func TestTracker_Eviction(t *testing.T) {
	t.Parallel()

	t.Run("by size", func(t *testing.T) {
		t.Parallel()
		tr := tracker.New(tracker.Config{Size: 2})

		tr.Record(uploader.Snapshot{Batch: "a", Event: uploader.EventEnd})
		tr.Record(uploader.Snapshot{Batch: "b", Event: uploader.EventEnd})
		tr.Record(uploader.Snapshot{Batch: "c", Event: uploader.EventEnd})

		_, ok := tr.Get("a")
		assert.False(t, ok)
		_, ok = tr.Get("c")
		assert.True(t, ok)
		assert.Equal(t, 2, tr.Len())
	})

	t.Run("by age", func(t *testing.T) {
		t.Parallel()
		tr := tracker.New(tracker.Config{TTL: 20 * time.Millisecond})

		tr.Record(uploader.Snapshot{Batch: "a", Event: uploader.EventEnd})
		_, ok := tr.Get("a")
		require.True(t, ok)

		assert.Eventually(t, func() bool {
			_, ok := tr.Get("a")
			return !ok
		}, time.Second, 10*time.Millisecond)
	})

	t.Run("latest wins", func(t *testing.T) {
		t.Parallel()
		tr := tracker.New(tracker.Config{})

		tr.Record(uploader.Snapshot{Batch: "a", Event: uploader.EventStart})
		tr.Record(uploader.Snapshot{Batch: "a", Event: uploader.EventEnd})

		got, ok := tr.Get("a")
		require.True(t, ok)
		assert.Equal(t, uploader.EventEnd, got.Event)
	})

	t.Run("empty batch ignored", func(t *testing.T) {
		t.Parallel()
		tr := tracker.New(tracker.Config{})
		tr.Record(uploader.Snapshot{})
		assert.Zero(t, tr.Len())
	})
}
