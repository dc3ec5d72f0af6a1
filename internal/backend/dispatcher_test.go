package backend

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gallery-engine/internal/focus"
)

type fakeAPI struct {
	mu    sync.Mutex
	likes []string
	times []float64
	gate  chan struct{}
	fail  bool
}

func (f *fakeAPI) wait() {
	if f.gate != nil {
		<-f.gate
	}
}

func (f *fakeAPI) RecordTime(_ context.Context, _ string, s float64) error {
	f.wait()
	f.mu.Lock()
	defer f.mu.Unlock()
	f.times = append(f.times, s)
	if f.fail {
		return errors.New("down")
	}
	return nil
}

func (f *fakeAPI) ToggleLike(_ context.Context, _, id string) error {
	f.wait()
	f.mu.Lock()
	defer f.mu.Unlock()
	f.likes = append(f.likes, id)
	return nil
}

func TestDispatcherDelivers(t *testing.T) {
	api := &fakeAPI{}
	d := NewDispatcher(api, DispatcherOptions{})
	d.LikeToggled("e1", "a1")
	d.TimeSpent("e1", 12)
	d.TimeSpent("e1", 0)
	d.ArtworkFocused("e1", focus.ArtworkFocused{ArtworkID: "a1"})
	require.NoError(t, d.Close(context.Background()))

	assert.Equal(t, []string{"a1"}, api.likes)
	assert.Equal(t, []float64{12}, api.times)
	sent, failed, dropped := d.Stats()
	assert.Equal(t, int64(2), sent)
	assert.Zero(t, failed)
	assert.Zero(t, dropped)
}

func TestDispatcherNeverBlocks(t *testing.T) {
	api := &fakeAPI{gate: make(chan struct{})}
	d := NewDispatcher(api, DispatcherOptions{Workers: 1, Queue: 1})

	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			d.LikeToggled("e1", "a1")
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("submit blocked")
	}

	close(api.gate)
	require.NoError(t, d.Close(context.Background()))
	sent, _, dropped := d.Stats()
	assert.Equal(t, int64(10), sent+dropped)
	assert.GreaterOrEqual(t, dropped, int64(8))
}

func TestDispatcherFailuresAndClose(t *testing.T) {
	api := &fakeAPI{fail: true}
	d := NewDispatcher(api, DispatcherOptions{})
	d.TimeSpent("e1", 3)
	require.NoError(t, d.Close(context.Background()))
	require.NoError(t, d.Close(context.Background()))

	d.TimeSpent("e1", 3)
	_, failed, dropped := d.Stats()
	assert.Equal(t, int64(1), failed)
	assert.Equal(t, int64(1), dropped)
}
