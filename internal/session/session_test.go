package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gallery-engine/internal/assemble"
	"gallery-engine/internal/focus"
	"gallery-engine/internal/gallery"
	"gallery-engine/internal/navigation"
)

type surface struct {
	captured bool
	requests int
}

func (s *surface) RequestPointerCapture() { s.requests++ }
func (s *surface) ExitPointerCapture()    { s.captured = false }
func (s *surface) PointerCaptured() bool  { return s.captured }

type recorder struct {
	focused []focus.ArtworkFocused
	likes   []string
	spent   []float64
}

func (r *recorder) ArtworkFocused(_ string, ev focus.ArtworkFocused) { r.focused = append(r.focused, ev) }
func (r *recorder) LikeToggled(_, id string)                          { r.likes = append(r.likes, id) }
func (r *recorder) TimeSpent(_ string, s float64)                     { r.spent = append(r.spent, s) }

const dt = 1.0 / 60

var t0 = time.Unix(10000, 0)

func config() assemble.Config {
	return assemble.Assemble(gallery.Exhibition{
		ID: "e1",
		Gallery: gallery.GalleryRef{Template: &gallery.Template{
			Dimensions:    gallery.RoomDimensions{XAxis: 10, YAxis: 4, ZAxis: 20},
			WallThickness: 0.2,
			WallHeight:    4,
			ArtworkPlacements: []gallery.Placement{
				{Position: Vec3{0, 2, -9.85}},
			},
		}},
		ArtworkPositions: []gallery.ArtworkPosition{
			{Artwork: gallery.Artwork{ID: "a1"}, PositionIndex: 0},
		},
	}, "en")
}

func run(s *Session, from time.Time, frames int) (time.Time, Snapshot) {
	var snap Snapshot
	now := from
	for i := 0; i < frames; i++ {
		now = now.Add(time.Second / 60)
		snap = s.Frame(now, dt)
	}
	return now, snap
}

func TestNew(t *testing.T) {
	s := New(config(), &surface{}, t0, Options{})
	assert.Equal(t, 4, s.Colliders.Count())
	assert.Equal(t, len(s.Colliders.Boxes()), s.World.Len())
	assert.Equal(t, Vec3{0, 0, 5}, s.Body.Position)
	assert.Equal(t, Vec3{0, 2, 5}, s.Camera.Position)
}

func TestWalkFocusAndReturn(t *testing.T) {
	surf := &surface{}
	rec := &recorder{}
	s := New(config(), surf, t0, Options{Outbound: rec})

	s.Enqueue(Activate{})
	now, snap := run(s, t0, 1)
	assert.Equal(t, "requesting", snap.State)

	now, _ = run(s, now, 10)
	require.Equal(t, 1, surf.requests)
	surf.captured = true
	s.Enqueue(navigation.CaptureChanged{Captured: true})
	s.Enqueue(navigation.KeyDown{Code: "KeyW"})
	now, snap = run(s, now, 60)
	assert.Equal(t, "captured", snap.State)
	assert.Less(t, snap.Position[2], 4.0)

	s.Enqueue(navigation.KeyUp{Code: "KeyW"})
	s.Enqueue(Select{ArtworkID: "a1"})
	now, snap = run(s, now, 1)
	assert.True(t, snap.Locked)
	assert.Equal(t, "a1", snap.TargetID)
	require.Len(t, snap.Focused, 1)
	require.Len(t, rec.focused, 1)
	assert.False(t, surf.captured, "capture released before the animation")
	assert.Equal(t, "transition", snap.State)

	now, snap = run(s, now, 100)
	assert.Empty(t, snap.Focused)
	assert.InDelta(t, -9.85+focus.ViewDistance, snap.Position[2], 1e-9)
	assert.InDelta(t, 2.2, snap.Position[1], 1e-9)

	s.Enqueue(CloseArtwork{})
	now, snap = run(s, now, 1)
	assert.False(t, snap.Locked)
	assert.True(t, s.State.TransitioningBack)
	assert.Equal(t, 2, surf.requests)

	surf.captured = true
	s.Enqueue(navigation.CaptureChanged{Captured: true})
	now, snap = run(s, now, 1)
	assert.False(t, s.State.TransitioningBack)
	assert.Equal(t, "captured", snap.State)

	s.Enqueue(Like{ArtworkID: "a1"})
	now, _ = run(s, now, 1)
	assert.Equal(t, []string{"a1"}, rec.likes)

	s.Close(now)
	assert.False(t, surf.captured)
	require.Len(t, rec.spent, 1)
	assert.InDelta(t, now.Sub(t0).Seconds(), rec.spent[0], 1e-9)
	assert.Zero(t, s.World.Len())

	s.Close(now)
	assert.Len(t, rec.spent, 1)
}

func TestResumeClearsTarget(t *testing.T) {
	surf := &surface{}
	s := New(config(), surf, t0, Options{})
	s.Enqueue(Select{ArtworkID: "a1"})
	now, snap := run(s, t0, 1)
	require.True(t, snap.Locked)

	s.Enqueue(Resume{})
	now, snap = run(s, now, 1)
	assert.False(t, snap.Locked)
	assert.True(t, s.Nav.Active())

	_, _ = run(s, now, 10)
	assert.Equal(t, 1, surf.requests)
}

func TestResumeWhileNavigatingRequestsOnce(t *testing.T) {
	surf := &surface{captured: true}
	s := New(config(), surf, t0, Options{})
	s.Enqueue(Activate{})
	now, _ := run(s, t0, 1)

	s.Enqueue(Select{ArtworkID: "a1"})
	s.Enqueue(Resume{})
	now, snap := run(s, now, 1)
	assert.False(t, snap.Locked)
	assert.True(t, s.State.TransitioningBack)
	assert.Equal(t, 1, surf.requests)

	_, _ = run(s, now, 10)
	assert.Equal(t, 1, surf.requests)
}

func TestExit(t *testing.T) {
	surf := &surface{captured: true}
	s := New(config(), surf, t0, Options{})
	s.Enqueue(Activate{})
	s.Enqueue(Select{ArtworkID: "a1"})
	s.Enqueue(Exit{})
	_, snap := run(s, t0, 1)
	assert.Equal(t, "free", snap.State)
	assert.False(t, snap.Locked)
	assert.False(t, surf.captured)
	assert.False(t, s.State.TransitioningBack)
}

func TestQueueBound(t *testing.T) {
	s := New(config(), &surface{}, t0, Options{MaxQueue: 2})
	s.Enqueue(navigation.KeyDown{Code: "KeyW"})
	s.Enqueue(navigation.KeyDown{Code: "KeyA"})
	s.Enqueue(navigation.KeyDown{Code: "KeyD"})
	require.Len(t, s.queue, 2)
	assert.Equal(t, navigation.KeyDown{Code: "KeyA"}, s.queue[0])

	s.Frame(t0, dt)
	assert.Empty(t, s.queue)
	assert.True(t, s.Nav.Keys()[navigation.Right])
	assert.False(t, s.Nav.Keys()[navigation.Forward])
}

func TestClosedSessionIgnoresEvents(t *testing.T) {
	s := New(config(), &surface{}, t0, Options{})
	s.Close(t0)
	s.Enqueue(Activate{})
	assert.Empty(t, s.queue)
	snap := s.Frame(t0.Add(time.Second), dt)
	assert.Equal(t, "free", snap.State)
}
