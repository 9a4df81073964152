package trace

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phanxgames/gesture"
)

func TestLoadAndReplay(t *testing.T) {
	tests := []struct {
		file string
		want []gesture.Type
	}{
		{"doubletap.yaml", []gesture.Type{gesture.TypeTap, gesture.TypeTap, gesture.TypeLongPress}},
		{"swipe.yaml", []gesture.Type{gesture.TypeSwipe}},
	}
	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			f, err := Load(filepath.Join("testdata", tt.file))
			require.NoError(t, err)

			res, err := Replay(f, gesture.DefaultOptions(), zerolog.Nop())
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.Types())
			assert.NoError(t, res.Check(f.Expect))
		})
	}
}

func TestReplay_Details(t *testing.T) {
	f, err := Load(filepath.Join("testdata", "doubletap.yaml"))
	require.NoError(t, err)
	res, err := Replay(f, gesture.DefaultOptions(), zerolog.Nop())
	require.NoError(t, err)
	require.Len(t, res.Events, 3)

	second, ok := res.Events[1].Gesture.(gesture.Tap)
	require.True(t, ok)
	assert.Equal(t, 2, second.Count)
	assert.Equal(t, 240*time.Millisecond, res.Events[1].At)

	lp, ok := res.Events[2].Gesture.(gesture.LongPress)
	require.True(t, ok)
	assert.Equal(t, gesture.LongPress{X: 30, Y: 40}, lp)
	assert.Equal(t, 2400.0, res.Events[2].AtMs, "fires on the tick that reaches the delay")
}

func TestReplay_FileOptionsOverrideBase(t *testing.T) {
	f, err := Parse([]byte(`
options: {tapMaxDistance: 50}
steps:
  - {type: touchstart, at: 0, touches: [{id: 1, x: 0, y: 0}]}
  - {type: touchend, at: 100, touches: [{id: 1, x: 30, y: 0}]}
`))
	require.NoError(t, err)

	res, err := Replay(f, gesture.DefaultOptions(), zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, []gesture.Type{gesture.TypeTap}, res.Types())

	f.Options = gesture.FileOptions{}
	res, err = Replay(f, gesture.DefaultOptions(), zerolog.Nop())
	require.NoError(t, err)
	assert.Empty(t, res.Events, "30px is too far for a default tap and too short for a swipe")
}

func TestReplay_MultiTouchNeedsCapabilityOnlyForSupport(t *testing.T) {
	f, err := Parse([]byte(`
steps:
  - {type: touchstart, at: 0, touches: [{id: 1, x: 100, y: 100}, {id: 2, x: 150, y: 100}]}
  - {type: touchmove, at: 30, touches: [{id: 2, x: 200, y: 100}]}
  - {type: touchend, at: 60, touches: [{id: 1, x: 100, y: 100}, {id: 2, x: 200, y: 100}]}
expect: [pinch]
`))
	require.NoError(t, err)
	res, err := Replay(f, gesture.DefaultOptions(), zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, res.Check(f.Expect))
	pinch := res.Events[0].Gesture.(gesture.Pinch)
	assert.Equal(t, 2.0, pinch.Scale)
}

func TestCheck_Mismatch(t *testing.T) {
	res := &Result{Events: []Recorded{{Type: gesture.TypeTap}}}
	err := res.Check([]gesture.Type{gesture.TypeSwipe})
	require.ErrorIs(t, err, ErrMismatch)
	assert.Contains(t, err.Error(), "got [tap], want [swipe]")

	assert.ErrorIs(t, res.Check([]gesture.Type{gesture.TypeTap, gesture.TypeTap}), ErrMismatch)
	assert.NoError(t, res.Check(nil))
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want error
	}{
		{"no steps", "name: empty\n", ErrNoSteps},
		{"unknown type", "steps: [{type: keydown, at: 0}]\n", ErrBadStep},
		{"tick and type", "steps: [{type: mouseup, at: 0, tick: 5}]\n", ErrBadStep},
		{"negative tick", "steps: [{tick: -1}]\n", ErrBadStep},
		{"negative time", "steps: [{type: mouseup, at: -3}]\n", ErrBadStep},
		{"bad options", "options: {pinchThreshold: -2}\nsteps: [{tick: 1}]\n", gesture.ErrInvalidOptions},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			assert.ErrorIs(t, err, tt.want)
		})
	}

	_, err := Parse([]byte("steps: [unclosed"))
	assert.Error(t, err)
	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestParse_JSON(t *testing.T) {
	f, err := Parse([]byte(`{"steps":[{"type":"pointerdown","at":0,"x":5,"y":5,"pointerType":"pen","pointerId":3},{"tick":10}]}`))
	require.NoError(t, err)
	require.Len(t, f.Steps, 2)
	assert.Equal(t, "pen", f.Steps[0].PointerType)
	assert.True(t, f.Steps[1].IsTick())
}

func TestRecorderSaveLoadReplays(t *testing.T) {
	src := gesture.NewSurface(gesture.AllCapabilities)
	rec := NewRecorder("session", gesture.AllCapabilities, gesture.DefaultOptions())
	src.Attach(gesture.ScopeDocument, rec.Record)

	src.Dispatch(gesture.RawEvent{Type: gesture.RawTouchStart, Time: 0, Touches: []gesture.Touch{{ID: 4, X: 10, Y: 10}}})
	src.Dispatch(gesture.RawEvent{Type: gesture.RawTouchMove, Time: 50 * time.Millisecond, Touches: []gesture.Touch{{ID: 4, X: 10, Y: 80}}})
	src.Dispatch(gesture.RawEvent{Type: gesture.RawTouchEnd, Time: 100 * time.Millisecond, Touches: []gesture.Touch{{ID: 4, X: 10, Y: 90}}})
	rec.Tick(1000)
	rec.Expect(gesture.TypeSwipe)
	assert.Equal(t, 4, rec.Len())

	path := filepath.Join(t.TempDir(), "session.yaml")
	require.NoError(t, Save(path, rec.File()))

	f, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "session", f.Name)
	require.NotNil(t, f.Capabilities)
	assert.True(t, f.Capabilities.MultiTouch)

	res, err := Replay(f, gesture.Options{}, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, res.Check(f.Expect))
	swipe := res.Events[0].Gesture.(gesture.Swipe)
	assert.Equal(t, gesture.DirectionDown, swipe.Direction)
}

func TestWrite_YAMLShape(t *testing.T) {
	var buf bytes.Buffer
	f := &File{Steps: []Step{
		{Event: Event{Type: gesture.RawMouseDown, At: 1.5, X: 2, Y: 3}},
		TickAt(9),
	}}
	require.NoError(t, Write(&buf, f))
	out := buf.String()
	assert.Contains(t, out, "type: mousedown")
	assert.Contains(t, out, "tick: 9")
	assert.NotContains(t, out, "touches")
}
