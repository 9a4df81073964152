package trace

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phanxgames/gesture"
)

func replayBuilt(t *testing.T, b *Builder) *Result {
	t.Helper()
	res, err := Replay(b.File(), gesture.DefaultOptions(), zerolog.Nop())
	require.NoError(t, err)
	return res
}

func TestBuilder_DragInterpolates(t *testing.T) {
	f := NewBuilder(10).Drag(0, 0, 90, 0, 5).File()

	require.Len(t, f.Steps, 5)
	xs := make([]float64, len(f.Steps))
	ats := make([]float64, len(f.Steps))
	for i, s := range f.Steps {
		xs[i] = s.X
		ats[i] = s.At
	}
	assert.Equal(t, []float64{0, 22.5, 45, 67.5, 90}, xs)
	assert.Equal(t, []float64{0, 10, 20, 30, 40}, ats)
	assert.Equal(t, gesture.RawMouseDown, f.Steps[0].Type)
	assert.Equal(t, gesture.RawMouseUp, f.Steps[4].Type)
}

func TestBuilder_DragMinimumFrames(t *testing.T) {
	f := NewBuilder(0).Drag(0, 0, 10, 10, 0).File()
	require.Len(t, f.Steps, 2)
	assert.InDelta(t, DefaultFrame, f.Steps[1].At, 1e-9)
}

func TestBuilder_Gestures(t *testing.T) {
	tests := []struct {
		name  string
		build func(b *Builder)
		want  []gesture.Type
	}{
		{"click", func(b *Builder) { b.Click(5, 5) }, []gesture.Type{gesture.TypeTap}},
		{"double click", func(b *Builder) { b.Click(5, 5).Click(6, 5) }, []gesture.Type{gesture.TypeTap, gesture.TypeTap}},
		{"fast drag", func(b *Builder) { b.Drag(0, 0, 0, 200, 8) }, []gesture.Type{gesture.TypeSwipe}},
		{"slow drag", func(b *Builder) { b.Drag(0, 0, 0, 200, 60) }, nil},
		{"hold", func(b *Builder) { b.Hold(5, 5, 700) }, []gesture.Type{gesture.TypeLongPress}},
		{"short hold", func(b *Builder) { b.Hold(5, 5, 100) }, []gesture.Type{gesture.TypeTap}},
		{"press then wait", func(b *Builder) { b.Press(1, 1).Wait(600) }, []gesture.Type{gesture.TypeLongPress}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBuilder(DefaultFrame)
			tt.build(b)
			res := replayBuilt(t, b)
			if tt.want == nil {
				assert.Empty(t, res.Events)
				return
			}
			assert.Equal(t, tt.want, res.Types())
		})
	}
}

func TestBuilder_DoubleClickCounts(t *testing.T) {
	res := replayBuilt(t, NewBuilder(20).Click(5, 5).Click(5, 5).Click(5, 5))
	require.Len(t, res.Events, 3)
	assert.Equal(t, 3, res.Events[2].Gesture.(gesture.Tap).Count)
}

func TestBuilder_ExpectAndNow(t *testing.T) {
	b := NewBuilder(10).Click(1, 1).Expect(gesture.TypeTap)
	assert.Equal(t, 20.0, b.Now())
	f := b.File()
	assert.Equal(t, []gesture.Type{gesture.TypeTap}, f.Expect)
	require.NoError(t, f.Validate())
}
