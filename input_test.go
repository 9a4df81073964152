package gesture

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRawTypeKind(t *testing.T) {
	tests := []struct {
		typ  RawType
		want Kind
		ok   bool
	}{
		{RawTouchStart, KindStart, true},
		{RawMouseDown, KindStart, true},
		{RawPointerDown, KindStart, true},
		{RawTouchMove, KindMove, true},
		{RawMouseMove, KindMove, true},
		{RawPointerMove, KindMove, true},
		{RawTouchEnd, KindEnd, true},
		{RawMouseUp, KindEnd, true},
		{RawPointerUp, KindEnd, true},
		{RawTouchCancel, KindCancel, true},
		{RawPointerCancel, KindCancel, true},
		{"wheel", 0, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.typ), func(t *testing.T) {
			got, ok := tt.typ.Kind()
			assert.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestNormalize_Touch(t *testing.T) {
	var n Normalizer
	in, ok := n.Normalize(touchEvent(RawTouchStart, 5, Touch{ID: 3, X: 1, Y: 2}, Touch{ID: 4, X: 5, Y: 6}))
	require.True(t, ok)
	assert.Equal(t, KindStart, in.Kind)
	assert.Equal(t, SourceTouch, in.Source)
	assert.Equal(t, ms(5), in.Time)
	assert.Equal(t, []Pointer{{ID: 3, X: 1, Y: 2}, {ID: 4, X: 5, Y: 6}}, in.Pointers)

	_, ok = n.Normalize(touchEvent(RawTouchMove, 6))
	assert.False(t, ok, "touch move without touches carries nothing")

	in, ok = n.Normalize(touchEvent(RawTouchCancel, 7))
	require.True(t, ok, "cancel is meaningful without touches")
	assert.Equal(t, KindCancel, in.Kind)
}

func TestNormalize_Mouse(t *testing.T) {
	var n Normalizer

	_, ok := n.Normalize(mouseEvent(RawMouseMove, 0, 1, 1))
	assert.False(t, ok, "hover moves are dropped")

	secondary := mouseEvent(RawMouseDown, 1, 1, 1)
	secondary.Button = 2
	_, ok = n.Normalize(secondary)
	assert.False(t, ok, "secondary buttons are dropped")

	in, ok := n.Normalize(mouseEvent(RawMouseDown, 2, 10, 20))
	require.True(t, ok)
	assert.Equal(t, SourceMouse, in.Source)
	assert.Equal(t, []Pointer{{ID: MousePointerID, X: 10, Y: 20}}, in.Pointers)

	in, ok = n.Normalize(mouseEvent(RawMouseMove, 3, 15, 20))
	require.True(t, ok)
	assert.Equal(t, KindMove, in.Kind)

	in, ok = n.Normalize(mouseEvent(RawMouseUp, 4, 15, 20))
	require.True(t, ok)
	assert.Equal(t, KindEnd, in.Kind)

	_, ok = n.Normalize(mouseEvent(RawMouseUp, 5, 15, 20))
	assert.False(t, ok, "release without press is dropped")
}

func TestNormalize_EmulatedMouseAfterTouch(t *testing.T) {
	var n Normalizer
	_, ok := n.Normalize(touchEvent(RawTouchEnd, 100, Touch{ID: 1}))
	require.True(t, ok)

	_, ok = n.Normalize(mouseEvent(RawMouseDown, 150, 0, 0))
	assert.False(t, ok, "mouse events right after touch are emulated")

	_, ok = n.Normalize(mouseEvent(RawMouseDown, 1000, 0, 0))
	assert.True(t, ok, "mouse events well after touch are genuine")
}

func TestNormalize_PointerEvents(t *testing.T) {
	var n Normalizer

	in, ok := n.Normalize(RawEvent{Type: RawPointerDown, PointerType: "touch", PointerID: 7, X: 3, Y: 4})
	require.True(t, ok)
	assert.Equal(t, SourceTouch, in.Source)
	assert.Equal(t, 7, in.Pointers[0].ID)

	in, ok = n.Normalize(RawEvent{Type: RawPointerMove, PointerType: "pen", PointerID: 9})
	require.True(t, ok)
	assert.Equal(t, SourcePen, in.Source)

	in, ok = n.Normalize(RawEvent{Type: RawPointerUp, PointerType: "mouse", PointerID: 1})
	require.True(t, ok)
	assert.Equal(t, SourceMouse, in.Source)
	assert.Equal(t, MousePointerID, in.Pointers[0].ID)

	_, ok = n.Normalize(RawEvent{Type: RawPointerDown, PointerType: "mouse", Button: 1})
	assert.False(t, ok)
}
