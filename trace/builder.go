package trace

import "github.com/phanxgames/gesture"

// DefaultFrame is the time between synthesized events, one 60Hz frame.
const DefaultFrame = 1000.0 / 60

// Builder synthesizes mouse traces one frame at a time. Each press, move and
// release occupies one frame; Wait skips frames without input.
type Builder struct {
	file  File
	at    float64
	frame float64
	down  bool
}

// NewBuilder starts a trace whose events are frame milliseconds apart. A
// non-positive frame uses DefaultFrame.
func NewBuilder(frame float64) *Builder {
	if frame <= 0 {
		frame = DefaultFrame
	}
	return &Builder{frame: frame}
}

// Now returns the time the next event will carry.
func (b *Builder) Now() float64 { return b.at }

func (b *Builder) mouse(typ gesture.RawType, x, y float64) *Builder {
	b.file.Steps = append(b.file.Steps, Step{Event: Event{Type: typ, At: b.at, X: x, Y: y}})
	b.at += b.frame
	return b
}

// Press queues a left-button press at (x, y).
func (b *Builder) Press(x, y float64) *Builder {
	b.down = true
	return b.mouse(gesture.RawMouseDown, x, y)
}

// Move queues a move to (x, y) with the button held.
func (b *Builder) Move(x, y float64) *Builder {
	return b.mouse(gesture.RawMouseMove, x, y)
}

// Release queues a button release at (x, y).
func (b *Builder) Release(x, y float64) *Builder {
	b.down = false
	return b.mouse(gesture.RawMouseUp, x, y)
}

// Click queues a press followed by a release at the same position. It
// consumes two frames.
func (b *Builder) Click(x, y float64) *Builder {
	return b.Press(x, y).Release(x, y)
}

// Drag queues a press at (fromX, fromY), linearly interpolated moves over
// frames-2 intermediate frames and a release at (toX, toY). The sequence
// consumes frames frames; the minimum is 2 (press and release).
func (b *Builder) Drag(fromX, fromY, toX, toY float64, frames int) *Builder {
	if frames < 2 {
		frames = 2
	}
	b.Press(fromX, fromY)
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps+1)
		b.Move(fromX+(toX-fromX)*t, fromY+(toY-fromY)*t)
	}
	return b.Release(toX, toY)
}

// Hold queues a press at (x, y) and its release after ms milliseconds. Deferred
// gestures due in between run on a tick at the release time.
func (b *Builder) Hold(x, y, ms float64) *Builder {
	b.Press(x, y)
	b.at += ms - b.frame
	if b.at < 0 {
		b.at = 0
	}
	b.file.Steps = append(b.file.Steps, TickAt(b.at))
	return b.Release(x, y)
}

// Wait advances the clock by ms without input and ticks the Manager there.
func (b *Builder) Wait(ms float64) *Builder {
	b.at += ms
	b.file.Steps = append(b.file.Steps, TickAt(b.at))
	return b
}

// Expect sets the gesture types the trace should produce.
func (b *Builder) Expect(types ...gesture.Type) *Builder {
	b.file.Expect = append([]gesture.Type(nil), types...)
	return b
}

// File returns the trace built so far. A held button is left pressed.
func (b *Builder) File() *File {
	f := b.file
	f.Steps = append([]Step(nil), b.file.Steps...)
	return &f
}
