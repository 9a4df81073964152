package trace

import (
	"sync"

	"github.com/phanxgames/gesture"
)

// Recorder captures raw events into a File. Attach Record to a source at
// document scope to capture everything the source delivers.
type Recorder struct {
	mu   sync.Mutex
	file File
}

// NewRecorder starts an empty trace with the given capabilities and options.
func NewRecorder(name string, caps gesture.Capabilities, opts gesture.Options) *Recorder {
	return &Recorder{file: File{
		Name:         name,
		Capabilities: &caps,
		Options:      gesture.FileOptionsFrom(opts),
	}}
}

// Record appends raw as an input step.
func (r *Recorder) Record(raw gesture.RawEvent) {
	r.mu.Lock()
	r.file.Steps = append(r.file.Steps, Step{Event: FromRaw(raw)})
	r.mu.Unlock()
}

// Tick appends a clock advance to ms.
func (r *Recorder) Tick(ms float64) {
	r.mu.Lock()
	r.file.Steps = append(r.file.Steps, TickAt(ms))
	r.mu.Unlock()
}

// Expect sets the gesture types the trace is expected to produce.
func (r *Recorder) Expect(types ...gesture.Type) {
	r.mu.Lock()
	r.file.Expect = append([]gesture.Type(nil), types...)
	r.mu.Unlock()
}

// Len returns the number of recorded steps.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.file.Steps)
}

// File returns a copy of the trace recorded so far.
func (r *Recorder) File() *File {
	r.mu.Lock()
	defer r.mu.Unlock()
	f := r.file
	f.Steps = append([]Step(nil), r.file.Steps...)
	f.Expect = append([]gesture.Type(nil), r.file.Expect...)
	return &f
}
