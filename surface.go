package gesture

import "sync"

// Scope selects which raw events a listener receives.
type Scope uint8

const (
	// ScopeElement receives events whose target is inside the bound element.
	ScopeElement Scope = iota
	// ScopeDocument receives every event, including those outside the
	// element, so drags that leave the element keep being tracked.
	ScopeDocument

	scopeCount
)

// Capabilities describes which raw inputs a source can deliver.
type Capabilities struct {
	Touch      bool `json:"touch" yaml:"touch"`
	MultiTouch bool `json:"multiTouch" yaml:"multiTouch"`
	Mouse      bool `json:"mouse" yaml:"mouse"`
}

// AllCapabilities reports touch, multi-touch and mouse support.
var AllCapabilities = Capabilities{Touch: true, MultiTouch: true, Mouse: true}

// Source delivers raw input for one bound element.
type Source interface {
	// Attach starts delivering events of the given scope to fn and returns a
	// function that stops delivery. The returned function is safe to call
	// more than once.
	Attach(scope Scope, fn func(RawEvent)) (detach func())
	// Capabilities reports which raw inputs the host can produce.
	Capabilities() Capabilities
}

type surfaceListener struct {
	id uint32
	fn func(RawEvent)
}

// Surface is an in-memory Source. Hosts that receive input from elsewhere
// (a test, a trace file, a network bridge, a game loop) push events into it
// with Dispatch.
type Surface struct {
	mu        sync.Mutex
	caps      Capabilities
	listeners [scopeCount][]surfaceListener
	nextID    uint32
}

// NewSurface creates a surface reporting the given capabilities.
func NewSurface(caps Capabilities) *Surface {
	return &Surface{caps: caps}
}

// Capabilities implements Source.
func (s *Surface) Capabilities() Capabilities {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.caps
}

// SetCapabilities replaces the reported capabilities.
func (s *Surface) SetCapabilities(caps Capabilities) {
	s.mu.Lock()
	s.caps = caps
	s.mu.Unlock()
}

// Attach implements Source.
func (s *Surface) Attach(scope Scope, fn func(RawEvent)) func() {
	if scope >= scopeCount || fn == nil {
		return func() {}
	}
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.listeners[scope] = append(s.listeners[scope], surfaceListener{id: id, fn: fn})
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { s.detach(scope, id) })
	}
}

func (s *Surface) detach(scope Scope, id uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ls := s.listeners[scope]
	for i := range ls {
		if ls[i].id == id {
			copy(ls[i:], ls[i+1:])
			ls[len(ls)-1] = surfaceListener{}
			s.listeners[scope] = ls[:len(ls)-1]
			return
		}
	}
}

// Dispatch delivers raw to element listeners (unless raw.Outside is set) and
// then to document listeners, like a DOM event bubbling from the element to
// the document. Listeners attached or detached during delivery take effect on
// the next Dispatch.
func (s *Surface) Dispatch(raw RawEvent) {
	s.mu.Lock()
	var element []surfaceListener
	if !raw.Outside {
		element = append(element, s.listeners[ScopeElement]...)
	}
	document := append([]surfaceListener(nil), s.listeners[ScopeDocument]...)
	s.mu.Unlock()

	for _, l := range element {
		l.fn(raw)
	}
	for _, l := range document {
		l.fn(raw)
	}
}

// Listeners returns the number of listeners attached for scope.
func (s *Surface) Listeners(scope Scope) int {
	if scope >= scopeCount {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.listeners[scope])
}
