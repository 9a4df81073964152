package gesture

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// State is the phase of the Manager's interaction state machine.
type State uint8

const (
	StateIdle      State = iota // no interaction; listening for start input only
	StateTracking               // an interaction is in progress
	StateResolved               // transient: the interaction produced its gesture
	StateCancelled              // transient: the interaction was abandoned
)

var stateNames = [...]string{"idle", "tracking", "resolved", "cancelled"}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "unknown"
}

// Handler receives recognized gestures.
type Handler func(Event)

type handlerEntry struct {
	id uint32
	fn Handler
}

type handlerRegistry struct {
	byType [typeCount][]handlerEntry
	nextID uint32
}

func (r *handlerRegistry) add(t Type, fn Handler) uint32 {
	r.nextID++
	r.byType[t] = append(r.byType[t], handlerEntry{id: r.nextID, fn: fn})
	return r.nextID
}

func (r *handlerRegistry) remove(t Type, id uint32) bool {
	s := r.byType[t]
	for i := range s {
		if s[i].id == id {
			copy(s[i:], s[i+1:])
			s[len(s)-1] = handlerEntry{}
			r.byType[t] = s[:len(s)-1]
			return true
		}
	}
	return false
}

// Subscription identifies one registration made with Manager.On.
type Subscription struct {
	id  uint32
	typ Type
	m   *Manager
}

// Remove unregisters the handler. Removing twice is a no-op.
func (s Subscription) Remove() {
	if s.m != nil {
		s.m.Off(s)
	}
}

// Type returns the gesture type the subscription listens for.
func (s Subscription) Type() Type { return s.typ }

// Manager recognizes gestures on one input source. It attaches element-scope
// listeners while enabled, adds a document-scope listener for the duration of
// each interaction, runs the detectors and emits gestures to subscribers.
//
// All methods are safe for concurrent use. Handlers run after the Manager's
// lock is released, so they may call any Manager method.
type Manager struct {
	mu   sync.Mutex
	src  Source
	opts Options
	log  zerolog.Logger

	enabled   bool
	destroyed bool
	// gen counts Disable calls. A batch collected before Disable is dropped
	// instead of delivered.
	gen            uint64
	detachElement  func()
	detachDocument func()

	norm  Normalizer
	sched Scheduler

	phase          State
	state          *GestureState
	source         PointerSource
	pinching       bool
	pinchEmitted   bool
	longPress      *Task
	longPressFired bool

	lastTap  TapRecord
	tapReset *Task

	handlers handlerRegistry
	pending  []Event
}

// batch is the gestures produced by one input or tick, tagged with the
// generation they were produced in.
type batch struct {
	events []Event
	gen    uint64
}

// New creates a Manager bound to src. Zero numeric options take defaults;
// negative ones are rejected. When opts.EnableGestures is set the Manager
// starts listening immediately.
func New(src Source, opts Options) (*Manager, error) {
	if src == nil {
		return nil, ErrNilSource
	}
	opts = opts.withDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	m := &Manager{src: src, opts: opts, log: zerolog.Nop()}
	if opts.EnableGestures {
		m.Enable()
	}
	return m, nil
}

// SetLogger replaces the logger. The default discards everything.
func (m *Manager) SetLogger(l zerolog.Logger) {
	m.mu.Lock()
	m.log = l
	m.mu.Unlock()
}

// Options returns the thresholds in effect.
func (m *Manager) Options() Options {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.opts
}

// State returns the current phase: StateIdle or StateTracking.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.phase
}

// Enabled reports whether the Manager is listening for input.
func (m *Manager) Enabled() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.enabled
}

// Destroyed reports whether Destroy has been called.
func (m *Manager) Destroyed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.destroyed
}

// Enable attaches the element listeners. It is a no-op when already enabled
// or destroyed.
func (m *Manager) Enable() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.destroyed || m.enabled {
		return
	}
	m.enabled = true
	m.detachElement = m.src.Attach(ScopeElement, m.handleElement)
	m.log.Debug().Msg("gesture: enabled")
}

// Disable detaches all listeners and cancels any interaction in flight,
// including a pending long-press. Calling it while disabled is a no-op.
func (m *Manager) Disable() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.disableLocked()
}

func (m *Manager) disableLocked() {
	if !m.enabled {
		return
	}
	m.enabled = false
	m.gen++
	m.resetLocked(StateCancelled, "disabled")
	m.clearTapLocked()
	m.norm.Reset()
	if m.detachElement != nil {
		m.detachElement()
		m.detachElement = nil
	}
	m.log.Debug().Msg("gesture: disabled")
}

// Destroy disables the Manager, cancels every deferred task and drops all
// subscriptions. It is idempotent; a destroyed Manager cannot be enabled.
func (m *Manager) Destroy() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.destroyed {
		return
	}
	m.disableLocked()
	m.sched.CancelAll()
	m.longPress = nil
	m.tapReset = nil
	m.handlers = handlerRegistry{}
	m.pending = nil
	m.destroyed = true
	m.log.Debug().Msg("gesture: destroyed")
}

// On registers fn for gestures of type t. Registering the same function
// twice creates two independent subscriptions. On a destroyed Manager it
// returns a Subscription whose Remove does nothing.
func (m *Manager) On(t Type, fn Handler) Subscription {
	if fn == nil || t >= typeCount {
		return Subscription{}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.destroyed {
		return Subscription{}
	}
	id := m.handlers.add(t, fn)
	return Subscription{id: id, typ: t, m: m}
}

// Off removes exactly the registration identified by sub.
func (m *Manager) Off(sub Subscription) {
	if sub.m != m || sub.id == 0 {
		return
	}
	m.mu.Lock()
	m.handlers.remove(sub.typ, sub.id)
	m.mu.Unlock()
}

// IsSupported reports whether the source can deliver the raw input needed to
// recognize t.
func (m *Manager) IsSupported(t Type) bool {
	caps := m.src.Capabilities()
	switch t {
	case TypePinch:
		return caps.MultiTouch
	case TypeTap, TypeSwipe, TypeLongPress:
		return caps.Touch || caps.Mouse
	}
	return false
}

// Tick runs deferred work (long-press and tap-interval expiry) due at now,
// which must be on the same clock as the input timestamps. Hosts call it from
// their frame loop or timer.
func (m *Manager) Tick(now time.Duration) {
	m.emit(m.tick(now))
}

func (m *Manager) tick(now time.Duration) (b batch) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.destroyed {
		return batch{}
	}
	defer m.recoverLocked(&b)
	m.sched.RunDue(now)
	return m.takePendingLocked()
}

// Run calls Tick every interval with the time reported by now until ctx is
// done. It returns ctx.Err(), or ErrDestroyed if the Manager is destroyed
// while running.
func (m *Manager) Run(ctx context.Context, interval time.Duration, now func() time.Duration) error {
	if interval <= 0 {
		interval = 16 * time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if m.Destroyed() {
				return ErrDestroyed
			}
			m.Tick(now())
		}
	}
}

func (m *Manager) handleElement(raw RawEvent)  { m.handle(raw, ScopeElement) }
func (m *Manager) handleDocument(raw RawEvent) { m.handle(raw, ScopeDocument) }

func (m *Manager) handle(raw RawEvent, scope Scope) {
	m.emit(m.process(raw, scope))
}

// process runs one raw event through the state machine and returns the
// gestures it produced. Element listeners only start interactions; document
// listeners only continue or end them.
func (m *Manager) process(raw RawEvent, scope Scope) (b batch) {
	kind, ok := raw.Type.Kind()
	if !ok || (scope == ScopeElement) != (kind == KindStart) {
		return batch{}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.enabled {
		return batch{}
	}
	defer m.recoverLocked(&b)

	in, ok := m.norm.Normalize(raw)
	if !ok {
		return batch{}
	}
	m.sched.RunDue(in.Time)

	switch in.Kind {
	case KindStart:
		m.onStart(in)
	case KindMove:
		m.onMove(in)
	case KindEnd:
		m.onEnd(in)
	case KindCancel:
		m.onCancel(in)
	}
	return m.takePendingLocked()
}

func (m *Manager) onStart(in Input) {
	for _, p := range in.Pointers {
		if m.phase != StateTracking {
			m.beginLocked(in, p)
			continue
		}
		if in.Source != m.source {
			m.log.Debug().Stringer("source", in.Source).Msg("gesture: start from another device ignored")
			continue
		}
		if _, dup := m.state.touchIndex(p.ID); dup {
			m.resetLocked(StateCancelled, "duplicate start")
			m.beginLocked(in, p)
			continue
		}
		m.state.addTouch(p)
		m.joinLocked()
	}
}

func (m *Manager) beginLocked(in Input, p Pointer) {
	m.state = newGestureState(p, in.Time, in.Target)
	m.source = in.Source
	m.phase = StateTracking
	m.pinching = false
	m.pinchEmitted = false
	m.longPressFired = false
	if m.opts.LongPressDelay > 0 {
		m.longPress = m.sched.Schedule(in.Time+m.opts.LongPressDelay, m.fireLongPress)
	}
	if m.detachDocument == nil {
		m.detachDocument = m.src.Attach(ScopeDocument, m.handleDocument)
	}
	m.log.Debug().
		Stringer("source", in.Source).
		Int("pointer", p.ID).
		Float64("x", p.X).
		Float64("y", p.Y).
		Msg("gesture: tracking")
}

// joinLocked handles an additional pointer joining the interaction. The
// second pointer turns the interaction into a pinch session; further pointers
// are tracked but do not change the pinch pair.
func (m *Manager) joinLocked() {
	if len(m.state.ActiveTouches) != 2 || m.pinching {
		return
	}
	m.longPress.Cancel()
	m.longPress = nil
	if m.longPressFired {
		m.resetLocked(StateCancelled, "second pointer after long-press")
		return
	}
	a := m.state.ActiveTouches[0].Point()
	b := m.state.ActiveTouches[1].Point()
	m.state.StartDistance = Distance(a, b)
	m.state.StartAngle = Angle(a, b)
	m.state.PrevDistance = m.state.StartDistance
	m.state.PrevAngle = m.state.StartAngle
	m.pinching = true
	m.log.Debug().Float64("startDistance", m.state.StartDistance).Msg("gesture: pinch session")
}

func (m *Manager) onMove(in Input) {
	if m.phase != StateTracking {
		return
	}
	if in.Source != m.source {
		return
	}
	moved, pairMoved := false, false
	for _, p := range in.Pointers {
		i := m.state.updateTouch(p)
		if i >= 0 {
			moved = true
		}
		if i == 0 || i == 1 {
			pairMoved = true
		}
	}
	if !moved {
		return
	}

	if m.pinching {
		// Touches beyond the first two do not change the pinch.
		if !pairMoved || len(m.state.ActiveTouches) < 2 {
			return
		}
		ctx := m.contextLocked(in.Time)
		a := m.state.ActiveTouches[0].Point()
		b := m.state.ActiveTouches[1].Point()
		if pinch, ok := DetectPinch(ctx, a, b); ok {
			m.state.PrevDistance = Distance(a, b)
			m.state.PrevAngle = Angle(a, b)
			m.pinchEmitted = true
			m.pending = append(m.pending, pinch)
		}
		return
	}

	if m.longPress.Pending() && m.state.Moved() > m.opts.TapMaxDistance {
		m.longPress.Cancel()
		m.longPress = nil
		m.log.Debug().Msg("gesture: long-press disarmed by movement")
	}
}

func (m *Manager) onEnd(in Input) {
	if m.phase != StateTracking || in.Source != m.source {
		return
	}
	ended := false
	for _, p := range in.Pointers {
		if m.state.updateTouch(p) < 0 {
			continue
		}
		m.state.removeTouch(p.ID)
		ended = true
	}
	if !ended {
		return
	}

	if m.pinching {
		outcome := StateCancelled
		if m.pinchEmitted {
			outcome = StateResolved
		}
		m.resetLocked(outcome, "pointer lifted from pinch")
		return
	}
	if len(m.state.ActiveTouches) > 0 {
		return
	}

	m.longPress.Cancel()
	m.longPress = nil
	if m.longPressFired {
		m.resetLocked(StateResolved, "released after long-press")
		return
	}

	ctx := m.contextLocked(in.Time)
	if swipe, ok := DetectSwipe(ctx); ok {
		m.pending = append(m.pending, swipe)
		m.resetLocked(StateResolved, "swipe")
		return
	}
	if tap, ok := DetectTap(ctx, m.lastTap); ok {
		m.pending = append(m.pending, tap)
		m.resetLocked(StateResolved, "tap")
		m.recordTapLocked(tap, in.Time)
		return
	}
	m.resetLocked(StateCancelled, "no gesture")
}

func (m *Manager) onCancel(in Input) {
	if m.phase != StateTracking {
		return
	}
	if in.Source != m.source && len(in.Pointers) > 0 {
		return
	}
	m.resetLocked(StateCancelled, "cancel event")
}

// fireLongPress runs from the scheduler, under the Manager's lock.
func (m *Manager) fireLongPress() {
	m.longPress = nil
	if m.phase != StateTracking || m.pinching || m.longPressFired {
		return
	}
	ctx := m.contextLocked(m.state.StartTime + m.opts.LongPressDelay)
	lp, ok := DetectLongPress(ctx)
	if !ok {
		return
	}
	m.longPressFired = true
	m.pending = append(m.pending, lp)
	m.log.Debug().Float64("x", lp.X).Float64("y", lp.Y).Msg("gesture: long-press")
}

func (m *Manager) recordTapLocked(tap Tap, at time.Duration) {
	m.tapReset.Cancel()
	m.lastTap = TapRecord{X: tap.X, Y: tap.Y, Time: at, Count: tap.Count}
	m.tapReset = m.sched.Schedule(at+m.opts.TapMaxInterval, func() {
		m.tapReset = nil
		m.lastTap = TapRecord{}
	})
}

func (m *Manager) clearTapLocked() {
	m.tapReset.Cancel()
	m.tapReset = nil
	m.lastTap = TapRecord{}
}

func (m *Manager) contextLocked(now time.Duration) Context {
	return Context{State: m.state, Options: m.opts, Now: now}
}

// resetLocked ends the current interaction, if any, and returns to idle.
// Ending an interaction breaks the multi-tap chain; a tap records itself
// again after the reset.
func (m *Manager) resetLocked(outcome State, reason string) {
	m.longPress.Cancel()
	m.longPress = nil
	if m.phase == StateTracking {
		m.clearTapLocked()
	}
	if m.detachDocument != nil {
		m.detachDocument()
		m.detachDocument = nil
	}
	if m.phase == StateTracking {
		m.log.Debug().Stringer("outcome", outcome).Str("reason", reason).Msg("gesture: interaction ended")
	}
	m.phase = StateIdle
	m.state = nil
	m.pinching = false
	m.pinchEmitted = false
	m.longPressFired = false
}

// recoverLocked turns an internal fault into a reset so input callbacks never
// panic into the host.
func (m *Manager) recoverLocked(b *batch) {
	if r := recover(); r != nil {
		m.log.Error().Interface("panic", r).Msg("gesture: recovered from input fault")
		m.resetLocked(StateCancelled, "internal fault")
		m.pending = nil
		*b = batch{}
	}
}

func (m *Manager) takePendingLocked() batch {
	if len(m.pending) == 0 {
		return batch{}
	}
	b := batch{events: m.pending, gen: m.gen}
	m.pending = nil
	return b
}

// emit delivers a batch to the handlers registered at the time of delivery.
// The rest of the batch is dropped once the Manager has been disabled since
// the batch was collected.
func (m *Manager) emit(b batch) {
	for _, e := range b.events {
		m.mu.Lock()
		if m.gen != b.gen || !m.enabled {
			m.mu.Unlock()
			return
		}
		hs := append([]handlerEntry(nil), m.handlers.byType[e.Type()]...)
		log := m.log
		m.mu.Unlock()
		for _, h := range hs {
			callHandler(log, h.fn, e)
		}
	}
}

func callHandler(log zerolog.Logger, fn Handler, e Event) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Stringer("gesture", e.Type()).Msg("gesture: handler panicked")
		}
	}()
	fn(e)
}
