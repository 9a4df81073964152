// Package gesture recognizes taps, swipes, pinches and long-presses from raw
// touch, mouse and pointer input.
//
// A [Manager] is bound to one input [Source]. While enabled it listens for
// start events on the bound element, follows the interaction on the whole
// document until it ends, runs the detectors and emits one gesture per
// interaction (pinches emit on every qualifying move).
//
// # Quick start
//
// The in-memory [Surface] is the simplest source: push raw events into it
// from wherever they come from.
//
//	surface := gesture.NewSurface(gesture.AllCapabilities)
//	m, err := gesture.New(surface, gesture.DefaultOptions())
//	if err != nil {
//		return err
//	}
//	defer m.Destroy()
//
//	m.On(gesture.TypeTap, func(e gesture.Event) {
//		tap := e.(gesture.Tap)
//		fmt.Println("tap", tap.Count)
//	})
//
//	surface.Dispatch(gesture.RawEvent{Type: gesture.RawTouchStart, Time: 0,
//		Touches: []gesture.Touch{{ID: 1, X: 10, Y: 10}}})
//	surface.Dispatch(gesture.RawEvent{Type: gesture.RawTouchEnd, Time: 80 * time.Millisecond,
//		Touches: []gesture.Touch{{ID: 1, X: 10, Y: 10}}})
//
// Native ebiten games use the ebitensource package instead; browser pages can
// talk to the bridge package over WebSocket.
//
// # Time
//
// Input timestamps are [time.Duration] values on the host clock. Deferred
// work (the long-press timer and the multi-tap window) runs when input with
// a later timestamp arrives or when the host calls [Manager.Tick], typically
// once per frame. [Manager.Run] ticks from a goroutine.
//
// # Options
//
// [Options] holds the thresholds. Zero numeric fields take the defaults;
// [LoadOptions] reads them from YAML or TOML with durations in milliseconds:
//
//	swipeThreshold: 50
//	swipeTimeThreshold: 300
//	pinchThreshold: 10
//	longPressDelay: 500
//	tapMaxDistance: 10
//	tapMaxInterval: 300
//
// # Detectors
//
// [DetectSwipe], [DetectPinch], [DetectTap] and [DetectLongPress] are pure
// functions over a [Context] and can be used without a Manager.
package gesture
