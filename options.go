package gesture

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
)

// Default thresholds applied to zero-valued Options fields.
const (
	DefaultSwipeThreshold     = 50.0 // pixels
	DefaultSwipeTimeThreshold = 300 * time.Millisecond
	DefaultPinchThreshold     = 10.0 // pixels
	DefaultLongPressDelay     = 500 * time.Millisecond
	DefaultTapMaxDistance     = 10.0 // pixels
	DefaultTapMaxInterval     = 300 * time.Millisecond
)

var (
	// ErrNilSource is returned by New when no input source is supplied.
	ErrNilSource = errors.New("gesture: nil source")
	// ErrInvalidOptions wraps every option validation failure.
	ErrInvalidOptions = errors.New("gesture: invalid options")
	// ErrDestroyed is returned by operations on a destroyed Manager.
	ErrDestroyed = errors.New("gesture: manager destroyed")
)

// Options holds the recognition thresholds for one Manager. They are fixed
// once the Manager is created.
//
// Zero numeric fields take the Default* values. EnableGestures controls whether
// New attaches listeners immediately; start from DefaultOptions to get true.
type Options struct {
	SwipeThreshold     float64       `validate:"gte=0"` // min travel for a swipe
	SwipeTimeThreshold time.Duration `validate:"gte=0"` // max duration of a swipe
	PinchThreshold     float64       `validate:"gte=0"` // min spread change for a pinch
	LongPressDelay     time.Duration `validate:"gte=0"` // hold time before a long-press
	TapMaxDistance     float64       `validate:"gte=0"` // max travel for a tap or held press
	TapMaxInterval     time.Duration `validate:"gte=0"` // max gap between taps of a multi-tap
	EnableGestures     bool
}

// DefaultOptions returns the documented defaults with gestures enabled.
func DefaultOptions() Options {
	return Options{
		SwipeThreshold:     DefaultSwipeThreshold,
		SwipeTimeThreshold: DefaultSwipeTimeThreshold,
		PinchThreshold:     DefaultPinchThreshold,
		LongPressDelay:     DefaultLongPressDelay,
		TapMaxDistance:     DefaultTapMaxDistance,
		TapMaxInterval:     DefaultTapMaxInterval,
		EnableGestures:     true,
	}
}

// withDefaults fills zero numeric fields with defaults.
func (o Options) withDefaults() Options {
	if o.SwipeThreshold == 0 {
		o.SwipeThreshold = DefaultSwipeThreshold
	}
	if o.SwipeTimeThreshold == 0 {
		o.SwipeTimeThreshold = DefaultSwipeTimeThreshold
	}
	if o.PinchThreshold == 0 {
		o.PinchThreshold = DefaultPinchThreshold
	}
	if o.LongPressDelay == 0 {
		o.LongPressDelay = DefaultLongPressDelay
	}
	if o.TapMaxDistance == 0 {
		o.TapMaxDistance = DefaultTapMaxDistance
	}
	if o.TapMaxInterval == 0 {
		o.TapMaxInterval = DefaultTapMaxInterval
	}
	return o
}

// Validate reports whether every threshold is usable. The returned error
// wraps ErrInvalidOptions.
func (o Options) Validate() error {
	if err := validatorInstance().Struct(o); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidOptions, describeValidation(err))
	}
	return nil
}

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate
)

// validatorInstance returns the validator shared by Options and FileOptions.
func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		validateInst = validator.New()
	})
	return validateInst
}

// describeValidation flattens validator errors into "Field must be gte 0" form.
func describeValidation(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s must be %s %s", fe.Field(), fe.Tag(), fe.Param()))
	}
	return strings.Join(parts, "; ")
}
