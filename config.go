package gesture

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml"
	"gopkg.in/yaml.v3"
)

// FileOptions is the on-disk and on-wire form of Options. Durations are in
// milliseconds and absent keys leave the base value untouched.
type FileOptions struct {
	SwipeThreshold     *float64 `json:"swipeThreshold,omitempty" yaml:"swipeThreshold,omitempty" toml:"swipeThreshold" validate:"omitempty,gte=0"`
	SwipeTimeThreshold *float64 `json:"swipeTimeThreshold,omitempty" yaml:"swipeTimeThreshold,omitempty" toml:"swipeTimeThreshold" validate:"omitempty,gte=0"`
	PinchThreshold     *float64 `json:"pinchThreshold,omitempty" yaml:"pinchThreshold,omitempty" toml:"pinchThreshold" validate:"omitempty,gte=0"`
	LongPressDelay     *float64 `json:"longPressDelay,omitempty" yaml:"longPressDelay,omitempty" toml:"longPressDelay" validate:"omitempty,gte=0"`
	TapMaxDistance     *float64 `json:"tapMaxDistance,omitempty" yaml:"tapMaxDistance,omitempty" toml:"tapMaxDistance" validate:"omitempty,gte=0"`
	TapMaxInterval     *float64 `json:"tapMaxInterval,omitempty" yaml:"tapMaxInterval,omitempty" toml:"tapMaxInterval" validate:"omitempty,gte=0"`
	EnableGestures     *bool    `json:"enableGestures,omitempty" yaml:"enableGestures,omitempty" toml:"enableGestures"`
}

// Validate checks the values that are present.
func (f FileOptions) Validate() error {
	if err := validatorInstance().Struct(f); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidOptions, describeValidation(err))
	}
	return nil
}

// Apply overlays the present values onto base.
func (f FileOptions) Apply(base Options) Options {
	if f.SwipeThreshold != nil {
		base.SwipeThreshold = *f.SwipeThreshold
	}
	if f.SwipeTimeThreshold != nil {
		base.SwipeTimeThreshold = millis(*f.SwipeTimeThreshold)
	}
	if f.PinchThreshold != nil {
		base.PinchThreshold = *f.PinchThreshold
	}
	if f.LongPressDelay != nil {
		base.LongPressDelay = millis(*f.LongPressDelay)
	}
	if f.TapMaxDistance != nil {
		base.TapMaxDistance = *f.TapMaxDistance
	}
	if f.TapMaxInterval != nil {
		base.TapMaxInterval = millis(*f.TapMaxInterval)
	}
	if f.EnableGestures != nil {
		base.EnableGestures = *f.EnableGestures
	}
	return base
}

// FileOptionsFrom converts opts to its file form with every key present.
func FileOptionsFrom(opts Options) FileOptions {
	swipeTime := toMillis(opts.SwipeTimeThreshold)
	longPress := toMillis(opts.LongPressDelay)
	tapInterval := toMillis(opts.TapMaxInterval)
	return FileOptions{
		SwipeThreshold:     &opts.SwipeThreshold,
		SwipeTimeThreshold: &swipeTime,
		PinchThreshold:     &opts.PinchThreshold,
		LongPressDelay:     &longPress,
		TapMaxDistance:     &opts.TapMaxDistance,
		TapMaxInterval:     &tapInterval,
		EnableGestures:     &opts.EnableGestures,
	}
}

// LoadOptions reads an options file and overlays it on DefaultOptions. The
// format is chosen by extension: .yaml/.yml or .toml.
func LoadOptions(path string) (Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Options{}, fmt.Errorf("gesture: read options %s: %w", path, err)
	}
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	fo, err := ParseFileOptions(data, format)
	if err != nil {
		return Options{}, fmt.Errorf("gesture: parse options %s: %w", path, err)
	}
	return fo.Apply(DefaultOptions()), nil
}

// ParseFileOptions decodes and validates options in the given format
// ("yaml", "yml" or "toml").
func ParseFileOptions(data []byte, format string) (FileOptions, error) {
	var fo FileOptions
	switch format {
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, &fo); err != nil {
			return FileOptions{}, err
		}
	case "toml":
		if err := toml.Unmarshal(data, &fo); err != nil {
			return FileOptions{}, err
		}
	default:
		return FileOptions{}, fmt.Errorf("unsupported options format %q", format)
	}
	if err := fo.Validate(); err != nil {
		return FileOptions{}, err
	}
	return fo, nil
}

func millis(ms float64) time.Duration {
	return time.Duration(ms * float64(time.Millisecond))
}

func toMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
