package algo

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/huangsam/schoolfit/schema"
)

// Tunable defaults for the scoring engine.
const (
	DefaultScale    = 10.0 // aggregate scores land in [0, DefaultScale]
	DefaultExponent = 0.7  // concave curve applied to every normalized score
	MaxWeight       = 10
	MaxTarget       = 100.0
)

// Errors returned when settings are rejected.
var (
	ErrInvalidScale    = errors.New("invalid output scale")
	ErrInvalidExponent = errors.New("invalid curve exponent")
	ErrInvalidMethod   = errors.New("invalid normalization method")
	ErrInvalidWeight   = errors.New("invalid weight")
	ErrInvalidTarget   = errors.New("invalid target")
)

// Setting is the user choice for a single metric.
// Target is only meaningful for target-mode metrics.
type Setting struct {
	Weight int      `json:"weight"`
	Target *float64 `json:"target,omitempty"`
}

// Options are the engine-wide knobs shared by every metric.
type Options struct {
	Scale    float64                    `json:"scale"`
	Exponent float64                    `json:"exponent"`
	Method   schema.NormalizationMethod `json:"method"`
}

// DefaultOptions returns the 0-10 percentile-rank configuration.
func DefaultOptions() Options {
	return Options{
		Scale:    DefaultScale,
		Exponent: DefaultExponent,
		Method:   schema.PercentileMethod,
	}
}

// Settings is a validated, immutable set of per-metric choices.
// Build one with NewSettings; change it by building another.
type Settings struct {
	registry *schema.Registry
	entries  map[schema.MetricKey]Setting
	order    []schema.MetricKey
	opts     Options
}

// NewSettings validates the entries and options and returns immutable settings.
// Keys unknown to the registry are kept and skipped during scoring.
// Target-mode metrics without a target fall back to the registry preset.
func NewSettings(reg *schema.Registry, entries map[schema.MetricKey]Setting, opts Options) (Settings, error) {
	if reg == nil {
		reg = schema.DefaultRegistry
	}
	if opts.Method == "" {
		opts.Method = schema.PercentileMethod
	}
	if math.IsNaN(opts.Scale) || math.IsInf(opts.Scale, 0) || opts.Scale <= 0 {
		return Settings{}, fmt.Errorf("%w: %v must be greater than 0", ErrInvalidScale, opts.Scale)
	}
	if math.IsNaN(opts.Exponent) || math.IsInf(opts.Exponent, 0) || opts.Exponent <= 0 {
		return Settings{}, fmt.Errorf("%w: %v must be greater than 0", ErrInvalidExponent, opts.Exponent)
	}
	if _, ok := schema.ValidNormalizationMethods[opts.Method]; !ok {
		return Settings{}, fmt.Errorf("%w: %q must be percentile or minmax", ErrInvalidMethod, opts.Method)
	}

	s := Settings{
		registry: reg,
		entries:  make(map[schema.MetricKey]Setting, len(entries)),
		opts:     opts,
	}
	for key, e := range entries {
		if e.Weight < 0 || e.Weight > MaxWeight {
			return Settings{}, fmt.Errorf("%w: %s weight %d must be between 0 and %d", ErrInvalidWeight, key, e.Weight, MaxWeight)
		}
		def, known := reg.Resolve(key)
		if e.Target != nil {
			t := *e.Target
			if math.IsNaN(t) || math.IsInf(t, 0) || t < 0 || t > MaxTarget {
				return Settings{}, fmt.Errorf("%w: %s target %v must be between 0 and %v", ErrInvalidTarget, key, t, MaxTarget)
			}
			if known && def.Mode != schema.TargetMode {
				return Settings{}, fmt.Errorf("%w: %s is a %s metric and takes no target", ErrInvalidTarget, key, def.Mode)
			}
			t2 := t
			e.Target = &t2
		} else if known && def.Mode == schema.TargetMode {
			if opt, ok := def.DefaultTarget(); ok {
				v := opt.Value
				e.Target = &v
			}
		}
		s.entries[key] = e
	}
	s.order = orderKeys(reg, s.entries)
	return s, nil
}

// DefaultSettings returns the preset weights and targets of every registered metric.
func DefaultSettings(reg *schema.Registry) Settings {
	if reg == nil {
		reg = schema.DefaultRegistry
	}
	entries := make(map[schema.MetricKey]Setting)
	for _, d := range reg.Definitions() {
		entries[d.Key] = Setting{Weight: d.DefaultWeight}
	}
	s, err := NewSettings(reg, entries, DefaultOptions())
	if err != nil {
		// Registry presets are static; a failure here means the catalog is broken.
		panic(fmt.Sprintf("invalid registry defaults: %v", err))
	}
	return s
}

// orderKeys lists registry keys first in catalog order, then unknown keys by name.
func orderKeys(reg *schema.Registry, entries map[schema.MetricKey]Setting) []schema.MetricKey {
	order := make([]schema.MetricKey, 0, len(entries))
	for _, k := range reg.Keys() {
		if _, ok := entries[k]; ok {
			order = append(order, k)
		}
	}
	var extra []schema.MetricKey
	for k := range entries {
		if _, ok := reg.Resolve(k); !ok {
			extra = append(extra, k)
		}
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i] < extra[j] })
	return append(order, extra...)
}

// Registry returns the metric catalog these settings resolve against.
func (s Settings) Registry() *schema.Registry {
	if s.registry == nil {
		return schema.DefaultRegistry
	}
	return s.registry
}

// Options returns the engine-wide options.
func (s Settings) Options() Options {
	return s.opts
}

// Keys returns configured metric keys in a stable order.
func (s Settings) Keys() []schema.MetricKey {
	out := make([]schema.MetricKey, len(s.order))
	copy(out, s.order)
	return out
}

// Get returns a copy of the setting for a metric.
func (s Settings) Get(key schema.MetricKey) (Setting, bool) {
	e, ok := s.entries[key]
	if ok && e.Target != nil {
		t := *e.Target
		e.Target = &t
	}
	return e, ok
}

// Weight returns the weight for a metric, or 0 when it is not configured.
func (s Settings) Weight(key schema.MetricKey) int {
	return s.entries[key].Weight
}

// TotalWeight sums the weights of every configured metric.
func (s Settings) TotalWeight() int {
	total := 0
	for _, e := range s.entries {
		total += e.Weight
	}
	return total
}

// Entries returns a copy of every configured setting.
func (s Settings) Entries() map[schema.MetricKey]Setting {
	out := make(map[schema.MetricKey]Setting, len(s.entries))
	for _, k := range s.order {
		out[k], _ = s.Get(k)
	}
	return out
}

// With returns new settings with one metric replaced. The receiver is unchanged.
func (s Settings) With(key schema.MetricKey, e Setting) (Settings, error) {
	entries := s.Entries()
	entries[key] = e
	return NewSettings(s.Registry(), entries, s.opts)
}

// WithOptions returns new settings with different engine options.
func (s Settings) WithOptions(opts Options) (Settings, error) {
	return NewSettings(s.Registry(), s.Entries(), opts)
}
