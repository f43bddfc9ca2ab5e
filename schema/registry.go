package schema

import "strings"

// TargetOption maps a human label to a target percentage.
type TargetOption struct {
	Label string  `json:"label" yaml:"label"`
	Value float64 `json:"value" yaml:"value"`
}

// MetricDefinition describes how one metric is scored.
type MetricDefinition struct {
	Key           MetricKey      `json:"key"`
	Label         string         `json:"label"`
	ShortLabel    string         `json:"short_label"`
	Group         string         `json:"group"`
	Tip           string         `json:"tip,omitempty"`
	Mode          ComparisonMode `json:"mode"`
	Direction     Direction      `json:"direction,omitempty"` // linear only
	Options       []TargetOption `json:"options,omitempty"`   // target only, ordered
	DefaultWeight int            `json:"default_weight"`
}

// DefaultTarget returns the first target option, which is the preset preference.
func (d MetricDefinition) DefaultTarget() (TargetOption, bool) {
	if d.Mode != TargetMode || len(d.Options) == 0 {
		return TargetOption{}, false
	}
	return d.Options[0], true
}

// TargetFor finds a target option by label, ignoring case.
func (d MetricDefinition) TargetFor(label string) (TargetOption, bool) {
	for _, opt := range d.Options {
		if strings.EqualFold(opt.Label, strings.TrimSpace(label)) {
			return opt, true
		}
	}
	return TargetOption{}, false
}

// MetricGroup is a display grouping of metrics.
type MetricGroup struct {
	Name string      `json:"name"`
	Keys []MetricKey `json:"keys"`
}

// Registry is an immutable catalog of metric definitions.
type Registry struct {
	defs   map[MetricKey]MetricDefinition
	order  []MetricKey
	groups []MetricGroup
}

// NewRegistry builds a registry from definitions in display order.
// A later definition with a duplicate key replaces the earlier one.
func NewRegistry(defs []MetricDefinition, groups []MetricGroup) *Registry {
	r := &Registry{defs: make(map[MetricKey]MetricDefinition, len(defs))}
	for _, d := range defs {
		if _, seen := r.defs[d.Key]; !seen {
			r.order = append(r.order, d.Key)
		}
		r.defs[d.Key] = d
	}
	r.groups = append(r.groups, groups...)
	return r
}

// Resolve returns the definition for a key. Unknown keys report false.
func (r *Registry) Resolve(key MetricKey) (MetricDefinition, bool) {
	d, ok := r.defs[key]
	return d, ok
}

// Keys returns metric keys in catalog order.
func (r *Registry) Keys() []MetricKey {
	out := make([]MetricKey, len(r.order))
	copy(out, r.order)
	return out
}

// Definitions returns metric definitions in catalog order.
func (r *Registry) Definitions() []MetricDefinition {
	out := make([]MetricDefinition, 0, len(r.order))
	for _, k := range r.order {
		out = append(out, r.defs[k])
	}
	return out
}

// Groups returns display groups in order.
func (r *Registry) Groups() []MetricGroup {
	out := make([]MetricGroup, len(r.groups))
	copy(out, r.groups)
	return out
}

// ParseMetricKey resolves user input to a known metric key, ignoring case.
func (r *Registry) ParseMetricKey(s string) (MetricKey, bool) {
	s = strings.TrimSpace(s)
	for _, k := range r.order {
		if strings.EqualFold(string(k), s) {
			return k, true
		}
	}
	return "", false
}

// Display group names.
const (
	AcademicGroup     = "Academic Excellence"
	EnvironmentGroup  = "Environment & Scale"
	DemographicsGroup = "Student Demographics"
)

// DefaultRegistry is the catalog of metrics carried by the California school table.
var DefaultRegistry = NewRegistry(
	[]MetricDefinition{
		{
			Key:           MathKey,
			Label:         "Math Proficiency",
			ShortLabel:    "Math %",
			Group:         AcademicGroup,
			Tip:           "Higher values favour schools with stronger math CAASPP scores.",
			Mode:          LinearMode,
			Direction:     HigherIsBetter,
			DefaultWeight: 8,
		},
		{
			Key:           ELAKey,
			Label:         "English Language Arts",
			ShortLabel:    "ELA %",
			Group:         AcademicGroup,
			Tip:           "Higher values favour schools with stronger ELA CAASPP scores.",
			Mode:          LinearMode,
			Direction:     HigherIsBetter,
			DefaultWeight: 8,
		},
		{
			Key:           ClassSizeKey,
			Label:         "Class Size",
			ShortLabel:    "Class Sz",
			Group:         EnvironmentGroup,
			Tip:           "Higher importance favours schools with smaller average class sizes.",
			Mode:          LinearMode,
			Direction:     LowerIsBetter,
			DefaultWeight: 5,
		},
		{
			Key:        DisadvantagedKey,
			Label:      "Socio-Econ Disadvantaged",
			ShortLabel: "Disadv %",
			Group:      DemographicsGroup,
			Tip:        "Affluent targets <10 %, Mixed ≈50 %, Disadvantaged targets >90 %.",
			Mode:       TargetMode,
			Options: []TargetOption{
				{Label: "Affluent", Value: 0},
				{Label: "Mixed", Value: 50},
				{Label: "Disadvantaged", Value: 100},
			},
			DefaultWeight: 3,
		},
		{
			Key:        EnglishLearnerKey,
			Label:      "English Learners",
			ShortLabel: "EL %",
			Group:      DemographicsGroup,
			Tip:        "Few EL targets <10 %, Balanced ≈50 %, EL-Rich targets >90 % English Learner students.",
			Mode:       TargetMode,
			Options: []TargetOption{
				{Label: "Few EL", Value: 0},
				{Label: "Balanced", Value: 50},
				{Label: "EL-Rich", Value: 100},
			},
			DefaultWeight: 3,
		},
		{
			Key:        DisabilityKey,
			Label:      "Students w/ Disabilities",
			ShortLabel: "SWD %",
			Group:      DemographicsGroup,
			Tip:        "Few SWD targets <10 %, Balanced ≈50 %, Inclusive targets >90 % Students w/ Disabilities.",
			Mode:       TargetMode,
			Options: []TargetOption{
				{Label: "Few SWD", Value: 0},
				{Label: "Balanced", Value: 50},
				{Label: "Inclusive", Value: 100},
			},
			DefaultWeight: 2,
		},
	},
	[]MetricGroup{
		{Name: AcademicGroup, Keys: []MetricKey{MathKey, ELAKey}},
		{Name: EnvironmentGroup, Keys: []MetricKey{ClassSizeKey}},
		{Name: DemographicsGroup, Keys: []MetricKey{DisadvantagedKey, EnglishLearnerKey, DisabilityKey}},
	},
)

// GetDefaultWeights returns the preset weight for every registered metric.
func GetDefaultWeights() map[MetricKey]int {
	weights := make(map[MetricKey]int)
	for _, d := range DefaultRegistry.Definitions() {
		weights[d.Key] = d.DefaultWeight
	}
	return weights
}

// GetDefaultTargets returns the preset target option label for every target-mode metric.
func GetDefaultTargets() map[MetricKey]string {
	targets := make(map[MetricKey]string)
	for _, d := range DefaultRegistry.Definitions() {
		if opt, ok := d.DefaultTarget(); ok {
			targets[d.Key] = opt.Label
		}
	}
	return targets
}
