package contract

import (
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/huangsam/schoolfit/core/algo"
	"github.com/huangsam/schoolfit/schema"
)

// Default values for configuration.
const (
	DefaultResultLimit = 25
	MaxResultLimit     = 10000
	DefaultPrecision   = 1
)

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// Config holds the runtime configuration for a scoring run.
// This struct remains the "final, validated" config.
type Config struct {
	DataFile      string // Absolute path to a CSV or Parquet table (empty = use the store)
	DataBackend   schema.DatabaseBackend
	DataDBConnect string // Please use env var as this is plaintext

	County      string // Restrict ranking to one county (empty = all)
	District    string // Restrict catalog listings to one district
	ResultLimit int
	Precision   int
	Output      schema.OutputMode
	OutputFile  string
	Width       int // Terminal width override (0 = auto-detect)
	Detail      bool
	Explain     bool
	UseColors   bool

	// Level and Selections drive the compare command.
	Level      schema.EntityLevel
	Selections []schema.Selection

	// Settings are the validated weights, targets and engine options.
	Settings algo.Settings
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	DataFileStr string

	// --- Fields from rootCmd.PersistentFlags() ---
	Data          string `mapstructure:"data"`
	DataBackend   string `mapstructure:"data-backend"`
	DataDBConnect string `mapstructure:"data-db-connect"`
	County        string `mapstructure:"county"`
	District      string `mapstructure:"district"`
	Limit         int    `mapstructure:"limit"`
	Precision     int    `mapstructure:"precision"`
	Output        string `mapstructure:"output"`
	OutputFile    string `mapstructure:"output-file"`
	Width         int    `mapstructure:"width"`
	Color         string `mapstructure:"color"`
	Detail        bool   `mapstructure:"detail"`
	Explain       bool   `mapstructure:"explain"`

	// --- Engine options ---
	Scale    float64 `mapstructure:"scale"`
	Exponent float64 `mapstructure:"exponent"`
	Method   string  `mapstructure:"method"`

	// --- Per-metric overrides from flags: KEY=N and KEY=Label|Value ---
	WeightOverrides []string `mapstructure:"weight"`
	TargetOverrides []string `mapstructure:"target"`

	// --- Fields from compareCmd.Flags() ---
	Select     []string `mapstructure:"select"`
	ByDistrict bool     `mapstructure:"by-district"`

	// --- Weights and targets from config file ---
	Weights map[string]int    `mapstructure:"weights"`
	Targets map[string]string `mapstructure:"targets"`
}

// Clone returns a deep copy of the Config struct.
// Settings are immutable, so sharing them is safe.
func (c *Config) Clone() *Config {
	clone := *c
	if c.Selections != nil {
		clone.Selections = slices.Clone(c.Selections)
	}
	return &clone
}

// CloneWithSettings creates a copy of the Config that scores with different settings.
func (c *Config) CloneWithSettings(settings algo.Settings) *Config {
	clone := c.Clone()
	clone.Settings = settings
	return clone
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfigs(cfg, input); err != nil {
		return err
	}
	if err := resolveDataFile(cfg, input); err != nil {
		return err
	}
	if err := processSettings(cfg, input); err != nil {
		return err
	}
	if err := processSelections(cfg, input); err != nil {
		return err
	}
	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("data-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("data-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// ValidateBackend parses and validates a backend name and its connection string.
func ValidateBackend(backendStr, connStr string) (schema.DatabaseBackend, error) {
	backend := schema.DatabaseBackend(strings.ToLower(strings.TrimSpace(backendStr)))
	if backend == "" {
		backend = schema.NoneBackend
	}
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return "", fmt.Errorf("invalid data backend '%s'. must be sqlite, mysql, postgresql, none", backendStr)
	}
	if err := ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return "", err
	}
	return backend, nil
}

// validateBackendConfigs validates the table store backend configuration.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	backend, err := ValidateBackend(input.DataBackend, input.DataDBConnect)
	if err != nil {
		return err
	}
	cfg.DataBackend = backend
	cfg.DataDBConnect = input.DataDBConnect
	return nil
}

// validateSimpleInputs processes and validates all non-path related fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	// --- 0. Transfer simple non-validated fields from input -> cfg ---
	cfg.County = strings.TrimSpace(input.County)
	cfg.District = strings.TrimSpace(input.District)
	cfg.OutputFile = input.OutputFile
	cfg.Detail = input.Detail
	cfg.Explain = input.Explain
	cfg.Width = input.Width

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	// --- 1. ResultLimit Validation ---
	if input.Limit <= 0 || input.Limit > MaxResultLimit {
		return fmt.Errorf("limit must be greater than 0 and cannot exceed %d (received %d)", MaxResultLimit, input.Limit)
	}
	cfg.ResultLimit = input.Limit

	// --- 2. Precision and Output Validation ---
	if input.Precision < 1 || input.Precision > 2 {
		return fmt.Errorf("precision must be 1 or 2 (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", input.Output)
	}
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return fmt.Errorf("parquet output requires --output-file")
	}

	if input.Width < 0 {
		return fmt.Errorf("width cannot be negative (received %d)", input.Width)
	}
	return nil
}

// resolveDataFile picks the data file from the positional arg or the data key
// and checks that it exists. An empty path means the table store is used.
func resolveDataFile(cfg *Config, input *ConfigRawInput) error {
	path := strings.TrimSpace(input.DataFileStr)
	if path == "" {
		path = strings.TrimSpace(input.Data)
	}
	if path == "" {
		cfg.DataFile = ""
		return nil
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return fmt.Errorf("data file does not exist: %s", path)
	}
	if info.IsDir() {
		return fmt.Errorf("data file is a directory: %s", path)
	}
	if _, err := DataFormatOf(abs); err != nil {
		return err
	}
	cfg.DataFile = abs
	return nil
}

// DataFormatOf returns the lowercase extension of a supported data file.
func DataFormatOf(path string) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	switch ext {
	case "csv", "parquet":
		return ext, nil
	default:
		return "", fmt.Errorf("unsupported data file '%s'. must end in .csv or .parquet", filepath.Base(path))
	}
}

// processSettings merges registry presets, config-file weights and targets,
// and flag overrides into validated engine settings.
func processSettings(cfg *Config, input *ConfigRawInput) error {
	reg := schema.DefaultRegistry
	entries := make(map[schema.MetricKey]algo.Setting)
	for _, d := range reg.Definitions() {
		entries[d.Key] = algo.Setting{Weight: d.DefaultWeight}
	}

	// Config files come through viper, which lowercases map keys.
	for _, raw := range slices.Sorted(maps.Keys(input.Weights)) {
		key := resolveMetricKey(reg, raw)
		e := entries[key]
		e.Weight = input.Weights[raw]
		entries[key] = e
	}
	for _, raw := range slices.Sorted(maps.Keys(input.Targets)) {
		key := resolveMetricKey(reg, raw)
		target, err := ParseTargetValue(reg, key, input.Targets[raw])
		if err != nil {
			return err
		}
		e := entries[key]
		e.Target = &target
		entries[key] = e
	}

	if err := applyOverrides(reg, entries, input.WeightOverrides, input.TargetOverrides); err != nil {
		return err
	}

	opts := algo.Options{
		Scale:    input.Scale,
		Exponent: input.Exponent,
		Method:   schema.NormalizationMethod(strings.ToLower(strings.TrimSpace(input.Method))),
	}
	settings, err := algo.NewSettings(reg, entries, opts)
	if err != nil {
		return err
	}
	cfg.Settings = settings
	return nil
}

// ApplySettingOverrides returns new settings with KEY=N weight items and
// KEY=Label|Value target items applied on top of base.
func ApplySettingOverrides(base algo.Settings, weights, targets []string) (algo.Settings, error) {
	if len(weights) == 0 && len(targets) == 0 {
		return base, nil
	}
	entries := base.Entries()
	if err := applyOverrides(base.Registry(), entries, weights, targets); err != nil {
		return algo.Settings{}, err
	}
	return algo.NewSettings(base.Registry(), entries, base.Options())
}

// applyOverrides mutates entries in place with parsed flag items.
func applyOverrides(reg *schema.Registry, entries map[schema.MetricKey]algo.Setting, weights, targets []string) error {
	for _, item := range splitItems(weights) {
		key, value, err := splitKeyValue(reg, item)
		if err != nil {
			return fmt.Errorf("invalid --weight: %w", err)
		}
		w, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid --weight value '%s' for %s: %w", value, key, err)
		}
		e := entries[key]
		e.Weight = w
		entries[key] = e
	}
	for _, item := range splitItems(targets) {
		key, value, err := splitKeyValue(reg, item)
		if err != nil {
			return fmt.Errorf("invalid --target: %w", err)
		}
		target, err := ParseTargetValue(reg, key, value)
		if err != nil {
			return err
		}
		e := entries[key]
		e.Target = &target
		entries[key] = e
	}
	return nil
}

// ParseTargetValue turns a target option label (e.g. "Affluent") or a
// percentage (e.g. "25") into a target value for the metric.
func ParseTargetValue(reg *schema.Registry, key schema.MetricKey, value string) (float64, error) {
	value = strings.TrimSpace(value)
	def, known := reg.Resolve(key)
	if known {
		if opt, ok := def.TargetFor(value); ok {
			return opt.Value, nil
		}
	}
	target, err := strconv.ParseFloat(value, 64)
	if err != nil {
		if known && len(def.Options) > 0 {
			labels := make([]string, len(def.Options))
			for i, o := range def.Options {
				labels[i] = o.Label
			}
			return 0, fmt.Errorf("invalid target '%s' for %s. must be a number or one of %s", value, key, strings.Join(labels, ", "))
		}
		return 0, fmt.Errorf("invalid target '%s' for %s. must be a number", value, key)
	}
	return target, nil
}

// ParseSelection parses "District/School" or a bare district name.
// The first slash separates district from school.
func ParseSelection(s string) (schema.Selection, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return schema.Selection{}, fmt.Errorf("empty selection")
	}
	district, school, _ := strings.Cut(s, "/")
	sel := schema.Selection{District: strings.TrimSpace(district), School: strings.TrimSpace(school)}
	if sel.District == "" {
		return schema.Selection{}, fmt.Errorf("selection '%s' is missing a district", s)
	}
	return sel, nil
}

// processSelections parses compare selections and the level they refer to.
func processSelections(cfg *Config, input *ConfigRawInput) error {
	cfg.Level = schema.SchoolLevel
	if input.ByDistrict {
		cfg.Level = schema.DistrictLevel
	}
	cfg.Selections = nil
	for _, raw := range input.Select {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		sel, err := ParseSelection(raw)
		if err != nil {
			return fmt.Errorf("invalid --select: %w", err)
		}
		if cfg.Level == schema.DistrictLevel {
			sel.School = ""
		} else if sel.School == "" {
			return fmt.Errorf("invalid --select '%s'. expected 'District/School' or use --by-district", raw)
		}
		cfg.Selections = append(cfg.Selections, sel)
	}
	return nil
}

// ProcessProfilingConfig handles the profiling flag and sets up profiling configuration.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) error {
	if profilePrefix != "" {
		profile.Enabled = true
		profile.Prefix = profilePrefix
	}
	return nil
}

// resolveMetricKey maps user input to a registry key, or keeps it uppercased
// when unknown so the engine can skip it.
func resolveMetricKey(reg *schema.Registry, raw string) schema.MetricKey {
	if key, ok := reg.ParseMetricKey(raw); ok {
		return key
	}
	return schema.MetricKey(strings.ToUpper(strings.TrimSpace(raw)))
}

// splitItems flattens repeated and comma-separated flag values.
func splitItems(values []string) []string {
	var out []string
	for _, v := range values {
		for part := range strings.SplitSeq(v, ",") {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				out = append(out, trimmed)
			}
		}
	}
	return out
}

// splitKeyValue parses "KEY=VALUE".
func splitKeyValue(reg *schema.Registry, item string) (schema.MetricKey, string, error) {
	k, v, ok := strings.Cut(item, "=")
	if !ok || strings.TrimSpace(k) == "" || strings.TrimSpace(v) == "" {
		return "", "", fmt.Errorf("'%s' must look like KEY=VALUE", item)
	}
	return resolveMetricKey(reg, k), strings.TrimSpace(v), nil
}
