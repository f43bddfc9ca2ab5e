// Package outwriter has output and writer logic.
package outwriter

import (
	"time"

	"github.com/huangsam/schoolfit/internal/contract"
	"github.com/huangsam/schoolfit/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteSchools prints ranked schools using the configured output format.
func (ow *OutWriter) WriteSchools(st schema.ScoredTable, cfg *contract.Config, duration time.Duration) error {
	return PrintScoredResults(st, cfg, duration)
}

// WriteDistricts prints ranked districts using the configured output format.
func (ow *OutWriter) WriteDistricts(st schema.ScoredTable, cfg *contract.Config, duration time.Duration) error {
	return PrintScoredResults(st, cfg, duration)
}

// WriteComparison prints selection lookups using the configured output format.
func (ow *OutWriter) WriteComparison(result schema.ComparisonResult, cfg *contract.Config, duration time.Duration) error {
	return PrintComparisonResults(result, cfg, duration)
}

// WriteMetrics prints metric definitions using the configured output format.
func (ow *OutWriter) WriteMetrics(model schema.MetricsRenderModel, cfg *contract.Config) error {
	return PrintMetricsDefinitions(model, cfg)
}

// WriteCounties prints the county catalog.
func (ow *OutWriter) WriteCounties(counties []schema.CountySummary, cfg *contract.Config) error {
	return PrintCounties(counties, cfg)
}

// WriteDistrictList prints the district catalog.
func (ow *OutWriter) WriteDistrictList(districts []schema.DistrictSummary, cfg *contract.Config) error {
	return PrintDistrictList(districts, cfg)
}

// WriteSchoolList prints the school catalog.
func (ow *OutWriter) WriteSchoolList(schools []schema.Entity, cfg *contract.Config) error {
	return PrintSchoolList(schools, cfg)
}
