// Package core has core logic for loading, scoring and ranking school tables.
package core

import (
	"context"
	"time"

	"github.com/huangsam/schoolfit/core/agg"
	"github.com/huangsam/schoolfit/internal/contract"
	"github.com/huangsam/schoolfit/internal/iocache"
	"github.com/huangsam/schoolfit/internal/outwriter"
	"github.com/huangsam/schoolfit/schema"
)

// ExecutorFunc defines the function signature for executing different scoring modes.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error

// ExecuteSchools ranks schools and prints results.
// It serves as the main entry point for the 'schools' mode.
func ExecuteSchools(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	start := time.Now()
	ranked, err := GetSchoolResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteSchools(ranked, cfg, time.Since(start))
}

// ExecuteDistricts rolls schools up into districts, ranks them and prints results.
// It serves as the main entry point for the 'districts' mode.
func ExecuteDistricts(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	start := time.Now()
	ranked, err := GetDistrictResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteDistricts(ranked, cfg, time.Since(start))
}

// ExecuteCompare looks up the selected schools or districts and prints
// their score and rank side by side.
func ExecuteCompare(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	start := time.Now()
	result, err := GetCompareResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteComparison(result, cfg, time.Since(start))
}

// ExecuteMetrics displays the metric registry with the weights and targets in force.
// Loading a table is optional; without a data source or with an empty store
// every metric is shown as present.
func ExecuteMetrics(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	var loaded *schema.Table
	table, err := LoadTable(ctx, cfg, mgr)
	switch {
	case err == nil:
		loaded = &table
	case iocache.IsNoData(err):
	default:
		return err
	}
	model := BuildMetricsModel(cfg.Settings, loaded)
	return outwriter.NewOutWriter().WriteMetrics(model, cfg)
}

// ExecuteCounties lists counties with their district and school counts.
func ExecuteCounties(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	table, err := LoadTable(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteCounties(agg.ListCounties(table), cfg)
}

// ExecuteDistrictList lists districts, within the configured county when set.
func ExecuteDistrictList(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	table, err := LoadTable(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteDistrictList(agg.ListDistricts(table, cfg.County), cfg)
}

// ExecuteSchoolList lists schools, within the configured district when set.
func ExecuteSchoolList(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	table, err := LoadTable(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteSchoolList(agg.SchoolsInDistrict(table, cfg.District), cfg)
}
