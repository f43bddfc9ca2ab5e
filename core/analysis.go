package core

import (
	"context"
	"strings"

	"github.com/huangsam/schoolfit/core/algo"
	"github.com/huangsam/schoolfit/internal/contract"
	"github.com/huangsam/schoolfit/schema"
)

// LoadTable resolves the configured source, loads it through the manager's
// memo and applies the county filter.
func LoadTable(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) (schema.Table, error) {
	src, err := mgr.GetTableSource(cfg)
	if err != nil {
		return schema.Table{}, err
	}
	table, err := mgr.LoadTable(ctx, src)
	if err != nil {
		return schema.Table{}, err
	}
	return FilterTable(table, cfg.County), nil
}

// FilterTable keeps the rows of one county, ignoring case and surrounding space.
// An empty county returns the table unchanged.
func FilterTable(table schema.Table, county string) schema.Table {
	county = strings.TrimSpace(county)
	if county == "" {
		return table
	}
	filtered := schema.Table{Columns: table.Columns}
	for _, e := range table.Rows {
		if strings.EqualFold(strings.TrimSpace(e.County), county) {
			filtered.Rows = append(filtered.Rows, e)
		}
	}
	return filtered
}

// GetSchoolResults ranks every school in scope and keeps the top ResultLimit.
func GetSchoolResults(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) (schema.ScoredTable, error) {
	table, err := LoadTable(ctx, cfg, mgr)
	if err != nil {
		return schema.ScoredTable{}, err
	}
	return algo.Score(table, cfg.Settings).Limit(cfg.ResultLimit), nil
}

// GetDistrictResults ranks every district in scope and keeps the top ResultLimit.
func GetDistrictResults(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) (schema.ScoredTable, error) {
	table, err := LoadTable(ctx, cfg, mgr)
	if err != nil {
		return schema.ScoredTable{}, err
	}
	return algo.ScoreDistricts(table, cfg.Settings).Limit(cfg.ResultLimit), nil
}
