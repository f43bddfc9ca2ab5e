package core

import (
	"context"
	"strings"

	"github.com/huangsam/schoolfit/core/algo"
	"github.com/huangsam/schoolfit/internal/contract"
	"github.com/huangsam/schoolfit/schema"
)

// GetCompareResults scores the whole scope at the configured level and looks
// up each selection in it. Ranks are out of every entity in scope, not just
// the selected ones.
func GetCompareResults(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) (schema.ComparisonResult, error) {
	table, err := LoadTable(ctx, cfg, mgr)
	if err != nil {
		return schema.ComparisonResult{}, err
	}
	level := cfg.Level
	if level == "" {
		level = schema.SchoolLevel
	}
	result := CompareSelections(algo.ScoreLevel(table, cfg.Settings, level), cfg.Selections)
	result.County = cfg.County
	return result, nil
}

// CompareSelections finds each selection in a ranked table. Names match
// ignoring case; the best-ranked match wins when a district name repeats
// across counties. A missing selection yields an entry with Found unset.
func CompareSelections(st schema.ScoredTable, selections []schema.Selection) schema.ComparisonResult {
	result := schema.ComparisonResult{
		Level:      st.Level,
		TotalCount: st.TotalCount,
		Scale:      st.Scale,
		Entries:    make([]schema.ComparisonEntry, 0, len(selections)),
	}
	for _, sel := range selections {
		entry := schema.ComparisonEntry{Selection: sel}
		if row, ok := findSelection(st, sel); ok {
			entry.Found = true
			entry.County = row.County
			entry.CDSCode = row.CDSCode
			entry.Score = row.Score
			entry.Rank = row.Rank
			entry.District = row.District
			if st.Level == schema.SchoolLevel {
				entry.School = row.School
			}
		}
		result.Entries = append(result.Entries, entry)
	}
	return result
}

// findSelection returns the first row in ranked order matching the selection.
func findSelection(st schema.ScoredTable, sel schema.Selection) (schema.ScoredEntity, bool) {
	district := strings.TrimSpace(sel.District)
	school := strings.TrimSpace(sel.School)
	for _, row := range st.Rows {
		if !strings.EqualFold(strings.TrimSpace(row.District), district) {
			continue
		}
		if st.Level == schema.SchoolLevel && !strings.EqualFold(strings.TrimSpace(row.School), school) {
			continue
		}
		return row, true
	}
	return schema.ScoredEntity{}, false
}
