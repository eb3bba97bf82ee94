package view

import "github.com/okian/combine/internal/domain/types"

// DashboardData is everything the dashboard page renders for one query.
type DashboardData struct {
	Query      types.Query
	Options    types.Options
	Summary    types.Summary
	Top        types.Ranking
	AllTime    types.Ranking
	Regions    types.Regions
	Pipeline   types.Pipeline
	PlayerA    string
	PlayerB    string
	Comparison *types.Comparison
	// CompareError is shown instead of the comparison when set.
	CompareError string
}
