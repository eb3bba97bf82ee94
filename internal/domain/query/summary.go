package query

import "github.com/okian/combine/internal/domain/model"

// Summary holds the headline counts for a filtered subset.
type Summary struct {
	TotalPlayers  int
	UniqueSchools int
	Positions     int
	YearMin       int
	YearMax       int
}

// Summarize counts the subset. Year bounds echo the selection, not the data.
func Summarize(subset []model.Record, c Criteria) Summary {
	schools := make(map[string]struct{})
	positions := make(map[string]struct{})
	for i := range subset {
		if s := subset[i].Institution; s != "" {
			schools[s] = struct{}{}
		}
		if p := subset[i].Position; p != "" {
			positions[p] = struct{}{}
		}
	}
	return Summary{
		TotalPlayers:  len(subset),
		UniqueSchools: len(schools),
		Positions:     len(positions),
		YearMin:       c.YearMin,
		YearMax:       c.YearMax,
	}
}
