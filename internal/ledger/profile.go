package ledger

import (
	"time"

	"github.com/pable/go-val-metrics/internal/model"
)

// ApplyToProfile returns a copy of p with rec applied to the career section and
// to the seasonID section. A nil p starts a new profile for rec's player.
func ApplyToProfile(p *model.PlayerProfile, rec model.MatchStatRecord, seasonID string, now time.Time) *model.PlayerProfile {
	var out *model.PlayerProfile
	if p == nil {
		out = &model.PlayerProfile{ID: rec.PUUID, Seasons: make(map[string]model.StatsSection, 1)}
	} else {
		out = p.Clone()
	}

	out.OverallStats = Apply(out.OverallStats, rec, rec.MatchWon)
	out.Seasons[seasonID] = Apply(out.Seasons[seasonID], rec, rec.MatchWon)
	if rec.Name != "" {
		out.CurrentName = rec.Name
	}
	out.LastUpdated = now
	return out
}

// ReverseFromProfile returns a copy of p with rec removed from the career section
// and from the seasonID section. An emptied season section is kept.
func ReverseFromProfile(p *model.PlayerProfile, rec model.MatchStatRecord, seasonID string, now time.Time) (*model.PlayerProfile, error) {
	season, ok := p.Seasons[seasonID]
	if !ok {
		return nil, &model.ConsistencyError{Scope: "season " + seasonID, Field: "games", Value: -1}
	}

	overall, err := reverseScoped(p.OverallStats, rec, rec.MatchWon, "overall")
	if err != nil {
		return nil, err
	}
	season, err = reverseScoped(season, rec, rec.MatchWon, "season "+seasonID)
	if err != nil {
		return nil, err
	}

	out := p.Clone()
	out.OverallStats = overall
	out.Seasons[seasonID] = season
	out.LastUpdated = now
	return out, nil
}
