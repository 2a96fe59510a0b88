package aggregator

import "github.com/pable/go-val-metrics/internal/model"

// RegulationRounds is the fixed number of non-overtime rounds.
const RegulationRounds = 24

// RoundContext describes the sides for one round.
type RoundContext struct {
	RoundIndex     int
	Attacker       model.TeamID
	IsOvertime     bool
	OvertimePeriod int // 0-based, meaningful only when IsOvertime
}

// Defender returns the side not attacking.
func (c RoundContext) Defender() model.TeamID {
	return c.Attacker.Other()
}

// SideForRound maps a 0-based round index to its attacking side.
// Red attacks first, the sides swap once at regulation/2, and from the first
// overtime round on the attacker alternates every round. Each overtime period
// is two rounds.
func SideForRound(index, regulation int) RoundContext {
	ctx := RoundContext{RoundIndex: index, Attacker: model.TeamRed}
	switch {
	case index < regulation/2:
	case index < regulation:
		ctx.Attacker = model.TeamBlue
	default:
		ot := index - regulation
		ctx.IsOvertime = true
		ctx.OvertimePeriod = ot / 2
		if ot%2 == 1 {
			ctx.Attacker = model.TeamBlue
		}
	}
	return ctx
}

// CompletedOvertimePeriods returns how many full two-round overtime periods
// a match of totalRounds rounds played.
func CompletedOvertimePeriods(totalRounds, regulation int) int {
	if totalRounds <= regulation {
		return 0
	}
	return (totalRounds - regulation) / 2
}
