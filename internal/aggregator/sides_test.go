package aggregator

import (
	"testing"

	"github.com/pable/go-val-metrics/internal/model"
)

func TestSideForRound(t *testing.T) {
	tests := []struct {
		index    int
		attacker model.TeamID
		ot       bool
		period   int
	}{
		{0, model.TeamRed, false, 0},
		{11, model.TeamRed, false, 0},
		{12, model.TeamBlue, false, 0},
		{23, model.TeamBlue, false, 0},
		{24, model.TeamRed, true, 0},
		{25, model.TeamBlue, true, 0},
		{26, model.TeamRed, true, 1},
		{27, model.TeamBlue, true, 1},
		{30, model.TeamRed, true, 3},
	}
	for _, tt := range tests {
		got := SideForRound(tt.index, RegulationRounds)
		if got.Attacker != tt.attacker || got.IsOvertime != tt.ot || got.OvertimePeriod != tt.period {
			t.Errorf("round %d: got %+v, want attacker=%s ot=%v period=%d",
				tt.index, got, tt.attacker, tt.ot, tt.period)
		}
		if got.Defender() == got.Attacker {
			t.Errorf("round %d: defender equals attacker", tt.index)
		}
	}
}

// TestSideForRound_FirstHalfSymmetry: every regulation round has each team on
// attack exactly half the time.
func TestSideForRound_FirstHalfSymmetry(t *testing.T) {
	attacks := map[model.TeamID]int{}
	for i := 0; i < RegulationRounds; i++ {
		attacks[SideForRound(i, RegulationRounds).Attacker]++
	}
	if attacks[model.TeamRed] != 12 || attacks[model.TeamBlue] != 12 {
		t.Errorf("attack split: %v", attacks)
	}
}

func TestCompletedOvertimePeriods(t *testing.T) {
	tests := []struct{ total, want int }{
		{13, 0},
		{24, 0},
		{25, 0},
		{26, 1},
		{27, 1},
		{28, 2},
		{30, 3},
	}
	for _, tt := range tests {
		if got := CompletedOvertimePeriods(tt.total, RegulationRounds); got != tt.want {
			t.Errorf("CompletedOvertimePeriods(%d) = %d, want %d", tt.total, got, tt.want)
		}
	}
}
