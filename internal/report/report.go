package report

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/pable/go-val-metrics/internal/model"
)

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))
}

// PrintMatchSummary prints a one-line summary header for the match.
func PrintMatchSummary(w io.Writer, m *model.MatchResult, seasonID string) {
	t1, t2 := m.Score()
	date := "—"
	if !m.StartTime.IsZero() {
		date = m.StartTime.UTC().Format("2006-01-02 15:04")
	}
	fmt.Fprintf(w, "\nMap: %s  |  Date: %s  |  Mode: %s  |  Season: %s  |  Score: Team1 %d – Team2 %d  |  Match: %s\n\n",
		m.Map, date, m.GameMode, seasonID, t1, t2, m.MatchID)
}

// PrintPlayerTable prints one row per player record, Team1 first, each team
// ordered by ACS. If focus is non-empty, that player's row is marked with ">".
func PrintPlayerTable(w io.Writer, records []model.MatchStatRecord, focus string) {
	rows := make([]model.MatchStatRecord, len(records))
	copy(rows, records)
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Team != rows[j].Team {
			return rows[i].Team < rows[j].Team
		}
		return rows[i].ACS > rows[j].ACS
	})

	table := newTable(w)
	table.Header(
		" ", "NAME", "TEAM", "AGENT", "ACS", "K", "D", "A", "+/-", "KAST%", "HS%",
		"ADR", "DDΔ", "FK", "FD", "TRADE", "TRADED", "ATK", "DEF",
	)
	for _, r := range rows {
		marker := " "
		if focus != "" && r.PUUID == focus {
			marker = ">"
		}
		table.Append(
			marker,
			r.Name,
			string(r.Team),
			r.Agent,
			strconv.Itoa(r.ACS),
			strconv.Itoa(r.Kills),
			strconv.Itoa(r.Deaths),
			strconv.Itoa(r.Assists),
			signed(r.KDADiff),
			fmt.Sprintf("%d%%", r.KAST),
			fmt.Sprintf("%d%%", r.HSPercentage),
			strconv.Itoa(r.ADR),
			signed(r.DamageDelta),
			strconv.Itoa(r.FirstBloods),
			strconv.Itoa(r.FirstDeaths),
			strconv.Itoa(r.Trades),
			strconv.Itoa(r.Traded),
			strconv.Itoa(r.AttackRounds),
			strconv.Itoa(r.DefenseRounds),
		)
	}
	table.Render()
}

// PrintTeamTable prints the round-win breakdown of both teams.
func PrintTeamTable(w io.Writer, teams [2]model.TeamSummary) {
	table := newTable(w)
	table.Header("TEAM", "RESULT", "STARTED AS", "ATK", "DEF", "OT", "TOTAL")
	for _, t := range teams {
		result := "L"
		if t.Won {
			result = "W"
		}
		table.Append(
			string(t.Slot),
			result,
			t.Pick,
			strconv.Itoa(t.RoundsWon.Atk),
			strconv.Itoa(t.RoundsWon.Def),
			strconv.Itoa(t.RoundsWon.Overtime),
			strconv.Itoa(t.RoundsWon.Total),
		)
	}
	table.Render()
}

// PrintRoundTable prints the per-round win conditions.
func PrintRoundTable(w io.Writer, rounds []model.RoundWinCondition) {
	table := newTable(w)
	table.Header("RND", "WINNER", "SIDE", "RESULT", "SITE", "FIRST KILL", "FIRST DEATH", "CEREMONY", "OT")
	for _, r := range rounds {
		ot := ""
		if r.IsOvertime {
			ot = "*"
		}
		table.Append(
			strconv.Itoa(r.Round),
			string(r.WinningTeam),
			r.RoundType,
			r.Result,
			orDash(r.Site),
			refName(r.FirstKill),
			refName(r.FirstDeath),
			r.Ceremony,
			ot,
		)
	}
	table.Render()
}

// PrintMatchList prints stored match summaries.
func PrintMatchList(w io.Writer, matches []model.MatchSummary) {
	table := newTable(w)
	table.Header("MATCH", "SEASON", "DATE", "MAP", "MODE", "SCORE")
	for _, m := range matches {
		table.Append(
			m.MatchID,
			m.SeasonID,
			orDash(m.StartedAt),
			m.MapName,
			m.Queue,
			fmt.Sprintf("%d–%d", m.Team1Score, m.Team2Score),
		)
	}
	table.Render()
}

// PrintProfile prints a player's career section and every season section.
func PrintProfile(w io.Writer, p *model.PlayerProfile) {
	fmt.Fprintf(w, "\nPlayer: %s  |  PUUID: %s  |  Updated: %s\n\n",
		p.CurrentName, p.ID, p.LastUpdated.UTC().Format("2006-01-02 15:04"))

	seasons := make([]string, 0, len(p.Seasons))
	for id := range p.Seasons {
		seasons = append(seasons, id)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(seasons)))

	table := newTable(w)
	table.Header(sectionHeader("SCOPE")...)
	table.Append(sectionRow("career", p.OverallStats)...)
	for _, id := range seasons {
		table.Append(sectionRow(id, p.Seasons[id])...)
	}
	table.Render()
}

// PrintAgentTable prints per-agent sections ordered by games played.
func PrintAgentTable(w io.Writer, agents model.AgentStats) {
	names := make([]string, 0, len(agents))
	for name := range agents {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		gi, gj := agents[names[i]].Games.Total(), agents[names[j]].Games.Total()
		if gi != gj {
			return gi > gj
		}
		return names[i] < names[j]
	})

	table := newTable(w)
	table.Header(sectionHeader("AGENT")...)
	for _, name := range names {
		table.Append(sectionRow(name, agents[name])...)
	}
	table.Render()
}

func sectionHeader(first string) []any {
	return []any{first, "GAMES", "W-L", "WIN%", "RND%", "ACS", "KAST%", "ADR", "HS%", "DDΔ", "K", "D", "A", "+/-", "FK-FD", "TRADES"}
}

func sectionRow(label string, s model.StatsSection) []any {
	return []any{
		label,
		strconv.Itoa(s.Games.Total()),
		fmt.Sprintf("%d-%d", s.Games.Won, s.Games.Lost),
		fmt.Sprintf("%.0f%%", s.Games.Percentage),
		fmt.Sprintf("%.0f%%", s.Rounds.Percentage),
		fmt.Sprintf("%.1f", s.AvgACS),
		fmt.Sprintf("%.0f%%", s.AvgKAST),
		fmt.Sprintf("%.1f", s.AvgADR),
		fmt.Sprintf("%.0f%%", s.AvgHSPercentage),
		fmt.Sprintf("%+.1f", s.AvgDamageDelta),
		strconv.Itoa(s.TotalKills),
		strconv.Itoa(s.TotalDeaths),
		strconv.Itoa(s.TotalAssists),
		signed(s.TotalKDADiff),
		signed(s.TotalFKFDDiff),
		fmt.Sprintf("%d/%d", s.TotalTrades, s.TotalTraded),
	}
}

// PrintPlayerMatches prints a player's recent match lines.
func PrintPlayerMatches(w io.Writer, rows []model.PlayerMatchRow) {
	table := newTable(w)
	table.Header("MATCH", "SEASON", "DATE", "MAP", "AGENT", "RESULT", "ACS", "K/D/A", "KAST%", "ADR")
	for _, r := range rows {
		result := "L"
		if r.MatchWon {
			result = "W"
		}
		table.Append(
			shortID(r.MatchID),
			r.SeasonID,
			orDash(r.StartedAt),
			r.MapName,
			r.Agent,
			result,
			strconv.Itoa(r.ACS),
			fmt.Sprintf("%d/%d/%d", r.Kills, r.Deaths, r.Assists),
			fmt.Sprintf("%d%%", r.KAST),
			strconv.Itoa(r.ADR),
		)
	}
	table.Render()
}

// PrintPlayerList prints the players leaderboard in the given order.
func PrintPlayerList(w io.Writer, players []model.PlayerListing) {
	table := newTable(w)
	table.Header("#", "NAME", "PUUID", "GAMES", "WIN%", "ACS", "KAST%", "ADR")
	for i, p := range players {
		table.Append(
			strconv.Itoa(i+1),
			p.Name,
			shortID(p.PUUID),
			strconv.Itoa(p.Games),
			fmt.Sprintf("%.0f%%", p.WinPct),
			fmt.Sprintf("%.1f", p.AvgACS),
			fmt.Sprintf("%.0f%%", p.AvgKAST),
			fmt.Sprintf("%.1f", p.AvgADR),
		)
	}
	table.Render()
}

// PrintSeasons prints the seasons with their match counts.
func PrintSeasons(w io.Writer, seasons []model.SeasonSummary) {
	table := newTable(w)
	table.Header("SEASON", "MATCHES")
	for _, s := range seasons {
		table.Append(s.SeasonID, strconv.Itoa(s.MatchCount))
	}
	table.Render()
}

// PrintRows prints an arbitrary result set followed by its row count.
func PrintRows(w io.Writer, cols []string, rows [][]string) {
	table := newTable(w)
	table.Header(toAny(cols)...)
	for _, row := range rows {
		table.Append(toAny(row)...)
	}
	table.Render()
	fmt.Fprintf(w, "\n(%d rows)\n", len(rows))
}

func toAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

func signed(v int) string {
	if v > 0 {
		return "+" + strconv.Itoa(v)
	}
	return strconv.Itoa(v)
}

func orDash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}

func refName(r *model.PlayerRef) string {
	if r == nil {
		return "—"
	}
	return r.Name
}

func shortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}
